package cli

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
	"strings"
)

// fzfCommandList renders one "name: description" line per command.
func fzfCommandList(commands []CommandSpec) string {
	var b strings.Builder
	for _, c := range commands {
		fmt.Fprintf(&b, "%s: %s\n", c.Name, c.Description)
	}
	return b.String()
}

// parseFzfSelection returns the command name from an fzf output line.
func parseFzfSelection(selection string) (string, error) {
	selection = strings.TrimSpace(selection)
	name, _, _ := strings.Cut(selection, ":")
	if name = strings.TrimSpace(name); name == "" {
		return "", fmt.Errorf("no command selected")
	}
	return name, nil
}

// SelectCommandWithFzf displays commands in fzf and returns the selected name.
func SelectCommandWithFzf(commands []CommandSpec) (string, error) {
	cmd := exec.Command("fzf", "--prompt=Command> ")
	cmd.Stdin = strings.NewReader(fzfCommandList(commands))
	cmd.Stderr = os.Stderr

	var out bytes.Buffer
	cmd.Stdout = &out

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("error running fzf: %w", err)
	}
	return parseFzfSelection(out.String())
}

// fzfPreviewCommand picks a renderer chain for fzf's --preview pane based on
// the same terminal detection the Previewer uses. chafa is always the last
// fallback.
func (p *Previewer) fzfPreviewCommand() string {
	const chafa = "chafa --fill=block --symbols=block -s 80x40 {} 2>/dev/null"
	switch {
	case p.isKitty():
		return "printf \"\\x1b_Ga=d\\x1b\\\\\"; kitty +kitten icat --silent {} 2>/dev/null || " + chafa
	case p.isInlineImageCapable():
		return "imgcat {} 2>/dev/null || " + chafa
	case p.isSixelCapable():
		return "img2sixel {} 2>/dev/null || " + chafa
	default:
		return chafa
	}
}

// SelectFileWithFzf pipes the images found under startDir into fzf and
// returns the chosen path. It needs bash, find and fzf on PATH.
func (p *Previewer) SelectFileWithFzf(startDir string) (string, error) {
	var globs []string
	for _, ext := range []string{"png", "jpg", "jpeg", "gif", "bmp", "tif", "tiff"} {
		globs = append(globs, "-iname '*."+ext+"'")
	}
	cmdStr := fmt.Sprintf(
		"find %s -type f \\( %s \\) | fzf --height 100%% --border --prompt='Files> ' --ansi --preview=%q --preview-window='right:60%%'",
		strconv.Quote(startDir),
		strings.Join(globs, " -o "),
		p.fzfPreviewCommand(),
	)
	cmd := exec.Command("bash", "-lc", cmdStr)
	cmd.Stderr = os.Stderr

	var out bytes.Buffer
	cmd.Stdout = &out

	err := cmd.Run()
	// the preview pane may leave kitty images behind either way
	clearKittyImages(p.Out)
	if err != nil {
		return "", fmt.Errorf("error running fzf for files: %w", err)
	}

	selection := strings.TrimSpace(out.String())
	if selection == "" {
		return "", fmt.Errorf("no file selected")
	}
	return selection, nil
}

// clearKittyImages emits the kitty graphics "delete" control sequence.
// Terminals that don't understand it ignore it.
func clearKittyImages(w io.Writer) {
	if w == nil {
		return
	}
	fmt.Fprint(w, "\x1b_Ga=d\x1b\\")
}
