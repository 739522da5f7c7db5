package cli

import (
	"fmt"
	"io"
	"strings"
)

// PromptLine displays a prompt and reads a full line of input.
// The returned string is trimmed of surrounding whitespace.
func (r *REPL) PromptLine(prompt string) (string, error) {
	fmt.Fprint(r.out, prompt)
	line, err := r.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// PromptLineOrFzf reads a line and treats a lone "/" as a request for the
// fzf file picker. If fzf is unavailable or cancelled the prompt is shown
// again for typed input. Whole lines are read so paths may contain spaces.
func (r *REPL) PromptLineOrFzf(prompt string) (string, error) {
	input, err := r.PromptLine(prompt)
	if err != nil || input != "/" {
		return input, err
	}
	sel, selErr := r.preview.SelectFileWithFzf(".")
	if selErr == nil && sel != "" {
		fmt.Fprintf(r.out, " [fzf] %s\n", sel)
		return sel, nil
	}
	return r.PromptLine(prompt)
}

// Confirm asks a y/N question.
func (r *REPL) Confirm(question string) (bool, error) {
	answer, err := r.PromptLine(question)
	if err != nil {
		return false, err
	}
	answer = strings.ToLower(answer)
	return answer == "y" || answer == "yes", nil
}
