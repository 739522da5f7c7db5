// Registry of REPL commands. Help text, argument prompts, validation and
// the fzf picker all read from Commands, so add new commands here.

package cli

// ArgSpec describes a single argument for a command.
type ArgSpec struct {
	Name        string // human name
	Type        string // "int", "float", "enum", "color", "path", "string"
	Required    bool
	Default     string // textual default (for help only)
	Description string
	Options     []string // valid values when Type == "enum"
}

// CommandSpec defines a single command and its expected arguments.
type CommandSpec struct {
	Name        string
	Aliases     []string
	Args        []ArgSpec
	Usage       string // short usage string
	Description string // brief description
	NeedsImage  bool
}

var filterNames = []string{"grayscale", "sepia", "blur", "sharpen", "edge"}

// Commands is the authoritative list of REPL commands.
var Commands = []CommandSpec{
	{
		Name:        "open",
		Aliases:     []string{"o"},
		Args:        []ArgSpec{{Name: "path", Type: "path", Description: "image file; empty opens the fzf picker"}},
		Usage:       "open [path]",
		Description: "Open an image in the active tab, replacing its history.",
	},
	{
		Name:        "new",
		Args:        []ArgSpec{{Name: "path", Type: "path", Description: "image file to open in the new tab"}},
		Usage:       "new [path]",
		Description: "Open a new tab, optionally loading an image into it.",
	},
	{
		Name:        "save",
		Aliases:     []string{"s"},
		Args:        []ArgSpec{{Name: "path", Type: "path", Required: true, Description: "output file; extension picks the format (png, jpg, gif, bmp, tif, pdf)"}},
		Usage:       "save <path>",
		Description: "Save the current image.",
		NeedsImage:  true,
	},
	{
		Name:        "info",
		Usage:       "info",
		Description: "Show size, zoom, mode and history depth.",
		NeedsImage:  true,
	},
	{
		Name:        "tabs",
		Usage:       "tabs",
		Description: "List open tabs.",
	},
	{
		Name:        "tab",
		Args:        []ArgSpec{{Name: "id", Type: "string", Required: true, Description: "tab id or unique prefix"}},
		Usage:       "tab <id>",
		Description: "Switch to another tab.",
	},
	{
		Name:        "close",
		Args:        []ArgSpec{{Name: "id", Type: "string", Description: "tab id or prefix; defaults to the active tab"}},
		Usage:       "close [id]",
		Description: "Close a tab.",
	},
	{
		Name:        "viewport",
		Args:        []ArgSpec{{Name: "width", Type: "int", Required: true, Description: "container width"}, {Name: "height", Type: "int", Required: true, Description: "container height"}},
		Usage:       "viewport <width> <height>",
		Description: "Set the container size pointer coordinates refer to.",
	},
	{
		Name:        "zoom",
		Args:        []ArgSpec{{Name: "level", Type: "string", Required: true, Description: "in, out, reset, fit or a factor such as 0.5"}},
		Usage:       "zoom <in|out|reset|fit|factor>",
		Description: "Change the display zoom.",
		NeedsImage:  true,
	},
	{
		Name:        "crop",
		Args:        []ArgSpec{{Name: "width", Type: "int", Required: true, Description: "crop width"}, {Name: "height", Type: "int", Required: true, Description: "crop height"}, {Name: "x", Type: "int", Required: true, Description: "x offset"}, {Name: "y", Type: "int", Required: true, Description: "y offset"}},
		Usage:       "crop <width> <height> <x> <y>",
		Description: "Crop to a rectangle given in image pixels.",
		NeedsImage:  true,
	},
	{
		Name:        "cropmode",
		Usage:       "cropmode",
		Description: "Arm a crop drag: the next down/up pair selects the region in viewport coordinates.",
		NeedsImage:  true,
	},
	{
		Name:        "draw",
		Usage:       "draw",
		Description: "Toggle drawing mode. Leaving it paints every stroke as one edit.",
		NeedsImage:  true,
	},
	{
		Name:        "exit",
		Usage:       "exit",
		Description: "Leave the current mode.",
		NeedsImage:  true,
	},
	{
		Name:        "down",
		Args:        []ArgSpec{{Name: "x", Type: "int", Required: true}, {Name: "y", Type: "int", Required: true}},
		Usage:       "down <x> <y>",
		Description: "Pointer press at a viewport position.",
		NeedsImage:  true,
	},
	{
		Name:        "move",
		Args:        []ArgSpec{{Name: "x", Type: "int", Required: true}, {Name: "y", Type: "int", Required: true}},
		Usage:       "move <x> <y>",
		Description: "Pointer motion to a viewport position.",
		NeedsImage:  true,
	},
	{
		Name:        "up",
		Args:        []ArgSpec{{Name: "x", Type: "int", Required: true}, {Name: "y", Type: "int", Required: true}},
		Usage:       "up <x> <y>",
		Description: "Pointer release at a viewport position.",
		NeedsImage:  true,
	},
	{
		Name:        "drag",
		Args:        []ArgSpec{{Name: "x0", Type: "int", Required: true}, {Name: "y0", Type: "int", Required: true}, {Name: "x1", Type: "int", Required: true}, {Name: "y1", Type: "int", Required: true}},
		Usage:       "drag <x0> <y0> <x1> <y1>",
		Description: "Press, move and release in one step.",
		NeedsImage:  true,
	},
	{
		Name:        "resize",
		Args:        []ArgSpec{{Name: "width", Type: "int", Required: true, Description: "output width"}, {Name: "height", Type: "int", Required: true, Description: "output height"}},
		Usage:       "resize <width> <height>",
		Description: "Resize image using Lanczos resampling.",
		NeedsImage:  true,
	},
	{
		Name:        "rotate",
		Args:        []ArgSpec{{Name: "degrees", Type: "float", Required: true, Description: "clockwise rotation"}},
		Usage:       "rotate <degrees>",
		Description: "Rotate clockwise; other than multiples of 90 the canvas grows.",
		NeedsImage:  true,
	},
	{
		Name:        "fliph",
		Aliases:     []string{"flop"},
		Usage:       "fliph",
		Description: "Horizontal flip.",
		NeedsImage:  true,
	},
	{
		Name:        "flipv",
		Aliases:     []string{"flip"},
		Usage:       "flipv",
		Description: "Vertical flip.",
		NeedsImage:  true,
	},
	{
		Name: "adjust",
		Args: []ArgSpec{
			{Name: "brightness", Type: "float", Required: true, Default: "1", Description: "0 is black, 1 unchanged"},
			{Name: "contrast", Type: "float", Required: true, Default: "1", Description: "0 is flat gray, 1 unchanged"},
			{Name: "saturation", Type: "float", Required: true, Default: "1", Description: "0 is grayscale, 1 unchanged"},
		},
		Usage:       "adjust <brightness> <contrast> <saturation>",
		Description: "Apply brightness, contrast and saturation factors.",
		NeedsImage:  true,
	},
	{
		Name:        "filter",
		Args:        []ArgSpec{{Name: "name", Type: "enum", Required: true, Options: filterNames, Description: "grayscale, sepia, blur, sharpen or edge"}},
		Usage:       "filter <name>",
		Description: "Apply a built-in filter.",
		NeedsImage:  true,
	},
	{
		Name:        "brush",
		Args:        []ArgSpec{{Name: "color", Type: "color", Description: "name, #rrggbb or r,g,b"}, {Name: "width", Type: "int", Description: "stroke width in pixels"}},
		Usage:       "brush [color] [width]",
		Description: "Show or change the drawing brush.",
	},
	{
		Name:        "undo",
		Aliases:     []string{"z"},
		Usage:       "undo",
		Description: "Undo the last edit.",
		NeedsImage:  true,
	},
	{
		Name:        "redo",
		Aliases:     []string{"y"},
		Usage:       "redo",
		Description: "Redo the last undone edit.",
		NeedsImage:  true,
	},
	{
		Name:        "histogram",
		Args:        []ArgSpec{{Name: "out", Type: "path", Description: "optional PNG to write the chart to"}},
		Usage:       "histogram [out]",
		Description: "Summarize the RGB histogram and optionally save a chart.",
		NeedsImage:  true,
	},
	{
		Name:        "layers",
		Usage:       "layers",
		Description: "Layer editing (not available yet).",
	},
	{
		Name:        "preview",
		Aliases:     []string{"p"},
		Usage:       "preview",
		Description: "Show the zoomed image in the terminal.",
		NeedsImage:  true,
	},
	{
		Name:        "update",
		Aliases:     []string{"u"},
		Usage:       "update",
		Description: "Check GitHub for a newer release.",
	},
	{
		Name:        "help",
		Aliases:     []string{"h", "?"},
		Args:        []ArgSpec{{Name: "command", Type: "string"}},
		Usage:       "help [command]",
		Description: "List commands or describe one.",
	},
	{
		Name:        "quit",
		Aliases:     []string{"q"},
		Usage:       "quit",
		Description: "Exit the editor.",
	},
}
