// Package help holds the command registry and renders it as terminal help
// and man pages.
package help

import "strings"

// Version is the gsplit release version, set at build time via -ldflags.
// Defaults to "dev" when built without version injection (e.g. `go run`).
var Version = "dev"

// Flag describes a command-line flag.
type Flag struct {
	Name string // e.g. "-s/--split-at <int>"
	Desc string
}

// Arg describes a positional argument.
type Arg struct {
	Name     string
	Desc     string
	Optional bool
}

// Command describes a gsplit subcommand (or the top-level binary when Name
// is "").
type Command struct {
	Name        string // "split", "info", etc; "" for top-level
	Synopsis    string // one-line description (lowercase, for --help header)
	Brief       string // short description for usage table (capitalized)
	Usage       string // full usage line
	Args        []Arg
	Flags       []Flag
	Description string   // multi-line prose
	Examples    []string // one per line
	SeeAlso     []string // man page cross-refs, e.g. "gsplit(1)"
}

// ManName returns the man page name: "gsplit" for top-level,
// "gsplit-<name>" for subcommands.
func (c Command) ManName() string {
	if c.Name == "" {
		return "gsplit"
	}
	return "gsplit-" + strings.ReplaceAll(c.Name, " ", "-")
}

// TopLevel is the top-level gsplit command (used by FormatUsage).
var TopLevel = Command{
	Name:     "",
	Synopsis: "split sliced G-code at a layer boundary",
}

var CmdSplit = Command{
	Name:     "split",
	Synopsis: "split one G-code file into two printable files",
	Brief:    "Split a G-code file at a layer",
	Usage:    "gsplit split <file.gcode> -s <layer> [--keep-skirt]",
	Args: []Arg{
		{Name: "file.gcode", Desc: "Sliced G-code input (.gcode, .gcode.gz or .gcode.zst)"},
	},
	Flags: []Flag{
		{Name: "-s, --split-at <int>", Desc: "Last layer index included in the first output (required)"},
		{Name: "--keep-skirt", Desc: "Duplicate skirt segments into both outputs"},
	},
	Description: `Splits the input at the given layer boundary into two files that each
print standalone. Machine start/end sequences are kept in both outputs.
Layers above the boundary lose their motion in the first file; the second
file opens the printed part with synthetic instructions pinning the
extruder position and nozzle height the omitted layers left behind, so
neither file under- or over-extrudes.`,
	Examples: []string{
		"gsplit split benchy.gcode -s 0",
		"gsplit split benchy.gcode --split-at 12 --keep-skirt",
	},
	SeeAlso: []string{"gsplit(1)", "gsplit-info(1)"},
}

var CmdInfo = Command{
	Name:     "info",
	Synopsis: "show layer and extrusion statistics for a G-code file",
	Brief:    "Show file statistics",
	Usage:    "gsplit info <file.gcode>",
	Args: []Arg{
		{Name: "file.gcode", Desc: "Sliced G-code input"},
	},
	Description: `Parses the file without writing anything and prints segment, layer,
feature-type and filament statistics.`,
	Examples: []string{
		"gsplit info benchy.gcode",
	},
	SeeAlso: []string{"gsplit(1)", "gsplit-split(1)"},
}

var CmdWatch = Command{
	Name:     "watch",
	Synopsis: "watch a directory and split new G-code files",
	Brief:    "Watch a directory for new files",
	Usage:    "gsplit watch <dir>",
	Args: []Arg{
		{Name: "dir", Desc: "Directory to watch for sliced G-code files"},
	},
	Description: `Watches the directory and splits every new G-code file at the layer
configured under [watch] in the config file. Files are picked up once
they stop growing; gsplit's own outputs are ignored.`,
	Examples: []string{
		"gsplit watch ~/prints/incoming",
	},
	SeeAlso: []string{"gsplit(1)", "gsplit-split(1)"},
}

var CmdHistory = Command{
	Name:     "history",
	Synopsis: "list recent splits",
	Brief:    "List recent splits",
	Usage:    "gsplit history [-n <count>]",
	Flags: []Flag{
		{Name: "-n <count>", Desc: "Number of entries to show (default 10)"},
	},
	SeeAlso: []string{"gsplit(1)"},
}

var CmdCheck = Command{
	Name:     "check",
	Synopsis: "verify configuration and environment",
	Brief:    "Verify configuration and environment",
	Usage:    "gsplit check",
	SeeAlso:  []string{"gsplit(1)"},
}

// All lists every subcommand in display order.
var All = []Command{CmdSplit, CmdInfo, CmdWatch, CmdHistory, CmdCheck}

// Lookup finds a subcommand by name.
func Lookup(name string) (Command, bool) {
	for _, c := range All {
		if c.Name == name {
			return c, true
		}
	}
	return Command{}, false
}
