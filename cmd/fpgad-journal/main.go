// Command fpgad-journal is a tool for viewing and analyzing fpgad
// operations journal files.
//
// Journal files are created by fpgad when the journal_path
// configuration option is set.
//
// Usage:
//
//	fpgad-journal <command> [flags] <file.journal>
//
// Commands:
//
//	view     View journal entries in human-readable format
//	export   Export journal to JSON or CSV format
//	stats    Show statistics about the journal
//
// Examples:
//
//	# View all entries
//	fpgad-journal view /var/log/fpgad/ops.journal
//
//	# View only bitstream loads for fpga0
//	fpgad-journal view -method WriteBitstreamDirect -device fpga0 ops.journal
//
//	# View only failed operations
//	fpgad-journal view -failures ops.journal
//
//	# Export to JSONL
//	fpgad-journal export -format jsonl ops.journal
//
//	# Show statistics
//	fpgad-journal stats ops.journal
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/fpgad-project/fpgad-go/cmd/fpgad-journal/commands"
	"github.com/fpgad-project/fpgad-go/pkg/journal"
	"github.com/fpgad-project/fpgad-go/pkg/wire"
)

const usage = `fpgad-journal - fpgad Operations Journal Analyzer

Usage:
  fpgad-journal <command> [flags] <file.journal>

Commands:
  view     View journal entries in human-readable format
  export   Export journal to JSON or CSV format
  stats    Show statistics about the journal

Use "fpgad-journal <command> -help" for more information about a command.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "view":
		runView(args)
	case "export":
		runExport(args)
	case "stats":
		runStats(args)
	case "-h", "-help", "--help", "help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}
}

func runView(args []string) {
	fs := flag.NewFlagSet("view", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `fpgad-journal view - View journal entries in human-readable format

Usage:
  fpgad-journal view [flags] <file.journal>

Flags:
`)
		fs.PrintDefaults()
	}

	method := fs.String("method", "", "Filter by method name (e.g. WriteBitstreamDirect)")
	device := fs.String("device", "", "Filter by device handle")
	overlay := fs.String("overlay", "", "Filter by overlay handle")
	failures := fs.Bool("failures", false, "Show only failed operations")

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: journal file path required")
		fs.Usage()
		os.Exit(1)
	}

	filter := journal.Filter{
		Device:       *device,
		Overlay:      *overlay,
		FailuresOnly: *failures,
	}
	if *method != "" {
		m, err := parseMethod(*method)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		filter.Method = &m
	}

	if err := commands.RunView(fs.Arg(0), filter, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runExport(args []string) {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `fpgad-journal export - Export journal to JSON or CSV format

Usage:
  fpgad-journal export [flags] <file.journal>

Flags:
`)
		fs.PrintDefaults()
	}

	format := fs.String("format", "jsonl", "Output format: jsonl or csv")
	output := fs.String("o", "", "Output file (default stdout)")

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: journal file path required")
		fs.Usage()
		os.Exit(1)
	}

	if err := commands.RunExport(fs.Arg(0), *format, *output); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runStats(args []string) {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: journal file path required")
		os.Exit(1)
	}

	if err := commands.RunStats(fs.Arg(0), os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// parseMethod resolves a method name as printed by Method.String.
func parseMethod(name string) (wire.Method, error) {
	for m := wire.MethodSetFpgaFlags; m <= wire.MethodReadProperty; m++ {
		if m.String() == name {
			return m, nil
		}
	}
	return 0, fmt.Errorf("unknown method %q", name)
}
