// Package commands implements the fpgad-journal CLI commands.
package commands

import (
	"fmt"
	"io"

	"github.com/fpgad-project/fpgad-go/pkg/journal"
)

// RunView prints entries matching the filter in human-readable form.
func RunView(path string, filter journal.Filter, w io.Writer) error {
	reader, err := journal.NewFilteredReader(path, filter)
	if err != nil {
		return fmt.Errorf("failed to open journal: %w", err)
	}
	defer reader.Close()

	for {
		entry, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read entry: %w", err)
		}
		formatEntry(w, entry)
	}
	return nil
}

// formatEntry writes a human-readable representation of one entry.
func formatEntry(w io.Writer, entry journal.Entry) {
	ts := entry.Timestamp.UTC().Format("2006-01-02T15:04:05.000000Z")
	fmt.Fprintf(w, "%s [%d] %s %s\n", ts, entry.MessageID, entry.Method, entry.Status)

	if entry.Device != "" {
		fmt.Fprintf(w, "  Device: %s\n", entry.Device)
	}
	if entry.Overlay != "" {
		fmt.Fprintf(w, "  Overlay: %s\n", entry.Overlay)
	}
	if entry.Source != "" {
		fmt.Fprintf(w, "  Source: %s\n", entry.Source)
	}
	if entry.Result != "" {
		fmt.Fprintf(w, "  Result: %s\n", entry.Result)
	}
	if entry.Error != "" {
		fmt.Fprintf(w, "  Error: %s\n", entry.Error)
	}

	fmt.Fprintln(w)
}
