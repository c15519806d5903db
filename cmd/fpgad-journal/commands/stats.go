package commands

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/fpgad-project/fpgad-go/pkg/journal"
	"github.com/fpgad-project/fpgad-go/pkg/wire"
)

// Stats holds aggregate statistics about a journal file.
type Stats struct {
	TotalEntries    int
	EntriesByMethod map[wire.Method]int
	EntriesByStatus map[wire.Status]int
	Devices         map[string]*DeviceStats
	Failures        int
	TimeRange       struct {
		Start time.Time
		End   time.Time
	}
}

// DeviceStats holds statistics for a single device handle.
type DeviceStats struct {
	FirstSeen time.Time
	LastSeen  time.Time
	Entries   int
	Loads     int
	Failures  int
}

// RunStats analyzes the journal file and prints statistics.
func RunStats(path string, w io.Writer) error {
	reader, err := journal.NewReader(path)
	if err != nil {
		return fmt.Errorf("failed to open journal: %w", err)
	}
	defer reader.Close()

	stats := &Stats{
		EntriesByMethod: make(map[wire.Method]int),
		EntriesByStatus: make(map[wire.Status]int),
		Devices:         make(map[string]*DeviceStats),
	}

	for {
		entry, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read entry: %w", err)
		}

		stats.TotalEntries++
		stats.EntriesByMethod[entry.Method]++
		stats.EntriesByStatus[entry.Status]++
		if entry.Status.IsError() {
			stats.Failures++
		}

		if stats.TimeRange.Start.IsZero() || entry.Timestamp.Before(stats.TimeRange.Start) {
			stats.TimeRange.Start = entry.Timestamp
		}
		if entry.Timestamp.After(stats.TimeRange.End) {
			stats.TimeRange.End = entry.Timestamp
		}

		if entry.Device != "" {
			dev, ok := stats.Devices[entry.Device]
			if !ok {
				dev = &DeviceStats{FirstSeen: entry.Timestamp, LastSeen: entry.Timestamp}
				stats.Devices[entry.Device] = dev
			}
			dev.Entries++
			if entry.Timestamp.After(dev.LastSeen) {
				dev.LastSeen = entry.Timestamp
			}
			if entry.Method == wire.MethodWriteBitstreamDirect {
				dev.Loads++
			}
			if entry.Status.IsError() {
				dev.Failures++
			}
		}
	}

	printStats(w, stats)
	return nil
}

func printStats(w io.Writer, stats *Stats) {
	fmt.Fprintln(w, "=== fpgad Operations Journal Statistics ===")
	fmt.Fprintln(w)

	if stats.TotalEntries > 0 {
		fmt.Fprintf(w, "Time Range: %s to %s\n",
			stats.TimeRange.Start.Format(time.RFC3339),
			stats.TimeRange.End.Format(time.RFC3339))
		fmt.Fprintf(w, "Duration:   %s\n", stats.TimeRange.End.Sub(stats.TimeRange.Start).Round(time.Second))
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Total Entries: %d\n", stats.TotalEntries)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Entries by Method:")
	for m := wire.MethodSetFpgaFlags; m <= wire.MethodReadProperty; m++ {
		if count := stats.EntriesByMethod[m]; count > 0 {
			fmt.Fprintf(w, "  %-22s %d\n", m.String()+":", count)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Entries by Status:")
	for _, s := range []wire.Status{wire.StatusOK, wire.StatusInvalidArguments, wire.StatusIOError, wire.StatusFailed} {
		if count := stats.EntriesByStatus[s]; count > 0 {
			fmt.Fprintf(w, "  %-22s %d\n", s.String()+":", count)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Devices: %d\n", len(stats.Devices))
	if len(stats.Devices) > 0 {
		handles := make([]string, 0, len(stats.Devices))
		for h := range stats.Devices {
			handles = append(handles, h)
		}
		sort.Strings(handles)

		fmt.Fprintln(w)
		for _, h := range handles {
			dev := stats.Devices[h]
			fmt.Fprintf(w, "  [%s] %d entries, %d loads\n", h, dev.Entries, dev.Loads)
			if dev.Failures > 0 {
				fmt.Fprintf(w, "           Failures: %d\n", dev.Failures)
			}
		}
	}

	if stats.Failures > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Failures: %d\n", stats.Failures)
	}
}
