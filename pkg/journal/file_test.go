package journal

import (
	"io"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/fpgad-project/fpgad-go/pkg/wire"
)

func readAll(t *testing.T, path string) []Entry {
	t.Helper()
	r, err := NewReader(path)
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}
	defer r.Close()

	var entries []Entry
	for {
		e, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		entries = append(entries, e)
	}
	return entries
}

func TestFileRecorderRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ops.journal")

	rec, err := NewFileRecorder(path)
	if err != nil {
		t.Fatalf("NewFileRecorder: %v", err)
	}

	base := time.Unix(1700000000, 0).UTC()
	for i := uint32(1); i <= 3; i++ {
		rec.Record(Entry{
			Timestamp: base.Add(time.Duration(i) * time.Second),
			MessageID: i,
			Method:    wire.MethodGetFpgaState,
			Device:    "fpga0",
			Status:    wire.StatusOK,
			Result:    "operating",
		})
	}
	if err := rec.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	entries := readAll(t, path)
	if len(entries) != 3 {
		t.Fatalf("read %d entries, want 3", len(entries))
	}
	for i, e := range entries {
		if e.MessageID != uint32(i+1) {
			t.Errorf("entry %d: MessageID = %d, want %d", i, e.MessageID, i+1)
		}
		if e.Result != "operating" {
			t.Errorf("entry %d: Result = %q, want %q", i, e.Result, "operating")
		}
	}
}

func TestFileRecorderAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ops.journal")

	for run := 0; run < 2; run++ {
		rec, err := NewFileRecorder(path)
		if err != nil {
			t.Fatalf("NewFileRecorder: %v", err)
		}
		rec.Record(Entry{Timestamp: time.Now(), Method: wire.MethodGetOverlays, Status: wire.StatusOK})
		if err := rec.Close(); err != nil {
			t.Fatalf("Close: %v", err)
		}
	}

	if got := len(readAll(t, path)); got != 2 {
		t.Errorf("read %d entries after two runs, want 2", got)
	}
}

func TestFileRecorderAfterClose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ops.journal")

	rec, err := NewFileRecorder(path)
	if err != nil {
		t.Fatalf("NewFileRecorder: %v", err)
	}
	rec.Record(Entry{Timestamp: time.Now(), Method: wire.MethodGetFpgaState, Status: wire.StatusOK})
	if err := rec.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	// Dropped silently, and Close stays idempotent.
	rec.Record(Entry{Timestamp: time.Now(), Method: wire.MethodGetFpgaFlags, Status: wire.StatusOK})
	if err := rec.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}

	if got := len(readAll(t, path)); got != 1 {
		t.Errorf("read %d entries, want 1", got)
	}
}

func TestFileRecorderConcurrent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ops.journal")

	rec, err := NewFileRecorder(path)
	if err != nil {
		t.Fatalf("NewFileRecorder: %v", err)
	}

	const goroutines = 4
	const perGoroutine = 25

	var wg sync.WaitGroup
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perGoroutine; i++ {
				rec.Record(Entry{
					Timestamp: time.Now(),
					Method:    wire.MethodGetFpgaState,
					Device:    "fpga0",
					Status:    wire.StatusOK,
				})
			}
		}()
	}
	wg.Wait()
	if err := rec.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	if got := len(readAll(t, path)); got != goroutines*perGoroutine {
		t.Errorf("read %d entries, want %d", got, goroutines*perGoroutine)
	}
}

func TestNewFileRecorderBadPath(t *testing.T) {
	if _, err := NewFileRecorder(filepath.Join(t.TempDir(), "missing", "ops.journal")); err == nil {
		t.Error("NewFileRecorder succeeded for a path in a missing directory")
	}
}
