package commands

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRunExportJSONL(t *testing.T) {
	path := writeTestJournal(t)
	out := filepath.Join(t.TempDir(), "out.jsonl")

	if err := RunExport(path, "jsonl", out); err != nil {
		t.Fatalf("RunExport: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d JSONL lines, want 3", len(lines))
	}
	for i, line := range lines {
		var obj map[string]any
		if err := json.Unmarshal([]byte(line), &obj); err != nil {
			t.Errorf("line %d is not valid JSON: %v", i, err)
		}
	}
}

func TestRunExportCSV(t *testing.T) {
	path := writeTestJournal(t)
	out := filepath.Join(t.TempDir(), "out.csv")

	if err := RunExport(path, "csv", out); err != nil {
		t.Fatalf("RunExport: %v", err)
	}

	f, err := os.Open(out)
	if err != nil {
		t.Fatalf("opening output: %v", err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("parsing CSV: %v", err)
	}
	if len(records) != 4 {
		t.Fatalf("got %d CSV records, want 4 (header + 3 rows)", len(records))
	}
	if records[0][0] != "timestamp" || records[0][2] != "method" {
		t.Errorf("unexpected header: %v", records[0])
	}
	if records[1][2] != "WriteBitstreamDirect" || records[1][3] != "fpga0" {
		t.Errorf("unexpected first row: %v", records[1])
	}
	if records[2][6] != "FAILED" {
		t.Errorf("second row status = %q, want FAILED", records[2][6])
	}
}

func TestRunExportUnknownFormat(t *testing.T) {
	path := writeTestJournal(t)
	if err := RunExport(path, "xml", ""); err == nil {
		t.Error("RunExport accepted unknown format")
	}
}
