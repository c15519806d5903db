package journal

import (
	"os"
	"sync"

	"github.com/fxamacker/cbor/v2"
)

// FileRecorder appends entries to a file in CBOR format. It is safe
// for concurrent use from multiple goroutines.
type FileRecorder struct {
	file    *os.File
	encoder *cbor.Encoder
	mu      sync.Mutex
	closed  bool
}

// NewFileRecorder opens or creates the journal file at path. Existing
// entries are kept; new entries are appended. The file is created
// with mode 0644.
func NewFileRecorder(path string) (*FileRecorder, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}
	return &FileRecorder{
		file:    f,
		encoder: NewEncoder(f),
	}, nil
}

// Record appends one entry to the journal file.
func (r *FileRecorder) Record(entry Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return
	}

	// Encoding errors must not disrupt the operation being recorded.
	_ = r.encoder.Encode(entry)
}

// Close closes the journal file. It is safe to call Close multiple
// times; entries recorded after Close are silently dropped.
func (r *FileRecorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}

	r.closed = true
	return r.file.Close()
}

var _ Recorder = (*FileRecorder)(nil)
