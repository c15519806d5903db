package journal

import (
	"io"
	"os"
	"time"

	"github.com/fxamacker/cbor/v2"

	"github.com/fpgad-project/fpgad-go/pkg/wire"
)

// Filter specifies criteria for reading journal entries. Empty/nil
// fields match all entries for that criterion.
type Filter struct {
	// Method filters by the invoked method.
	Method *wire.Method

	// Device filters by exact device handle.
	Device string

	// Overlay filters by exact overlay handle.
	Overlay string

	// FailuresOnly keeps only entries whose status is not OK.
	FailuresOnly bool

	// TimeStart keeps entries at or after this time.
	TimeStart *time.Time

	// TimeEnd keeps entries before this time.
	TimeEnd *time.Time
}

func (f *Filter) matches(entry Entry) bool {
	if f.Method != nil && entry.Method != *f.Method {
		return false
	}
	if f.Device != "" && entry.Device != f.Device {
		return false
	}
	if f.Overlay != "" && entry.Overlay != f.Overlay {
		return false
	}
	if f.FailuresOnly && entry.Status == wire.StatusOK {
		return false
	}
	if f.TimeStart != nil && entry.Timestamp.Before(*f.TimeStart) {
		return false
	}
	if f.TimeEnd != nil && !entry.Timestamp.Before(*f.TimeEnd) {
		return false
	}
	return true
}

// Reader streams entries from a CBOR journal file.
type Reader struct {
	file    *os.File
	decoder *cbor.Decoder
	filter  Filter
}

// NewReader creates a Reader over all entries in the journal file.
func NewReader(path string) (*Reader, error) {
	return NewFilteredReader(path, Filter{})
}

// NewFilteredReader creates a Reader that yields entries matching the
// filter.
func NewFilteredReader(path string, filter Filter) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	return &Reader{
		file:    f,
		decoder: NewDecoder(f),
		filter:  filter,
	}, nil
}

// Next returns the next matching entry, or io.EOF when no more
// entries are available.
func (r *Reader) Next() (Entry, error) {
	for {
		var entry Entry
		if err := r.decoder.Decode(&entry); err != nil {
			if err == io.EOF {
				return Entry{}, io.EOF
			}
			return Entry{}, err
		}
		if r.filter.matches(entry) {
			return entry, nil
		}
	}
}

// Close closes the underlying file.
func (r *Reader) Close() error {
	return r.file.Close()
}
