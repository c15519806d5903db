package journal

import (
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"
)

// encMode is the CBOR encoder mode for journal entries. Deterministic
// encoding with RFC3339Nano timestamps.
var encMode cbor.EncMode

// decMode is the CBOR decoder mode for journal entries.
var decMode cbor.DecMode

func init() {
	var err error

	encOpts := cbor.EncOptions{
		Sort:          cbor.SortCanonical,
		IndefLength:   cbor.IndefLengthForbidden,
		NilContainers: cbor.NilContainerAsNull,
		Time:          cbor.TimeRFC3339Nano,
	}
	encMode, err = encOpts.EncMode()
	if err != nil {
		panic(fmt.Sprintf("failed to create journal CBOR encoder mode: %v", err))
	}

	decOpts := cbor.DecOptions{
		DupMapKey:         cbor.DupMapKeyQuiet,
		IndefLength:       cbor.IndefLengthAllowed,
		ExtraReturnErrors: cbor.ExtraDecErrorNone,
	}
	decMode, err = decOpts.DecMode()
	if err != nil {
		panic(fmt.Sprintf("failed to create journal CBOR decoder mode: %v", err))
	}
}

// EncodeEntry encodes an Entry to CBOR bytes.
func EncodeEntry(entry Entry) ([]byte, error) {
	return encMode.Marshal(entry)
}

// DecodeEntry decodes CBOR bytes into an Entry.
func DecodeEntry(data []byte) (Entry, error) {
	var entry Entry
	if err := decMode.Unmarshal(data, &entry); err != nil {
		return Entry{}, err
	}
	return entry, nil
}

// NewEncoder creates a CBOR encoder for journal entries writing to w.
func NewEncoder(w io.Writer) *cbor.Encoder {
	return encMode.NewEncoder(w)
}

// NewDecoder creates a CBOR decoder for journal entries reading from r.
func NewDecoder(r io.Reader) *cbor.Decoder {
	return decMode.NewDecoder(r)
}
