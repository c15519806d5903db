// Package bitstream inspects FPGA bitstream files before they are
// handed to the kernel for programming.
package bitstream

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"golang.org/x/crypto/blake2b"

	"github.com/fpgad-project/fpgad-go/pkg/fpgaerr"
)

// Info describes a bitstream file on disk.
type Info struct {
	Path   string
	Size   int64
	Digest string // hex BLAKE2b-256
}

// Inspect stats and hashes the bitstream at path.
func Inspect(path string) (Info, error) {
	f, err := os.Open(path)
	if err != nil {
		return Info{}, fpgaerr.IORead(path, err)
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return Info{}, fpgaerr.IORead(path, err)
	}

	h, err := blake2b.New256(nil)
	if err != nil {
		return Info{}, fpgaerr.Internalf("creating digest: %v", err)
	}
	if _, err := io.Copy(h, f); err != nil {
		return Info{}, fpgaerr.IORead(path, err)
	}

	return Info{
		Path:   path,
		Size:   st.Size(),
		Digest: hex.EncodeToString(h.Sum(nil)),
	}, nil
}

// Verify checks that the bitstream at path has the expected hex
// BLAKE2b-256 digest.
func Verify(path, wantDigest string) error {
	info, err := Inspect(path)
	if err != nil {
		return err
	}
	if info.Digest != wantDigest {
		return fpgaerr.Argumentf(
			"bitstream %q digest mismatch: want %s, have %s", path, wantDigest, info.Digest)
	}
	return nil
}

// String renders the info as a single human-readable line.
func (i Info) String() string {
	return fmt.Sprintf("%s %d bytes blake2b-256=%s", i.Path, i.Size, i.Digest)
}
