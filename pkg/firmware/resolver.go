// Package firmware resolves bitstream and overlay source paths into the
// (search-prefix, relative-suffix) pair the kernel firmware loader
// needs, and writes the prefix to the global firmware search-path
// register.
//
// The kernel resolves a firmware name written to a trigger node against
// a configurable search-path prefix. Splitting a source path into
// prefix and suffix lets the daemon point the search path at the
// directory holding the artifact and hand the kernel the remainder.
package firmware

import (
	"path"
	"strings"

	"github.com/fpgad-project/fpgad-go/pkg/fpgaerr"
)

// ResolvePair splits sourcePath into a search-path prefix and a
// relative suffix.
//
// With an empty overridePrefix the prefix is the parent directory of
// sourcePath and the suffix its file name. With a non-empty
// overridePrefix, sourcePath must live under it; the suffix is the
// remainder with leading separators stripped.
//
// Joining the suffix onto the prefix always reconstructs sourcePath,
// and the suffix is never empty.
func ResolvePair(sourcePath, overridePrefix string) (prefix, suffix string, err error) {
	if sourcePath == "" {
		return "", "", fpgaerr.Argumentf("source path is empty")
	}
	src := path.Clean(sourcePath)

	if overridePrefix == "" {
		dir, file := path.Dir(src), path.Base(src)
		if file == "/" || file == "." {
			return "", "", fpgaerr.Argumentf("no file name in source path %q", sourcePath)
		}
		if dir == "." || dir == "" {
			return "", "", fpgaerr.Argumentf("no parent directory in source path %q", sourcePath)
		}
		return dir, file, nil
	}

	base := path.Clean(overridePrefix)
	if src == base {
		return "", "", fpgaerr.Argumentf(
			"stripping %q from %q leaves nothing to load", overridePrefix, sourcePath)
	}
	rest, ok := strings.CutPrefix(src, base+"/")
	if !ok {
		return "", "", fpgaerr.Argumentf("source path %q is not under lookup path %q",
			sourcePath, overridePrefix)
	}
	rest = strings.TrimLeft(rest, "/")
	if rest == "" {
		return "", "", fpgaerr.Argumentf(
			"stripping %q from %q leaves nothing to load", overridePrefix, sourcePath)
	}
	return overridePrefix, rest, nil
}
