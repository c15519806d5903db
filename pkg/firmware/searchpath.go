package firmware

import (
	"log/slog"

	"github.com/fpgad-project/fpgad-go/pkg/sysfs"
)

// SearchPath writes prefixes to the global firmware search-path
// register. The register is shared by every concurrent load; callers
// serialize writes with the control service's coordination lock.
type SearchPath struct {
	io       *sysfs.IO
	register string
}

// NewSearchPath creates a writer for the register file at registerPath.
func NewSearchPath(io *sysfs.IO, registerPath string) *SearchPath {
	return &SearchPath{io: io, register: registerPath}
}

// Set points the kernel firmware search path at prefix.
func (s *SearchPath) Set(prefix string) error {
	slog.Debug("setting firmware search path", "prefix", prefix, "register", s.register)
	return s.io.Write(s.register, prefix, false)
}
