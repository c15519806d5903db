package platform

import (
	"log/slog"
	"strings"

	"github.com/fpgad-project/fpgad-go/pkg/config"
	"github.com/fpgad-project/fpgad-go/pkg/fpgaerr"
	"github.com/fpgad-project/fpgad-go/pkg/sysfs"

	"sync"
)

// Registry maps hardware signatures to platform factories. One registry
// exists per process; it is populated at startup and only read
// afterwards, but the guard makes concurrent resolution safe
// regardless.
type Registry struct {
	mu       sync.RWMutex
	entries  []registryEntry
	fallback Factory

	io    *sysfs.IO
	paths config.Paths
	log   *slog.Logger
}

type registryEntry struct {
	sig     Signature
	factory Factory
}

// NewRegistry creates an empty registry reading device signatures
// through io under paths.
func NewRegistry(io *sysfs.IO, paths config.Paths) *Registry {
	return &Registry{io: io, paths: paths, log: slog.Default()}
}

// SetLogger replaces the logger. Pass nil to restore the default.
func (r *Registry) SetLogger(logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	r.log = logger
}

// Register stores factory under sig. Registering the same signature
// again replaces the earlier factory.
func (r *Registry) Register(sig Signature, factory Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.entries {
		if r.entries[i].sig == sig {
			r.entries[i].factory = factory
			return
		}
	}
	r.entries = append(r.entries, registryEntry{sig: sig, factory: factory})
}

// SetFallback sets the vendor-neutral factory used when device
// discovery cannot match a signature.
func (r *Registry) SetFallback(factory Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fallback = factory
}

// Resolve returns a new platform instance for the first registered
// signature whose token set is a superset of query's tokens. An empty
// query never matches; failure names the unresolved signature.
func (r *Registry) Resolve(query Signature) (Platform, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, e := range r.entries {
		if e.sig.Matches(query) {
			return e.factory(), nil
		}
	}
	return nil, fpgaerr.Argumentf("could not match %q to a known platform", string(query))
}

// ReadSignature reads the hardware signature of a device from its
// device-tree compatible node. Some drivers terminate these virtual
// nodes with NULs instead of a newline; trailing terminators are
// stripped.
func (r *Registry) ReadSignature(handle string) (Signature, error) {
	raw, err := r.io.Read(r.paths.CompatNode(handle))
	if err != nil {
		return "", fpgaerr.Argumentf("failed to read platform signature for %q: %v", handle, err)
	}
	return Signature(strings.TrimRight(raw, "\x00\n")), nil
}

// ResolveForDevice discovers the platform for a device by reading its
// hardware signature. When no registered signature matches, the
// vendor-neutral fallback is used with a warning; discovery never fails
// on an unmatched signature.
func (r *Registry) ResolveForDevice(handle string) (Platform, error) {
	sig, err := r.ReadSignature(handle)
	if err != nil {
		return nil, err
	}
	r.log.Debug("discovered hardware signature", "device", handle, "signature", string(sig))

	p, err := r.Resolve(sig)
	if err == nil {
		return p, nil
	}

	r.mu.RLock()
	fallback := r.fallback
	r.mu.RUnlock()
	if fallback == nil {
		return nil, fpgaerr.Internalf("no fallback platform registered")
	}
	r.log.Warn("signature not supported, using fallback platform",
		"device", handle, "signature", string(sig))
	return fallback(), nil
}

// ResolveOrDiscover resolves an explicit signature, or discovers the
// platform from the device when the signature is empty.
func (r *Registry) ResolveOrDiscover(query Signature, handle string) (Platform, error) {
	if query == "" {
		return r.ResolveForDevice(handle)
	}
	return r.Resolve(query)
}

// ListDevices returns the handles of all devices present in the device
// class tree.
func (r *Registry) ListDevices() ([]string, error) {
	return r.io.ReadDir(r.paths.DeviceClassDir)
}
