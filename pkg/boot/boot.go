// Package boot applies configured startup defaults: an optional flag
// value, bitstream and overlay loaded once when the daemon comes up,
// before the RPC endpoints accept requests. Boards that must come out
// of reset with a known design use this instead of an external
// one-shot client.
package boot

import (
	"log/slog"

	"github.com/fpgad-project/fpgad-go/pkg/bitstream"
	"github.com/fpgad-project/fpgad-go/pkg/config"
	"github.com/fpgad-project/fpgad-go/pkg/service"
)

// Apply runs the configured boot defaults through the control service.
// Failures are logged and skipped rather than aborting the daemon: a
// missing boot artifact should not take the management endpoint down
// with it.
func Apply(cfg config.Boot, ctrl *service.Control, log *slog.Logger) {
	if log == nil {
		log = slog.Default()
	}
	if cfg.DeviceHandle == "" && cfg.Overlay == "" {
		return
	}

	if cfg.Flags != nil && cfg.DeviceHandle != "" {
		msg, err := ctrl.SetFpgaFlags("", cfg.DeviceHandle, *cfg.Flags)
		if err != nil {
			log.Error("boot: failed to set flags", "device", cfg.DeviceHandle, "error", err)
		} else {
			log.Info("boot: flags set", "result", msg)
		}
	}

	if cfg.Bitstream != "" && cfg.DeviceHandle != "" {
		if cfg.BitstreamDigest != "" {
			if err := bitstream.Verify(cfg.Bitstream, cfg.BitstreamDigest); err != nil {
				log.Error("boot: bitstream digest check failed",
					"bitstream", cfg.Bitstream, "error", err)
				return
			}
		}
		msg, err := ctrl.WriteBitstreamDirect("", cfg.DeviceHandle, cfg.Bitstream, cfg.LookupPath)
		if err != nil {
			log.Error("boot: bitstream load failed", "bitstream", cfg.Bitstream, "error", err)
			return
		}
		log.Info("boot: bitstream loaded", "result", msg)
	}

	if cfg.Overlay != "" {
		handle := cfg.OverlayHandle
		if handle == "" {
			handle = "boot"
		}
		// Overlay application needs an explicit platform signature;
		// discover it from the boot device when one is configured.
		sig := "universal"
		if cfg.DeviceHandle != "" {
			s, err := ctrl.PlatformSignatureFor(cfg.DeviceHandle)
			if err != nil {
				log.Error("boot: could not discover platform for overlay",
					"device", cfg.DeviceHandle, "error", err)
				return
			}
			sig = s
		}
		msg, err := ctrl.ApplyOverlay(sig, handle, cfg.Overlay, cfg.LookupPath)
		if err != nil {
			log.Error("boot: overlay apply failed", "overlay", cfg.Overlay, "error", err)
			return
		}
		log.Info("boot: overlay applied", "result", msg)
	}
}
