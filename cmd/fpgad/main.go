// Command fpgad is the FPGA management daemon.
//
// It manages Linux FPGA devices (/sys/class/fpga_manager) and
// device-tree overlays (configfs) on behalf of privileged
// administrative clients reached over a unix socket and, optionally, a
// TCP endpoint for trusted lab networks.
//
// Usage:
//
//	fpgad [flags]
//
// Flags:
//
//	-config string     Extra configuration file, layered over
//	                   /usr/lib/fpgad/config.yaml and /etc/fpgad/config.yaml
//	-socket string     Unix socket path (default from config)
//	-tcp string        Optional TCP listen address (e.g. ":9332")
//	-announce          Advertise the TCP endpoint over mDNS
//	-log-level string  Log level: debug, info, warn, error (default "info")
//	-no-boot           Skip configured boot-time firmware defaults
//
// Examples:
//
//	# Serve on the default socket
//	fpgad
//
//	# Lab board reachable over the network
//	fpgad -tcp :9332 -announce -log-level debug
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/fpgad-project/fpgad-go/pkg/boot"
	"github.com/fpgad-project/fpgad-go/pkg/config"
	"github.com/fpgad-project/fpgad-go/pkg/discovery"
	"github.com/fpgad-project/fpgad-go/pkg/journal"
	"github.com/fpgad-project/fpgad-go/pkg/platform"
	"github.com/fpgad-project/fpgad-go/pkg/platform/universal"
	"github.com/fpgad-project/fpgad-go/pkg/platform/xilinx"
	"github.com/fpgad-project/fpgad-go/pkg/service"
	"github.com/fpgad-project/fpgad-go/pkg/sysfs"
	"github.com/fpgad-project/fpgad-go/pkg/transport"
	"github.com/fpgad-project/fpgad-go/pkg/version"
)

type flags struct {
	configFile string
	socket     string
	tcp        string
	announce   bool
	logLevel   string
	noBoot     bool
}

func main() {
	var f flags
	flag.StringVar(&f.configFile, "config", "", "Extra configuration file")
	flag.StringVar(&f.socket, "socket", "", "Unix socket path")
	flag.StringVar(&f.tcp, "tcp", "", "Optional TCP listen address")
	flag.BoolVar(&f.announce, "announce", false, "Advertise the TCP endpoint over mDNS")
	flag.StringVar(&f.logLevel, "log-level", "info", "Log level: debug, info, warn, error")
	flag.BoolVar(&f.noBoot, "no-boot", false, "Skip configured boot-time firmware defaults")
	flag.Parse()

	logger := setupLogging(f.logLevel)

	if err := run(f, logger); err != nil {
		logger.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run(f flags, logger *slog.Logger) error {
	logger.Info("fpgad starting", "version", version.Version)

	cfg, err := config.LoadLayered(config.VendorConfigFile, config.UserConfigFile)
	if err != nil {
		return err
	}
	if f.configFile != "" {
		extra, err := config.Load(f.configFile)
		if err != nil {
			return err
		}
		cfg = extra.Merge(cfg)
	}
	if f.socket != "" {
		cfg.Listen.SocketPath = f.socket
	}
	if f.tcp != "" {
		cfg.Listen.TCPAddress = f.tcp
	}
	if f.announce {
		cfg.Listen.Announce = true
	}

	io := sysfs.New()
	registry := platform.NewRegistry(io, cfg.Paths)
	if err := registerPlatforms(registry, io, cfg, logger); err != nil {
		return err
	}

	services := service.New(io, cfg.Paths, registry)
	dispatcher := service.NewDispatcher(services)

	if cfg.JournalPath != "" {
		rec, err := journal.NewFileRecorder(cfg.JournalPath)
		if err != nil {
			return fmt.Errorf("opening journal %s: %w", cfg.JournalPath, err)
		}
		defer rec.Close()
		dispatcher.SetJournal(rec)
		logger.Info("operations journal enabled", "path", cfg.JournalPath)
	}

	if !f.noBoot {
		boot.Apply(cfg.Boot, services.Control, logger)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	onMessage := func(conn *transport.ServerConn, msg []byte) {
		if resp := dispatcher.HandleRaw(msg); resp != nil {
			if err := conn.Send(resp); err != nil {
				logger.Warn("failed to send response", "conn", conn.ConnID(), "error", err)
			}
		}
	}
	onError := func(conn *transport.ServerConn, err error) {
		logger.Debug("connection error", "error", err)
	}

	var servers []*transport.Server

	unixServer, err := transport.NewServer(transport.ServerConfig{
		Network:    "unix",
		Address:    cfg.Listen.SocketPath,
		SocketMode: 0o600,
		Logger:     logger,
		OnMessage:  onMessage,
		OnError:    onError,
	})
	if err != nil {
		return err
	}
	servers = append(servers, unixServer)

	if cfg.Listen.TCPAddress != "" {
		tcpServer, err := transport.NewServer(transport.ServerConfig{
			Network:   "tcp",
			Address:   cfg.Listen.TCPAddress,
			Logger:    logger,
			OnMessage: onMessage,
			OnError:   onError,
		})
		if err != nil {
			return err
		}
		servers = append(servers, tcpServer)
	}

	for _, srv := range servers {
		if err := srv.Start(ctx); err != nil {
			return err
		}
	}
	defer func() {
		for _, srv := range servers {
			if err := srv.Stop(); err != nil {
				logger.Warn("error stopping server", "error", err)
			}
		}
	}()

	announcer := discovery.NewAnnouncer()
	if cfg.Listen.Announce && cfg.Listen.TCPAddress != "" {
		if err := announceEndpoint(announcer, cfg, registry, logger); err != nil {
			logger.Warn("mDNS announcement failed", "error", err)
		} else {
			defer announcer.Stop()
		}
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	logger.Info("shutting down", "signal", sig.String())
	return nil
}

// registerPlatforms fills the registry: built-in platforms first, then
// vendor platform definition files.
func registerPlatforms(registry *platform.Registry, io *sysfs.IO, cfg config.File, logger *slog.Logger) error {
	xilinx.Register(registry, io, cfg.Paths)
	universal.Register(registry, io, cfg.Paths)

	defs, err := config.LoadPlatformDefs(cfg.PlatformDefsDir)
	if err != nil {
		return err
	}
	for _, def := range defs {
		var factory platform.Factory
		switch def.Base {
		case "", "universal":
			factory = func() platform.Platform { return universal.New(io, cfg.Paths) }
		case "xilinx":
			factory = func() platform.Platform { return xilinx.New(io, cfg.Paths) }
		default:
			return fmt.Errorf("platform definition %q has unknown base %q", def.Name, def.Base)
		}
		registry.Register(platform.Signature(def.Signature), factory)
		logger.Info("registered vendor platform",
			"name", def.Name, "signature", def.Signature, "base", def.Base)
	}
	return nil
}

// announceEndpoint publishes the TCP endpoint over mDNS, including the
// devices present at startup.
func announceEndpoint(a *discovery.Announcer, cfg config.File, registry *platform.Registry, logger *slog.Logger) error {
	_, portStr, err := net.SplitHostPort(cfg.Listen.TCPAddress)
	if err != nil {
		return fmt.Errorf("cannot derive port from %q: %w", cfg.Listen.TCPAddress, err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return fmt.Errorf("cannot derive port from %q: %w", cfg.Listen.TCPAddress, err)
	}

	handles, err := registry.ListDevices()
	if err != nil {
		logger.Warn("could not list devices for announcement", "error", err)
		handles = nil
	}

	return a.Announce(discovery.Info{
		InstanceName:  cfg.Listen.InstanceName,
		Port:          port,
		DeviceHandles: handles,
	})
}

func setupLogging(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
	slog.SetDefault(logger)
	return logger
}
