// Command fpgactl is the administrative client for fpgad.
//
// Usage:
//
//	fpgactl [flags] <command> [args]
//
// Flags:
//
//	-socket string    Unix socket path (default /run/fpgad/fpgad.sock)
//	-tcp string       Connect over TCP instead of the unix socket
//	-platform string  Platform signature (default: discover from device)
//	-timeout duration Per-call timeout (default 60s)
//
// Commands:
//
//	state <device>                      - Read device state
//	flags <device>                      - Read device flags (decimal)
//	set-flags <device> <value>          - Write device flags (0x-hex or decimal)
//	load <device> <bitstream> [lookup]  - Load a bitstream
//	apply <overlay> <source> [lookup]   - Apply a device-tree overlay
//	remove <overlay>                    - Remove an overlay
//	overlays                            - List overlay handles
//	overlay-status <overlay>            - Status of one overlay
//	platform <device>                   - Device's hardware signature
//	platforms                           - All devices and signatures
//	read <path>                         - Read a raw property
//	write <path> <data>                 - Write a raw property
//	write-bytes <path> <hex>            - Write raw property bytes
//	inspect <bitstream>                 - Size and digest of a local bitstream
//	shell                               - Interactive mode
//
// Examples:
//
//	fpgactl state fpga0
//	fpgactl load fpga0 /lib/firmware/design.bit.bin
//	fpgactl -platform xlnx,zynqmp-pcap-fpga apply my_overlay /lib/firmware/design.dtbo
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/fpgad-project/fpgad-go/cmd/fpgactl/interactive"
	"github.com/fpgad-project/fpgad-go/pkg/bitstream"
	"github.com/fpgad-project/fpgad-go/pkg/config"
	"github.com/fpgad-project/fpgad-go/pkg/transport"
)

type options struct {
	socket   string
	tcp      string
	platform string
	timeout  time.Duration
}

func main() {
	var opts options
	flag.StringVar(&opts.socket, "socket", config.DefaultSocketPath, "Unix socket path")
	flag.StringVar(&opts.tcp, "tcp", "", "Connect over TCP instead of the unix socket")
	flag.StringVar(&opts.platform, "platform", "", "Platform signature (default: discover from device)")
	flag.DurationVar(&opts.timeout, "timeout", transport.DefaultCallTimeout, "Per-call timeout")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	if err := run(opts, args[0], args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run(opts options, cmd string, args []string) error {
	// inspect works on local files, no daemon needed
	if cmd == "inspect" {
		if len(args) != 1 {
			return fmt.Errorf("usage: inspect <bitstream>")
		}
		info, err := bitstream.Inspect(args[0])
		if err != nil {
			return err
		}
		fmt.Println(info)
		return nil
	}

	client, err := dial(opts)
	if err != nil {
		return err
	}
	defer client.Close()
	client.SetTimeout(opts.timeout)

	if cmd == "shell" {
		return interactive.Run(client, opts.platform)
	}

	method, callArgs, err := interactive.BuildCall(opts.platform, cmd, args)
	if err != nil {
		return err
	}
	resp, err := client.Call(method, callArgs)
	if err != nil {
		return err
	}
	if resp.Status.IsError() {
		return fmt.Errorf("%s: %s", resp.Status, resp.Error)
	}
	if resp.Result != "" {
		fmt.Println(resp.Result)
	}
	return nil
}

func dial(opts options) (*transport.Client, error) {
	if opts.tcp != "" {
		return transport.Dial("tcp", opts.tcp)
	}
	return transport.Dial("unix", opts.socket)
}
