// Package interactive provides the interactive command shell for
// fpgactl and the shared command-to-wire translation.
package interactive

import (
	"encoding/hex"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chzyer/readline"

	"github.com/fpgad-project/fpgad-go/pkg/transport"
	"github.com/fpgad-project/fpgad-go/pkg/wire"
)

// Run starts the interactive command loop on the given connection.
// platformSig is the default platform signature for commands that take
// one; the "platform" shell command changes it for the session.
func Run(client *transport.Client, platformSig string) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "fpgad> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return fmt.Errorf("failed to create readline: %w", err)
	}
	defer rl.Close()

	printHelp(rl.Stdout())

	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			continue
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		parts := strings.Fields(line)
		cmd, args := strings.ToLower(parts[0]), parts[1:]

		switch cmd {
		case "help", "?":
			printHelp(rl.Stdout())
			continue
		case "quit", "exit", "q":
			return nil
		case "use-platform":
			if len(args) == 1 {
				platformSig = args[0]
			} else {
				platformSig = ""
			}
			fmt.Fprintf(rl.Stdout(), "platform signature: %q\n", platformSig)
			continue
		}

		method, callArgs, err := BuildCall(platformSig, cmd, args)
		if err != nil {
			fmt.Fprintln(rl.Stdout(), err)
			continue
		}
		resp, err := client.Call(method, callArgs)
		if err != nil {
			fmt.Fprintln(rl.Stdout(), "call failed:", err)
			continue
		}
		if resp.Status.IsError() {
			fmt.Fprintf(rl.Stdout(), "%s: %s\n", resp.Status, resp.Error)
			continue
		}
		fmt.Fprintln(rl.Stdout(), resp.Result)
	}
}

func printHelp(w io.Writer) {
	fmt.Fprintln(w, `
fpgad commands:
  Devices:
    state <device>                      - Read device state
    flags <device>                      - Read device flags (decimal)
    set-flags <device> <value>          - Write device flags
    load <device> <bitstream> [lookup]  - Load a bitstream
    platform <device>                   - Device's hardware signature
    platforms                           - All devices and signatures

  Overlays:
    apply <overlay> <source> [lookup]   - Apply a device-tree overlay
    remove <overlay>                    - Remove an overlay
    overlays                            - List overlay handles
    overlay-status <overlay>            - Status of one overlay

  Raw properties:
    read <path>                         - Read a property
    write <path> <data>                 - Write a property
    write-bytes <path> <hex>            - Write property bytes

  General:
    use-platform [signature]            - Set session platform signature
    help                                - Show this help
    quit                                - Exit`)
}

// BuildCall translates one command into a wire method and arguments.
func BuildCall(platformSig, cmd string, args []string) (wire.Method, wire.Args, error) {
	a := wire.Args{Platform: platformSig}
	switch cmd {
	case "state":
		if len(args) != 1 {
			return 0, a, fmt.Errorf("usage: state <device>")
		}
		a.Device = args[0]
		return wire.MethodGetFpgaState, a, nil

	case "flags":
		if len(args) != 1 {
			return 0, a, fmt.Errorf("usage: flags <device>")
		}
		a.Device = args[0]
		return wire.MethodGetFpgaFlags, a, nil

	case "set-flags":
		if len(args) != 2 {
			return 0, a, fmt.Errorf("usage: set-flags <device> <value>")
		}
		v, err := ParseFlags(args[1])
		if err != nil {
			return 0, a, err
		}
		a.Device, a.Flags = args[0], v
		return wire.MethodSetFpgaFlags, a, nil

	case "load":
		if len(args) != 2 && len(args) != 3 {
			return 0, a, fmt.Errorf("usage: load <device> <bitstream> [lookup]")
		}
		a.Device, a.Source = args[0], args[1]
		if len(args) == 3 {
			a.LookupPath = args[2]
		}
		return wire.MethodWriteBitstreamDirect, a, nil

	case "apply":
		if len(args) != 2 && len(args) != 3 {
			return 0, a, fmt.Errorf("usage: apply <overlay> <source> [lookup]")
		}
		a.Overlay, a.Source = args[0], args[1]
		if len(args) == 3 {
			a.LookupPath = args[2]
		}
		return wire.MethodApplyOverlay, a, nil

	case "remove":
		if len(args) != 1 {
			return 0, a, fmt.Errorf("usage: remove <overlay>")
		}
		a.Overlay = args[0]
		return wire.MethodRemoveOverlay, a, nil

	case "overlays":
		return wire.MethodGetOverlays, a, nil

	case "overlay-status":
		if len(args) != 1 {
			return 0, a, fmt.Errorf("usage: overlay-status <overlay>")
		}
		a.Overlay = args[0]
		return wire.MethodGetOverlayStatus, a, nil

	case "platform":
		if len(args) != 1 {
			return 0, a, fmt.Errorf("usage: platform <device>")
		}
		a.Device = args[0]
		return wire.MethodGetPlatformType, a, nil

	case "platforms":
		return wire.MethodGetPlatformTypes, a, nil

	case "read":
		if len(args) != 1 {
			return 0, a, fmt.Errorf("usage: read <path>")
		}
		a.Path = args[0]
		return wire.MethodReadProperty, a, nil

	case "write":
		if len(args) != 2 {
			return 0, a, fmt.Errorf("usage: write <path> <data>")
		}
		a.Path, a.Data = args[0], args[1]
		return wire.MethodWriteProperty, a, nil

	case "write-bytes":
		if len(args) != 2 {
			return 0, a, fmt.Errorf("usage: write-bytes <path> <hex>")
		}
		raw, err := hex.DecodeString(strings.TrimPrefix(args[1], "0x"))
		if err != nil {
			return 0, a, fmt.Errorf("invalid hex data: %w", err)
		}
		a.Path, a.DataBytes = args[0], raw
		return wire.MethodWritePropertyBytes, a, nil

	default:
		return 0, a, fmt.Errorf("unknown command %q (type 'help' for commands)", cmd)
	}
}

// ParseFlags accepts 0x-prefixed hex or plain decimal.
func ParseFlags(s string) (uint32, error) {
	base := 10
	if rest, ok := strings.CutPrefix(s, "0x"); ok {
		s, base = rest, 16
	}
	v, err := strconv.ParseUint(s, base, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid flags value %q", s)
	}
	return uint32(v), nil
}
