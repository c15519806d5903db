package wire

// Method identifies an RPC operation.
type Method uint8

const (
	// Control methods mutate device or overlay state.

	// MethodSetFpgaFlags writes programming flags to a device.
	MethodSetFpgaFlags Method = 1

	// MethodWriteBitstreamDirect loads a bitstream without device-tree
	// changes.
	MethodWriteBitstreamDirect Method = 2

	// MethodApplyOverlay applies a device-tree overlay.
	MethodApplyOverlay Method = 3

	// MethodRemoveOverlay removes an applied overlay.
	MethodRemoveOverlay Method = 4

	// MethodWriteProperty writes a string to a raw device property.
	MethodWriteProperty Method = 5

	// MethodWritePropertyBytes writes raw bytes to a device property.
	MethodWritePropertyBytes Method = 6

	// Status methods are read-only.

	// MethodGetFpgaState reads a device's state.
	MethodGetFpgaState Method = 7

	// MethodGetFpgaFlags reads a device's flags as a decimal string.
	MethodGetFpgaFlags Method = 8

	// MethodGetOverlayStatus reads one overlay's status.
	MethodGetOverlayStatus Method = 9

	// MethodGetOverlays lists overlay handles, newline separated.
	MethodGetOverlays Method = 10

	// MethodGetPlatformType reads a device's hardware signature.
	MethodGetPlatformType Method = 11

	// MethodGetPlatformTypes lists all devices and their signatures.
	MethodGetPlatformTypes Method = 12

	// MethodReadProperty reads a raw property file.
	MethodReadProperty Method = 13
)

// IsValid returns true for a known method.
func (m Method) IsValid() bool {
	return m >= MethodSetFpgaFlags && m <= MethodReadProperty
}

// IsControl returns true for methods that mutate state.
func (m Method) IsControl() bool {
	return m >= MethodSetFpgaFlags && m <= MethodWritePropertyBytes
}

// String returns the method name.
func (m Method) String() string {
	switch m {
	case MethodSetFpgaFlags:
		return "SetFpgaFlags"
	case MethodWriteBitstreamDirect:
		return "WriteBitstreamDirect"
	case MethodApplyOverlay:
		return "ApplyOverlay"
	case MethodRemoveOverlay:
		return "RemoveOverlay"
	case MethodWriteProperty:
		return "WriteProperty"
	case MethodWritePropertyBytes:
		return "WritePropertyBytes"
	case MethodGetFpgaState:
		return "GetFpgaState"
	case MethodGetFpgaFlags:
		return "GetFpgaFlags"
	case MethodGetOverlayStatus:
		return "GetOverlayStatus"
	case MethodGetOverlays:
		return "GetOverlays"
	case MethodGetPlatformType:
		return "GetPlatformType"
	case MethodGetPlatformTypes:
		return "GetPlatformTypes"
	case MethodReadProperty:
		return "ReadProperty"
	default:
		return "unknown"
	}
}
