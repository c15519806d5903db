package wire

import "fmt"

// Request is an RPC request from a client to the daemon.
//
// CBOR encoding:
//
//	{
//	  1: messageId,  // uint32, non-zero
//	  2: method,     // uint8
//	  3: args,       // argument map, optional
//	  4: protocol    // "major.minor" protocol version, optional
//	}
//
// Protocol is checked against the daemon's protocol version; requests
// from a different major version are rejected. Absent means unchecked.
type Request struct {
	MessageID uint32 `cbor:"1,keyasint"`
	Method    Method `cbor:"2,keyasint"`
	Args      Args   `cbor:"3,keyasint,omitempty"`
	Protocol  string `cbor:"4,keyasint,omitempty"`
}

// Validate checks if the request is valid.
func (r *Request) Validate() error {
	if r.MessageID == 0 {
		return fmt.Errorf("messageId 0 is reserved")
	}
	if !r.Method.IsValid() {
		return fmt.Errorf("invalid method: %d", r.Method)
	}
	return nil
}

// Args carries a request's arguments. Methods use the subset of fields
// they need; unused fields stay absent on the wire.
//
// CBOR encoding:
//
//	{
//	  1: platform,   // platform signature, empty = discover from device
//	  2: device,     // device handle
//	  3: overlay,    // overlay handle
//	  4: source,     // bitstream or overlay source path
//	  5: lookupPath, // firmware lookup path override
//	  6: flags,      // uint32 programming flags
//	  7: path,       // raw property path
//	  8: data,       // string property data
//	  9: dataBytes   // raw property bytes
//	}
type Args struct {
	Platform   string `cbor:"1,keyasint,omitempty"`
	Device     string `cbor:"2,keyasint,omitempty"`
	Overlay    string `cbor:"3,keyasint,omitempty"`
	Source     string `cbor:"4,keyasint,omitempty"`
	LookupPath string `cbor:"5,keyasint,omitempty"`
	Flags      uint32 `cbor:"6,keyasint,omitempty"`
	Path       string `cbor:"7,keyasint,omitempty"`
	Data       string `cbor:"8,keyasint,omitempty"`
	DataBytes  []byte `cbor:"9,keyasint,omitempty"`
}

// Response is the daemon's reply to one request.
//
// CBOR encoding:
//
//	{
//	  1: messageId,  // uint32: matches request
//	  2: status,     // uint8: 0=ok, or error code
//	  3: result,     // string result on success
//	  4: error       // variant-prefixed error message on failure
//	}
type Response struct {
	MessageID uint32 `cbor:"1,keyasint"`
	Status    Status `cbor:"2,keyasint"`
	Result    string `cbor:"3,keyasint,omitempty"`
	Error     string `cbor:"4,keyasint,omitempty"`
}

// IsSuccess returns true if the response indicates success.
func (r *Response) IsSuccess() bool {
	return r.Status.IsSuccess()
}
