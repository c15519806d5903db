// Package wire defines the CBOR wire format for the fpgad RPC
// boundary.
//
// Messages are CBOR (RFC 8949) maps with integer keys, length-prefixed
// on the transport. A request names a method and carries plain
// string/integer/byte-array arguments; a response carries either a
// plain string result or a status code with a variant-prefixed error
// message, so clients can tell application errors apart from transport
// errors.
package wire
