// Package transport carries framed RPC messages between fpgad and its
// clients.
//
// The primary endpoint is a unix domain socket restricted to root; an
// optional TCP endpoint serves trusted lab networks. Messages are
// length-prefixed CBOR frames: a 4-byte big-endian length followed by
// the payload.
package transport
