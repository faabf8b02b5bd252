// Package resp3 decodes the RESP3 wire protocol used by modern key-value
// servers to talk to clients. Given a buffered byte source it produces one
// structured DecodedValue per Read call, recursively decoding aggregates
// (arrays, maps, sets, attributes) and routing out-of-band push frames to a
// caller-supplied sink.
//
// The package implements decoding only: framing a byte stream into values.
// Transport, command dispatch and encoding live elsewhere.
package resp3
