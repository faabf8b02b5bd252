// Package testutil provides test doubles shared across this module's test
// files, the way the teacher's own testutil package backs its transport
// tests.
package testutil

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
)

// DripServer is a test TCP server that accepts connections in the
// background and hands each one out through Accept; Drip then writes a
// scripted sequence of byte chunks to such a connection, one Write per
// chunk. It exists to drive
// a resp3.Reader over a real net.Conn (via resp3.BufioSource) with control
// over exactly how the RESP3 byte stream is fragmented across reads, the
// condition the teacher's own RFC6242 decoder tests exercise with their
// chunked-write helpers.
type DripServer struct {
	listener net.Listener
	conns    chan net.Conn
}

// NewDripServer starts listening on a loopback port and accepting
// connections in the background. Call Accept to obtain the server-side
// net.Conn for the next client connection.
func NewDripServer(t *testing.T) *DripServer {
	listener, err := net.Listen("tcp", "localhost:0")
	assert.NoError(t, err, "listen failed")

	ds := &DripServer{listener: listener, conns: make(chan net.Conn, 1)}
	go ds.acceptConnections()
	return ds
}

func (ds *DripServer) acceptConnections() {
	for {
		conn, err := ds.listener.Accept()
		if err != nil {
			return
		}
		ds.conns <- conn
	}
}

// Port delivers the TCP port the server is listening on.
func (ds *DripServer) Port() int {
	return ds.listener.Addr().(*net.TCPAddr).Port
}

// Accept blocks until a client has connected, returning the server-side
// connection.
func (ds *DripServer) Accept(t *testing.T) net.Conn {
	conn := <-ds.conns
	assert.NotNil(t, conn)
	return conn
}

// Close closes the listener. It does not close connections already handed
// out by Accept.
func (ds *DripServer) Close() {
	// nolint: gosec, errcheck
	ds.listener.Close()
}

// Drip writes chunks to conn one at a time, in order, failing the test on
// any write error. Callers typically run Drip in a goroutine so the reading
// side can observe partial frames between chunks.
func Drip(t *testing.T, conn net.Conn, chunks [][]byte) {
	for _, chunk := range chunks {
		_, err := conn.Write(chunk)
		assert.NoError(t, err, "drip write failed")
	}
}
