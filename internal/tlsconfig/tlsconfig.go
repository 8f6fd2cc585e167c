// Package tlsconfig builds the adaptive listener the daemon uses when TLS
// material is configured: one socket that accepts both plain HTTP and TLS
// connections, routing each by peeking its first byte.
package tlsconfig

import (
	"bufio"
	"crypto/tls"
	"net"
)

// Load reads a PEM certificate and key pair and returns a *tls.Config
// ready for an adaptive listener, advertising HTTP/1.1 and h2 via ALPN.
func Load(certPath, keyPath string) (*tls.Config, error) {
	cert, err := tls.LoadX509KeyPair(certPath, keyPath)
	if err != nil {
		return nil, err
	}
	return &tls.Config{
		Certificates: []tls.Certificate{cert},
		NextProtos:   []string{"h2", "http/1.1", "http/1.0"},
		MinVersion:   tls.VersionTLS12,
	}, nil
}

// tlsRecordHeaderByte is the first byte of every TLS handshake record
// (ContentType = handshake, 0x16), the signal an adaptive listener peeks
// for to decide whether to wrap a connection in tls.Server or pass it
// through as plain HTTP.
const tlsRecordHeaderByte = 0x16

// adaptiveListener wraps a net.Listener so each accepted connection is
// routed to TLS or plaintext handling based on its first byte, letting one
// socket serve both http:// and https:// clients.
type adaptiveListener struct {
	net.Listener
	tlsConfig *tls.Config
}

// NewAdaptiveListener wraps inner so Accept returns either a tls.Conn or
// the original connection (peeked but otherwise untouched), depending on
// whether the client opened with a TLS handshake.
func NewAdaptiveListener(inner net.Listener, cfg *tls.Config) net.Listener {
	return &adaptiveListener{Listener: inner, tlsConfig: cfg}
}

func (l *adaptiveListener) Accept() (net.Conn, error) {
	conn, err := l.Listener.Accept()
	if err != nil {
		return nil, err
	}

	br := bufio.NewReader(conn)
	first, err := br.Peek(1)
	if err != nil {
		conn.Close()
		return nil, err
	}

	peeked := &peekedConn{Conn: conn, r: br}
	if first[0] == tlsRecordHeaderByte {
		return tls.Server(peeked, l.tlsConfig), nil
	}
	return peeked, nil
}

// peekedConn re-exposes the bytes a bufio.Reader already buffered while
// peeking, so the rest of net/http sees an ordinary, unconsumed stream.
type peekedConn struct {
	net.Conn
	r *bufio.Reader
}

func (c *peekedConn) Read(b []byte) (int, error) { return c.r.Read(b) }
