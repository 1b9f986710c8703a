package bridge

import (
	"bufio"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
	"go.bug.st/serial"
	"golang.org/x/term"

	"github.com/sparques/irtx/internal/config"
)

// PasswordEnv names the environment variable holding the WebSocket password.
const PasswordEnv = "IRTX_BRIDGE_PASSWORD"

// Connection carries frames between host and blaster.
type Connection interface {
	io.ReadWriteCloser
}

// ErrConnectionClosed wraps the error that ended a WebSocket.
var ErrConnectionClosed = errors.New("websocket closed")

// WebSocketConnection presents the binary messages of a WebSocket as one
// byte stream. Frames may span messages.
type WebSocketConnection struct {
	ws      *websocket.Conn
	pending []byte
	err     error
}

// NewWebSocketConnection takes ownership of ws.
func NewWebSocketConnection(ws *websocket.Conn) *WebSocketConnection {
	return &WebSocketConnection{ws: ws}
}

func (c *WebSocketConnection) Read(p []byte) (int, error) {
	for len(c.pending) == 0 {
		if c.err != nil {
			return 0, c.err
		}
		kind, data, err := c.ws.ReadMessage()
		switch {
		case err != nil:
			c.err = fmt.Errorf("%w: %w", ErrConnectionClosed, err)
		case kind == websocket.BinaryMessage:
			c.pending = data
		}
	}
	n := copy(p, c.pending)
	c.pending = c.pending[n:]
	return n, nil
}

func (c *WebSocketConnection) Write(p []byte) (int, error) {
	if err := c.ws.WriteMessage(websocket.BinaryMessage, p); err != nil {
		return 0, err
	}
	return len(p), nil
}

func (c *WebSocketConnection) Close() error {
	return c.ws.Close()
}

// OpenSerialConnection opens port at baud, 8N1.
func OpenSerialConnection(port string, baud int) (Connection, error) {
	p, err := serial.Open(port, &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	})
	if err != nil {
		return nil, fmt.Errorf("serial %s: %w", port, err)
	}
	return p, nil
}

// OpenWebSocketConnection dials wsURL. Basic auth is sent when username and
// password are both set.
func OpenWebSocketConnection(ctx context.Context, wsURL, username, password string, skipSSLVerify bool) (Connection, error) {
	u, err := url.Parse(wsURL)
	if err != nil {
		return nil, fmt.Errorf("blaster url: %w", err)
	}
	if u.Scheme != "ws" && u.Scheme != "wss" {
		return nil, fmt.Errorf("blaster url %s: scheme must be ws or wss", wsURL)
	}

	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	if u.Scheme == "wss" {
		dialer.TLSClientConfig = &tls.Config{InsecureSkipVerify: skipSSLVerify}
	}

	// borrow net/http's encoding of the Authorization header
	req := &http.Request{Header: http.Header{}}
	if username != "" && password != "" {
		req.SetBasicAuth(username, password)
	}

	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	ws, resp, err := dialer.DialContext(ctx, wsURL, req.Header)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("dial %s: HTTP %d: %w", wsURL, resp.StatusCode, err)
		}
		return nil, fmt.Errorf("dial %s: %w", wsURL, err)
	}
	return NewWebSocketConnection(ws), nil
}

// GetPassword returns $IRTX_BRIDGE_PASSWORD, or asks on the terminal.
func GetPassword() (string, error) {
	if pw := os.Getenv(PasswordEnv); pw != "" {
		return pw, nil
	}

	fmt.Fprint(os.Stderr, "Password: ")
	defer fmt.Fprintln(os.Stderr)

	pw, err := term.ReadPassword(int(syscall.Stdin))
	if err == nil {
		return string(pw), nil
	}
	// stdin is piped
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// Open connects to the blaster configured in cfg, preferring the URL over
// the serial port. It also returns a description of the link for logs.
func Open(ctx context.Context, cfg config.Config) (Connection, string, error) {
	switch {
	case cfg.URL != "":
		var password string
		if cfg.Username != "" {
			var err error
			if password, err = GetPassword(); err != nil {
				return nil, "", err
			}
		}
		conn, err := OpenWebSocketConnection(ctx, cfg.URL, cfg.Username, password, cfg.NoSSLVerify)
		if err != nil {
			return nil, "", err
		}
		return conn, "websocket " + cfg.URL, nil

	case cfg.Port != "":
		conn, err := OpenSerialConnection(cfg.Port, cfg.Baud)
		if err != nil {
			return nil, "", err
		}
		return conn, fmt.Sprintf("serial %s@%d", cfg.Port, cfg.Baud), nil
	}
	return nil, "", errors.New("no blaster configured: set --port or --url")
}
