package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

var (
	ErrNotConnected = errors.New("not connected")
	ErrClientClosed = errors.New("client closed")
)

// Client is a participant-side connection to the signaling socket, the Go
// counterpart of the browser's meeting page. A Client connects once.
type Client struct {
	url      string
	conn     *websocket.Conn
	messages chan []byte
	closed   bool
	mu       sync.Mutex
}

// New returns a client for the server at baseURL. http(s) schemes are
// rewritten to ws(s).
func New(baseURL string) *Client {
	switch {
	case strings.HasPrefix(baseURL, "https://"):
		baseURL = "wss://" + strings.TrimPrefix(baseURL, "https://")
	case strings.HasPrefix(baseURL, "http://"):
		baseURL = "ws://" + strings.TrimPrefix(baseURL, "http://")
	}
	return &Client{url: strings.TrimSuffix(baseURL, "/"), messages: make(chan []byte, 64)}
}

// Connect joins meetingID as userID. A refused upgrade is reported as a
// *DialError carrying the HTTP status.
func (c *Client) Connect(meetingID, userID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClientClosed
	}
	if c.conn != nil {
		return nil
	}
	joinURL := fmt.Sprintf("%s/ws/%s/%s", c.url, url.PathEscape(meetingID), url.PathEscape(userID))
	if _, err := url.Parse(joinURL); err != nil {
		return fmt.Errorf("invalid websocket url %q: %w", joinURL, err)
	}

	dialer := *websocket.DefaultDialer
	dialer.HandshakeTimeout = 5 * time.Second

	conn, resp, err := dialer.Dial(joinURL, nil)
	if err != nil {
		if resp != nil {
			return &DialError{StatusCode: resp.StatusCode, Err: err}
		}
		return fmt.Errorf("websocket dial error: %w", err)
	}
	c.conn = conn
	go c.readLoop(conn)
	return nil
}

func (c *Client) readLoop(conn *websocket.Conn) {
	defer close(c.messages)
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Printf("websocket read error: %v", err)
			}
			return
		}
		c.messages <- msg
	}
}

// Send marshals v as one text frame.
func (c *Client) Send(v interface{}) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.SendRaw(payload)
}

// SendRaw writes frame unchanged.
func (c *Client) SendRaw(frame []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return ErrNotConnected
	}
	return c.conn.WriteMessage(websocket.TextMessage, frame)
}

// Messages yields every frame the server relays. It is closed when the
// socket goes away.
func (c *Client) Messages() <-chan []byte {
	return c.messages
}

// Close sends a normal close frame and drops the socket.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	if c.conn == nil {
		return nil
	}
	_ = c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
	err := c.conn.Close()
	c.conn = nil
	return err
}

// DialError reports a refused websocket upgrade.
type DialError struct {
	StatusCode int
	Err        error
}

func (e *DialError) Error() string {
	return fmt.Sprintf("websocket dial error: %v (status: %d)", e.Err, e.StatusCode)
}

func (e *DialError) Unwrap() error { return e.Err }
