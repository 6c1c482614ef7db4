package transport

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait = 10 * time.Second
	pongWait  = time.Minute
	closeWait = 2 * time.Second
)

// Conn is one ordered, reliable, message oriented participant stream.
type Conn interface {
	Read() ([]byte, error)
	Write(data []byte) error
	Ping() error
	// Close sends reason as the close frame text and releases the connection.
	Close(reason string)
}

type websocketConn struct {
	socket    *websocket.Conn
	writeLock sync.Mutex
	closeOnce sync.Once
}

func NewWebsocketConn(conn *websocket.Conn) Conn {
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	// the dialing side only ever sees pings, so they keep it alive too
	conn.SetPingHandler(func(data string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		err := conn.WriteControl(websocket.PongMessage, []byte(data), time.Now().Add(writeWait))
		var netErr net.Error
		if errors.Is(err, websocket.ErrCloseSent) || errors.As(err, &netErr) {
			return nil
		}
		return err
	})
	return &websocketConn{socket: conn}
}

func (wc *websocketConn) Write(data []byte) error {
	wc.writeLock.Lock()
	defer wc.writeLock.Unlock()
	wc.socket.SetWriteDeadline(time.Now().Add(writeWait))
	return wc.socket.WriteMessage(websocket.BinaryMessage, data)
}

func (wc *websocketConn) Ping() error {
	return wc.socket.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
}

func (wc *websocketConn) Read() ([]byte, error) {
	for {
		kind, p, err := wc.socket.ReadMessage()
		if err != nil {
			return nil, err
		}
		if kind == websocket.BinaryMessage {
			return p, nil
		}
	}
}

func (wc *websocketConn) Close(reason string) {
	wc.closeOnce.Do(func() {
		msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, reason)
		wc.socket.WriteControl(websocket.CloseMessage, msg, time.Now().Add(closeWait))
		wc.socket.Close()
	})
}

// CloseReason extracts the peer's close frame text from a Read error.
func CloseReason(err error) string {
	var ce *websocket.CloseError
	if errors.As(err, &ce) {
		return ce.Text
	}
	return ""
}

func NewUpgrader(checkOrigin func(r *http.Request) bool) *websocket.Upgrader {
	return &websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     checkOrigin,
	}
}

// Upgrade accepts a websocket on an HTTP request.
func Upgrade(upgrader *websocket.Upgrader, w http.ResponseWriter, r *http.Request) (Conn, error) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return nil, err
	}
	return NewWebsocketConn(conn), nil
}

// Dial opens a client websocket to url.
func Dial(ctx context.Context, url string, header http.Header) (Conn, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, header)
	if err != nil {
		return nil, err
	}
	return NewWebsocketConn(conn), nil
}
