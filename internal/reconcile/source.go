package reconcile

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/WeDoCheapies/website/internal/realtime"
	"github.com/gorilla/websocket"
)

const (
	dialTimeout = 10 * time.Second
	pongWait    = 60 * time.Second
	closeWait   = time.Second
)

// Stream delivers row changes until it is closed or broken. Events is closed in both cases.
type Stream interface {
	Events() <-chan realtime.Envelope
	Close() error
}

// Source opens change streams of tables
type Source interface {
	Subscribe(ctx context.Context, tables ...string) (Stream, error)
}

type hubSource struct {
	hub *realtime.Hub
}

// NewHubSource builds Source over in-process hub
func NewHubSource(hub *realtime.Hub) Source {
	return &hubSource{hub: hub}
}

func (s *hubSource) Subscribe(_ context.Context, tables ...string) (Stream, error) {
	return &hubStream{sub: s.hub.Subscribe(tables...)}, nil
}

type hubStream struct {
	sub *realtime.Subscription
}

func (s *hubStream) Events() <-chan realtime.Envelope {
	return s.sub.C
}

func (s *hubStream) Close() error {
	s.sub.Close()
	return nil
}

// DialSource subscribes to realtime websocket endpoint of the service
type DialSource struct {
	url    string
	token  string
	dialer *websocket.Dialer
}

func NewDialSource(rawURL string, token string) *DialSource {
	return &DialSource{
		url:    rawURL,
		token:  token,
		dialer: &websocket.Dialer{HandshakeTimeout: dialTimeout, Proxy: http.ProxyFromEnvironment},
	}
}

func (s *DialSource) Subscribe(ctx context.Context, tables ...string) (Stream, error) {
	u, err := url.Parse(s.url)
	if err != nil {
		return nil, fmt.Errorf("invalid realtime url - %w", err)
	}

	q := u.Query()
	if len(tables) > 0 {
		q.Set("tables", strings.Join(tables, ","))
	}
	u.RawQuery = q.Encode()

	header := http.Header{}
	if s.token != "" {
		header.Set("Authorization", "Bearer "+s.token)
	}

	conn, res, err := s.dialer.DialContext(ctx, u.String(), header)
	if err != nil {
		if res != nil {
			return nil, fmt.Errorf("failed to connect to realtime endpoint, status %d - %w", res.StatusCode, err)
		}
		return nil, fmt.Errorf("failed to connect to realtime endpoint - %w", err)
	}

	stream := &wsStream{
		conn:   conn,
		events: make(chan realtime.Envelope),
		done:   make(chan struct{}),
		closed: make(chan struct{}),
	}
	go stream.read()
	return stream, nil
}

type wsStream struct {
	conn   *websocket.Conn
	events chan realtime.Envelope
	done   chan struct{}
	closed chan struct{}
	once   sync.Once
}

func (s *wsStream) Events() <-chan realtime.Envelope {
	return s.events
}

func (s *wsStream) read() {
	defer close(s.closed)
	defer close(s.events)

	_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPingHandler(func(data string) error {
		_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))
		return s.conn.WriteControl(websocket.PongMessage, []byte(data), time.Now().Add(closeWait))
	})

	for {
		var env realtime.Envelope
		if err := s.conn.ReadJSON(&env); err != nil {
			return
		}

		select {
		case s.events <- env:
		case <-s.done:
			return
		}
	}
}

// Close closes connection and waits until reading is finished
func (s *wsStream) Close() error {
	var err error
	s.once.Do(func() {
		close(s.done)
		msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
		_ = s.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(closeWait))
		err = s.conn.Close()
		<-s.closed
	})
	return err
}
