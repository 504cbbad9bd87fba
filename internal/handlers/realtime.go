package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/WeDoCheapies/website/internal/realtime"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second

	maxClientMessageSize = 512
)

// RealtimeHandler streams row changes to admin sessions over websocket
type RealtimeHandler struct {
	hub      *realtime.Hub
	upgrader websocket.Upgrader
}

// NewRealtimeHandler builds RealtimeHandler, handshake is accepted only from allowed origins
func NewRealtimeHandler(hub *realtime.Hub, allowOrigins []string) *RealtimeHandler {
	origins := make(map[string]struct{}, len(allowOrigins))
	for _, o := range allowOrigins {
		origins[o] = struct{}{}
	}

	return &RealtimeHandler{
		hub: hub,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				if _, ok := origins["*"]; ok {
					return true
				}
				_, ok := origins[origin]
				return ok
			},
		},
	}
}

// Stream upgrades connection and pushes envelopes of requested tables
// @Summary     Realtime changes
// @Description Websocket stream of customer and wash row changes. Connection is closed with 1013 when client falls behind, client must reload and reconnect.
// @Tags        realtime
// @Security	ApiKeyAuth
// @Param       tables query string false "Comma separated tables, customers and washes by default"
// @Success     101    "Switching protocols"
// @Failure     400    {object} echo.HTTPError
// @Router      /api/realtime [get]
func (h *RealtimeHandler) Stream(c echo.Context) error {
	tables := requestedTables(c.QueryParam("tables"))

	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		// upgrader has already replied with error status
		logrus.WithError(err).Warn("failed to upgrade realtime connection")
		return nil
	}
	defer conn.Close()

	sub := h.hub.Subscribe(tables...)
	defer sub.Close()

	logger := logrus.WithFields(logrus.Fields{
		"remote": c.RealIP(),
		"tables": tables,
	})
	logger.Info("realtime session started")

	closed := readUntilClosed(conn)
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case env, ok := <-sub.C:
			if !ok {
				if h.hub.Closed() {
					writeClose(conn, websocket.CloseGoingAway, "server is shutting down")
					return nil
				}
				logger.Warn("realtime session dropped by feed")
				writeClose(conn, websocket.CloseTryAgainLater, "subscriber fell behind, reload and reconnect")
				return nil
			}

			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(env); err != nil {
				logger.WithError(err).Info("realtime session closed on write")
				return nil
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				logger.WithError(err).Info("realtime session closed on ping")
				return nil
			}
		case <-closed:
			logger.Info("realtime session closed by client")
			return nil
		}
	}
}

// readUntilClosed consumes control frames, returned channel is closed once client is gone
func readUntilClosed(conn *websocket.Conn) <-chan struct{} {
	closed := make(chan struct{})

	conn.SetReadLimit(maxClientMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	return closed
}

func writeClose(conn *websocket.Conn, code int, text string) {
	msg := websocket.FormatCloseMessage(code, text)
	_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
}

func requestedTables(param string) []string {
	if param == "" {
		return []string{realtime.TableCustomers, realtime.TableWashes}
	}

	tables := make([]string, 0, 2)
	for _, t := range strings.Split(param, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tables = append(tables, t)
		}
	}
	return tables
}
