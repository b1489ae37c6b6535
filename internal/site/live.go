package site

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/bytetobeacon/beacon/internal/app"
	"github.com/bytetobeacon/beacon/internal/render"
	"github.com/bytetobeacon/beacon/internal/router"
)

const writeWait = 10 * time.Second

var upgrader = websocket.Upgrader{
	HandshakeTimeout: 10 * time.Second,
	CheckOrigin:      func(r *http.Request) bool { return true },
}

// liveRequest is the incoming websocket message format.
type liveRequest struct {
	Type     string `json:"type"` // "input", "search", "category" or "clear"
	Query    string `json:"query,omitempty"`
	Category string `json:"category,omitempty"`
}

// liveResponse is the outgoing websocket message format.
type liveResponse struct {
	Type     string `json:"type"` // "results" or "error"
	Query    string `json:"query,omitempty"`
	Category string `json:"category,omitempty"`
	Counter  string `json:"counter,omitempty"`
	HTML     string `json:"html,omitempty"`
	Error    string `json:"error,omitempty"`
}

// liveConn serializes writes; the debouncer publishes from its own
// goroutine.
type liveConn struct {
	mu     sync.Mutex
	conn   *websocket.Conn
	logger *zap.Logger
}

func (c *liveConn) send(resp liveResponse) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := c.conn.WriteJSON(resp); err != nil {
		c.logger.Debug("live search write", zap.Error(err))
	}
}

func (c *liveConn) sendState(st app.State) {
	c.send(liveResponse{
		Type:     "results",
		Query:    st.Search.Query,
		Category: st.Search.Category,
		Counter:  st.Counter(),
		HTML:     render.String(render.ArticleGrid(st)),
	})
}

func (c *liveConn) sendError(msg string) {
	c.send(liveResponse{Type: "error", Error: msg})
}

// handleLiveSearch drives a home page controller from websocket messages.
// Typed input is debounced; every applied search pushes the re-rendered
// article grid.
func (s *Site) handleLiveSearch(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade", zap.Error(err))
		return
	}
	defer conn.Close()

	ctx := r.Context()
	ctl := s.controller()
	defer ctl.Close()

	live := &liveConn{conn: conn, logger: s.logger}
	unsubscribe := ctl.Subscribe(live.sendState)
	defer unsubscribe()

	st, err := ctl.Start(ctx, router.PageLocation(router.PageHome))
	if err != nil {
		return
	}
	live.sendState(st)

	if st.Loading {
		done := make(chan struct{})
		defer close(done)
		go func() {
			select {
			case <-s.pending.Done():
				live.sendState(ctl.State())
			case <-done:
			}
		}()
	}

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Debug("live search read", zap.Error(err))
			}
			return
		}

		var req liveRequest
		if err := json.Unmarshal(msg, &req); err != nil {
			live.sendError("invalid message format")
			continue
		}

		switch req.Type {
		case "input":
			ctl.SetQuery(req.Query)
		case "search":
			ctl.SubmitQuery(req.Query)
		case "category":
			ctl.SetCategory(req.Category)
		case "clear":
			ctl.ClearSearch()
		default:
			live.sendError("unknown message type: " + req.Type)
		}
	}
}
