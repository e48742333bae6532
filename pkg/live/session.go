package live

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	ferrors "github.com/filament-ui/filament/internal/errors"
	"github.com/filament-ui/filament/pkg/dom"
	"github.com/filament-ui/filament/pkg/metrics"
	"github.com/filament-ui/filament/pkg/reactive"
	"github.com/filament-ui/filament/pkg/runtime"
	"github.com/filament-ui/filament/pkg/trace"
)

// Session is one page view: a server-side document tree, the component
// instance mounted into it, and the scheduler that owns both. All tree
// access happens on the scheduler goroutine.
type Session struct {
	id       string
	root     *dom.Element
	instance *runtime.Instance
	sched    *reactive.Scheduler

	connMu sync.Mutex
	conn   *websocket.Conn

	lastActive atomic.Int64
	closed     atomic.Bool
	closeOnce  sync.Once

	logger  *slog.Logger
	metrics *metrics.Metrics
	tracer  *trace.Tracer
	onClose func(*Session)

	readTimeout  time.Duration
	writeTimeout time.Duration
}

func newSessionID() string {
	b := make([]byte, 16)
	rand.Read(b)
	return hex.EncodeToString(b)
}

// newSession mounts the component into a fresh tree on the session's
// scheduler and waits for the mount to settle.
func newSession(c *runtime.Component, props runtime.Props, cfg *config, onClose func(*Session)) *Session {
	s := &Session{
		id:           newSessionID(),
		root:         dom.NewElement("div"),
		sched:        reactive.NewScheduler(),
		metrics:      cfg.metrics,
		tracer:       cfg.tracer,
		onClose:      onClose,
		readTimeout:  cfg.readTimeout,
		writeTimeout: cfg.writeTimeout,
	}
	s.logger = cfg.logger.With("session", s.id)
	s.Touch()

	s.sched.SetObserver(func(jobs int, duration time.Duration) {
		if s.metrics != nil {
			s.metrics.FlushObserver()(jobs, duration)
		}
		if jobs > 0 {
			s.pushPatch()
		}
	})

	s.sched.Enqueue(reactive.NewJob(func() {
		s.instance = runtime.MountSSR(c, props, s.root)
	}))
	<-s.sched.NextTick()

	return s
}

// ID returns the session identifier used by the page and the socket.
func (s *Session) ID() string { return s.id }

// Touch records activity for TTL accounting.
func (s *Session) Touch() {
	s.lastActive.Store(time.Now().UnixNano())
}

// LastActive reports the time of the most recent client activity.
func (s *Session) LastActive() time.Time {
	return time.Unix(0, s.lastActive.Load())
}

// Expired reports whether the session has been idle longer than ttl.
func (s *Session) Expired(ttl time.Duration) bool {
	return time.Since(s.LastActive()) > ttl
}

// HTML serializes the session tree on the scheduler goroutine.
func (s *Session) HTML() string {
	var html string
	s.sched.Enqueue(reactive.NewJob(func() {
		html = s.root.InnerHTML()
	}))
	<-s.sched.NextTick()
	return html
}

// Attach binds the WebSocket connection and blocks reading frames until
// the connection or the session closes.
func (s *Session) Attach(conn *websocket.Conn) {
	s.connMu.Lock()
	old := s.conn
	s.conn = conn
	s.connMu.Unlock()
	if old != nil {
		old.Close()
	}

	// Bring a reconnecting client up to date immediately.
	s.send(&serverMessage{Type: msgPatch, HTML: s.HTML()})

	s.readLoop(conn)
}

func (s *Session) readLoop(conn *websocket.Conn) {
	for {
		if s.readTimeout > 0 {
			conn.SetReadDeadline(time.Now().Add(s.readTimeout))
		}
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
				websocket.CloseNormalClosure) {
				s.logger.Error("read error", "error", err)
				if s.metrics != nil {
					s.metrics.ObserveWSError("read")
				}
			}
			return
		}

		s.Touch()

		var msg clientMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			s.logger.Warn("message decode error", "error", ferrors.FromError(err, errInvalidMessage))
			if s.metrics != nil {
				s.metrics.ObserveWSError("decode")
			}
			s.send(&serverMessage{Type: msgError, Code: errInvalidMessage, Message: "malformed message"})
			continue
		}

		switch msg.Type {
		case msgEvent:
			s.HandleEvent(&msg)
		case msgPing:
			s.send(&serverMessage{Type: msgPong})
		default:
			s.logger.Warn("unknown message type", "type", msg.Type)
		}
	}
}

// HandleEvent dispatches one client event into the tree on the
// scheduler goroutine. The resulting patch is pushed by the flush
// observer once the dispatch settles.
func (s *Session) HandleEvent(msg *clientMessage) {
	if s.closed.Load() {
		return
	}
	s.sched.Enqueue(reactive.NewJob(func() {
		s.dispatch(msg)
	}))
}

func (s *Session) dispatch(msg *clientMessage) {
	target := resolvePath(s.root, msg.Path)
	if target == nil {
		stale := ferrors.New(errStaleTarget).WithDetail(fmt.Sprintf("event %s, path %v", msg.Event, msg.Path))
		s.logger.Debug("event target not found", "error", stale)
		s.send(&serverMessage{Type: msgError, Code: errStaleTarget, Message: stale.Message})
		return
	}

	applyFormState(target, msg)
	ev := &dom.Event{Type: msg.Event, Key: msg.Key}

	_, finish := s.tracer.StartEvent(context.Background(), s.id, ev)
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("event handler panicked: %v", r)
			s.logger.Error("event dispatch failed",
				"event", msg.Event,
				"target", target.TagName,
				"panic", r,
			)
			if s.metrics != nil {
				s.metrics.ObserveEventError(msg.Event)
			}
			finish(err)
			return
		}
		if s.metrics != nil {
			s.metrics.ObserveEvent(msg.Event, time.Since(start))
		}
		finish(nil)
	}()

	target.DispatchEvent(ev)
}

// pushPatch serializes the tree and sends it. Runs on the scheduler
// goroutine via the flush observer.
func (s *Session) pushPatch() {
	s.connMu.Lock()
	connected := s.conn != nil
	s.connMu.Unlock()
	if !connected || s.closed.Load() {
		return
	}

	html := s.root.InnerHTML()
	if s.send(&serverMessage{Type: msgPatch, HTML: html}) && s.metrics != nil {
		s.metrics.ObservePatch(len(html))
	}
}

func (s *Session) send(msg *serverMessage) bool {
	s.connMu.Lock()
	defer s.connMu.Unlock()
	if s.conn == nil {
		return false
	}
	if s.writeTimeout > 0 {
		s.conn.SetWriteDeadline(time.Now().Add(s.writeTimeout))
	}
	if err := s.conn.WriteJSON(msg); err != nil {
		s.logger.Warn("write error", "error", err)
		if s.metrics != nil {
			s.metrics.ObserveWSError("write")
		}
		return false
	}
	return true
}

// Close tears the session down: the instance is destroyed on the
// scheduler, the scheduler stops, and the socket closes. Idempotent.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.closed.Store(true)

		s.sched.Enqueue(reactive.NewJob(func() {
			if s.instance != nil {
				s.instance.Destroy()
			}
		}))
		<-s.sched.NextTick()
		s.sched.Stop()

		s.connMu.Lock()
		conn := s.conn
		s.conn = nil
		s.connMu.Unlock()
		if conn != nil {
			conn.Close()
		}

		if s.onClose != nil {
			s.onClose(s)
		}
		s.logger.Debug("session closed")
	})
}
