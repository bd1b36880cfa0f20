package api

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/l1jgo/roguesim/internal/data"
	"github.com/l1jgo/roguesim/internal/replay"
	"github.com/l1jgo/roguesim/internal/view"
	"github.com/l1jgo/roguesim/internal/world"
)

const (
	maxSpectateTicks = 60 * 60 * 20
	writeWait        = 10 * time.Second
	pongWait         = 60 * time.Second
)

type spectateParams struct {
	cfg world.Config
}

func (s *Server) parseSpectate(r *http.Request) (spectateParams, bool) {
	q := r.URL.Query()
	p := spectateParams{cfg: world.Config{Chapter: 1, Hero: data.Archer, Seed: time.Now().UnixNano()}}
	if v := q.Get("chapter"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return p, false
		}
		p.cfg.Chapter = n
	}
	if v := q.Get("hero"); v != "" {
		h, err := data.ParseHeroID(v)
		if err != nil {
			return p, false
		}
		p.cfg.Hero = h
	}
	if v := q.Get("seed"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return p, false
		}
		p.cfg.Seed = n
	}
	return p, true
}

// handleSpectate upgrades to a websocket and streams msgpack view frames of
// an autopiloted run until it ends or the client leaves. Each connection owns
// its world.
func (s *Server) handleSpectate(w http.ResponseWriter, r *http.Request) {
	params, ok := s.parseSpectate(r)
	if !ok {
		http.Error(w, "invalid spectate parameters", http.StatusBadRequest)
		return
	}
	if v := r.URL.Query().Get("profile"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			http.Error(w, "invalid profile id", http.StatusBadRequest)
			return
		}
		prof, err := s.svc.Profile(r.Context(), id)
		if err != nil {
			s.writeError(w, err)
			return
		}
		params.cfg.Bonuses = s.svc.Bonuses(prof)
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("spectate upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	s.log.Info("spectator joined",
		zap.String("remote", r.RemoteAddr),
		zap.Int("chapter", params.cfg.Chapter),
		zap.Stringer("hero", params.cfg.Hero),
		zap.Int64("seed", params.cfg.Seed))

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	go readPump(conn, cancel)

	reason := s.stream(ctx, conn, params.cfg)
	s.log.Info("spectator left", zap.String("remote", r.RemoteAddr), zap.String("reason", reason))
}

// readPump discards client messages and cancels the stream once the
// connection drops.
func readPump(conn *websocket.Conn, cancel context.CancelFunc) {
	defer cancel()
	conn.SetReadLimit(512)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (s *Server) stream(ctx context.Context, conn *websocket.Conn, cfg world.Config) string {
	fps := max(1, s.cfg.SpectateFPS)
	h := &replay.Header{FixedStep: s.sim.FixedStep, ViewW: s.sim.ViewWidth, ViewH: s.sim.ViewHeight}
	steps := max(1, int(math.Round(1/(float64(fps)*h.FixedStep))))

	w := world.New(s.content, cfg)
	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()
	ping := time.NewTicker(pongWait * 9 / 10)
	defer ping.Stop()

	for {
		select {
		case <-ctx.Done():
			return "disconnected"
		case <-ping.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return "ping failed"
			}
		case <-ticker.C:
			for i := 0; i < steps && !w.Over(); i++ {
				replay.Step(w, s.pilot, h)
				w.Events.Flush()
			}
			b, err := view.Encode(view.Build(w))
			if err != nil {
				s.log.Error("encode spectate frame", zap.Error(err))
				return "encode failed"
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.BinaryMessage, b); err != nil {
				return "write failed"
			}

			if reason, done := finished(w); done {
				msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, reason)
				_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
				return reason
			}
		}
	}
}

func finished(w *world.World) (string, bool) {
	switch {
	case w.Victory:
		return "victory", true
	case w.GameOver:
		return "game over", true
	case w.Frame >= maxSpectateTicks:
		return "time limit", true
	}
	return "", false
}
