// Package api serves the meta-progression profile over HTTP and streams
// autopiloted runs to websocket spectators.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/l1jgo/roguesim/internal/autopilot"
	"github.com/l1jgo/roguesim/internal/config"
	"github.com/l1jgo/roguesim/internal/data"
	"github.com/l1jgo/roguesim/internal/meta"
)

const defaultRunLimit = 20

type Server struct {
	svc      *meta.Service
	content  *data.Content
	cfg      config.HTTPConfig
	sim      config.SimulationConfig
	log      *zap.Logger
	pilot    *autopilot.Pilot
	upgrader websocket.Upgrader
}

func NewServer(svc *meta.Service, content *data.Content, cfg *config.Config, log *zap.Logger) *Server {
	return &Server{
		svc:     svc,
		content: content,
		cfg:     cfg.HTTP,
		sim:     cfg.Simulation,
		log:     log,
		pilot:   autopilot.New(),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Router wires every route.
func (s *Server) Router() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}).Methods(http.MethodGet)
	r.HandleFunc("/upgrades", s.handleUpgrades).Methods(http.MethodGet)

	r.HandleFunc("/profiles/{id}", s.handleProfile).Methods(http.MethodGet)
	r.HandleFunc("/profiles/{id}/upgrades/{upgrade}", s.handlePurchase).Methods(http.MethodPost)
	r.HandleFunc("/profiles/{id}/hero/{hero}", s.handleSelectHero).Methods(http.MethodPost)
	r.HandleFunc("/profiles/{id}/heroes/{hero}/unlock", s.handleUnlockHero).Methods(http.MethodPost)
	r.HandleFunc("/profiles/{id}/runs", s.handleRuns).Methods(http.MethodGet)

	r.HandleFunc("/spectate", s.handleSpectate).Methods(http.MethodGet)
	return withCORS(r)
}

type upgradeJSON struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Level       int    `json:"level"`
	MaxLevel    int    `json:"max_level"`
	NextCost    *int   `json:"next_cost"` // null once maxed
}

type profileJSON struct {
	ID             string        `json:"id"`
	Coins          int           `json:"coins"`
	HighestChapter int           `json:"highest_chapter"`
	TotalRuns      int           `json:"total_runs"`
	TotalKills     int           `json:"total_kills"`
	SelectedHero   string        `json:"selected_hero"`
	Unlocked       []string      `json:"unlocked_heroes"`
	Upgrades       []upgradeJSON `json:"upgrades"`
}

type runJSON struct {
	ID         string  `json:"id"`
	Chapter    int     `json:"chapter"`
	Hero       string  `json:"hero"`
	Victory    bool    `json:"victory"`
	Kills      int     `json:"kills"`
	Coins      int     `json:"coins"`
	Level      int     `json:"level"`
	RunTime    float64 `json:"run_time"`
	Seed       int64   `json:"seed"`
	FinishedAt string  `json:"finished_at"`
}

func (s *Server) upgradeList(levels [data.NumUpgrades]int) []upgradeJSON {
	out := make([]upgradeJSON, 0, data.NumUpgrades)
	for id := data.UpgradeID(0); id < data.NumUpgrades; id++ {
		u := s.content.Upgrades.Get(id)
		uj := upgradeJSON{
			ID:          id.String(),
			Name:        u.Name,
			Description: u.Description,
			Level:       levels[id],
			MaxLevel:    u.MaxLevel,
		}
		if levels[id] < u.MaxLevel {
			cost := s.svc.UpgradeCost(levels[id])
			uj.NextCost = &cost
		}
		out = append(out, uj)
	}
	return out
}

func (s *Server) profileJSON(p *meta.Profile) profileJSON {
	pj := profileJSON{
		ID:             p.ID.String(),
		Coins:          p.Coins,
		HighestChapter: p.HighestChapter,
		TotalRuns:      p.TotalRuns,
		TotalKills:     p.TotalKills,
		SelectedHero:   p.SelectedHero.String(),
		Unlocked:       []string{},
		Upgrades:       s.upgradeList(p.Upgrades),
	}
	for h := data.HeroID(0); h < data.NumHeroes; h++ {
		if p.Unlocked[h] {
			pj.Unlocked = append(pj.Unlocked, h.String())
		}
	}
	return pj
}

func (s *Server) handleUpgrades(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.upgradeList([data.NumUpgrades]int{}))
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	id, ok := profileID(w, r)
	if !ok {
		return
	}
	p, err := s.svc.Profile(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.profileJSON(p))
}

func (s *Server) handlePurchase(w http.ResponseWriter, r *http.Request) {
	id, ok := profileID(w, r)
	if !ok {
		return
	}
	upgrade, err := data.ParseUpgradeID(mux.Vars(r)["upgrade"])
	if err != nil {
		s.writeError(w, meta.ErrUnknownUpgrade)
		return
	}
	p, err := s.svc.PurchaseUpgrade(r.Context(), id, upgrade)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.profileJSON(p))
}

func (s *Server) handleSelectHero(w http.ResponseWriter, r *http.Request) {
	s.heroAction(w, r, s.svc.SelectHero)
}

func (s *Server) handleUnlockHero(w http.ResponseWriter, r *http.Request) {
	s.heroAction(w, r, s.svc.UnlockHero)
}

type heroFunc func(ctx context.Context, id uuid.UUID, hero data.HeroID) (*meta.Profile, error)

func (s *Server) heroAction(w http.ResponseWriter, r *http.Request, fn heroFunc) {
	id, ok := profileID(w, r)
	if !ok {
		return
	}
	hero, err := data.ParseHeroID(mux.Vars(r)["hero"])
	if err != nil {
		s.writeError(w, meta.ErrUnknownHero)
		return
	}
	p, err := fn(r.Context(), id, hero)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.profileJSON(p))
}

func (s *Server) handleRuns(w http.ResponseWriter, r *http.Request) {
	id, ok := profileID(w, r)
	if !ok {
		return
	}
	limit := defaultRunLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = min(n, 100)
	}
	runs, err := s.svc.RecentRuns(r.Context(), id, limit)
	if err != nil {
		s.writeError(w, err)
		return
	}
	out := make([]runJSON, 0, len(runs))
	for _, run := range runs {
		out = append(out, runJSON{
			ID:         run.ID.String(),
			Chapter:    run.Chapter,
			Hero:       run.Hero.String(),
			Victory:    run.Victory,
			Kills:      run.Kills,
			Coins:      run.Coins,
			Level:      run.Level,
			RunTime:    run.RunTime,
			Seed:       run.Seed,
			FinishedAt: run.FinishedAt.UTC().Format("2006-01-02T15:04:05Z"),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func profileID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid profile id", http.StatusBadRequest)
		return uuid.Nil, false
	}
	return id, true
}

// writeError maps domain errors to status codes; anything else is a 500.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, meta.ErrUnknownUpgrade), errors.Is(err, meta.ErrUnknownHero), errors.Is(err, meta.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, meta.ErrMaxLevel):
		status = http.StatusConflict
	case errors.Is(err, meta.ErrInsufficientCoins):
		status = http.StatusPaymentRequired
	case errors.Is(err, meta.ErrHeroLocked):
		status = http.StatusForbidden
	default:
		s.log.Error("request failed", zap.Error(err))
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}
