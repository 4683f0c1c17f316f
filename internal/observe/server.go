// Package observe exposes the sync layer's derived state over a local,
// read-only HTTP surface. The rendering layer polls it; nothing here can
// mutate game state.
package observe

import (
	"encoding/json"
	"net/http"

	"github.com/rs/cors"
	"github.com/rs/zerolog/log"
	"github.com/tablewire/tablewire/internal/audio"
	"github.com/tablewire/tablewire/internal/client"
	"github.com/tablewire/tablewire/internal/clock"
	"github.com/tablewire/tablewire/internal/game"
)

// TableView is the JSON document served to the renderer
type TableView struct {
	Connected    bool            `json:"connected"`
	Reconnecting bool            `json:"reconnecting"`
	TimeLeft     int             `json:"time_left"`
	ClockActive  bool            `json:"clock_active"`
	Muted        bool            `json:"muted"`
	HandValues   map[string]int  `json:"hand_values,omitempty"`
	DealerValue  int             `json:"dealer_value,omitempty"`
	State        *game.GameState `json:"state,omitempty"`
}

// Server assembles the table view from the live components
type Server struct {
	conn      *client.Manager
	sync      *client.Synchronizer
	turnClock *clock.TurnClock
	audio     *audio.Scheduler
}

// NewServer creates the observe surface over the given components
func NewServer(conn *client.Manager, sync *client.Synchronizer, turnClock *clock.TurnClock, audioSched *audio.Scheduler) *Server {
	return &Server{
		conn:      conn,
		sync:      sync,
		turnClock: turnClock,
		audio:     audioSched,
	}
}

// Handler returns the CORS-wrapped route set
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	mux.HandleFunc("/api/table", s.handleTable)

	c := cors.New(cors.Options{
		AllowedMethods: []string{http.MethodHead, http.MethodGet},
		AllowedOrigins: []string{"*"},
		AllowedHeaders: []string{"*"},
	})
	return c.Handler(mux)
}

func (s *Server) handleTable(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	view := TableView{
		Connected:    s.conn.Connected(),
		Reconnecting: s.conn.Reconnecting(),
		TimeLeft:     s.turnClock.TimeLeft(),
		ClockActive:  s.turnClock.Active(),
		Muted:        s.audio.Muted(),
		State:        s.sync.State(),
	}

	if view.State != nil {
		view.HandValues = make(map[string]int, len(view.State.Players))
		for i := range view.State.Players {
			p := &view.State.Players[i]
			view.HandValues[p.ID] = game.Evaluate(p.Hand)
		}
		view.DealerValue = game.Evaluate(view.State.DealerHand)
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(view); err != nil {
		log.Error().Err(err).Msg("failed to encode table view")
	}
}
