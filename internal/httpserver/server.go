// internal/httpserver/server.go
//
// HTTP server wiring for the tile-board game.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs).
//   - Public endpoints: "/", "/health", POST /game/new, GET /games/recent.
//   - Session-gated endpoints under /game/{id}: view, letter, delete,
//     submit, raw key, and a websocket key stream.
//   - Best-effort history recording of game starts and outcomes.
//
// Notes:
//   - Rejected intents (row full, row empty, ...) are 409 responses that
//     still carry the current view, so clients can redraw and show a hint.
//   - Every intent runs inside store.Update, which serializes intents per
//     session.

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordle/apps/tile-board/internal/game"
	"github.com/robalobadob/wordle/apps/tile-board/internal/history"
	"github.com/robalobadob/wordle/apps/tile-board/internal/input"
	"github.com/robalobadob/wordle/apps/tile-board/internal/store"
)

// Options are the dependencies of a Server. History may be nil.
type Options struct {
	Game     game.Config
	Store    store.Store
	History  *history.Store
	Sessions *Sessions
}

// Server bundles router, session store and history.
type Server struct {
	r        *chi.Mux
	cfg      game.Config
	store    store.Store
	history  *history.Store
	sessions *Sessions
	dispatch *input.Dispatcher
	upgrader websocket.Upgrader
	now      func() time.Time
}

// New constructs a Server, installs middleware, and registers routes.
func New(opts Options) *Server {
	s := &Server{
		r:        chi.NewRouter(),
		cfg:      opts.Game,
		store:    opts.Store,
		history:  opts.History,
		sessions: opts.Sessions,
		dispatch: input.NewDispatcher(log.Logger),
		now:      time.Now,
	}
	origin := allowedOrigin()
	s.upgrader = websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			o := r.Header.Get("Origin")
			return o == "" || o == origin
		},
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID) // add X-Request-ID
	s.r.Use(chimw.RealIP)    // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(chimw.Recoverer) // recover from panics
	s.r.Use(requestLogger)
	s.r.Use(corsFromEnv) // credentials-friendly CORS

	// --- plain JSON endpoints ---
	s.r.Group(func(r chi.Router) {
		r.Use(chimw.Timeout(10 * time.Second)) // bound handler time
		r.Use(jsonContentType)

		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"service":"tile-board","endpoints":["/health","POST /game/new","/game/{id}","/games/recent"]}`))
		})
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"ok":true}`))
		})
		r.Post("/game/new", s.handleNewGame)
		r.Get("/games/recent", s.handleRecent)
	})

	// --- session-gated game endpoints ---
	s.r.Route("/game/{id}", func(r chi.Router) {
		r.Use(s.requireSession)

		// The websocket outlives the request timeout.
		r.Get("/ws", s.handleWS)

		r.Group(func(r chi.Router) {
			r.Use(chimw.Timeout(10 * time.Second))
			r.Use(jsonContentType)

			r.Get("/", s.handleView)
			r.Post("/letter", s.handleLetter)
			r.Post("/delete", s.handleIntent(input.Intent{Kind: input.Delete}))
			r.Post("/submit", s.handleIntent(input.Intent{Kind: input.Submit}))
			r.Post("/key", s.handleKey)
		})
	})

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not_found", r.URL.Path)
	})

	return s
}

// Router exposes the internal router (useful for tests and http.Server).
func (s *Server) Router() chi.Router { return s.r }

// ------------------------------ GAME ---------------------------------------

// newGameReq/Res payloads for POST /game/new.
type newGameReq struct {
	Answer string `json:"answer"` // optional secret override (testing)
}
type newGameRes struct {
	GameID    string    `json:"gameId"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	View      game.View `json:"view"`
}

// handleNewGame creates a board, stores it, and hands out a session token.
func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var req newGameReq
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "bad_json", err.Error())
			return
		}
	}

	cfg := s.cfg
	if req.Answer != "" {
		cfg.Secret = req.Answer
	}
	b, err := game.New(cfg)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_config", err.Error())
		return
	}
	if err := s.store.Save(r.Context(), b); err != nil {
		log.Error().Err(err).Msg("save game")
		writeError(w, http.StatusInternalServerError, "save_failed", "")
		return
	}
	tok, exp, err := s.sessions.Sign(b.ID())
	if err != nil {
		log.Error().Err(err).Msg("sign session")
		writeError(w, http.StatusInternalServerError, "sign_failed", "")
		return
	}
	setSessionCookie(w, b.ID(), tok, exp)

	if s.history != nil {
		if err := s.history.Started(r.Context(), b, s.now()); err != nil {
			log.Warn().Err(err).Str("gameId", b.ID()).Msg("record game start")
		}
	}
	log.Info().Str("gameId", b.ID()).Int("rows", cfg.Rows).Int("cols", cfg.Cols).Msg("game created")

	writeJSON(w, http.StatusOK, newGameRes{GameID: b.ID(), Token: tok, ExpiresAt: exp, View: b.View()})
}

// moveRes is the payload for every intent, over HTTP and websocket alike.
type moveRes struct {
	View    *game.View  `json:"view,omitempty"`
	Marks   []game.Mark `json:"marks,omitempty"`
	Error   string      `json:"error,omitempty"`
	Message string      `json:"message,omitempty"`
}

// handleView returns the current board.
func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	b, err := s.store.Get(r.Context(), gameIDFrom(r.Context()))
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	v := b.View()
	writeJSON(w, http.StatusOK, moveRes{View: &v})
}

type letterReq struct {
	Letter string `json:"letter"`
}

// handleLetter inserts one letter.
func (s *Server) handleLetter(w http.ResponseWriter, r *http.Request) {
	var req letterReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json", err.Error())
		return
	}
	if len(req.Letter) != 1 {
		writeError(w, http.StatusBadRequest, "invalid_letter", input.Hint(game.ErrInvalidLetter))
		return
	}
	s.handleIntent(input.Intent{Kind: input.Insert, Letter: req.Letter[0]})(w, r)
}

type keyReq struct {
	Key string `json:"key"`
}

// handleKey maps a raw key name ("A", "Enter", "Backspace") to an intent.
func (s *Server) handleKey(w http.ResponseWriter, r *http.Request) {
	var req keyReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json", err.Error())
		return
	}
	in, ok := input.ParseKey(req.Key)
	if !ok {
		writeError(w, http.StatusBadRequest, "unknown_key", req.Key)
		return
	}
	s.handleIntent(in)(w, r)
}

// handleIntent returns a handler applying a fixed intent.
func (s *Server) handleIntent(in input.Intent) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status, res := s.apply(r.Context(), gameIDFrom(r.Context()), in)
		writeJSON(w, status, res)
	}
}

// apply runs one intent against the stored board and builds the response.
func (s *Server) apply(ctx context.Context, id string, in input.Intent) (int, moveRes) {
	var marks []game.Mark
	b, err := s.store.Update(ctx, id, func(b *game.Board) error {
		m, err := s.dispatch.Dispatch(b, in)
		marks = m
		return err
	})
	switch {
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound, moveRes{Error: "not_found"}
	case game.IsRejection(err):
		v := b.View()
		status := http.StatusConflict
		if errors.Is(err, game.ErrInvalidLetter) {
			status = http.StatusBadRequest
		}
		return status, moveRes{View: &v, Error: game.Code(err), Message: input.Hint(err)}
	case err != nil:
		log.Error().Err(err).Str("gameId", id).Msg("apply intent")
		return http.StatusInternalServerError, moveRes{Error: "store_failed"}
	}

	if in.Kind == input.Submit && b.Status().Terminal() && s.history != nil {
		if err := s.history.Finished(ctx, b, s.now()); err != nil {
			log.Warn().Err(err).Str("gameId", id).Msg("record game outcome")
		}
	}
	v := b.View()
	return http.StatusOK, moveRes{View: &v, Marks: marks}
}

// handleRecent lists the latest finished and running games.
func (s *Server) handleRecent(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		writeJSON(w, http.StatusOK, []history.Record{})
		return
	}
	recs, err := s.history.Recent(r.Context(), 50)
	if err != nil {
		log.Error().Err(err).Msg("recent games")
		writeError(w, http.StatusInternalServerError, "db_error", "")
		return
	}
	writeJSON(w, http.StatusOK, recs)
}

// ------------------------------- small util --------------------------------

func (s *Server) writeStoreError(w http.ResponseWriter, err error) {
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "not_found", "")
		return
	}
	log.Error().Err(err).Msg("load game")
	writeError(w, http.StatusInternalServerError, "store_failed", "")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, moveRes{Error: code, Message: msg})
}
