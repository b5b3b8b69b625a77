package httpserver

import (
	"errors"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordle/apps/tile-board/internal/input"
)

// wsReq is one client frame: a raw key name such as "A" or "Enter".
type wsReq struct {
	Key string `json:"key"`
}

// handleWS streams keys for one game. The server answers every frame with
// the updated view, plus error/message when the key was rejected.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	id := gameIDFrom(r.Context())
	b, err := s.store.Get(r.Context(), id)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already replied with an HTTP error.
		log.Debug().Err(err).Str("gameId", id).Msg("websocket upgrade")
		return
	}
	defer conn.Close()

	v := b.View()
	if err := conn.WriteJSON(moveRes{View: &v}); err != nil {
		return
	}

	ctx := r.Context()
	for {
		var req wsReq
		if err := conn.ReadJSON(&req); err != nil {
			var closeErr *websocket.CloseError
			if !errors.As(err, &closeErr) {
				log.Debug().Err(err).Str("gameId", id).Msg("websocket read")
			}
			return
		}

		var res moveRes
		if in, ok := input.ParseKey(req.Key); ok {
			_, res = s.apply(ctx, id, in)
		} else {
			res = moveRes{Error: "unknown_key", Message: req.Key}
		}
		if err := conn.WriteJSON(res); err != nil {
			log.Debug().Err(err).Str("gameId", id).Msg("websocket write")
			return
		}
	}
}
