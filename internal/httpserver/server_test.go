package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/wordle/apps/tile-board/assets"
	"github.com/robalobadob/wordle/apps/tile-board/internal/game"
	"github.com/robalobadob/wordle/apps/tile-board/internal/history"
	"github.com/robalobadob/wordle/apps/tile-board/internal/store"
)

type testServer struct {
	srv     *Server
	store   store.Store
	history *history.Store
}

func newTestServer(t *testing.T, cfg game.Config) *testServer {
	t.Helper()
	db, err := history.Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, history.Migrate(db, assets.Migrations()))

	ts := &testServer{store: store.NewMemoryStore(), history: history.NewStore(db)}
	ts.srv = New(Options{
		Game:     cfg,
		Store:    ts.store,
		History:  ts.history,
		Sessions: NewSessions("test-secret", time.Hour),
	})
	return ts
}

func (ts *testServer) request(method, path string, body any, token string) *httptest.ResponseRecorder {
	reqBody := bytes.NewBuffer(nil)
	if body != nil {
		b, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(b)
	}
	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	ts.srv.Router().ServeHTTP(rr, req)
	return rr
}

func (ts *testServer) newGame(t *testing.T, answer string) newGameRes {
	t.Helper()
	var body any
	if answer != "" {
		body = newGameReq{Answer: answer}
	}
	rr := ts.request(http.MethodPost, "/game/new", body, "")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var res newGameRes
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &res))
	return res
}

// typeWord posts each letter of w and then submits.
func (ts *testServer) typeWord(t *testing.T, g newGameRes, w string) moveRes {
	t.Helper()
	for i := 0; i < len(w); i++ {
		rr := ts.request(http.MethodPost, "/game/"+g.GameID+"/letter", letterReq{Letter: w[i : i+1]}, g.Token)
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	}
	rr := ts.request(http.MethodPost, "/game/"+g.GameID+"/submit", nil, g.Token)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	return decodeMove(t, rr)
}

func decodeMove(t *testing.T, rr *httptest.ResponseRecorder) moveRes {
	t.Helper()
	var res moveRes
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &res))
	return res
}

func TestHealthAndIndex(t *testing.T) {
	ts := newTestServer(t, game.DefaultConfig())

	rr := ts.request(http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"ok":true}`, rr.Body.String())

	rr = ts.request(http.MethodGet, "/", nil, "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "tile-board")

	rr = ts.request(http.MethodGet, "/nope", nil, "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestNewGame(t *testing.T) {
	ts := newTestServer(t, game.DefaultConfig())

	rr := ts.request(http.MethodPost, "/game/new", nil, "")
	require.Equal(t, http.StatusOK, rr.Code)
	var res newGameRes
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &res))

	assert.NotEmpty(t, res.GameID)
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, res.GameID, res.View.ID)
	assert.Equal(t, 6, res.View.Rows)
	assert.Equal(t, 5, res.View.Cols)
	assert.Equal(t, game.PhaseAccepting, res.View.Phase)
	assert.Empty(t, res.View.Secret)

	cookies := rr.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, sessionCookieName, cookies[0].Name)
	assert.Equal(t, "/game/"+res.GameID, cookies[0].Path)
	assert.True(t, cookies[0].HttpOnly)

	_, err := ts.store.Get(context.Background(), res.GameID)
	assert.NoError(t, err)
}

func TestNewGameRejectsBadAnswer(t *testing.T) {
	ts := newTestServer(t, game.DefaultConfig())

	rr := ts.request(http.MethodPost, "/game/new", newGameReq{Answer: "cat"}, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "invalid_config", decodeMove(t, rr).Error)
}

func TestPlayToWin(t *testing.T) {
	ts := newTestServer(t, game.DefaultConfig())
	g := ts.newGame(t, "crane")

	res := ts.typeWord(t, g, "react")
	require.NotNil(t, res.View)
	assert.Equal(t, game.StatusPlaying, res.View.Status)
	assert.Equal(t, []game.Mark{game.MarkPresent, game.MarkPresent, game.MarkCorrect, game.MarkPresent, game.MarkAbsent}, res.Marks)

	res = ts.typeWord(t, g, "crane")
	assert.Equal(t, game.StatusWon, res.View.Status)
	assert.Equal(t, game.PhaseWon, res.View.Phase)
	assert.True(t, game.AllCorrect(res.Marks))

	rr := ts.request(http.MethodPost, "/game/"+g.GameID+"/letter", letterReq{Letter: "A"}, g.Token)
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, "game_over", decodeMove(t, rr).Error)

	recs, err := ts.history.Recent(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, game.StatusWon, recs[0].Status)
	assert.Equal(t, 2, recs[0].Attempts)
	assert.NotNil(t, recs[0].FinishedAt)
}

func TestLossRevealsSecret(t *testing.T) {
	ts := newTestServer(t, game.Config{Rows: 2, Cols: 5, Secret: "WORDS"})
	g := ts.newGame(t, "")

	ts.typeWord(t, g, "apple")
	res := ts.typeWord(t, g, "mango")

	assert.Equal(t, game.StatusLost, res.View.Status)
	assert.Equal(t, "WORDS", res.View.Secret)
	assert.Equal(t, 2, res.View.Row)
	assert.Equal(t, 0, res.View.Tile)
}

func TestRejections(t *testing.T) {
	ts := newTestServer(t, game.DefaultConfig())
	g := ts.newGame(t, "")
	base := "/game/" + g.GameID

	rr := ts.request(http.MethodPost, base+"/delete", nil, g.Token)
	assert.Equal(t, http.StatusConflict, rr.Code)
	res := decodeMove(t, rr)
	assert.Equal(t, "row_empty", res.Error)
	assert.NotEmpty(t, res.Message)
	require.NotNil(t, res.View)
	assert.Equal(t, 0, res.View.Tile)

	rr = ts.request(http.MethodPost, base+"/submit", nil, g.Token)
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, "incomplete_row", decodeMove(t, rr).Error)

	rr = ts.request(http.MethodPost, base+"/letter", letterReq{Letter: "1"}, g.Token)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "invalid_letter", decodeMove(t, rr).Error)

	rr = ts.request(http.MethodPost, base+"/letter", letterReq{Letter: "AB"}, g.Token)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	for _, l := range "ABCDE" {
		rr = ts.request(http.MethodPost, base+"/letter", letterReq{Letter: string(l)}, g.Token)
		require.Equal(t, http.StatusOK, rr.Code)
	}
	rr = ts.request(http.MethodPost, base+"/letter", letterReq{Letter: "F"}, g.Token)
	assert.Equal(t, http.StatusConflict, rr.Code)
	res = decodeMove(t, rr)
	assert.Equal(t, "row_full", res.Error)
	assert.Equal(t, game.PhaseRowFull, res.View.Phase)
	assert.Equal(t, "E", res.View.Grid[0][4].Letter)
}

func TestKeyEndpoint(t *testing.T) {
	ts := newTestServer(t, game.DefaultConfig())
	g := ts.newGame(t, "")
	base := "/game/" + g.GameID

	rr := ts.request(http.MethodPost, base+"/key", keyReq{Key: "w"}, g.Token)
	require.Equal(t, http.StatusOK, rr.Code)
	rr = ts.request(http.MethodPost, base+"/key", keyReq{Key: "Backspace"}, g.Token)
	require.Equal(t, http.StatusOK, rr.Code)
	res := decodeMove(t, rr)
	assert.Equal(t, 0, res.View.Tile)
	assert.Empty(t, res.View.Grid[0][0].Letter)

	rr = ts.request(http.MethodPost, base+"/key", keyReq{Key: "F5"}, g.Token)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "unknown_key", decodeMove(t, rr).Error)
}

func TestViewEndpoint(t *testing.T) {
	ts := newTestServer(t, game.DefaultConfig())
	g := ts.newGame(t, "")

	ts.request(http.MethodPost, "/game/"+g.GameID+"/letter", letterReq{Letter: "q"}, g.Token)
	rr := ts.request(http.MethodGet, "/game/"+g.GameID, nil, g.Token)
	require.Equal(t, http.StatusOK, rr.Code)
	res := decodeMove(t, rr)
	assert.Equal(t, "Q", res.View.Grid[0][0].Letter)
	assert.Equal(t, 1, res.View.Tile)
}

func TestSessionRequired(t *testing.T) {
	ts := newTestServer(t, game.DefaultConfig())
	g := ts.newGame(t, "")
	other := ts.newGame(t, "")
	path := "/game/" + g.GameID

	tests := map[string]string{
		"missing":    "",
		"garbage":    "not-a-jwt",
		"other game": other.Token,
	}
	for name, tok := range tests {
		t.Run(name, func(t *testing.T) {
			rr := ts.request(http.MethodGet, path, nil, tok)
			assert.Equal(t, http.StatusUnauthorized, rr.Code)
		})
	}

	t.Run("expired", func(t *testing.T) {
		s := NewSessions("test-secret", time.Minute)
		s.now = func() time.Time { return time.Now().Add(-time.Hour) }
		tok, _, err := s.Sign(g.GameID)
		require.NoError(t, err)
		rr := ts.request(http.MethodGet, path, nil, tok)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("wrong key", func(t *testing.T) {
		tok, _, err := NewSessions("another-secret", time.Hour).Sign(g.GameID)
		require.NoError(t, err)
		rr := ts.request(http.MethodGet, path, nil, tok)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

func TestSessionCookieAndQuery(t *testing.T) {
	ts := newTestServer(t, game.DefaultConfig())
	g := ts.newGame(t, "")

	req := httptest.NewRequest(http.MethodGet, "/game/"+g.GameID, nil)
	req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: g.Token})
	rr := httptest.NewRecorder()
	ts.srv.Router().ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = ts.request(http.MethodGet, "/game/"+g.GameID+"?token="+g.Token, nil, "")
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestUnknownGame(t *testing.T) {
	ts := newTestServer(t, game.DefaultConfig())
	tok, _, err := ts.srv.sessions.Sign("missing")
	require.NoError(t, err)

	rr := ts.request(http.MethodGet, "/game/missing", nil, tok)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = ts.request(http.MethodPost, "/game/missing/submit", nil, tok)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestRecentGames(t *testing.T) {
	ts := newTestServer(t, game.DefaultConfig())
	ts.newGame(t, "")
	ts.newGame(t, "")

	rr := ts.request(http.MethodGet, "/games/recent", nil, "")
	require.Equal(t, http.StatusOK, rr.Code)
	var recs []history.Record
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &recs))
	assert.Len(t, recs, 2)
	for _, r := range recs {
		assert.Equal(t, game.StatusPlaying, r.Status)
		assert.Nil(t, r.FinishedAt)
	}
}

func TestRecentGamesWithoutHistory(t *testing.T) {
	srv := New(Options{
		Game:     game.DefaultConfig(),
		Store:    store.NewMemoryStore(),
		Sessions: NewSessions("x", time.Hour),
	})
	rr := httptest.NewRecorder()
	srv.Router().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/games/recent", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[]`, rr.Body.String())
}

func TestCORSPreflight(t *testing.T) {
	t.Setenv("CLIENT_ORIGIN", "http://example.test")
	ts := newTestServer(t, game.DefaultConfig())

	rr := ts.request(http.MethodOptions, "/game/new", nil, "")
	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, "http://example.test", rr.Header().Get("Access-Control-Allow-Origin"))
}
