package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/content-synth/internal/agent/generator"
	"github.com/content-synth/internal/catalog"
	"github.com/content-synth/internal/export"
	"github.com/content-synth/internal/models"
	"github.com/content-synth/internal/session"
	"github.com/content-synth/internal/storage"
	"github.com/content-synth/internal/storage/sqlite"
	"github.com/content-synth/pkg/logger"
)

type stubCaptions struct {
	text string
	err  error
}

func (s *stubCaptions) GenerateCaption(context.Context, *models.CaptionRequest) (string, error) {
	return s.text, s.err
}

func setup(t *testing.T, captions *stubCaptions) (*gin.Engine, *session.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	agent, err := generator.NewAgent(catalog.Default(), captions, logger.Nop())
	require.NoError(t, err)
	store := session.NewStore()
	return NewRouter(NewHandler(agent, store, logger.Nop())), store
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func createSession(t *testing.T, r http.Handler) string {
	t.Helper()
	w := do(r, http.MethodPost, "/sessions", "")
	require.Equal(t, http.StatusCreated, w.Code)
	var resp struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.ID)
	return resp.ID
}

const generateBody = `{"platform":"TikTok","campaign_type":"Music-Integrated Learning","brand_tone":"Friendly","course_title":"Summer Beats","seed":99}`

func TestGenerateFlow(t *testing.T) {
	r, _ := setup(t, &stubCaptions{text: "Find your rhythm with friends 🎶 Join us!"})
	id := createSession(t, r)

	w := do(r, http.MethodPost, "/sessions/"+id+"/generate", generateBody)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Result   models.GenerationResult `json:"result"`
		PostText string                  `json:"post_text"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, catalog.PersonaCreativePerformer, resp.Result.Request.Persona)
	assert.Len(t, resp.Result.Hashtags, 5)
	assert.EqualValues(t, 99, resp.Result.Seed)
	assert.True(t, strings.HasPrefix(resp.PostText, "Find your rhythm"))

	w = do(r, http.MethodGet, "/sessions/"+id+"/current", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(r, http.MethodGet, "/sessions/"+id+"/history", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"count":1`)

	w = do(r, http.MethodGet, "/sessions/"+id+"/history.csv", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv; charset=utf-8", w.Header().Get("Content-Type"))
	rows, err := export.ReadCSV(w.Body)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "TikTok", rows[0].Request.Platform)
}

func TestGenerateErrors(t *testing.T) {
	captions := &stubCaptions{text: "ok"}
	r, store := setup(t, captions)
	id := createSession(t, r)

	w := do(r, http.MethodPost, "/sessions/"+id+"/generate", `{"platform":"TikTok","course_title":""}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodPost, "/sessions/"+id+"/generate", `{not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodPost, "/sessions/"+id+"/generate", `{"platform":"Myspace","course_title":"x","strict":true}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	captions.err = errors.New("upstream down")
	w = do(r, http.MethodPost, "/sessions/"+id+"/generate", generateBody)
	assert.Equal(t, http.StatusBadGateway, w.Code)

	w = do(r, http.MethodPost, "/sessions/missing/generate", generateBody)
	assert.Equal(t, http.StatusNotFound, w.Code)

	sess, err := store.Get(id)
	require.NoError(t, err)
	assert.Zero(t, sess.Len())

	w = do(r, http.MethodGet, "/sessions/"+id+"/current", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestEndSession(t *testing.T) {
	r, _ := setup(t, &stubCaptions{text: "ok"})
	id := createSession(t, r)

	assert.Equal(t, http.StatusNoContent, do(r, http.MethodDelete, "/sessions/"+id, "").Code)
	assert.Equal(t, http.StatusNotFound, do(r, http.MethodDelete, "/sessions/"+id, "").Code)
	assert.Equal(t, http.StatusNotFound, do(r, http.MethodGet, "/sessions/"+id+"/history", "").Code)
}

func TestEndedSessionHistoryGoneWithRepository(t *testing.T) {
	gin.SetMode(gin.TestMode)

	repo, err := sqlite.New(filepath.Join(t.TempDir(), "api.db"))
	require.NoError(t, err)
	require.NoError(t, repo.Migrate())
	t.Cleanup(func() { _ = repo.Close() })

	agent, err := generator.NewAgent(catalog.Default(), &stubCaptions{text: "ok"}, logger.Nop())
	require.NoError(t, err)
	agent.SetRepository(repo)
	r := NewRouter(NewHandler(agent, session.NewStore(), logger.Nop()))

	id := createSession(t, r)
	require.Equal(t, http.StatusOK, do(r, http.MethodPost, "/sessions/"+id+"/generate", generateBody).Code)
	require.Equal(t, http.StatusNoContent, do(r, http.MethodDelete, "/sessions/"+id, "").Code)

	assert.Equal(t, http.StatusNotFound, do(r, http.MethodGet, "/sessions/"+id+"/history", "").Code)
	assert.Equal(t, http.StatusNotFound, do(r, http.MethodGet, "/sessions/"+id+"/history.csv", "").Code)
	assert.Equal(t, http.StatusNotFound, do(r, http.MethodGet, "/sessions/unknown/history", "").Code)

	// saved rows stay available to the CLI history commands
	filter := storage.DefaultGenerationFilter()
	filter.SessionID = id
	saved, err := repo.ListGenerations(context.Background(), filter)
	require.NoError(t, err)
	assert.Len(t, saved, 1)
}

func TestCatalogRoutes(t *testing.T) {
	r, _ := setup(t, &stubCaptions{})

	w := do(r, http.MethodGet, "/personas", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), catalog.PersonaCompetitiveAthlete)
	assert.Contains(t, w.Body.String(), `"default":"Balanced Explorer"`)

	w = do(r, http.MethodGet, "/platforms", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Cross-Platform")

	w = do(r, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}
