package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	lawsearch "github.com/jkim999/lawyer-search-engine"
	"github.com/jkim999/lawyer-search-engine/pkg/query"
	"github.com/jkim999/lawyer-search-engine/pkg/search"
	"github.com/jkim999/lawyer-search-engine/pkg/server/dto"
	"github.com/jkim999/lawyer-search-engine/pkg/types"
)

type fakeEngine struct {
	result   *lawsearch.Result
	err      error
	strategy query.Strategy
	lastOpts *lawsearch.SearchOptions
}

func (f *fakeEngine) Search(ctx context.Context, queryText string, opts *lawsearch.SearchOptions) (*lawsearch.Result, error) {
	f.lastOpts = opts
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func (f *fakeEngine) Classify(ctx context.Context, queryText string) query.Strategy {
	return f.strategy
}

func (f *fakeEngine) Close() error { return nil }

func setupRouter(engine lawsearch.Engine) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	h := NewSearchHandler(engine)
	router.POST("/search", h.Search)
	router.POST("/classify", h.Classify)
	return router
}

func postJSON(t *testing.T, router *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestSearchEndpoint(t *testing.T) {
	engine := &fakeEngine{result: &lawsearch.Result{
		Query:    "partners who went to Yale",
		Strategy: query.StrategyStructured,
		Matches: []search.Match{
			{Ref: types.LawyerRef{ID: 7, DisplayName: "Jane Doe", SourceURL: "https://firm.example/jane"}},
		},
	}}
	router := setupRouter(engine)

	w := postJSON(t, router, "/search", dto.SearchRequest{Query: "partners who went to Yale", Limit: 5})
	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.SearchResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "structured", resp.Strategy)
	assert.Equal(t, 1, resp.Total)
	require.Len(t, resp.Matches, 1)
	assert.Equal(t, "Jane Doe", resp.Matches[0].Name)

	require.NotNil(t, engine.lastOpts)
	assert.Equal(t, 5, engine.lastOpts.Limit)
}

func TestSearchRejectsMissingQuery(t *testing.T) {
	router := setupRouter(&fakeEngine{})

	w := postJSON(t, router, "/search", map[string]any{"limit": 10})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "invalid_request", resp.Error)
}

func TestSearchRejectsBlankQuery(t *testing.T) {
	router := setupRouter(&fakeEngine{})

	w := postJSON(t, router, "/search", dto.SearchRequest{Query: "   "})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSearchRejectsOversizedQuery(t *testing.T) {
	router := setupRouter(&fakeEngine{})

	w := postJSON(t, router, "/search", dto.SearchRequest{Query: strings.Repeat("x", dto.MaxQueryLength+1)})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSearchCorpusNotReady(t *testing.T) {
	router := setupRouter(&fakeEngine{err: search.ErrCorpusNotEmbedded})

	w := postJSON(t, router, "/search", dto.SearchRequest{Query: "worked with Netflix"})
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "corpus_not_ready", resp.Error)
}

func TestSearchSemanticUnavailable(t *testing.T) {
	router := setupRouter(&fakeEngine{err: lawsearch.ErrSemanticUnavailable})

	w := postJSON(t, router, "/search", dto.SearchRequest{Query: "worked with Netflix"})
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestClassifyEndpoint(t *testing.T) {
	router := setupRouter(&fakeEngine{strategy: query.StrategySemantic})

	w := postJSON(t, router, "/classify", dto.SearchRequest{Query: "worked with Netflix"})
	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.ClassifyResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "semantic", resp.Strategy)
}
