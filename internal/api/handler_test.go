package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trends-gateway/internal/bigquery"
	"trends-gateway/internal/domain"
)

// fakeTrends scripts the service layer for handler tests.
type fakeTrends struct {
	insertErr error
	inserted  []*domain.RisingTerm
	records   []bigquery.Record
	listErr   error
	from, to  string
}

func (f *fakeTrends) InsertTerm(_ context.Context, term *domain.RisingTerm) error {
	f.inserted = append(f.inserted, term)
	return f.insertErr
}

func (f *fakeTrends) ListTerms(_ context.Context, from, to string) ([]bigquery.Record, error) {
	f.from, f.to = from, to
	return f.records, f.listErr
}

func newTestRouter(trends *fakeTrends) http.Handler {
	r := chi.NewRouter()
	h := NewHandler(trends, nil)
	r.Get("/healthz", h.Healthz)
	r.Route("/v1", h.Routes)
	return r
}

func TestInsertTerm_OK(t *testing.T) {
	t.Parallel()

	trends := &fakeTrends{}
	body := `{"refresh_date":"2024-06-10","dma_name":"Portland OR","dma_id":820,` +
		`"term":"coffee","week":"2024-06-09","score":87,"rank":3,"percent_gain":250}`

	req := httptest.NewRequest(http.MethodPost, "/v1/terms", strings.NewReader(body))
	rec := httptest.NewRecorder()
	newTestRouter(trends).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, trends.inserted, 1)
	assert.Equal(t, "coffee", trends.inserted[0].Term)
	assert.EqualValues(t, 820, trends.inserted[0].DmaID)
}

func TestInsertTerm_MalformedBody(t *testing.T) {
	t.Parallel()

	trends := &fakeTrends{}
	req := httptest.NewRequest(http.MethodPost, "/v1/terms", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	newTestRouter(trends).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, trends.inserted)
}

func TestInsertTerm_UpstreamRejection(t *testing.T) {
	t.Parallel()

	trends := &fakeTrends{insertErr: &domain.UpstreamError{Status: 403, Body: "denied"}}
	req := httptest.NewRequest(http.MethodPost, "/v1/terms", strings.NewReader(`{"term":"x","week":"w","refresh_date":"d"}`))
	rec := httptest.NewRecorder()
	newTestRouter(trends).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadGateway, rec.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp["message"], "denied")
}

func TestListTerms_OK(t *testing.T) {
	t.Parallel()

	trends := &fakeTrends{records: []bigquery.Record{
		{
			{Name: "term", Value: "coffee"},
			{Name: "score", Value: int64(42)},
		},
	}}
	req := httptest.NewRequest(http.MethodGet, "/v1/terms?from=2024-01-01&to=2024-03-01", nil)
	rec := httptest.NewRecorder()
	newTestRouter(trends).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "2024-01-01", trends.from)
	assert.Equal(t, "2024-03-01", trends.to)
	assert.JSONEq(t, `[{"term":"coffee","score":42}]`, rec.Body.String())
}

func TestListTerms_EmptyResultIsEmptyArray(t *testing.T) {
	t.Parallel()

	trends := &fakeTrends{records: []bigquery.Record{}}
	req := httptest.NewRequest(http.MethodGet, "/v1/terms", nil)
	rec := httptest.NewRecorder()
	newTestRouter(trends).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]\n", rec.Body.String())
}

func TestListTerms_RangeErrorIsClientFault(t *testing.T) {
	t.Parallel()

	trends := &fakeTrends{listErr: domain.ErrRange("`to` precedes `from`")}
	req := httptest.NewRequest(http.MethodGet, "/v1/terms?from=2024-01-01&to=2023-12-31", nil)
	rec := httptest.NewRecorder()
	newTestRouter(trends).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListTerms_DecodeErrorIsServerFault(t *testing.T) {
	t.Parallel()

	trends := &fakeTrends{listErr: domain.ErrDecode("no schema")}
	req := httptest.NewRequest(http.MethodGet, "/v1/terms", nil)
	rec := httptest.NewRecorder()
	newTestRouter(trends).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestHealthz(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	newTestRouter(&fakeTrends{}).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}
