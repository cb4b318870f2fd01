package rpc

import (
	stdjson "encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/satrarity/internal/index"
	"github.com/ppiankov/satrarity/internal/metrics"
	"github.com/ppiankov/satrarity/internal/model"
	"github.com/ppiankov/satrarity/internal/pipeline"
	"github.com/ppiankov/satrarity/internal/worker"
)

var txA = strings.Repeat("a", 64)

func newTestServer(t *testing.T, opts ...Option) (*Server, model.ServerConfig) {
	t.Helper()
	idx, err := index.ParseFileIndex([]byte(`
outputs:
  "` + txA + `:0": [[0, 1000]]
`))
	require.NoError(t, err)

	cfg := model.DefaultConfig()
	p := pipeline.NewPipeline(idx, cfg)
	return NewServer(p, cfg.Server, opts...), cfg.Server
}

type testResponse struct {
	JSONRPC string             `json:"jsonrpc"`
	ID      stdjson.RawMessage `json:"id"`
	Result  stdjson.RawMessage `json:"result"`
	Error   *ErrorObject       `json:"error"`
}

func post(t *testing.T, h http.Handler, body string) (*httptest.ResponseRecorder, testResponse) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var resp testResponse
	if rec.Code == http.StatusOK && strings.HasPrefix(strings.TrimSpace(rec.Body.String()), "{") {
		require.NoError(t, stdjson.Unmarshal(rec.Body.Bytes(), &resp))
	}
	return rec, resp
}

func TestGetHealth(t *testing.T) {
	s, _ := newTestServer(t)

	rec, resp := post(t, s.Handler(), `{"jsonrpc":"2.0","id":7,"method":"getHealth"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, "2.0", resp.JSONRPC)
	assert.Equal(t, "7", string(resp.ID))
	assert.Nil(t, resp.Error)
	assert.Equal(t, `"OK"`, string(resp.Result))
}

func TestGetSatRanges(t *testing.T) {
	s, _ := newTestServer(t)

	for _, params := range []string{
		`{"references":["` + txA + `:0"]}`,
		`{"utxos":["` + txA + `:0"]}`,
		`[{"references":["` + txA + `:0"]}]`,
	} {
		t.Run(params, func(t *testing.T) {
			_, resp := post(t, s.Handler(), `{"jsonrpc":"2.0","id":"x","method":"getSatRanges","params":`+params+`}`)
			require.Nil(t, resp.Error)

			var result model.SatRangesResult
			require.NoError(t, stdjson.Unmarshal(resp.Result, &result))
			require.Len(t, result.Results, 1)
			assert.Equal(t, txA+":0", result.Results[0].Reference)
			require.Len(t, result.Results[0].Ranges, 1)
			assert.Equal(t, uint64(1000), result.Results[0].Ranges[0].End)
			assert.NotEmpty(t, result.Results[0].Ranges[0].Rarities)
			assert.Len(t, result.Results[0].NamedSats, 1)
		})
	}
}

func TestGetBlockRarities(t *testing.T) {
	s, _ := newTestServer(t)

	_, resp := post(t, s.Handler(), `{"jsonrpc":"2.0","id":1,"method":"getBlockRarities","params":{"start":390000010000,"end":390000020000}}`)
	require.Nil(t, resp.Error)
	assert.JSONEq(t, `{
		"start":390000010000,
		"end":390000020000,
		"rarities":[
			{"kind":"vintage","chunks":[[390000010000,390000020000]]},
			{"kind":"block78","chunks":[[390000010000,390000020000]]}
		],
		"block_height":78
	}`, string(resp.Result))
}

func TestErrors(t *testing.T) {
	s, _ := newTestServer(t)

	tests := []struct {
		name string
		body string
		code int
		msg  string
	}{
		{"parse", `{"jsonrpc":`, ParseErrorCode, "parse error"},
		{"version", `{"jsonrpc":"1.0","id":1,"method":"getHealth"}`, InvalidRequestCode, "invalid request"},
		{"no method", `{"jsonrpc":"2.0","id":1}`, InvalidRequestCode, "invalid request"},
		{"unknown method", `{"jsonrpc":"2.0","id":1,"method":"getInscriptions"}`, MethodNotFoundCode, "getInscriptions"},
		{"missing params", `{"jsonrpc":"2.0","id":1,"method":"getBlockRarities"}`, InvalidParamsCode, "missing params"},
		{"bad params", `{"jsonrpc":"2.0","id":1,"method":"getBlockRarities","params":{"start":"a"}}`, InvalidParamsCode, "invalid params"},
		{"two positional", `{"jsonrpc":"2.0","id":1,"method":"getBlockRarities","params":[{},{}]}`, InvalidParamsCode, "got 2"},
		{"invalid range", `{"jsonrpc":"2.0","id":1,"method":"getBlockRarities","params":{"start":10,"end":10}}`, InvalidParamsCode, "start 10 >= end 10"},
		{"malformed reference", `{"jsonrpc":"2.0","id":1,"method":"getSatRanges","params":{"references":["nope"]}}`, InvalidParamsCode, "malformed reference"},
		{"unknown reference", `{"jsonrpc":"2.0","id":1,"method":"getSatRanges","params":{"references":["` + strings.Repeat("b", 64) + `:0"]}}`, InvalidParamsCode, "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, resp := post(t, s.Handler(), tt.body)
			require.Equal(t, http.StatusOK, rec.Code)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.code, resp.Error.Code)
			assert.Contains(t, resp.Error.Message, tt.msg)
			assert.Empty(t, resp.Result)
		})
	}
}

func TestBatch(t *testing.T) {
	s, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`[
		{"jsonrpc":"2.0","id":1,"method":"getHealth"},
		{"jsonrpc":"2.0","id":2,"method":"nope"}
	]`))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resps []testResponse
	require.NoError(t, stdjson.Unmarshal(rec.Body.Bytes(), &resps))
	require.Len(t, resps, 2)
	assert.Equal(t, `"OK"`, string(resps[0].Result))
	require.NotNil(t, resps[1].Error)
	assert.Equal(t, MethodNotFoundCode, resps[1].Error.Code)
	assert.Equal(t, "2", string(resps[1].ID))

	_, resp := post(t, s.Handler(), `[]`)
	require.NotNil(t, resp.Error)
	assert.Equal(t, InvalidRequestCode, resp.Error.Code)
}

func TestHealthEndpoint(t *testing.T) {
	s, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}

func TestMetricsEndpoint(t *testing.T) {
	m := metrics.New()
	s, _ := newTestServer(t, WithMetrics(m))
	h := s.Handler()

	post(t, h, `{"jsonrpc":"2.0","id":1,"method":"getHealth"}`)
	post(t, h, `{"jsonrpc":"2.0","id":1,"method":"whatever"}`)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `satrarity_rpc_requests_total{method="getHealth",outcome="ok"} 1`)
	assert.Contains(t, string(body), `satrarity_rpc_requests_total{method="unknown",outcome="not_found"} 1`)
}

func TestMetricsEndpoint_Disabled(t *testing.T) {
	s, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRateLimit(t *testing.T) {
	m := metrics.New()
	s, _ := newTestServer(t, WithLimiter(worker.NewLimiter(1, 1)), WithMetrics(m))
	h := s.Handler()

	rec, _ := post(t, h, `{"jsonrpc":"2.0","id":1,"method":"getHealth"}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = post(t, h, `{"jsonrpc":"2.0","id":2,"method":"getHealth"}`)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))

	// health checks are not limited
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, rec.Body.String(), "satrarity_rate_limited_total 1")
	assert.Contains(t, rec.Body.String(), "satrarity_rate_limited_clients 1")
}

func TestRetryAfterSeconds(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want int
	}{
		{0, 1},
		{-time.Second, 1},
		{300 * time.Millisecond, 1},
		{time.Second, 1},
		{1500 * time.Millisecond, 2},
		{4 * time.Second, 4},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, retryAfterSeconds(tt.in), "%v", tt.in)
	}
}

func TestBodyLimit(t *testing.T) {
	s, cfg := newTestServer(t)
	cfg.MaxBodyBytes = 16
	s.cfg = cfg

	rec, _ := post(t, s.Handler(), `{"jsonrpc":"2.0","id":1,"method":"getHealth"}`)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestCORS(t *testing.T) {
	s, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/", nil)
	req.Header.Set("Origin", "https://example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
