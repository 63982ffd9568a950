package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type errorResponse struct {
	Error struct {
		Kind    string `json:"kind"`
		Message string `json:"message"`
		Line    int    `json:"line"`
		Column  int    `json:"column"`
		Snippet string `json:"snippet"`
		Caret   *int   `json:"caret"`
	} `json:"error"`
}

func do(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	rec := do(t, NewServer(Config{}), http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestFlatten(t *testing.T) {
	rec := do(t, NewServer(Config{}), http.MethodPost, "/flatten", ".a { color: red; &:hover { color: blue; } }")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/css; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, ".a {\n  color: red;\n}\n\n.a:hover {\n  color: blue;\n}\n", rec.Body.String())
}

func TestFlattenParseError(t *testing.T) {
	rec := do(t, NewServer(Config{}), http.MethodPost, "/flatten", ".a {\n  color red;\n}")
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var resp errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "malformed-declaration", resp.Error.Kind)
	assert.Equal(t, 2, resp.Error.Line)
	assert.Equal(t, 3, resp.Error.Column)
	assert.Contains(t, resp.Error.Message, "color red")
	assert.NotEmpty(t, resp.Error.Snippet)
	require.NotNil(t, resp.Error.Caret)
}

func TestFlattenStrictAtRules(t *testing.T) {
	body := "@custom x { .a { b: c; } }"

	rec := do(t, NewServer(Config{}), http.MethodPost, "/flatten", body)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, NewServer(Config{StrictAtRules: true}), http.MethodPost, "/flatten", body)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	var resp errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "unknown-at-rule", resp.Error.Kind)
}

func TestFlattenTooLarge(t *testing.T) {
	s := NewServer(Config{MaxBodyBytes: 16})
	rec := do(t, s, http.MethodPost, "/flatten", ".a { color: red; background: blue; }")
	require.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)

	var resp errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "request-too-large", resp.Error.Kind)
	assert.Nil(t, resp.Error.Caret)
}

func TestParse(t *testing.T) {
	rec := do(t, NewServer(Config{}), http.MethodPost, "/parse", ".a { b: c; .d { e: f; } }")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var nodes []struct {
		Kind         string `json:"kind"`
		Selector     string `json:"selector"`
		Declarations []struct {
			Property string `json:"property"`
			Value    string `json:"value"`
		} `json:"declarations"`
		Children []struct {
			Kind     string `json:"kind"`
			Selector string `json:"selector"`
		} `json:"children"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &nodes))
	require.Len(t, nodes, 1)
	assert.Equal(t, "rule", nodes[0].Kind)
	assert.Equal(t, ".a", nodes[0].Selector)
	require.Len(t, nodes[0].Declarations, 1)
	assert.Equal(t, "b", nodes[0].Declarations[0].Property)
	assert.Equal(t, "c", nodes[0].Declarations[0].Value)
	require.Len(t, nodes[0].Children, 1)
	assert.Equal(t, ".d", nodes[0].Children[0].Selector)
}

func TestParseError(t *testing.T) {
	rec := do(t, NewServer(Config{}), http.MethodPost, "/parse", ".a {")
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var resp errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "unterminated-block", resp.Error.Kind)
}

func TestMethodNotAllowed(t *testing.T) {
	rec := do(t, NewServer(Config{}), http.MethodGet, "/flatten", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestLoad(t *testing.T) {
	t.Setenv("FLATCSS_ADDR", "127.0.0.1:9000")
	t.Setenv("FLATCSS_MAX_BODY_BYTES", "2048")
	t.Setenv("FLATCSS_STRICT_AT_RULES", "true")

	cfg := Load()
	assert.Equal(t, "127.0.0.1:9000", cfg.Addr)
	assert.Equal(t, int64(2048), cfg.MaxBodyBytes)
	assert.True(t, cfg.StrictAtRules)
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("FLATCSS_ADDR", "")
	t.Setenv("FLATCSS_MAX_BODY_BYTES", "not a number")
	t.Setenv("FLATCSS_STRICT_AT_RULES", "")

	cfg := Load()
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, int64(1<<20), cfg.MaxBodyBytes)
	assert.False(t, cfg.StrictAtRules)
}
