package main

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nyrakai/nyrakai"
	"github.com/nyrakai/nyrakai/config"
)

func newTestServer(t *testing.T, mutate func(*config.Config)) (*server, http.Handler) {
	t.Helper()
	cfg := config.DefaultConfig()
	if mutate != nil {
		mutate(cfg)
	}
	s, err := newServer(nyrakai.MustDefault(), cfg, slog.New(slog.DiscardHandler))
	require.NoError(t, err)
	return s, s.routes()
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestValidateEndpoint(t *testing.T) {
	_, h := newTestServer(t, nil)

	rec := do(t, h, http.MethodGet, "/api/validate?word=n'æra", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	v := decode[verdictJSON](t, rec)
	assert.True(t, v.Legal)
	assert.Empty(t, v.Violation)
	assert.Len(t, v.Syllables, 2)

	rec = do(t, h, http.MethodGet, "/api/validate?word=ktæ", "")
	require.Equal(t, http.StatusOK, rec.Code)
	v = decode[verdictJSON](t, rec)
	assert.False(t, v.Legal)
	assert.Equal(t, string(nyrakai.ViolationBadOnsetCluster), v.Violation)
	assert.NotEmpty(t, v.Detail)
}

func TestValidateEndpointErrors(t *testing.T) {
	_, h := newTestServer(t, nil)

	rec := do(t, h, http.MethodGet, "/api/validate", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/validate?word=kæ", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestValidateCache(t *testing.T) {
	s, h := newTestServer(t, nil)

	do(t, h, http.MethodGet, "/api/validate?word=kæ", "")
	do(t, h, http.MethodGet, "/api/validate?word=kæ", "")
	assert.Equal(t, 1, s.verdicts.Len())

	rec := do(t, h, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "nyrakai_verdict_cache_hits_total 1")
	assert.Contains(t, rec.Body.String(), `nyrakai_http_requests_total{code="200",endpoint="validate"} 2`)
}

func TestValidateNormalizes(t *testing.T) {
	_, h := newTestServer(t, func(c *config.Config) { c.Rules.Normalize = true })

	rec := do(t, h, http.MethodGet, "/api/validate?word=kai", "")
	v := decode[verdictJSON](t, rec)
	assert.Equal(t, "kæ", v.Word)
	assert.Equal(t, "CV", v.Structure)
}

func TestSegmentEndpoint(t *testing.T) {
	_, h := newTestServer(t, nil)

	rec := do(t, h, http.MethodGet, "/api/segment?word=ka'ta", "")
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[segmentResponse](t, rec)
	require.Len(t, resp.Syllables, 2)
	assert.True(t, resp.Syllables[0].Checked)
	assert.Equal(t, "a", resp.Syllables[0].Nucleus)

	rec = do(t, h, http.MethodGet, "/api/segment?word=krk", "")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	errResp := decode[errorResponse](t, rec)
	assert.Equal(t, string(nyrakai.ReasonMissingVowel), errResp.Reason)
}

func TestComposeEndpoint(t *testing.T) {
	_, h := newTestServer(t, nil)

	rec := do(t, h, http.MethodPost, "/api/compose",
		`{"root":"țræn","gender":"flexible","morphemes":["gender:feminine","number:plural-feminine"],"validate":true}`)
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[composeResponse](t, rec)
	assert.Equal(t, "țrænañīwā", resp.Form)
	assert.Equal(t, "noun", resp.POS)
	assert.Equal(t, string(nyrakai.GenderFixedFeminine), resp.Gender)
	require.Len(t, resp.Steps, 2)
	assert.Equal(t, "a", resp.Steps[0].Interfix)
	assert.Equal(t, "w", resp.Steps[1].Interfix)
	require.NotNil(t, resp.Verdict)
	assert.True(t, resp.Verdict.Legal)
}

func TestComposeEndpointSkip(t *testing.T) {
	_, h := newTestServer(t, nil)

	rec := do(t, h, http.MethodPost, "/api/compose",
		`{"root":"n'æra","gender":"sacred","morphemes":["gender:masculine"]}`)
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[composeResponse](t, rec)
	assert.Equal(t, "n'æra", resp.Form)
	require.Len(t, resp.Steps, 1)
	assert.Equal(t, string(nyrakai.Skip), resp.Steps[0].Action)
	assert.Contains(t, resp.Steps[0].Reason, "sacred")
	assert.Nil(t, resp.Verdict)
}

func TestComposeEndpointErrors(t *testing.T) {
	_, h := newTestServer(t, nil)

	tests := []struct {
		name string
		body string
	}{
		{"not json", `root=kæ`},
		{"missing root", `{"morphemes":["case:accusative"]}`},
		{"bad pos", `{"root":"kæ","pos":"gerund"}`},
		{"bad gender", `{"root":"kæ","gender":"neuter"}`},
		{"unknown morpheme", `{"root":"kæ","morphemes":["case:ergative"]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, "/api/compose", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}

	rec := do(t, h, http.MethodGet, "/api/compose", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestMorphemesEndpoint(t *testing.T) {
	_, h := newTestServer(t, nil)

	rec := do(t, h, http.MethodGet, "/api/morphemes", "")
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[morphemesResponse](t, rec)
	require.Len(t, resp.Morphemes, len(nyrakai.MustDefault().Morphemes()))

	var fem *morphemeJSON
	for i := range resp.Morphemes {
		if resp.Morphemes[i].Key == "gender:feminine" {
			fem = &resp.Morphemes[i]
		}
	}
	require.NotNil(t, fem)
	assert.Equal(t, "ñī", fem.Form)
	assert.Equal(t, "suffix", fem.Attach)
	assert.Equal(t, "feminine", fem.Gender)
}

func TestDomainEndpoint(t *testing.T) {
	_, h := newTestServer(t, nil)

	rec := do(t, h, http.MethodGet, "/api/domain?word=kæ", "")
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[domainResponse](t, rec)
	assert.Equal(t, "k", resp.Onset)
	assert.True(t, resp.Mapped)
	assert.Equal(t, "action", resp.Primary)
	assert.Equal(t, "body", resp.Secondary)
	assert.Nil(t, resp.Match)

	rec = do(t, h, http.MethodGet, "/api/domain?word=kæ&expected=nature", "")
	resp = decode[domainResponse](t, rec)
	require.NotNil(t, resp.Match)
	assert.False(t, *resp.Match)
	assert.Equal(t, `"kæ" (k-) is action/body, not nature`, resp.Message)
}

func TestCORS(t *testing.T) {
	_, h := newTestServer(t, func(c *config.Config) {
		c.Server.AllowedOrigins = []string{"https://lexicon.example"}
	})

	req := httptest.NewRequest(http.MethodGet, "/api/validate?word=kæ", nil)
	req.Header.Set("Origin", "https://lexicon.example")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "https://lexicon.example", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/api/validate?word=kæ", nil)
	req.Header.Set("Origin", "https://elsewhere.example")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}
