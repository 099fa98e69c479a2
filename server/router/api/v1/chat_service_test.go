package v1

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrygo/dreamsense/ai"
	"github.com/hrygo/dreamsense/ai/session"
	"github.com/hrygo/dreamsense/ai/summary"
)

type stubGenerator struct {
	reply string
	ok    bool
}

func (g *stubGenerator) Generate(_ context.Context, _ string) (string, bool) {
	return g.reply, g.ok
}

func newTestService(t *testing.T, gen *stubGenerator) (*APIV1Service, *echo.Echo) {
	t.Helper()
	store := session.New(context.Background(), "", session.DefaultMaxTurns)
	svc := NewAPIV1Service(ai.NewInterpreter(gen), store, summary.NewSummarizer(gen))
	e := echo.New()
	svc.Register(e)
	return svc, e
}

func doJSON(e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestChatRoundTrip(t *testing.T) {
	_, e := newTestService(t, &stubGenerator{ok: false})

	rec := doJSON(e, http.MethodPost, "/api/v1/chat",
		`{"userId":"u1","message":"Мне приснилось, что я летаю","profile":{"name":"Аня"}}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp ChatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Reply)
	assert.Equal(t, "greeting", resp.Stage)
	assert.NotEmpty(t, resp.Hint)
	require.Len(t, resp.Context, 1)
	assert.Equal(t, "Мне приснилось, что я летаю", resp.Context[0].User)
	assert.Equal(t, resp.Reply, resp.Context[0].Bot)
}

func TestChatAccumulatesContext(t *testing.T) {
	_, e := newTestService(t, &stubGenerator{ok: false})

	doJSON(e, http.MethodPost, "/api/v1/chat",
		`{"userId":"u1","message":"мне приснился сон про поезд"}`)
	rec := doJSON(e, http.MethodPost, "/api/v1/chat",
		`{"userId":"u1","message":"объясни, что значит этот сон?"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp ChatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Context, 2)
	// Most recent turn first.
	assert.Equal(t, "объясни, что значит этот сон?", resp.Context[0].User)
	assert.Equal(t, "мне приснился сон про поезд", resp.Context[1].User)
}

func TestChatUsesGeneratedReply(t *testing.T) {
	_, e := newTestService(t, &stubGenerator{reply: "Сгенерированная интерпретация сна.", ok: true})

	doJSON(e, http.MethodPost, "/api/v1/chat",
		`{"userId":"u1","message":"мне приснился сон про лес"}`)
	rec := doJSON(e, http.MethodPost, "/api/v1/chat",
		`{"userId":"u1","message":"объясни, что значит этот сон?"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp ChatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Сгенерированная интерпретация сна.", resp.Reply)
}

func TestChatValidation(t *testing.T) {
	_, e := newTestService(t, &stubGenerator{ok: false})

	tests := []struct {
		name string
		body string
	}{
		{"missing userId", `{"message":"сон"}`},
		{"missing message", `{"userId":"u1"}`},
		{"malformed body", `{"userId":`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := doJSON(e, http.MethodPost, "/api/v1/chat", tc.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestSummarize(t *testing.T) {
	_, e := newTestService(t, &stubGenerator{reply: "Резюме сна.", ok: true})

	rec := doJSON(e, http.MethodPost, "/api/v1/summarize",
		`{"turns":[{"user":"Мне приснился лес.","bot":"Что ты чувствовал?"}],"profile":{"name":"Аня"}}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp SummarizeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Резюме сна.", resp.Summary)
}

func TestSummarizeFallback(t *testing.T) {
	_, e := newTestService(t, &stubGenerator{ok: false})

	rec := doJSON(e, http.MethodPost, "/api/v1/summarize",
		`{"turns":[{"user":"Мне приснился лес. Я заблудился.","bot":"..."}]}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp SummarizeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Summary)
	assert.Contains(t, resp.Summary, "Мне приснился лес.")
}

func TestClearSession(t *testing.T) {
	svc, e := newTestService(t, &stubGenerator{ok: false})

	doJSON(e, http.MethodPost, "/api/v1/chat",
		`{"userId":"u1","message":"мне приснился сон"}`)
	require.Len(t, svc.Store.Read(context.Background(), "u1"), 1)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/sessions/u1", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNoContent, rec.Code)

	assert.Empty(t, svc.Store.Read(context.Background(), "u1"))
}
