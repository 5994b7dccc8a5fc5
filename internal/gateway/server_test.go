package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sidgajraj/caseline/internal/config"
	"github.com/sidgajraj/caseline/internal/intake"
	"github.com/sidgajraj/caseline/internal/llm"
	"github.com/sidgajraj/caseline/internal/logging"
	"github.com/sidgajraj/caseline/internal/store"
)

func silentLog() *logging.Logger {
	return logging.New(io.Discard, "silent")
}

type memoryCaseStore struct {
	mu    sync.Mutex
	saves int
}

func (m *memoryCaseStore) SaveCase(ctx context.Context, name, contact, incidentDate, description string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves++
	return nil
}

func (m *memoryCaseStore) ListCases(ctx context.Context, limit int) ([]store.CaseRow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rows := make([]store.CaseRow, 0, m.saves)
	for i := 0; i < m.saves; i++ {
		rows = append(rows, store.CaseRow{ID: fmt.Sprintf("case-%d", i)})
	}
	return rows, nil
}

// testClient answers extraction calls with an empty fragment and responder
// calls with a fixed reply.
func testClient(reply string) *llm.MockClient {
	return &llm.MockClient{
		CompleteFunc: func(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
			prompt := req.Messages[len(req.Messages)-1].Content
			if strings.HasPrefix(prompt, "Extract ONLY") {
				return &llm.CompletionResponse{Content: "{}"}, nil
			}
			return &llm.CompletionResponse{Content: reply}, nil
		},
	}
}

func testServer(t *testing.T, reply string) (*httptest.Server, *memoryCaseStore) {
	t.Helper()

	cases := &memoryCaseStore{}
	engine := intake.NewEngine(
		intake.Config{Model: "gpt-4-0613"},
		testClient(reply),
		intake.NewSessionStore(),
		cases,
		intake.DateResolver{Now: func() time.Time { return time.Date(2025, 8, 11, 12, 0, 0, 0, time.UTC) }},
		silentLog(),
	)

	srv := New(config.GatewayConfig{Port: 0, Bind: "127.0.0.1"}, engine, cases, silentLog())
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts, cases
}

func TestHealthEndpoint(t *testing.T) {
	ts, _ := testServer(t, "hello")

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])
}

func TestChatEndpoint(t *testing.T) {
	ts, _ := testServer(t, "What happened?")

	payload := []byte(`{"sessionId": "web-1", "text": "I need help with a case"}`)
	resp, err := http.Post(ts.URL+"/api/chat", "application/json", bytes.NewReader(payload))
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result intake.TurnResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Equal(t, "web-1", result.SessionID)
	assert.Equal(t, "What happened?", result.Display)
	assert.Equal(t, "Description", result.NextMissing)
}

func TestChatEndpointRejectsEmptyText(t *testing.T) {
	ts, _ := testServer(t, "hello")

	resp, err := http.Post(ts.URL+"/api/chat", "application/json", strings.NewReader(`{"text": ""}`))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestChatEndpointRejectsBadJSON(t *testing.T) {
	ts, _ := testServer(t, "hello")

	resp, err := http.Post(ts.URL+"/api/chat", "application/json", strings.NewReader("not json"))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSessionsEndpoint(t *testing.T) {
	ts, _ := testServer(t, "Tell me more.")

	payload := []byte(`{"sessionId": "web-2", "text": "hello there"}`)
	resp, err := http.Post(ts.URL+"/api/chat", "application/json", bytes.NewReader(payload))
	require.NoError(t, err)
	resp.Body.Close()

	resp, err = http.Get(ts.URL + "/api/sessions")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var views []sessionView
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&views))
	require.Len(t, views, 1)
	assert.Equal(t, "web-2", views[0].ID)
	assert.Equal(t, "collecting", views[0].State)
	assert.False(t, views[0].Committed)
}

func TestImportEndpoint(t *testing.T) {
	ts, cases := testServer(t, "unused")

	fragment := `{"Full Name": "Ana Ruiz", "Contact": "ana@example.com",
		"Date of Incident": "2025-06-01", "Description": "rear-ended at a light"}`
	body, err := json.Marshal(map[string]string{"text": fragment})
	require.NoError(t, err)

	resp, err := http.Post(ts.URL+"/api/import", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result map[string]bool
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.True(t, result["saved"])

	cases.mu.Lock()
	assert.Equal(t, 1, cases.saves)
	cases.mu.Unlock()
}

func TestCasesEndpoint(t *testing.T) {
	ts, cases := testServer(t, "unused")

	cases.mu.Lock()
	cases.saves = 2
	cases.mu.Unlock()

	resp, err := http.Get(ts.URL + "/api/cases")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var rows []store.CaseRow
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&rows))
	assert.Len(t, rows, 2)
}

func TestWebSocketChat(t *testing.T) {
	ts, _ := testServer(t, "Go on.")

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.WriteJSON(chatRequest{SessionID: "ws-1", Text: "hi"}))

	var result intake.TurnResult
	require.NoError(t, conn.ReadJSON(&result))
	assert.Equal(t, "ws-1", result.SessionID)
	assert.Equal(t, "Go on.", result.Display)
}
