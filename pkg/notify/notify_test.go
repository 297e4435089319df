package notify

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/pulsefeed/pkg/domain"
)

type tgServer struct {
	*httptest.Server
	mu   sync.Mutex
	sent []map[string]string
}

func newTGServer(t *testing.T) *tgServer {
	t.Helper()
	s := &tgServer{}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.URL.Path == "/botsecret/getMe":
			_, _ = w.Write([]byte(`{"ok":true,"result":{"id":1,"is_bot":true,"first_name":"pulse","username":"pulse_bot"}}`))
		case r.URL.Path == "/botsecret/sendMessage":
			require.NoError(t, r.ParseForm())
			s.mu.Lock()
			s.sent = append(s.sent, map[string]string{"chat_id": r.FormValue("chat_id"), "text": r.FormValue("text")})
			s.mu.Unlock()
			_, _ = w.Write([]byte(`{"ok":true,"result":{"message_id":10,"date":1715455856,"chat":{"id":-100,"type":"group"}}}`))
		default:
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"ok":false,"error_code":401,"description":"Unauthorized"}`))
		}
	}))
	t.Cleanup(s.Close)
	return s
}

func TestTelegram_JobFailed(t *testing.T) {
	srv := newTGServer(t)
	tg, err := NewTelegram(Params{Token: "secret", ChatID: -100, Endpoint: srv.URL + "/bot%s/%s"})
	require.NoError(t, err)

	start := time.Date(2024, 5, 11, 17, 0, 0, 0, time.UTC)
	finished := start.Add(75 * time.Second)
	job := domain.Job{ID: 42, Status: domain.JobFailure, FeedsCount: 3, ItemsCount: 12,
		Reason: "retrieve https://example.com: timeout", StartedAt: start, FinishedAt: &finished}
	require.NoError(t, tg.JobFailed(context.Background(), job))

	require.Len(t, srv.sent, 1)
	assert.Equal(t, "-100", srv.sent[0]["chat_id"])
	assert.Equal(t, "pulsefeed job #42 failure in 00:01:15\nfeeds: 3, articles: 12\n\nretrieve https://example.com: timeout",
		srv.sent[0]["text"])
}

func TestNewTelegram_BadToken(t *testing.T) {
	srv := newTGServer(t)
	_, err := NewTelegram(Params{Token: "wrong", Endpoint: srv.URL + "/bot%s/%s"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "make telegram bot")
}

func TestJobMessage_Truncated(t *testing.T) {
	job := domain.Job{ID: 1, Status: domain.JobFailure, Reason: strings.Repeat("錯", 5000)}
	msg := jobMessage(job)
	assert.Len(t, []rune(msg), maxMessageLen)
	assert.True(t, strings.HasSuffix(msg, "…"))
}
