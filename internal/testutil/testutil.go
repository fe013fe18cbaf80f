package testutil

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/omriShneor/schedule_bot/internal/database"
	"github.com/omriShneor/schedule_bot/internal/dialogue"
	"github.com/omriShneor/schedule_bot/internal/extract"
	"github.com/omriShneor/schedule_bot/internal/i18n"
	"github.com/omriShneor/schedule_bot/internal/oracle"
)

// PromptKind identifies which extraction a prompt asks for by its opening
// line.
type PromptKind string

const (
	EventPrompt   PromptKind = "Extract a calendar event"
	RangePrompt   PromptKind = "Determine the date and/or time range"
	TargetPrompt  PromptKind = "Determine which existing event"
	ChangesPrompt PromptKind = "Determine which fields"
)

// Rule answers prompts of Kind whose text contains Contains.
type Rule struct {
	Kind     PromptKind
	Contains string
	Reply    string
}

// FakeOracle is a chat-completions endpoint answering from rules. Prompts
// that match no rule get an empty JSON object.
type FakeOracle struct {
	*httptest.Server

	mu      sync.Mutex
	rules   []Rule
	prompts []string
}

// NewFakeOracle starts a fake endpoint that is closed with the test.
func NewFakeOracle(t *testing.T, rules ...Rule) *FakeOracle {
	t.Helper()

	f := &FakeOracle{rules: rules}
	f.Server = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.Close)
	return f
}

// Prompts returns every prompt received so far.
func (f *FakeOracle) Prompts() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.prompts...)
}

func (f *FakeOracle) serve(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Messages []struct {
			Content string `json:"content"`
		} `json:"messages"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.Messages) == 0 {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	prompt := req.Messages[0].Content

	f.mu.Lock()
	f.prompts = append(f.prompts, prompt)
	reply := "{}"
	for _, rule := range f.rules {
		if strings.HasPrefix(prompt, string(rule.Kind)) && strings.Contains(prompt, rule.Contains) {
			reply = rule.Reply
			break
		}
	}
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"choices": []map[string]any{
			{"message": map[string]string{"role": "assistant", "content": reply}},
		},
	})
}

// TestBot is the full dialogue stack over an in-memory database and a fake
// oracle.
type TestBot struct {
	Engine   *dialogue.Engine
	DB       *database.DB
	Oracle   *FakeOracle
	Sessions *dialogue.MemoryStore
	UserID   int64
	Locale   string
	t        *testing.T
}

// NewTestBot wires a TestBot whose clock reads 2025-09-14 12:00 UTC.
func NewTestBot(t *testing.T, rules ...Rule) *TestBot {
	t.Helper()

	fake := NewFakeOracle(t, rules...)
	db := database.NewTestDB(t)
	client := oracle.NewClient(oracle.Options{
		APIKey:  "test-key",
		URL:     fake.URL,
		Timeout: 5 * time.Second,
	})

	sessions := dialogue.NewMemoryStore()
	now := time.Date(2025, 9, 14, 12, 0, 0, 0, time.UTC)
	engine := dialogue.NewEngine(
		sessions,
		extract.New(client, nil),
		db,
		i18n.NewTranslator("ru", nil),
		dialogue.Config{Now: func() time.Time { return now }},
		nil,
	)

	return &TestBot{
		Engine:   engine,
		DB:       db,
		Oracle:   fake,
		Sessions: sessions,
		UserID:   5551234,
		Locale:   "ru",
		t:        t,
	}
}

// Send delivers text as the test user and returns the replies.
func (b *TestBot) Send(text string) []dialogue.Reply {
	b.t.Helper()
	return b.Engine.Handle(context.Background(), dialogue.Message{UserID: b.UserID, Text: text, Locale: b.Locale})
}

// State returns the test user's dialogue state.
func (b *TestBot) State() dialogue.State {
	return b.Sessions.Get(b.UserID).State
}

// Events lists everything stored for the test user.
func (b *TestBot) Events() []database.Event {
	b.t.Helper()

	ctx := context.Background()
	user, err := b.DB.GetUserByTelegramID(ctx, strconv.FormatInt(b.UserID, 10))
	if err != nil {
		return nil
	}
	events, err := b.DB.ListEvents(ctx, database.EventFilter{UserID: user.ID})
	require.NoError(b.t, err)
	return events
}
