package persistence

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pilotedu/studypilot/agent"
)

func newTestTranscripts(t *testing.T) *SQLiteTranscriptStore {
	t.Helper()
	store, err := NewSQLiteTranscriptStore(filepath.Join(t.TempDir(), "transcripts.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestAppendAndHistory(t *testing.T) {
	store := newTestTranscripts(t)
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, "sess-1",
		agent.Message{Sender: "user", Content: "What's due?"},
		agent.Message{Sender: "ai", Content: "Two assignments this week."},
	))
	require.NoError(t, store.Append(ctx, "sess-1",
		agent.Message{Sender: "user", Content: "Thanks"},
	))

	history, err := store.History(ctx, "sess-1")
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, "user", history[0].Sender)
	assert.Equal(t, "What's due?", history[0].Content)
	assert.Equal(t, "Thanks", history[2].Content)
}

func TestHistoryIsolatesSessions(t *testing.T) {
	store := newTestTranscripts(t)
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, "sess-a", agent.Message{Sender: "user", Content: "a"}))
	require.NoError(t, store.Append(ctx, "sess-b", agent.Message{Sender: "user", Content: "b"}))

	history, err := store.History(ctx, "sess-a")
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "a", history[0].Content)

	history, err = store.History(ctx, "sess-missing")
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestClear(t *testing.T) {
	store := newTestTranscripts(t)
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, "sess-1", agent.Message{Sender: "user", Content: "hi"}))
	require.NoError(t, store.Append(ctx, "sess-2", agent.Message{Sender: "user", Content: "keep"}))
	require.NoError(t, store.Clear(ctx, "sess-1"))

	history, err := store.History(ctx, "sess-1")
	require.NoError(t, err)
	assert.Empty(t, history)

	history, err = store.History(ctx, "sess-2")
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestAppendValidation(t *testing.T) {
	store := newTestTranscripts(t)
	ctx := context.Background()

	assert.Error(t, store.Append(ctx, "", agent.Message{Sender: "user", Content: "x"}))
	assert.NoError(t, store.Append(ctx, "sess-1"))
}

func TestNewStoreRequiresPath(t *testing.T) {
	_, err := NewSQLiteTranscriptStore("")
	assert.Error(t, err)
}
