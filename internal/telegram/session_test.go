package telegram

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/gotd/td/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileSessionStorage(t *testing.T) {
	ctx := context.Background()
	storage := &FileSessionStorage{Path: filepath.Join(t.TempDir(), "nested", "session.json")}

	_, err := storage.LoadSession(ctx)
	assert.ErrorIs(t, err, session.ErrNotFound)

	require.NoError(t, storage.StoreSession(ctx, []byte(`{"Version":1}`)))

	data, err := storage.LoadSession(ctx)
	require.NoError(t, err)
	assert.Equal(t, `{"Version":1}`, string(data))
}
