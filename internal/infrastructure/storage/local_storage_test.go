package storage

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorage_PutGetDelete(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	err = store.Put(ctx, "projects/p1/plano.pdf", "application/pdf", strings.NewReader("pdf bytes"))
	require.NoError(t, err)

	rc, err := store.Get(ctx, "projects/p1/plano.pdf")
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, "pdf bytes", string(data))

	require.NoError(t, store.Delete(ctx, "projects/p1/plano.pdf"))
	_, err = store.Get(ctx, "projects/p1/plano.pdf")
	assert.Error(t, err)

	// Deleting again is not an error
	assert.NoError(t, store.Delete(ctx, "projects/p1/plano.pdf"))
}

func TestLocalStorage_RejectsTraversal(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	err = store.Put(context.Background(), "../outside.txt", "", strings.NewReader("x"))
	assert.Error(t, err)
}

func TestLocalStorage_EmptyKey(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	_, err = store.Get(context.Background(), "")
	assert.Error(t, err)
}
