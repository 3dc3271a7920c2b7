package blobstore

import (
	"errors"
	"io"
	"os"
	"testing"

	"esmu-server/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	if err := logger.InitLogger("error", false); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func newTestStore(t *testing.T) *Store {
	store := New(t.TempDir())
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Logf("Failed to close blob store: %v", err)
		}
	})
	return store
}

func TestStore_UploadAndRead(t *testing.T) {
	store := newTestStore(t)

	content := []byte("hello blob storage")
	id, err := store.Upload(content, "greeting.txt", "text/plain")
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	stream, contentType, err := store.OpenRead("greeting.txt")
	require.NoError(t, err)
	defer stream.Close()

	got, err := io.ReadAll(stream)
	require.NoError(t, err)
	assert.Equal(t, content, got)
	assert.Equal(t, "text/plain", contentType)
}

func TestStore_ReadMissing(t *testing.T) {
	store := newTestStore(t)

	_, _, err := store.OpenRead("does-not-exist.png")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_Delete(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Upload([]byte{0x1, 0x2, 0x3}, "data.bin", "application/octet-stream")
	require.NoError(t, err)

	// 第一次删除成功
	deleted, err := store.Delete("data.bin")
	require.NoError(t, err)
	assert.True(t, deleted)

	// 删除后读取应报ErrNotFound
	_, _, err = store.OpenRead("data.bin")
	assert.ErrorIs(t, err, ErrNotFound)

	// 重复删除返回false且不报错
	deleted, err = store.Delete("data.bin")
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestStore_DefaultContentType(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Upload([]byte("x"), "unknown", "")
	require.NoError(t, err)

	stream, contentType, err := store.OpenRead("unknown")
	require.NoError(t, err)
	stream.Close()
	assert.Equal(t, "application/octet-stream", contentType)
}

func TestStore_NotConfigured(t *testing.T) {
	store := New("")

	_, err := store.Upload([]byte("x"), "a", "text/plain")
	assert.True(t, errors.Is(err, ErrNotConfigured))

	_, _, err = store.OpenRead("a")
	assert.True(t, errors.Is(err, ErrNotConfigured))

	_, err = store.Delete("a")
	assert.True(t, errors.Is(err, ErrNotConfigured))

	// 从未连接时Close也安全
	assert.NoError(t, store.Close())
}

func TestStore_CloseIdempotent(t *testing.T) {
	store := New(t.TempDir())

	_, err := store.Upload([]byte("x"), "a", "text/plain")
	require.NoError(t, err)

	assert.NoError(t, store.Close())
	assert.NoError(t, store.Close())
}
