package session_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	session "github.com/apsas/go-session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := session.NewMemoryStore()

	token := session.NewMockToken()
	user := testIdentity(session.RoleStudent)

	require.NoError(t, store.Save(ctx, token, user))

	stored, err := store.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, token, stored.Token)
	assert.Equal(t, user, stored.User)
}

func TestMemoryStoreClear(t *testing.T) {
	ctx := context.Background()
	store := session.NewMemoryStore()

	require.NoError(t, store.Save(ctx, session.NewMockToken(), testIdentity(session.RoleAdmin)))
	require.NoError(t, store.Clear(ctx))

	stored, err := store.Read(ctx)
	require.NoError(t, err)
	assert.True(t, stored.Token.IsZero())
	assert.Nil(t, stored.User)
}

func TestMemoryStoreEmptyRead(t *testing.T) {
	stored, err := session.NewMemoryStore().Read(context.Background())
	require.NoError(t, err)
	assert.True(t, stored.Token.IsZero())
	assert.Nil(t, stored.User)
}

func TestFileStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "session.json")
	store := session.NewFileStore(path)

	token := mintBearerToken(t, validClaims(session.RoleLecturer))
	user := testIdentity(session.RoleLecturer)

	require.NoError(t, store.Save(ctx, token, user))

	stored, err := store.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, token, stored.Token)
	assert.Equal(t, user, stored.User)
}

func TestFileStoreMissingFileReadsEmpty(t *testing.T) {
	store := session.NewFileStore(filepath.Join(t.TempDir(), "absent.json"))

	stored, err := store.Read(context.Background())
	require.NoError(t, err)
	assert.True(t, stored.Token.IsZero())
	assert.Nil(t, stored.User)
}

func TestFileStoreCorruptDocumentDegradesToEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	stored, err := session.NewFileStore(path).Read(context.Background())
	require.NoError(t, err)
	assert.True(t, stored.Token.IsZero())
	assert.Nil(t, stored.User)
}

func TestFileStoreCorruptUserRecordKeepsToken(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"token":"mock:abc","user":"{broken"}`), 0o600))

	stored, err := session.NewFileStore(path).Read(context.Background())
	require.NoError(t, err)
	assert.False(t, stored.Token.IsZero())
	assert.Nil(t, stored.User, "unparsable user record must read as nil")
}

func TestFileStoreClear(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "session.json")
	store := session.NewFileStore(path)

	require.NoError(t, store.Save(ctx, session.NewMockToken(), testIdentity(session.RoleStudent)))
	require.NoError(t, store.Clear(ctx))
	// clearing an already-clear store is fine
	require.NoError(t, store.Clear(ctx))

	stored, err := store.Read(ctx)
	require.NoError(t, err)
	assert.True(t, stored.Token.IsZero())
	assert.Nil(t, stored.User)
}
