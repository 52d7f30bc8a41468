package session

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"

	"github.com/noah-isme/council-console/internal/models"
)

func sampleSession() *Session {
	return &Session{
		Role:         models.RoleStudent,
		AccessToken:  "access",
		RefreshToken: "refresh",
		Student: &models.Student{
			ID:            "stu-1",
			Name:          "Asha Rao",
			PhoneNumber:   "9876543210",
			PaymentStatus: models.PaymentPartial,
			PaymentAmount: 4500,
		},
		IssuedAt: time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC),
	}
}

func exerciseStore(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()

	_, err := store.Load(ctx)
	assert.ErrorIs(t, err, ErrNoSession)

	require.NoError(t, store.Save(ctx, sampleSession()))
	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, sampleSession(), loaded)

	require.NoError(t, store.Clear(ctx))
	_, err = store.Load(ctx)
	assert.ErrorIs(t, err, ErrNoSession)

	require.NoError(t, store.Clear(ctx))
	assert.ErrorIs(t, store.Save(ctx, &Session{}), ErrNoSession)
}

func TestFileStore(t *testing.T) {
	store, err := NewFileStore(filepath.Join(t.TempDir(), ".council", "session.json"))
	require.NoError(t, err)
	exerciseStore(t, store)
}

func TestRedisStore(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	store := NewRedisStore(client, "council:session:default", time.Hour)
	exerciseStore(t, store)

	require.NoError(t, store.Save(context.Background(), sampleSession()))
	assert.Equal(t, time.Hour, mr.TTL("council:session:default"))

	mr.FastForward(2 * time.Hour)
	_, err := store.Load(context.Background())
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestKeyringStore(t *testing.T) {
	keyring.MockInit()
	exerciseStore(t, NewKeyringStore("council-console", "default"))
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore())
}
