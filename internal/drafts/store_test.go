package drafts

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/godilite/procurement-server/pkg/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeKV struct {
	data    map[string][]byte
	lastTTL time.Duration
	err     error
}

func (f *fakeKV) Get(_ context.Context, key string, dest any) error {
	if f.err != nil {
		return f.err
	}
	raw, ok := f.data[key]
	if !ok {
		return cache.Nil
	}
	return json.Unmarshal(raw, dest)
}

func (f *fakeKV) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	if f.err != nil {
		return f.err
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	f.data[key] = raw
	f.lastTTL = ttl
	return nil
}

func (f *fakeKV) Delete(_ context.Context, key string) error {
	if f.err != nil {
		return f.err
	}
	delete(f.data, key)
	return nil
}

type orderDraft struct {
	Title string   `json:"title"`
	Items []string `json:"items"`
}

func TestRedisStore(t *testing.T) {
	ctx := context.Background()
	kv := &fakeKV{data: map[string][]byte{}}
	store := NewRedisStore(kv, time.Hour)

	var missing orderDraft
	assert.ErrorIs(t, store.Load(ctx, "order-1", &missing), ErrNotFound)

	require.NoError(t, store.Save(ctx, "order-1", orderDraft{Title: "Ofis", Items: []string{"kalem"}}))
	assert.Equal(t, time.Hour, kv.lastTTL)
	assert.Contains(t, kv.data, "draft:order-1")

	var loaded orderDraft
	require.NoError(t, store.Load(ctx, "order-1", &loaded))
	assert.Equal(t, orderDraft{Title: "Ofis", Items: []string{"kalem"}}, loaded)

	require.NoError(t, store.Delete(ctx, "order-1"))
	assert.ErrorIs(t, store.Load(ctx, "order-1", &loaded), ErrNotFound)
}

func TestRedisStoreErrors(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("redis down")
	store := NewRedisStore(&fakeKV{data: map[string][]byte{}, err: boom}, time.Hour)

	var dest orderDraft
	err := store.Load(ctx, "x", &dest)
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, store.Save(ctx, "x", dest), boom)
	assert.ErrorIs(t, store.Delete(ctx, "x"), boom)
}

func TestNewRedisStorePanicsOnNil(t *testing.T) {
	assert.Panics(t, func() { NewRedisStore(nil, time.Hour) })
}
