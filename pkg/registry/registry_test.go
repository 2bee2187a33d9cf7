package registry

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/tubehook/pkg/domain"
	"github.com/umputun/tubehook/pkg/hub"
	"github.com/umputun/tubehook/pkg/registry/mocks"
	"github.com/umputun/tubehook/pkg/repository"
)

var testNow = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

// memStore makes store mock backed by a map
func memStore() *mocks.StoreMock {
	var mu sync.Mutex
	data := map[string]string{}
	return &mocks.StoreMock{
		GetFunc: func(_ context.Context, key string) (string, bool, error) {
			mu.Lock()
			defer mu.Unlock()
			v, ok := data[key]
			return v, ok, nil
		},
		PutFunc: func(_ context.Context, key, value string) error {
			mu.Lock()
			defer mu.Unlock()
			data[key] = value
			return nil
		},
		DeleteFunc: func(_ context.Context, key string) error {
			mu.Lock()
			defer mu.Unlock()
			delete(data, key)
			return nil
		},
	}
}

func okHub() *mocks.HubMock {
	return &mocks.HubMock{RequestSubscriptionFunc: func(context.Context, hub.Request) bool { return true }}
}

func failHub() *mocks.HubMock {
	return &mocks.HubMock{RequestSubscriptionFunc: func(context.Context, hub.Request) bool { return false }}
}

func okReporter() *mocks.ReporterMock {
	return &mocks.ReporterMock{ReportFunc: func(context.Context, string, error) error { return nil }}
}

func newTestRegistry(store Store, h Hub, rep Reporter) *Registry {
	return New(Params{Store: store, Hub: h, Reporter: rep, Secret: "secret", CallbackURL: "https://example.com/webhook",
		Now: func() time.Time { return testNow }})
}

func channelIDs(subs []domain.Subscription) []string {
	res := make([]string, 0, len(subs))
	for _, s := range subs {
		res = append(res, s.ChannelID)
	}
	return res
}

func TestRegistry_ListAllEmpty(t *testing.T) {
	r := newTestRegistry(memStore(), okHub(), okReporter())
	subs, err := r.ListAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, subs)
	assert.NotNil(t, subs)
}

func TestRegistry_Add(t *testing.T) {
	ctx := context.Background()
	store, h := memStore(), okHub()
	r := newTestRegistry(store, h, okReporter())

	require.NoError(t, r.Add(ctx, "c1"))
	require.NoError(t, r.Add(ctx, "c1"), "second add is a no-op")

	subs, err := r.ListAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []domain.Subscription{{ChannelID: "c1", LastSubscribedAt: testNow}}, subs)

	require.Len(t, h.RequestSubscriptionCalls(), 1, "hub called once")
	assert.Equal(t, hub.Request{ChannelID: "c1", Mode: domain.ModeSubscribe, Secret: "secret",
		CallbackURL: "https://example.com/webhook"}, h.RequestSubscriptionCalls()[0].Req)
	assert.Len(t, store.PutCalls(), 1)
	assert.JSONEq(t, `[{"channelId":"c1","lastSubscribedAt":1704110400000}]`, store.PutCalls()[0].Value)
}

func TestRegistry_AddHubFailure(t *testing.T) {
	ctx := context.Background()
	store := memStore()
	require.NoError(t, newTestRegistry(store, okHub(), okReporter()).Add(ctx, "c1"))

	r := newTestRegistry(store, failHub(), okReporter())
	err := r.Add(ctx, "c2")
	require.ErrorIs(t, err, ErrSubscribeFailed)

	subs, err := r.ListAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"c1"}, channelIDs(subs))
	assert.Len(t, store.PutCalls(), 1, "no write after hub failure")
}

func TestRegistry_Remove(t *testing.T) {
	ctx := context.Background()
	store, h := memStore(), okHub()
	r := newTestRegistry(store, h, okReporter())
	require.NoError(t, r.Add(ctx, "c1"))
	require.NoError(t, r.Add(ctx, "c2"))
	require.NoError(t, r.Add(ctx, "c3"))

	require.NoError(t, r.Remove(ctx, "c2"))
	subs, err := r.ListAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"c1", "c3"}, channelIDs(subs))
	assert.Equal(t, domain.ModeUnsubscribe, h.RequestSubscriptionCalls()[3].Req.Mode)

	t.Run("absent is a no-op", func(t *testing.T) {
		calls := len(h.RequestSubscriptionCalls())
		require.NoError(t, r.Remove(ctx, "c2"))
		assert.Len(t, h.RequestSubscriptionCalls(), calls)
	})
}

func TestRegistry_RemoveHubFailure(t *testing.T) {
	ctx := context.Background()
	store := memStore()
	require.NoError(t, newTestRegistry(store, okHub(), okReporter()).Add(ctx, "c1"))

	r := newTestRegistry(store, failHub(), okReporter())
	require.ErrorIs(t, r.Remove(ctx, "c1"), ErrUnsubscribeFailed)

	subs, err := r.ListAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"c1"}, channelIDs(subs))
}

func TestRegistry_InvalidChannel(t *testing.T) {
	h := okHub()
	r := newTestRegistry(memStore(), h, okReporter())
	assert.ErrorIs(t, r.Add(context.Background(), "  "), ErrInvalidChannel)
	assert.ErrorIs(t, r.Remove(context.Background(), ""), ErrInvalidChannel)
	assert.Empty(t, h.RequestSubscriptionCalls())
}

func TestRegistry_RenewAll(t *testing.T) {
	ctx := context.Background()
	store := memStore()
	old := New(Params{Store: store, Hub: okHub(), Reporter: okReporter(),
		Now: func() time.Time { return testNow.Add(-24 * time.Hour) }})
	for _, id := range []string{"c1", "c2", "c3"} {
		require.NoError(t, old.Add(ctx, id))
	}
	putsBefore := len(store.PutCalls())

	h := &mocks.HubMock{RequestSubscriptionFunc: func(_ context.Context, req hub.Request) bool {
		return req.ChannelID != "c2"
	}}
	rep := okReporter()
	r := newTestRegistry(store, h, rep)

	res, err := r.RenewAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, RenewResult{Total: 3, Failed: []string{"c2"}}, res)

	require.Len(t, rep.ReportCalls(), 1, "exactly one failure report")
	assert.Contains(t, rep.ReportCalls()[0].What, "c2")
	assert.ErrorIs(t, rep.ReportCalls()[0].Err, ErrSubscribeFailed)

	assert.Len(t, store.PutCalls(), putsBefore+1, "single write per pass")
	subs, err := r.ListAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"c1", "c2", "c3"}, channelIDs(subs))
	for _, s := range subs {
		assert.Equal(t, testNow, s.LastSubscribedAt.UTC(), s.ChannelID)
	}
	for _, c := range h.RequestSubscriptionCalls() {
		assert.Equal(t, domain.ModeSubscribe, c.Req.Mode)
	}
}

func TestRegistry_RenewAllReporterFailure(t *testing.T) {
	ctx := context.Background()
	store := memStore()
	require.NoError(t, newTestRegistry(store, okHub(), okReporter()).Add(ctx, "c1"))

	rep := &mocks.ReporterMock{ReportFunc: func(context.Context, string, error) error { return errors.New("sink down") }}
	res, err := newTestRegistry(store, failHub(), rep).RenewAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"c1"}, res.Failed)
	assert.Len(t, rep.ReportCalls(), 1)
}

func TestRegistry_RenewAllWriteFailure(t *testing.T) {
	ctx := context.Background()
	store := memStore()
	require.NoError(t, newTestRegistry(store, okHub(), okReporter()).Add(ctx, "c1"))
	store.PutFunc = func(context.Context, string, string) error { return errors.New("disk full") }

	_, err := newTestRegistry(store, okHub(), okReporter()).RenewAll(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}

func TestRegistry_RenewAllEmpty(t *testing.T) {
	store, h := memStore(), okHub()
	res, err := newTestRegistry(store, h, okReporter()).RenewAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, res.Total)
	assert.Empty(t, h.RequestSubscriptionCalls())
}

func TestRegistry_CorruptedBlob(t *testing.T) {
	tests := []struct {
		name string
		blob string
	}{
		{"not json", "{{{"},
		{"object", `{"channelId":"c1","lastSubscribedAt":1}`},
		{"null", "null"},
		{"null element", `[null]`},
		{"missing channel", `[{"lastSubscribedAt":1}]`},
		{"empty channel", `[{"channelId":"","lastSubscribedAt":1}]`},
		{"missing timestamp", `[{"channelId":"c1"}]`},
		{"wrong channel type", `[{"channelId":12,"lastSubscribedAt":1}]`},
		{"wrong timestamp type", `[{"channelId":"c1","lastSubscribedAt":"yesterday"}]`},
		{"one bad of two", `[{"channelId":"c1","lastSubscribedAt":1},{"channelId":"c2"}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			store := memStore()
			require.NoError(t, store.Put(ctx, StorageKey, tt.blob))

			subs, err := newTestRegistry(store, okHub(), okReporter()).ListAll(ctx)
			require.NoError(t, err)
			assert.Empty(t, subs)

			require.Len(t, store.DeleteCalls(), 1)
			assert.Equal(t, StorageKey, store.DeleteCalls()[0].Key)
			_, found, err := store.Get(ctx, StorageKey)
			require.NoError(t, err)
			assert.False(t, found)
		})
	}
}

func TestRegistry_ValidBlob(t *testing.T) {
	ctx := context.Background()
	store := memStore()
	require.NoError(t, store.Put(ctx, StorageKey,
		`[{"channelId":"c1","lastSubscribedAt":1704067200000,"extra":true},{"channelId":"c2","lastSubscribedAt":0}]`))

	subs, err := newTestRegistry(store, okHub(), okReporter()).ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, subs, 2)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), subs[0].LastSubscribedAt.UTC())
	assert.Equal(t, "c2", subs[1].ChannelID)
	assert.Empty(t, store.DeleteCalls())
}

func TestRegistry_StoreErrors(t *testing.T) {
	ctx := context.Background()
	store := &mocks.StoreMock{GetFunc: func(context.Context, string) (string, bool, error) {
		return "", false, errors.New("db locked")
	}}
	h := okHub()
	r := newTestRegistry(store, h, okReporter())

	_, err := r.ListAll(ctx)
	require.Error(t, err)
	require.Error(t, r.Add(ctx, "c1"))
	require.Error(t, r.Remove(ctx, "c1"))
	_, err = r.RenewAll(ctx)
	require.Error(t, err)
	assert.Empty(t, h.RequestSubscriptionCalls())
}

// TestRegistry_ConcurrentAddLosesUpdate documents known race: two adds interleaving on the
// same blob, the slower one writes its stale list and the faster one's channel is lost.
func TestRegistry_ConcurrentAddLosesUpdate(t *testing.T) {
	ctx := context.Background()
	store := memStore()
	var r *Registry
	h := &mocks.HubMock{}
	h.RequestSubscriptionFunc = func(ctx context.Context, req hub.Request) bool {
		if req.ChannelID == "c1" {
			// another request completes while c1 waits for the hub
			require.NoError(t, r.Add(ctx, "c2"))
		}
		return true
	}
	r = newTestRegistry(store, h, okReporter())

	require.NoError(t, r.Add(ctx, "c1"))
	subs, err := r.ListAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"c1"}, channelIDs(subs), "c2 lost, last write wins")
}

func TestRegistry_WithKVRepository(t *testing.T) {
	ctx := context.Background()
	repos, err := repository.NewRepositories(ctx, repository.Config{DSN: ":memory:", MaxOpenConns: 1})
	require.NoError(t, err)
	defer repos.Close()

	r := newTestRegistry(repos.KV, okHub(), okReporter())
	require.NoError(t, r.Add(ctx, "c1"))
	require.NoError(t, r.Add(ctx, "c2"))
	require.NoError(t, r.Remove(ctx, "c1"))

	subs, err := r.ListAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []domain.Subscription{{ChannelID: "c2", LastSubscribedAt: testNow}}, toUTC(subs))

	require.NoError(t, repos.KV.Put(ctx, StorageKey, "garbage"))
	subs, err = r.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, subs)
	_, found, err := repos.KV.Get(ctx, StorageKey)
	require.NoError(t, err)
	assert.False(t, found)
}

func toUTC(subs []domain.Subscription) []domain.Subscription {
	for i := range subs {
		subs[i].LastSubscribedAt = subs[i].LastSubscribedAt.UTC()
	}
	return subs
}
