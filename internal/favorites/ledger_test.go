package favorites

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"event-explorer/internal/apperr"
	"event-explorer/internal/catalog"
	"event-explorer/internal/kvstore"
	"event-explorer/internal/logger"
	"event-explorer/internal/models"
)

type MockStore struct {
	mock.Mock
}

func (m *MockStore) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if b := args.Get(0); b != nil {
		return b.([]byte), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockStore) Set(ctx context.Context, key string, value []byte) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

func (m *MockStore) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockStore) Close() error { return nil }

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishFavoritesChanged(ctx context.Context, evt models.FavoritesChangedEvent) error {
	args := m.Called(ctx, evt)
	return args.Error(0)
}

func openMemory(t *testing.T, kv kvstore.Store) *Ledger {
	t.Helper()
	l, err := Open(context.Background(), kv, logger.Nop())
	require.NoError(t, err)
	return l
}

func TestOpenDefaultsToEmpty(t *testing.T) {
	ctx := context.Background()

	l := openMemory(t, kvstore.NewMemory())
	assert.Empty(t, l.List())

	kv := kvstore.NewMemory()
	require.NoError(t, kv.Set(ctx, Key, []byte{}))
	assert.Empty(t, openMemory(t, kv).List())

	require.NoError(t, kv.Set(ctx, Key, []byte("[3,1,2]")))
	assert.Equal(t, []int{1, 2, 3}, openMemory(t, kv).List())
}

func TestOpenRejectsCorruptEntry(t *testing.T) {
	kv := kvstore.NewMemory()
	require.NoError(t, kv.Set(context.Background(), Key, []byte("{not json")))

	_, err := Open(context.Background(), kv, logger.Nop())
	assert.ErrorIs(t, err, apperr.ErrPersistence)
}

func TestOpenSurfacesStoreError(t *testing.T) {
	kv := new(MockStore)
	kv.On("Get", mock.Anything, Key).Return(nil, errors.New("disk gone"))

	_, err := Open(context.Background(), kv, logger.Nop())
	assert.ErrorIs(t, err, apperr.ErrPersistence)
	assert.ErrorContains(t, err, "disk gone")
}

func TestAddIsIdempotent(t *testing.T) {
	ctx := context.Background()
	kv := kvstore.NewMemory()
	l := openMemory(t, kv)

	require.NoError(t, l.Add(ctx, 5))
	once := l.List()
	require.NoError(t, l.Add(ctx, 5))
	assert.Equal(t, once, l.List())
	assert.True(t, l.IsFavorite(5))

	raw, err := kv.Get(ctx, Key)
	require.NoError(t, err)
	assert.JSONEq(t, "[5]", string(raw))
}

func TestRemoveAbsentIsNoop(t *testing.T) {
	kv := new(MockStore)
	kv.On("Get", mock.Anything, Key).Return(nil, kvstore.ErrNotFound)
	l, err := Open(context.Background(), kv, logger.Nop())
	require.NoError(t, err)

	require.NoError(t, l.Remove(context.Background(), 42))
	kv.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything)
}

func TestAddThenRemoveRoundTrips(t *testing.T) {
	ctx := context.Background()
	l := openMemory(t, kvstore.NewMemory())
	require.NoError(t, l.Add(ctx, 1))
	before := l.List()

	require.NoError(t, l.Add(ctx, 5))
	require.NoError(t, l.Remove(ctx, 5))
	assert.Equal(t, before, l.List())
	assert.False(t, l.IsFavorite(5))
}

func TestFailedWriteLeavesSetUnchanged(t *testing.T) {
	ctx := context.Background()
	kv := new(MockStore)
	kv.On("Get", mock.Anything, Key).Return([]byte("[1]"), nil)
	kv.On("Set", mock.Anything, Key, mock.Anything).Return(errors.New("quota exceeded"))

	l, err := Open(ctx, kv, logger.Nop())
	require.NoError(t, err)

	err = l.Add(ctx, 2)
	assert.ErrorIs(t, err, apperr.ErrPersistence)
	assert.Equal(t, []int{1}, l.List())

	err = l.Remove(ctx, 1)
	assert.ErrorIs(t, err, apperr.ErrPersistence)
	assert.True(t, l.IsFavorite(1))

	on, err := l.Toggle(ctx, 1)
	assert.Error(t, err)
	assert.True(t, on, "toggle reports the unchanged state on failure")
}

func TestConcurrentAddsAllPersist(t *testing.T) {
	ctx := context.Background()
	kv := kvstore.NewMemory()
	l := openMemory(t, kv)

	var wg sync.WaitGroup
	for id := 1; id <= 25; id++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			assert.NoError(t, l.Add(ctx, id))
		}(id)
	}
	wg.Wait()

	reopened := openMemory(t, kv)
	assert.Len(t, reopened.List(), 25)
	assert.Equal(t, l.List(), reopened.List())
}

func TestToggle(t *testing.T) {
	ctx := context.Background()
	l := openMemory(t, kvstore.NewMemory())

	on, err := l.Toggle(ctx, 3)
	require.NoError(t, err)
	assert.True(t, on)

	on, err = l.Toggle(ctx, 3)
	require.NoError(t, err)
	assert.False(t, on)
	assert.Empty(t, l.List())
}

func TestPublishesCommittedChanges(t *testing.T) {
	ctx := context.Background()
	pub := new(MockPublisher)
	pub.On("PublishFavoritesChanged", mock.Anything, models.FavoritesChangedEvent{
		EventID: 4, Action: ActionAdd, Favorites: []int{4},
	}).Return(nil).Once()
	pub.On("PublishFavoritesChanged", mock.Anything, models.FavoritesChangedEvent{
		EventID: 4, Action: ActionRemove, Favorites: []int{},
	}).Return(errors.New("broker down")).Once()

	l, err := Open(ctx, kvstore.NewMemory(), logger.Nop(), WithPublisher(pub))
	require.NoError(t, err)

	require.NoError(t, l.Add(ctx, 4))
	require.NoError(t, l.Add(ctx, 4))
	require.NoError(t, l.Remove(ctx, 4), "publish failure does not fail the mutation")
	pub.AssertExpectations(t)
}

func TestClearDropsEverything(t *testing.T) {
	ctx := context.Background()
	kv := kvstore.NewMemory()
	pub := new(MockPublisher)
	pub.On("PublishFavoritesChanged", mock.Anything, mock.MatchedBy(func(evt models.FavoritesChangedEvent) bool {
		return evt.Action == ActionAdd
	})).Return(nil).Twice()
	pub.On("PublishFavoritesChanged", mock.Anything, models.FavoritesChangedEvent{
		Action: ActionClear, Favorites: []int{},
	}).Return(nil).Once()

	l, err := Open(ctx, kv, logger.Nop(), WithPublisher(pub))
	require.NoError(t, err)
	require.NoError(t, l.Add(ctx, 2))
	require.NoError(t, l.Add(ctx, 5))

	require.NoError(t, l.Clear(ctx))
	assert.Empty(t, l.List())
	_, err = kv.Get(ctx, Key)
	assert.ErrorIs(t, err, kvstore.ErrNotFound)

	require.NoError(t, l.Clear(ctx), "clearing an empty set is a no-op")
	pub.AssertExpectations(t)
}

func TestClearFailureKeepsSet(t *testing.T) {
	ctx := context.Background()
	kv := new(MockStore)
	kv.On("Get", mock.Anything, Key).Return([]byte("[7]"), nil)
	kv.On("Delete", mock.Anything, Key).Return(errors.New("disk full"))

	l, err := Open(ctx, kv, logger.Nop())
	require.NoError(t, err)
	err = l.Clear(ctx)
	assert.ErrorIs(t, err, apperr.ErrPersistence)
	assert.Equal(t, []int{7}, l.List())
}

// blockingPublisher holds the first notice until release is closed.
type blockingPublisher struct {
	entered chan models.FavoritesChangedEvent
	release chan struct{}
}

func (b *blockingPublisher) PublishFavoritesChanged(ctx context.Context, evt models.FavoritesChangedEvent) error {
	select {
	case b.entered <- evt:
		<-b.release
	default:
	}
	return nil
}

func TestSlowPublisherDoesNotBlockOtherMutations(t *testing.T) {
	ctx := context.Background()
	pub := &blockingPublisher{
		entered: make(chan models.FavoritesChangedEvent),
		release: make(chan struct{}),
	}
	l, err := Open(ctx, kvstore.NewMemory(), logger.Nop(), WithPublisher(pub))
	require.NoError(t, err)

	firstDone := make(chan error, 1)
	go func() { firstDone <- l.Add(ctx, 1) }()

	select {
	case evt := <-pub.entered:
		assert.Equal(t, 1, evt.EventID)
	case <-time.After(time.Second):
		t.Fatal("first add never reached the publisher")
	}
	assert.True(t, l.IsFavorite(1), "change is committed before it is published")

	secondDone := make(chan error, 1)
	go func() { secondDone <- l.Add(ctx, 2) }()
	select {
	case err := <-secondDone:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("second add waited on the first add's publisher")
	}

	_, err = l.Toggle(ctx, 3)
	require.NoError(t, err)

	close(pub.release)
	require.NoError(t, <-firstDone)
	assert.Equal(t, []int{1, 2, 3}, l.List())
}

func TestEventsFollowCatalogOrder(t *testing.T) {
	ctx := context.Background()
	cat, err := catalog.Load(ctx, nil, logger.Nop())
	require.NoError(t, err)

	l := openMemory(t, kvstore.NewMemory())
	require.NoError(t, l.Add(ctx, 9))
	require.NoError(t, l.Add(ctx, 2))
	require.NoError(t, l.Add(ctx, 999))

	events := l.Events(cat)
	require.Len(t, events, 2)
	assert.Equal(t, 2, events[0].ID)
	assert.Equal(t, 9, events[1].ID)
}
