package app

import (
	"context"
	"sync"

	"github.com/stylehaus/closet/domain"
	"github.com/stylehaus/closet/pkg/events"
)

// -------- test fakes --------

type fakeRepository struct {
	Repository

	getOwnerItem        func(id, ownerID string) (domain.Item, error)
	getOwnerItems       func(ownerID, category string, limit, offset int) ([]domain.Item, error)
	countOwnerItems     func(ownerID, category string) (int, error)
	getOwnerItemsByIDs  func(ownerID string, ids []string) ([]domain.Item, error)
	createItem          func(item *domain.Item) (domain.Item, error)
	deleteItem          func(id, ownerID string) error
	getOwnerVis         func(id, ownerID string) (domain.Visualization, error)
	createVisualization func(v *domain.Visualization) (domain.Visualization, error)
	deleteVisualization func(id, ownerID string) error

	createdItems          []domain.Item
	createdVisualizations []domain.Visualization
	deletedItemIDs        []string
	deletedVisIDs         []string
}

func (f *fakeRepository) GetOwnerItem(_ context.Context, id, ownerID string) (domain.Item, error) {
	return f.getOwnerItem(id, ownerID)
}

func (f *fakeRepository) GetOwnerItems(_ context.Context, ownerID, category string, limit, offset int) ([]domain.Item, error) {
	return f.getOwnerItems(ownerID, category, limit, offset)
}

func (f *fakeRepository) CountOwnerItems(_ context.Context, ownerID, category string) (int, error) {
	return f.countOwnerItems(ownerID, category)
}

func (f *fakeRepository) GetOwnerItemsByIDs(_ context.Context, ownerID string, ids []string) ([]domain.Item, error) {
	return f.getOwnerItemsByIDs(ownerID, ids)
}

func (f *fakeRepository) CreateItem(_ context.Context, item *domain.Item) (domain.Item, error) {
	saved, err := f.createItem(item)
	if err == nil {
		f.createdItems = append(f.createdItems, saved)
	}
	return saved, err
}

func (f *fakeRepository) DeleteItem(_ context.Context, id, ownerID string) error {
	err := f.deleteItem(id, ownerID)
	if err == nil {
		f.deletedItemIDs = append(f.deletedItemIDs, id)
	}
	return err
}

func (f *fakeRepository) GetOwnerVisualization(_ context.Context, id, ownerID string) (domain.Visualization, error) {
	return f.getOwnerVis(id, ownerID)
}

func (f *fakeRepository) CreateVisualization(_ context.Context, v *domain.Visualization) (domain.Visualization, error) {
	saved, err := f.createVisualization(v)
	if err == nil {
		f.createdVisualizations = append(f.createdVisualizations, saved)
	}
	return saved, err
}

func (f *fakeRepository) DeleteVisualization(_ context.Context, id, ownerID string) error {
	err := f.deleteVisualization(id, ownerID)
	if err == nil {
		f.deletedVisIDs = append(f.deletedVisIDs, id)
	}
	return err
}

type fakeBlobStore struct {
	mu        sync.Mutex
	uploads   map[string][]byte
	deleted   []string
	uploadErr func(key string) error
	deleteErr func(key string) error
}

func newFakeBlobStore() *fakeBlobStore {
	return &fakeBlobStore{uploads: map[string][]byte{}}
}

func (f *fakeBlobStore) Upload(key string, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.uploadErr != nil {
		if err := f.uploadErr(key); err != nil {
			return err
		}
	}
	f.uploads[key] = data
	return nil
}

func (f *fakeBlobStore) Delete(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		if err := f.deleteErr(key); err != nil {
			return err
		}
	}
	delete(f.uploads, key)
	f.deleted = append(f.deleted, key)
	return nil
}

func (f *fakeBlobStore) PublicURL(key string) string {
	return "https://cdn.test/" + key
}

func (f *fakeBlobStore) KeyFromURL(url string) string {
	const prefix = "https://cdn.test/"
	if len(url) > len(prefix) && url[:len(prefix)] == prefix {
		return url[len(prefix):]
	}
	return url
}

type fakeRemover struct {
	result []byte
	err    error
	calls  int
}

func (f *fakeRemover) RemoveBackground(_ context.Context, _ []byte, _ string) ([]byte, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

type fakeGenerator struct {
	result     []byte
	err        error
	gotURLs    []string
	gotPrompt  string
	generateCt int
}

func (f *fakeGenerator) Generate(_ context.Context, imageURLs []string, prompt string) ([]byte, error) {
	f.generateCt++
	f.gotURLs = imageURLs
	f.gotPrompt = prompt
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

type spyPublisher struct {
	published []*events.Event
	err       error
}

func (s *spyPublisher) Publish(_ context.Context, _ string, event *events.Event, _ events.Headers) error {
	if s.err != nil {
		return s.err
	}
	s.published = append(s.published, event)
	return nil
}

func (s *spyPublisher) Close() error { return nil }

func ownerContext(ownerID string) context.Context {
	return context.WithValue(context.Background(), "UserID", ownerID)
}
