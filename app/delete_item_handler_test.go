package app

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stylehaus/closet/domain"
	"github.com/stylehaus/closet/pkg/events"
	"github.com/stylehaus/closet/pkg/httperror"
)

func newDeleteItemFixture() (*DeleteItemHandler, *fakeRepository, *fakeBlobStore, *spyPublisher) {
	stored := domain.Item{
		ID:           "item-1",
		OwnerID:      "user-1",
		Category:     domain.CategoryTop,
		OriginalURL:  "https://cdn.test/closet/user-1/originals/abc.jpg",
		ProcessedURL: "https://cdn.test/closet/user-1/processed/abc.png",
	}
	repo := &fakeRepository{
		getOwnerItem: func(id, ownerID string) (domain.Item, error) {
			if id == stored.ID && ownerID == stored.OwnerID {
				return stored, nil
			}
			return domain.Item{}, sql.ErrNoRows
		},
		deleteItem: func(id, ownerID string) error { return nil },
	}
	store := newFakeBlobStore()
	store.uploads["closet/user-1/originals/abc.jpg"] = []byte("orig")
	store.uploads["closet/user-1/processed/abc.png"] = []byte("proc")
	publisher := &spyPublisher{}

	return NewDeleteItemHandler(repo, store, publisher), repo, store, publisher
}

func TestDeleteItemRemovesBlobsThenRow(t *testing.T) {
	handler, repo, store, publisher := newDeleteItemFixture()

	res, err := handler.Handle(ownerContext("user-1"), &DeleteItemRequest{ItemID: "item-1"})
	require.NoError(t, err)
	assert.True(t, res.Success)

	assert.Equal(t, []string{
		"closet/user-1/originals/abc.jpg",
		"closet/user-1/processed/abc.png",
	}, store.deleted)
	assert.Empty(t, store.uploads)
	assert.Equal(t, []string{"item-1"}, repo.deletedItemIDs)

	require.Len(t, publisher.published, 1)
	assert.Equal(t, events.ItemDeletedEvent, publisher.published[0].Event)
}

func TestDeleteItemUnknownIDReturnsNotFound(t *testing.T) {
	handler, repo, store, _ := newDeleteItemFixture()

	_, err := handler.Handle(ownerContext("user-1"), &DeleteItemRequest{ItemID: "no-such-item"})

	var httpErr *httperror.Error
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, "item.delete.not_found", httpErr.Code)
	assert.Equal(t, 404, httpErr.Status)

	assert.Empty(t, store.deleted)
	assert.Empty(t, repo.deletedItemIDs)
}

func TestDeleteItemForeignOwnerReturnsNotFound(t *testing.T) {
	handler, _, store, _ := newDeleteItemFixture()

	_, err := handler.Handle(ownerContext("user-2"), &DeleteItemRequest{ItemID: "item-1"})

	var httpErr *httperror.Error
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, "item.delete.not_found", httpErr.Code)
	assert.Empty(t, store.deleted, "foreign caller never reaches storage")
}

func TestDeleteItemStorageFailureKeepsRow(t *testing.T) {
	handler, repo, store, publisher := newDeleteItemFixture()
	store.deleteErr = func(key string) error { return errors.New("s3 unavailable") }

	_, err := handler.Handle(ownerContext("user-1"), &DeleteItemRequest{ItemID: "item-1"})

	var httpErr *httperror.Error
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, "item.delete.storage_failed", httpErr.Code)

	assert.Empty(t, repo.deletedItemIDs, "row kept so the delete can be retried")
	assert.Empty(t, publisher.published)
}

func TestDeleteItemSecondCallIsNotFound(t *testing.T) {
	handler, repo, _, _ := newDeleteItemFixture()
	deleted := false
	base := repo.getOwnerItem
	repo.getOwnerItem = func(id, ownerID string) (domain.Item, error) {
		if deleted {
			return domain.Item{}, sql.ErrNoRows
		}
		return base(id, ownerID)
	}
	repo.deleteItem = func(id, ownerID string) error {
		deleted = true
		return nil
	}

	_, err := handler.Handle(ownerContext("user-1"), &DeleteItemRequest{ItemID: "item-1"})
	require.NoError(t, err)

	_, err = handler.Handle(ownerContext("user-1"), &DeleteItemRequest{ItemID: "item-1"})
	var httpErr *httperror.Error
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, "item.delete.not_found", httpErr.Code)
}
