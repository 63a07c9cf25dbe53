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

func newDeleteVisualizationFixture() (*DeleteVisualizationHandler, *fakeRepository, *fakeBlobStore, *spyPublisher) {
	stored := domain.Visualization{
		ID:       "vis-1",
		OwnerID:  "user-1",
		ItemIDs:  []string{"a", "b"},
		ImageURL: "https://cdn.test/closet/user-1/outfits/v.png",
	}
	repo := &fakeRepository{
		getOwnerVis: func(id, ownerID string) (domain.Visualization, error) {
			if id == stored.ID && ownerID == stored.OwnerID {
				return stored, nil
			}
			return domain.Visualization{}, sql.ErrNoRows
		},
		deleteVisualization: func(id, ownerID string) error { return nil },
	}
	store := newFakeBlobStore()
	store.uploads["closet/user-1/outfits/v.png"] = []byte("outfit")
	publisher := &spyPublisher{}

	return NewDeleteVisualizationHandler(repo, store, publisher), repo, store, publisher
}

func TestDeleteVisualizationRemovesBlobThenRow(t *testing.T) {
	handler, repo, store, publisher := newDeleteVisualizationFixture()

	res, err := handler.Handle(ownerContext("user-1"), &DeleteVisualizationRequest{VisualizationID: "vis-1"})
	require.NoError(t, err)
	assert.True(t, res.Success)

	assert.Equal(t, []string{"closet/user-1/outfits/v.png"}, store.deleted)
	assert.Equal(t, []string{"vis-1"}, repo.deletedVisIDs)

	require.Len(t, publisher.published, 1)
	assert.Equal(t, events.VisualizationDeletedEvent, publisher.published[0].Event)
}

func TestDeleteVisualizationForeignOwnerIsNotFound(t *testing.T) {
	handler, repo, store, _ := newDeleteVisualizationFixture()

	_, err := handler.Handle(ownerContext("user-2"), &DeleteVisualizationRequest{VisualizationID: "vis-1"})

	var httpErr *httperror.Error
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, "visualization.delete.not_found", httpErr.Code)
	assert.Equal(t, 404, httpErr.Status)
	assert.Empty(t, store.deleted)
	assert.Empty(t, repo.deletedVisIDs)
}

func TestDeleteVisualizationStorageFailureKeepsRow(t *testing.T) {
	handler, repo, store, publisher := newDeleteVisualizationFixture()
	store.deleteErr = func(key string) error { return errors.New("s3 unavailable") }

	_, err := handler.Handle(ownerContext("user-1"), &DeleteVisualizationRequest{VisualizationID: "vis-1"})

	var httpErr *httperror.Error
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, "visualization.delete.storage_failed", httpErr.Code)
	assert.Empty(t, repo.deletedVisIDs)
	assert.Empty(t, publisher.published)
}
