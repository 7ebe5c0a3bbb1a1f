package sync

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "github.com/clinicatlas/places-sync/internal/errors"
	"github.com/clinicatlas/places-sync/internal/models"
)

func TestResolveScopeSelected(t *testing.T) {
	store := new(MockStore)
	resolver := NewScopeResolver(store)

	// Selected ids pass through untouched, even ids without a place ID.
	ids, err := resolver.ResolveScope(context.Background(), models.SyncScope{
		Type:      models.ScopeSelected,
		ClinicIDs: []int64{3, 1, 2},
	})

	require.NoError(t, err)
	assert.Equal(t, []int64{3, 1, 2}, ids)
	store.AssertNotCalled(t, "ListClinicIDsWithPlaceID", mock.Anything, mock.Anything)
}

func TestResolveScopeByState(t *testing.T) {
	store := new(MockStore)
	resolver := NewScopeResolver(store)

	store.On("ListClinicIDsWithPlaceID", mock.Anything, "CA").Return([]int64{4, 7}, nil)

	ids, err := resolver.ResolveScope(context.Background(), models.SyncScope{
		Type:        models.ScopeByState,
		StateFilter: "CA",
	})

	require.NoError(t, err)
	assert.Equal(t, []int64{4, 7}, ids)
}

func TestResolveScopeMissingData(t *testing.T) {
	store := new(MockStore)
	resolver := NewScopeResolver(store)

	store.On("ListClinicIDsMissingData", mock.Anything).Return([]int64{9}, nil)

	ids, err := resolver.ResolveScope(context.Background(), models.SyncScope{
		Type: models.ScopeMissingData,
	})

	require.NoError(t, err)
	assert.Equal(t, []int64{9}, ids)
}

func TestResolveScopeAll(t *testing.T) {
	store := new(MockStore)
	resolver := NewScopeResolver(store)

	store.On("ListClinicIDsWithPlaceID", mock.Anything, "").Return([]int64{1, 2, 3}, nil)

	for _, scopeType := range []models.SyncScopeType{models.ScopeAll, ""} {
		ids, err := resolver.ResolveScope(context.Background(), models.SyncScope{Type: scopeType})
		require.NoError(t, err)
		assert.Equal(t, []int64{1, 2, 3}, ids)
	}
}

func TestResolveScopeUnknownType(t *testing.T) {
	resolver := NewScopeResolver(new(MockStore))

	ids, err := resolver.ResolveScope(context.Background(), models.SyncScope{Type: "bogus"})

	assert.Nil(t, ids)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown sync scope")
	assert.True(t, apperrors.IsInvalidInput(err))
}

func TestResolveScopeStoreError(t *testing.T) {
	store := new(MockStore)
	resolver := NewScopeResolver(store)

	store.On("ListClinicIDsMissingData", mock.Anything).Return(nil, errors.New("db down"))

	_, err := resolver.ResolveScope(context.Background(), models.SyncScope{
		Type: models.ScopeMissingData,
	})

	assert.Error(t, err)
}
