package service

import (
	"context"
	"testing"

	"makiti/internal/apierror"
	"makiti/internal/dto"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryCRUD(t *testing.T) {
	repo := newStubCategoryRepo()
	svc := NewCategoryService(repo, nil)
	ctx := context.Background()

	created, err := svc.Create(ctx, testActor(), dto.CategoryRequest{Nom: "Robes"})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)

	updated, err := svc.Update(ctx, testActor(), mustUUID(t, created.ID), dto.CategoryRequest{Nom: "Robes et jupes"})
	require.NoError(t, err)
	assert.Equal(t, "Robes et jupes", updated.Nom)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)

	require.NoError(t, svc.Delete(ctx, testActor(), mustUUID(t, created.ID)))
	list, err = svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestCategoryDuplicateNameConflict(t *testing.T) {
	repo := newStubCategoryRepo()
	svc := NewCategoryService(repo, nil)
	ctx := context.Background()

	_, err := svc.Create(ctx, testActor(), dto.CategoryRequest{Nom: "Chemises"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, testActor(), dto.CategoryRequest{Nom: "Chemises"})
	require.Error(t, err)
	assert.True(t, apierror.IsKind(err, apierror.KindConflict))
}

func TestCategoryDeleteUnknownNotFound(t *testing.T) {
	svc := NewCategoryService(newStubCategoryRepo(), nil)
	err := svc.Delete(context.Background(), testActor(), uuid.New())
	require.Error(t, err)
	assert.True(t, apierror.IsKind(err, apierror.KindNotFound))
}
