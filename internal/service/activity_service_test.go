package service

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"makiti/internal/apierror"
	"makiti/internal/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogActivityReturnsPersistedRow(t *testing.T) {
	repo := newStubActivityRepo()
	svc := NewActivityService(repo)

	resp, err := svc.Log(context.Background(), testActor(), dto.ActivityRequest{
		ActionType: "product_created",
		EntityType: strPtrTest("product"),
		EntityName: strPtrTest("T-shirt"),
		Details:    json.RawMessage(`{"code_modele":"TSH-001"}`),
	})
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.NotEmpty(t, resp.Log.ID)
	assert.Equal(t, "product_created", resp.Log.ActionType)
	assert.JSONEq(t, `{"code_modele":"TSH-001"}`, string(resp.Log.Details))
	assert.Len(t, repo.logs, 1)
}

func TestLogActivityUnknownActionRejected(t *testing.T) {
	svc := NewActivityService(newStubActivityRepo())
	_, err := svc.Log(context.Background(), testActor(), dto.ActivityRequest{ActionType: "danse"})
	require.Error(t, err)
	assert.True(t, apierror.IsKind(err, apierror.KindValidation))
}

func TestLogActivityInvalidDetailsRejected(t *testing.T) {
	svc := NewActivityService(newStubActivityRepo())
	_, err := svc.Log(context.Background(), testActor(), dto.ActivityRequest{
		ActionType: "login",
		Details:    json.RawMessage(`{pas du json`),
	})
	require.Error(t, err)
	assert.True(t, apierror.IsKind(err, apierror.KindValidation))
}

func TestFetchPaginates(t *testing.T) {
	repo := newStubActivityRepo()
	svc := NewActivityService(repo)
	ctx := context.Background()
	for i := 0; i < 7; i++ {
		_, err := svc.Log(ctx, testActor(), dto.ActivityRequest{ActionType: "login"})
		require.NoError(t, err)
	}

	page1, err := svc.Fetch(ctx, dto.ActivityRequest{Page: 1, Limit: 3})
	require.NoError(t, err)
	assert.Len(t, page1.Logs, 3)
	assert.Equal(t, int64(7), page1.Total)
	assert.Equal(t, 3, page1.TotalPages)

	page3, err := svc.Fetch(ctx, dto.ActivityRequest{Page: 3, Limit: 3})
	require.NoError(t, err)
	assert.Len(t, page3.Logs, 1)
}

func TestFetchDefaultsPageAndLimit(t *testing.T) {
	svc := NewActivityService(newStubActivityRepo())
	resp, err := svc.Fetch(context.Background(), dto.ActivityRequest{})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Page)
	assert.Equal(t, fetchDefaultLimit, resp.Limit)
}

func TestFetchFiltersByActionType(t *testing.T) {
	repo := newStubActivityRepo()
	svc := NewActivityService(repo)
	ctx := context.Background()
	_, err := svc.Log(ctx, testActor(), dto.ActivityRequest{ActionType: "login"})
	require.NoError(t, err)
	_, err = svc.Log(ctx, testActor(), dto.ActivityRequest{ActionType: "sale_created"})
	require.NoError(t, err)

	resp, err := svc.Fetch(ctx, dto.ActivityRequest{ActionType: "sale_created"})
	require.NoError(t, err)
	require.Len(t, resp.Logs, 1)
	assert.Equal(t, "sale_created", resp.Logs[0].ActionType)
}

func TestExportCSVFrenchLabelsAndQuoting(t *testing.T) {
	repo := newStubActivityRepo()
	svc := NewActivityService(repo)
	ctx := context.Background()
	_, err := svc.Log(ctx, testActor(), dto.ActivityRequest{
		ActionType: "product_updated",
		EntityName: strPtrTest(`Robe "Wax"`),
	})
	require.NoError(t, err)

	resp, err := svc.ExportCSV(ctx, dto.ActivityRequest{})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(resp.CSV, "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Date,Utilisateur,Action,Entité,Détails", lines[0])
	assert.Contains(t, lines[1], `"Produit modifié"`)
	assert.Contains(t, lines[1], `"Robe ""Wax"""`)
}

func TestExportJSON(t *testing.T) {
	repo := newStubActivityRepo()
	svc := NewActivityService(repo)
	ctx := context.Background()
	_, err := svc.Log(ctx, testActor(), dto.ActivityRequest{ActionType: "logout"})
	require.NoError(t, err)

	resp, err := svc.ExportJSON(ctx, dto.ActivityRequest{})
	require.NoError(t, err)
	require.Len(t, resp.Logs, 1)
	assert.Equal(t, "logout", resp.Logs[0].ActionType)
}
