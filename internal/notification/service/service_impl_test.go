package service

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/lifedrop/lifedrop/internal/notification/domain"
	"github.com/lifedrop/lifedrop/internal/notification/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupService(t *testing.T, name string) domain.Service {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:"+name+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Notification{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	return New(Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  repository.Provide(),
	})
}

func TestCreateValidation(t *testing.T) {
	svc := setupService(t, "notif_create_validation")
	ctx := context.Background()

	_, err := svc.Create(ctx, domain.CreateRequest{Type: domain.TypeBloodRequest, Message: "hello"})
	assert.ErrorIs(t, err, domain.ErrMissingUser)

	_, err = svc.Create(ctx, domain.CreateRequest{UserID: "user-1", Type: domain.TypeBloodRequest})
	assert.ErrorIs(t, err, domain.ErrMissingFields)
}

func TestCreateDefaultsToUnread(t *testing.T) {
	svc := setupService(t, "notif_create_unread")

	notification, err := svc.Create(context.Background(), domain.CreateRequest{
		UserID:  "user-1",
		Type:    domain.TypeBloodRequest,
		Message: "New blood request created for patient Ravi",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusUnread, notification.Status)
}

func TestMarkRead(t *testing.T) {
	svc := setupService(t, "notif_mark_read")
	ctx := context.Background()

	notification, err := svc.Create(ctx, domain.CreateRequest{
		UserID:  "user-1",
		Type:    domain.TypeIssuance,
		Message: "2 unit(s) of O+ issued",
	})
	require.NoError(t, err)

	require.NoError(t, svc.MarkRead(ctx, notification.ID.String()))

	mine, err := svc.ListByUser(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, domain.StatusRead, mine[0].Status)

	err = svc.MarkRead(ctx, "123456789")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListByUserFilters(t *testing.T) {
	svc := setupService(t, "notif_list_by_user")
	ctx := context.Background()

	_, err := svc.Create(ctx, domain.CreateRequest{UserID: "user-1", Type: domain.TypeBloodRequest, Message: "a"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, domain.CreateRequest{UserID: "user-2", Type: domain.TypeBloodRequest, Message: "b"})
	require.NoError(t, err)

	mine, err := svc.ListByUser(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "user-1", mine[0].UserID)

	all, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestDelete(t *testing.T) {
	svc := setupService(t, "notif_delete")
	ctx := context.Background()

	notification, err := svc.Create(ctx, domain.CreateRequest{UserID: "user-1", Type: domain.TypeBloodRequest, Message: "a"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, notification.ID.String()))
	err = svc.Delete(ctx, notification.ID.String())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
