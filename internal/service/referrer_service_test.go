package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/avoronov/linkpulse/internal/database"
	"github.com/avoronov/linkpulse/internal/models"
)

func TestReferrerService_UpdateReferrer(t *testing.T) {
	ctx := context.Background()

	t.Run("foreign referrer hidden", func(t *testing.T) {
		referrerRepo := new(MockReferrerRepository)
		svc := NewReferrerService(referrerRepo)

		referrerRepo.
			On("GetByID", ctx, int64(9)).
			Once().
			Return(&models.Referrer{ID: 9, UserID: 7, Name: "newsletter"}, nil)

		referrer, err := svc.UpdateReferrer(ctx, 42, 9, "campaign")

		require.Error(t, err)
		assert.ErrorIs(t, err, database.ErrReferrerNotFound)
		assert.Nil(t, referrer)
		referrerRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("success", func(t *testing.T) {
		referrerRepo := new(MockReferrerRepository)
		svc := NewReferrerService(referrerRepo)

		referrerRepo.
			On("GetByID", ctx, int64(9)).
			Once().
			Return(&models.Referrer{ID: 9, UserID: 42, Name: "newsletter"}, nil)
		referrerRepo.
			On("Update", ctx, mock.MatchedBy(func(r *models.Referrer) bool {
				return r.ID == 9 && r.Name == "campaign"
			})).
			Once().
			Return(&models.Referrer{ID: 9, UserID: 42, Name: "campaign"}, nil)

		referrer, err := svc.UpdateReferrer(ctx, 42, 9, "campaign")

		require.NoError(t, err)
		assert.Equal(t, "campaign", referrer.Name)
		referrerRepo.AssertExpectations(t)
	})
}

func TestReferrerService_DeleteReferrer(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		referrerRepo := new(MockReferrerRepository)
		svc := NewReferrerService(referrerRepo)

		referrerRepo.
			On("GetByID", ctx, int64(9)).
			Once().
			Return(&models.Referrer{ID: 9, UserID: 42}, nil)
		referrerRepo.On("SoftDelete", ctx, int64(9)).Once().Return(nil)

		require.NoError(t, svc.DeleteReferrer(ctx, 42, 9))
		referrerRepo.AssertExpectations(t)
	})

	t.Run("foreign referrer hidden", func(t *testing.T) {
		referrerRepo := new(MockReferrerRepository)
		svc := NewReferrerService(referrerRepo)

		referrerRepo.
			On("GetByID", ctx, int64(9)).
			Once().
			Return(&models.Referrer{ID: 9, UserID: 7}, nil)

		err := svc.DeleteReferrer(ctx, 42, 9)

		require.Error(t, err)
		assert.ErrorIs(t, err, database.ErrReferrerNotFound)
		referrerRepo.AssertNotCalled(t, "SoftDelete", mock.Anything, mock.Anything)
	})
}
