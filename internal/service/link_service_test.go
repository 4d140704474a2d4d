package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/avoronov/linkpulse/internal/database"
	"github.com/avoronov/linkpulse/internal/models"
)

func ptr[T any](v T) *T {
	return &v
}

func TestLinkService_CreateLink(t *testing.T) {
	ctx := context.Background()

	t.Run("custom alias", func(t *testing.T) {
		linkRepo := new(MockLinkRepository)
		svc := NewLinkService(linkRepo, new(MockReferrerRepository), 7)

		linkRepo.
			On("Create", ctx, mock.MatchedBy(func(l *models.Link) bool {
				return l.Alias == "promo" && l.Status == models.StatusActive && !l.IsUsePassword
			})).
			Once().
			Return(&models.Link{ID: 1, Alias: "promo", OriginalURL: "https://example.com", Status: models.StatusActive, UserID: 42}, nil)

		link, err := svc.CreateLink(ctx, 42, CreateLinkInput{
			OriginalURL: "https://example.com",
			Alias:       ptr("promo"),
		})

		require.NoError(t, err)
		assert.Equal(t, "promo", link.Alias)
		linkRepo.AssertExpectations(t)
	})

	t.Run("custom alias taken", func(t *testing.T) {
		linkRepo := new(MockLinkRepository)
		svc := NewLinkService(linkRepo, new(MockReferrerRepository), 7)

		linkRepo.
			On("Create", ctx, mock.Anything).
			Once().
			Return(nil, database.ErrAliasExists)

		link, err := svc.CreateLink(ctx, 42, CreateLinkInput{
			OriginalURL: "https://example.com",
			Alias:       ptr("promo"),
		})

		require.Error(t, err)
		assert.ErrorIs(t, err, database.ErrAliasExists)
		assert.Nil(t, link)
		linkRepo.AssertExpectations(t)
	})

	t.Run("generated alias retries on collision", func(t *testing.T) {
		linkRepo := new(MockLinkRepository)
		svc := NewLinkService(linkRepo, new(MockReferrerRepository), 7)

		linkRepo.
			On("Create", ctx, mock.Anything).
			Times(5).
			Return(nil, database.ErrAliasExists)

		link, err := svc.CreateLink(ctx, 42, CreateLinkInput{
			OriginalURL: "https://example.com",
		})

		require.Error(t, err)
		assert.ErrorIs(t, err, ErrMaxRetriesExceeded)
		assert.Nil(t, link)
		linkRepo.AssertExpectations(t)
	})

	t.Run("generated alias has configured length", func(t *testing.T) {
		linkRepo := new(MockLinkRepository)
		svc := NewLinkService(linkRepo, new(MockReferrerRepository), 7)

		linkRepo.
			On("Create", ctx, mock.MatchedBy(func(l *models.Link) bool {
				return len(l.Alias) == 7
			})).
			Once().
			Return(&models.Link{ID: 1, Alias: "a1b2c3d", Status: models.StatusActive, UserID: 42}, nil)

		link, err := svc.CreateLink(ctx, 42, CreateLinkInput{
			OriginalURL: "https://example.com",
		})

		require.NoError(t, err)
		assert.NotNil(t, link)
		linkRepo.AssertExpectations(t)
	})

	t.Run("password protects the link", func(t *testing.T) {
		linkRepo := new(MockLinkRepository)
		svc := NewLinkService(linkRepo, new(MockReferrerRepository), 7)

		linkRepo.
			On("Create", ctx, mock.MatchedBy(func(l *models.Link) bool {
				return l.IsUsePassword && l.PasswordHash != nil && checkPassword(*l.PasswordHash, "s3cret")
			})).
			Once().
			Return(&models.Link{ID: 1, IsUsePassword: true, Status: models.StatusActive, UserID: 42}, nil)

		link, err := svc.CreateLink(ctx, 42, CreateLinkInput{
			OriginalURL: "https://example.com",
			Password:    ptr("s3cret"),
		})

		require.NoError(t, err)
		assert.True(t, link.IsUsePassword)
		linkRepo.AssertExpectations(t)
	})

	t.Run("foreign referrer rejected", func(t *testing.T) {
		linkRepo := new(MockLinkRepository)
		referrerRepo := new(MockReferrerRepository)
		svc := NewLinkService(linkRepo, referrerRepo, 7)

		referrerRepo.
			On("GetByID", ctx, int64(9)).
			Once().
			Return(&models.Referrer{ID: 9, UserID: 7}, nil)

		link, err := svc.CreateLink(ctx, 42, CreateLinkInput{
			OriginalURL: "https://example.com",
			ReferrerID:  ptr(int64(9)),
		})

		require.Error(t, err)
		assert.ErrorIs(t, err, database.ErrReferrerNotFound)
		assert.Nil(t, link)
		linkRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestLinkService_GetLink(t *testing.T) {
	ctx := context.Background()

	t.Run("not found", func(t *testing.T) {
		linkRepo := new(MockLinkRepository)
		svc := NewLinkService(linkRepo, new(MockReferrerRepository), 7)

		linkRepo.
			On("GetByID", ctx, int64(1)).
			Once().
			Return(nil, database.ErrLinkNotFound)

		link, err := svc.GetLink(ctx, 42, 1)

		require.Error(t, err)
		assert.ErrorIs(t, err, database.ErrLinkNotFound)
		assert.Nil(t, link)
	})

	t.Run("foreign link forbidden", func(t *testing.T) {
		linkRepo := new(MockLinkRepository)
		svc := NewLinkService(linkRepo, new(MockReferrerRepository), 7)

		linkRepo.
			On("GetByID", ctx, int64(1)).
			Once().
			Return(&models.Link{ID: 1, UserID: 7, Status: models.StatusActive}, nil)

		link, err := svc.GetLink(ctx, 42, 1)

		require.Error(t, err)
		assert.ErrorIs(t, err, ErrPermissionDenied)
		assert.Nil(t, link)
	})

	t.Run("expired status persisted on read", func(t *testing.T) {
		linkRepo := new(MockLinkRepository)
		svc := NewLinkService(linkRepo, new(MockReferrerRepository), 7)

		past := time.Now().Add(-time.Hour)
		linkRepo.
			On("GetByID", ctx, int64(1)).
			Once().
			Return(&models.Link{ID: 1, UserID: 42, Status: models.StatusActive, ExpireAt: &past}, nil)
		linkRepo.
			On("UpdateStatus", ctx, int64(1), models.StatusExpired).
			Once().
			Return(nil)

		link, err := svc.GetLink(ctx, 42, 1)

		require.NoError(t, err)
		assert.Equal(t, models.StatusExpired, link.Status)
		linkRepo.AssertExpectations(t)
	})
}

func TestLinkService_ListLinks(t *testing.T) {
	ctx := context.Background()

	t.Run("invalid filter column", func(t *testing.T) {
		svc := NewLinkService(new(MockLinkRepository), new(MockReferrerRepository), 7)

		page, err := svc.ListLinks(ctx, 42, models.LinkListOptions{
			Filters: []models.ColumnFilter{{Column: "passwordHash", Text: "x"}},
		})

		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidFilter)
		assert.Nil(t, page)
	})

	t.Run("invalid sort order", func(t *testing.T) {
		svc := NewLinkService(new(MockLinkRepository), new(MockReferrerRepository), 7)

		page, err := svc.ListLinks(ctx, 42, models.LinkListOptions{
			Sort: []models.SortRule{{Column: "createdAt", Order: "sideways"}},
		})

		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidSort)
		assert.Nil(t, page)
	})

	t.Run("clamps pagination", func(t *testing.T) {
		linkRepo := new(MockLinkRepository)
		svc := NewLinkService(linkRepo, new(MockReferrerRepository), 7)

		linkRepo.
			On("List", ctx, int64(42), mock.MatchedBy(func(opts models.LinkListOptions) bool {
				return opts.Page == 1 && opts.Limit == 10
			})).
			Once().
			Return(&models.LinkPage{Page: 1, Limit: 10}, nil)

		page, err := svc.ListLinks(ctx, 42, models.LinkListOptions{Page: -3, Limit: 1000})

		require.NoError(t, err)
		assert.NotNil(t, page)
		linkRepo.AssertExpectations(t)
	})

	t.Run("refreshes stale statuses", func(t *testing.T) {
		linkRepo := new(MockLinkRepository)
		svc := NewLinkService(linkRepo, new(MockReferrerRepository), 7)

		stale := &models.Link{ID: 2, UserID: 42, Status: models.StatusActive, MaxClicks: ptr(int64(5)), ClicksCount: 5}
		linkRepo.
			On("List", ctx, int64(42), mock.Anything).
			Once().
			Return(&models.LinkPage{Links: []*models.Link{stale}, Total: 1, Page: 1, Limit: 10}, nil)
		linkRepo.
			On("UpdateStatus", ctx, int64(2), models.StatusLimitReached).
			Once().
			Return(nil)

		page, err := svc.ListLinks(ctx, 42, models.LinkListOptions{Page: 1, Limit: 10})

		require.NoError(t, err)
		assert.Equal(t, models.StatusLimitReached, page.Links[0].Status)
		linkRepo.AssertExpectations(t)
	})
}

func TestLinkService_UpdateLink(t *testing.T) {
	ctx := context.Background()

	t.Run("empty password clears protection", func(t *testing.T) {
		linkRepo := new(MockLinkRepository)
		svc := NewLinkService(linkRepo, new(MockReferrerRepository), 7)

		hash := "$2a$10$stored"
		linkRepo.
			On("GetByID", ctx, int64(1)).
			Once().
			Return(&models.Link{ID: 1, UserID: 42, Status: models.StatusActive, PasswordHash: &hash, IsUsePassword: true}, nil)
		linkRepo.
			On("Update", ctx, mock.MatchedBy(func(l *models.Link) bool {
				return l.PasswordHash == nil && !l.IsUsePassword
			})).
			Once().
			Return(&models.Link{ID: 1, UserID: 42, Status: models.StatusActive}, nil)

		link, err := svc.UpdateLink(ctx, 42, 1, UpdateLinkInput{Password: ptr("")})

		require.NoError(t, err)
		assert.False(t, link.IsUsePassword)
		linkRepo.AssertExpectations(t)
	})

	t.Run("foreign link forbidden", func(t *testing.T) {
		linkRepo := new(MockLinkRepository)
		svc := NewLinkService(linkRepo, new(MockReferrerRepository), 7)

		linkRepo.
			On("GetByID", ctx, int64(1)).
			Once().
			Return(&models.Link{ID: 1, UserID: 7}, nil)

		link, err := svc.UpdateLink(ctx, 42, 1, UpdateLinkInput{OriginalURL: ptr("https://new.example.com")})

		require.Error(t, err)
		assert.ErrorIs(t, err, ErrPermissionDenied)
		assert.Nil(t, link)
		linkRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})
}

func TestLinkService_ToggleActive(t *testing.T) {
	ctx := context.Background()

	t.Run("active to disabled", func(t *testing.T) {
		linkRepo := new(MockLinkRepository)
		svc := NewLinkService(linkRepo, new(MockReferrerRepository), 7)

		linkRepo.
			On("GetByID", ctx, int64(1)).
			Once().
			Return(&models.Link{ID: 1, UserID: 42, Status: models.StatusActive}, nil)
		linkRepo.
			On("UpdateStatus", ctx, int64(1), models.StatusDisabled).
			Once().
			Return(nil)

		link, err := svc.ToggleActive(ctx, 42, 1)

		require.NoError(t, err)
		assert.Equal(t, models.StatusDisabled, link.Status)
		linkRepo.AssertExpectations(t)
	})

	t.Run("disabled to active", func(t *testing.T) {
		linkRepo := new(MockLinkRepository)
		svc := NewLinkService(linkRepo, new(MockReferrerRepository), 7)

		linkRepo.
			On("GetByID", ctx, int64(1)).
			Once().
			Return(&models.Link{ID: 1, UserID: 42, Status: models.StatusDisabled}, nil)
		linkRepo.
			On("UpdateStatus", ctx, int64(1), models.StatusActive).
			Once().
			Return(nil)

		link, err := svc.ToggleActive(ctx, 42, 1)

		require.NoError(t, err)
		assert.Equal(t, models.StatusActive, link.Status)
		linkRepo.AssertExpectations(t)
	})

	t.Run("expired link not toggleable", func(t *testing.T) {
		linkRepo := new(MockLinkRepository)
		svc := NewLinkService(linkRepo, new(MockReferrerRepository), 7)

		linkRepo.
			On("GetByID", ctx, int64(1)).
			Once().
			Return(&models.Link{ID: 1, UserID: 42, Status: models.StatusExpired}, nil)

		link, err := svc.ToggleActive(ctx, 42, 1)

		require.Error(t, err)
		assert.ErrorIs(t, err, ErrStatusNotToggleable)
		assert.Nil(t, link)
		linkRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("limit reached during refresh blocks toggle", func(t *testing.T) {
		linkRepo := new(MockLinkRepository)
		svc := NewLinkService(linkRepo, new(MockReferrerRepository), 7)

		linkRepo.
			On("GetByID", ctx, int64(1)).
			Once().
			Return(&models.Link{ID: 1, UserID: 42, Status: models.StatusActive, MaxClicks: ptr(int64(3)), ClicksCount: 3}, nil)
		linkRepo.
			On("UpdateStatus", ctx, int64(1), models.StatusLimitReached).
			Once().
			Return(nil)

		link, err := svc.ToggleActive(ctx, 42, 1)

		require.Error(t, err)
		assert.ErrorIs(t, err, ErrStatusNotToggleable)
		assert.Nil(t, link)
		linkRepo.AssertExpectations(t)
	})
}

func TestLinkService_DeleteLink(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		linkRepo := new(MockLinkRepository)
		svc := NewLinkService(linkRepo, new(MockReferrerRepository), 7)

		linkRepo.
			On("GetByID", ctx, int64(1)).
			Once().
			Return(&models.Link{ID: 1, UserID: 42, Status: models.StatusActive}, nil)
		linkRepo.
			On("SoftDelete", ctx, int64(1)).
			Once().
			Return(nil)

		err := svc.DeleteLink(ctx, 42, 1)

		require.NoError(t, err)
		linkRepo.AssertExpectations(t)
	})

	t.Run("foreign link forbidden", func(t *testing.T) {
		linkRepo := new(MockLinkRepository)
		svc := NewLinkService(linkRepo, new(MockReferrerRepository), 7)

		linkRepo.
			On("GetByID", ctx, int64(1)).
			Once().
			Return(&models.Link{ID: 1, UserID: 7}, nil)

		err := svc.DeleteLink(ctx, 42, 1)

		require.Error(t, err)
		assert.ErrorIs(t, err, ErrPermissionDenied)
		linkRepo.AssertNotCalled(t, "SoftDelete", mock.Anything, mock.Anything)
	})
}
