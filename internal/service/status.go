package service

import (
	"context"
	"fmt"
	"time"

	"github.com/avoronov/linkpulse/internal/models"
)

// refreshLinkStatus derives the effective status and, when it differs from
// the persisted one, writes it back immediately. Every read path that exposes
// a status (get, list, redirect) goes through here so no endpoint ever serves
// a stale ACTIVE.
func refreshLinkStatus(ctx context.Context, repo LinkRepository, link *models.Link) error {
	const op = "service.refreshLinkStatus"

	effective := link.EffectiveStatus(time.Now())
	if effective == link.Status {
		return nil
	}

	if err := repo.UpdateStatus(ctx, link.ID, effective); err != nil {
		return fmt.Errorf("%s: failed to persist derived status: %w", op, err)
	}
	link.Status = effective

	return nil
}
