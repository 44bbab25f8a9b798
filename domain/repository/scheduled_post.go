package repository

import (
	"context"
	"time"

	"github.com/FawadAli-1/xautomation-backend/domain/model"
)

// IScheduledPost persists scheduled posts. The scheduler never deletes posts;
// archival is left to whoever owns the store.
type IScheduledPost interface {
	Store(ctx context.Context, post *model.PendingPost) error
	FindDuePending(ctx context.Context, now time.Time, limit int) ([]*model.PendingPost, error)
	FindAll(ctx context.Context, limit int) ([]*model.PendingPost, error)
	MarkPosted(ctx context.Context, id string, postedIDs []string) error
}
