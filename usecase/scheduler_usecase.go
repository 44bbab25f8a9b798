package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/FawadAli-1/xautomation-backend/domain/model"
	"github.com/FawadAli-1/xautomation-backend/domain/repository"
	"github.com/FawadAli-1/xautomation-backend/infrastructure/logger"
)

// PlanPostingTimes computes postsPerDay slots evenly spread over 24 hours
// starting at now, minutes and seconds zeroed. Slot indexes are 1-based.
// Hour truncation yields at most 24 distinct times, so postsPerDay above 24
// produces duplicate slots; configuration clamps the value accordingly.
func PlanPostingTimes(now time.Time, postsPerDay int) []model.PostingSlot {
	intervalHours := 24.0 / float64(postsPerDay)

	slots := make([]model.PostingSlot, 0, postsPerDay)
	for i := 0; i < postsPerDay; i++ {
		t := now.Add(time.Duration(float64(i) * intervalHours * float64(time.Hour)))
		t = time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), 0, 0, 0, t.Location())
		slots = append(slots, model.PostingSlot{Time: t, Index: i + 1})
	}
	return slots
}

// NextPostingTime returns the first planned slot strictly after now. When the
// hour truncation pushes every slot into the past it wraps around to the
// first slot of the plan, so a usable slot always comes back.
func NextPostingTime(now time.Time, postsPerDay int) model.PostingSlot {
	slots := PlanPostingTimes(now, postsPerDay)
	for _, slot := range slots {
		if slot.Time.After(now) {
			return slot
		}
	}
	return slots[0]
}

type ISchedulerUsecase interface {
	PlanPostingTimes(now time.Time) []model.PostingSlot
	NextPostingTime(now time.Time) model.PostingSlot
	ProcessDuePosts(ctx context.Context) error
}

type schedulerUsecase struct {
	postRepo       repository.IScheduledPost
	twitter        repository.ITwitter
	postsPerDay    int
	batchSize      int
	publishTimeout time.Duration

	// serializes ticks: the periodic timer and the manual trigger endpoint
	// share this engine, and overlapping ticks could double-publish.
	mu sync.Mutex
}

func NewSchedulerUsecase(postRepo repository.IScheduledPost, twitter repository.ITwitter, postsPerDay, batchSize int, publishTimeout time.Duration) ISchedulerUsecase {
	return &schedulerUsecase{
		postRepo:       postRepo,
		twitter:        twitter,
		postsPerDay:    postsPerDay,
		batchSize:      batchSize,
		publishTimeout: publishTimeout,
	}
}

func (u *schedulerUsecase) PlanPostingTimes(now time.Time) []model.PostingSlot {
	return PlanPostingTimes(now, u.postsPerDay)
}

func (u *schedulerUsecase) NextPostingTime(now time.Time) model.PostingSlot {
	return NextPostingTime(now, u.postsPerDay)
}

// ProcessDuePosts runs one scheduler tick: fetch pending posts whose slot has
// passed and publish each one independently. A post that fails to publish
// stays pending and is retried on the next tick; one post's failure never
// blocks the rest of the batch.
func (u *schedulerUsecase) ProcessDuePosts(ctx context.Context) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.postRepo == nil {
		return fmt.Errorf("no scheduled-post store configured")
	}

	lg := logger.GetLogger()
	due, err := u.postRepo.FindDuePending(ctx, time.Now().UTC(), u.batchSize)
	if err != nil {
		return fmt.Errorf("fetch due posts: %w", err)
	}
	if len(due) == 0 {
		return nil
	}
	lg.WithField("count", len(due)).Info("Found scheduled posts to publish")

	for _, post := range due {
		ids, err := u.publishOne(ctx, post)
		if err != nil {
			lg.WithField("post_id", post.ID).WithField("error", err.Error()).Warn("Failed to publish scheduled post; leaving pending for retry")
			continue
		}
		if err := u.postRepo.MarkPosted(ctx, post.ID, ids); err != nil {
			lg.WithField("post_id", post.ID).WithField("error", err.Error()).Error("Post published but could not be marked as posted")
			continue
		}
		lg.WithField("post_id", post.ID).WithField("tweet_ids", ids).Info("Scheduled post published")
	}
	return nil
}

// publishOne runs the publish sequence for a single post under the per-item
// timeout, so one hanging backend call cannot stall unrelated work for long.
func (u *schedulerUsecase) publishOne(ctx context.Context, post *model.PendingPost) ([]string, error) {
	pubCtx, cancel := context.WithTimeout(ctx, u.publishTimeout)
	defer cancel()
	return publishPost(pubCtx, u.twitter, post)
}
