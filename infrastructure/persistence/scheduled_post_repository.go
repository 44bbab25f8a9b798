package persistence

import (
	"context"
	"database/sql"
	"strconv"
	"time"

	"github.com/FawadAli-1/xautomation-backend/domain/model"

	"github.com/lib/pq"
)

// ScheduledPostRepository implements scheduled-post persistence on PostgreSQL.
type ScheduledPostRepository struct {
	db *sql.DB
}

func NewScheduledPostRepository(db *sql.DB) *ScheduledPostRepository {
	return &ScheduledPostRepository{db: db}
}

func (r *ScheduledPostRepository) Store(ctx context.Context, post *model.PendingPost) error {
	now := time.Now().UTC()
	if post.CreatedAt.IsZero() {
		post.CreatedAt = now
	}
	post.UpdatedAt = now
	if post.Status == "" {
		post.Status = model.PostStatusPending
	}

	var mediaData []byte
	var mediaMime sql.NullString
	if post.Media != nil {
		mediaData = post.Media.Data
		mediaMime = sql.NullString{String: post.Media.MimeType, Valid: true}
	}

	q := `INSERT INTO scheduled_posts (content, is_thread, thread_parts, media, media_mime, status, scheduled_time, posted_ids, created_at, updated_at)
	      VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	      RETURNING id`
	var id int64
	err := r.db.QueryRowContext(ctx, q,
		post.Content,
		post.IsThread,
		pq.Array(post.ThreadParts),
		mediaData,
		mediaMime,
		string(post.Status),
		post.ScheduledTime,
		pq.Array(post.PostedIDs),
		post.CreatedAt,
		post.UpdatedAt,
	).Scan(&id)
	if err != nil {
		return err
	}
	post.ID = strconv.FormatInt(id, 10)
	return nil
}

const selectColumns = `id, content, is_thread, thread_parts, media, media_mime, status, scheduled_time, posted_ids, created_at, updated_at`

func (r *ScheduledPostRepository) FindDuePending(ctx context.Context, now time.Time, limit int) ([]*model.PendingPost, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+selectColumns+` FROM scheduled_posts WHERE status=$1 AND scheduled_time <= $2 ORDER BY scheduled_time ASC LIMIT $3`,
		string(model.PostStatusPending), now, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPosts(rows)
}

func (r *ScheduledPostRepository) FindAll(ctx context.Context, limit int) ([]*model.PendingPost, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+selectColumns+` FROM scheduled_posts ORDER BY scheduled_time ASC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPosts(rows)
}

func (r *ScheduledPostRepository) MarkPosted(ctx context.Context, id string, postedIDs []string) error {
	numericID, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx,
		`UPDATE scheduled_posts SET status=$1, posted_ids=$2, updated_at=$3 WHERE id=$4`,
		string(model.PostStatusPosted), pq.Array(postedIDs), time.Now().UTC(), numericID)
	return err
}

func scanPosts(rows *sql.Rows) ([]*model.PendingPost, error) {
	var posts []*model.PendingPost
	for rows.Next() {
		post := &model.PendingPost{}
		var (
			id         int64
			parts      pq.StringArray
			postedIDs  pq.StringArray
			mediaData  []byte
			mediaMime  sql.NullString
			statusText string
		)
		if err := rows.Scan(&id, &post.Content, &post.IsThread, &parts, &mediaData, &mediaMime, &statusText, &post.ScheduledTime, &postedIDs, &post.CreatedAt, &post.UpdatedAt); err != nil {
			return nil, err
		}
		post.ID = strconv.FormatInt(id, 10)
		post.ThreadParts = []string(parts)
		post.PostedIDs = []string(postedIDs)
		post.Status = model.PostStatus(statusText)
		if len(mediaData) > 0 && mediaMime.Valid {
			post.Media = &model.MediaFile{Data: mediaData, MimeType: mediaMime.String}
		}
		posts = append(posts, post)
	}
	return posts, rows.Err()
}
