package persistence

import (
	"context"
	"time"

	"github.com/FawadAli-1/xautomation-backend/domain/model"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const scheduledPostsCollection = "scheduled_posts"

// ScheduledPostRepositoryMongo mirrors the PostgreSQL scheduled-post store on
// MongoDB, for deployments that already run Mongo.
type ScheduledPostRepositoryMongo struct {
	collection *mongo.Collection
}

func NewScheduledPostRepositoryMongo(db *mongo.Database) *ScheduledPostRepositoryMongo {
	return &ScheduledPostRepositoryMongo{collection: db.Collection(scheduledPostsCollection)}
}

type scheduledPostDoc struct {
	ID            bson.ObjectID `bson:"_id"`
	Content       string        `bson:"content"`
	IsThread      bool          `bson:"is_thread"`
	ThreadParts   []string      `bson:"thread_parts,omitempty"`
	MediaData     []byte        `bson:"media_data,omitempty"`
	MediaMime     string        `bson:"media_mime,omitempty"`
	Status        string        `bson:"status"`
	ScheduledTime time.Time     `bson:"scheduled_time"`
	PostedIDs     []string      `bson:"posted_ids,omitempty"`
	CreatedAt     time.Time     `bson:"created_at"`
	UpdatedAt     time.Time     `bson:"updated_at"`
}

func (d *scheduledPostDoc) toModel() *model.PendingPost {
	post := &model.PendingPost{
		ID:            d.ID.Hex(),
		Content:       d.Content,
		IsThread:      d.IsThread,
		ThreadParts:   d.ThreadParts,
		Status:        model.PostStatus(d.Status),
		ScheduledTime: d.ScheduledTime,
		PostedIDs:     d.PostedIDs,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
	if len(d.MediaData) > 0 && d.MediaMime != "" {
		post.Media = &model.MediaFile{Data: d.MediaData, MimeType: d.MediaMime}
	}
	return post
}

func (r *ScheduledPostRepositoryMongo) Store(ctx context.Context, post *model.PendingPost) error {
	now := time.Now().UTC()
	if post.CreatedAt.IsZero() {
		post.CreatedAt = now
	}
	post.UpdatedAt = now
	if post.Status == "" {
		post.Status = model.PostStatusPending
	}

	doc := scheduledPostDoc{
		ID:            bson.NewObjectID(),
		Content:       post.Content,
		IsThread:      post.IsThread,
		ThreadParts:   post.ThreadParts,
		Status:        string(post.Status),
		ScheduledTime: post.ScheduledTime,
		PostedIDs:     post.PostedIDs,
		CreatedAt:     post.CreatedAt,
		UpdatedAt:     post.UpdatedAt,
	}
	if post.Media != nil {
		doc.MediaData = post.Media.Data
		doc.MediaMime = post.Media.MimeType
	}

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return err
	}
	post.ID = doc.ID.Hex()
	return nil
}

func (r *ScheduledPostRepositoryMongo) FindDuePending(ctx context.Context, now time.Time, limit int) ([]*model.PendingPost, error) {
	filter := bson.M{
		"status":         string(model.PostStatusPending),
		"scheduled_time": bson.M{"$lte": now},
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "scheduled_time", Value: 1}}).
		SetLimit(int64(limit))
	return r.find(ctx, filter, opts)
}

func (r *ScheduledPostRepositoryMongo) FindAll(ctx context.Context, limit int) ([]*model.PendingPost, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "scheduled_time", Value: 1}}).
		SetLimit(int64(limit))
	return r.find(ctx, bson.M{}, opts)
}

func (r *ScheduledPostRepositoryMongo) find(ctx context.Context, filter bson.M, opts *options.FindOptionsBuilder) ([]*model.PendingPost, error) {
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var posts []*model.PendingPost
	for cursor.Next(ctx) {
		var doc scheduledPostDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		posts = append(posts, doc.toModel())
	}
	return posts, cursor.Err()
}

func (r *ScheduledPostRepositoryMongo) MarkPosted(ctx context.Context, id string, postedIDs []string) error {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return err
	}
	update := bson.M{"$set": bson.M{
		"status":     string(model.PostStatusPosted),
		"posted_ids": postedIDs,
		"updated_at": time.Now().UTC(),
	}}
	_, err = r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	return err
}
