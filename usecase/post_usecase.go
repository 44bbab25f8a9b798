package usecase

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"strings"
	"time"

	"github.com/FawadAli-1/xautomation-backend/domain/apperrors"
	"github.com/FawadAli-1/xautomation-backend/domain/dto"
	"github.com/FawadAli-1/xautomation-backend/domain/model"
	"github.com/FawadAli-1/xautomation-backend/domain/repository"
	"github.com/FawadAli-1/xautomation-backend/infrastructure/logger"
)

type IPostUsecase interface {
	Generate(ctx context.Context, req dto.GeneratePostRequest) (*dto.GeneratePostResponse, error)
	Publish(ctx context.Context, req dto.PublishPostRequest) (*dto.PublishPostResponse, error)
	Schedule(ctx context.Context, req dto.SchedulePostRequest) (*dto.SchedulePostResponse, error)
	ListScheduled(ctx context.Context, limit int) ([]*model.PendingPost, error)
}

type postUsecase struct {
	generator      repository.IGenerator
	cache          repository.IGenerationCache // may be nil
	twitter        repository.ITwitter
	postRepo       repository.IScheduledPost // may be nil when no store is configured
	postsPerDay    int
	maxTweetLength int
}

func NewPostUsecase(
	generator repository.IGenerator,
	cache repository.IGenerationCache,
	twitter repository.ITwitter,
	postRepo repository.IScheduledPost,
	postsPerDay, maxTweetLength int,
) IPostUsecase {
	return &postUsecase{
		generator:      generator,
		cache:          cache,
		twitter:        twitter,
		postRepo:       postRepo,
		postsPerDay:    postsPerDay,
		maxTweetLength: maxTweetLength,
	}
}

func (u *postUsecase) Generate(ctx context.Context, req dto.GeneratePostRequest) (*dto.GeneratePostResponse, error) {
	content, err := u.generateContent(ctx, req.Prompt)
	if err != nil {
		return nil, err
	}

	res := &dto.GeneratePostResponse{
		Content:     content.Content,
		IsThread:    content.IsThread,
		ThreadParts: content.ThreadParts,
	}
	if req.IncludeSchedule {
		slot := NextPostingTime(time.Now(), u.postsPerDay)
		res.NextPostingTime = &slot
	}
	return res, nil
}

func (u *postUsecase) generateContent(ctx context.Context, prompt string) (*model.GeneratedContent, error) {
	if strings.TrimSpace(prompt) == "" {
		return nil, apperrors.NewValidationError("Prompt cannot be empty")
	}

	if u.cache != nil {
		if text, ok := u.cache.Get(ctx, prompt); ok {
			logger.GetLogger().Debug("Generation cache hit")
			return Segment(text, u.maxTweetLength), nil
		}
	}

	raw, err := u.generator.GenerateText(ctx, prompt)
	if err != nil {
		return nil, apperrors.NewUpstreamError("Failed to generate content", err, map[string]interface{}{
			"prompt": prompt,
		})
	}

	text := extractPostText(raw)
	if text == "" {
		return nil, apperrors.NewUpstreamError("No content generated", nil, map[string]interface{}{
			"prompt": prompt,
		})
	}

	if u.cache != nil {
		u.cache.Set(ctx, prompt, text)
	}
	return Segment(text, u.maxTweetLength), nil
}

// extractPostText unwraps model output. Some models answer with a JSON object
// carrying a "post" field despite being asked for plain text; use that field
// when present, the raw text otherwise.
func extractPostText(raw string) string {
	trimmed := strings.TrimSpace(raw)
	var parsed struct {
		Post string `json:"post"`
	}
	if err := json.Unmarshal([]byte(trimmed), &parsed); err == nil && parsed.Post != "" {
		return strings.TrimSpace(parsed.Post)
	}
	return trimmed
}

func (u *postUsecase) Publish(ctx context.Context, req dto.PublishPostRequest) (*dto.PublishPostResponse, error) {
	if err := validatePublishContent(req.Content, req.IsThread, req.ThreadParts); err != nil {
		return nil, err
	}
	media, err := decodeMedia(req.MediaFile)
	if err != nil {
		return nil, err
	}

	post := &model.PendingPost{
		Content:     req.Content,
		IsThread:    req.IsThread,
		ThreadParts: req.ThreadParts,
		Media:       media,
	}
	ids, err := publishPost(ctx, u.twitter, post)
	if err != nil {
		return nil, apperrors.NewUpstreamError("Failed to publish tweet", err, map[string]interface{}{
			"content":  req.Content,
			"isThread": req.IsThread,
		})
	}
	return &dto.PublishPostResponse{TweetIDs: ids}, nil
}

func (u *postUsecase) Schedule(ctx context.Context, req dto.SchedulePostRequest) (*dto.SchedulePostResponse, error) {
	if u.postRepo == nil {
		return nil, apperrors.NewConfigurationError("No scheduled-post store configured")
	}

	content := &model.GeneratedContent{
		Content:     req.Content,
		IsThread:    req.IsThread,
		ThreadParts: req.ThreadParts,
	}
	if strings.TrimSpace(req.Prompt) != "" {
		generated, err := u.generateContent(ctx, req.Prompt)
		if err != nil {
			return nil, err
		}
		content = generated
	} else if err := validatePublishContent(req.Content, req.IsThread, req.ThreadParts); err != nil {
		return nil, err
	}

	media, err := decodeMedia(req.MediaFile)
	if err != nil {
		return nil, err
	}

	scheduledTime := NextPostingTime(time.Now(), u.postsPerDay).Time
	if req.ScheduledTime != nil {
		scheduledTime = *req.ScheduledTime
	}

	post := &model.PendingPost{
		Content:       content.Content,
		IsThread:      content.IsThread,
		ThreadParts:   content.ThreadParts,
		Media:         media,
		Status:        model.PostStatusPending,
		ScheduledTime: scheduledTime.UTC(),
	}
	if err := u.postRepo.Store(ctx, post); err != nil {
		return nil, err
	}

	return &dto.SchedulePostResponse{
		ID:            post.ID,
		Content:       post.Content,
		IsThread:      post.IsThread,
		ThreadParts:   post.ThreadParts,
		Status:        string(post.Status),
		ScheduledTime: post.ScheduledTime,
	}, nil
}

func (u *postUsecase) ListScheduled(ctx context.Context, limit int) ([]*model.PendingPost, error) {
	if u.postRepo == nil {
		return nil, apperrors.NewConfigurationError("No scheduled-post store configured")
	}
	return u.postRepo.FindAll(ctx, limit)
}

func validatePublishContent(content string, isThread bool, threadParts []string) error {
	if content == "" && (!isThread || len(threadParts) == 0) {
		return apperrors.NewValidationError("Content is required for the tweet")
	}
	if isThread && len(threadParts) == 0 {
		return apperrors.NewValidationError("Thread parts are required when posting a thread")
	}
	if !isThread && content == "" {
		return apperrors.NewValidationError("Content is required for single tweets")
	}
	return nil
}

// decodeMedia validates the optional attachment eagerly at the boundary.
// Presence is explicit: either both fields are set and the payload decodes,
// or the request carries no media at all.
func decodeMedia(req *dto.MediaFileRequest) (*model.MediaFile, error) {
	if req == nil || (req.Data == "" && req.MimeType == "") {
		return nil, nil
	}
	if req.Data == "" || req.MimeType == "" {
		return nil, apperrors.NewValidationError("Media file requires both data and mimeType")
	}
	payload := req.Data
	// strip any data-URL prefix ("data:image/png;base64,....")
	if idx := strings.Index(payload, ","); idx != -1 {
		payload = payload[idx+1:]
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, apperrors.NewValidationError("Failed to process media file")
	}
	return &model.MediaFile{Data: data, MimeType: req.MimeType}, nil
}
