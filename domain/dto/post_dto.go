package dto

import (
	"time"

	"github.com/FawadAli-1/xautomation-backend/domain/model"
)

// GeneratePostRequest is the body of POST /api/posts/generate.
type GeneratePostRequest struct {
	Prompt          string `json:"prompt"`
	IncludeSchedule bool   `json:"includeSchedule"`
}

// GeneratePostResponse mirrors the generated content plus, when requested,
// the next available posting slot.
type GeneratePostResponse struct {
	Content         string             `json:"content"`
	IsThread        bool               `json:"isThread"`
	ThreadParts     []string           `json:"threadParts,omitempty"`
	NextPostingTime *model.PostingSlot `json:"nextPostingTime,omitempty"`
}

// MediaFileRequest is an optional base64-encoded attachment. Both fields must
// be present together; data may carry a data-URL prefix which is stripped.
type MediaFileRequest struct {
	Data     string `json:"data,omitempty"`
	MimeType string `json:"mimeType,omitempty"`
}

// PublishPostRequest is the body of POST /api/posts/publish.
type PublishPostRequest struct {
	Content     string            `json:"content"`
	IsThread    bool              `json:"isThread"`
	ThreadParts []string          `json:"threadParts,omitempty"`
	MediaFile   *MediaFileRequest `json:"mediaFile,omitempty"`
}

// PublishPostResponse returns the backend ids in posting order.
type PublishPostResponse struct {
	TweetIDs []string `json:"tweetIds"`
}

// SchedulePostRequest schedules content for later publication. When Prompt is
// set the content is generated first; otherwise Content/ThreadParts are used
// as-is. ScheduledTime defaults to the next planned slot.
type SchedulePostRequest struct {
	Prompt        string            `json:"prompt,omitempty"`
	Content       string            `json:"content,omitempty"`
	IsThread      bool              `json:"isThread"`
	ThreadParts   []string          `json:"threadParts,omitempty"`
	MediaFile     *MediaFileRequest `json:"mediaFile,omitempty"`
	ScheduledTime *time.Time        `json:"scheduledTime,omitempty"`
}

// SchedulePostResponse summarizes the stored pending post.
type SchedulePostResponse struct {
	ID            string    `json:"id"`
	Content       string    `json:"content"`
	IsThread      bool      `json:"isThread"`
	ThreadParts   []string  `json:"threadParts,omitempty"`
	Status        string    `json:"status"`
	ScheduledTime time.Time `json:"scheduledTime"`
}
