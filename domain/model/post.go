package model

import "time"

// PostStatus tracks the lifecycle of a scheduled post.
// Transitions: pending -> posted (terminal). A failed publish attempt leaves
// the post pending so the next scheduler tick retries it.
type PostStatus string

const (
	PostStatusPending PostStatus = "pending"
	PostStatusPosted  PostStatus = "posted"
)

// GeneratedContent is the result of generating and segmenting a post.
// Segments always holds at least one element; IsThread is true iff the text
// had to be split across multiple tweets.
type GeneratedContent struct {
	Content     string   `json:"content"`
	IsThread    bool     `json:"isThread"`
	ThreadParts []string `json:"threadParts,omitempty"`
}

// Segments returns the ordered tweet texts to publish. For a single post this
// is just the content; for a thread it is the thread parts in posting order.
func (g *GeneratedContent) Segments() []string {
	if g.IsThread {
		return g.ThreadParts
	}
	return []string{g.Content}
}

// MediaFile is an explicitly-present media attachment. A nil *MediaFile means
// no media; a non-nil value always carries decoded bytes and a MIME type.
type MediaFile struct {
	Data     []byte `json:"-"`
	MimeType string `json:"mimeType"`
}

// PendingPost is a unit of scheduled work awaiting publication.
type PendingPost struct {
	ID            string     `json:"id"`
	Content       string     `json:"content"`
	IsThread      bool       `json:"isThread"`
	ThreadParts   []string   `json:"threadParts,omitempty"`
	Media         *MediaFile `json:"media,omitempty"`
	Status        PostStatus `json:"status"`
	ScheduledTime time.Time  `json:"scheduledTime"`
	PostedIDs     []string   `json:"postedIds,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// PostingSlot is a computed future publication time. Index is 1-based within
// the day's plan.
type PostingSlot struct {
	Time  time.Time `json:"time"`
	Index int       `json:"index"`
}
