package repository

import "context"

// ITwitter is the publication boundary against the posting backend.
//
// PostThread publishes each text as a reply to the previous one and returns
// the ids in posting order. The chain is all-or-nothing from the caller's
// perspective: on error an indeterminate prefix of the thread may already be
// live; callers must treat the whole thread as unpublished and retry.
type ITwitter interface {
	PostTweet(ctx context.Context, content string) (string, error)
	PostThread(ctx context.Context, tweets []string) ([]string, error)
	PostWithMedia(ctx context.Context, content string, mediaIDs []string) (string, error)
	UploadMedia(ctx context.Context, data []byte, mimeType string) (string, error)
}
