package usecase

import (
	"context"

	"github.com/FawadAli-1/xautomation-backend/domain/model"
	"github.com/FawadAli-1/xautomation-backend/domain/repository"
)

// publishPost pushes a post to the publication backend, uploading media first
// when present. Threads with media publish the first part through the
// media-aware call and the remaining parts as a reply chain. Returned ids are
// in posting order.
func publishPost(ctx context.Context, twitter repository.ITwitter, post *model.PendingPost) ([]string, error) {
	var mediaID string
	if post.Media != nil {
		id, err := twitter.UploadMedia(ctx, post.Media.Data, post.Media.MimeType)
		if err != nil {
			return nil, err
		}
		mediaID = id
	}

	isThread := post.IsThread && len(post.ThreadParts) > 0
	switch {
	case isThread && mediaID != "":
		first, err := twitter.PostWithMedia(ctx, post.ThreadParts[0], []string{mediaID})
		if err != nil {
			return nil, err
		}
		if len(post.ThreadParts) == 1 {
			return []string{first}, nil
		}
		rest, err := twitter.PostThread(ctx, post.ThreadParts[1:])
		if err != nil {
			return nil, err
		}
		return append([]string{first}, rest...), nil
	case isThread:
		return twitter.PostThread(ctx, post.ThreadParts)
	case mediaID != "":
		id, err := twitter.PostWithMedia(ctx, post.Content, []string{mediaID})
		if err != nil {
			return nil, err
		}
		return []string{id}, nil
	default:
		id, err := twitter.PostTweet(ctx, post.Content)
		if err != nil {
			return nil, err
		}
		return []string{id}, nil
	}
}
