package twitter

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/FawadAli-1/xautomation-backend/domain/repository"
	"github.com/FawadAli-1/xautomation-backend/infrastructure/logger"

	"github.com/dghubble/oauth1"
)

const (
	tweetURL       = "https://api.twitter.com/2/tweets"
	mediaUploadURL = "https://upload.twitter.com/1.1/media/upload.json"
	maxMediaItems  = 4
)

// Config holds the four OAuth 1.0a user-context credentials.
type Config struct {
	AppKey       string
	AppSecret    string
	AccessToken  string
	AccessSecret string
}

// Client posts tweets through the v2 API and uploads media through v1.1,
// both signed with OAuth 1.0a user context.
type Client struct {
	httpClient *http.Client
}

// NewTwitterClient builds a signing HTTP client. The client is constructed
// once at startup and injected into whatever needs to publish.
func NewTwitterClient(config Config) (repository.ITwitter, error) {
	if config.AppKey == "" || config.AppSecret == "" || config.AccessToken == "" || config.AccessSecret == "" {
		return nil, fmt.Errorf("twitter credentials incomplete")
	}

	oauthConfig := oauth1.NewConfig(config.AppKey, config.AppSecret)
	token := oauth1.NewToken(config.AccessToken, config.AccessSecret)
	httpClient := oauthConfig.Client(oauth1.NoContext, token)
	httpClient.Timeout = 60 * time.Second

	return &Client{httpClient: httpClient}, nil
}

type tweetRequest struct {
	Text  string      `json:"text"`
	Reply *tweetReply `json:"reply,omitempty"`
	Media *tweetMedia `json:"media,omitempty"`
}

type tweetReply struct {
	InReplyToTweetID string `json:"in_reply_to_tweet_id"`
}

type tweetMedia struct {
	MediaIDs []string `json:"media_ids"`
}

type tweetResponse struct {
	Data struct {
		ID   string `json:"id"`
		Text string `json:"text"`
	} `json:"data"`
}

func (c *Client) PostTweet(ctx context.Context, content string) (string, error) {
	logger.GetLogger().WithField("content_length", len(content)).Debug("Posting tweet")
	return c.createTweet(ctx, tweetRequest{Text: content})
}

func (c *Client) PostThread(ctx context.Context, tweets []string) ([]string, error) {
	logger.GetLogger().WithField("tweet_count", len(tweets)).Debug("Posting thread")

	tweetIDs := make([]string, 0, len(tweets))
	replyToID := ""
	for _, content := range tweets {
		req := tweetRequest{Text: content}
		if replyToID != "" {
			req.Reply = &tweetReply{InReplyToTweetID: replyToID}
		}
		id, err := c.createTweet(ctx, req)
		if err != nil {
			return nil, fmt.Errorf("post thread (after %d of %d tweets): %w", len(tweetIDs), len(tweets), err)
		}
		tweetIDs = append(tweetIDs, id)
		replyToID = id
	}
	return tweetIDs, nil
}

func (c *Client) PostWithMedia(ctx context.Context, content string, mediaIDs []string) (string, error) {
	if len(mediaIDs) > maxMediaItems {
		mediaIDs = mediaIDs[:maxMediaItems]
	}
	logger.GetLogger().WithField("media_ids", mediaIDs).Debug("Posting tweet with media")
	return c.createTweet(ctx, tweetRequest{Text: content, Media: &tweetMedia{MediaIDs: mediaIDs}})
}

func (c *Client) createTweet(ctx context.Context, payload tweetRequest) (string, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tweetURL, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("tweet request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("tweet failed with status %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	var parsed tweetResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("decode tweet response: %w", err)
	}
	if parsed.Data.ID == "" {
		return "", fmt.Errorf("tweet response missing id: %s", strings.TrimSpace(string(respBody)))
	}
	return parsed.Data.ID, nil
}

type mediaUploadResponse struct {
	MediaIDString string `json:"media_id_string"`
}

// UploadMedia pushes the payload through the v1.1 simple upload endpoint and
// returns the media id to attach to a tweet.
func (c *Client) UploadMedia(ctx context.Context, data []byte, mimeType string) (string, error) {
	logger.GetLogger().WithField("mime_type", mimeType).WithField("bytes", len(data)).Debug("Uploading media")

	form := url.Values{}
	form.Set("media_data", base64.StdEncoding.EncodeToString(data))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, mediaUploadURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("media upload request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("media upload failed with status %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	var parsed mediaUploadResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("decode media upload response: %w", err)
	}
	if parsed.MediaIDString == "" {
		return "", fmt.Errorf("media upload response missing media id")
	}
	return parsed.MediaIDString, nil
}
