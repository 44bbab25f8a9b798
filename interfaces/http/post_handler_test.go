package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/FawadAli-1/xautomation-backend/domain/apperrors"
	"github.com/FawadAli-1/xautomation-backend/domain/dto"
	"github.com/FawadAli-1/xautomation-backend/domain/model"
	handlerhttp "github.com/FawadAli-1/xautomation-backend/interfaces/http"
)

type MockPostUsecase struct {
	mock.Mock
}

func (m *MockPostUsecase) Generate(ctx context.Context, req dto.GeneratePostRequest) (*dto.GeneratePostResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.GeneratePostResponse), args.Error(1)
}

func (m *MockPostUsecase) Publish(ctx context.Context, req dto.PublishPostRequest) (*dto.PublishPostResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.PublishPostResponse), args.Error(1)
}

func (m *MockPostUsecase) Schedule(ctx context.Context, req dto.SchedulePostRequest) (*dto.SchedulePostResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.SchedulePostResponse), args.Error(1)
}

func (m *MockPostUsecase) ListScheduled(ctx context.Context, limit int) ([]*model.PendingPost, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.PendingPost), args.Error(1)
}

type MockSchedulerUsecase struct {
	mock.Mock
}

func (m *MockSchedulerUsecase) PlanPostingTimes(now time.Time) []model.PostingSlot {
	args := m.Called(now)
	return args.Get(0).([]model.PostingSlot)
}

func (m *MockSchedulerUsecase) NextPostingTime(now time.Time) model.PostingSlot {
	args := m.Called(now)
	return args.Get(0).(model.PostingSlot)
}

func (m *MockSchedulerUsecase) ProcessDuePosts(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func setupRouter(postUC *MockPostUsecase, schedUC *MockSchedulerUsecase) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := handlerhttp.NewPostHandler(postUC, schedUC)
	r := gin.New()
	api := r.Group("/api/posts")
	api.POST("/generate", h.GeneratePost)
	api.POST("/publish", h.PublishPost)
	api.POST("/schedule", h.SchedulePost)
	api.GET("/next-slot", h.GetNextSlot)
	api.GET("/scheduled", h.GetScheduledPosts)
	api.POST("/process", h.ProcessJobs)
	return r
}

func doJSON(r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestGeneratePost_OK(t *testing.T) {
	postUC := new(MockPostUsecase)
	postUC.On("Generate", mock.Anything, dto.GeneratePostRequest{Prompt: "topic"}).
		Return(&dto.GeneratePostResponse{Content: "generated text"}, nil).Once()

	r := setupRouter(postUC, new(MockSchedulerUsecase))
	w := doJSON(r, http.MethodPost, "/api/posts/generate", gin.H{"prompt": "topic"})

	require.Equal(t, http.StatusOK, w.Code)
	var body dto.GeneratePostResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "generated text", body.Content)
	postUC.AssertExpectations(t)
}

func TestGeneratePost_ValidationErrorBody(t *testing.T) {
	postUC := new(MockPostUsecase)
	postUC.On("Generate", mock.Anything, mock.Anything).
		Return(nil, apperrors.NewValidationError("Prompt cannot be empty")).Once()

	r := setupRouter(postUC, new(MockSchedulerUsecase))
	w := doJSON(r, http.MethodPost, "/api/posts/generate", gin.H{"prompt": ""})

	require.Equal(t, http.StatusBadRequest, w.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Prompt cannot be empty", body["message"])
	assert.Equal(t, apperrors.CodeValidation, body["code"])
	assert.NotEmpty(t, body["timestamp"])
	_, hasDetails := body["details"]
	assert.False(t, hasDetails)
}

func TestGeneratePost_UpstreamErrorIs502(t *testing.T) {
	postUC := new(MockPostUsecase)
	postUC.On("Generate", mock.Anything, mock.Anything).
		Return(nil, apperrors.NewUpstreamError("Failed to generate content", errors.New("boom"), map[string]interface{}{"prompt": "x"})).Once()

	r := setupRouter(postUC, new(MockSchedulerUsecase))
	w := doJSON(r, http.MethodPost, "/api/posts/generate", gin.H{"prompt": "x"})

	require.Equal(t, http.StatusBadGateway, w.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, apperrors.CodeUpstream, body["code"])
	details, ok := body["details"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "boom", details["originalError"])
}

func TestGeneratePost_MalformedBody(t *testing.T) {
	postUC := new(MockPostUsecase)
	r := setupRouter(postUC, new(MockSchedulerUsecase))

	req := httptest.NewRequest(http.MethodPost, "/api/posts/generate", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	postUC.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything)
}

func TestGeneratePost_UnknownErrorIs500(t *testing.T) {
	postUC := new(MockPostUsecase)
	postUC.On("Generate", mock.Anything, mock.Anything).
		Return(nil, errors.New("something odd")).Once()

	r := setupRouter(postUC, new(MockSchedulerUsecase))
	w := doJSON(r, http.MethodPost, "/api/posts/generate", gin.H{"prompt": "x"})

	require.Equal(t, http.StatusInternalServerError, w.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, apperrors.CodeInternal, body["code"])
}

func TestPublishPost_OK(t *testing.T) {
	postUC := new(MockPostUsecase)
	postUC.On("Publish", mock.Anything, mock.AnythingOfType("dto.PublishPostRequest")).
		Return(&dto.PublishPostResponse{TweetIDs: []string{"id-1"}}, nil).Once()

	r := setupRouter(postUC, new(MockSchedulerUsecase))
	w := doJSON(r, http.MethodPost, "/api/posts/publish", gin.H{"content": "hi"})

	require.Equal(t, http.StatusOK, w.Code)
	var body dto.PublishPostResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, []string{"id-1"}, body.TweetIDs)
}

func TestSchedulePost_Created(t *testing.T) {
	postUC := new(MockPostUsecase)
	postUC.On("Schedule", mock.Anything, mock.AnythingOfType("dto.SchedulePostRequest")).
		Return(&dto.SchedulePostResponse{ID: "5", Status: "pending"}, nil).Once()

	r := setupRouter(postUC, new(MockSchedulerUsecase))
	w := doJSON(r, http.MethodPost, "/api/posts/schedule", gin.H{"content": "later"})

	require.Equal(t, http.StatusCreated, w.Code)
	var body dto.SchedulePostResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "5", body.ID)
	assert.Equal(t, "pending", body.Status)
}

func TestGetScheduledPosts_EmptyListNotNull(t *testing.T) {
	postUC := new(MockPostUsecase)
	postUC.On("ListScheduled", mock.Anything, 50).
		Return([]*model.PendingPost{}, nil).Once()

	r := setupRouter(postUC, new(MockSchedulerUsecase))
	w := doJSON(r, http.MethodGet, "/api/posts/scheduled", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"posts": []}`, w.Body.String())
}

func TestGetScheduledPosts_LimitQueryParam(t *testing.T) {
	postUC := new(MockPostUsecase)
	postUC.On("ListScheduled", mock.Anything, 5).
		Return([]*model.PendingPost{{ID: "1", Content: "a"}}, nil).Once()

	r := setupRouter(postUC, new(MockSchedulerUsecase))
	w := doJSON(r, http.MethodGet, "/api/posts/scheduled?limit=5", nil)

	require.Equal(t, http.StatusOK, w.Code)
	postUC.AssertExpectations(t)
}

func TestGetNextSlot(t *testing.T) {
	schedUC := new(MockSchedulerUsecase)
	slot := model.PostingSlot{Time: time.Date(2026, 9, 1, 15, 0, 0, 0, time.UTC), Index: 3}
	schedUC.On("NextPostingTime", mock.AnythingOfType("time.Time")).Return(slot).Once()

	r := setupRouter(new(MockPostUsecase), schedUC)
	w := doJSON(r, http.MethodGet, "/api/posts/next-slot", nil)

	require.Equal(t, http.StatusOK, w.Code)
	var body model.PostingSlot
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 3, body.Index)
	assert.True(t, slot.Time.Equal(body.Time))
}

func TestProcessJobs(t *testing.T) {
	schedUC := new(MockSchedulerUsecase)
	schedUC.On("ProcessDuePosts", mock.Anything).Return(nil).Once()

	r := setupRouter(new(MockPostUsecase), schedUC)
	w := doJSON(r, http.MethodPost, "/api/posts/process", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"processed": true}`, w.Body.String())
}

func TestProcessJobs_EngineFailure(t *testing.T) {
	schedUC := new(MockSchedulerUsecase)
	schedUC.On("ProcessDuePosts", mock.Anything).
		Return(errors.New("fetch due posts: connection refused")).Once()

	r := setupRouter(new(MockPostUsecase), schedUC)
	w := doJSON(r, http.MethodPost, "/api/posts/process", nil)

	require.Equal(t, http.StatusInternalServerError, w.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, false, body["processed"])
}
