package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/FawadAli-1/xautomation-backend/domain/apperrors"
	"github.com/FawadAli-1/xautomation-backend/domain/dto"
	"github.com/FawadAli-1/xautomation-backend/domain/model"
	"github.com/FawadAli-1/xautomation-backend/infrastructure/logger"
	"github.com/FawadAli-1/xautomation-backend/usecase"

	"github.com/gin-gonic/gin"
)

type IPostHandler interface {
	GeneratePost(ctx *gin.Context)
	PublishPost(ctx *gin.Context)
	SchedulePost(ctx *gin.Context)
	GetScheduledPosts(ctx *gin.Context)
	GetNextSlot(ctx *gin.Context)
	ProcessJobs(ctx *gin.Context)
}

type PostHandler struct {
	postUsecase      usecase.IPostUsecase
	schedulerUsecase usecase.ISchedulerUsecase
}

func NewPostHandler(postUsecase usecase.IPostUsecase, schedulerUsecase usecase.ISchedulerUsecase) IPostHandler {
	return &PostHandler{postUsecase: postUsecase, schedulerUsecase: schedulerUsecase}
}

func (h *PostHandler) GeneratePost(ctx *gin.Context) {
	var req dto.GeneratePostRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondError(ctx, apperrors.NewValidationError("invalid request body"))
		return
	}
	res, err := h.postUsecase.Generate(ctx.Request.Context(), req)
	if err != nil {
		logger.GetLogger().WithField("error", err.Error()).Warn("Generate request failed")
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, res)
}

func (h *PostHandler) PublishPost(ctx *gin.Context) {
	var req dto.PublishPostRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondError(ctx, apperrors.NewValidationError("invalid request body"))
		return
	}
	res, err := h.postUsecase.Publish(ctx.Request.Context(), req)
	if err != nil {
		logger.GetLogger().WithField("error", err.Error()).Warn("Publish request failed")
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, res)
}

func (h *PostHandler) SchedulePost(ctx *gin.Context) {
	var req dto.SchedulePostRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondError(ctx, apperrors.NewValidationError("invalid request body"))
		return
	}
	res, err := h.postUsecase.Schedule(ctx.Request.Context(), req)
	if err != nil {
		logger.GetLogger().WithField("error", err.Error()).Warn("Schedule request failed")
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, res)
}

func (h *PostHandler) GetScheduledPosts(ctx *gin.Context) {
	limit := 50
	if v := ctx.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 500 {
			limit = n
		}
	}
	posts, err := h.postUsecase.ListScheduled(ctx.Request.Context(), limit)
	if err != nil {
		respondError(ctx, err)
		return
	}
	if posts == nil {
		posts = []*model.PendingPost{}
	}
	ctx.JSON(http.StatusOK, gin.H{"posts": posts})
}

func (h *PostHandler) GetNextSlot(ctx *gin.Context) {
	slot := h.schedulerUsecase.NextPostingTime(time.Now())
	ctx.JSON(http.StatusOK, slot)
}

// ProcessJobs runs one scheduler tick on demand (admin/dev utility).
func (h *PostHandler) ProcessJobs(ctx *gin.Context) {
	if err := h.schedulerUsecase.ProcessDuePosts(ctx.Request.Context()); err != nil {
		logger.GetLogger().WithField("error", err.Error()).Error("Manual tick failed")
		ctx.JSON(http.StatusInternalServerError, gin.H{"processed": false, "error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"processed": true})
}

// respondError writes the structured error body. Validation errors come back
// as 400, upstream failures as 502, anything unrecognized as 500.
func respondError(ctx *gin.Context, err error) {
	status := http.StatusInternalServerError
	body := gin.H{
		"message":   err.Error(),
		"code":      apperrors.CodeInternal,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}
	if apiErr, ok := apperrors.AsApiError(err); ok {
		status = apiErr.Status
		body["message"] = apiErr.Message
		body["code"] = apiErr.Code
		if len(apiErr.Details) > 0 {
			body["details"] = apiErr.Details
		}
	}
	ctx.JSON(status, body)
}
