package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/threads-api/internal/constants"
	"github.com/yukikurage/threads-api/internal/dto"
	apierrors "github.com/yukikurage/threads-api/internal/errors"
	"github.com/yukikurage/threads-api/internal/middleware"
	"github.com/yukikurage/threads-api/internal/services"
	"github.com/yukikurage/threads-api/internal/utils"
)

type ThreadHandler struct {
	threadService *services.ThreadService
}

func NewThreadHandler(threadService *services.ThreadService) *ThreadHandler {
	return &ThreadHandler{
		threadService: threadService,
	}
}

// ListThreads returns a page of the home feed
func (h *ThreadHandler) ListThreads(c *gin.Context) {
	params := utils.GetPaginationParams(c, constants.HomeFeedPageSize)

	page, err := h.threadService.FetchThreads(c.Request.Context(), params.Page, params.Limit)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ThreadListResponse{
		Threads: dto.ToThreadDTOs(page.Threads),
		Pagination: utils.PaginationResponse{
			Page:   params.Page,
			Limit:  params.Limit,
			IsNext: page.IsNext,
		},
	})
}

// CreateThread posts a new thread as the current user
func (h *ThreadHandler) CreateThread(c *gin.Context) {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	type CreateThreadRequest struct {
		Text        string  `json:"text" binding:"required,notblank"`
		CommunityID *string `json:"community_id"`
		Path        string  `json:"path"`
	}

	var req CreateThreadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequestWithDetails(c, "Invalid request body", err.Error())
		return
	}
	if req.Path == "" {
		req.Path = "/"
	}

	thread, err := h.threadService.CreateThread(c.Request.Context(), services.CreateThreadInput{
		Text:        req.Text,
		AuthorID:    user.ID,
		CommunityID: req.CommunityID,
		Path:        req.Path,
	})
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	thread.Author = user
	c.JSON(http.StatusCreated, dto.ToThreadDTO(*thread))
}

// GetThread returns a thread with its replies
func (h *ThreadHandler) GetThread(c *gin.Context) {
	thread, err := h.threadService.FetchThreadByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToThreadDTO(*thread))
}

// AddComment replies to a thread as the current user
func (h *ThreadHandler) AddComment(c *gin.Context) {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	type AddCommentRequest struct {
		Text string `json:"text" binding:"required,notblank"`
		Path string `json:"path"`
	}

	var req AddCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequestWithDetails(c, "Invalid request body", err.Error())
		return
	}

	threadID := c.Param("id")
	if req.Path == "" {
		req.Path = "/thread/" + threadID
	}

	reply, err := h.threadService.AddCommentToThread(c.Request.Context(), services.AddCommentInput{
		ThreadID: threadID,
		Text:     req.Text,
		AuthorID: user.ID,
		Path:     req.Path,
	})
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	reply.Author = user
	c.JSON(http.StatusCreated, dto.ToThreadDTO(*reply))
}
