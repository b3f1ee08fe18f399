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

type UserHandler struct {
	userService *services.UserService
}

func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// GetMe returns the profile of the authenticated user
func (h *UserHandler) GetMe(c *gin.Context) {
	authID, ok := middleware.GetAuthID(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	user, err := h.userService.FetchUser(c.Request.Context(), authID)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

// UpdateMe creates or edits the authenticated user's profile
func (h *UserHandler) UpdateMe(c *gin.Context) {
	authID, ok := middleware.GetAuthID(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	type UpdateUserRequest struct {
		Username string `json:"username" binding:"required,notblank,max=30"`
		Name     string `json:"name" binding:"required,notblank,max=50"`
		Bio      string `json:"bio" binding:"max=1000"`
		Image    string `json:"image" binding:"omitempty,url"`
		Path     string `json:"path"`
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequestWithDetails(c, "Invalid request body", err.Error())
		return
	}

	user, err := h.userService.UpdateUser(c.Request.Context(), services.UpdateUserInput{
		AuthID:   authID,
		Username: req.Username,
		Name:     req.Name,
		Bio:      req.Bio,
		Image:    req.Image,
		Path:     req.Path,
	})
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

// ListUsers searches other users by username or name
func (h *UserHandler) ListUsers(c *gin.Context) {
	authID, _ := middleware.GetAuthID(c)
	params := utils.GetPaginationParams(c, constants.UserSearchPageSize)

	page, err := h.userService.FetchUsers(c.Request.Context(), services.FetchUsersInput{
		AuthID:       authID,
		SearchString: c.Query("q"),
		PageNumber:   params.Page,
		PageSize:     params.Limit,
		SortBy:       c.DefaultQuery("sort", constants.SortDesc),
	})
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.UserListResponse{
		Users: dto.ToUserDTOs(page.Users),
		Pagination: utils.PaginationResponse{
			Page:   params.Page,
			Limit:  params.Limit,
			IsNext: page.IsNext,
		},
	})
}

// GetUser returns another user's profile
func (h *UserHandler) GetUser(c *gin.Context) {
	user, err := h.userService.FetchUser(c.Request.Context(), c.Param("authId"))
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

// GetUserThreads returns a user's profile with their threads
func (h *UserHandler) GetUserThreads(c *gin.Context) {
	user, err := h.userService.FetchUserPosts(c.Request.Context(), c.Param("authId"))
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.UserPostsResponse{
		User:    dto.ToUserDTO(*user),
		Threads: dto.ToThreadDTOs(user.Threads),
	})
}

// GetActivity returns replies other users left on the current user's threads
func (h *UserHandler) GetActivity(c *gin.Context) {
	authID, ok := middleware.GetAuthID(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	replies, err := h.userService.FetchActivities(c.Request.Context(), authID)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ActivityResponse{Replies: dto.ToThreadDTOs(replies)})
}
