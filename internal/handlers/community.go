package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/threads-api/internal/dto"
	apierrors "github.com/yukikurage/threads-api/internal/errors"
	"github.com/yukikurage/threads-api/internal/services"
)

type CommunityHandler struct {
	communityService *services.CommunityService
}

func NewCommunityHandler(communityService *services.CommunityService) *CommunityHandler {
	return &CommunityHandler{
		communityService: communityService,
	}
}

// GetCommunityThreads returns a community with its threads
func (h *CommunityHandler) GetCommunityThreads(c *gin.Context) {
	community, err := h.communityService.FetchCommunityPosts(c.Request.Context(), c.Param("id"))
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.CommunityPostsResponse{
		Community: dto.ToCommunityDTO(*community),
		Threads:   dto.ToThreadDTOs(community.Threads),
	})
}
