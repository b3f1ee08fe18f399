package dto

import (
	"time"

	"github.com/yukikurage/threads-api/internal/models"
	"github.com/yukikurage/threads-api/internal/utils"
)

// AuthorDTO represents the author of a post in API responses
type AuthorDTO struct {
	ID       string `json:"id"`
	AuthID   string `json:"auth_id"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Image    string `json:"image"`
}

// CommunityDTO represents a community in API responses
type CommunityDTO struct {
	ID          string `json:"id"`
	CommunityID string `json:"community_id"`
	Name        string `json:"name"`
	Image       string `json:"image"`
}

// ThreadDTO represents a thread or reply in API responses
type ThreadDTO struct {
	ID        string        `json:"id"`
	Text      string        `json:"text"`
	ParentID  *string       `json:"parent_id"`
	CreatedAt time.Time     `json:"created_at"`
	Author    *AuthorDTO    `json:"author,omitempty"`
	Community *CommunityDTO `json:"community"`
	Children  []ThreadDTO   `json:"children"`
}

// ThreadListResponse represents a page of the home feed
type ThreadListResponse struct {
	Threads    []ThreadDTO              `json:"threads"`
	Pagination utils.PaginationResponse `json:"pagination"`
}

// CommunityPostsResponse represents a community with its threads
type CommunityPostsResponse struct {
	Community CommunityDTO `json:"community"`
	Threads   []ThreadDTO  `json:"threads"`
}

// ActivityResponse lists replies other users left on the current user's threads
type ActivityResponse struct {
	Replies []ThreadDTO `json:"replies"`
}

// Conversion functions

// ToAuthorDTO converts a User model to AuthorDTO
func ToAuthorDTO(user models.User) AuthorDTO {
	return AuthorDTO{
		ID:       user.ID,
		AuthID:   user.AuthID,
		Username: user.Username,
		Name:     user.Name,
		Image:    user.Image,
	}
}

// ToCommunityDTO converts a Community model to CommunityDTO
func ToCommunityDTO(community models.Community) CommunityDTO {
	return CommunityDTO{
		ID:          community.ID,
		CommunityID: community.CommunityID,
		Name:        community.Name,
		Image:       community.Image,
	}
}

// ToThreadDTO converts a Thread model and whatever relations were loaded
func ToThreadDTO(thread models.Thread) ThreadDTO {
	dto := ThreadDTO{
		ID:        thread.ID,
		Text:      thread.Text,
		ParentID:  thread.ParentID,
		CreatedAt: thread.CreatedAt,
		Children:  ToThreadDTOs(thread.Children),
	}
	if thread.Author != nil {
		author := ToAuthorDTO(*thread.Author)
		dto.Author = &author
	}
	if thread.Community != nil {
		community := ToCommunityDTO(*thread.Community)
		dto.Community = &community
	}
	return dto
}

// ToThreadDTOs converts a slice of Thread models, never returning nil
func ToThreadDTOs(threads []models.Thread) []ThreadDTO {
	dtos := make([]ThreadDTO, len(threads))
	for i, t := range threads {
		dtos[i] = ToThreadDTO(t)
	}
	return dtos
}
