package dto

import (
	"time"

	"github.com/yukikurage/threads-api/internal/models"
	"github.com/yukikurage/threads-api/internal/utils"
)

// UserDTO represents a user profile in API responses
type UserDTO struct {
	ID        string    `json:"id"`
	AuthID    string    `json:"auth_id"`
	Username  string    `json:"username"`
	Name      string    `json:"name"`
	Bio       string    `json:"bio"`
	Image     string    `json:"image"`
	Onboarded bool      `json:"onboarded"`
	CreatedAt time.Time `json:"created_at"`
}

// UserListResponse represents a page of user search results
type UserListResponse struct {
	Users      []UserDTO                `json:"users"`
	Pagination utils.PaginationResponse `json:"pagination"`
}

// UserPostsResponse represents a profile with its top-level threads
type UserPostsResponse struct {
	User    UserDTO     `json:"user"`
	Threads []ThreadDTO `json:"threads"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:        user.ID,
		AuthID:    user.AuthID,
		Username:  user.Username,
		Name:      user.Name,
		Bio:       user.Bio,
		Image:     user.Image,
		Onboarded: user.Onboarded,
		CreatedAt: user.CreatedAt,
	}
}

// ToUserDTOs converts a slice of User models
func ToUserDTOs(users []models.User) []UserDTO {
	dtos := make([]UserDTO, len(users))
	for i, u := range users {
		dtos[i] = ToUserDTO(u)
	}
	return dtos
}
