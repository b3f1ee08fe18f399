package constants

// Context keys
const (
	ContextKeyAuthID      = "auth_id"
	ContextKeyCurrentUser = "current_user"
	ContextKeyRequestID   = "request_id"
)

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
	MaxPageNumber   = 10000

	// Home feed and user search use larger first pages.
	HomeFeedPageSize   = 30
	UserSearchPageSize = 25
)

// ProfileEditPath is the only path for which a profile save signals invalidation.
const ProfileEditPath = "/profile/edit"

// Sort directions accepted by user search.
const (
	SortAsc  = "asc"
	SortDesc = "desc"
)
