package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is a profile keyed by the identity provider's id.
type User struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)" bson:"_id" json:"id"`
	AuthID    string    `gorm:"type:varchar(191);uniqueIndex;not null" bson:"auth_id" json:"auth_id"`
	Username  string    `gorm:"type:varchar(191);uniqueIndex;not null" bson:"username" json:"username"`
	Name      string    `gorm:"type:varchar(255);not null" bson:"name" json:"name"`
	NameFold  string    `gorm:"type:varchar(255);not null;default:''" bson:"-" json:"-"`
	Bio       string    `gorm:"type:text" bson:"bio" json:"bio"`
	Image     string    `gorm:"type:varchar(1024)" bson:"image" json:"image"`
	Onboarded bool      `gorm:"not null;default:false" bson:"onboarded" json:"onboarded"`
	CreatedAt time.Time `gorm:"index" bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`

	// Document store only: ids of authored top-level threads in posting order.
	ThreadIDs []string `gorm:"-" bson:"threads" json:"-"`

	// Relations
	Threads []Thread `gorm:"foreignKey:AuthorID;references:ID" bson:"-" json:"threads,omitempty"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = NewID()
	}
	return nil
}

// BeforeSave keeps NameFold in step with Name. SQL LOWER() does not fold
// non-ASCII letters on every dialect, so search matches against this column.
func (u *User) BeforeSave(tx *gorm.DB) error {
	u.NameFold = FoldName(u.Name)
	return nil
}

// FoldName is the case folding applied to names and search terms.
func FoldName(s string) string {
	return strings.ToLower(s)
}

// NewID returns a fresh record id.
func NewID() string {
	return uuid.NewString()
}
