package models

import (
	"time"

	"gorm.io/gorm"
)

type Community struct {
	ID          string    `gorm:"primaryKey;type:varchar(36)" bson:"_id" json:"id"`
	CommunityID string    `gorm:"type:varchar(191);uniqueIndex;not null" bson:"id" json:"community_id"`
	Name        string    `gorm:"type:varchar(255);not null" bson:"name" json:"name"`
	Image       string    `gorm:"type:varchar(1024)" bson:"image" json:"image"`
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`

	ThreadIDs []string `gorm:"-" bson:"threads" json:"-"`

	// Relations
	Threads []Thread `gorm:"foreignKey:CommunityID;references:ID" bson:"-" json:"threads,omitempty"`
}

func (c *Community) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = NewID()
	}
	return nil
}
