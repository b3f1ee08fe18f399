package models

import (
	"time"

	"gorm.io/gorm"
)

// Thread is a post. A nil ParentID marks a top-level thread, anything else is a reply.
type Thread struct {
	ID          string    `gorm:"primaryKey;type:varchar(36)" bson:"_id" json:"id"`
	Text        string    `gorm:"type:text;not null" bson:"text" json:"text"`
	AuthorID    string    `gorm:"type:varchar(36);not null;index" bson:"author" json:"author_id"`
	CommunityID *string   `gorm:"type:varchar(36);index" bson:"community" json:"community_id"`
	ParentID    *string   `gorm:"type:varchar(36);index" bson:"parent_id,omitempty" json:"parent_id,omitempty"`
	CreatedAt   time.Time `gorm:"index" bson:"created_at" json:"created_at"`

	// Document store only: reply ids in the order they were added.
	ChildIDs []string `gorm:"-" bson:"children" json:"-"`

	// Relations
	Author    *User      `gorm:"foreignKey:AuthorID;references:ID" bson:"-" json:"author,omitempty"`
	Community *Community `gorm:"foreignKey:CommunityID;references:ID" bson:"-" json:"community,omitempty"`
	Children  []Thread   `gorm:"foreignKey:ParentID;references:ID" bson:"-" json:"children,omitempty"`
}

func (t *Thread) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = NewID()
	}
	return nil
}

// IsReply reports whether the thread answers another thread.
func (t *Thread) IsReply() bool {
	return t.ParentID != nil && *t.ParentID != ""
}
