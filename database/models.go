package database

import (
	"gorm.io/datatypes"
)

// Plain records with plain foreign keys. Joins are written out explicitly in
// the store; there are no gorm relationship back-references and no soft
// deletes.

// Role ids are fixed small integers seeded at migration time, not
// auto-generated.
type Role struct {
	ID   int16  `gorm:"primaryKey;autoIncrement:false"`
	Name string `gorm:"size:30;uniqueIndex;not null"`
}

type Account struct {
	ID             uint   `gorm:"primaryKey"`
	FullName       string `gorm:"size:30;not null"`
	Email          string `gorm:"uniqueIndex;not null"`
	HashedPassword string `gorm:"not null"`
	Disabled       bool   `gorm:"not null;default:false"`
	RoleID         int16  `gorm:"index;not null;default:1"`
}

// Post keeps its semi-structured fields (title, description, content, tags,
// timestamps, estimate) in a single JSON payload column next to the
// relational ones.
type Post struct {
	ID        uint           `gorm:"primaryKey"`
	AccountID uint           `gorm:"index;not null"`
	PostID    string         `gorm:"size:10;uniqueIndex;not null"`
	Payload   datatypes.JSON `gorm:"not null"`
}

// Tag is a flat registry of every tag ever used on a post. It is not
// referentially tied to the tag lists embedded in post payloads.
type Tag struct {
	ID  uint   `gorm:"primaryKey"`
	Tag string `gorm:"uniqueIndex;not null"`
}

// PostPayload is the shape stored in Post.Payload. Timestamps use the
// constants.POST_TIME_LAYOUT format in UTC.
type PostPayload struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Content     string   `json:"content"`
	Tags        []string `json:"tags"`
	Created     string   `json:"created"`
	Modified    *string  `json:"modified"`
	Estimated   int      `json:"estimated"`
}
