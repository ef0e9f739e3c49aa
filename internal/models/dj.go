package models

import "fmt"

// User is the account a DJ signs in with. Account management happens outside
// this service; only the fields needed for display live here.
type User struct {
	ID        int64  `json:"id" gorm:"primaryKey;autoIncrement;column:id"`
	Username  string `json:"username" gorm:"type:text;not null;uniqueIndex;column:username" validate:"required"`
	FirstName string `json:"first_name" gorm:"type:text;column:first_name"`
	LastName  string `json:"last_name" gorm:"type:text;column:last_name"`
	Email     string `json:"email" gorm:"type:text;column:email"`
}

// TableName overrides GORM's pluralization
func (User) TableName() string {
	return "users"
}

// DJ represents an on-air personality, tied one-to-one to a user account
type DJ struct {
	ID          int64  `json:"id" gorm:"primaryKey;autoIncrement;column:id"`
	DisplayName string `json:"display_name" gorm:"type:text;column:display_name"`
	UserID      int64  `json:"user_id" gorm:"not null;uniqueIndex;column:user_id"`
	Slug        string `json:"slug" gorm:"type:text;not null;uniqueIndex;column:slug" validate:"required"`
	Summary     string `json:"summary" gorm:"type:text;column:summary"`
	Description string `json:"description,omitempty" gorm:"type:text;column:description"`

	User *User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

// TableName overrides GORM's pluralization
func (DJ) TableName() string {
	return "djs"
}

// Name returns the DJ's display name, falling back to the user's real name
func (d *DJ) Name() string {
	if d.DisplayName != "" {
		return d.DisplayName
	}
	if d.User != nil && d.User.FirstName != "" {
		if d.User.LastName != "" {
			return fmt.Sprintf("%s %s", d.User.FirstName, d.User.LastName[:1])
		}
		return d.User.FirstName
	}
	return d.Slug
}
