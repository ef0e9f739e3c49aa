package models

import "time"

// Show represents a program that airs on the station. A show is linked to
// schedules only through its spots.
type Show struct {
	ID             int64     `json:"id" gorm:"primaryKey;autoIncrement;column:id"`
	Name           string    `json:"name" gorm:"type:text;not null;column:name" validate:"required,min=1,max=255"`
	Slug           string    `json:"slug" gorm:"type:text;not null;uniqueIndex;column:slug" validate:"required"`
	SpecialProgram bool      `json:"special_program" gorm:"type:integer;not null;default:0;column:special_program"`
	Active         bool      `json:"active" gorm:"type:integer;not null;default:1;column:active"`
	DateAdded      time.Time `json:"date_added" gorm:"type:datetime;default:CURRENT_TIMESTAMP;column:date_added"`
	Blurb          string    `json:"blurb" gorm:"type:text;column:blurb"`
	Description    string    `json:"description,omitempty" gorm:"type:text;column:description"`
}

// TableName overrides GORM's pluralization
func (Show) TableName() string {
	return "shows"
}

// NewShow creates a new active Show with the date it was added
func NewShow(name, slug string) *Show {
	return &Show{
		Name:      name,
		Slug:      slug,
		Active:    true,
		DateAdded: time.Now().UTC(),
	}
}
