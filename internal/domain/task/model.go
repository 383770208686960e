package task

import (
	"time"

	"family-organizer/internal/domain/family"
)

// Closed enums for the optional task attributes.
const (
	TimeOfDayMorning   = "morning"
	TimeOfDayAfternoon = "afternoon"
	TimeOfDayEvening   = "evening"

	RepeatDaily   = "daily"
	RepeatWeekly  = "weekly"
	RepeatMonthly = "monthly"
	RepeatOnce    = "once"

	VisibilityPublic  = "public"
	VisibilityPrivate = "private"
	VisibilityFamily  = "family"

	ComplexityEasy   = "easy"
	ComplexityMedium = "medium"
	ComplexityHard   = "hard"

	PopularityViral    = "viral"
	PopularityTrending = "trending"
	PopularityNormal   = "normal"
)

type Category struct {
	ID        string    `gorm:"type:uuid;primaryKey"`
	Name      string    `gorm:"not null;uniqueIndex"`
	IconURL   *string   `gorm:"type:text"`
	CreatedAt time.Time `gorm:"autoCreateTime"`

	Templates []TaskTemplate `gorm:"foreignKey:CategoryID"`
}

// TaskTemplate is a reusable task definition. A nil CreatedByID marks a
// global template visible to every user.
type TaskTemplate struct {
	ID          string  `gorm:"type:uuid;primaryKey"`
	Title       string  `gorm:"not null"`
	Description *string `gorm:"type:text"`
	Reward      *string `gorm:"type:text"`
	Complexity  *string `gorm:"type:varchar(16)"`
	Popularity  *string `gorm:"type:varchar(16)"`
	ImageURL    *string `gorm:"type:text"`
	CategoryID  string  `gorm:"type:uuid;not null;index"`
	CreatedByID *string `gorm:"type:uuid;index"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`

	Category *Category `gorm:"foreignKey:CategoryID;references:ID"`
}

type Task struct {
	ID          string    `gorm:"type:uuid;primaryKey"`
	Title       string    `gorm:"not null"`
	Description *string   `gorm:"type:text"`
	Date        time.Time `gorm:"not null"`
	CategoryID  string    `gorm:"type:uuid;not null;index"`
	TemplateID  *string   `gorm:"type:uuid"`
	CreatedByID string    `gorm:"type:uuid;not null;index"`
	TimeOfDay   *string   `gorm:"type:varchar(16)"`
	Repeat      *string   `gorm:"type:varchar(16)"`
	Reward      *string   `gorm:"type:text"`
	Visibility  *string   `gorm:"type:varchar(16)"`
	Complexity  *string   `gorm:"type:varchar(16)"`
	Popularity  *string   `gorm:"type:varchar(16)"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`

	Category    *Category        `gorm:"foreignKey:CategoryID;references:ID"`
	Template    *TaskTemplate    `gorm:"foreignKey:TemplateID;references:ID"`
	Assignments []TaskAssignment `gorm:"foreignKey:TaskID"`
}

type TaskAssignment struct {
	ID             string    `gorm:"type:uuid;primaryKey"`
	TaskID         string    `gorm:"type:uuid;not null;index"`
	FamilyMemberID string    `gorm:"type:uuid;not null;index"`
	CreatedAt      time.Time `gorm:"autoCreateTime"`

	Member *family.FamilyMember `gorm:"foreignKey:FamilyMemberID;references:ID"`
}
