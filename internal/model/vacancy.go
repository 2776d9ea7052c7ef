package model

import "time"

// Vacancy is an open role on a project. The base-record name holds the
// primary-locale value; other locales live in the localized store.
type Vacancy struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	CreatedAt   time.Time `json:"created_at"`
	ProjectID   uint      `json:"project_id" gorm:"index;not null"`
	Name        string    `json:"name" gorm:"not null"`
	Description string    `json:"description" gorm:"type:text"`

	// Translations are attached by the localization service, keyed by field.
	Translations map[string]LocalizedField `json:"translations,omitempty" gorm:"-"`
}

func (Vacancy) TableName() string {
	return "vacancy"
}
