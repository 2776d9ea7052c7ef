package model

import "time"

// ProjectPhotoPath is the image-store prefix for project photos.
const ProjectPhotoPath = "projects/photos"

type ProjectPhoto struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	ProjectID uint      `json:"project_id" gorm:"index;not null"`
	Image     string    `json:"image" gorm:"not null"`
}

func (ProjectPhoto) TableName() string {
	return "project_photo"
}
