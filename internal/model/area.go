package model

// ProjectArea is a business domain a project belongs to (fintech, retail,
// ...). Joined to projects through the area_project pivot.
type ProjectArea struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"not null"`
}

func (ProjectArea) TableName() string {
	return "project_area"
}
