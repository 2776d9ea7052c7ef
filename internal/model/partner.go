package model

import "time"

// PartnerRole is a reference role a partner fills on a project (CTO,
// designer, ...). Display names live in the localized store.
type PartnerRole struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"not null"`
}

func (PartnerRole) TableName() string {
	return "partner_role"
}

// Partner is an existing team member listed on a project.
type Partner struct {
	ID        uint        `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time   `json:"created_at"`
	ProjectID uint        `json:"project_id" gorm:"index;not null"`
	RoleID    uint        `json:"role_id"`
	Role      PartnerRole `json:"role" gorm:"foreignKey:RoleID"`
	Name      string      `json:"name"`
	Link      string      `json:"link"`
}

func (Partner) TableName() string {
	return "partner"
}
