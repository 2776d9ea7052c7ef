package logic

import (
	"fmt"

	"github.com/AndrewHnidets/demo-repositories/internal/model"
	"gorm.io/gorm"
)

// PartnerLogic reconciles a project's partner list. The policy is
// all-or-nothing: a submitted list replaces the stored one wholesale, an
// empty submission clears it.
type PartnerLogic struct {
	db *gorm.DB
}

func NewPartnerLogic(db *gorm.DB) *PartnerLogic {
	return &PartnerLogic{db: db}
}

// CreateOrUpdate replaces the project's partners with the submitted slots.
func (l *PartnerLogic) CreateOrUpdate(tx *gorm.DB, input PartnerInput, projectID uint) error {
	if err := l.Remove(tx, projectID); err != nil {
		return err
	}

	for i := 0; i < input.slots(); i++ {
		partner := model.Partner{ProjectID: projectID}
		if i < len(input.RoleIDs) {
			partner.RoleID = input.RoleIDs[i]
		}
		if i < len(input.Names) {
			partner.Name = input.Names[i]
		}
		if i < len(input.Links) {
			partner.Link = input.Links[i]
		}
		if partner.RoleID == 0 && partner.Name == "" {
			continue
		}
		if err := tx.Create(&partner).Error; err != nil {
			return fmt.Errorf("failed to save partner: %w", err)
		}
	}
	return nil
}

// Remove hard-deletes every partner of the project.
func (l *PartnerLogic) Remove(tx *gorm.DB, projectID uint) error {
	err := tx.Where("project_id = ?", projectID).Delete(&model.Partner{}).Error
	if err != nil {
		return fmt.Errorf("failed to remove partners: %w", err)
	}
	return nil
}
