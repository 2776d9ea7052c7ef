package logic

import (
	"fmt"

	"github.com/AndrewHnidets/demo-repositories/internal/localization"
	"github.com/AndrewHnidets/demo-repositories/internal/model"
	"gorm.io/gorm"
)

// VacancyLogic reconciles a project's open roles, same replace-or-clear
// policy as partners, plus the per-locale names kept in the localized store.
type VacancyLogic struct {
	db           *gorm.DB
	localization *localization.Service
}

func NewVacancyLogic(db *gorm.DB, loc *localization.Service) *VacancyLogic {
	return &VacancyLogic{db: db, localization: loc}
}

// CreateOrUpdate replaces the project's vacancies with the submitted slots.
func (l *VacancyLogic) CreateOrUpdate(tx *gorm.DB, input VacancyInput, projectID uint) error {
	if err := l.Remove(tx, projectID); err != nil {
		return err
	}

	for i := 0; i < input.slots(); i++ {
		names := slotField(input.Names, i)
		if len(names) == 0 {
			continue
		}
		descriptions := slotField(input.Descriptions, i)

		vacancy := model.Vacancy{
			ProjectID:   projectID,
			Name:        names.Primary(),
			Description: descriptions.Primary(),
		}
		if err := tx.Create(&vacancy).Error; err != nil {
			return fmt.Errorf("failed to save vacancy: %w", err)
		}

		fields := map[string]model.LocalizedField{"name": names}
		if len(descriptions) > 0 {
			fields["description"] = descriptions
		}
		if err := l.localization.SaveFields(tx, model.OwnerTypeVacancy, vacancy.ID, fields); err != nil {
			return err
		}
	}
	return nil
}

// Remove hard-deletes every vacancy of the project together with its
// localized text.
func (l *VacancyLogic) Remove(tx *gorm.DB, projectID uint) error {
	var ids []uint
	err := tx.Model(&model.Vacancy{}).Where("project_id = ?", projectID).Pluck("id", &ids).Error
	if err != nil {
		return fmt.Errorf("failed to load vacancies: %w", err)
	}
	if len(ids) == 0 {
		return nil
	}
	if err := tx.Where("project_id = ?", projectID).Delete(&model.Vacancy{}).Error; err != nil {
		return fmt.Errorf("failed to remove vacancies: %w", err)
	}
	return l.localization.DeleteFor(tx, model.OwnerTypeVacancy, ids)
}

// Count returns the project's current vacancy count.
func (l *VacancyLogic) Count(tx *gorm.DB, projectID uint) (int64, error) {
	var count int64
	err := tx.Model(&model.Vacancy{}).Where("project_id = ?", projectID).Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count vacancies: %w", err)
	}
	return count, nil
}
