package localization

import (
	"fmt"

	"github.com/AndrewHnidets/demo-repositories/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Service persists per-entity, per-field, per-locale string values. Write
// methods take the caller's handle so they join an ambient transaction.
type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Get returns one translated value, empty string when absent.
func (s *Service) Get(ownerType string, ownerID uint, field string, locale model.Locale) (string, error) {
	var row model.LocalizedText
	err := s.db.
		Where("owner_type = ? AND owner_id = ? AND field = ? AND locale = ?",
			ownerType, ownerID, field, string(locale)).
		First(&row).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return "", nil
		}
		return "", fmt.Errorf("failed to load localized value: %w", err)
	}
	return row.Value, nil
}

// Set upserts one translated value.
func (s *Service) Set(tx *gorm.DB, ownerType string, ownerID uint, field string, locale model.Locale, value string) error {
	row := model.LocalizedText{
		OwnerType: ownerType,
		OwnerID:   ownerID,
		Field:     field,
		Locale:    string(locale),
		Value:     value,
	}
	err := tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "owner_type"}, {Name: "owner_id"}, {Name: "field"}, {Name: "locale"},
		},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("failed to save localized value: %w", err)
	}
	return nil
}

// SaveFields writes every provided locale of every given field.
func (s *Service) SaveFields(tx *gorm.DB, ownerType string, ownerID uint, fields map[string]model.LocalizedField) error {
	for field, values := range fields {
		for locale, value := range values {
			if !model.IsSupportedLocale(string(locale)) {
				continue
			}
			if err := s.Set(tx, ownerType, ownerID, field, locale, value); err != nil {
				return err
			}
		}
	}
	return nil
}

// Load returns all translations of one owner keyed by field.
func (s *Service) Load(ownerType string, ownerID uint) (map[string]model.LocalizedField, error) {
	byOwner, err := s.LoadMany(ownerType, []uint{ownerID})
	if err != nil {
		return nil, err
	}
	return byOwner[ownerID], nil
}

// LoadMany batch-loads translations for a set of owners of one type.
func (s *Service) LoadMany(ownerType string, ownerIDs []uint) (map[uint]map[string]model.LocalizedField, error) {
	result := make(map[uint]map[string]model.LocalizedField, len(ownerIDs))
	if len(ownerIDs) == 0 {
		return result, nil
	}

	var rows []model.LocalizedText
	err := s.db.
		Where("owner_type = ? AND owner_id IN ?", ownerType, ownerIDs).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load localized values: %w", err)
	}

	for _, row := range rows {
		fields, ok := result[row.OwnerID]
		if !ok {
			fields = make(map[string]model.LocalizedField)
			result[row.OwnerID] = fields
		}
		values, ok := fields[row.Field]
		if !ok {
			values = model.LocalizedField{}
			fields[row.Field] = values
		}
		values[model.Locale(row.Locale)] = row.Value
	}
	return result, nil
}

// DeleteFor removes every translation of one owner. Used when dependents are
// hard-deleted.
func (s *Service) DeleteFor(tx *gorm.DB, ownerType string, ownerIDs []uint) error {
	if len(ownerIDs) == 0 {
		return nil
	}
	err := tx.
		Where("owner_type = ? AND owner_id IN ?", ownerType, ownerIDs).
		Delete(&model.LocalizedText{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete localized values: %w", err)
	}
	return nil
}
