package model

// Owner types for localized text rows.
const (
	OwnerTypeProject = "project"
	OwnerTypeUser    = "user"
	OwnerTypeVacancy = "vacancy"
)

// LocalizedText is one per-entity, per-field, per-locale string value.
type LocalizedText struct {
	ID        uint   `json:"id" gorm:"primaryKey"`
	OwnerType string `json:"owner_type" gorm:"index:idx_localized_owner,unique;not null"`
	OwnerID   uint   `json:"owner_id" gorm:"index:idx_localized_owner,unique;not null"`
	Field     string `json:"field" gorm:"index:idx_localized_owner,unique;not null"`
	Locale    string `json:"locale" gorm:"index:idx_localized_owner,unique;not null"`
	Value     string `json:"value" gorm:"type:text"`
}

func (LocalizedText) TableName() string {
	return "localized_text"
}
