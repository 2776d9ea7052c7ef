package location

import (
	"fmt"

	"github.com/AndrewHnidets/demo-repositories/internal/model"
	"gorm.io/gorm"
)

// AddressInput is raw geocoding output supplied with a profile or project
// form.
type AddressInput struct {
	City                     string  `json:"locality"`
	AdministrativeAreaLevel1 string  `json:"administrative_area_level_1"`
	Country                  string  `json:"country"`
	Lat                      float64 `json:"lat"`
	Lng                      float64 `json:"lng"`
}

// Service resolves geocoding input into City records with their Area and
// Country links.
type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// ResolveOrCreateCity returns the city matching the input, creating country,
// area and city rows as needed. A nil input or one without a city name
// resolves to nil.
func (s *Service) ResolveOrCreateCity(tx *gorm.DB, input *AddressInput) (*model.City, error) {
	if input == nil || input.City == "" {
		return nil, nil
	}

	var country model.Country
	if err := tx.Where(model.Country{Name: input.Country}).FirstOrCreate(&country).Error; err != nil {
		return nil, fmt.Errorf("failed to resolve country: %w", err)
	}

	var area model.Area
	err := tx.
		Where(model.Area{Name: input.AdministrativeAreaLevel1, CountryID: country.ID}).
		FirstOrCreate(&area).Error
	if err != nil {
		return nil, fmt.Errorf("failed to resolve area: %w", err)
	}

	var city model.City
	err = tx.
		Where(model.City{Name: input.City, AreaID: area.ID, CountryID: country.ID}).
		FirstOrCreate(&city).Error
	if err != nil {
		return nil, fmt.Errorf("failed to resolve city: %w", err)
	}

	city.Area = area
	city.Country = country
	return &city, nil
}
