package model

// Country is a reference record resolved from geocoding input.
type Country struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"uniqueIndex;not null"`
}

func (Country) TableName() string {
	return "country"
}

// Area is a first-level administrative area inside a country.
type Area struct {
	ID        uint    `json:"id" gorm:"primaryKey"`
	Name      string  `json:"name" gorm:"index;not null"`
	CountryID uint    `json:"country_id"`
	Country   Country `json:"country" gorm:"foreignKey:CountryID"`
}

func (Area) TableName() string {
	return "area"
}

// City links to both its area and country so listing filters can match on
// either without walking the chain.
type City struct {
	ID        uint    `json:"id" gorm:"primaryKey"`
	Name      string  `json:"name" gorm:"index;not null"`
	AreaID    uint    `json:"area_id"`
	Area      Area    `json:"area" gorm:"foreignKey:AreaID"`
	CountryID uint    `json:"country_id"`
	Country   Country `json:"country" gorm:"foreignKey:CountryID"`
}

func (City) TableName() string {
	return "city"
}
