package model

import (
	"math"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Avatar storage constants. DefaultAvatar is a sentinel, never a stored
// upload, and must not be deleted from the image store.
const (
	AvatarPath    = "users/avatars"
	DefaultAvatar = "users/default.svg"
)

// Personas a user can act under. RoleID is the static authorization role;
// LastRoleID is the currently active persona.
const (
	RoleNewly      uint = 2
	RoleSpecialist uint = 3
	RoleInvestor   uint = 4
	RoleInitiator  uint = 5
)

type User struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Primary-locale denormalized copies; full per-locale values live in the
	// localized store.
	Name    string `json:"name"`
	Surname string `json:"surname"`

	Email    string `json:"email" gorm:"uniqueIndex;not null"`
	Password string `json:"-" gorm:"not null"`
	Phone    string `json:"phone"`
	Linkedin string `json:"linkedin"`
	Facebook string `json:"facebook"`

	RoleID     uint   `json:"role_id"`
	LastRoleID uint   `json:"last_role_id"`
	Avatar     string `json:"avatar" gorm:"default:users/default.svg"`
	Locale     string `json:"locale"`

	// Settings is an opaque preferences blob written by the profile update;
	// visibility flags live in Setting.
	Settings datatypes.JSON `json:"settings"`

	CityID *uint `json:"city_id"`
	City   *City `json:"city,omitempty" gorm:"foreignKey:CityID"`

	Setting   *UserSetting   `json:"setting,omitempty" gorm:"foreignKey:UserID"`
	Projects  []Project      `json:"projects,omitempty" gorm:"foreignKey:UserID"`
	UserRooms []ChatUserRoom `json:"-" gorm:"foreignKey:UserID"`

	// Translations are attached by the localization service, keyed by field.
	Translations map[string]LocalizedField `json:"translations,omitempty" gorm:"-"`
}

func (User) TableName() string {
	return "user"
}

func (u *User) IsSpecialist() bool { return u.LastRoleID == RoleSpecialist }
func (u *User) IsInvestor() bool   { return u.LastRoleID == RoleInvestor }
func (u *User) IsInitiator() bool  { return u.LastRoleID == RoleInitiator }
func (u *User) IsNewly() bool      { return u.LastRoleID == RoleNewly }

// HasCabinetAccess reports whether the user picked a working persona.
func (u *User) HasCabinetAccess() bool {
	return u.LastRoleID != 0 && u.LastRoleID != RoleNewly
}

func (u *User) HasDefaultAvatar() bool {
	return u.Avatar == DefaultAvatar
}

// LangAttribute resolves a translated attribute with the user fallback order
// (preferred locale, then the remaining locales reversed).
func (u *User) LangAttribute(field string, locale Locale) string {
	if u.Translations == nil {
		return ""
	}
	return u.Translations[field].ResolveReversed(locale)
}

// FullName joins the localized name and surname.
func (u *User) FullName(locale Locale) string {
	name := u.LangAttribute("name", locale)
	surname := u.LangAttribute("surname", locale)
	if name == "" {
		return surname
	}
	if surname == "" {
		return name
	}
	return name + " " + surname
}

// FullNameWithRestriction omits the surname when the owner hides it.
func (u *User) FullNameWithRestriction(locale Locale) string {
	if u.CanBrowseSurname() {
		return u.FullName(locale)
	}
	return u.LangAttribute("name", locale)
}

// A missing settings row means nothing is hidden.
func (u *User) hideFlags() UserSetting {
	if u.Setting == nil {
		return UserSetting{}
	}
	return *u.Setting
}

func (u *User) CanBrowseSurname() bool { return !u.hideFlags().HideSurname }
func (u *User) CanBrowseEmail() bool   { return !u.hideFlags().HideEmail }
func (u *User) CanBrowsePhone() bool   { return !u.hideFlags().HidePhone }

// Facebook and linkedin are browsable only when a value is set at all.
func (u *User) CanBrowseFacebook() bool {
	return !u.hideFlags().HideFacebook && u.Facebook != ""
}

func (u *User) CanBrowseLinkedin() bool {
	return !u.hideFlags().HideLinkedin && u.Linkedin != ""
}

// ProfileFullnessPercentage is the share of filled profile fields, rounded.
func (u *User) ProfileFullnessPercentage(locale Locale) int {
	fields := []string{
		u.LangAttribute("name", locale),
		u.LangAttribute("surname", locale),
		u.Email,
		u.Phone,
		u.Linkedin,
		u.Facebook,
		u.Avatar,
	}
	filled := 0
	for _, f := range fields {
		if f != "" {
			filled++
		}
	}
	return int(math.Round(float64(filled) / float64(len(fields)) * 100))
}
