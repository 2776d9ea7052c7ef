package model

import (
	"time"

	"gorm.io/gorm"
)

// PaginateCount is the fixed listing page size.
const PaginateCount = 12

// ProjectStatus enumerates the publication workflow state.
type ProjectStatus int

const (
	ProjectStatusDraft ProjectStatus = 1
	ProjectStatusOpen  ProjectStatus = 2
)

// ValidProjectStatus reports whether v is a known status value.
func ValidProjectStatus(v int) bool {
	return v == int(ProjectStatusDraft) || v == int(ProjectStatusOpen)
}

type Project struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Primary-locale copies kept on the record for search; the full
	// per-locale values live in the localized store.
	Name             string `json:"name"`
	SmallDescription string `json:"small_description" gorm:"type:text"`
	Description      string `json:"description" gorm:"type:text"`

	Site            string        `json:"site"`
	Goal            string        `json:"goal"` // comma-encoded GoalSet
	InWork          string        `json:"in_work"`
	Status          ProjectStatus `json:"status"`
	Budget          int64         `json:"budget" gorm:"check:budget >= 0"`
	TimeInRelease   int           `json:"time_in_release"`
	ReceiveMessages bool          `json:"receive_messages"`
	IsPublished     bool          `json:"is_published"`
	Slug            string        `json:"slug" gorm:"uniqueIndex;not null"`
	FullAddress     string        `json:"full_address"`
	Views           int64         `json:"views"`

	UserID uint  `json:"user_id" gorm:"index;not null"`
	User   *User `json:"user,omitempty" gorm:"foreignKey:UserID"`

	CityID *uint `json:"city_id"`
	City   *City `json:"city,omitempty" gorm:"foreignKey:CityID"`

	Photos    []ProjectPhoto `json:"photos,omitempty" gorm:"foreignKey:ProjectID"`
	Areas     []ProjectArea  `json:"areas,omitempty" gorm:"many2many:area_project;"`
	Partners  []Partner      `json:"partners,omitempty" gorm:"foreignKey:ProjectID"`
	Vacancies []Vacancy      `json:"vacancies,omitempty" gorm:"foreignKey:ProjectID"`
	ChatRooms []ChatRoom     `json:"-" gorm:"polymorphic:Relation;polymorphicValue:project"`

	// ActiveChatRoomCount is filled by the listing/detail queries: rooms of
	// this project where the viewer participates and a request message has
	// been accepted.
	ActiveChatRoomCount int64 `json:"active_chat_room_count" gorm:"-"`

	// Translations are attached by the localization service, keyed by field.
	Translations map[string]LocalizedField `json:"translations,omitempty" gorm:"-"`
}

func (Project) TableName() string {
	return "project"
}

// LangAttribute resolves a translated attribute with the project fallback
// order (preferred locale, then the remaining locales in canonical order).
func (p *Project) LangAttribute(field string, locale Locale) string {
	if p.Translations == nil {
		return ""
	}
	return p.Translations[field].Resolve(locale)
}

// IsOwnedBy reports whether viewer owns the project. A nil viewer owns
// nothing.
func (p *Project) IsOwnedBy(viewer *User) bool {
	return viewer != nil && p.UserID == viewer.ID
}

// GoalSet decodes the stored goal column.
func (p *Project) GoalSet() GoalSet {
	return ParseGoalSet(p.Goal)
}

// AddGoal inserts a goal token; idempotent.
func (p *Project) AddGoal(id int) {
	set := p.GoalSet()
	set.Add(id)
	p.Goal = set.Encode()
}

// RemoveGoal drops a goal token; removing an absent token is a no-op.
func (p *Project) RemoveGoal(id int) {
	set := p.GoalSet()
	set.Remove(id)
	p.Goal = set.Encode()
}

func (p *Project) HasGoal(id int) bool {
	return p.GoalSet().Has(id)
}

// owner returns the loaded owner record; predicates below require it.
func (p *Project) owner() *User {
	if p.User != nil {
		return p.User
	}
	return &User{}
}

// The contact predicates implement the privacy policy: the owner sees their
// own fields per their own settings; anyone else sees a field when the owner
// allows it or when an accepted chat with the project exists.
func (p *Project) canBrowse(viewer *User, ownerAllows bool) bool {
	if p.IsOwnedBy(viewer) {
		return ownerAllows
	}
	return ownerAllows || p.ActiveChatRoomCount > 0
}

func (p *Project) CanBrowseSurname(viewer *User) bool {
	return p.canBrowse(viewer, p.owner().CanBrowseSurname())
}

func (p *Project) CanBrowseEmail(viewer *User) bool {
	return p.canBrowse(viewer, p.owner().CanBrowseEmail())
}

func (p *Project) CanBrowsePhone(viewer *User) bool {
	return p.canBrowse(viewer, p.owner().CanBrowsePhone())
}

func (p *Project) CanBrowseFacebook(viewer *User) bool {
	return p.canBrowse(viewer, p.owner().CanBrowseFacebook())
}

func (p *Project) CanBrowseLinkedin(viewer *User) bool {
	return p.canBrowse(viewer, p.owner().CanBrowseLinkedin())
}

// HasActiveChat is false for the owner's own project, otherwise whether any
// chat room is attached.
func (p *Project) HasActiveChat(viewer *User) bool {
	if p.IsOwnedBy(viewer) {
		return false
	}
	return len(p.ChatRooms) > 0
}
