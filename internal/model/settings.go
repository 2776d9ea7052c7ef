package model

// UserSetting stores per-user contact visibility. A raised flag hides the
// field; the CanBrowse predicates negate it.
type UserSetting struct {
	ID           uint `json:"id" gorm:"primaryKey"`
	UserID       uint `json:"user_id" gorm:"uniqueIndex;not null"`
	HideSurname  bool `json:"hide_surname"`
	HideEmail    bool `json:"hide_email"`
	HidePhone    bool `json:"hide_phone"`
	HideFacebook bool `json:"hide_facebook"`
	HideLinkedin bool `json:"hide_linkedin"`
}

func (UserSetting) TableName() string {
	return "user_setting"
}
