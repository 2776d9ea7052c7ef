package logic

import (
	"errors"
	"fmt"

	"github.com/AndrewHnidets/demo-repositories/internal/localization"
	"github.com/AndrewHnidets/demo-repositories/internal/location"
	"github.com/AndrewHnidets/demo-repositories/internal/model"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// UserLogic orchestrates profile updates: the base record, the visibility
// settings row, the avatar binary and the localized name fields.
type UserLogic struct {
	db           *gorm.DB
	images       ImageStore
	locations    *location.Service
	localization *localization.Service
}

func NewUserLogic(db *gorm.DB, images ImageStore, locations *location.Service,
	loc *localization.Service) *UserLogic {
	return &UserLogic{db: db, images: images, locations: locations, localization: loc}
}

// Register creates a user with a hashed password, the default avatar and an
// empty settings row.
func (l *UserLogic) Register(email, password string, locale model.Locale) (*model.User, error) {
	if !model.IsSupportedLocale(string(locale)) {
		locale = model.PrimaryLocale
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := model.User{
		Email:      email,
		Password:   string(hash),
		RoleID:     model.RoleNewly,
		LastRoleID: model.RoleNewly,
		Avatar:     model.DefaultAvatar,
		Locale:     string(locale),
	}

	err = l.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}
		setting := model.UserSetting{UserID: user.ID}
		if err := tx.Create(&setting).Error; err != nil {
			return fmt.Errorf("failed to create user settings: %w", err)
		}
		user.Setting = &setting
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Authenticate verifies the credentials and returns the user.
func (l *UserLogic) Authenticate(email, password string) (*model.User, error) {
	var user model.User
	err := l.db.Preload("Setting").Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, gorm.ErrRecordNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, gorm.ErrRecordNotFound
	}
	return &user, nil
}

// Update applies the profile form: denormalized primary-locale name columns,
// contact fields, locale preference, surname visibility, city and avatar,
// plus the localized name fields, all in one transaction.
func (l *UserLogic) Update(userID uint, input UserInput) (*model.User, error) {
	var user model.User

	err := l.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Preload("Setting").First(&user, userID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("user %d: %w", userID, gorm.ErrRecordNotFound)
			}
			return fmt.Errorf("failed to load user: %w", err)
		}

		locale := input.ActiveLocale
		if !model.IsSupportedLocale(string(locale)) {
			locale = model.PrimaryLocale
		}

		updates := map[string]any{
			"name":     input.Name[model.PrimaryLocale],
			"surname":  input.Surname[model.PrimaryLocale],
			"phone":    input.Phone,
			"linkedin": input.Linkedin,
			"facebook": input.Facebook,
			"locale":   string(locale),
			"settings": datatypes.JSON(fmt.Sprintf(`{"locale":%q}`, locale)),
		}

		city, err := l.locations.ResolveOrCreateCity(tx, input.Address)
		if err != nil {
			return err
		}
		if city != nil {
			updates["city_id"] = city.ID
		}

		if err := tx.Model(&user).Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to update user: %w", err)
		}

		if err := l.saveSetting(tx, &user, input.HideSurname); err != nil {
			return err
		}
		if err := l.saveAvatar(tx, &user, input.Avatar); err != nil {
			return err
		}

		err = l.localization.SaveFields(tx, model.OwnerTypeUser, user.ID, map[string]model.LocalizedField{
			"name":    input.Name,
			"surname": input.Surname,
		})
		if err != nil {
			return err
		}

		return tx.Preload("Setting").Preload("City").First(&user, user.ID).Error
	})
	if err != nil {
		return nil, err
	}

	user.Translations, err = l.localization.Load(model.OwnerTypeUser, user.ID)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// saveSetting upserts the settings row but writes only the surname flag; the
// remaining visibility flags are managed from the settings screen.
func (l *UserLogic) saveSetting(tx *gorm.DB, user *model.User, hideSurname bool) error {
	if user.Setting == nil {
		setting := model.UserSetting{UserID: user.ID, HideSurname: hideSurname}
		if err := tx.Create(&setting).Error; err != nil {
			return fmt.Errorf("failed to create user settings: %w", err)
		}
		user.Setting = &setting
		return nil
	}
	err := tx.Model(user.Setting).Update("hide_surname", hideSurname).Error
	if err != nil {
		return fmt.Errorf("failed to update user settings: %w", err)
	}
	return nil
}

// saveAvatar replaces the stored avatar. The default sentinel is never
// deleted from the image store.
func (l *UserLogic) saveAvatar(tx *gorm.DB, user *model.User, upload *PhotoUpload) error {
	if upload == nil {
		return nil
	}
	if !user.HasDefaultAvatar() {
		if err := l.images.Delete(user.Avatar); err != nil {
			return err
		}
	}
	ref, err := l.images.Store(upload.Reader, model.AvatarPath, upload.Name)
	if err != nil {
		return fmt.Errorf("failed to store avatar: %w", err)
	}
	if err := tx.Model(user).Update("avatar", ref).Error; err != nil {
		return fmt.Errorf("failed to update avatar: %w", err)
	}
	return nil
}

// UpdateSettings writes the full visibility flag set.
func (l *UserLogic) UpdateSettings(userID uint, setting model.UserSetting) error {
	setting.UserID = userID
	return l.db.Transaction(func(tx *gorm.DB) error {
		var existing model.UserSetting
		err := tx.Where("user_id = ?", userID).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if err := tx.Create(&setting).Error; err != nil {
				return fmt.Errorf("failed to create user settings: %w", err)
			}
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to load user settings: %w", err)
		}
		err = tx.Model(&existing).
			Select("hide_surname", "hide_email", "hide_phone", "hide_facebook", "hide_linkedin").
			Updates(setting).Error
		if err != nil {
			return fmt.Errorf("failed to update user settings: %w", err)
		}
		return nil
	})
}

// UpdatePassword rehashes and stores the password.
func (l *UserLogic) UpdatePassword(userID uint, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	result := l.db.Model(&model.User{}).Where("id = ?", userID).Update("password", string(hash))
	if result.Error != nil {
		return fmt.Errorf("failed to update password: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("user %d: %w", userID, gorm.ErrRecordNotFound)
	}
	return nil
}

// UpdateAvatarWithUserID stores the upload and points the user at it.
func (l *UserLogic) UpdateAvatarWithUserID(userID uint, upload PhotoUpload) (string, error) {
	ref, err := l.images.Store(upload.Reader, model.AvatarPath, upload.Name)
	if err != nil {
		return "", fmt.Errorf("failed to store avatar: %w", err)
	}
	err = l.db.Model(&model.User{}).Where("id = ?", userID).Update("avatar", ref).Error
	if err != nil {
		return "", fmt.Errorf("failed to update avatar: %w", err)
	}
	return ref, nil
}

// UpdateAvatarToDefault drops the stored avatar and restores the sentinel.
func (l *UserLogic) UpdateAvatarToDefault(userID uint) error {
	var user model.User
	if err := l.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("user %d: %w", userID, gorm.ErrRecordNotFound)
		}
		return fmt.Errorf("failed to load user: %w", err)
	}
	if !user.HasDefaultAvatar() {
		if err := l.images.Delete(user.Avatar); err != nil {
			return err
		}
	}
	err := l.db.Model(&user).Update("avatar", model.DefaultAvatar).Error
	if err != nil {
		return fmt.Errorf("failed to update avatar: %w", err)
	}
	return nil
}

// SwitchPersona sets the active persona after persona selection.
func (l *UserLogic) SwitchPersona(userID, roleID uint) error {
	switch roleID {
	case model.RoleSpecialist, model.RoleInvestor, model.RoleInitiator:
	default:
		return fmt.Errorf("unknown persona %d", roleID)
	}
	result := l.db.Model(&model.User{}).Where("id = ?", userID).Update("last_role_id", roleID)
	if result.Error != nil {
		return fmt.Errorf("failed to switch persona: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("user %d: %w", userID, gorm.ErrRecordNotFound)
	}
	return nil
}

// GetByID loads the user with their settings, city and translations.
func (l *UserLogic) GetByID(userID uint) (*model.User, error) {
	var user model.User
	err := l.db.Preload("Setting").Preload("City").Preload("City.Area").
		Preload("City.Country").First(&user, userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user %d: %w", userID, gorm.ErrRecordNotFound)
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	user.Translations, err = l.localization.Load(model.OwnerTypeUser, user.ID)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Delete soft-deletes the user; their projects disappear from public listings
// through the owner check.
func (l *UserLogic) Delete(userID uint) error {
	result := l.db.Delete(&model.User{}, userID)
	if result.Error != nil {
		return fmt.Errorf("failed to delete user: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("user %d: %w", userID, gorm.ErrRecordNotFound)
	}
	return nil
}
