package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/AndrewHnidets/demo-repositories/internal/logic"
	"github.com/AndrewHnidets/demo-repositories/internal/middleware"
	"github.com/AndrewHnidets/demo-repositories/internal/model"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// UserHandler serves the authenticated profile surface.
type UserHandler struct {
	users *logic.UserLogic
}

func NewUserHandler(users *logic.UserLogic) *UserHandler {
	return &UserHandler{users: users}
}

// GetProfile returns the caller's own profile.
func (h *UserHandler) GetProfile(c *gin.Context) {
	viewer := middleware.CurrentUser(c)

	user, err := h.users.GetByID(viewer.ID)
	if err != nil {
		ErrorResponse(c, http.StatusInternalServerError, "failed to load profile")
		return
	}
	SuccessResponse(c, http.StatusOK, "profile loaded", ToProfileResponse(user))
}

// UpdateProfile applies the profile form. An avatar can ride along as the
// multipart `avatar` file next to the JSON `payload` part.
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	viewer := middleware.CurrentUser(c)

	var req ProfileRequest
	var input logic.UserInput

	if form, err := c.MultipartForm(); err == nil {
		payloads := form.Value["payload"]
		if len(payloads) == 0 || json.Unmarshal([]byte(payloads[0]), &req) != nil {
			ErrorResponse(c, http.StatusBadRequest, "invalid profile payload")
			return
		}
		input = req.toInput()

		if files := form.File["avatar"]; len(files) > 0 {
			f, err := files[0].Open()
			if err != nil {
				ErrorResponse(c, http.StatusBadRequest, "invalid avatar upload")
				return
			}
			defer f.Close()
			input.Avatar = &logic.PhotoUpload{Name: files[0].Filename, Reader: f}
		}
	} else {
		if err := c.ShouldBindJSON(&req); err != nil {
			ErrorResponse(c, http.StatusBadRequest, "invalid profile payload")
			return
		}
		input = req.toInput()
	}

	user, err := h.users.Update(viewer.ID, input)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ErrorResponse(c, http.StatusNotFound, "user not found")
			return
		}
		ErrorResponse(c, http.StatusInternalServerError, "failed to update profile")
		return
	}
	SuccessResponse(c, http.StatusOK, "profile updated", ToProfileResponse(user))
}

// UpdatePassword rotates the caller's password.
func (h *UserHandler) UpdatePassword(c *gin.Context) {
	viewer := middleware.CurrentUser(c)

	var req UpdatePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "invalid password payload")
		return
	}

	if err := h.users.UpdatePassword(viewer.ID, req.Password); err != nil {
		ErrorResponse(c, http.StatusInternalServerError, "failed to update password")
		return
	}
	SuccessResponse(c, http.StatusOK, "password updated", nil)
}

// UpdateSettings writes the visibility flags.
func (h *UserHandler) UpdateSettings(c *gin.Context) {
	viewer := middleware.CurrentUser(c)

	var req SettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "invalid settings payload")
		return
	}

	err := h.users.UpdateSettings(viewer.ID, model.UserSetting{
		HideSurname:  req.HideSurname,
		HideEmail:    req.HideEmail,
		HidePhone:    req.HidePhone,
		HideFacebook: req.HideFacebook,
		HideLinkedin: req.HideLinkedin,
	})
	if err != nil {
		ErrorResponse(c, http.StatusInternalServerError, "failed to update settings")
		return
	}
	SuccessResponse(c, http.StatusOK, "settings updated", nil)
}

// UpdateAvatar stores a standalone avatar upload.
func (h *UserHandler) UpdateAvatar(c *gin.Context) {
	viewer := middleware.CurrentUser(c)

	file, err := c.FormFile("avatar")
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "missing avatar upload")
		return
	}
	f, err := file.Open()
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "invalid avatar upload")
		return
	}
	defer f.Close()

	ref, err := h.users.UpdateAvatarWithUserID(viewer.ID, logic.PhotoUpload{
		Name:   file.Filename,
		Reader: f,
	})
	if err != nil {
		ErrorResponse(c, http.StatusInternalServerError, "failed to update avatar")
		return
	}
	SuccessResponse(c, http.StatusOK, "avatar updated", gin.H{"avatar": ref})
}

// ResetAvatar restores the default avatar.
func (h *UserHandler) ResetAvatar(c *gin.Context) {
	viewer := middleware.CurrentUser(c)

	if err := h.users.UpdateAvatarToDefault(viewer.ID); err != nil {
		ErrorResponse(c, http.StatusInternalServerError, "failed to reset avatar")
		return
	}
	SuccessResponse(c, http.StatusOK, "avatar reset", gin.H{"avatar": model.DefaultAvatar})
}

// SwitchPersona sets the active persona.
func (h *UserHandler) SwitchPersona(c *gin.Context) {
	viewer := middleware.CurrentUser(c)

	var req PersonaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "invalid persona payload")
		return
	}

	if err := h.users.SwitchPersona(viewer.ID, req.RoleID); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "failed to switch persona")
		return
	}
	SuccessResponse(c, http.StatusOK, "persona switched", nil)
}

// DeleteAccount soft-deletes the caller's account.
func (h *UserHandler) DeleteAccount(c *gin.Context) {
	viewer := middleware.CurrentUser(c)

	if err := h.users.Delete(viewer.ID); err != nil {
		ErrorResponse(c, http.StatusInternalServerError, "failed to delete account")
		return
	}
	SuccessResponse(c, http.StatusOK, "account deleted", nil)
}
