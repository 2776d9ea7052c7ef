package handler

import (
	"github.com/AndrewHnidets/demo-repositories/internal/location"
	"github.com/AndrewHnidets/demo-repositories/internal/logic"
	"github.com/AndrewHnidets/demo-repositories/internal/model"
)

// Response is the common envelope.
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

// RegisterRequest creates an account.
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Locale   string `json:"locale"`
}

// LoginRequest exchanges credentials for a token.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// TokenResponse carries the issued access token.
type TokenResponse struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

// UpdatePasswordRequest rotates the password.
type UpdatePasswordRequest struct {
	Password string `json:"password" binding:"required,min=8"`
}

// SettingsRequest carries the full visibility flag set.
type SettingsRequest struct {
	HideSurname  bool `json:"hide_surname"`
	HideEmail    bool `json:"hide_email"`
	HidePhone    bool `json:"hide_phone"`
	HideFacebook bool `json:"hide_facebook"`
	HideLinkedin bool `json:"hide_linkedin"`
}

// PersonaRequest switches the active persona.
type PersonaRequest struct {
	RoleID uint `json:"role_id" binding:"required"`
}

// ProfileRequest is the profile form; localized fields are keyed by locale.
type ProfileRequest struct {
	Name    map[string]string `json:"name"`
	Surname map[string]string `json:"surname"`

	Phone    string `json:"phone"`
	Linkedin string `json:"linkedin"`
	Facebook string `json:"facebook"`

	HideSurname bool   `json:"hide_surname"`
	Locale      string `json:"locale"`

	Address *location.AddressInput `json:"address"`
}

func (r ProfileRequest) toInput() logic.UserInput {
	return logic.UserInput{
		Name:         toLocalizedField(r.Name),
		Surname:      toLocalizedField(r.Surname),
		Phone:        r.Phone,
		Linkedin:     r.Linkedin,
		Facebook:     r.Facebook,
		HideSurname:  r.HideSurname,
		ActiveLocale: model.Locale(r.Locale),
		Address:      r.Address,
	}
}

// PartnerRequest carries the parallel partner slots of the project form.
type PartnerRequest struct {
	IDs     []uint   `json:"ids"`
	RoleIDs []uint   `json:"role_ids"`
	Names   []string `json:"names"`
	Links   []string `json:"links"`
}

// VacancyRequest carries the vacancy slots; names and descriptions are
// per-locale parallel slices.
type VacancyRequest struct {
	IDs          []uint              `json:"ids"`
	Names        map[string][]string `json:"names"`
	Descriptions map[string][]string `json:"descriptions"`
}

// ProjectRequest is the project form. ProjectAreas nil leaves the area set
// untouched; an empty list clears it.
type ProjectRequest struct {
	Name             map[string]string `json:"name"`
	SmallDescription map[string]string `json:"small_description"`
	Description      map[string]string `json:"description"`

	Site            string   `json:"site"`
	Goals           []string `json:"goal"`
	InWork          string   `json:"in_work"`
	Status          int      `json:"status"`
	Budget          int64    `json:"budget"`
	TimeInRelease   int      `json:"time_in_release"`
	ReceiveMessages bool     `json:"receive_messages"`
	IsPublished     bool     `json:"is_published"`
	FullAddress     string   `json:"full_address"`

	Address      *location.AddressInput `json:"address"`
	ProjectAreas []uint                 `json:"project_area"`

	Partners  PartnerRequest `json:"partners"`
	Vacancies VacancyRequest `json:"vacancies"`
}

func (r ProjectRequest) toInput() logic.ProjectInput {
	return logic.ProjectInput{
		Name:             toLocalizedField(r.Name),
		SmallDescription: toLocalizedField(r.SmallDescription),
		Description:      toLocalizedField(r.Description),
		Site:             r.Site,
		Goals:            r.Goals,
		InWork:           r.InWork,
		Status:           r.Status,
		Budget:           r.Budget,
		TimeInRelease:    r.TimeInRelease,
		ReceiveMessages:  r.ReceiveMessages,
		IsPublished:      r.IsPublished,
		FullAddress:      r.FullAddress,
		Address:          r.Address,
		AreaIDs:          r.ProjectAreas,
		Partners: logic.PartnerInput{
			IDs:     r.Partners.IDs,
			RoleIDs: r.Partners.RoleIDs,
			Names:   r.Partners.Names,
			Links:   r.Partners.Links,
		},
		Vacancies: logic.VacancyInput{
			IDs:          r.Vacancies.IDs,
			Names:        toLocalizedLists(r.Vacancies.Names),
			Descriptions: toLocalizedLists(r.Vacancies.Descriptions),
		},
	}
}

func toLocalizedField(values map[string]string) model.LocalizedField {
	field := model.LocalizedField{}
	for locale, value := range values {
		field[model.Locale(locale)] = value
	}
	return field
}

func toLocalizedLists(values map[string][]string) map[model.Locale][]string {
	result := make(map[model.Locale][]string, len(values))
	for locale, list := range values {
		result[model.Locale(locale)] = list
	}
	return result
}

// ContactResponse is the visibility-filtered contact card of a project owner.
type ContactResponse struct {
	FullName string `json:"full_name"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Facebook string `json:"facebook,omitempty"`
	Linkedin string `json:"linkedin,omitempty"`
}

// ToContactResponse applies the project-scoped visibility rules for the
// viewer; pass the owner as viewer to see everything the owner allows itself.
func ToContactResponse(project *model.Project, viewer *model.User, locale model.Locale) ContactResponse {
	owner := project.User
	if owner == nil {
		return ContactResponse{}
	}

	contact := ContactResponse{FullName: owner.LangAttribute("name", locale)}
	if project.CanBrowseSurname(viewer) {
		contact.FullName = owner.FullName(locale)
	}
	if project.CanBrowseEmail(viewer) {
		contact.Email = owner.Email
	}
	if project.CanBrowsePhone(viewer) {
		contact.Phone = owner.Phone
	}
	if project.CanBrowseFacebook(viewer) {
		contact.Facebook = owner.Facebook
	}
	if project.CanBrowseLinkedin(viewer) {
		contact.Linkedin = owner.Linkedin
	}
	return contact
}

// ProjectResponse augments the project record with the filtered owner card.
type ProjectResponse struct {
	*model.Project
	Contact ContactResponse `json:"contact"`
}

func ToProjectResponse(project *model.Project, viewer *model.User, locale model.Locale) ProjectResponse {
	return ProjectResponse{
		Project: project,
		Contact: ToContactResponse(project, viewer, locale),
	}
}

func ToProjectResponseList(projects []model.Project, viewer *model.User, locale model.Locale) []ProjectResponse {
	out := make([]ProjectResponse, len(projects))
	for i := range projects {
		out[i] = ToProjectResponse(&projects[i], viewer, locale)
	}
	return out
}

// ProfileResponse is the owner's own profile view.
type ProfileResponse struct {
	*model.User
	ProfileFullness int `json:"profile_fullness"`
}

func ToProfileResponse(user *model.User) ProfileResponse {
	return ProfileResponse{
		User:            user,
		ProfileFullness: user.ProfileFullnessPercentage(model.Locale(user.Locale)),
	}
}
