package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/AndrewHnidets/demo-repositories/internal/cache"
	"github.com/AndrewHnidets/demo-repositories/internal/logger"
	"github.com/AndrewHnidets/demo-repositories/internal/logic"
	"github.com/AndrewHnidets/demo-repositories/internal/middleware"
	"github.com/AndrewHnidets/demo-repositories/internal/model"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ProjectHandler serves the project surface: listing, detail, the owner's
// CRUD and photo management.
type ProjectHandler struct {
	projects *logic.ProjectLogic
	views    *cache.ViewCounter
}

func NewProjectHandler(projects *logic.ProjectLogic, views *cache.ViewCounter) *ProjectHandler {
	return &ProjectHandler{projects: projects, views: views}
}

// List returns one listing page. `my=1` restricts it to the caller's own
// projects, drafts included.
func (h *ProjectHandler) List(c *gin.Context) {
	viewer := middleware.CurrentUser(c)

	filters := logic.ParseListingFilters(c.Request.URL.Query())
	if c.Query("my") == "1" {
		if viewer == nil {
			ErrorResponse(c, http.StatusUnauthorized, "unauthorized")
			return
		}
		filters.OwnerID = &viewer.ID
	}

	page, err := h.projects.Paginate(filters, viewer)
	if err != nil {
		ErrorResponse(c, http.StatusInternalServerError, "failed to load projects")
		return
	}

	SuccessResponse(c, http.StatusOK, "projects loaded", gin.H{
		"items":        ToProjectResponseList(page.Items, viewer, viewerLocale(viewer)),
		"total_rows":   page.TotalRows,
		"total_pages":  page.TotalPages,
		"current_page": page.CurrentPage,
		"page_size":    page.PageSize,
	})
}

// Get returns one published project by slug and counts the view.
func (h *ProjectHandler) Get(c *gin.Context) {
	viewer := middleware.CurrentUser(c)

	project, err := h.projects.GetPublishedBySlug(c.Param("slug"), viewer)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ErrorResponse(c, http.StatusNotFound, "project not found")
			return
		}
		ErrorResponse(c, http.StatusInternalServerError, "failed to load project")
		return
	}

	// Views are buffered in redis and flushed on a schedule; a miss here
	// never fails the request.
	if !project.IsOwnedBy(viewer) {
		if err := h.views.Increment(c.Request.Context(), project.ID); err != nil {
			logger.Warn("Failed to count view for project %d: %v", project.ID, err)
		}
	}

	SuccessResponse(c, http.StatusOK, "project loaded", ToProjectResponse(project, viewer, viewerLocale(viewer)))
}

// GetOwn returns the caller's own project by slug, published or not.
func (h *ProjectHandler) GetOwn(c *gin.Context) {
	viewer := middleware.CurrentUser(c)

	project, err := h.projects.GetOwnersBySlug(c.Param("slug"), viewer.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ErrorResponse(c, http.StatusNotFound, "project not found")
			return
		}
		ErrorResponse(c, http.StatusInternalServerError, "failed to load project")
		return
	}
	SuccessResponse(c, http.StatusOK, "project loaded", ToProjectResponse(project, viewer, viewerLocale(viewer)))
}

// Create builds a new project from the form.
func (h *ProjectHandler) Create(c *gin.Context) {
	viewer := middleware.CurrentUser(c)

	input, ok := h.bindProject(c)
	if !ok {
		return
	}

	project, err := h.projects.CreateOrUpdate(input, viewer.ID, nil)
	if err != nil {
		ErrorResponse(c, http.StatusInternalServerError, "failed to create project")
		return
	}
	SuccessResponse(c, http.StatusCreated, "project created", project)
}

// Update applies the form to an existing project of the caller.
func (h *ProjectHandler) Update(c *gin.Context) {
	viewer := middleware.CurrentUser(c)

	projectID, ok := h.ownProjectID(c, viewer)
	if !ok {
		return
	}

	input, ok := h.bindProject(c)
	if !ok {
		return
	}

	project, err := h.projects.CreateOrUpdate(input, viewer.ID, &projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ErrorResponse(c, http.StatusNotFound, "project not found")
			return
		}
		ErrorResponse(c, http.StatusInternalServerError, "failed to update project")
		return
	}
	SuccessResponse(c, http.StatusOK, "project updated", project)
}

// Delete soft-deletes the caller's project.
func (h *ProjectHandler) Delete(c *gin.Context) {
	viewer := middleware.CurrentUser(c)

	projectID, ok := h.ownProjectID(c, viewer)
	if !ok {
		return
	}

	if err := h.projects.Delete(projectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ErrorResponse(c, http.StatusNotFound, "project not found")
			return
		}
		ErrorResponse(c, http.StatusInternalServerError, "failed to delete project")
		return
	}
	SuccessResponse(c, http.StatusOK, "project deleted", nil)
}

// RemovePhoto deletes one photo of the caller's project.
func (h *ProjectHandler) RemovePhoto(c *gin.Context) {
	viewer := middleware.CurrentUser(c)

	projectID, ok := h.ownProjectID(c, viewer)
	if !ok {
		return
	}
	photoID, err := strconv.ParseUint(c.Param("photoId"), 10, 32)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "invalid photo id")
		return
	}

	removed, err := h.projects.RemoveFile(projectID, uint(photoID))
	if err != nil {
		ErrorResponse(c, http.StatusInternalServerError, "failed to remove photo")
		return
	}
	if !removed {
		ErrorResponse(c, http.StatusNotFound, "photo not found")
		return
	}
	SuccessResponse(c, http.StatusOK, "photo removed", nil)
}

// CleanUpPhotos deletes every photo of the caller's project.
func (h *ProjectHandler) CleanUpPhotos(c *gin.Context) {
	viewer := middleware.CurrentUser(c)

	projectID, ok := h.ownProjectID(c, viewer)
	if !ok {
		return
	}

	cleaned, err := h.projects.CleanUp(projectID)
	if err != nil {
		ErrorResponse(c, http.StatusInternalServerError, "failed to remove photos")
		return
	}
	SuccessResponse(c, http.StatusOK, "photos removed", gin.H{"cleaned": cleaned})
}

// MaxPrice returns the upper bound for the price range filter.
func (h *ProjectHandler) MaxPrice(c *gin.Context) {
	max, err := h.projects.MaxPriceRangeValue()
	if err != nil {
		ErrorResponse(c, http.StatusInternalServerError, "failed to load max price")
		return
	}
	SuccessResponse(c, http.StatusOK, "max price loaded", gin.H{"max": max})
}

// ownProjectID parses the id parameter and verifies ownership.
func (h *ProjectHandler) ownProjectID(c *gin.Context, viewer *model.User) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "invalid project id")
		return 0, false
	}

	project, err := h.projects.GetByID(uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ErrorResponse(c, http.StatusNotFound, "project not found")
			return 0, false
		}
		ErrorResponse(c, http.StatusInternalServerError, "failed to load project")
		return 0, false
	}
	if !project.IsOwnedBy(viewer) {
		ErrorResponse(c, http.StatusForbidden, "forbidden")
		return 0, false
	}
	return uint(id), true
}

// bindProject reads the project form: either plain JSON or a multipart
// request with a JSON `payload` part and `photos` files.
func (h *ProjectHandler) bindProject(c *gin.Context) (logic.ProjectInput, bool) {
	var req ProjectRequest

	form, err := c.MultipartForm()
	if err != nil {
		if err := c.ShouldBindJSON(&req); err != nil {
			ErrorResponse(c, http.StatusBadRequest, "invalid project payload")
			return logic.ProjectInput{}, false
		}
		return req.toInput(), true
	}

	payloads := form.Value["payload"]
	if len(payloads) == 0 || json.Unmarshal([]byte(payloads[0]), &req) != nil {
		ErrorResponse(c, http.StatusBadRequest, "invalid project payload")
		return logic.ProjectInput{}, false
	}
	input := req.toInput()

	for _, file := range form.File["photos"] {
		f, err := file.Open()
		if err != nil {
			ErrorResponse(c, http.StatusBadRequest, "invalid photo upload")
			return logic.ProjectInput{}, false
		}
		// Request-scoped; the server releases multipart files afterwards.
		input.Photos = append(input.Photos, logic.PhotoUpload{Name: file.Filename, Reader: f})
	}
	return input, true
}

func viewerLocale(viewer *model.User) model.Locale {
	if viewer != nil && model.IsSupportedLocale(viewer.Locale) {
		return model.Locale(viewer.Locale)
	}
	return model.PrimaryLocale
}
