package logic

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/AndrewHnidets/demo-repositories/internal/event"
	"github.com/AndrewHnidets/demo-repositories/internal/localization"
	"github.com/AndrewHnidets/demo-repositories/internal/location"
	"github.com/AndrewHnidets/demo-repositories/internal/model"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

// projectLangFields are the project attributes kept per-locale.
var projectLangFields = []string{"name", "small_description", "description"}

// ProjectPage is one listing page.
type ProjectPage struct {
	Items       []model.Project `json:"items"`
	TotalRows   int64           `json:"total_rows"`
	TotalPages  int             `json:"total_pages"`
	CurrentPage int             `json:"current_page"`
	PageSize    int             `json:"page_size"`
}

// ProjectLogic orchestrates the project aggregate: the base record plus its
// areas, photos, partners, vacancies and localized text, written atomically.
type ProjectLogic struct {
	db           *gorm.DB
	images       ImageStore
	locations    *location.Service
	localization *localization.Service
	partners     *PartnerLogic
	vacancies    *VacancyLogic
	events       EventSink
}

func NewProjectLogic(db *gorm.DB, images ImageStore, locations *location.Service,
	loc *localization.Service, events EventSink) *ProjectLogic {
	return &ProjectLogic{
		db:           db,
		images:       images,
		locations:    locations,
		localization: loc,
		partners:     NewPartnerLogic(db),
		vacancies:    NewVacancyLogic(db, loc),
		events:       events,
	}
}

// CreateOrUpdate creates the project when projectID is nil, updates it
// otherwise. The whole orchestration runs in one transaction; any failure
// rolls everything back.
func (l *ProjectLogic) CreateOrUpdate(input ProjectInput, ownerID uint, projectID *uint) (*model.Project, error) {
	var project model.Project

	err := l.db.Transaction(func(tx *gorm.DB) error {
		formed, err := l.formData(tx, input, ownerID)
		if err != nil {
			return err
		}

		if projectID != nil {
			if err := tx.First(&project, *projectID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("project %d: %w", *projectID, gorm.ErrRecordNotFound)
				}
				return fmt.Errorf("failed to load project: %w", err)
			}

			// Slug is immutable after creation.
			err = tx.Model(&project).
				Select("name", "site", "goal", "in_work", "small_description", "status",
					"description", "budget", "time_in_release", "receive_messages",
					"is_published", "full_address", "user_id", "city_id").
				Updates(formed).Error
			if err != nil {
				return fmt.Errorf("failed to update project: %w", err)
			}
			if err := tx.First(&project, project.ID).Error; err != nil {
				return fmt.Errorf("failed to reload project: %w", err)
			}
			if project.IsPublished {
				l.events.Dispatch(event.ProjectUpdated{Project: &project})
			}
		} else {
			formed.Slug, err = l.makeSlug(tx, input.Name.Primary())
			if err != nil {
				return err
			}
			if err := tx.Create(&formed).Error; err != nil {
				return fmt.Errorf("failed to create project: %w", err)
			}
			project = formed
			if project.IsPublished {
				l.events.Dispatch(event.ProjectCreated{Project: &project})
			}
		}

		if err := l.saveAreas(tx, &project, input.AreaIDs); err != nil {
			return err
		}
		if err := l.saveLangFields(tx, project.ID, input); err != nil {
			return err
		}
		if err := l.savePhotos(tx, project.ID, input.Photos); err != nil {
			return err
		}
		if err := l.savePartnersAndVacancies(tx, input, project.ID); err != nil {
			return err
		}
		return l.fillGoalFromVacancies(tx, &project)
	})
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// formData maps the raw form onto persisted columns, denormalizing the
// primary-locale text and resolving the city.
func (l *ProjectLogic) formData(tx *gorm.DB, input ProjectInput, ownerID uint) (model.Project, error) {
	if input.Budget < 0 {
		return model.Project{}, fmt.Errorf("budget must be non-negative")
	}

	formed := model.Project{
		Name:             input.Name[model.PrimaryLocale],
		SmallDescription: input.SmallDescription[model.PrimaryLocale],
		Description:      input.Description[model.PrimaryLocale],
		Site:             input.Site,
		Goal:             model.ParseGoalTokens(input.Goals).Encode(),
		InWork:           input.InWork,
		Status:           model.ProjectStatus(input.Status),
		Budget:           input.Budget,
		TimeInRelease:    input.TimeInRelease,
		ReceiveMessages:  input.ReceiveMessages,
		IsPublished:      input.IsPublished,
		FullAddress:      input.FullAddress,
		UserID:           ownerID,
	}

	city, err := l.locations.ResolveOrCreateCity(tx, input.Address)
	if err != nil {
		return formed, err
	}
	if city != nil {
		formed.CityID = &city.ID
	}
	return formed, nil
}

// makeSlug slugifies the best-resolved name and appends -N, where N counts
// every existing slug (soft-deleted included) matching ^slug(-\d+)?$ plus
// one. Concurrent creates can race here; accepted.
func (l *ProjectLogic) makeSlug(tx *gorm.DB, name string) (string, error) {
	base := slug.Make(name)

	var existing []string
	err := tx.Unscoped().Model(&model.Project{}).
		Where("slug LIKE ?", base+"%").
		Pluck("slug", &existing).Error
	if err != nil {
		return "", fmt.Errorf("failed to inspect slugs: %w", err)
	}

	re := regexp.MustCompile("^" + regexp.QuoteMeta(base) + "(-[0-9]+)?$")
	count := 1
	for _, s := range existing {
		if re.MatchString(s) {
			count++
		}
	}
	return fmt.Sprintf("%s-%d", base, count), nil
}

// saveAreas syncs the many-to-many area set to exactly the provided ids.
func (l *ProjectLogic) saveAreas(tx *gorm.DB, project *model.Project, areaIDs []uint) error {
	if areaIDs == nil {
		return nil
	}
	areas := make([]model.ProjectArea, len(areaIDs))
	for i, id := range areaIDs {
		areas[i] = model.ProjectArea{ID: id}
	}
	if err := tx.Model(project).Association("Areas").Replace(&areas); err != nil {
		return fmt.Errorf("failed to sync project areas: %w", err)
	}
	return nil
}

func (l *ProjectLogic) saveLangFields(tx *gorm.DB, projectID uint, input ProjectInput) error {
	return l.localization.SaveFields(tx, model.OwnerTypeProject, projectID, map[string]model.LocalizedField{
		"name":              input.Name,
		"small_description": input.SmallDescription,
		"description":       input.Description,
	})
}

// savePhotos stores each upload and creates its row. Existing photos stay
// untouched; removal goes through RemoveFile.
func (l *ProjectLogic) savePhotos(tx *gorm.DB, projectID uint, photos []PhotoUpload) error {
	for _, upload := range photos {
		ref, err := l.images.Store(upload.Reader, model.ProjectPhotoPath, upload.Name)
		if err != nil {
			return fmt.Errorf("failed to store photo: %w", err)
		}
		photo := model.ProjectPhoto{ProjectID: projectID, Image: ref}
		if err := tx.Create(&photo).Error; err != nil {
			return fmt.Errorf("failed to save photo: %w", err)
		}
	}
	return nil
}

func (l *ProjectLogic) savePartnersAndVacancies(tx *gorm.DB, input ProjectInput, projectID uint) error {
	if input.Partners.shouldReplace() {
		if err := l.partners.CreateOrUpdate(tx, input.Partners, projectID); err != nil {
			return err
		}
	} else if err := l.partners.Remove(tx, projectID); err != nil {
		return err
	}

	if input.Vacancies.shouldReplace() {
		return l.vacancies.CreateOrUpdate(tx, input.Vacancies, projectID)
	}
	return l.vacancies.Remove(tx, projectID)
}

// fillGoalFromVacancies derives goal token 3 from the just-reconciled
// vacancy set.
func (l *ProjectLogic) fillGoalFromVacancies(tx *gorm.DB, project *model.Project) error {
	count, err := l.vacancies.Count(tx, project.ID)
	if err != nil {
		return err
	}
	if count > 0 {
		project.AddGoal(model.GoalVacancies)
	} else {
		project.RemoveGoal(model.GoalVacancies)
	}
	if err := tx.Model(project).Update("goal", project.Goal).Error; err != nil {
		return fmt.Errorf("failed to update goal: %w", err)
	}
	return nil
}

// Delete soft-deletes the project.
func (l *ProjectLogic) Delete(id uint) error {
	return l.db.Transaction(func(tx *gorm.DB) error {
		var project model.Project
		if err := tx.First(&project, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("project %d: %w", id, gorm.ErrRecordNotFound)
			}
			return fmt.Errorf("failed to load project: %w", err)
		}
		if err := tx.Delete(&project).Error; err != nil {
			return fmt.Errorf("failed to delete project: %w", err)
		}
		return nil
	})
}

// RemoveFile hard-deletes one photo of the project together with its stored
// binary. Returns false when no such photo exists.
func (l *ProjectLogic) RemoveFile(projectID, photoID uint) (bool, error) {
	removed := false
	err := l.db.Transaction(func(tx *gorm.DB) error {
		var photo model.ProjectPhoto
		err := tx.Where("project_id = ?", projectID).First(&photo, photoID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to load photo: %w", err)
		}
		removed, err = l.cleanUpFile(tx, &photo)
		return err
	})
	return removed, err
}

func (l *ProjectLogic) cleanUpFile(tx *gorm.DB, photo *model.ProjectPhoto) (bool, error) {
	if photo == nil {
		return false, nil
	}
	if err := l.images.Delete(photo.Image); err != nil {
		return false, err
	}
	if err := tx.Delete(photo).Error; err != nil {
		return false, fmt.Errorf("failed to delete photo: %w", err)
	}
	return true, nil
}

// CleanUp removes every photo of the project. Returns false when there is
// nothing to remove.
func (l *ProjectLogic) CleanUp(projectID uint) (bool, error) {
	cleaned := false
	err := l.db.Transaction(func(tx *gorm.DB) error {
		var photos []model.ProjectPhoto
		if err := tx.Where("project_id = ?", projectID).Find(&photos).Error; err != nil {
			return fmt.Errorf("failed to load photos: %w", err)
		}
		if len(photos) == 0 {
			return nil
		}
		for i := range photos {
			if _, err := l.cleanUpFile(tx, &photos[i]); err != nil {
				return err
			}
		}
		cleaned = true
		return nil
	})
	return cleaned, err
}

// Paginate returns one listing page with every relation eagerly loaded.
func (l *ProjectLogic) Paginate(filters ListingFilters, viewer *model.User) (*ProjectPage, error) {
	query := l.db.Model(&model.Project{}).Scopes(filters.Scopes(viewer)...)

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count projects: %w", err)
	}

	page := filters.Page
	if page < 1 {
		page = 1
	}

	var projects []model.Project
	err := l.withAllRelations(query, viewer).
		Order("created_at " + filters.OrderDirection()).
		Offset((page - 1) * model.PaginateCount).
		Limit(model.PaginateCount).
		Find(&projects).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load projects: %w", err)
	}

	if err := l.attachTranslations(projects); err != nil {
		return nil, err
	}
	if err := l.attachActiveChatCounts(viewer, projects); err != nil {
		return nil, err
	}

	totalPages := int((total + model.PaginateCount - 1) / model.PaginateCount)
	return &ProjectPage{
		Items:       projects,
		TotalRows:   total,
		TotalPages:  totalPages,
		CurrentPage: page,
		PageSize:    model.PaginateCount,
	}, nil
}

// GetPublishedBySlug loads a project for public viewing. Soft-deleted
// projects stay resolvable by slug; projects of deleted owners do not.
func (l *ProjectLogic) GetPublishedBySlug(slugKey string, viewer *model.User) (*model.Project, error) {
	query := l.db.Unscoped().Model(&model.Project{}).
		Where("slug = ? AND is_published = ?", slugKey, true).
		Scopes(scopeOwnerNotDeleted())

	var project model.Project
	if err := l.withAllRelations(query, viewer).First(&project).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("project %s: %w", slugKey, gorm.ErrRecordNotFound)
		}
		return nil, fmt.Errorf("failed to load project: %w", err)
	}

	projects := []model.Project{project}
	if err := l.attachTranslations(projects); err != nil {
		return nil, err
	}
	if err := l.attachActiveChatCounts(viewer, projects); err != nil {
		return nil, err
	}
	return &projects[0], nil
}

// GetOwnersBySlug loads the owner's own project regardless of publish state.
func (l *ProjectLogic) GetOwnersBySlug(slugKey string, ownerID uint) (*model.Project, error) {
	query := l.db.Model(&model.Project{}).
		Where("slug = ? AND user_id = ?", slugKey, ownerID)

	var project model.Project
	if err := l.withAllRelations(query, nil).First(&project).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("project %s: %w", slugKey, gorm.ErrRecordNotFound)
		}
		return nil, fmt.Errorf("failed to load project: %w", err)
	}

	projects := []model.Project{project}
	if err := l.attachTranslations(projects); err != nil {
		return nil, err
	}
	return &projects[0], nil
}

// GetByID loads the bare project record.
func (l *ProjectLogic) GetByID(id uint) (*model.Project, error) {
	var project model.Project
	if err := l.db.First(&project, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("project %d: %w", id, gorm.ErrRecordNotFound)
		}
		return nil, fmt.Errorf("failed to load project: %w", err)
	}
	return &project, nil
}

// MaxPriceRangeValue is the largest budget among all projects, 0 when none.
func (l *ProjectLogic) MaxPriceRangeValue() (int64, error) {
	var max int64
	err := l.db.Model(&model.Project{}).
		Select("COALESCE(MAX(budget), 0)").
		Scan(&max).Error
	if err != nil {
		return 0, fmt.Errorf("failed to load max budget: %w", err)
	}
	return max, nil
}

// AddViews applies drained view counters to the projects table.
func (l *ProjectLogic) AddViews(counts map[uint]int64) error {
	for id, n := range counts {
		err := l.db.Model(&model.Project{}).
			Where("id = ?", id).
			Update("views", gorm.Expr("views + ?", n)).Error
		if err != nil {
			return fmt.Errorf("failed to add views to project %d: %w", id, err)
		}
	}
	return nil
}

// withAllRelations attaches the eager loads every read path shares. Chat
// rooms are loaded only for the viewer's own conversations.
func (l *ProjectLogic) withAllRelations(query *gorm.DB, viewer *model.User) *gorm.DB {
	return query.
		Preload("City").
		Preload("City.Area").
		Preload("City.Country").
		Preload("Areas").
		Preload("Partners").
		Preload("Partners.Role").
		Preload("Vacancies").
		Preload("Photos").
		Preload("User", func(db *gorm.DB) *gorm.DB { return db.Unscoped() }).
		Preload("User.Setting").
		Preload("ChatRooms", func(db *gorm.DB) *gorm.DB {
			if viewer == nil {
				return db.Where("1 = 0")
			}
			return db.Where(`EXISTS (
					SELECT 1 FROM chat_user_room
					WHERE chat_user_room.room_id = chat_room.id
					  AND chat_user_room.user_id = ?
					  AND chat_user_room.role_id = ?
				)`, viewer.ID, viewer.LastRoleID).
				Where(`EXISTS (
					SELECT 1 FROM chat_user_room
					WHERE chat_user_room.room_id = chat_room.id
					  AND chat_user_room.user_id <> ?
					  AND chat_user_room.role_id = ?
				)`, viewer.ID, model.RoleInitiator)
		})
}

// attachTranslations batch-loads localized fields for the page's projects,
// their owners and vacancies.
func (l *ProjectLogic) attachTranslations(projects []model.Project) error {
	if len(projects) == 0 {
		return nil
	}

	projectIDs := make([]uint, 0, len(projects))
	ownerIDs := make([]uint, 0, len(projects))
	var vacancyIDs []uint
	for i := range projects {
		projectIDs = append(projectIDs, projects[i].ID)
		ownerIDs = append(ownerIDs, projects[i].UserID)
		for j := range projects[i].Vacancies {
			vacancyIDs = append(vacancyIDs, projects[i].Vacancies[j].ID)
		}
	}

	projectTr, err := l.localization.LoadMany(model.OwnerTypeProject, projectIDs)
	if err != nil {
		return err
	}
	ownerTr, err := l.localization.LoadMany(model.OwnerTypeUser, ownerIDs)
	if err != nil {
		return err
	}
	vacancyTr, err := l.localization.LoadMany(model.OwnerTypeVacancy, vacancyIDs)
	if err != nil {
		return err
	}

	for i := range projects {
		projects[i].Translations = projectTr[projects[i].ID]
		if projects[i].User != nil {
			projects[i].User.Translations = ownerTr[projects[i].UserID]
		}
		for j := range projects[i].Vacancies {
			projects[i].Vacancies[j].Translations = vacancyTr[projects[i].Vacancies[j].ID]
		}
	}
	return nil
}

// attachActiveChatCounts fills ActiveChatRoomCount: rooms of each project
// where the viewer sits under their active persona and a request message has
// been accepted.
func (l *ProjectLogic) attachActiveChatCounts(viewer *model.User, projects []model.Project) error {
	if viewer == nil || len(projects) == 0 {
		return nil
	}

	ids := make([]uint, len(projects))
	for i := range projects {
		ids[i] = projects[i].ID
	}

	var rows []struct {
		RelationID uint
		Total      int64
	}
	err := l.db.Model(&model.ChatRoom{}).
		Select("relation_id, COUNT(*) AS total").
		Where("relation_type = ? AND relation_id IN ?", model.ChatRelationProject, ids).
		Where(`EXISTS (
			SELECT 1 FROM chat_user_room
			WHERE chat_user_room.room_id = chat_room.id
			  AND chat_user_room.user_id = ?
			  AND chat_user_room.role_id = ?
		)`, viewer.ID, viewer.LastRoleID).
		Where(`EXISTS (
			SELECT 1 FROM chat_message
			WHERE chat_message.room_id = chat_room.id
			  AND chat_message.type_id = ?
			  AND chat_message.is_accepted = 1
		)`, model.ChatMessageTypeRequest).
		Group("relation_id").
		Scan(&rows).Error
	if err != nil {
		return fmt.Errorf("failed to count active chat rooms: %w", err)
	}

	counts := make(map[uint]int64, len(rows))
	for _, row := range rows {
		counts[row.RelationID] = row.Total
	}
	for i := range projects {
		projects[i].ActiveChatRoomCount = counts[projects[i].ID]
	}
	return nil
}
