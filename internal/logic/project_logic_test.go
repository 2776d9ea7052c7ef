package logic

import (
	"errors"
	"strings"
	"testing"

	"github.com/AndrewHnidets/demo-repositories/internal/event"
	"github.com/AndrewHnidets/demo-repositories/internal/model"
	"gorm.io/gorm"
)

func publishedInput(name string) ProjectInput {
	return ProjectInput{
		Name:        model.LocalizedField{model.LocaleUK: name},
		Goals:       []string{"1"},
		Status:      int(model.ProjectStatusOpen),
		IsPublished: true,
	}
}

func TestCreateProjectSlugSequence(t *testing.T) {
	db := openTestDB(t)
	l, _, _ := newTestProjectLogic(t, db)
	owner := seedUser(t, db, "owner@test")

	first, err := l.CreateOrUpdate(publishedInput("Cool Project"), owner.ID, nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if first.Slug != "cool-project-1" {
		t.Errorf("expected cool-project-1, got %q", first.Slug)
	}

	second, err := l.CreateOrUpdate(publishedInput("Cool Project"), owner.ID, nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if second.Slug != "cool-project-2" {
		t.Errorf("expected cool-project-2, got %q", second.Slug)
	}

	// Soft-deleted projects still occupy their slug.
	if err := l.Delete(second.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	third, err := l.CreateOrUpdate(publishedInput("Cool Project"), owner.ID, nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if third.Slug != "cool-project-3" {
		t.Errorf("expected cool-project-3, got %q", third.Slug)
	}
}

func TestUpdateKeepsSlug(t *testing.T) {
	db := openTestDB(t)
	l, _, _ := newTestProjectLogic(t, db)
	owner := seedUser(t, db, "owner@test")

	created, err := l.CreateOrUpdate(publishedInput("Original Name"), owner.ID, nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := l.CreateOrUpdate(publishedInput("Different Name"), owner.ID, &created.ID)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Slug != created.Slug {
		t.Errorf("slug changed from %q to %q", created.Slug, updated.Slug)
	}
	if updated.Name != "Different Name" {
		t.Errorf("expected renamed project, got %q", updated.Name)
	}
}

func TestVacanciesDriveGoalToken(t *testing.T) {
	db := openTestDB(t)
	l, _, _ := newTestProjectLogic(t, db)
	owner := seedUser(t, db, "owner@test")

	input := publishedInput("Hiring Project")
	input.Vacancies = VacancyInput{
		Names: map[model.Locale][]string{model.LocaleUK: {"Engineer", "Designer"}},
	}

	created, err := l.CreateOrUpdate(input, owner.ID, nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !created.HasGoal(model.GoalVacancies) {
		t.Errorf("expected derived vacancy goal, got %q", created.Goal)
	}

	var count int64
	db.Model(&model.Vacancy{}).Where("project_id = ?", created.ID).Count(&count)
	if count != 2 {
		t.Errorf("expected 2 vacancies, got %d", count)
	}

	// An empty submission clears the vacancies and the derived token.
	cleared, err := l.CreateOrUpdate(publishedInput("Hiring Project"), owner.ID, &created.ID)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if cleared.HasGoal(model.GoalVacancies) {
		t.Errorf("expected vacancy goal removed, got %q", cleared.Goal)
	}
	db.Model(&model.Vacancy{}).Where("project_id = ?", created.ID).Count(&count)
	if count != 0 {
		t.Errorf("expected vacancies removed, got %d", count)
	}
}

func TestPartnersReplaceOrClear(t *testing.T) {
	db := openTestDB(t)
	l, _, _ := newTestProjectLogic(t, db)
	owner := seedUser(t, db, "owner@test")

	input := publishedInput("Team Project")
	input.Partners = PartnerInput{RoleIDs: []uint{3}, Names: []string{"Anna"}, Links: []string{"example.com"}}

	created, err := l.CreateOrUpdate(input, owner.ID, nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	var partners []model.Partner
	db.Where("project_id = ?", created.ID).Find(&partners)
	if len(partners) != 1 || partners[0].Name != "Anna" {
		t.Fatalf("expected one partner Anna, got %v", partners)
	}

	// First role slot empty and a single id: the list counts as absent and
	// the stored partners are cleared.
	if _, err := l.CreateOrUpdate(publishedInput("Team Project"), owner.ID, &created.ID); err != nil {
		t.Fatalf("update: %v", err)
	}
	db.Where("project_id = ?", created.ID).Find(&partners)
	if len(partners) != 0 {
		t.Errorf("expected partners cleared, got %v", partners)
	}
}

func TestPhotoStoreFailureRollsBack(t *testing.T) {
	db := openTestDB(t)
	l, images, _ := newTestProjectLogic(t, db)
	owner := seedUser(t, db, "owner@test")

	images.failStore = true
	input := publishedInput("Doomed Project")
	input.Photos = []PhotoUpload{{Name: "a.jpg", Reader: strings.NewReader("img")}}

	if _, err := l.CreateOrUpdate(input, owner.ID, nil); err == nil {
		t.Fatal("expected create to fail")
	}

	var projects int64
	db.Model(&model.Project{}).Count(&projects)
	if projects != 0 {
		t.Errorf("expected rollback, found %d projects", projects)
	}
	var texts int64
	db.Model(&model.LocalizedText{}).Count(&texts)
	if texts != 0 {
		t.Errorf("expected no localized rows after rollback, found %d", texts)
	}
}

func TestAreasSync(t *testing.T) {
	db := openTestDB(t)
	l, _, _ := newTestProjectLogic(t, db)
	owner := seedUser(t, db, "owner@test")

	it := model.ProjectArea{Name: "IT"}
	db.Create(&it)
	energy := model.ProjectArea{Name: "Energy"}
	db.Create(&energy)

	input := publishedInput("Area Project")
	input.AreaIDs = []uint{it.ID, energy.ID}
	created, err := l.CreateOrUpdate(input, owner.ID, nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	countAreas := func() int64 {
		return db.Model(created).Association("Areas").Count()
	}
	if countAreas() != 2 {
		t.Fatalf("expected 2 areas, got %d", countAreas())
	}

	// nil leaves the set untouched.
	if _, err := l.CreateOrUpdate(publishedInput("Area Project"), owner.ID, &created.ID); err != nil {
		t.Fatalf("update: %v", err)
	}
	if countAreas() != 2 {
		t.Errorf("nil area ids must not touch the set, got %d", countAreas())
	}

	// An explicit empty list clears it.
	input = publishedInput("Area Project")
	input.AreaIDs = []uint{}
	if _, err := l.CreateOrUpdate(input, owner.ID, &created.ID); err != nil {
		t.Fatalf("update: %v", err)
	}
	if countAreas() != 0 {
		t.Errorf("expected areas cleared, got %d", countAreas())
	}
}

func TestPublishedEventsDispatched(t *testing.T) {
	db := openTestDB(t)
	l, _, sink := newTestProjectLogic(t, db)
	owner := seedUser(t, db, "owner@test")

	draft := publishedInput("Quiet Project")
	draft.IsPublished = false
	created, err := l.CreateOrUpdate(draft, owner.ID, nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if len(sink.events) != 0 {
		t.Fatalf("draft create must not dispatch, got %v", sink.events)
	}

	if _, err := l.CreateOrUpdate(publishedInput("Quiet Project"), owner.ID, &created.ID); err != nil {
		t.Fatalf("update: %v", err)
	}
	if len(sink.events) != 1 {
		t.Fatalf("expected one event, got %d", len(sink.events))
	}
	if _, ok := sink.events[0].(event.ProjectUpdated); !ok {
		t.Errorf("expected ProjectUpdated, got %T", sink.events[0])
	}

	if _, err := l.CreateOrUpdate(publishedInput("Loud Project"), owner.ID, nil); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, ok := sink.events[1].(event.ProjectCreated); !ok {
		t.Errorf("expected ProjectCreated, got %T", sink.events[1])
	}
}

func TestRemoveFileAndCleanUp(t *testing.T) {
	db := openTestDB(t)
	l, images, _ := newTestProjectLogic(t, db)
	owner := seedUser(t, db, "owner@test")

	input := publishedInput("Photo Project")
	input.Photos = []PhotoUpload{
		{Name: "a.jpg", Reader: strings.NewReader("a")},
		{Name: "b.jpg", Reader: strings.NewReader("b")},
	}
	created, err := l.CreateOrUpdate(input, owner.ID, nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	var photos []model.ProjectPhoto
	db.Where("project_id = ?", created.ID).Find(&photos)
	if len(photos) != 2 {
		t.Fatalf("expected 2 photos, got %d", len(photos))
	}

	removed, err := l.RemoveFile(created.ID, photos[0].ID)
	if err != nil || !removed {
		t.Fatalf("remove file: removed=%v err=%v", removed, err)
	}
	if len(images.deleted) != 1 || images.deleted[0] != photos[0].Image {
		t.Errorf("expected stored binary deleted, got %v", images.deleted)
	}

	// Unknown photo reports false without error.
	removed, err = l.RemoveFile(created.ID, 99999)
	if err != nil || removed {
		t.Errorf("missing photo: removed=%v err=%v", removed, err)
	}

	cleaned, err := l.CleanUp(created.ID)
	if err != nil || !cleaned {
		t.Fatalf("clean up: cleaned=%v err=%v", cleaned, err)
	}
	cleaned, err = l.CleanUp(created.ID)
	if err != nil || cleaned {
		t.Errorf("second clean up must report nothing to do, cleaned=%v err=%v", cleaned, err)
	}
}

func TestPaginatePageSize(t *testing.T) {
	db := openTestDB(t)
	l, _, _ := newTestProjectLogic(t, db)
	owner := seedUser(t, db, "owner@test")

	for i := 0; i < model.PaginateCount+1; i++ {
		seedProject(t, db, owner, projectSeed{})
	}

	page, err := l.Paginate(ListingFilters{Page: 1}, nil)
	if err != nil {
		t.Fatalf("paginate: %v", err)
	}
	if len(page.Items) != model.PaginateCount {
		t.Errorf("expected %d items, got %d", model.PaginateCount, len(page.Items))
	}
	if page.TotalRows != int64(model.PaginateCount+1) || page.TotalPages != 2 {
		t.Errorf("totals: rows=%d pages=%d", page.TotalRows, page.TotalPages)
	}

	second, err := l.Paginate(ListingFilters{Page: 2}, nil)
	if err != nil {
		t.Fatalf("paginate page 2: %v", err)
	}
	if len(second.Items) != 1 {
		t.Errorf("expected 1 item on page 2, got %d", len(second.Items))
	}
}

func TestGetPublishedBySlug(t *testing.T) {
	db := openTestDB(t)
	l, _, _ := newTestProjectLogic(t, db)
	owner := seedUser(t, db, "owner@test")

	created, err := l.CreateOrUpdate(publishedInput("Visible Project"), owner.ID, nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := l.GetPublishedBySlug(created.Slug, nil)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.ID != created.ID {
		t.Errorf("expected project %d, got %d", created.ID, got.ID)
	}
	if got.LangAttribute("name", model.LocaleUK) != "Visible Project" {
		t.Errorf("expected attached translations, got %v", got.Translations)
	}

	// Soft-deleted projects remain addressable by slug.
	if err := l.Delete(created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := l.GetPublishedBySlug(created.Slug, nil); err != nil {
		t.Errorf("soft-deleted project must stay resolvable: %v", err)
	}

	// Projects of a deleted owner are not.
	if err := db.Delete(&model.User{}, owner.ID).Error; err != nil {
		t.Fatalf("delete owner: %v", err)
	}
	if _, err := l.GetPublishedBySlug(created.Slug, nil); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("expected not found for deleted owner, got %v", err)
	}
}

func TestGetPublishedBySlugHidesDrafts(t *testing.T) {
	db := openTestDB(t)
	l, _, _ := newTestProjectLogic(t, db)
	owner := seedUser(t, db, "owner@test")

	draft := publishedInput("Hidden Project")
	draft.IsPublished = false
	created, err := l.CreateOrUpdate(draft, owner.ID, nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := l.GetPublishedBySlug(created.Slug, nil); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("expected not found for draft, got %v", err)
	}

	// The owner route still resolves it.
	own, err := l.GetOwnersBySlug(created.Slug, owner.ID)
	if err != nil {
		t.Fatalf("get own: %v", err)
	}
	if own.ID != created.ID {
		t.Errorf("expected project %d, got %d", created.ID, own.ID)
	}
}

func TestAcceptedChatRevealsPhone(t *testing.T) {
	db := openTestDB(t)
	l, _, _ := newTestProjectLogic(t, db)

	owner := seedUser(t, db, "owner@test")
	db.Model(&model.User{}).Where("id = ?", owner.ID).Update("phone", "555-1234")
	db.Create(&model.UserSetting{UserID: owner.ID, HidePhone: true})

	viewer := seedUser(t, db, "viewer@test")
	viewer.LastRoleID = model.RoleSpecialist
	db.Model(&model.User{}).Where("id = ?", viewer.ID).Update("last_role_id", model.RoleSpecialist)

	created, err := l.CreateOrUpdate(publishedInput("Contact Project"), owner.ID, nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := l.GetPublishedBySlug(created.Slug, viewer)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.CanBrowsePhone(viewer) {
		t.Fatal("hidden phone without accepted chat must stay hidden")
	}

	room := model.ChatRoom{RelationType: model.ChatRelationProject, RelationID: created.ID}
	db.Create(&room)
	db.Create(&model.ChatUserRoom{RoomID: room.ID, UserID: viewer.ID, RoleID: model.RoleSpecialist})
	db.Create(&model.ChatUserRoom{RoomID: room.ID, UserID: owner.ID, RoleID: model.RoleInitiator})
	db.Create(&model.ChatMessage{RoomID: room.ID, UserID: viewer.ID, TypeID: model.ChatMessageTypeRequest, IsAccepted: 1})

	got, err = l.GetPublishedBySlug(created.Slug, viewer)
	if err != nil {
		t.Fatalf("get after chat: %v", err)
	}
	if got.ActiveChatRoomCount != 1 {
		t.Errorf("expected one accepted room, got %d", got.ActiveChatRoomCount)
	}
	if !got.CanBrowsePhone(viewer) {
		t.Error("accepted chat must reveal the phone")
	}
}

func TestMaxPriceRangeValue(t *testing.T) {
	db := openTestDB(t)
	l, _, _ := newTestProjectLogic(t, db)

	max, err := l.MaxPriceRangeValue()
	if err != nil || max != 0 {
		t.Fatalf("empty table: max=%d err=%v", max, err)
	}

	owner := seedUser(t, db, "owner@test")
	seedProject(t, db, owner, projectSeed{Budget: 7000})
	seedProject(t, db, owner, projectSeed{Budget: 90000})

	max, err = l.MaxPriceRangeValue()
	if err != nil || max != 90000 {
		t.Errorf("expected 90000, got %d (err %v)", max, err)
	}
}
