package logic

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"testing"

	"github.com/AndrewHnidets/demo-repositories/internal/event"
	"github.com/AndrewHnidets/demo-repositories/internal/localization"
	"github.com/AndrewHnidets/demo-repositories/internal/location"
	"github.com/AndrewHnidets/demo-repositories/internal/model"
	"github.com/AndrewHnidets/demo-repositories/internal/repository"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
		NamingStrategy: &schema.NamingStrategy{
			SingularTable: true,
		},
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := repository.Migrate(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

// fakeImages keeps stored references in memory; failStore makes the next
// Store call fail.
type fakeImages struct {
	stored    []string
	deleted   []string
	failStore bool
}

func (f *fakeImages) Store(r io.Reader, pathPrefix, originalName string) (string, error) {
	if f.failStore {
		return "", errors.New("store failed")
	}
	if r != nil {
		io.Copy(io.Discard, r)
	}
	ref := filepath.Join(pathPrefix, fmt.Sprintf("stored-%d-%s", len(f.stored), originalName))
	f.stored = append(f.stored, ref)
	return ref, nil
}

func (f *fakeImages) Delete(ref string) error {
	f.deleted = append(f.deleted, ref)
	return nil
}

// recordingSink collects dispatched events synchronously.
type recordingSink struct {
	events []event.Event
}

func (s *recordingSink) Dispatch(evt event.Event) {
	s.events = append(s.events, evt)
}

func newTestProjectLogic(t *testing.T, db *gorm.DB) (*ProjectLogic, *fakeImages, *recordingSink) {
	t.Helper()
	images := &fakeImages{}
	sink := &recordingSink{}
	l := NewProjectLogic(db, images, location.NewService(db), localization.NewService(db), sink)
	return l, images, sink
}

func newTestUserLogic(t *testing.T, db *gorm.DB) (*UserLogic, *fakeImages) {
	t.Helper()
	images := &fakeImages{}
	return NewUserLogic(db, images, location.NewService(db), localization.NewService(db)), images
}

func seedUser(t *testing.T, db *gorm.DB, email string) *model.User {
	t.Helper()
	user := model.User{
		Email:      email,
		Password:   "x",
		RoleID:     model.RoleInitiator,
		LastRoleID: model.RoleInitiator,
		Avatar:     model.DefaultAvatar,
		Locale:     string(model.PrimaryLocale),
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to seed user %s: %v", email, err)
	}
	return &user
}

type projectSeed struct {
	Name        string
	Budget      int64
	Goal        string
	Status      model.ProjectStatus
	TimeInRel   int
	Unpublished bool
	CityID      *uint
}

func seedProject(t *testing.T, db *gorm.DB, owner *model.User, seed projectSeed) *model.Project {
	t.Helper()
	if seed.Name == "" {
		seed.Name = "project"
	}
	slugSuffix++
	project := model.Project{
		Name:          seed.Name,
		Slug:          fmt.Sprintf("%s-%d", seed.Name, slugSuffix),
		Budget:        seed.Budget,
		Goal:          seed.Goal,
		Status:        seed.Status,
		TimeInRelease: seed.TimeInRel,
		IsPublished:   !seed.Unpublished,
		UserID:        owner.ID,
		CityID:        seed.CityID,
	}
	if err := db.Create(&project).Error; err != nil {
		t.Fatalf("failed to seed project %s: %v", seed.Name, err)
	}
	return &project
}

// slugSuffix keeps seeded slugs unique across a test binary.
var slugSuffix int
