package logic

import (
	"net/url"
	"testing"

	"github.com/AndrewHnidets/demo-repositories/internal/model"
	"gorm.io/gorm"
)

func TestParseListingFilters(t *testing.T) {
	values := url.Values{
		"status":          {"2"},
		"budget":          {"3"},
		"goal[]":          {"1", "3"},
		"project_area":    {"4", "junk", "5"},
		"time_in_release": {"6"},
		"international":   {"1"},
		"search":          {"solar"},
		"order":           {"asc"},
		"page":            {"2"},
		"price_range_min": {"100"},
		"price_range_max": {"900"},
		"city":            {`{"locality":"Kyiv","country":"Ukraine"}`},
	}

	f := ParseListingFilters(values)

	if f.Status == nil || *f.Status != 2 {
		t.Errorf("status: got %v", f.Status)
	}
	if f.Budget == nil || *f.Budget != 3 {
		t.Errorf("budget: got %v", f.Budget)
	}
	if len(f.Goals) != 2 {
		t.Errorf("goals: got %v", f.Goals)
	}
	if len(f.AreaIDs) != 2 || f.AreaIDs[0] != 4 || f.AreaIDs[1] != 5 {
		t.Errorf("area ids: got %v", f.AreaIDs)
	}
	if !f.International {
		t.Error("expected international flag")
	}
	if f.City == nil || f.City.Locality != "Kyiv" {
		t.Errorf("city: got %+v", f.City)
	}
	if f.PriceMin == nil || *f.PriceMin != 100 || f.PriceMax == nil || *f.PriceMax != 900 {
		t.Errorf("price range: got %v..%v", f.PriceMin, f.PriceMax)
	}
	if f.Search != "solar" || f.OrderDirection() != "asc" || f.Page != 2 {
		t.Errorf("search/order/page: %q %q %d", f.Search, f.OrderDirection(), f.Page)
	}
}

func TestParseListingFiltersMalformedValuesDisableStages(t *testing.T) {
	f := ParseListingFilters(url.Values{
		"status":          {"abc"},
		"city":            {"{not json"},
		"price_range_min": {"100"}, // max missing, pair required
		"order":           {"sideways"},
	})

	if f.Status != nil || f.City != nil || f.PriceMin != nil {
		t.Errorf("malformed values must disable stages: %+v", f)
	}
	if f.OrderDirection() != "desc" {
		t.Errorf("expected default order desc, got %q", f.OrderDirection())
	}
}

func listWith(t *testing.T, db *gorm.DB, f ListingFilters, viewer *model.User) []model.Project {
	t.Helper()
	var projects []model.Project
	err := db.Model(&model.Project{}).Scopes(f.Scopes(viewer)...).Find(&projects).Error
	if err != nil {
		t.Fatalf("failed to run filters: %v", err)
	}
	return projects
}

func TestVisibilityStage(t *testing.T) {
	db := openTestDB(t)
	owner := seedUser(t, db, "owner@test")
	seedProject(t, db, owner, projectSeed{Name: "published"})
	seedProject(t, db, owner, projectSeed{Name: "draft", Unpublished: true})

	if got := listWith(t, db, ListingFilters{}, nil); len(got) != 1 {
		t.Fatalf("guest listing: expected 1 project, got %d", len(got))
	}

	mine := listWith(t, db, ListingFilters{OwnerID: &owner.ID}, owner)
	if len(mine) != 2 {
		t.Fatalf("owner listing: expected 2 projects, got %d", len(mine))
	}
}

func TestBudgetBuckets(t *testing.T) {
	db := openTestDB(t)
	owner := seedUser(t, db, "owner@test")
	for _, budget := range []int64{5000, 10000, 50000, 100000, 150000} {
		seedProject(t, db, owner, projectSeed{Budget: budget})
	}

	cases := []struct {
		bucket int
		want   []int64
	}{
		{1, []int64{5000}},
		{2, []int64{10000, 50000}},
		{3, []int64{50000, 100000}},
		{4, []int64{150000}},
	}
	for _, tc := range cases {
		bucket := tc.bucket
		got := listWith(t, db, ListingFilters{Budget: &bucket}, nil)
		budgets := map[int64]bool{}
		for _, p := range got {
			budgets[p.Budget] = true
		}
		if len(got) != len(tc.want) {
			t.Errorf("bucket %d: expected %v, got %d projects", bucket, tc.want, len(got))
			continue
		}
		for _, b := range tc.want {
			if !budgets[b] {
				t.Errorf("bucket %d: missing budget %d", bucket, b)
			}
		}
	}
}

func TestGoalStageFullSetIsNoop(t *testing.T) {
	db := openTestDB(t)
	owner := seedUser(t, db, "owner@test")
	seedProject(t, db, owner, projectSeed{Goal: "1"})
	seedProject(t, db, owner, projectSeed{Goal: "2,3"})
	seedProject(t, db, owner, projectSeed{Goal: ""})

	if got := listWith(t, db, ListingFilters{Goals: []string{"3", "1", "2"}}, nil); len(got) != 3 {
		t.Errorf("full goal set must disable the stage, got %d projects", len(got))
	}
	if got := listWith(t, db, ListingFilters{Goals: []string{"1"}}, nil); len(got) != 1 {
		t.Errorf("goal 1: expected 1 project, got %d", len(got))
	}
	if got := listWith(t, db, ListingFilters{Goals: []string{"1", "3"}}, nil); len(got) != 2 {
		t.Errorf("goals 1,3: expected 2 projects, got %d", len(got))
	}
}

func TestCityStagePrecedence(t *testing.T) {
	db := openTestDB(t)
	owner := seedUser(t, db, "owner@test")

	country := model.Country{Name: "Ukraine"}
	db.Create(&country)
	area := model.Area{Name: "Kyiv Oblast", CountryID: country.ID}
	db.Create(&area)
	kyiv := model.City{Name: "Kyiv", AreaID: area.ID, CountryID: country.ID}
	db.Create(&kyiv)

	otherArea := model.Area{Name: "Lviv Oblast", CountryID: country.ID}
	db.Create(&otherArea)
	lviv := model.City{Name: "Lviv", AreaID: otherArea.ID, CountryID: country.ID}
	db.Create(&lviv)

	seedProject(t, db, owner, projectSeed{Name: "in-kyiv", CityID: &kyiv.ID})
	seedProject(t, db, owner, projectSeed{Name: "in-lviv", CityID: &lviv.ID})
	seedProject(t, db, owner, projectSeed{Name: "nowhere"})

	// Administrative area wins over a conflicting locality.
	got := listWith(t, db, ListingFilters{City: &CityFilter{
		AdministrativeAreaLevel1: "Kyiv Oblast",
		Locality:                 "Lviv",
	}}, nil)
	if len(got) != 1 || got[0].Name != "in-kyiv" {
		t.Errorf("admin area precedence: got %d projects", len(got))
	}

	got = listWith(t, db, ListingFilters{City: &CityFilter{Locality: "Lviv"}}, nil)
	if len(got) != 1 || got[0].Name != "in-lviv" {
		t.Errorf("locality match: got %d projects", len(got))
	}

	got = listWith(t, db, ListingFilters{City: &CityFilter{Country: "Ukraine"}}, nil)
	if len(got) != 2 {
		t.Errorf("country match: expected 2 projects, got %d", len(got))
	}
}

func TestInternationalStage(t *testing.T) {
	db := openTestDB(t)
	owner := seedUser(t, db, "owner@test")
	local := seedProject(t, db, owner, projectSeed{Name: "local"})
	global := seedProject(t, db, owner, projectSeed{Name: "global"})

	db.Create(&model.LocalizedText{
		OwnerType: model.OwnerTypeProject, OwnerID: global.ID,
		Field: "name", Locale: "en", Value: "Global",
	})
	// An empty english value does not count.
	db.Create(&model.LocalizedText{
		OwnerType: model.OwnerTypeProject, OwnerID: local.ID,
		Field: "name", Locale: "en", Value: "",
	})

	got := listWith(t, db, ListingFilters{International: true}, nil)
	if len(got) != 1 || got[0].ID != global.ID {
		t.Errorf("expected only the project with an english name, got %d", len(got))
	}
}

func TestSearchStageMatchesTranslations(t *testing.T) {
	db := openTestDB(t)
	owner := seedUser(t, db, "owner@test")
	base := seedProject(t, db, owner, projectSeed{Name: "solar farm"})
	translated := seedProject(t, db, owner, projectSeed{Name: "unrelated"})
	seedProject(t, db, owner, projectSeed{Name: "noise"})

	db.Create(&model.LocalizedText{
		OwnerType: model.OwnerTypeProject, OwnerID: translated.ID,
		Field: "description", Locale: "ru", Value: "solar panels everywhere",
	})

	got := listWith(t, db, ListingFilters{Search: "solar"}, nil)
	if len(got) != 2 {
		t.Fatalf("expected base and translated matches, got %d", len(got))
	}
	ids := map[uint]bool{got[0].ID: true, got[1].ID: true}
	if !ids[base.ID] || !ids[translated.ID] {
		t.Errorf("unexpected match set: %v", ids)
	}
}

func TestProjectRoleStage(t *testing.T) {
	db := openTestDB(t)
	owner := seedUser(t, db, "owner@test")
	with := seedProject(t, db, owner, projectSeed{Name: "with-partner"})
	seedProject(t, db, owner, projectSeed{Name: "without"})

	db.Create(&model.Partner{ProjectID: with.ID, RoleID: 3, Name: "Anna"})

	got := listWith(t, db, ListingFilters{RoleIDs: []uint{3}}, nil)
	if len(got) != 1 || got[0].ID != with.ID {
		t.Errorf("expected the project with a role-3 partner, got %d", len(got))
	}
}

func TestOwnerNotDeletedStage(t *testing.T) {
	db := openTestDB(t)
	alive := seedUser(t, db, "alive@test")
	gone := seedUser(t, db, "gone@test")
	seedProject(t, db, alive, projectSeed{Name: "kept"})
	seedProject(t, db, gone, projectSeed{Name: "orphaned"})

	if err := db.Delete(&model.User{}, gone.ID).Error; err != nil {
		t.Fatalf("failed to delete user: %v", err)
	}

	got := listWith(t, db, ListingFilters{}, nil)
	if len(got) != 1 || got[0].Name != "kept" {
		t.Errorf("deleted owner's project must be hidden, got %d", len(got))
	}
}

func TestViewerRoomsStage(t *testing.T) {
	db := openTestDB(t)
	owner := seedUser(t, db, "owner@test")
	viewer := seedUser(t, db, "viewer@test")
	viewer.LastRoleID = model.RoleSpecialist
	db.Model(viewer).Update("last_role_id", model.RoleSpecialist)

	inChat := seedProject(t, db, owner, projectSeed{Name: "in-chat"})
	seedProject(t, db, owner, projectSeed{Name: "no-chat"})

	room := model.ChatRoom{RelationType: model.ChatRelationProject, RelationID: inChat.ID}
	db.Create(&room)
	db.Create(&model.ChatUserRoom{RoomID: room.ID, UserID: viewer.ID, RoleID: model.RoleSpecialist})
	db.Create(&model.ChatUserRoom{RoomID: room.ID, UserID: owner.ID, RoleID: model.RoleInitiator})

	got := listWith(t, db, ListingFilters{OnlyChatted: true}, viewer)
	if len(got) != 1 || got[0].ID != inChat.ID {
		t.Errorf("expected only the chatted project, got %d", len(got))
	}

	// Without the flag the stage is inert even for a viewer.
	if got := listWith(t, db, ListingFilters{}, viewer); len(got) != 2 {
		t.Errorf("viewer without flag: expected 2 projects, got %d", len(got))
	}

	// A guest with the flag sees the regular listing.
	if got := listWith(t, db, ListingFilters{OnlyChatted: true}, nil); len(got) != 2 {
		t.Errorf("guest: expected 2 projects, got %d", len(got))
	}
}
