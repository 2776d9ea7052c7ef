package logic

import (
	"encoding/json"
	"net/url"
	"strconv"

	"github.com/AndrewHnidets/demo-repositories/internal/model"
	"gorm.io/gorm"
)

// CityFilter is the parsed form of the `city` query parameter, a JSON blob
// produced by address autocompletion.
type CityFilter struct {
	AdministrativeAreaLevel1 string `json:"administrative_area_level_1"`
	Locality                 string `json:"locality"`
	Country                  string `json:"country"`
}

// ListingFilters is the untyped listing parameter bag validated once at the
// pipeline entry. A nil/zero field disables its stage; stages never interact
// except through the shared query.
type ListingFilters struct {
	OwnerID       *uint
	Status        *int
	AreaIDs       []uint
	Budget        *int
	Goals         []string
	RoleIDs       []uint
	TimeInRelease *int
	International bool
	City          *CityFilter
	PriceMin      *int64
	PriceMax      *int64
	Search        string
	Order         string
	Page          int

	// OnlyChatted narrows the listing to projects the viewer already has a
	// conversation with.
	OnlyChatted bool
}

// ParseListingFilters reads the raw query permissively: missing or malformed
// values silently disable the corresponding stage.
func ParseListingFilters(values url.Values) ListingFilters {
	f := ListingFilters{
		Search: values.Get("search"),
		Order:  values.Get("order"),
	}

	f.Status = parseIntParam(values.Get("status"))
	f.Budget = parseIntParam(values.Get("budget"))
	f.TimeInRelease = parseIntParam(values.Get("time_in_release"))
	f.International = values.Get("international") == "1"
	f.OnlyChatted = values.Get("with_chats") == "1"
	f.AreaIDs = parseUintList(listParam(values, "project_area"))
	f.Goals = listParam(values, "goal")
	f.RoleIDs = parseUintList(listParam(values, "project_role"))

	if raw := values.Get("city"); raw != "" {
		var city CityFilter
		if err := json.Unmarshal([]byte(raw), &city); err == nil {
			f.City = &city
		}
	}

	// Both bounds are required together.
	minRaw, maxRaw := values.Get("price_range_min"), values.Get("price_range_max")
	if minRaw != "" && maxRaw != "" {
		min, errMin := strconv.ParseInt(minRaw, 10, 64)
		max, errMax := strconv.ParseInt(maxRaw, 10, 64)
		if errMin == nil && errMax == nil {
			f.PriceMin, f.PriceMax = &min, &max
		}
	}

	if page, err := strconv.Atoi(values.Get("page")); err == nil && page > 0 {
		f.Page = page
	}
	return f
}

// listParam accepts both `key` and `key[]` spellings of repeated parameters.
func listParam(values url.Values, key string) []string {
	if vs, ok := values[key]; ok && len(vs) > 0 {
		return vs
	}
	return values[key+"[]"]
}

func parseIntParam(raw string) *int {
	if raw == "" {
		return nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil
	}
	return &v
}

func parseUintList(raw []string) []uint {
	var ids []uint
	for _, s := range raw {
		v, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, uint(v))
	}
	return ids
}

// searchableFields are matched by the free-text stage, both on the base
// record and across their en/ru translations.
var searchableFields = []string{"name", "small_description", "description"}

// searchLocales is the locale set the translation side of the search stage
// looks at.
var searchLocales = []string{string(model.LocaleEN), string(model.LocaleRU)}

// Scopes returns the ordered predicate stages for these filters. Ordering
// (created_at) is applied separately so counting can reuse the same scopes.
func (f ListingFilters) Scopes(viewer *model.User) []func(*gorm.DB) *gorm.DB {
	return []func(*gorm.DB) *gorm.DB{
		scopeVisibility(f.OwnerID),
		scopeInternational(f.International),
		scopeCity(f.City),
		scopeStatus(f.Status),
		scopeProjectArea(f.AreaIDs),
		scopeBudget(f.Budget),
		scopeGoal(f.Goals),
		scopeProjectRole(f.RoleIDs),
		scopeTimeInRelease(f.TimeInRelease),
		scopePriceRange(f.PriceMin, f.PriceMax),
		scopeSearch(f.Search),
		scopeViewerRooms(viewer, f.OnlyChatted),
		scopeOwnerNotDeleted(),
	}
}

// OrderDirection returns the validated sort direction, defaulting to desc.
func (f ListingFilters) OrderDirection() string {
	if f.Order == "asc" || f.Order == "desc" {
		return f.Order
	}
	return "desc"
}

// scopeVisibility restricts the listing to published projects unless an
// explicit owner id is supplied: owners see all of their own projects.
func scopeVisibility(ownerID *uint) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if ownerID != nil {
			return db.Where("user_id = ?", *ownerID)
		}
		return db.Where("is_published = ?", true)
	}
}

func scopeStatus(status *int) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if status == nil || !model.ValidProjectStatus(*status) {
			return db
		}
		return db.Where("status = ?", *status)
	}
}

func scopeProjectArea(areaIDs []uint) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if len(areaIDs) == 0 {
			return db
		}
		return db.Where(`EXISTS (
			SELECT 1 FROM area_project
			WHERE area_project.project_id = project.id
			  AND area_project.project_area_id IN ?
		)`, areaIDs)
	}
}

// scopeBudget buckets: note buckets 2 and 3 share their 50000 boundary
// (inclusive on both sides).
func scopeBudget(bucket *int) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if bucket == nil {
			return db
		}
		switch *bucket {
		case 1:
			return db.Where("budget < ?", 10000)
		case 2:
			return db.Where("budget >= ? AND budget <= ?", 10000, 50000)
		case 3:
			return db.Where("budget >= ? AND budget <= ?", 50000, 100000)
		case 4:
			return db.Where("budget > ?", 100000)
		}
		return db
	}
}

// scopeGoal OR-matches each token against the stored goal set. Selecting
// every goal type is equivalent to selecting none, so the full set disables
// the stage.
func scopeGoal(goals []string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if len(goals) == 0 {
			return db
		}
		if model.ParseGoalTokens(goals).Equal(model.FullGoalSet()) {
			return db
		}
		cond := db.Session(&gorm.Session{NewDB: true})
		for _, token := range goals {
			cond = cond.Or("goal LIKE ?", "%"+token+"%")
		}
		return db.Where(cond)
	}
}

func scopeProjectRole(roleIDs []uint) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if len(roleIDs) == 0 {
			return db
		}
		return db.Where(`EXISTS (
			SELECT 1 FROM partner
			WHERE partner.project_id = project.id
			  AND partner.role_id IN ?
		)`, roleIDs)
	}
}

func scopeTimeInRelease(months *int) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if months == nil {
			return db
		}
		return db.Where("time_in_release = ?", *months)
	}
}

// scopeInternational keeps projects carrying a non-empty English name
// translation. English is deliberately hardcoded as the signal.
func scopeInternational(on bool) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if !on {
			return db
		}
		return db.Where(`EXISTS (
			SELECT 1 FROM localized_text
			WHERE localized_text.owner_type = ?
			  AND localized_text.owner_id = project.id
			  AND localized_text.field = 'name'
			  AND localized_text.locale = ?
			  AND localized_text.value <> ''
		)`, model.OwnerTypeProject, string(model.LocaleEN))
	}
}

// scopeCity matches on administrative area, then locality, then country;
// only the highest-precedence present branch applies.
func scopeCity(city *CityFilter) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if city == nil {
			return db
		}
		switch {
		case city.AdministrativeAreaLevel1 != "":
			return db.Where(`EXISTS (
				SELECT 1 FROM city
				JOIN area ON area.id = city.area_id
				WHERE city.id = project.city_id
				  AND area.name = ?
			)`, city.AdministrativeAreaLevel1)
		case city.Locality != "":
			return db.Where(`project.city_id IN (SELECT id FROM city WHERE name = ?)`, city.Locality)
		case city.Country != "":
			return db.Where(`EXISTS (
				SELECT 1 FROM city
				JOIN country ON country.id = city.country_id
				WHERE city.id = project.city_id
				  AND country.name = ?
			)`, city.Country)
		}
		return db
	}
}

func scopePriceRange(min, max *int64) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if min == nil || max == nil {
			return db
		}
		return db.Where("budget >= ? AND budget <= ?", *min, *max)
	}
}

// scopeSearch matches the base-record fields or any en/ru translation of the
// same fields.
func scopeSearch(search string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if search == "" {
			return db
		}
		like := "%" + search + "%"
		cond := db.Session(&gorm.Session{NewDB: true}).
			Where("name LIKE ? OR small_description LIKE ? OR description LIKE ?", like, like, like).
			Or(`EXISTS (
				SELECT 1 FROM localized_text
				WHERE localized_text.owner_type = ?
				  AND localized_text.owner_id = project.id
				  AND localized_text.field IN ?
				  AND localized_text.locale IN ?
				  AND localized_text.value LIKE ?
			)`, model.OwnerTypeProject, searchableFields, searchLocales, like)
		return db.Where(cond)
	}
}

// scopeViewerRooms keeps projects the viewer already talks to: a room where
// the viewer sits under their active persona and the counterpart is the
// initiator. Off by default; the regular listing only scopes the room preload
// to the viewer.
func scopeViewerRooms(viewer *model.User, on bool) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if !on || viewer == nil {
			return db
		}
		return db.Where(`EXISTS (
			SELECT 1 FROM chat_room
			WHERE chat_room.relation_type = ?
			  AND chat_room.relation_id = project.id
			  AND EXISTS (
				SELECT 1 FROM chat_user_room
				WHERE chat_user_room.room_id = chat_room.id
				  AND chat_user_room.user_id = ?
				  AND chat_user_room.role_id = ?
			  )
			  AND EXISTS (
				SELECT 1 FROM chat_user_room
				WHERE chat_user_room.room_id = chat_room.id
				  AND chat_user_room.user_id <> ?
				  AND chat_user_room.role_id = ?
			  )
		)`, model.ChatRelationProject, viewer.ID, viewer.LastRoleID, viewer.ID, model.RoleInitiator)
	}
}

// scopeOwnerNotDeleted hides projects whose owner was soft-deleted.
func scopeOwnerNotDeleted() func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(`EXISTS (
			SELECT 1 FROM "user"
			WHERE "user".id = project.user_id
			  AND "user".deleted_at IS NULL
		)`)
	}
}
