package model

import (
	"sort"
	"strconv"
	"strings"
)

// Goal tokens describing a project's stated objectives.
const (
	GoalInvestments = 1
	GoalPartners    = 2
	GoalVacancies   = 3 // derived: project has open roles
)

// GoalSet is a set of goal tokens. The comma-joined string form exists only
// at the storage boundary (projects.goal column).
type GoalSet map[int]struct{}

// ParseGoalSet decodes a comma-joined token list. Unparseable tokens are
// dropped.
func ParseGoalSet(s string) GoalSet {
	set := GoalSet{}
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.Atoi(part)
		if err != nil {
			continue
		}
		set[id] = struct{}{}
	}
	return set
}

// ParseGoalTokens decodes a token list that arrived as separate strings.
func ParseGoalTokens(tokens []string) GoalSet {
	return ParseGoalSet(strings.Join(tokens, ","))
}

func (g GoalSet) Has(id int) bool {
	_, ok := g[id]
	return ok
}

// Add inserts id; adding a present id is a no-op.
func (g GoalSet) Add(id int) {
	g[id] = struct{}{}
}

// Remove deletes id; removing an absent id is a no-op.
func (g GoalSet) Remove(id int) {
	delete(g, id)
}

// Encode renders the set as a sorted comma-joined string.
func (g GoalSet) Encode() string {
	ids := make([]int, 0, len(g))
	for id := range g {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, ",")
}

// Equal reports set equality regardless of insertion order.
func (g GoalSet) Equal(other GoalSet) bool {
	if len(g) != len(other) {
		return false
	}
	for id := range g {
		if !other.Has(id) {
			return false
		}
	}
	return true
}

// FullGoalSet is every selectable goal token. Filtering by the full set is
// equivalent to not filtering at all.
func FullGoalSet() GoalSet {
	return GoalSet{GoalInvestments: {}, GoalPartners: {}, GoalVacancies: {}}
}
