package model

import "testing"

func TestParseGoalSet(t *testing.T) {
	set := ParseGoalSet("1,3")
	if !set.Has(GoalInvestments) || !set.Has(GoalVacancies) {
		t.Errorf("expected tokens 1 and 3 in %v", set)
	}
	if set.Has(GoalPartners) {
		t.Errorf("unexpected token 2 in %v", set)
	}
}

func TestParseGoalSetDropsGarbage(t *testing.T) {
	set := ParseGoalSet("1, x, ,2,")
	if len(set) != 2 {
		t.Errorf("expected 2 tokens, got %v", set)
	}
}

func TestGoalSetAddRemoveIdempotent(t *testing.T) {
	set := ParseGoalSet("1")

	set.Add(GoalVacancies)
	set.Add(GoalVacancies)
	if set.Encode() != "1,3" {
		t.Errorf("expected 1,3 after double add, got %q", set.Encode())
	}

	set.Remove(GoalVacancies)
	set.Remove(GoalVacancies)
	if set.Encode() != "1" {
		t.Errorf("expected 1 after double remove, got %q", set.Encode())
	}
}

func TestGoalSetEncodeSorted(t *testing.T) {
	set := ParseGoalSet("3,1,2")
	if set.Encode() != "1,2,3" {
		t.Errorf("expected sorted encoding, got %q", set.Encode())
	}
}

func TestGoalSetEqualIgnoresOrder(t *testing.T) {
	if !ParseGoalSet("2,1,3").Equal(FullGoalSet()) {
		t.Error("expected 2,1,3 to equal the full set")
	}
	if ParseGoalSet("1,2").Equal(FullGoalSet()) {
		t.Error("did not expect 1,2 to equal the full set")
	}
}

func TestProjectGoalHelpers(t *testing.T) {
	p := Project{Goal: "1"}

	p.AddGoal(GoalVacancies)
	if p.Goal != "1,3" {
		t.Errorf("expected goal 1,3, got %q", p.Goal)
	}
	if !p.HasGoal(GoalVacancies) {
		t.Error("expected HasGoal(3) after add")
	}

	p.RemoveGoal(GoalVacancies)
	if p.Goal != "1" {
		t.Errorf("expected goal 1 after remove, got %q", p.Goal)
	}
}
