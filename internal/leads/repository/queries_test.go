package repository

import (
	"strings"
	"testing"
)

func TestListLeadsDueByQueryUsesInclusiveCutoff(t *testing.T) {
	query := strings.ToLower(listLeadsDueByQuery)

	requiredFragments := []string{
		"from leads",
		"where next_call_date <= $1",
		"order by next_call_date asc",
	}

	for _, fragment := range requiredFragments {
		if !strings.Contains(query, fragment) {
			t.Fatalf("expected due-by query fragment %q to be present", fragment)
		}
	}
	if strings.Contains(query, "next_call_date < $1") {
		t.Fatal("due-by cutoff must be inclusive")
	}
}

func TestUpdateCallScheduleQueryOnlyTouchesScheduleFields(t *testing.T) {
	query := strings.ToLower(updateCallScheduleQuery)

	if !strings.Contains(query, "set last_interaction_date = $2, next_call_date = $3") {
		t.Fatal("expected schedule update to set last_interaction_date and next_call_date")
	}
	for _, column := range []string{"call_frequency =", "preferred_timezone =", "status ="} {
		if strings.Contains(query, column) {
			t.Fatalf("schedule update must not write %q", column)
		}
	}
}

func TestDeleteLeadQueryDoesNotCascade(t *testing.T) {
	query := strings.ToLower(deleteLeadQuery)

	for _, table := range []string{"contacts", "interactions", "orders"} {
		if strings.Contains(query, table) {
			t.Fatalf("lead delete must not touch %s", table)
		}
	}
}

func TestListInteractionsNewestFirst(t *testing.T) {
	query := strings.ToLower(listInteractionsQuery)

	if !strings.Contains(query, "where lead_id = $1 order by created_at desc") {
		t.Fatal("expected interactions to be listed newest first for one lead")
	}
}
