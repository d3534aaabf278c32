package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/revisionpro/api/model"
)

func TestRecordRevisionValidation(t *testing.T) {
	db := newTestDB(t)
	hierarchy := NewHierarchyService(db, nil)
	revisions := NewRevisionService(db, nil)
	ctx := context.Background()

	subtopic := seedHierarchy(t, hierarchy, "Physics", "Mechanics", "Newton's Laws", model.DifficultyHard)

	if _, err := revisions.RecordRevision(ctx, subtopic.ID, model.RevisionPerformance("Skipped"), ""); !errors.Is(err, ErrValidation) {
		t.Errorf("expected ErrValidation for invalid performance, got %v", err)
	}
	if _, err := revisions.RecordRevision(ctx, 999, model.PerformanceMastered, ""); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown subtopic, got %v", err)
	}

	event, err := revisions.RecordRevision(ctx, subtopic.ID, model.PerformanceStruggled, "hard session")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if event.Performance != model.PerformanceStruggled || event.Notes != "hard session" {
		t.Errorf("unexpected event: %+v", event)
	}
	if event.RevisedAt.IsZero() {
		t.Error("expected server timestamp on event")
	}
}

func TestRecordRevisionUpdatesSubtopic(t *testing.T) {
	db := newTestDB(t)
	hierarchy := NewHierarchyService(db, nil)
	revisions := NewRevisionService(db, nil)
	ctx := context.Background()

	subtopic := seedHierarchy(t, hierarchy, "Physics", "Mechanics", "Momentum", model.DifficultyModerate)

	if _, err := revisions.RecordRevision(ctx, subtopic.ID, model.PerformanceStruggled, ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := revisions.RecordRevision(ctx, subtopic.ID, model.PerformanceMastered, ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var reloaded model.Subtopic
	if err := db.First(&reloaded, subtopic.ID).Error; err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reloaded.RevisionCount != 2 {
		t.Errorf("expected revision_count 2, got %d", reloaded.RevisionCount)
	}
	if reloaded.LastRevised == nil {
		t.Fatal("expected last_revised to be set")
	}

	// last_revised must equal the newest ledger entry
	history, err := revisions.History(ctx, subtopic.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	latest := history[len(history)-1]
	if !reloaded.LastRevised.Equal(latest.RevisedAt) {
		t.Errorf("last_revised %v != newest event %v", reloaded.LastRevised, latest.RevisedAt)
	}
}

func TestHistoryIsAppendOnly(t *testing.T) {
	db := newTestDB(t)
	hierarchy := NewHierarchyService(db, nil)
	revisions := NewRevisionService(db, nil)
	ctx := context.Background()

	subtopic := seedHierarchy(t, hierarchy, "Maths", "Calculus", "Limits", model.DifficultyEasy)

	outcomes := []model.RevisionPerformance{
		model.PerformanceStruggled,
		model.PerformanceStruggled,
		model.PerformanceMastered,
	}
	for _, outcome := range outcomes {
		before, err := revisions.History(ctx, subtopic.ID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if _, err := revisions.RecordRevision(ctx, subtopic.ID, outcome, ""); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		after, err := revisions.History(ctx, subtopic.ID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(after) != len(before)+1 {
			t.Fatalf("expected history to grow by one, got %d -> %d", len(before), len(after))
		}
		// Prior events are untouched
		for i := range before {
			if before[i].ID != after[i].ID || before[i].Performance != after[i].Performance {
				t.Errorf("event %d altered by append: %+v vs %+v", i, before[i], after[i])
			}
		}
		if after[len(after)-1].Performance != outcome {
			t.Errorf("expected newest event %q, got %q", outcome, after[len(after)-1].Performance)
		}
	}
}

func TestPerformanceStatusDerivation(t *testing.T) {
	db := newTestDB(t)
	hierarchy := NewHierarchyService(db, nil)
	revisions := NewRevisionService(db, nil)
	ctx := context.Background()

	subtopic := seedHierarchy(t, hierarchy, "Physics", "Mechanics", "Work and Energy", model.DifficultyModerate)

	assertStatus := func(want model.PerformanceStatus) {
		t.Helper()
		listed, err := hierarchy.ListSubtopics(ctx, &subtopic.TopicID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := listed[0].PerformanceStatus; got != want {
			t.Errorf("expected status %q, got %q", want, got)
		}
	}

	// No events: Not Started
	assertStatus(model.StatusNotStarted)

	if _, err := revisions.RecordRevision(ctx, subtopic.ID, model.PerformanceMastered, ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertStatus(model.StatusMastered)

	if _, err := revisions.RecordRevision(ctx, subtopic.ID, model.PerformanceStruggled, ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertStatus(model.StatusStruggled)
}

func TestDerivationTieBreaksByInsertionOrder(t *testing.T) {
	db := newTestDB(t)
	hierarchy := NewHierarchyService(db, nil)
	revisions := NewRevisionService(db, nil)
	ctx := context.Background()

	subtopic := seedHierarchy(t, hierarchy, "Physics", "Mechanics", "Momentum", model.DifficultyModerate)

	// Freeze the clock so both events share a timestamp
	frozen := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	revisions.now = func() time.Time { return frozen }

	if _, err := revisions.RecordRevision(ctx, subtopic.ID, model.PerformanceMastered, ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := revisions.RecordRevision(ctx, subtopic.ID, model.PerformanceStruggled, ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	history, err := revisions.History(ctx, subtopic.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := model.DerivePerformanceStatus(history); got != model.StatusStruggled {
		t.Errorf("expected later insertion to win the tie, got %q", got)
	}
}
