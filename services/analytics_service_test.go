package services

import (
	"context"
	"testing"
	"time"

	"github.com/revisionpro/api/model"
)

func TestDashboardNewHardSubtopic(t *testing.T) {
	db := newTestDB(t)
	hierarchy := NewHierarchyService(db, nil)
	analytics := NewAnalyticsService(db, nil)
	ctx := context.Background()

	seedHierarchy(t, hierarchy, "Physics", "Mechanics", "Newton's Laws", model.DifficultyHard)

	stats, err := analytics.GetDashboardStats(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := DashboardStats{
		TotalSubjects:   1,
		TotalTopics:     1,
		TotalSubtopics:  1,
		OverdueCount:    1, // never revised counts as overdue immediately
		MasteredCount:   0,
		StruggledCount:  0,
		NotStartedCount: 1,
	}
	if *stats != want {
		t.Errorf("dashboard mismatch:\n got %+v\nwant %+v", *stats, want)
	}
}

func TestDashboardStatusCountsSumToTotal(t *testing.T) {
	db := newTestDB(t)
	hierarchy := NewHierarchyService(db, nil)
	revisions := NewRevisionService(db, nil)
	analytics := NewAnalyticsService(db, nil)
	ctx := context.Background()

	subject, err := hierarchy.CreateSubject(ctx, "Physics", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	topic, err := hierarchy.CreateTopic(ctx, subject.ID, "Mechanics", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	outcomes := map[string]*model.RevisionPerformance{
		"Newton's Laws":   perf(model.PerformanceStruggled),
		"Momentum":        perf(model.PerformanceMastered),
		"Work and Energy": nil, // never revised
		"Circular Motion": perf(model.PerformanceStruggled),
	}
	for name, outcome := range outcomes {
		st, err := hierarchy.CreateSubtopic(ctx, topic.ID, name, "", model.DifficultyModerate)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if outcome != nil {
			if _, err := revisions.RecordRevision(ctx, st.ID, *outcome, ""); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		}
	}

	stats, err := analytics.GetDashboardStats(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	sum := stats.MasteredCount + stats.StruggledCount + stats.NotStartedCount
	if sum != stats.TotalSubtopics {
		t.Errorf("status counts %d do not sum to total_subtopics %d", sum, stats.TotalSubtopics)
	}
	if stats.StruggledCount != 2 || stats.MasteredCount != 1 || stats.NotStartedCount != 1 {
		t.Errorf("unexpected status breakdown: %+v", stats)
	}
}

func TestDashboardMasteredBecomesOverdue(t *testing.T) {
	db := newTestDB(t)
	hierarchy := NewHierarchyService(db, nil)
	revisions := NewRevisionService(db, nil)
	analytics := NewAnalyticsService(db, nil)
	ctx := context.Background()

	subtopic := seedHierarchy(t, hierarchy, "Physics", "Mechanics", "Momentum", model.DifficultyModerate)

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	revisions.now = func() time.Time { return base }
	if _, err := revisions.RecordRevision(ctx, subtopic.ID, model.PerformanceMastered, ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// 10 days later: mastered, within the 14-day interval
	analytics.now = func() time.Time { return base.AddDate(0, 0, 10) }
	stats, err := analytics.GetDashboardStats(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.OverdueCount != 0 {
		t.Errorf("expected no overdue items at day 10, got %d", stats.OverdueCount)
	}

	// 20 days later: still mastered, but overdue
	analytics.now = func() time.Time { return base.AddDate(0, 0, 20) }
	stats, err = analytics.GetDashboardStats(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.OverdueCount != 1 {
		t.Errorf("expected item overdue at day 20, got %d", stats.OverdueCount)
	}
	if stats.MasteredCount != 1 {
		t.Errorf("expected status to persist while overdue, got %+v", stats)
	}
}

func perf(p model.RevisionPerformance) *model.RevisionPerformance {
	return &p
}
