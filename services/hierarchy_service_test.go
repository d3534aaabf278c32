package services

import (
	"context"
	"errors"
	"testing"

	"github.com/revisionpro/api/model"
)

func TestCreateSubjectValidation(t *testing.T) {
	svc := NewHierarchyService(newTestDB(t), nil)
	ctx := context.Background()

	if _, err := svc.CreateSubject(ctx, "   ", "blank after trim"); !errors.Is(err, ErrValidation) {
		t.Errorf("expected ErrValidation for blank name, got %v", err)
	}

	subject, err := svc.CreateSubject(ctx, "  Physics  ", "desc")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if subject.Name != "Physics" {
		t.Errorf("expected trimmed name %q, got %q", "Physics", subject.Name)
	}

	if _, err := svc.CreateSubject(ctx, "Physics", ""); !errors.Is(err, ErrConflict) {
		t.Errorf("expected ErrConflict for duplicate name, got %v", err)
	}
}

func TestCreateTopicRequiresSubject(t *testing.T) {
	svc := NewHierarchyService(newTestDB(t), nil)
	ctx := context.Background()

	if _, err := svc.CreateTopic(ctx, 999, "Mechanics", ""); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown subject, got %v", err)
	}
}

func TestCreateSubtopicValidation(t *testing.T) {
	svc := NewHierarchyService(newTestDB(t), nil)
	ctx := context.Background()

	subject, err := svc.CreateSubject(ctx, "Physics", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	topic, err := svc.CreateTopic(ctx, subject.ID, "Mechanics", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := svc.CreateSubtopic(ctx, 999, "Kinematics", "", model.DifficultyEasy); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown topic, got %v", err)
	}
	if _, err := svc.CreateSubtopic(ctx, topic.ID, "Kinematics", "", model.DifficultyLevel("Impossible")); !errors.Is(err, ErrValidation) {
		t.Errorf("expected ErrValidation for invalid difficulty, got %v", err)
	}

	// Difficulty defaults to Moderate when omitted
	subtopic, err := svc.CreateSubtopic(ctx, topic.ID, "Kinematics", "", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if subtopic.Difficulty != model.DifficultyModerate {
		t.Errorf("expected default difficulty Moderate, got %q", subtopic.Difficulty)
	}
	if subtopic.PerformanceStatus != model.StatusNotStarted {
		t.Errorf("expected new subtopic to be Not Started, got %q", subtopic.PerformanceStatus)
	}
}

func TestListOrderedByCreation(t *testing.T) {
	svc := NewHierarchyService(newTestDB(t), nil)
	ctx := context.Background()

	names := []string{"Zoology", "Algebra", "Mechanics"}
	for _, name := range names {
		if _, err := svc.CreateSubject(ctx, name, ""); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	subjects, err := svc.ListSubjects(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(subjects) != len(names) {
		t.Fatalf("expected %d subjects, got %d", len(names), len(subjects))
	}
	for i, name := range names {
		if subjects[i].Name != name {
			t.Errorf("position %d: expected %q, got %q", i, name, subjects[i].Name)
		}
	}
}

func TestDeleteSubjectCascades(t *testing.T) {
	db := newTestDB(t)
	hierarchy := NewHierarchyService(db, nil)
	revisions := NewRevisionService(db, nil)
	ctx := context.Background()

	subtopic := seedHierarchy(t, hierarchy, "Physics", "Mechanics", "Newton's Laws", model.DifficultyHard)
	if _, err := revisions.RecordRevision(ctx, subtopic.ID, model.PerformanceStruggled, ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	subjects, err := hierarchy.ListSubjects(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := hierarchy.DeleteSubject(ctx, subjects[0].ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Nothing may survive the cascade
	var topicCount, subtopicCount, eventCount int64
	db.Model(&model.Topic{}).Count(&topicCount)
	db.Model(&model.Subtopic{}).Count(&subtopicCount)
	db.Model(&model.RevisionEvent{}).Count(&eventCount)
	if topicCount != 0 || subtopicCount != 0 || eventCount != 0 {
		t.Errorf("cascade left orphans: topics=%d subtopics=%d events=%d", topicCount, subtopicCount, eventCount)
	}

	// Deleted ids must now be unknown
	if err := hierarchy.DeleteSubject(ctx, subjects[0].ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
	if _, err := revisions.History(ctx, subtopic.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for deleted subtopic history, got %v", err)
	}
}

func TestDeleteTopicCascades(t *testing.T) {
	db := newTestDB(t)
	hierarchy := NewHierarchyService(db, nil)
	revisions := NewRevisionService(db, nil)
	ctx := context.Background()

	subtopic := seedHierarchy(t, hierarchy, "Physics", "Mechanics", "Momentum", model.DifficultyModerate)
	if _, err := revisions.RecordRevision(ctx, subtopic.ID, model.PerformanceMastered, ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := hierarchy.DeleteTopic(ctx, subtopic.TopicID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var subtopicCount, eventCount int64
	db.Model(&model.Subtopic{}).Count(&subtopicCount)
	db.Model(&model.RevisionEvent{}).Count(&eventCount)
	if subtopicCount != 0 || eventCount != 0 {
		t.Errorf("cascade left orphans: subtopics=%d events=%d", subtopicCount, eventCount)
	}

	// The subject itself stays
	subjects, err := hierarchy.ListSubjects(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(subjects) != 1 {
		t.Errorf("expected subject to survive topic delete, got %d subjects", len(subjects))
	}
}

func TestUpdateSubtopic(t *testing.T) {
	db := newTestDB(t)
	svc := NewHierarchyService(db, nil)
	ctx := context.Background()

	subtopic := seedHierarchy(t, svc, "Maths", "Calculus", "Limits", model.DifficultyEasy)

	if _, err := svc.UpdateSubtopic(ctx, subtopic.ID, UpdateSubtopicInput{}); !errors.Is(err, ErrValidation) {
		t.Errorf("expected ErrValidation for empty update, got %v", err)
	}

	name := "Limits and Continuity"
	difficulty := model.DifficultyHard
	notes := "revisit epsilon-delta proofs"
	updated, err := svc.UpdateSubtopic(ctx, subtopic.ID, UpdateSubtopicInput{
		Name:       &name,
		Difficulty: &difficulty,
		Notes:      &notes,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Name != name || updated.Difficulty != difficulty || updated.Notes != notes {
		t.Errorf("update not applied: %+v", updated)
	}

	bad := model.DifficultyLevel("Extreme")
	if _, err := svc.UpdateSubtopic(ctx, subtopic.ID, UpdateSubtopicInput{Difficulty: &bad}); !errors.Is(err, ErrValidation) {
		t.Errorf("expected ErrValidation for invalid difficulty, got %v", err)
	}

	if _, err := svc.UpdateSubtopic(ctx, 999, UpdateSubtopicInput{Name: &name}); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown subtopic, got %v", err)
	}
}
