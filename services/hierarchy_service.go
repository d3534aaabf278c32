package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/revisionpro/api/model"
	"github.com/revisionpro/api/utils/cache"
	"gorm.io/gorm"
)

// HierarchyService owns the Subject -> Topic -> Subtopic tree.
// It is purely structural: nothing here touches revision scheduling
// beyond cascading a delete through the ledger.
type HierarchyService struct {
	db    *gorm.DB
	cache *cache.RedisCache
}

// NewHierarchyService creates a new hierarchy service
func NewHierarchyService(db *gorm.DB, redisCache *cache.RedisCache) *HierarchyService {
	return &HierarchyService{
		db:    db,
		cache: redisCache,
	}
}

// invalidateStats drops the cached dashboard after any mutation
func (s *HierarchyService) invalidateStats(ctx context.Context) {
	if s.cache != nil {
		_ = s.cache.Delete(ctx, dashboardCacheKey)
	}
}

// CreateSubject creates a top-level subject. Names are trimmed and must
// be non-empty and unique.
func (s *HierarchyService) CreateSubject(ctx context.Context, name, description string) (*model.Subject, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: subject name must not be empty", ErrValidation)
	}

	var existing model.Subject
	err := s.db.WithContext(ctx).Where("name = ?", name).First(&existing).Error
	if err == nil {
		return nil, fmt.Errorf("%w: subject %q already exists", ErrConflict, name)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check subject name: %w", err)
	}

	subject := model.Subject{
		Name:        name,
		Description: strings.TrimSpace(description),
	}
	if err := s.db.WithContext(ctx).Create(&subject).Error; err != nil {
		return nil, fmt.Errorf("failed to create subject: %w", err)
	}

	s.invalidateStats(ctx)
	return &subject, nil
}

// ListSubjects returns all subjects in creation order
func (s *HierarchyService) ListSubjects(ctx context.Context) ([]model.Subject, error) {
	var subjects []model.Subject
	if err := s.db.WithContext(ctx).Order("created_at ASC, id ASC").Find(&subjects).Error; err != nil {
		return nil, fmt.Errorf("failed to list subjects: %w", err)
	}
	return subjects, nil
}

// DeleteSubject removes a subject together with its topics, their
// subtopics and every revision event logged against them. The whole
// cascade runs in one transaction: it either fully completes or leaves
// the store untouched.
func (s *HierarchyService) DeleteSubject(ctx context.Context, id uint) error {
	err := withRetry(func() error {
		return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var subject model.Subject
			if err := tx.First(&subject, id).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("%w: subject %d", ErrNotFound, id)
				}
				return fmt.Errorf("failed to fetch subject: %w", err)
			}

			topicIDs := tx.Model(&model.Topic{}).Select("id").Where("subject_id = ?", id)
			subtopicIDs := tx.Model(&model.Subtopic{}).Select("id").Where("topic_id IN (?)", topicIDs)

			// Leaves first so the subqueries still see their parents
			if err := tx.Where("subtopic_id IN (?)", subtopicIDs).Delete(&model.RevisionEvent{}).Error; err != nil {
				return fmt.Errorf("failed to delete revision events: %w", err)
			}
			if err := tx.Where("topic_id IN (?)", topicIDs).Delete(&model.Subtopic{}).Error; err != nil {
				return fmt.Errorf("failed to delete subtopics: %w", err)
			}
			if err := tx.Where("subject_id = ?", id).Delete(&model.Topic{}).Error; err != nil {
				return fmt.Errorf("failed to delete topics: %w", err)
			}
			return tx.Delete(&subject).Error
		})
	})
	if err != nil {
		return err
	}

	s.invalidateStats(ctx)
	return nil
}

// CreateTopic creates a topic under an existing subject
func (s *HierarchyService) CreateTopic(ctx context.Context, subjectID uint, name, description string) (*model.Topic, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: topic name must not be empty", ErrValidation)
	}

	var subject model.Subject
	if err := s.db.WithContext(ctx).First(&subject, subjectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: subject %d", ErrNotFound, subjectID)
		}
		return nil, fmt.Errorf("failed to fetch subject: %w", err)
	}

	topic := model.Topic{
		SubjectID:   subjectID,
		Name:        name,
		Description: strings.TrimSpace(description),
	}
	if err := s.db.WithContext(ctx).Create(&topic).Error; err != nil {
		return nil, fmt.Errorf("failed to create topic: %w", err)
	}

	s.invalidateStats(ctx)
	return &topic, nil
}

// ListTopics returns topics in creation order, optionally filtered by subject
func (s *HierarchyService) ListTopics(ctx context.Context, subjectID *uint) ([]model.Topic, error) {
	query := s.db.WithContext(ctx).Model(&model.Topic{})
	if subjectID != nil {
		query = query.Where("subject_id = ?", *subjectID)
	}

	var topics []model.Topic
	if err := query.Order("created_at ASC, id ASC").Find(&topics).Error; err != nil {
		return nil, fmt.Errorf("failed to list topics: %w", err)
	}
	return topics, nil
}

// DeleteTopic removes a topic, its subtopics and their revision events
func (s *HierarchyService) DeleteTopic(ctx context.Context, id uint) error {
	err := withRetry(func() error {
		return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var topic model.Topic
			if err := tx.First(&topic, id).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("%w: topic %d", ErrNotFound, id)
				}
				return fmt.Errorf("failed to fetch topic: %w", err)
			}

			subtopicIDs := tx.Model(&model.Subtopic{}).Select("id").Where("topic_id = ?", id)
			if err := tx.Where("subtopic_id IN (?)", subtopicIDs).Delete(&model.RevisionEvent{}).Error; err != nil {
				return fmt.Errorf("failed to delete revision events: %w", err)
			}
			if err := tx.Where("topic_id = ?", id).Delete(&model.Subtopic{}).Error; err != nil {
				return fmt.Errorf("failed to delete subtopics: %w", err)
			}
			return tx.Delete(&topic).Error
		})
	})
	if err != nil {
		return err
	}

	s.invalidateStats(ctx)
	return nil
}

// CreateSubtopic creates a subtopic under an existing topic. Difficulty
// defaults to Moderate when omitted.
func (s *HierarchyService) CreateSubtopic(ctx context.Context, topicID uint, name, description string, difficulty model.DifficultyLevel) (*model.Subtopic, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: subtopic name must not be empty", ErrValidation)
	}
	if difficulty == "" {
		difficulty = model.DifficultyModerate
	}
	if !difficulty.Valid() {
		return nil, fmt.Errorf("%w: invalid difficulty %q", ErrValidation, difficulty)
	}

	var topic model.Topic
	if err := s.db.WithContext(ctx).First(&topic, topicID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: topic %d", ErrNotFound, topicID)
		}
		return nil, fmt.Errorf("failed to fetch topic: %w", err)
	}

	subtopic := model.Subtopic{
		TopicID:     topicID,
		Name:        name,
		Description: strings.TrimSpace(description),
		Difficulty:  difficulty,
	}
	if err := s.db.WithContext(ctx).Create(&subtopic).Error; err != nil {
		return nil, fmt.Errorf("failed to create subtopic: %w", err)
	}
	subtopic.PerformanceStatus = model.StatusNotStarted

	s.invalidateStats(ctx)
	return &subtopic, nil
}

// ListSubtopics returns subtopics in creation order, optionally filtered
// by topic, with the derived performance status filled in
func (s *HierarchyService) ListSubtopics(ctx context.Context, topicID *uint) ([]model.Subtopic, error) {
	query := s.db.WithContext(ctx).
		Preload("Revisions", func(db *gorm.DB) *gorm.DB {
			return db.Order("revised_at ASC, id ASC")
		})
	if topicID != nil {
		query = query.Where("topic_id = ?", *topicID)
	}

	var subtopics []model.Subtopic
	if err := query.Order("created_at ASC, id ASC").Find(&subtopics).Error; err != nil {
		return nil, fmt.Errorf("failed to list subtopics: %w", err)
	}

	for i := range subtopics {
		subtopics[i].PerformanceStatus = model.DerivePerformanceStatus(subtopics[i].Revisions)
	}
	return subtopics, nil
}

// UpdateSubtopicInput carries the optional fields of a subtopic update.
// Nil means "leave unchanged".
type UpdateSubtopicInput struct {
	Name        *string
	Description *string
	Difficulty  *model.DifficultyLevel
	Notes       *string
}

// UpdateSubtopic edits a subtopic's own fields. The parent topic is
// immutable and the derived state cannot be set from here.
func (s *HierarchyService) UpdateSubtopic(ctx context.Context, id uint, input UpdateSubtopicInput) (*model.Subtopic, error) {
	if input.Name == nil && input.Description == nil && input.Difficulty == nil && input.Notes == nil {
		return nil, fmt.Errorf("%w: no fields to update", ErrValidation)
	}

	var subtopic model.Subtopic
	if err := s.db.WithContext(ctx).First(&subtopic, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: subtopic %d", ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to fetch subtopic: %w", err)
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: subtopic name must not be empty", ErrValidation)
		}
		subtopic.Name = name
	}
	if input.Description != nil {
		subtopic.Description = strings.TrimSpace(*input.Description)
	}
	if input.Difficulty != nil {
		if !input.Difficulty.Valid() {
			return nil, fmt.Errorf("%w: invalid difficulty %q", ErrValidation, *input.Difficulty)
		}
		subtopic.Difficulty = *input.Difficulty
	}
	if input.Notes != nil {
		subtopic.Notes = *input.Notes
	}

	if err := s.db.WithContext(ctx).Save(&subtopic).Error; err != nil {
		return nil, fmt.Errorf("failed to update subtopic: %w", err)
	}

	events, err := s.loadEvents(ctx, id)
	if err != nil {
		return nil, err
	}
	subtopic.PerformanceStatus = model.DerivePerformanceStatus(events)

	s.invalidateStats(ctx)
	return &subtopic, nil
}

// DeleteSubtopic removes a subtopic and its revision events
func (s *HierarchyService) DeleteSubtopic(ctx context.Context, id uint) error {
	err := withRetry(func() error {
		return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var subtopic model.Subtopic
			if err := tx.First(&subtopic, id).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("%w: subtopic %d", ErrNotFound, id)
				}
				return fmt.Errorf("failed to fetch subtopic: %w", err)
			}

			if err := tx.Where("subtopic_id = ?", id).Delete(&model.RevisionEvent{}).Error; err != nil {
				return fmt.Errorf("failed to delete revision events: %w", err)
			}
			return tx.Delete(&subtopic).Error
		})
	})
	if err != nil {
		return err
	}

	s.invalidateStats(ctx)
	return nil
}

func (s *HierarchyService) loadEvents(ctx context.Context, subtopicID uint) ([]model.RevisionEvent, error) {
	var events []model.RevisionEvent
	err := s.db.WithContext(ctx).
		Where("subtopic_id = ?", subtopicID).
		Order("revised_at ASC, id ASC").
		Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load revision events: %w", err)
	}
	return events, nil
}
