package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/revisionpro/api/model"
	"github.com/revisionpro/api/utils/cache"
	"gorm.io/gorm"
)

// RevisionService owns the revision ledger. Appending an event is the
// only write path that changes a subtopic's derived state; events are
// never edited or deleted outside of a cascading hierarchy delete.
type RevisionService struct {
	db    *gorm.DB
	cache *cache.RedisCache
	now   func() time.Time
}

// NewRevisionService creates a new revision service
func NewRevisionService(db *gorm.DB, redisCache *cache.RedisCache) *RevisionService {
	return &RevisionService{
		db:    db,
		cache: redisCache,
		now:   time.Now,
	}
}

// RecordRevision appends an immutable event to the ledger and updates
// the subtopic's last_revised and revision_count in the same
// transaction. The timestamp is the server clock at insertion time.
func (s *RevisionService) RecordRevision(ctx context.Context, subtopicID uint, performance model.RevisionPerformance, notes string) (*model.RevisionEvent, error) {
	if !performance.Valid() {
		return nil, fmt.Errorf("%w: invalid performance %q", ErrValidation, performance)
	}

	var event model.RevisionEvent
	err := withRetry(func() error {
		return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var subtopic model.Subtopic
			if err := tx.First(&subtopic, subtopicID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("%w: subtopic %d", ErrNotFound, subtopicID)
				}
				return fmt.Errorf("failed to fetch subtopic: %w", err)
			}

			revisedAt := s.now().UTC()
			event = model.RevisionEvent{
				SubtopicID:  subtopicID,
				Performance: performance,
				Notes:       notes,
				RevisedAt:   revisedAt,
			}
			if err := tx.Create(&event).Error; err != nil {
				return fmt.Errorf("failed to append revision event: %w", err)
			}

			return tx.Model(&model.Subtopic{}).Where("id = ?", subtopicID).
				Updates(map[string]interface{}{
					"last_revised":   revisedAt,
					"revision_count": gorm.Expr("revision_count + 1"),
				}).Error
		})
	})
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		_ = s.cache.Delete(ctx, dashboardCacheKey)
	}
	return &event, nil
}

// History returns a subtopic's ledger oldest first; ties on revised_at
// are ordered by insertion id so the state machine can replay them
// deterministically
func (s *RevisionService) History(ctx context.Context, subtopicID uint) ([]model.RevisionEvent, error) {
	var subtopic model.Subtopic
	if err := s.db.WithContext(ctx).First(&subtopic, subtopicID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: subtopic %d", ErrNotFound, subtopicID)
		}
		return nil, fmt.Errorf("failed to fetch subtopic: %w", err)
	}

	var events []model.RevisionEvent
	err := s.db.WithContext(ctx).
		Where("subtopic_id = ?", subtopicID).
		Order("revised_at ASC, id ASC").
		Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load revision history: %w", err)
	}
	return events, nil
}
