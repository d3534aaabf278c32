package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/revisionpro/api/model"
	"gorm.io/gorm"
)

// RecommendationService ranks every subtopic by urgency and returns the
// top entries with a human-readable justification. It is a pure read
// path: the same hierarchy + ledger snapshot always produces the same
// ordered output.
type RecommendationService struct {
	db  *gorm.DB
	now func() time.Time
}

// NewRecommendationService creates a new recommendation service
func NewRecommendationService(db *gorm.DB) *RecommendationService {
	return &RecommendationService{
		db:  db,
		now: time.Now,
	}
}

// Recommendation is one "study this next" entry
type Recommendation struct {
	SubtopicID        uint    `json:"subtopic_id"`
	SubtopicName      string  `json:"subtopic_name"`
	TopicName         string  `json:"topic_name"`
	SubjectName       string  `json:"subject_name"`
	PriorityScore     float64 `json:"priority_score"`
	Reason            string  `json:"reason"`
	DaysSinceRevision *int    `json:"days_since_revision"`
}

// Recommend scores every subtopic and returns the top limit entries by
// descending priority. Ties break by days since revision (longest
// neglected first), then by creation order. A non-positive limit or an
// empty hierarchy yields an empty list, not an error.
func (s *RecommendationService) Recommend(ctx context.Context, limit int) ([]Recommendation, error) {
	if limit <= 0 {
		return []Recommendation{}, nil
	}

	var subtopics []model.Subtopic
	err := s.db.WithContext(ctx).
		Preload("Topic.Subject").
		Preload("Revisions", func(db *gorm.DB) *gorm.DB {
			return db.Order("revised_at ASC, id ASC")
		}).
		Order("created_at ASC, id ASC").
		Find(&subtopics).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load subtopics: %w", err)
	}

	if len(subtopics) == 0 {
		return []Recommendation{}, nil
	}

	now := s.now().UTC()

	type scored struct {
		rec       Recommendation
		days      int
		createdAt time.Time
		id        uint
	}

	ranked := make([]scored, 0, len(subtopics))
	for _, st := range subtopics {
		status := model.DerivePerformanceStatus(st.Revisions)
		days, revised := DaysSinceRevision(now, st)

		rec := Recommendation{
			SubtopicID:    st.ID,
			SubtopicName:  st.Name,
			TopicName:     st.Topic.Name,
			SubjectName:   st.Topic.Subject.Name,
			PriorityScore: PriorityScore(now, st, status),
			Reason:        PriorityReason(now, st, status),
		}
		if revised {
			d := days
			rec.DaysSinceRevision = &d
		}

		ranked = append(ranked, scored{
			rec:       rec,
			days:      days,
			createdAt: st.CreatedAt,
			id:        st.ID,
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].rec.PriorityScore != ranked[j].rec.PriorityScore {
			return ranked[i].rec.PriorityScore > ranked[j].rec.PriorityScore
		}
		if ranked[i].days != ranked[j].days {
			return ranked[i].days > ranked[j].days
		}
		return ranked[i].id < ranked[j].id
	})

	if limit > len(ranked) {
		limit = len(ranked)
	}

	recommendations := make([]Recommendation, 0, limit)
	for _, entry := range ranked[:limit] {
		recommendations = append(recommendations, entry.rec)
	}
	return recommendations, nil
}
