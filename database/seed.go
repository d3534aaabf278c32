package database

import (
	"fmt"
	"log"
	"time"

	"github.com/revisionpro/api/model"
	"gorm.io/gorm"
)

// Seeder handles database seeding operations
type Seeder struct {
	db *gorm.DB
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db}
}

// SeedAll runs all seed functions
func (s *Seeder) SeedAll() error {
	log.Println("Starting database seeding...")

	// Run seeds in order (respecting foreign key constraints)
	if err := s.SeedSubjects(); err != nil {
		return fmt.Errorf("failed to seed subjects: %w", err)
	}

	if err := s.SeedRevisions(); err != nil {
		return fmt.Errorf("failed to seed revisions: %w", err)
	}

	log.Println("Database seeding completed successfully!")
	return nil
}

// SeedSubjects creates a small demo hierarchy if the database is empty
func (s *Seeder) SeedSubjects() error {
	var count int64
	if err := s.db.Model(&model.Subject{}).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		log.Println("Subjects already exist, skipping...")
		return nil
	}

	subjects := []model.Subject{
		{
			Name:        "Physics",
			Description: "Classical and modern physics",
			Topics: []model.Topic{
				{
					Name:        "Mechanics",
					Description: "Motion, forces and energy",
					Subtopics: []model.Subtopic{
						{Name: "Newton's Laws", Difficulty: model.DifficultyHard},
						{Name: "Work and Energy", Difficulty: model.DifficultyModerate},
						{Name: "Momentum", Difficulty: model.DifficultyModerate},
					},
				},
				{
					Name:        "Thermodynamics",
					Description: "Heat, temperature and entropy",
					Subtopics: []model.Subtopic{
						{Name: "Laws of Thermodynamics", Difficulty: model.DifficultyHard},
						{Name: "Heat Transfer", Difficulty: model.DifficultyEasy},
					},
				},
			},
		},
		{
			Name:        "Mathematics",
			Description: "Core mathematics",
			Topics: []model.Topic{
				{
					Name: "Calculus",
					Subtopics: []model.Subtopic{
						{Name: "Limits", Difficulty: model.DifficultyEasy},
						{Name: "Integration by Parts", Difficulty: model.DifficultyHard},
					},
				},
			},
		},
	}

	for i := range subjects {
		if err := s.db.Create(&subjects[i]).Error; err != nil {
			return err
		}
		log.Printf("Seeded subject: %s", subjects[i].Name)
	}

	return nil
}

// SeedRevisions logs a few revision events against the demo hierarchy so the
// dashboard and recommendations have something to show
func (s *Seeder) SeedRevisions() error {
	var count int64
	if err := s.db.Model(&model.RevisionEvent{}).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		log.Println("Revision events already exist, skipping...")
		return nil
	}

	var subtopics []model.Subtopic
	if err := s.db.Order("id ASC").Limit(3).Find(&subtopics).Error; err != nil {
		return err
	}

	outcomes := []model.RevisionPerformance{
		model.PerformanceStruggled,
		model.PerformanceMastered,
		model.PerformanceStruggled,
	}

	for i, st := range subtopics {
		if i >= len(outcomes) {
			break
		}
		revisedAt := time.Now().UTC().AddDate(0, 0, -(i*5 + 1))
		event := model.RevisionEvent{
			SubtopicID:  st.ID,
			Performance: outcomes[i],
			RevisedAt:   revisedAt,
		}
		err := s.db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&event).Error; err != nil {
				return err
			}
			return tx.Model(&model.Subtopic{}).Where("id = ?", st.ID).
				Updates(map[string]interface{}{
					"last_revised":   revisedAt,
					"revision_count": gorm.Expr("revision_count + 1"),
				}).Error
		})
		if err != nil {
			return err
		}
	}

	log.Println("Seeded revision events")
	return nil
}

// RunSeeds is the entry point used by cmd/seed
func RunSeeds(db *gorm.DB) error {
	return NewSeeder(db).SeedAll()
}
