package model

import (
	"time"
)

// DifficultyLevel classifies how hard a subtopic is to study
type DifficultyLevel string

const (
	DifficultyEasy     DifficultyLevel = "Easy"
	DifficultyModerate DifficultyLevel = "Moderate"
	DifficultyHard     DifficultyLevel = "Hard"
)

// Valid reports whether d is one of the enumerated difficulty levels
func (d DifficultyLevel) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyModerate, DifficultyHard:
		return true
	}
	return false
}

// Weight returns the numeric difficulty used by the priority engine (Easy=1 .. Hard=3)
func (d DifficultyLevel) Weight() float64 {
	switch d {
	case DifficultyEasy:
		return 1
	case DifficultyHard:
		return 3
	default:
		return 2
	}
}

// PerformanceStatus is the derived study state of a subtopic.
// It is never stored: it is recomputed from the revision ledger on every read.
type PerformanceStatus string

const (
	StatusNotStarted PerformanceStatus = "Not Started"
	StatusStruggled  PerformanceStatus = "Struggled"
	StatusMastered   PerformanceStatus = "Mastered"
)

// RevisionPerformance is the outcome a user can log for a revision.
// "Not Started" is never logged; it is the absence of any event.
type RevisionPerformance string

const (
	PerformanceStruggled RevisionPerformance = "Struggled"
	PerformanceMastered  RevisionPerformance = "Mastered"
)

// Valid reports whether p is a loggable revision outcome
func (p RevisionPerformance) Valid() bool {
	return p == PerformanceStruggled || p == PerformanceMastered
}

// Subject is the top level of the study hierarchy (e.g., "Physics")
type Subject struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Name        string    `gorm:"uniqueIndex;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`

	// Relationships
	Topics []Topic `gorm:"foreignKey:SubjectID;constraint:OnDelete:CASCADE" json:"topics,omitempty"`
}

// Topic groups subtopics under a subject (e.g., "Mechanics")
type Topic struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	SubjectID   uint      `gorm:"not null;index" json:"subject_id"`
	Name        string    `gorm:"not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`

	// Relationships
	Subject   Subject    `gorm:"foreignKey:SubjectID;constraint:OnDelete:CASCADE" json:"subject,omitempty"`
	Subtopics []Subtopic `gorm:"foreignKey:TopicID;constraint:OnDelete:CASCADE" json:"subtopics,omitempty"`
}

// Subtopic is the unit of study that revisions are logged against
// (e.g., "Newton's Laws"). PerformanceStatus is filled in by the
// services from the revision ledger; gorm never persists it.
type Subtopic struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	TopicID       uint            `gorm:"not null;index" json:"topic_id"`
	Name          string          `gorm:"not null" json:"name"`
	Description   string          `gorm:"type:text" json:"description"`
	Difficulty    DifficultyLevel `gorm:"type:varchar(20);not null;default:'Moderate'" json:"difficulty"`
	Notes         string          `gorm:"type:text" json:"notes"`
	LastRevised   *time.Time      `json:"last_revised"`
	RevisionCount int             `gorm:"not null;default:0" json:"revision_count"`

	PerformanceStatus PerformanceStatus `gorm:"-" json:"performance_status"`

	// Relationships
	Topic     Topic           `gorm:"foreignKey:TopicID;constraint:OnDelete:CASCADE" json:"topic,omitempty"`
	Revisions []RevisionEvent `gorm:"foreignKey:SubtopicID;constraint:OnDelete:CASCADE" json:"-"`
}

// RevisionEvent is one immutable entry in the revision ledger.
// Events are only ever appended; the state machine and the priority
// engine replay them as an audit trail.
type RevisionEvent struct {
	ID          uint                `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time           `json:"created_at"`
	SubtopicID  uint                `gorm:"not null;index" json:"subtopic_id"`
	Performance RevisionPerformance `gorm:"type:varchar(20);not null" json:"performance"`
	Notes       string              `gorm:"type:text" json:"notes"`
	RevisedAt   time.Time           `gorm:"not null;index" json:"revised_at"`
}

// TableName specifies the table name for RevisionEvent
func (RevisionEvent) TableName() string {
	return "revision_events"
}

// DerivePerformanceStatus computes a subtopic's status from its ledger.
// The slice must be ordered oldest first (revised_at, then insertion id);
// the last event wins, so identical timestamps resolve to the later insert.
func DerivePerformanceStatus(events []RevisionEvent) PerformanceStatus {
	if len(events) == 0 {
		return StatusNotStarted
	}
	switch events[len(events)-1].Performance {
	case PerformanceMastered:
		return StatusMastered
	default:
		return StatusStruggled
	}
}
