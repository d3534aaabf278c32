package services

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/revisionpro/api/model"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens an isolated in-memory sqlite database and migrates
// the study schema into it
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	err = db.AutoMigrate(
		&model.Subject{},
		&model.Topic{},
		&model.Subtopic{},
		&model.RevisionEvent{},
		&model.CronJobLog{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err == nil {
			sqlDB.Close()
		}
	})

	return db
}

// seedHierarchy creates one subject/topic/subtopic chain and returns the
// subtopic
func seedHierarchy(t *testing.T, svc *HierarchyService, subjectName, topicName, subtopicName string, difficulty model.DifficultyLevel) *model.Subtopic {
	t.Helper()
	ctx := context.Background()

	subject, err := svc.CreateSubject(ctx, subjectName, "")
	if err != nil {
		t.Fatalf("failed to create subject: %v", err)
	}
	topic, err := svc.CreateTopic(ctx, subject.ID, topicName, "")
	if err != nil {
		t.Fatalf("failed to create topic: %v", err)
	}
	subtopic, err := svc.CreateSubtopic(ctx, topic.ID, subtopicName, "", difficulty)
	if err != nil {
		t.Fatalf("failed to create subtopic: %v", err)
	}
	return subtopic
}
