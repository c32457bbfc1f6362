package repos

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/yungbote/lingobridge-backend/internal/logger"
	"github.com/yungbote/lingobridge-backend/internal/types"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	err = db.AutoMigrate(
		&types.VocabularyTag{},
		&types.VocabularyDefinition{},
		&types.LearningRecord{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func newVocabRepo(t *testing.T) (VocabularyRepo, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	return NewVocabularyRepo(db, log), db
}

func TestCreateOrGetResolvesConflictToExistingRow(t *testing.T) {
	repo, _ := newVocabRepo(t)
	ctx := context.Background()

	first, created, err := repo.CreateOrGet(ctx, nil, &types.VocabularyDefinition{
		NormalizedTerm: "resilient",
		Term:           "resilient",
		Definition:     "able to recover quickly",
		TimesUsed:      1,
	})
	if err != nil {
		t.Fatalf("first create: %v", err)
	}
	if !created {
		t.Fatalf("first create: want created=true")
	}

	// Same normalized term from a second writer resolves to the first row.
	second, created, err := repo.CreateOrGet(ctx, nil, &types.VocabularyDefinition{
		NormalizedTerm: "resilient",
		Term:           "Resilient",
		Definition:     "a competing definition",
		TimesUsed:      1,
	})
	if err != nil {
		t.Fatalf("second create: %v", err)
	}
	if created {
		t.Fatalf("second create: want created=false")
	}
	if second.ID != first.ID {
		t.Fatalf("conflict resolution: want id=%s got=%s", first.ID, second.ID)
	}
	if second.Definition != "able to recover quickly" {
		t.Fatalf("existing row was overwritten: got %q", second.Definition)
	}
}

func TestIncrementUsageIsArithmeticNotReadModifyWrite(t *testing.T) {
	repo, db := newVocabRepo(t)
	ctx := context.Background()

	row, _, err := repo.CreateOrGet(ctx, nil, &types.VocabularyDefinition{
		NormalizedTerm: "resilient",
		Term:           "resilient",
		TimesUsed:      1,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	for i := 0; i < 3; i++ {
		if err := repo.IncrementUsage(ctx, nil, row.ID); err != nil {
			t.Fatalf("increment %d: %v", i, err)
		}
	}

	var stored types.VocabularyDefinition
	if err := db.Where("id = ?", row.ID).First(&stored).Error; err != nil {
		t.Fatalf("reread: %v", err)
	}
	if stored.TimesUsed != 4 {
		t.Fatalf("times_used: want=4 got=%d", stored.TimesUsed)
	}
}

func TestGetOrCreateTagReusesByName(t *testing.T) {
	repo, db := newVocabRepo(t)
	ctx := context.Background()

	first, err := repo.GetOrCreateTag(ctx, nil, "reading")
	if err != nil {
		t.Fatalf("first tag: %v", err)
	}
	second, err := repo.GetOrCreateTag(ctx, nil, "reading")
	if err != nil {
		t.Fatalf("second tag: %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("tag ids differ: %s vs %s", first.ID, second.ID)
	}

	var count int64
	if err := db.Model(&types.VocabularyTag{}).Count(&count).Error; err != nil {
		t.Fatalf("count tags: %v", err)
	}
	if count != 1 {
		t.Fatalf("tag rows: want=1 got=%d", count)
	}
}

func TestGetByNormalizedTermMissingIsNilNil(t *testing.T) {
	repo, _ := newVocabRepo(t)

	row, err := repo.GetByNormalizedTerm(context.Background(), nil, "unseen")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if row != nil {
		t.Fatalf("missing term: want nil row, got %+v", row)
	}
}

func TestGetByIDNilIDShortCircuits(t *testing.T) {
	repo, _ := newVocabRepo(t)

	row, err := repo.GetByID(context.Background(), nil, uuid.Nil)
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if row != nil {
		t.Fatalf("nil id: want nil row, got %+v", row)
	}
}
