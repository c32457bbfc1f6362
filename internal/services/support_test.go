package services

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/yungbote/lingobridge-backend/internal/logger"
	"github.com/yungbote/lingobridge-backend/internal/repos"
	"github.com/yungbote/lingobridge-backend/internal/types"
)

// newTestDB opens a per-test in-memory sqlite database with the full schema.
// The database is named after the test so parallel tests never share state.
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
		&types.User{},
		&types.VocabularyTag{},
		&types.VocabularyDefinition{},
		&types.LearningRecord{},
		&types.ExerciseBankItem{},
		&types.ExerciseAttempt{},
		&types.AICallLog{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func newTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	return log
}

// fakeGenerator is a deterministic ContentGenerator for tests. Zero value
// succeeds with canned content; set defErr/exErr to simulate outages.
type fakeGenerator struct {
	definition *GeneratedDefinition
	exercises  []GeneratedExercise
	defErr     error
	exErr      error
	defCalls   int
	exCalls    int
}

func (f *fakeGenerator) GenerateDefinition(ctx context.Context, term string, hints DefinitionHints) (*GeneratedDefinition, error) {
	f.defCalls++
	if f.defErr != nil {
		return nil, f.defErr
	}
	if f.definition != nil {
		out := *f.definition
		return &out, nil
	}
	return &GeneratedDefinition{
		Definition:       fmt.Sprintf("The meaning of %s.", term),
		Translation:      fmt.Sprintf("translation of %s", term),
		Pronunciation:    "/test/",
		WordClass:        "noun",
		Collocations:     []string{term + " problem"},
		Synonyms:         []string{"sample"},
		ExampleSentences: []string{fmt.Sprintf("This sentence uses %s naturally.", term)},
	}, nil
}

func (f *fakeGenerator) GenerateExercises(ctx context.Context, term, definition, example string) ([]GeneratedExercise, error) {
	f.exCalls++
	if f.exErr != nil {
		return nil, f.exErr
	}
	if f.exercises != nil {
		return f.exercises, nil
	}
	return []GeneratedExercise{
		{
			Type:          types.ExerciseTypeMeaningCheck,
			Question:      fmt.Sprintf("What does %q mean?", term),
			CorrectAnswer: definition,
			Options:       []string{definition, "wrong a", "wrong b", "wrong c"},
			Explanation:   "generated",
		},
		{
			Type:          types.ExerciseTypeContextCheck,
			Question:      "Fill in the blank: the _____ is here.",
			CorrectAnswer: term,
			Options:       []string{term, "wrong a", "wrong b", "wrong c"},
			Explanation:   "generated",
		},
	}, nil
}

func (f *fakeGenerator) ModelName() string { return "fake-model" }

// fakeDefinitionCache is an in-process DefinitionCache.
type fakeDefinitionCache struct {
	entries map[string]*types.VocabularyDefinition
	gets    int
	sets    int
}

func newFakeDefinitionCache() *fakeDefinitionCache {
	return &fakeDefinitionCache{entries: map[string]*types.VocabularyDefinition{}}
}

func (c *fakeDefinitionCache) Get(ctx context.Context, normalizedTerm string) (*types.VocabularyDefinition, error) {
	c.gets++
	cached, ok := c.entries[normalizedTerm]
	if !ok {
		return nil, nil
	}
	out := *cached
	return &out, nil
}

func (c *fakeDefinitionCache) Set(ctx context.Context, def *types.VocabularyDefinition) error {
	c.sets++
	out := *def
	c.entries[def.NormalizedTerm] = &out
	return nil
}

// testEnv wires the whole service stack against one test database.
type testEnv struct {
	db        *gorm.DB
	log       *logger.Logger
	gen       *fakeGenerator
	cache     *fakeDefinitionCache
	vocab     VocabularyService
	exercises ExerciseService
	practice  PracticeService

	vocabRepo   repos.VocabularyRepo
	recordRepo  repos.LearningRecordRepo
	bankRepo    repos.ExerciseBankRepo
	attemptRepo repos.ExerciseAttemptRepo
	aiLogRepo   repos.AICallLogRepo
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := newTestDB(t)
	log := newTestLogger(t)
	gen := &fakeGenerator{}

	env := &testEnv{
		db:          db,
		log:         log,
		gen:         gen,
		vocabRepo:   repos.NewVocabularyRepo(db, log),
		recordRepo:  repos.NewLearningRecordRepo(db, log),
		bankRepo:    repos.NewExerciseBankRepo(db, log),
		attemptRepo: repos.NewExerciseAttemptRepo(db, log),
		aiLogRepo:   repos.NewAICallLogRepo(db, log),
	}
	env.vocab = NewVocabularyService(db, log, env.vocabRepo, env.aiLogRepo, gen, nil)
	env.exercises = NewExerciseService(db, log, env.bankRepo, env.attemptRepo, env.recordRepo, env.aiLogRepo, gen)
	env.practice = NewPracticeService(db, log, env.vocab, env.recordRepo)
	return env
}
