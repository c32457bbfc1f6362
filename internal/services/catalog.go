package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/lingobridge-backend/internal/logger"
	apperrors "github.com/yungbote/lingobridge-backend/internal/pkg/errors"
	"github.com/yungbote/lingobridge-backend/internal/repos"
	"github.com/yungbote/lingobridge-backend/internal/types"
)

// DefinitionCache is an optional read-through cache in front of the catalog
// lookup (the redis client implements it). A nil cache disables it.
type DefinitionCache interface {
	Get(ctx context.Context, normalizedTerm string) (*types.VocabularyDefinition, error)
	Set(ctx context.Context, def *types.VocabularyDefinition) error
}

type VocabularyService interface {
	// ResolveDefinition returns the one shared catalog row for term,
	// generating and storing it on first sight. It never fails because of the
	// generator: a generation error degrades to a placeholder definition
	// built from the caller's hints.
	ResolveDefinition(ctx context.Context, userID uuid.UUID, term string, hints DefinitionHints, tags []string) (*types.VocabularyDefinition, error)
	GetByID(ctx context.Context, id uuid.UUID) (*types.VocabularyDefinition, error)
}

type vocabularyService struct {
	db        *gorm.DB
	log       *logger.Logger
	vocabRepo repos.VocabularyRepo
	aiLogRepo repos.AICallLogRepo
	generator ContentGenerator
	cache     DefinitionCache
}

func NewVocabularyService(db *gorm.DB, log *logger.Logger, vocabRepo repos.VocabularyRepo, aiLogRepo repos.AICallLogRepo, generator ContentGenerator, cache DefinitionCache) VocabularyService {
	return &vocabularyService{
		db:        db,
		log:       log.With("service", "VocabularyService"),
		vocabRepo: vocabRepo,
		aiLogRepo: aiLogRepo,
		generator: generator,
		cache:     cache,
	}
}

// NormalizeTerm folds a raw term to its catalog identity.
func NormalizeTerm(term string) string {
	return strings.ToLower(strings.TrimSpace(term))
}

func (s *vocabularyService) GetByID(ctx context.Context, id uuid.UUID) (*types.VocabularyDefinition, error) {
	row, err := s.vocabRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, apperrors.ErrNotFound
	}
	return row, nil
}

func (s *vocabularyService) ResolveDefinition(ctx context.Context, userID uuid.UUID, term string, hints DefinitionHints, tags []string) (*types.VocabularyDefinition, error) {
	normalized := NormalizeTerm(term)
	if normalized == "" {
		return nil, fmt.Errorf("%w: term is required", apperrors.ErrInvalidArgument)
	}

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, normalized)
		if err != nil {
			s.log.Warn("Definition cache read failed", "term", normalized, "error", err)
		}
		if cached != nil {
			if err := s.vocabRepo.IncrementUsage(ctx, nil, cached.ID); err != nil {
				return nil, err
			}
			cached.TimesUsed++
			return cached, nil
		}
	}

	existing, err := s.vocabRepo.GetByNormalizedTerm(ctx, nil, normalized)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		if err := s.vocabRepo.IncrementUsage(ctx, nil, existing.ID); err != nil {
			return nil, err
		}
		existing.TimesUsed++
		s.cacheSet(ctx, existing)
		return existing, nil
	}

	row := s.buildDefinitionRow(ctx, userID, term, normalized, hints)

	stored, created, err := s.vocabRepo.CreateOrGet(ctx, nil, row)
	if err != nil {
		return nil, err
	}
	if !created {
		// Someone else won the insert between our lookup and create; their
		// row is the canonical one and our call still counts as a use.
		if err := s.vocabRepo.IncrementUsage(ctx, nil, stored.ID); err != nil {
			return nil, err
		}
		stored.TimesUsed++
		s.cacheSet(ctx, stored)
		return stored, nil
	}

	if err := s.attachTags(ctx, stored, tags); err != nil {
		s.log.Warn("Attaching tags failed", "term", normalized, "error", err)
	}
	s.cacheSet(ctx, stored)
	return stored, nil
}

// buildDefinitionRow asks the generator for content and falls back to a
// placeholder assembled from the caller's hints when it fails. The returned
// row is always complete enough to store.
func (s *vocabularyService) buildDefinitionRow(ctx context.Context, userID uuid.UUID, term, normalized string, hints DefinitionHints) *types.VocabularyDefinition {
	row := &types.VocabularyDefinition{
		ID:             uuid.New(),
		NormalizedTerm: normalized,
		Term:           strings.TrimSpace(term),
		WordClass:      hints.WordClass,
		Level:          hints.Level,
		TimesUsed:      1,
	}

	started := time.Now()
	gen, genErr := s.generator.GenerateDefinition(ctx, row.Term, hints)
	s.logAICall(ctx, userID, "generate_definition", started, genErr)

	if genErr != nil {
		s.log.Warn("Definition generation failed, storing placeholder", "term", normalized, "error", genErr)
		row.Definition = hints.Definition
		if row.Definition == "" {
			row.Definition = fmt.Sprintf("Definition pending for %q.", row.Term)
		}
		row.Translation = hints.Translation
		if hints.SentenceContext != "" {
			row.ExampleSentences = jsonStrings([]string{hints.SentenceContext})
		}
		return row
	}

	row.Definition = gen.Definition
	row.Translation = firstNonEmpty(gen.Translation, hints.Translation)
	row.Pronunciation = gen.Pronunciation
	row.WordClass = firstNonEmpty(gen.WordClass, hints.WordClass)
	row.Collocations = jsonStrings(gen.Collocations)
	row.Synonyms = jsonStrings(gen.Synonyms)
	row.RelatedWords = jsonStrings(gen.RelatedWords)
	row.UsageNotes = gen.UsageNotes
	examples := gen.ExampleSentences
	if len(examples) == 0 && hints.SentenceContext != "" {
		examples = []string{hints.SentenceContext}
	}
	row.ExampleSentences = jsonStrings(examples)
	return row
}

func (s *vocabularyService) attachTags(ctx context.Context, def *types.VocabularyDefinition, tags []string) error {
	var rows []*types.VocabularyTag
	for _, name := range tags {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" {
			continue
		}
		tag, err := s.vocabRepo.GetOrCreateTag(ctx, nil, name)
		if err != nil {
			return err
		}
		if tag != nil {
			rows = append(rows, tag)
		}
	}
	if len(rows) == 0 {
		return nil
	}
	return s.vocabRepo.AttachTags(ctx, nil, def, rows)
}

func (s *vocabularyService) cacheSet(ctx context.Context, def *types.VocabularyDefinition) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, def); err != nil {
		s.log.Warn("Definition cache write failed", "term", def.NormalizedTerm, "error", err)
	}
}

func (s *vocabularyService) logAICall(ctx context.Context, userID uuid.UUID, callType string, started time.Time, callErr error) {
	row := &types.AICallLog{
		CallType:   callType,
		Model:      s.generator.ModelName(),
		DurationMS: time.Since(started).Milliseconds(),
		Success:    callErr == nil,
	}
	if userID != uuid.Nil {
		row.UserID = &userID
	}
	if callErr != nil {
		row.Error = callErr.Error()
	}
	if err := s.aiLogRepo.Create(ctx, nil, row); err != nil {
		s.log.Warn("AI call log write failed", "call_type", callType, "error", err)
	}
}

func jsonStrings(items []string) datatypes.JSON {
	if len(items) == 0 {
		return nil
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return nil
	}
	return datatypes.JSON(raw)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
