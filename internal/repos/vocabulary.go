package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yungbote/lingobridge-backend/internal/logger"
	"github.com/yungbote/lingobridge-backend/internal/types"
)

type VocabularyRepo interface {
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.VocabularyDefinition, error)
	GetByNormalizedTerm(ctx context.Context, tx *gorm.DB, normalizedTerm string) (*types.VocabularyDefinition, error)
	CreateOrGet(ctx context.Context, tx *gorm.DB, row *types.VocabularyDefinition) (*types.VocabularyDefinition, bool, error)
	IncrementUsage(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
	GetOrCreateTag(ctx context.Context, tx *gorm.DB, name string) (*types.VocabularyTag, error)
	AttachTags(ctx context.Context, tx *gorm.DB, def *types.VocabularyDefinition, tags []*types.VocabularyTag) error
}

type vocabularyRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewVocabularyRepo(db *gorm.DB, baseLog *logger.Logger) VocabularyRepo {
	return &vocabularyRepo{db: db, log: baseLog.With("repo", "VocabularyRepo")}
}

func (r *vocabularyRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.VocabularyDefinition, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if id == uuid.Nil {
		return nil, nil
	}
	var row types.VocabularyDefinition
	err := transaction.WithContext(ctx).
		Where("id = ?", id).
		Limit(1).
		Find(&row).Error
	if err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

func (r *vocabularyRepo) GetByNormalizedTerm(ctx context.Context, tx *gorm.DB, normalizedTerm string) (*types.VocabularyDefinition, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if normalizedTerm == "" {
		return nil, nil
	}
	var row types.VocabularyDefinition
	err := transaction.WithContext(ctx).
		Where("normalized_term = ?", normalizedTerm).
		Limit(1).
		Find(&row).Error
	if err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

func (r *vocabularyRepo) CreateOrGet(ctx context.Context, tx *gorm.DB, row *types.VocabularyDefinition) (*types.VocabularyDefinition, bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if row == nil {
		return nil, false, nil
	}
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	if row.TimesUsed == 0 {
		row.TimesUsed = 1
	}
	return getOrCreate(ctx, transaction, row,
		[]clause.Column{{Name: "normalized_term"}},
		"normalized_term = ?", row.NormalizedTerm)
}

// IncrementUsage bumps times_used with a single UPDATE so concurrent
// resolves never lose counts to read-modify-write interleaving.
func (r *vocabularyRepo) IncrementUsage(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if id == uuid.Nil {
		return nil
	}
	return transaction.WithContext(ctx).
		Model(&types.VocabularyDefinition{}).
		Where("id = ?", id).
		UpdateColumn("times_used", gorm.Expr("times_used + 1")).Error
}

func (r *vocabularyRepo) GetOrCreateTag(ctx context.Context, tx *gorm.DB, name string) (*types.VocabularyTag, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if name == "" {
		return nil, nil
	}
	row := &types.VocabularyTag{ID: uuid.New(), Name: name}
	tag, _, err := getOrCreate(ctx, transaction, row,
		[]clause.Column{{Name: "name"}},
		"name = ?", name)
	if err != nil {
		return nil, err
	}
	return tag, nil
}

func (r *vocabularyRepo) AttachTags(ctx context.Context, tx *gorm.DB, def *types.VocabularyDefinition, tags []*types.VocabularyTag) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if def == nil || len(tags) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).
		Model(def).
		Association("Tags").
		Append(tags)
}
