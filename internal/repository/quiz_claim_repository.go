package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/lshigami/studydeck/config"
	"github.com/lshigami/studydeck/internal/model"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// QuizClaimRepository is a conditional create on the fact "a quiz of this
// type is being created for this deck". Only one caller is granted a claim
// until it is released or expires.
type QuizClaimRepository interface {
	Claim(ctx context.Context, deckID, quizType string) (bool, error)
	Release(ctx context.Context, deckID, quizType string) error
}

// NewQuizClaimRepository picks the backend named by CLAIM_BACKEND.
func NewQuizClaimRepository(cfg *config.Config, db *gorm.DB, rdb *redis.Client) (QuizClaimRepository, error) {
	switch cfg.Claim.Backend {
	case config.ClaimBackendRedis:
		if rdb == nil {
			return nil, fmt.Errorf("claim backend %q needs a redis client", cfg.Claim.Backend)
		}
		return NewRedisQuizClaimRepository(rdb, cfg.Claim.TTL), nil
	case config.ClaimBackendDatabase, "":
		return NewGormQuizClaimRepository(db, cfg.Claim.TTL), nil
	default:
		return nil, fmt.Errorf("unsupported CLAIM_BACKEND %q", cfg.Claim.Backend)
	}
}

type gormQuizClaimRepository struct {
	db  *gorm.DB
	ttl time.Duration
}

func NewGormQuizClaimRepository(db *gorm.DB, ttl time.Duration) QuizClaimRepository {
	return &gormQuizClaimRepository{db: db, ttl: ttl}
}

func (r *gormQuizClaimRepository) Claim(ctx context.Context, deckID, quizType string) (bool, error) {
	db := r.db.WithContext(ctx)
	now := db.NowFunc()

	// A claim left behind by a crashed request stops blocking after ttl.
	if r.ttl > 0 {
		err := db.Where("deck_id = ? AND quiz_type = ? AND claimed_at < ?", deckID, quizType, now.Add(-r.ttl)).
			Delete(&model.QuizClaim{}).Error
		if err != nil {
			return false, fmt.Errorf("expire stale claim for deck %s: %w", deckID, err)
		}
	}

	res := db.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&model.QuizClaim{DeckID: deckID, QuizType: quizType, ClaimedAt: now})
	if res.Error != nil {
		return false, fmt.Errorf("claim quiz creation for deck %s: %w", deckID, res.Error)
	}
	return res.RowsAffected == 1, nil
}

func (r *gormQuizClaimRepository) Release(ctx context.Context, deckID, quizType string) error {
	err := r.db.WithContext(ctx).
		Where("deck_id = ? AND quiz_type = ?", deckID, quizType).
		Delete(&model.QuizClaim{}).Error
	if err != nil {
		return fmt.Errorf("release claim for deck %s: %w", deckID, err)
	}
	return nil
}

type redisQuizClaimRepository struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisQuizClaimRepository(rdb *redis.Client, ttl time.Duration) QuizClaimRepository {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &redisQuizClaimRepository{rdb: rdb, ttl: ttl}
}

func claimKey(deckID, quizType string) string {
	return "studydeck:quiz-claim:" + deckID + ":" + quizType
}

func (r *redisQuizClaimRepository) Claim(ctx context.Context, deckID, quizType string) (bool, error) {
	ok, err := r.rdb.SetNX(ctx, claimKey(deckID, quizType), time.Now().UTC().Format(time.RFC3339Nano), r.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("redis claim for deck %s: %w", deckID, err)
	}
	if !ok {
		log.Debug().Str("deckID", deckID).Str("quizType", quizType).Msg("Quiz claim already held")
	}
	return ok, nil
}

func (r *redisQuizClaimRepository) Release(ctx context.Context, deckID, quizType string) error {
	if err := r.rdb.Del(ctx, claimKey(deckID, quizType)).Err(); err != nil {
		return fmt.Errorf("redis release for deck %s: %w", deckID, err)
	}
	return nil
}
