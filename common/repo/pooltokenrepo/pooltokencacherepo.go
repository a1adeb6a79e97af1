package pooltokenrepo

import (
	"context"
	"errors"

	"github.com/alexkalak/go_loopring_explorer/common/models"
	"github.com/alexkalak/go_loopring_explorer/common/periphery/redisdb"
	"github.com/redis/go-redis/v9"
)

const POOL_TOKENS_HASH = "pool_tokens"
const POOL_TOKENS_STREAM = "pool_tokens_resolved"

// PoolTokenCacheRepo shares resolved pool tokens with other processes: a hash
// keyed by pool id and a stream announcing new ones.
type PoolTokenCacheRepo interface {
	SetPoolToken(ctx context.Context, poolToken *models.PoolToken) error
	GetPoolTokens(ctx context.Context) ([]models.PoolToken, error)
	StreamPoolToken(ctx context.Context, poolToken *models.PoolToken) error
}

type PoolTokenCacheRepoDependencies struct {
	RedisDatabase *redisdb.RedisDatabase
}

func (d *PoolTokenCacheRepoDependencies) validate() error {
	if d.RedisDatabase == nil {
		return errors.New("pool token cache repo dependencies redis database cannot be nil")
	}

	return nil
}

type poolTokenCacheRepo struct {
	redisDB *redisdb.RedisDatabase
}

func NewCacheRepo(dependencies PoolTokenCacheRepoDependencies) (PoolTokenCacheRepo, error) {
	if err := dependencies.validate(); err != nil {
		return nil, err
	}

	return &poolTokenCacheRepo{
		redisDB: dependencies.RedisDatabase,
	}, nil
}

func (r *poolTokenCacheRepo) SetPoolToken(ctx context.Context, poolToken *models.PoolToken) error {
	rdb, err := r.redisDB.GetDB()
	if err != nil {
		return err
	}

	poolTokenJSON, err := poolToken.GetJSON()
	if err != nil {
		return err
	}

	return rdb.HSet(ctx, POOL_TOKENS_HASH, poolToken.GetIdentificator().String(), poolTokenJSON).Err()
}

func (r *poolTokenCacheRepo) GetPoolTokens(ctx context.Context) ([]models.PoolToken, error) {
	rdb, err := r.redisDB.GetDB()
	if err != nil {
		return nil, err
	}

	poolTokensMap, err := rdb.HGetAll(ctx, POOL_TOKENS_HASH).Result()
	if err != nil {
		return nil, err
	}

	poolTokens := make([]models.PoolToken, 0, len(poolTokensMap))
	for _, poolTokenStr := range poolTokensMap {
		poolToken := models.PoolToken{}
		if err := poolToken.FillFromJSON([]byte(poolTokenStr)); err != nil {
			continue
		}
		poolTokens = append(poolTokens, poolToken)
	}

	return poolTokens, nil
}

func (r *poolTokenCacheRepo) StreamPoolToken(ctx context.Context, poolToken *models.PoolToken) error {
	rdb, err := r.redisDB.GetDB()
	if err != nil {
		return err
	}

	poolTokenJSON, err := poolToken.GetJSON()
	if err != nil {
		return err
	}

	return rdb.XAdd(ctx, &redis.XAddArgs{
		Stream: POOL_TOKENS_STREAM,
		Values: map[string]any{
			"pool_token": poolTokenJSON,
		},
	}).Err()
}
