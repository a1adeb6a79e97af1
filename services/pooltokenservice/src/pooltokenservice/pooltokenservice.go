package pooltokenservice

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync/atomic"

	"github.com/alexkalak/go_loopring_explorer/common/core/pooltokencache"
	"github.com/alexkalak/go_loopring_explorer/common/external/subgraphs"
	"github.com/alexkalak/go_loopring_explorer/common/models"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const defaultPageSize = 100
const defaultParallel = 8

type PoolTokenService interface {
	// Warmup pages through the subgraph pairs and resolves the pool token of
	// each one. It returns the number of pool tokens the cache holds after.
	Warmup(ctx context.Context) (int, error)
	Resolve(ctx context.Context, seed models.PoolSeed) (*models.PoolToken, error)
	// PoolTokens returns the resolved pool tokens ordered by pool id.
	PoolTokens() []*models.PoolToken
}

type PoolTokenServiceConfig struct {
	PageSize int
	Parallel int
	// MaxPairs stops the warm up after that many pairs, 0 means all.
	MaxPairs int
}

func (c *PoolTokenServiceConfig) setDefaults() {
	if c.PageSize <= 0 {
		c.PageSize = defaultPageSize
	}
	if c.Parallel <= 0 {
		c.Parallel = defaultParallel
	}
}

type PoolTokenServiceDependencies struct {
	SubgraphClient subgraphs.LoopringSubgraphClient
	Cache          pooltokencache.PoolTokenCache
	Logger         *zap.Logger
}

func (d *PoolTokenServiceDependencies) validate() error {
	if d.SubgraphClient == nil {
		return errors.New("pool token service dependencies subgraph client cannot be nil")
	}
	if d.Cache == nil {
		return errors.New("pool token service dependencies cache cannot be nil")
	}

	return nil
}

type poolTokenService struct {
	config         PoolTokenServiceConfig
	subgraphClient subgraphs.LoopringSubgraphClient
	cache          pooltokencache.PoolTokenCache
	logger         *zap.Logger
}

func New(config PoolTokenServiceConfig, dependencies PoolTokenServiceDependencies) (PoolTokenService, error) {
	if err := dependencies.validate(); err != nil {
		return nil, err
	}
	config.setDefaults()

	logger := dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &poolTokenService{
		config:         config,
		subgraphClient: dependencies.SubgraphClient,
		cache:          dependencies.Cache,
		logger:         logger.Named("pooltokenservice"),
	}, nil
}

func (s *poolTokenService) Resolve(ctx context.Context, seed models.PoolSeed) (*models.PoolToken, error) {
	return s.cache.GetPoolToken(ctx, seed)
}

func (s *poolTokenService) PoolTokens() []*models.PoolToken {
	poolTokens := s.cache.PoolTokens()
	slices.SortFunc(poolTokens, func(a, b *models.PoolToken) int {
		return strings.Compare(a.Pool.ID, b.Pool.ID)
	})
	return poolTokens
}

func (s *poolTokenService) Warmup(ctx context.Context) (int, error) {
	var pairsSeen, notFound, failed atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.config.Parallel)

	skip := 0
	for {
		if s.config.MaxPairs > 0 && skip >= s.config.MaxPairs {
			break
		}
		first := s.config.PageSize
		if s.config.MaxPairs > 0 && skip+first > s.config.MaxPairs {
			first = s.config.MaxPairs - skip
		}

		pairs, err := s.subgraphClient.GetPairs(gctx, skip, first, "", "")
		if err != nil {
			err = errors.Join(err, g.Wait())
			return s.cache.Len(), err
		}
		if len(pairs) == 0 {
			break
		}

		for i := range pairs {
			pair := &pairs[i]
			g.Go(func() error {
				pairsSeen.Add(1)
				poolToken, err := s.cache.GetPoolTokenByPair(gctx, pair)
				switch {
				case errors.Is(err, pooltokencache.ErrUpstream), errors.Is(err, pooltokencache.ErrInvalidSeed):
					failed.Add(1)
					s.logger.Warn("unable to resolve pool token", zap.String("pair", pair.ID), zap.Error(err))
					return nil
				case err != nil:
					return err
				case poolToken == nil:
					notFound.Add(1)
				}
				return nil
			})
		}

		if len(pairs) < first {
			break
		}
		skip += len(pairs)
	}

	err := g.Wait()
	s.logger.Info("pool token warm up finished",
		zap.Int64("pairs", pairsSeen.Load()),
		zap.Int64("not_found", notFound.Load()),
		zap.Int64("failed", failed.Load()),
		zap.Int("pool_tokens", s.cache.Len()),
	)
	return s.cache.Len(), err
}
