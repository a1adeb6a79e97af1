package pooltokencache

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/alexkalak/go_loopring_explorer/common/models"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Upstream is the part of the subgraph client the cache depends on.
type Upstream interface {
	GetSwapPairAndPool(ctx context.Context, seed models.PoolSeed) (*models.Swap, error)
	GetAnyRemoveWithTokenID(ctx context.Context, tokenID string) (*models.Remove, error)
}

// Listener is told about every pool token after it was indexed. It is called
// once per pool from its own goroutine, so resolutions never wait for it.
type Listener interface {
	OnPoolTokenResolved(ctx context.Context, poolToken *models.PoolToken)
}

// PoolTokenCache resolves the lp token of a pool from a pair, pool, swap or
// token and remembers it for the process lifetime. Every Get method returns
// nil and no error when the pool or its lp token cannot be identified.
type PoolTokenCache interface {
	GetPoolToken(ctx context.Context, seed models.PoolSeed) (*models.PoolToken, error)
	GetPoolTokenByPair(ctx context.Context, pair *models.Pair) (*models.PoolToken, error)
	GetPoolTokenByPool(ctx context.Context, pool *models.Pool) (*models.PoolToken, error)
	GetPoolTokenBySwap(ctx context.Context, swap *models.Swap) (*models.PoolToken, error)
	GetPoolTokenByToken(ctx context.Context, token *models.Token) (*models.PoolToken, error)

	// GetExistingPoolToken never contacts upstream.
	GetExistingPoolToken(token *models.Token) *models.PoolToken
	PoolTokens() []*models.PoolToken
	Len() int

	// Flush waits for the listener notifications of every pool token indexed
	// so far. Call it once resolutions have stopped.
	Flush()
}

type PoolTokenCacheDependencies struct {
	SubgraphClient Upstream

	Logger   *zap.Logger
	Metrics  *Metrics
	Listener Listener
}

func (d *PoolTokenCacheDependencies) validate() error {
	if d.SubgraphClient == nil {
		return errors.New("pool token cache dependencies subgraph client cannot be nil")
	}

	return nil
}

type poolTokenCache struct {
	subgraphClient Upstream
	logger         *zap.Logger
	metrics        *Metrics
	listener       Listener

	index         *poolTokenIndex
	inflight      singleflight.Group
	notifications sync.WaitGroup
}

// flightResult carries the outcome of one flight to every caller sharing it.
type flightResult struct {
	poolToken *models.PoolToken
	// the context that ran the flight was done when the flight returned
	cancelled bool
}

func New(dependencies PoolTokenCacheDependencies) (PoolTokenCache, error) {
	if err := dependencies.validate(); err != nil {
		return nil, err
	}

	logger := dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &poolTokenCache{
		subgraphClient: dependencies.SubgraphClient,
		logger:         logger.Named("pooltokencache"),
		metrics:        dependencies.Metrics,
		listener:       dependencies.Listener,
		index:          newPoolTokenIndex(),
	}, nil
}

func (c *poolTokenCache) GetPoolToken(ctx context.Context, seed models.PoolSeed) (*models.PoolToken, error) {
	switch seed := seed.(type) {
	case *models.Pair:
		return c.GetPoolTokenByPair(ctx, seed)
	case *models.Pool:
		return c.GetPoolTokenByPool(ctx, seed)
	case *models.Swap:
		return c.GetPoolTokenBySwap(ctx, seed)
	case *models.Token:
		return c.GetPoolTokenByToken(ctx, seed)
	default:
		return nil, fmt.Errorf("%w: %T", ErrInvalidSeed, seed)
	}
}

func (c *poolTokenCache) GetPoolTokenByPair(ctx context.Context, pair *models.Pair) (*models.PoolToken, error) {
	if pair == nil || !pair.HasTokens() {
		return nil, fmt.Errorf("%w: pair without tokens", ErrInvalidSeed)
	}
	if poolToken, ok := c.index.getByPair(pair.GetIdentificator()); ok {
		c.metrics.lookup(entryPair, outcomeHit)
		return poolToken, nil
	}

	poolToken, err := c.resolve(ctx, pair)
	c.recordResolution(entryPair, poolToken, err)
	return poolToken, err
}

func (c *poolTokenCache) GetPoolTokenByPool(ctx context.Context, pool *models.Pool) (*models.PoolToken, error) {
	if pool == nil || pool.ID == "" {
		return nil, fmt.Errorf("%w: pool without id", ErrInvalidSeed)
	}
	if poolToken, ok := c.index.getByPoolID(pool.ID); ok {
		c.metrics.lookup(entryPool, outcomeHit)
		return poolToken, nil
	}

	poolToken, err := c.resolve(ctx, pool)
	c.recordResolution(entryPool, poolToken, err)
	return poolToken, err
}

func (c *poolTokenCache) GetPoolTokenBySwap(ctx context.Context, swap *models.Swap) (*models.PoolToken, error) {
	if swap == nil {
		return nil, fmt.Errorf("%w: nil swap", ErrInvalidSeed)
	}
	if swap.Pool != nil && swap.Pool.ID != "" {
		return c.GetPoolTokenByPool(ctx, swap.Pool)
	}
	if swap.Pair != nil && swap.Pair.HasTokens() {
		return c.GetPoolTokenByPair(ctx, swap.Pair)
	}
	if swap.ID == "" {
		return nil, fmt.Errorf("%w: swap without id", ErrInvalidSeed)
	}

	poolToken, err := c.resolve(ctx, swap)
	c.recordResolution(entrySwap, poolToken, err)
	return poolToken, err
}

func (c *poolTokenCache) GetPoolTokenByToken(ctx context.Context, token *models.Token) (*models.PoolToken, error) {
	if token == nil || token.ID == "" {
		return nil, fmt.Errorf("%w: token without id", ErrInvalidSeed)
	}
	if poolToken := c.GetExistingPoolToken(token); poolToken != nil {
		c.metrics.lookup(entryToken, outcomeHit)
		return poolToken, nil
	}
	// removes reference regular tokens as well, only nameless tokens can be lp tokens
	if token.HasName() {
		c.metrics.lookup(entryToken, outcomeNotFound)
		return nil, nil
	}

	poolToken, err := c.resolve(ctx, token)
	c.recordResolution(entryToken, poolToken, err)
	return poolToken, err
}

func (c *poolTokenCache) GetExistingPoolToken(token *models.Token) *models.PoolToken {
	if token == nil {
		return nil
	}
	poolToken, _ := c.index.getByTokenID(token.ID)
	return poolToken
}

func (c *poolTokenCache) PoolTokens() []*models.PoolToken {
	return c.index.all()
}

func (c *poolTokenCache) Len() int {
	return c.index.len()
}

func (c *poolTokenCache) Flush() {
	c.notifications.Wait()
}

func (c *poolTokenCache) recordResolution(entry string, poolToken *models.PoolToken, err error) {
	switch {
	case err != nil:
		c.metrics.lookup(entry, outcomeError)
	case poolToken == nil:
		c.metrics.lookup(entry, outcomeNotFound)
	default:
		c.metrics.lookup(entry, outcomeResolved)
	}
}

func isContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// resolve coalesces concurrent resolutions of the same seed into one flight.
// The flight runs with the context of the caller that started it. A caller
// whose own context is alive retries once when that context was cancelled
// under the flight; any other failure is returned as is.
func (c *poolTokenCache) resolve(ctx context.Context, seed models.PoolSeed) (*models.PoolToken, error) {
	retried := false
	for {
		ch := c.inflight.DoChan(seed.SeedKey(), func() (any, error) {
			poolToken, err := c.resolveSeed(ctx, seed)
			return flightResult{poolToken: poolToken, cancelled: ctx.Err() != nil}, err
		})

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case res := <-ch:
			flight, _ := res.Val.(flightResult)
			if res.Err != nil {
				if flight.cancelled && !retried && ctx.Err() == nil && isContextError(res.Err) {
					retried = true
					continue
				}
				return nil, res.Err
			}
			return flight.poolToken, nil
		}
	}
}

func (c *poolTokenCache) resolveSeed(ctx context.Context, seed models.PoolSeed) (*models.PoolToken, error) {
	switch seed := seed.(type) {
	case *models.Pool:
		// a flight for this pool may have finished between lookup and flight
		if poolToken, ok := c.index.getByPoolID(seed.ID); ok {
			return poolToken, nil
		}
	case *models.Pair:
		if poolToken, ok := c.index.getByPair(seed.GetIdentificator()); ok {
			return poolToken, nil
		}
	case *models.Token:
		if poolToken, ok := c.index.getByTokenID(seed.ID); ok {
			return poolToken, nil
		}
		remove, err := c.subgraphClient.GetAnyRemoveWithTokenID(ctx, seed.ID)
		c.metrics.upstreamCall(operationRemove, err)
		if err != nil {
			return nil, fmt.Errorf("%w: remove with token %s: %w", ErrUpstream, seed.ID, err)
		}
		if remove == nil || remove.Pool == nil || remove.Pool.ID == "" {
			return nil, nil
		}
		return c.resolve(ctx, remove.Pool)
	}

	return c.addPoolToken(ctx, seed)
}

func (c *poolTokenCache) addPoolToken(ctx context.Context, seed models.PoolSeed) (*models.PoolToken, error) {
	swap, err := c.subgraphClient.GetSwapPairAndPool(ctx, seed)
	c.metrics.upstreamCall(operationEnrich, err)
	if err != nil {
		return nil, fmt.Errorf("%w: swap pair and pool for %s: %w", ErrUpstream, seed.SeedKey(), err)
	}
	if swap == nil || swap.Pool == nil || swap.Pool.ID == "" || swap.Pair == nil {
		return nil, nil
	}
	if poolToken, ok := c.index.getByPoolID(swap.Pool.ID); ok {
		return poolToken, nil
	}

	balanceIndex, candidates := findPoolTokenBalance(swap.Pool, swap.Pair)
	if balanceIndex < 0 {
		if candidates > 1 {
			c.logger.Warn("pool has several nameless balances, lp token is ambiguous",
				zap.String("pool", swap.Pool.ID),
				zap.Int("candidates", candidates),
			)
		}
		return nil, nil
	}

	poolToken, inserted, err := c.index.insertIfAbsent(newPoolToken(swap.Pool, swap.Pair, balanceIndex))
	if err != nil {
		c.metrics.duplicate()
		c.logger.DPanic("pool token index is inconsistent",
			zap.String("pool", swap.Pool.ID),
			zap.Error(err),
		)
		return nil, err
	}
	if !inserted {
		return poolToken, nil
	}

	c.metrics.indexed(c.index.len())
	c.logger.Debug("pool token resolved",
		zap.String("pool", poolToken.Pool.ID),
		zap.String("token", poolToken.Token.ID),
		zap.String("symbol", poolToken.Token.Symbol),
	)
	if c.listener != nil {
		listenerCtx := context.WithoutCancel(ctx)
		c.notifications.Go(func() {
			c.listener.OnPoolTokenResolved(listenerCtx, poolToken)
		})
	}

	return poolToken, nil
}
