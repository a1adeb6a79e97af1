package pooltokenservice

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"testing"

	"github.com/alexkalak/go_loopring_explorer/common/core/pooltokencache"
	"github.com/alexkalak/go_loopring_explorer/common/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockSubgraph serves n pairs "t0-t<i>"; every pair i has pool "pool-<i>"
// with lp token "lp-<i>", except the pairs listed in noLiquidity.
type mockSubgraph struct {
	mu          sync.Mutex
	pairs       []models.Pair
	noLiquidity map[string]bool
	failing     map[string]bool
	pageErrs    map[int]error // skip -> error
	pageCalls   int
}

func newMockSubgraph(n int) *mockSubgraph {
	m := &mockSubgraph{noLiquidity: map[string]bool{}, failing: map[string]bool{}, pageErrs: map[int]error{}}
	for i := 1; i <= n; i++ {
		m.pairs = append(m.pairs, models.Pair{
			ID:     fmt.Sprintf("t0-t%d", i),
			Token0: &models.Token{ID: "t0", Name: "Ether", Symbol: "eth"},
			Token1: &models.Token{ID: fmt.Sprintf("t%d", i), Name: "Token", Symbol: fmt.Sprintf("tok%d", i)},
		})
	}
	return m
}

func (m *mockSubgraph) GetPairs(ctx context.Context, skip, first int, orderBy, orderDirection string) ([]models.Pair, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pageCalls++
	if err := m.pageErrs[skip]; err != nil {
		return nil, err
	}
	if skip >= len(m.pairs) {
		return nil, nil
	}
	end := min(skip+first, len(m.pairs))
	return append([]models.Pair(nil), m.pairs[skip:end]...), nil
}

func (m *mockSubgraph) GetSwapPairAndPool(ctx context.Context, seed models.PoolSeed) (*models.Swap, error) {
	pair, ok := seed.(*models.Pair)
	if !ok {
		return nil, nil
	}
	if m.failing[pair.ID] {
		return nil, errors.New("subgraph timeout")
	}
	suffix := pair.Token1.ID[1:]
	balances := []models.PoolBalance{
		{ID: "b0", Token: pair.Token0, Balance: big.NewInt(1)},
		{ID: "b1", Token: pair.Token1, Balance: big.NewInt(1)},
	}
	if !m.noLiquidity[pair.ID] {
		balances = append(balances, models.PoolBalance{ID: "b2", Token: &models.Token{ID: "lp-" + suffix}, Balance: big.NewInt(1)})
	}
	return &models.Swap{
		ID:   "swap-" + suffix,
		Pool: &models.Pool{ID: "pool-" + suffix, Balances: balances},
		Pair: pair,
	}, nil
}

func (m *mockSubgraph) GetAnyRemoveWithTokenID(ctx context.Context, tokenID string) (*models.Remove, error) {
	return nil, nil
}

func newTestService(t *testing.T, subgraph *mockSubgraph, config PoolTokenServiceConfig) (PoolTokenService, pooltokencache.PoolTokenCache) {
	t.Helper()
	cache, err := pooltokencache.New(pooltokencache.PoolTokenCacheDependencies{SubgraphClient: subgraph})
	require.NoError(t, err)
	service, err := New(config, PoolTokenServiceDependencies{SubgraphClient: subgraph, Cache: cache})
	require.NoError(t, err)
	return service, cache
}

func TestWarmupResolvesEveryPairWithLiquidity(t *testing.T) {
	subgraph := newMockSubgraph(25)
	subgraph.noLiquidity["t0-t3"] = true
	subgraph.failing["t0-t4"] = true
	service, cache := newTestService(t, subgraph, PoolTokenServiceConfig{PageSize: 10, Parallel: 4})

	count, err := service.Warmup(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 23, count)
	assert.Equal(t, 3, subgraph.pageCalls)

	poolToken := cache.GetExistingPoolToken(&models.Token{ID: "lp-7"})
	require.NotNil(t, poolToken)
	assert.Equal(t, "LP-ETH-TOK7", poolToken.Token.Symbol)
	assert.Nil(t, cache.GetExistingPoolToken(&models.Token{ID: "lp-3"}))

	poolTokens := service.PoolTokens()
	require.Len(t, poolTokens, 23)
	for i := 1; i < len(poolTokens); i++ {
		assert.Less(t, poolTokens[i-1].Pool.ID, poolTokens[i].Pool.ID)
	}
}

func TestWarmupReturnsPageError(t *testing.T) {
	subgraph := newMockSubgraph(25)
	subgraph.pageErrs[10] = errors.New("subgraph unavailable")
	service, _ := newTestService(t, subgraph, PoolTokenServiceConfig{PageSize: 10, Parallel: 4})

	count, err := service.Warmup(context.Background())
	require.Error(t, err)
	assert.ErrorContains(t, err, "subgraph unavailable")
	// the first page was resolved before the failure
	assert.Equal(t, 10, count)
}

func TestWarmupStopsAtMaxPairs(t *testing.T) {
	subgraph := newMockSubgraph(25)
	service, _ := newTestService(t, subgraph, PoolTokenServiceConfig{PageSize: 10, Parallel: 2, MaxPairs: 15})

	count, err := service.Warmup(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 15, count)
	assert.Equal(t, 2, subgraph.pageCalls)
}

func TestResolveDispatchesToCache(t *testing.T) {
	subgraph := newMockSubgraph(2)
	service, _ := newTestService(t, subgraph, PoolTokenServiceConfig{})

	pair := subgraph.pairs[1]
	poolToken, err := service.Resolve(context.Background(), &pair)
	require.NoError(t, err)
	require.NotNil(t, poolToken)
	assert.Equal(t, "pool-2", poolToken.Pool.ID)
}

func TestNewValidatesDependencies(t *testing.T) {
	_, err := New(PoolTokenServiceConfig{}, PoolTokenServiceDependencies{})
	assert.Error(t, err)
}
