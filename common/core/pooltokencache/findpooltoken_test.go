package pooltokencache

import (
	"testing"

	"github.com/alexkalak/go_loopring_explorer/common/models"
	"github.com/stretchr/testify/assert"
)

func TestFindPoolTokenBalance(t *testing.T) {
	pair := &models.Pair{Token0: ethToken(), Token1: usdtToken()}
	otherLP := &models.Token{ID: "78"}

	tests := []struct {
		name           string
		balances       []models.PoolBalance
		pair           *models.Pair
		wantIndex      int
		wantCandidates int
	}{
		{
			name:           "lp token between pair tokens",
			balances:       []models.PoolBalance{balance(ethToken(), 1), balance(lpToken(), 1), balance(usdtToken(), 1)},
			pair:           pair,
			wantIndex:      1,
			wantCandidates: 1,
		},
		{
			name:           "lp token first",
			balances:       []models.PoolBalance{balance(lpToken(), 1), balance(usdtToken(), 1), balance(ethToken(), 1)},
			pair:           pair,
			wantIndex:      0,
			wantCandidates: 1,
		},
		{
			name:      "no liquidity minted",
			balances:  []models.PoolBalance{balance(ethToken(), 1), balance(usdtToken(), 1)},
			pair:      pair,
			wantIndex: -1,
		},
		{
			name:           "token1 missing",
			balances:       []models.PoolBalance{balance(ethToken(), 1), balance(lpToken(), 1)},
			pair:           pair,
			wantIndex:      -1,
			wantCandidates: 1,
		},
		{
			name:           "several nameless candidates",
			balances:       []models.PoolBalance{balance(ethToken(), 1), balance(lpToken(), 1), balance(otherLP, 1), balance(usdtToken(), 1)},
			pair:           pair,
			wantIndex:      -1,
			wantCandidates: 2,
		},
		{
			name:      "named extra token is no candidate",
			balances:  []models.PoolBalance{balance(ethToken(), 1), balance(&models.Token{ID: "5", Symbol: "LRC"}, 1), balance(usdtToken(), 1)},
			pair:      pair,
			wantIndex: -1,
		},
		{
			name:           "balance without token is skipped",
			balances:       []models.PoolBalance{{ID: "empty"}, balance(ethToken(), 1), balance(lpToken(), 1), balance(usdtToken(), 1)},
			pair:           pair,
			wantIndex:      2,
			wantCandidates: 1,
		},
		{
			name:      "pair without tokens",
			balances:  []models.PoolBalance{balance(ethToken(), 1), balance(lpToken(), 1), balance(usdtToken(), 1)},
			pair:      &models.Pair{ID: "0-2"},
			wantIndex: -1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			index, candidates := findPoolTokenBalance(&models.Pool{ID: "pool", Balances: tt.balances}, tt.pair)
			assert.Equal(t, tt.wantIndex, index)
			assert.Equal(t, tt.wantCandidates, candidates)
		})
	}
}

func TestFindPoolTokenBalanceWithoutPool(t *testing.T) {
	index, candidates := findPoolTokenBalance(nil, &models.Pair{Token0: ethToken(), Token1: usdtToken()})
	assert.Equal(t, -1, index)
	assert.Equal(t, 0, candidates)
}

func TestNewPoolToken(t *testing.T) {
	pool := &models.Pool{ID: "pool", Balances: []models.PoolBalance{balance(ethToken(), 1), balance(usdtToken(), 1), balance(lpToken(), 1)}}
	pair := &models.Pair{Token0: &models.Token{ID: "1", Symbol: "lrc"}, Token1: &models.Token{ID: "3", Symbol: "Dai"}}

	poolToken := newPoolToken(pool, pair, 2)

	assert.Equal(t, "LP-LRC-DAI", poolToken.Token.Name)
	assert.Equal(t, poolToken.Token.Name, poolToken.Token.Symbol)
	assert.Equal(t, models.POOL_TOKEN_DECIMALS_CONSTANT, poolToken.Token.Decimals)
	assert.Equal(t, "77", poolToken.Token.ID)
	assert.Same(t, pair, poolToken.Pair)
	assert.NotSame(t, pool, poolToken.Pool)
	assert.Empty(t, pool.Balances[2].Token.Symbol)
}
