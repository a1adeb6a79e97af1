package pooltokencache

import (
	"github.com/alexkalak/go_loopring_explorer/common/models"
)

// findPoolTokenBalance scans the pool balances for the lp token entry. A
// balance is the lp token candidate when it is neither pair token and its
// token has no symbol. The result is only trusted when both pair tokens were
// seen, and when exactly one candidate exists. It returns the balance index
// (or -1) and the number of candidates seen.
func findPoolTokenBalance(pool *models.Pool, pair *models.Pair) (int, int) {
	if pool == nil || len(pool.Balances) == 0 {
		return -1, 0
	}
	if pair == nil || !pair.HasTokens() {
		return -1, 0
	}

	found := -1
	candidates := 0
	token0Found := false
	token1Found := false
	for i, balance := range pool.Balances {
		if balance.Token == nil {
			continue
		}
		switch {
		case balance.Token.ID == pair.Token0.ID:
			token0Found = true
		case balance.Token.ID == pair.Token1.ID:
			token1Found = true
		case !balance.Token.HasSymbol():
			found = i
			candidates++
		}
	}

	if !token0Found || !token1Found || candidates != 1 {
		return -1, candidates
	}
	return found, candidates
}

// newPoolToken derives the lp token attributes from the pair. The pool is
// copied so that its lp balance points at the derived token.
func newPoolToken(pool *models.Pool, pair *models.Pair, balanceIndex int) *models.PoolToken {
	token := *pool.Balances[balanceIndex].Token
	token.Name = models.PoolTokenName(pair)
	token.Symbol = token.Name
	token.Decimals = models.POOL_TOKEN_DECIMALS_CONSTANT

	poolCopy := *pool
	poolCopy.Balances = append([]models.PoolBalance(nil), pool.Balances...)
	poolCopy.Balances[balanceIndex].Token = &token

	return &models.PoolToken{
		Token: &token,
		Pool:  &poolCopy,
		Pair:  pair,
	}
}
