package models

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoolTokenName(t *testing.T) {
	pair := &Pair{
		Token0: &Token{ID: "0", Symbol: "eth"},
		Token1: &Token{ID: "2", Symbol: "Usdt"},
	}
	assert.Equal(t, "LP-ETH-USDT", PoolTokenName(pair))
}

func TestPairIdentificatorIsUnordered(t *testing.T) {
	a := NewPairIdentificator("7", "12")
	b := NewPairIdentificator("12", "7")
	assert.Equal(t, a, b)
	assert.Equal(t, "12-7", a.String())

	pair := &Pair{ID: "x", Token0: &Token{ID: "7"}, Token1: &Token{ID: "12"}}
	swapped := &Pair{ID: "y", Token0: &Token{ID: "12"}, Token1: &Token{ID: "7"}}
	assert.Equal(t, pair.SeedKey(), swapped.SeedKey())
	assert.Equal(t, "pair:x", (&Pair{ID: "x"}).SeedKey())
}

func TestTokenClassification(t *testing.T) {
	assert.False(t, (&Token{}).HasName())
	assert.True(t, (&Token{Name: "Ether"}).HasName())
	// only the empty string means unclassified
	assert.True(t, (&Token{Name: "  "}).HasName())
	assert.False(t, (&Token{}).HasSymbol())
	assert.True(t, (&Token{Symbol: " "}).HasSymbol())
}

func TestPoolTokenJSON(t *testing.T) {
	lp := &Token{ID: "77", Name: "LP-ETH-USDT", Symbol: "LP-ETH-USDT", Decimals: POOL_TOKEN_DECIMALS_CONSTANT}
	poolToken := &PoolToken{
		Token: lp,
		Pool: &Pool{ID: "pool-1", Balances: []PoolBalance{
			{ID: "b0", Token: lp, Balance: big.NewInt(123456789)},
		}},
		Pair: &Pair{ID: "0-2", Token0: &Token{ID: "0"}, Token1: &Token{ID: "2"}},
	}

	data, err := poolToken.GetJSON()
	require.NoError(t, err)

	decoded := &PoolToken{}
	require.NoError(t, decoded.FillFromJSON(data))
	assert.Equal(t, "pool-1", decoded.GetIdentificator().String())
	assert.Equal(t, 8, decoded.Token.Decimals)
	assert.Equal(t, 0, decoded.Pool.Balances[0].Balance.Cmp(big.NewInt(123456789)))
}
