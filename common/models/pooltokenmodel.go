package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

const (
	POOL_TOKENS_TABLE        = "pool_tokens"
	POOL_TOKEN_POOL_ID       = "pool_id"
	POOL_TOKEN_POOL_ADDRESS  = "pool_address"
	POOL_TOKEN_TOKEN_ID      = "token_id"
	POOL_TOKEN_NAME          = "name"
	POOL_TOKEN_SYMBOL        = "symbol"
	POOL_TOKEN_DECIMALS      = "decimals"
	POOL_TOKEN_TOKEN0_ID     = "token0_id"
	POOL_TOKEN_TOKEN1_ID     = "token1_id"
	POOL_TOKEN_TOKEN0_SYMBOL = "token0_symbol"
	POOL_TOKEN_TOKEN1_SYMBOL = "token1_symbol"
)

// LP token decimals are fixed by the pool token contract.
const POOL_TOKEN_DECIMALS_CONSTANT = 8

// PoolToken is a pool's own LP token together with the pool and pair it
// represents. Instances are owned by the pool token cache and must not be
// mutated by readers.
type PoolToken struct {
	Token *Token `json:"token"`
	Pool  *Pool  `json:"pool"`
	Pair  *Pair  `json:"pair"`
}

type PoolTokenIdentificator struct {
	PoolID string
}

func (p PoolTokenIdentificator) String() string {
	return p.PoolID
}

func (p *PoolToken) GetIdentificator() PoolTokenIdentificator {
	return PoolTokenIdentificator{PoolID: p.Pool.ID}
}

func PoolTokenName(pair *Pair) string {
	return fmt.Sprintf("LP-%s-%s", strings.ToUpper(pair.Token0.Symbol), strings.ToUpper(pair.Token1.Symbol))
}

func (p *PoolToken) GetJSON() ([]byte, error) {
	return json.Marshal(p)
}

func (p *PoolToken) FillFromJSON(data []byte) error {
	return json.Unmarshal(data, p)
}
