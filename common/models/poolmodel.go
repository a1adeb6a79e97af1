package models

import "math/big"

type PoolBalance struct {
	ID      string   `json:"id"`
	Token   *Token   `json:"token"`
	Balance *big.Int `json:"balance"`
}

type Pool struct {
	ID       string        `json:"id"`
	Address  string        `json:"address"`
	Balances []PoolBalance `json:"balances"`
}

func (*Pool) poolSeed() {}

func (p *Pool) SeedKey() string {
	return "pool:" + p.ID
}
