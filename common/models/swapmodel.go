package models

// Swap is only used to reach pool and pair data.
type Swap struct {
	ID   string `json:"id"`
	Pool *Pool  `json:"pool"`
	Pair *Pair  `json:"pair"`
}

func (*Swap) poolSeed() {}

func (s *Swap) SeedKey() string {
	return "swap:" + s.ID
}

// Remove is a liquidity removal event.
type Remove struct {
	ID   string `json:"id"`
	Pool *Pool  `json:"pool"`
}

// PoolSeed is the entity a pool resolution starts from. The set of seeds is
// closed: *Pair, *Pool, *Swap and *Token.
type PoolSeed interface {
	SeedKey() string
	poolSeed()
}
