package models

import "fmt"

type Pair struct {
	ID         string `json:"id"`
	InternalID string `json:"internal_id"`
	Token0     *Token `json:"token0"`
	Token1     *Token `json:"token1"`
}

// PairIdentificator is the unordered identity of a pair: Token0ID is always
// the lexically smaller id.
type PairIdentificator struct {
	Token0ID string
	Token1ID string
}

func NewPairIdentificator(tokenAID, tokenBID string) PairIdentificator {
	if tokenBID < tokenAID {
		tokenAID, tokenBID = tokenBID, tokenAID
	}
	return PairIdentificator{
		Token0ID: tokenAID,
		Token1ID: tokenBID,
	}
}

func (p PairIdentificator) String() string {
	return fmt.Sprintf("%s-%s", p.Token0ID, p.Token1ID)
}

func (p *Pair) HasTokens() bool {
	return p.Token0 != nil && p.Token1 != nil && p.Token0.ID != "" && p.Token1.ID != ""
}

func (p *Pair) GetIdentificator() PairIdentificator {
	return NewPairIdentificator(p.Token0.ID, p.Token1.ID)
}

func (*Pair) poolSeed() {}

func (p *Pair) SeedKey() string {
	if p.HasTokens() {
		return "pair:" + p.GetIdentificator().String()
	}
	return "pair:" + p.ID
}
