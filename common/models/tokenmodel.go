package models

type Token struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Symbol   string `json:"symbol"`
	Decimals int    `json:"decimals"`
	Address  string `json:"address"`
}

func (*Token) poolSeed() {}

func (t *Token) SeedKey() string {
	return "token:" + t.ID
}

// HasName reports whether upstream already classified the token.
func (t *Token) HasName() bool {
	return t.Name != ""
}

func (t *Token) HasSymbol() bool {
	return t.Symbol != ""
}
