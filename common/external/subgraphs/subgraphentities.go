package subgraphs

import (
	"encoding/json"
	"fmt"
	"math/big"
	"strconv"

	"github.com/alexkalak/go_loopring_explorer/common/external/subgraphs/subgrapherrors"
	"github.com/alexkalak/go_loopring_explorer/common/models"
	"github.com/ethereum/go-ethereum/common"
)

type TokenResponse struct {
	ID       string      `json:"id"`
	Name     string      `json:"name"`
	Symbol   string      `json:"symbol"`
	Decimals json.Number `json:"decimals"`
	Address  string      `json:"address"`
}

type PoolBalanceResponse struct {
	ID      string         `json:"id"`
	Balance string         `json:"balance"`
	Token   *TokenResponse `json:"token"`
}

type PoolResponse struct {
	ID       string                `json:"id"`
	Address  string                `json:"address"`
	Balances []PoolBalanceResponse `json:"balances"`
}

type PairResponse struct {
	ID         string         `json:"id"`
	InternalID json.Number    `json:"internalID"`
	Token0     *TokenResponse `json:"token0"`
	Token1     *TokenResponse `json:"token1"`
}

type SwapResponse struct {
	ID   string        `json:"id"`
	Pool *PoolResponse `json:"pool"`
	Pair *PairResponse `json:"pair"`
}

type RemoveResponse struct {
	ID   string        `json:"id"`
	Pool *PoolResponse `json:"pool"`
}

func normalizeAddress(address string) string {
	if !common.IsHexAddress(address) {
		return address
	}
	return common.HexToAddress(address).Hex()
}

func (r *TokenResponse) toModel() (*models.Token, error) {
	if r == nil || r.ID == "" {
		return nil, fmt.Errorf("%w: token without id", subgrapherrors.ErrInvalidResponse)
	}

	decimals := 0
	if r.Decimals != "" {
		d, err := strconv.Atoi(r.Decimals.String())
		if err != nil {
			return nil, fmt.Errorf("%w: token %s decimals %q", subgrapherrors.ErrInvalidResponse, r.ID, r.Decimals)
		}
		decimals = d
	}

	return &models.Token{
		ID:       r.ID,
		Name:     r.Name,
		Symbol:   r.Symbol,
		Decimals: decimals,
		Address:  normalizeAddress(r.Address),
	}, nil
}

func (r *PoolResponse) toModel() (*models.Pool, error) {
	if r == nil || r.ID == "" {
		return nil, fmt.Errorf("%w: pool without id", subgrapherrors.ErrInvalidResponse)
	}

	balances := make([]models.PoolBalance, 0, len(r.Balances))
	for _, balanceResp := range r.Balances {
		balance := models.PoolBalance{
			ID:      balanceResp.ID,
			Balance: new(big.Int),
		}
		if balanceResp.Balance != "" {
			if _, ok := balance.Balance.SetString(balanceResp.Balance, 10); !ok {
				return nil, fmt.Errorf("%w: pool %s balance %q", subgrapherrors.ErrInvalidResponse, r.ID, balanceResp.Balance)
			}
		}
		// a balance without token can never be a pool token candidate
		if balanceResp.Token != nil {
			token, err := balanceResp.Token.toModel()
			if err != nil {
				return nil, err
			}
			balance.Token = token
		}
		balances = append(balances, balance)
	}

	return &models.Pool{
		ID:       r.ID,
		Address:  normalizeAddress(r.Address),
		Balances: balances,
	}, nil
}

func (r *PairResponse) toModel() (*models.Pair, error) {
	if r == nil || r.ID == "" {
		return nil, fmt.Errorf("%w: pair without id", subgrapherrors.ErrInvalidResponse)
	}
	token0, err := r.Token0.toModel()
	if err != nil {
		return nil, err
	}
	token1, err := r.Token1.toModel()
	if err != nil {
		return nil, err
	}

	return &models.Pair{
		ID:         r.ID,
		InternalID: r.InternalID.String(),
		Token0:     token0,
		Token1:     token1,
	}, nil
}

// toModel returns nil when the swap does not carry both pool and pair.
func (r *SwapResponse) toModel() (*models.Swap, error) {
	if r == nil || r.Pool == nil || r.Pair == nil {
		return nil, nil
	}
	pool, err := r.Pool.toModel()
	if err != nil {
		return nil, err
	}
	pair, err := r.Pair.toModel()
	if err != nil {
		return nil, err
	}

	return &models.Swap{
		ID:   r.ID,
		Pool: pool,
		Pair: pair,
	}, nil
}

func (r *RemoveResponse) toModel() (*models.Remove, error) {
	if r == nil {
		return nil, nil
	}
	remove := &models.Remove{ID: r.ID}
	if r.Pool != nil {
		pool, err := r.Pool.toModel()
		if err != nil {
			return nil, err
		}
		remove.Pool = pool
	}
	return remove, nil
}
