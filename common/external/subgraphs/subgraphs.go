package subgraphs

import (
	"context"
	_ "embed"
	"fmt"
	"net/http"

	"github.com/alexkalak/go_loopring_explorer/common/external/subgraphs/subgrapherrors"
	"github.com/alexkalak/go_loopring_explorer/common/models"
	"github.com/machinebox/graphql"
	"go.uber.org/zap"
)

type LoopringSubgraphClient interface {
	// GetSwapPairAndPool returns a swap carrying the populated pool and pair
	// of the seed's pool, or nil when the subgraph knows no such swap.
	GetSwapPairAndPool(ctx context.Context, seed models.PoolSeed) (*models.Swap, error)
	// GetAnyRemoveWithTokenID returns any remove whose pool referenced tokenID, or nil.
	GetAnyRemoveWithTokenID(ctx context.Context, tokenID string) (*models.Remove, error)
	GetPairs(ctx context.Context, skip, first int, orderBy, orderDirection string) ([]models.Pair, error)
}

type SubgraphClientConfig struct {
	URL    string
	APIKey string

	HTTPClient *http.Client
	Logger     *zap.Logger
}

type subgraphClient struct {
	client *graphql.Client
	apiKey string
}

func NewSubgraphClient(config SubgraphClientConfig) (LoopringSubgraphClient, error) {
	if config.URL == "" {
		return nil, subgrapherrors.ErrSubgraphURLNotSet
	}

	opts := []graphql.ClientOption{}
	if config.HTTPClient != nil {
		opts = append(opts, graphql.WithHTTPClient(config.HTTPClient))
	}
	client := graphql.NewClient(config.URL, opts...)
	if client == nil {
		return nil, subgrapherrors.ErrInvalidSubgraphClient
	}
	if config.Logger != nil {
		logger := config.Logger.Named("subgraph")
		client.Log = func(s string) {
			logger.Debug(s)
		}
	}

	return &subgraphClient{
		client: client,
		apiKey: config.APIKey,
	}, nil
}

//go:embed subgraphassets/tokenfragment.graphql
var tokenFragment string

//go:embed subgraphassets/swappairandpoolfragment.graphql
var swapPairAndPoolFragment string

//go:embed subgraphassets/swapbypoolquery.graphql
var swapByPoolQuery string

//go:embed subgraphassets/swapbypairquery.graphql
var swapByPairQuery string

//go:embed subgraphassets/swapbypairtokensquery.graphql
var swapByPairTokensQuery string

//go:embed subgraphassets/swapbyidquery.graphql
var swapByIDQuery string

//go:embed subgraphassets/anyremovebytokenquery.graphql
var anyRemoveByTokenQuery string

//go:embed subgraphassets/pairsquery.graphql
var pairsQuery string

func (s *subgraphClient) newRequest(query string, fragments ...string) *graphql.Request {
	for _, fragment := range fragments {
		query += "\n" + fragment
	}
	req := graphql.NewRequest(query)
	if s.apiKey != "" {
		req.Header.Add("Authorization", "Bearer "+s.apiKey)
	}
	return req
}

func (s *subgraphClient) GetSwapPairAndPool(ctx context.Context, seed models.PoolSeed) (*models.Swap, error) {
	switch seed := seed.(type) {
	case *models.Pool:
		if seed == nil || seed.ID == "" {
			return nil, subgrapherrors.ErrInvalidSeed
		}
		return s.querySwapsWhere(ctx, swapByPoolQuery, "poolId", seed.ID)
	case *models.Pair:
		if seed == nil {
			return nil, subgrapherrors.ErrInvalidSeed
		}
		if seed.ID != "" {
			return s.querySwapsWhere(ctx, swapByPairQuery, "pairId", seed.ID)
		}
		if !seed.HasTokens() {
			return nil, subgrapherrors.ErrInvalidSeed
		}
		return s.querySwapByPairTokens(ctx, seed.Token0.ID, seed.Token1.ID)
	case *models.Swap:
		if seed == nil || seed.ID == "" {
			return nil, subgrapherrors.ErrInvalidSeed
		}
		return s.querySwapByID(ctx, seed.ID)
	case *models.Token:
		if seed == nil || seed.ID == "" {
			return nil, subgrapherrors.ErrInvalidSeed
		}
		remove, err := s.GetAnyRemoveWithTokenID(ctx, seed.ID)
		if err != nil {
			return nil, err
		}
		if remove == nil || remove.Pool == nil {
			return nil, nil
		}
		return s.querySwapsWhere(ctx, swapByPoolQuery, "poolId", remove.Pool.ID)
	default:
		return nil, fmt.Errorf("%w: %T", subgrapherrors.ErrInvalidSeed, seed)
	}
}

func (s *subgraphClient) querySwapsWhere(ctx context.Context, query, key, value string) (*models.Swap, error) {
	req := s.newRequest(query, swapPairAndPoolFragment, tokenFragment)
	req.Var(key, value)

	respData := struct {
		Swaps []SwapResponse `json:"swaps"`
	}{}

	if err := s.client.Run(ctx, req, &respData); err != nil {
		return nil, err
	}
	if len(respData.Swaps) == 0 {
		return nil, nil
	}

	return respData.Swaps[0].toModel()
}

// querySwapByPairTokens looks the pair up by its token ids, in both orders.
func (s *subgraphClient) querySwapByPairTokens(ctx context.Context, tokenAID, tokenBID string) (*models.Swap, error) {
	for _, ids := range [][2]string{{tokenAID, tokenBID}, {tokenBID, tokenAID}} {
		req := s.newRequest(swapByPairTokensQuery, swapPairAndPoolFragment, tokenFragment)
		req.Var("token0Id", ids[0])
		req.Var("token1Id", ids[1])

		respData := struct {
			Swaps []SwapResponse `json:"swaps"`
		}{}

		if err := s.client.Run(ctx, req, &respData); err != nil {
			return nil, err
		}
		if len(respData.Swaps) > 0 {
			return respData.Swaps[0].toModel()
		}
	}

	return nil, nil
}

func (s *subgraphClient) querySwapByID(ctx context.Context, swapID string) (*models.Swap, error) {
	req := s.newRequest(swapByIDQuery, swapPairAndPoolFragment, tokenFragment)
	req.Var("swapId", swapID)

	respData := struct {
		Swap *SwapResponse `json:"swap"`
	}{}

	if err := s.client.Run(ctx, req, &respData); err != nil {
		return nil, err
	}

	return respData.Swap.toModel()
}

func (s *subgraphClient) GetAnyRemoveWithTokenID(ctx context.Context, tokenID string) (*models.Remove, error) {
	req := s.newRequest(anyRemoveByTokenQuery)
	req.Var("tokenId", tokenID)

	respData := struct {
		Removes []RemoveResponse `json:"removes"`
	}{}

	if err := s.client.Run(ctx, req, &respData); err != nil {
		return nil, err
	}
	if len(respData.Removes) == 0 {
		return nil, nil
	}

	return respData.Removes[0].toModel()
}

const DefaultPairsOrderBy = "tradedVolumeToken0Swap"
const DefaultPairsOrderDirection = "desc"

func (s *subgraphClient) GetPairs(ctx context.Context, skip, first int, orderBy, orderDirection string) ([]models.Pair, error) {
	if orderBy == "" {
		orderBy = DefaultPairsOrderBy
	}
	if orderDirection == "" {
		orderDirection = DefaultPairsOrderDirection
	}

	req := s.newRequest(pairsQuery, tokenFragment)
	req.Var("skip", skip)
	req.Var("first", first)
	req.Var("orderBy", orderBy)
	req.Var("orderDirection", orderDirection)

	respData := struct {
		Pairs []PairResponse `json:"pairs"`
	}{}

	if err := s.client.Run(ctx, req, &respData); err != nil {
		return nil, err
	}

	result := make([]models.Pair, 0, len(respData.Pairs))
	for _, pairResp := range respData.Pairs {
		pair, err := pairResp.toModel()
		if err != nil {
			return nil, err
		}
		result = append(result, *pair)
	}

	return result, nil
}
