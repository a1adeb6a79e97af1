package pooltokencache

import (
	"fmt"
	"sync"

	"github.com/alexkalak/go_loopring_explorer/common/models"
)

// poolTokenIndex owns every pool token, keyed by pool id. The lp token id and
// pair lookups only hold pool ids into that store.
type poolTokenIndex struct {
	mu sync.RWMutex

	poolTokensByPoolID map[string]*models.PoolToken
	poolIDsByTokenID   map[string]string
	poolIDsByPair      map[models.PairIdentificator]string
}

func newPoolTokenIndex() *poolTokenIndex {
	return &poolTokenIndex{
		poolTokensByPoolID: make(map[string]*models.PoolToken),
		poolIDsByTokenID:   make(map[string]string),
		poolIDsByPair:      make(map[models.PairIdentificator]string),
	}
}

func (i *poolTokenIndex) getByPoolID(poolID string) (*models.PoolToken, bool) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	poolToken, ok := i.poolTokensByPoolID[poolID]
	return poolToken, ok
}

func (i *poolTokenIndex) getByTokenID(tokenID string) (*models.PoolToken, bool) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	poolID, ok := i.poolIDsByTokenID[tokenID]
	if !ok {
		return nil, false
	}
	poolToken, ok := i.poolTokensByPoolID[poolID]
	return poolToken, ok
}

func (i *poolTokenIndex) getByPair(pairIdentificator models.PairIdentificator) (*models.PoolToken, bool) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	poolID, ok := i.poolIDsByPair[pairIdentificator]
	if !ok {
		return nil, false
	}
	poolToken, ok := i.poolTokensByPoolID[poolID]
	return poolToken, ok
}

// insertIfAbsent indexes poolToken under all three keys or under none. When
// the pool is already indexed the existing pool token is returned instead.
// Any other key collision is reported as ErrPoolTokenAlreadyIndexed.
func (i *poolTokenIndex) insertIfAbsent(poolToken *models.PoolToken) (*models.PoolToken, bool, error) {
	poolID := poolToken.Pool.ID
	tokenID := poolToken.Token.ID
	pairIdentificator := poolToken.Pair.GetIdentificator()

	i.mu.Lock()
	defer i.mu.Unlock()

	if existing, ok := i.poolTokensByPoolID[poolID]; ok {
		return existing, false, nil
	}
	if otherPoolID, ok := i.poolIDsByTokenID[tokenID]; ok {
		return nil, false, fmt.Errorf("%w: token %s already belongs to pool %s, refusing pool %s", ErrPoolTokenAlreadyIndexed, tokenID, otherPoolID, poolID)
	}
	if otherPoolID, ok := i.poolIDsByPair[pairIdentificator]; ok {
		return nil, false, fmt.Errorf("%w: pair %s already belongs to pool %s, refusing pool %s", ErrPoolTokenAlreadyIndexed, pairIdentificator, otherPoolID, poolID)
	}

	i.poolTokensByPoolID[poolID] = poolToken
	i.poolIDsByTokenID[tokenID] = poolID
	i.poolIDsByPair[pairIdentificator] = poolID

	return poolToken, true, nil
}

func (i *poolTokenIndex) len() int {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return len(i.poolTokensByPoolID)
}

func (i *poolTokenIndex) all() []*models.PoolToken {
	i.mu.RLock()
	defer i.mu.RUnlock()
	poolTokens := make([]*models.PoolToken, 0, len(i.poolTokensByPoolID))
	for _, poolToken := range i.poolTokensByPoolID {
		poolTokens = append(poolTokens, poolToken)
	}
	return poolTokens
}
