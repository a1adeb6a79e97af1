package pooltokenservice

import (
	"context"
	"errors"

	"github.com/alexkalak/go_loopring_explorer/common/models"
	"github.com/alexkalak/go_loopring_explorer/common/repo/pooltokenrepo"
)

var ErrNoExportSink = errors.New("neither postgres nor redis is configured")

// ExportedPoolTokens is what earlier runs handed to the presentation layer.
type ExportedPoolTokens struct {
	Labels []models.Token     `json:"labels,omitempty"`
	Cached []models.PoolToken `json:"cached,omitempty"`
}

// LoadExported reads the exported pool tokens back from every configured sink.
// Either repo may be nil.
func LoadExported(ctx context.Context, dbRepo pooltokenrepo.PoolTokenDBRepo, cacheRepo pooltokenrepo.PoolTokenCacheRepo) (*ExportedPoolTokens, error) {
	if dbRepo == nil && cacheRepo == nil {
		return nil, ErrNoExportSink
	}

	exported := &ExportedPoolTokens{}
	if dbRepo != nil {
		labels, err := dbRepo.GetPoolTokenLabels(ctx)
		if err != nil {
			return nil, err
		}
		exported.Labels = labels
	}
	if cacheRepo != nil {
		cached, err := cacheRepo.GetPoolTokens(ctx)
		if err != nil {
			return nil, err
		}
		exported.Cached = cached
	}

	return exported, nil
}
