package pooltokenservice

import (
	"context"
	"errors"
	"time"

	"github.com/alexkalak/go_loopring_explorer/common/models"
	"github.com/alexkalak/go_loopring_explorer/common/repo/pooltokenrepo"
	"go.uber.org/zap"
)

const publishTimeout = 10 * time.Second

type PublisherDependencies struct {
	Kafka     *KafkaClientConfig
	CacheRepo pooltokenrepo.PoolTokenCacheRepo
	DBRepo    pooltokenrepo.PoolTokenDBRepo
	Logger    *zap.Logger
}

// Publisher hands every newly resolved pool token to the configured sinks.
// Sink failures are logged and never fail a resolution.
type Publisher struct {
	kafkaClient *kafkaClient
	cacheRepo   pooltokenrepo.PoolTokenCacheRepo
	dbRepo      pooltokenrepo.PoolTokenDBRepo
	logger      *zap.Logger
	now         func() time.Time
}

func NewPublisher(dependencies PublisherDependencies) *Publisher {
	logger := dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	p := &Publisher{
		cacheRepo: dependencies.CacheRepo,
		dbRepo:    dependencies.DBRepo,
		logger:    logger.Named("publisher"),
		now:       time.Now,
	}
	if dependencies.Kafka != nil {
		p.kafkaClient = newKafkaClient(*dependencies.Kafka)
	}
	return p
}

func (p *Publisher) OnPoolTokenResolved(ctx context.Context, poolToken *models.PoolToken) {
	// the resolving caller may already be gone
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	if err := p.publish(ctx, poolToken); err != nil {
		p.logger.Error("unable to publish pool token",
			zap.String("pool", poolToken.Pool.ID),
			zap.String("token", poolToken.Token.ID),
			zap.Error(err),
		)
	}
}

func (p *Publisher) publish(ctx context.Context, poolToken *models.PoolToken) error {
	var errs []error

	if p.kafkaClient != nil {
		event := newPoolTokenEvent(poolToken, p.now())
		if err := p.kafkaClient.sendPoolTokenEvents(ctx, []poolTokenEvent{event}); err != nil {
			errs = append(errs, err)
		}
	}
	if p.cacheRepo != nil {
		if err := p.cacheRepo.SetPoolToken(ctx, poolToken); err != nil {
			errs = append(errs, err)
		}
		if err := p.cacheRepo.StreamPoolToken(ctx, poolToken); err != nil {
			errs = append(errs, err)
		}
	}
	if p.dbRepo != nil {
		if err := p.dbRepo.UpsertPoolTokens(ctx, []*models.PoolToken{poolToken}); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

func (p *Publisher) Close() error {
	if p.kafkaClient == nil {
		return nil
	}
	return p.kafkaClient.close()
}
