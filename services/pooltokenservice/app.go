package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/alexkalak/go_loopring_explorer/common/core/pooltokencache"
	"github.com/alexkalak/go_loopring_explorer/common/external/subgraphs"
	"github.com/alexkalak/go_loopring_explorer/common/helpers/envhelper"
	"github.com/alexkalak/go_loopring_explorer/common/helpers/logger"
	"github.com/alexkalak/go_loopring_explorer/common/periphery/pgdatabase"
	"github.com/alexkalak/go_loopring_explorer/common/periphery/redisdb"
	"github.com/alexkalak/go_loopring_explorer/common/repo/pooltokenrepo"
	pooltokenservice "github.com/alexkalak/go_loopring_explorer/services/pooltokenservice/src/pooltokenservice"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const metricsNamespace = "explorer"

type app struct {
	logger  *zap.Logger
	service pooltokenservice.PoolTokenService
	closers []func() error

	dbRepo    pooltokenrepo.PoolTokenDBRepo
	cacheRepo pooltokenrepo.PoolTokenCacheRepo
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.logger.Warn("unable to close resource", zap.Error(err))
		}
	}
	_ = a.logger.Sync()
}

func newApp(ctx context.Context, cmd *cobra.Command, config pooltokenservice.PoolTokenServiceConfig) (*app, error) {
	env, err := envhelper.GetEnv()
	if err != nil {
		return nil, err
	}

	logLevel, _ := cmd.Flags().GetString("log-level")
	if logLevel == "" {
		logLevel = env.LOG_LEVEL
	}
	log, err := logger.New(logLevel)
	if err != nil {
		return nil, err
	}

	a := &app{logger: log}
	if err := a.wire(ctx, env, config); err != nil {
		a.close()
		return nil, err
	}
	return a, nil
}

func (a *app) wire(ctx context.Context, env *envhelper.Environment, config pooltokenservice.PoolTokenServiceConfig) error {
	subgraphClient, err := subgraphs.NewSubgraphClient(subgraphs.SubgraphClientConfig{
		URL:    env.SUBGRAPH_URL,
		APIKey: env.SUBGRAPH_API_TOKEN,
		Logger: a.logger,
	})
	if err != nil {
		return err
	}

	publisherDependencies := pooltokenservice.PublisherDependencies{
		Logger: a.logger,
	}

	if env.PostgresEnabled() {
		pgDB, err := pgdatabase.New(pgdatabase.PgDatabaseConfig{
			Host:     env.POSTGRES_HOST,
			Port:     env.POSTGRES_PORT,
			User:     env.POSTGRES_USER,
			Password: env.POSTGRES_PASSWORD,
			DBName:   env.POSTGRES_DB_NAME,
			SSlMode:  env.POSTGRES_SSL_MODE,
		})
		if err != nil {
			return err
		}
		a.closers = append(a.closers, pgDB.Close)
		if err := pgDB.Ping(ctx); err != nil {
			return err
		}

		dbRepo, err := pooltokenrepo.NewDBRepo(pooltokenrepo.PoolTokenDBRepoDependencies{
			Database: pgDB,
		})
		if err != nil {
			return err
		}
		publisherDependencies.DBRepo = dbRepo
		a.dbRepo = dbRepo
	}

	if env.RedisEnabled() {
		redisDB, err := redisdb.New(redisdb.RedisDatabaseConfig{
			RedisServer: env.REDIS_SERVER,
		})
		if err != nil {
			return err
		}
		a.closers = append(a.closers, redisDB.Close)
		if err := redisDB.Ping(ctx); err != nil {
			return err
		}

		cacheRepo, err := pooltokenrepo.NewCacheRepo(pooltokenrepo.PoolTokenCacheRepoDependencies{
			RedisDatabase: redisDB,
		})
		if err != nil {
			return err
		}
		publisherDependencies.CacheRepo = cacheRepo
		a.cacheRepo = cacheRepo
	}

	if env.KafkaEnabled() {
		publisherDependencies.Kafka = &pooltokenservice.KafkaClientConfig{
			KafkaServer: env.KAFKA_SERVER,
			KafkaTopic:  env.KAFKA_POOL_TOKENS_TOPIC,
		}
	}

	publisher := pooltokenservice.NewPublisher(publisherDependencies)
	a.closers = append(a.closers, publisher.Close)

	cache, err := pooltokencache.New(pooltokencache.PoolTokenCacheDependencies{
		SubgraphClient: subgraphClient,
		Logger:         a.logger,
		Metrics:        pooltokencache.NewMetrics(prometheus.DefaultRegisterer, metricsNamespace),
		Listener:       publisher,
	})
	if err != nil {
		return err
	}
	a.closers = append(a.closers, func() error {
		cache.Flush()
		return nil
	})

	a.service, err = pooltokenservice.New(config, pooltokenservice.PoolTokenServiceDependencies{
		SubgraphClient: subgraphClient,
		Cache:          cache,
		Logger:         a.logger,
	})
	if err != nil {
		return err
	}

	if env.METRICS_ADDR != "" {
		a.serveMetrics(env.METRICS_ADDR)
	}
	return nil
}

func (a *app) serveMetrics(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("metrics server stopped", zap.Error(err))
		}
	}()
	a.logger.Info("serving metrics", zap.String("addr", addr))

	a.closers = append(a.closers, func() error {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(ctx)
	})
}
