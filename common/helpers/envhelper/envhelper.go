package envhelper

import (
	"fmt"
	"os"
	"sync"

	"github.com/joho/godotenv"
)

type Environment struct {
	SUBGRAPH_URL       string
	SUBGRAPH_API_TOKEN string

	POSTGRES_HOST     string
	POSTGRES_PORT     string
	POSTGRES_USER     string
	POSTGRES_PASSWORD string
	POSTGRES_DB_NAME  string
	POSTGRES_SSL_MODE string

	REDIS_SERVER string

	KAFKA_SERVER            string
	KAFKA_POOL_TOKENS_TOPIC string

	METRICS_ADDR string
	LOG_LEVEL    string
}

func (e *Environment) PostgresEnabled() bool {
	return e.POSTGRES_HOST != ""
}

func (e *Environment) RedisEnabled() bool {
	return e.REDIS_SERVER != ""
}

func (e *Environment) KafkaEnabled() bool {
	return e.KAFKA_SERVER != ""
}

var (
	env     *Environment
	envErr  error
	envOnce sync.Once
)

// GetEnv loads the environment once per process.
func GetEnv() (*Environment, error) {
	envOnce.Do(func() {
		env, envErr = LoadEnv()
	})
	return env, envErr
}

const _SUBGRAPH_URL = "SUBGRAPH_URL"
const _SUBGRAPH_API_TOKEN = "SUBGRAPH_API_TOKEN"

const _POSTGRES_HOST = "POSTGRES_HOST"
const _POSTGRES_PORT = "POSTGRES_PORT"
const _POSTGRES_USER = "POSTGRES_USER"
const _POSTGRES_PASSWORD = "POSTGRES_PASSWORD"
const _POSTGRES_DB_NAME = "POSTGRES_DB_NAME"
const _POSTGRES_SSL_MODE = "POSTGRES_SSL_MODE"

const _REDIS_SERVER = "REDIS_SERVER"

const _KAFKA_SERVER = "KAFKA_SERVER"
const _KAFKA_POOL_TOKENS_TOPIC = "KAFKA_POOL_TOKENS_TOPIC"

const _METRICS_ADDR = "METRICS_ADDR"
const _LOG_LEVEL = "LOG_LEVEL"

const defaultPostgresPort = "5432"
const defaultPostgresSSLMode = "disable"
const defaultLogLevel = "info"

// LoadEnv reads .env (if present) and the process environment. Postgres and
// Kafka settings are only required once their server variable is set.
func LoadEnv() (*Environment, error) {
	godotenv.Load()
	e := &Environment{}

	e.SUBGRAPH_URL = os.Getenv(_SUBGRAPH_URL)
	if e.SUBGRAPH_URL == "" {
		return nil, buildLoadingEnvError(_SUBGRAPH_URL)
	}
	e.SUBGRAPH_API_TOKEN = os.Getenv(_SUBGRAPH_API_TOKEN)

	e.POSTGRES_HOST = os.Getenv(_POSTGRES_HOST)
	if e.POSTGRES_HOST != "" {
		e.POSTGRES_PORT = getEnvOrDefault(_POSTGRES_PORT, defaultPostgresPort)
		e.POSTGRES_SSL_MODE = getEnvOrDefault(_POSTGRES_SSL_MODE, defaultPostgresSSLMode)

		e.POSTGRES_DB_NAME = os.Getenv(_POSTGRES_DB_NAME)
		if e.POSTGRES_DB_NAME == "" {
			return nil, buildLoadingEnvError(_POSTGRES_DB_NAME)
		}

		e.POSTGRES_USER = os.Getenv(_POSTGRES_USER)
		if e.POSTGRES_USER == "" {
			return nil, buildLoadingEnvError(_POSTGRES_USER)
		}

		e.POSTGRES_PASSWORD = os.Getenv(_POSTGRES_PASSWORD)
		if e.POSTGRES_PASSWORD == "" {
			return nil, buildLoadingEnvError(_POSTGRES_PASSWORD)
		}
	}

	e.REDIS_SERVER = os.Getenv(_REDIS_SERVER)

	e.KAFKA_SERVER = os.Getenv(_KAFKA_SERVER)
	if e.KAFKA_SERVER != "" {
		e.KAFKA_POOL_TOKENS_TOPIC = os.Getenv(_KAFKA_POOL_TOKENS_TOPIC)
		if e.KAFKA_POOL_TOKENS_TOPIC == "" {
			return nil, buildLoadingEnvError(_KAFKA_POOL_TOKENS_TOPIC)
		}
	}

	e.METRICS_ADDR = os.Getenv(_METRICS_ADDR)
	e.LOG_LEVEL = getEnvOrDefault(_LOG_LEVEL, defaultLogLevel)

	return e, nil
}

func getEnvOrDefault(key, def string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return def
}

func buildLoadingEnvError(key string) error {
	return fmt.Errorf("error with variable: %s", key)
}
