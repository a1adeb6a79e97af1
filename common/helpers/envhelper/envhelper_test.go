package envhelper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		_SUBGRAPH_URL, _SUBGRAPH_API_TOKEN,
		_POSTGRES_HOST, _POSTGRES_PORT, _POSTGRES_USER, _POSTGRES_PASSWORD, _POSTGRES_DB_NAME, _POSTGRES_SSL_MODE,
		_REDIS_SERVER, _KAFKA_SERVER, _KAFKA_POOL_TOKENS_TOPIC, _METRICS_ADDR, _LOG_LEVEL,
	} {
		t.Setenv(key, "")
	}
}

func TestLoadEnvRequiresSubgraphURL(t *testing.T) {
	clearEnv(t)

	_, err := LoadEnv()
	assert.EqualError(t, err, "error with variable: SUBGRAPH_URL")
}

func TestLoadEnvMinimal(t *testing.T) {
	clearEnv(t)
	t.Setenv(_SUBGRAPH_URL, "https://api.thegraph.com/subgraphs/name/juanmardefago/loopring36")

	e, err := LoadEnv()
	require.NoError(t, err)
	assert.Equal(t, "info", e.LOG_LEVEL)
	assert.False(t, e.PostgresEnabled())
	assert.False(t, e.RedisEnabled())
	assert.False(t, e.KafkaEnabled())
}

func TestLoadEnvPostgresRequiresCredentials(t *testing.T) {
	clearEnv(t)
	t.Setenv(_SUBGRAPH_URL, "http://localhost:8000")
	t.Setenv(_POSTGRES_HOST, "localhost")
	t.Setenv(_POSTGRES_DB_NAME, "explorer")

	_, err := LoadEnv()
	assert.EqualError(t, err, "error with variable: POSTGRES_USER")

	t.Setenv(_POSTGRES_USER, "explorer")
	t.Setenv(_POSTGRES_PASSWORD, "secret")
	e, err := LoadEnv()
	require.NoError(t, err)
	assert.True(t, e.PostgresEnabled())
	assert.Equal(t, "5432", e.POSTGRES_PORT)
	assert.Equal(t, "disable", e.POSTGRES_SSL_MODE)
}

func TestLoadEnvKafkaRequiresTopic(t *testing.T) {
	clearEnv(t)
	t.Setenv(_SUBGRAPH_URL, "http://localhost:8000")
	t.Setenv(_KAFKA_SERVER, "localhost:9092")

	_, err := LoadEnv()
	assert.EqualError(t, err, "error with variable: KAFKA_POOL_TOKENS_TOPIC")

	t.Setenv(_KAFKA_POOL_TOKENS_TOPIC, "pool_tokens")
	e, err := LoadEnv()
	require.NoError(t, err)
	assert.True(t, e.KafkaEnabled())
}
