package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() Config {
	return Config{
		JWTSecret:        "s3cret",
		StoreDriver:      "mongo",
		VerifierMode:     "simulated",
		SettlementEffect: "credit",
	}
}

func TestValidate(t *testing.T) {
	assert.NoError(t, validConfig().Validate())

	c := validConfig()
	c.JWTSecret = "  "
	assert.Error(t, c.Validate())

	c = validConfig()
	c.VerifierMode = "http"
	assert.Error(t, c.Validate(), "http verifier needs a URL")
	c.VerifierURL = "http://gateway"
	assert.NoError(t, c.Validate())

	c = validConfig()
	c.SettlementEffect = "refund"
	assert.Error(t, c.Validate())

	c = validConfig()
	c.StoreDriver = "postgres"
	assert.Error(t, c.Validate())
}

func TestValidateSweepSpec(t *testing.T) {
	for _, spec := range []string{"", "@every 1m", "*/5 * * * *", "@hourly"} {
		c := validConfig()
		c.ExpirySweepSpec = spec
		assert.NoError(t, c.Validate(), spec)
	}

	c := validConfig()
	c.ExpirySweepSpec = "every minute"
	assert.Error(t, c.Validate())

	c = validConfig()
	c.PendingExpiry = -time.Second
	assert.Error(t, c.Validate())
}

func TestDefaults(t *testing.T) {
	v := viper.New()
	setDefaults(v)

	var c Config
	require.NoError(t, v.Unmarshal(&c))
	assert.Equal(t, "8080", c.AppPort)
	assert.Equal(t, "credit", c.SettlementEffect)
	assert.Zero(t, c.PendingExpiry, "expiry is opt-in")
	assert.Equal(t, "10s", c.SettlementLockTTL.String())
	assert.Equal(t, 100, c.ExpirySweepBatch)
	assert.Empty(t, c.JWTSecret)
}

func TestAllowedOrigins(t *testing.T) {
	c := Config{CORSOrigins: "https://a.example, https://b.example,"}
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, c.AllowedOrigins())
	assert.Equal(t, []string{"*"}, Config{}.AllowedOrigins())
}
