package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/notekit/pkg/config"
)

type serverConfig struct {
	Addr    string   `env:"NOTEKIT_TEST_ADDR" envDefault:":8080"`
	Origins []string `env:"NOTEKIT_TEST_ORIGINS" envSeparator:","`
}

type requiredConfig struct {
	Secret string `env:"NOTEKIT_TEST_SECRET,required"`
}

func TestLoad(t *testing.T) {
	t.Run("parses values and defaults", func(t *testing.T) {
		config.Reset()
		t.Setenv("NOTEKIT_TEST_ORIGINS", "https://a.example,https://b.example")

		var cfg serverConfig
		require.NoError(t, config.Load(&cfg))
		assert.Equal(t, ":8080", cfg.Addr)
		assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Origins)
	})

	t.Run("caches per type", func(t *testing.T) {
		config.Reset()
		t.Setenv("NOTEKIT_TEST_ADDR", ":9000")

		var first serverConfig
		require.NoError(t, config.Load(&first))

		t.Setenv("NOTEKIT_TEST_ADDR", ":9001")
		var second serverConfig
		require.NoError(t, config.Load(&second))
		assert.Equal(t, ":9000", second.Addr)

		config.Reset()
		var third serverConfig
		require.NoError(t, config.Load(&third))
		assert.Equal(t, ":9001", third.Addr)
	})

	t.Run("missing required value", func(t *testing.T) {
		config.Reset()

		var cfg requiredConfig
		err := config.Load(&cfg)
		require.Error(t, err)
		assert.ErrorIs(t, err, config.ErrParsingConfig)
	})

	t.Run("nil pointer", func(t *testing.T) {
		var cfg *serverConfig
		assert.ErrorIs(t, config.Load(cfg), config.ErrNilPointer)
	})

	t.Run("must load panics", func(t *testing.T) {
		config.Reset()
		var cfg requiredConfig
		assert.Panics(t, func() { config.MustLoad(&cfg) })
	})
}
