package container

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/procureflow/registry/internal/application/service"
)

func testConfig(t *testing.T, driver string) *Config {
	cfg := DefaultConfig()
	cfg.Database.Driver = driver
	cfg.Database.Path = filepath.Join(t.TempDir(), "procureflow.db")
	cfg.Storage.ExportDir = filepath.Join(t.TempDir(), "exports")
	return cfg
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		ok     bool
	}{
		{"defaults", func(*Config) {}, true},
		{"memory without path", func(c *Config) { c.Database.Driver = DriverMemory; c.Database.Path = "" }, true},
		{"sqlite without path", func(c *Config) { c.Database.Path = "" }, false},
		{"unknown driver", func(c *Config) { c.Database.Driver = "postgres" }, false},
		{"bad port", func(c *Config) { c.Server.Port = 70000 }, false},
		{"zero upload limit", func(c *Config) { c.Import.MaxUploadBytes = 0 }, false},
		{"bad timezone", func(c *Config) { c.Storage.Timezone = "Mars/Olympus" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestContainer_Lifecycle(t *testing.T) {
	for _, driver := range []string{DriverSQLite, DriverMemory} {
		t.Run(driver, func(t *testing.T) {
			ctx := context.Background()
			c, err := NewContainer(testConfig(t, driver), zap.NewNop())
			require.NoError(t, err)

			require.NoError(t, c.Start(ctx))
			assert.True(t, c.Ready())
			assert.Error(t, c.Start(ctx))

			health := c.Health(ctx)
			assert.True(t, health.Overall, health.Components)

			// seeded on start
			list, err := c.Services().Records.List(ctx, "", "")
			require.NoError(t, err)
			assert.Len(t, list.Records, 1)

			_, err = c.Services().Auth.Register(ctx, service.RegisterInput{
				Username: "alice", Password: "pw", ConfirmPassword: "pw",
			})
			require.NoError(t, err)

			require.NoError(t, c.Close())
			assert.False(t, c.Ready())
			assert.Error(t, c.Close())
			assert.Error(t, c.Start(ctx))
		})
	}
}

func TestContainer_SQLitePersistsAcrossRestarts(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t, DriverSQLite)

	first, err := NewContainer(cfg, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, first.Start(ctx))
	_, err = first.Services().Auth.Register(ctx, service.RegisterInput{
		Username: "bob", Password: "pw", ConfirmPassword: "pw",
	})
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := NewContainer(cfg, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, second.Start(ctx))
	defer second.Close()

	user, err := second.Services().Auth.Login(ctx, "BOB", "pw")
	require.NoError(t, err)
	assert.Equal(t, "bob", user.Username)
}

func TestNewContainer_RejectsBadInput(t *testing.T) {
	_, err := NewContainer(nil, zap.NewNop())
	assert.Error(t, err)

	_, err = NewContainer(DefaultConfig(), nil)
	assert.Error(t, err)

	cfg := DefaultConfig()
	cfg.Server.Port = 0
	_, err = NewContainer(cfg, zap.NewNop())
	assert.Error(t, err)
}
