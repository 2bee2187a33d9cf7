package config

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Server: ServerConfig{Listen: ":8080", Timeout: 30 * time.Second, APIToken: "token"},
		Hub:    HubConfig{CallbackDomain: "example.com", Secret: "secret"},
	}
}

func TestVerifyAgainstEmbeddedSchema(t *testing.T) {
	tests := []struct {
		name   string
		modify func(c *Config)
		errMsg string
	}{
		{name: "valid config", modify: func(*Config) {}},
		{name: "missing server listen", modify: func(c *Config) { c.Server.Listen = "" }, errMsg: "server.listen is required"},
		{name: "missing server timeout", modify: func(c *Config) { c.Server.Timeout = 0 }, errMsg: "server.timeout is required"},
		{name: "missing api token", modify: func(c *Config) { c.Server.APIToken = "" }, errMsg: "server.api_token is required"},
		{name: "missing hub secret", modify: func(c *Config) { c.Hub.Secret = "" }, errMsg: "hub.secret is required"},
		{name: "missing callback domain", modify: func(c *Config) { c.Hub.CallbackDomain = "" },
			errMsg: "hub.callback_domain is required"},
		{name: "optional sections empty", modify: func(c *Config) { c.Notify = NotifyConfig{}; c.Storage = StorageConfig{} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.modify(cfg)
			err := VerifyAgainstEmbeddedSchema(cfg)
			if tt.errMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestGenerateSchema(t *testing.T) {
	schema := GenerateSchema()
	require.NotNil(t, schema)
	assert.Equal(t, "#/$defs/Config", schema.Ref)

	for _, name := range []string{"Config", "ServerConfig", "HubConfig", "StorageConfig", "NotifyConfig", "RenewConfig"} {
		assert.Contains(t, schema.Definitions, name)
	}
	assert.ElementsMatch(t, []string{"callback_domain", "secret"}, schema.Definitions["HubConfig"].Required)
	assert.ElementsMatch(t, []string{"listen", "timeout", "api_token"}, schema.Definitions["ServerConfig"].Required)
	assert.Empty(t, schema.Definitions["NotifyConfig"].Required)
}

func TestEmbeddedSchemaMatchesGenerated(t *testing.T) {
	var embedded map[string]any
	require.NoError(t, json.Unmarshal([]byte(embeddedSchema), &embedded))

	data, err := json.Marshal(GenerateSchema())
	require.NoError(t, err)
	var generated map[string]any
	require.NoError(t, json.Unmarshal(data, &generated))

	assert.Equal(t, generated["$defs"], embedded["$defs"], "schema.json is stale, run go generate")
}
