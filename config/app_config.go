package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/Luismorlan/ledger_in_go/utils"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Peer transports.
const (
	TRANSPORT_HTTP = "http"
	TRANSPORT_GRPC = "grpc"
)

// Every environment variable overriding the config file starts with this prefix, for
// example LEDGER_DIFFICULTY=5.
const ENV_PREFIX = "LEDGER"

// This is the global app config for the ledger node.
type AppConfig struct {
	// How many leading 0s to form a valid proof.
	DIFFICULTY int `mapstructure:"difficulty" yaml:"difficulty"`
	// Reward pooled to the node right before it seals a block, 0 disables it.
	COINBASE_REWARD float64 `mapstructure:"coinbase_reward" yaml:"coinbase_reward"`
	// Whether a chain replaced by consensus interrupts the running mining task.
	REMINE_ON_TAIL_CHANGE bool `mapstructure:"remine_on_tail_change" yaml:"remine_on_tail_change"`

	// How chains are fetched from peers, http or grpc.
	PEER_TRANSPORT string `mapstructure:"peer_transport" yaml:"peer_transport"`
	// Upper bound of a single peer query.
	PEER_TIMEOUT time.Duration `mapstructure:"peer_timeout" yaml:"peer_timeout"`
	// How many peers are queried at the same time, 0 or less means no bound.
	RESOLVE_CONCURRENCY int `mapstructure:"resolve_concurrency" yaml:"resolve_concurrency"`
	// Run consensus before mining and before pooling transactions.
	RESOLVE_BEFORE_MINE    bool `mapstructure:"resolve_before_mine" yaml:"resolve_before_mine"`
	RESOLVE_BEFORE_ENQUEUE bool `mapstructure:"resolve_before_enqueue" yaml:"resolve_before_enqueue"`
	// Address other nodes reach this node at, included in the authoritative chain lookup.
	SELF_ADDRESS string `mapstructure:"self_address" yaml:"self_address"`

	// Shape every submitted transaction must have: open, transfer or task.
	TX_SCHEMA string `mapstructure:"tx_schema" yaml:"tx_schema"`
	// Enables the block tampering endpoint. Never turn it on outside a demo.
	ALLOW_TAMPER bool `mapstructure:"allow_tamper" yaml:"allow_tamper"`
	// Mining requests accepted per second over HTTP, 0 means unlimited.
	MINE_RATE_LIMIT float64 `mapstructure:"mine_rate_limit" yaml:"mine_rate_limit"`

	// Where the chain is persisted: memory, file, bolt, redis, postgres or etcd.
	STORE_TYPE string `mapstructure:"store_type" yaml:"store_type"`
	// File path for file and bolt stores.
	STORE_PATH string `mapstructure:"store_path" yaml:"store_path"`
	// Server address for redis, comma separated endpoints for etcd.
	STORE_ADDR string `mapstructure:"store_addr" yaml:"store_addr"`
	// Postgres connection string.
	STORE_DSN string `mapstructure:"store_dsn" yaml:"store_dsn"`
	// Key the chain is stored under for redis and etcd.
	STORE_KEY string `mapstructure:"store_key" yaml:"store_key"`

	LOG_LEVEL  string `mapstructure:"log_level" yaml:"log_level"`
	LOG_FORMAT string `mapstructure:"log_format" yaml:"log_format"`
	// OTLP/HTTP collector endpoint, tracing is off when empty.
	TRACING_ENDPOINT string `mapstructure:"tracing_endpoint" yaml:"tracing_endpoint"`
}

// Return the config every unset field falls back to.
func DefaultAppConfig() AppConfig {
	return AppConfig{
		DIFFICULTY:            4,
		COINBASE_REWARD:       0,
		REMINE_ON_TAIL_CHANGE: true,
		PEER_TRANSPORT:        TRANSPORT_HTTP,
		PEER_TIMEOUT:          5 * time.Second,
		RESOLVE_CONCURRENCY:   8,
		TX_SCHEMA:             utils.SCHEMA_OPEN,
		MINE_RATE_LIMIT:       1,
		STORE_TYPE:            "memory",
		STORE_PATH:            "ledger.db",
		STORE_KEY:             "ledger/chain",
		LOG_LEVEL:             "info",
		LOG_FORMAT:            "text",
	}
}

// LoadAppConfig reads the yaml config at path, an empty path uses defaults only. Values are
// then overridden by LEDGER_* environment variables.
func LoadAppConfig(path string) (AppConfig, error) {
	v := viper.New()
	setDefaults(v, DefaultAppConfig())
	v.SetEnvPrefix(ENV_PREFIX)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return AppConfig{}, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	c := AppConfig{}
	if err := v.Unmarshal(&c); err != nil {
		return AppConfig{}, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return AppConfig{}, err
	}
	return c, nil
}

// Viper only resolves environment variables for keys it knows about.
func setDefaults(v *viper.Viper, c AppConfig) {
	v.SetDefault("difficulty", c.DIFFICULTY)
	v.SetDefault("coinbase_reward", c.COINBASE_REWARD)
	v.SetDefault("remine_on_tail_change", c.REMINE_ON_TAIL_CHANGE)
	v.SetDefault("peer_transport", c.PEER_TRANSPORT)
	v.SetDefault("peer_timeout", c.PEER_TIMEOUT)
	v.SetDefault("resolve_concurrency", c.RESOLVE_CONCURRENCY)
	v.SetDefault("resolve_before_mine", c.RESOLVE_BEFORE_MINE)
	v.SetDefault("resolve_before_enqueue", c.RESOLVE_BEFORE_ENQUEUE)
	v.SetDefault("self_address", c.SELF_ADDRESS)
	v.SetDefault("tx_schema", c.TX_SCHEMA)
	v.SetDefault("allow_tamper", c.ALLOW_TAMPER)
	v.SetDefault("mine_rate_limit", c.MINE_RATE_LIMIT)
	v.SetDefault("store_type", c.STORE_TYPE)
	v.SetDefault("store_path", c.STORE_PATH)
	v.SetDefault("store_addr", c.STORE_ADDR)
	v.SetDefault("store_dsn", c.STORE_DSN)
	v.SetDefault("store_key", c.STORE_KEY)
	v.SetDefault("log_level", c.LOG_LEVEL)
	v.SetDefault("log_format", c.LOG_FORMAT)
	v.SetDefault("tracing_endpoint", c.TRACING_ENDPOINT)
}

// Validate rejects values the node can't run with.
func (c AppConfig) Validate() error {
	if c.DIFFICULTY < 0 || c.DIFFICULTY > 64 {
		return fmt.Errorf("difficulty must be within [0, 64], got %d", c.DIFFICULTY)
	}
	if c.COINBASE_REWARD < 0 {
		return errors.New("coinbase reward can't be negative")
	}
	if c.PEER_TRANSPORT != TRANSPORT_HTTP && c.PEER_TRANSPORT != TRANSPORT_GRPC {
		return fmt.Errorf("unknown peer transport %q", c.PEER_TRANSPORT)
	}
	if c.PEER_TIMEOUT <= 0 {
		return errors.New("peer timeout must be positive")
	}
	if !utils.IsKnownSchema(c.TX_SCHEMA) {
		return fmt.Errorf("unknown transaction schema %q", c.TX_SCHEMA)
	}
	if c.MINE_RATE_LIMIT < 0 {
		return errors.New("mine rate limit can't be negative")
	}
	return nil
}

// WriteAppConfig dumps c as yaml to path, handy to bootstrap a config file.
func WriteAppConfig(path string, c AppConfig) error {
	out, err := yaml.Marshal(&c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, out, 0644)
}
