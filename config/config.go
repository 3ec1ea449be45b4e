// Package config loads the planner service's TOML configuration file: bind
// address, etcd endpoints, cluster membership seeds and the default task
// size applied when a caller doesn't specify one.
package config

import (
	"errors"
	"os"

	"github.com/BurntSushi/toml"
)

// EtcdConfig describes how to reach the manifest store's etcd backend.
type EtcdConfig struct {
	Endpoints []string `toml:"endpoints"`
	ClusterID string   `toml:"cluster-id"`
}

// CacheConfig describes the local BoltDB manifest cache.
type CacheConfig struct {
	Path string `toml:"path"`
	// TTLSeconds is how long a cached manifest is served before a refetch;
	// zero disables expiry.
	TTLSeconds int `toml:"ttl-seconds"`
}

// ClusterConfig describes this node's membership transport.
type ClusterConfig struct {
	BindAddr      string   `toml:"bind-addr"`
	BindPort      int      `toml:"bind-port"`
	Seeds         []string `toml:"seeds"`
	TokensPerNode int      `toml:"tokens-per-node"`
}

// AuthConfig names the file holding bcrypt-hashed API keys. An empty path
// disables authentication.
type AuthConfig struct {
	KeyFile string `toml:"key-file"`
}

// Config is the planner service's full configuration, as loaded from a
// single TOML file.
type Config struct {
	BindAddr        string        `toml:"bind-addr"`
	DefaultTaskSize int           `toml:"default-task-size"`
	Etcd            EtcdConfig    `toml:"etcd"`
	Cache           CacheConfig   `toml:"cache"`
	Cluster         ClusterConfig `toml:"cluster"`
	Auth            AuthConfig    `toml:"auth"`
}

func (c *Config) setDefaults() {
	if c.BindAddr == "" {
		c.BindAddr = ":8088"
	}
	if c.DefaultTaskSize == 0 {
		c.DefaultTaskSize = 1000
	}
	if c.Cache.Path == "" {
		c.Cache.Path = "/var/opt/oneseismic/manifest-cache.db"
	}
}

// Validate checks that the fields required to reach the manifest store and
// the cluster are present.
func (c *Config) Validate() error {
	if len(c.Etcd.Endpoints) == 0 {
		return errors.New("config: etcd.endpoints must not be empty")
	}
	if c.Etcd.ClusterID == "" {
		return errors.New("config: etcd.cluster-id must not be empty")
	}
	return nil
}

// ParseFile reads and decodes a TOML configuration file, applying defaults
// for any field the file leaves unset.
func ParseFile(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	var c Config
	if _, err := toml.Decode(string(data), &c); err != nil {
		return nil, err
	}
	c.setDefaults()
	return &c, nil
}
