// Package bootstrap loads a replica's startup configuration: its listen
// address, its peer set, and its worker pool sizing -- from a JSON file,
// with an optional .properties file letting an operator override the pool
// knobs without touching the JSON.
package bootstrap

import (
	"os"

	"github.com/goccy/go-json"
	"github.com/magiconair/properties"

	"coffeeledger/configs"
)

// Config is everything a replica needs to start serving.
type Config struct {
	ListenAddr string   `json:"listen_addr"`
	Peers      []string `json:"peers"`
	Workers    int      `json:"workers"`
	QueueDepth int      `json:"queue_depth"`
}

// Load reads the JSON config at path, then -- if propsPath is non-empty and
// the file exists -- applies its worker-pool overrides on top.
func Load(path, propsPath string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Workers:    configs.DefaultWorkerPoolSize,
		QueueDepth: configs.DefaultQueueDepth,
	}
	if err := json.Unmarshal(raw, cfg); err != nil {
		return nil, err
	}

	cfg.ListenAddr = NormalizeAddr(cfg.ListenAddr)
	for i, p := range cfg.Peers {
		cfg.Peers[i] = NormalizeAddr(p)
	}

	if propsPath == "" {
		return cfg, nil
	}
	if _, err := os.Stat(propsPath); err != nil {
		return cfg, nil
	}

	props, err := properties.LoadFile(propsPath, properties.UTF8)
	if err != nil {
		return nil, err
	}
	cfg.Workers = props.GetInt("workers", cfg.Workers)
	cfg.QueueDepth = props.GetInt("queue_depth", cfg.QueueDepth)
	return cfg, nil
}

// DefaultPort is used by NormalizeAddr when an address names a bare host.
const DefaultPort = "7420"

// NormalizeAddr accepts a bare host or a host:port pair and always returns
// a host:port pair, defaulting the port the way a coffee maker's own
// address parsing does.
func NormalizeAddr(addr string) string {
	if addr == "" {
		return addr
	}
	for i := len(addr) - 1; i >= 0; i-- {
		if addr[i] == ':' {
			return addr
		}
		if addr[i] == ']' {
			break
		}
	}
	return addr + ":" + DefaultPort
}
