// Package discovery specifies the replica bootstrap/peer-discovery
// collaborator as an interface only. A real deployment's membership
// service, gossip protocol, or control plane is out of scope here; a
// replica only needs something that can answer "who are my peers right
// now" once, at startup.
package discovery

import "context"

// SeedSource resolves the initial peer set a replica should dial.
type SeedSource interface {
	Peers(ctx context.Context) ([]string, error)
}

// ConfigSeedSource is the only SeedSource this module ships: the peer list
// already present in the bootstrap JSON config. It exists so cmd/replica
// has something concrete to wire the interface to without pulling in any
// external membership system.
type ConfigSeedSource struct {
	peers []string
}

func NewConfigSeedSource(peers []string) *ConfigSeedSource {
	return &ConfigSeedSource{peers: peers}
}

func (s *ConfigSeedSource) Peers(ctx context.Context) ([]string, error) {
	return s.peers, nil
}
