// Package replica is the Replica Server: the TCP listener that dispatches
// an incoming connection to either the client-order path or the
// peer-transaction path based on a one-byte preamble, backed by a
// self-healing worker pool and sharing one Engine per replica.
package replica

import (
	mapset "github.com/deckarep/golang-set"
)

// Directory is the static, immutable peer set a replica was bootstrapped
// with. It never changes after construction -- peer membership changes are
// out of scope (see the bootstrap/discovery collaborator).
type Directory struct {
	self  string
	peers mapset.Set
}

// NewDirectory builds the peer set from every address except self, so a
// replica never dials or counts itself as a peer.
func NewDirectory(self string, addrs []string) *Directory {
	peers := mapset.NewSet()
	for _, addr := range addrs {
		if addr != self {
			peers.Add(addr)
		}
	}
	return &Directory{self: self, peers: peers}
}

// Addresses returns every peer address, order unspecified.
func (d *Directory) Addresses() []string {
	out := make([]string, 0, d.peers.Cardinality())
	for _, v := range d.peers.ToSlice() {
		out = append(out, v.(string))
	}
	return out
}

func (d *Directory) Contains(addr string) bool {
	return d.peers.Contains(addr)
}

func (d *Directory) Size() int {
	return d.peers.Cardinality()
}
