package agent

import "github.com/hupe1980/cvmesh/core"

// Registrar is a capability unit that can learn about peers.
type Registrar interface {
	core.Agent
	RegisterPeer(name string, peer core.Agent)
}

// Connect wires a full mesh: every unit registers every other unit under its
// name. It is meant to run once at assembly time, before any Invoke.
func Connect(units ...Registrar) {
	for _, u := range units {
		for _, other := range units {
			if u == other {
				continue
			}
			u.RegisterPeer(other.Name(), other)
		}
	}
}
