package picker

import "github.com/funddeck/funddeck/internal/logging/events"

type groupOp string

const (
	opAdd    groupOp = "add"
	opUpdate groupOp = "update"
	opRemove groupOp = "remove"
)

// Registry maps a synchronization key to its live picker instances. It is
// owned by the application model and touched only from the update loop, so
// no locking is needed. Pickers have no guaranteed teardown; detached
// instances are swept lazily on the next broadcast through their group.
type Registry struct {
	groups map[string][]*Picker
}

func NewRegistry() *Registry {
	return &Registry{groups: make(map[string][]*Picker)}
}

func (r *Registry) register(p *Picker) {
	key := p.cfg.Key
	for _, existing := range r.groups[key] {
		if existing == p {
			return
		}
	}
	r.groups[key] = append(r.groups[key], p)
}

// Peers returns the live instances registered under key, sweeping any that
// detached since the last call.
func (r *Registry) Peers(key string) []*Picker {
	live := r.sweep(key)
	out := make([]*Picker, len(live))
	copy(out, live)
	return out
}

// broadcast mirrors one CRUD result into every live peer of the origin's
// group. Peers apply the change directly: their own callbacks are never
// re-invoked, so there is no network amplification and no loop.
func (r *Registry) broadcast(from *Picker, op groupOp, opt *Option) {
	key := from.cfg.Key
	live := r.sweep(key)
	peers := 0
	for _, peer := range live {
		if peer == from {
			continue
		}
		peers++
		switch op {
		case opAdd:
			peer.applyPeerAdd(opt)
		case opUpdate:
			peer.applyPeerUpdate(opt)
		case opRemove:
			peer.applyPeerRemove(opt.Value)
		}
	}
	events.Picker.Broadcast(key, string(op), opt.Value, peers)
}

func (r *Registry) sweep(key string) []*Picker {
	instances := r.groups[key]
	live := instances[:0]
	for _, p := range instances {
		if p.detached {
			continue
		}
		live = append(live, p)
	}
	if len(live) == 0 {
		delete(r.groups, key)
		return nil
	}
	r.groups[key] = live
	return live
}
