package registry

import (
	"sync"

	"github.com/skillsenselab/containerkit/errors"
)

// Canonicalizer resolves a component name through its alias chain to the
// canonical name. The identity function is a valid canonicalizer.
type Canonicalizer func(name string) string

// AliasResolver maps alias names to canonical component names. It is the
// default Canonicalizer implementation; registries accept any Canonicalizer
// so callers can plug their own naming scheme.
type AliasResolver struct {
	mu      sync.RWMutex
	aliases map[string]string
}

// NewAliasResolver creates an empty alias resolver.
func NewAliasResolver() *AliasResolver {
	return &AliasResolver{aliases: make(map[string]string)}
}

// Register maps alias to name. Registering an alias that would close a
// resolution loop is rejected.
func (r *AliasResolver) Register(alias, name string) error {
	if alias == "" || name == "" {
		return errors.InvalidName(alias)
	}
	if alias == name {
		return errors.InvalidInput("aliases", "alias must differ from the target name")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Walk from name; reaching alias again means a loop.
	cur := name
	for {
		next, ok := r.aliases[cur]
		if !ok {
			break
		}
		if next == alias {
			return errors.InvalidInput("aliases", "alias cycle: "+alias+" -> "+name)
		}
		cur = next
	}

	r.aliases[alias] = name
	return nil
}

// Remove drops an alias. Unknown aliases are ignored.
func (r *AliasResolver) Remove(alias string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.aliases, alias)
}

// Canonicalize follows the alias chain from name to its canonical name.
// Names with no alias entry resolve to themselves.
func (r *AliasResolver) Canonicalize(name string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cur := name
	for {
		next, ok := r.aliases[cur]
		if !ok {
			return cur
		}
		cur = next
	}
}

// Aliases returns the aliases that resolve to name, directly or through
// a chain.
func (r *AliasResolver) Aliases(name string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []string
	for alias := range r.aliases {
		cur := alias
		for {
			next, ok := r.aliases[cur]
			if !ok {
				break
			}
			cur = next
		}
		if cur == name {
			out = append(out, alias)
		}
	}
	return out
}
