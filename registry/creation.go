package registry

import (
	"sync"

	"github.com/skillsenselab/containerkit/errors"
)

// creationTracker tracks which component names are currently being
// constructed, plus names explicitly excluded from that bookkeeping.
// Both sets are lock-free so hot-path reads never contend with the
// registry mutex.
type creationTracker struct {
	inCreation sync.Map // name -> struct{}
	excluded   sync.Map // name -> struct{}
}

// begin marks name as in creation. Returns CurrentlyInCreation when the
// name is already being constructed on some goroutine, which is how
// re-entrant construction cycles surface.
func (t *creationTracker) begin(name string) error {
	if _, skip := t.excluded.Load(name); skip {
		return nil
	}
	if _, loaded := t.inCreation.LoadOrStore(name, struct{}{}); loaded {
		return errors.CurrentlyInCreation(name)
	}
	return nil
}

// end clears the in-creation mark. A mismatched end reports an invariant
// violation: it means begin/end pairing broke somewhere.
func (t *creationTracker) end(name string) error {
	if _, skip := t.excluded.Load(name); skip {
		return nil
	}
	if _, loaded := t.inCreation.LoadAndDelete(name); !loaded {
		return errors.InvariantViolation(name, "component was not marked as in creation")
	}
	return nil
}

// setExcluded includes or removes name from creation tracking.
func (t *creationTracker) setExcluded(name string, excluded bool) {
	if excluded {
		t.excluded.Store(name, struct{}{})
	} else {
		t.excluded.Delete(name)
	}
}

// isInCreation reports whether name is being constructed right now.
// Excluded names always report false.
func (t *creationTracker) isInCreation(name string) bool {
	if _, skip := t.excluded.Load(name); skip {
		return false
	}
	_, creating := t.inCreation.Load(name)
	return creating
}
