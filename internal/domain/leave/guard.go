package leave

import "sync"

// TransitionGuard serializes status transitions per record identifier.
// A transition requested while one is already outstanding for the same
// record fails immediately with ErrTransitionInFlight; nothing queues.
type TransitionGuard struct {
	mu       sync.Mutex
	inFlight map[string]struct{}
}

func NewTransitionGuard() *TransitionGuard {
	return &TransitionGuard{inFlight: make(map[string]struct{})}
}

// Acquire marks requestID as having a transition in flight. The caller
// must Release once the persistence call settles, success or not.
func (g *TransitionGuard) Acquire(requestID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, busy := g.inFlight[requestID]; busy {
		return ErrTransitionInFlight
	}
	g.inFlight[requestID] = struct{}{}
	return nil
}

func (g *TransitionGuard) Release(requestID string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.inFlight, requestID)
}
