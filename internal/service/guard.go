package service

import (
	"math/rand"
	"sync"
)

// keyGuard admits at most one operation per key.
type keyGuard struct {
	mu       sync.Mutex
	inflight map[string]struct{}
}

func newKeyGuard() *keyGuard {
	return &keyGuard{inflight: make(map[string]struct{})}
}

// tryAcquire returns false if key is already held.
func (g *keyGuard) tryAcquire(key string) (release func(), ok bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, busy := g.inflight[key]; busy {
		return nil, false
	}
	g.inflight[key] = struct{}{}
	return func() {
		g.mu.Lock()
		delete(g.inflight, key)
		g.mu.Unlock()
	}, true
}

// lockedRand makes a *rand.Rand safe for concurrent use.
type lockedRand struct {
	mu sync.Mutex
	r  *rand.Rand
}

func (l *lockedRand) Intn(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Intn(n)
}

func (l *lockedRand) Float64() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Float64()
}
