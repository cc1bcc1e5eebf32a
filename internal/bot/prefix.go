package bot

import "sync"

// maxHostLen is assumed for the host part of our own prefix until the server
// has shown us the real one.
const maxHostLen = 63

// PrefixTracker holds the bot's own prefix as the server echoes it. Many
// goroutines may read it; it is written only when the self-addressed update
// message comes back.
type PrefixTracker struct {
	mu     sync.RWMutex
	prefix MsgPrefix
	known  bool
}

// Get returns the stored prefix and whether it has been learned yet
func (t *PrefixTracker) Get() (MsgPrefix, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.prefix, t.known
}

// Update replaces the stored prefix with one observed from the server
func (t *PrefixTracker) Update(p MsgPrefix) {
	t.mu.Lock()
	t.prefix = p
	t.known = true
	t.mu.Unlock()
}

// Len returns the wire length of the stored prefix, or fallback if none has
// been learned.
func (t *PrefixTracker) Len(fallback int) int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if !t.known {
		return fallback
	}
	return t.prefix.Len()
}
