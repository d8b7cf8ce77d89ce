package agent

import "sync"

// conversationEntry pairs a conversation with its serialization lock. All
// reads and writes of the conversation happen while holding mu, so concurrent
// messages for the same user are processed one at a time in arrival order.
type conversationEntry struct {
	mu   sync.Mutex
	conv *Conversation
}

// conversationRegistry is the in-memory index of active conversations, keyed
// by user id. Entries live until the process exits; the Redis snapshot TTL is
// the durable expiry.
type conversationRegistry struct {
	mu      sync.Mutex
	entries map[string]*conversationEntry
}

func newConversationRegistry() *conversationRegistry {
	return &conversationRegistry{entries: make(map[string]*conversationEntry)}
}

func (r *conversationRegistry) get(userID string) (*conversationEntry, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.entries[userID]
	return entry, ok
}

// replace installs a fresh conversation for the user, discarding any previous
// entry.
func (r *conversationRegistry) replace(userID string, conv *Conversation) *conversationEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry := &conversationEntry{conv: conv}
	r.entries[userID] = entry
	return entry
}

// restore inserts a conversation loaded from a snapshot unless another
// goroutine restored it first, in which case the existing entry wins.
func (r *conversationRegistry) restore(userID string, conv *Conversation) *conversationEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	if entry, ok := r.entries[userID]; ok {
		return entry
	}
	entry := &conversationEntry{conv: conv}
	r.entries[userID] = entry
	return entry
}

func (r *conversationRegistry) remove(userID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, userID)
}
