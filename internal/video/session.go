package video

import "sync"

// SessionManager owns the current video session. The upload handler replaces
// it and the streamer reads it every cycle, so all access goes through the
// lock; the generation counter lets the streamer notice a replacement and
// drop its stale capture without ever reading from it again.
type SessionManager struct {
	mu         sync.RWMutex
	path       string
	generation uint64
}

func NewSessionManager() *SessionManager {
	return &SessionManager{}
}

// Install atomically replaces the active session and returns the new
// generation.
func (m *SessionManager) Install(path string) uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.path = path
	m.generation++
	return m.generation
}

// Current returns the active session path and generation. ok is false when
// no video has been installed yet.
func (m *SessionManager) Current() (path string, generation uint64, ok bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.path, m.generation, m.path != ""
}

// Clear drops the active session.
func (m *SessionManager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.path = ""
	m.generation++
}
