package multiplayer

import "sync"

// SessionHandle is how the coordinator reaches a player, whether it is
// an SSH program or a local terminal.
type SessionHandle interface {
	ID() SessionID

	// Send queues an event for the session. It must not block.
	Send(evt SessionEvent)

	// Done closes when the session ends.
	Done() <-chan struct{}
}

// DefaultEventBuffer is the event queue length of a ChannelSession.
const DefaultEventBuffer = 128

// ChannelSession is a SessionHandle whose events are read from a
// buffered channel, one Bubble Tea message at a time.
type ChannelSession struct {
	id     SessionID
	events chan SessionEvent
	done   chan struct{}
	once   sync.Once
}

// NewChannelSession creates a session with room for size queued events.
func NewChannelSession(id SessionID, size int) *ChannelSession {
	if size < 1 {
		size = DefaultEventBuffer
	}
	return &ChannelSession{
		id:     id,
		events: make(chan SessionEvent, size),
		done:   make(chan struct{}),
	}
}

func (s *ChannelSession) ID() SessionID { return s.id }

// Send queues evt, evicting the oldest queued event when full. It never
// blocks the coordinator.
func (s *ChannelSession) Send(evt SessionEvent) {
	select {
	case <-s.done:
		return
	default:
	}

	for attempt := 0; attempt < 2; attempt++ {
		select {
		case s.events <- evt:
			return
		default:
		}
		select {
		case <-s.events:
		default:
		}
	}
}

// Events is the queue the session's UI drains.
func (s *ChannelSession) Events() <-chan SessionEvent { return s.events }

func (s *ChannelSession) Done() <-chan struct{} { return s.done }

// Close ends the session. Later calls do nothing.
func (s *ChannelSession) Close() {
	s.once.Do(func() { close(s.done) })
}

// SessionRegistry maps ids to the sessions currently connected.
type SessionRegistry struct {
	mu   sync.RWMutex
	byID map[SessionID]SessionHandle
}

func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{byID: make(map[SessionID]SessionHandle)}
}

func (r *SessionRegistry) Register(s SessionHandle) {
	r.mu.Lock()
	r.byID[s.ID()] = s
	r.mu.Unlock()
}

func (r *SessionRegistry) Unregister(id SessionID) {
	r.mu.Lock()
	delete(r.byID, id)
	r.mu.Unlock()
}

// Get looks up a connected session.
func (r *SessionRegistry) Get(id SessionID) (SessionHandle, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.byID[id]
	return s, ok
}

func (r *SessionRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID)
}
