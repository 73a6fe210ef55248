package multiplayer

// SessionEvent represents an event sent from the coordinator to a session.
type SessionEvent interface {
	sessionEvent()
}

// LobbyCreatedEvent is sent to the host once its lobby is open.
type LobbyCreatedEvent struct {
	Code    string
	WorldID int
}

func (LobbyCreatedEvent) sessionEvent() {}

// LobbyErrorEvent is sent when a lobby operation fails.
type LobbyErrorEvent struct {
	Message string
}

func (LobbyErrorEvent) sessionEvent() {}

// LinkedEvent is sent to both sessions when a joiner enters a lobby.
// Both sides then start the same world.
type LinkedEvent struct {
	LinkID  LinkID
	Code    string
	WorldID int
	Host    bool
	Partner SessionID
}

func (LinkedEvent) sessionEvent() {}

// PacketEvent carries bytes the partner sent.
type PacketEvent struct {
	Data []byte
}

func (PacketEvent) sessionEvent() {}

// UnlinkedEvent tells a session that its partner or lobby is gone.
type UnlinkedEvent struct {
	Reason UnlinkReason
}

func (UnlinkedEvent) sessionEvent() {}

// CoordinatorMessage represents a message from a session to the coordinator.
type CoordinatorMessage interface {
	coordinatorMessage()
}

// CreateLobbyMsg requests a new lobby racing on WorldID.
type CreateLobbyMsg struct {
	SessionID SessionID
	WorldID   int
}

func (CreateLobbyMsg) coordinatorMessage() {}

// JoinLobbyMsg requests joining an existing lobby.
type JoinLobbyMsg struct {
	SessionID SessionID
	Code      string
}

func (JoinLobbyMsg) coordinatorMessage() {}

// CancelLobbyMsg requests cancellation of a hosted lobby.
type CancelLobbyMsg struct {
	SessionID SessionID
	Code      string
}

func (CancelLobbyMsg) coordinatorMessage() {}

// RelayMsg forwards bytes to the sender's partner.
type RelayMsg struct {
	SessionID SessionID
	Data      []byte
}

func (RelayMsg) coordinatorMessage() {}

// UnlinkMsg drops the sender's link.
type UnlinkMsg struct {
	SessionID SessionID
}

func (UnlinkMsg) coordinatorMessage() {}

// SessionDisconnectedMsg is sent when a session disconnects.
type SessionDisconnectedMsg struct {
	SessionID SessionID
}

func (SessionDisconnectedMsg) coordinatorMessage() {}
