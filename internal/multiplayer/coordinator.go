package multiplayer

import (
	"crypto/rand"
	"encoding/base32"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// Lobby is a hosted race waiting for a second player.
type Lobby struct {
	Code      string
	WorldID   int
	Host      SessionHandle
	CreatedAt time.Time
}

// Link is a pair of sessions racing the same world.
type Link struct {
	ID      LinkID
	Code    string
	WorldID int
	Host    SessionHandle
	Joiner  SessionHandle
}

func (l *Link) partnerOf(id SessionID) SessionHandle {
	if l.Host.ID() == id {
		return l.Joiner
	}
	return l.Host
}

// CoordinatorConfig holds configuration for the coordinator.
type CoordinatorConfig struct {
	LobbyTimeout  time.Duration // how long a lobby waits for a joiner
	CleanupPeriod time.Duration // how often expired lobbies are swept
}

// DefaultCoordinatorConfig returns the stock lobby timings.
func DefaultCoordinatorConfig() CoordinatorConfig {
	return CoordinatorConfig{
		LobbyTimeout:  2 * time.Minute,
		CleanupPeriod: 30 * time.Second,
	}
}

// Coordinator owns lobbies and links. Sessions talk to it through Send;
// all messages are handled on one goroutine, so relayed packets keep
// their order.
type Coordinator struct {
	config   CoordinatorConfig
	sessions *SessionRegistry
	log      *log.Logger
	now      func() time.Time

	mu      sync.RWMutex
	lobbies map[string]*Lobby
	links   map[LinkID]*Link

	sessionLobby map[SessionID]string
	sessionLink  map[SessionID]LinkID

	msgChan  chan CoordinatorMessage
	done     chan struct{}
	stopOnce sync.Once
}

// NewCoordinator creates a coordinator. A nil logger discards output.
func NewCoordinator(cfg CoordinatorConfig, sessions *SessionRegistry, logger *log.Logger) *Coordinator {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Coordinator{
		config:       cfg,
		sessions:     sessions,
		log:          logger,
		now:          time.Now,
		lobbies:      make(map[string]*Lobby),
		links:        make(map[LinkID]*Link),
		sessionLobby: make(map[SessionID]string),
		sessionLink:  make(map[SessionID]LinkID),
		msgChan:      make(chan CoordinatorMessage, 256),
		done:         make(chan struct{}),
	}
}

// Start begins background processing.
func (c *Coordinator) Start() {
	go c.processMessages()
	go c.cleanupLoop()
}

// Stop shuts the coordinator down. Safe to call more than once.
func (c *Coordinator) Stop() {
	c.stopOnce.Do(func() {
		close(c.done)
	})
}

// Send queues a message for the coordinator.
func (c *Coordinator) Send(msg CoordinatorMessage) {
	select {
	case c.msgChan <- msg:
	case <-c.done:
	}
}

func (c *Coordinator) processMessages() {
	for {
		select {
		case msg := <-c.msgChan:
			c.handleMessage(msg)
		case <-c.done:
			return
		}
	}
}

func (c *Coordinator) handleMessage(msg CoordinatorMessage) {
	switch m := msg.(type) {
	case CreateLobbyMsg:
		c.handleCreateLobby(m)
	case JoinLobbyMsg:
		c.handleJoinLobby(m)
	case CancelLobbyMsg:
		c.handleCancelLobby(m)
	case RelayMsg:
		c.handleRelay(m)
	case UnlinkMsg:
		c.handleUnlink(m)
	case SessionDisconnectedMsg:
		c.handleSessionDisconnected(m)
	}
}

func (c *Coordinator) handleCreateLobby(msg CreateLobbyMsg) {
	session, ok := c.sessions.Get(msg.SessionID)
	if !ok {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.busyLocked(msg.SessionID) {
		session.Send(LobbyErrorEvent{Message: "Already in a lobby"})
		return
	}

	code := c.generateUniqueCode()
	c.lobbies[code] = &Lobby{
		Code:      code,
		WorldID:   msg.WorldID,
		Host:      session,
		CreatedAt: c.now(),
	}
	c.sessionLobby[msg.SessionID] = code

	c.log.Info("lobby created", "code", code, "world", msg.WorldID)
	session.Send(LobbyCreatedEvent{Code: code, WorldID: msg.WorldID})
}

func (c *Coordinator) handleJoinLobby(msg JoinLobbyMsg) {
	session, ok := c.sessions.Get(msg.SessionID)
	if !ok {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.busyLocked(msg.SessionID) {
		session.Send(LobbyErrorEvent{Message: "Already in a lobby"})
		return
	}

	code := strings.ToUpper(strings.TrimSpace(msg.Code))
	lobby, exists := c.lobbies[code]
	if !exists {
		session.Send(LobbyErrorEvent{Message: "Lobby not found"})
		return
	}

	link := &Link{
		ID:      newLinkID(),
		Code:    code,
		WorldID: lobby.WorldID,
		Host:    lobby.Host,
		Joiner:  session,
	}
	c.links[link.ID] = link
	delete(c.lobbies, code)
	delete(c.sessionLobby, lobby.Host.ID())
	c.sessionLink[lobby.Host.ID()] = link.ID
	c.sessionLink[msg.SessionID] = link.ID

	c.log.Info("sessions linked", "code", code, "world", link.WorldID, "link", link.ID)

	lobby.Host.Send(LinkedEvent{
		LinkID:  link.ID,
		Code:    code,
		WorldID: link.WorldID,
		Host:    true,
		Partner: msg.SessionID,
	})
	session.Send(LinkedEvent{
		LinkID:  link.ID,
		Code:    code,
		WorldID: link.WorldID,
		Partner: lobby.Host.ID(),
	})
}

func (c *Coordinator) handleCancelLobby(msg CancelLobbyMsg) {
	c.mu.Lock()
	defer c.mu.Unlock()

	code := strings.ToUpper(msg.Code)
	lobby, exists := c.lobbies[code]
	if !exists || lobby.Host.ID() != msg.SessionID {
		return
	}
	delete(c.lobbies, code)
	delete(c.sessionLobby, msg.SessionID)
}

func (c *Coordinator) handleRelay(msg RelayMsg) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	link, ok := c.linkOfLocked(msg.SessionID)
	if !ok {
		return
	}
	link.partnerOf(msg.SessionID).Send(PacketEvent{Data: msg.Data})
}

func (c *Coordinator) handleUnlink(msg UnlinkMsg) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.unlinkLocked(msg.SessionID, UnlinkPartnerLeft)
}

func (c *Coordinator) handleSessionDisconnected(msg SessionDisconnectedMsg) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if code, inLobby := c.sessionLobby[msg.SessionID]; inLobby {
		delete(c.lobbies, code)
		delete(c.sessionLobby, msg.SessionID)
	}
	c.unlinkLocked(msg.SessionID, UnlinkPartnerDisconnected)
}

// unlinkLocked dissolves the link of id and tells the partner why.
func (c *Coordinator) unlinkLocked(id SessionID, reason UnlinkReason) {
	link, ok := c.linkOfLocked(id)
	if !ok {
		return
	}
	delete(c.links, link.ID)
	delete(c.sessionLink, link.Host.ID())
	delete(c.sessionLink, link.Joiner.ID())

	c.log.Info("link closed", "link", link.ID, "reason", reason)
	link.partnerOf(id).Send(UnlinkedEvent{Reason: reason})
}

func (c *Coordinator) linkOfLocked(id SessionID) (*Link, bool) {
	linkID, ok := c.sessionLink[id]
	if !ok {
		return nil, false
	}
	link, ok := c.links[linkID]
	return link, ok
}

func (c *Coordinator) busyLocked(id SessionID) bool {
	_, inLobby := c.sessionLobby[id]
	_, linked := c.sessionLink[id]
	return inLobby || linked
}

func (c *Coordinator) cleanupLoop() {
	ticker := time.NewTicker(c.config.CleanupPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.cleanupExpiredLobbies()
		case <-c.done:
			return
		}
	}
}

func (c *Coordinator) cleanupExpiredLobbies() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for code, lobby := range c.lobbies {
		if now.Sub(lobby.CreatedAt) > c.config.LobbyTimeout {
			lobby.Host.Send(LobbyErrorEvent{Message: "Lobby expired"})
			delete(c.sessionLobby, lobby.Host.ID())
			delete(c.lobbies, code)
		}
	}
}

func (c *Coordinator) generateUniqueCode() string {
	for {
		code := generateJoinCode()
		if _, exists := c.lobbies[code]; !exists {
			return code
		}
	}
}

// generateJoinCode creates a 6-character code from the base32 alphabet.
func generateJoinCode() string {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("%06X", time.Now().UnixNano()&0xFFFFFF)
	}
	return base32.StdEncoding.EncodeToString(b)[:6]
}

// GetLobby returns a lobby by code.
func (c *Coordinator) GetLobby(code string) (*Lobby, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	l, ok := c.lobbies[strings.ToUpper(code)]
	return l, ok
}

// LobbyCount returns the number of open lobbies.
func (c *Coordinator) LobbyCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.lobbies)
}

// LinkCount returns the number of linked pairs.
func (c *Coordinator) LinkCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.links)
}
