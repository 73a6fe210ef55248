package multiplayer

import (
	"bytes"
	"testing"
	"time"
)

type testSetup struct {
	coord *Coordinator
	reg   *SessionRegistry
}

func newTestSetup() *testSetup {
	reg := NewSessionRegistry()
	return &testSetup{
		coord: NewCoordinator(DefaultCoordinatorConfig(), reg, nil),
		reg:   reg,
	}
}

func (s *testSetup) session(id string) *ChannelSession {
	cs := NewChannelSession(SessionID(id), 16)
	s.reg.Register(cs)
	return cs
}

// flush handles every queued message, as the coordinator goroutine would.
func (s *testSetup) flush() {
	for {
		select {
		case msg := <-s.coord.msgChan:
			s.coord.handleMessage(msg)
		default:
			return
		}
	}
}

func nextEvent(t *testing.T, s *ChannelSession) SessionEvent {
	t.Helper()
	select {
	case evt := <-s.Events():
		return evt
	default:
		t.Fatalf("session %s has no event", s.ID())
		return nil
	}
}

func expectNoEvent(t *testing.T, s *ChannelSession) {
	t.Helper()
	select {
	case evt := <-s.Events():
		t.Fatalf("session %s got unexpected %T", s.ID(), evt)
	default:
	}
}

// link hosts a lobby on host and joins it from joiner.
func (s *testSetup) link(t *testing.T, host, joiner *ChannelSession, worldID int) string {
	t.Helper()
	s.coord.handleMessage(CreateLobbyMsg{SessionID: host.ID(), WorldID: worldID})
	created, ok := nextEvent(t, host).(LobbyCreatedEvent)
	if !ok {
		t.Fatal("expected LobbyCreatedEvent")
	}
	s.coord.handleMessage(JoinLobbyMsg{SessionID: joiner.ID(), Code: created.Code})
	return created.Code
}

func TestCreateLobby(t *testing.T) {
	s := newTestSetup()
	host := s.session("host")

	s.coord.handleMessage(CreateLobbyMsg{SessionID: host.ID(), WorldID: 3})

	evt, ok := nextEvent(t, host).(LobbyCreatedEvent)
	if !ok {
		t.Fatal("expected LobbyCreatedEvent")
	}
	if len(evt.Code) != 6 {
		t.Errorf("code %q should have 6 characters", evt.Code)
	}
	if evt.WorldID != 3 {
		t.Errorf("WorldID = %d, expected 3", evt.WorldID)
	}
	if _, ok := s.coord.GetLobby(evt.Code); !ok {
		t.Error("lobby should be registered")
	}

	s.coord.handleMessage(CreateLobbyMsg{SessionID: host.ID(), WorldID: 1})
	if _, ok := nextEvent(t, host).(LobbyErrorEvent); !ok {
		t.Error("second lobby from the same session should fail")
	}
}

func TestJoinLinksBothSessions(t *testing.T) {
	s := newTestSetup()
	host := s.session("host")
	joiner := s.session("joiner")

	code := s.link(t, host, joiner, 2)

	h, ok := nextEvent(t, host).(LinkedEvent)
	if !ok {
		t.Fatal("host expected LinkedEvent")
	}
	j, ok := nextEvent(t, joiner).(LinkedEvent)
	if !ok {
		t.Fatal("joiner expected LinkedEvent")
	}

	if !h.Host || j.Host {
		t.Errorf("Host flags = %v/%v, expected true/false", h.Host, j.Host)
	}
	if h.LinkID != j.LinkID || h.LinkID == "" {
		t.Errorf("link ids %q and %q should match", h.LinkID, j.LinkID)
	}
	if h.WorldID != 2 || j.WorldID != 2 || h.Code != code {
		t.Errorf("unexpected link details %+v / %+v", h, j)
	}
	if h.Partner != joiner.ID() || j.Partner != host.ID() {
		t.Errorf("partners = %s/%s", h.Partner, j.Partner)
	}
	if s.coord.LobbyCount() != 0 || s.coord.LinkCount() != 1 {
		t.Errorf("lobbies=%d links=%d, expected 0/1", s.coord.LobbyCount(), s.coord.LinkCount())
	}
}

func TestJoinErrors(t *testing.T) {
	s := newTestSetup()
	host := s.session("host")
	other := s.session("other")

	s.coord.handleMessage(CreateLobbyMsg{SessionID: host.ID(), WorldID: 1})
	code := nextEvent(t, host).(LobbyCreatedEvent).Code

	tests := []struct {
		name    string
		session *ChannelSession
		code    string
		message string
	}{
		{"unknown code", other, "ZZZZZZ", "Lobby not found"},
		{"own lobby", host, code, "Already in a lobby"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s.coord.handleMessage(JoinLobbyMsg{SessionID: tc.session.ID(), Code: tc.code})
			evt, ok := nextEvent(t, tc.session).(LobbyErrorEvent)
			if !ok {
				t.Fatal("expected LobbyErrorEvent")
			}
			if evt.Message != tc.message {
				t.Errorf("Message = %q, expected %q", evt.Message, tc.message)
			}
		})
	}
}

func TestJoinCodeIsCaseInsensitive(t *testing.T) {
	s := newTestSetup()
	host := s.session("host")
	joiner := s.session("joiner")

	s.coord.handleMessage(CreateLobbyMsg{SessionID: host.ID(), WorldID: 1})
	code := nextEvent(t, host).(LobbyCreatedEvent).Code

	s.coord.handleMessage(JoinLobbyMsg{SessionID: joiner.ID(), Code: " " + string(bytes.ToLower([]byte(code))) + " "})
	if _, ok := nextEvent(t, joiner).(LinkedEvent); !ok {
		t.Error("lower-case code should join")
	}
}

func TestLobbyFullAfterJoin(t *testing.T) {
	s := newTestSetup()
	host := s.session("host")
	joiner := s.session("joiner")
	late := s.session("late")

	code := s.link(t, host, joiner, 1)

	s.coord.handleMessage(JoinLobbyMsg{SessionID: late.ID(), Code: code})
	if _, ok := nextEvent(t, late).(LobbyErrorEvent); !ok {
		t.Error("a third session should not find the lobby")
	}
}

func TestRelayKeepsOrder(t *testing.T) {
	s := newTestSetup()
	host := s.session("host")
	joiner := s.session("joiner")
	s.link(t, host, joiner, 1)
	nextEvent(t, host)
	nextEvent(t, joiner)

	hostLink := NewRelayLink(s.coord, host.ID())
	joinerLink := NewRelayLink(s.coord, joiner.ID())

	payloads := [][]byte{{1, 0, 0, 0, 5}, {2}, {3}}
	for _, p := range payloads {
		if err := hostLink.Send(p); err != nil {
			t.Fatalf("Send failed: %v", err)
		}
	}
	if err := joinerLink.Send([]byte{2}); err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	s.flush()

	for i, expected := range payloads {
		evt, ok := nextEvent(t, joiner).(PacketEvent)
		if !ok {
			t.Fatalf("packet %d: expected PacketEvent", i)
		}
		if !bytes.Equal(evt.Data, expected) {
			t.Errorf("packet %d = %v, expected %v", i, evt.Data, expected)
		}
	}
	expectNoEvent(t, joiner)

	evt, ok := nextEvent(t, host).(PacketEvent)
	if !ok || !bytes.Equal(evt.Data, []byte{2}) {
		t.Errorf("host got %+v, expected the joiner's packet", evt)
	}
}

func TestRelayCopiesPayload(t *testing.T) {
	s := newTestSetup()
	host := s.session("host")
	joiner := s.session("joiner")
	s.link(t, host, joiner, 1)
	nextEvent(t, host)
	nextEvent(t, joiner)

	buf := []byte{1, 0, 0, 0, 7}
	if err := NewRelayLink(s.coord, host.ID()).Send(buf); err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	buf[4] = 9
	s.flush()

	evt := nextEvent(t, joiner).(PacketEvent)
	if evt.Data[4] != 7 {
		t.Errorf("relayed payload changed to %v", evt.Data)
	}
}

func TestUnlinkNotifiesPartnerAfterPackets(t *testing.T) {
	s := newTestSetup()
	host := s.session("host")
	joiner := s.session("joiner")
	s.link(t, host, joiner, 1)
	nextEvent(t, host)
	nextEvent(t, joiner)

	l := NewRelayLink(s.coord, host.ID())
	if err := l.Send([]byte{3}); err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if err := l.Disconnect(); err != nil {
		t.Fatalf("Disconnect failed: %v", err)
	}
	if err := l.Disconnect(); err != nil {
		t.Fatalf("second Disconnect failed: %v", err)
	}
	if err := l.Send([]byte{3}); err != ErrUnlinked {
		t.Errorf("Send after Disconnect = %v, expected ErrUnlinked", err)
	}
	s.flush()

	if _, ok := nextEvent(t, joiner).(PacketEvent); !ok {
		t.Fatal("packet should arrive before the unlink")
	}
	evt, ok := nextEvent(t, joiner).(UnlinkedEvent)
	if !ok {
		t.Fatal("expected UnlinkedEvent")
	}
	if evt.Reason != UnlinkPartnerLeft {
		t.Errorf("Reason = %s, expected %s", evt.Reason, UnlinkPartnerLeft)
	}
	expectNoEvent(t, host)
	if s.coord.LinkCount() != 0 {
		t.Errorf("LinkCount = %d, expected 0", s.coord.LinkCount())
	}

	// The survivor's own unlink finds nothing left to do.
	s.coord.handleMessage(UnlinkMsg{SessionID: joiner.ID()})
	expectNoEvent(t, host)
}

func TestSessionDisconnected(t *testing.T) {
	t.Run("linked", func(t *testing.T) {
		s := newTestSetup()
		host := s.session("host")
		joiner := s.session("joiner")
		s.link(t, host, joiner, 1)
		nextEvent(t, host)
		nextEvent(t, joiner)

		s.coord.handleMessage(SessionDisconnectedMsg{SessionID: joiner.ID()})

		evt, ok := nextEvent(t, host).(UnlinkedEvent)
		if !ok || evt.Reason != UnlinkPartnerDisconnected {
			t.Errorf("host got %+v, expected partner disconnected", evt)
		}
	})

	t.Run("hosting", func(t *testing.T) {
		s := newTestSetup()
		host := s.session("host")
		s.coord.handleMessage(CreateLobbyMsg{SessionID: host.ID(), WorldID: 1})
		nextEvent(t, host)

		s.coord.handleMessage(SessionDisconnectedMsg{SessionID: host.ID()})
		if s.coord.LobbyCount() != 0 {
			t.Errorf("LobbyCount = %d, expected 0", s.coord.LobbyCount())
		}
	})
}

func TestCancelLobby(t *testing.T) {
	s := newTestSetup()
	host := s.session("host")
	other := s.session("other")

	s.coord.handleMessage(CreateLobbyMsg{SessionID: host.ID(), WorldID: 1})
	code := nextEvent(t, host).(LobbyCreatedEvent).Code

	s.coord.handleMessage(CancelLobbyMsg{SessionID: other.ID(), Code: code})
	if s.coord.LobbyCount() != 1 {
		t.Fatal("only the host may cancel")
	}

	s.coord.handleMessage(CancelLobbyMsg{SessionID: host.ID(), Code: code})
	if s.coord.LobbyCount() != 0 {
		t.Fatal("lobby should be gone")
	}

	s.coord.handleMessage(CreateLobbyMsg{SessionID: host.ID(), WorldID: 1})
	if _, ok := nextEvent(t, host).(LobbyCreatedEvent); !ok {
		t.Error("host should be free to host again")
	}
}

func TestExpiredLobbies(t *testing.T) {
	s := newTestSetup()
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	s.coord.now = func() time.Time { return now }

	host := s.session("host")
	s.coord.handleMessage(CreateLobbyMsg{SessionID: host.ID(), WorldID: 1})
	nextEvent(t, host)

	now = now.Add(time.Minute)
	s.coord.cleanupExpiredLobbies()
	if s.coord.LobbyCount() != 1 {
		t.Fatal("lobby expired too early")
	}

	now = now.Add(2 * time.Minute)
	s.coord.cleanupExpiredLobbies()
	if s.coord.LobbyCount() != 0 {
		t.Fatal("lobby should have expired")
	}
	evt, ok := nextEvent(t, host).(LobbyErrorEvent)
	if !ok || evt.Message != "Lobby expired" {
		t.Errorf("host got %+v", evt)
	}
}

func TestRelayWithoutLinkIsDropped(t *testing.T) {
	s := newTestSetup()
	host := s.session("host")
	s.coord.handleMessage(RelayMsg{SessionID: host.ID(), Data: []byte{1}})
	expectNoEvent(t, host)
}

func TestChannelSessionDropsOldest(t *testing.T) {
	cs := NewChannelSession("s", 2)
	cs.Send(PacketEvent{Data: []byte{1}})
	cs.Send(PacketEvent{Data: []byte{2}})
	cs.Send(PacketEvent{Data: []byte{3}})

	first := nextEvent(t, cs).(PacketEvent)
	second := nextEvent(t, cs).(PacketEvent)
	if first.Data[0] != 2 || second.Data[0] != 3 {
		t.Errorf("kept %v and %v, expected 2 and 3", first.Data, second.Data)
	}

	cs.Close()
	cs.Close()
	cs.Send(PacketEvent{})
	expectNoEvent(t, cs)
}

func TestClosedSessionQueuesNothing(t *testing.T) {
	cs := NewChannelSession("s", 4)
	cs.Close()

	for i := 0; i < 1000; i++ {
		cs.Send(PacketEvent{Data: []byte{byte(i)}})
		if n := len(cs.Events()); n != 0 {
			t.Fatalf("send %d: %d events queued on a closed session", i, n)
		}
	}
}
