package room

import (
	"sync"
	"testing"

	"github.com/wfunc/haftkhabis/game"
	"github.com/wfunc/haftkhabis/network"
)

// MockBroadcaster is a test double for the Broadcaster interface. It
// records every message it was asked to deliver.
type MockBroadcaster struct {
	mutex      sync.Mutex
	broadcasts []uint16
	sends      map[string][]uint16
}

func NewMockBroadcaster() *MockBroadcaster {
	return &MockBroadcaster{sends: make(map[string][]uint16)}
}

func (m *MockBroadcaster) BroadcastToRoom(roomID string, msgID uint16, data []byte) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.broadcasts = append(m.broadcasts, msgID)
	return nil
}

func (m *MockBroadcaster) SendToPlayer(playerID string, msgID uint16, data []byte) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.sends[playerID] = append(m.sends[playerID], msgID)
	return nil
}

func (m *MockBroadcaster) broadcastCount(msgID uint16) int {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	count := 0
	for _, id := range m.broadcasts {
		if id == msgID {
			count++
		}
	}
	return count
}

func (m *MockBroadcaster) sendCount(playerID string, msgID uint16) int {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	count := 0
	for _, id := range m.sends[playerID] {
		if id == msgID {
			count++
		}
	}
	return count
}

func TestManager_CreateAndGetRoom(t *testing.T) {
	manager := NewManager(0)
	mockBroadcaster := NewMockBroadcaster()

	room, err := manager.CreateRoom("room-1", "Test Room", "alice", "Alice", mockBroadcaster)
	if err != nil {
		t.Fatalf("CreateRoom failed: %v", err)
	}
	if room.ID != "room-1" {
		t.Errorf("Expected room ID room-1, got %s", room.ID)
	}

	retrieved, exists := manager.GetRoom("room-1")
	if !exists {
		t.Fatal("GetRoom should find the created room")
	}
	if retrieved != room {
		t.Error("GetRoom should return the same room instance")
	}

	byPlayer, err := manager.GetRoomByPlayer("alice")
	if err != nil {
		t.Fatalf("GetRoomByPlayer failed: %v", err)
	}
	if byPlayer != room {
		t.Error("GetRoomByPlayer should return the creator's room")
	}

	// The creator is already seated.
	if !room.Game.IsJoined("alice") {
		t.Error("Creator should be seated in the new room")
	}
	if mockBroadcaster.broadcastCount(network.MsgTypeRoomState) != 1 {
		t.Errorf("Expected 1 room state broadcast, got %d", mockBroadcaster.broadcastCount(network.MsgTypeRoomState))
	}
}

func TestManager_JoinRoom(t *testing.T) {
	manager := NewManager(0)
	mockBroadcaster := NewMockBroadcaster()

	if _, err := manager.CreateRoom("room-1", "Test Room", "alice", "Alice", mockBroadcaster); err != nil {
		t.Fatalf("CreateRoom failed: %v", err)
	}
	if _, err := manager.JoinRoom("room-1", "bob", "Bob"); err != nil {
		t.Fatalf("JoinRoom failed: %v", err)
	}

	room, _ := manager.GetRoom("room-1")
	if len(room.Game.Players()) != 2 {
		t.Fatalf("Expected 2 players, got %d", len(room.Game.Players()))
	}

	if _, err := manager.JoinRoom("nope", "carol", "Carol"); err != ErrRoomNotFound {
		t.Errorf("Expected ErrRoomNotFound, got %v", err)
	}
}

func TestManager_OneRoomPerPlayer(t *testing.T) {
	manager := NewManager(0)
	mockBroadcaster := NewMockBroadcaster()

	if _, err := manager.CreateRoom("room-1", "Test Room", "alice", "Alice", mockBroadcaster); err != nil {
		t.Fatalf("CreateRoom failed: %v", err)
	}
	if _, err := manager.CreateRoom("room-2", "Second Room", "alice", "Alice", mockBroadcaster); err != ErrAlreadyInRoom {
		t.Errorf("Expected ErrAlreadyInRoom on second create, got %v", err)
	}
	if _, err := manager.JoinRoom("room-1", "alice", "Alice"); err != ErrAlreadyInRoom {
		t.Errorf("Expected ErrAlreadyInRoom on self-join, got %v", err)
	}
}

func TestManager_ReadyUpStartsGame(t *testing.T) {
	manager := NewManager(0)
	mockBroadcaster := NewMockBroadcaster()

	room, err := manager.CreateRoom("room-1", "Test Room", "alice", "Alice", mockBroadcaster)
	if err != nil {
		t.Fatalf("CreateRoom failed: %v", err)
	}
	if _, err := manager.JoinRoom("room-1", "bob", "Bob"); err != nil {
		t.Fatalf("JoinRoom failed: %v", err)
	}

	if err := manager.SetReady("alice", true); err != nil {
		t.Fatalf("SetReady failed: %v", err)
	}
	if room.Game.Started() {
		t.Fatal("Game should not start before everyone is ready")
	}
	if err := manager.SetReady("bob", true); err != nil {
		t.Fatalf("SetReady failed: %v", err)
	}

	if !room.Game.Started() {
		t.Fatal("Game should start once the whole lobby is ready")
	}
	if mockBroadcaster.broadcastCount(network.MsgTypeGameStarted) != 1 {
		t.Errorf("Expected 1 game started broadcast, got %d", mockBroadcaster.broadcastCount(network.MsgTypeGameStarted))
	}
	// Both players got their opening hand.
	for _, id := range []string{"alice", "bob"} {
		if mockBroadcaster.sendCount(id, network.MsgTypeHandState) == 0 {
			t.Errorf("Expected a hand payload for %s", id)
		}
	}
}

func TestManager_TurnGuard(t *testing.T) {
	manager := NewManager(0)
	mockBroadcaster := NewMockBroadcaster()

	room, _ := manager.CreateRoom("room-1", "Test Room", "alice", "Alice", mockBroadcaster)
	manager.JoinRoom("room-1", "bob", "Bob")
	manager.SetReady("alice", true)
	manager.SetReady("bob", true)

	if !room.Game.Started() {
		t.Fatal("Game should have started")
	}

	// Seat 0 belongs to the creator; bob may not act yet.
	if err := manager.PlayCard("bob", game.Card("♥3"), ""); err != ErrNotYourTurn {
		t.Errorf("Expected ErrNotYourTurn, got %v", err)
	}
	if err := manager.GrabCard("bob"); err != ErrNotYourTurn {
		t.Errorf("Expected ErrNotYourTurn, got %v", err)
	}
	if err := manager.SkipRound("bob"); err != ErrNotYourTurn {
		t.Errorf("Expected ErrNotYourTurn, got %v", err)
	}

	if err := manager.PlayCard("carol", game.Card("♥3"), ""); err != ErrNotInRoom {
		t.Errorf("Expected ErrNotInRoom for outsider, got %v", err)
	}
}

func TestManager_GrabAndSkipFlow(t *testing.T) {
	manager := NewManager(0)
	mockBroadcaster := NewMockBroadcaster()

	room, _ := manager.CreateRoom("room-1", "Test Room", "alice", "Alice", mockBroadcaster)
	manager.JoinRoom("room-1", "bob", "Bob")
	manager.SetReady("alice", true)
	manager.SetReady("bob", true)

	alice, _ := room.Game.GetPlayerByID("alice")
	before := alice.HandSize()

	if err := manager.GrabCard("alice"); err != nil {
		t.Fatalf("GrabCard failed: %v", err)
	}
	if alice.HandSize() != before+1 {
		t.Errorf("Expected hand size %d after grab, got %d", before+1, alice.HandSize())
	}
	if mockBroadcaster.sendCount("alice", network.MsgTypeHandState) == 0 {
		t.Error("Grabbing should resend the hand")
	}

	if err := manager.SkipRound("alice"); err != nil {
		t.Fatalf("SkipRound failed: %v", err)
	}
	if room.Game.CurrentTurnPlayer().ID != "bob" {
		t.Errorf("Expected bob's turn after skip, got %s", room.Game.CurrentTurnPlayer().ID)
	}
}

func TestManager_LeaveRoom(t *testing.T) {
	manager := NewManager(0)
	mockBroadcaster := NewMockBroadcaster()

	manager.CreateRoom("room-1", "Test Room", "alice", "Alice", mockBroadcaster)
	manager.JoinRoom("room-1", "bob", "Bob")

	if err := manager.LeaveRoom("bob"); err != nil {
		t.Fatalf("LeaveRoom failed: %v", err)
	}
	if _, err := manager.GetRoomByPlayer("bob"); err != ErrNotInRoom {
		t.Errorf("Expected ErrNotInRoom after leaving, got %v", err)
	}
	if manager.Count() != 1 {
		t.Fatalf("Room should survive while a member remains, count=%d", manager.Count())
	}

	if err := manager.LeaveRoom("alice"); err != nil {
		t.Fatalf("LeaveRoom failed: %v", err)
	}
	if manager.Count() != 0 {
		t.Fatalf("Room should be dropped with its last member, count=%d", manager.Count())
	}

	if err := manager.LeaveRoom("alice"); err != ErrNotInRoom {
		t.Errorf("Expected ErrNotInRoom on double leave, got %v", err)
	}
}

func TestRoom_StateSnapshot(t *testing.T) {
	manager := NewManager(0)
	mockBroadcaster := NewMockBroadcaster()

	room, _ := manager.CreateRoom("room-1", "Test Room", "alice", "Alice", mockBroadcaster)
	manager.JoinRoom("room-1", "bob", "Bob")

	state := room.State()
	if state.Started {
		t.Error("Lobby snapshot should not be started")
	}
	if len(state.Players) != 2 {
		t.Fatalf("Expected 2 players in snapshot, got %d", len(state.Players))
	}
	if state.Players[0].Name != "Alice" || state.Players[1].Name != "Bob" {
		t.Errorf("Unexpected roster order: %+v", state.Players)
	}

	manager.SetReady("alice", true)
	manager.SetReady("bob", true)

	state = room.State()
	if !state.Started {
		t.Fatal("Snapshot should be started after ready-up")
	}
	if state.TopCard == "" {
		t.Error("Started snapshot should carry the top card")
	}
	if state.Players[0].CardCount != 7 || state.Players[1].CardCount != 7 {
		t.Errorf("Expected 7-card opening hands, got %d and %d",
			state.Players[0].CardCount, state.Players[1].CardCount)
	}
	if !state.Players[0].Turn {
		t.Error("Seat 0 should hold the opening turn")
	}
}
