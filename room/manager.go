// room/manager.go
package room

import (
	"errors"
	"sync"
	"time"

	"github.com/wfunc/haftkhabis/game"
	"github.com/wfunc/haftkhabis/logger"
	"github.com/wfunc/haftkhabis/models"
	"github.com/wfunc/haftkhabis/timer"
)

var (
	ErrRoomNotFound  = errors.New("room not found")
	ErrAlreadyInRoom = errors.New("player has already joined a room")
	ErrNotInRoom     = errors.New("player is not in a room")
	ErrNotYourTurn   = errors.New("not your turn")
)

// Manager is the room directory: it maps room ids and player ids to rooms
// and enforces the one-room-per-player rule the engine itself does not
// know about. Idle and finished rooms are swept on a timer; the idle
// policy deliberately lives here and not in the engine.
type Manager struct {
	rooms    map[string]*Room
	byPlayer map[string]string // playerID -> roomID
	mutex    sync.RWMutex

	timers      *timer.Manager
	idleTimeout time.Duration
	onFinished  func(*Room, []models.PlayerResult)
}

// NewManager creates a directory. With a positive idleTimeout a periodic
// sweep removes rooms idle for longer than that, plus finished rooms.
func NewManager(idleTimeout time.Duration) *Manager {
	m := &Manager{
		rooms:       make(map[string]*Room),
		byPlayer:    make(map[string]string),
		idleTimeout: idleTimeout,
	}
	if idleTimeout > 0 {
		m.timers = timer.NewManager()
		m.timers.AddTimer(idleTimeout, idleTimeout, m.sweepIdle)
	}
	return m
}

// OnMatchFinished registers the callback invoked with the final rankings
// of every room whose game ends. The server uses it to archive matches.
func (m *Manager) OnMatchFinished(fn func(*Room, []models.PlayerResult)) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.onFinished = fn
}

// CreateRoom creates a room owned by the creator and seats them in it.
// Engine calls happen outside the directory lock: engine events reach the
// broadcaster, which looks rooms up through this manager again.
func (m *Manager) CreateRoom(id, name, creatorID, creatorName string, broadcaster Broadcaster) (*Room, error) {
	m.mutex.Lock()
	if _, joined := m.byPlayer[creatorID]; joined {
		m.mutex.Unlock()
		return nil, ErrAlreadyInRoom
	}
	r := NewRoom(id, name, creatorID, broadcaster)
	r.onFinished = func(r *Room, results []models.PlayerResult) {
		m.mutex.RLock()
		fn := m.onFinished
		m.mutex.RUnlock()
		if fn != nil {
			fn(r, results)
		}
	}
	m.rooms[id] = r
	m.byPlayer[creatorID] = id
	m.mutex.Unlock()

	if err := r.Game.AddPlayer(game.NewPlayer(creatorID, creatorName)); err != nil {
		m.RemoveRoom(id)
		return nil, err
	}
	return r, nil
}

// JoinRoom seats a player in an existing lobby.
func (m *Manager) JoinRoom(roomID, playerID, playerName string) (*Room, error) {
	m.mutex.Lock()
	if _, joined := m.byPlayer[playerID]; joined {
		m.mutex.Unlock()
		return nil, ErrAlreadyInRoom
	}
	r, exists := m.rooms[roomID]
	if !exists {
		m.mutex.Unlock()
		return nil, ErrRoomNotFound
	}
	m.byPlayer[playerID] = roomID
	m.mutex.Unlock()

	if err := r.Game.AddPlayer(game.NewPlayer(playerID, playerName)); err != nil {
		m.mutex.Lock()
		delete(m.byPlayer, playerID)
		m.mutex.Unlock()
		return nil, err
	}
	return r, nil
}

// LeaveRoom takes a player out of their room. In the lobby the seat is
// freed for someone else; once the game has started the roster cannot
// shrink, so only the directory mapping is dropped and the room dies when
// its last member leaves.
func (m *Manager) LeaveRoom(playerID string) error {
	m.mutex.RLock()
	roomID, joined := m.byPlayer[playerID]
	r, exists := m.rooms[roomID]
	m.mutex.RUnlock()

	if !joined {
		return ErrNotInRoom
	}
	if exists && !r.Game.Started() {
		if err := r.Game.RemovePlayer(playerID); err != nil {
			return err
		}
	}

	m.mutex.Lock()
	delete(m.byPlayer, playerID)
	if m.membersLocked(roomID) == 0 {
		delete(m.rooms, roomID)
	}
	m.mutex.Unlock()
	return nil
}

// SetReady flips a player's ready flag.
func (m *Manager) SetReady(playerID string, ready bool) error {
	r, err := m.GetRoomByPlayer(playerID)
	if err != nil {
		return err
	}
	player, err := r.Game.GetPlayerByID(playerID)
	if err != nil {
		return err
	}
	player.SetReady(ready)
	return nil
}

// PlayCard plays a card for the player, optionally naming a fine target.
func (m *Manager) PlayCard(playerID string, card game.Card, finedID string) error {
	r, err := m.GetRoomByPlayer(playerID)
	if err != nil {
		return err
	}
	if r.Game.CurrentTurnPlayer().ID != playerID {
		return ErrNotYourTurn
	}
	var fined *game.Player
	if finedID != "" {
		if fined, err = r.Game.GetPlayerByID(finedID); err != nil {
			return err
		}
	}
	return r.Game.Play(card, fined)
}

// GrabCard draws one random card for the player ("can't play" flow).
func (m *Manager) GrabCard(playerID string) error {
	r, err := m.GetRoomByPlayer(playerID)
	if err != nil {
		return err
	}
	if r.Game.CurrentTurnPlayer().ID != playerID {
		return ErrNotYourTurn
	}
	return r.Game.GiveRandomCardToPlayer(playerID)
}

// SkipRound forfeits the rest of the player's turn after a grab.
func (m *Manager) SkipRound(playerID string) error {
	r, err := m.GetRoomByPlayer(playerID)
	if err != nil {
		return err
	}
	if r.Game.CurrentTurnPlayer().ID != playerID {
		return ErrNotYourTurn
	}
	return r.Game.SkipRound()
}

// GetRoom looks a room up by id.
func (m *Manager) GetRoom(id string) (*Room, bool) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	r, exists := m.rooms[id]
	return r, exists
}

// GetRoomByPlayer looks a room up by one of its members.
func (m *Manager) GetRoomByPlayer(playerID string) (*Room, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	roomID, joined := m.byPlayer[playerID]
	if !joined {
		return nil, ErrNotInRoom
	}
	r, exists := m.rooms[roomID]
	if !exists {
		return nil, ErrRoomNotFound
	}
	return r, nil
}

// RemoveRoom drops a room and all directory entries pointing at it.
func (m *Manager) RemoveRoom(id string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.removeRoomLocked(id)
}

// Count returns the number of live rooms.
func (m *Manager) Count() int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return len(m.rooms)
}

// Stop terminates the idle sweeper.
func (m *Manager) Stop() {
	if m.timers != nil {
		m.timers.Stop()
	}
}

func (m *Manager) removeRoomLocked(id string) {
	if _, exists := m.rooms[id]; !exists {
		return
	}
	for playerID, roomID := range m.byPlayer {
		if roomID == id {
			delete(m.byPlayer, playerID)
		}
	}
	delete(m.rooms, id)
}

func (m *Manager) membersLocked(roomID string) int {
	count := 0
	for _, id := range m.byPlayer {
		if id == roomID {
			count++
		}
	}
	return count
}

// sweepIdle drops finished rooms and rooms nobody has touched within the
// idle timeout.
func (m *Manager) sweepIdle() {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	for id, r := range m.rooms {
		if r.Game.Finished() || r.IdleFor() > m.idleTimeout {
			logger.Log.Infof("Sweeping room %s (finished=%v, idle=%v)", id, r.Game.Finished(), r.IdleFor())
			m.removeRoomLocked(id)
		}
	}
}
