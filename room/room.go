// room/room.go
package room

import (
	"encoding/json"
	"sort"
	"sync"
	"time"

	"github.com/wfunc/haftkhabis/game"
	"github.com/wfunc/haftkhabis/logger"
	"github.com/wfunc/haftkhabis/models"
	"github.com/wfunc/haftkhabis/network"
)

// Room pairs one game engine room with the transport side: it subscribes to
// the engine's events and translates every state change into room-state and
// private hand payloads, the way the original chat bot redrew its status
// screens. The engine itself never sees the broadcaster.
type Room struct {
	ID        string
	Name      string
	CreatorID string
	Game      *game.Room
	CreatedAt time.Time

	broadcaster Broadcaster
	onFinished  func(*Room, []models.PlayerResult)

	lastActive  time.Time
	activeMutex sync.RWMutex
}

// NewRoom wires a fresh engine room to the broadcaster.
func NewRoom(id, name, creatorID string, broadcaster Broadcaster) *Room {
	r := &Room{
		ID:          id,
		Name:        name,
		CreatorID:   creatorID,
		Game:        game.NewRoom(),
		CreatedAt:   time.Now(),
		broadcaster: broadcaster,
		lastActive:  time.Now(),
	}

	r.Game.On(game.EventNewPlayerAdded, func(game.Payload) {
		r.broadcastState(network.MsgTypeRoomState)
	})
	r.Game.On(game.EventPlayerRemoved, func(game.Payload) {
		r.broadcastState(network.MsgTypeRoomState)
	})
	r.Game.On(game.EventEveryoneReady, func(game.Payload) {
		// Same behavior as the original bot: the room starts itself the
		// moment the whole lobby is ready.
		if err := r.Game.StartGame(); err != nil {
			logger.Log.Errorf("Room %s failed to start: %v", r.ID, err)
		}
	})
	r.Game.On(game.EventGameStarted, func(game.Payload) {
		r.broadcastState(network.MsgTypeGameStarted)
		r.sendHands(false)
	})
	r.Game.On(game.EventTurnChanged, func(game.Payload) {
		r.broadcastState(network.MsgTypeGameSync)
		r.sendHands(false)
	})
	r.Game.On(game.EventGrabbedCard, func(p game.Payload) {
		// Only the grabbing player gets an update; they may now skip.
		r.touch()
		r.sendHandTo(p.PlayerID, true)
	})
	r.Game.On(game.EventPlayerToFine, func(p game.Payload) {
		r.touch()
		r.sendFineRequest(p.Player, p.Card)
	})
	r.Game.On(game.EventGameFinished, func(game.Payload) {
		r.broadcastState(network.MsgTypeGameEnd)
		if r.onFinished != nil {
			r.onFinished(r, r.Results())
		}
	})

	return r
}

// State builds the shared room snapshot.
func (r *Room) State() *models.RoomState {
	g := r.Game
	players := g.Players()
	turn := g.CurrentTurn()
	started := g.Started()

	state := &models.RoomState{
		RoomID:  r.ID,
		Name:    r.Name,
		Started: started,
		Turn:    turn,
		Flow:    g.Flow(),
		Penalty: g.Penalty(),
		Players: make([]models.PlayerStatus, 0, len(players)),
	}
	if started {
		state.TopCard = g.TopCard().Display()
	}
	for i, p := range players {
		state.Players = append(state.Players, models.PlayerStatus{
			ID:        p.ID,
			Name:      p.Name,
			Ready:     p.Ready(),
			Rank:      p.Rank(),
			CardCount: p.HandSize(),
			Turn:      started && i == turn,
		})
	}
	return state
}

// Results returns the final ranking, best rank first.
func (r *Room) Results() []models.PlayerResult {
	players := r.Game.Players()
	results := make([]models.PlayerResult, 0, len(players))
	for _, p := range players {
		results = append(results, models.PlayerResult{
			PlayerID: p.ID,
			Name:     p.Name,
			Rank:     p.Rank(),
		})
	}
	sort.Slice(results, func(i, j int) bool {
		return results[i].Rank < results[j].Rank
	})
	return results
}

// IdleFor reports how long ago the room last saw activity.
func (r *Room) IdleFor() time.Duration {
	r.activeMutex.RLock()
	defer r.activeMutex.RUnlock()
	return time.Since(r.lastActive)
}

func (r *Room) touch() {
	r.activeMutex.Lock()
	r.lastActive = time.Now()
	r.activeMutex.Unlock()
}

func (r *Room) broadcastState(msgID uint16) {
	r.touch()
	data, err := json.Marshal(r.State())
	if err != nil {
		logger.Log.Errorf("Room %s failed to marshal state: %v", r.ID, err)
		return
	}
	if err := r.broadcaster.BroadcastToRoom(r.ID, msgID, data); err != nil {
		logger.Log.Warnf("Room %s broadcast failed: %v", r.ID, err)
	}
}

func (r *Room) sendHands(canSkip bool) {
	for _, p := range r.Game.Players() {
		r.sendHandTo(p.ID, canSkip)
	}
}

func (r *Room) sendHandTo(playerID string, canSkip bool) {
	player, err := r.Game.GetPlayerByID(playerID)
	if err != nil {
		return
	}
	hand := models.HandState{CanSkip: canSkip}
	for _, c := range player.Cards() {
		hand.Cards = append(hand.Cards, models.CardInfo{
			Token:   string(c),
			Display: c.Display(),
		})
	}
	data, err := json.Marshal(hand)
	if err != nil {
		return
	}
	r.broadcaster.SendToPlayer(playerID, network.MsgTypeHandState, data)
}

// sendFineRequest asks the acting player to pick an opponent; every other
// unfinished roster member is a valid target.
func (r *Room) sendFineRequest(actor *game.Player, card game.Card) {
	req := models.FineRequest{Card: string(card)}
	for _, p := range r.Game.Players() {
		if p == actor || p.Rank() != game.UnrankedPlayer {
			continue
		}
		req.Targets = append(req.Targets, models.PlayerStatus{
			ID:        p.ID,
			Name:      p.Name,
			Rank:      p.Rank(),
			CardCount: p.HandSize(),
		})
	}
	data, err := json.Marshal(req)
	if err != nil {
		return
	}
	r.broadcaster.SendToPlayer(actor.ID, network.MsgTypeFineRequest, data)
}
