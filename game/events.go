package game

// Event identifies a room lifecycle notification.
type Event string

const (
	EventNewPlayerAdded Event = "new-player-added"
	EventPlayerRemoved  Event = "player-removed"
	EventEveryoneReady  Event = "everyone-ready"
	EventGameStarted    Event = "game-started"
	EventTurnChanged    Event = "turn-changed"
	EventGrabbedCard    Event = "grabbed-card"
	EventPlayerToFine   Event = "player-to-fine"
	EventGameFinished   Event = "game-finished"
)

// Payload carries the data of a room event. Fields are filled depending on
// the event kind: Players and Turn for roster snapshots, Player for the
// subject of join/remove/fine events, PlayerID for grabbed-card.
type Payload struct {
	Players  []*Player
	Turn     int
	Player   *Player
	PlayerID string
	Card     Card
}

// Handler consumes a room event.
type Handler func(Payload)

// emitter is a per-room subscriber registry keyed by event kind. The room
// never knows who listens; the directory and transport layers subscribe
// through Room.On.
type emitter struct {
	handlers map[Event][]Handler
}

func (e *emitter) on(event Event, fn Handler) {
	if e.handlers == nil {
		e.handlers = make(map[Event][]Handler)
	}
	e.handlers[event] = append(e.handlers[event], fn)
}

func (e *emitter) emit(event Event, p Payload) {
	for _, fn := range e.handlers[event] {
		fn(p)
	}
}

// firedEvent is an event recorded during a mutation and delivered after the
// room lock is released, so handlers may safely call back into the room.
type firedEvent struct {
	event   Event
	payload Payload
}
