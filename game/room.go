package game

import (
	"sync"
)

// Phase 表示房间的业务状态
type Phase int

const (
	PhaseLobby Phase = iota
	PhasePlaying
	PhaseFinished
)

// phaseTransitions is the forward-only lifecycle: Lobby → Playing → Finished.
var phaseTransitions = map[Phase]Phase{
	PhaseLobby:   PhasePlaying,
	PhasePlaying: PhaseFinished,
}

// Game rule constants.
const (
	MinPlayers       = 2
	MaxPlayers       = 5
	InitialCards     = 7
	SevenCardPenalty = 2
)

// Room is the game state machine. It owns the roster (join order is turn
// order), the deck, the turn pointer, the flow direction and the pending
// penalty. All operations are synchronous: state is mutated under the room
// lock and events are delivered right after the lock is released, so a
// handler may call back into the room without deadlocking.
type Room struct {
	mu       sync.RWMutex
	players  []*Player
	deck     *Deck
	turn     int
	flow     int
	penalty  int
	phase    Phase
	lastRank int
	events   emitter
}

// NewRoom creates an empty lobby room with a deck seeded from DefaultSeed.
func NewRoom() *Room {
	return NewRoomWithRand(NewRand(DefaultSeed))
}

// NewRoomWithRand creates an empty lobby room whose deck draws from the
// given random source. Tests inject a known seed here.
func NewRoomWithRand(rng *Rand) *Room {
	return &Room{
		deck: NewDeck(rng),
		flow: 1,
	}
}

// On subscribes a handler to a room event kind.
func (r *Room) On(event Event, fn Handler) {
	r.events.on(event, fn)
}

// changePhase moves the lifecycle forward. Going backwards is never allowed.
func (r *Room) changePhase(next Phase) error {
	if phaseTransitions[r.phase] != next {
		return ErrTransitionNotAllowed
	}
	r.phase = next
	return nil
}

// AddPlayer appends a player to the roster. Only valid in the lobby.
func (r *Room) AddPlayer(p *Player) error {
	r.mu.Lock()
	if p == nil {
		r.mu.Unlock()
		return ErrNotAPlayer
	}
	if r.phase != PhaseLobby {
		r.mu.Unlock()
		return ErrGameStarted
	}
	r.players = append(r.players, p)
	p.OnReadyChanged(func(bool) {
		r.checkEveryoneReady(p)
	})
	payload := Payload{Player: p, Players: r.snapshot()}
	r.mu.Unlock()

	r.events.emit(EventNewPlayerAdded, payload)
	return nil
}

// RemovePlayer removes the player with the given id from the roster. Only
// valid in the lobby; mid-game removal would corrupt the turn pointer.
func (r *Room) RemovePlayer(id string) error {
	r.mu.Lock()
	if r.phase != PhaseLobby {
		r.mu.Unlock()
		return ErrGameStarted
	}
	found := false
	for i, p := range r.players {
		if p.ID == id {
			r.players = append(r.players[:i], r.players[i+1:]...)
			found = true
			break
		}
	}
	if !found {
		r.mu.Unlock()
		return ErrPlayerNotFound
	}
	payload := Payload{Players: r.snapshot()}
	r.mu.Unlock()

	r.events.emit(EventPlayerRemoved, payload)
	return nil
}

// checkEveryoneReady fires everyone-ready once every roster member is ready
// and enough players have joined.
func (r *Room) checkEveryoneReady(p *Player) {
	r.mu.Lock()
	if r.phase != PhaseLobby || !r.isMember(p) || len(r.players) < MinPlayers {
		r.mu.Unlock()
		return
	}
	for _, member := range r.players {
		if !member.Ready() {
			r.mu.Unlock()
			return
		}
	}
	payload := Payload{Players: r.snapshot()}
	r.mu.Unlock()

	r.events.emit(EventEveryoneReady, payload)
}

// StartGame deals the initial hands and moves the room into play.
func (r *Room) StartGame() error {
	r.mu.Lock()
	if len(r.players) < MinPlayers {
		r.mu.Unlock()
		return ErrTooFewPlayers
	}
	if len(r.players) > MaxPlayers {
		r.mu.Unlock()
		return ErrTooManyPlayers
	}
	if err := r.changePhase(PhasePlaying); err != nil {
		r.mu.Unlock()
		return err
	}
	for _, p := range r.players {
		for i := 0; i < InitialCards; i++ {
			card, err := r.deck.Draw()
			if err != nil {
				r.mu.Unlock()
				return err
			}
			if err := p.GiveCard(card); err != nil {
				r.mu.Unlock()
				return err
			}
		}
	}
	payload := Payload{Players: r.snapshot(), Turn: r.turn}
	r.mu.Unlock()

	r.events.emit(EventGameStarted, payload)
	return nil
}

// IsCompatible reports whether the card may be played on the current top
// card: exactly one of same-suit, same-rank must hold. The identical card
// is not playable, it is already in play.
func (r *Room) IsCompatible(card Card) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.isCompatible(card)
}

func (r *Room) isCompatible(card Card) bool {
	if !IsValidCard(card) {
		return false
	}
	top := r.deck.Top()
	return (card.Suit() == top.Suit()) != (card.Rank() == top.Rank())
}

// Play is the central transition: the current-turn player plays the given
// card. For a fine card ('2') the fined player receives one random card
// from the actor; when fined is nil and the actor still holds other cards,
// the play is rolled back and player-to-fine fires so a target can be
// chosen first.
func (r *Room) Play(card Card, fined *Player) error {
	r.mu.Lock()
	events, err := r.play(card, fined)
	r.mu.Unlock()

	for _, e := range events {
		r.events.emit(e.event, e.payload)
	}
	return err
}

func (r *Room) play(card Card, fined *Player) ([]firedEvent, error) {
	switch r.phase {
	case PhaseLobby:
		return nil, ErrGameNotStarted
	case PhaseFinished:
		return nil, ErrGameFinished
	}
	if !IsValidCard(card) {
		return nil, ErrInvalidCard
	}
	if !r.isCompatible(card) {
		return nil, ErrNotCompatible
	}

	current := r.players[r.turn]
	if !current.holds(card) {
		return nil, ErrCardNotHeld
	}

	// Penalty resolution: without another penalty card the player absorbs
	// the whole stack and forfeits the play. The attempted card stays in
	// hand.
	if r.penalty > 0 && card.Rank() != RankPenalty {
		if r.deck.Remaining() < r.penalty {
			return nil, ErrNoCards
		}
		for i := 0; i < r.penalty; i++ {
			drawn, err := r.deck.Draw()
			if err != nil {
				return nil, err
			}
			if err := current.GiveCard(drawn); err != nil {
				return nil, err
			}
		}
		r.penalty = 0
		return []firedEvent{r.advanceTurn(false)}, nil
	}

	initialTop := r.deck.Top()
	if err := current.TakeCard(card); err != nil {
		return nil, err
	}
	if err := r.deck.Discard(card); err != nil {
		return nil, err
	}

	hop := false
	switch card.Rank() {
	case RankReverse:
		r.flow = -r.flow
	case RankSkip:
		// Step the pointer back one seat so the upcoming advance lands on
		// this player again.
		r.turn -= r.flow
	case RankPenalty:
		r.penalty += SevenCardPenalty
	case RankFine:
		if fined != nil {
			if !current.HasNoCards() {
				fineCard, err := current.TakeCardRandom()
				if err != nil {
					return nil, err
				}
				if err := fined.GiveCard(fineCard); err != nil {
					return nil, err
				}
			}
		} else if !current.HasNoCards() {
			// No target chosen yet: roll the play back and ask the caller
			// to pick one. The turn does not advance.
			unplayed, err := r.deck.Undiscard(initialTop)
			if err != nil {
				return nil, err
			}
			if err := current.GiveCard(unplayed); err != nil {
				return nil, err
			}
			return []firedEvent{{EventPlayerToFine, Payload{Player: current, Players: r.snapshot(), Turn: r.turn, Card: card}}}, nil
		}
	case RankAce:
		hop = true
	}

	if current.HasNoCards() {
		r.lastRank++
		current.rank = r.lastRank
		if r.shouldFinish() {
			// The skip rank steps the pointer out of range until the next
			// advance; there is no next advance once the game is over.
			n := len(r.players)
			r.turn = ((r.turn % n) + n) % n
			r.changePhase(PhaseFinished)
			return []firedEvent{{EventGameFinished, Payload{Players: r.snapshot(), Turn: r.turn}}}, nil
		}
	}

	return []firedEvent{r.advanceTurn(hop)}, nil
}

// advanceTurn moves the turn pointer by flow (two seats on a hop) and skips
// over finished seats until it lands on an unfinished player.
func (r *Room) advanceTurn(hop bool) firedEvent {
	delta := r.flow
	if hop {
		delta = 2 * r.flow
	}
	turn := r.turn + delta
	for turn < 0 {
		turn += len(r.players)
	}
	r.turn = turn % len(r.players)

	if r.players[r.turn].rank > 0 {
		// Finished seat, go for the next one.
		return r.advanceTurn(false)
	}
	return firedEvent{EventTurnChanged, Payload{Players: r.snapshot(), Turn: r.turn}}
}

// shouldFinish checks the finish condition: with exactly one unranked
// player left, that player receives the final rank and the game ends.
func (r *Room) shouldFinish() bool {
	var last *Player
	unfinished := 0
	for _, p := range r.players {
		if p.rank == UnrankedPlayer {
			last = p
			if unfinished++; unfinished > 1 {
				return false
			}
		}
	}
	if unfinished == 1 {
		r.lastRank++
		last.rank = r.lastRank
	}
	return true
}

// GiveRandomCardToPlayer draws one random card from the deck into the given
// player's hand (the "can't play, draw instead" flow).
func (r *Room) GiveRandomCardToPlayer(id string) error {
	r.mu.Lock()
	if r.phase != PhasePlaying {
		r.mu.Unlock()
		if r.phase == PhaseFinished {
			return ErrGameFinished
		}
		return ErrGameNotStarted
	}
	player, err := r.findPlayer(id)
	if err != nil {
		r.mu.Unlock()
		return err
	}
	card, err := r.deck.Draw()
	if err != nil {
		r.mu.Unlock()
		return err
	}
	if err := player.GiveCard(card); err != nil {
		r.mu.Unlock()
		return err
	}
	payload := Payload{PlayerID: id, Players: r.snapshot(), Turn: r.turn}
	r.mu.Unlock()

	r.events.emit(EventGrabbedCard, payload)
	return nil
}

// SkipRound advances the turn without a play, used after a voluntary draw
// that yielded nothing playable.
func (r *Room) SkipRound() error {
	r.mu.Lock()
	if r.phase != PhasePlaying {
		r.mu.Unlock()
		if r.phase == PhaseFinished {
			return ErrGameFinished
		}
		return ErrGameNotStarted
	}
	e := r.advanceTurn(false)
	r.mu.Unlock()

	r.events.emit(e.event, e.payload)
	return nil
}

// --- 读取访问器 ---

// Players returns a snapshot of the roster in join order.
func (r *Room) Players() []*Player {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snapshot()
}

// GetPlayerByID returns the roster member with the given id.
func (r *Room) GetPlayerByID(id string) (*Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.findPlayer(id)
}

// IsJoined reports whether a player with the given id is in the roster.
func (r *Room) IsJoined(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, err := r.findPlayer(id)
	return err == nil
}

// TopCard returns the deck's current top card.
func (r *Room) TopCard() Card {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.deck.Top()
}

// CurrentTurn returns the roster index whose turn it is.
func (r *Room) CurrentTurn() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.turn
}

// CurrentTurnPlayer returns the player whose turn it is.
func (r *Room) CurrentTurnPlayer() *Player {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.players[r.turn]
}

// Flow returns the turn direction, +1 or -1.
func (r *Room) Flow() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.flow
}

// Penalty returns the accumulated forced-draw count.
func (r *Room) Penalty() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.penalty
}

// Started reports whether the game has left the lobby.
func (r *Room) Started() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.phase != PhaseLobby
}

// Finished reports whether the game is over.
func (r *Room) Finished() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.phase == PhaseFinished
}

func (r *Room) snapshot() []*Player {
	players := make([]*Player, len(r.players))
	copy(players, r.players)
	return players
}

func (r *Room) findPlayer(id string) (*Player, error) {
	for _, p := range r.players {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, ErrPlayerNotFound
}

func (r *Room) isMember(p *Player) bool {
	for _, member := range r.players {
		if member == p {
			return true
		}
	}
	return false
}
