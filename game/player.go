package game

// UnrankedPlayer marks a player who has not finished playing yet.
const UnrankedPlayer = -1

// Player owns a hand of cards, a ready flag and a finish rank. Each player
// carries its own random source for random hand picks and its own
// ready-changed subscriber list; nothing is shared between instances.
type Player struct {
	ID   string
	Name string

	ready     bool
	rank      int
	cards     []Card
	rng       *Rand
	readySubs []func(bool)
}

// NewPlayer creates an unranked player with an empty hand.
func NewPlayer(id, name string) *Player {
	return &Player{
		ID:   id,
		Name: name,
		rank: UnrankedPlayer,
		rng:  NewRand(DefaultSeed),
	}
}

// OnReadyChanged registers a callback fired synchronously whenever
// SetReady is called. The room uses this to detect the everyone-ready
// condition.
func (p *Player) OnReadyChanged(fn func(ready bool)) {
	p.readySubs = append(p.readySubs, fn)
}

// Ready reports whether the player has flagged themselves ready.
func (p *Player) Ready() bool {
	return p.ready
}

// SetReady sets the ready flag and notifies subscribers.
func (p *Player) SetReady(ready bool) {
	p.ready = ready
	for _, fn := range p.readySubs {
		fn(ready)
	}
}

// Rank returns the finish rank, or UnrankedPlayer while still playing.
func (p *Player) Rank() int {
	return p.rank
}

// GiveCard adds a card to the hand.
func (p *Player) GiveCard(card Card) error {
	if !IsValidCard(card) {
		return ErrInvalidCard
	}
	if p.holds(card) {
		return ErrDuplicateCard
	}
	if p.rank != UnrankedPlayer {
		return ErrPlayerFinished
	}
	p.cards = append(p.cards, card)
	return nil
}

// TakeCard removes the given card from the hand.
func (p *Player) TakeCard(card Card) error {
	if !IsValidCard(card) {
		return ErrInvalidCard
	}
	if !p.holds(card) {
		return ErrCardNotHeld
	}
	if p.rank != UnrankedPlayer {
		return ErrPlayerFinished
	}
	for i, c := range p.cards {
		if c == card {
			p.cards = append(p.cards[:i], p.cards[i+1:]...)
			break
		}
	}
	return nil
}

// TakeCardRandom removes and returns a uniformly random card from the hand.
func (p *Player) TakeCardRandom() (Card, error) {
	if p.rank != UnrankedPlayer {
		return "", ErrPlayerFinished
	}
	if p.HasNoCards() {
		return "", ErrNoCards
	}
	i := p.rng.Intn(len(p.cards))
	card := p.cards[i]
	p.cards = append(p.cards[:i], p.cards[i+1:]...)
	return card, nil
}

// HasNoCards reports whether the hand is empty.
func (p *Player) HasNoCards() bool {
	return len(p.cards) == 0
}

// HandSize returns the number of cards in the hand.
func (p *Player) HandSize() int {
	return len(p.cards)
}

// Cards returns a defensive copy of the hand.
func (p *Player) Cards() []Card {
	cards := make([]Card, len(p.cards))
	copy(cards, p.cards)
	return cards
}

func (p *Player) holds(card Card) bool {
	for _, c := range p.cards {
		if c == card {
			return true
		}
	}
	return false
}
