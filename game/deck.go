package game

// Deck owns the undealt card pool and the current top (discard) card. The
// top card keeps its slot inside the backing array; random draws skip that
// slot, so the known top card is never handed out. Every one of the 52
// suit×rank cards lives in exactly one of the pool, the top slot, or a
// player's hand.
type Deck struct {
	rng   *Rand
	cards []Card // backing array, contains the top card
	top   Card
}

// NewDeck builds the full 52-card set, suit-major, and picks the initial
// top card through the deck's random source.
func NewDeck(rng *Rand) *Deck {
	cards := make([]Card, 0, len([]rune(cardSuits))*len(cardRanks))
	for _, suit := range cardSuits {
		for _, rank := range cardRanks {
			cards = append(cards, Card(string(suit)+string(rank)))
		}
	}
	d := &Deck{rng: rng, cards: cards}
	d.top = d.cards[d.rng.Intn(len(d.cards))]
	return d
}

// Draw removes and returns a uniformly random card, excluding the top
// card's slot. The index arithmetic is deliberate: seed-determinism tests
// depend on this exact draw sequence.
func (d *Deck) Draw() (Card, error) {
	if len(d.cards) <= 1 {
		return "", ErrNoCards
	}
	randomIndex := d.rng.Intn(len(d.cards) - 1)
	if randomIndex >= d.topIndex() {
		randomIndex++
	}
	return d.removeAt(randomIndex), nil
}

// Take removes exactly the given card from the pool. It backs the fine
// deferral rollback, where a just-discarded card has to be pulled back.
func (d *Deck) Take(card Card) error {
	for i, c := range d.cards {
		if c == card {
			d.removeAt(i)
			return nil
		}
	}
	return ErrCardNotHeld
}

// Discard puts the card on top of the deck. The previous top card stays in
// the pool and becomes drawable again.
func (d *Deck) Discard(card Card) error {
	if !IsValidCard(card) {
		return ErrInvalidCard
	}
	for _, c := range d.cards {
		if c == card {
			return ErrDuplicateCard
		}
	}
	d.cards = append(d.cards, card)
	d.top = card
	return nil
}

// Undiscard reverses the most recent Discard: the current top card leaves
// the deck entirely and is returned to the caller, and prev becomes the top
// card again. Together with Discard this forms the two-phase apply/rollback
// used while a fine target still has to be chosen.
func (d *Deck) Undiscard(prev Card) (Card, error) {
	unplayed := d.top
	if err := d.Take(unplayed); err != nil {
		return "", err
	}
	d.top = prev
	return unplayed, nil
}

// Top returns the current top card.
func (d *Deck) Top() Card {
	return d.top
}

// Remaining returns the number of undrawn cards, the top card excluded.
func (d *Deck) Remaining() int {
	return len(d.cards) - 1
}

func (d *Deck) topIndex() int {
	for i, c := range d.cards {
		if c == d.top {
			return i
		}
	}
	return -1
}

func (d *Deck) removeAt(i int) Card {
	c := d.cards[i]
	d.cards = append(d.cards[:i], d.cards[i+1:]...)
	return c
}
