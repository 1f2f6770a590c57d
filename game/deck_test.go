package game

import "testing"

// fullSet returns the 52 suit×rank combinations as a set.
func fullSet() map[Card]bool {
	set := make(map[Card]bool)
	for _, s := range cardSuits {
		for _, r := range cardRanks {
			set[Card(string(s)+string(r))] = true
		}
	}
	return set
}

func TestNewDeck_Seed82(t *testing.T) {
	deck := NewDeck(NewRand(82))

	if got := len(deck.cards); got != 52 {
		t.Fatalf("Expected 52 cards, got %d", got)
	}
	if deck.Remaining() != 51 {
		t.Errorf("Expected 51 undrawn cards, got %d", deck.Remaining())
	}

	// Seed 82 always lands on the same top card given the suit-major build order.
	if deck.Top() != "♥2" {
		t.Errorf("Expected top card ♥2, got %s", deck.Top())
	}

	seen := make(map[Card]bool)
	for _, c := range deck.cards {
		if seen[c] {
			t.Errorf("Duplicate card in deck: %s", c)
		}
		seen[c] = true
	}
	for c := range fullSet() {
		if !seen[c] {
			t.Errorf("Missing card in deck: %s", c)
		}
	}
}

func TestDeck_Draw(t *testing.T) {
	deck := NewDeck(NewRand(82))

	card, err := deck.Draw()
	if err != nil {
		t.Fatalf("Draw failed: %v", err)
	}
	if !IsValidCard(card) {
		t.Errorf("Drew an invalid card: %s", card)
	}
	if card == deck.Top() {
		t.Error("Draw must never return the top card")
	}
	if deck.Top() != "♥2" {
		t.Errorf("Top card should be untouched by a draw, got %s", deck.Top())
	}
	if deck.Remaining() != 50 {
		t.Errorf("Expected 50 undrawn cards after a draw, got %d", deck.Remaining())
	}
}

func TestDeck_DrawDeterministic(t *testing.T) {
	a := NewDeck(NewRand(82))
	b := NewDeck(NewRand(82))

	for i := 0; i < 40; i++ {
		ca, errA := a.Draw()
		cb, errB := b.Draw()
		if errA != nil || errB != nil {
			t.Fatalf("Draw failed at step %d: %v %v", i, errA, errB)
		}
		if ca != cb {
			t.Fatalf("Draw sequence diverged at step %d: %s != %s", i, ca, cb)
		}
	}
}

func TestDeck_Discard(t *testing.T) {
	deck := NewDeck(NewRand(82))
	grabbed, err := deck.Draw()
	if err != nil {
		t.Fatalf("Draw failed: %v", err)
	}

	if err := deck.Discard("card"); err != ErrInvalidCard {
		t.Errorf("Expected ErrInvalidCard, got %v", err)
	}
	if err := deck.Discard("♥1"); err != ErrDuplicateCard {
		t.Errorf("Expected ErrDuplicateCard for a pool card, got %v", err)
	}
	if err := deck.Discard(deck.Top()); err != ErrDuplicateCard {
		t.Errorf("Expected ErrDuplicateCard for the top card, got %v", err)
	}

	if err := deck.Discard(grabbed); err != nil {
		t.Fatalf("Discard failed: %v", err)
	}
	if deck.Top() != grabbed {
		t.Errorf("Expected top card %s, got %s", grabbed, deck.Top())
	}
	if deck.Remaining() != 51 {
		t.Errorf("Expected 51 undrawn cards after the discard, got %d", deck.Remaining())
	}
}

func TestDeck_UndiscardRollsBack(t *testing.T) {
	deck := NewDeck(NewRand(82))
	prev := deck.Top()
	grabbed, err := deck.Draw()
	if err != nil {
		t.Fatalf("Draw failed: %v", err)
	}
	remaining := deck.Remaining()

	if err := deck.Discard(grabbed); err != nil {
		t.Fatalf("Discard failed: %v", err)
	}
	unplayed, err := deck.Undiscard(prev)
	if err != nil {
		t.Fatalf("Undiscard failed: %v", err)
	}

	if unplayed != grabbed {
		t.Errorf("Expected the discarded card %s back, got %s", grabbed, unplayed)
	}
	if deck.Top() != prev {
		t.Errorf("Expected top card restored to %s, got %s", prev, deck.Top())
	}
	if deck.Remaining() != remaining {
		t.Errorf("Expected %d undrawn cards after rollback, got %d", remaining, deck.Remaining())
	}
}
