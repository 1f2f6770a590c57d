package game

import "testing"

func TestPlayer_GiveAndTakeCard(t *testing.T) {
	p := NewPlayer("1234", "Steve")

	if err := p.GiveCard("omlet"); err != ErrInvalidCard {
		t.Errorf("Expected ErrInvalidCard, got %v", err)
	}
	if err := p.GiveCard("♥2"); err != nil {
		t.Fatalf("GiveCard failed: %v", err)
	}
	if err := p.GiveCard("♥2"); err != ErrDuplicateCard {
		t.Errorf("Expected ErrDuplicateCard, got %v", err)
	}

	if err := p.TakeCard("♥4"); err != ErrCardNotHeld {
		t.Errorf("Expected ErrCardNotHeld, got %v", err)
	}
	if err := p.TakeCard("♥2"); err != nil {
		t.Fatalf("TakeCard failed: %v", err)
	}
	if !p.HasNoCards() {
		t.Error("Expected an empty hand")
	}
}

func TestPlayer_TakeCardRandom(t *testing.T) {
	p := NewPlayer("1234", "Steve")
	p.GiveCard("♥2")
	p.GiveCard("♥4")

	// The player's own seed-82 source picks the first of two cards.
	card, err := p.TakeCardRandom()
	if err != nil {
		t.Fatalf("TakeCardRandom failed: %v", err)
	}
	if card != "♥2" {
		t.Errorf("Expected ♥2, got %s", card)
	}
	if p.HandSize() != 1 {
		t.Errorf("Expected 1 card left, got %d", p.HandSize())
	}

	p.TakeCard("♥4")
	if _, err := p.TakeCardRandom(); err != ErrNoCards {
		t.Errorf("Expected ErrNoCards, got %v", err)
	}
}

func TestPlayer_FinishedPlayerRejectsMutation(t *testing.T) {
	p := NewPlayer("1234", "Steve")
	p.GiveCard("♥2")
	p.rank = 1

	if err := p.GiveCard("♥4"); err != ErrPlayerFinished {
		t.Errorf("Expected ErrPlayerFinished on GiveCard, got %v", err)
	}
	if err := p.TakeCard("♥2"); err != ErrPlayerFinished {
		t.Errorf("Expected ErrPlayerFinished on TakeCard, got %v", err)
	}
	if _, err := p.TakeCardRandom(); err != ErrPlayerFinished {
		t.Errorf("Expected ErrPlayerFinished on TakeCardRandom, got %v", err)
	}
}

func TestPlayer_ReadyChangedSubscribers(t *testing.T) {
	p := NewPlayer("1234", "Steve")

	var got []bool
	p.OnReadyChanged(func(state bool) {
		got = append(got, state)
	})

	p.SetReady(true)
	p.SetReady(false)

	if len(got) != 2 || got[0] != true || got[1] != false {
		t.Errorf("Expected [true false], got %v", got)
	}
}

func TestPlayer_CardsReturnsCopy(t *testing.T) {
	p := NewPlayer("1234", "Steve")
	p.GiveCard("♥2")

	cards := p.Cards()
	cards[0] = "♠9"

	if p.cards[0] != "♥2" {
		t.Error("Mutating the snapshot must not touch the hand")
	}
}
