package game

import "testing"

func TestIsValidCard(t *testing.T) {
	invalid := []Card{"", "js", "card", "22", "♥", "♥77", "x7", "♥Z"}
	for _, c := range invalid {
		if IsValidCard(c) {
			t.Errorf("Expected %q to be invalid", c)
		}
	}

	valid := []Card{"♦1", "♥2", "♠0", "♣Q", "♦J", "♥K"}
	for _, c := range valid {
		if !IsValidCard(c) {
			t.Errorf("Expected %q to be valid", c)
		}
	}
}

func TestCard_SuitAndRank(t *testing.T) {
	c := Card("♥7")
	if c.Suit() != '♥' {
		t.Errorf("Expected suit ♥, got %c", c.Suit())
	}
	if c.Rank() != '7' {
		t.Errorf("Expected rank 7, got %c", c.Rank())
	}
}

func TestCard_Display(t *testing.T) {
	cases := map[Card]string{
		"♦0": "♦10",
		"♦1": "♦A",
		"♥7": "♥7",
		"♣Q": "♣Q",
	}
	for card, want := range cases {
		if got := card.Display(); got != want {
			t.Errorf("Display(%q): expected %q, got %q", card, want, got)
		}
	}
}

func TestRand_Deterministic(t *testing.T) {
	a := NewRand(DefaultSeed)
	b := NewRand(DefaultSeed)

	for i := 0; i < 100; i++ {
		va, vb := a.Float(), b.Float()
		if va != vb {
			t.Fatalf("Sequence diverged at step %d: %v != %v", i, va, vb)
		}
		if va < 0 || va >= 1 {
			t.Fatalf("Value out of [0,1) at step %d: %v", i, va)
		}
	}
}

func TestRand_AdvancesPerCall(t *testing.T) {
	r := NewRand(DefaultSeed)
	if r.Float() == r.Float() {
		t.Error("Consecutive values should differ")
	}
}
