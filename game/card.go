package game

import "strings"

// Card is a two-rune token: a suit rune followed by a rank rune, e.g. "♥7".
// Rank '1' is the ace, '0' is the ten, and 'J', 'K', 'Q' are the face cards.
type Card string

const (
	cardSuits = "♦♥♠♣"
	cardRanks = "1234567890JKQ"
)

const (
	// RankAce hops the turn over the next seat.
	RankAce = '1'
	// RankFine moves a random card from the actor to a chosen opponent.
	RankFine = '2'
	// RankPenalty stacks a forced draw onto the next player.
	RankPenalty = '7'
	// RankSkip gives the actor another turn.
	RankSkip = '8'
	// RankReverse flips the turn direction.
	RankReverse = '0'
)

// IsValidCard reports whether the token is a known suit followed by a known rank.
func IsValidCard(c Card) bool {
	runes := []rune(string(c))
	if len(runes) != 2 {
		return false
	}
	return strings.ContainsRune(cardSuits, runes[0]) && strings.ContainsRune(cardRanks, runes[1])
}

// Suit returns the suit rune of the card. Only meaningful for valid cards.
func (c Card) Suit() rune {
	return []rune(string(c))[0]
}

// Rank returns the rank rune of the card. Only meaningful for valid cards.
func (c Card) Rank() rune {
	runes := []rune(string(c))
	return runes[len(runes)-1]
}

// Display returns the human-facing name of the card: the ten renders as
// "♦10" and the ace as "♦A"; everything else is the token itself.
func (c Card) Display() string {
	switch c.Rank() {
	case '0':
		return string(c.Suit()) + "10"
	case '1':
		return string(c.Suit()) + "A"
	default:
		return string(c)
	}
}
