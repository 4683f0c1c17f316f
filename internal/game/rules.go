package game

import "strconv"

// CardValue returns the blackjack value of a single card. Aces count as 11
// here; Evaluate downgrades them to 1 as needed.
func CardValue(card Card) int {
	switch card.Rank {
	case Ace:
		return 11
	case Jack, Queen, King:
		return 10
	default:
		val, _ := strconv.Atoi(string(card.Rank))
		return val
	}
}

// IsAce reports whether the card is an ace
func IsAce(card Card) bool {
	return card.Rank == Ace
}

// Evaluate returns the best blackjack total for a hand. Every ace starts at
// 11 and is downgraded to 1, one at a time, while the total is over 21. The
// result may still exceed 21 (bust) once no soft aces remain. Only the
// multiset of ranks matters, never the order.
func Evaluate(hand Hand) int {
	score := 0
	aces := 0

	for _, card := range hand {
		if IsAce(card) {
			aces++
		}
		score += CardValue(card)
	}

	for score > 21 && aces > 0 {
		score -= 10
		aces--
	}

	return score
}

// IsBlackjack reports whether the hand is a natural: exactly two cards
// totalling 21.
func IsBlackjack(hand Hand) bool {
	return len(hand) == 2 && Evaluate(hand) == 21
}

// IsBust reports whether the hand's best total exceeds 21
func IsBust(hand Hand) bool {
	return Evaluate(hand) > 21
}
