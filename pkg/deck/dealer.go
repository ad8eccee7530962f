package deck

import (
	"math/rand"
	"time"
)

// ReversedProbability is the chance a drawn card lands reversed.
const ReversedProbability = 0.30

// Dealer wraps a seedable random source so shuffles and orientation draws
// are deterministic in tests.
type Dealer struct {
	rng *rand.Rand
}

func NewDealer(rng *rand.Rand) *Dealer {
	return &Dealer{rng: rng}
}

// NewTimeSeededDealer is the production constructor.
func NewTimeSeededDealer() *Dealer {
	return NewDealer(rand.New(rand.NewSource(time.Now().UnixNano())))
}

// Shuffle returns a Fisher-Yates shuffled copy of the deck. The input
// slice is not modified.
func (d *Dealer) Shuffle(cards []Card) []Card {
	shuffled := make([]Card, len(cards))
	copy(shuffled, cards)
	for i := len(shuffled) - 1; i > 0; i-- {
		j := d.rng.Intn(i + 1)
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}
	return shuffled
}

// DrawOrientation assigns an orientation for a freshly selected card.
// Once assigned the orientation is immutable for the session.
func (d *Dealer) DrawOrientation() string {
	if d.rng.Float64() < ReversedProbability {
		return "reversed"
	}
	return "upright"
}
