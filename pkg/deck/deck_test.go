package deck

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeckSize(t *testing.T) {
	assert.Len(t, Deck, DeckSize)
}

func TestDeckIDsUnique(t *testing.T) {
	seen := make(map[string]bool)
	for _, c := range Deck {
		assert.False(t, seen[c.ID], "duplicate card id %s", c.ID)
		seen[c.ID] = true
	}
}

func TestCardByID(t *testing.T) {
	card, ok := CardByID("rw_00")
	assert.True(t, ok)
	assert.Equal(t, "The Fool", card.Name)

	_, ok = CardByID("rw_99")
	assert.False(t, ok)
}

func TestConfigFor(t *testing.T) {
	tests := []struct {
		id        ReadingType
		cardCount int
	}{
		{TypeDaily, 1},
		{TypeThreeCard, 3},
		{TypeCelticCross, 10},
		{TypeYear, 12},
		{TypeDecision, 5},
	}

	for _, tt := range tests {
		t.Run(string(tt.id), func(t *testing.T) {
			cfg, ok := ConfigFor(tt.id)
			assert.True(t, ok)
			assert.Equal(t, tt.cardCount, cfg.CardCount)
		})
	}

	_, ok := ConfigFor("palmistry")
	assert.False(t, ok)
}

func TestValidType(t *testing.T) {
	assert.True(t, ValidType("daily"))
	assert.True(t, ValidType("celtic-cross"))
	assert.False(t, ValidType(""))
	assert.False(t, ValidType("Daily"))
}

func TestShuffleDeterministic(t *testing.T) {
	a := NewDealer(rand.New(rand.NewSource(42))).Shuffle(Deck)
	b := NewDealer(rand.New(rand.NewSource(42))).Shuffle(Deck)
	assert.Equal(t, a, b)
}

func TestShufflePermutes(t *testing.T) {
	dealer := NewDealer(rand.New(rand.NewSource(1)))
	shuffled := dealer.Shuffle(Deck)

	assert.Len(t, shuffled, len(Deck))
	assert.NotEqual(t, Deck, shuffled)

	seen := make(map[string]bool)
	for _, c := range shuffled {
		seen[c.ID] = true
	}
	assert.Len(t, seen, len(Deck))

	// Input untouched.
	assert.Equal(t, "rw_00", Deck[0].ID)
}

func TestDrawOrientationDistribution(t *testing.T) {
	dealer := NewDealer(rand.New(rand.NewSource(7)))

	reversed := 0
	const n = 10000
	for i := 0; i < n; i++ {
		switch dealer.DrawOrientation() {
		case "reversed":
			reversed++
		case "upright":
		default:
			t.Fatal("unexpected orientation")
		}
	}

	ratio := float64(reversed) / float64(n)
	assert.InDelta(t, ReversedProbability, ratio, 0.02)
}
