package deck

import "fmt"

// Card is one entry in the static deck table. The Tr fields carry the
// Turkish rendering used when the session locale is "tr".
type Card struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	NameTr      string   `json:"name_tr"`
	Suit        string   `json:"suit"`
	Arcana      string   `json:"arcana"`
	Keywords    []string `json:"keywords"`
	KeywordsTr  []string `json:"keywords_tr"`
	Upright     string   `json:"upright"`
	UprightTr   string   `json:"upright_tr"`
	Reversed    string   `json:"reversed"`
	ReversedTr  string   `json:"reversed_tr"`
	Symbolism   string   `json:"symbolism"`
	SymbolismTr string   `json:"symbolism_tr"`
	ImageURL    string   `json:"image_url"`
}

// DeckSize is the full Rider-Waite deck.
const DeckSize = 78

var authoredCards = []Card{
	{
		ID:          "rw_00",
		Name:        "The Fool",
		NameTr:      "Deli",
		Suit:        "Major Arcana",
		Arcana:      "major",
		Keywords:    []string{"beginnings", "innocence", "spontaneity"},
		KeywordsTr:  []string{"başlangıçlar", "masumiyet", "spontanlık"},
		Upright:     "New beginnings, optimism, trust in life",
		UprightTr:   "Yeni başlangıçlar, iyimserlik, hayata güven",
		Reversed:    "Recklessness, naivety, taken advantage of",
		ReversedTr:  "Pervasızlık, saflık, kullanılmak",
		Symbolism:   "A young person stands at the edge of a cliff",
		SymbolismTr: "Genç bir kişi uçurumun kenarında duruyor",
		ImageURL:    "https://images.pexels.com/photos/6896372/pexels-photo-6896372.jpeg?auto=compress&cs=tinysrgb&w=400",
	},
	{
		ID:          "rw_01",
		Name:        "The Magician",
		NameTr:      "Büyücü",
		Suit:        "Major Arcana",
		Arcana:      "major",
		Keywords:    []string{"manifestation", "power", "resourcefulness"},
		KeywordsTr:  []string{"tezahür", "güç", "beceriklilik"},
		Upright:     "Manifestation, resourcefulness, inspired action",
		UprightTr:   "Tezahür, beceriklilik, ilham verici eylem",
		Reversed:    "Manipulation, poor planning, untapped talents",
		ReversedTr:  "Manipülasyon, zayıf planlama, kullanılmayan yetenekler",
		Symbolism:   "The Magician channels divine energy",
		SymbolismTr: "Büyücü ilahi enerjiyi kanalize eder",
		ImageURL:    "https://images.pexels.com/photos/8066665/pexels-photo-8066665.jpeg?auto=compress&cs=tinysrgb&w=400",
	},
	{
		ID:          "rw_02",
		Name:        "The High Priestess",
		NameTr:      "Rahibe",
		Suit:        "Major Arcana",
		Arcana:      "major",
		Keywords:    []string{"intuition", "sacred knowledge", "subconscious"},
		KeywordsTr:  []string{"sezgi", "kutsal bilgi", "bilinçaltı"},
		Upright:     "Intuition, sacred knowledge, divine feminine",
		UprightTr:   "Sezgi, kutsal bilgi, ilahi dişilik",
		Reversed:    "Secrets, disconnected from intuition",
		ReversedTr:  "Sırlar, sezgiden kopukluk",
		Symbolism:   "She guards the threshold between realms",
		SymbolismTr: "Alemler arasındaki eşiği korur",
		ImageURL:    "https://images.pexels.com/photos/8066820/pexels-photo-8066820.jpeg?auto=compress&cs=tinysrgb&w=400",
	},
}

// Deck is the full 78-card table: the authored cards above, then generic
// fill for the remaining slots until their texts are authored too.
var Deck = buildDeck()

var cardByID = func() map[string]Card {
	m := make(map[string]Card, len(Deck))
	for _, c := range Deck {
		m[c.ID] = c
	}
	return m
}()

func buildDeck() []Card {
	cards := make([]Card, 0, DeckSize)
	cards = append(cards, authoredCards...)
	for i := len(authoredCards); i < DeckSize; i++ {
		suit, arcana := "Minor Arcana", "minor"
		if i < 22 {
			suit, arcana = "Major Arcana", "major"
		}
		cards = append(cards, Card{
			ID:          fmt.Sprintf("rw_%02d", i),
			Name:        fmt.Sprintf("Card %d", i),
			NameTr:      fmt.Sprintf("Kart %d", i),
			Suit:        suit,
			Arcana:      arcana,
			Keywords:    []string{"mystery", "journey", "wisdom"},
			KeywordsTr:  []string{"gizem", "yolculuk", "bilgelik"},
			Upright:     "Positive change and growth",
			UprightTr:   "Pozitif değişim ve büyüme",
			Reversed:    "Challenges and lessons",
			ReversedTr:  "Zorluklar ve dersler",
			Symbolism:   "Ancient wisdom and guidance",
			SymbolismTr: "Kadim bilgelik ve rehberlik",
			ImageURL:    fmt.Sprintf("https://images.pexels.com/photos/%d/pexels-photo-%d.jpeg?auto=compress&cs=tinysrgb&w=400", 6896372+i, 6896372+i),
		})
	}
	return cards
}

// CardByID looks up a card in the deck table.
func CardByID(id string) (Card, bool) {
	c, ok := cardByID[id]
	return c, ok
}
