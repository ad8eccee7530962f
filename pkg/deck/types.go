package deck

// ReadingType identifies a spread configuration. The set is closed; a
// link's reading type is always one of these.
type ReadingType string

const (
	TypeDaily         ReadingType = "daily"
	TypeThreeCard     ReadingType = "3-card"
	TypeCelticCross   ReadingType = "celtic-cross"
	TypeRelationship  ReadingType = "relationship"
	TypeCareer        ReadingType = "career"
	TypeSoulmate      ReadingType = "soulmate"
	TypeYear          ReadingType = "year"
	TypeDivination    ReadingType = "divination"
	TypePsychological ReadingType = "psychological"
	TypeSpiritual     ReadingType = "spiritual"
	TypeMeditation    ReadingType = "meditation"
	TypeDecision      ReadingType = "decision"
)

type ReadingTypeConfig struct {
	ID          ReadingType `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	CardCount   int         `json:"card_count"`
	Icon        string      `json:"icon"`
	Category    string      `json:"category"`
}

var ReadingTypes = []ReadingTypeConfig{
	{ID: TypeDaily, Name: "Daily Tarot", Description: "A single card to guide your day", CardCount: 1, Icon: "sun", Category: "classic"},
	{ID: TypeThreeCard, Name: "3 Card Spread", Description: "Past, Present, Future spread", CardCount: 3, Icon: "crystal-ball", Category: "classic"},
	{ID: TypeCelticCross, Name: "Celtic Cross", Description: "The most comprehensive 10-card spread", CardCount: 10, Icon: "sparkles", Category: "classic"},
	{ID: TypeRelationship, Name: "Relationship & Love", Description: "Insights into your relationships and romantic life", CardCount: 7, Icon: "heart", Category: "classic"},
	{ID: TypeCareer, Name: "Career & Money", Description: "Guidance for your professional and financial life", CardCount: 6, Icon: "briefcase", Category: "classic"},
	{ID: TypeSoulmate, Name: "Soulmate Reading", Description: "Discover your soulmate connection and divine partnership", CardCount: 7, Icon: "stars", Category: "classic"},
	{ID: TypeYear, Name: "Year Ahead", Description: "12 cards revealing the months ahead", CardCount: 12, Icon: "calendar", Category: "classic"},
	{ID: TypeDivination, Name: "Divination Tarot", Description: "Focus on future predictions and possible outcomes", CardCount: 5, Icon: "telescope", Category: "thematic"},
	{ID: TypePsychological, Name: "Psychological Tarot", Description: "Understand your subconscious, emotional blocks, and inner world", CardCount: 6, Icon: "brain", Category: "thematic"},
	{ID: TypeSpiritual, Name: "Spiritual Guidance", Description: "Explore your spiritual journey and higher purpose", CardCount: 5, Icon: "dove", Category: "thematic"},
	{ID: TypeMeditation, Name: "Meditation Tarot", Description: "Inner awareness and energy balancing through cards", CardCount: 4, Icon: "lotus", Category: "thematic"},
	{ID: TypeDecision, Name: "Decision Making", Description: "Guidance between two specific choices (Option A vs Option B)", CardCount: 5, Icon: "scales", Category: "thematic"},
}

var configByID = func() map[ReadingType]ReadingTypeConfig {
	m := make(map[ReadingType]ReadingTypeConfig, len(ReadingTypes))
	for _, cfg := range ReadingTypes {
		m[cfg.ID] = cfg
	}
	return m
}()

// ConfigFor looks up a reading-type configuration by ID.
func ConfigFor(id ReadingType) (ReadingTypeConfig, bool) {
	cfg, ok := configByID[id]
	return cfg, ok
}

// ValidType reports whether id names a known reading type.
func ValidType(id string) bool {
	_, ok := configByID[ReadingType(id)]
	return ok
}
