package stream

// Raw provider payload types. These mirror the StockTwits stream wire format
// and are the only place provider-shaped data is allowed to exist; the
// normalizer coerces them into the strict Message type and nothing partial
// ever crosses that boundary.

type RawMessage struct {
	ID        int64       `json:"id"`
	Body      string      `json:"body"`
	CreatedAt string      `json:"created_at"`
	User      RawUser     `json:"user"`
	Entities  RawEntities `json:"entities"`
	Likes     RawTotal    `json:"likes"`
	Convo     RawReplies  `json:"conversation"`
	Symbols   []RawSymbol `json:"symbols"`
	Links     []RawLink   `json:"links"`
}

type RawUser struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Followers int    `json:"followers"`
	JoinDate  string `json:"join_date"`
	Official  bool   `json:"official"`
}

type RawEntities struct {
	Media     []RawMedia    `json:"media"`
	Sentiment *RawSentiment `json:"sentiment"`
}

type RawMedia struct {
	URL string `json:"url"`
}

type RawSentiment struct {
	Basic string `json:"basic"` // "Bullish" | "Bearish"
}

type RawTotal struct {
	Total int `json:"total"`
}

type RawReplies struct {
	Replies int `json:"replies"`
}

type RawSymbol struct {
	Symbol string `json:"symbol"`
}

type RawLink struct {
	URL          string `json:"url"`
	ShortenedURL string `json:"shortened_url"`
	Title        string `json:"title"`
	Source       *struct {
		Name string `json:"name"`
	} `json:"source"`
}

// Page is one provider page of raw messages, newest first
type Page struct {
	Messages []RawMessage
	HasMore  bool
}
