package relay

// Source types of a LINE event.
const (
	SourceUser  = "user"
	SourceGroup = "group"
	SourceRoom  = "room"
)

// Event is an inbound webhook event. It is one of TextMessageEvent or IgnoredEvent.
type Event interface {
	eventID() string
}

// Source identifies the conversation an event came from.
type Source struct {
	Type    string
	UserID  string
	GroupID string
	RoomID  string
}

// TextMessageEvent is a text message sent by a user. It is the only event kind that gets answered.
type TextMessageEvent struct {
	// EventID is the webhookEventId assigned by LINE. Stable across redeliveries.
	EventID string
	// ReplyToken routes the reply back to the conversation. Single use.
	ReplyToken string
	Text       string
	Source     Source
}

func (e TextMessageEvent) eventID() string { return e.EventID }

// IgnoredEvent is any other event kind: follow, postback, non-text messages and unknown types.
type IgnoredEvent struct {
	EventID string
	// Type is the provider event type, with the message type appended for message events (e.g. "message/sticker").
	Type string
}

func (e IgnoredEvent) eventID() string { return e.EventID }
