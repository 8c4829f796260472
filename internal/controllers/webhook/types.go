package webhook

import (
	"github.com/hibiki-works/line-dify-relay/internal/services/relay"
	"github.com/line/line-bot-sdk-go/v8/linebot/webhook"
)

// CallbackRequest documents the webhook body accepted by the relay.
// Only the fields the relay reads are listed.
type CallbackRequest struct {
	// Destination is the user ID of the bot that should receive the events.
	Destination string `json:"destination"`
	// Events is the list of webhook events. Empty for the console verification request.
	Events []CallbackEvent `json:"events"`
}

// CallbackEvent is a single LINE webhook event.
type CallbackEvent struct {
	// Type is the event type, e.g. "message" or "follow".
	Type string `json:"type"`
	// WebhookEventID identifies the event across redeliveries.
	WebhookEventID string `json:"webhookEventId"`
	// ReplyToken is used to reply to the event.
	ReplyToken string `json:"replyToken"`
	// Source describes where the event came from.
	Source CallbackSource `json:"source"`
	// Message is set for message events.
	Message *CallbackMessage `json:"message,omitempty"`
}

// CallbackSource is the origin of an event.
type CallbackSource struct {
	// Type is one of "user", "group" or "room".
	Type    string `json:"type"`
	UserID  string `json:"userId"`
	GroupID string `json:"groupId,omitempty"`
	RoomID  string `json:"roomId,omitempty"`
}

// CallbackMessage is the message of a message event.
type CallbackMessage struct {
	ID string `json:"id"`
	// Type is the message type; only "text" is answered.
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

// ToRelayEvent maps a decoded LINE event onto the relay's event variant.
func ToRelayEvent(ev webhook.EventInterface) relay.Event {
	switch e := ev.(type) {
	case webhook.MessageEvent:
		text, ok := e.Message.(webhook.TextMessageContent)
		if !ok {
			return relay.IgnoredEvent{
				EventID: e.WebhookEventId,
				Type:    e.GetType() + "/" + messageType(e.Message),
			}
		}
		return relay.TextMessageEvent{
			EventID:    e.WebhookEventId,
			ReplyToken: e.ReplyToken,
			Text:       text.Text,
			Source:     toSource(e.Source),
		}
	default:
		return relay.IgnoredEvent{
			EventID: eventID(ev),
			Type:    ev.GetType(),
		}
	}
}

func messageType(message webhook.MessageContentInterface) string {
	if message == nil {
		return "unknown"
	}
	return message.GetType()
}

func toSource(source webhook.SourceInterface) relay.Source {
	switch s := source.(type) {
	case webhook.UserSource:
		return relay.Source{Type: relay.SourceUser, UserID: s.UserId}
	case webhook.GroupSource:
		return relay.Source{Type: relay.SourceGroup, UserID: s.UserId, GroupID: s.GroupId}
	case webhook.RoomSource:
		return relay.Source{Type: relay.SourceRoom, UserID: s.UserId, RoomID: s.RoomId}
	default:
		return relay.Source{}
	}
}

// eventID extracts the webhookEventId of event kinds the relay does not answer.
func eventID(ev webhook.EventInterface) string {
	switch e := ev.(type) {
	case webhook.FollowEvent:
		return e.WebhookEventId
	case webhook.UnfollowEvent:
		return e.WebhookEventId
	case webhook.PostbackEvent:
		return e.WebhookEventId
	case webhook.JoinEvent:
		return e.WebhookEventId
	case webhook.LeaveEvent:
		return e.WebhookEventId
	default:
		return ""
	}
}
