package relay

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
)

// Asker sends a user message to the AI service. It always returns text to reply with,
// substituting a fallback message when the AI service fails.
type Asker interface {
	Ask(ctx context.Context, query, user string) string
}

// Replier sends a text reply through the messaging provider.
type Replier interface {
	Reply(ctx context.Context, replyToken, text string) error
}

// Filter decides whether a text event should be relayed at all.
type Filter interface {
	Match(event TextMessageEvent) (bool, error)
}

// DeliveryCache remembers event ids. MarkSeen returns false if the id was already seen.
// Forget drops an id so a redelivery of that event is handled again.
type DeliveryCache interface {
	MarkSeen(eventID string) bool
	Forget(eventID string)
}

// Relay answers text message events with the AI service.
type Relay struct {
	asker   Asker
	replier Replier
	filter  Filter
	seen    DeliveryCache
	logger  zerolog.Logger
}

// NewRelay creates a new Relay. filter and seen are optional and may be nil.
func NewRelay(asker Asker, replier Replier, filter Filter, seen DeliveryCache, logger zerolog.Logger) *Relay {
	return &Relay{
		asker:   asker,
		replier: replier,
		filter:  filter,
		seen:    seen,
		logger:  logger,
	}
}

// Process handles a single inbound event. Only reply failures are returned as errors.
func (r *Relay) Process(ctx context.Context, event Event) error {
	switch e := event.(type) {
	case TextMessageEvent:
		return r.processText(ctx, e)
	case IgnoredEvent:
		r.logger.Debug().
			Str("event_id", e.EventID).
			Str("event_type", e.Type).
			Msg("Ignoring event.")
		return nil
	default:
		return fmt.Errorf("unsupported event %T", event)
	}
}

func (r *Relay) processText(ctx context.Context, event TextMessageEvent) error {
	logger := r.logger.With().
		Str("event_id", event.EventID).
		Str("source_type", event.Source.Type).
		Logger()

	if event.ReplyToken == "" {
		logger.Warn().Msg("Text event has no reply token; skipping.")
		return nil
	}

	if r.seen != nil && event.EventID != "" && !r.seen.MarkSeen(event.EventID) {
		logger.Info().Msg("Event already handled; skipping redelivery.")
		return nil
	}

	if r.filter != nil {
		ok, err := r.filter.Match(event)
		if err != nil {
			logger.Error().Err(err).Msg("failed to evaluate relay condition")
			return nil
		}
		if !ok {
			logger.Debug().Msg("Relay condition not met; skipping event.")
			return nil
		}
	}

	answer := r.asker.Ask(ctx, event.Text, event.Source.UserID)

	if err := r.replier.Reply(ctx, event.ReplyToken, answer); err != nil {
		// LINE redelivers on a non-2xx response; let that attempt through.
		if r.seen != nil && event.EventID != "" {
			r.seen.Forget(event.EventID)
		}
		return fmt.Errorf("failed to send reply: %w", err)
	}
	logger.Debug().Msg("Reply sent.")
	return nil
}
