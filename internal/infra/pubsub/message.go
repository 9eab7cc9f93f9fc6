package pubsub

import (
	"encoding/json"

	"passport/internal/domain/service"

	"github.com/pkg/errors"
)

// eventMessage is the transport-neutral form of a passport event.
type eventMessage struct {
	data        []byte
	attributes  map[string]string
	orderingKey string
}

// newEventMessage encodes event as JSON. Attributes are copied onto every
// message for subscription filtering. Events are ordered per user so that a
// consumer never sees an update before the create it refers to.
func newEventMessage(event *service.PassportEvent) (*eventMessage, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode passport event")
	}

	attributes := map[string]string{
		"type":     event.Type,
		"user_id":  event.UserID,
		"protocol": event.Protocol,
	}
	if event.Provider != "" {
		attributes["provider"] = event.Provider
	}
	if event.PassportID != "" {
		attributes["passport_id"] = event.PassportID
	}
	if event.RequestID != "" {
		attributes["request_id"] = event.RequestID
	}

	return &eventMessage{
		data:        data,
		attributes:  attributes,
		orderingKey: event.UserID,
	}, nil
}
