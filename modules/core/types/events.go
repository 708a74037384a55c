package types

import "slices"

const (
	// EventTypeMessage is the generic event type emitted alongside every
	// handled message.
	EventTypeMessage = "message"

	// AttributeKeyModule is the key of the module attribute of a message event.
	AttributeKeyModule = "module"

	ErrorAttributeKeySuffix = "-error"
)

// EventAttribute is a single key/value pair of an Event.
type EventAttribute struct {
	Key   string `msgpack:"key"`
	Value string `msgpack:"value"`
}

// NewAttribute returns a new key/value attribute.
func NewAttribute(key, value string) EventAttribute {
	return EventAttribute{Key: key, Value: value}
}

// Event is an IBC event emitted through the ExecutionContext.
type Event struct {
	Type       string           `msgpack:"type"`
	Attributes []EventAttribute `msgpack:"attributes"`
}

// Events is a list of events.
type Events []Event

// NewEvent returns a new event of the given type with the provided attributes.
func NewEvent(eventType string, attrs ...EventAttribute) Event {
	return Event{
		Type:       eventType,
		Attributes: attrs,
	}
}

// NewMessageEvent returns the generic message event which brackets the events of a handler.
// The module is the attribute category of the emitting layer, e.g. ibc_channel.
func NewMessageEvent(module string) Event {
	return NewEvent(EventTypeMessage, NewAttribute(AttributeKeyModule, module))
}

// GetAttribute returns the value of the first attribute with the given key.
func (e Event) GetAttribute(key string) (string, bool) {
	idx := slices.IndexFunc(e.Attributes, func(attr EventAttribute) bool {
		return attr.Key == key
	})
	if idx < 0 {
		return "", false
	}
	return e.Attributes[idx].Value, true
}

// ConvertToErrorEvents converts all events to error events by appending the
// error attribute suffix to each event's attribute key.
func ConvertToErrorEvents(events Events) Events {
	if events == nil {
		return nil
	}

	newEvents := make(Events, len(events))
	for i, event := range events {
		newAttributes := make([]EventAttribute, len(event.Attributes))
		for j, attribute := range event.Attributes {
			newAttributes[j] = NewAttribute(attribute.Key+ErrorAttributeKeySuffix, attribute.Value)
		}

		// no need to append the error attribute suffix to the event type because
		// the event type is not associated to a value that can be misinterpreted
		newEvents[i] = NewEvent(event.Type, newAttributes...)
	}

	return newEvents
}
