package crdt

import (
	"encoding/json"
	"errors"
	"time"
)

// ErrInvalidMessage is returned when decoding a message whose "type" field
// is missing, unrecognized, or whose fields don't match its declared type.
var ErrInvalidMessage = errors.New("crdt: invalid message")

// MessageType tags a Message's wire shape.
type MessageType string

const (
	TypeSyncRequestFull MessageType = "sync_request_full"
	TypeSyncFull        MessageType = "sync_full"
	TypeSyncDelta       MessageType = "sync_delta"
	TypeSyncAck         MessageType = "sync_ack"
)

// WireValue is the crdtValue wire shape: {value, clock, nodeId, timestamp}.
type WireValue struct {
	Value     any       `json:"value"`
	Clock     Clock     `json:"clock"`
	NodeID    string    `json:"nodeId"`
	Timestamp time.Time `json:"timestamp"`
}

// Message is the tagged-union wire protocol between CRDT sessions. Only
// the fields relevant to Type are populated; Marshal/Unmarshal enforce the
// exact per-type JSON shape from the wire format.
type Message struct {
	Type MessageType

	// SyncRequestFull
	Names []string
	From  string

	// SyncFull / SyncDelta
	Name      string
	CRDTValue WireValue

	// SyncAck
	Clock Clock
}

// NewSyncRequestFull builds a SyncRequestFull message.
func NewSyncRequestFull(names []string, from string) Message {
	return Message{Type: TypeSyncRequestFull, Names: names, From: from}
}

// NewSyncFull builds a SyncFull message.
func NewSyncFull(name string, value WireValue, from string) Message {
	return Message{Type: TypeSyncFull, Name: name, CRDTValue: value, From: from}
}

// NewSyncDelta builds a SyncDelta message.
func NewSyncDelta(name string, value WireValue, from string) Message {
	return Message{Type: TypeSyncDelta, Name: name, CRDTValue: value, From: from}
}

// NewSyncAck builds a SyncAck message.
func NewSyncAck(name string, clock Clock, from string) Message {
	return Message{Type: TypeSyncAck, Name: name, Clock: clock, From: from}
}

func (m Message) MarshalJSON() ([]byte, error) {
	switch m.Type {
	case TypeSyncRequestFull:
		return json.Marshal(struct {
			Type  MessageType `json:"type"`
			Names []string    `json:"names"`
			From  string      `json:"from"`
		}{m.Type, m.Names, m.From})
	case TypeSyncFull, TypeSyncDelta:
		return json.Marshal(struct {
			Type      MessageType `json:"type"`
			Name      string      `json:"name"`
			CRDTValue WireValue   `json:"crdtValue"`
			From      string      `json:"from"`
		}{m.Type, m.Name, m.CRDTValue, m.From})
	case TypeSyncAck:
		return json.Marshal(struct {
			Type  MessageType `json:"type"`
			Name  string      `json:"name"`
			Clock Clock       `json:"clock"`
			From  string      `json:"from"`
		}{m.Type, m.Name, m.Clock, m.From})
	default:
		return nil, ErrInvalidMessage
	}
}

func (m *Message) UnmarshalJSON(data []byte) error {
	var head struct {
		Type MessageType `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return ErrInvalidMessage
	}

	switch head.Type {
	case TypeSyncRequestFull:
		var body struct {
			Names []string `json:"names"`
			From  string   `json:"from"`
		}
		if err := json.Unmarshal(data, &body); err != nil {
			return ErrInvalidMessage
		}
		*m = Message{Type: head.Type, Names: body.Names, From: body.From}
	case TypeSyncFull, TypeSyncDelta:
		var body struct {
			Name      string    `json:"name"`
			CRDTValue WireValue `json:"crdtValue"`
			From      string    `json:"from"`
		}
		if err := json.Unmarshal(data, &body); err != nil {
			return ErrInvalidMessage
		}
		*m = Message{Type: head.Type, Name: body.Name, CRDTValue: body.CRDTValue, From: body.From}
	case TypeSyncAck:
		var body struct {
			Name  string `json:"name"`
			Clock Clock  `json:"clock"`
			From  string `json:"from"`
		}
		if err := json.Unmarshal(data, &body); err != nil {
			return ErrInvalidMessage
		}
		*m = Message{Type: head.Type, Name: body.Name, Clock: body.Clock, From: body.From}
	default:
		return ErrInvalidMessage
	}
	return nil
}
