package websocket

import (
	"encoding/json"
	"errors"
	"fmt"

	"chat-realtime/internal/models"
	"chat-realtime/pkg/response"

	"github.com/go-playground/validator/v10"
)

// EventType is the discriminant of every frame exchanged over a connection
type EventType string

const (
	// Room-scoped client events
	EventJoin       EventType = "join"
	EventMessage    EventType = "message"
	EventTyping     EventType = "typing"
	EventSuggestion EventType = "suggestion"

	// Server-only events
	EventPresence EventType = "presence"
	EventMembers  EventType = "members"
	EventError    EventType = "error"
)

func (et EventType) String() string {
	return string(et)
}

var (
	ErrMalformedEvent      = errors.New("malformed event")
	ErrUnknownEventType    = errors.New("unknown event type")
	ErrMissingConversation = errors.New("missing conversation id")
	ErrInvalidPayload      = errors.New("invalid event payload")
)

var validate = validator.New()

// InboundEvent is one decoded client frame. The concrete type is one of
// JoinEvent, SendMessageEvent, TypingEvent or SuggestionEvent.
type InboundEvent interface {
	Type() EventType
	Conversation() uint
}

type JoinEvent struct {
	ConversationID uint `validate:"required"`
}

type SendMessageEvent struct {
	ConversationID uint   `validate:"required"`
	Content        string `validate:"required"`
	IsAISuggestion bool
}

type TypingEvent struct {
	ConversationID uint `validate:"required"`
	IsTyping       bool
}

type SuggestionEvent struct {
	ConversationID uint   `validate:"required"`
	Suggestion     string `validate:"required"`
}

func (JoinEvent) Type() EventType        { return EventJoin }
func (SendMessageEvent) Type() EventType { return EventMessage }
func (TypingEvent) Type() EventType      { return EventTyping }
func (SuggestionEvent) Type() EventType  { return EventSuggestion }

func (e JoinEvent) Conversation() uint        { return e.ConversationID }
func (e SendMessageEvent) Conversation() uint { return e.ConversationID }
func (e TypingEvent) Conversation() uint      { return e.ConversationID }
func (e SuggestionEvent) Conversation() uint  { return e.ConversationID }

// inboundFrame is the flat wire shape of a client frame.
type inboundFrame struct {
	Type           EventType       `json:"type"`
	ConversationID uint            `json:"conversationId"`
	Content        string          `json:"content"`
	IsAISuggestion json.RawMessage `json:"isAISuggestion"`
	IsTyping       *bool           `json:"isTyping"`
	Suggestion     string          `json:"suggestion"`
}

// DecodeInbound parses one text frame into a typed event.
func DecodeInbound(data []byte) (InboundEvent, error) {
	var f inboundFrame
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}

	var evt InboundEvent
	switch f.Type {
	case EventJoin:
		evt = JoinEvent{ConversationID: f.ConversationID}
	case EventMessage:
		evt = SendMessageEvent{
			ConversationID: f.ConversationID,
			Content:        f.Content,
			IsAISuggestion: decodeFlag(f.IsAISuggestion),
		}
	case EventTyping:
		if f.IsTyping == nil {
			return nil, fmt.Errorf("%w: isTyping is required", ErrInvalidPayload)
		}
		evt = TypingEvent{ConversationID: f.ConversationID, IsTyping: *f.IsTyping}
	case EventSuggestion:
		evt = SuggestionEvent{ConversationID: f.ConversationID, Suggestion: f.Suggestion}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEventType, f.Type)
	}

	if evt.Conversation() == 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingConversation, f.Type)
	}
	if err := validate.Struct(evt); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return evt, nil
}

// decodeFlag is true only for a literal JSON true; absent, null or
// non-boolean values read as false.
func decodeFlag(raw json.RawMessage) bool {
	var b bool
	if err := json.Unmarshal(raw, &b); err != nil {
		return false
	}
	return b
}

// OutboundEvent is the server to client envelope. Only the fields of the
// event's variant are set.
type OutboundEvent struct {
	Type           EventType               `json:"type"`
	ConversationID uint                    `json:"conversationId"`
	Members        []uint                  `json:"members,omitempty"`
	Message        *models.MessageResponse `json:"message,omitempty"`
	UserID         uint                    `json:"userId,omitempty"`
	IsTyping       *bool                   `json:"isTyping,omitempty"`
	IsOnline       *bool                   `json:"isOnline,omitempty"`
	Suggestion     string                  `json:"suggestion,omitempty"`
	Code           int                     `json:"code,omitempty"`
	Error          string                  `json:"error,omitempty"`
}

// Encode serializes the envelope into one text frame.
func (e *OutboundEvent) Encode() ([]byte, error) {
	return json.Marshal(e)
}

// DecodeOutbound parses a server frame. Used by clients and tests.
func DecodeOutbound(data []byte) (*OutboundEvent, error) {
	var evt OutboundEvent
	if err := json.Unmarshal(data, &evt); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}
	return &evt, nil
}

// Event constructors

func NewMembersEvent(conversationID uint, members []uint) *OutboundEvent {
	if members == nil {
		members = []uint{}
	}
	return &OutboundEvent{Type: EventMembers, ConversationID: conversationID, Members: members}
}

func NewMessageEvent(msg *models.MessageResponse) *OutboundEvent {
	return &OutboundEvent{Type: EventMessage, ConversationID: msg.ConversationID, Message: msg}
}

func NewTypingEvent(conversationID, userID uint, isTyping bool) *OutboundEvent {
	return &OutboundEvent{Type: EventTyping, ConversationID: conversationID, UserID: userID, IsTyping: &isTyping}
}

func NewPresenceEvent(conversationID, userID uint, isOnline bool) *OutboundEvent {
	return &OutboundEvent{Type: EventPresence, ConversationID: conversationID, UserID: userID, IsOnline: &isOnline}
}

func NewSuggestionEvent(conversationID uint, suggestion string) *OutboundEvent {
	return &OutboundEvent{Type: EventSuggestion, ConversationID: conversationID, Suggestion: suggestion}
}

// NewErrorEvent builds an error notice for the connection that triggered it.
func NewErrorEvent(conversationID uint, code int) *OutboundEvent {
	return &OutboundEvent{Type: EventError, ConversationID: conversationID, Code: code, Error: response.Message(code)}
}
