package domain

import "github.com/google/uuid"

// Stream names
const (
	StreamPlacesSearch = "stream:places:search"
	StreamPlacesDone   = "stream:places:done"
)

// SearchRequestedEvent - входящее событие на асинхронный поиск
type SearchRequestedEvent struct {
	RequestID uuid.UUID    `json:"request_id"`
	SessionID string       `json:"session_id"`
	Seq       uint64       `json:"seq"`
	Filter    SearchFilter `json:"filter"`
}

// SearchCompletedEvent - результат асинхронного поиска.
// Applied=false означает что ответ устарел и был отброшен.
type SearchCompletedEvent struct {
	RequestID  uuid.UUID `json:"request_id"`
	SessionID  string    `json:"session_id"`
	Seq        uint64    `json:"seq"`
	Applied    bool      `json:"applied"`
	PlaceCount int       `json:"place_count"`
	Error      string    `json:"error,omitempty"`
}

// StreamMessage - сообщение из Redis Stream
type StreamMessage struct {
	ID   string
	Data string
}
