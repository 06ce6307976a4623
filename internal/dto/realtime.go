package dto

import (
	"encoding/json"
	"time"
)

const (
	EventStatistics           = "statistics"
	EventControlCenterDetails = "control-center-details"
	MessageRequestDetails     = "request-details"
)

// RealtimeEvent is one websocket frame.
type RealtimeEvent struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

type RealtimeMessage struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

type ConnectionInfo struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	RemoteAddr  string    `json:"remoteAddr"`
	ConnectedAt time.Time `json:"connectedAt"`
}
