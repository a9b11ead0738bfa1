package ws

import (
	sonic "github.com/bytedance/sonic"
)

const (
	ActionSubscribe   = "subscribe"
	ActionUnsubscribe = "unsubscribe"
	ActionMatchUpdate = "matchUpdate"
)

const (
	msgFetched       = "Data fetched successfully"
	msgNoData        = "No data found"
	msgSubscribed    = "Subscribed to match updates"
	msgUnsubscribed  = "Unsubscribed from match updates"
	msgMatchUpdated  = "Match updated"
	msgInvalidJSON   = "Invalid JSON format"
	msgUnknownAction = "Unknown action"
	msgInternalError = "Internal server error"
	msgServerBusy    = "Server busy, retry later"
)

// frame is one client request.
type frame struct {
	Action  string `json:"action"`
	Sport   string `json:"sport,omitempty"`
	MatchID string `json:"matchId,omitempty"`
	EventID string `json:"eventId,omitempty"`
}

type replyBody struct {
	ActionType string `json:"actionType"`
	Data       any    `json:"data"`
}

type reply struct {
	Message string     `json:"message"`
	Body    *replyBody `json:"body"`
	Status  bool       `json:"status"`
}

func okReply(action, message string, data any) reply {
	return reply{Message: message, Body: &replyBody{ActionType: action, Data: data}, Status: true}
}

func errorReply(action, message string) reply {
	if action == "" {
		return reply{Message: message}
	}
	return reply{Message: message, Body: &replyBody{ActionType: action}}
}

func encodeReply(r reply) ([]byte, error) {
	return sonic.Marshal(r)
}

func decodeFrame(raw []byte) (frame, error) {
	var f frame
	err := sonic.Unmarshal(raw, &f)
	return f, err
}
