package amqp

import (
	"encoding/json"
	"time"
)

// InsightGenerateMessage asks the worker to regenerate the insight batch for
// one user. It carries only the user id; the worker reads everything else
// from the database.
type InsightGenerateMessage struct {
	UserID    string    `json:"userId"`
	Timestamp time.Time `json:"timestamp"`
}

func NewInsightGenerateMessage(userID string) *InsightGenerateMessage {
	return &InsightGenerateMessage{
		UserID:    userID,
		Timestamp: time.Now(),
	}
}

func (m *InsightGenerateMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func InsightGenerateMessageFromJSON(data []byte) (*InsightGenerateMessage, error) {
	var msg InsightGenerateMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
