package model

import (
	"encoding/json"
	"fmt"
	"time"
)

type Notification struct {
	ID        string    `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"userId"`
	Title     string    `db:"title" json:"title"`
	Body      string    `db:"body" json:"body"`
	Read      bool      `db:"read" json:"read"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

type CreateNotificationParams struct {
	UserID string
	Title  string
	Body   string
}

// ToEventData serializes the notification for the push channel.
func (n *Notification) ToEventData() json.RawMessage {
	data, err := json.Marshal(n)
	if err != nil {
		return json.RawMessage(fmt.Sprintf(`{"id":%q}`, n.ID))
	}
	return data
}
