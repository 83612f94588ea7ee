package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// ChatRecord maps to the "chat_history" collection. Append-only.
// UserEmail is a free-text label ("anonymous" when the caller sent none),
// not a reference into the users collection.
type ChatRecord struct {
	ID          bson.ObjectID `bson:"_id,omitempty" json:"-"`
	UserEmail   string        `bson:"user_email" json:"user_email"`
	UserMessage string        `bson:"user_message" json:"user_message"`
	BotResponse string        `bson:"bot_response" json:"bot_response"`
	Timestamp   time.Time     `bson:"timestamp" json:"timestamp"`
}
