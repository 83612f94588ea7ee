package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// User maps to the "users" collection. Email is the unique account key;
// Username is a display name only.
type User struct {
	ID           bson.ObjectID `bson:"_id,omitempty" json:"-"`
	Username     string        `bson:"username" json:"username"`
	Email        string        `bson:"email" json:"email"`
	PasswordHash string        `bson:"password" json:"-"`
	CreatedAt    time.Time     `bson:"created_at" json:"created_at"`
}
