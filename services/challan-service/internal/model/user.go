package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// User represents an account that can log in with email and password.
// Field names follow the documents already stored in the users collection.
type User struct {
	ID           bson.ObjectID `bson:"_id,omitempty"`
	Name         string        `bson:"name"`
	Email        string        `bson:"gmail"`
	PasswordHash string        `bson:"password"`
	CreatedAt    time.Time     `bson:"created_at,omitempty"`
}
