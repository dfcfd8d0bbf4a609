package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Admin holds the structure for the admins collection in mongo. Admins are
// provisioned out of band (head-admin bootstrap), never via /register.
type Admin struct {
	ID           primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	Email        string             `json:"email" bson:"email"`
	PasswordHash string             `json:"-" bson:"password_hash"`
	Name         string             `json:"name" bson:"name"`
	CreatedAt    time.Time          `json:"created_at" bson:"created_at"`
}
