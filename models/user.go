package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User holds the structure for the users collection in mongo. Citizens,
// staff and verifiers all live here; admins have their own collection.
type User struct {
	ID           primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	FirstName    string             `json:"first_name" bson:"first_name"`
	LastName     string             `json:"last_name" bson:"last_name"`
	AadharCard   string             `json:"aadhar_card" bson:"aadhar_card"`
	Email        string             `json:"email" bson:"email"`
	PhoneNumber  string             `json:"phone_number" bson:"phone_number"`
	PasswordHash string             `json:"-" bson:"password_hash"`
	UserRole     string             `json:"user_role" bson:"user_role"`
	ShortID      string             `json:"short_id,omitempty" bson:"short_id,omitempty"`
	CreatedAt    time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at" bson:"updated_at"`
}

// StaffSummary is the projection returned to the admin assignment UI.
type StaffSummary struct {
	ID        primitive.ObjectID `json:"id" bson:"_id"`
	FirstName string             `json:"first_name" bson:"first_name"`
	LastName  string             `json:"last_name" bson:"last_name"`
	ShortID   string             `json:"short_id" bson:"short_id"`
}

// UserIdentity is the subset of user fields joined into complaint listings.
type UserIdentity struct {
	ID          primitive.ObjectID `json:"id" bson:"_id"`
	FirstName   string             `json:"first_name" bson:"first_name"`
	LastName    string             `json:"last_name" bson:"last_name"`
	Email       string             `json:"email,omitempty" bson:"email,omitempty"`
	PhoneNumber string             `json:"phone_number,omitempty" bson:"phone_number,omitempty"`
}
