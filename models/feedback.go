package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Feedback holds the structure for the feedbacks collection. Inserted
// verbatim from the caller; rating range is not validated.
type Feedback struct {
	ID          primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	ComplaintID primitive.ObjectID `json:"complaint_id" bson:"complaint_id"`
	Rating      int                `json:"rating" bson:"rating"`
	Comments    string             `json:"comments" bson:"comments"`
	CreatedBy   primitive.ObjectID `json:"created_by" bson:"created_by"`
	CreatedAt   time.Time          `json:"created_at" bson:"created_at"`
}
