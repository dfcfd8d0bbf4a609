package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// StatusLog is one append-only row in complaint_status_logs, written for
// every status transition. Rows are never updated or deleted.
type StatusLog struct {
	ID          primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	ComplaintID primitive.ObjectID `json:"complaint_id" bson:"complaint_id"`
	Status      string             `json:"status" bson:"status"`
	Notes       string             `json:"notes,omitempty" bson:"notes,omitempty"`
	CreatedBy   primitive.ObjectID `json:"created_by" bson:"created_by"`
	CreatedAt   time.Time          `json:"created_at" bson:"created_at"`
}
