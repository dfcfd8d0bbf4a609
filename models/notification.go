package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NotificationTypeStatusUpdate tags notifications emitted on complaint
// status changes.
const NotificationTypeStatusUpdate = "STATUS_UPDATE"

// NotificationPayload carries the complaint reference and human message.
type NotificationPayload struct {
	ComplaintID primitive.ObjectID `json:"complaint_id" bson:"complaint_id"`
	Message     string             `json:"message" bson:"message"`
}

// Notification holds the structure for the notifications collection.
// Rows are immutable once written; users read their own, newest first.
type Notification struct {
	ID        primitive.ObjectID  `json:"_id" bson:"_id,omitempty"`
	UserID    primitive.ObjectID  `json:"user_id" bson:"user_id"`
	Type      string              `json:"type" bson:"type"`
	Payload   NotificationPayload `json:"payload" bson:"payload"`
	CreatedAt time.Time           `json:"created_at" bson:"created_at"`
}
