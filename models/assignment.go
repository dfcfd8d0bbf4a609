package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// StaffAssignment is one append-only audit row in staff_assignments,
// written whenever an admin sets or changes a complaint's assignee.
type StaffAssignment struct {
	ID          primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	ComplaintID primitive.ObjectID `json:"complaint_id" bson:"complaint_id"`
	StaffID     primitive.ObjectID `json:"staff_id" bson:"staff_id"`
	AssignedBy  primitive.ObjectID `json:"assigned_by" bson:"assigned_by"`
	CreatedAt   time.Time          `json:"created_at" bson:"created_at"`
}
