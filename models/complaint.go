package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Complaint statuses. Open is the only status a citizen can create; the
// verifier moves it to Verified or Rejected; staff and admins may set any
// free-text status after that (In Progress, Resolved, ...).
const (
	StatusOpen     = "Open"
	StatusVerified = "Verified"
	StatusRejected = "Rejected"
)

// Complaint holds the structure for the complaints collection in mongo.
// complaint_images and work_images are append-only: they are only ever
// extended, never truncated.
type Complaint struct {
	ID              primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	UserID          primitive.ObjectID `json:"user_id" bson:"user_id"`
	Title           string             `json:"title" bson:"title"`
	Description     string             `json:"description" bson:"description"`
	City            string             `json:"city" bson:"city"`
	Pincode         string             `json:"pincode" bson:"pincode"`
	Landmark        string             `json:"landmark" bson:"landmark"`
	Status          string             `json:"status" bson:"status"`
	ComplaintImages []string           `json:"complaint_images" bson:"complaint_images"`
	WorkImages      []string           `json:"work_images" bson:"work_images"`
	AssignedTo      primitive.ObjectID `json:"assigned_to,omitempty" bson:"assigned_to,omitempty"`
	CreatedAt       time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at" bson:"updated_at"`
}

// ComplaintWithIdentity is a complaint with creator (and, for admins,
// assignee) identity joined in by the listing aggregation.
type ComplaintWithIdentity struct {
	Complaint `bson:",inline"`
	Creator   *UserIdentity `json:"creator,omitempty" bson:"creator,omitempty"`
	Assignee  *UserIdentity `json:"assignee,omitempty" bson:"assignee,omitempty"`
}
