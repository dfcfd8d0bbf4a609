package databases

// go generate: mockery --name AssignmentDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/civictrack/complaints-api/models"
)

const assignmentCollectionName = "staff_assignments"

// AssignmentDatabase contains the methods to use with the staff assignment
// audit collection. Append-only.
type AssignmentDatabase interface {
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.StaffAssignment, error)
	InsertOne(ctx context.Context, assignment models.StaffAssignment, opts ...*options.InsertOneOptions) (InsertOneResultHelper, error)
}

type assignmentDatabase struct {
	db DatabaseHelper
}

// NewAssignmentDatabase initializes a new instance of assignment database with the provided db connection
func NewAssignmentDatabase(db DatabaseHelper) AssignmentDatabase {
	return &assignmentDatabase{db: db}
}

func (a *assignmentDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.StaffAssignment, error) {
	cursor, err := a.db.Collection(assignmentCollectionName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	var assignments []models.StaffAssignment
	if err := cursor.Decode(&assignments); err != nil {
		return nil, err
	}
	return assignments, nil
}

func (a *assignmentDatabase) InsertOne(ctx context.Context, assignment models.StaffAssignment, opts ...*options.InsertOneOptions) (InsertOneResultHelper, error) {
	return a.db.Collection(assignmentCollectionName).InsertOne(ctx, assignment, opts...)
}
