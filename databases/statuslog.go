package databases

// go generate: mockery --name StatusLogDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/civictrack/complaints-api/models"
)

const statusLogCollectionName = "complaint_status_logs"

// StatusLogDatabase contains the methods to use with the complaint status
// log collection. The log is write-only from the application's side:
// append on every transition, nothing else.
type StatusLogDatabase interface {
	InsertOne(ctx context.Context, log models.StatusLog, opts ...*options.InsertOneOptions) (InsertOneResultHelper, error)
}

type statusLogDatabase struct {
	db DatabaseHelper
}

// NewStatusLogDatabase initializes a new instance of status log database with the provided db connection
func NewStatusLogDatabase(db DatabaseHelper) StatusLogDatabase {
	return &statusLogDatabase{db: db}
}

func (s *statusLogDatabase) InsertOne(ctx context.Context, log models.StatusLog, opts ...*options.InsertOneOptions) (InsertOneResultHelper, error) {
	return s.db.Collection(statusLogCollectionName).InsertOne(ctx, log, opts...)
}
