package databases

// go generate: mockery --name FeedbackDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/civictrack/complaints-api/models"
)

const feedbackCollectionName = "feedbacks"

// FeedbackDatabase contains the methods to use with the feedbacks
// collection. Write-only from the application's side.
type FeedbackDatabase interface {
	InsertOne(ctx context.Context, feedback models.Feedback, opts ...*options.InsertOneOptions) (InsertOneResultHelper, error)
}

type feedbackDatabase struct {
	db DatabaseHelper
}

// NewFeedbackDatabase initializes a new instance of feedback database with the provided db connection
func NewFeedbackDatabase(db DatabaseHelper) FeedbackDatabase {
	return &feedbackDatabase{db: db}
}

func (f *feedbackDatabase) InsertOne(ctx context.Context, feedback models.Feedback, opts ...*options.InsertOneOptions) (InsertOneResultHelper, error) {
	return f.db.Collection(feedbackCollectionName).InsertOne(ctx, feedback, opts...)
}
