package databases

// go generate: mockery --name ComplaintDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/civictrack/complaints-api/models"
)

const complaintCollectionName = "complaints"

// ComplaintDatabase contains the methods to use with the complaints collection
type ComplaintDatabase interface {
	FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.Complaint, error)
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Complaint, error)
	InsertOne(ctx context.Context, complaint models.Complaint, opts ...*options.InsertOneOptions) (InsertOneResultHelper, error)
	UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error)
	Aggregate(ctx context.Context, pipeline interface{}, opts ...*options.AggregateOptions) ([]models.ComplaintWithIdentity, error)
}

type complaintDatabase struct {
	db DatabaseHelper
}

// NewComplaintDatabase initializes a new instance of complaint database with the provided db connection
func NewComplaintDatabase(db DatabaseHelper) ComplaintDatabase {
	return &complaintDatabase{db: db}
}

func (c *complaintDatabase) FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.Complaint, error) {
	complaint := &models.Complaint{}
	err := c.db.Collection(complaintCollectionName).FindOne(ctx, filter, opts...).Decode(complaint)
	if err != nil {
		return nil, err
	}
	return complaint, nil
}

func (c *complaintDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Complaint, error) {
	cursor, err := c.db.Collection(complaintCollectionName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	var complaints []models.Complaint
	if err := cursor.Decode(&complaints); err != nil {
		return nil, err
	}
	return complaints, nil
}

func (c *complaintDatabase) InsertOne(ctx context.Context, complaint models.Complaint, opts ...*options.InsertOneOptions) (InsertOneResultHelper, error) {
	return c.db.Collection(complaintCollectionName).InsertOne(ctx, complaint, opts...)
}

func (c *complaintDatabase) UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error) {
	return c.db.Collection(complaintCollectionName).UpdateOne(ctx, filter, update, opts...)
}

func (c *complaintDatabase) Aggregate(ctx context.Context, pipeline interface{}, opts ...*options.AggregateOptions) ([]models.ComplaintWithIdentity, error) {
	cursor, err := c.db.Collection(complaintCollectionName).Aggregate(ctx, pipeline, opts...)
	if err != nil {
		return nil, err
	}
	var complaints []models.ComplaintWithIdentity
	if err := cursor.Decode(&complaints); err != nil {
		return nil, err
	}
	return complaints, nil
}
