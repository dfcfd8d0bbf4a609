package databases

// go generate: mockery --name AdminDatabase

import (
	"context"
	"errors"
	"os"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"

	"github.com/civictrack/complaints-api/models"
)

const adminCollectionName = "admins"

// AdminDatabase contains the methods to use with the admins collection
type AdminDatabase interface {
	FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.Admin, error)
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Admin, error)
	InsertOne(ctx context.Context, admin models.Admin, opts ...*options.InsertOneOptions) (InsertOneResultHelper, error)
}

type adminDatabase struct {
	db DatabaseHelper
}

// NewAdminDatabase initializes a new instance of admin database with the provided db connection
func NewAdminDatabase(db DatabaseHelper) AdminDatabase {
	return &adminDatabase{db: db}
}

func (a *adminDatabase) FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.Admin, error) {
	admin := &models.Admin{}
	err := a.db.Collection(adminCollectionName).FindOne(ctx, filter, opts...).Decode(admin)
	if err != nil {
		return nil, err
	}
	return admin, nil
}

func (a *adminDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Admin, error) {
	cursor, err := a.db.Collection(adminCollectionName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	var admins []models.Admin
	if err := cursor.Decode(&admins); err != nil {
		return nil, err
	}
	return admins, nil
}

func (a *adminDatabase) InsertOne(ctx context.Context, admin models.Admin, opts ...*options.InsertOneOptions) (InsertOneResultHelper, error) {
	return a.db.Collection(adminCollectionName).InsertOne(ctx, admin, opts...)
}

// EnsureHeadAdmin bootstraps a head admin from env vars if not already present.
// Env vars: ADMIN_HEAD_EMAIL, ADMIN_HEAD_PASSWORD
func EnsureHeadAdmin(db DatabaseHelper) error {
	headEmail := strings.TrimSpace(strings.ToLower(os.Getenv("ADMIN_HEAD_EMAIL")))
	if headEmail == "" {
		return nil
	}
	ctx := context.Background()
	err := db.Collection(adminCollectionName).FindOne(ctx, bson.M{"email": headEmail}).Decode(&struct{}{})
	if err == nil {
		return nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return err
	}
	headPassword := os.Getenv("ADMIN_HEAD_PASSWORD")
	if headPassword == "" {
		return errors.New("ADMIN_HEAD_PASSWORD must be set to bootstrap head admin")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(headPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	admin := models.Admin{
		Email:        headEmail,
		PasswordHash: string(hash),
		Name:         "Head Admin",
		CreatedAt:    time.Now(),
	}
	_, err = db.Collection(adminCollectionName).InsertOne(ctx, admin)
	return err
}
