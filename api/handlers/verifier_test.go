package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/civictrack/complaints-api/api"
	"github.com/civictrack/complaints-api/api/handlers"
	"github.com/civictrack/complaints-api/databases"
	"github.com/civictrack/complaints-api/databases/mocks"
	"github.com/civictrack/complaints-api/models"
)

func TestVerifier_VerifyComplaint(t *testing.T) {
	complaintID := primitive.NewObjectID()
	verifierID := primitive.NewObjectID()

	body := `{"complaint_id":"` + complaintID.Hex() + `","verification_status":"Verified","verification_notes":"Checked on site"}`
	req, err := http.NewRequest("POST", "/verify_complaint", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req = api.RequestWithClaims(req, &api.Claims{UserID: verifierID.Hex(), Role: api.RoleVerifier})

	db := &MockDatabaseHelper{}
	complaintConn := &mocks.CollectionHelper{}
	logConn := &mocks.CollectionHelper{}
	insertResult := &mocks.InsertOneResultHelper{}

	var capturedUpdate bson.M
	complaintConn.On("UpdateOne", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			capturedUpdate = args.Get(2).(bson.M)
		}).
		Return(&mongo.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil)

	var capturedLog models.StatusLog
	logConn.On("InsertOne", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			capturedLog = args.Get(1).(models.StatusLog)
		}).
		Return(insertResult, nil)

	db.On("Collection", "complaints").Return(complaintConn)
	db.On("Collection", "complaint_status_logs").Return(logConn)

	v := handlers.Verifier{
		DB:    databases.NewComplaintDatabase(db),
		LogDB: databases.NewStatusLogDatabase(db),
	}

	rr := httptest.NewRecorder()
	http.HandlerFunc(v.VerifyComplaintHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"success":true`)

	set := capturedUpdate["$set"].(bson.M)
	assert.Equal(t, models.StatusVerified, set["status"])
	assert.Equal(t, models.StatusVerified, capturedLog.Status)
	assert.Equal(t, "Checked on site", capturedLog.Notes)
	assert.Equal(t, verifierID, capturedLog.CreatedBy)
}

func TestVerifier_InvalidDecisionWritesNothing(t *testing.T) {
	complaintID := primitive.NewObjectID()

	// Closed is not a triage decision
	body := `{"complaint_id":"` + complaintID.Hex() + `","verification_status":"Closed"}`
	req, err := http.NewRequest("POST", "/verify_complaint", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req = api.RequestWithClaims(req, &api.Claims{UserID: primitive.NewObjectID().Hex(), Role: api.RoleVerifier})

	db := &MockDatabaseHelper{}
	complaintConn := &mocks.CollectionHelper{}
	logConn := &mocks.CollectionHelper{}
	db.On("Collection", "complaints").Return(complaintConn)
	db.On("Collection", "complaint_status_logs").Return(logConn)

	v := handlers.Verifier{
		DB:    databases.NewComplaintDatabase(db),
		LogDB: databases.NewStatusLogDatabase(db),
	}

	rr := httptest.NewRecorder()
	http.HandlerFunc(v.VerifyComplaintHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "Invalid input")
	complaintConn.AssertNotCalled(t, "UpdateOne", mock.Anything, mock.Anything, mock.Anything)
	logConn.AssertNotCalled(t, "InsertOne", mock.Anything, mock.Anything)
}

func TestVerifier_MissingComplaintID(t *testing.T) {
	body := `{"verification_status":"Verified"}`
	req, err := http.NewRequest("POST", "/verify_complaint", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req = api.RequestWithClaims(req, &api.Claims{UserID: primitive.NewObjectID().Hex(), Role: api.RoleVerifier})

	db := &MockDatabaseHelper{}

	v := handlers.Verifier{
		DB:    databases.NewComplaintDatabase(db),
		LogDB: databases.NewStatusLogDatabase(db),
	}

	rr := httptest.NewRecorder()
	http.HandlerFunc(v.VerifyComplaintHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	db.AssertNotCalled(t, "Collection", mock.Anything)
}
