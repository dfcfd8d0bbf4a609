package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/civictrack/complaints-api/api"
	"github.com/civictrack/complaints-api/api/handlers"
	"github.com/civictrack/complaints-api/databases"
	"github.com/civictrack/complaints-api/databases/mocks"
	"github.com/civictrack/complaints-api/models"
)

func TestFeedback_SubmitFeedback(t *testing.T) {
	complaintID := primitive.NewObjectID()
	userID := primitive.NewObjectID()

	body := `{"complaint_id":"` + complaintID.Hex() + `","rating":4,"comments":"Fixed quickly"}`
	req, err := http.NewRequest("POST", "/feedback", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req = api.RequestWithClaims(req, &api.Claims{UserID: userID.Hex(), Role: api.RoleUser})

	db := &MockDatabaseHelper{}
	conn := &mocks.CollectionHelper{}
	insertResult := &mocks.InsertOneResultHelper{}

	var captured models.Feedback
	conn.On("InsertOne", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			captured = args.Get(1).(models.Feedback)
		}).
		Return(insertResult, nil)
	db.On("Collection", "feedbacks").Return(conn)

	f := handlers.Feedback{DB: databases.NewFeedbackDatabase(db)}

	rr := httptest.NewRecorder()
	http.HandlerFunc(f.SubmitFeedbackHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"success":true`)
	assert.Equal(t, complaintID, captured.ComplaintID)
	assert.Equal(t, userID, captured.CreatedBy)
	assert.Equal(t, 4, captured.Rating)
	assert.Equal(t, "Fixed quickly", captured.Comments)
}

func TestFeedback_SubmitFeedbackBadComplaintID(t *testing.T) {
	body := `{"complaint_id":"nope","rating":4}`
	req, err := http.NewRequest("POST", "/feedback", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req = api.RequestWithClaims(req, &api.Claims{UserID: primitive.NewObjectID().Hex(), Role: api.RoleUser})

	db := &MockDatabaseHelper{}

	f := handlers.Feedback{DB: databases.NewFeedbackDatabase(db)}

	rr := httptest.NewRecorder()
	http.HandlerFunc(f.SubmitFeedbackHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	db.AssertNotCalled(t, "Collection", mock.Anything)
}
