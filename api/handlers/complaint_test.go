package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/civictrack/complaints-api/api"
	"github.com/civictrack/complaints-api/api/handlers"
	"github.com/civictrack/complaints-api/databases"
	"github.com/civictrack/complaints-api/databases/mocks"
	"github.com/civictrack/complaints-api/models"
	storagemocks "github.com/civictrack/complaints-api/storage/mocks"
)

// multipartRequest builds a multipart POST with the given fields and one
// uploaded file per entry in files (field name -> filename).
func multipartRequest(t *testing.T, target string, fields map[string]string, files map[string]string) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatal(err)
		}
	}
	for field, filename := range files {
		fw, err := w.CreateFormFile(field, filename)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := io.WriteString(fw, "fake-image-bytes"); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	req, err := http.NewRequest("POST", target, &buf)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func TestComplaint_SubmitComplaint(t *testing.T) {
	userID := primitive.NewObjectID()
	req := multipartRequest(t, "/submit_complaint",
		map[string]string{
			"title":       "Pothole on main road",
			"description": "Deep pothole near the bus stop",
			"city":        "Pune",
			"pincode":     "411001",
			"landmark":    "Bus stop",
		},
		map[string]string{"complaint_images": "pothole.jpg"},
	)
	req = api.RequestWithClaims(req, &api.Claims{UserID: userID.Hex(), Role: api.RoleUser})

	db := &MockDatabaseHelper{}
	conn := &mocks.CollectionHelper{}
	insertResult := &mocks.InsertOneResultHelper{}
	up := &storagemocks.Uploader{}

	up.On("Upload", mock.Anything, "complaint-images", mock.Anything, mock.Anything).
		Return("https://cdn.example.com/pothole.jpg", nil)
	insertResult.On("Decode").Return(primitive.NewObjectID())
	conn.On("InsertOne", mock.Anything, mock.Anything).Return(insertResult, nil)
	db.On("Collection", "complaints").Return(conn)

	c := handlers.Complaint{
		DB:       databases.NewComplaintDatabase(db),
		Uploader: up,
		Bucket:   "complaint-images",
	}

	rr := httptest.NewRecorder()
	http.HandlerFunc(c.SubmitComplaintHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusCreated, rr.Code)

	var resp struct {
		Success bool             `json:"success"`
		Data    models.Complaint `json:"data"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	assert.True(t, resp.Success)
	assert.Equal(t, models.StatusOpen, resp.Data.Status)
	assert.Equal(t, []string{"https://cdn.example.com/pothole.jpg"}, resp.Data.ComplaintImages)
	assert.Equal(t, userID, resp.Data.UserID)
	up.AssertNumberOfCalls(t, "Upload", 1)
}

func TestComplaint_SubmitComplaintAbortsOnUploadFailure(t *testing.T) {
	req := multipartRequest(t, "/submit_complaint",
		map[string]string{"title": "Broken streetlight"},
		map[string]string{"complaint_images": "light.jpg"},
	)
	req = api.RequestWithClaims(req, &api.Claims{UserID: primitive.NewObjectID().Hex(), Role: api.RoleUser})

	db := &MockDatabaseHelper{}
	conn := &mocks.CollectionHelper{}
	up := &storagemocks.Uploader{}

	up.On("Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return("", assert.AnError)
	db.On("Collection", "complaints").Return(conn)

	c := handlers.Complaint{
		DB:       databases.NewComplaintDatabase(db),
		Uploader: up,
		Bucket:   "complaint-images",
	}

	rr := httptest.NewRecorder()
	http.HandlerFunc(c.SubmitComplaintHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Contains(t, rr.Body.String(), "Failed to upload one or more images")
	conn.AssertNotCalled(t, "InsertOne", mock.Anything, mock.Anything)
}

func TestComplaint_GetComplaintsRequiresSession(t *testing.T) {
	req, err := http.NewRequest("GET", "/get_complaints", nil)
	if err != nil {
		t.Fatal(err)
	}

	c := handlers.Complaint{}
	handler := api.RequireRole()(http.HandlerFunc(c.GetComplaintsHandler))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Contains(t, rr.Body.String(), "Not authenticated")
}

func TestComplaint_GetComplaintsOwnOnly(t *testing.T) {
	userID := primitive.NewObjectID()
	req, err := http.NewRequest("GET", "/get_complaints", nil)
	if err != nil {
		t.Fatal(err)
	}
	req = api.RequestWithClaims(req, &api.Claims{UserID: userID.Hex(), Role: api.RoleUser})

	db := &MockDatabaseHelper{}
	conn := &mocks.CollectionHelper{}
	cursor := &mocks.CursorHelper{}

	cursor.On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		complaints := args.Get(0).(*[]models.Complaint)
		*complaints = []models.Complaint{
			{UserID: userID, Title: "Pothole on main road", Status: models.StatusOpen},
		}
	})
	// find options carry the created_at sort
	conn.On("Find", mock.Anything, mock.Anything, mock.Anything).Return(cursor, nil)
	db.On("Collection", "complaints").Return(conn)

	c := handlers.Complaint{DB: databases.NewComplaintDatabase(db)}

	rr := httptest.NewRecorder()
	http.HandlerFunc(c.GetComplaintsHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Pothole on main road")
	conn.AssertNotCalled(t, "Aggregate", mock.Anything, mock.Anything)
}

func TestComplaint_GetComplaintsAdminUsesAggregation(t *testing.T) {
	req, err := http.NewRequest("GET", "/get_complaints", nil)
	if err != nil {
		t.Fatal(err)
	}
	req = api.RequestWithClaims(req, &api.Claims{UserID: primitive.NewObjectID().Hex(), Role: api.RoleAdmin})

	db := &MockDatabaseHelper{}
	conn := &mocks.CollectionHelper{}
	cursor := &mocks.CursorHelper{}

	cursor.On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		complaints := args.Get(0).(*[]models.ComplaintWithIdentity)
		*complaints = []models.ComplaintWithIdentity{
			{
				Complaint: models.Complaint{Title: "Overflowing garbage bin", Status: models.StatusVerified},
				Creator:   &models.UserIdentity{FirstName: "Jane"},
			},
		}
	})
	conn.On("Aggregate", mock.Anything, mock.Anything).Return(cursor, nil)
	db.On("Collection", "complaints").Return(conn)

	c := handlers.Complaint{DB: databases.NewComplaintDatabase(db)}

	rr := httptest.NewRecorder()
	http.HandlerFunc(c.GetComplaintsHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Overflowing garbage bin")
	assert.Contains(t, rr.Body.String(), "Jane")
	conn.AssertNotCalled(t, "Find", mock.Anything, mock.Anything, mock.Anything)
}
