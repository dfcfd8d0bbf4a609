package handlers_test

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/civictrack/complaints-api/api"
	"github.com/civictrack/complaints-api/api/handlers"
	"github.com/civictrack/complaints-api/config"
	"github.com/civictrack/complaints-api/databases"
	"github.com/civictrack/complaints-api/models"
)

// memStore is a stateful in-memory database helper for flow tests: one
// complaint row plus the append-only collections hanging off it.
type memStore struct {
	complaint     *models.Complaint
	logs          []models.StatusLog
	assignments   []models.StaffAssignment
	notifications []models.Notification
}

func (s *memStore) Client() databases.ClientHelper { return nil }

func (s *memStore) Collection(name string) databases.CollectionHelper {
	return &memCollection{store: s, name: name}
}

type memCollection struct {
	store *memStore
	name  string
}

func (c *memCollection) FindOne(_ context.Context, _ interface{}, _ ...*options.FindOneOptions) databases.SingleResultHelper {
	return &memSingleResult{store: c.store, name: c.name}
}

func (c *memCollection) Find(_ context.Context, _ interface{}, _ ...*options.FindOptions) (databases.CursorHelper, error) {
	return &memCursor{}, nil
}

func (c *memCollection) InsertOne(_ context.Context, document interface{}, _ ...*options.InsertOneOptions) (databases.InsertOneResultHelper, error) {
	switch doc := document.(type) {
	case models.Complaint:
		if doc.ID.IsZero() {
			doc.ID = primitive.NewObjectID()
		}
		c.store.complaint = &doc
		return &memInsertResult{id: doc.ID}, nil
	case models.StatusLog:
		c.store.logs = append(c.store.logs, doc)
	case models.StaffAssignment:
		c.store.assignments = append(c.store.assignments, doc)
	case models.Notification:
		c.store.notifications = append(c.store.notifications, doc)
	}
	return &memInsertResult{id: primitive.NewObjectID()}, nil
}

func (c *memCollection) UpdateOne(_ context.Context, _ interface{}, update interface{}, _ ...*options.UpdateOptions) (*mongo.UpdateResult, error) {
	if c.name != "complaints" || c.store.complaint == nil {
		return &mongo.UpdateResult{}, nil
	}
	set := update.(bson.M)["$set"].(bson.M)
	if v, ok := set["status"].(string); ok {
		c.store.complaint.Status = v
	}
	if v, ok := set["work_images"].([]string); ok {
		c.store.complaint.WorkImages = v
	}
	if v, ok := set["assigned_to"].(primitive.ObjectID); ok {
		c.store.complaint.AssignedTo = v
	}
	return &mongo.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil
}

func (c *memCollection) CountDocuments(_ context.Context, _ interface{}, _ ...*options.CountOptions) (int64, error) {
	return 0, nil
}

func (c *memCollection) Aggregate(_ context.Context, _ interface{}, _ ...*options.AggregateOptions) (databases.CursorHelper, error) {
	return &memCursor{}, nil
}

type memSingleResult struct {
	store *memStore
	name  string
}

func (r *memSingleResult) Decode(v interface{}) error {
	if r.name == "complaints" && r.store.complaint != nil {
		*v.(*models.Complaint) = *r.store.complaint
		return nil
	}
	return mongo.ErrNoDocuments
}

type memInsertResult struct {
	id primitive.ObjectID
}

func (r *memInsertResult) Decode() interface{} { return r.id }

type memCursor struct{}

func (c *memCursor) Decode(interface{}) error { return nil }

// seqUploader hands out a distinct URL per upload.
type seqUploader struct {
	n int
}

func (u *seqUploader) Upload(_ context.Context, _, _ string, _ io.Reader) (string, error) {
	u.n++
	return fmt.Sprintf("https://cdn.example.com/file-%d.jpg", u.n), nil
}

func sessionCookies(t *testing.T, m *api.SessionManager, claims api.Claims) []*http.Cookie {
	t.Helper()
	rr := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/login", nil)
	if err := m.Establish(rr, req, claims); err != nil {
		t.Fatal(err)
	}
	return rr.Result().Cookies()
}

// TestComplaintLifecycle drives one complaint through the whole pipeline
// over the real router: citizen submits, verifier accepts, staff posts
// progress with a photo, admin reassigns with a second photo. The final row
// must hold the staff status, both evidence photos, the new assignee, one
// assignment audit row and a log row per transition.
func TestComplaintLifecycle(t *testing.T) {
	citizenID := primitive.NewObjectID()
	verifierID := primitive.NewObjectID()
	staffID := primitive.NewObjectID()
	adminID := primitive.NewObjectID()

	store := &memStore{}
	sessions := testSessions()
	app := &handlers.App{
		Config:   config.Config{ComplaintBucket: "complaint-images", WorkBucket: "work-images"},
		Sessions: sessions,
		Uploader: &seqUploader{},
	}
	app.SetDatabase(store)
	router := app.New()

	do := func(req *http.Request, cookies []*http.Cookie) *httptest.ResponseRecorder {
		for _, c := range cookies {
			req.AddCookie(c)
		}
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		return rr
	}

	// citizen submits with one photo
	citizen := sessionCookies(t, sessions, api.Claims{UserID: citizenID.Hex(), Role: api.RoleUser})
	rr := do(multipartRequest(t, "/submit_complaint",
		map[string]string{"title": "Pothole on main road", "description": "Deep pothole", "city": "Pune"},
		map[string]string{"complaint_images": "pothole.jpg"},
	), citizen)
	assert.Equal(t, http.StatusCreated, rr.Code)
	if store.complaint == nil {
		t.Fatal("submit did not store a complaint")
	}
	assert.Equal(t, models.StatusOpen, store.complaint.Status)
	complaintID := store.complaint.ID

	// verifier accepts
	verifier := sessionCookies(t, sessions, api.Claims{UserID: verifierID.Hex(), Role: api.RoleVerifier})
	verifyReq, err := http.NewRequest("POST", "/verify_complaint",
		strings.NewReader(`{"complaint_id":"`+complaintID.Hex()+`","verification_status":"Verified"}`))
	if err != nil {
		t.Fatal(err)
	}
	verifyReq.Header.Set("Content-Type", "application/json")
	rr = do(verifyReq, verifier)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, models.StatusVerified, store.complaint.Status)

	// staff posts progress with the first evidence photo
	staff := sessionCookies(t, sessions, api.Claims{UserID: staffID.Hex(), Role: api.RoleStaff})
	rr = do(multipartRequest(t, "/staff_update",
		map[string]string{"complaint_id": complaintID.Hex(), "status": "In Progress"},
		map[string]string{"work_images": "repair.jpg"},
	), staff)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "In Progress", store.complaint.Status)
	assert.Len(t, store.complaint.WorkImages, 1)

	// admin reassigns with a second evidence photo, no status change
	admin := sessionCookies(t, sessions, api.Claims{UserID: adminID.Hex(), Role: api.RoleAdmin})
	rr = do(multipartRequest(t, "/update_complaint",
		map[string]string{"complaint_id": complaintID.Hex(), "assigned_to": staffID.Hex()},
		map[string]string{"work_images": "closeup.jpg"},
	), admin)
	assert.Equal(t, http.StatusOK, rr.Code)

	// final aggregate state
	assert.Equal(t, "In Progress", store.complaint.Status)
	assert.Len(t, store.complaint.WorkImages, 2, "evidence only ever grows")
	assert.Equal(t, staffID, store.complaint.AssignedTo)

	if assert.Len(t, store.assignments, 1) {
		assert.Equal(t, complaintID, store.assignments[0].ComplaintID)
		assert.Equal(t, staffID, store.assignments[0].StaffID)
		assert.Equal(t, adminID, store.assignments[0].AssignedBy)
	}

	if assert.Len(t, store.logs, 2) {
		assert.Equal(t, models.StatusVerified, store.logs[0].Status)
		assert.Equal(t, verifierID, store.logs[0].CreatedBy)
		assert.Equal(t, "In Progress", store.logs[1].Status)
		assert.Equal(t, staffID, store.logs[1].CreatedBy)
	}

	if assert.Len(t, store.notifications, 1) {
		assert.Equal(t, citizenID, store.notifications[0].UserID)
		assert.Equal(t, complaintID, store.notifications[0].Payload.ComplaintID)
	}
}
