package handlers

import (
	"context"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/civictrack/complaints-api/api"
	"github.com/civictrack/complaints-api/config"
	"github.com/civictrack/complaints-api/databases"
	"github.com/civictrack/complaints-api/models"
	"github.com/civictrack/complaints-api/storage"
)

// Complaint exported for testing purposes
type Complaint struct {
	DB       databases.ComplaintDatabase
	Uploader storage.Uploader
	Bucket   string
}

// SubmitComplaintHandler creates a complaint with its citizen-submitted
// images. Any failed upload aborts the request with the per-file errors;
// files stored before the failure are not rolled back.
func (c Complaint) SubmitComplaintHandler(w http.ResponseWriter, r *http.Request) {
	claims, _ := api.CurrentClaims(r)
	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusInternalServerError, w, err)
		return
	}

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		config.ErrorStatus("failed to parse multipart form", http.StatusBadRequest, w, err)
		return
	}

	var files = r.MultipartForm.File["complaint_images"]
	urls, uploadErrors := uploadAll(r.Context(), c.Uploader, c.Bucket, claims.UserID, files)
	if len(uploadErrors) > 0 {
		config.WriteJSON(w, http.StatusInternalServerError, models.Response{
			Success: false,
			Message: "Failed to upload one or more images",
			Errors:  uploadErrors,
		})
		return
	}
	if urls == nil {
		urls = []string{}
	}

	now := time.Now()
	complaint := models.Complaint{
		UserID:          userID,
		Title:           r.FormValue("title"),
		Description:     r.FormValue("description"),
		City:            r.FormValue("city"),
		Pincode:         r.FormValue("pincode"),
		Landmark:        r.FormValue("landmark"),
		Status:          models.StatusOpen,
		ComplaintImages: urls,
		WorkImages:      []string{},
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	res, err := c.DB.InsertOne(context.Background(), complaint)
	if err != nil {
		config.ErrorStatus("Internal error", http.StatusInternalServerError, w, err)
		return
	}
	if oid, ok := res.Decode().(primitive.ObjectID); ok {
		complaint.ID = oid
	}

	config.WriteJSON(w, http.StatusCreated, models.Response{Success: true, Data: complaint})
}

// GetComplaintsHandler lists complaints scoped by the caller's role: admins
// see everything with creator and assignee identity joined in, everyone
// else sees only their own. Each branch builds its own query.
func (c Complaint) GetComplaintsHandler(w http.ResponseWriter, r *http.Request) {
	claims, _ := api.CurrentClaims(r)

	if claims.Role == api.RoleAdmin {
		pipeline := []bson.M{
			{"$sort": bson.M{"created_at": -1}},
			{"$lookup": bson.M{"from": "users", "localField": "user_id", "foreignField": "_id", "as": "creator"}},
			{"$unwind": bson.M{"path": "$creator", "preserveNullAndEmptyArrays": true}},
			{"$lookup": bson.M{"from": "users", "localField": "assigned_to", "foreignField": "_id", "as": "assignee"}},
			{"$unwind": bson.M{"path": "$assignee", "preserveNullAndEmptyArrays": true}},
		}
		complaints, err := c.DB.Aggregate(context.Background(), pipeline)
		if err != nil {
			config.ErrorStatus("Internal error", http.StatusInternalServerError, w, err)
			return
		}
		if complaints == nil {
			complaints = []models.ComplaintWithIdentity{}
		}
		config.WriteJSON(w, http.StatusOK, models.Response{Success: true, Data: complaints})
		return
	}

	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusInternalServerError, w, err)
		return
	}
	complaints, err := c.DB.Find(context.Background(),
		bson.M{"user_id": userID},
		options.Find().SetSort(bson.M{"created_at": -1}),
	)
	if err != nil {
		config.ErrorStatus("Internal error", http.StatusInternalServerError, w, err)
		return
	}
	if complaints == nil {
		complaints = []models.Complaint{}
	}
	config.WriteJSON(w, http.StatusOK, models.Response{Success: true, Data: complaints})
}

// VerifierComplaintsHandler lists Open complaints awaiting triage, newest
// first, with creator identity joined in.
func (c Complaint) VerifierComplaintsHandler(w http.ResponseWriter, r *http.Request) {
	pipeline := []bson.M{
		{"$match": bson.M{"status": bson.M{"$in": []string{models.StatusOpen}}}},
		{"$sort": bson.M{"created_at": -1}},
		{"$lookup": bson.M{"from": "users", "localField": "user_id", "foreignField": "_id", "as": "creator"}},
		{"$unwind": bson.M{"path": "$creator", "preserveNullAndEmptyArrays": true}},
	}
	complaints, err := c.DB.Aggregate(context.Background(), pipeline)
	if err != nil {
		config.ErrorStatus("Internal error", http.StatusInternalServerError, w, err)
		return
	}
	if complaints == nil {
		complaints = []models.ComplaintWithIdentity{}
	}
	config.WriteJSON(w, http.StatusOK, models.Response{Success: true, Data: complaints})
}

// StaffComplaintsHandler lists the complaints assigned to the calling staff
// member, newest first, with creator identity joined in.
func (c Complaint) StaffComplaintsHandler(w http.ResponseWriter, r *http.Request) {
	claims, _ := api.CurrentClaims(r)
	staffID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusInternalServerError, w, err)
		return
	}

	pipeline := []bson.M{
		{"$match": bson.M{"assigned_to": staffID}},
		{"$sort": bson.M{"created_at": -1}},
		{"$lookup": bson.M{"from": "users", "localField": "user_id", "foreignField": "_id", "as": "creator"}},
		{"$unwind": bson.M{"path": "$creator", "preserveNullAndEmptyArrays": true}},
	}
	complaints, err := c.DB.Aggregate(context.Background(), pipeline)
	if err != nil {
		config.ErrorStatus("Internal error", http.StatusInternalServerError, w, err)
		return
	}
	if complaints == nil {
		complaints = []models.ComplaintWithIdentity{}
	}
	config.WriteJSON(w, http.StatusOK, models.Response{Success: true, Data: complaints})
	zap.S().Debugw("staff complaints listed", "staff_id", claims.UserID, "count", len(complaints))
}
