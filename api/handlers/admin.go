package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/civictrack/complaints-api/api"
	"github.com/civictrack/complaints-api/config"
	"github.com/civictrack/complaints-api/databases"
	"github.com/civictrack/complaints-api/models"
	"github.com/civictrack/complaints-api/storage"
)

// shortIDMaxAttempts caps the rejection-sampling loop for 4-digit ids. With
// at most 9000 ids in play the loop terminates fast in practice; the cap
// turns a persistently failing store into a 500 instead of a spin.
const shortIDMaxAttempts = 100

// Admin exported for testing purposes
type Admin struct {
	DB       databases.ComplaintDatabase
	UDB      databases.UserDatabase
	LogDB    databases.StatusLogDatabase
	AsnDB    databases.AssignmentDatabase
	Uploader storage.Uploader
	Bucket   string
}

// UpdateComplaintHandler is the admin superset of the staff update: status,
// evidence photos, and reassignment in one request. The image merge and
// field writes are collapsed into a single update; every reassignment also
// writes a staff_assignments audit row and every status change a
// status-log row.
func (a Admin) UpdateComplaintHandler(w http.ResponseWriter, r *http.Request) {
	claims, _ := api.CurrentClaims(r)
	adminID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusInternalServerError, w, err)
		return
	}

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		config.ErrorStatus("failed to parse multipart form", http.StatusBadRequest, w, err)
		return
	}
	complaintID, err := primitive.ObjectIDFromHex(r.FormValue("complaint_id"))
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}
	status := r.FormValue("status")

	var assignedTo primitive.ObjectID
	hasAssignee := false
	if v := r.FormValue("assigned_to"); v != "" {
		assignedTo, err = primitive.ObjectIDFromHex(v)
		if err != nil {
			config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
			return
		}
		hasAssignee = true
	}

	files := r.MultipartForm.File["work_images"]
	prefix := fmt.Sprintf("admin_%s", claims.UserID)
	urls, uploadErrors := uploadAll(r.Context(), a.Uploader, a.Bucket, prefix, files)
	if len(uploadErrors) > 0 {
		config.WriteJSON(w, http.StatusInternalServerError, models.Response{
			Success: false,
			Message: "Failed to upload one or more images",
			Errors:  uploadErrors,
		})
		return
	}

	update := bson.M{"updated_at": time.Now()}
	if status != "" {
		update["status"] = status
	}
	if hasAssignee {
		update["assigned_to"] = assignedTo
	}
	if len(urls) > 0 {
		// the merge base must be read: writing only the new URLs would
		// truncate the stored list
		complaint, err := a.DB.FindOne(context.Background(), bson.M{"_id": complaintID})
		if err != nil {
			config.ErrorStatus("Internal error", http.StatusInternalServerError, w, err)
			return
		}
		existing := []string{}
		if complaint.WorkImages != nil {
			existing = complaint.WorkImages
		}
		update["work_images"] = append(existing, urls...)
	}

	_, err = a.DB.UpdateOne(context.Background(), bson.M{"_id": complaintID}, bson.M{"$set": update})
	if err != nil {
		config.ErrorStatus("Internal error", http.StatusInternalServerError, w, err)
		return
	}

	if hasAssignee {
		_, err = a.AsnDB.InsertOne(context.Background(), models.StaffAssignment{
			ComplaintID: complaintID,
			StaffID:     assignedTo,
			AssignedBy:  adminID,
			CreatedAt:   time.Now(),
		})
		if err != nil {
			config.ErrorStatus("Internal error", http.StatusInternalServerError, w, err)
			return
		}
	}

	if status != "" {
		_, err = a.LogDB.InsertOne(context.Background(), models.StatusLog{
			ComplaintID: complaintID,
			Status:      status,
			CreatedBy:   adminID,
			CreatedAt:   time.Now(),
		})
		if err != nil {
			config.ErrorStatus("Internal error", http.StatusInternalServerError, w, err)
			return
		}
	}

	updated, err := a.DB.FindOne(context.Background(), bson.M{"_id": complaintID})
	if err != nil {
		zap.S().With(err).Error("failed to re-read complaint after update")
		config.WriteJSON(w, http.StatusOK, models.Response{Success: true})
		return
	}
	config.WriteJSON(w, http.StatusOK, models.Response{Success: true, Data: updated})
}

type createUserRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	UserRole  string `json:"user_role"`
	FirstName string `json:"first_name"`
}

// CreateUserHandler provisions a staff or verifier account with a unique
// 4-digit short id for easy reference in the assignment UI.
func (a Admin) CreateUserHandler(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request", http.StatusBadRequest, w, err)
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	role := req.UserRole
	if role == "" {
		role = api.RoleStaff
	}
	firstName := req.FirstName
	if firstName == "" {
		firstName = "Staff"
	}

	if email == "" || req.Password == "" || (role != api.RoleStaff && role != api.RoleVerifier) {
		config.WriteJSON(w, http.StatusBadRequest, models.Response{Success: false, Message: "Invalid input provided."})
		return
	}

	_, err := a.UDB.FindOne(context.Background(), bson.M{"email": email})
	if err == nil {
		config.WriteJSON(w, http.StatusConflict, models.Response{Success: false, Message: "User with this email already exists."})
		return
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		config.ErrorStatus("Internal error", http.StatusInternalServerError, w, err)
		return
	}

	shortID, err := a.generateUniqueShortID(context.Background())
	if err != nil {
		config.ErrorStatus("Internal error", http.StatusInternalServerError, w, err)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		config.ErrorStatus("Internal error", http.StatusInternalServerError, w, err)
		return
	}

	now := time.Now()
	_, err = a.UDB.InsertOne(context.Background(), models.User{
		Email:        email,
		PasswordHash: string(hash),
		FirstName:    firstName,
		UserRole:     role,
		ShortID:      shortID,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		zap.S().With(err).Error("admin failed to create user")
		config.WriteJSON(w, http.StatusInternalServerError, models.Response{Success: false, Message: err.Error()})
		return
	}

	config.WriteJSON(w, http.StatusOK, models.Response{
		Success: true,
		Message: fmt.Sprintf("%s created successfully.", strings.ToUpper(role[:1])+role[1:]),
	})
}

// generateUniqueShortID draws random 4-digit ids until one is free in the
// users collection, bounded by shortIDMaxAttempts.
func (a Admin) generateUniqueShortID(ctx context.Context) (string, error) {
	for attempt := 0; attempt < shortIDMaxAttempts; attempt++ {
		shortID := fmt.Sprintf("%d", 1000+rand.Intn(9000))
		count, err := a.UDB.CountDocuments(ctx, bson.M{"short_id": shortID})
		if err != nil {
			zap.S().With(err).Debug("short id collision check failed, retrying")
			continue
		}
		if count == 0 {
			return shortID, nil
		}
	}
	return "", fmt.Errorf("could not allocate a unique short id after %d attempts", shortIDMaxAttempts)
}

// GetStaffHandler lists staff accounts for the assignment UI.
func (a Admin) GetStaffHandler(w http.ResponseWriter, r *http.Request) {
	users, err := a.UDB.Find(context.Background(), bson.M{"user_role": api.RoleStaff})
	if err != nil {
		config.WriteJSON(w, http.StatusInternalServerError, models.Response{Success: false, Message: err.Error()})
		return
	}

	staff := make([]models.StaffSummary, 0, len(users))
	for _, u := range users {
		staff = append(staff, models.StaffSummary{
			ID:        u.ID,
			FirstName: u.FirstName,
			LastName:  u.LastName,
			ShortID:   u.ShortID,
		})
	}
	config.WriteJSON(w, http.StatusOK, models.Response{Success: true, Data: staff})
}
