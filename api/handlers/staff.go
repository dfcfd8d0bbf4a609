package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/civictrack/complaints-api/api"
	"github.com/civictrack/complaints-api/config"
	"github.com/civictrack/complaints-api/databases"
	"github.com/civictrack/complaints-api/models"
	"github.com/civictrack/complaints-api/storage"
)

// Staff exported for testing purposes
type Staff struct {
	DB       databases.ComplaintDatabase
	LogDB    databases.StatusLogDatabase
	NDB      databases.NotificationDatabase
	Uploader storage.Uploader
	Bucket   string
	Hub      *NotificationHub
}

// StaffUpdateHandler progresses an assigned complaint: optional free-text
// status, optional evidence photos appended to work_images, a notification
// to the complaint's owner, and a status-log row. The image merge is a
// read-modify-write; concurrent updates against the same complaint can
// race.
func (s Staff) StaffUpdateHandler(w http.ResponseWriter, r *http.Request) {
	claims, _ := api.CurrentClaims(r)
	staffID, err := primitive.ObjectIDFromHex(claims.UserID)
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

	files := r.MultipartForm.File["work_images"]
	prefix := fmt.Sprintf("staff_%s", claims.UserID)
	urls, uploadErrors := uploadAll(r.Context(), s.Uploader, s.Bucket, prefix, files)
	if len(uploadErrors) > 0 {
		config.WriteJSON(w, http.StatusInternalServerError, models.Response{
			Success: false,
			Message: "Failed to upload one or more images",
			Errors:  uploadErrors,
		})
		return
	}

	logStatus := status
	if logStatus == "" {
		logStatus = "In Progress"
	}

	// The pre-update read serves two purposes: the owner notification and
	// the work_images merge base. When new uploads exist the merge cannot
	// proceed without it, or the stored list would be truncated to just the
	// new URLs; a failed read then aborts the request. Without uploads a
	// failed read only costs the notification, which is logged and
	// swallowed.
	complaint, err := s.DB.FindOne(context.Background(), bson.M{"_id": complaintID})
	if err != nil {
		if len(urls) > 0 {
			config.ErrorStatus("Internal error", http.StatusInternalServerError, w, err)
			return
		}
		zap.S().With(err).Errorw("failed to look up complaint for notification", "complaint_id", complaintID.Hex())
	} else {
		s.notifyOwner(complaint, complaintID, logStatus)
	}

	update := bson.M{}
	if status != "" {
		update["status"] = status
	}
	if len(urls) > 0 {
		existing := []string{}
		if complaint.WorkImages != nil {
			existing = complaint.WorkImages
		}
		update["work_images"] = append(existing, urls...)
	}
	if len(update) > 0 {
		_, err = s.DB.UpdateOne(context.Background(), bson.M{"_id": complaintID}, bson.M{"$set": update})
		if err != nil {
			config.ErrorStatus("Internal error", http.StatusInternalServerError, w, err)
			return
		}
	}
	_, err = s.LogDB.InsertOne(context.Background(), models.StatusLog{
		ComplaintID: complaintID,
		Status:      logStatus,
		CreatedBy:   staffID,
		CreatedAt:   time.Now(),
	})
	if err != nil {
		config.ErrorStatus("Internal error", http.StatusInternalServerError, w, err)
		return
	}

	config.WriteJSON(w, http.StatusOK, models.Response{Success: true})
}

func (s Staff) notifyOwner(complaint *models.Complaint, complaintID primitive.ObjectID, status string) {
	message := fmt.Sprintf("Your complaint '%s...' has been updated to '%s'.", truncateRunes(complaint.Title, 20), status)
	notification := models.Notification{
		UserID: complaint.UserID,
		Type:   models.NotificationTypeStatusUpdate,
		Payload: models.NotificationPayload{
			ComplaintID: complaintID,
			Message:     message,
		},
		CreatedAt: time.Now(),
	}
	if _, err := s.NDB.InsertOne(context.Background(), notification); err != nil {
		zap.S().With(err).Error("failed to create notification")
		return
	}
	if s.Hub != nil {
		s.Hub.Push(complaint.UserID.Hex(), notification)
	}
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
