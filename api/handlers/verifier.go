package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/civictrack/complaints-api/api"
	"github.com/civictrack/complaints-api/config"
	"github.com/civictrack/complaints-api/databases"
	"github.com/civictrack/complaints-api/models"
)

// Verifier exported for testing purposes
type Verifier struct {
	DB    databases.ComplaintDatabase
	LogDB databases.StatusLogDatabase
}

type verifyRequest struct {
	ComplaintID        string `json:"complaint_id"`
	VerificationStatus string `json:"verification_status"`
	VerificationNotes  string `json:"verification_notes"`
}

// VerifyComplaintHandler records a triage decision. The decision must be
// Verified or Rejected; anything else is rejected before any write, so an
// invalid decision never produces a status-log row. The status update and
// the log append are sequential best-effort writes, not a transaction.
func (v Verifier) VerifyComplaintHandler(w http.ResponseWriter, r *http.Request) {
	claims, _ := api.CurrentClaims(r)

	var req verifyRequest
	if isJSONRequest(r) {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			config.ErrorStatus("failed to decode request", http.StatusBadRequest, w, err)
			return
		}
	} else {
		if err := r.ParseForm(); err != nil {
			config.ErrorStatus("failed to parse form", http.StatusBadRequest, w, err)
			return
		}
		req = verifyRequest{
			ComplaintID:        r.FormValue("complaint_id"),
			VerificationStatus: r.FormValue("verification_status"),
			VerificationNotes:  r.FormValue("verification_notes"),
		}
	}

	if req.ComplaintID == "" ||
		(req.VerificationStatus != models.StatusVerified && req.VerificationStatus != models.StatusRejected) {
		config.WriteJSON(w, http.StatusBadRequest, models.Response{Success: false, Message: "Invalid input"})
		return
	}

	complaintID, err := primitive.ObjectIDFromHex(req.ComplaintID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}
	verifierID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusInternalServerError, w, err)
		return
	}

	_, err = v.DB.UpdateOne(context.Background(),
		bson.M{"_id": complaintID},
		bson.M{"$set": bson.M{"status": req.VerificationStatus}},
	)
	if err != nil {
		config.ErrorStatus("Internal error", http.StatusInternalServerError, w, err)
		return
	}

	_, err = v.LogDB.InsertOne(context.Background(), models.StatusLog{
		ComplaintID: complaintID,
		Status:      req.VerificationStatus,
		Notes:       req.VerificationNotes,
		CreatedBy:   verifierID,
		CreatedAt:   time.Now(),
	})
	if err != nil {
		config.ErrorStatus("Internal error", http.StatusInternalServerError, w, err)
		return
	}

	config.WriteJSON(w, http.StatusOK, models.Response{Success: true})
}
