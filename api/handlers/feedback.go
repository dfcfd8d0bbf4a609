package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/civictrack/complaints-api/api"
	"github.com/civictrack/complaints-api/config"
	"github.com/civictrack/complaints-api/databases"
	"github.com/civictrack/complaints-api/models"
)

// Feedback exported for testing purposes
type Feedback struct {
	DB databases.FeedbackDatabase
}

type feedbackRequest struct {
	ComplaintID string `json:"complaint_id"`
	Rating      int    `json:"rating"`
	Comments    string `json:"comments"`
}

// SubmitFeedbackHandler stores resolution feedback against a complaint.
func (f Feedback) SubmitFeedbackHandler(w http.ResponseWriter, r *http.Request) {
	claims, _ := api.CurrentClaims(r)

	var req feedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request", http.StatusBadRequest, w, err)
		return
	}

	complaintID, err := primitive.ObjectIDFromHex(req.ComplaintID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}
	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusInternalServerError, w, err)
		return
	}

	_, err = f.DB.InsertOne(context.Background(), models.Feedback{
		ComplaintID: complaintID,
		Rating:      req.Rating,
		Comments:    req.Comments,
		CreatedBy:   userID,
		CreatedAt:   time.Now(),
	})
	if err != nil {
		config.ErrorStatus("Internal error", http.StatusInternalServerError, w, err)
		return
	}

	config.WriteJSON(w, http.StatusOK, models.Response{Success: true})
}
