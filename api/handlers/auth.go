package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
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
	templates "github.com/civictrack/complaints-api/templates/html"
)

// Auth exported for testing purposes
type Auth struct {
	UDB      databases.UserDatabase
	ADB      databases.AdminDatabase
	Sessions *api.SessionManager
}

type registerRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	AadharCard  string `json:"aadhar_card"`
	PhoneNumber string `json:"phone_number"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
}

type loginRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	LoginType string `json:"login_type"`
}

// RegisterHandler creates a citizen account. Staff and verifiers are
// provisioned by admins, never here: the role is fixed to user.
func (a Auth) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
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
		req = registerRequest{
			Email:       r.FormValue("email"),
			Password:    r.FormValue("password"),
			AadharCard:  r.FormValue("aadhar_card"),
			PhoneNumber: r.FormValue("phone_number"),
			FirstName:   r.FormValue("first_name"),
			LastName:    r.FormValue("last_name"),
		}
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	first := strings.TrimSpace(req.FirstName)

	if email == "" || req.Password == "" || first == "" {
		a.registerFailure(w, r, http.StatusBadRequest, "Missing required fields")
		return
	}
	if len(req.Password) < 6 {
		a.registerFailure(w, r, http.StatusBadRequest, "Password must be at least 6 characters")
		return
	}

	// Duplicate check is best-effort: a failed lookup is logged and
	// registration proceeds, relying on the 500 from the insert if the
	// store is really down.
	_, err := a.UDB.FindOne(context.Background(), bson.M{"email": email})
	if err == nil {
		a.registerFailure(w, r, http.StatusConflict, "Email already registered")
		return
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		zap.S().With(err).Error("failed checking existing user")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		a.registerFailure(w, r, http.StatusInternalServerError, "Internal error")
		return
	}

	now := time.Now()
	user := models.User{
		FirstName:    first,
		LastName:     strings.TrimSpace(req.LastName),
		AadharCard:   strings.TrimSpace(req.AadharCard),
		Email:        email,
		PhoneNumber:  strings.TrimSpace(req.PhoneNumber),
		PasswordHash: string(hash),
		UserRole:     api.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	res, err := a.UDB.InsertOne(context.Background(), user)
	if err != nil {
		zap.S().With(err).Error("registration failed")
		a.registerFailure(w, r, http.StatusInternalServerError, err.Error())
		return
	}
	if oid, ok := res.Decode().(primitive.ObjectID); ok {
		user.ID = oid
	}

	if wantsJSON(r) {
		config.WriteJSON(w, http.StatusCreated, models.Response{
			Success: true,
			Message: "Registration successful",
			Data:    user,
		})
		return
	}
	http.Redirect(w, r, "/", http.StatusFound)
}

// registerFailure answers in the caller's dialect: a JSON envelope for API
// clients, the register page with an inlined error for browsers.
func (a Auth) registerFailure(w http.ResponseWriter, r *http.Request, code int, msg string) {
	if wantsJSON(r) {
		config.WriteJSON(w, code, models.Response{Success: false, Message: msg})
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(code)
	_, _ = io.WriteString(w, templates.RenderRegisterPage(msg))
}

// LoginHandler establishes a session. login_type=admin resolves against the
// admins collection; everything else against users, with the stored role
// checked against the hint.
func (a Auth) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
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
		req = loginRequest{
			Email:     r.FormValue("email"),
			Password:  r.FormValue("password"),
			LoginType: r.FormValue("login_type"),
		}
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		config.WriteJSON(w, http.StatusBadRequest, models.Response{Success: false, Message: "Missing credentials"})
		return
	}
	loginType := req.LoginType
	if loginType == "" {
		loginType = api.RoleUser
	}

	if loginType == api.RoleAdmin {
		admin, err := a.ADB.FindOne(context.Background(), bson.M{"email": email})
		if errors.Is(err, mongo.ErrNoDocuments) {
			config.WriteJSON(w, http.StatusNotFound, models.Response{Success: false, Message: "Admin not found"})
			return
		}
		if err != nil {
			config.ErrorStatus("Internal error", http.StatusInternalServerError, w, err)
			return
		}
		if bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(req.Password)) != nil {
			config.WriteJSON(w, http.StatusUnauthorized, models.Response{Success: false, Message: "Invalid credentials"})
			return
		}
		err = a.Sessions.Establish(w, r, api.Claims{UserID: admin.ID.Hex(), Role: api.RoleAdmin, Email: admin.Email})
		if err != nil {
			config.ErrorStatus("Internal error", http.StatusInternalServerError, w, err)
			return
		}
		config.WriteJSON(w, http.StatusOK, models.Response{Success: true, UserType: api.RoleAdmin})
		return
	}

	user, err := a.UDB.FindOne(context.Background(), bson.M{"email": email})
	if errors.Is(err, mongo.ErrNoDocuments) {
		config.WriteJSON(w, http.StatusNotFound, models.Response{Success: false, Message: "User not found"})
		return
	}
	if err != nil {
		config.ErrorStatus("Internal error", http.StatusInternalServerError, w, err)
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		config.WriteJSON(w, http.StatusUnauthorized, models.Response{Success: false, Message: "Invalid credentials"})
		return
	}

	role := user.UserRole
	if role == "" {
		role = api.RoleUser
	}
	if loginType != api.RoleUser && role != loginType {
		config.WriteJSON(w, http.StatusForbidden, models.Response{
			Success: false,
			Message: fmt.Sprintf("This account is not a %s", loginType),
		})
		return
	}

	err = a.Sessions.Establish(w, r, api.Claims{UserID: user.ID.Hex(), Role: role, Email: user.Email})
	if err != nil {
		config.ErrorStatus("Internal error", http.StatusInternalServerError, w, err)
		return
	}
	config.WriteJSON(w, http.StatusOK, models.Response{Success: true, UserType: role})
}

// LogoutHandler clears the session unconditionally. Only callers asking for
// exactly application/json get a JSON body; browsers are sent back to login.
func (a Auth) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	if err := a.Sessions.Clear(w, r); err != nil {
		zap.S().With(err).Error("failed to clear session")
	}
	if r.Header.Get("Accept") == "application/json" {
		config.WriteJSON(w, http.StatusOK, models.Response{Success: true})
		return
	}
	http.Redirect(w, r, "/", http.StatusFound)
}

func isJSONRequest(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Content-Type"), "application/json")
}

func wantsJSON(r *http.Request) bool {
	return isJSONRequest(r) || strings.Contains(r.Header.Get("Accept"), "application/json")
}
