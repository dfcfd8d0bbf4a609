package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/civictrack/complaints-api/api"
	"github.com/civictrack/complaints-api/api/scheduler"
	"github.com/civictrack/complaints-api/config"
	"github.com/civictrack/complaints-api/databases"
	"github.com/civictrack/complaints-api/models"
	"github.com/civictrack/complaints-api/storage"
	templates "github.com/civictrack/complaints-api/templates/html"
)

// App stores the router and db connection, so it can be reused
type App struct {
	Router    *mux.Router
	Config    config.Config
	Sessions  *api.SessionManager
	Uploader  storage.Uploader
	Scheduler *scheduler.Scheduler
	dbHelper  databases.DatabaseHelper
}

// New creates a new mux router and all the routes
func (a *App) New() *mux.Router {
	r := mux.NewRouter()
	r.Use(a.Sessions.LoadSession)

	hub := NewNotificationHub()

	auth := Auth{
		UDB:      databases.NewUserDatabase(a.dbHelper),
		ADB:      databases.NewAdminDatabase(a.dbHelper),
		Sessions: a.Sessions,
	}
	c := Complaint{
		DB:       databases.NewComplaintDatabase(a.dbHelper),
		Uploader: a.Uploader,
		Bucket:   a.Config.ComplaintBucket,
	}
	v := Verifier{
		DB:    databases.NewComplaintDatabase(a.dbHelper),
		LogDB: databases.NewStatusLogDatabase(a.dbHelper),
	}
	s := Staff{
		DB:       databases.NewComplaintDatabase(a.dbHelper),
		LogDB:    databases.NewStatusLogDatabase(a.dbHelper),
		NDB:      databases.NewNotificationDatabase(a.dbHelper),
		Uploader: a.Uploader,
		Bucket:   a.Config.WorkBucket,
		Hub:      hub,
	}
	adm := Admin{
		DB:       databases.NewComplaintDatabase(a.dbHelper),
		UDB:      databases.NewUserDatabase(a.dbHelper),
		LogDB:    databases.NewStatusLogDatabase(a.dbHelper),
		AsnDB:    databases.NewAssignmentDatabase(a.dbHelper),
		Uploader: a.Uploader,
		Bucket:   a.Config.WorkBucket,
	}
	f := Feedback{DB: databases.NewFeedbackDatabase(a.dbHelper)}
	n := Notification{DB: databases.NewNotificationDatabase(a.dbHelper), Hub: hub}

	// healthchex
	r.HandleFunc("/health", healthCheckHandler)

	// pages
	r.HandleFunc("/", loginPageHandler).Methods("GET")
	r.HandleFunc("/register", registerPageHandler).Methods("GET")
	r.Handle("/user", api.RequireRolePage(api.RoleUser)(dashboardHandler(api.RoleUser))).Methods("GET")
	r.Handle("/admin", api.RequireRolePage(api.RoleAdmin)(dashboardHandler(api.RoleAdmin))).Methods("GET")
	r.Handle("/verifier", api.RequireRolePage(api.RoleVerifier)(dashboardHandler(api.RoleVerifier))).Methods("GET")
	r.Handle("/staff", api.RequireRolePage(api.RoleStaff)(dashboardHandler(api.RoleStaff))).Methods("GET")

	// auth
	r.HandleFunc("/register", auth.RegisterHandler).Methods("POST")
	r.HandleFunc("/login", auth.LoginHandler).Methods("POST")
	r.HandleFunc("/logout", auth.LogoutHandler).Methods("GET")

	// complaints
	r.Handle("/submit_complaint", api.RequireRole(api.RoleUser)(http.HandlerFunc(c.SubmitComplaintHandler))).Methods("POST")
	r.Handle("/get_complaints", api.RequireRole()(http.HandlerFunc(c.GetComplaintsHandler))).Methods("GET")
	r.Handle("/verifier_complaints", api.RequireRole(api.RoleVerifier)(http.HandlerFunc(c.VerifierComplaintsHandler))).Methods("GET")
	r.Handle("/staff_complaints", api.RequireRole(api.RoleStaff)(http.HandlerFunc(c.StaffComplaintsHandler))).Methods("GET")
	r.Handle("/verify_complaint", api.RequireRole(api.RoleVerifier)(http.HandlerFunc(v.VerifyComplaintHandler))).Methods("POST")
	r.Handle("/staff_update", api.RequireRole(api.RoleStaff)(http.HandlerFunc(s.StaffUpdateHandler))).Methods("POST")
	r.Handle("/update_complaint", api.RequireRole(api.RoleAdmin)(http.HandlerFunc(adm.UpdateComplaintHandler))).Methods("POST")

	// feedback and notifications
	r.Handle("/feedback", api.RequireRole()(http.HandlerFunc(f.SubmitFeedbackHandler))).Methods("POST")
	r.Handle("/notifications", api.RequireRole()(http.HandlerFunc(n.ListNotificationsHandler))).Methods("GET")
	r.Handle("/ws/notifications", api.RequireRole()(http.HandlerFunc(n.WebSocketHandler))).Methods("GET")

	// admin account management
	r.Handle("/admin/create_user", api.RequireRole(api.RoleAdmin)(http.HandlerFunc(adm.CreateUserHandler))).Methods("POST")
	r.Handle("/api/get_staff", api.RequireRole(api.RoleAdmin)(http.HandlerFunc(adm.GetStaffHandler))).Methods("GET")

	return r
}

// Initialize is invoked by main to connect with the database and create a router
func (a *App) Initialize() error {

	client, err := databases.NewClient(&a.Config)
	if err != nil {
		// if we fail to create a new database client, then kill the pod
		zap.S().With(err).Error("failed to create new client")
		return err
	}

	a.dbHelper = databases.NewDatabase(&a.Config, client)
	err = client.Connect()
	if err != nil {
		// if we fail to connect to the database, then kill the pod
		zap.S().With(err).Error("failed to connect to database")
		return err
	}
	zap.S().Info("complaints-api has connected to the database")

	if err := databases.EnsureHeadAdmin(a.dbHelper); err != nil {
		zap.S().With(err).Error("failed to bootstrap head admin")
		return err
	}

	if a.Config.CloudinaryURL == "" {
		return fmt.Errorf("cloudinary url is not set")
	}
	uploader, err := storage.NewCloudinaryUploader(a.Config.CloudinaryURL)
	if err != nil {
		zap.S().With(err).Error("failed to create cloudinary uploader")
		return err
	}
	a.Uploader = uploader

	a.Sessions = api.NewSessionManager(a.Config.SessionKey)

	a.Scheduler = scheduler.NewScheduler(
		databases.NewComplaintDatabase(a.dbHelper),
		databases.NewAdminDatabase(a.dbHelper),
		a.Config.SendgridAPIKey,
	)
	a.Scheduler.Start()

	// initialize api router
	a.initializeRoutes()
	return nil

}

func (a *App) initializeRoutes() {
	a.Router = a.New()
}

// SetDatabase injects the database helper, exported for testing purposes
func (a *App) SetDatabase(db databases.DatabaseHelper) {
	a.dbHelper = db
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	b, _ := json.Marshal(models.HealthCheckResponse{
		Alive: true,
	})
	_, _ = io.WriteString(w, string(b))
}

func loginPageHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = io.WriteString(w, templates.RenderLoginPage())
}

func registerPageHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = io.WriteString(w, templates.RenderRegisterPage(""))
}

func dashboardHandler(role string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = io.WriteString(w, templates.RenderDashboardPage(role))
	})
}
