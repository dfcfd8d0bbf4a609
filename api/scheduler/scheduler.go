package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"github.com/civictrack/complaints-api/databases"
	"github.com/civictrack/complaints-api/models"
	templates "github.com/civictrack/complaints-api/templates/html"
)

// staleAfter is how long a complaint may sit Open before it appears in the
// daily admin digest.
const staleAfter = 72 * time.Hour

// Scheduler runs the periodic background jobs: currently the daily digest
// of complaints stuck in Open.
type Scheduler struct {
	cron        *cron.Cron
	CDB         databases.ComplaintDatabase
	ADB         databases.AdminDatabase
	sendgridKey string
}

// NewScheduler creates a new scheduler instance.
func NewScheduler(cDB databases.ComplaintDatabase, aDB databases.AdminDatabase, sendgridKey string) *Scheduler {
	return &Scheduler{
		cron:        cron.New(cron.WithLocation(time.UTC)),
		CDB:         cDB,
		ADB:         aDB,
		sendgridKey: sendgridKey,
	}
}

// Start begins the scheduler with all registered jobs.
func (s *Scheduler) Start() {
	// Daily at 3 AM UTC: remind admins about complaints still awaiting triage
	_, err := s.cron.AddFunc("0 3 * * *", s.remindStaleOpen)
	if err != nil {
		zap.S().Errorw("failed to register stale-open digest job", "error", err)
	}

	s.cron.Start()
	zap.S().Info("complaint scheduler started")
}

// Stop gracefully stops the scheduler.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	zap.S().Info("complaint scheduler stopped")
}

// remindStaleOpen emails every admin a digest of complaints that have been
// Open longer than staleAfter. No digest is sent when nothing is stale.
func (s *Scheduler) remindStaleOpen() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	cutoff := time.Now().Add(-staleAfter)
	complaints, err := s.CDB.Find(ctx, bson.M{
		"status":     models.StatusOpen,
		"created_at": bson.M{"$lt": cutoff},
	})
	if err != nil {
		zap.S().Errorw("failed to find stale open complaints", "error", err)
		return
	}
	if len(complaints) == 0 {
		zap.S().Debug("no stale open complaints, skipping digest")
		return
	}

	rows := make([]templates.StaleComplaintRow, 0, len(complaints))
	now := time.Now()
	for _, c := range complaints {
		rows = append(rows, templates.StaleComplaintRow{
			Title:   c.Title,
			City:    c.City,
			AgeDays: int(now.Sub(c.CreatedAt).Hours() / 24),
		})
	}
	htmlContent := templates.RenderStaleOpenDigest(rows)

	admins, err := s.ADB.Find(ctx, bson.M{})
	if err != nil {
		zap.S().Errorw("failed to list admins for digest", "error", err)
		return
	}

	sent := 0
	for _, admin := range admins {
		if admin.Email == "" {
			continue
		}
		if err := s.sendEmail(admin.Email, admin.Name,
			"Daily digest: open complaints awaiting triage",
			htmlContent,
			"Some complaints have been open for more than three days. Please log in to review them.",
		); err != nil {
			zap.S().Errorw("failed to send stale-open digest", "error", err, "email", admin.Email)
			continue
		}
		sent++
	}

	zap.S().Infow("stale-open digest complete", "staleComplaints", len(complaints), "digestsSent", sent)
}

func (s *Scheduler) sendEmail(toEmail, toName, subject, htmlContent, plainText string) error {
	from := mail.NewEmail("Civic Complaints", "no-reply@civiccomplaints.app")
	to := mail.NewEmail(toName, toEmail)
	message := mail.NewSingleEmail(from, subject, to, plainText, htmlContent)
	client := sendgrid.NewSendClient(s.sendgridKey)
	response, err := client.Send(message)
	if err != nil {
		return err
	}
	if response.StatusCode >= 400 {
		zap.S().Errorw("sendgrid returned error status", "status", response.StatusCode, "body", response.Body)
	}
	return nil
}
