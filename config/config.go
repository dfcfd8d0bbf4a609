package config

import (
	"encoding/json"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/civictrack/complaints-api/models"
)

// Config holds the project config values
type Config struct {
	URL             string
	DatabaseName    string
	BaseURL         string
	Port            string
	SessionKey      string
	CloudinaryURL   string
	ComplaintBucket string
	WorkBucket      string
	SendgridAPIKey  string
}

// New sets up all config related services
func New() *Config {

	// best-effort .env load for local development
	_ = godotenv.Load()

	//setup zap logger and replace default logger
	logger := zap.NewExample()
	defer logger.Sync()
	_ = zap.ReplaceGlobals(logger)

	return &Config{
		URL:             os.Getenv("DB_URI"),
		DatabaseName:    os.Getenv("DB_NAME"),
		BaseURL:         os.Getenv("BASE_URL"),
		Port:            os.Getenv("PORT"),
		SessionKey:      os.Getenv("SESSION_KEY"),
		CloudinaryURL:   os.Getenv("CLOUDINARY_URL"),
		ComplaintBucket: getEnv("COMPLAINT_BUCKET", "complaint-images"),
		WorkBucket:      getEnv("WORK_BUCKET", "work-images"),
		SendgridAPIKey:  os.Getenv("SENDGRID_API_KEY"),
	}

}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// ErrorStatus logs the underlying error and writes the failure envelope with
// the given message and status code. The error itself never reaches the
// caller, only the message.
func ErrorStatus(message string, httpStatusCode int, w http.ResponseWriter, err error) {
	zap.S().With(err).Error(message)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatusCode)
	_ = json.NewEncoder(w).Encode(models.Response{Success: false, Message: message})
}

// WriteJSON writes a success envelope with the given status code.
func WriteJSON(w http.ResponseWriter, httpStatusCode int, resp models.Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatusCode)
	_ = json.NewEncoder(w).Encode(resp)
}
