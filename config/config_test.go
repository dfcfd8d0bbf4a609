package config_test

import (
	"errors"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/civictrack/complaints-api/config"
	"github.com/civictrack/complaints-api/models"
)

func TestNew_BucketDefaults(t *testing.T) {
	os.Unsetenv("COMPLAINT_BUCKET")
	os.Unsetenv("WORK_BUCKET")

	conf := config.New()

	assert.Equal(t, "complaint-images", conf.ComplaintBucket)
	assert.Equal(t, "work-images", conf.WorkBucket)
}

func TestNew_BucketOverrides(t *testing.T) {
	os.Setenv("COMPLAINT_BUCKET", "my-complaints")
	os.Setenv("WORK_BUCKET", "my-work")
	defer os.Unsetenv("COMPLAINT_BUCKET")
	defer os.Unsetenv("WORK_BUCKET")

	conf := config.New()

	assert.Equal(t, "my-complaints", conf.ComplaintBucket)
	assert.Equal(t, "my-work", conf.WorkBucket)
}

func TestErrorStatus(t *testing.T) {
	rr := httptest.NewRecorder()

	config.ErrorStatus("Not authorized", 403, rr, errors.New("underlying detail"))

	assert.Equal(t, 403, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"success":false,"message":"Not authorized"}`, rr.Body.String())
	// the underlying error is logged, never surfaced
	assert.NotContains(t, rr.Body.String(), "underlying detail")
}

func TestWriteJSON(t *testing.T) {
	rr := httptest.NewRecorder()

	config.WriteJSON(rr, 201, models.Response{Success: true, Message: "Registration successful"})

	assert.Equal(t, 201, rr.Code)
	assert.JSONEq(t, `{"success":true,"message":"Registration successful"}`, rr.Body.String())
}
