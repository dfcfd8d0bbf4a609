package storage_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/civictrack/complaints-api/storage"
)

func TestSanitizeFilename(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"photo.jpg", "photo.jpg"},
		{"my photo.jpg", "my_photo.jpg"},
		{"../../etc/passwd", "passwd"},
		{`C:\Users\me\photo.jpg`, "photo.jpg"},
		{".hidden", "hidden"},
		{"résumé.pdf", "rsum.pdf"},
		{"", "file"},
		{"///", "file"},
	}

	for _, c := range cases {
		assert.Equal(t, c.want, storage.SanitizeFilename(c.in), "input: %q", c.in)
	}
}

func TestObjectPath(t *testing.T) {
	p := storage.ObjectPath("staff_64f0", "my photo.jpg")

	assert.True(t, strings.HasPrefix(p, "staff_64f0/"), "path: %s", p)
	assert.True(t, strings.HasSuffix(p, "_my_photo.jpg"), "path: %s", p)

	// random segment keeps repeated uploads of the same file distinct
	assert.NotEqual(t, p, storage.ObjectPath("staff_64f0", "my photo.jpg"))
}
