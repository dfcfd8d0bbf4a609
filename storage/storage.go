package storage

// go generate: mockery --name Uploader

import (
	"context"
	"fmt"
	"io"
	"path"
	"regexp"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Uploader stores raw bytes under bucket/path and returns a retrievable URL.
type Uploader interface {
	Upload(ctx context.Context, bucket, destPath string, r io.Reader) (string, error)
}

// CloudinaryUploader uploads media to Cloudinary. Buckets map to folders.
type CloudinaryUploader struct {
	cld *cloudinary.Cloudinary
}

// NewCloudinaryUploader builds an uploader from a cloudinary:// URL.
func NewCloudinaryUploader(cloudinaryURL string) (*CloudinaryUploader, error) {
	cld, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		return nil, err
	}
	return &CloudinaryUploader{cld: cld}, nil
}

// Upload stores the bytes and resolves a URL: the public secure URL when the
// upload response carries one, a signed delivery URL otherwise, and the raw
// public ID as a last resort. Matches the store's availability contract: the
// caller always gets back something it can persist on the complaint row.
func (u *CloudinaryUploader) Upload(ctx context.Context, bucket, destPath string, r io.Reader) (string, error) {
	resp, err := u.cld.Upload.Upload(ctx, r, uploader.UploadParams{
		PublicID: destPath,
		Folder:   bucket,
	})
	if err != nil {
		return "", err
	}
	if resp.SecureURL != "" {
		return resp.SecureURL, nil
	}
	if resp.URL != "" {
		return resp.URL, nil
	}
	zap.S().Warnw("public URL resolution failed, trying signed URL", "public_id", resp.PublicID)
	if signed, err := u.signedURL(resp.PublicID); err == nil && signed != "" {
		return signed, nil
	}
	return resp.PublicID, nil
}

func (u *CloudinaryUploader) signedURL(publicID string) (string, error) {
	img, err := u.cld.Image(publicID)
	if err != nil {
		return "", err
	}
	img.Config.URL.SignURL = true
	return img.String()
}

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

// SanitizeFilename reduces an uploaded filename to a safe basename: path
// components stripped, spaces underscored, anything outside
// [A-Za-z0-9_.-] removed, leading dots dropped.
func SanitizeFilename(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = path.Base(name)
	name = strings.ReplaceAll(name, " ", "_")
	name = unsafeFilenameChars.ReplaceAllString(name, "")
	name = strings.TrimLeft(name, ".")
	if name == "" {
		name = "file"
	}
	return name
}

// ObjectPath builds the destination path for an upload owned by prefix:
// <prefix>/<random hex>_<sanitized name>.
func ObjectPath(prefix, filename string) string {
	hex := strings.ReplaceAll(uuid.NewString(), "-", "")
	return fmt.Sprintf("%s/%s_%s", prefix, hex, SanitizeFilename(filename))
}
