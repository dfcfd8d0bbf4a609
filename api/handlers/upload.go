package handlers

import (
	"context"
	"mime/multipart"

	"go.uber.org/zap"

	"github.com/civictrack/complaints-api/storage"
)

// maxUploadMemory bounds the in-memory portion of multipart parsing.
const maxUploadMemory = 32 << 20

// uploadAll uploads every named file under <prefix>/<random hex>_<name> into
// the bucket and returns the resolved URLs. Per-file failures are collected;
// the caller aborts the request when any are present. Files uploaded before
// a failure are not rolled back.
func uploadAll(ctx context.Context, up storage.Uploader, bucket, prefix string, files []*multipart.FileHeader) ([]string, []string) {
	var urls []string
	var uploadErrors []string
	for _, fh := range files {
		if fh == nil || fh.Filename == "" {
			continue
		}
		f, err := fh.Open()
		if err != nil {
			zap.S().With(err).Errorw("failed to open uploaded file", "filename", fh.Filename)
			uploadErrors = append(uploadErrors, err.Error())
			continue
		}
		destPath := storage.ObjectPath(prefix, fh.Filename)
		url, err := up.Upload(ctx, bucket, destPath, f)
		_ = f.Close()
		if err != nil {
			zap.S().With(err).Errorw("failed to upload file", "bucket", bucket, "path", destPath)
			uploadErrors = append(uploadErrors, err.Error())
			continue
		}
		urls = append(urls, url)
	}
	return urls, uploadErrors
}
