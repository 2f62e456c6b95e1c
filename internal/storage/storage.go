package storage

import (
	"context"
	"mime/multipart"
)

// FileStorage abstracts where uploaded files live. UploadFile returns the
// value to persist (a relative path for local storage, a full URL for the
// cloud backends); DeleteFile accepts that same value back.
type FileStorage interface {
	UploadFile(file *multipart.FileHeader, path string) (string, error)
	DeleteFile(ctx context.Context, location string) error
}
