package service

import (
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/MALVV/cms-estrella-sur-sub002/internal/errors"
	"github.com/MALVV/cms-estrella-sur-sub002/internal/storage"
	"github.com/MALVV/cms-estrella-sur-sub002/internal/util"

	"go.uber.org/zap"
)

// AllowedProofMIMETypes is the fixed allow-list for proof-of-payment images.
var AllowedProofMIMETypes = []string{
	"image/jpeg",
	"image/png",
	"image/webp",
	"image/gif",
}

// cleanupTimeout bounds the best-effort delete of a superseded proof image.
const cleanupTimeout = 15 * time.Second

// ProofUpload is the result handed back to the approval flow.
type ProofUpload struct {
	URL string `json:"url"`
	Alt string `json:"alt"`
}

// ProofService stores proof-of-payment images. Uploads are deferred by the
// admin UI until the approval is confirmed, so everything that arrives here
// is about to be attached to a status change.
type ProofService struct {
	storage  storage.FileStorage
	maxBytes int64
}

func NewProofService(fileStorage storage.FileStorage, maxUploadSizeMB int) *ProofService {
	return &ProofService{
		storage:  fileStorage,
		maxBytes: int64(maxUploadSizeMB) << 20,
	}
}

// MaxBytes returns the configured upload limit in bytes.
func (s *ProofService) MaxBytes() int64 {
	return s.maxBytes
}

// ValidateProofFile checks size and content type before anything is stored.
// A file of exactly the limit passes; one byte over fails. The type is
// sniffed from the leading bytes rather than trusted from the client header.
func (s *ProofService) ValidateProofFile(file *multipart.FileHeader) error {
	if file.Size > s.maxBytes {
		return errors.New(errors.ErrProofTooLarge,
			fmt.Sprintf("file exceeds the maximum size of %d MB", s.maxBytes>>20))
	}

	contentType, err := sniffContentType(file)
	if err != nil {
		return errors.Wrap(errors.ErrInvalidProofFile, "could not read uploaded file", err)
	}
	for _, allowed := range AllowedProofMIMETypes {
		if contentType == allowed {
			return nil
		}
	}
	return errors.New(errors.ErrInvalidProofFile,
		fmt.Sprintf("file type %s is not allowed, expected an image (JPEG, PNG, WEBP or GIF)", contentType))
}

func sniffContentType(file *multipart.FileHeader) (string, error) {
	f, err := file.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()

	buf := make([]byte, 512)
	n, err := f.Read(buf)
	if err != nil && n == 0 {
		return "", err
	}
	return http.DetectContentType(buf[:n]), nil
}

// StoreProof validates and uploads a proof image, returning its public URL.
// When previousURL names a superseded upload, it is deleted best-effort; that
// cleanup never fails the new upload.
func (s *ProofService) StoreProof(file *multipart.FileHeader, alt, previousURL string) (*ProofUpload, error) {
	if err := s.ValidateProofFile(file); err != nil {
		return nil, err
	}

	path := fmt.Sprintf("donations/proofs/%s", util.GenerateUniqueFilename(file.Filename))
	url, err := s.storage.UploadFile(file, path)
	if err != nil {
		util.Logger.Error("failed to store proof image", zap.Error(err), zap.String("path", path))
		return nil, errors.Wrap(errors.ErrStorage, "failed to store proof image", err)
	}

	if previousURL != "" {
		s.deletePrevious(previousURL)
	}

	util.Logger.Info("proof image stored", zap.String("url", url))
	return &ProofUpload{URL: url, Alt: alt}, nil
}

// deletePrevious removes a superseded proof image. Failures are logged and
// swallowed: this is housekeeping, not part of the approval.
func (s *ProofService) deletePrevious(previousURL string) {
	ctx, cancel := context.WithTimeout(context.Background(), cleanupTimeout)
	defer cancel()

	if err := s.storage.DeleteFile(ctx, previousURL); err != nil {
		util.Logger.Warn("failed to delete superseded proof image",
			zap.Error(err),
			zap.String("previous_url", previousURL))
	}
}
