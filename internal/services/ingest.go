package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image/png"
	"mime"
	"net/http"
	"path"
	"strings"
	"time"

	"portfolio-backend-go/internal/pdfthumb"
	"portfolio-backend-go/internal/storage"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	FolderBentoGrid    = "bento-grid"
	FolderAchievements = "achievements"
	mimePDF            = "application/pdf"
	mimePNG            = "image/png"

	storageHint    = "Check that the storage bucket exists, is public, and that its write policies allow uploads."
	processingHint = "Make sure the server was built with MuPDF support, or upload the certificate as PNG/JPG."
)

type IngestConfig struct {
	MaxImageBytes int64
	MaxPDFBytes   int64
	DefaultFolder string
}

// Upload is one file taken from a multipart form.
type Upload struct {
	Filename    string
	ContentType string
	Data        []byte
	Folder      string
}

type UploadResult struct {
	URL  string `json:"url"`
	Path string `json:"path"`
}

type CertificateResult struct {
	URL             string `json:"url"`
	Path            string `json:"path"`
	IsPDF           bool   `json:"isPdf"`
	CertificateType string `json:"certificate_type"`
}

// Ingestor validates uploads and writes them to the bucket under a
// collision-resistant name. Nothing is written when validation fails.
type Ingestor struct {
	Bucket   storage.Bucket
	Renderer pdfthumb.Renderer
	Config   IngestConfig
	Log      logrus.FieldLogger
	Now      func() time.Time
}

func NewIngestor(bucket storage.Bucket, renderer pdfthumb.Renderer, cfg IngestConfig, log logrus.FieldLogger) *Ingestor {
	if cfg.DefaultFolder == "" {
		cfg.DefaultFolder = FolderBentoGrid
	}
	return &Ingestor{Bucket: bucket, Renderer: renderer, Config: cfg, Log: log, Now: time.Now}
}

func (i *Ingestor) IngestImage(ctx context.Context, up Upload) (UploadResult, error) {
	if len(up.Data) == 0 {
		return UploadResult{}, ErrMissingFile()
	}
	contentType := detectType(up.ContentType, up.Data)
	if !strings.HasPrefix(contentType, "image/") {
		return UploadResult{}, errUnsupported("File must be an image")
	}
	if int64(len(up.Data)) > i.Config.MaxImageBytes {
		return UploadResult{}, ErrSizeExceeded(i.Config.MaxImageBytes)
	}
	folder, err := CleanFolder(up.Folder, i.Config.DefaultFolder)
	if err != nil {
		return UploadResult{}, err
	}
	objectPath := path.Join(folder, i.fileName(extension(up.Filename, contentType)))
	if err := i.put(ctx, objectPath, contentType, up.Data); err != nil {
		return UploadResult{}, err
	}
	return UploadResult{URL: i.Bucket.PublicURL(objectPath), Path: objectPath}, nil
}

// IngestCertificate accepts an image or a PDF. A PDF is replaced by a PNG of
// its first page; the PDF itself is never stored.
func (i *Ingestor) IngestCertificate(ctx context.Context, up Upload) (CertificateResult, error) {
	if len(up.Data) == 0 {
		return CertificateResult{}, ErrMissingFile()
	}
	contentType := detectType(up.ContentType, up.Data)
	isPDF := contentType == mimePDF
	if !isPDF && !strings.HasPrefix(contentType, "image/") {
		return CertificateResult{}, errUnsupported("File must be an image (PNG/JPG) or PDF")
	}
	limit := i.Config.MaxImageBytes
	if isPDF {
		limit = i.Config.MaxPDFBytes
	}
	if int64(len(up.Data)) > limit {
		return CertificateResult{}, ErrSizeExceeded(limit)
	}

	data := up.Data
	ext := extension(up.Filename, contentType)
	if isPDF {
		thumb, err := i.thumbnail(up.Data)
		if err != nil {
			return CertificateResult{}, err
		}
		data, contentType, ext = thumb, mimePNG, "png"
	}
	objectPath := path.Join(FolderAchievements, i.fileName(ext))
	if err := i.put(ctx, objectPath, contentType, data); err != nil {
		return CertificateResult{}, err
	}
	return CertificateResult{
		URL:             i.Bucket.PublicURL(objectPath),
		Path:            objectPath,
		IsPDF:           isPDF,
		CertificateType: "image",
	}, nil
}

func (i *Ingestor) thumbnail(pdf []byte) ([]byte, error) {
	img, err := i.Renderer.RenderFirstPage(pdf)
	if err != nil {
		i.Log.WithError(err).Error("pdf thumbnail extraction failed")
		return nil, ErrProcessing("Failed to process PDF. PDF thumbnail extraction failed.", processingHint, err.Error())
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, ErrProcessing("Failed to encode PDF thumbnail", processingHint, err.Error())
	}
	return buf.Bytes(), nil
}

func (i *Ingestor) put(ctx context.Context, objectPath, contentType string, data []byte) error {
	err := i.Bucket.Put(ctx, objectPath, contentType, data)
	if err == nil {
		i.Log.WithFields(logrus.Fields{"bucket": i.Bucket.Name(), "path": objectPath, "bytes": len(data)}).Info("asset stored")
		return nil
	}
	i.Log.WithError(err).WithField("path", objectPath).Error("asset upload failed")
	if errors.Is(err, storage.ErrPolicyDenied) {
		return ServiceError{
			Status:  http.StatusForbidden,
			Code:    CodePolicyDenied,
			Message: "Storage policy is not set up. Allow uploads to the bucket and try again.",
			Hint:    storageHint,
			Details: err.Error(),
		}
	}
	return ServiceError{
		Status:  http.StatusInternalServerError,
		Code:    CodeStorageWrite,
		Message: err.Error(),
		Hint:    storageHint,
	}
}

func (i *Ingestor) fileName(ext string) string {
	token := strings.ReplaceAll(uuid.NewString(), "-", "")[:10]
	return fmt.Sprintf("%d-%s.%s", i.Now().UnixMilli(), token, ext)
}

// CleanFolder returns fallback for an empty folder and rejects traversal.
func CleanFolder(folder, fallback string) (string, error) {
	folder = strings.TrimSpace(folder)
	if folder == "" {
		return fallback, nil
	}
	clean, err := storage.CleanPath(folder)
	if err != nil {
		return "", ErrBadRequest("Invalid folder")
	}
	return clean, nil
}

// detectType trusts the declared type unless it is missing or generic.
func detectType(declared string, data []byte) string {
	if mediaType, _, err := mime.ParseMediaType(declared); err == nil && mediaType != "application/octet-stream" {
		return mediaType
	}
	detected, _, _ := mime.ParseMediaType(mimetype.Detect(data).String())
	return detected
}

func extension(filename, contentType string) string {
	if ext := strings.ToLower(strings.TrimPrefix(path.Ext(filename), ".")); ext != "" && isAlnum(ext) {
		return ext
	}
	if known := mimetype.Lookup(contentType); known != nil && known.Extension() != "" {
		return strings.TrimPrefix(known.Extension(), ".")
	}
	return "bin"
}

func isAlnum(s string) bool {
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return false
		}
	}
	return true
}

func ErrMissingFile() error {
	return ServiceError{Status: http.StatusBadRequest, Code: CodeMissingFile, Message: "No file provided"}
}

func errUnsupported(msg string) error {
	return ServiceError{Status: http.StatusBadRequest, Code: CodeUnsupported, Message: msg}
}

// ErrSizeExceeded reports an upload over limit bytes.
func ErrSizeExceeded(limit int64) error {
	return ServiceError{
		Status:  http.StatusBadRequest,
		Code:    CodeSizeExceeded,
		Message: fmt.Sprintf("File size must be less than %dMB", limit>>20),
	}
}
