package httpapi

import (
	"errors"
	"io"
	"net/http"

	"portfolio-backend-go/internal/services"
)

const multipartOverhead = 1 << 20

func (s *Server) Upload(w http.ResponseWriter, r *http.Request) {
	up, err := s.readUpload(w, r, s.Config.MaxImageBytes)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	res, err := s.Ingestor.IngestImage(r.Context(), up)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, res)
}

func (s *Server) UploadAchievement(w http.ResponseWriter, r *http.Request) {
	up, err := s.readUpload(w, r, max(s.Config.MaxImageBytes, s.Config.MaxPDFBytes))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	res, err := s.Ingestor.IngestCertificate(r.Context(), up)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, res)
}

// readUpload pulls the "file" part out of a multipart form. At most limit+1
// bytes are read so the ingestor can tell an oversized file apart.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request, limit int64) (services.Upload, error) {
	r.Body = http.MaxBytesReader(w, r.Body, limit+multipartOverhead)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return services.Upload{}, services.ErrSizeExceeded(limit)
		}
		return services.Upload{}, services.ErrBadRequest("Invalid form data")
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return services.Upload{}, services.ErrMissingFile()
		}
		return services.Upload{}, services.ErrBadRequest("Invalid form data")
	}
	defer file.Close()
	data, err := io.ReadAll(io.LimitReader(file, limit+1))
	if err != nil {
		return services.Upload{}, services.ErrBadRequest("Could not read the uploaded file")
	}
	return services.Upload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
		Folder:      r.FormValue("folder"),
	}, nil
}
