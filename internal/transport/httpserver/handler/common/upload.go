package common

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strings"
)

const DefaultMaxUploadBytes = 10 << 20

// Upload is one file taken from a multipart form.
type Upload struct {
	File        multipart.File
	FileName    string
	ContentType string
	Fields      map[string]string
}

// ReadUpload parses a multipart body with a single file under field. The
// caller closes Upload.File.
func ReadUpload(w http.ResponseWriter, r *http.Request, field string, maxBytes int64) (*Upload, bool) {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxUploadBytes
	}
	// form fields ride along with the file
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes+1<<20)
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "file_too_large", "file is too large")
			return nil, false
		}
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid multipart body")
		return nil, false
	}

	file, header, err := r.FormFile(field)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", field+" is required")
		return nil, false
	}
	if header.Size > maxBytes {
		_ = file.Close()
		writeError(w, http.StatusRequestEntityTooLarge, "file_too_large", "file is too large")
		return nil, false
	}

	fields := make(map[string]string, len(r.MultipartForm.Value))
	for key, values := range r.MultipartForm.Value {
		if len(values) > 0 {
			fields[key] = strings.TrimSpace(values[0])
		}
	}
	return &Upload{
		File:        file,
		FileName:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Fields:      fields,
	}, true
}
