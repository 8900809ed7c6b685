package controllers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"strings"

	"postboard/app/apperr"
	"postboard/app/auth"
	"postboard/app/media"
)

const maxUploadMemory = 32 << 20

func sendJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// sendError writes {"error": message} with the status of the error's kind.
// Internal errors are logged and reported without detail.
func sendError(w http.ResponseWriter, err error) {
	kind := apperr.KindOf(err)
	if kind == apperr.Internal {
		log.Printf("internal error: %v", err)
	}
	sendJSON(w, kind.Status(), map[string]string{"error": apperr.Public(err).Error()})
}

func sendMessage(w http.ResponseWriter, message string) {
	sendJSON(w, http.StatusOK, map[string]string{"message": message})
}

// decodeJSON reads the request body into v. An empty body leaves v untouched.
func decodeJSON(r *http.Request, v interface{}) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if err != nil && !errors.Is(err, io.EOF) {
		return apperr.Validationf("Invalid request body")
	}
	return nil
}

func actor(r *http.Request) auth.Principal {
	p, _ := auth.PrincipalFrom(r.Context())
	return p
}

func isMultipart(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data")
}

// uploadFiles stores every multipart part named field and returns the
// resulting URLs in upload order.
func uploadFiles(r *http.Request, uploader media.Uploader, field string) ([]string, error) {
	if r.MultipartForm == nil {
		return []string{}, nil
	}
	headers := r.MultipartForm.File[field]
	files := make([]media.File, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			return nil, apperr.Wrap(err, "open upload")
		}
		defer f.Close()
		files = append(files, media.File{
			Name:        fh.Filename,
			ContentType: contentType(fh),
			Size:        fh.Size,
			Body:        f,
		})
	}
	urls, err := uploader.Upload(r.Context(), files)
	if errors.Is(err, media.ErrDisabled) {
		return nil, apperr.Validationf("File uploads are not enabled")
	}
	if err != nil {
		return nil, apperr.Wrap(err, "upload media")
	}
	return urls, nil
}

func contentType(fh *multipart.FileHeader) string {
	return fh.Header.Get("Content-Type")
}

func parseMultipart(r *http.Request) error {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		return apperr.Validationf("Invalid multipart form")
	}
	return nil
}

// Health answers liveness checks.
func Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("OK"))
}
