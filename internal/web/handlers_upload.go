package web

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/JonMunkholm/storemap/internal/core"
)

const (
	// multipartOverhead is allowed on top of the file size limit for
	// boundaries and part headers.
	multipartOverhead = 1 << 20

	// multipartMemory is held in memory before parts spill to disk.
	multipartMemory = 8 << 20
)

// handleUpload indexes an uploaded CSV file and returns the result as JSON.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	name, file, err := s.formFile(w, r)
	defer cleanupForm(r)
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}
	defer file.Close()

	result, err := s.service.Upload(r.Context(), name, file)
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}

	writeJSON(w, r, http.StatusOK, result)
}

// formFile returns the "file" part of a multipart upload.
// Callers defer cleanupForm to remove spilled temp files.
func (s *Server) formFile(w http.ResponseWriter, r *http.Request) (string, multipart.File, error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Upload.MaxFileSize+multipartOverhead)

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		if isBodyTooLarge(err) {
			return "", nil, fmt.Errorf("%w: %v", core.ErrFileTooLarge, err)
		}
		return "", nil, fmt.Errorf("%w: %v", core.ErrNoFile, err)
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", core.ErrNoFile, err)
	}
	return header.Filename, file, nil
}

func isBodyTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr) || strings.Contains(err.Error(), "request body too large")
}

func cleanupForm(r *http.Request) {
	if r.MultipartForm != nil {
		r.MultipartForm.RemoveAll()
	}
}
