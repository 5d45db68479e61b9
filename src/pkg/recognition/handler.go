package recognition

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/dustin/go-humanize"
	"github.com/q-controller/facerecd/src/pkg/logging"
	"github.com/q-controller/facerecd/src/pkg/metrics"
)

const (
	FormField = "inputFile"

	WelcomeMessage       = "Welcome to face recognition api, send POST with inputFile=img to do face recognition"
	InternalErrorMessage = "Internal Server Error while trying facial-recognition"
)

type Recognizer interface {
	Recognize(ctx context.Context, upload Upload) (Result, error)
}

type Handler struct {
	recognizer Recognizer
	maxMemory  int64
	observer   metrics.Observer
}

type welcome struct {
	Message    string `json:"message"`
	StatusCode int    `json:"statusCode"`
}

type errorDetail struct {
	Detail struct {
		Message string `json:"message"`
	} `json:"detail"`
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logging.FromContext(r.Context()).Warn("Failed to encode JSON response", "error", err)
	}
}

func writeDetail(w http.ResponseWriter, r *http.Request, status int, message string) {
	body := errorDetail{}
	body.Detail.Message = message
	writeJSON(w, r, status, body)
}

func writeText(w http.ResponseWriter, r *http.Request, status int, text string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	if text == "" {
		return
	}
	if _, err := w.Write([]byte(text)); err != nil {
		logging.FromContext(r.Context()).Warn("Failed to write response", "error", err)
	}
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request, pathParams map[string]string) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	writeJSON(w, r, http.StatusOK, welcome{
		Message:    WelcomeMessage,
		StatusCode: http.StatusOK,
	})
}

func (h *Handler) Post(w http.ResponseWriter, r *http.Request, pathParams map[string]string) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	logger := logging.FromContext(r.Context())

	if parseErr := r.ParseMultipartForm(h.maxMemory); parseErr != nil {
		logger.Warn("Rejected upload", "reason", "unparsable form", "error", parseErr)
		writeDetail(w, r, http.StatusUnprocessableEntity, "multipart form with field "+FormField+" is required")
		return
	}
	// net/http only cleans up forms parsed on the request it created, not on
	// copies made by middleware, so parts spilled to disk are removed here.
	defer func() {
		if err := r.MultipartForm.RemoveAll(); err != nil {
			logger.Warn("Failed to remove multipart temp files", "error", err)
		}
	}()

	file, header, fileErr := r.FormFile(FormField)
	if fileErr != nil {
		logger.Warn("Rejected upload", "reason", "missing file", "error", fileErr)
		writeDetail(w, r, http.StatusUnprocessableEntity, "field "+FormField+" is required")
		return
	}

	defer func() {
		if err := file.Close(); err != nil {
			logger.Warn("Failed to close file", "error", err)
		}
	}()

	logger.Debug("Received upload", "filename", header.Filename, "size", humanize.Bytes(uint64(header.Size)))

	// Client disconnects do not abort a recognition; only transport timeouts do.
	ctx := context.WithoutCancel(r.Context())
	result, recErr := h.recognizer.Recognize(ctx, Upload{
		Name: header.Filename,
		Body: file,
		Size: header.Size,
	})
	if recErr != nil {
		h.observer.RecordOutcome(metrics.OutcomeError)
		logger.Error("Error in face-recognition", "kind", KindOf(recErr).String(), "filename", header.Filename, "error", recErr)
		writeDetail(w, r, http.StatusInternalServerError, InternalErrorMessage)
		return
	}

	if !result.Matched {
		h.observer.RecordOutcome(metrics.OutcomeNoMatch)
		logger.Info("face-recognition FAIL", "identifier", result.Identifier)
		writeText(w, r, http.StatusUnauthorized, "")
		return
	}

	h.observer.RecordOutcome(metrics.OutcomeMatch)
	logger.Info("face-recognition PASS", "response", result.String())
	writeText(w, r, http.StatusOK, result.String())
}

// CreateHandler builds the HTTP handler. maxMemory bounds the part of a
// multipart upload kept in memory; the rest spills to temporary files.
func CreateHandler(recognizer Recognizer, maxMemory int64, observer metrics.Observer) (*Handler, error) {
	if observer == nil {
		observer = metrics.Nop()
	}
	return &Handler{
		recognizer: recognizer,
		maxMemory:  maxMemory,
		observer:   observer,
	}, nil
}
