package handlers

import (
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/clipcap/clipcap/internal/api/middleware"
	"github.com/clipcap/clipcap/internal/pipeline"
	"github.com/clipcap/clipcap/internal/pkg/errors"
	"github.com/clipcap/clipcap/internal/pkg/logger"
	"github.com/clipcap/clipcap/internal/pkg/utils"
)

// Filename suggested to the client for every delivered video
const attachmentName = "video_captioned.mp4"

// multipart parts above this stay on disk instead of memory
const multipartMemory = 32 << 20

// ProcessHandler handles the full transcribe-and-burn pipeline endpoint
type ProcessHandler struct {
	pipeline  *pipeline.Service
	logger    *logger.Logger
	maxUpload int64
}

// NewProcessHandler creates a new process handler
func NewProcessHandler(p *pipeline.Service, log *logger.Logger, maxUpload int64) *ProcessHandler {
	return &ProcessHandler{
		pipeline:  p,
		logger:    log,
		maxUpload: maxUpload,
	}
}

// FullProcess accepts a multipart video upload plus an email field, runs the
// pipeline, and streams back the captioned video as an attachment.
func (h *ProcessHandler) FullProcess(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		utils.WriteError(w, errors.BadRequest("Invalid multipart body"))
		return
	}
	defer r.MultipartForm.RemoveAll()

	email := strings.TrimSpace(r.FormValue("email"))
	if email == "" || !strings.Contains(email, "@") {
		utils.WriteError(w, errors.ValidationError("Provide a valid email address", nil))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		utils.WriteError(w, errors.BadRequest("Video file is required"))
		return
	}
	defer file.Close()

	result, err := h.pipeline.Process(r.Context(), pipeline.Request{
		Email:    email,
		FileName: header.Filename,
		Video:    file,
	})
	if err != nil {
		h.logger.WithFields(map[string]interface{}{
			"email":      email,
			"request_id": middleware.GetRequestID(r),
		}).ErrorWithErr(err, "Processing failed")
		utils.WriteAppError(w, err)
		return
	}
	defer result.Cleanup()

	out, err := os.Open(result.OutputPath)
	if err != nil {
		utils.WriteError(w, errors.Internal("Rendered output unavailable", err))
		return
	}
	defer out.Close()

	w.Header().Set("Content-Type", "video/mp4")
	w.Header().Set("Content-Disposition", `attachment; filename="`+attachmentName+`"`)
	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, out); err != nil {
		// Too late for an error response, the stream is already underway
		h.logger.WithError(err).Warn("Streaming rendered video aborted")
	}
}
