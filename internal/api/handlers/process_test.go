package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/clipcap/clipcap/internal/config"
	"github.com/clipcap/clipcap/internal/pipeline"
	"github.com/clipcap/clipcap/internal/pkg/errors"
	"github.com/clipcap/clipcap/internal/pkg/logger"
	"github.com/clipcap/clipcap/internal/services"
	"github.com/clipcap/clipcap/internal/subtitle"
	"github.com/clipcap/clipcap/internal/testutil"
)

func newProcessHandler(t *testing.T) (*ProcessHandler, *testutil.MockUsageRepository) {
	t.Helper()

	log := logger.New(logger.Config{Level: "error", Format: "json"})
	accountRepo := testutil.NewMockAccountRepository()
	usageRepo := testutil.NewMockUsageRepository()
	accounts := services.NewAccountService(accountRepo, log)
	quota := services.NewUsageService(usageRepo, log)

	transcoder := &testutil.FakeTranscoder{}
	engine := &testutil.FakeEngine{
		Segments: []subtitle.Segment{
			{Index: 1, Start: 0, End: 2, Text: "hello"},
		},
	}

	p := pipeline.NewService(accounts, quota, transcoder, engine, config.MediaConfig{
		WorkDir:      t.TempDir(),
		StageTimeout: 30 * time.Second,
	}, log)

	return NewProcessHandler(p, log, 64<<20), usageRepo
}

// multipartUpload builds a multipart body with an optional email field and an
// optional video file part.
func multipartUpload(t *testing.T, email string, withFile bool) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if email != "" {
		if err := mw.WriteField("email", email); err != nil {
			t.Fatal(err)
		}
	}
	if withFile {
		fw, err := mw.CreateFormFile("file", "clip.mp4")
		if err != nil {
			t.Fatal(err)
		}
		if _, err := fw.Write([]byte("video-bytes")); err != nil {
			t.Fatal(err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}
	return &buf, mw.FormDataContentType()
}

func decodeErrorCode(t *testing.T, body io.Reader) string {
	t.Helper()
	var resp struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.NewDecoder(body).Decode(&resp); err != nil {
		t.Fatalf("decoding error response: %v", err)
	}
	return resp.Error.Code
}

func TestProcessHandler_FullProcess(t *testing.T) {
	handler, usageRepo := newProcessHandler(t)

	body, contentType := multipartUpload(t, "a@b.com", true)
	req := httptest.NewRequest(http.MethodPost, "/full_process", body)
	req.Header.Set("Content-Type", contentType)
	rr := httptest.NewRecorder()

	handler.FullProcess(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d, body: %s", rr.Code, http.StatusOK, rr.Body.String())
	}
	if got := rr.Header().Get("Content-Disposition"); got != `attachment; filename="video_captioned.mp4"` {
		t.Errorf("Content-Disposition = %q", got)
	}
	if got := rr.Header().Get("Content-Type"); got != "video/mp4" {
		t.Errorf("Content-Type = %q, want video/mp4", got)
	}
	if rr.Body.String() != "rendered" {
		t.Errorf("body = %q, want the rendered file contents", rr.Body.String())
	}
	if len(usageRepo.Records) != 1 {
		t.Errorf("ledger has %d records, want 1", len(usageRepo.Records))
	}
}

func TestProcessHandler_Validation(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		withFile bool
		wantCode string
	}{
		{name: "missing email", email: "", withFile: true, wantCode: errors.ErrCodeValidation},
		{name: "email without at sign", email: "not-an-email", withFile: true, wantCode: errors.ErrCodeValidation},
		{name: "missing file", email: "a@b.com", withFile: false, wantCode: errors.ErrCodeBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, usageRepo := newProcessHandler(t)

			body, contentType := multipartUpload(t, tt.email, tt.withFile)
			req := httptest.NewRequest(http.MethodPost, "/full_process", body)
			req.Header.Set("Content-Type", contentType)
			rr := httptest.NewRecorder()

			handler.FullProcess(rr, req)

			if rr.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want %d", rr.Code, http.StatusBadRequest)
			}
			if code := decodeErrorCode(t, rr.Body); code != tt.wantCode {
				t.Errorf("error code = %q, want %q", code, tt.wantCode)
			}
			if len(usageRepo.Records) != 0 {
				t.Errorf("ledger has %d records for a rejected request", len(usageRepo.Records))
			}
		})
	}
}

func TestProcessHandler_QuotaExceeded(t *testing.T) {
	handler, _ := newProcessHandler(t)

	// Use up the free allowance
	for i := 0; i < 3; i++ {
		body, contentType := multipartUpload(t, "a@b.com", true)
		req := httptest.NewRequest(http.MethodPost, "/full_process", body)
		req.Header.Set("Content-Type", contentType)
		rr := httptest.NewRecorder()
		handler.FullProcess(rr, req)
		if rr.Code != http.StatusOK {
			t.Fatalf("upload %d status = %d, want 200", i+1, rr.Code)
		}
	}

	body, contentType := multipartUpload(t, "a@b.com", true)
	req := httptest.NewRequest(http.MethodPost, "/full_process", body)
	req.Header.Set("Content-Type", contentType)
	rr := httptest.NewRecorder()
	handler.FullProcess(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want %d, body: %s", rr.Code, http.StatusForbidden, rr.Body.String())
	}

	var resp struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Error.Code != errors.ErrCodeQuotaExceeded {
		t.Errorf("error code = %q, want %q", resp.Error.Code, errors.ErrCodeQuotaExceeded)
	}
	if !bytes.Contains([]byte(resp.Error.Message), []byte("free")) {
		t.Errorf("quota message %q does not name the plan", resp.Error.Message)
	}
}
