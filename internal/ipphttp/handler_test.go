package ipphttp

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"github.com/inkspool/ippcore/internal/ipp"
)

func encodeRequest(t *testing.T, msg *ipp.Message) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := ipp.Encode(&buf, msg); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	return buf.Bytes()
}

func TestHandlerGetReturnsPlainStatus(t *testing.T) {
	h := NewHandler(func(r *http.Request, msg *ipp.Message) *ipp.Message { return nil }, zerolog.Nop())
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestHandlerRejectsNonPost(t *testing.T) {
	h := NewHandler(func(r *http.Request, msg *ipp.Message) *ipp.Message { return nil }, zerolog.Nop())
	req := httptest.NewRequest(http.MethodPut, "/printers/test", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", rec.Code)
	}
}

func TestHandlerRejectsWrongContentType(t *testing.T) {
	h := NewHandler(func(r *http.Request, msg *ipp.Message) *ipp.Message { return nil }, zerolog.Nop())
	req := httptest.NewRequest(http.MethodPost, "/printers/test", bytes.NewReader([]byte("junk")))
	req.Header.Set("Content-Type", "text/plain")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnsupportedMediaType {
		t.Fatalf("status = %d, want 415", rec.Code)
	}
}

func TestHandlerParsesAndDispatches(t *testing.T) {
	reqMsg := &ipp.Message{
		Header: ipp.Header{VersionMajor: 1, VersionMinor: 1, Code: uint16(ipp.OpGetPrinterAttrs), RequestID: 9},
		Attrs: ipp.AttributeSet{Groups: []ipp.Group{
			{Tag: ipp.TagOperationAttributes, Attrs: []ipp.Attribute{
				{Name: "attributes-charset", Value: ipp.Charset("utf-8")},
			}},
		}},
	}
	body := encodeRequest(t, reqMsg)

	var captured *ipp.Message
	h := NewHandler(func(r *http.Request, msg *ipp.Message) *ipp.Message {
		captured = msg
		return ipp.NewResponse(msg, ipp.StatusOK)
	}, zerolog.Nop())

	req := httptest.NewRequest(http.MethodPost, "/printers/test", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/ipp")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if captured == nil {
		t.Fatal("dispatch function was not called")
	}
	if captured.Header.RequestID != 9 {
		t.Errorf("RequestID = %d, want 9", captured.Header.RequestID)
	}

	got, err := ipp.Parse(bytes.NewReader(rec.Body.Bytes()))
	if err != nil {
		t.Fatalf("parsing response: %v", err)
	}
	if got.Header.Code != uint16(ipp.StatusOK) {
		t.Errorf("response status = %d, want ok", got.Header.Code)
	}
}

func TestHandlerMalformedRequest(t *testing.T) {
	h := NewHandler(func(r *http.Request, msg *ipp.Message) *ipp.Message { return nil }, zerolog.Nop())
	req := httptest.NewRequest(http.MethodPost, "/printers/test", bytes.NewReader([]byte{1, 1}))
	req.Header.Set("Content-Type", "application/ipp")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}
