// Package ipphttp wires the printer service into net/http: method and
// content-type validation, then the streaming parse-dispatch-encode
// pipeline C8 describes.
package ipphttp

import (
	"bufio"
	"io"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/inkspool/ippcore/internal/ipp"
)

// contentType is the MIME type every IPP request and response carries.
const contentType = "application/ipp"

// Handler is an http.Handler that accepts IPP requests POSTed to any path
// and returns IPP responses, logging each request the way the teacher's
// HTTP entry point does.
type Handler struct {
	dispatch func(r *http.Request, msg *ipp.Message) *ipp.Message
	log      zerolog.Logger
}

// HandleFunc is the dispatch hook Handler calls for each parsed request;
// ippserver.PrinterService.HandleRequest has this shape once its context
// parameter is narrowed to context.Context by the caller.
type HandleFunc func(r *http.Request, msg *ipp.Message) *ipp.Message

func NewHandler(dispatch HandleFunc, log zerolog.Logger) *Handler {
	return &Handler{dispatch: dispatch, log: log}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("IPP server running\n"))
		return
	}
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if ct := r.Header.Get("Content-Type"); ct != "" && ct != contentType {
		http.Error(w, "unsupported content type", http.StatusUnsupportedMediaType)
		return
	}

	br := bufio.NewReader(r.Body)
	msg, err := ipp.Parse(br)
	if err != nil {
		h.log.Debug().Err(err).Msg("failed to parse ipp request")
		http.Error(w, "malformed ipp request", http.StatusBadRequest)
		return
	}

	resp := h.dispatch(r, msg)
	if resp == nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	if err := ipp.Encode(w, resp); err != nil {
		h.log.Debug().Err(err).Msg("failed to write ipp response")
		return
	}
	if resp.Payload != nil {
		if _, err := io.Copy(w, resp.Payload); err != nil {
			h.log.Debug().Err(err).Msg("failed to stream ipp response payload")
		}
	}
}
