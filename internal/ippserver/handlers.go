package ippserver

import (
	"context"

	"github.com/inkspool/ippcore/internal/ipp"
	"github.com/inkspool/ippcore/internal/jobcache"
)

func requestingUser(req *ipp.Message) string {
	if v, ok := asKeyword(findAttr(req, "requesting-user-name")); ok {
		return v
	}
	return "anonymous"
}

func requestedAttributes(req *ipp.Message) map[string]bool {
	a, ok := findAttr(req, "requested-attributes")
	if !ok {
		return nil
	}
	var values []string
	switch v := a.Value.(type) {
	case ipp.Array:
		for _, e := range v {
			if kw, ok := e.(ipp.Keyword); ok {
				values = append(values, string(kw))
			}
		}
	case ipp.Keyword:
		values = append(values, string(v))
	}
	return stringSet(values)
}

func jobIDFromRequest(req *ipp.Message) (int32, bool) {
	return asInteger(findAttr(req, "job-id"))
}

func documentFormat(req *ipp.Message, info *PrinterInfo) string {
	if v, ok := asKeyword(findAttr(req, "document-format")); ok {
		return v
	}
	return info.DocumentFormatDefault
}

func validateDocumentFormat(format string, info *PrinterInfo) error {
	for _, f := range info.DocumentFormatSupported {
		if f == format {
			return nil
		}
	}
	return ipp.NewError(ipp.StatusClientErrorDocumentFormatNotSupported, "document-format not supported: "+format)
}

func compressionOf(req *ipp.Message) string {
	if v, ok := asKeyword(findAttr(req, "compression")); ok {
		return v
	}
	return ""
}

// handlePrintJob implements Print-Job: create a job and immediately
// deliver the document in one request.
func (s *PrinterService) handlePrintJob(ctx context.Context, req *ipp.Message) (*ipp.Message, error) {
	if s.stopped.Load() {
		return nil, ipp.NewError(ipp.StatusClientErrorNotAcceptingJobs, "printer is not accepting jobs")
	}
	format := documentFormat(req, s.Info)
	if err := validateDocumentFormat(format, s.Info); err != nil {
		return nil, err
	}
	payload, err := wrapPayload(req.Payload, compressionOf(req))
	if err != nil {
		return nil, err
	}

	id := s.Cache.NextJobID()
	tmpl := s.takeJobTemplateAttrs(req)
	printerURI := makeURL(s.Host, s.Basepath, s.schemeFor(req), "printers/"+s.Info.Name)
	job := s.Cache.Insert(id, printerURI, requestingUser(req), format, tmpl, false)

	if err := s.Cache.Process(ctx, id); err != nil {
		return nil, err
	}
	if err := s.Sink.HandleDocument(ctx, SimpleIppDocument{Format: format, JobID: id, JobAttributes: tmpl, Payload: payload}); err != nil {
		_ = s.Cache.Abort(ctx, id, err.Error())
		return nil, ipp.NewError(ipp.StatusServerErrorInternalError, err.Error())
	}
	_ = s.Cache.Complete(ctx, id)

	resp := ipp.NewResponse(req, ipp.StatusOK)
	resp.OperationAttrs().Set("attributes-charset", ipp.Charset("utf-8"))
	resp.OperationAttrs().Set("attributes-natural-language", ipp.NaturalLanguage("en"))
	resp.Attrs.Groups = append(resp.Attrs.Groups, s.jobAttributes(req, job))
	return resp, nil
}

// handleCreateJob implements Create-Job: reserve a job-id without any
// document data; a later Send-Document supplies the payload.
func (s *PrinterService) handleCreateJob(ctx context.Context, req *ipp.Message) (*ipp.Message, error) {
	if s.stopped.Load() {
		return nil, ipp.NewError(ipp.StatusClientErrorNotAcceptingJobs, "printer is not accepting jobs")
	}
	id := s.Cache.NextJobID()
	tmpl := s.takeJobTemplateAttrs(req)
	printerURI := makeURL(s.Host, s.Basepath, s.schemeFor(req), "printers/"+s.Info.Name)
	job := s.Cache.Insert(id, printerURI, requestingUser(req), "", tmpl, false)

	resp := ipp.NewResponse(req, ipp.StatusOK)
	resp.OperationAttrs().Set("attributes-charset", ipp.Charset("utf-8"))
	resp.OperationAttrs().Set("attributes-natural-language", ipp.NaturalLanguage("en"))
	resp.Attrs.Groups = append(resp.Attrs.Groups, s.jobAttributes(req, job))
	return resp, nil
}

// handleSendDocument implements Send-Document: deliver the document body
// for a job previously created with Create-Job.
func (s *PrinterService) handleSendDocument(ctx context.Context, req *ipp.Message) (*ipp.Message, error) {
	id, ok := jobIDFromRequest(req)
	if !ok {
		return nil, ipp.NewError(ipp.StatusClientErrorBadRequest, "missing job-id")
	}
	job, ok := s.Cache.Get(id)
	if !ok {
		return nil, ipp.NewError(ipp.StatusClientErrorNotFound, "job not found")
	}
	if !job.IsActive() {
		return nil, ipp.NewError(ipp.StatusClientErrorNotPossible, "job is in a terminal state")
	}

	format := documentFormat(req, s.Info)
	if err := validateDocumentFormat(format, s.Info); err != nil {
		return nil, err
	}
	payload, err := wrapPayload(req.Payload, compressionOf(req))
	if err != nil {
		return nil, err
	}

	lastDoc := true
	if v, ok := findAttr(req, "last-document"); ok {
		if b, ok := v.Value.(ipp.Boolean); ok {
			lastDoc = bool(b)
		}
	}

	if job.State() == jobcache.JobPending {
		if err := s.Cache.Process(ctx, id); err != nil {
			return nil, err
		}
	}
	if err := s.Sink.HandleDocument(ctx, SimpleIppDocument{Format: format, JobID: id, JobAttributes: job.Template, Payload: payload}); err != nil {
		_ = s.Cache.Abort(ctx, id, err.Error())
		return nil, ipp.NewError(ipp.StatusServerErrorInternalError, err.Error())
	}
	if lastDoc {
		_ = s.Cache.Complete(ctx, id)
	}

	resp := ipp.NewResponse(req, ipp.StatusOK)
	resp.OperationAttrs().Set("attributes-charset", ipp.Charset("utf-8"))
	resp.OperationAttrs().Set("attributes-natural-language", ipp.NaturalLanguage("en"))
	resp.Attrs.Groups = append(resp.Attrs.Groups, s.jobAttributes(req, job))
	return resp, nil
}

func (s *PrinterService) handleValidateJob(ctx context.Context, req *ipp.Message) (*ipp.Message, error) {
	format := documentFormat(req, s.Info)
	if err := validateDocumentFormat(format, s.Info); err != nil {
		return nil, err
	}
	resp := ipp.NewResponse(req, ipp.StatusOK)
	resp.OperationAttrs().Set("attributes-charset", ipp.Charset("utf-8"))
	resp.OperationAttrs().Set("attributes-natural-language", ipp.NaturalLanguage("en"))
	return resp, nil
}

func (s *PrinterService) handleCancelJob(ctx context.Context, req *ipp.Message) (*ipp.Message, error) {
	id, ok := jobIDFromRequest(req)
	if !ok {
		return nil, ipp.NewError(ipp.StatusClientErrorBadRequest, "missing job-id")
	}
	if _, ok := s.Cache.Get(id); !ok {
		return nil, ipp.NewError(ipp.StatusClientErrorNotFound, "job not found")
	}
	if err := s.Cache.Cancel(ctx, id); err != nil {
		return nil, ipp.NewError(ipp.StatusClientErrorNotPossible, err.Error())
	}
	resp := ipp.NewResponse(req, ipp.StatusOK)
	resp.OperationAttrs().Set("attributes-charset", ipp.Charset("utf-8"))
	resp.OperationAttrs().Set("attributes-natural-language", ipp.NaturalLanguage("en"))
	return resp, nil
}

func (s *PrinterService) holdOrRestart(ctx context.Context, req *ipp.Message, fn func(context.Context, int32) error) (*ipp.Message, error) {
	id, ok := jobIDFromRequest(req)
	if !ok {
		return nil, ipp.NewError(ipp.StatusClientErrorBadRequest, "missing job-id")
	}
	if _, ok := s.Cache.Get(id); !ok {
		return nil, ipp.NewError(ipp.StatusClientErrorNotFound, "job not found")
	}
	if err := fn(ctx, id); err != nil {
		return nil, ipp.NewError(ipp.StatusClientErrorNotPossible, err.Error())
	}
	resp := ipp.NewResponse(req, ipp.StatusOK)
	resp.OperationAttrs().Set("attributes-charset", ipp.Charset("utf-8"))
	resp.OperationAttrs().Set("attributes-natural-language", ipp.NaturalLanguage("en"))
	return resp, nil
}

func (s *PrinterService) handleHoldJob(ctx context.Context, req *ipp.Message) (*ipp.Message, error) {
	return s.holdOrRestart(ctx, req, s.Cache.Hold)
}

func (s *PrinterService) handleReleaseJob(ctx context.Context, req *ipp.Message) (*ipp.Message, error) {
	return s.holdOrRestart(ctx, req, s.Cache.Release)
}

func (s *PrinterService) handleRestartJob(ctx context.Context, req *ipp.Message) (*ipp.Message, error) {
	return s.holdOrRestart(ctx, req, s.Cache.Restart)
}

func (s *PrinterService) handleGetJobAttributes(ctx context.Context, req *ipp.Message) (*ipp.Message, error) {
	id, ok := jobIDFromRequest(req)
	if !ok {
		return nil, ipp.NewError(ipp.StatusClientErrorBadRequest, "missing job-id")
	}
	job, ok := s.Cache.Get(id)
	if !ok {
		return nil, ipp.NewError(ipp.StatusClientErrorNotFound, "job not found")
	}
	resp := ipp.NewResponse(req, ipp.StatusOK)
	resp.OperationAttrs().Set("attributes-charset", ipp.Charset("utf-8"))
	resp.OperationAttrs().Set("attributes-natural-language", ipp.NaturalLanguage("en"))
	resp.Attrs.Groups = append(resp.Attrs.Groups, s.jobAttributes(req, job))
	return resp, nil
}

// handleGetJobs implements Get-Jobs: which-jobs selects completed versus
// still-active jobs (default "not-completed", with Completed/Canceled/
// Aborted all counting as "completed"), and limit stops after the first N
// matches.
func (s *PrinterService) handleGetJobs(ctx context.Context, req *ipp.Message) (*ipp.Message, error) {
	whichJobs := "not-completed"
	if v, ok := asKeyword(findAttr(req, "which-jobs")); ok {
		whichJobs = v
	}
	limit := -1
	if v, ok := asInteger(findAttr(req, "limit")); ok {
		limit = int(v)
	}

	resp := ipp.NewResponse(req, ipp.StatusOK)
	resp.OperationAttrs().Set("attributes-charset", ipp.Charset("utf-8"))
	resp.OperationAttrs().Set("attributes-natural-language", ipp.NaturalLanguage("en"))

	count := 0
	for _, job := range s.Cache.List() {
		completed := !job.IsActive()
		if completed != (whichJobs == "completed") {
			continue
		}
		resp.Attrs.Groups = append(resp.Attrs.Groups, s.jobAttributes(req, job))
		count++
		if limit > 0 && count >= limit {
			break
		}
	}
	return resp, nil
}

func (s *PrinterService) handleGetPrinterAttributes(ctx context.Context, req *ipp.Message) (*ipp.Message, error) {
	requested := requestedAttributes(req)
	resp := ipp.NewResponse(req, ipp.StatusOK)
	resp.OperationAttrs().Set("attributes-charset", ipp.Charset("utf-8"))
	resp.OperationAttrs().Set("attributes-natural-language", ipp.NaturalLanguage("en"))
	resp.Attrs.Groups = append(resp.Attrs.Groups, s.printerAttributes(req, requested))
	return resp, nil
}

func (s *PrinterService) handlePausePrinter(ctx context.Context, req *ipp.Message) (*ipp.Message, error) {
	s.stopped.Store(true)
	resp := ipp.NewResponse(req, ipp.StatusOK)
	resp.OperationAttrs().Set("attributes-charset", ipp.Charset("utf-8"))
	resp.OperationAttrs().Set("attributes-natural-language", ipp.NaturalLanguage("en"))
	return resp, nil
}

func (s *PrinterService) handleResumePrinter(ctx context.Context, req *ipp.Message) (*ipp.Message, error) {
	s.stopped.Store(false)
	resp := ipp.NewResponse(req, ipp.StatusOK)
	resp.OperationAttrs().Set("attributes-charset", ipp.Charset("utf-8"))
	resp.OperationAttrs().Set("attributes-natural-language", ipp.NaturalLanguage("en"))
	return resp, nil
}

func (s *PrinterService) handlePurgeJobs(ctx context.Context, req *ipp.Message) (*ipp.Message, error) {
	for _, job := range s.Cache.List() {
		if !job.IsActive() {
			s.Cache.Delete(job.ID)
		}
	}
	resp := ipp.NewResponse(req, ipp.StatusOK)
	resp.OperationAttrs().Set("attributes-charset", ipp.Charset("utf-8"))
	resp.OperationAttrs().Set("attributes-natural-language", ipp.NaturalLanguage("en"))
	return resp, nil
}
