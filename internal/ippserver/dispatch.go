package ippserver

import (
	"context"
	"errors"

	"github.com/inkspool/ippcore/internal/ipp"
)

// handlerFunc is the shape every operation handler implements: take a
// parsed request, return a response or a typed *ipp.Error to be rendered
// as an error response.
type handlerFunc func(ctx context.Context, req *ipp.Message) (*ipp.Message, error)

// Dispatcher owns the operation-code-to-handler table and the version
// check every request passes through first. Handlers are installed once at
// construction; there's no interface with default methods to override,
// just a map and a fallback.
type Dispatcher struct {
	handlers map[ipp.Op]handlerFunc
	maxMinor byte // highest minor version accepted when the major version equals maxMajor
	maxMajor byte
}

func newDispatcher(svc *PrinterService) *Dispatcher {
	d := &Dispatcher{maxMajor: 2, maxMinor: 0}
	d.handlers = map[ipp.Op]handlerFunc{
		ipp.OpPrintJob:         svc.handlePrintJob,
		ipp.OpCreateJob:        svc.handleCreateJob,
		ipp.OpSendDocument:     svc.handleSendDocument,
		ipp.OpValidateJob:      svc.handleValidateJob,
		ipp.OpCancelJob:        svc.handleCancelJob,
		ipp.OpGetJobAttributes: svc.handleGetJobAttributes,
		ipp.OpGetJobs:          svc.handleGetJobs,
		ipp.OpGetPrinterAttrs:  svc.handleGetPrinterAttributes,
		ipp.OpHoldJob:          svc.handleHoldJob,
		ipp.OpReleaseJob:       svc.handleReleaseJob,
		ipp.OpRestartJob:       svc.handleRestartJob,
		ipp.OpPausePrinter:     svc.handlePausePrinter,
		ipp.OpResumePrinter:    svc.handleResumePrinter,
		ipp.OpPurgeJobs:        svc.handlePurgeJobs,
	}
	return d
}

// checkVersion reports whether the request's IPP version is one this
// server will attempt to process at all.
func (d *Dispatcher) checkVersion(req *ipp.Message) bool {
	if req.Header.VersionMajor != d.maxMajor {
		return req.Header.VersionMajor < d.maxMajor
	}
	return req.Header.VersionMinor <= d.maxMinor
}

// HandleRequest runs the version check, looks up the operation in the
// table, and converts any returned error into an error response, building
// the status-message attribute the same way on every error path.
func (d *Dispatcher) HandleRequest(ctx context.Context, req *ipp.Message) *ipp.Message {
	if !d.checkVersion(req) {
		resp := ipp.NewResponse(req, ipp.StatusServerErrorVersionNotSupported)
		resp.OperationAttrs().Set("attributes-charset", ipp.Charset("utf-8"))
		resp.OperationAttrs().Set("attributes-natural-language", ipp.NaturalLanguage("en"))
		resp.OperationAttrs().Set("status-message", ipp.Text("unsupported IPP version"))
		return resp
	}

	op := ipp.Op(req.Header.Code)
	handler, ok := d.handlers[op]
	if !ok {
		handler = operationNotSupported
	}

	resp, err := handler(ctx, req)
	if err != nil {
		return buildErrorResponse(req, err)
	}
	return resp
}

func operationNotSupported(_ context.Context, req *ipp.Message) (*ipp.Message, error) {
	return nil, ipp.NewError(ipp.StatusServerErrorOperationNotSupported, "operation not supported")
}

// buildErrorResponse downcasts err to *ipp.Error when possible so the
// caller's chosen status code survives; any other error becomes an opaque
// internal-error response so the dispatcher never leaks raw Go error
// strings verbatim to the wire without a status code.
func buildErrorResponse(req *ipp.Message, err error) *ipp.Message {
	var ippErr *ipp.Error
	if !errors.As(err, &ippErr) {
		ippErr = ipp.NewError(ipp.StatusServerErrorInternalError, err.Error())
	}
	resp := ipp.NewResponse(req, ippErr.Code)
	resp.OperationAttrs().Set("attributes-charset", ipp.Charset("utf-8"))
	resp.OperationAttrs().Set("attributes-natural-language", ipp.NaturalLanguage("en"))
	resp.OperationAttrs().Set("status-message", ipp.Text(ippErr.Error()))
	return resp
}
