package ipp

// Status is an IPP status-code, sent in the header's operation-or-status
// field on responses.
type Status uint16

const (
	StatusOK                                 Status = 0x0000
	StatusOkIgnoredOrSubstituted              Status = 0x0001
	StatusClientErrorBadRequest               Status = 0x0400
	StatusClientErrorNotFound                 Status = 0x0406
	StatusClientErrorNotPossible              Status = 0x0404
	StatusClientErrorNotAcceptingJobs         Status = 0x0425
	StatusClientErrorDocumentFormatNotSupported Status = 0x040a
	StatusClientErrorCompressionNotSupported  Status = 0x040f
	StatusClientErrorAttributesNotSettable    Status = 0x0413
	StatusServerErrorInternalError            Status = 0x0500
	StatusServerErrorOperationNotSupported    Status = 0x0501
	StatusServerErrorVersionNotSupported      Status = 0x0503
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "successful-ok"
	case StatusOkIgnoredOrSubstituted:
		return "successful-ok-ignored-or-substituted-attributes"
	case StatusClientErrorBadRequest:
		return "client-error-bad-request"
	case StatusClientErrorNotFound:
		return "client-error-not-found"
	case StatusClientErrorNotPossible:
		return "client-error-not-possible"
	case StatusClientErrorNotAcceptingJobs:
		return "client-error-not-accepting-jobs"
	case StatusClientErrorDocumentFormatNotSupported:
		return "client-error-document-format-not-supported"
	case StatusClientErrorCompressionNotSupported:
		return "client-error-compression-not-supported"
	case StatusClientErrorAttributesNotSettable:
		return "client-error-attributes-not-settable"
	case StatusServerErrorInternalError:
		return "server-error-internal-error"
	case StatusServerErrorOperationNotSupported:
		return "server-error-operation-not-supported"
	case StatusServerErrorVersionNotSupported:
		return "server-error-version-not-supported"
	default:
		return "unknown-status"
	}
}

// Error is the typed error the dispatcher and printer service return for
// any condition that should become an IPP error response rather than a
// transport failure.
type Error struct {
	Code Status
	Msg  string
}

func (e *Error) Error() string {
	if e.Msg == "" {
		return e.Code.String()
	}
	return e.Code.String() + ": " + e.Msg
}

func NewError(code Status, msg string) *Error {
	return &Error{Code: code, Msg: msg}
}
