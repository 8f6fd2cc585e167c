package ipp

import "errors"

var (
	// ErrTruncatedHeader is returned when fewer than 8 bytes are available
	// for the version/operation/request-id header.
	ErrTruncatedHeader = errors.New("ipp: truncated message header")
	// ErrMissingEndOfAttributes is returned when the attribute stream ends
	// without an end-of-attributes-tag delimiter.
	ErrMissingEndOfAttributes = errors.New("ipp: missing end-of-attributes-tag")
	// ErrTruncatedAttribute is returned when a name or value length prefix
	// claims more bytes than the stream delivers.
	ErrTruncatedAttribute = errors.New("ipp: truncated attribute")
	// ErrBadDelimiter is returned when a byte in the delimiter range does
	// not match a known DelimiterTag.
	ErrBadDelimiter = errors.New("ipp: unrecognized delimiter tag")
)
