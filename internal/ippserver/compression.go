package ippserver

import (
	"compress/gzip"
	"io"

	"github.com/inkspool/ippcore/internal/ipp"
)

// wrapPayload applies the decompression named by the request's
// compression attribute. Only "none" (or absent) and "gzip" are
// supported; anything else is a client error per RFC 8011's
// compression-supported semantics. gzip.NewReader reads only the gzip
// header up front; the body is decompressed as the sink reads it, so
// wrapping here does not force the payload to be buffered.
func wrapPayload(payload io.Reader, compression string) (io.Reader, error) {
	switch compression {
	case "", "none":
		return payload, nil
	case "gzip":
		zr, err := gzip.NewReader(payload)
		if err != nil {
			return nil, ipp.NewError(ipp.StatusClientErrorCompressionNotSupported, "invalid gzip stream: "+err.Error())
		}
		return zr, nil
	default:
		return nil, ipp.NewError(ipp.StatusClientErrorCompressionNotSupported, "unsupported compression: "+compression)
	}
}
