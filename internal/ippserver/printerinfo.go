// Package ippserver implements the printer service (C6) and dispatcher
// (C5): the operation handlers that turn parsed IPP requests into
// responses, backed by a job cache and a pluggable document sink.
package ippserver

import "github.com/inkspool/ippcore/internal/ipp"

// PrinterInfo is the immutable, constructor-built configuration for one
// printer object. Defaults mirror a minimal, PDF-only printer; callers
// override only what their device actually supports.
type PrinterInfo struct {
	Name             string
	Info             string
	MakeAndModel     string
	UUID             string // URN form, e.g. "urn:uuid:...", empty to omit

	DocumentFormatSupported []string
	DocumentFormatDefault   string
	DocumentFormatPreferred string

	MediaSupported []string
	MediaDefault   string

	OrientationSupported []ipp.PageOrientation
	OrientationDefault   *ipp.PageOrientation

	SidesSupported []string
	SidesDefault   string

	PrintColorModeSupported []string
	PrintColorModeDefault   string

	PrinterResolutionSupported []ipp.Resolution
	PrinterResolutionDefault   *ipp.Resolution

	PDFVersionsSupported []string

	// URFSupported, if non-empty, is emitted verbatim as the
	// urf-supported keyword attribute (PWG 5100.13), a capability
	// keyword AirPrint-style clients use instead of walking the full
	// job-template attribute set.
	URFSupported string
}

type PrinterInfoOption func(*PrinterInfo)

// NewPrinterInfo builds a PrinterInfo with the reference defaults, then
// applies options in order.
func NewPrinterInfo(opts ...PrinterInfoOption) *PrinterInfo {
	p := &PrinterInfo{
		Name:                     "IppServer",
		Info:                     "IppServer",
		MakeAndModel:             "IppServer",
		DocumentFormatSupported:  []string{"application/pdf"},
		DocumentFormatDefault:    "application/pdf",
		DocumentFormatPreferred:  "application/pdf",
		MediaSupported:           []string{"iso_a4_210x297mm"},
		MediaDefault:             "iso_a4_210x297mm",
		OrientationSupported:     []ipp.PageOrientation{ipp.OrientationPortrait},
		SidesSupported:           []string{"one-sided"},
		SidesDefault:             "one-sided",
		PrintColorModeSupported: []string{"monochrome", "color"},
		PrintColorModeDefault:   "monochrome",
		PDFVersionsSupported: []string{
			"adobe-1.3", "adobe-1.4", "adobe-1.5", "adobe-1.6", "adobe-1.7",
			"iso-32000-1_2008", "pwg-5102.3",
		},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func WithName(name string) PrinterInfoOption {
	return func(p *PrinterInfo) { p.Name = name }
}

func WithInfo(info, makeAndModel string) PrinterInfoOption {
	return func(p *PrinterInfo) { p.Info = info; p.MakeAndModel = makeAndModel }
}

func WithUUID(urn string) PrinterInfoOption {
	return func(p *PrinterInfo) { p.UUID = urn }
}

func WithDocumentFormats(supported []string, def, preferred string) PrinterInfoOption {
	return func(p *PrinterInfo) {
		p.DocumentFormatSupported = supported
		p.DocumentFormatDefault = def
		p.DocumentFormatPreferred = preferred
	}
}

func WithMedia(supported []string, def string) PrinterInfoOption {
	return func(p *PrinterInfo) { p.MediaSupported = supported; p.MediaDefault = def }
}

func WithOrientations(supported []ipp.PageOrientation, def *ipp.PageOrientation) PrinterInfoOption {
	return func(p *PrinterInfo) { p.OrientationSupported = supported; p.OrientationDefault = def }
}

func WithSides(supported []string, def string) PrinterInfoOption {
	return func(p *PrinterInfo) { p.SidesSupported = supported; p.SidesDefault = def }
}

func WithPrintColorModes(supported []string, def string) PrinterInfoOption {
	return func(p *PrinterInfo) { p.PrintColorModeSupported = supported; p.PrintColorModeDefault = def }
}

func WithResolutions(supported []ipp.Resolution, def *ipp.Resolution) PrinterInfoOption {
	return func(p *PrinterInfo) { p.PrinterResolutionSupported = supported; p.PrinterResolutionDefault = def }
}

func WithURFSupported(urf string) PrinterInfoOption {
	return func(p *PrinterInfo) { p.URFSupported = urf }
}

// WithURFFromCapabilities derives the urf-supported keyword from a
// device's color/duplex support and resolution list instead of requiring
// the caller to assemble the PWG 5100.13 keyword string by hand.
func WithURFFromCapabilities(colorSupported, duplexSupported bool, resolutionsDPI []int) PrinterInfoOption {
	return func(p *PrinterInfo) {
		p.URFSupported = urfCapabilityString(colorSupported, duplexSupported, resolutionsDPI)
	}
}
