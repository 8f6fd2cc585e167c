package ippserver

import (
	"github.com/inkspool/ippcore/internal/ipp"
)

// printerAttributes builds the printer-attributes group for
// Get-Printer-Attributes, honoring an optional requested-attributes
// filter (nil means "emit everything", matching the "all" shortcut).
func (s *PrinterService) printerAttributes(req *ipp.Message, requested map[string]bool) ipp.Group {
	g := ipp.Group{Tag: ipp.TagPrinterAttributes}
	add := func(name string, v ipp.Value) {
		if wantAttr(requested, name) {
			g.Add(name, v)
		}
	}
	addMulti := func(name string, values ...ipp.Value) {
		if !wantAttr(requested, name) || len(values) == 0 {
			return
		}
		g.Add(name, ipp.Array(values))
	}

	scheme := s.schemeFor(req)
	printerURI := makeURL(s.Host, s.Basepath, scheme, "printers/"+s.Info.Name)

	add("printer-uri-supported", ipp.URI(printerURI))
	add("uri-authentication-supported", ipp.Keyword("none"))
	if scheme == "ipps" || scheme == "https" {
		add("uri-security-supported", ipp.Keyword("tls"))
	} else {
		add("uri-security-supported", ipp.Keyword("none"))
	}
	add("printer-name", ipp.Name(s.Info.Name))

	state := ipp.Enum(3) // idle
	reason := ipp.Keyword("none")
	if s.stopped.Load() {
		state = ipp.Enum(5) // stopped
		reason = ipp.Keyword("paused")
	}
	add("printer-state", state)
	add("printer-state-reasons", reason)

	addMulti("ipp-versions-supported", ipp.Keyword("1.0"), ipp.Keyword("1.1"), ipp.Keyword("2.0"))
	addMulti("operations-supported",
		ipp.Enum(ipp.OpPrintJob), ipp.Enum(ipp.OpValidateJob), ipp.Enum(ipp.OpCreateJob),
		ipp.Enum(ipp.OpSendDocument), ipp.Enum(ipp.OpCancelJob), ipp.Enum(ipp.OpGetJobAttributes),
		ipp.Enum(ipp.OpGetJobs), ipp.Enum(ipp.OpGetPrinterAttrs), ipp.Enum(ipp.OpHoldJob),
		ipp.Enum(ipp.OpReleaseJob), ipp.Enum(ipp.OpRestartJob), ipp.Enum(ipp.OpPausePrinter),
		ipp.Enum(ipp.OpResumePrinter), ipp.Enum(ipp.OpPurgeJobs),
	)
	add("multiple-document-jobs-supported", ipp.Boolean(false))
	add("charset-configured", ipp.Charset("utf-8"))
	add("charset-supported", ipp.Charset("utf-8"))
	add("natural-language-configured", ipp.NaturalLanguage("en"))
	add("generated-natural-language-supported", ipp.NaturalLanguage("en"))

	formatValues := make([]ipp.Value, len(s.Info.DocumentFormatSupported))
	for i, f := range s.Info.DocumentFormatSupported {
		formatValues[i] = ipp.MimeMediaType(f)
	}
	addMulti("document-format-supported", formatValues...)
	add("document-format-default", ipp.MimeMediaType(s.Info.DocumentFormatDefault))
	if s.Info.DocumentFormatPreferred != "" {
		add("document-format-preferred", ipp.MimeMediaType(s.Info.DocumentFormatPreferred))
	}

	add("printer-is-accepting-jobs", ipp.Boolean(!s.stopped.Load()))
	add("pdl-override-supported", ipp.Keyword("attempted"))
	add("printer-up-time", ipp.Integer(s.uptimeSeconds()))
	addMulti("compression-supported", ipp.Keyword("none"), ipp.Keyword("gzip"))

	add("media-default", ipp.Keyword(s.Info.MediaDefault))
	mediaValues := make([]ipp.Value, len(s.Info.MediaSupported))
	for i, m := range s.Info.MediaSupported {
		mediaValues[i] = ipp.Keyword(m)
	}
	addMulti("media-supported", mediaValues...)

	if s.Info.OrientationDefault != nil {
		add("orientation-requested-default", ipp.Enum(*s.Info.OrientationDefault))
	} else {
		add("orientation-requested-default", ipp.NoValue{})
	}
	orientValues := make([]ipp.Value, len(s.Info.OrientationSupported))
	for i, o := range s.Info.OrientationSupported {
		orientValues[i] = ipp.Enum(o)
	}
	addMulti("orientation-requested-supported", orientValues...)

	add("sides-default", ipp.Keyword(s.Info.SidesDefault))
	sidesValues := make([]ipp.Value, len(s.Info.SidesSupported))
	for i, sd := range s.Info.SidesSupported {
		sidesValues[i] = ipp.Keyword(sd)
	}
	addMulti("sides-supported", sidesValues...)

	add("print-color-mode-default", ipp.Keyword(s.Info.PrintColorModeDefault))
	colorValues := make([]ipp.Value, len(s.Info.PrintColorModeSupported))
	for i, c := range s.Info.PrintColorModeSupported {
		colorValues[i] = ipp.Keyword(c)
	}
	addMulti("print-color-mode-supported", colorValues...)

	if len(s.Info.PrinterResolutionSupported) > 0 {
		resValues := make([]ipp.Value, len(s.Info.PrinterResolutionSupported))
		for i, r := range s.Info.PrinterResolutionSupported {
			resValues[i] = r
		}
		addMulti("printer-resolution-supported", resValues...)
		if s.Info.PrinterResolutionDefault != nil {
			add("printer-resolution-default", *s.Info.PrinterResolutionDefault)
		}
	}

	if len(s.Info.PDFVersionsSupported) > 0 {
		pdfValues := make([]ipp.Value, len(s.Info.PDFVersionsSupported))
		for i, v := range s.Info.PDFVersionsSupported {
			pdfValues[i] = ipp.Keyword(v)
		}
		addMulti("pdf-versions-supported", pdfValues...)
	}

	jobCreationAttrs := []ipp.Value{
		ipp.Keyword("job-name"), ipp.Keyword("media"),
		ipp.Keyword("orientation-requested"), ipp.Keyword("print-color-mode"),
		ipp.Keyword("sides"),
	}
	if len(s.Info.PrinterResolutionSupported) > 0 {
		jobCreationAttrs = append(jobCreationAttrs, ipp.Keyword("printer-resolution"))
	}
	addMulti("job-creation-attributes-supported", jobCreationAttrs...)

	if s.Info.Info != "" {
		add("printer-info", ipp.Text(s.Info.Info))
	}
	if s.Info.MakeAndModel != "" {
		add("printer-make-and-model", ipp.Text(s.Info.MakeAndModel))
	}
	if s.Info.UUID != "" {
		add("printer-uuid", ipp.URI(s.Info.UUID))
	}
	if s.Info.URFSupported != "" {
		add("urf-supported", ipp.Keyword(s.Info.URFSupported))
	}

	return g
}
