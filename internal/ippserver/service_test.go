package ippserver

import (
	"bytes"
	"compress/gzip"
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/inkspool/ippcore/internal/ipp"
	"github.com/inkspool/ippcore/internal/jobcache"
)

type capturingSink struct {
	mu   sync.Mutex
	docs []SimpleIppDocument
	data [][]byte
}

func (s *capturingSink) HandleDocument(ctx context.Context, doc SimpleIppDocument) error {
	data, err := io.ReadAll(doc.Payload)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs = append(s.docs, doc)
	s.data = append(s.data, data)
	return nil
}

func newTestService(t *testing.T, sink Sink) *PrinterService {
	t.Helper()
	cache := jobcache.New(10, time.Hour)
	t.Cleanup(cache.Close)
	info := NewPrinterInfo(WithName("test-printer"))
	return New(info, "localhost:631", "/", sink, cache)
}

func request(op ipp.Op, attrs ...ipp.Attribute) *ipp.Message {
	return &ipp.Message{
		Header: ipp.Header{VersionMajor: 1, VersionMinor: 1, Code: uint16(op), RequestID: 1},
		Attrs: ipp.AttributeSet{Groups: []ipp.Group{
			{Tag: ipp.TagOperationAttributes, Attrs: attrs},
		}},
		Payload: bytes.NewReader(nil),
	}
}

func TestGetPrinterAttributesBaseline(t *testing.T) {
	svc := newTestService(t, &capturingSink{})
	req := request(ipp.OpGetPrinterAttrs, ipp.Attribute{Name: "printer-uri", Value: ipp.URI("ipp://localhost:631/printers/test-printer")})

	resp := svc.HandleRequest(context.Background(), req)
	if resp.Header.Code != uint16(ipp.StatusOK) {
		t.Fatalf("status = 0x%04x, want ok", resp.Header.Code)
	}
	g, ok := resp.Attrs.Group(ipp.TagPrinterAttributes)
	if !ok {
		t.Fatal("no printer-attributes group in response")
	}
	if _, ok := g.Get("printer-name"); !ok {
		t.Error("missing printer-name")
	}
	if _, ok := g.Get("printer-uri-supported"); !ok {
		t.Error("missing printer-uri-supported")
	}
}

func TestGetPrinterAttributesFiltering(t *testing.T) {
	svc := newTestService(t, &capturingSink{})
	req := request(ipp.OpGetPrinterAttrs,
		ipp.Attribute{Name: "requested-attributes", Value: ipp.Array{ipp.Keyword("printer-name")}},
	)
	resp := svc.HandleRequest(context.Background(), req)
	g, _ := resp.Attrs.Group(ipp.TagPrinterAttributes)
	if len(g.Attrs) != 1 {
		t.Fatalf("got %d attrs, want exactly 1 (printer-name)", len(g.Attrs))
	}
	if g.Attrs[0].Name != "printer-name" {
		t.Errorf("attr = %q, want printer-name", g.Attrs[0].Name)
	}
}

func TestGetPrinterAttributesAllBypassesFilter(t *testing.T) {
	svc := newTestService(t, &capturingSink{})
	req := request(ipp.OpGetPrinterAttrs,
		ipp.Attribute{Name: "requested-attributes", Value: ipp.Array{ipp.Keyword("printer-name"), ipp.Keyword("all")}},
	)
	resp := svc.HandleRequest(context.Background(), req)
	g, _ := resp.Attrs.Group(ipp.TagPrinterAttributes)
	if len(g.Attrs) <= 1 {
		t.Fatalf("got %d attrs, want the full unfiltered set", len(g.Attrs))
	}
}

func TestPrintJobHappyPath(t *testing.T) {
	sink := &capturingSink{}
	svc := newTestService(t, sink)
	req := request(ipp.OpPrintJob,
		ipp.Attribute{Name: "printer-uri", Value: ipp.URI("ipp://localhost:631/printers/test-printer")},
		ipp.Attribute{Name: "requesting-user-name", Value: ipp.Name("alice")},
		ipp.Attribute{Name: "document-format", Value: ipp.MimeMediaType("application/pdf")},
	)
	req.Payload = bytes.NewReader([]byte("%PDF-1.4 fake document"))

	resp := svc.HandleRequest(context.Background(), req)
	if resp.Header.Code != uint16(ipp.StatusOK) {
		t.Fatalf("status = 0x%04x, want ok", resp.Header.Code)
	}
	g, ok := resp.Attrs.Group(ipp.TagJobAttributes)
	if !ok {
		t.Fatal("no job-attributes group in response")
	}
	idAttr, _ := g.Get("job-id")
	if _, ok := idAttr.Value.(ipp.Integer); !ok {
		t.Fatal("job-id missing or wrong type")
	}

	if len(sink.data) != 1 {
		t.Fatalf("sink received %d documents, want 1", len(sink.data))
	}
	if string(sink.data[0]) != "%PDF-1.4 fake document" {
		t.Errorf("sink payload = %q", sink.data[0])
	}

	stateAttr, _ := g.Get("job-state")
	if stateAttr.Value.(ipp.Enum) != ipp.Enum(jobcache.JobCompleted) {
		t.Errorf("job-state = %v, want completed", stateAttr.Value)
	}
}

func TestPrintJobUnsupportedDocumentFormat(t *testing.T) {
	svc := newTestService(t, &capturingSink{})
	req := request(ipp.OpPrintJob, ipp.Attribute{Name: "document-format", Value: ipp.MimeMediaType("application/postscript")})
	req.Payload = bytes.NewReader(nil)

	resp := svc.HandleRequest(context.Background(), req)
	if resp.Header.Code != uint16(ipp.StatusClientErrorDocumentFormatNotSupported) {
		t.Fatalf("status = 0x%04x, want document-format-not-supported", resp.Header.Code)
	}
}

func TestPrintJobUnsupportedCompression(t *testing.T) {
	svc := newTestService(t, &capturingSink{})
	req := request(ipp.OpPrintJob, ipp.Attribute{Name: "compression", Value: ipp.Keyword("deflate")})
	req.Payload = bytes.NewReader(nil)

	resp := svc.HandleRequest(context.Background(), req)
	if resp.Header.Code != uint16(ipp.StatusClientErrorCompressionNotSupported) {
		t.Fatalf("status = 0x%04x, want compression-not-supported", resp.Header.Code)
	}
}

func TestPrintJobGzipPayload(t *testing.T) {
	sink := &capturingSink{}
	svc := newTestService(t, sink)

	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, _ = zw.Write([]byte("compressed document body"))
	_ = zw.Close()

	req := request(ipp.OpPrintJob, ipp.Attribute{Name: "compression", Value: ipp.Keyword("gzip")})
	req.Payload = bytes.NewReader(buf.Bytes())

	resp := svc.HandleRequest(context.Background(), req)
	if resp.Header.Code != uint16(ipp.StatusOK) {
		t.Fatalf("status = 0x%04x, want ok", resp.Header.Code)
	}
	if len(sink.data) != 1 || string(sink.data[0]) != "compressed document body" {
		t.Fatalf("sink payload = %v, want decompressed body", sink.data)
	}
}

func TestCreateJobThenSendDocument(t *testing.T) {
	sink := &capturingSink{}
	svc := newTestService(t, sink)

	createResp := svc.HandleRequest(context.Background(), request(ipp.OpCreateJob))
	g, _ := createResp.Attrs.Group(ipp.TagJobAttributes)
	idAttr, _ := g.Get("job-id")
	id := idAttr.Value.(ipp.Integer)

	sendReq := request(ipp.OpSendDocument, ipp.Attribute{Name: "job-id", Value: ipp.Integer(id)})
	sendReq.Payload = bytes.NewReader([]byte("document data"))
	sendResp := svc.HandleRequest(context.Background(), sendReq)
	if sendResp.Header.Code != uint16(ipp.StatusOK) {
		t.Fatalf("send-document status = 0x%04x, want ok", sendResp.Header.Code)
	}
	if len(sink.data) != 1 || string(sink.data[0]) != "document data" {
		t.Fatalf("sink payload = %v", sink.data)
	}
}

func TestCancelJobTransitionsState(t *testing.T) {
	svc := newTestService(t, &capturingSink{})
	createResp := svc.HandleRequest(context.Background(), request(ipp.OpCreateJob))
	g, _ := createResp.Attrs.Group(ipp.TagJobAttributes)
	idAttr, _ := g.Get("job-id")
	id := int32(idAttr.Value.(ipp.Integer))

	cancelResp := svc.HandleRequest(context.Background(), request(ipp.OpCancelJob, ipp.Attribute{Name: "job-id", Value: ipp.Integer(id)}))
	if cancelResp.Header.Code != uint16(ipp.StatusOK) {
		t.Fatalf("cancel status = 0x%04x, want ok", cancelResp.Header.Code)
	}

	job, ok := svc.Cache.Get(id)
	if !ok {
		t.Fatal("job vanished from cache")
	}
	if job.State() != jobcache.JobCanceled {
		t.Errorf("state = %v, want canceled", job.State())
	}
}

func TestGetJobAttributesNotFound(t *testing.T) {
	svc := newTestService(t, &capturingSink{})
	resp := svc.HandleRequest(context.Background(), request(ipp.OpGetJobAttributes, ipp.Attribute{Name: "job-id", Value: ipp.Integer(99999)}))
	if resp.Header.Code != uint16(ipp.StatusClientErrorNotFound) {
		t.Fatalf("status = 0x%04x, want not-found", resp.Header.Code)
	}
}

func TestVersionNotSupported(t *testing.T) {
	svc := newTestService(t, &capturingSink{})
	req := request(ipp.OpGetPrinterAttrs)
	req.Header.VersionMajor = 3
	resp := svc.HandleRequest(context.Background(), req)
	if resp.Header.Code != uint16(ipp.StatusServerErrorVersionNotSupported) {
		t.Fatalf("status = 0x%04x, want version-not-supported", resp.Header.Code)
	}
}

func TestUnknownOperationNotSupported(t *testing.T) {
	svc := newTestService(t, &capturingSink{})
	req := request(ipp.Op(0x0099))
	resp := svc.HandleRequest(context.Background(), req)
	if resp.Header.Code != uint16(ipp.StatusServerErrorOperationNotSupported) {
		t.Fatalf("status = 0x%04x, want operation-not-supported", resp.Header.Code)
	}
}

func TestPausePrinterRejectsNewJobs(t *testing.T) {
	svc := newTestService(t, &capturingSink{})
	pauseResp := svc.HandleRequest(context.Background(), request(ipp.OpPausePrinter))
	if pauseResp.Header.Code != uint16(ipp.StatusOK) {
		t.Fatalf("pause status = 0x%04x, want ok", pauseResp.Header.Code)
	}

	printResp := svc.HandleRequest(context.Background(), request(ipp.OpPrintJob))
	if printResp.Header.Code != uint16(ipp.StatusClientErrorNotAcceptingJobs) {
		t.Fatalf("print status = 0x%04x, want not-accepting-jobs", printResp.Header.Code)
	}

	resumeResp := svc.HandleRequest(context.Background(), request(ipp.OpResumePrinter))
	if resumeResp.Header.Code != uint16(ipp.StatusOK) {
		t.Fatalf("resume status = 0x%04x, want ok", resumeResp.Header.Code)
	}
}
