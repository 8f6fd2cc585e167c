package ippserver

import (
	"context"
	"io"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/inkspool/ippcore/internal/ipp"
	"github.com/inkspool/ippcore/internal/jobcache"
)

// SimpleIppDocument is the document a Sink receives: the declared
// document-format, the job-template attributes resolved against the
// printer's defaults, and the (already decompressed) payload stream.
type SimpleIppDocument struct {
	Format        string
	JobID         int32
	JobAttributes jobcache.TemplateAttrs
	Payload       io.Reader
}

// Sink is the single collaborator the printer service needs from the
// outside world: somewhere to hand off a received document. Everything
// about rendering, spooling to a physical device, or persisting the job
// is the sink's business, not the core's.
type Sink interface {
	HandleDocument(ctx context.Context, doc SimpleIppDocument) error
}

// PrinterService implements the operations named in RFC 8011 against one
// Sink and one job cache. It is the C6 printer object; the HTTP front end
// and dispatcher are thin wrappers around it.
type PrinterService struct {
	Info     *PrinterInfo
	Host     string
	Basepath string
	Sink     Sink
	Cache    *jobcache.Cache
	log      zerolog.Logger

	startTime time.Time
	stopped   atomic.Bool

	dispatcher *Dispatcher
}

type Option func(*PrinterService)

func WithLogger(log zerolog.Logger) Option {
	return func(s *PrinterService) { s.log = log }
}

// New builds a printer service and its dispatcher. host and basepath feed
// makeURL for every uri attribute this service emits.
func New(info *PrinterInfo, host, basepath string, sink Sink, cache *jobcache.Cache, opts ...Option) *PrinterService {
	s := &PrinterService{
		Info:      info,
		Host:      host,
		Basepath:  basepath,
		Sink:      sink,
		Cache:     cache,
		log:       zerolog.Nop(),
		startTime: time.Now(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.dispatcher = newDispatcher(s)
	return s
}

// HandleRequest dispatches a single parsed request to its operation
// handler and returns the response to encode back to the client.
func (s *PrinterService) HandleRequest(ctx context.Context, req *ipp.Message) *ipp.Message {
	return s.dispatcher.HandleRequest(ctx, req)
}

func (s *PrinterService) uptimeSeconds() int32 {
	return int32(time.Since(s.startTime) / time.Second)
}

func (s *PrinterService) schemeFor(req *ipp.Message) string {
	if a, ok := findAttr(req, "printer-uri"); ok {
		if u, ok := asKeyword(a, true); ok {
			if i := indexScheme(u); i > 0 {
				return u[:i]
			}
		}
	}
	return "ipp"
}

func indexScheme(u string) int {
	for i := 0; i < len(u); i++ {
		if u[i] == ':' {
			return i
		}
	}
	return -1
}
