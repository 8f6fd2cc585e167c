package ippserver

import (
	"fmt"

	"github.com/inkspool/ippcore/internal/ipp"
	"github.com/inkspool/ippcore/internal/jobcache"
)

// jobAttributes builds the job-attributes group Print-Job/Create-Job/
// Send-Document (creation confirmation) and Get-Job-Attributes/Get-Jobs
// (full job group) return for one cached job, honoring a requested-
// attributes filter keyed on individual names or the "job-description"/
// "job-template" group keywords (nil/"all" means emit everything).
func (s *PrinterService) jobAttributes(req *ipp.Message, job *jobcache.Job) ipp.Group {
	requested := requestedAttributes(req)
	scheme := s.schemeFor(req)
	jobURI := makeURL(s.Host, s.Basepath, scheme, fmt.Sprintf("jobs/%d", job.ID))
	printerURI := makeURL(s.Host, s.Basepath, scheme, "printers/"+s.Info.Name)

	g := ipp.Group{Tag: ipp.TagJobAttributes}
	addDesc := func(name string, v ipp.Value) {
		if wantJobAttr(requested, name, "job-description") {
			g.Add(name, v)
		}
	}
	addTmpl := func(name string, v ipp.Value) {
		if wantJobAttr(requested, name, "job-template") {
			g.Add(name, v)
		}
	}

	addDesc("job-uri", ipp.URI(jobURI))
	addDesc("job-id", ipp.Integer(job.ID))
	addDesc("job-state", ipp.Enum(job.State()))
	addDesc("job-state-reasons", ipp.Keyword(job.StateReason))
	addDesc("job-state-message", ipp.Text(job.StateMessage))
	addDesc("job-printer-uri", ipp.URI(printerURI))
	name := job.Template.JobName
	if name == "" {
		name = fmt.Sprintf("Print job %d", job.ID)
	}
	addDesc("job-name", ipp.Name(name))
	addDesc("job-originating-user-name", ipp.Name(job.OriginatingUser))
	addDesc("time-at-creation", ipp.Integer(job.CreatedAt.Unix()))
	if job.ProcessingAt != nil {
		addDesc("time-at-processing", ipp.Integer(job.ProcessingAt.Unix()))
	} else {
		addDesc("time-at-processing", ipp.NoValue{})
	}
	if job.CompletedAt != nil {
		addDesc("time-at-completed", ipp.Integer(job.CompletedAt.Unix()))
	} else {
		addDesc("time-at-completed", ipp.NoValue{})
	}
	addDesc("printer-up-time", ipp.Integer(s.uptimeSeconds()))

	addTmpl("media", ipp.Keyword(job.Template.Media))
	if job.Template.Orientation != nil {
		addTmpl("orientation-requested", ipp.Enum(*job.Template.Orientation))
	} else {
		addTmpl("orientation-requested", ipp.NoValue{})
	}
	addTmpl("sides", ipp.Keyword(job.Template.Sides))
	addTmpl("print-color-mode", ipp.Keyword(job.Template.PrintColorMode))
	if job.Template.Resolution != nil {
		r := job.Template.Resolution
		addTmpl("printer-resolution", ipp.Resolution{CrossFeed: r.CrossFeed, Feed: r.Feed, Units: ipp.ResolutionUnits(r.Units)})
	}

	return g
}

// takeJobTemplateAttrs extracts the job-creation attributes a client
// supplied, falling back to the printer's configured defaults for
// anything absent, matching how a client is allowed to omit any or all
// job-template attributes.
func (s *PrinterService) takeJobTemplateAttrs(req *ipp.Message) jobcache.TemplateAttrs {
	t := jobcache.TemplateAttrs{
		Media:          s.Info.MediaDefault,
		Sides:          s.Info.SidesDefault,
		PrintColorMode: s.Info.PrintColorModeDefault,
	}
	if v, ok := asKeyword(findAttr(req, "media")); ok {
		t.Media = v
	}
	if v, ok := asKeyword(findAttr(req, "sides")); ok {
		t.Sides = v
	}
	if v, ok := asKeyword(findAttr(req, "print-color-mode")); ok {
		t.PrintColorMode = v
	}
	if v, ok := asKeyword(findAttr(req, "job-name")); ok {
		t.JobName = v
	}
	if v, ok := asInteger(findAttr(req, "orientation-requested")); ok {
		t.Orientation = &v
	} else if s.Info.OrientationDefault != nil {
		v := int32(*s.Info.OrientationDefault)
		t.Orientation = &v
	}
	if v, ok := asResolution(findAttr(req, "printer-resolution")); ok {
		t.Resolution = &jobcache.ResolutionValue{CrossFeed: v.CrossFeed, Feed: v.Feed, Units: byte(v.Units)}
	} else if s.Info.PrinterResolutionDefault != nil {
		d := s.Info.PrinterResolutionDefault
		t.Resolution = &jobcache.ResolutionValue{CrossFeed: d.CrossFeed, Feed: d.Feed, Units: byte(d.Units)}
	}
	return t
}
