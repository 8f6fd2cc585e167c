package ippserver

import "github.com/inkspool/ippcore/internal/ipp"

// findAttr looks an attribute up by name across the groups a request
// actually carries it in: operation attributes first, then job attributes,
// matching where a client is allowed to place job-template attributes.
func findAttr(msg *ipp.Message, name string) (ipp.Attribute, bool) {
	if g, ok := msg.Attrs.Group(ipp.TagOperationAttributes); ok {
		if a, ok := g.Get(name); ok {
			return a, true
		}
	}
	if g, ok := msg.Attrs.Group(ipp.TagJobAttributes); ok {
		if a, ok := g.Get(name); ok {
			return a, true
		}
	}
	return ipp.Attribute{}, false
}

func asKeyword(a ipp.Attribute, ok bool) (string, bool) {
	if !ok {
		return "", false
	}
	switch v := a.Value.(type) {
	case ipp.Keyword:
		return string(v), true
	case ipp.Name:
		return string(v), true
	case ipp.MimeMediaType:
		return string(v), true
	case ipp.URI:
		return string(v), true
	default:
		return "", false
	}
}

func asInteger(a ipp.Attribute, ok bool) (int32, bool) {
	if !ok {
		return 0, false
	}
	switch v := a.Value.(type) {
	case ipp.Integer:
		return int32(v), true
	case ipp.Enum:
		return int32(v), true
	default:
		return 0, false
	}
}

func asResolution(a ipp.Attribute, ok bool) (ipp.Resolution, bool) {
	if !ok {
		return ipp.Resolution{}, false
	}
	r, ok := a.Value.(ipp.Resolution)
	return r, ok
}

// stringSet builds a lookup set from a slice of requested-attribute
// keywords, or nil when "all" is present anywhere in the list, matching
// the rule that "all" disables filtering entirely.
func stringSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		if v == "all" {
			return nil
		}
		set[v] = true
	}
	return set
}

// wantAttr reports whether name should be emitted given a (possibly nil)
// requested-attributes set; nil means "emit everything".
func wantAttr(requested map[string]bool, name string) bool {
	if requested == nil {
		return true
	}
	return requested[name]
}

// wantJobAttr is wantAttr plus the job-attribute group keywords
// ("job-description", "job-template"): requesting the group keyword pulls
// in every attribute tagged with that group, not just an exact name match.
func wantJobAttr(requested map[string]bool, name, group string) bool {
	if requested == nil {
		return true
	}
	return requested[name] || requested[group]
}
