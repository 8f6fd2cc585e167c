package ippserver

import "strings"

// makeURL builds a printer or job URI from the service's configured host
// and basepath. scheme defaults to "ipp" when empty.
func makeURL(host, basepath, scheme, path string) string {
	if scheme == "" {
		scheme = "ipp"
	}
	base := strings.Trim(basepath, "/")
	p := strings.Trim(path, "/")

	var b strings.Builder
	b.WriteString(scheme)
	b.WriteString("://")
	b.WriteString(host)
	if base != "" {
		b.WriteByte('/')
		b.WriteString(base)
	}
	if p != "" {
		b.WriteByte('/')
		b.WriteString(p)
	}
	return b.String()
}
