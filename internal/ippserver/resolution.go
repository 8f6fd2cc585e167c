package ippserver

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/inkspool/ippcore/internal/ipp"
)

var resolutionPattern = regexp.MustCompile(`(\d+)(?:x(\d+))?dpi`)

// ParseResolutionKeywords extracts DPI values from configuration strings
// like "300dpi" or "300x600dpi", the format a printer's config file lists
// supported resolutions in, deduplicating as it goes.
func ParseResolutionKeywords(values []string) []int {
	seen := make(map[int]bool)
	var out []int
	for _, v := range values {
		m := resolutionPattern.FindStringSubmatch(strings.ToLower(v))
		if len(m) < 2 {
			continue
		}
		if dpi, err := strconv.Atoi(m[1]); err == nil && !seen[dpi] {
			seen[dpi] = true
			out = append(out, dpi)
		}
		if len(m) >= 3 && m[2] != "" {
			if dpi, err := strconv.Atoi(m[2]); err == nil && !seen[dpi] {
				seen[dpi] = true
				out = append(out, dpi)
			}
		}
	}
	return out
}

// DefaultResolutionDPI picks a sensible default from a set of supported
// DPI values, preferring the common 300 or 600 dpi presets over an
// arbitrary highest value.
func DefaultResolutionDPI(resolutions []int) int {
	if len(resolutions) == 0 {
		return 300
	}
	for _, dpi := range resolutions {
		if dpi == 300 || dpi == 600 {
			return dpi
		}
	}
	max := resolutions[0]
	for _, dpi := range resolutions[1:] {
		if dpi > max {
			max = dpi
		}
	}
	return max
}

// ResolutionsFromDPI converts a set of square DPI values into
// printer-resolution attribute values.
func ResolutionsFromDPI(dpis []int) []ipp.Resolution {
	out := make([]ipp.Resolution, len(dpis))
	for i, dpi := range dpis {
		out[i] = ipp.Resolution{CrossFeed: int32(dpi), Feed: int32(dpi), Units: ipp.UnitsDotsPerInch}
	}
	return out
}
