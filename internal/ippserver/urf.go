package ippserver

import (
	"fmt"
	"sort"
	"strings"
)

// urfCapabilityString builds the urf-supported keyword (PWG 5100.13)
// advertising color/copies/resolution/duplex support in the compact form
// AirPrint-style clients read instead of walking the job-template
// attribute set.
func urfCapabilityString(colorSupported, duplexSupported bool, resolutionsDPI []int) string {
	colorModes := []string{"W8"}
	if colorSupported {
		colorModes = append(colorModes, "SRGB24")
	}
	duplex := []string{"DM1"}
	if duplexSupported {
		duplex = append(duplex, "DM3", "DM4")
	}

	var parts []string
	parts = append(parts, colorModes...)
	parts = append(parts, "CP255")
	parts = append(parts, resolutionRangeKeyword(resolutionsDPI))
	parts = append(parts, duplex...)
	return strings.Join(parts, ",")
}

func resolutionRangeKeyword(dpis []int) string {
	if len(dpis) == 0 {
		return "RS300"
	}
	sorted := make([]int, len(dpis))
	copy(sorted, dpis)
	sort.Ints(sorted)
	unique := sorted[:1]
	for _, d := range sorted[1:] {
		if d != unique[len(unique)-1] {
			unique = append(unique, d)
		}
	}
	if len(unique) == 1 {
		return fmt.Sprintf("RS%d", unique[0])
	}
	return fmt.Sprintf("RS%d-%d", unique[0], unique[len(unique)-1])
}
