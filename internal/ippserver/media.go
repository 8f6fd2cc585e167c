package ippserver

import "strings"

// MediaProfile lists the media sizes a known device class supports, so a
// config file can name a printer model rather than enumerate every IPP
// media keyword by hand.
type MediaProfile struct {
	Name         string
	ModelMatch   []string
	MediaNames   []string
	DefaultMedia string
}

// builtinMediaProfiles covers the label-printer device classes common in
// small-format IPP deployments; a4/letter office printers use PrinterInfo's
// ordinary defaults instead of a profile.
var builtinMediaProfiles = []MediaProfile{
	{
		Name:       "zebra-4x6",
		ModelMatch: []string{"Zebra", "ZPL"},
		MediaNames: []string{
			"oe_4x6-label_4x6in", "oe_4x4-label_4x4in", "oe_4x3-label_4x3in", "oe_4x2-label_4x2in",
		},
		DefaultMedia: "oe_4x6-label_4x6in",
	},
	{
		Name:       "dymo-labelwriter",
		ModelMatch: []string{"DYMO", "LabelWriter"},
		MediaNames: []string{
			"oe_w167h288_30256", "oe_w79h252_30252", "oe_w101h252_30320",
		},
		DefaultMedia: "oe_w167h288_30256",
	},
	{
		Name:       "brother-ql",
		ModelMatch: []string{"Brother", "QL-"},
		MediaNames: []string{
			"oe_62x100mm_62x100mm", "oe_62x29mm_62x29mm", "oe_29x90mm_29x90mm",
		},
		DefaultMedia: "oe_62x100mm_62x100mm",
	},
}

// MediaProfileForModel finds the built-in profile whose ModelMatch
// substrings appear in makeModel, case-insensitively, or nil if the device
// should just use the generic office-paper defaults.
func MediaProfileForModel(makeModel string) *MediaProfile {
	lower := strings.ToLower(makeModel)
	for i := range builtinMediaProfiles {
		for _, m := range builtinMediaProfiles[i].ModelMatch {
			if strings.Contains(lower, strings.ToLower(m)) {
				return &builtinMediaProfiles[i]
			}
		}
	}
	return nil
}
