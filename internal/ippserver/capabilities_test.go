package ippserver

import (
	"reflect"
	"testing"
)

func TestParseResolutionKeywords(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []int
	}{
		{"single dpi", []string{"300dpi"}, []int{300}},
		{"cross product dpi", []string{"300x600dpi"}, []int{300, 600}},
		{"dedupes", []string{"300dpi", "300dpi", "600dpi"}, []int{300, 600}},
		{"ignores junk", []string{"not-a-resolution"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseResolutionKeywords(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDefaultResolutionDPI(t *testing.T) {
	tests := []struct {
		name string
		in   []int
		want int
	}{
		{"empty falls back to 300", nil, 300},
		{"prefers 300 when present", []int{150, 300, 1200}, 300},
		{"prefers 600 when present and no 300", []int{600, 1200}, 600},
		{"falls back to highest", []int{150, 200}, 200},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DefaultResolutionDPI(tt.in); got != tt.want {
				t.Errorf("got %d, want %d", got, tt.want)
			}
		})
	}
}

func TestMediaProfileForModel(t *testing.T) {
	tests := []struct {
		name      string
		makeModel string
		wantNil   bool
		wantName  string
	}{
		{"zebra match", "Zebra ZD420", false, "zebra-4x6"},
		{"dymo match", "DYMO LabelWriter 450", false, "dymo-labelwriter"},
		{"generic office printer", "HP LaserJet Pro", true, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := MediaProfileForModel(tt.makeModel)
			if tt.wantNil {
				if p != nil {
					t.Fatalf("got profile %q, want nil", p.Name)
				}
				return
			}
			if p == nil || p.Name != tt.wantName {
				t.Fatalf("got %v, want profile %q", p, tt.wantName)
			}
		})
	}
}

func TestURFCapabilityString(t *testing.T) {
	tests := []struct {
		name            string
		colorSupported  bool
		duplexSupported bool
		dpis            []int
		want            string
	}{
		{"monochrome simplex", false, false, []int{300}, "W8,CP255,RS300,DM1"},
		{"color duplex range", true, true, []int{300, 600}, "W8,SRGB24,CP255,RS300-600,DM1,DM3,DM4"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := urfCapabilityString(tt.colorSupported, tt.duplexSupported, tt.dpis)
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}
