package settings

import (
	"testing"
)

func TestNewCliParams(t *testing.T) {
	tests := []struct {
		name string
		want *Run
	}{
		{
			name: "default CLI params",
			want: &Run{
				MinLogLevel: 0,
				Manifest: ManifestSettings{
					FromURL: false,
					Source:  "manifest.json",
				},
				Client:  ClientDesktop,
				NoColor: false,
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewCliParams()
			if *got != *tt.want {
				t.Errorf("NewCliParams() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestIsMobile(t *testing.T) {
	var nilRun *Run
	if nilRun.IsMobile() {
		t.Error("nil run should not be mobile")
	}
	r := NewCliParams()
	if r.IsMobile() {
		t.Error("default run should be desktop")
	}
	r.Client = ClientMobile
	if !r.IsMobile() {
		t.Error("expected mobile client")
	}
}
