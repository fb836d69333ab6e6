package cmd

import (
	"testing"

	"github.com/opsmind/opsmind/internal/workflow"
)

func TestParseMode(t *testing.T) {
	tests := []struct {
		input   string
		want    workflow.Mode
		wantErr bool
	}{
		{"auto", workflow.ModeAuto, false},
		{"", workflow.ModeAuto, false},
		{"force", workflow.ModeForce, false},
		{"suppress", workflow.ModeSuppress, false},
		{"always", workflow.ModeAuto, true},
	}

	for _, tt := range tests {
		got, err := parseMode(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseMode(%q) error = %v, wantErr %t", tt.input, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("parseMode(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}
