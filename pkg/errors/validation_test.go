package errors

import (
	"strings"
	"testing"
)

func TestValidateTreatmentName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "valid", input: "placebo", wantErr: false},
		{name: "valid with spaces inside", input: "low dose aspirin", wantErr: false},
		{name: "valid unicode", input: "β-blocker", wantErr: false},
		{name: "empty", input: "", wantErr: true},
		{name: "leading whitespace", input: " aspirin", wantErr: true},
		{name: "trailing whitespace", input: "aspirin ", wantErr: true},
		{name: "control character", input: "asp\x00irin", wantErr: true},
		{name: "too long", input: strings.Repeat("x", 257), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTreatmentName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateTreatmentName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidTreatment) {
				t.Errorf("code = %v, want %v", GetCode(err), ErrCodeInvalidTreatment)
			}
		})
	}
}

func TestValidateStudyID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "valid", input: "NCT01234567", wantErr: false},
		{name: "empty", input: "", wantErr: true},
		{name: "control character", input: "S\x001", wantErr: true},
		{name: "too long", input: strings.Repeat("s", 257), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStudyID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateStudyID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateSimulations(t *testing.T) {
	tests := []struct {
		name    string
		input   int
		wantErr bool
	}{
		{name: "zero means default", input: 0, wantErr: false},
		{name: "typical", input: 10000, wantErr: false},
		{name: "negative", input: -1, wantErr: true},
		{name: "too large", input: 10_000_001, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSimulations(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateSimulations(%d) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
