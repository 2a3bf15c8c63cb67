package config

import (
	"strings"
	"testing"
)

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		baseURL string
		wantErr bool
	}{
		{"valid", "http://localhost:19455", false},
		{"empty", "", true},
		{"whitespace only", "   ", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			o := &Options{BaseURL: tc.baseURL}
			err := o.Validate()
			if tc.wantErr && err == nil {
				t.Fatal("expected error, got nil")
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestValidate_ErrorType(t *testing.T) {
	o := &Options{}
	err := o.Validate()
	cfgErr, ok := err.(*Error)
	if !ok {
		t.Fatalf("expected *Error, got %T", err)
	}
	if cfgErr.Field != "baseUrl" {
		t.Errorf("Field = %q; want baseUrl", cfgErr.Field)
	}
	if !strings.Contains(err.Error(), "base URL is required") {
		t.Errorf("unexpected message: %q", err.Error())
	}
}
