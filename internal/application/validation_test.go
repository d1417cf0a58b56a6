package application

import (
	"errors"
	"testing"

	"wpkirby/internal/domain"
)

func TestValidateRequired(t *testing.T) {
	tests := []struct {
		name      string
		fieldName string
		value     string
		wantErr   bool
	}{
		{
			name:      "valid value",
			fieldName: "exportRoot",
			value:     "/tmp/kirby-export",
			wantErr:   false,
		},
		{
			name:      "empty string",
			fieldName: "exportRoot",
			value:     "",
			wantErr:   true,
		},
		{
			name:      "whitespace only",
			fieldName: "source",
			value:     "   ",
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRequired(tt.fieldName, tt.value)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateRequired() error = %v, wantErr %v", err, tt.wantErr)
			}

			if err != nil {
				var valErr *ValidationError
				if !errors.As(err, &valErr) {
					t.Errorf("expected ValidationError, got %T", err)
				}
				if valErr.Field != tt.fieldName {
					t.Errorf("expected field %s, got %s", tt.fieldName, valErr.Field)
				}
			}
		})
	}
}

func TestValidateRunConfig(t *testing.T) {
	tests := []struct {
		name      string
		cfg       domain.RunConfig
		wantField string
	}{
		{
			name: "valid config",
			cfg:  domain.RunConfig{SiteURL: "https://example.com", BlogBase: "blog", Credential: "token"},
		},
		{
			name:      "missing site URL",
			cfg:       domain.RunConfig{BlogBase: "blog", Credential: "token"},
			wantField: "SiteURL",
		},
		{
			name:      "relative site URL",
			cfg:       domain.RunConfig{SiteURL: "example.com/blog", BlogBase: "blog", Credential: "token"},
			wantField: "SiteURL",
		},
		{
			name:      "ftp site URL",
			cfg:       domain.RunConfig{SiteURL: "ftp://example.com", BlogBase: "blog", Credential: "token"},
			wantField: "SiteURL",
		},
		{
			name:      "missing blog base",
			cfg:       domain.RunConfig{SiteURL: "https://example.com", Credential: "token"},
			wantField: "BlogBase",
		},
		{
			name:      "blog base without safe characters",
			cfg:       domain.RunConfig{SiteURL: "https://example.com", BlogBase: "../", Credential: "token"},
			wantField: "BlogBase",
		},
		{
			name:      "missing credential",
			cfg:       domain.RunConfig{SiteURL: "https://example.com", BlogBase: "blog"},
			wantField: "Credential",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRunConfig(tt.cfg)
			if tt.wantField == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}

			var valErr *ValidationError
			if !errors.As(err, &valErr) {
				t.Fatalf("expected ValidationError, got %T (%v)", err, err)
			}
			if valErr.Field != tt.wantField {
				t.Errorf("expected field %s, got %s", tt.wantField, valErr.Field)
			}
		})
	}
}

func TestErrorSentinels(t *testing.T) {
	cause := errors.New("disk full")

	tests := []struct {
		name     string
		err      error
		sentinel error
	}{
		{"authorization", &AuthorizationError{Reason: "expired"}, ErrUnauthorized},
		{"directory", &DirectoryCreationError{Path: "/x", Cause: cause}, ErrDirectory},
		{"lookup", &SourceLookupError{Kind: "attachment", Key: "7"}, ErrNotFound},
		{"write", &SerializationWriteError{Path: "/x/journal.txt", Cause: cause}, ErrWrite},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !errors.Is(tt.err, tt.sentinel) {
				t.Errorf("expected %v to match %v", tt.err, tt.sentinel)
			}
		})
	}

	wrapped := &SerializationWriteError{Path: "/x", Cause: cause}
	if !errors.Is(wrapped, cause) {
		t.Errorf("expected cause to be reachable through Unwrap")
	}
}
