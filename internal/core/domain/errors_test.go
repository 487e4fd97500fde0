package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrors_Codes(t *testing.T) {
	tests := []struct {
		err  *DomainError
		code string
		text string
	}{
		{ErrInvalidLabel, "MB-LABL-4000", "[MB-LABL-4000] invalid label"},
		{ErrInvalidConfig, "MB-CONF-4000", "[MB-CONF-4000] invalid configuration"},
		{ErrNoResult, "MB-STOR-4040", "[MB-STOR-4040] no persisted result"},
		{ErrStorageUnavailable, "MB-STOR-5000", "[MB-STOR-5000] result storage unavailable"},
		{ErrMalformedData, "MB-DATA-4220", "[MB-DATA-4220] malformed persisted data"},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			if tt.err.Code != tt.code {
				t.Errorf("Code = %q, want %q", tt.err.Code, tt.code)
			}
			if got := tt.err.Error(); got != tt.text {
				t.Errorf("Error() = %q, want %q", got, tt.text)
			}
		})
	}
}

func TestErrors_MalformedSlot(t *testing.T) {
	cause := errors.New("codec: sample data is 10 bytes, want 8+24*N")
	err := fmt.Errorf("read sort/current-sample: %w",
		ErrMalformedData.Detailf("label %q", "sort").WithCause(cause))

	if got := err.Error(); got != `read sort/current-sample: [MB-DATA-4220] malformed persisted data: label "sort"` {
		t.Errorf("Error() = %q", got)
	}
	if !errors.Is(err, ErrMalformedData) {
		t.Error("errors.Is(err, ErrMalformedData) = false")
	}
	if errors.Is(err, ErrNoResult) {
		t.Error("errors.Is(err, ErrNoResult) = true, codes differ")
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is should find the codec cause")
	}
	if ErrMalformedData.Details != "" || ErrMalformedData.Cause != nil {
		t.Error("Detailf/WithCause modified the shared sentinel")
	}
}

func TestIsDomainError(t *testing.T) {
	wrapped := fmt.Errorf("storage: %w", ErrNoResult.Detailf("label %q", "fib"))

	tests := []struct {
		name string
		err  error
		code string
		want bool
	}{
		{"matching code", wrapped, "MB-STOR-4040", true},
		{"other code", wrapped, "MB-STOR-5000", false},
		{"any domain error", wrapped, "", true},
		{"plain error", errors.New("disk full"), "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsDomainError(tt.err, tt.code); got != tt.want {
				t.Errorf("IsDomainError() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "nil", err: nil, want: 0},
		{name: "invalid label", err: ErrInvalidLabel, want: 64},
		{name: "wrapped invalid config", err: fmt.Errorf("load: %w", ErrInvalidConfig.WithDetails("x")), want: 64},
		{name: "malformed data", err: ErrMalformedData, want: 65},
		{name: "no result", err: ErrNoResult, want: 66},
		{name: "storage unavailable", err: ErrStorageUnavailable, want: 74},
		{name: "unmapped code", err: NewDomainError("MB-CLI-5000", "unexpected"), want: 1},
		{name: "regular error", err: errors.New("regular error"), want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExitCode(tt.err); got != tt.want {
				t.Errorf("ExitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}
