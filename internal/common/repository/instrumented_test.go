package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, "success"},
		{"not found", ErrNotFound, "not_found"},
		{"wrapped not found", fmt.Errorf("find role: %w", ErrNotFound), "not_found"},
		{"duplicate", errors.Join(ErrDuplicateKey, errors.New("E11000")), "duplicate_key"},
		{"deadline", context.DeadlineExceeded, "timeout"},
		{"canceled", context.Canceled, "canceled"},
		{"other", errors.New("boom"), "error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classifyError(tt.err); got != tt.want {
				t.Errorf("classifyError(%v) = %q, want %q", tt.err, got, tt.want)
			}
		})
	}
}

func TestInstrumentCountsOutcome(t *testing.T) {
	ctx := context.Background()
	before := testutil.ToFloat64(opTotal.WithLabelValues("test_things", "FindByID", "not_found"))

	_, err := Instrument(ctx, "test_things", "FindByID", func() (*struct{}, error) {
		return nil, ErrNotFound
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound to pass through, got %v", err)
	}

	after := testutil.ToFloat64(opTotal.WithLabelValues("test_things", "FindByID", "not_found"))
	if after != before+1 {
		t.Errorf("expected not_found counter to increase by 1, got %v -> %v", before, after)
	}
}

func TestCallCounter(t *testing.T) {
	if Calls(context.Background()) != 0 {
		t.Error("no counter means zero calls")
	}

	ctx := WithCallCounter(context.Background())
	done := make(chan struct{})
	for range 4 {
		go func() {
			Instrument(ctx, "test_things", "FindByID", func() (int, error) { return 1, nil })
			done <- struct{}{}
		}()
	}
	for range 4 {
		<-done
	}
	if got := Calls(ctx); got != 4 {
		t.Errorf("Calls = %d, want 4", got)
	}
}

func TestTranslate(t *testing.T) {
	if Translate(nil) != nil {
		t.Error("Translate(nil) should be nil")
	}
	other := errors.New("network")
	if !errors.Is(Translate(other), other) {
		t.Error("unknown errors should pass through unchanged")
	}
}
