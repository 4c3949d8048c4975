package telemetry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordOutcomeIncrementsLabel(t *testing.T) {
	Init()

	before := testutil.ToFloat64(MessagesTotal.WithLabelValues(OutcomeRefused))
	RecordOutcome(OutcomeRefused)
	after := testutil.ToFloat64(MessagesTotal.WithLabelValues(OutcomeRefused))

	if after != before+1 {
		t.Fatalf("expected refused counter to grow by 1, got %v -> %v", before, after)
	}
}

func TestRecordStoreCorrupt(t *testing.T) {
	Init()

	before := testutil.ToFloat64(StoreCorruptTotal)
	RecordStoreCorrupt()
	if got := testutil.ToFloat64(StoreCorruptTotal); got != before+1 {
		t.Fatalf("expected corrupt counter %v, got %v", before+1, got)
	}
}

func TestSetTranscriptLength(t *testing.T) {
	Init()

	SetTranscriptLength(42)
	if got := testutil.ToFloat64(TranscriptLength); got != 42 {
		t.Fatalf("expected gauge 42, got %v", got)
	}
}

func TestTimeFuncNilObserver(t *testing.T) {
	d := TimeFunc(nil, func() { time.Sleep(time.Millisecond) })
	if d <= 0 {
		t.Fatalf("expected positive duration, got %s", d)
	}
}

func TestCorrelationRoundTrip(t *testing.T) {
	ctx := WithCorrelation(context.Background(), "abc")
	if got := GetCorrelation(ctx); got != "abc" {
		t.Fatalf("unexpected correlation id %q", got)
	}
	if got := GetCorrelation(context.Background()); got != "" {
		t.Fatalf("expected empty correlation id, got %q", got)
	}
}

func TestStartSpanWithoutProvider(t *testing.T) {
	ctx := WithCorrelation(context.Background(), "abc")
	_, span := StartSpan(ctx, "test")
	EndSpan(span, errors.New("boom"))
}
