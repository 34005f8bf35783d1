package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveQueryCountsErrors(t *testing.T) {
	before := testutil.ToFloat64(DBQueryErrors.WithLabelValues("select", "metrics_test"))

	ObserveQuery("select", "metrics_test", time.Now(), nil)
	ObserveQuery("select", "metrics_test", time.Now(), errors.New("boom"))

	after := testutil.ToFloat64(DBQueryErrors.WithLabelValues("select", "metrics_test"))
	if after-before != 1 {
		t.Errorf("Expected 1 new error, got %v", after-before)
	}
}

func TestRecordFigureSplitsEmpty(t *testing.T) {
	emptyBefore := testutil.ToFloat64(FiguresRendered.WithLabelValues("metrics_test", "empty"))
	pointsBefore := testutil.ToFloat64(FiguresRendered.WithLabelValues("metrics_test", "points"))

	RecordFigure("metrics_test", 0)
	RecordFigure("metrics_test", 3)
	RecordFigure("metrics_test", 5)

	if got := testutil.ToFloat64(FiguresRendered.WithLabelValues("metrics_test", "empty")) - emptyBefore; got != 1 {
		t.Errorf("Expected 1 empty figure, got %v", got)
	}
	if got := testutil.ToFloat64(FiguresRendered.WithLabelValues("metrics_test", "points")) - pointsBefore; got != 2 {
		t.Errorf("Expected 2 figures with points, got %v", got)
	}
}

func TestRecordAPIRequest(t *testing.T) {
	before := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/metrics-test", "200"))
	RecordAPIRequest("GET", "/metrics-test", "200", 10*time.Millisecond)
	if got := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/metrics-test", "200")) - before; got != 1 {
		t.Errorf("Expected 1 request, got %v", got)
	}
}
