package health

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestReadyWithoutChecks(t *testing.T) {
	report := NewService(0).Ready(context.Background())
	if !report.OK || len(report.Checks) != 0 {
		t.Fatalf("unexpected report %+v", report)
	}
}

func TestReadyReportsFailingDependency(t *testing.T) {
	svc := NewService(time.Second)
	svc.Add("postgres", func(context.Context) error { return nil })
	svc.Add("redis", func(context.Context) error { return errors.New("connection refused") })
	svc.Add("ignored", nil)

	report := svc.Ready(context.Background())
	if report.OK {
		t.Fatalf("expected not ready")
	}
	if report.Checks["postgres"] != "ok" || report.Checks["redis"] != "connection refused" {
		t.Fatalf("unexpected checks %+v", report.Checks)
	}
	if _, ok := report.Checks["ignored"]; ok {
		t.Fatalf("nil check must not be registered")
	}
}

func TestReadyHonoursTimeout(t *testing.T) {
	svc := NewService(20 * time.Millisecond)
	svc.Add("slow", func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})
	report := svc.Ready(context.Background())
	if report.OK || report.Checks["slow"] != context.DeadlineExceeded.Error() {
		t.Fatalf("unexpected report %+v", report)
	}
}

func TestStatus(t *testing.T) {
	if !NewService(0).Status()["ok"] {
		t.Fatalf("expected ok")
	}
}
