package static

import (
	"context"
	"errors"
	"testing"

	"github.com/kbukum/meetscribe/detection"
)

func TestScanReflectsInstanceSet(t *testing.T) {
	src := NewSource("probe")
	if src.Name() != "probe" {
		t.Fatalf("expected name 'probe', got %q", src.Name())
	}

	instances, err := src.Scan(context.Background())
	if err != nil {
		t.Fatalf("scan failed: %v", err)
	}
	if len(instances) != 0 {
		t.Fatalf("expected empty scan, got %d instances", len(instances))
	}

	src.Add(detection.Instance{ProcessID: "p1", WindowTitle: "Standup", ParticipantCount: 3})
	src.Add(detection.Instance{ProcessID: "p2", WindowTitle: "1:1", ParticipantCount: 2})

	instances, err = src.Scan(context.Background())
	if err != nil {
		t.Fatalf("scan failed: %v", err)
	}
	if len(instances) != 2 {
		t.Fatalf("expected 2 instances, got %d", len(instances))
	}

	src.SetParticipants("p1", 5)
	src.Remove("p2")

	instances, err = src.Scan(context.Background())
	if err != nil {
		t.Fatalf("scan failed: %v", err)
	}
	if len(instances) != 1 {
		t.Fatalf("expected 1 instance, got %d", len(instances))
	}
	if instances[0].ProcessID != "p1" || instances[0].ParticipantCount != 5 {
		t.Errorf("unexpected instance: %+v", instances[0])
	}
}

func TestFailWith(t *testing.T) {
	src := NewSource("probe")
	probeErr := errors.New("window enumeration failed")

	src.FailWith(probeErr)
	if _, err := src.Scan(context.Background()); !errors.Is(err, probeErr) {
		t.Errorf("expected injected scan error, got %v", err)
	}

	src.FailWith(nil)
	if _, err := src.Scan(context.Background()); err != nil {
		t.Errorf("expected recovery after clearing error, got %v", err)
	}
}

func TestFactoryRegistration(t *testing.T) {
	src, err := detection.NewSource("static", map[string]any{"name": "dev"})
	if err != nil {
		t.Fatalf("NewSource failed: %v", err)
	}
	if src.Name() != "dev" {
		t.Errorf("expected name 'dev', got %q", src.Name())
	}
}
