package debuglog

import "testing"

func TestRingHandlerRetainsLatestWithinCapacity(t *testing.T) {
	ring := NewRingHandler(2)
	logger := New(true, ring)

	logger.Debug("first")
	logger.Debug("second")
	logger.Debug("third")

	records := ring.Records()
	if len(records) != 2 {
		t.Fatalf("len(records) = %d, want 2", len(records))
	}
	if records[0].Message != "second" || records[1].Message != "third" {
		t.Errorf("records = [%q, %q], want [second, third]", records[0].Message, records[1].Message)
	}
}

func TestNewNonDebugStillFillsRing(t *testing.T) {
	ring := NewRingHandler(4)
	logger := New(false, ring)
	logger.Debug("first")
	logger.Warn("kept")

	records := ring.Records()
	if len(records) == 0 {
		t.Fatal("expected ring to retain records even without -debug")
	}
}
