package delay

import (
	"context"
	"testing"
	"time"
)

func TestZeroNeverWaits(t *testing.T) {
	start := time.Now()
	if err := (Zero{}).Sleep(context.Background(), time.Hour); err != nil {
		t.Fatalf("Sleep: %v", err)
	}
	if err := (Zero{}).SleepBetween(context.Background(), time.Hour, 2*time.Hour); err != nil {
		t.Fatalf("SleepBetween: %v", err)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("zero strategy waited %v", elapsed)
	}
}

func TestZeroReportsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := (Zero{}).Sleep(ctx, time.Hour); err != context.Canceled {
		t.Errorf("Sleep on canceled ctx = %v, want context.Canceled", err)
	}
}

func TestHumanSleepHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	err := (Human{}).Sleep(ctx, time.Hour)
	if err != context.Canceled {
		t.Errorf("Sleep = %v, want context.Canceled", err)
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("cancellation took %v", elapsed)
	}
}

func TestHumanSleepBetweenBounds(t *testing.T) {
	min, max := 5*time.Millisecond, 20*time.Millisecond

	for i := 0; i < 10; i++ {
		start := time.Now()
		if err := (Human{}).SleepBetween(context.Background(), min, max); err != nil {
			t.Fatalf("SleepBetween: %v", err)
		}
		elapsed := time.Since(start)
		if elapsed < min {
			t.Errorf("slept %v, below minimum %v", elapsed, min)
		}
	}
}
