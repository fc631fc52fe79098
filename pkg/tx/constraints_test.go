package tx

import "testing"

func TestTimeLock_AbsoluteHeight(t *testing.T) {
	lock := TimeLock{Type: TimeLockAbsoluteHeight, Value: 100}
	if lock.Satisfied(99, 0) {
		t.Error("height 99 should not satisfy a lock requiring 100")
	}
	if !lock.Satisfied(100, 0) {
		t.Error("height 100 should satisfy a lock requiring 100")
	}
}

func TestTimeLock_AbsoluteTimestamp(t *testing.T) {
	lock := TimeLock{Type: TimeLockAbsoluteTimestamp, Value: 1700000000}
	if lock.Satisfied(0, 1699999999) {
		t.Error("premature timestamp should not satisfy lock")
	}
	if !lock.Satisfied(0, 1700000000) {
		t.Error("exact timestamp should satisfy lock")
	}
}

func TestTimeLock_RelativeBlocks(t *testing.T) {
	lock := TimeLock{Type: TimeLockRelativeBlocks, Value: 10, CreationHeight: 50}
	if lock.Satisfied(59, 0) {
		t.Error("height 59 should not satisfy creation(50)+10")
	}
	if !lock.Satisfied(60, 0) {
		t.Error("height 60 should satisfy creation(50)+10")
	}
}

func TestTimeLock_RelativeTime(t *testing.T) {
	lock := TimeLock{Type: TimeLockRelativeTime, Value: 3600, CreationTimestamp: 1000}
	if lock.Satisfied(0, 4599) {
		t.Error("should not be satisfied one second early")
	}
	if !lock.Satisfied(0, 4600) {
		t.Error("should be satisfied at creation+delta")
	}
}

func TestRateLimit_AllowsWithinWindow(t *testing.T) {
	rl := RateLimit{MaxValuePerWindow: 100, WindowSeconds: 60, WindowStart: 1000, SpentInWindow: 50}
	if !rl.Allows(50, 1010) {
		t.Error("spending up to the cap within the window should be allowed")
	}
	if rl.Allows(51, 1010) {
		t.Error("spending past the cap within the window should not be allowed")
	}
}

func TestRateLimit_AllowsPastWindow(t *testing.T) {
	rl := RateLimit{MaxValuePerWindow: 100, WindowSeconds: 60, WindowStart: 1000, SpentInWindow: 100}
	if !rl.Allows(100, 1061) {
		t.Error("spending after the window has elapsed should be allowed regardless of prior spend")
	}
}

func TestRateLimit_Apply_ResetsWindow(t *testing.T) {
	rl := RateLimit{MaxValuePerWindow: 100, WindowSeconds: 60, WindowStart: 1000, SpentInWindow: 100}
	next := rl.Apply(30, 1061)
	if next.WindowStart != 1061 {
		t.Errorf("window start = %d, want 1061", next.WindowStart)
	}
	if next.SpentInWindow != 30 {
		t.Errorf("spent in window = %d, want 30", next.SpentInWindow)
	}
}

func TestRateLimit_Apply_AccumulatesWithinWindow(t *testing.T) {
	rl := RateLimit{MaxValuePerWindow: 100, WindowSeconds: 60, WindowStart: 1000, SpentInWindow: 20}
	next := rl.Apply(30, 1010)
	if next.SpentInWindow != 50 {
		t.Errorf("spent in window = %d, want 50", next.SpentInWindow)
	}
	if next.WindowStart != 1000 {
		t.Error("window start should not move within the window")
	}
}

func TestRateLimit_Apply_DoesNotMutateReceiver(t *testing.T) {
	rl := RateLimit{MaxValuePerWindow: 100, WindowSeconds: 60, WindowStart: 1000, SpentInWindow: 20}
	_ = rl.Apply(30, 1010)
	if rl.SpentInWindow != 20 {
		t.Error("Apply should return a new value, not mutate the receiver")
	}
}

func TestProgrammableMetadata_CanSpend_AllLocksMustHold(t *testing.T) {
	meta := &ProgrammableMetadata{
		TimeLocks: []TimeLock{
			{Type: TimeLockAbsoluteHeight, Value: 100},
			{Type: TimeLockAbsoluteTimestamp, Value: 5000},
		},
	}
	if meta.CanSpend(100, 4999, 0) {
		t.Error("should require every time lock to be satisfied")
	}
	if !meta.CanSpend(100, 5000, 0) {
		t.Error("should allow spending once every time lock is satisfied")
	}
}

func TestProgrammableMetadata_CanSpend_NilIsUnrestricted(t *testing.T) {
	var meta *ProgrammableMetadata
	if !meta.CanSpend(0, 0, 1_000_000) {
		t.Error("nil metadata should impose no restriction")
	}
}

func TestProgrammableMetadata_CanSpend_RateLimit(t *testing.T) {
	meta := &ProgrammableMetadata{
		RateLimit: &RateLimit{MaxValuePerWindow: 100, WindowSeconds: 60, WindowStart: 0, SpentInWindow: 90},
	}
	if meta.CanSpend(0, 30, 20) {
		t.Error("spend exceeding the rate limit window cap should be rejected")
	}
	if !meta.CanSpend(0, 30, 10) {
		t.Error("spend within the rate limit window cap should be allowed")
	}
}
