package logging

import "testing"

func TestNewProgressSamplerDefaults(t *testing.T) {
	for _, size := range []float64{0, -1} {
		if s := NewProgressSampler(size); s.bucketSize != 5 || s.lastBucket != -1 {
			t.Fatalf("NewProgressSampler(%v) = %+v", size, s)
		}
	}
}

func TestProgressSamplerNilAlwaysLogs(t *testing.T) {
	var s *ProgressSampler
	if !s.ShouldLog(50, "encode") {
		t.Fatal("nil sampler should always log")
	}
	s.Reset()
}

func TestProgressSamplerBuckets(t *testing.T) {
	s := NewProgressSampler(5)
	steps := []struct {
		percent float64
		want    bool
	}{
		{0, true},
		{3, false},
		{5, true},
		{7, false},
		{10, true},
		{100, true},
		{105, false},
	}
	for _, step := range steps {
		if got := s.ShouldLog(step.percent, "encode"); got != step.want {
			t.Fatalf("ShouldLog(%v) = %v, want %v", step.percent, got, step.want)
		}
	}
}

func TestProgressSamplerPhaseChangeResetsBucket(t *testing.T) {
	s := NewProgressSampler(5)
	s.ShouldLog(50, "encode")
	if !s.ShouldLog(0, " finalize ") {
		t.Fatal("phase change should log")
	}
	if s.lastPhase != "finalize" {
		t.Fatalf("lastPhase = %q, want trimmed value", s.lastPhase)
	}
	if !s.ShouldLog(10, "finalize") {
		t.Fatal("10% should log after the bucket reset")
	}
}

func TestProgressSamplerUnknownPercent(t *testing.T) {
	s := NewProgressSampler(5)
	if !s.ShouldLog(-1, "encode") {
		t.Fatal("first phase should log")
	}
	if s.ShouldLog(-1, "encode") {
		t.Fatal("unknown percent should not log again")
	}
}

func TestProgressSamplerReset(t *testing.T) {
	s := NewProgressSampler(5)
	s.ShouldLog(50, "encode")
	s.Reset()
	if !s.ShouldLog(50, "encode") {
		t.Fatal("should log after reset")
	}
}
