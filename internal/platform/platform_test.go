package platform

import "testing"

func TestTruthy(t *testing.T) {
	cases := map[string]bool{
		"1":     true,
		"true":  true,
		"TRUE":  true,
		"yes":   true,
		"YES":   true,
		"":      false,
		"0":     false,
		"false": false,
		"nope":  false,
	}
	for in, want := range cases {
		if got := truthy(in); got != want {
			t.Errorf("truthy(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestInitIsIdempotentAndLogUsable(t *testing.T) {
	Init()
	Init()
	if Log() == nil {
		t.Fatal("Log() returned nil after Init")
	}
}

func TestAccelFeaturesWithoutExplicitInit(t *testing.T) {
	// mustInit lazily initializes on first access, so a package that
	// only ever calls AccelFeatures or Debug still observes a
	// consistent, non-nil logger.
	_ = AccelFeatures()
	_ = Debug()
	if Log() == nil {
		t.Fatal("Log() returned nil")
	}
}

func TestProbeAlwaysReportsAbsent(t *testing.T) {
	// No cgo acceleration binding ships in this module, so every
	// feature must read as absent regardless of the DISABLE_* value.
	if probe("DISABLE_LIQUID") {
		t.Error("probe(unset) = true, want false (no real binding to detect)")
	}
	t.Setenv("DISABLE_VOLK", "true")
	if probe("DISABLE_VOLK") {
		t.Error("probe(explicitly disabled) = true, want false")
	}
}

func TestAccelFeaturesDefaultAllFalse(t *testing.T) {
	f := AccelFeatures()
	if f.LiquidDSP || f.VOLK || f.FFTW3F {
		t.Errorf("AccelFeatures() = %+v, want all false", f)
	}
}
