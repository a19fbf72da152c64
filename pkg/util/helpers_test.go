package util

import "testing"

func TestGetEnvInt_Fallback(t *testing.T) {
	const defaultVal = 123

	if val := GetEnvInt("CLUSTERENV_UNSET_VAR", defaultVal); val != defaultVal {
		t.Errorf("Expected default value for unset var, got %d", val)
	}

	t.Setenv("INVALID_INT_VAR", "not-a-number")
	if val := GetEnvInt("INVALID_INT_VAR", defaultVal); val != defaultVal {
		t.Errorf("Expected default value for invalid var, got %d", val)
	}

	t.Setenv("CLUSTERENV_MAX_STEPS", "25")
	if val := GetEnvInt("CLUSTERENV_MAX_STEPS", defaultVal); val != 25 {
		t.Errorf("Expected 25, got %d", val)
	}
}

func TestGetEnvInt64(t *testing.T) {
	t.Setenv("CLUSTERENV_SEED", "9007199254740993")
	if val := GetEnvInt64("CLUSTERENV_SEED", 1); val != 9007199254740993 {
		t.Errorf("Expected large seed, got %d", val)
	}
	t.Setenv("CLUSTERENV_SEED", "1.5")
	if val := GetEnvInt64("CLUSTERENV_SEED", 1); val != 1 {
		t.Errorf("Expected default for invalid seed, got %d", val)
	}
}

func TestGetEnvFloat_Fallback(t *testing.T) {
	const defaultVal = 123.45

	if val := GetEnvFloat("CLUSTERENV_UNSET_VAR", defaultVal); val != defaultVal {
		t.Errorf("Expected default value for unset var, got %f", val)
	}

	t.Setenv("INVALID_FLOAT_VAR", "not-a-float")
	if val := GetEnvFloat("INVALID_FLOAT_VAR", defaultVal); val != defaultVal {
		t.Errorf("Expected default value for invalid var, got %f", val)
	}
}

func TestGetEnvBool(t *testing.T) {
	cases := []struct {
		value string
		def   bool
		want  bool
	}{
		{"", true, true},
		{"false", true, false},
		{"1", false, true},
		{"TRUE", false, true},
		{"yes", false, false},
	}
	for _, tc := range cases {
		t.Setenv("CLUSTERENV_SIMULATION", tc.value)
		if got := GetEnvBool("CLUSTERENV_SIMULATION", tc.def); got != tc.want {
			t.Errorf("GetEnvBool(%q, %v) = %v, want %v", tc.value, tc.def, got, tc.want)
		}
	}
}
