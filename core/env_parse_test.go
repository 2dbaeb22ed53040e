package core

import "testing"

func TestGetEnvOrDefault(t *testing.T) {
	const key = "BGCLEAR_TEST_GET_ENV"

	t.Setenv(key, "  value ")
	if got := GetEnvOrDefault(key, "d"); got != "value" {
		t.Errorf("GetEnvOrDefault() = %q, want value", got)
	}
	t.Setenv(key, "   ")
	if got := GetEnvOrDefault(key, "d"); got != "d" {
		t.Errorf("GetEnvOrDefault(blank) = %q, want d", got)
	}
}

func TestParseBoolEnv(t *testing.T) {
	const key = "BGCLEAR_TEST_BOOL_ENV"

	tests := []struct {
		value string
		def   bool
		want  bool
	}{
		{"true", false, true},
		{"ON", false, true},
		{"1", false, true},
		{"no", true, false},
		{"0", true, false},
		{"", true, true},
		{"maybe", false, false},
	}

	for _, tt := range tests {
		t.Setenv(key, tt.value)
		if got := ParseBoolEnv(key, tt.def); got != tt.want {
			t.Errorf("ParseBoolEnv(%q, %v) = %v, want %v", tt.value, tt.def, got, tt.want)
		}
	}
}

func TestExitCodeNameUnknownCode(t *testing.T) {
	tests := map[int]string{
		ExitCodeSuccess: "success",
		ExitCodeError:   "error",
		ExitCodeSIGINT:  "interrupted (SIGINT)",
		ExitCodeSIGTERM: "terminated (SIGTERM)",
		42:              "unknown",
	}
	for code, want := range tests {
		if got := ExitCodeName(code); got != want {
			t.Errorf("ExitCodeName(%d) = %q, want %q", code, got, want)
		}
	}
}
