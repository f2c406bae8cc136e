package validate

import (
	"testing"
	"time"
)

// TestParseServerAddress tests server address parsing and validation
func TestParseServerAddress(t *testing.T) {
	tests := []struct {
		name         string
		input        string
		expectError  bool
		expectedIP   string
		expectedPort int
	}{
		{
			name:         "default server address",
			input:        "127.0.0.1:31337",
			expectedIP:   "127.0.0.1",
			expectedPort: 31337,
		},
		{
			name:         "valid high port number",
			input:        "10.0.0.1:65535",
			expectedIP:   "10.0.0.1",
			expectedPort: 65535,
		},
		{
			name:        "empty address",
			input:       "",
			expectError: true,
		},
		{
			name:        "missing port",
			input:       "192.168.1.1",
			expectError: true,
		},
		{
			name:        "port zero",
			input:       "192.168.1.1:0",
			expectError: true,
		},
		{
			name:        "invalid port - too high",
			input:       "192.168.1.1:99999",
			expectError: true,
		},
		{
			name:        "invalid port - not a number",
			input:       "192.168.1.1:abc",
			expectError: true,
		},
		{
			name:        "hostname instead of IP",
			input:       "localhost:8080",
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ParseServerAddress(tt.input)

			if tt.expectError {
				if err == nil {
					t.Errorf("Expected error for input '%s', but got none", tt.input)
				}
				if result != nil {
					t.Errorf("Expected nil result when error occurs, got %+v", result)
				}
				return
			}

			if err != nil {
				t.Fatalf("Unexpected error for input '%s': %v", tt.input, err)
			}
			if result.Host != tt.expectedIP {
				t.Errorf("Expected IP '%s', got '%s'", tt.expectedIP, result.Host)
			}
			if result.Port != tt.expectedPort {
				t.Errorf("Expected port %d, got %d", tt.expectedPort, result.Port)
			}
			if result.String() != tt.input {
				t.Errorf("Expected String() to return '%s', got '%s'", tt.input, result.String())
			}
		})
	}
}

// TestValidateField tests ValidateField with various validation tags
func TestValidateField(t *testing.T) {
	tests := []struct {
		name        string
		value       interface{}
		tag         string
		expectError bool
	}{
		{"valid IP address", "192.168.1.1", "required,ip", false},
		{"invalid IP address", "not-an-ip", "required,ip", true},
		{"empty string fails required", "", "required", true},
		{"non-empty string passes required", "test", "required", false},
		{"port too high", 99999, "min=1,max=65535", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateField(tt.value, tt.tag)

			if tt.expectError && err == nil {
				t.Errorf("Expected error for value '%v' with tag '%s', but got none", tt.value, tt.tag)
			}
			if !tt.expectError && err != nil {
				t.Errorf("Unexpected error for value '%v' with tag '%s': %v", tt.value, tt.tag, err)
			}
		})
	}
}

// TestValidateStruct tests struct tag validation
func TestValidateStruct(t *testing.T) {
	type sample struct {
		Path string `validate:"required"`
	}

	if err := ValidateStruct(sample{Path: "/tmp"}); err != nil {
		t.Errorf("Unexpected error: %v", err)
	}
	if err := ValidateStruct(sample{}); err == nil {
		t.Error("Expected error for missing required field")
	}
}

// TestConfigHelpers tests the small config validation helpers
func TestConfigHelpers(t *testing.T) {
	if err := ValidateRequiredString("", "templatebox"); err == nil || err.Error() != "templatebox cannot be empty" {
		t.Errorf("Expected templatebox error, got %v", err)
	}
	if err := ValidatePositiveTimeout(time.Second, "timeout"); err != nil {
		t.Errorf("Unexpected error: %v", err)
	}
	if err := ValidatePositiveTimeout(0, "timeout"); err == nil {
		t.Error("Expected error for zero timeout")
	}
}

// BenchmarkParseServerAddress benchmarks address parsing
func BenchmarkParseServerAddress(b *testing.B) {
	testAddr := "192.168.1.100:31337"

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := ParseServerAddress(testAddr); err != nil {
			b.Fatalf("Unexpected error: %v", err)
		}
	}
}
