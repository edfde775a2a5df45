package validation

import "testing"

func TestValidateOutputFormat(t *testing.T) {
	for _, format := range []string{"pretty", "csv", "yaml"} {
		if err := ValidateOutputFormat(format); err != nil {
			t.Errorf("ValidateOutputFormat(%q) error = %v", format, err)
		}
	}

	// Formats are matched exactly.
	for _, format := range []string{"", "json", "PRETTY", " csv"} {
		if err := ValidateOutputFormat(format); err == nil {
			t.Errorf("ValidateOutputFormat(%q) expected an error", format)
		}
	}
}
