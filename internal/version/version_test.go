// ABOUTME: Tests for version constants
// ABOUTME: Ensures version information is defined and printable
package version

import (
	"regexp"
	"testing"
)

func TestConstantsDefined(t *testing.T) {
	for name, value := range map[string]string{
		"Version":      Version,
		"Product":      Product,
		"Manufacturer": Manufacturer,
	} {
		if value == "" {
			t.Errorf("%s should not be empty", name)
		}
		if len(value) > 100 {
			t.Errorf("%s is unreasonably long: %d bytes", name, len(value))
		}
	}
}

func TestVersionIsSemver(t *testing.T) {
	if !regexp.MustCompile(`^\d+\.\d+\.\d+$`).MatchString(Version) {
		t.Errorf("Version %q is not MAJOR.MINOR.PATCH", Version)
	}
}

func TestProductIsBinaryName(t *testing.T) {
	if Product != "sdlplay" {
		t.Errorf("expected product sdlplay, got %q", Product)
	}
}
