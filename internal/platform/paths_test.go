package platform

import (
	"errors"
	"runtime"
	"strings"
	"testing"
)

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{"Plain", "/srv/data", false},
		{"Relative", "data/ref.bin", false},
		{"Empty", "", true},
		{"NulByte", "/srv/da\x00ta", true},
		{"TooLong", "/" + strings.Repeat("a", MaxPathLen()), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.path)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidatePath(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
			}
			if err != nil {
				var pe *PathError
				if !errors.As(err, &pe) {
					t.Errorf("error %T is not *PathError", err)
				}
			}
		})
	}
}

func TestValidateName(t *testing.T) {
	valid := []string{"b.txt", ".hidden", "name with spaces", "..."}
	for _, name := range valid {
		if err := ValidateName(name); err != nil {
			t.Errorf("ValidateName(%q) error = %v", name, err)
		}
	}

	invalid := []string{"", "a/b", "nul\x00"}
	for _, name := range invalid {
		if err := ValidateName(name); err == nil {
			t.Errorf("ValidateName(%q) should fail", name)
		}
	}
}

func TestNormalizePath(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("cases use forward slashes")
	}

	tests := []struct {
		path string
		want string
	}{
		{"/srv//data/../data/", "/srv/data"},
		{"data/./ref", "data/ref"},
		{"./", "."},
	}

	for _, tt := range tests {
		if got := NormalizePath(tt.path); got != tt.want {
			t.Errorf("NormalizePath(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestIsAbsolute(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("cases use forward slashes")
	}
	if !IsAbsolute("/srv") {
		t.Error("IsAbsolute(/srv) = false")
	}
	if IsAbsolute("srv/data") {
		t.Error("IsAbsolute(srv/data) = true")
	}
}
