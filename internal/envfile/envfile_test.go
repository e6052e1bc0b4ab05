package envfile

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func writeEnv(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

// unsetenv clears key for the test and restores it afterwards.
func unsetenv(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	_ = os.Unsetenv(key) //nolint:errcheck
}

func TestLoad(t *testing.T) {
	unsetenv(t, "CIPP_TEST_SITE")
	unsetenv(t, "CIPP_TEST_LAYOUT")
	t.Setenv("CIPP_TEST_TITLE", "from env")

	path := writeEnv(t, "# site overrides\n\nCIPP_TEST_SITE=blog.yaml\n"+
		"  # indented\nCIPP_TEST_LAYOUT=\"bare\"\nCIPP_TEST_TITLE=from file\n")
	if err := Load(path); err != nil {
		t.Fatal(err)
	}

	for key, want := range map[string]string{
		"CIPP_TEST_SITE":   "blog.yaml",
		"CIPP_TEST_LAYOUT": "bare",
		"CIPP_TEST_TITLE":  "from env",
	} {
		if got := os.Getenv(key); got != want {
			t.Errorf("%s = %q, want %q", key, got, want)
		}
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if err := Load(filepath.Join(t.TempDir(), ".env.local")); err != nil {
		t.Fatalf("Load() of a missing file = %v, want nil", err)
	}
}

func TestParseEnvLine(t *testing.T) {
	tests := []struct {
		line    string
		wantKey string
		wantVal string
		wantOK  bool
	}{
		{"KEY=value", "KEY", "value", true},
		{"KEY=\"quoted value\"", "KEY", "quoted value", true},
		{"KEY='single quoted'", "KEY", "single quoted", true},
		{"export KEY=value", "KEY", "value", true},
		{"  KEY = value  ", "KEY", "value", true},
		{"title=a=b", "title", "a=b", true},
		{"items=\"<li>a</li>\"", "items", "<li>a</li>", true},
		{"KEY=\"", "KEY", "\"", true},
		{"no-equals-sign", "", "", false},
		{"=no-key", "", "", false},
		{"", "", "", false},
	}

	for _, tt := range tests {
		key, val, ok := parseEnvLine(tt.line)
		if ok != tt.wantOK || key != tt.wantKey || val != tt.wantVal {
			t.Errorf("parseEnvLine(%q) = (%q, %q, %v), want (%q, %q, %v)",
				tt.line, key, val, ok, tt.wantKey, tt.wantVal, tt.wantOK)
		}
	}
}

func TestRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.env")
	content := "# caller data\nuser=Ann\nitems=\"<li>a</li>\"\nuser=Bob\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	pairs, err := Read(path)
	if err != nil {
		t.Fatal(err)
	}
	want := []Pair{{"user", "Ann"}, {"items", "<li>a</li>"}, {"user", "Bob"}}
	if !reflect.DeepEqual(pairs, want) {
		t.Errorf("Read() = %v, want %v", pairs, want)
	}

	m := Map(pairs)
	if m["user"] != "Bob" || m["items"] != "<li>a</li>" {
		t.Errorf("Map() = %v", m)
	}
}

func TestRead_Missing(t *testing.T) {
	_, err := Read(filepath.Join(t.TempDir(), "none.env"))
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("Read() error = %v, want not-exist", err)
	}
}

func TestParse(t *testing.T) {
	pairs, err := Parse(strings.NewReader("A=1\n\n#x\nbad\nexport B='2'\n"))
	if err != nil {
		t.Fatal(err)
	}
	want := []Pair{{"A", "1"}, {"B", "2"}}
	if !reflect.DeepEqual(pairs, want) {
		t.Errorf("Parse() = %v, want %v", pairs, want)
	}
}
