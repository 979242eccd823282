package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go-chi-calculator/internal/config"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	chdirForTest(t, t.TempDir())
	t.Setenv(config.Env, "")

	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestEval(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "arithmetic", args: []string{"eval", "2^10"}, want: "1024\n"},
		{name: "joined args", args: []string{"eval", "1", "+", "2"}, want: "3\n"},
		{name: "degrees", args: []string{"eval", "--angle", "deg", "sin(90)"}, want: "1\n"},
		{name: "physics", args: []string{"eval", "-m", "physics", "10 m to ft"}, want: "32.80839895 ft\n"},
		{name: "hex", args: []string{"eval", "-m", "programming", "-b", "hex", "FF+1"}, want: "100\n"},
		{name: "base ignored outside programming", args: []string{"eval", "-b", "hex", "10+1"}, want: "11\n"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := run(t, tc.args...)
			if err != nil {
				t.Fatalf("eval: %v", err)
			}
			if got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestEvalPrintsAdvisory(t *testing.T) {
	got, err := run(t, "eval", "-m", "programming", "-b", "bin", "1/2")
	if err != nil {
		t.Fatalf("eval: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(got), "\n")
	if len(lines) != 2 || lines[0] != "0.5" || !strings.HasPrefix(lines[1], "Info:") {
		t.Fatalf("expected result and advisory, got %q", got)
	}
}

func TestEvalErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "syntax", args: []string{"eval", "2+"}, want: "evaluating"},
		{name: "bad mode", args: []string{"eval", "-m", "science", "1"}, want: "unknown calculator mode"},
		{name: "bad angle", args: []string{"eval", "-a", "grad", "1"}, want: "unknown angle unit"},
		{name: "no expression", args: []string{"eval"}, want: "arg"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := run(t, tc.args...)
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error containing %q, got %v", tc.want, err)
			}
		})
	}
}

func TestEvalUsesConfigCurrencies(t *testing.T) {
	path := filepath.Join(t.TempDir(), "calc.toml")
	if err := os.WriteFile(path, []byte("[[currencies]]\ncode = \"EUR\"\nrate = \"2\"\n"), 0o600); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	got, err := run(t, "--config", path, "eval", "-m", "economics", "3 EUR to USD")
	if err != nil {
		t.Fatalf("eval: %v", err)
	}
	if got != "6.00 USD\n" {
		t.Fatalf("expected %q, got %q", "6.00 USD\n", got)
	}
}

func TestButtons(t *testing.T) {
	got, err := run(t, "buttons", "-m", "programming", "-b", "bin")
	if err != nil {
		t.Fatalf("buttons: %v", err)
	}
	if !strings.HasPrefix(got, "PROGRAMMING / BIN\n") {
		t.Fatalf("unexpected header in %q", got)
	}
	for _, want := range []string{"DISPLAY", "AND", "hexDigit", "false", "true"} {
		if !strings.Contains(got, want) {
			t.Fatalf("expected %q in output:\n%s", want, got)
		}
	}
}

// chdirForTest changes the working directory for the duration of the test and
// restores it on cleanup (equivalent of testing.T.Chdir, which needs Go 1.24).
func chdirForTest(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatal(err)
		}
	})
}
