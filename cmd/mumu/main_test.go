package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fzzzy/mumulib/internal/errors"
)

const personPage = `<!DOCTYPE html><html><body>
<div data-pat="person" data-attr="title=name"><span data-slot="name">?</span> <b data-slot="age">?</b></div>
<ul data-slot="items"></ul>
</body></html>`

func writeTemplate(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "index.html")
	if err := os.WriteFile(path, []byte(personPage), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := rootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestRenderPattern(t *testing.T) {
	tmpl := writeTemplate(t)
	out, _, err := execute(t, "render", "--template", tmpl, "--pattern", "person",
		"--slot", "name=Jane", "--slot", "age=12")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	want := `<div data-attr="title=name" data-pat="person" title="Jane"><span data-slot="name">Jane</span> <b data-slot="age">12</b></div>` + "\n"
	if out != want {
		t.Errorf("output =\n%s\nwant\n%s", out, want)
	}
}

func TestRenderBodyWithJSONSlots(t *testing.T) {
	tmpl := writeTemplate(t)
	slots := filepath.Join(t.TempDir(), "slots.json")
	if err := os.WriteFile(slots, []byte(`{"items": ["a", "b"], "name": "ignored"}`), 0644); err != nil {
		t.Fatal(err)
	}

	out, _, err := execute(t, "render", "--template", tmpl, "--slots-json", slots, "--slot", "name=Ann")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(out, `<ul data-slot="items">ab</ul>`) {
		t.Errorf("items not filled:\n%s", out)
	}
	if !strings.Contains(out, `<span data-slot="name">Ann</span>`) {
		t.Errorf("--slot should override JSON:\n%s", out)
	}
}

func TestRenderErrors(t *testing.T) {
	tmpl := writeTemplate(t)
	tests := []struct {
		name string
		args []string
		code string
	}{
		{"bad slot", []string{"--slot", "novalue"}, "M060"},
		{"empty slot name", []string{"--slot", "=x"}, "M060"},
		{"missing pattern", []string{"--pattern", "nobody"}, "M001"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"render", "--template", tmpl}, tt.args...)
			_, _, err := execute(t, args...)
			if errors.Code(err) != tt.code {
				t.Errorf("err = %v, want %s", err, tt.code)
			}
		})
	}

	_, _, err := execute(t, "render", "--template", filepath.Join(t.TempDir(), "missing.html"))
	if errors.Code(err) != "M003" {
		t.Errorf("missing template err = %v, want M003", err)
	}
}

func TestSplitAddr(t *testing.T) {
	host, port, err := splitAddr("0.0.0.0:8080")
	if err != nil || host != "0.0.0.0" || port != 8080 {
		t.Errorf("splitAddr = %q, %d, %v", host, port, err)
	}
	if _, _, err := splitAddr(":http"); errors.Code(err) != "M041" {
		t.Errorf("named port err = %v, want M041", err)
	}
	if _, _, err := splitAddr("nocolon"); errors.Code(err) != "M041" {
		t.Errorf("err = %v, want M041", err)
	}
}

func TestServeMissingConfig(t *testing.T) {
	_, _, err := execute(t, "serve", "--config", filepath.Join(t.TempDir(), "mumu.json"))
	if errors.Code(err) != "M040" {
		t.Errorf("err = %v, want M040", err)
	}
}

func TestVersionShort(t *testing.T) {
	out, _, err := execute(t, "version", "--short")
	if err != nil || out != version+"\n" {
		t.Errorf("version = %q, %v", out, err)
	}
}
