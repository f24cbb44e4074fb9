package patslot

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/fzzzy/mumulib/internal/errors"
	"github.com/fzzzy/mumulib/pkg/vdom"
)

func TestBaselineSnapshotsOnce(t *testing.T) {
	live := vdom.Body(vdom.Div(vdom.Pat("a"), "original"))
	calls := 0
	b := NewBaseline(func() *vdom.VNode {
		calls++
		return live
	})

	first, err := b.FindPattern(ctx, "a")
	if err != nil {
		t.Fatal(err)
	}

	vdom.SetTextContent(live.Children[0], "changed")
	live.Children = append(live.Children, vdom.Div(vdom.Pat("b")))

	second, err := b.FindPattern(ctx, "a")
	if err != nil {
		t.Fatal(err)
	}
	if first != second || vdom.TextContent(second) != "original" {
		t.Errorf("baseline should not see later document changes, got %q", vdom.TextContent(second))
	}
	if _, err := b.FindPattern(ctx, "b"); !stderrors.Is(err, ErrPatternNotFound) {
		t.Errorf("pattern added after snapshot: err = %v", err)
	}
	if calls != 1 {
		t.Errorf("source called %d times, want 1", calls)
	}
}

func TestFindPatternFirstMatchIncludesRoot(t *testing.T) {
	b := StaticBaseline(vdom.Div(vdom.Pat("root"), vdom.P(vdom.Pat("x"), "one"), vdom.P(vdom.Pat("x"), "two")))

	if n, err := b.FindPattern(ctx, "root"); err != nil || n.Tag != "div" {
		t.Errorf("root lookup = %v, %v", n, err)
	}
	if n, err := b.FindPattern(ctx, "x"); err != nil || vdom.TextContent(n) != "one" {
		t.Errorf("first match = %v, %v", n, err)
	}
}

func TestTemplateFetchesEveryLookup(t *testing.T) {
	version := "one"
	fetches := 0
	tmpl := &Template{
		URL: "https://example.test/patterns.html",
		Fetcher: FetcherFunc(func(_ context.Context, url string) (string, error) {
			fetches++
			return `<div data-pat="v">` + version + `</div>`, nil
		}),
	}

	n, err := tmpl.FindPattern(ctx, "v")
	if err != nil || vdom.TextContent(n) != "one" {
		t.Fatalf("first lookup = %v, %v", n, err)
	}
	version = "two"
	n, err = tmpl.FindPattern(ctx, "v")
	if err != nil || vdom.TextContent(n) != "two" {
		t.Fatalf("second lookup = %v, %v", n, err)
	}
	if fetches != 2 {
		t.Errorf("fetches = %d, want 2", fetches)
	}
}

func TestTemplateErrors(t *testing.T) {
	offline := stderrors.New("offline")
	tests := []struct {
		name string
		body string
		err  error
		want error
	}{
		{"fetch", "", offline, ErrTemplateFetchFailed},
		{"parse", "<frameset></frameset>", nil, ErrTemplateParseFailed},
		{"missing", "<p>no patterns</p>", nil, ErrPatternNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpl := &Template{
				URL: "https://example.test/t.html",
				Fetcher: FetcherFunc(func(context.Context, string) (string, error) {
					return tt.body, tt.err
				}),
			}
			n, err := tmpl.FindPattern(ctx, "p")
			if !stderrors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
			if n != nil {
				t.Error("node should be nil on failure")
			}
			if tt.err != nil && !stderrors.Is(err, tt.err) {
				t.Errorf("cause lost: %v", err)
			}
		})
	}
}

func TestTemplateSelfUsesBaseline(t *testing.T) {
	tmpl := &Template{Baseline: StaticBaseline(vdom.Body(vdom.Div(vdom.Pat("self"))))}
	if _, err := tmpl.FindPattern(ctx, "self"); err != nil {
		t.Fatalf("self lookup: %v", err)
	}

	empty := &Template{}
	if _, err := empty.FindPattern(ctx, "self"); errors.Code(err) != "M001" {
		t.Errorf("empty template err = %v, want M001", err)
	}
}
