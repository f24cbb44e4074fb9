package vdom

import (
	"strings"
	"testing"
)

const personPage = `<!DOCTYPE html>
<html><head><title>t</title></head>
<body>
<dl data-pat="person" data-attr="style=color">
  <dt>Name</dt><dd data-slot="name">name goes here</dd>
  <dt>Age</dt><dd data-slot="age">age goes here</dd>
</dl>
<!-- comment -->
</body></html>`

func TestParseBody(t *testing.T) {
	body, err := ParseBody(strings.NewReader(personPage))
	if err != nil {
		t.Fatalf("ParseBody: %v", err)
	}
	if body.Tag != "body" {
		t.Fatalf("Tag = %q, want body", body.Tag)
	}

	pat := First(body, AttrPattern, "person")
	if pat == nil {
		t.Fatal("pattern person not found")
	}
	if got := pat.GetAttr(AttrBinding); got != "style=color" {
		t.Errorf("data-attr = %q", got)
	}
	slots := QueryAll(pat, AttrSlot, "name")
	if len(slots) != 1 || TextContent(slots[0]) != "name goes here" {
		t.Errorf("name slot = %+v", slots)
	}

	// Comments are dropped
	Walk(body, func(n *VNode) bool {
		if n.Kind == KindText && strings.Contains(n.Text, "comment") {
			t.Error("comment leaked into tree")
		}
		return true
	})
}

func TestParseFragmentImpliesBody(t *testing.T) {
	body, err := ParseBody(strings.NewReader(`<span data-pat="x">hi</span>`))
	if err != nil {
		t.Fatalf("ParseBody: %v", err)
	}
	if First(body, AttrPattern, "x") == nil {
		t.Error("fragment pattern not found in implied body")
	}

	nodes, err := ParseFragment(strings.NewReader(`<b>a</b>text<i>c</i>`))
	if err != nil {
		t.Fatalf("ParseFragment: %v", err)
	}
	if len(nodes) != 3 {
		t.Fatalf("len(nodes) = %d, want 3", len(nodes))
	}
	if nodes[1].Kind != KindText || nodes[1].Text != "text" {
		t.Errorf("nodes[1] = %+v", nodes[1])
	}
}

func TestBodyOf(t *testing.T) {
	if BodyOf(nil) != nil {
		t.Error("BodyOf(nil) should be nil")
	}
	b := Body()
	if BodyOf(b) != b {
		t.Error("BodyOf(body) should be itself")
	}
	if BodyOf(Html(Head(), b)) != b {
		t.Error("BodyOf(html) should find body")
	}
}
