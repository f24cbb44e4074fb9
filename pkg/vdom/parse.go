package vdom

import (
	"errors"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ErrNoBody is returned when parsed markup has no <body> element.
var ErrNoBody = errors.New("vdom: parsed document has no body")

// Parse parses a complete HTML document and returns its <html> element.
func Parse(r io.Reader) (*VNode, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}
	for c := doc.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			return convert(c), nil
		}
	}
	return nil, ErrNoBody
}

// ParseString parses an HTML document held in s.
func ParseString(s string) (*VNode, error) {
	return Parse(strings.NewReader(s))
}

// ParseBody parses an HTML document and returns its <body> element.
// Fragments are accepted: the parser wraps them in an implied body.
func ParseBody(r io.Reader) (*VNode, error) {
	root, err := Parse(r)
	if err != nil {
		return nil, err
	}
	body := BodyOf(root)
	if body == nil {
		return nil, ErrNoBody
	}
	return body, nil
}

// BodyOf returns the <body> element inside root, or root itself if it is a body.
func BodyOf(root *VNode) *VNode {
	if root == nil {
		return nil
	}
	if root.Kind == KindElement && root.Tag == "body" {
		return root
	}
	if bodies := FindTag(root, "body"); len(bodies) > 0 {
		return bodies[0]
	}
	return nil
}

// ParseFragment parses markup as the children of a <body> element.
func ParseFragment(r io.Reader) ([]*VNode, error) {
	context := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(r, context)
	if err != nil {
		return nil, err
	}
	out := make([]*VNode, 0, len(nodes))
	for _, n := range nodes {
		if v := convert(n); v != nil {
			out = append(out, v)
		}
	}
	return out, nil
}

// convert turns an html.Node into a VNode. Comments and doctypes are dropped.
func convert(n *html.Node) *VNode {
	switch n.Type {
	case html.TextNode:
		return Text(n.Data)
	case html.ElementNode:
		v := &VNode{
			Kind:     KindElement,
			Tag:      n.Data,
			Props:    make(Props, len(n.Attr)),
			Children: make([]*VNode, 0),
		}
		for _, a := range n.Attr {
			key := a.Key
			if a.Namespace != "" {
				key = a.Namespace + ":" + a.Key
			}
			v.Props[key] = a.Val
		}
		appendConverted(v, n)
		return v
	case html.DocumentNode:
		v := Fragment()
		appendConverted(v, n)
		return v
	default:
		return nil
	}
}

func appendConverted(parent *VNode, n *html.Node) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if child := convert(c); child != nil {
			parent.Children = append(parent.Children, child)
		}
	}
}
