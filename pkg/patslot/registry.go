package patslot

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/fzzzy/mumulib/internal/errors"
	"github.com/fzzzy/mumulib/pkg/metrics"
	"github.com/fzzzy/mumulib/pkg/vdom"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Registry answers "find the pattern named id" queries.
// The returned node belongs to the registry and must not be mutated; clone it.
type Registry interface {
	FindPattern(ctx context.Context, id string) (*vdom.VNode, error)
}

// findPattern returns the first node in root's subtree, root included,
// carrying data-pat=id.
func findPattern(root *vdom.VNode, id string) (*vdom.VNode, error) {
	if root == nil {
		return nil, errors.New("M001").WithDetailf("no pattern named %q: empty template", id)
	}
	if pat, ok := root.Attr(vdom.AttrPattern); ok && pat == id {
		return root, nil
	}
	if n := vdom.First(root, vdom.AttrPattern, id); n != nil {
		return n, nil
	}
	return nil, errors.New("M001").WithDetailf("no pattern named %q", id)
}

// Baseline is a registry over an immutable snapshot of a markup tree.
// The snapshot is taken once, at first use; later changes to the source
// tree do not affect it.
type Baseline struct {
	source func() *vdom.VNode
	once   sync.Once
	root   *vdom.VNode
}

// NewBaseline creates a Baseline that snapshots source() on first use.
func NewBaseline(source func() *vdom.VNode) *Baseline {
	return &Baseline{source: source}
}

// StaticBaseline creates a Baseline over a snapshot of root taken now.
func StaticBaseline(root *vdom.VNode) *Baseline {
	b := &Baseline{}
	b.once.Do(func() { b.root = root.Clone() })
	return b
}

// Root returns the snapshot, taking it if needed. Do not mutate it.
func (b *Baseline) Root() *vdom.VNode {
	b.once.Do(func() {
		if b.source != nil {
			b.root = b.source().Clone()
		}
	})
	return b.root
}

// FindPattern implements Registry.
func (b *Baseline) FindPattern(_ context.Context, id string) (*vdom.VNode, error) {
	return findPattern(b.Root(), id)
}

// Template is a registry backed by an external markup source. With a URL
// every lookup fetches and parses the source again; nothing is cached. With
// an empty URL lookups fall back to the Baseline.
type Template struct {
	URL      string
	Fetcher  Fetcher
	Baseline *Baseline
	Logger   *slog.Logger
}

// NewTemplate creates a Template for url using the default fetchers.
func NewTemplate(url string, baseline *Baseline) *Template {
	return &Template{URL: url, Fetcher: DefaultFetcher(), Baseline: baseline}
}

// Load fetches and parses the template source, returning its <body>.
func (t *Template) Load(ctx context.Context) (*vdom.VNode, error) {
	if t.URL == "" {
		if t.Baseline == nil {
			return nil, nil
		}
		return t.Baseline.Root(), nil
	}

	ctx, span := tracer.Start(ctx, "patslot.Template.Load",
		trace.WithAttributes(attribute.String("template.url", t.URL)))
	defer span.End()

	fetcher := t.Fetcher
	if fetcher == nil {
		fetcher = DefaultFetcher()
	}

	text, err := fetcher.FetchText(ctx, t.URL)
	if err != nil {
		metrics.Default().RecordFetch(schemeOf(t.URL), "error")
		t.logger().Warn("template fetch failed", "url", t.URL, "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "fetch failed")
		return nil, errors.New("M003").WithDetail(t.URL).Wrap(err)
	}
	metrics.Default().RecordFetch(schemeOf(t.URL), "ok")

	body, err := vdom.ParseBody(strings.NewReader(text))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "parse failed")
		return nil, errors.New("M004").WithDetail(t.URL).Wrap(err)
	}
	return body, nil
}

// FindPattern implements Registry.
func (t *Template) FindPattern(ctx context.Context, id string) (*vdom.VNode, error) {
	root, err := t.Load(ctx)
	if err != nil {
		return nil, err
	}
	return findPattern(root, id)
}

func (t *Template) logger() *slog.Logger {
	if t.Logger != nil {
		return t.Logger
	}
	return slog.Default().With("component", "template")
}
