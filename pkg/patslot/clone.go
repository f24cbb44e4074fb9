package patslot

import (
	"context"
	stderrors "errors"

	"github.com/fzzzy/mumulib/pkg/metrics"
	"github.com/fzzzy/mumulib/pkg/vdom"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// ClonePattern looks up pattern id in reg, deep-clones it and fills every
// slot in s (Replace mode). The registry's copy is never mutated.
//
// A missing pattern returns ErrPatternNotFound and a nil node. If only
// attribute bindings failed the filled clone is returned alongside the error.
func ClonePattern(ctx context.Context, reg Registry, id string, s Slots) (*vdom.VNode, error) {
	ctx, span := tracer.Start(ctx, "patslot.ClonePattern",
		trace.WithAttributes(attribute.String("pattern.id", id), attribute.Int("slots", len(s))))
	defer span.End()

	pat, err := reg.FindPattern(ctx, id)
	if err != nil {
		metrics.Default().RecordClone("error")
		span.RecordError(err)
		span.SetStatus(codes.Error, "lookup failed")
		return nil, err
	}

	clone := pat.Clone()
	if err := Fill(ctx, clone, s, Replace); err != nil {
		metrics.Default().RecordClone("error")
		span.RecordError(err)
		span.SetStatus(codes.Error, "fill failed")
		if isBindingOnly(err) {
			return clone, err
		}
		return nil, err
	}

	metrics.Default().RecordClone("ok")
	return clone, nil
}

// isBindingOnly reports whether err came from attribute bindings, which
// leave the filled tree usable.
func isBindingOnly(err error) bool {
	return stderrors.Is(err, ErrInvalidAttributeBinding)
}
