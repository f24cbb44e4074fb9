package patslot

import (
	"context"

	"github.com/fzzzy/mumulib/pkg/vdom"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Host is a live document: it exposes its body and reconciles it against a
// desired tree.
type Host interface {
	Body() *vdom.VNode
	Morph(live, desired *vdom.VNode)
}

// RenderBody clones host's body, fills every slot in s (Replace mode) and
// morphs the live body to match. This is the only path by which fills become
// visible in a live document.
func RenderBody(ctx context.Context, host Host, s Slots) error {
	ctx, span := tracer.Start(ctx, "patslot.RenderBody",
		trace.WithAttributes(attribute.Int("slots", len(s))))
	defer span.End()

	live := host.Body()
	clone := live.Clone()
	err := Fill(ctx, clone, s, Replace)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "fill failed")
		if !isBindingOnly(err) {
			return err
		}
	}
	host.Morph(live, clone)
	return err
}
