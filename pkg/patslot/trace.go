package patslot

import "go.opentelemetry.io/otel"

// tracer uses the global OpenTelemetry tracer provider.
var tracer = otel.Tracer("github.com/fzzzy/mumulib/pkg/patslot")
