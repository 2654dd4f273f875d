//go:build !no_otel

// Package otel selects the tracer of the SDK.
// Building with the no_otel tag removes the OpenTelemetry dependency from the call path.
package otel

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const InstrumentationName = "github.com/authing/authing-go-sdk/v3"

func Tracer(component string) trace.Tracer {
	return otel.Tracer(InstrumentationName + "/" + component)
}
