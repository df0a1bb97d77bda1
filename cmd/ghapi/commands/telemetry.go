package commands

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// setupTracing installs a tracer provider that prints every finished span
// to w. The returned function flushes and uninstalls it.
func setupTracing(w io.Writer) (func(context.Context) error, error) {
	exporter, err := stdouttrace.New(stdouttrace.WithWriter(w), stdouttrace.WithPrettyPrint())
	if err != nil {
		return nil, fmt.Errorf("failed to create trace exporter: %w", err)
	}

	provider := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	previous := otel.GetTracerProvider()
	otel.SetTracerProvider(provider)

	return func(ctx context.Context) error {
		defer otel.SetTracerProvider(previous)

		err := provider.Shutdown(ctx)
		if err != nil {
			return fmt.Errorf("failed to shut down tracer provider: %w", err)
		}

		return nil
	}, nil
}

// renderMetrics prints every sample gathered from gatherer as a table.
func renderMetrics(w io.Writer, gatherer prometheus.Gatherer) error {
	families, err := gatherer.Gather()
	if err != nil {
		return fmt.Errorf("failed to gather metrics: %w", err)
	}

	table := tablewriter.NewWriter(w)
	table.Header("Metric", "Labels", "Value")

	for _, family := range families {
		for _, metric := range family.GetMetric() {
			labels := make([]string, 0, len(metric.GetLabel()))
			for _, pair := range metric.GetLabel() {
				labels = append(labels, pair.GetName()+"="+pair.GetValue())
			}

			sort.Strings(labels)

			var value string

			switch {
			case metric.GetCounter() != nil:
				value = fmt.Sprintf("%g", metric.GetCounter().GetValue())
			case metric.GetGauge() != nil:
				value = fmt.Sprintf("%g", metric.GetGauge().GetValue())
			case metric.GetHistogram() != nil:
				histogram := metric.GetHistogram()
				value = fmt.Sprintf("count=%d sum=%.3fs", histogram.GetSampleCount(), histogram.GetSampleSum())
			default:
				value = NotAvailable
			}

			_ = table.Append(family.GetName(), strings.Join(labels, ","), value)
		}
	}

	err = table.Render()
	if err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	return nil
}
