package instrumentation

// Exporter names accepted by the configuration.
const (
	ExporterPrometheus = "prometheus"
	ExporterOTLP       = "otlp"
	ExporterStdout     = "stdout"
	ExporterNone       = "none"
)

// Config holds the configuration for OpenTelemetry instrumentation.
type Config struct {
	// ServiceName is the name of the service (default: nextclass).
	ServiceName string

	// ServiceVersion is the version of the service.
	ServiceVersion string

	// Enabled determines if instrumentation is active. When false the
	// provider hands out no-op recorders.
	Enabled bool

	// MetricsExporter selects the metrics exporter:
	// "prometheus" (default), "otlp" or "stdout".
	MetricsExporter string

	// TracingExporter selects the tracing exporter:
	// "otlp", "stdout" or "none" (default).
	TracingExporter string

	// OTLPEndpoint is the OTLP collector endpoint, e.g. "localhost:4318"
	// (no protocol prefix).
	OTLPEndpoint string

	// OTLPInsecure switches OTLP export to plain HTTP. Only for local
	// development; traces and metrics should be encrypted in transit.
	OTLPInsecure bool

	// TraceSamplingRate is the trace sampling ratio (0.0 to 1.0).
	TraceSamplingRate float64
}

// DefaultConfig returns the default instrumentation configuration.
func DefaultConfig() Config {
	return Config{
		ServiceName:       "nextclass",
		ServiceVersion:    "dev",
		Enabled:           true,
		MetricsExporter:   ExporterPrometheus,
		TracingExporter:   ExporterNone,
		TraceSamplingRate: 0.1,
	}
}
