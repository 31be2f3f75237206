package config

// MetricsConfig controls telemetry export settings.
type MetricsConfig struct {
	Enabled      bool   `envconfig:"METRICS_ENABLED" default:"true"`
	Port         string `envconfig:"METRICS_PORT" default:"9090"`
	OtlpEndpoint string `envconfig:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	ServiceName  string `envconfig:"OTEL_SERVICE_NAME" default:"fpl-coach-service"`
	OtlpInsecure bool   `envconfig:"OTEL_EXPORTER_OTLP_INSECURE" default:"true"`
}
