package http

// HealthResponse is the response body for GET /health.
type HealthResponse struct {
	Status    string           `json:"status"`
	Version   string           `json:"version,omitempty"`
	Telemetry *TelemetryStatus `json:"telemetry,omitempty"`
}

// TelemetryStatus reports exporter health.
type TelemetryStatus struct {
	Healthy  bool     `json:"healthy"`
	Degraded bool     `json:"degraded"`
	Reasons  []string `json:"reasons,omitempty"`
}
