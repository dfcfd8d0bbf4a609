package models

// Response is the uniform JSON envelope returned by every API endpoint.
type Response struct {
	Success  bool        `json:"success"`
	Message  string      `json:"message,omitempty"`
	Data     interface{} `json:"data,omitempty"`
	Errors   []string    `json:"errors,omitempty"`
	UserType string      `json:"user_type,omitempty"`
}

// HealthCheckResponse returns the health check response struct
type HealthCheckResponse struct {
	Alive bool `json:"alive"`
}
