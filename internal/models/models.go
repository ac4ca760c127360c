package models

type HealthResponse struct {
	Status string `json:"status"`
}

type ValidateUsersResponse struct {
	Validated int `json:"validated"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

// ValidateUsersFailureResponse is returned when the batch stopped on a name
// rejected by (or unreachable at) the remote validation service.
type ValidateUsersFailureResponse struct {
	Error     string             `json:"error"`
	Validated int                `json:"validated"`
	Failed    *ValidationOutcome `json:"failed,omitempty"`
}

// RemoteResponse is the body returned by the remote validation service.
// Only Message is consumed, other fields are ignored whatever their type.
type RemoteResponse struct {
	Message *string `json:"message,omitempty"`
}

type ValidationOutcome struct {
	Name          string `json:"name"`
	SanitizedName string `json:"sanitized_name"`
	StatusCode    int    `json:"status"`
	Message       string `json:"message"`
}

type ValidationReport struct {
	RunID     string
	Validated int
	Failed    *ValidationOutcome
}

const (
	SourceTypeUnknown = iota
	SourceTypePostgresql
	SourceTypeFile
	SourceTypeMemory
)
