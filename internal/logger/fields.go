package logger

// Fields is an alias for map[string]interface{} for convenience.
type Fields map[string]interface{}

// Tracing fields propagated through the call chain via context.
const (
	// FieldRequestID is the HTTP request ID (UUID)
	FieldRequestID = "request_id"

	// FieldUserID is the authenticated caller's user ID
	FieldUserID = "user_id"

	// FieldPromptID is the prompt record ID an operation targets
	FieldPromptID = "prompt_id"

	// FieldComponent is the component/module name
	FieldComponent = "component"

	// FieldProvider is the external captioning provider identifier
	FieldProvider = "provider"

	// FieldEndpoint is the rate-limited endpoint identifier
	FieldEndpoint = "endpoint"
)

// Metric fields attached at the log site for aggregation and alerting.
const (
	// FieldDurationMs is the execution duration in milliseconds
	FieldDurationMs = "duration_ms"

	// FieldCount is a generic count field
	FieldCount = "count"

	// FieldSize is the data size in bytes
	FieldSize = "size"

	// FieldStatus is the operation status
	FieldStatus = "status"
)
