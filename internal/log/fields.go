package log

// Common field names for structured logging.
const (
	FieldComponent  = "component"
	FieldRequestID  = "request_id"
	FieldClientIP   = "client_ip"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldStatusCode = "status_code"
	FieldDuration   = "duration_ms"
	FieldError      = "error"
	FieldCommand    = "command"
	FieldID         = "id"
	FieldCount      = "count"
)

// Component names used across the application.
const (
	ComponentServer     = "server"
	ComponentStore      = "store"
	ComponentDispatcher = "dispatcher"
	ComponentEvents     = "events"
)
