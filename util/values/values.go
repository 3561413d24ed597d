package values

// Status values used across server responses.
const (
	Success        = "success"
	Created        = "created"
	Error          = "error"
	BadRequestBody = "bad-request"
	NotFound       = "not-found"
	Conflict       = "conflict"
)

// Request headers.
const (
	HeaderRequestID     = "X-Request-Id"
	HeaderRequestSource = "X-Request-Source"
)

type ContextKey string

// ContextTracingKey stores the tracing context on the request context.
const ContextTracingKey = ContextKey("tracing-context")
