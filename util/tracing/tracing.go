package tracing

// Context carries per-request tracing information.
type Context struct {
	RequestID     string `json:"requestId"`
	RequestSource string `json:"requestSource"`
}
