/*
Package response is the single place where results and errors become HTTP.

Status codes are mapped here and nowhere else. Internal errors are answered with
"internal server error"; the real cause only goes to the log. Every body carries
the request id.

	success:  { success: true, data: {...}, message: "...", code: 200, request_id: "..." }
	degraded: { success: true, data: {...}, warning: "...", code: 200, request_id: "..." }
	failure:  { success: false, error: "ERROR_CODE", message: "...", code: 4xx/5xx, request_id: "..." }

A degraded response is a write that reached memory but not the store. The
client gets the new state together with a warning that it may not survive a
reload.
*/
package response

// RequestIDKey gin context key of the request id
const RequestIDKey = "request_id"

type Response struct {
	Success   bool        `json:"success"`
	Data      interface{} `json:"data,omitempty"`
	Error     string      `json:"error,omitempty"` // error code, never the error text
	Field     string      `json:"field,omitempty"`
	Code      int         `json:"code"`
	Message   string      `json:"message"`
	Warning   string      `json:"warning,omitempty"`
	RequestID string      `json:"request_id,omitempty"`
}
