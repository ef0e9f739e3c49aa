package api

// ErrorResponse represents an error in API responses
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// StatusResponse is the edit-submission acknowledgement: "ok" with a
// redirect location, or "error" with a generic message.
type StatusResponse struct {
	Status   string `json:"status"`
	Redirect string `json:"redirect,omitempty"`
	Message  string `json:"message,omitempty"`
}
