package model

import "time"

// RequestType identifies one of the protocol commands.
type RequestType string

const (
	RequestLogin         RequestType = "LOGIN"
	RequestLogout        RequestType = "LOGOUT"
	RequestGetAll        RequestType = "GET_ALL"
	RequestGetByID       RequestType = "GET_BY_ID"
	RequestGetByCategory RequestType = "GET_BY_CATEGORY"
	RequestGetByYear     RequestType = "GET_BY_YEAR"
	RequestCreate        RequestType = "CREATE"
	RequestUpdate        RequestType = "UPDATE"
	RequestDelete        RequestType = "DELETE"
)

// Status is the outcome carried by a Response.
type Status string

const (
	StatusOK    Status = "OK"
	StatusError Status = "ERROR"
	StatusBye   Status = "BYE"
	StatusToken Status = "TOKEN"
)

// Request is one decoded protocol line from a client. Content is a
// command-specific payload, often itself JSON encoded as a string.
type Request struct {
	Type      RequestType `json:"type"`
	Content   string      `json:"content"`
	Token     string      `json:"token,omitempty"`
	CreatedAt string      `json:"createdAt"`
}

// Response is one encoded protocol line back to a client. Exactly one
// Response is written per Request, in request order.
type Response struct {
	Status    Status `json:"status"`
	Content   string `json:"content"`
	CreatedAt string `json:"createdAt"`
}

// NewRequest stamps a request with the current time.
func NewRequest(t RequestType, content, token string) Request {
	return Request{Type: t, Content: content, Token: token, CreatedAt: time.Now().Format(time.RFC3339)}
}

// NewResponse stamps a response with the current time.
func NewResponse(status Status, content string) Response {
	return Response{Status: status, Content: content, CreatedAt: time.Now().Format(time.RFC3339)}
}

// Login is the LOGIN request payload.
type Login struct {
	Username string `json:"username"`
	Password string `json:"password"`
}
