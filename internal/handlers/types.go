package handlers

import (
	"encoding/json"
	"net/http"
)

// Response is the only shape the ingestion handler returns.
type Response struct {
	StatusCode int    `json:"statusCode"`
	Body       string `json:"body"` // JSON-encoded string
}

// Response bodies. Error bodies never carry error details.
const (
	MsgSaved         = "Order successfully processed and saved to DynamoDB"
	MsgInvalidJSON   = "Invalid JSON in SNS message"
	MsgMissingKey    = "Missing key in SNS message: '%s'"
	MsgInvalidValue  = "Invalid value in SNS message: '%s'"
	MsgSaveFailed    = "Failed to save order to DynamoDB"
	MsgInternalError = "Internal Server Error"
)

func newResponse(status int, msg string) Response {
	body, _ := json.Marshal(msg)
	return Response{StatusCode: status, Body: string(body)}
}

// OK reports whether the order was stored.
func (r Response) OK() bool { return r.StatusCode == http.StatusOK }
