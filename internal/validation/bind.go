package validation

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	validatorv10 "github.com/go-playground/validator/v10"
)

// BindSNSMessage decodes and validates an SNS HTTP delivery. On failure it
// has already written a 400 and the caller only returns.
//
// SNS posts with Content-Type text/plain, so the body is always decoded as JSON.
func BindSNSMessage(c *gin.Context, v *validatorv10.Validate) (*SNSHTTPMessage, error) {
	var msg SNSHTTPMessage
	if err := c.ShouldBindWith(&msg, binding.JSON); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_sns_message", "msg": "body is not an SNS JSON message"})
		return nil, err
	}

	if err := v.Struct(&msg); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":  "invalid_sns_message",
			"fields": snsFieldErrors(err),
		})
		return nil, err
	}
	return &msg, nil
}

// snsFieldErrors keys reasons by the SNS JSON field name (MessageId, SigningCertURL, ...).
func snsFieldErrors(err error) map[string]string {
	out := map[string]string{}
	var ve validatorv10.ValidationErrors
	if !errors.As(err, &ve) {
		out["message"] = "invalid"
		return out
	}
	for _, fe := range ve {
		switch fe.Tag() {
		case "required":
			out[fe.Field()] = "required"
		case "required_if":
			out[fe.Field()] = fmt.Sprintf("required when %s", fe.Param())
		case "oneof":
			out[fe.Field()] = fmt.Sprintf("must be one of: %s", fe.Param())
		default:
			out[fe.Field()] = "malformed " + fe.Tag()
		}
	}
	return out
}
