package validation

// SNS HTTP(S) delivery message types.
const (
	SNSTypeNotification             = "Notification"
	SNSTypeSubscriptionConfirmation = "SubscriptionConfirmation"
	SNSTypeUnsubscribeConfirmation  = "UnsubscribeConfirmation"
)

// SNSHTTPMessage is the JSON body SNS POSTs to an HTTP(S) subscription.
// Tags only check shape; SignatureVerifier decides whether SNS sent it.
type SNSHTTPMessage struct {
	Type             string `json:"Type" validate:"required,oneof=Notification SubscriptionConfirmation UnsubscribeConfirmation"`
	MessageID        string `json:"MessageId" validate:"required"`
	TopicArn         string `json:"TopicArn" validate:"required"`
	Subject          string `json:"Subject,omitempty"`
	Message          string `json:"Message"`
	Timestamp        string `json:"Timestamp" validate:"required"`
	SignatureVersion string `json:"SignatureVersion" validate:"required,oneof=1 2"`
	Signature        string `json:"Signature" validate:"required,base64"`
	SigningCertURL   string `json:"SigningCertURL" validate:"required,url"`
	SubscribeURL     string `json:"SubscribeURL,omitempty" validate:"required_if=Type SubscriptionConfirmation"`
	UnsubscribeURL   string `json:"UnsubscribeURL,omitempty"`
	Token            string `json:"Token,omitempty"`
}
