package config

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"
)

// Config holds everything the ingestion binaries read from the environment.
type Config struct {
	OrderTableName    string
	EC2PrivateIP      string
	IsLocal           bool
	DynamoDBLocalPort int
	Region            string
	MetricsNamespace  string
	LogLevel          string
	LogFormat         string
	RunLocal          bool
	LocalSNSMessage   string
	HTTPAddr          string
}

// ErrMissingTableName is returned by Load when ORDER_TABLE_NAME is unset.
var ErrMissingTableName = errors.New("ORDER_TABLE_NAME is required")

const defaultLocalMessage = `{"order_id":"local-order-1","item_id":"local-item-1","item_count":2,"item_price":9.50,"total_price":19.00}`

// Load reads the environment into a Config and validates it.
func Load() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("EC2_PRIVATE_IP", "localhost")
	// sam local invoke sets AWS_SAM_LOCAL=true
	v.SetDefault("AWS_SAM_LOCAL", false)
	v.SetDefault("DYNAMODB_LOCAL_PORT", 8000)
	v.SetDefault("AWS_REGION", "us-east-1")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("RUN_LOCAL", false)
	v.SetDefault("LOCAL_SNS_MESSAGE", defaultLocalMessage)
	v.SetDefault("HTTP_ADDR", ":8080")

	cfg := &Config{
		OrderTableName:    v.GetString("ORDER_TABLE_NAME"),
		EC2PrivateIP:      v.GetString("EC2_PRIVATE_IP"),
		IsLocal:           v.GetBool("AWS_SAM_LOCAL"),
		DynamoDBLocalPort: v.GetInt("DYNAMODB_LOCAL_PORT"),
		Region:            v.GetString("AWS_REGION"),
		MetricsNamespace:  v.GetString("METRICS_NAMESPACE"),
		LogLevel:          v.GetString("LOG_LEVEL"),
		LogFormat:         v.GetString("LOG_FORMAT"),
		RunLocal:          v.GetBool("RUN_LOCAL"),
		LocalSNSMessage:   v.GetString("LOCAL_SNS_MESSAGE"),
		HTTPAddr:          v.GetString("HTTP_ADDR"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.OrderTableName == "" {
		return ErrMissingTableName
	}
	if c.DynamoDBLocalPort <= 0 || c.DynamoDBLocalPort > 65535 {
		return fmt.Errorf("invalid DYNAMODB_LOCAL_PORT %d", c.DynamoDBLocalPort)
	}
	if c.Region == "" {
		c.Region = "us-east-1"
	}
	return nil
}

// DynamoDBEndpoint returns the DynamoDB Local endpoint when running locally,
// and "" when the SDK default endpoint should be used.
//
// Inside a container on EC2, localhost is the container itself, so the host's
// private IP has to be supplied through EC2_PRIVATE_IP.
func (c *Config) DynamoDBEndpoint() string {
	if !c.IsLocal {
		return ""
	}
	return fmt.Sprintf("http://%s:%d", c.EC2PrivateIP, c.DynamoDBLocalPort)
}

// MetricsEnabled reports whether CloudWatch metrics should be published.
func (c *Config) MetricsEnabled() bool {
	return c.MetricsNamespace != ""
}
