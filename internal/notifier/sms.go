package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// SMSConfig holds the ESB SMS gateway configuration.
type SMSConfig struct {
	GatewayURL   string        // SMS gateway endpoint
	SourceSystem string        // esbData.sourceSystem identifier
	Timeout      time.Duration // HTTP timeout (default: 30s)
}

// Validate validates the SMS configuration.
func (c *SMSConfig) Validate() error {
	if c.GatewayURL == "" {
		return fmt.Errorf("gateway URL is required")
	}
	return nil
}

// SMSGateway sends SMS batches through the ESB HTTP gateway.
type SMSGateway struct {
	config     SMSConfig
	httpClient *http.Client
}

// NewSMSGateway creates a new SMS gateway client.
func NewSMSGateway(config SMSConfig) (*SMSGateway, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid sms config: %w", err)
	}
	if config.Timeout <= 0 {
		config.Timeout = 30 * time.Second
	}
	if config.SourceSystem == "" {
		config.SourceSystem = "1"
	}
	return &SMSGateway{
		config:     config,
		httpClient: &http.Client{Timeout: config.Timeout},
	}, nil
}

// smsRequest is the gateway's batch payload.
type smsRequest struct {
	ESBData    smsESBData   `json:"esbData"`
	ActionCode string       `json:"ActionCode"`
	SMSData    []smsMessage `json:"SMSData"`
}

type smsESBData struct {
	SourceSystem string `json:"sourceSystem"`
	RequestID    string `json:"request_id"`
}

type smsMessage struct {
	Message         string `json:"SMS_Message"`
	RequestID       string `json:"RequestId"`
	SendInNightTime bool   `json:"isSendInNightTime"`
	KosherSMS       bool   `json:"isKosherSMS"`
	PhoneNumber     string `json:"PhoneNumber"`
}

// SendSMS posts one gateway request carrying body for every phone number.
func (g *SMSGateway) SendSMS(ctx context.Context, body string, phones []string) error {
	requestID := fmt.Sprintf("%d", time.Now().UnixMilli())

	messages := make([]smsMessage, 0, len(phones))
	for _, phone := range phones {
		messages = append(messages, smsMessage{
			Message:         body,
			RequestID:       requestID,
			SendInNightTime: true,
			PhoneNumber:     phone,
		})
	}

	payload := smsRequest{
		ESBData:    smsESBData{SourceSystem: g.config.SourceSystem, RequestID: requestID},
		ActionCode: "1",
		SMSData:    messages,
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal sms payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.config.GatewayURL, bytes.NewReader(jsonData))
	if err != nil {
		return fmt.Errorf("create sms request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send sms request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("sms gateway error: status %d, body: %s", resp.StatusCode, string(respBody))
	}

	return nil
}
