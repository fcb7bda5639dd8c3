package sms

import (
	"context"
	"fmt"

	"roomhive/config"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"go.uber.org/zap"
)

// TwilioSender delivers SMS via the Twilio REST API.
type TwilioSender struct {
	client *twilio.RestClient
	from   string
	logger *zap.Logger
}

// NewTwilioSender creates a Twilio-backed Sender from config.
func NewTwilioSender(logger *zap.Logger) (*TwilioSender, error) {
	cfg := config.AppConfig
	if cfg.TwilioAccountSID == "" || cfg.TwilioAuthToken == "" || cfg.TwilioFrom == "" {
		return nil, fmt.Errorf("missing Twilio credentials in configuration")
	}

	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: cfg.TwilioAccountSID,
		Password: cfg.TwilioAuthToken,
	})

	return &TwilioSender{client: client, from: cfg.TwilioFrom, logger: logger}, nil
}

// Send delivers one SMS message.
func (t *TwilioSender) Send(_ context.Context, phone, message string) error {
	params := &twilioApi.CreateMessageParams{}
	params.SetFrom(t.from)
	params.SetTo(phone)
	params.SetBody(message)

	resp, err := t.client.Api.CreateMessage(params)
	if err != nil {
		t.logger.Error("Failed to send SMS", zap.String("phone", phone), zap.Error(err))
		return fmt.Errorf("failed to send SMS: %w", err)
	}
	if resp.Sid != nil {
		t.logger.Debug("SMS sent", zap.String("sid", *resp.Sid))
	}
	return nil
}
