package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
)

// smsLimit keeps a notification inside a single concatenated SMS.
const smsLimit = 320

type messageCreator interface {
	CreateMessage(params *openapi.CreateMessageParams) (*openapi.ApiV2010Message, error)
}

// SMSChannel texts a single on-call number through Twilio.
type SMSChannel struct {
	api  messageCreator
	from string
	to   string
}

func NewSMSChannel(accountSID, authToken, from, to string) (*SMSChannel, error) {
	if accountSID == "" || authToken == "" || from == "" || to == "" {
		return nil, errors.New("Twilio not properly configured")
	}
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})
	return &SMSChannel{api: client.Api, from: from, to: normalizePhone(to)}, nil
}

func (c *SMSChannel) Name() string { return "sms" }

// Send ignores ctx once the request is issued; the Twilio client has no
// context-aware call.
func (c *SMSChannel) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	body := msg.Text
	if len(body) > smsLimit {
		body = body[:smsLimit-3] + "..."
	}

	params := &openapi.CreateMessageParams{}
	params.SetTo(c.to)
	params.SetFrom(c.from)
	params.SetBody(body)

	resp, err := c.api.CreateMessage(params)
	if err != nil {
		return fmt.Errorf("twilio create message: %w", err)
	}
	sid := ""
	if resp != nil && resp.Sid != nil {
		sid = *resp.Sid
	}
	log.Info().Str("sid", sid).Msg("Successfully sent SMS via Twilio")
	return nil
}

// normalizePhone assumes a US number when no country code is given.
func normalizePhone(phone string) string {
	phone = strings.TrimSpace(phone)
	if strings.HasPrefix(phone, "+") {
		return phone
	}
	if strings.HasPrefix(phone, "1") && len(phone) == 11 {
		return "+" + phone
	}
	return "+1" + phone
}
