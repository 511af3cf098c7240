package external

import (
	"context"
	"time"

	"github.com/avatarctic/realestate-crm/internal/core/domain/lookup"
	"github.com/sirupsen/logrus"
)

var numberTypesByFirstDigit = map[byte]string{
	'0': "Mobile",
	'1': "Landline",
	'2': "Business",
	'3': "Mobile",
	'4': "Landline",
	'5': "Mobile",
	'6': "Landline",
	'7': "Mobile",
	'8': "Toll-free",
	'9': "Premium",
}

type PhoneNumberClient struct {
	throttle *throttle
	logger   *logrus.Logger
}

func NewPhoneNumberClient(interval time.Duration, logger *logrus.Logger) *PhoneNumberClient {
	return &PhoneNumberClient{throttle: newThrottle(interval), logger: logger}
}

// Lookup accepts 10 to 13 characters; the type comes from the first digit after an optional '+'.
func (c *PhoneNumberClient) Lookup(ctx context.Context, phoneNumber string) (*lookup.PhoneNumberResult, error) {
	if err := c.throttle.wait(ctx); err != nil {
		return nil, err
	}
	if c.logger != nil {
		c.logger.WithFields(logrus.Fields{"phone_number": phoneNumber}).Info("phone number lookup")
	}
	if len(phoneNumber) < 10 || len(phoneNumber) > 13 {
		return nil, lookup.ErrInvalidPhoneNumber
	}
	first := phoneNumber[0]
	if first == '+' {
		first = phoneNumber[1]
	}
	numberType, ok := numberTypesByFirstDigit[first]
	if !ok {
		numberType = "Unknown"
	}
	return &lookup.PhoneNumberResult{
		PhoneNumber: phoneNumber,
		Type:        numberType,
		Carrier:     "Example Carrier",
		IsValid:     true,
		Success:     true,
	}, nil
}
