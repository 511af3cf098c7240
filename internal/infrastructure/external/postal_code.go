package external

import (
	"context"
	"time"

	"github.com/avatarctic/realestate-crm/internal/core/domain/lookup"
	"github.com/sirupsen/logrus"
)

type region struct {
	prefecture string
	city       string
}

var regionsByFirstDigit = map[byte]region{
	'0': {"Hokkaido", "Sapporo"},
	'1': {"Tokyo", "Chiyoda"},
	'2': {"Kanagawa", "Yokohama"},
	'3': {"Saitama", "Saitama"},
	'4': {"Aichi", "Nagoya"},
	'5': {"Osaka", "Osaka"},
	'6': {"Hyogo", "Kobe"},
	'7': {"Fukuoka", "Fukuoka"},
	'8': {"Okinawa", "Naha"},
	'9': {"Kyoto", "Kyoto"},
}

// PostalCodeClient is a deterministic stand-in for a postal code API.
type PostalCodeClient struct {
	throttle *throttle
	logger   *logrus.Logger
}

func NewPostalCodeClient(interval time.Duration, logger *logrus.Logger) *PostalCodeClient {
	return &PostalCodeClient{throttle: newThrottle(interval), logger: logger}
}

// Lookup accepts codes shaped NNN-NNNN and resolves the region from the first digit.
func (c *PostalCodeClient) Lookup(ctx context.Context, postalCode string) (*lookup.PostalCodeResult, error) {
	if err := c.throttle.wait(ctx); err != nil {
		return nil, err
	}
	if c.logger != nil {
		c.logger.WithFields(logrus.Fields{"postal_code": postalCode}).Info("postal code lookup")
	}
	if len(postalCode) != 8 || postalCode[3] != '-' {
		return nil, lookup.ErrInvalidPostalCode
	}
	r, ok := regionsByFirstDigit[postalCode[0]]
	if !ok {
		r = region{"Unknown", "Unknown"}
	}
	return &lookup.PostalCodeResult{
		PostalCode: postalCode,
		Prefecture: r.prefecture,
		City:       r.city,
		Street:     "Example Street",
		Success:    true,
	}, nil
}
