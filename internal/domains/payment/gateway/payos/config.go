package payos

import "fmt"

type Config struct {
	ClientID    string
	APIKey      string
	ChecksumKey string
	PartnerCode string // optional
}

func (c *Config) Validate() error {
	if c.ClientID == "" {
		return fmt.Errorf("PAYOS_CLIENT_ID is required")
	}
	if c.APIKey == "" {
		return fmt.Errorf("PAYOS_API_KEY is required")
	}
	if c.ChecksumKey == "" {
		return fmt.Errorf("PAYOS_CHECKSUM_KEY is required")
	}
	return nil
}

// PayOS link statuses.
const (
	StatusPaid       = "PAID"
	StatusPending    = "PENDING"
	StatusProcessing = "PROCESSING"
	StatusCancelled  = "CANCELLED"
	StatusExpired    = "EXPIRED"

	maxDescriptionLength = 25
)
