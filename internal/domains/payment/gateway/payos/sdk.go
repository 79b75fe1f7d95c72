package payos

import (
	"fmt"

	payossdk "github.com/payOSHQ/payos-lib-golang"
)

// CheckoutLink is the part of a created payment link the adapter keeps.
type CheckoutLink struct {
	CheckoutURL   string
	PaymentLinkID string
	Status        string
}

// LinkInfo is the status snapshot returned by a payment link lookup.
type LinkInfo struct {
	OrderCode  int64
	Amount     int
	AmountPaid int
	Status     string
}

// LinkAPI is the slice of the PayOS SDK used by the gateway.
type LinkAPI interface {
	CreateLink(req payossdk.CheckoutRequestType) (*CheckoutLink, error)
	GetLink(orderCode string) (*LinkInfo, error)
	CancelLink(orderCode, reason string) error
}

// sdkAPI forwards to the package-level functions of payos-lib-golang.
type sdkAPI struct{}

// NewSDK registers the merchant keys with the SDK and returns the live API.
func NewSDK(config *Config) (LinkAPI, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	var err error
	if config.PartnerCode != "" {
		err = payossdk.Key(config.ClientID, config.APIKey, config.ChecksumKey, config.PartnerCode)
	} else {
		err = payossdk.Key(config.ClientID, config.APIKey, config.ChecksumKey)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to initialize PayOS: %w", err)
	}

	return sdkAPI{}, nil
}

func (sdkAPI) CreateLink(req payossdk.CheckoutRequestType) (*CheckoutLink, error) {
	resp, err := payossdk.CreatePaymentLink(req)
	if err != nil {
		return nil, err
	}
	return &CheckoutLink{
		CheckoutURL:   resp.CheckoutUrl,
		PaymentLinkID: resp.PaymentLinkId,
		Status:        resp.Status,
	}, nil
}

func (sdkAPI) GetLink(orderCode string) (*LinkInfo, error) {
	resp, err := payossdk.GetPaymentLinkInformation(orderCode)
	if err != nil {
		return nil, err
	}
	return &LinkInfo{
		OrderCode:  resp.OrderCode,
		Amount:     resp.Amount,
		AmountPaid: resp.AmountPaid,
		Status:     resp.Status,
	}, nil
}

func (sdkAPI) CancelLink(orderCode, reason string) error {
	_, err := payossdk.CancelPaymentLink(orderCode, &reason)
	return err
}
