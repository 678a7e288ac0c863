package api

import (
	"context"
	"net/http"

	"github.com/premiumbank/pbank/internal/models"
)

// RequestWireOTP starts a wire transfer. The bank issues an approval code out of band.
// Never retried: a repeated call could issue a second request.
func (c *Client) RequestWireOTP(ctx context.Context, req models.WireOTPRequest) (*models.WireOTPResponse, error) {
	var resp models.WireOTPResponse
	if err := c.do(ctx, request{method: http.MethodPost, path: "/transactions/wire/request-otp", body: req}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ConfirmWire completes a wire transfer with the approval code. Never retried.
func (c *Client) ConfirmWire(ctx context.Context, req models.WireConfirmRequest) error {
	return c.do(ctx, request{method: http.MethodPost, path: "/transactions/wire/confirm", body: req}, nil)
}
