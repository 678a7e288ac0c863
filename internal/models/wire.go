package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// WireOTPRequest starts a wire transfer by asking the bank for an approval code
type WireOTPRequest struct {
	FromAccountID     string      `json:"fromAccountId"`
	RoutingNumber     string      `json:"routingNumber"`
	Amount            json.Number `json:"amount"`
	BeneficiaryName   string      `json:"beneficiaryName"`
	BankName          string      `json:"bankName"`
	BankAccountNumber string      `json:"bankAccountNumber"`
	Description       string      `json:"description"`
}

// OpaqueID is an identifier the backend may send as a JSON string or number.
// Numbers keep their literal text.
type OpaqueID string

// UnmarshalJSON implements json.Unmarshaler
func (id *OpaqueID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*id = ""
		return nil
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = OpaqueID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("identifier must be a string or number: %w", err)
	}
	*id = OpaqueID(n.String())
	return nil
}

// WireOTPResponse carries the opaque request handle, under whichever name the backend uses
type WireOTPResponse struct {
	OTPID     OpaqueID `json:"otpId,omitempty"`
	RequestID OpaqueID `json:"requestId,omitempty"`
	ID        OpaqueID `json:"id,omitempty"`
}

// Handle returns the first non-empty identifier; it may be empty.
func (r WireOTPResponse) Handle() string {
	switch {
	case r.OTPID != "":
		return string(r.OTPID)
	case r.RequestID != "":
		return string(r.RequestID)
	default:
		return string(r.ID)
	}
}

// WireConfirmRequest completes a wire transfer with the approval code
type WireConfirmRequest struct {
	OTP       string `json:"otp"`
	RequestID string `json:"requestId,omitempty"`
	OTPID     string `json:"otpId,omitempty"`
}
