// Package verification sends and checks one-time codes through Twilio Verify.
package verification

import (
	"context"
	"fmt"

	"github.com/twilio/twilio-go"
	verify "github.com/twilio/twilio-go/rest/verify/v2"

	"github.com/dtroode/blog-server/internal/model"
)

// verifyAPI is the subset of the Verify v2 service used here.
type verifyAPI interface {
	CreateVerification(serviceSid string, params *verify.CreateVerificationParams) (*verify.VerifyV2Verification, error)
	CreateVerificationCheck(serviceSid string, params *verify.CreateVerificationCheckParams) (*verify.VerifyV2VerificationCheck, error)
}

var _ model.Verifier = (*Twilio)(nil)

type Twilio struct {
	api       verifyAPI
	serviceID string
}

// NewTwilio creates a verifier for the Verify service serviceID.
func NewTwilio(accountSID, authToken, serviceID string) *Twilio {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})
	return NewTwilioWithAPI(client.VerifyV2, serviceID)
}

func NewTwilioWithAPI(api verifyAPI, serviceID string) *Twilio {
	return &Twilio{api: api, serviceID: serviceID}
}

// SendCode starts a verification and returns its status, normally "pending".
// The Twilio client has no context support, so ctx is only checked before
// the call.
func (t *Twilio) SendCode(ctx context.Context, phoneNumber string, method model.DeliveryMethod) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	params := &verify.CreateVerificationParams{}
	params.SetTo(phoneNumber)
	params.SetChannel(string(method))

	resp, err := t.api.CreateVerification(t.serviceID, params)
	if err != nil {
		return "", fmt.Errorf("failed to create verification: %w", err)
	}

	return statusOf(resp.Status), nil
}

// CheckCode returns "approved" when code matches the pending verification.
func (t *Twilio) CheckCode(ctx context.Context, phoneNumber, code string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	params := &verify.CreateVerificationCheckParams{}
	params.SetTo(phoneNumber)
	params.SetCode(code)

	resp, err := t.api.CreateVerificationCheck(t.serviceID, params)
	if err != nil {
		return "", fmt.Errorf("failed to check verification: %w", err)
	}

	return statusOf(resp.Status), nil
}

func statusOf(status *string) string {
	if status == nil {
		return ""
	}
	return *status
}
