package verification

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	verify "github.com/twilio/twilio-go/rest/verify/v2"

	"github.com/dtroode/blog-server/internal/model"
)

type fakeVerify struct {
	serviceSid string
	to         string
	channel    string
	code       string

	status *string
	err    error
}

func (f *fakeVerify) CreateVerification(serviceSid string, params *verify.CreateVerificationParams) (*verify.VerifyV2Verification, error) {
	f.serviceSid = serviceSid
	f.to = *params.To
	f.channel = *params.Channel
	if f.err != nil {
		return nil, f.err
	}
	return &verify.VerifyV2Verification{Status: f.status}, nil
}

func (f *fakeVerify) CreateVerificationCheck(serviceSid string, params *verify.CreateVerificationCheckParams) (*verify.VerifyV2VerificationCheck, error) {
	f.serviceSid = serviceSid
	f.to = *params.To
	f.code = *params.Code
	if f.err != nil {
		return nil, f.err
	}
	return &verify.VerifyV2VerificationCheck{Status: f.status}, nil
}

func status(s string) *string {
	return &s
}

func TestTwilio_SendCode(t *testing.T) {
	api := &fakeVerify{status: status("pending")}
	v := NewTwilioWithAPI(api, "VA123")

	got, err := v.SendCode(context.Background(), "+15550100", model.DeliveryWhatsApp)
	require.NoError(t, err)
	assert.Equal(t, "pending", got)
	assert.Equal(t, "VA123", api.serviceSid)
	assert.Equal(t, "+15550100", api.to)
	assert.Equal(t, "whatsapp", api.channel)
}

func TestTwilio_SendCode_Error(t *testing.T) {
	v := NewTwilioWithAPI(&fakeVerify{err: errors.New("rate limited")}, "VA123")

	_, err := v.SendCode(context.Background(), "+15550100", model.DeliverySMS)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create verification")
}

func TestTwilio_CheckCode(t *testing.T) {
	api := &fakeVerify{status: status(model.VerificationApproved)}
	v := NewTwilioWithAPI(api, "VA123")

	got, err := v.CheckCode(context.Background(), "+15550100", "123456")
	require.NoError(t, err)
	assert.Equal(t, model.VerificationApproved, got)
	assert.Equal(t, "123456", api.code)
}

func TestTwilio_CheckCode_NilStatus(t *testing.T) {
	v := NewTwilioWithAPI(&fakeVerify{}, "VA123")

	got, err := v.CheckCode(context.Background(), "+15550100", "123456")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestTwilio_CanceledContext(t *testing.T) {
	api := &fakeVerify{}
	v := NewTwilioWithAPI(api, "VA123")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := v.SendCode(ctx, "+15550100", model.DeliverySMS)
	require.ErrorIs(t, err, context.Canceled)
	_, err = v.CheckCode(ctx, "+15550100", "1")
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, api.serviceSid)
}

func TestNewTwilio(t *testing.T) {
	v := NewTwilio("AC123", "token", "VA123")
	require.NotNil(t, v)
	assert.Equal(t, "VA123", v.serviceID)
}
