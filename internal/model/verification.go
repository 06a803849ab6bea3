package model

import "context"

// DeliveryMethod is the channel a one-time code is sent through.
type DeliveryMethod string

const (
	DeliverySMS      DeliveryMethod = "sms"
	DeliveryWhatsApp DeliveryMethod = "whatsapp"
)

// VerificationApproved is the status a successful code check reports.
const VerificationApproved = "approved"

// Verifier sends and checks one-time verification codes.
type Verifier interface {
	SendCode(ctx context.Context, phoneNumber string, method DeliveryMethod) (status string, err error)
	CheckCode(ctx context.Context, phoneNumber, code string) (status string, err error)
}
