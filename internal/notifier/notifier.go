// Package notifier provides the SMS and Email delivery transports and the
// dispatcher that routes resolved recipient batches through them.
package notifier

import (
	"context"
	"errors"
)

// SMSSender delivers one message body to a batch of phone numbers.
type SMSSender interface {
	SendSMS(ctx context.Context, body string, phones []string) error
}

// EmailSender delivers one message to a batch of addresses.
type EmailSender interface {
	SendEmail(ctx context.Context, to []string, subject, body string) error
}

// ErrRateLimited is returned when a send is dropped by the rate limiter.
var ErrRateLimited = errors.New("notification rate limited")

// Dispatcher fronts the two transports with a shared rate limiter. A nil
// limiter (or a disabled one) passes everything through.
type Dispatcher struct {
	sms     SMSSender
	email   EmailSender
	limiter *RateLimiter
}

// NewDispatcher creates a dispatcher over the given transports.
func NewDispatcher(sms SMSSender, email EmailSender, limiter *RateLimiter) *Dispatcher {
	return &Dispatcher{sms: sms, email: email, limiter: limiter}
}

// SendSMS sends body to phones. Empty batches are not sent.
func (d *Dispatcher) SendSMS(ctx context.Context, body string, phones []string) error {
	if len(phones) == 0 {
		return nil
	}
	if d.limiter != nil && !d.limiter.Allow() {
		return ErrRateLimited
	}
	if err := d.sms.SendSMS(ctx, body, phones); err != nil {
		if d.limiter != nil {
			d.limiter.Release()
		}
		return err
	}
	return nil
}

// SendEmail sends a message to the given addresses. Empty batches are not sent.
func (d *Dispatcher) SendEmail(ctx context.Context, to []string, subject, body string) error {
	if len(to) == 0 {
		return nil
	}
	if d.limiter != nil && !d.limiter.Allow() {
		return ErrRateLimited
	}
	if err := d.email.SendEmail(ctx, to, subject, body); err != nil {
		if d.limiter != nil {
			d.limiter.Release()
		}
		return err
	}
	return nil
}
