package sms

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
)

// Sender delivers one-time verification codes over an HTTP SMS gateway.
// Calls go through a circuit breaker so a flapping gateway fails fast
// instead of holding checkout requests on a timeout. Phone verification
// is advisory, so fast failure here is always acceptable.
type Sender struct {
	client  *resty.Client
	breaker *gobreaker.CircuitBreaker
	apiKey  string
	log     *logrus.Logger
}

func NewSender(gatewayURL, apiKey string, timeout time.Duration, log *logrus.Logger) *Sender {
	client := resty.New().
		SetBaseURL(gatewayURL).
		SetTimeout(timeout).
		SetRetryCount(0)

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "sms-gateway",
		MaxRequests: 3,
		Interval:    15 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= 0.6
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.WithFields(logrus.Fields{
				"circuit": name,
				"from":    from.String(),
				"to":      to.String(),
			}).Info("circuit breaker state changed")
		},
	})

	return &Sender{
		client:  client,
		breaker: breaker,
		apiKey:  apiKey,
		log:     log,
	}
}

type sendRequest struct {
	To      string `json:"to"`
	Message string `json:"message"`
}

// SendCode posts the verification code to the gateway.
func (s *Sender) SendCode(ctx context.Context, phone, code string) error {
	_, err := s.breaker.Execute(func() (interface{}, error) {
		resp, err := s.client.R().
			SetContext(ctx).
			SetHeader("Authorization", "Bearer "+s.apiKey).
			SetBody(sendRequest{
				To:      phone,
				Message: fmt.Sprintf("Your verification code is %s. It expires in 10 minutes.", code),
			}).
			Post("/v1/messages")
		if err != nil {
			return nil, err
		}
		if resp.IsError() {
			return nil, fmt.Errorf("sms gateway returned %s", resp.Status())
		}
		return nil, nil
	})
	if err != nil {
		if err == gobreaker.ErrOpenState {
			return fmt.Errorf("sms gateway unavailable: %w", err)
		}
		return err
	}

	s.log.WithField("phone", phone).Info("verification code sent")
	return nil
}
