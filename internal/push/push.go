// Package push sends web push notifications to devices watching an
// inventory.
package push

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	webpush "github.com/SherClockHolmes/webpush-go"
	"github.com/pbmartins/estoque/internal/model"
	"github.com/pbmartins/estoque/internal/store"
)

// ErrExpired is returned when a push subscription is no longer valid (410 Gone).
var ErrExpired = errors.New("push subscription expired")

// Payload is the JSON sent to the push service.
type Payload struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	URL   string `json:"url,omitempty"`
	Tag   string `json:"tag,omitempty"`
}

// Service sends web push notifications and prunes dead subscriptions.
type Service struct {
	publicKey  string
	privateKey string
	subject    string
	store      *store.PushStore
	logger     *slog.Logger
}

func NewService(publicKey, privateKey, subject string, st *store.PushStore, logger *slog.Logger) *Service {
	return &Service{
		publicKey:  publicKey,
		privateKey: privateKey,
		subject:    subject,
		store:      st,
		logger:     logger.With("component", "push"),
	}
}

// VAPIDPublicKey returns the VAPID public key for client-side subscription.
func (s *Service) VAPIDPublicKey() string {
	return s.publicKey
}

// Enabled reports whether VAPID keys are configured.
func (s *Service) Enabled() bool {
	return s.publicKey != "" && s.privateKey != ""
}

// Send sends a push notification to a single subscription.
func (s *Service) Send(sub *model.PushSubscription, payload Payload) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	resp, err := webpush.SendNotification(data, &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256dhKey,
			Auth:   sub.AuthKey,
		},
	}, &webpush.Options{
		VAPIDPublicKey:  s.publicKey,
		VAPIDPrivateKey: s.privateKey,
		Subscriber:      s.subject,
		TTL:             86400,
	})
	if err != nil {
		return fmt.Errorf("send push: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusGone {
		return ErrExpired
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("push service returned %d", resp.StatusCode)
	}

	return nil
}

// NotifyOthers pushes the payload to every device watching the owner's
// inventory except the acting user's own. Expired subscriptions are
// deleted on the way.
func (s *Service) NotifyOthers(ownerID, actorID int64, payload Payload) {
	if !s.Enabled() {
		return
	}

	subs, err := s.store.ListByOwner(ownerID)
	if err != nil {
		s.logger.Error("list subscriptions", "error", err)
		return
	}

	for i := range subs {
		sub := &subs[i]
		if sub.UserID == actorID {
			continue
		}
		err := s.Send(sub, payload)
		if errors.Is(err, ErrExpired) {
			if err := s.store.DeleteByEndpoint(sub.Endpoint); err != nil {
				s.logger.Warn("prune expired subscription", "error", err)
			}
			continue
		}
		if err != nil {
			s.logger.Warn("send push", "endpoint", sub.Endpoint, "error", err)
		}
	}
}

// GenerateVAPIDKeys generates a new ECDSA P-256 key pair for VAPID.
func GenerateVAPIDKeys() (publicKey, privateKey string, err error) {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return "", "", fmt.Errorf("generate ECDSA key: %w", err)
	}

	pubBytes := elliptic.Marshal(elliptic.P256(), key.PublicKey.X, key.PublicKey.Y)
	publicKey = base64.RawURLEncoding.EncodeToString(pubBytes)
	privateKey = base64.RawURLEncoding.EncodeToString(key.D.Bytes())

	return publicKey, privateKey, nil
}
