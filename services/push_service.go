package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/djdreamfix/Code-Companion/models"

	webpush "github.com/SherClockHolmes/webpush-go"
)

type deliveryOutcome int

const (
	deliveryDelivered deliveryOutcome = iota
	deliveryGone                      // subscription will never work again: prune it
	deliveryTransient                 // log and keep the subscription, no retry
)

// PushService fans a web-push notification out to every stored subscription
// when a mark is created. Missing VAPID keys disable it: the server still
// runs, Dispatch becomes a no-op and the subscribe endpoints return 503.
type PushService struct {
	subs       *SubscriptionStore
	client     *http.Client
	publicKey  string
	privateKey string
	subject    string
}

func NewPushService(subs *SubscriptionStore, publicKey, privateKey, subject string) *PushService {
	if subject == "" {
		subject = "mailto:admin@example.com"
	}
	p := &PushService{
		subs:       subs,
		client:     &http.Client{Timeout: 10 * time.Second},
		publicKey:  publicKey,
		privateKey: privateKey,
		subject:    subject,
	}
	if !p.Enabled() {
		log.Println("web push disabled: missing VAPID keys")
	}
	return p
}

func (p *PushService) Enabled() bool {
	return p.publicKey != "" && p.privateKey != ""
}

func (p *PushService) PublicKey() string {
	return p.publicKey
}

// Dispatch sends a notification for the mark to every subscription,
// concurrently, and prunes the ones the push service reports as gone. It
// never returns an error and never panics; each delivery is isolated, so
// one bad subscription cannot block the rest of the batch.
func (p *PushService) Dispatch(m *models.Mark) {
	if !p.Enabled() {
		return
	}

	payload := notificationPayload(m)
	subs, err := p.subs.List(context.Background())
	if err != nil {
		log.Printf("push: list subscriptions: %v", err)
		return
	}

	var wg sync.WaitGroup
	for _, sub := range subs {
		wg.Add(1)
		go func(sub models.PushSubscription) {
			defer wg.Done()
			p.send(sub, payload)
		}(sub)
	}
	wg.Wait()
}

func (p *PushService) send(sub models.PushSubscription, payload []byte) {
	resp, err := webpush.SendNotification(payload, &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.Keys.P256dh,
			Auth:   sub.Keys.Auth,
		},
	}, &webpush.Options{
		Subscriber:      p.subject,
		VAPIDPublicKey:  p.publicKey,
		VAPIDPrivateKey: p.privateKey,
		TTL:             int(MarkTTL / time.Second),
		HTTPClient:      p.client,
	})
	if resp != nil {
		defer func() {
			_, _ = io.Copy(io.Discard, resp.Body)
			_ = resp.Body.Close()
		}()
	}

	switch classifyDelivery(resp, err) {
	case deliveryGone:
		if derr := p.subs.DeleteByEndpoint(context.Background(), sub.Endpoint); derr != nil {
			log.Printf("push: prune subscription %s: %v", sub.Endpoint, derr)
		}
	case deliveryTransient:
		if err != nil {
			log.Printf("push: send to %s: %v", sub.Endpoint, err)
		} else {
			log.Printf("push: send to %s: status %d", sub.Endpoint, resp.StatusCode)
		}
	}
}

// classifyDelivery is the single place where push-service error shapes are
// interpreted. Everything downstream only ever switches on the outcome.
func classifyDelivery(resp *http.Response, err error) deliveryOutcome {
	if err != nil {
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			// network problem or timeout: the subscription may still
			// be fine
			return deliveryTransient
		}
		// stored key material that fails to decode or encrypt can
		// never be delivered to
		return deliveryGone
	}
	switch {
	case resp.StatusCode == http.StatusNotFound, resp.StatusCode == http.StatusGone:
		return deliveryGone
	case resp.StatusCode == http.StatusForbidden:
		// the push service rejects our VAPID identity for this
		// subscription: it was created against different server keys
		return deliveryGone
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return deliveryDelivered
	default:
		return deliveryTransient
	}
}

func notificationPayload(m *models.Mark) []byte {
	colorName := map[string]string{
		models.ColorBlue:  "Blue",
		models.ColorGreen: "Green",
		models.ColorSplit: "Split",
	}[m.Color]

	raw, _ := json.Marshal(map[string]any{
		"title": "New Mark!",
		"body":  fmt.Sprintf("A new %s mark was placed.", colorName),
		"icon":  "/icons/icon-192.png",
		"data": map[string]string{
			"id":  m.ID,
			"url": "/?mark=" + m.ID,
		},
	})
	return raw
}
