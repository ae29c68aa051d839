package service

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/shothost/shothost/internal/model"
	"github.com/shothost/shothost/internal/repository"
	"github.com/stripe/stripe-go/v81"
	checkoutsession "github.com/stripe/stripe-go/v81/checkout/session"
	"github.com/stripe/stripe-go/v81/customer"
	"github.com/stripe/stripe-go/v81/webhook"
)

// BillingService is the Stripe boundary. The rest of the system only ever
// sees the resolved plan id it writes onto the user row; entitlement
// decisions never call out to Stripe.
type BillingService struct {
	users         repository.UserRepository
	webhookSecret string
	appURL        string
}

func NewBillingService(users repository.UserRepository, secretKey, webhookSecret, appURL string) *BillingService {
	stripe.Key = secretKey

	return &BillingService{
		users:         users,
		webhookSecret: webhookSecret,
		appURL:        appURL,
	}
}

// CreateCustomer registers the user with Stripe and returns the customer id.
func (s *BillingService) CreateCustomer(user *model.User) (string, error) {
	params := &stripe.CustomerParams{
		Name:  stripe.String(user.DisplayName),
		Email: stripe.String(user.Email),
	}
	params.AddMetadata("uid", user.ID)

	cust, err := customer.New(params)
	if err != nil {
		return "", fmt.Errorf("failed to create stripe customer: %w", err)
	}

	return cust.ID, nil
}

// CheckoutURL starts a subscription checkout for a price id. The tier change
// lands later, through the webhook.
func (s *BillingService) CheckoutURL(user *model.User, priceID string) (string, error) {
	if user.StripeID == nil || *user.StripeID == "" {
		return "", ErrUnauthorized
	}

	params := &stripe.CheckoutSessionParams{
		Mode:       stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		Customer:   stripe.String(*user.StripeID),
		SuccessURL: stripe.String(s.appURL),
		CancelURL:  stripe.String(s.appURL + "/cancel"),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(priceID),
				Quantity: stripe.Int64(1),
			},
		},
	}

	sess, err := checkoutsession.New(params)
	if err != nil {
		slog.Error("stripe checkout create failed", "error", err, "user_id", user.ID)
		return "", ErrInternal
	}

	slog.Info("stripe checkout created", "user_id", user.ID, "price_id", priceID, "session_id", sess.ID)
	return sess.URL, nil
}

// HandleWebhook verifies the event signature and applies subscription
// changes to the owning user's current plan.
func (s *BillingService) HandleWebhook(payload []byte, headers http.Header) error {
	event, err := webhook.ConstructEventWithOptions(
		payload,
		headers.Get("Stripe-Signature"),
		s.webhookSecret,
		webhook.ConstructEventOptions{
			IgnoreAPIVersionMismatch: true,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to verify webhook signature: %w", err)
	}

	slog.Info("stripe webhook received", "event_type", event.Type)

	switch event.Type {
	case "customer.subscription.created",
		"customer.subscription.updated",
		"customer.subscription.resumed":
		return s.applySubscription(event.Data.Raw, false)
	case "customer.subscription.deleted",
		"customer.subscription.paused":
		return s.applySubscription(event.Data.Raw, true)
	default:
		return nil
	}
}

func (s *BillingService) applySubscription(raw json.RawMessage, cleared bool) error {
	var sub stripe.Subscription
	err := json.Unmarshal(raw, &sub)
	if err != nil {
		return fmt.Errorf("failed to parse subscription event: %w", err)
	}

	if sub.Customer == nil {
		return fmt.Errorf("subscription event without customer")
	}

	var planID *string
	if !cleared && sub.Status == stripe.SubscriptionStatusActive &&
		sub.Items != nil && len(sub.Items.Data) > 0 && sub.Items.Data[0].Price != nil {
		planID = stripe.String(sub.Items.Data[0].Price.ID)
	}

	err = s.users.SetPlanByStripeID(sub.Customer.ID, planID)
	if err != nil {
		return fmt.Errorf("failed to apply subscription change: %w", err)
	}

	plan := "none"
	if planID != nil {
		plan = *planID
	}
	slog.Info("subscription applied", "customer", sub.Customer.ID, "plan_id", plan)
	return nil
}
