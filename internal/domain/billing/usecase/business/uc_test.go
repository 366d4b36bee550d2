package business

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/getaipilot/joincounter/config"
	"github.com/getaipilot/joincounter/internal/domain/billing/deps"
	"github.com/getaipilot/joincounter/internal/domain/billing/entities"
	billingerrors "github.com/getaipilot/joincounter/internal/domain/billing/errors"
)

type mockSubRepo struct {
	subs map[int64]*entities.Subscription
}

func (m *mockSubRepo) GetByUser(_ context.Context, userID int64) (*entities.Subscription, error) {
	s, ok := m.subs[userID]
	if !ok {
		return nil, billingerrors.ErrNoSubscription
	}
	cp := *s
	return &cp, nil
}

func (m *mockSubRepo) Upsert(_ context.Context, sub *entities.Subscription) error {
	cp := *sub
	m.subs[sub.UserID] = &cp
	return nil
}

type mockPayRepo struct {
	links    []entities.PaymentLink
	statuses map[string]string
}

func (m *mockPayRepo) Save(_ context.Context, link *entities.PaymentLink) error {
	link.ID = int64(len(m.links) + 1)
	link.CreatedAt = time.Now()
	m.links = append(m.links, *link)
	return nil
}

func (m *mockPayRepo) LatestPending(_ context.Context, userID int64) (*entities.PaymentLink, error) {
	for i := len(m.links) - 1; i >= 0; i-- {
		l := m.links[i]
		status := l.Status
		if s, ok := m.statuses[l.ProviderID]; ok {
			status = s
		}
		if l.UserID == userID && status == entities.PaymentStatusCreated {
			return &l, nil
		}
	}
	return nil, billingerrors.ErrNoPaymentLink
}

func (m *mockPayRepo) UpdateStatus(_ context.Context, providerID, status string) error {
	if m.statuses == nil {
		m.statuses = make(map[string]string)
	}
	m.statuses[providerID] = status
	return nil
}

type mockGateway struct {
	nextID string
	status string
	err    error
}

func (m *mockGateway) CreateLink(_ context.Context, _ int64, plan entities.Plan) (*deps.GatewayLink, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &deps.GatewayLink{ProviderID: m.nextID, ShortURL: "https://rzp.io/" + m.nextID}, nil
}

func (m *mockGateway) FetchStatus(_ context.Context, _ string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	return m.status, nil
}

type mockEvents struct {
	sent []*deps.SubscriptionEvent
}

func (m *mockEvents) SendSubscriptionActivated(_ context.Context, event *deps.SubscriptionEvent) error {
	m.sent = append(m.sent, event)
	return nil
}

func plansConfig() *config.Plans {
	return &config.Plans{
		DurationDays:      30,
		BasicPricePaise:   9900,
		ProPricePaise:     19900,
		PremiumPricePaise: 49900,
	}
}

type billingEnv struct {
	uc      *UseCase
	subs    *mockSubRepo
	pays    *mockPayRepo
	gateway *mockGateway
	events  *mockEvents
}

func newBillingEnv() *billingEnv {
	subs := &mockSubRepo{subs: make(map[int64]*entities.Subscription)}
	pays := &mockPayRepo{statuses: make(map[string]string)}
	gateway := &mockGateway{nextID: "plink_1", status: entities.PaymentStatusCreated}
	events := &mockEvents{}
	uc := NewUseCase(subs, pays, gateway, events, plansConfig(), zerolog.Nop())
	return &billingEnv{uc: uc, subs: subs, pays: pays, gateway: gateway, events: events}
}

func TestHasActive(t *testing.T) {
	env := newBillingEnv()
	ctx := context.Background()
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	env.uc.now = func() time.Time { return now }

	// No subscription at all
	active, err := env.uc.HasActive(ctx, 10)
	if err != nil || active {
		t.Errorf("Expected inactive without subscription, got: %v (%v)", active, err)
	}

	// Expired subscription
	env.subs.subs[10] = &entities.Subscription{UserID: 10, Plan: "basic", ExpiresAt: now.Add(-time.Hour)}
	if active, _ := env.uc.HasActive(ctx, 10); active {
		t.Error("Expected expired subscription to be inactive")
	}

	// Live subscription
	env.subs.subs[10].ExpiresAt = now.Add(time.Hour)
	if active, _ := env.uc.HasActive(ctx, 10); !active {
		t.Error("Expected live subscription to be active")
	}
}

func TestBuy(t *testing.T) {
	env := newBillingEnv()
	ctx := context.Background()

	if _, err := env.uc.Buy(ctx, 10, "platinum"); !errors.Is(err, billingerrors.ErrUnknownPlan) {
		t.Errorf("Expected ErrUnknownPlan, got: %v", err)
	}

	link, err := env.uc.Buy(ctx, 10, "pro")
	if err != nil {
		t.Fatalf("Buy failed: %v", err)
	}
	if link.AmountPaise != 19900 {
		t.Errorf("Expected pro price 19900, got: %d", link.AmountPaise)
	}
	if link.Status != entities.PaymentStatusCreated {
		t.Errorf("Expected created status, got: %q", link.Status)
	}
	if len(env.pays.links) != 1 {
		t.Errorf("Expected payment link persisted, got %d", len(env.pays.links))
	}
}

func TestBuy_ReusesPendingLink(t *testing.T) {
	env := newBillingEnv()
	ctx := context.Background()

	first, err := env.uc.Buy(ctx, 10, "pro")
	if err != nil {
		t.Fatalf("Buy failed: %v", err)
	}

	env.gateway.nextID = "plink_2"
	again, err := env.uc.Buy(ctx, 10, "pro")
	if err != nil {
		t.Fatalf("Repeat Buy failed: %v", err)
	}
	if again.ProviderID != first.ProviderID {
		t.Errorf("Expected pending link reuse, got: %q and %q", first.ProviderID, again.ProviderID)
	}
	if len(env.pays.links) != 1 {
		t.Errorf("Expected a single persisted link, got %d", len(env.pays.links))
	}

	// A different plan gets its own link
	other, err := env.uc.Buy(ctx, 10, "basic")
	if err != nil {
		t.Fatalf("Buy for second plan failed: %v", err)
	}
	if other.ProviderID != "plink_2" {
		t.Errorf("Expected fresh link for new plan, got: %q", other.ProviderID)
	}
}

func TestVerify_NotPaid(t *testing.T) {
	env := newBillingEnv()
	ctx := context.Background()

	// Nothing pending
	if _, err := env.uc.Verify(ctx, 10); !errors.Is(err, billingerrors.ErrNoPaymentLink) {
		t.Errorf("Expected ErrNoPaymentLink, got: %v", err)
	}

	if _, err := env.uc.Buy(ctx, 10, "basic"); err != nil {
		t.Fatalf("Buy failed: %v", err)
	}

	env.gateway.status = entities.PaymentStatusCreated
	if _, err := env.uc.Verify(ctx, 10); !errors.Is(err, billingerrors.ErrPaymentNotPaid) {
		t.Errorf("Expected ErrPaymentNotPaid, got: %v", err)
	}
	if len(env.events.sent) != 0 {
		t.Error("Expected no event for unpaid link")
	}
}

func TestVerify_PaidActivates(t *testing.T) {
	env := newBillingEnv()
	ctx := context.Background()
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	env.uc.now = func() time.Time { return now }

	if _, err := env.uc.Buy(ctx, 10, "basic"); err != nil {
		t.Fatalf("Buy failed: %v", err)
	}
	env.gateway.status = entities.PaymentStatusPaid

	sub, err := env.uc.Verify(ctx, 10)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	want := now.AddDate(0, 0, 30)
	if !sub.ExpiresAt.Equal(want) {
		t.Errorf("Expected expiry %v, got: %v", want, sub.ExpiresAt)
	}
	if len(env.events.sent) != 1 || env.events.sent[0].UserID != 10 {
		t.Errorf("Expected one activation event for user 10, got: %+v", env.events.sent)
	}
	if env.pays.statuses["plink_1"] != entities.PaymentStatusPaid {
		t.Errorf("Expected link marked paid, got: %q", env.pays.statuses["plink_1"])
	}
}

func TestVerify_ExtendsRunningSubscription(t *testing.T) {
	env := newBillingEnv()
	ctx := context.Background()
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	env.uc.now = func() time.Time { return now }

	// 10 days still left; the new period stacks on top
	existing := now.Add(10 * 24 * time.Hour)
	env.subs.subs[10] = &entities.Subscription{UserID: 10, Plan: "basic", ExpiresAt: existing}

	if _, err := env.uc.Buy(ctx, 10, "pro"); err != nil {
		t.Fatalf("Buy failed: %v", err)
	}
	env.gateway.status = entities.PaymentStatusPaid

	sub, err := env.uc.Verify(ctx, 10)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	want := existing.AddDate(0, 0, 30)
	if !sub.ExpiresAt.Equal(want) {
		t.Errorf("Expected stacked expiry %v, got: %v", want, sub.ExpiresAt)
	}
	if sub.Plan != "pro" {
		t.Errorf("Expected plan upgrade to pro, got: %q", sub.Plan)
	}
}
