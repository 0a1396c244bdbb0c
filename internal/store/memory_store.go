package store

import (
	"sort"
	"sync"
	"time"

	"courseloft_backend/internal/model"
)

// MemoryStore is an in-memory Store used in tests. A single mutex guards
// every operation, which also gives RedeemPromo its atomicity.
type MemoryStore struct {
	mu sync.Mutex

	users         map[uint]*model.User
	teams         map[uint]*model.Team
	companies     map[uint]*model.Company
	subscriptions map[uint]*model.Subscription
	invoices      map[uint]*model.Invoice
	promoCodes    map[uint]*model.PromoCode
	redemptions   map[uint]*model.PromoRedemption

	nextID uint
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:         make(map[uint]*model.User),
		teams:         make(map[uint]*model.Team),
		companies:     make(map[uint]*model.Company),
		subscriptions: make(map[uint]*model.Subscription),
		invoices:      make(map[uint]*model.Invoice),
		promoCodes:    make(map[uint]*model.PromoCode),
		redemptions:   make(map[uint]*model.PromoRedemption),
	}
}

func (s *MemoryStore) allocID() uint {
	s.nextID++
	return s.nextID
}

func (s *MemoryStore) GetUser(id uint) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (s *MemoryStore) GetUserByEmail(email string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) CreateUser(u *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u.ID == 0 {
		u.ID = s.allocID()
	}
	u.CreatedAt = time.Now()
	copied := *u
	s.users[u.ID] = &copied
	return nil
}

func (s *MemoryStore) SaveUser(u *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *u
	s.users[u.ID] = &copied
	return nil
}

func (s *MemoryStore) AddTeam(t *model.Team) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t.ID == 0 {
		t.ID = s.allocID()
	}
	copied := *t
	s.teams[t.ID] = &copied
}

func (s *MemoryStore) GetTeam(id uint) (*model.Team, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.teams[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *t
	return &copied, nil
}

func (s *MemoryStore) AddCompany(c *model.Company) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.ID == 0 {
		c.ID = s.allocID()
	}
	copied := *c
	s.companies[c.ID] = &copied
}

func (s *MemoryStore) GetCompany(id uint) (*model.Company, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.companies[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *c
	return &copied, nil
}

func (s *MemoryStore) GetCompanyByStripeSubID(stripeSubID string) (*model.Company, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.companies {
		if c.StripeSubscriptionID == stripeSubID {
			copied := *c
			return &copied, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) SaveCompany(c *model.Company) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.ID == 0 {
		c.ID = s.allocID()
	}
	copied := *c
	s.companies[c.ID] = &copied
	return nil
}

func (s *MemoryStore) ListCompaniesEndingTrial(cutoff time.Time) ([]model.Company, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Company
	for _, c := range s.companies {
		if c.Plan != model.CompanyPlanTrial || c.Status != model.CompanyStatusActive {
			continue
		}
		if c.TrialEndsAt == nil || c.TrialEndsAt.After(cutoff) {
			continue
		}
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryStore) AddSubscription(sub *model.Subscription) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sub.ID == 0 {
		sub.ID = s.allocID()
	}
	copied := *sub
	s.subscriptions[sub.ID] = &copied
}

func (s *MemoryStore) GetSubscription(id uint) (*model.Subscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sub, ok := s.subscriptions[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *sub
	return &copied, nil
}

func (s *MemoryStore) GetSubscriptionByStripeID(stripeSubID string) (*model.Subscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sub := range s.subscriptions {
		if sub.StripeSubscriptionID == stripeSubID {
			copied := *sub
			return &copied, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) GetLiveSubscriptionForUser(userID uint) (*model.Subscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var latest *model.Subscription
	for _, sub := range s.subscriptions {
		if sub.UserID != userID || !sub.IsLive() {
			continue
		}
		if latest == nil || sub.ID > latest.ID {
			latest = sub
		}
	}
	if latest == nil {
		return nil, ErrNotFound
	}
	copied := *latest
	return &copied, nil
}

func (s *MemoryStore) SaveSubscription(sub *model.Subscription) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sub.ID == 0 {
		sub.ID = s.allocID()
	}
	copied := *sub
	s.subscriptions[sub.ID] = &copied
	return nil
}

func (s *MemoryStore) ListInvoicesForUser(userID uint) ([]model.Invoice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Invoice
	for _, inv := range s.invoices {
		if inv.UserID == userID {
			out = append(out, *inv)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *MemoryStore) CreateInvoice(inv *model.Invoice) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if inv.ID == 0 {
		inv.ID = s.allocID()
	}
	if inv.CreatedAt.IsZero() {
		inv.CreatedAt = time.Now()
	}
	copied := *inv
	s.invoices[inv.ID] = &copied
	return nil
}

func (s *MemoryStore) GetPromoCode(code string) (*model.PromoCode, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	normalized := model.NormalizePromoCode(code)
	for _, p := range s.promoCodes {
		if p.Code == normalized {
			copied := *p
			return &copied, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) CreatePromoCode(p *model.PromoCode) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == 0 {
		p.ID = s.allocID()
	}
	p.Code = model.NormalizePromoCode(p.Code)
	copied := *p
	s.promoCodes[p.ID] = &copied
	return nil
}

func (s *MemoryStore) RedeemPromo(userID uint, promoCodeID uint, sub *model.Subscription) (*model.PromoRedemption, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	promo, ok := s.promoCodes[promoCodeID]
	if !ok {
		return nil, ErrNotFound
	}

	for _, r := range s.redemptions {
		if r.UserID == userID && r.PromoCodeID == promoCodeID {
			return nil, ErrPromoAlreadyUsed
		}
	}

	if promo.IsExhausted() {
		return nil, ErrPromoExhausted
	}

	if sub.ID == 0 {
		sub.ID = s.allocID()
	}
	subCopy := *sub
	s.subscriptions[sub.ID] = &subCopy

	redemption := &model.PromoRedemption{
		UserID:         userID,
		PromoCodeID:    promoCodeID,
		SubscriptionID: sub.ID,
	}
	redemption.ID = s.allocID()
	redemptionCopy := *redemption
	s.redemptions[redemption.ID] = &redemptionCopy

	promo.UsedCount++
	return redemption, nil
}
