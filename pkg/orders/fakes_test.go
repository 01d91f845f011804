package orders

import (
	"context"
	"sync"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/storefront-labs/checkout-api/pkg/models"
	"github.com/storefront-labs/checkout-api/pkg/payments"
)

// memStore is an in-memory Store. A single mutex serializes transactions;
// WithinTxn snapshots all state up front and restores it when fn fails, so
// tests see the same all-or-nothing behavior as the real transactions.
type memStore struct {
	mu sync.Mutex

	products  map[bson.ObjectID]*models.Product
	coupons   map[string]*models.Coupon
	customers map[bson.ObjectID]*models.Customer
	orders    map[bson.ObjectID]*models.Order
	payments  map[bson.ObjectID]*models.Payment
	events    map[string]bool
	logs      []models.InventoryLog
}

func newMemStore() *memStore {
	return &memStore{
		products:  map[bson.ObjectID]*models.Product{},
		coupons:   map[string]*models.Coupon{},
		customers: map[bson.ObjectID]*models.Customer{},
		orders:    map[bson.ObjectID]*models.Order{},
		payments:  map[bson.ObjectID]*models.Payment{},
		events:    map[string]bool{},
	}
}

type txnKey struct{}

func inTxn(ctx context.Context) bool {
	v, _ := ctx.Value(txnKey{}).(bool)
	return v
}

// lock acquires the store mutex unless the context already runs inside a
// transaction, which holds it for its whole extent.
func (s *memStore) lock(ctx context.Context) func() {
	if inTxn(ctx) {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

type memSnapshot struct {
	products  map[bson.ObjectID]*models.Product
	coupons   map[string]*models.Coupon
	customers map[bson.ObjectID]*models.Customer
	orders    map[bson.ObjectID]*models.Order
	payments  map[bson.ObjectID]*models.Payment
	events    map[string]bool
	logs      []models.InventoryLog
}

// Stored values are replaced wholesale on every write, never mutated in
// place, so the snapshot only needs to copy the maps themselves.
func (s *memStore) snapshot() memSnapshot {
	snap := memSnapshot{
		products:  make(map[bson.ObjectID]*models.Product, len(s.products)),
		coupons:   make(map[string]*models.Coupon, len(s.coupons)),
		customers: make(map[bson.ObjectID]*models.Customer, len(s.customers)),
		orders:    make(map[bson.ObjectID]*models.Order, len(s.orders)),
		payments:  make(map[bson.ObjectID]*models.Payment, len(s.payments)),
		events:    make(map[string]bool, len(s.events)),
		logs:      append([]models.InventoryLog(nil), s.logs...),
	}
	for k, v := range s.products {
		snap.products[k] = v
	}
	for k, v := range s.coupons {
		snap.coupons[k] = v
	}
	for k, v := range s.customers {
		snap.customers[k] = v
	}
	for k, v := range s.orders {
		snap.orders[k] = v
	}
	for k, v := range s.payments {
		snap.payments[k] = v
	}
	for k, v := range s.events {
		snap.events[k] = v
	}
	return snap
}

func (s *memStore) restore(snap memSnapshot) {
	s.products = snap.products
	s.coupons = snap.coupons
	s.customers = snap.customers
	s.orders = snap.orders
	s.payments = snap.payments
	s.events = snap.events
	s.logs = snap.logs
}

func (s *memStore) WithinTxn(ctx context.Context, fn func(ctx context.Context) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := s.snapshot()
	if err := fn(context.WithValue(ctx, txnKey{}, true)); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

func cloneProduct(p *models.Product) *models.Product {
	cp := *p
	return &cp
}

func cloneOrder(o *models.Order) *models.Order {
	cp := *o
	cp.Items = append([]models.OrderItem(nil), o.Items...)
	return &cp
}

func clonePayment(p *models.Payment) *models.Payment {
	cp := *p
	return &cp
}

func cloneCoupon(c *models.Coupon) *models.Coupon {
	cp := *c
	return &cp
}

func cloneCustomer(c *models.Customer) *models.Customer {
	cp := *c
	cp.Addresses = append([]models.Address(nil), c.Addresses...)
	return &cp
}

func (s *memStore) addProduct(p *models.Product) bson.ObjectID {
	if p.ID.IsZero() {
		p.ID = bson.NewObjectID()
	}
	s.products[p.ID] = cloneProduct(p)
	return p.ID
}

func (s *memStore) addCoupon(c *models.Coupon) {
	s.coupons[c.Code] = cloneCoupon(c)
}

func (s *memStore) addCustomer(c *models.Customer) bson.ObjectID {
	if c.ID.IsZero() {
		c.ID = bson.NewObjectID()
	}
	s.customers[c.ID] = cloneCustomer(c)
	return c.ID
}

func (s *memStore) ProductByID(ctx context.Context, id bson.ObjectID) (*models.Product, error) {
	defer s.lock(ctx)()
	p, ok := s.products[id]
	if !ok {
		return nil, ErrProductNotFound
	}
	return cloneProduct(p), nil
}

func (s *memStore) ProductForUpdate(ctx context.Context, id bson.ObjectID) (*models.Product, error) {
	return s.ProductByID(ctx, id)
}

func (s *memStore) SetProductStock(ctx context.Context, id bson.ObjectID, quantity int) error {
	defer s.lock(ctx)()
	p, ok := s.products[id]
	if !ok {
		return ErrProductNotFound
	}
	cp := cloneProduct(p)
	cp.StockQuantity = quantity
	s.products[id] = cp
	return nil
}

func (s *memStore) AppendInventoryLog(ctx context.Context, entry *models.InventoryLog) error {
	defer s.lock(ctx)()
	s.logs = append(s.logs, *entry)
	return nil
}

func (s *memStore) CouponByCode(ctx context.Context, code string) (*models.Coupon, error) {
	defer s.lock(ctx)()
	c, ok := s.coupons[code]
	if !ok {
		return nil, ErrCouponNotFound
	}
	return cloneCoupon(c), nil
}

func (s *memStore) IncrementCouponUses(ctx context.Context, code string) error {
	defer s.lock(ctx)()
	c, ok := s.coupons[code]
	if !ok {
		return ErrCouponNotFound
	}
	if c.Exhausted() {
		return ErrCouponExhausted
	}
	cp := cloneCoupon(c)
	cp.UsesCount++
	s.coupons[code] = cp
	return nil
}

func (s *memStore) DecrementCouponUses(ctx context.Context, code string) error {
	defer s.lock(ctx)()
	c, ok := s.coupons[code]
	if !ok {
		return ErrCouponNotFound
	}
	if c.UsesCount > 0 {
		cp := cloneCoupon(c)
		cp.UsesCount--
		s.coupons[code] = cp
	}
	return nil
}

func (s *memStore) CustomerByID(ctx context.Context, id bson.ObjectID) (*models.Customer, error) {
	defer s.lock(ctx)()
	c, ok := s.customers[id]
	if !ok {
		return nil, ErrCustomerNotFound
	}
	return cloneCustomer(c), nil
}

func (s *memStore) InsertOrder(ctx context.Context, order *models.Order) error {
	defer s.lock(ctx)()
	if order.ID.IsZero() {
		order.ID = bson.NewObjectID()
	}
	s.orders[order.ID] = cloneOrder(order)
	return nil
}

func (s *memStore) OrderByID(ctx context.Context, id bson.ObjectID) (*models.Order, error) {
	defer s.lock(ctx)()
	o, ok := s.orders[id]
	if !ok {
		return nil, ErrOrderNotFound
	}
	return cloneOrder(o), nil
}

func (s *memStore) OrderByPublicID(ctx context.Context, publicID string) (*models.Order, error) {
	defer s.lock(ctx)()
	for _, o := range s.orders {
		if o.PublicID == publicID {
			return cloneOrder(o), nil
		}
	}
	return nil, ErrOrderNotFound
}

func (s *memStore) UpdateOrder(ctx context.Context, order *models.Order) error {
	defer s.lock(ctx)()
	if _, ok := s.orders[order.ID]; !ok {
		return ErrOrderNotFound
	}
	s.orders[order.ID] = cloneOrder(order)
	return nil
}

func (s *memStore) DeleteOrder(ctx context.Context, id bson.ObjectID) error {
	defer s.lock(ctx)()
	delete(s.orders, id)
	return nil
}

func (s *memStore) InsertPayment(ctx context.Context, payment *models.Payment) error {
	defer s.lock(ctx)()
	if payment.ID.IsZero() {
		payment.ID = bson.NewObjectID()
	}
	s.payments[payment.ID] = clonePayment(payment)
	return nil
}

func (s *memStore) PaymentByProviderExternalID(ctx context.Context, provider, externalID string) (*models.Payment, error) {
	defer s.lock(ctx)()
	for _, p := range s.payments {
		if p.Provider == provider && p.ExternalID == externalID && externalID != "" {
			return clonePayment(p), nil
		}
	}
	return nil, ErrPaymentNotFound
}

func (s *memStore) PaymentForUpdate(ctx context.Context, id bson.ObjectID) (*models.Payment, error) {
	defer s.lock(ctx)()
	p, ok := s.payments[id]
	if !ok {
		return nil, ErrPaymentNotFound
	}
	return clonePayment(p), nil
}

func (s *memStore) UpdatePayment(ctx context.Context, payment *models.Payment) error {
	defer s.lock(ctx)()
	if _, ok := s.payments[payment.ID]; !ok {
		return ErrPaymentNotFound
	}
	s.payments[payment.ID] = clonePayment(payment)
	return nil
}

func (s *memStore) SetPaymentExternalID(ctx context.Context, id bson.ObjectID, externalID string) error {
	defer s.lock(ctx)()
	p, ok := s.payments[id]
	if !ok {
		return ErrPaymentNotFound
	}
	cp := clonePayment(p)
	cp.ExternalID = externalID
	s.payments[id] = cp
	return nil
}

func (s *memStore) DeletePaymentsForOrder(ctx context.Context, orderID bson.ObjectID) error {
	defer s.lock(ctx)()
	for id, p := range s.payments {
		if p.OrderID == orderID {
			delete(s.payments, id)
		}
	}
	return nil
}

func (s *memStore) ClaimWebhookEvent(ctx context.Context, event *models.WebhookEvent) error {
	defer s.lock(ctx)()
	key := event.Provider + "|" + event.ExternalID
	if s.events[key] {
		return ErrDuplicateEvent
	}
	s.events[key] = true
	return nil
}

// memCart is an in-memory CartStore.
type memCart struct {
	mu    sync.Mutex
	items map[string]map[string]int
}

func newMemCart() *memCart {
	return &memCart{items: map[string]map[string]int{}}
}

func (c *memCart) set(sessionID string, lines map[string]int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[sessionID] = lines
}

func (c *memCart) Get(ctx context.Context, sessionID string) (map[string]int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := map[string]int{}
	for k, v := range c.items[sessionID] {
		out[k] = v
	}
	return out, nil
}

func (c *memCart) Clear(ctx context.Context, sessionID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, sessionID)
	return nil
}

func (c *memCart) has(sessionID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.items[sessionID]
	return ok
}

// stubProvider returns a canned intent or error and counts calls.
type stubProvider struct {
	mu     sync.Mutex
	name   string
	intent payments.Intent
	err    error
	calls  int
}

func (p *stubProvider) Name() string { return p.name }

func (p *stubProvider) CreateIntent(ctx context.Context, req payments.IntentRequest) (*payments.Intent, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	out := p.intent
	return &out, nil
}
