package services

import (
	"sync"

	"noithat/internal/cart"
	"noithat/internal/repos"
)

// CartService hands out one cart.Store per session, rehydrated from the
// session's durable slot on first use and cached for the process lifetime.
type CartService struct {
	Prods *repos.ProductRepo

	mu     sync.Mutex
	slots  *repos.CartSlotRepo
	stores map[string]*cart.Store
}

func NewCartService(slots *repos.CartSlotRepo, prods *repos.ProductRepo) *CartService {
	return &CartService{Prods: prods, slots: slots, stores: make(map[string]*cart.Store)}
}

// Store returns the session's cart store, creating it from the persisted
// snapshot on first access.
func (s *CartService) Store(sessionID string) *cart.Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st, ok := s.stores[sessionID]; ok {
		return st
	}
	var slot cart.Slot
	if s.slots != nil {
		slot = s.slots.Slot(sessionID)
	} else {
		slot = &cart.MemorySlot{}
	}
	st := cart.NewStore(slot)
	s.stores[sessionID] = st
	return st
}

// Add looks the product up and adds qty units of its current snapshot.
func (s *CartService) Add(sessionID string, productID int64, qty int) error {
	p, err := s.Prods.Get(productID)
	if err != nil {
		return err
	}
	s.Store(sessionID).Add(p, qty)
	return nil
}

func (s *CartService) SetQuantity(sessionID string, productID int64, qty int) {
	s.Store(sessionID).SetQuantity(productID, qty)
}

func (s *CartService) Remove(sessionID string, productID int64) {
	s.Store(sessionID).Remove(productID)
}

func (s *CartService) Clear(sessionID string) {
	s.Store(sessionID).Clear()
}

// CartView is the read model the cart and checkout pages render.
type CartView struct {
	Items []cart.LineItem
	Total int64
	Count int
}

func (s *CartService) View(sessionID string) CartView {
	st := s.Store(sessionID)
	return CartView{Items: st.Items(), Total: st.TotalPrice(), Count: st.ItemCount()}
}
