package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"noithat/internal/cart"
	applog "noithat/internal/log"
	"noithat/internal/payment"
	"noithat/internal/repos"
	"noithat/internal/shipping"
)

var (
	ErrEmptyCart      = errors.New("cart empty")
	ErrUnknownPayment = errors.New("unknown payment method")
)

// flatShippingFee is charged when no shipping quote can be obtained.
const flatShippingFee = 30000

type Contact struct {
	Name  string
	Email string
	Phone string
}

type DeliveryAddress struct {
	Street     string
	WardCode   string
	DistrictID int
}

type PlaceInput struct {
	SessionID     string
	Contact       Contact
	Address       DeliveryAddress
	PromoCode     string
	PaymentMethod string // cod | momo | zalopay
}

type PlaceResult struct {
	OrderID      string
	Subtotal     int64
	Discount     int64
	ShippingFee  int64
	Total        int64
	PromoApplied bool
	PayURL       string
}

type OrderService struct {
	Carts  *CartService
	Orders *repos.OrderRepo
	Prods  *repos.ProductRepo
	Promos *PromotionService
	Ship   *shipping.GHNClient
	Momo   *payment.MomoClient
	Zalo   *payment.ZaloPayClient
}

func NewOrderService(carts *CartService, orders *repos.OrderRepo, prods *repos.ProductRepo, promos *PromotionService) *OrderService {
	return &OrderService{Carts: carts, Orders: orders, Prods: prods, Promos: promos}
}

// Place turns the session's cart into an order. Totals are computed server
// side from the embedded price snapshots. A promotion that fails validation
// does not block the order; it simply applies no discount. For gateway
// payments the payment is created first, so a gateway failure places no
// order at all.
func (s *OrderService) Place(ctx context.Context, in PlaceInput) (PlaceResult, error) {
	store := s.Carts.Store(in.SessionID)
	items := store.Items()
	if len(items) == 0 {
		return PlaceResult{}, ErrEmptyCart
	}

	subtotal := store.TotalPrice()

	var discount int64
	promoApplied := false
	promoCode := ""
	if in.PromoCode != "" && s.Promos != nil {
		if p, err := s.Promos.Validate(in.PromoCode); err == nil {
			discount = Discount(p, subtotal)
			promoApplied = true
			promoCode = p.Code
		}
	}

	fee := s.shippingFee(ctx, items, in.Address, subtotal)
	total := subtotal - discount + fee

	method := in.PaymentMethod
	if method == "" {
		method = "cod"
	}

	orderID := uuid.NewString()
	status := "PLACED"
	payURL := ""

	switch method {
	case "cod":
	case "momo":
		if !s.Momo.Configured() {
			return PlaceResult{}, fmt.Errorf("%w: momo not configured", ErrUnknownPayment)
		}
		res, err := s.Momo.CreatePayment(ctx, orderID, total, "Thanh toán đơn hàng "+orderID)
		if err != nil {
			return PlaceResult{}, err
		}
		payURL = res.PayURL
		status = "PENDING_PAYMENT"
	case "zalopay":
		if !s.Zalo.Configured() {
			return PlaceResult{}, fmt.Errorf("%w: zalopay not configured", ErrUnknownPayment)
		}
		res, err := s.Zalo.CreateOrder(ctx, orderID, total, "Thanh toán đơn hàng "+orderID)
		if err != nil {
			return PlaceResult{}, err
		}
		payURL = res.PayURL
		status = "PENDING_PAYMENT"
	default:
		return PlaceResult{}, ErrUnknownPayment
	}

	err := s.Orders.Create(repos.NewOrder{
		ID:            orderID,
		SessionID:     in.SessionID,
		Customer:      in.Contact.Name,
		Email:         in.Contact.Email,
		Phone:         in.Contact.Phone,
		Address:       in.Address.Street,
		PaymentMethod: method,
		PromoCode:     promoCode,
		Subtotal:      subtotal,
		Discount:      discount,
		ShippingFee:   fee,
		Total:         total,
		Status:        status,
	})
	if err != nil {
		return PlaceResult{}, err
	}
	for _, it := range items {
		p := it.Product
		if err := s.Orders.InsertItem(orderID, p.ID, p.Name, it.Quantity, p.Price, p.Color, p.Size); err != nil {
			return PlaceResult{}, err
		}
	}

	store.Clear()

	return PlaceResult{
		OrderID:      orderID,
		Subtotal:     subtotal,
		Discount:     discount,
		ShippingFee:  fee,
		Total:        total,
		PromoApplied: promoApplied,
		PayURL:       payURL,
	}, nil
}

// shippingFee quotes GHN when configured and falls back to the flat fee on
// any failure; checkout must not depend on the carrier being reachable.
func (s *OrderService) shippingFee(ctx context.Context, items []cart.LineItem, addr DeliveryAddress, insured int64) int64 {
	if !s.Ship.Configured() || addr.DistrictID == 0 {
		return flatShippingFee
	}
	dims := shipping.EstimateDimensions(items)
	fee, err := s.Ship.QuoteFee(ctx, shipping.FeeRequest{
		ToDistrictID:   addr.DistrictID,
		ToWardCode:     addr.WardCode,
		Weight:         dims.Weight,
		Length:         dims.Length,
		Width:          dims.Width,
		Height:         dims.Height,
		InsuranceValue: insured,
	})
	if err != nil {
		applog.Error(nil, "shipping.quote.fail", err, map[string]any{"district": addr.DistrictID})
		return flatShippingFee
	}
	return fee
}

// MarkPaid flips a pending order to PAID; called from gateway notifications.
func (s *OrderService) MarkPaid(orderID string) error {
	return s.Orders.UpdateStatus(orderID, "PAID")
}

func (s *OrderService) MomoAccessKey() string {
	if s.Momo == nil {
		return ""
	}
	return s.Momo.AccessKey()
}

func (s *OrderService) VerifyMomoIPN(signature, payload string) bool {
	return s.Momo.Configured() && s.Momo.VerifyIPNSignature(payload, signature)
}

// CreateShipment registers a GHN delivery for an order and records the
// carrier's order code. Called when an admin moves an order to SHIPPING.
func (s *OrderService) CreateShipment(ctx context.Context, orderID string, addr DeliveryAddress) (string, error) {
	if !s.Ship.Configured() {
		return "", errors.New("shipping not configured")
	}
	o, rows, err := s.Orders.Get(orderID)
	if err != nil {
		return "", err
	}

	// Rebuild line items with current physical attributes for the estimator.
	var items []cart.LineItem
	var ghnItems []shipping.OrderItem
	for _, it := range rows {
		p, err := s.Prods.Get(it.ProductID)
		if err != nil {
			continue // product gone; ship with defaults
		}
		items = append(items, cart.LineItem{Product: p, Quantity: it.Qty})
		ghnItems = append(ghnItems, shipping.OrderItem{Name: it.Name, Quantity: it.Qty, Price: it.Price})
	}
	dims := shipping.EstimateDimensions(items)

	var cod int64
	if o.PaymentMethod == "cod" {
		cod = o.Total
	}
	info, err := s.Ship.CreateOrder(ctx, shipping.OrderRequest{
		ToName:       o.Customer,
		ToPhone:      o.Phone,
		ToAddress:    o.Address,
		ToWardCode:   addr.WardCode,
		ToDistrictID: addr.DistrictID,
		CODAmount:    cod,
		Weight:       dims.Weight,
		Length:       dims.Length,
		Width:        dims.Width,
		Height:       dims.Height,
		Items:        ghnItems,
	})
	if err != nil {
		return "", err
	}
	if err := s.Orders.SetShippingCode(orderID, info.OrderCode); err != nil {
		return "", err
	}
	return info.OrderCode, nil
}
