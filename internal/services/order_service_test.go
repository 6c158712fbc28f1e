package services_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // pure-Go SQLite driver

	"noithat/internal/payment"
	"noithat/internal/repos"
	"noithat/internal/services"
)

func memdb(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func newOrderSvc(db *sqlx.DB) (*services.CartService, *services.OrderService) {
	cartSvc := services.NewCartService(repos.NewCartSlotRepo(db), repos.NewProductRepo(db))
	promoSvc := services.NewPromotionService(repos.NewPromotionRepo(db))
	orderSvc := services.NewOrderService(cartSvc, repos.NewOrderRepo(db), repos.NewProductRepo(db), promoSvc)
	return cartSvc, orderSvc
}

func TestPlaceCODWithPromo(t *testing.T) {
	db := memdb(t)
	cartSvc, orderSvc := newOrderSvc(db)

	sid := "test-session"
	if err := cartSvc.Add(sid, 1, 2); err != nil { // seeded: 1,590,000 VND each
		t.Fatal(err)
	}

	res, err := orderSvc.Place(context.Background(), services.PlaceInput{
		SessionID:     sid,
		Contact:       services.Contact{Name: "Lan", Email: "lan@noithat.test", Phone: "0912345678"},
		Address:       services.DeliveryAddress{Street: "12 Lý Thường Kiệt, Hà Nội"},
		PromoCode:     "FREESHIP", // seeded: 30,000 VND off, no window
		PaymentMethod: "cod",
	})
	if err != nil {
		t.Fatal(err)
	}
	if res.OrderID == "" {
		t.Fatal("no order id")
	}
	if !res.PromoApplied {
		t.Fatal("promo should apply")
	}
	if res.Subtotal != 3180000 || res.Discount != 30000 || res.ShippingFee != 30000 {
		t.Fatalf("bad breakdown: %+v", res)
	}
	if res.Total != res.Subtotal-res.Discount+res.ShippingFee {
		t.Fatalf("total mismatch: %+v", res)
	}
	if res.PayURL != "" {
		t.Fatalf("cod order must not have a pay url, got %q", res.PayURL)
	}

	o, items, err := repos.NewOrderRepo(db).Get(res.OrderID)
	if err != nil {
		t.Fatal(err)
	}
	if o.Status != "PLACED" || o.PromoCode != "FREESHIP" {
		t.Fatalf("bad order row: %+v", o)
	}
	if len(items) != 1 || items[0].Qty != 2 || items[0].Price != 1590000 {
		t.Fatalf("bad order items: %+v", items)
	}

	if v := cartSvc.View(sid); len(v.Items) != 0 {
		t.Fatalf("cart should be cleared after placing, got %+v", v.Items)
	}
}

func TestPlaceIgnoresInvalidPromo(t *testing.T) {
	db := memdb(t)
	cartSvc, orderSvc := newOrderSvc(db)

	sid := "s2"
	if err := cartSvc.Add(sid, 2, 1); err != nil {
		t.Fatal(err)
	}

	res, err := orderSvc.Place(context.Background(), services.PlaceInput{
		SessionID: sid,
		Contact:   services.Contact{Name: "Minh"},
		PromoCode: "EXPIRED5", // seeded: window ended 2025-02-01
	})
	if err != nil {
		t.Fatal(err)
	}
	if res.PromoApplied || res.Discount != 0 {
		t.Fatalf("expired promo must not discount: %+v", res)
	}
}

func TestPlaceEmptyCart(t *testing.T) {
	db := memdb(t)
	_, orderSvc := newOrderSvc(db)

	_, err := orderSvc.Place(context.Background(), services.PlaceInput{SessionID: "nobody"})
	if !errors.Is(err, services.ErrEmptyCart) {
		t.Fatalf("want ErrEmptyCart, got %v", err)
	}
}

func TestPlaceUnknownPaymentMethod(t *testing.T) {
	db := memdb(t)
	cartSvc, orderSvc := newOrderSvc(db)

	sid := "s3"
	if err := cartSvc.Add(sid, 1, 1); err != nil {
		t.Fatal(err)
	}
	_, err := orderSvc.Place(context.Background(), services.PlaceInput{
		SessionID:     sid,
		PaymentMethod: "bitcoin",
	})
	if !errors.Is(err, services.ErrUnknownPayment) {
		t.Fatalf("want ErrUnknownPayment, got %v", err)
	}
}

func TestPlaceGatewayRejectionPlacesNoOrder(t *testing.T) {
	gw := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"resultCode": 41, "message": "duplicate orderId"})
	}))
	defer gw.Close()

	db := memdb(t)
	cartSvc, orderSvc := newOrderSvc(db)
	orderSvc.Momo = payment.NewMomoClient(payment.MomoConfig{
		BaseURL: gw.URL, PartnerCode: "PC", AccessKey: "ak", SecretKey: "sk",
	})

	sid := "s4"
	if err := cartSvc.Add(sid, 1, 1); err != nil {
		t.Fatal(err)
	}
	_, err := orderSvc.Place(context.Background(), services.PlaceInput{
		SessionID:     sid,
		PaymentMethod: "momo",
	})
	if !errors.Is(err, payment.ErrGatewayRejected) {
		t.Fatalf("want gateway rejection, got %v", err)
	}

	rows, err := repos.NewOrderRepo(db).ListLatest(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 0 {
		t.Fatalf("rejected payment must not persist an order, got %+v", rows)
	}
	if v := cartSvc.View(sid); len(v.Items) != 1 {
		t.Fatal("cart must survive a failed payment")
	}
}

func TestValidatePromotion(t *testing.T) {
	db := memdb(t)
	promoSvc := services.NewPromotionService(repos.NewPromotionRepo(db))

	if _, err := promoSvc.Validate("freeship"); err != nil {
		t.Fatalf("codes are case-insensitive: %v", err)
	}
	if _, err := promoSvc.Validate("NOPE"); !errors.Is(err, services.ErrPromoUnknown) {
		t.Fatalf("want ErrPromoUnknown, got %v", err)
	}
	if _, err := promoSvc.Validate("EXPIRED5"); !errors.Is(err, services.ErrPromoExpired) {
		t.Fatalf("want ErrPromoExpired, got %v", err)
	}
}
