package shipping_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"noithat/internal/shipping"
)

func ghnServer(t *testing.T, calls *int32) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Token") != "tok-123" || r.Header.Get("ShopId") != "4455" {
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]any{"code": 401, "message": "bad credentials"})
			return
		}
		if calls != nil {
			atomic.AddInt32(calls, 1)
		}
		switch r.URL.Path {
		case "/shipping-order/fee":
			var req map[string]any
			_ = json.NewDecoder(r.Body).Decode(&req)
			if req["from_district_id"].(float64) != 1442 {
				t.Errorf("from_district_id not injected: %v", req)
			}
			_ = json.NewEncoder(w).Encode(map[string]any{
				"code": 200, "message": "Success",
				"data": map[string]any{"total": 35000, "service_fee": 32000},
			})
		case "/shipping-order/create":
			_ = json.NewEncoder(w).Encode(map[string]any{
				"code": 200, "message": "Success",
				"data": map[string]any{"order_code": "GHN123", "total_fee": 35000},
			})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func TestQuoteFee(t *testing.T) {
	srv := ghnServer(t, nil)
	defer srv.Close()

	c := shipping.NewGHNClient(shipping.GHNConfig{
		BaseURL: srv.URL, Token: "tok-123", ShopID: 4455, FromDistrictID: 1442,
	})
	fee, err := c.QuoteFee(context.Background(), shipping.FeeRequest{
		ToDistrictID: 1461, ToWardCode: "21402",
		Weight: 3000, Length: 60, Width: 45, Height: 30,
	})
	if err != nil {
		t.Fatal(err)
	}
	if fee != 35000 {
		t.Fatalf("want fee 35000, got %d", fee)
	}
}

func TestQuoteFeeGatewayError(t *testing.T) {
	srv := ghnServer(t, nil)
	defer srv.Close()

	c := shipping.NewGHNClient(shipping.GHNConfig{BaseURL: srv.URL, Token: "wrong", ShopID: 4455})
	if _, err := c.QuoteFee(context.Background(), shipping.FeeRequest{ToDistrictID: 1}); err == nil {
		t.Fatal("want error for rejected credentials")
	}
}

func TestCreateOrder(t *testing.T) {
	srv := ghnServer(t, nil)
	defer srv.Close()

	c := shipping.NewGHNClient(shipping.GHNConfig{BaseURL: srv.URL, Token: "tok-123", ShopID: 4455})
	info, err := c.CreateOrder(context.Background(), shipping.OrderRequest{
		ToName: "Nguyen Van A", ToPhone: "0901234567", ToAddress: "12 Le Loi",
		ToWardCode: "21402", ToDistrictID: 1461, Weight: 2000,
		Items: []shipping.OrderItem{{Name: "Bàn trà gỗ", Quantity: 1, Price: 1500000}},
	})
	if err != nil {
		t.Fatal(err)
	}
	if info.OrderCode != "GHN123" {
		t.Fatalf("want order code GHN123, got %q", info.OrderCode)
	}
}

func TestConfigured(t *testing.T) {
	if shipping.NewGHNClient(shipping.GHNConfig{}).Configured() {
		t.Fatal("empty config must not report configured")
	}
	if !shipping.NewGHNClient(shipping.GHNConfig{Token: "t", ShopID: 1}).Configured() {
		t.Fatal("token+shop must report configured")
	}
	var nilClient *shipping.GHNClient
	if nilClient.Configured() {
		t.Fatal("nil client must not report configured")
	}
}
