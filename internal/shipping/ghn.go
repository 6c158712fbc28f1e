package shipping

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/sync/singleflight"
)

// DefaultGHNBaseURL is the GHN sandbox gateway.
const DefaultGHNBaseURL = "https://dev-online-gateway.ghn.vn/shiip/public-api/v2"

// GHNConfig carries the credentials and sender defaults for the GHN API.
type GHNConfig struct {
	BaseURL        string
	Token          string
	ShopID         int
	FromDistrictID int
}

// GHNClient is a thin client for the GHN shipping API. Concurrent identical
// fee quotes are coalesced into one upstream call.
type GHNClient struct {
	cfg    GHNConfig
	http   *http.Client
	quotes singleflight.Group
}

func NewGHNClient(cfg GHNConfig) *GHNClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultGHNBaseURL
	}
	return &GHNClient{cfg: cfg, http: &http.Client{Timeout: 10 * time.Second}}
}

// Configured reports whether credentials are present. An unconfigured client
// lets callers fall back to a flat fee instead of calling out.
func (c *GHNClient) Configured() bool {
	return c != nil && c.cfg.Token != "" && c.cfg.ShopID != 0
}

type FeeRequest struct {
	ToDistrictID   int    `json:"to_district_id"`
	ToWardCode     string `json:"to_ward_code"`
	ServiceTypeID  int    `json:"service_type_id"`
	Weight         int    `json:"weight"`
	Length         int    `json:"length"`
	Width          int    `json:"width"`
	Height         int    `json:"height"`
	InsuranceValue int64  `json:"insurance_value"`
}

type feeData struct {
	Total      int64 `json:"total"`
	ServiceFee int64 `json:"service_fee"`
}

// ghnEnvelope is the common GHN response wrapper.
type ghnEnvelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// QuoteFee returns the delivery fee in VND for one package.
func (c *GHNClient) QuoteFee(ctx context.Context, req FeeRequest) (int64, error) {
	if req.ServiceTypeID == 0 {
		req.ServiceTypeID = 2 // standard delivery
	}
	body := struct {
		FeeRequest
		FromDistrictID int `json:"from_district_id"`
	}{req, c.cfg.FromDistrictID}

	key, _ := json.Marshal(body)
	v, err, _ := c.quotes.Do(string(key), func() (any, error) {
		var data feeData
		if err := c.post(ctx, "/shipping-order/fee", body, &data); err != nil {
			return nil, err
		}
		return data.Total, nil
	})
	if err != nil {
		return 0, err
	}
	return v.(int64), nil
}

// OrderItem is one line of a GHN shipping order.
type OrderItem struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Price    int64  `json:"price"`
}

type OrderRequest struct {
	ToName        string      `json:"to_name"`
	ToPhone       string      `json:"to_phone"`
	ToAddress     string      `json:"to_address"`
	ToWardCode    string      `json:"to_ward_code"`
	ToDistrictID  int         `json:"to_district_id"`
	CODAmount     int64       `json:"cod_amount"`
	Weight        int         `json:"weight"`
	Length        int         `json:"length"`
	Width         int         `json:"width"`
	Height        int         `json:"height"`
	ServiceTypeID int         `json:"service_type_id"`
	PaymentTypeID int         `json:"payment_type_id"`
	RequiredNote  string      `json:"required_note"`
	Items         []OrderItem `json:"items"`
}

// OrderInfo is GHN's handle for a created shipping order.
type OrderInfo struct {
	OrderCode        string `json:"order_code"`
	ExpectedDelivery string `json:"expected_delivery_time"`
	TotalFee         int64  `json:"total_fee"`
}

// CreateOrder registers a delivery order with GHN and returns its code.
func (c *GHNClient) CreateOrder(ctx context.Context, req OrderRequest) (OrderInfo, error) {
	if req.ServiceTypeID == 0 {
		req.ServiceTypeID = 2
	}
	if req.PaymentTypeID == 0 {
		req.PaymentTypeID = 1 // sender pays
	}
	if req.RequiredNote == "" {
		req.RequiredNote = "CHOXEMHANGKHONGTHU"
	}
	var info OrderInfo
	if err := c.post(ctx, "/shipping-order/create", req, &info); err != nil {
		return OrderInfo{}, err
	}
	return info, nil
}

func (c *GHNClient) post(ctx context.Context, path string, body, out any) error {
	raw, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+path, bytes.NewReader(raw))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Token", c.cfg.Token)
	req.Header.Set("ShopId", fmt.Sprint(c.cfg.ShopID))

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var env ghnEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("ghn %s: decode: %w", path, err)
	}
	if env.Code != 200 {
		return fmt.Errorf("ghn %s: code %d: %s", path, env.Code, env.Message)
	}
	if out != nil && env.Data != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("ghn %s: data: %w", path, err)
		}
	}
	return nil
}
