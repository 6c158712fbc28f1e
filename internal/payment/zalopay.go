package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultZaloPayBaseURL is the ZaloPay sandbox endpoint.
const DefaultZaloPayBaseURL = "https://sb-openapi.zalopay.vn/v2"

type ZaloPayConfig struct {
	BaseURL     string
	AppID       int
	Key1        string
	AppUser     string
	CallbackURL string
	RedirectURL string
}

type ZaloPayClient struct {
	cfg  ZaloPayConfig
	http *http.Client
	now  func() time.Time
}

func NewZaloPayClient(cfg ZaloPayConfig) *ZaloPayClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultZaloPayBaseURL
	}
	if cfg.AppUser == "" {
		cfg.AppUser = "noithat"
	}
	return &ZaloPayClient{cfg: cfg, http: &http.Client{Timeout: 10 * time.Second}, now: time.Now}
}

func (c *ZaloPayClient) Configured() bool {
	return c != nil && c.cfg.AppID != 0 && c.cfg.Key1 != ""
}

type zaloPayResponse struct {
	ReturnCode    int    `json:"return_code"`
	ReturnMessage string `json:"return_message"`
	OrderURL      string `json:"order_url"`
	ZPTransToken  string `json:"zp_trans_token"`
}

// CreateOrder registers a payment with ZaloPay and returns the pay URL.
// The app_trans_id is derived from the storefront order id and must carry a
// yymmdd prefix per the gateway contract.
func (c *ZaloPayClient) CreateOrder(ctx context.Context, orderID string, amount int64, description string) (Result, error) {
	now := c.now()
	appTransID := now.Format("060102") + "_" + orderID
	appTime := now.UnixMilli()

	embed, _ := json.Marshal(map[string]string{"redirecturl": c.cfg.RedirectURL})
	item := "[]"

	// mac input order is fixed by the gateway:
	// app_id|app_trans_id|app_user|amount|app_time|embed_data|item
	payload := fmt.Sprintf("%d|%s|%s|%d|%d|%s|%s",
		c.cfg.AppID, appTransID, c.cfg.AppUser, amount, appTime, embed, item)
	mac := signHMAC(c.cfg.Key1, payload)

	form := url.Values{}
	form.Set("app_id", fmt.Sprint(c.cfg.AppID))
	form.Set("app_trans_id", appTransID)
	form.Set("app_user", c.cfg.AppUser)
	form.Set("amount", fmt.Sprint(amount))
	form.Set("app_time", fmt.Sprint(appTime))
	form.Set("embed_data", string(embed))
	form.Set("item", item)
	form.Set("description", description)
	form.Set("callback_url", c.cfg.CallbackURL)
	form.Set("mac", mac)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/create",
		strings.NewReader(form.Encode()))
	if err != nil {
		return Result{}, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return Result{}, err
	}
	defer resp.Body.Close()

	var out zaloPayResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return Result{}, fmt.Errorf("zalopay create: decode: %w", err)
	}
	if out.ReturnCode != 1 {
		return Result{}, fmt.Errorf("%w: zalopay code %d: %s",
			ErrGatewayRejected, out.ReturnCode, out.ReturnMessage)
	}
	return Result{PayURL: out.OrderURL, TransactionID: appTransID}, nil
}

func signHMAC(key, payload string) string {
	h := hmac.New(sha256.New, []byte(key))
	h.Write([]byte(payload))
	return hex.EncodeToString(h.Sum(nil))
}
