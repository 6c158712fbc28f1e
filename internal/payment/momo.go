package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// DefaultMomoBaseURL is the Momo test gateway.
const DefaultMomoBaseURL = "https://test-payment.momo.vn/v2/gateway/api"

type MomoConfig struct {
	BaseURL     string
	PartnerCode string
	AccessKey   string
	SecretKey   string
	RedirectURL string
	IPNURL      string
}

type MomoClient struct {
	cfg  MomoConfig
	http *http.Client
}

func NewMomoClient(cfg MomoConfig) *MomoClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultMomoBaseURL
	}
	return &MomoClient{cfg: cfg, http: &http.Client{Timeout: 10 * time.Second}}
}

func (c *MomoClient) Configured() bool {
	return c != nil && c.cfg.PartnerCode != "" && c.cfg.SecretKey != ""
}

// AccessKey is needed by IPN verification, which rebuilds the signed payload.
func (c *MomoClient) AccessKey() string { return c.cfg.AccessKey }

type momoRequest struct {
	PartnerCode string `json:"partnerCode"`
	RequestID   string `json:"requestId"`
	Amount      int64  `json:"amount"`
	OrderID     string `json:"orderId"`
	OrderInfo   string `json:"orderInfo"`
	RedirectURL string `json:"redirectUrl"`
	IPNURL      string `json:"ipnUrl"`
	RequestType string `json:"requestType"`
	ExtraData   string `json:"extraData"`
	Lang        string `json:"lang"`
	Signature   string `json:"signature"`
}

type momoResponse struct {
	ResultCode int    `json:"resultCode"`
	Message    string `json:"message"`
	PayURL     string `json:"payUrl"`
	RequestID  string `json:"requestId"`
}

// CreatePayment registers a captureWallet payment with Momo. The signature
// is an HMAC-SHA256 over the request fields in alphabetical key order, as
// the gateway verifies it.
func (c *MomoClient) CreatePayment(ctx context.Context, orderID string, amount int64, orderInfo string) (Result, error) {
	req := momoRequest{
		PartnerCode: c.cfg.PartnerCode,
		RequestID:   uuid.NewString(),
		Amount:      amount,
		OrderID:     orderID,
		OrderInfo:   orderInfo,
		RedirectURL: c.cfg.RedirectURL,
		IPNURL:      c.cfg.IPNURL,
		RequestType: "captureWallet",
		ExtraData:   "",
		Lang:        "vi",
	}
	req.Signature = signHMAC(c.cfg.SecretKey, momoSignPayload(c.cfg.AccessKey, req))

	raw, err := json.Marshal(req)
	if err != nil {
		return Result{}, err
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/create",
		bytes.NewReader(raw))
	if err != nil {
		return Result{}, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return Result{}, err
	}
	defer resp.Body.Close()

	var out momoResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return Result{}, fmt.Errorf("momo create: decode: %w", err)
	}
	if out.ResultCode != 0 {
		return Result{}, fmt.Errorf("%w: momo code %d: %s",
			ErrGatewayRejected, out.ResultCode, out.Message)
	}
	return Result{PayURL: out.PayURL, TransactionID: req.RequestID}, nil
}

func momoSignPayload(accessKey string, r momoRequest) string {
	return fmt.Sprintf("accessKey=%s&amount=%d&extraData=%s&ipnUrl=%s&orderId=%s&orderInfo=%s&partnerCode=%s&redirectUrl=%s&requestId=%s&requestType=%s",
		accessKey, r.Amount, r.ExtraData, r.IPNURL, r.OrderID, r.OrderInfo,
		r.PartnerCode, r.RedirectURL, r.RequestID, r.RequestType)
}

// VerifyIPNSignature checks the signature Momo sends on payment notifications.
func (c *MomoClient) VerifyIPNSignature(payload, signature string) bool {
	return signHMAC(c.cfg.SecretKey, payload) == signature
}
