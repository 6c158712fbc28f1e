package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port     string
	DBDSN    string
	MediaDir string
	LogFile  string

	// GHN shipping API
	GHNToken          string
	GHNShopID         int
	GHNFromDistrictID int

	// ZaloPay gateway
	ZaloPayAppID       int
	ZaloPayKey1        string
	ZaloPayCallbackURL string

	// Momo gateway
	MomoPartnerCode string
	MomoAccessKey   string
	MomoSecretKey   string
	MomoIPNURL      string

	// Where gateways send the customer back after paying
	PaymentReturnURL string
}

func Load() Config {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := Config{
		Port:     getenv("PORT", "8080"),
		DBDSN:    getenv("DB_DSN", "noithat.db"),
		MediaDir: getenv("MEDIA_DIR", "./web/media"),
		LogFile:  getenv("LOG_FILE", "./noithat.log"),

		GHNToken:          os.Getenv("GHN_TOKEN"),
		GHNShopID:         getint("GHN_SHOP_ID", 0),
		GHNFromDistrictID: getint("GHN_FROM_DISTRICT_ID", 1442),

		ZaloPayAppID:       getint("ZALOPAY_APP_ID", 0),
		ZaloPayKey1:        os.Getenv("ZALOPAY_KEY1"),
		ZaloPayCallbackURL: os.Getenv("ZALOPAY_CALLBACK_URL"),

		MomoPartnerCode: os.Getenv("MOMO_PARTNER_CODE"),
		MomoAccessKey:   os.Getenv("MOMO_ACCESS_KEY"),
		MomoSecretKey:   os.Getenv("MOMO_SECRET_KEY"),
		MomoIPNURL:      getenv("MOMO_IPN_URL", "http://localhost:8080/payment/momo/ipn"),

		PaymentReturnURL: getenv("PAYMENT_RETURN_URL", "http://localhost:8080/payment/return"),
	}
	log.Printf("[config] PORT=%s DB_DSN=%s MEDIA_DIR=%s LOG_FILE=%s ghn=%v zalopay=%v momo=%v",
		cfg.Port, cfg.DBDSN, cfg.MediaDir, cfg.LogFile,
		cfg.GHNToken != "", cfg.ZaloPayAppID != 0, cfg.MomoPartnerCode != "")
	return cfg
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getint(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("[config] %s=%q is not a number, using %d", key, v, def)
		return def
	}
	return n
}
