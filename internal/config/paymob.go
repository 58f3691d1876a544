package config

// PaymobConfig holds the credentials and integration identifiers for the
// Paymob acceptance API. The HMAC secret authenticates transaction callbacks.
type PaymobConfig struct {
	APIKey              string
	HMACSecret          string
	MerchantID          string
	CardIntegrationID   string
	WalletIntegrationID string
	IframeID            string
	BaseURL             string
}

// LoadPaymobConfig reads Paymob settings from the environment.
func LoadPaymobConfig() PaymobConfig {
	return PaymobConfig{
		APIKey:              GetEnv("PAYMOB_API_KEY", ""),
		HMACSecret:          GetEnv("PAYMOB_HMAC_SECRET", ""),
		MerchantID:          GetEnv("PAYMOB_MERCHANT_ID", ""),
		CardIntegrationID:   GetEnv("PAYMOB_CARD_INTEGRATION_ID", ""),
		WalletIntegrationID: GetEnv("PAYMOB_WALLET_INTEGRATION_ID", ""),
		IframeID:            GetEnv("PAYMOB_IFRAME_ID", ""),
		BaseURL:             GetEnv("PAYMOB_BASE_URL", "https://accept.paymob.com/api"),
	}
}
