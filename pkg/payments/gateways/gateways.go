package gateways

import (
	"gymstore/pkg/config"
	"gymstore/pkg/payments"
	"gymstore/pkg/payments/mercadopago"
	"gymstore/pkg/payments/omisepay"
)

// FromConfig registers every gateway whose credentials are configured.
// Orders for a missing gateway are refused as unavailable.
func FromConfig(cfg *config.Config) *payments.Registry {
	var enabled []payments.Gateway

	if cfg.MercadoPagoAccessToken != "" {
		gw, err := mercadopago.New(cfg.MercadoPagoAccessToken, cfg.MercadoPagoNotifyURL, cfg.GatewayTimeout)
		if err != nil {
			cfg.Log.Fatal("Failed to configure Mercado Pago", "error", err)
		}
		enabled = append(enabled, gw)
	} else {
		cfg.Log.Warn("MERCADOPAGO_ACCESS_TOKEN not set, Mercado Pago payments disabled")
	}

	if cfg.OmisePublicKey != "" && cfg.OmiseSecretKey != "" {
		gw, err := omisepay.New(cfg.OmisePublicKey, cfg.OmiseSecretKey, cfg.OmiseSourceType, cfg.GatewayTimeout)
		if err != nil {
			cfg.Log.Fatal("Failed to configure Omise", "error", err)
		}
		enabled = append(enabled, gw)
	} else {
		cfg.Log.Warn("Omise keys not set, Omise payments disabled")
	}

	names := make([]string, 0, len(enabled))
	for _, gw := range enabled {
		names = append(names, gw.Name())
	}
	cfg.Log.Info("Payment gateways configured", "gateways", names)

	return payments.NewRegistry(enabled...)
}
