package gateways

import (
	"errors"
	"slices"
	"testing"
	"time"

	"gymstore/pkg/config"
	"gymstore/pkg/logger"
	"gymstore/pkg/model"
	"gymstore/pkg/payments"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromConfig(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.Config
		enabled []string
	}{
		{"none", config.Config{}, nil},
		{"mercado pago only", config.Config{MercadoPagoAccessToken: "TEST-token"}, []string{model.PaymentMethodMercadoPago}},
		{"omise needs both keys", config.Config{OmisePublicKey: "pkey_test"}, nil},
		{
			"both",
			config.Config{MercadoPagoAccessToken: "TEST-token", OmisePublicKey: "pkey_test_1", OmiseSecretKey: "skey_test_1", OmiseSourceType: "promptpay"},
			[]string{model.PaymentMethodMercadoPago, model.PaymentMethodOmise},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			cfg.Log = logger.Discard()
			cfg.GatewayTimeout = time.Second

			registry := FromConfig(&cfg)

			for _, name := range []string{model.PaymentMethodMercadoPago, model.PaymentMethodOmise} {
				gw, err := registry.Get(name)
				if slices.Contains(tt.enabled, name) {
					require.NoError(t, err)
					assert.Equal(t, name, gw.Name())
				} else {
					assert.True(t, errors.Is(err, payments.ErrUnknownGateway))
				}
			}
		})
	}
}
