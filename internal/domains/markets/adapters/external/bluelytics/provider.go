package bluelytics

import (
	"context"
	"errors"
	"fmt"

	bluelyticsclient "github.com/Apurer/agro-sales-dashboard/internal/clients/http/bluelytics"
	"github.com/Apurer/agro-sales-dashboard/internal/domains/markets/domain"
	"github.com/Apurer/agro-sales-dashboard/internal/domains/markets/ports"
)

// Provider implements the currency port against Bluelytics.
type Provider struct {
	client *bluelyticsclient.Client
}

func NewProvider(client *bluelyticsclient.Client) *Provider {
	return &Provider{client: client}
}

// LatestRate returns the official quote. The upstream body is kept so the
// proxy endpoint can pass it through unchanged.
func (p *Provider) LatestRate(ctx context.Context) (domain.CurrencyRate, error) {
	if p == nil || p.client == nil {
		return domain.CurrencyRate{}, errors.New("bluelytics provider not configured")
	}
	doc, raw, err := p.client.Latest(ctx)
	if err != nil {
		if errors.Is(err, bluelyticsclient.ErrStatus) {
			return domain.CurrencyRate{}, fmt.Errorf("%w: %w", domain.ErrUpstreamStatus, err)
		}
		return domain.CurrencyRate{}, err
	}
	if !doc.Oficial.Complete() {
		return domain.CurrencyRate{}, fmt.Errorf("%w: oficial quote missing or incomplete", domain.ErrMalformedPayload)
	}
	return domain.CurrencyRate{
		Buy:        doc.Oficial.ValueBuy.Decimal,
		Sell:       doc.Oficial.ValueSell.Decimal,
		LastUpdate: doc.LastUpdate,
		Raw:        raw,
	}, nil
}

var _ ports.CurrencyProvider = (*Provider)(nil)
