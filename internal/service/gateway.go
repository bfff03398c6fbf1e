package service

import (
	"context"

	"classifieds-bot-backend/internal/monobank"
)

// monobankGateway adapts the Monobank client to the Gateway interface.
type monobankGateway struct {
	client *monobank.Client
}

func NewMonobankGateway(client *monobank.Client) Gateway {
	return &monobankGateway{client: client}
}

func (g *monobankGateway) CreateInvoice(ctx context.Context, amountCents int64, description, orderReference, redirectURL string) (string, string, error) {
	res, err := g.client.CreateInvoice(ctx, amountCents, description, orderReference, redirectURL)
	if err != nil {
		return "", "", err
	}
	return res.InvoiceID, res.PageURL, nil
}

func (g *monobankGateway) GetInvoiceStatus(ctx context.Context, invoiceID string) (string, error) {
	status, err := g.client.GetInvoiceStatus(ctx, invoiceID)
	if err != nil {
		return "", err
	}
	return status.Status, nil
}
