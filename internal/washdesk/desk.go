package washdesk

import (
	"context"
	"fmt"

	"github.com/WeDoCheapies/website/internal/model"
	"github.com/WeDoCheapies/website/internal/reconcile"
)

// Desk performs admin actions against the api and merges their results into the screen.
// Results arriving after the screen was closed are dropped by the screen itself.
type Desk struct {
	client *Client
	screen *reconcile.Screen
}

func NewDesk(client *Client, screen *reconcile.Screen) *Desk {
	return &Desk{client: client, screen: screen}
}

// Load reads customers and wash history of the open customer, it is used when change stream is renewed
func (d *Desk) Load(ctx context.Context) ([]model.Customer, []model.Wash, error) {
	customers, err := d.client.Customers(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load customers - %w", err)
	}

	detail, ok := d.screen.Detail()
	if !ok {
		return customers, nil, nil
	}

	washes, err := d.client.History(ctx, detail.Customer.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load wash history - %w", err)
	}
	return customers, washes, nil
}

// Open opens customer card and loads its wash history. History is discarded
// when another customer was opened while it was loading.
func (d *Desk) Open(ctx context.Context, customerID string) error {
	if !d.screen.OpenDetail(customerID) {
		return fmt.Errorf("customer %s is not on the screen", customerID)
	}

	washes, err := d.client.History(ctx, customerID)
	if err != nil {
		return err
	}

	d.screen.ShowHistory(customerID, washes)
	return nil
}

func (d *Desk) RecordWash(ctx context.Context, customerID string, rw RecordWash) (*model.WashReceipt, error) {
	receipt, err := d.client.RecordWash(ctx, customerID, rw)
	if err != nil {
		return nil, err
	}
	d.screen.ApplyLocalWash(receipt)
	return receipt, nil
}

func (d *Desk) Redeem(ctx context.Context, customerID string) (*model.Customer, error) {
	return d.adjust(ctx, customerID, d.client.Redeem)
}

func (d *Desk) RemoveWash(ctx context.Context, customerID string) (*model.Customer, error) {
	return d.adjust(ctx, customerID, d.client.RemoveWash)
}

func (d *Desk) Recount(ctx context.Context, customerID string) (*model.Customer, error) {
	return d.adjust(ctx, customerID, d.client.Recount)
}

// DeleteCustomer deletes customer and closes its card if it is open
func (d *Desk) DeleteCustomer(ctx context.Context, customerID string) error {
	if err := d.client.DeleteCustomer(ctx, customerID); err != nil {
		return err
	}
	d.screen.RemoveLocalCustomer(customerID)
	return nil
}

func (d *Desk) adjust(
	ctx context.Context,
	customerID string,
	op func(context.Context, string) (*model.Customer, error),
) (*model.Customer, error) {
	customer, err := op(ctx, customerID)
	if err != nil {
		return nil, err
	}
	d.screen.ApplyLocalCustomer(customer)
	return customer, nil
}
