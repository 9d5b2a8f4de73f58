package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/OolalaDXB/outrenational/internal/erp/domain"
	"github.com/OolalaDXB/outrenational/internal/erp/store"
	"github.com/OolalaDXB/outrenational/pkg/idx"
	"github.com/OolalaDXB/outrenational/pkg/metricsx"
	"github.com/OolalaDXB/outrenational/pkg/slogx"
)

type InvoiceService struct {
	Store store.Store

	// PaymentTerms offsets the due date. Zero means domain.DefaultPaymentTerms.
	PaymentTerms time.Duration
}

func (s *InvoiceService) terms() time.Duration {
	if s.PaymentTerms > 0 {
		return s.PaymentTerms
	}
	return domain.DefaultPaymentTerms
}

// IssueForOrder invoices a sold order. An order carries at most one
// non-void invoice; voiding it allows a new one.
func (s *InvoiceService) IssueForOrder(ctx context.Context, tenantID, orderID string) (domain.Invoice, error) {
	var inv domain.Invoice
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		o, err := tx.Orders().GetOrder(ctx, tenantID, orderID)
		if err != nil {
			return err
		}
		if !o.Status.Sold() {
			return fmt.Errorf("%w: cannot invoice a %s order", ErrInvalidTransition, o.Status)
		}

		existing, err := tx.Invoices().GetActiveInvoiceForOrder(ctx, tenantID, orderID)
		switch {
		case err == nil:
			return fmt.Errorf("%w: %s", ErrInvoiceExists, existing.Number)
		case !errors.Is(err, store.ErrNotFound):
			return err
		}

		now := time.Now().UTC()
		inv = domain.Invoice{
			ID:            idx.New().String(),
			TenantID:      tenantID,
			OrderID:       o.ID,
			CustomerID:    o.CustomerID,
			Status:        domain.InvoiceIssued,
			Currency:      o.Currency,
			IssuedAt:      now,
			DueAt:         now.Add(s.terms()),
			Subtotal:      o.Subtotal,
			VATRate:       o.VATRate,
			VATAmount:     o.VATAmount,
			Total:         o.Total,
			ReverseCharge: o.ReverseCharge,
			Lines:         o.Items,
		}
		if inv.Number, err = nextNumber(ctx, tx, tenantID, "INV", now); err != nil {
			return err
		}
		err = tx.Invoices().CreateInvoice(ctx, inv)
		if errors.Is(err, store.ErrAlreadyExists) {
			return ErrInvoiceExists
		}
		return err
	})
	metricsx.RecordBusinessEvent(ctx, "invoice_issued", err == nil)
	if err != nil {
		return domain.Invoice{}, err
	}

	slogx.FromContext(ctx).Info("invoice issued",
		"invoice_id", inv.ID, "number", inv.Number, "order_id", orderID)
	return inv, nil
}

func (s *InvoiceService) Get(ctx context.Context, tenantID, invoiceID string) (domain.Invoice, error) {
	return s.Store.Invoices().GetInvoice(ctx, tenantID, invoiceID)
}

func (s *InvoiceService) List(ctx context.Context, tenantID string, f domain.InvoiceFilter) ([]domain.Invoice, error) {
	return s.Store.Invoices().ListInvoices(ctx, tenantID, f)
}

func (s *InvoiceService) MarkPaid(ctx context.Context, tenantID, invoiceID string) (domain.Invoice, error) {
	return s.setStatus(ctx, tenantID, invoiceID, domain.InvoicePaid)
}

// Void cancels an issued invoice. Paid invoices stay paid.
func (s *InvoiceService) Void(ctx context.Context, tenantID, invoiceID string) (domain.Invoice, error) {
	return s.setStatus(ctx, tenantID, invoiceID, domain.InvoiceVoid)
}

func (s *InvoiceService) setStatus(ctx context.Context, tenantID, invoiceID string, to domain.InvoiceStatus) (domain.Invoice, error) {
	var inv domain.Invoice
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		var err error
		if inv, err = tx.Invoices().GetInvoice(ctx, tenantID, invoiceID); err != nil {
			return err
		}
		if inv.Status != domain.InvoiceIssued {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, inv.Status, to)
		}

		now := time.Now().UTC()
		inv.Status = to
		if to == domain.InvoicePaid {
			inv.PaidAt = &now
		} else {
			inv.VoidedAt = &now
		}
		return tx.Invoices().UpdateInvoiceStatus(ctx, inv)
	})
	if err != nil {
		return domain.Invoice{}, err
	}

	slogx.FromContext(ctx).Info("invoice "+string(to), "invoice_id", inv.ID, "number", inv.Number)
	return inv, nil
}

// InvoiceColumns is the header of the invoice CSV export.
var InvoiceColumns = []string{
	"number", "order_id", "customer_id", "status", "currency", "issued_at", "due_at", "paid_at",
	"subtotal", "vat_rate", "vat_amount", "total", "reverse_charge",
}

// ExportCSV writes every invoice matching f, newest first.
func (s *InvoiceService) ExportCSV(ctx context.Context, tenantID string, f domain.InvoiceFilter, w io.Writer) (int, error) {
	cw := csv.NewWriter(w)
	if err := cw.Write(InvoiceColumns); err != nil {
		return 0, err
	}

	const page = 500
	f.Limit, f.Offset = page, 0
	n := 0
	for {
		invs, err := s.Store.Invoices().ListInvoices(ctx, tenantID, f)
		if err != nil {
			return n, err
		}
		for _, inv := range invs {
			paid := ""
			if inv.PaidAt != nil {
				paid = inv.PaidAt.Format(time.RFC3339)
			}
			if err := cw.Write([]string{
				inv.Number, inv.OrderID, inv.CustomerID, string(inv.Status), inv.Currency,
				inv.IssuedAt.Format(time.RFC3339), inv.DueAt.Format(time.RFC3339), paid,
				inv.Subtotal.StringFixed(2), inv.VATRate.String(), inv.VATAmount.StringFixed(2),
				inv.Total.StringFixed(2), strconv.FormatBool(inv.ReverseCharge),
			}); err != nil {
				return n, err
			}
			n++
		}
		if len(invs) < page {
			break
		}
		f.Offset += page
	}

	cw.Flush()
	return n, cw.Error()
}
