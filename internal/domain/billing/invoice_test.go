package billing

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestInvoice(t *testing.T, subtotal, tax string) *Invoice {
	issued := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	due := issued.AddDate(0, 1, 0)
	inv, err := NewInvoice(
		"FAC-2025-001",
		uuid.New(),
		uuid.New(),
		InvoiceTypeProgress,
		decimal.RequireFromString(subtotal),
		decimal.RequireFromString(tax),
		issued,
		due,
	)
	require.NoError(t, err)
	return inv
}

func TestNewInvoice_Validation(t *testing.T) {
	issued := time.Now()
	due := issued.AddDate(0, 1, 0)

	t.Run("rejects empty number", func(t *testing.T) {
		_, err := NewInvoice("", uuid.New(), uuid.New(), InvoiceTypeProgress,
			decimal.NewFromInt(100), decimal.NewFromInt(12), issued, due)
		assert.Error(t, err)
	})

	t.Run("rejects negative amounts", func(t *testing.T) {
		_, err := NewInvoice("FAC-001", uuid.New(), uuid.New(), InvoiceTypeProgress,
			decimal.NewFromInt(-1), decimal.Zero, issued, due)
		assert.Error(t, err)
	})

	t.Run("rejects due date before issue date", func(t *testing.T) {
		_, err := NewInvoice("FAC-001", uuid.New(), uuid.New(), InvoiceTypeProgress,
			decimal.NewFromInt(100), decimal.Zero, issued, issued.AddDate(0, 0, -1))
		assert.Error(t, err)
	})

	t.Run("rejects invalid type", func(t *testing.T) {
		_, err := NewInvoice("FAC-001", uuid.New(), uuid.New(), InvoiceType("BOGUS"),
			decimal.NewFromInt(100), decimal.Zero, issued, due)
		assert.Error(t, err)
	})
}

func TestInvoice_AmountInvariants(t *testing.T) {
	inv := createTestInvoice(t, "50000.00", "7500.00")

	assert.True(t, inv.Total.Equal(inv.Subtotal.Add(inv.Tax)),
		"total must equal subtotal plus tax")
	assert.True(t, inv.Outstanding.Equal(inv.Total.Sub(inv.Paid).Sub(inv.AdvanceApplied)),
		"outstanding must equal total minus paid minus advances")
	assert.True(t, inv.Total.Equal(decimal.RequireFromString("57500.00")))
}

func TestInvoice_RegisterPayment(t *testing.T) {
	now := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)

	t.Run("partial payment keeps invoice open", func(t *testing.T) {
		inv := createTestInvoice(t, "1000.00", "120.00")
		require.NoError(t, inv.RegisterPayment(decimal.NewFromInt(500), now))

		assert.True(t, inv.Paid.Equal(decimal.NewFromInt(500)))
		assert.True(t, inv.Outstanding.Equal(decimal.RequireFromString("620.00")))
		assert.NotEqual(t, InvoiceStatusPaid, inv.Status)
	})

	t.Run("full payment settles the invoice", func(t *testing.T) {
		inv := createTestInvoice(t, "1000.00", "120.00")
		require.NoError(t, inv.RegisterPayment(decimal.RequireFromString("1120.00"), now))

		assert.Equal(t, InvoiceStatusPaid, inv.Status)
		assert.True(t, inv.Outstanding.IsZero())
		require.NotNil(t, inv.PaidAt)
		assert.Equal(t, now, *inv.PaidAt)
	})

	t.Run("overpayment is rejected", func(t *testing.T) {
		inv := createTestInvoice(t, "1000.00", "0.00")
		err := inv.RegisterPayment(decimal.NewFromInt(2000), now)
		assert.Error(t, err)
		assert.True(t, inv.Paid.IsZero())
	})

	t.Run("payment on settled invoice is rejected", func(t *testing.T) {
		inv := createTestInvoice(t, "100.00", "0.00")
		require.NoError(t, inv.RegisterPayment(decimal.NewFromInt(100), now))
		assert.Error(t, inv.RegisterPayment(decimal.NewFromInt(1), now))
	})
}

func TestInvoice_StatusTransitions(t *testing.T) {
	t.Run("draft to issued to sent", func(t *testing.T) {
		inv := createTestInvoice(t, "100.00", "0.00")
		require.NoError(t, inv.Issue())
		assert.Equal(t, InvoiceStatusIssued, inv.Status)
		require.NoError(t, inv.Send())
		assert.Equal(t, InvoiceStatusSent, inv.Status)
	})

	t.Run("send requires issued", func(t *testing.T) {
		inv := createTestInvoice(t, "100.00", "0.00")
		assert.Error(t, inv.Send())
	})

	t.Run("past due sent invoice becomes overdue on recalculate", func(t *testing.T) {
		inv := createTestInvoice(t, "100.00", "0.00")
		require.NoError(t, inv.Issue())
		require.NoError(t, inv.Send())
		inv.Recalculate(inv.DueAt.AddDate(0, 0, 3))
		assert.Equal(t, InvoiceStatusOverdue, inv.Status)
	})

	t.Run("cancelled invoice never flips to paid", func(t *testing.T) {
		inv := createTestInvoice(t, "100.00", "0.00")
		require.NoError(t, inv.Cancel())
		inv.Paid = inv.Total
		inv.Recalculate(time.Now())
		assert.Equal(t, InvoiceStatusCancelled, inv.Status)
	})
}

func TestInvoice_PaidPercent(t *testing.T) {
	inv := createTestInvoice(t, "200.00", "0.00")
	require.NoError(t, inv.RegisterPayment(decimal.NewFromInt(50), time.Now()))
	assert.True(t, inv.PaidPercent().Equal(decimal.NewFromInt(25)))

	zero := createTestInvoice(t, "0.00", "0.00")
	assert.True(t, zero.PaidPercent().IsZero())
}

func TestInvoice_IsOverdue(t *testing.T) {
	inv := createTestInvoice(t, "100.00", "0.00")
	assert.False(t, inv.IsOverdue(inv.DueAt.AddDate(0, 0, -1)))
	assert.True(t, inv.IsOverdue(inv.DueAt.AddDate(0, 0, 1)))

	require.NoError(t, inv.RegisterPayment(decimal.NewFromInt(100), time.Now()))
	assert.False(t, inv.IsOverdue(inv.DueAt.AddDate(0, 0, 1)), "paid invoices are never overdue")
}
