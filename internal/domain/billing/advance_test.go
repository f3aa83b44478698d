package billing

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestAdvance(t *testing.T, amount string) *Advance {
	adv, err := NewAdvance(
		"ANT-2025-001",
		uuid.New(),
		uuid.New(),
		AdvanceTypeWork,
		decimal.RequireFromString(amount),
		time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)
	return adv
}

func TestNewAdvance_Validation(t *testing.T) {
	t.Run("rejects non-positive amount", func(t *testing.T) {
		_, err := NewAdvance("ANT-001", uuid.New(), uuid.New(), AdvanceTypeWork,
			decimal.Zero, time.Now())
		assert.Error(t, err)
	})

	t.Run("new advance is fully available", func(t *testing.T) {
		adv := createTestAdvance(t, "20000.00")
		assert.True(t, adv.Available.Equal(adv.Amount))
		assert.Equal(t, AdvanceStatusPending, adv.Status)
		assert.False(t, adv.ProjectApplied)
	})
}

func TestAdvance_ApplyToProject(t *testing.T) {
	now := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)

	t.Run("partial application", func(t *testing.T) {
		adv := createTestAdvance(t, "20000.00")
		require.NoError(t, adv.ApplyToProject(decimal.NewFromInt(5000), now))

		assert.True(t, adv.AppliedToProject.Equal(decimal.NewFromInt(5000)))
		assert.True(t, adv.Available.Equal(decimal.NewFromInt(15000)))
		assert.True(t, adv.ProjectApplied)
		assert.Equal(t, AdvanceStatusPending, adv.Status)
		require.NotNil(t, adv.AppliedAt)
	})

	t.Run("full application settles the advance", func(t *testing.T) {
		adv := createTestAdvance(t, "20000.00")
		require.NoError(t, adv.ApplyToProject(decimal.NewFromInt(20000), now))

		assert.Equal(t, AdvanceStatusSettled, adv.Status)
		assert.True(t, adv.Available.IsZero())
	})

	t.Run("over-application is rejected", func(t *testing.T) {
		adv := createTestAdvance(t, "1000.00")
		err := adv.ApplyToProject(decimal.NewFromInt(1500), now)
		assert.Error(t, err)
		assert.True(t, adv.AppliedToProject.IsZero())
	})
}

func TestAdvance_ApplyToInvoice(t *testing.T) {
	now := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)

	t.Run("application credits the invoice", func(t *testing.T) {
		adv := createTestAdvance(t, "10000.00")
		inv := createTestInvoice(t, "8000.00", "960.00")

		app, err := adv.ApplyToInvoice(inv, decimal.NewFromInt(3000), now)
		require.NoError(t, err)

		assert.True(t, app.Amount.Equal(decimal.NewFromInt(3000)))
		assert.Equal(t, adv.ID, app.AdvanceID)
		assert.Equal(t, inv.ID, app.InvoiceID)
		assert.True(t, adv.Available.Equal(decimal.NewFromInt(7000)))
		assert.True(t, inv.AdvanceApplied.Equal(decimal.NewFromInt(3000)))
		assert.True(t, inv.Outstanding.Equal(decimal.RequireFromString("5960.00")))
	})

	t.Run("covering the full outstanding settles the invoice", func(t *testing.T) {
		adv := createTestAdvance(t, "10000.00")
		inv := createTestInvoice(t, "5000.00", "0.00")

		_, err := adv.ApplyToInvoice(inv, decimal.NewFromInt(5000), now)
		require.NoError(t, err)
		assert.Equal(t, InvoiceStatusPaid, inv.Status)
	})

	t.Run("amount beyond invoice outstanding is rejected", func(t *testing.T) {
		adv := createTestAdvance(t, "10000.00")
		inv := createTestInvoice(t, "1000.00", "0.00")

		_, err := adv.ApplyToInvoice(inv, decimal.NewFromInt(2000), now)
		assert.Error(t, err)
		assert.True(t, adv.Available.Equal(adv.Amount))
		assert.True(t, inv.AdvanceApplied.IsZero())
	})
}

// The two application paths share one availability check: consuming through
// invoices reduces what can be applied to the project and vice versa, so the
// combined applications can never exceed the advance amount.
func TestAdvance_CombinedApplicationsCannotExceedAmount(t *testing.T) {
	now := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	adv := createTestAdvance(t, "10000.00")
	inv := createTestInvoice(t, "9000.00", "0.00")

	_, err := adv.ApplyToInvoice(inv, decimal.NewFromInt(6000), now)
	require.NoError(t, err)

	// Only 4000 remains regardless of the path used.
	assert.Error(t, adv.ApplyToProject(decimal.NewFromInt(5000), now))
	require.NoError(t, adv.ApplyToProject(decimal.NewFromInt(4000), now))

	assert.True(t, adv.TotalApplied().Equal(adv.Amount))
	assert.Equal(t, AdvanceStatusSettled, adv.Status)

	// Settled advances accept nothing more on either path.
	assert.Error(t, adv.ApplyToProject(decimal.NewFromInt(1), now))
	_, err = adv.ApplyToInvoice(inv, decimal.NewFromInt(1), now)
	assert.Error(t, err)
}

func TestAdvance_RefundAndCancel(t *testing.T) {
	now := time.Now()

	t.Run("refund zeroes availability", func(t *testing.T) {
		adv := createTestAdvance(t, "5000.00")
		require.NoError(t, adv.Refund())
		assert.Equal(t, AdvanceStatusRefunded, adv.Status)
		assert.True(t, adv.Available.IsZero())
	})

	t.Run("cancel rejected once partially applied", func(t *testing.T) {
		adv := createTestAdvance(t, "5000.00")
		require.NoError(t, adv.ApplyToProject(decimal.NewFromInt(100), now))
		assert.Error(t, adv.Cancel())
	})
}

func TestAdvance_AppliedPercent(t *testing.T) {
	adv := createTestAdvance(t, "200.00")
	require.NoError(t, adv.ApplyToProject(decimal.NewFromInt(50), time.Now()))
	assert.True(t, adv.AppliedPercent().Equal(decimal.NewFromInt(25)))
}
