package ledger_test

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/rpggio/backoffice/internal/docstore"
	"github.com/rpggio/backoffice/internal/docstore/mocks"
	"github.com/rpggio/backoffice/internal/domain/form"
	"github.com/rpggio/backoffice/internal/domain/ledger"
	"github.com/stretchr/testify/require"
)

var ns = docstore.Namespace{TenantID: "app", UserID: "u1"}

func fixedClock() time.Time {
	return time.Date(2026, 10, 18, 15, 0, 0, 0, time.UTC)
}

func TestLedgerService_NewDraftDefaults(t *testing.T) {
	svc := ledger.NewService(&mocks.Store{}, nil).WithClock(fixedClock)

	income := svc.NewDraft(ledger.TypeIncome)
	require.Equal(t, "2026-10-18", income.Date)
	require.Equal(t, "Product Sale", income.Category)

	expense := svc.NewDraft(ledger.TypeExpense)
	require.Equal(t, "Software", expense.Category)
}

func TestLedgerService_CreateStoresNumericAmount(t *testing.T) {
	ctx := context.Background()
	store := &mocks.Store{}
	store.On("Create", ctx, ns, "transactions", docstore.Fields{
		"description": "Sponsorship",
		"amount":      500.0,
		"date":        "2026-10-18",
		"type":        "income",
		"category":    "Product Sale",
	}).Return("x1", nil)

	svc := ledger.NewService(store, nil).WithClock(fixedClock)
	id, err := svc.Save(ctx, ns, form.New(ledger.Draft{Description: "Sponsorship", Amount: "500", Type: ledger.TypeIncome}))
	require.NoError(t, err)
	require.Equal(t, "x1", id)
	store.AssertExpectations(t)
}

func TestLedgerService_Validation(t *testing.T) {
	tests := []struct {
		name  string
		draft ledger.Draft
	}{
		{"missing description", ledger.Draft{Amount: "10"}},
		{"non-numeric amount", ledger.Draft{Description: "x", Amount: "ten"}},
		{"empty amount", ledger.Draft{Description: "x"}},
		{"unknown type", ledger.Draft{Description: "x", Amount: "1", Type: "refund"}},
		{"bad date", ledger.Draft{Description: "x", Amount: "1", Date: "18/10/2026"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &mocks.Store{}
			f := form.New(tt.draft)
			_, err := ledger.NewService(store, nil).WithClock(fixedClock).Save(context.Background(), ns, f)
			require.ErrorIs(t, err, ledger.ErrInvalidInput)
			require.True(t, f.IsOpen())
			require.Empty(t, store.Calls)
		})
	}
}

func TestLedgerService_DeclinedDelete(t *testing.T) {
	store := &mocks.Store{}
	deleted, err := ledger.NewService(store, nil).Delete(context.Background(), ns, "x1", form.Answer(false))
	require.NoError(t, err)
	require.False(t, deleted)
	require.Empty(t, store.Calls)
}

func TestAmount_TolerantDecode(t *testing.T) {
	tests := []struct {
		raw  string
		want ledger.Amount
	}{
		{`{"amount": 12.5}`, 12.5},
		{`{"amount": "20"}`, 20},
		{`{"amount": "19.99 USD"}`, 19.99},
		{`{"amount": "abc"}`, 0},
		{`{"amount": null}`, 0},
		{`{"amount": true}`, 0},
		{`{}`, 0},
	}

	for _, tt := range tests {
		var tx ledger.Transaction
		require.NoError(t, json.Unmarshal([]byte(tt.raw), &tx), tt.raw)
		require.Equal(t, tt.want, tx.Amount, tt.raw)
	}
}

func TestParseAmount(t *testing.T) {
	require.Equal(t, ledger.Amount(-3), ledger.ParseAmount("-3"))
	require.Equal(t, ledger.Amount(0), ledger.ParseAmount(""))
	require.Equal(t, ledger.Amount(0), ledger.ParseAmount("NaN"))
	require.Equal(t, ledger.Amount(12.5), ledger.ParseAmount(" 12.5 USD"))
	require.Equal(t, ledger.Amount(0.5), ledger.ParseAmount(".5"))
	require.Equal(t, ledger.Amount(1500), ledger.ParseAmount("1.5e3kg"))
	require.Equal(t, ledger.Amount(2), ledger.ParseAmount("2e"))
	require.Equal(t, ledger.Amount(7), ledger.ParseAmount("7.x"))
	require.Equal(t, ledger.Amount(0), ledger.ParseAmount("-.x"))
	require.Equal(t, ledger.Amount(0), ledger.ParseAmount("1e999"))
}

func TestParseAmount_LongSuffix(t *testing.T) {
	long := "1" + strings.Repeat("x", 1<<20)

	start := time.Now()
	require.Equal(t, ledger.Amount(1), ledger.ParseAmount(long))
	require.Equal(t, ledger.Amount(0), ledger.ParseAmount(strings.Repeat("x", 1<<20)))
	require.Less(t, time.Since(start), time.Second)
}
