package salesync

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/posbridge/pkg/lightspeed"
)

func TestToSalesAppliesDefaults(t *testing.T) {
	raw := []lightspeed.RawSale{{
		ReceiptID:  "r-1",
		TimeClosed: "2026-08-28T14:30:00Z",
	}}

	sales, defects := ToSales(raw, "bl-1")
	require.Empty(t, defects)
	require.Len(t, sales, 1)

	sale := sales[0]
	assert.Equal(t, "r-1", sale.ReceiptID)
	assert.Equal(t, "bl-1", sale.BusinessLocationID)
	assert.False(t, sale.Cancelled, "absent cancellation defaults to false")
	assert.Equal(t, "USD", sale.Currency, "absent currency defaults to USD")
	require.NotNil(t, sale.TimeClosed)
	assert.Equal(t, "2026-08-28T14:30:00Z", sale.TimeClosed.Format("2006-01-02T15:04:05Z"))
}

func TestToSalesFallsBackToAlternateID(t *testing.T) {
	raw := []lightspeed.RawSale{{SaleID: "alt-9"}}

	sales, defects := ToSales(raw, "bl-1")
	require.Empty(t, defects)
	require.Len(t, sales, 1)
	assert.Equal(t, "alt-9", sales[0].ReceiptID)
}

func TestToSalesDropsMalformedRecords(t *testing.T) {
	raw := []lightspeed.RawSale{
		{ReceiptID: "r-good", TimeClosed: "2026-08-28T10:00:00Z"},
		{ReceiptID: "r-bad", TimeClosed: "yesterday at noon"},
		{},
	}

	sales, defects := ToSales(raw, "bl-1")
	require.Len(t, sales, 1)
	assert.Equal(t, "r-good", sales[0].ReceiptID)
	require.Len(t, defects, 2)
	assert.Contains(t, defects[0].Reason, "malformed timeClosed")
	assert.Contains(t, defects[1].Reason, "missing receipt")
}

func TestToSalesAllowsMissingTimeClosed(t *testing.T) {
	sales, defects := ToSales([]lightspeed.RawSale{{ReceiptID: "r-open"}}, "bl-1")
	require.Empty(t, defects)
	require.Len(t, sales, 1)
	assert.Nil(t, sales[0].TimeClosed)
}

func TestToSaleLinesParsesAmounts(t *testing.T) {
	raw := []lightspeed.RawSale{{
		ReceiptID: "r-1",
		SalesLines: []lightspeed.RawSaleLine{{
			SaleLineID:     "l-1",
			SKU:            "sku-1",
			Quantity:       "2",
			MenuListPrice:  "9.50",
			DiscountAmount: "",
			TaxAmount:      "0.76",
			ServiceCharge:  "not-a-number",
		}},
	}}

	lines := ToSaleLines(raw, "bl-1")
	require.Len(t, lines, 1)

	line := lines[0]
	assert.Equal(t, "l-1", line.LineID)
	assert.True(t, line.Quantity.Equal(decimal.NewFromInt(2)))
	assert.True(t, line.MenuListPrice.Equal(decimal.RequireFromString("9.50")))
	assert.True(t, line.DiscountAmount.IsZero(), "absent amount defaults to zero")
	assert.True(t, line.ServiceCharge.IsZero(), "unparseable amount defaults to zero")
}

func TestToSaleLinesDerivesStableIDs(t *testing.T) {
	raw := []lightspeed.RawSale{{
		ReceiptID: "r-1",
		SalesLines: []lightspeed.RawSaleLine{
			{SKU: "espresso"},
			{SKU: "espresso"},
		},
	}}

	first := ToSaleLines(raw, "bl-1")
	second := ToSaleLines(raw, "bl-1")
	require.Len(t, first, 2)

	assert.Equal(t, first[0].LineID, second[0].LineID, "derived ids must be stable across re-fetch")
	assert.Equal(t, first[1].LineID, second[1].LineID)
	assert.NotEqual(t, first[0].LineID, first[1].LineID, "ordinal position disambiguates duplicate SKUs")
}

func TestToSaleLinesSkipsUnkeyedSales(t *testing.T) {
	raw := []lightspeed.RawSale{{
		SalesLines: []lightspeed.RawSaleLine{{SKU: "orphan"}},
	}}
	assert.Empty(t, ToSaleLines(raw, "bl-1"))
}
