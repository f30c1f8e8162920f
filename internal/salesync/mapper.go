package salesync

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/posbridge/pkg/db/models"
	"github.com/angelmondragon/posbridge/pkg/lightspeed"
)

const defaultCurrency = "USD"

// Defect records a vendor record dropped during mapping: structurally
// malformed input, never a merely missing optional field.
type Defect struct {
	ReceiptID string
	Reason    string
}

// ToSales converts vendor records into normalized sale headers. It is pure:
// malformed records are reported as defects instead of failing the batch.
func ToSales(raw []lightspeed.RawSale, locationID string) ([]models.Sale, []Defect) {
	sales := make([]models.Sale, 0, len(raw))
	var defects []Defect

	for _, record := range raw {
		receiptID := saleKey(record)
		if receiptID == "" {
			defects = append(defects, Defect{Reason: "missing receipt and sale id"})
			continue
		}

		closed, err := parseTimeClosed(record.TimeClosed)
		if err != nil {
			defects = append(defects, Defect{ReceiptID: receiptID, Reason: fmt.Sprintf("malformed timeClosed %q", record.TimeClosed)})
			continue
		}

		currency := record.Currency
		if currency == "" {
			currency = defaultCurrency
		}

		sales = append(sales, models.Sale{
			Vendor:             models.VendorLightspeed,
			ReceiptID:          receiptID,
			BusinessLocationID: locationID,
			TimeClosed:         closed,
			Cancelled:          record.Cancelled != nil && *record.Cancelled,
			Currency:           currency,
		})
	}
	return sales, defects
}

// ToSaleLines flattens the nested line items of every mappable sale. Records
// without a usable sale key are skipped here; ToSales already reports them.
func ToSaleLines(raw []lightspeed.RawSale, locationID string) []models.SaleLine {
	var lines []models.SaleLine

	for _, record := range raw {
		receiptID := saleKey(record)
		if receiptID == "" {
			continue
		}
		for ordinal, line := range record.SalesLines {
			lineID := line.SaleLineID
			if lineID == "" {
				lineID = deriveLineID(receiptID, line.SKU, ordinal)
			}
			lines = append(lines, models.SaleLine{
				LineID:             lineID,
				Vendor:             models.VendorLightspeed,
				ReceiptID:          receiptID,
				BusinessLocationID: locationID,
				SKU:                optionalString(line.SKU),
				Name:               optionalString(line.Name),
				Quantity:           parseAmount(line.Quantity),
				MenuListPrice:      parseAmount(line.MenuListPrice),
				DiscountAmount:     parseAmount(line.DiscountAmount),
				TaxAmount:          parseAmount(line.TaxAmount),
				ServiceCharge:      parseAmount(line.ServiceCharge),
			})
		}
	}
	return lines
}

// saleKey prefers the vendor receipt id, falling back to the alternate sale id.
func saleKey(record lightspeed.RawSale) string {
	if record.ReceiptID != "" {
		return record.ReceiptID
	}
	return record.SaleID
}

// deriveLineID synthesizes a line id that is stable across re-fetches of the
// same data, so repeated ingests hit the same row.
func deriveLineID(receiptID, sku string, ordinal int) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s|%s|%d", receiptID, sku, ordinal)))
	return receiptID + "-" + hex.EncodeToString(sum[:8])
}

// parseAmount converts the vendor's numeric text into a decimal, defaulting to
// zero for absent or unparseable values.
func parseAmount(a lightspeed.Amount) decimal.Decimal {
	if a.IsZero() {
		return decimal.Zero
	}
	value, err := decimal.NewFromString(string(a))
	if err != nil {
		return decimal.Zero
	}
	return value
}

func parseTimeClosed(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil, err
	}
	utc := parsed.UTC()
	return &utc, nil
}

func optionalString(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
