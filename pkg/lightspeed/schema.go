package lightspeed

import (
	"encoding/json"
	"strings"
)

// SalesPage is one page of the windowed sales endpoint.
type SalesPage struct {
	Sales         []RawSale `json:"sales"`
	NextPageToken *string   `json:"nextPageToken"`
}

// RawSale is a vendor-shaped transaction header with nested lines. It exists
// only within one fetch/map cycle.
type RawSale struct {
	ReceiptID  string        `json:"receiptId"`
	SaleID     string        `json:"saleId"`
	TimeClosed string        `json:"timeClosed"`
	Cancelled  *bool         `json:"cancelled"`
	Currency   string        `json:"currency"`
	SalesLines []RawSaleLine `json:"salesLines"`
}

// RawSaleLine is one nested line item as the vendor ships it.
type RawSaleLine struct {
	SaleLineID     string `json:"saleLineId"`
	SKU            string `json:"sku"`
	Name           string `json:"name"`
	Quantity       Amount `json:"quantity"`
	MenuListPrice  Amount `json:"menuListPrice"`
	DiscountAmount Amount `json:"discountAmount"`
	TaxAmount      Amount `json:"taxAmount"`
	ServiceCharge  Amount `json:"serviceCharge"`
}

// DailySalesReport is the daily aggregate endpoint's response.
type DailySalesReport struct {
	Sales        []RawSale `json:"sales"`
	DataComplete bool      `json:"dataComplete"`
	TotalSales   Amount    `json:"totalSales"`
}

// BusinessLocation is one store under a vendor business.
type BusinessLocation struct {
	ID   string `json:"blID"`
	Name string `json:"blName"`
}

type businessesEnvelope struct {
	Embedded struct {
		BusinessList []struct {
			BusinessLocations []BusinessLocation `json:"businessLocations"`
		} `json:"businessList"`
	} `json:"_embedded"`
}

// Amount tolerates vendor payloads that send numerics as JSON numbers, strings,
// or null. The raw text is preserved; parsing to decimal happens in the mapper.
type Amount string

func (a *Amount) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		*a = ""
		return nil
	}
	if strings.HasPrefix(trimmed, `"`) {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*a = Amount(strings.TrimSpace(str))
		return nil
	}
	*a = Amount(trimmed)
	return nil
}

// IsZero reports whether the vendor omitted the field.
func (a Amount) IsZero() bool { return a == "" }
