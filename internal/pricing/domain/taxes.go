package domain

import (
	"bytes"
	"encoding/json"
	"sort"
)

// TaxTotalKey is the map key the charged total is rendered under.
const TaxTotalKey = "total"

// TaxAmount is one applied tax, kept in application order.
type TaxAmount struct {
	Name        string
	Amount      Money
	Recoverable bool
}

// TaxBreakdown keeps every applied tax, duplicates included. Total only
// counts the amounts that are charged (non-recoverable).
type TaxBreakdown struct {
	Items []TaxAmount
	Total Money
}

// Map collapses the items into the name-keyed view. A later item with the
// same name replaces the earlier value; Total is unaffected.
func (t TaxBreakdown) Map() map[string]Money {
	out := make(map[string]Money, len(t.Items)+1)
	for _, item := range t.Items {
		out[item.Name] = item.Amount
	}
	out[TaxTotalKey] = t.Total
	return out
}

// MarshalJSON renders {"<name>": amount, ..., "total": amount} with names in
// sorted order and the total last.
func (t TaxBreakdown) MarshalJSON() ([]byte, error) {
	view := t.Map()
	delete(view, TaxTotalKey)

	names := make([]string, 0, len(view))
	for name := range view {
		names = append(names, name)
	}
	sort.Strings(names)

	var buf bytes.Buffer
	buf.WriteByte('{')
	for _, name := range names {
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.WriteString(view[name].StringFixed(MoneyPlaces))
		buf.WriteByte(',')
	}
	buf.WriteString(`"` + TaxTotalKey + `":`)
	buf.WriteString(t.Total.StringFixed(MoneyPlaces))
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
