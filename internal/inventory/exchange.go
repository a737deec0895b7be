package inventory

import (
	"github.com/gocarina/gocsv"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"

	"github.com/karanhb-pixel/grocery-inventory-app/internal/domain"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ExportJSON dumps the collection as a pretty-printed JSON array, the
// backup file format ImportJSON reads back.
func (a *Aggregate) ExportJSON() ([]byte, error) {
	data, err := json.MarshalIndent(a.Items(), "", "  ")
	return data, errors.Wrap(err, "export inventory json")
}

// ImportJSON replaces the whole collection from a JSON array dump. Records
// are normalized with the same defensive rules as a remote pull; invalid
// rows are dropped. Returns how many rows were imported.
func (a *Aggregate) ImportJSON(data []byte) (int, error) {
	var rows []map[string]interface{}
	if err := json.Unmarshal(data, &rows); err != nil {
		return 0, errors.Wrap(err, "import inventory json")
	}
	items := make([]domain.InventoryItem, 0, len(rows))
	for _, row := range rows {
		if item, ok := domain.NormalizeItem(row); ok {
			items = append(items, item)
		}
	}
	a.Replace(items)
	return len(items), nil
}

// ExportCSV renders the fixed-column dialect:
// ID,Name,Selling Price,Purchase Price,Category,Status with "" escaping.
func (a *Aggregate) ExportCSV() (string, error) {
	items := a.Items()
	out, err := gocsv.MarshalString(&items)
	return out, errors.Wrap(err, "export inventory csv")
}

// ImportCSV replaces the collection from a CSV dump in the export dialect.
// Rows with an empty name or category are skipped. Returns how many rows
// were imported.
func (a *Aggregate) ImportCSV(data string) (int, error) {
	var rows []domain.InventoryItem
	if err := gocsv.UnmarshalString(data, &rows); err != nil {
		return 0, errors.Wrap(err, "import inventory csv")
	}
	items := make([]domain.InventoryItem, 0, len(rows))
	for _, row := range rows {
		if row.Name == "" || row.Category == "" {
			continue
		}
		if row.Status == "" {
			row.Status = domain.StatusActive
		}
		items = append(items, row)
	}
	if len(items) == 0 {
		return 0, errors.New("no valid rows in csv")
	}
	a.Replace(items)
	return len(items), nil
}
