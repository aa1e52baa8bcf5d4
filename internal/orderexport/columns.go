package orderexport

import "strings"

// Field is a logical column of an order export.
type Field string

// Logical fields recognised in export headers.
const (
	FieldOrderID    Field = "order_id"
	FieldDate       Field = "date"
	FieldTitle      Field = "title"
	FieldExternalID Field = "external_id"
	FieldQuantity   Field = "quantity"
	FieldPrice      Field = "price"
	FieldCategory   Field = "category"
	FieldSeller     Field = "seller"
	FieldWebsite    Field = "website"
)

// fieldSpellings lists accepted header spellings per field, highest priority first.
// Spellings are lower case; headers are lowered and trimmed before lookup.
var fieldSpellings = []struct {
	field     Field
	spellings []string
}{
	{FieldOrderID, []string{"order id", "order_id"}},
	{FieldDate, []string{"order date", "order_date", "shipment date", "shipment_date"}},
	{FieldTitle, []string{"title", "product name", "item name", "item title"}},
	{FieldExternalID, []string{"asin/isbn", "asin", "isbn"}},
	{FieldQuantity, []string{"quantity", "qty", "original quantity"}},
	{FieldPrice, []string{
		"purchase price per unit",
		"unit price",
		"price per unit",
		"list price per unit",
		"item price",
	}},
	{FieldCategory, []string{"category"}},
	{FieldSeller, []string{"seller"}},
	{FieldWebsite, []string{"website"}},
}

// Columns maps logical fields to the actual header names of one file.
// Fields missing from the header are absent from the map.
type Columns map[Field]string

// Row is one data row keyed by actual header name.
type Row map[string]string

// MapColumns resolves each logical field against header.
// Matching ignores case and surrounding whitespace. When two headers
// normalise to the same spelling, the later one wins.
func MapColumns(header []string) Columns {
	lower := make(map[string]string, len(header))
	for _, h := range header {
		lower[strings.ToLower(strings.TrimSpace(h))] = h
	}

	cols := make(Columns)
	for _, fs := range fieldSpellings {
		for _, spelling := range fs.spellings {
			if actual, ok := lower[spelling]; ok {
				cols[fs.field] = actual
				break
			}
		}
	}
	return cols
}

// Has reports whether field was found in the header.
func (c Columns) Has(field Field) bool {
	_, ok := c[field]
	return ok
}

// Value returns the cell for field, or "" when the field is unmapped or the
// row is short.
func (c Columns) Value(row Row, field Field) string {
	col, ok := c[field]
	if !ok {
		return ""
	}
	return row[col]
}
