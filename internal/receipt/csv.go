package receipt

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"totsuki/internal/grocery"
)

// Header spellings accepted for each column. Matching is
// case-insensitive and ignores surrounding whitespace.
var headerAliases = map[string][]string{
	"name":     {"name", "item", "item name", "item_name", "product", "description", "desc"},
	"quantity": {"quantity", "qty", "count", "amount"},
	"unit":     {"unit", "units", "uom", "measure"},
	"price":    {"price", "unit price", "unit_price", "cost", "unit cost", "unit_cost", "each"},
	"category": {"category", "cat", "type", "department", "dept"},
}

// ParseCSV decodes a receipt CSV into rows. The first record is
// treated as a header when any cell matches a known column name;
// otherwise the columns are taken positionally as
// name,quantity,unit,price,category. Rows without a usable name or with
// a non-positive quantity are skipped silently.
func ParseCSV(r io.Reader) ([]ParsedRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	columns, hasHeader := sniffHeader(records[0])
	if hasHeader {
		records = records[1:]
	}

	var rows []ParsedRow
	for _, record := range records {
		row, ok := parseRecord(record, columns)
		if ok {
			rows = append(rows, row)
		}
	}
	return rows, nil
}

// sniffHeader maps logical column names to indexes. When nothing in
// the first record looks like a header, positional defaults apply.
func sniffHeader(first []string) (map[string]int, bool) {
	columns := map[string]int{}
	for i, cell := range first {
		normalized := strings.ToLower(strings.TrimSpace(cell))
		for logical, aliases := range headerAliases {
			if _, taken := columns[logical]; taken {
				continue
			}
			for _, alias := range aliases {
				if normalized == alias {
					columns[logical] = i
					break
				}
			}
		}
	}

	if len(columns) > 0 {
		return columns, true
	}
	return map[string]int{"name": 0, "quantity": 1, "unit": 2, "price": 3, "category": 4}, false
}

func parseRecord(record []string, columns map[string]int) (ParsedRow, bool) {
	field := func(logical string) string {
		idx, ok := columns[logical]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	row := ParsedRow{
		RawName:  field("name"),
		Quantity: 1,
		Unit:     "unit",
	}
	if row.RawName == "" {
		return ParsedRow{}, false
	}

	if q := field("quantity"); q != "" {
		parsed, err := strconv.ParseFloat(cleanNumber(q), 64)
		if err != nil || parsed <= 0 {
			return ParsedRow{}, false
		}
		row.Quantity = parsed
	}

	if u := field("unit"); u != "" {
		row.Unit = strings.ToLower(u)
	}

	if p := field("price"); p != "" {
		parsed, err := strconv.ParseFloat(cleanNumber(p), 64)
		if err != nil || parsed < 0 {
			return ParsedRow{}, false
		}
		row.UnitPrice = parsed
	}

	if c := field("category"); c != "" {
		if cat, ok := grocery.ParseCategory(c); ok {
			row.Category = cat
		}
	}

	return row, true
}

// cleanNumber strips currency formatting: "$1,299.50" -> "1299.50".
func cleanNumber(s string) string {
	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, ",", "")
	return strings.TrimSpace(s)
}
