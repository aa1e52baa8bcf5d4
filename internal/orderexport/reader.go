package orderexport

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/klauspost/compress/zip"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/custodia-labs/grocer-cli/internal/core/domain"
	"github.com/custodia-labs/grocer-cli/internal/logger"
)

// zipMagic opens every local file header of a ZIP archive.
var zipMagic = []byte("PK\x03\x04")

// Reader parses order exports against an import ledger.
type Reader struct {
	now func() time.Time
}

// NewReader creates a reader. now supplies the processing date used for
// unparseable order dates; nil means time.Now.
func NewReader(now func() time.Time) *Reader {
	if now == nil {
		now = time.Now
	}
	return &Reader{now: now}
}

// ReadFile parses a CSV file or a ZIP archive of CSVs.
// Files ending in .zip, or starting with the ZIP signature, are read as archives.
// Only an unreadable file is an error; malformed content is skipped or coerced.
func (r *Reader) ReadFile(path string, ledger domain.Ledger, groceryOnly bool) (*domain.ParseResult, error) {
	isZip, err := looksLikeZip(path)
	if err != nil {
		return nil, err
	}
	if isZip {
		return r.readZip(path, ledger, groceryOnly)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening export: %w", err)
	}
	defer f.Close()

	return r.ReadCSV(f, ledger, groceryOnly)
}

// ReadCSV parses one CSV stream.
func (r *Reader) ReadCSV(src io.Reader, ledger domain.Ledger, groceryOnly bool) (*domain.ParseResult, error) {
	p := r.newParse(ledger, groceryOnly)
	cols, rows := readTable(src, "csv")
	p.consume(cols, rows)
	return p.result(), nil
}

func (r *Reader) readZip(path string, ledger domain.Ledger, groceryOnly bool) (*domain.ParseResult, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("opening archive: %w", err)
	}
	defer zr.Close()

	p := r.newParse(ledger, groceryOnly)
	for _, entry := range orderEntries(zr.File) {
		rc, err := entry.Open()
		if err != nil {
			logger.Warn("skipping archive entry %s: %v", entry.Name, err)
			continue
		}
		cols, rows := readTable(rc, entry.Name)
		rc.Close()

		if !cols.Has(FieldTitle) {
			logger.Debug("skipping %s: no title column", entry.Name)
			continue
		}
		logger.Debug("reading %s: %d rows", entry.Name, len(rows))
		p.consume(cols, rows)
	}
	return p.result(), nil
}

// orderEntries picks the CSV entries to read: those named like order
// files, or every CSV when none is.
func orderEntries(files []*zip.File) []*zip.File {
	var orders, csvs []*zip.File
	for _, f := range files {
		if f.FileInfo().IsDir() {
			continue
		}
		name := strings.ToLower(f.Name)
		if !strings.HasSuffix(name, ".csv") {
			continue
		}
		csvs = append(csvs, f)
		if strings.Contains(name, "order") {
			orders = append(orders, f)
		}
	}
	if len(orders) > 0 {
		return orders
	}
	return csvs
}

func looksLikeZip(path string) (bool, error) {
	if strings.EqualFold(filepath.Ext(path), ".zip") {
		return true, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return false, fmt.Errorf("opening export: %w", err)
	}
	defer f.Close()

	head := make([]byte, len(zipMagic))
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("reading export: %w", err)
	}
	return bytes.Equal(head[:n], zipMagic), nil
}

// readTable decodes a CSV stream into its column mapping and rows.
// A byte-order mark selects the encoding and is dropped; invalid UTF-8 is
// replaced. A parse error ends the table early, keeping the rows read so far.
func readTable(src io.Reader, name string) (Columns, []Row) {
	decoded := transform.NewReader(src, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
	cr := csv.NewReader(decoded)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err != nil {
		if !errors.Is(err, io.EOF) {
			logger.Warn("%s: unreadable header: %v", name, err)
		}
		return Columns{}, nil
	}

	var rows []Row
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			logger.Warn("%s: stopping at malformed row: %v", name, err)
			break
		}
		row := make(Row, len(header))
		for i, h := range header {
			if i < len(record) {
				row[h] = record[i]
			} else {
				row[h] = ""
			}
		}
		rows = append(rows, row)
	}
	return MapColumns(header), rows
}

// parse accumulates one ReadFile or ReadCSV call across tables.
type parse struct {
	today       time.Time
	ledger      domain.Ledger
	seen        domain.Ledger
	groceryOnly bool
	out         domain.ParseResult
}

func (r *Reader) newParse(ledger domain.Ledger, groceryOnly bool) *parse {
	if ledger == nil {
		ledger = domain.NewLedger()
	}
	return &parse{
		today:       r.now(),
		ledger:      ledger,
		seen:        domain.NewLedger(),
		groceryOnly: groceryOnly,
	}
}

// consume converts rows into purchases. Rows whose key is in the ledger are
// skipped; a key accepted earlier in the same call is dropped as a duplicate.
func (p *parse) consume(cols Columns, rows []Row) {
	for _, row := range rows {
		if p.groceryOnly && !IsGroceryRow(row, cols) {
			continue
		}

		title := strings.TrimSpace(cols.Value(row, FieldTitle))
		if title == "" {
			continue
		}
		orderID := strings.TrimSpace(cols.Value(row, FieldOrderID))
		externalID := strings.TrimSpace(cols.Value(row, FieldExternalID))

		key := domain.DedupKey(orderID, externalID, title)
		if p.ledger.Has(key) {
			logger.Debug("already imported %s", key)
			p.out.Skipped++
			p.out.Total++
			continue
		}
		if p.seen.Has(key) {
			logger.Debug("duplicate row %s", key)
			p.out.Duplicates++
			p.out.Total++
			continue
		}
		p.seen.Add(key)

		p.out.Purchases = append(p.out.Purchases, domain.ImportedPurchase{
			ExternalID: externalID,
			Purchase: domain.Purchase{
				OrderID:      orderID,
				Date:         ParseDate(cols.Value(row, FieldDate), p.today),
				Quantity:     ParseQuantity(cols.Value(row, FieldQuantity)),
				PricePerUnit: ParsePrice(cols.Value(row, FieldPrice)),
				RawTitle:     title,
			},
		})
		p.out.Total++
	}
}

func (p *parse) result() *domain.ParseResult {
	out := p.out
	return &out
}
