// Package report renders items, frequencies and statistics for the terminal.
package report

import (
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"

	"github.com/custodia-labs/grocer-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/grocer-cli/internal/core/domain"
)

// ShortIDLen is the number of id characters shown in listings.
const ShortIDLen = 8

const none = "-"

// Printer writes styled reports to w.
type Printer struct {
	w      io.Writer
	styles *styles.Styles
	today  time.Time
}

// New creates a printer. today decides overdue tags and relative dates.
func New(w io.Writer, today time.Time) *Printer {
	return &Printer{w: w, styles: styles.DefaultStyles(), today: today}
}

// Frequencies prints the item table.
func (p *Printer) Frequencies(freqs []domain.ItemFrequency) {
	if len(freqs) == 0 {
		fmt.Fprintln(p.w, p.styles.Muted.Render("No items found."))
		return
	}

	overdue := make(map[int]bool)
	rows := make([][]string, 0, len(freqs))
	for i, f := range freqs {
		if f.IsOverdue(p.today) {
			overdue[i] = true
		}
		rows = append(rows, []string{
			ShortID(f.ID),
			f.CanonicalName,
			string(f.Category),
			orNone(f.Brand),
			strconv.Itoa(f.TotalPurchases),
			strconv.Itoa(f.TotalUnits),
			Interval(f.AvgIntervalDays),
			f.LastPurchased,
			NextLabel(f, p.today),
		})
	}

	t := p.table("ID", "Item", "Category", "Brand", "Buys", "Units", "Avg Every", "Last Bought", "Next Est.").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return p.styles.Header
			case col == 8 && overdue[row]:
				return p.styles.Overdue.Padding(0, 1)
			default:
				return p.styles.Cell
			}
		})

	fmt.Fprintln(p.w, t.Render())
	fmt.Fprintln(p.w, p.styles.Muted.Render(fmt.Sprintf("%d item(s)", len(freqs))))
}

// Item prints one item with its frequency and purchase history, newest first.
func (p *Printer) Item(d *domain.ItemDetail) {
	it, f := d.Item, d.Frequency

	var spent float64
	for _, pu := range it.Purchases {
		spent += float64(pu.Quantity) * pu.PricePerUnit
	}

	fields := [][2]string{
		{"ID", it.ID},
		{"Category", string(it.Category)},
		{"Brand", orNone(it.Brand)},
		{"Unit size", orNone(it.UnitSize)},
		{"ASIN", orNone(it.ExternalID)},
		{"Purchases", fmt.Sprintf("%d (%s units)", f.TotalPurchases, humanize.Comma(int64(f.TotalUnits)))},
		{"Spent", "$" + humanize.FormatFloat("#,###.##", spent)},
		{"Avg every", Interval(f.AvgIntervalDays)},
		{"Last bought", p.dated(f.LastPurchased)},
		{"Next est.", p.nextDated(f)},
	}

	var b strings.Builder
	b.WriteString(p.styles.Title.Render(it.CanonicalName))
	for _, kv := range fields {
		b.WriteString("\n")
		b.WriteString(p.styles.Muted.Render(fmt.Sprintf("%-12s", kv[0])))
		b.WriteString(kv[1])
	}
	fmt.Fprintln(p.w, p.styles.Panel.Render(b.String()))

	if len(it.Purchases) == 0 {
		return
	}

	history := slices.Clone(it.Purchases)
	slices.SortStableFunc(history, func(a, b domain.Purchase) int {
		return strings.Compare(b.Date, a.Date)
	})

	rows := make([][]string, 0, len(history))
	for _, pu := range history {
		rows = append(rows, []string{
			pu.Date,
			orNone(pu.OrderID),
			strconv.Itoa(pu.Quantity),
			fmt.Sprintf("$%.2f", pu.PricePerUnit),
			pu.RawTitle,
		})
	}
	fmt.Fprintln(p.w, p.styles.Subtitle.Render("Purchase history"))
	fmt.Fprintln(p.w, p.table("Date", "Order", "Qty", "Unit Price", "Title").Rows(rows...).Render())
}

// Stats prints the summary report.
func (p *Printer) Stats(s *domain.Stats) {
	if s.TotalItems == 0 {
		fmt.Fprintln(p.w, p.styles.Muted.Render("No items yet. Import an order export first."))
		return
	}

	fmt.Fprintln(p.w, p.styles.Title.Render(fmt.Sprintf("%s unique item(s) across %d categories",
		humanize.Comma(int64(s.TotalItems)), len(s.Categories))))
	fmt.Fprintln(p.w)

	catRows := make([][]string, 0, len(s.Categories))
	for _, c := range s.Categories {
		catRows = append(catRows, []string{string(c.Category), strconv.Itoa(c.Items)})
	}
	fmt.Fprintln(p.w, p.styles.Subtitle.Render("By category"))
	fmt.Fprintln(p.w, p.table("Category", "Items").Rows(catRows...).Render())

	topRows := make([][]string, 0, len(s.Top))
	for i, f := range s.Top {
		topRows = append(topRows, []string{
			humanize.Ordinal(i + 1),
			f.CanonicalName,
			strconv.Itoa(f.TotalPurchases),
			Interval(f.AvgIntervalDays),
		})
	}
	fmt.Fprintln(p.w, p.styles.Subtitle.Render("Most purchased"))
	fmt.Fprintln(p.w, p.table("#", "Item", "Buys", "Avg Every").Rows(topRows...).Render())

	if len(s.Overdue) == 0 {
		fmt.Fprintln(p.w, p.styles.Success.Render("Nothing overdue."))
		return
	}
	fmt.Fprintln(p.w, p.styles.Subtitle.Render("Overdue"))
	for _, f := range s.Overdue {
		fmt.Fprintf(p.w, "  %s %s\n", p.styles.Overdue.Render(f.CanonicalName),
			p.styles.Muted.Render(fmt.Sprintf("expected %s", p.dated(f.PredictedNext))))
	}
}

func (p *Printer) table(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(p.styles.Theme().Border)).
		Headers(headers...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return p.styles.Header
			}
			return p.styles.Cell
		})
}

// dated appends a relative description to an ISO date.
func (p *Printer) dated(date string) string {
	if rel := Relative(date, p.today); rel != "" {
		return date + " (" + rel + ")"
	}
	return date
}

func (p *Printer) nextDated(f domain.ItemFrequency) string {
	if !f.HasPrediction() {
		return none
	}
	s := p.dated(f.PredictedNext)
	if f.IsOverdue(p.today) {
		s += " " + p.styles.Overdue.Render("overdue")
	}
	return s
}

// ShortID truncates an id for listings.
func ShortID(id string) string {
	if len(id) <= ShortIDLen {
		return id
	}
	return id[:ShortIDLen]
}

// Interval formats an average interval in days.
func Interval(avg *float64) string {
	if avg == nil {
		return none
	}
	return fmt.Sprintf("%.1f days", *avg)
}

// NextLabel formats the predicted date with an "(overdue)" tag when it has passed.
func NextLabel(f domain.ItemFrequency, today time.Time) string {
	if !f.HasPrediction() {
		return none
	}
	if f.IsOverdue(today) {
		return f.PredictedNext + " (overdue)"
	}
	return f.PredictedNext
}

// Relative describes an ISO date relative to today, such as "3 days ago".
// Unparseable dates yield "".
func Relative(date string, today time.Time) string {
	d, err := time.Parse(domain.DateLayout, date)
	if err != nil {
		return ""
	}
	now := domain.CalendarDate(today)
	if d.Equal(now) {
		return "today"
	}
	return humanize.RelTime(d, now, "ago", "from now")
}

func orNone(s string) string {
	if s == "" {
		return none
	}
	return s
}
