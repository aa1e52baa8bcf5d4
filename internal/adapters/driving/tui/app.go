package tui

import (
	"bytes"
	"context"
	"fmt"
	"slices"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/grocer-cli/internal/adapters/driving/report"
	"github.com/custodia-labs/grocer-cli/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/grocer-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/grocer-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/grocer-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/grocer-cli/internal/core/domain"
)

// chromeHeight is the number of lines around the table (title, status bar, spacing).
const chromeHeight = 6

// App is the item browser following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx is the context for cancellation.
	ctx context.Context

	styles *styles.Styles
	keymap *keymap.KeyMap
	table  table.Model
	status *status.Bar

	// now supplies today's date for overdue tags.
	now func() time.Time

	// items holds the rows currently shown, in table order.
	items []domain.ItemFrequency

	// detail is the item open in the detail pane.
	detail *domain.ItemDetail

	sort        domain.SortOrder
	currentView messages.ViewType

	// err holds the last error that occurred.
	err error

	width  int
	height int

	// ready indicates if the app has received its first window size.
	ready bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new browser with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	t := table.New(
		table.WithColumns(columns()),
		table.WithFocused(true),
		table.WithHeight(10),
	)
	ts := table.DefaultStyles()
	ts.Header = ts.Header.Bold(true).Foreground(s.Theme().Secondary)
	ts.Selected = ts.Selected.Foreground(s.Theme().Foreground).Background(s.Theme().Primary)
	t.SetStyles(ts)

	return &App{
		ports:       ports,
		ctx:         context.Background(),
		styles:      s,
		keymap:      km,
		table:       t,
		status:      status.NewBar(s, km),
		now:         time.Now,
		sort:        domain.SortByFrequency,
		currentView: messages.ViewItems,
	}, nil
}

// WithContext sets the context for the app.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// WithClock sets the clock used to decide which items are overdue.
func (a *App) WithClock(now func() time.Time) *App {
	a.now = now
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	a.status.SetState(status.StateLoading)
	return tea.Batch(
		tea.EnterAltScreen,
		tea.SetWindowTitle("grocer - Purchase History"),
		a.loadItems(),
	)
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case messages.ItemsLoaded:
		if msg.Err != nil {
			a.setError(msg.Err)
			return a, nil
		}
		a.err = nil
		a.items = msg.Items
		a.table.SetRows(rows(msg.Items, a.now()))
		a.status.SetState(status.StateItems)
		a.status.SetItemCount(len(msg.Items))
		a.status.SetMessage("sorted by " + a.sort.String())
		return a, nil

	case messages.DetailLoaded:
		if msg.Err != nil {
			a.setError(msg.Err)
			return a, nil
		}
		a.err = nil
		a.detail = msg.Detail
		a.currentView = messages.ViewDetail
		a.status.SetState(status.StateDetail)
		return a, nil

	case messages.ErrorOccurred:
		a.setError(msg.Err)
		return a, nil

	case messages.Quit:
		return a, tea.Quit
	}

	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := msg.String()

	// Global quit with ctrl+c
	if k == "ctrl+c" {
		return a, tea.Quit
	}

	switch a.currentView {
	case messages.ViewDetail, messages.ViewHelp:
		switch {
		case keymap.Matches(k, a.keymap.Quit):
			return a, tea.Quit
		case keymap.Matches(k, a.keymap.Back), keymap.Matches(k, a.keymap.Help) && a.currentView == messages.ViewHelp:
			a.backToItems()
		}
		return a, nil

	case messages.ViewItems:
		switch {
		case keymap.Matches(k, a.keymap.Quit):
			return a, tea.Quit
		case keymap.Matches(k, a.keymap.Help):
			a.currentView = messages.ViewHelp
			a.status.SetState(status.StateHelp)
			return a, nil
		case keymap.Matches(k, a.keymap.Select):
			return a, a.loadSelected()
		case keymap.Matches(k, a.keymap.Sort):
			a.sort = nextSort(a.sort)
			a.status.SetState(status.StateLoading)
			return a, a.loadItems()
		case keymap.Matches(k, a.keymap.Refresh):
			a.status.SetState(status.StateLoading)
			return a, a.loadItems()
		}
		var cmd tea.Cmd
		a.table, cmd = a.table.Update(msg)
		return a, cmd
	}
	return a, nil
}

func (a *App) backToItems() {
	a.currentView = messages.ViewItems
	a.detail = nil
	a.status.SetState(status.StateItems)
}

func (a *App) setError(err error) {
	a.err = err
	a.status.SetState(status.StateError)
	a.status.SetMessage(err.Error())
}

// loadItems lists items with the current sort order.
func (a *App) loadItems() tea.Cmd {
	ctx, inv, order := a.ctx, a.ports.Inventory, a.sort
	return func() tea.Msg {
		items, err := inv.List(ctx, domain.ListOptions{Sort: order})
		return messages.ItemsLoaded{Items: items, Err: err}
	}
}

// loadSelected fetches the highlighted item. Returns nil when the table is empty.
func (a *App) loadSelected() tea.Cmd {
	i := a.table.Cursor()
	if i < 0 || i >= len(a.items) {
		return nil
	}
	ctx, inv, id := a.ctx, a.ports.Inventory, a.items[i].ID
	return func() tea.Msg {
		detail, err := inv.Show(ctx, id)
		return messages.DetailLoaded{Detail: detail, Err: err}
	}
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	var body string
	switch a.currentView {
	case messages.ViewDetail:
		body = a.viewDetail()
	case messages.ViewHelp:
		body = a.viewHelp()
	default:
		body = a.viewItems()
	}
	return lipgloss.JoinVertical(lipgloss.Left, body, a.status.View())
}

func (a *App) viewItems() string {
	title := a.styles.Title.Render("grocer") + " " + a.styles.Muted.Render("purchase history")
	if len(a.items) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, title, "",
			a.styles.Muted.Render("No items yet. Import an order export with `grocer import FILE`."))
	}
	return lipgloss.JoinVertical(lipgloss.Left, title, "", a.table.View())
}

func (a *App) viewDetail() string {
	if a.detail == nil {
		return ""
	}
	var buf bytes.Buffer
	report.New(&buf, a.now()).Item(a.detail)
	return buf.String()
}

func (a *App) viewHelp() string {
	return `Help

Items:
  j/k, ↑/↓    Navigate items
  enter       Show item details
  s           Cycle sort order (frequency, name, last, next)
  r           Reload items
  ?           Toggle help
  q           Quit

Details:
  esc         Back to items
  q           Quit

[esc] back to items`
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Items returns the items currently listed.
func (a *App) Items() []domain.ItemFrequency {
	return a.items
}

// Detail returns the item open in the detail pane, if any.
func (a *App) Detail() *domain.ItemDetail {
	return a.detail
}

// SortOrder returns the active sort order.
func (a *App) SortOrder() domain.SortOrder {
	return a.sort
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.table.SetHeight(max(height-chromeHeight, 3))
	a.table.SetWidth(width)
	a.status.SetWidth(width)
}

func columns() []table.Column {
	return []table.Column{
		{Title: "ID", Width: report.ShortIDLen},
		{Title: "Item", Width: 28},
		{Title: "Category", Width: 10},
		{Title: "Buys", Width: 5},
		{Title: "Avg Every", Width: 10},
		{Title: "Last Bought", Width: 11},
		{Title: "Next Est.", Width: 20},
	}
}

func rows(items []domain.ItemFrequency, today time.Time) []table.Row {
	out := make([]table.Row, 0, len(items))
	for _, f := range items {
		out = append(out, table.Row{
			report.ShortID(f.ID),
			f.CanonicalName,
			f.Category.String(),
			strconv.Itoa(f.TotalPurchases),
			report.Interval(f.AvgIntervalDays),
			f.LastPurchased,
			report.NextLabel(f, today),
		})
	}
	return out
}

// nextSort cycles through the sort orders.
func nextSort(current domain.SortOrder) domain.SortOrder {
	orders := domain.SortOrders()
	i := slices.Index(orders, current)
	return orders[(i+1)%len(orders)]
}
