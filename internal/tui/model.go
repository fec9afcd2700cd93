package tui

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/Veraticus/toko/internal/catalog"
	"github.com/Veraticus/toko/internal/common"
	"github.com/Veraticus/toko/internal/model"
	"github.com/Veraticus/toko/internal/service"
	"github.com/Veraticus/toko/internal/tui/components"
	"github.com/Veraticus/toko/internal/tui/themes"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// State represents the current state of the TUI.
type State int

const (
	StateLoading State = iota
	StateError
	StateList
	StateSearch
	StatePrice
	StateDetail
	StateHelp
)

type statusKind int

const (
	statusInfo statusKind = iota
	statusSuccess
	statusError
)

// Model holds the catalog browser state.
type Model struct {
	ctx         context.Context
	statusAt    time.Time
	store       service.Storefront
	lastError   error
	vm          *catalog.ViewModel
	theme       themes.Theme
	status      string
	savedQuery  string
	config      Config
	keymap      KeyMap
	list        components.BookListModel
	detail      components.BookDetailModel
	stats       components.CatalogStatsModel
	search      textinput.Model
	price       textinput.Model
	help        help.Model
	width       int
	height      int
	state       State
	helpReturn  State
	statusLevel statusKind
	ready       bool
	loading     bool
	quitting    bool
}

// newModel creates a new model with the given configuration.
func newModel(ctx context.Context, cfg Config) Model {
	if ctx == nil {
		ctx = context.Background()
	}

	search := textinput.New()
	search.Placeholder = "Search titles..."
	search.Prompt = "/ "
	search.CharLimit = 80

	price := textinput.New()
	price.Placeholder = "min-max, e.g. 10-30"
	price.Prompt = "Price: "
	price.CharLimit = 24

	h := help.New()
	h.ShowAll = false

	m := Model{
		ctx:    ctx,
		state:  StateLoading,
		config: cfg,
		keymap: DefaultKeyMap(),
		theme:  cfg.Theme,
		store:  cfg.Store,
		vm: catalog.NewViewModel(
			catalog.WithPageSize(cfg.PageSize),
			catalog.WithLocale(cfg.Locale),
		),
		list:    components.NewBookList(cfg.Theme, cfg.Money),
		detail:  components.NewBookDetail(cfg.Theme, cfg.Money, cfg.MarkdownStyle),
		stats:   components.NewCatalogStats(cfg.Theme, cfg.Money),
		search:  search,
		price:   price,
		help:    h,
		width:   cfg.Width,
		height:  cfg.Height,
		loading: true,
	}
	m.handleResize()
	return m
}

// Init starts loading the catalog.
func (m Model) Init() tea.Cmd {
	return m.loadBooks()
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.handleResize()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case booksLoadedMsg:
		return m.handleBooksLoaded(msg)

	case detailLoadedMsg:
		m.loading = false
		if msg.err != nil {
			return m, m.setStatus(statusError, "Could not load book: "+common.UserMessage(msg.err))
		}
		m.detail.SetContent(msg.book, msg.reviews, msg.related)
		m.state = StateDetail
		m.status = ""
		return m, nil

	case cartAddedMsg:
		if msg.err != nil {
			return m, m.setStatus(statusError, accountErrorText("add to cart", msg.err))
		}
		m.stats.RecordCartAdd()
		return m, m.setStatus(statusSuccess, fmt.Sprintf("Added %q to your cart", msg.book.Title))

	case wishlistAddedMsg:
		if msg.err != nil {
			return m, m.setStatus(statusError, accountErrorText("add to wishlist", msg.err))
		}
		return m, m.setStatus(statusSuccess, fmt.Sprintf("Saved %q to your wishlist", msg.book.Title))

	case clearStatusMsg:
		if msg.at.Equal(m.statusAt) {
			m.status = ""
		}
		return m, nil

	case components.BookSelectedMsg:
		m.loading = true
		return m, tea.Batch(m.setStatus(statusInfo, "Loading "+msg.Book.Title+"..."), m.loadDetail(msg.Book.ID))

	case components.BackToListMsg:
		m.state = StateList
		return m, nil

	case components.AddToCartRequestMsg:
		return m, m.addToCart(msg.Book)

	case components.AddToWishlistRequestMsg:
		return m, m.addToWishlist(msg.Book)
	}

	var cmd tea.Cmd
	switch m.state {
	case StateSearch:
		m.search, cmd = m.search.Update(msg)
	case StatePrice:
		m.price, cmd = m.price.Update(msg)
	}
	return m, cmd
}

// View renders the UI.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	switch m.state {
	case StateLoading:
		return m.renderLoading()
	case StateError:
		return m.renderError()
	case StateHelp:
		return m.renderHelp()
	case StateDetail:
		return m.renderDetail()
	default:
		return m.renderCatalog()
	}
}

// handleKey dispatches a key press according to the current state.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keymap.ForceQuit) {
		return m.quit()
	}
	if key.Matches(msg, m.keymap.ClearScreen) {
		return m, tea.ClearScreen
	}

	switch m.state {
	case StateLoading:
		if key.Matches(msg, m.keymap.Quit) {
			return m.quit()
		}
		return m, nil

	case StateError:
		switch {
		case key.Matches(msg, m.keymap.Quit), key.Matches(msg, m.keymap.Back):
			return m.quit()
		case key.Matches(msg, m.keymap.Refresh):
			m.state = StateLoading
			m.loading = true
			return m, m.loadBooks()
		}
		return m, nil

	case StateSearch:
		return m.handleSearchKey(msg)

	case StatePrice:
		return m.handlePriceKey(msg)

	case StateHelp:
		if key.Matches(msg, m.keymap.Help) || key.Matches(msg, m.keymap.Back) || key.Matches(msg, m.keymap.Quit) {
			m.state = m.helpReturn
		}
		return m, nil

	case StateDetail:
		switch {
		case key.Matches(msg, m.keymap.Quit):
			return m.quit()
		case key.Matches(msg, m.keymap.Help):
			m.helpReturn = m.state
			m.state = StateHelp
			return m, nil
		}
		var cmd tea.Cmd
		m.detail, cmd = m.detail.Update(msg)
		return m, cmd
	}

	return m.handleListKey(msg)
}

// handleListKey handles keys on the catalog page.
func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Quit), key.Matches(msg, m.keymap.Back):
		return m.quit()

	case key.Matches(msg, m.keymap.Help):
		m.helpReturn = m.state
		m.state = StateHelp

	case key.Matches(msg, m.keymap.Search):
		m.savedQuery = m.vm.Filter().Query
		m.search.SetValue(m.savedQuery)
		m.search.CursorEnd()
		m.state = StateSearch
		return m, m.search.Focus()

	case key.Matches(msg, m.keymap.Price):
		m.price.SetValue(formatPriceInput(m.vm.Filter()))
		m.price.CursorEnd()
		m.state = StatePrice
		return m, m.price.Focus()

	case key.Matches(msg, m.keymap.Category):
		m.vm.SetCategory(nextCategory(m.vm.Filter().Category))
		m.refreshList()

	case key.Matches(msg, m.keymap.Sort):
		m.vm.SetSort(nextSort(m.vm.Filter().Sort))
		m.refreshList()

	case key.Matches(msg, m.keymap.Reset):
		m.vm.Reset()
		m.refreshList()
		return m, m.setStatus(statusInfo, "Filters reset")

	case key.Matches(msg, m.keymap.NextPage):
		m.changePage(m.vm.NextPage)

	case key.Matches(msg, m.keymap.PrevPage):
		m.changePage(m.vm.PrevPage)

	case key.Matches(msg, m.keymap.FirstPage):
		m.changePage(func() { m.vm.SetPage(1) })

	case key.Matches(msg, m.keymap.LastPage):
		m.changePage(func() { m.vm.SetPage(m.vm.TotalPages()) })

	case key.Matches(msg, m.keymap.Refresh):
		m.loading = true
		return m, tea.Batch(m.setStatus(statusInfo, "Refreshing catalog..."), m.loadBooks())

	case key.Matches(msg, m.keymap.AddToCart):
		if b, ok := m.list.Selected(); ok {
			return m, m.addToCart(b)
		}

	case key.Matches(msg, m.keymap.AddToWishlist):
		if b, ok := m.list.Selected(); ok {
			return m, m.addToWishlist(b)
		}

	default:
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	return m, nil
}

// handleSearchKey filters as the query is typed. Esc restores the query that
// was active before the search started.
func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.search.Blur()
		m.state = StateList
		return m, nil

	case tea.KeyEsc:
		m.search.Blur()
		m.vm.SetQuery(m.savedQuery)
		m.refreshList()
		m.state = StateList
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if m.search.Value() != m.vm.Filter().Query {
		m.vm.SetQuery(m.search.Value())
		m.refreshList()
	}
	return m, cmd
}

// handlePriceKey edits the price range and applies it on Enter.
func (m Model) handlePriceKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		minPrice, maxPrice, err := parsePriceRange(m.price.Value())
		if err != nil {
			return m, m.setStatus(statusError, err.Error())
		}
		m.price.Blur()
		m.vm.SetPriceRange(minPrice, maxPrice)
		m.refreshList()
		m.state = StateList
		return m, nil

	case tea.KeyEsc:
		m.price.Blur()
		m.state = StateList
		return m, nil
	}

	var cmd tea.Cmd
	m.price, cmd = m.price.Update(msg)
	return m, cmd
}

// handleBooksLoaded replaces the catalog with a fresh listing.
func (m Model) handleBooksLoaded(msg booksLoadedMsg) (tea.Model, tea.Cmd) {
	m.loading = false
	if msg.err != nil {
		m.lastError = msg.err
		if !m.ready {
			m.state = StateError
			return m, nil
		}
		return m, m.setStatus(statusError, "Refresh failed: "+common.UserMessage(msg.err))
	}

	m.lastError = nil
	m.vm.Load(msg.books)
	m.refreshList()

	var cmd tea.Cmd
	if m.ready {
		cmd = m.setStatus(statusSuccess, fmt.Sprintf("Loaded %d books", len(msg.books)))
	}
	m.ready = true
	if m.state == StateLoading || m.state == StateError {
		m.state = StateList
	}
	return m, cmd
}

// quit leaves the catalog. The filter state does not outlive the view.
func (m Model) quit() (tea.Model, tea.Cmd) {
	m.vm.Reset()
	m.quitting = true
	return m, tea.Quit
}

func (m *Model) changePage(move func()) {
	before := m.vm.CurrentPage()
	move()
	if m.vm.CurrentPage() != before {
		m.list.SetBooks(m.vm.Page())
	}
}

// refreshList shows the current page of the view model.
func (m *Model) refreshList() {
	m.list.SetBooks(m.vm.Page())
	m.stats.SetBooks(len(m.vm.Items()), m.vm.Filtered())
}

func (m *Model) setStatus(kind statusKind, text string) tea.Cmd {
	m.status = text
	m.statusLevel = kind
	m.statusAt = time.Now()
	return clearStatusAfter(m.statusAt)
}

// handleResize adjusts component sizes when the terminal resizes.
func (m *Model) handleResize() {
	// Header (2), pagination footer (2), input (1), status (1), help (1) and
	// the border (2).
	bodyHeight := max(3, m.height-9)

	listWidth := m.width - 2
	if m.showStatsPanel() {
		statsWidth := m.statsWidth()
		listWidth = m.width - statsWidth - 5
		m.stats.SetCompact(false)
		m.stats.Resize(statsWidth, bodyHeight)
	} else {
		m.stats.SetCompact(true)
		m.stats.Resize(m.width-2, 1)
	}

	m.list.Resize(listWidth, bodyHeight)
	m.detail.Resize(m.width-2, max(3, m.height-5))
	m.help.Width = m.width
}

func (m Model) showStatsPanel() bool {
	return m.config.ShowStats && m.width >= 110
}

func (m Model) statsWidth() int {
	return max(28, m.width/4)
}

// accountErrorText explains why a cart or wishlist action failed.
func accountErrorText(action string, err error) string {
	switch {
	case errors.Is(err, common.ErrNoSession):
		return fmt.Sprintf("Log in with `toko login` to %s", action)
	case errors.Is(err, common.ErrUnauthorized):
		return "Your session was rejected; log in again with `toko login`"
	default:
		return fmt.Sprintf("Could not %s: %s", action, common.UserMessage(err))
	}
}

// nextCategory cycles through "all" and every category.
func nextCategory(c model.Category) model.Category {
	order := append([]model.Category{catalog.CategoryAll}, model.Categories...)
	for i, candidate := range order {
		if candidate == c {
			return order[(i+1)%len(order)]
		}
	}
	return catalog.CategoryAll
}

// nextSort cycles through the sort keys.
func nextSort(k catalog.SortKey) catalog.SortKey {
	for i, candidate := range catalog.SortKeys {
		if candidate == k {
			return catalog.SortKeys[(i+1)%len(catalog.SortKeys)]
		}
	}
	return catalog.SortNewest
}

// parsePriceRange reads "min-max". Either side may be left out; an empty
// string clears the range.
func parsePriceRange(raw string) (float64, float64, error) {
	raw = strings.NewReplacer("$", "", ",", "", " ", "").Replace(raw)
	if raw == "" {
		return 0, math.Inf(1), nil
	}

	lo, hi, found := strings.Cut(raw, "-")
	if !found {
		return 0, 0, fmt.Errorf("price range %q must look like min-max", raw)
	}

	minPrice, maxPrice := 0.0, math.Inf(1)
	var err error
	if lo != "" {
		if minPrice, err = parsePrice(lo); err != nil {
			return 0, 0, fmt.Errorf("invalid minimum price %q", lo)
		}
	}
	if hi != "" {
		if maxPrice, err = parsePrice(hi); err != nil {
			return 0, 0, fmt.Errorf("invalid maximum price %q", hi)
		}
	}
	return minPrice, maxPrice, nil
}

// parsePrice accepts finite numbers only; ParseFloat would also take NaN and Inf.
func parsePrice(raw string) (float64, error) {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("price %q is not a finite number", raw)
	}
	return v, nil
}

// formatPriceInput renders the current range as parsePriceRange reads it.
func formatPriceInput(f catalog.FilterState) string {
	if f.MinPrice == 0 && math.IsInf(f.MaxPrice, 1) {
		return ""
	}
	out := ""
	if f.MinPrice > 0 {
		out = strconv.FormatFloat(f.MinPrice, 'f', -1, 64)
	}
	out += "-"
	if !math.IsInf(f.MaxPrice, 1) {
		out += strconv.FormatFloat(f.MaxPrice, 'f', -1, 64)
	}
	return out
}
