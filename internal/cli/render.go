package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"unicode/utf8"

	"github.com/Veraticus/toko/internal/catalog"
	"github.com/Veraticus/toko/internal/model"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const maxTitleWidth = 42

// CategoryName returns the display name of a category or category filter.
func CategoryName(c model.Category) string {
	return cases.Title(language.English).String(string(c))
}

// Truncate shortens s to at most n runes, marking the cut with an ellipsis.
func Truncate(s string, n int) string {
	if n <= 0 || utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n-1]) + "…"
}

// PaginationLine renders a PageWindow with the current page highlighted.
func PaginationLine(window []int, current int) string {
	parts := make([]string, 0, len(window))
	for _, p := range window {
		switch p {
		case catalog.Ellipsis:
			parts = append(parts, SubtleStyle.Render("…"))
		case current:
			parts = append(parts, CurrentPageStyle.Render("["+strconv.Itoa(p)+"]"))
		default:
			parts = append(parts, strconv.Itoa(p))
		}
	}
	return strings.Join(parts, " ")
}

// BookPage is one page of a filtered catalog listing.
type BookPage struct {
	Filter     catalog.FilterState
	Books      []model.Book
	Window     []int
	Page       int
	PageSize   int
	TotalPages int
	Total      int
}

// NewBookPage captures the current page of vm.
func NewBookPage(vm *catalog.ViewModel) BookPage {
	return BookPage{
		Filter:     vm.Filter(),
		Books:      vm.Page(),
		Window:     vm.Window(),
		Page:       vm.CurrentPage(),
		PageSize:   vm.PageSize(),
		TotalPages: vm.TotalPages(),
		Total:      vm.FilteredCount(),
	}
}

// View converts the page for structured output.
func (p BookPage) View() BookPageView {
	books := make([]BookView, len(p.Books))
	for i, b := range p.Books {
		books[i] = NewBookView(b)
	}
	return BookPageView{
		Books:      books,
		Page:       p.Page,
		PageSize:   p.PageSize,
		TotalPages: p.TotalPages,
		Total:      p.Total,
	}
}

// Renderer writes storefront data as styled tables.
type Renderer struct {
	w             io.Writer
	markdownStyle string
	money         Money
	width         int
}

// RendererOption configures a Renderer.
type RendererOption func(*Renderer)

// WithWidth sets the wrap width for descriptions.
func WithWidth(width int) RendererOption {
	return func(r *Renderer) {
		if width > 0 {
			r.width = width
		}
	}
}

// WithMarkdownStyle sets the glamour style used for descriptions.
func WithMarkdownStyle(style string) RendererOption {
	return func(r *Renderer) {
		r.markdownStyle = style
	}
}

// NewRenderer creates a renderer writing to w.
func NewRenderer(w io.Writer, money Money, opts ...RendererOption) *Renderer {
	r := &Renderer{w: w, money: money, width: DefaultWrapWidth}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Money returns the renderer's money formatter.
func (r *Renderer) Money() Money {
	return r.money
}

// Println writes a line.
func (r *Renderer) Println(a ...any) {
	_, _ = fmt.Fprintln(r.w, a...)
}

// BookPage writes one page of a listing with a pagination footer.
func (r *Renderer) BookPage(page BookPage) error {
	if page.Total == 0 {
		r.Println(InfoStyle.Render("No books match the current filters."))
		if page.Filter.HasEmptyPriceRange() {
			r.Println(SubtleStyle.Render("The minimum price is above the maximum price."))
		}
		return nil
	}
	if len(page.Books) == 0 {
		r.Println(InfoStyle.Render(fmt.Sprintf("Page %d is past the end; there are %d pages.", page.Page, page.TotalPages)))
		return nil
	}

	if err := r.bookTable(page.Books); err != nil {
		return err
	}

	first := (page.Page-1)*page.PageSize + 1
	last := first + len(page.Books) - 1
	r.Println()
	r.Println(SubtleStyle.Render(fmt.Sprintf("Showing %d-%d of %d books · page %d of %d", first, last, page.Total, page.Page, page.TotalPages)))
	if page.TotalPages > 1 {
		r.Println(PaginationLine(page.Window, page.Page))
	}
	return nil
}

// Books writes an unpaginated list.
func (r *Renderer) Books(books []model.Book) error {
	if len(books) == 0 {
		r.Println(InfoStyle.Render("No books found."))
		return nil
	}
	return r.bookTable(books)
}

func (r *Renderer) bookTable(books []model.Book) error {
	tw := tabwriter.NewWriter(r.w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
		TableHeaderStyle.Render("ID"),
		TableHeaderStyle.Render("Title"),
		TableHeaderStyle.Render("Author"),
		TableHeaderStyle.Render("Category"),
		TableHeaderStyle.Render("Price"),
		TableHeaderStyle.Render("Stock"))

	for _, b := range books {
		stock := strconv.Itoa(b.Stock)
		if !b.IsAvailable() {
			stock = ErrorStyle.Render("out")
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			b.ID,
			Truncate(b.Title, maxTitleWidth),
			Truncate(b.Author, 24),
			CategoryName(b.Category),
			r.money.Format(b.Price),
			stock)
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("failed to write table: %w", err)
	}
	return nil
}

// BookDetail writes a book with its description and reviews.
func (r *Renderer) BookDetail(b model.Book, reviews []model.Review) error {
	var sb strings.Builder
	if b.Subtitle != "" {
		sb.WriteString(SubtitleStyle.Render(b.Subtitle) + "\n")
	}
	if b.Author != "" {
		sb.WriteString("by " + BoldStyle.Render(b.Author) + "\n")
	}
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "Price:    %s\n", PriceStyle.Render(r.money.Format(b.Price)))
	fmt.Fprintf(&sb, "Category: %s\n", CategoryName(b.Category))
	if b.IsAvailable() {
		fmt.Fprintf(&sb, "Stock:    %d\n", b.Stock)
	} else {
		fmt.Fprintf(&sb, "Stock:    %s\n", ErrorStyle.Render("out of stock"))
	}
	if b.ISBN != "" {
		fmt.Fprintf(&sb, "ISBN:     %s\n", b.ISBN)
	}
	fmt.Fprintf(&sb, "ID:       %s", b.ID)

	r.Println(RenderBox(BookIcon+" "+b.Title, sb.String()))

	if desc, err := RenderMarkdown(b.Description, r.width, r.markdownStyle); err != nil {
		r.Println(b.Description)
	} else if desc != "" {
		r.Println(desc)
	}

	r.Println()
	r.Println(FormatTitle(StarIcon, fmt.Sprintf("Reviews (%d)", len(reviews))))
	if len(reviews) == 0 {
		r.Println(SubtleStyle.Render("No reviews yet."))
		return nil
	}
	for _, rv := range reviews {
		line := FormatRating(rv.Rating) + " " + BoldStyle.Render(rv.AuthorName)
		if !rv.CreatedAt.IsZero() {
			line += " " + SubtleStyle.Render(rv.CreatedAt.Format("2 Jan 2006"))
		}
		r.Println(line)
		if rv.Comment != "" {
			r.Println("  " + rv.Comment)
		}
	}
	return nil
}

// Cart writes the cart lines and total.
func (r *Renderer) Cart(c model.Cart) error {
	if len(c.Items) == 0 {
		r.Println(InfoStyle.Render("Your cart is empty."))
		return nil
	}

	tw := tabwriter.NewWriter(r.w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
		TableHeaderStyle.Render("Book"),
		TableHeaderStyle.Render("Title"),
		TableHeaderStyle.Render("Qty"),
		TableHeaderStyle.Render("Price"),
		TableHeaderStyle.Render("Subtotal"))
	for _, item := range c.Items {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n",
			item.Book.ID,
			Truncate(item.Book.Title, maxTitleWidth),
			item.Quantity,
			r.money.Format(item.Price),
			r.money.FormatDecimal(item.Subtotal()))
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("failed to write table: %w", err)
	}

	r.Println()
	r.Println(fmt.Sprintf("%s %d items · total %s", CartIcon, c.Quantity(), PriceStyle.Render(r.money.FormatDecimal(c.Total()))))
	return nil
}

// Wishlist writes the saved books.
func (r *Renderer) Wishlist(items []model.WishlistItem) error {
	if len(items) == 0 {
		r.Println(InfoStyle.Render("Your wishlist is empty."))
		return nil
	}

	tw := tabwriter.NewWriter(r.w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
		TableHeaderStyle.Render("Item"),
		TableHeaderStyle.Render("Book"),
		TableHeaderStyle.Render("Title"),
		TableHeaderStyle.Render("Price"),
		TableHeaderStyle.Render("Available"))
	for _, item := range items {
		available := SuccessStyle.Render("yes")
		if !item.Book.IsAvailable() {
			available = ErrorStyle.Render("no")
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			item.ID,
			item.Book.ID,
			Truncate(item.Book.Title, maxTitleWidth),
			r.money.Format(item.Book.Price),
			available)
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("failed to write table: %w", err)
	}
	return nil
}

// Orders writes the order history.
func (r *Renderer) Orders(orders []model.Order) error {
	if len(orders) == 0 {
		r.Println(InfoStyle.Render("You have no orders yet."))
		return nil
	}

	for i, o := range orders {
		if i > 0 {
			r.Println()
		}
		header := fmt.Sprintf("%s Order %s  %s", OrderIcon, BoldStyle.Render(shortID(o.ID)), statusStyle(o.Status).Render(string(o.Status)))
		if !o.CreatedAt.IsZero() {
			header += "  " + SubtleStyle.Render(o.CreatedAt.Format("2 Jan 2006 15:04"))
		}
		r.Println(header)

		for _, item := range o.Items {
			title := item.BookTitle
			if title == "" {
				title = item.BookID
			}
			r.Println(fmt.Sprintf("  %d × %s  %s", item.Quantity, Truncate(title, maxTitleWidth), r.money.FormatDecimal(item.Subtotal())))
		}
		r.Println(fmt.Sprintf("  Total %s", PriceStyle.Render(r.money.FormatDecimal(o.Total()))))
		if o.ShippingAddress != "" {
			r.Println(SubtleStyle.Render("  Ship to: " + o.ShippingAddress))
		}
	}
	return nil
}

func shortID(id string) string {
	if id == "" {
		return "(pending)"
	}
	if len(id) > 8 {
		return "#" + id[:8]
	}
	return "#" + id
}

func statusStyle(s model.OrderStatus) lipgloss.Style {
	switch s {
	case model.OrderDelivered:
		return SuccessStyle
	case model.OrderCancelled:
		return ErrorStyle
	case model.OrderShipped, model.OrderProcessing:
		return InfoStyle
	default:
		return WarningStyle
	}
}
