package main

import (
	"context"
	"fmt"
	"math"

	"github.com/Veraticus/toko/internal/catalog"
	"github.com/Veraticus/toko/internal/cli"
	"github.com/Veraticus/toko/internal/model"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func booksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "books",
		Aliases: []string{"book", "catalog"},
		Short:   "Browse the catalog",
		Long:    `List, search and inspect the books in the store catalog.`,
	}

	cmd.AddCommand(listBooksCmd())
	cmd.AddCommand(showBookCmd())
	cmd.AddCommand(newReleasesCmd())

	return cmd
}

// bookListOptions are the catalog filters accepted by 'books list'.
type bookListOptions struct {
	category string
	query    string
	sort     string
	minPrice float64
	maxPrice float64
	page     int
	pageSize int
	hasMax   bool
}

// filter validates the options and builds the filter state.
func (o bookListOptions) filter() (catalog.FilterState, error) {
	f := catalog.DefaultFilter()

	category, err := catalog.ParseCategoryFilter(o.category)
	if err != nil {
		return f, err
	}
	sortKey, err := catalog.ParseSortKey(o.sort)
	if err != nil {
		return f, err
	}
	if !isFinite(o.minPrice) || (o.hasMax && !isFinite(o.maxPrice)) {
		return f, fmt.Errorf("prices must be finite numbers")
	}
	if o.minPrice < 0 || (o.hasMax && o.maxPrice < 0) {
		return f, fmt.Errorf("prices cannot be negative")
	}

	f.Category = category
	f.Sort = sortKey
	f.Query = o.query
	f.MinPrice = o.minPrice
	f.MaxPrice = math.Inf(1)
	if o.hasMax {
		f.MaxPrice = o.maxPrice
	}
	return f, nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// bookPage applies the options to books. A page past the end is reported as
// such rather than clamped.
func (o bookListOptions) bookPage(books []model.Book, opts ...catalog.Option) (cli.BookPage, error) {
	f, err := o.filter()
	if err != nil {
		return cli.BookPage{}, err
	}
	if o.page < 1 {
		return cli.BookPage{}, fmt.Errorf("page must be at least 1")
	}

	if o.pageSize > 0 {
		opts = append(opts, catalog.WithPageSize(o.pageSize))
	}
	vm := catalog.NewViewModel(opts...)
	vm.Load(books)
	vm.SetFilter(f)
	vm.SetPage(o.page)

	page := cli.NewBookPage(vm)
	if o.page > page.TotalPages && page.TotalPages > 0 {
		page.Page = o.page
		page.Books = nil
	}
	return page, nil
}

func listBooksCmd() *cobra.Command {
	var opts bookListOptions

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List books, one page at a time",
		Long: `List the catalog filtered by category, title search and price range,
sorted and split into pages.`,
		Example: `  toko books list --category fiction --sort price-asc
  toko books list --query harry --max 20 --page 2`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			opts.hasMax = cmd.Flags().Changed("max")

			format, err := cli.ParseFormat(outputFormat)
			if err != nil {
				return err
			}
			if _, err := opts.filter(); err != nil {
				return err
			}

			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			if !cmd.Flags().Changed("page-size") {
				opts.pageSize = a.settings.PageSize
			}

			var books []model.Book
			err = a.spinner().Run(ctx, "Loading catalog", func(ctx context.Context) error {
				var err error
				books, err = a.client.ListBooks(ctx)
				return err
			})
			if err != nil {
				return fmt.Errorf("failed to load catalog: %w", err)
			}

			page, err := opts.bookPage(books, catalog.WithLocale(a.settings.Locale))
			if err != nil {
				return err
			}

			if format != cli.FormatTable {
				return cli.Encode(a.out, format, page.View())
			}
			return a.renderer().BookPage(page)
		},
	}

	cmd.Flags().StringVarP(&opts.category, "category", "c", "all", "category (all, programming, design, business, science, fiction, general)")
	cmd.Flags().StringVarP(&opts.query, "query", "q", "", "only titles containing this text")
	cmd.Flags().Float64Var(&opts.minPrice, "min", 0, "minimum price")
	cmd.Flags().Float64Var(&opts.maxPrice, "max", 0, "maximum price (default: no limit)")
	cmd.Flags().StringVarP(&opts.sort, "sort", "s", string(catalog.SortNewest), "sort order (newest, price-asc, price-desc, title)")
	cmd.Flags().IntVarP(&opts.page, "page", "p", 1, "page number")
	cmd.Flags().IntVar(&opts.pageSize, "page-size", catalog.DefaultPageSize, "books per page")

	return cmd
}

func showBookCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <book-id>",
		Short: "Show a book with its reviews",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			format, err := cli.ParseFormat(outputFormat)
			if err != nil {
				return err
			}

			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			var (
				book    *model.Book
				reviews []model.Review
			)
			err = a.spinner().Run(ctx, "Loading book", func(ctx context.Context) error {
				g, gctx := errgroup.WithContext(ctx)
				g.Go(func() error {
					var err error
					book, err = a.client.GetBook(gctx, args[0])
					return err
				})
				g.Go(func() error {
					var err error
					reviews, err = a.client.BookReviews(gctx, args[0])
					return err
				})
				return g.Wait()
			})
			if err != nil {
				return fmt.Errorf("failed to load book %s: %w", args[0], err)
			}

			if format != cli.FormatTable {
				return cli.Encode(a.out, format, cli.NewBookDetailView(*book, reviews))
			}
			return a.renderer().BookDetail(*book, reviews)
		},
	}
}

func newReleasesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "new",
		Short: "List new releases",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			format, err := cli.ParseFormat(outputFormat)
			if err != nil {
				return err
			}

			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			var books []model.Book
			err = a.spinner().Run(ctx, "Loading new releases", func(ctx context.Context) error {
				var err error
				books, err = a.client.NewReleases(ctx)
				return err
			})
			if err != nil {
				return fmt.Errorf("failed to load new releases: %w", err)
			}

			if format != cli.FormatTable {
				views := make([]cli.BookView, len(books))
				for i, b := range books {
					views[i] = cli.NewBookView(b)
				}
				return cli.Encode(a.out, format, views)
			}
			return a.renderer().Books(books)
		},
	}
}
