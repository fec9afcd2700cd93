package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Veraticus/toko/internal/cli"
	"github.com/Veraticus/toko/internal/common"
	"github.com/Veraticus/toko/internal/model"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

// checkoutOptions are the checkout flags. Empty fields fall back to the saved
// checkout profile, then to the account.
type checkoutOptions struct {
	name     string
	email    string
	address  string
	payment  string
	quantity int
	yes      bool
}

// details merges the flags over the saved profile and the account.
func (o checkoutOptions) details(profile *model.CheckoutProfile, user model.User) model.CheckoutProfile {
	d := model.CheckoutProfile{
		Name:          user.Name,
		Email:         user.Email,
		PaymentMethod: model.PaymentCreditCard,
	}
	if profile != nil {
		d.Name = firstNonEmpty(profile.Name, d.Name)
		d.Email = firstNonEmpty(profile.Email, d.Email)
		d.ShippingAddress = profile.ShippingAddress
		if profile.PaymentMethod.IsValid() {
			d.PaymentMethod = profile.PaymentMethod
		}
	}

	d.Name = firstNonEmpty(o.name, d.Name)
	d.Email = firstNonEmpty(o.email, d.Email)
	d.ShippingAddress = firstNonEmpty(o.address, d.ShippingAddress)
	if p := strings.TrimSpace(o.payment); p != "" {
		d.PaymentMethod = model.PaymentMethod(strings.ToLower(p))
	}
	return d
}

// complete reports whether d can be submitted without asking anything.
func complete(d model.CheckoutProfile) bool {
	return d.Name != "" && d.Email != "" && d.ShippingAddress != "" && d.PaymentMethod.IsValid()
}

// buildOrder turns a single-book checkout into an order request.
func buildOrder(book model.Book, quantity int, d model.CheckoutProfile) (model.OrderRequest, error) {
	if quantity < 1 {
		return model.OrderRequest{}, fmt.Errorf("%w: quantity must be at least 1", model.ErrInvalidOrder)
	}
	if book.Stock < quantity {
		return model.OrderRequest{}, fmt.Errorf("%w: only %d of %q in stock", model.ErrInvalidOrder, book.Stock, book.Title)
	}

	req := model.OrderRequest{
		Name:            strings.TrimSpace(d.Name),
		Email:           strings.TrimSpace(d.Email),
		ShippingAddress: strings.TrimSpace(d.ShippingAddress),
		PaymentMethod:   d.PaymentMethod,
		Items: []model.OrderItem{{
			BookID:    book.ID,
			BookTitle: book.Title,
			Price:     book.Price,
			Quantity:  quantity,
		}},
	}
	if err := req.Validate(); err != nil {
		return model.OrderRequest{}, err
	}
	return req, nil
}

// askDetails prompts for every checkout field, offering d as the defaults.
func askDetails(ctx context.Context, p *cli.Prompter, d model.CheckoutProfile) (model.CheckoutProfile, error) {
	var err error
	if d.Name, err = p.AskRequired(ctx, "Name:", d.Name); err != nil {
		return d, err
	}
	if d.Email, err = p.AskRequired(ctx, "Email:", d.Email); err != nil {
		return d, err
	}
	if d.ShippingAddress, err = p.AskRequired(ctx, "Shipping address:", d.ShippingAddress); err != nil {
		return d, err
	}

	options := make([]string, len(model.PaymentMethods))
	for i, m := range model.PaymentMethods {
		options[i] = string(m)
	}
	def := string(d.PaymentMethod)
	if !d.PaymentMethod.IsValid() {
		def = string(model.PaymentCreditCard)
	}
	payment, err := p.Choose(ctx, "Payment method:", options, def)
	if err != nil {
		return d, err
	}
	d.PaymentMethod = model.PaymentMethod(payment)
	return d, nil
}

func checkoutCmd() *cobra.Command {
	var opts checkoutOptions

	cmd := &cobra.Command{
		Use:   "checkout <book-id>",
		Short: "Buy a book",
		Long: `Place an order for a single book. Details you do not pass as flags are
prompted for, prefilled from your last checkout.`,
		Example: `  toko checkout 64f1c2a9 --quantity 2
  toko checkout 64f1c2a9 --address "Jl. Merdeka 1, Jakarta" --payment cod --yes`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			handler := cli.NewInterruptHandler(cmd.ErrOrStderr(), "Checkout canceled; nothing was ordered.")
			ctx, stop := handler.HandleInterrupts(cmd.Context())
			defer stop()

			if opts.quantity < 1 {
				return fmt.Errorf("quantity must be at least 1")
			}

			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			client, sess, err := a.account(ctx)
			if err != nil {
				return err
			}
			store, err := a.storage(ctx)
			if err != nil {
				return err
			}

			book, err := client.GetBook(ctx, args[0])
			if err != nil {
				return fmt.Errorf("failed to load book %s: %w", args[0], err)
			}

			profile, err := store.GetCheckoutProfile(ctx, sess.BaseURL)
			if err != nil && !errors.Is(err, common.ErrNotFound) {
				return fmt.Errorf("failed to load checkout profile: %w", err)
			}

			details := opts.details(profile, sess.User)
			p := a.prompter()
			if !opts.yes || !complete(details) {
				if details, err = askDetails(ctx, p, details); err != nil {
					return err
				}
			}

			req, err := buildOrder(*book, opts.quantity, details)
			if err != nil {
				return common.NewUserError("Cannot place the order: "+err.Error(), err)
			}

			money := a.money()
			total := decimal.NewFromFloat(book.Price).Mul(decimal.NewFromInt(int64(opts.quantity)))
			fmt.Fprintln(a.out)
			fmt.Fprintln(a.out, cli.RenderBox(cli.OrderIcon+" Order summary", strings.Join([]string{
				fmt.Sprintf("%d × %s", opts.quantity, book.Title),
				"Ship to: " + req.ShippingAddress,
				"Payment: " + string(req.PaymentMethod),
				"Total:   " + cli.PriceStyle.Render(money.FormatDecimal(total)),
			}, "\n")))

			if !opts.yes {
				ok, err := p.Confirm(ctx, "Place this order?", true)
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(a.out, cli.FormatInfo("Nothing was ordered."))
					return nil
				}
			}

			order, err := client.PlaceOrder(ctx, req)
			if err != nil {
				return a.accountError(ctx, fmt.Errorf("failed to place order: %w", err))
			}

			details.UpdatedAt = time.Now()
			if err := store.SaveCheckoutProfile(ctx, sess.BaseURL, &details); err != nil {
				slog.Warn("Failed to save checkout profile", "error", err)
			}

			msg := "Order placed"
			if order != nil && order.ID != "" {
				msg = fmt.Sprintf("Order %s placed", order.ID)
			}
			fmt.Fprintln(a.out, cli.FormatSuccess(msg))
			return nil
		},
	}

	cmd.Flags().IntVarP(&opts.quantity, "quantity", "n", 1, "number of copies")
	cmd.Flags().StringVar(&opts.name, "name", "", "recipient name")
	cmd.Flags().StringVar(&opts.email, "email", "", "contact email")
	cmd.Flags().StringVar(&opts.address, "address", "", "shipping address")
	cmd.Flags().StringVar(&opts.payment, "payment", "", "payment method (credit_card, bank_transfer, e_wallet, cod)")
	cmd.Flags().BoolVarP(&opts.yes, "yes", "y", false, "do not prompt when every detail is known")

	return cmd
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
