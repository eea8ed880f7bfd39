package cli

import (
	"fmt"

	"hope-store/internal/catalog"
	"hope-store/internal/client"
	"hope-store/internal/model"
	"hope-store/internal/order"

	"github.com/spf13/cobra"
)

// OrderView is the order as printed by the order commands.
type OrderView struct {
	ProductID    string `json:"productId"`
	Model        string `json:"model"`
	Storage      string `json:"storage"`
	Price        string `json:"price"`
	Message      string `json:"message"`
	Link         string `json:"link"`
	CodeImageURL string `json:"codeImageUrl"`
}

// NewOrderCommand creates the order command and its subcommands.
func NewOrderCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "order",
		Short: "Start an order with the sales contact",
	}

	cmd.AddCommand(newOrderStartCommand(rootOpts))
	cmd.AddCommand(newOrderLinkCommand(rootOpts))

	return cmd
}

// orderBuilder uses the contact from the flags; blanks fall back to the
// storefront defaults.
func orderBuilder(opts *RootOptions) *order.Builder {
	cfg := order.DefaultConfig()
	cfg.ContactName = opts.ContactName
	cfg.ContactNumber = opts.ContactNumber
	return order.NewBuilder(cfg)
}

func newOrderStartCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "start <product-id>",
		Short: "Print the order message, link and code image, and log the inquiry",
		Long: `Builds the contact message and deep link for a product. When --api is
set the inquiry is logged there; a failed log does not fail the order.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := newFormatter(rootOpts, cmd)
			logger := newLogger(rootOpts, cmd)

			p, err := lookupProduct(cmd, rootOpts, args[0])
			if err != nil {
				formatter.Error(ErrCodeUnknownProduct, err.Error())
				return err
			}

			var inquiries order.InquiryLogger
			if rootOpts.APIURL != "" {
				inquiries = client.New(rootOpts.APIURL, logger)
				formatter.VerboseLog("logging inquiry to %s", rootOpts.APIURL)
			}

			flow := order.NewFlow(orderBuilder(rootOpts), inquiries, logger)
			flow.StartOrder(cmd.Context(), p)
			flow.Wait()

			view := orderView(flow.Builder(), p)
			return formatter.Success(view,
				fmt.Sprintf("Order: %s (%s, %s)", view.Model, view.Storage, view.Price),
				"Message: "+view.Message,
				"Link: "+view.Link,
				"Code image: "+view.CodeImageURL,
			)
		},
	}
}

func newOrderLinkCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "link <product-id>",
		Short:         "Print only the deep link for a product",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := newFormatter(rootOpts, cmd)

			p, err := lookupProduct(cmd, rootOpts, args[0])
			if err != nil {
				formatter.Error(ErrCodeUnknownProduct, err.Error())
				return err
			}

			link := orderBuilder(rootOpts).Link(p)
			return formatter.Success(map[string]string{"link": link}, link)
		},
	}
}

func lookupProduct(cmd *cobra.Command, opts *RootOptions, id string) (model.Product, error) {
	logger := newLogger(opts, cmd)
	products, err := catalog.LoadAll(cmd.Context(), catalog.NewFileLoader(logger), opts.CatalogPaths, logger)
	if err != nil {
		return model.Product{}, WrapExitError(ExitCommandError, "failed to load catalogue", err)
	}

	p, ok := products.Lookup(id)
	if !ok {
		return model.Product{}, WrapExitError(ExitCommandError, fmt.Sprintf("unknown product %q", id), model.ErrProductNotFound)
	}
	return p, nil
}

func orderView(b *order.Builder, p model.Product) OrderView {
	return OrderView{
		ProductID:    p.ID,
		Model:        b.DisplayName(p),
		Storage:      b.PrimaryStorage(p),
		Price:        p.Price,
		Message:      b.Message(p),
		Link:         b.Link(p),
		CodeImageURL: b.CodeImageURL(p),
	}
}
