package cli

import (
	"errors"
	"fmt"
	"strings"

	"hope-store/internal/model"

	"github.com/spf13/cobra"
)

// CartView is the cart as printed by the cart commands.
type CartView struct {
	Open  bool            `json:"open"`
	Count int             `json:"count"`
	Items []model.Product `json:"items"`
}

// NewCartCommand creates the cart command and its subcommands.
func NewCartCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Inspect and change the wishlist cart",
	}

	cmd.AddCommand(newCartListCommand(rootOpts))
	cmd.AddCommand(newCartToggleCommand(rootOpts))
	cmd.AddCommand(newCartRemoveCommand(rootOpts))
	cmd.AddCommand(newCartOpenCommand(rootOpts))
	cmd.AddCommand(newCartCountCommand(rootOpts))
	cmd.AddCommand(newCartWatchCommand(rootOpts))

	return cmd
}

func newCartListCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "list",
		Short:         "Print the selected items",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := newFormatter(rootOpts, cmd)
			s, err := openSession(cmd.Context(), rootOpts, newLogger(rootOpts, cmd))
			if err != nil {
				formatter.Error(ErrCodeGeneric, err.Error())
				return err
			}
			defer s.close()

			return printCart(formatter, s)
		},
	}
}

func newCartToggleCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "toggle <product-id>",
		Short:         "Add the item if it is not selected, remove it otherwise",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCartMutation(rootOpts, cmd, args[0], true)
		},
	}
}

func newCartRemoveCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "remove <product-id>",
		Short:         "Remove the item from the cart",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCartMutation(rootOpts, cmd, args[0], false)
		},
	}
}

func runCartMutation(opts *RootOptions, cmd *cobra.Command, id string, toggle bool) error {
	formatter := newFormatter(opts, cmd)
	s, err := openSession(cmd.Context(), opts, newLogger(opts, cmd))
	if err != nil {
		formatter.Error(ErrCodeGeneric, err.Error())
		return err
	}
	defer s.close()

	if toggle {
		err = s.engine.Toggle(cmd.Context(), id)
	} else {
		err = s.engine.Remove(cmd.Context(), id)
	}

	switch {
	case errors.Is(err, model.ErrProductNotFound):
		formatter.Error(ErrCodeUnknownProduct, fmt.Sprintf("unknown product %q", id))
		return WrapExitError(ExitCommandError, "unknown product "+id, err)
	case err != nil:
		formatter.Error(ErrCodeStorage, err.Error())
		return WrapExitError(ExitFailure, "cart change was not saved", err)
	}

	formatter.VerboseLog("%s %s: cart now has %d item(s)", cmd.Name(), id, s.engine.Len())
	return printCart(formatter, s)
}

func newCartOpenCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "open",
		Short:         "Open the cart drawer and print its contents",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := newFormatter(rootOpts, cmd)
			s, err := openSession(cmd.Context(), rootOpts, newLogger(rootOpts, cmd))
			if err != nil {
				formatter.Error(ErrCodeGeneric, err.Error())
				return err
			}
			defer s.close()

			s.engine.OpenCart()
			return printCart(formatter, s)
		},
	}
}

func newCartCountCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "count",
		Short:         "Print the navigation badge count",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := newFormatter(rootOpts, cmd)
			s, err := openSession(cmd.Context(), rootOpts, newLogger(rootOpts, cmd))
			if err != nil {
				formatter.Error(ErrCodeGeneric, err.Error())
				return err
			}
			defer s.close()

			s.badge.Focus(cmd.Context())
			n := s.badge.Count()
			return formatter.Success(map[string]int{"count": n}, fmt.Sprintf("%d", n))
		},
	}
}

func newCartWatchCommand(rootOpts *RootOptions) *cobra.Command {
	var maxUpdates int

	cmd := &cobra.Command{
		Use:           "watch",
		Short:         "Follow changes made by other tabs",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := newFormatter(rootOpts, cmd)
			s, err := openSession(cmd.Context(), rootOpts, newLogger(rootOpts, cmd))
			if err != nil {
				formatter.Error(ErrCodeGeneric, err.Error())
				return err
			}
			defer s.close()

			updates := make(chan []string, 16)
			unsubscribe := s.engine.Subscribe(func(ids []string) {
				select {
				case updates <- ids:
				default:
				}
			})
			defer unsubscribe()

			if err := printCart(formatter, s); err != nil {
				return err
			}

			for seen := 0; maxUpdates == 0 || seen < maxUpdates; seen++ {
				select {
				case <-cmd.Context().Done():
					return nil
				case ids := <-updates:
					formatter.VerboseLog("cart changed in another tab")
					if err := formatter.Success(ids, fmt.Sprintf("%d item(s): %s", len(ids), strings.Join(ids, ", "))); err != nil {
						return err
					}
				}
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&maxUpdates, "max-updates", 0, "exit after this many changes (0 follows until interrupted)")

	return cmd
}

func printCart(formatter *OutputFormatter, s *session) error {
	items := s.engine.Selection()
	view := CartView{Open: s.engine.IsCartOpen(), Count: len(items), Items: items}

	lines := []string{fmt.Sprintf("Cart (%d item(s))", len(items))}
	for _, p := range items {
		lines = append(lines, fmt.Sprintf("- %s  %s  %s  [%s]", p.Model, p.Condition, p.Price, p.ID))
	}
	return formatter.Success(view, lines...)
}
