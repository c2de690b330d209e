package main

import (
	"fmt"

	"github.com/nikolayk812/storefront-cart/internal/domain"
	"github.com/spf13/cobra"
)

var (
	addTitle      string
	addPrice      string
	addImage      string
	addHoverImage string
)

var cartCmd = &cobra.Command{
	Use:   "cart",
	Short: "Shopping cart commands",
}

var cartShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the rendered cart fragment and badge",
	RunE: func(cmd *cobra.Command, args []string) error {
		printCart(cmd)
		return nil
	},
}

var cartAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a catalog entry, or bump its quantity if the title is already in the cart",
	RunE: func(cmd *cobra.Command, args []string) error {
		amount, err := domain.ParsePrice(addPrice, env.prefix)
		if err != nil {
			return err
		}

		entry := domain.CatalogEntry{
			Title:      addTitle,
			Price:      domain.Money{Amount: amount, Currency: env.unit},
			Image:      addImage,
			HoverImage: addHoverImage,
		}

		if err := env.cart.Add(cmd.Context(), entry); err != nil {
			return fmt.Errorf("cart.Add: %w", err)
		}
		printCart(cmd)
		return nil
	},
}

var cartIncCmd = &cobra.Command{
	Use:   "inc [item-id]",
	Short: "Increase an item quantity by one",
	Args:  cobra.ExactArgs(1),
	RunE:  stepQuantity(1),
}

var cartDecCmd = &cobra.Command{
	Use:   "dec [item-id]",
	Short: "Decrease an item quantity by one, removing it at zero",
	Args:  cobra.ExactArgs(1),
	RunE:  stepQuantity(-1),
}

var cartRemoveCmd = &cobra.Command{
	Use:   "remove [item-id]",
	Short: "Remove an item from the cart",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := domain.ParseID(args[0])
		if err != nil {
			return fmt.Errorf("item id[%s] is not valid: %w", args[0], err)
		}
		if err := env.cart.Remove(cmd.Context(), id); err != nil {
			return fmt.Errorf("cart.Remove: %w", err)
		}
		printCart(cmd)
		return nil
	},
}

var cartClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Empty the cart",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := env.cart.Clear(cmd.Context()); err != nil {
			return fmt.Errorf("cart.Clear: %w", err)
		}
		printCart(cmd)
		return nil
	},
}

func init() {
	cartAddCmd.Flags().StringVar(&addTitle, "title", "", "product title")
	cartAddCmd.Flags().StringVar(&addPrice, "price", "", `catalog price text, e.g. "Rs. 1,500"`)
	cartAddCmd.Flags().StringVar(&addImage, "image", "", "default product image URL")
	cartAddCmd.Flags().StringVar(&addHoverImage, "hover-image", "", "hover product image URL")
	_ = cartAddCmd.MarkFlagRequired("title")
	_ = cartAddCmd.MarkFlagRequired("price")

	cartCmd.AddCommand(cartShowCmd, cartAddCmd, cartIncCmd, cartDecCmd, cartRemoveCmd, cartClearCmd)
}

func stepQuantity(delta int) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		id, err := domain.ParseID(args[0])
		if err != nil {
			return fmt.Errorf("item id[%s] is not valid: %w", args[0], err)
		}
		if err := env.cart.SetQuantity(cmd.Context(), id, delta); err != nil {
			return fmt.Errorf("cart.SetQuantity: %w", err)
		}
		printCart(cmd)
		return nil
	}
}

func printCart(cmd *cobra.Command) {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, env.view.Fragment())
	if badge := env.view.Badge(); badge != "" {
		fmt.Fprintln(out, badge)
	}
}
