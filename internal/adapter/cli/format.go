package cli

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/niksmo/minizon/internal/core/domain"
)

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func money(v float64) string {
	return "$" + strconv.FormatFloat(v, 'f', 2, 64)
}

func stock(p domain.Product) string {
	if p.InStock {
		return "in stock"
	}
	return "out of stock"
}

func printProducts(w io.Writer, ps []domain.Product) error {
	if len(ps) == 0 {
		_, err := fmt.Fprintln(w, "No products found")
		return err
	}

	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tNAME\tPRICE\tRATING\tCATEGORY\tSTOCK")
	for _, p := range ps {
		price := money(p.Price)
		if d := p.Discount(); d > 0 {
			price = fmt.Sprintf("%s (-%d%%)", price, d)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%.1f\t%s\t%s\n",
			p.ID, p.Name, price, p.Rating, p.Category, stock(p))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%d products found\n", len(ps))
	return err
}

func printCategories(w io.Writer, categories []domain.Category, counts []int) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tNAME\tPRODUCTS")
	for i, category := range categories {
		fmt.Fprintf(tw, "%s\t%s\t%d\n", category.ID, category.Name, counts[i])
	}
	return tw.Flush()
}

func printProduct(w io.Writer, p domain.Product) error {
	tw := newTable(w)
	fmt.Fprintf(tw, "ID:\t%s\n", p.ID)
	fmt.Fprintf(tw, "Name:\t%s\n", p.Name)
	fmt.Fprintf(tw, "Brand:\t%s\n", p.Brand)
	fmt.Fprintf(tw, "Category:\t%s\n", p.Category)
	fmt.Fprintf(tw, "Price:\t%s\n", money(p.Price))
	if p.OriginalPrice != nil {
		fmt.Fprintf(tw, "Was:\t%s (-%d%%)\n", money(*p.OriginalPrice), p.Discount())
	}
	fmt.Fprintf(tw, "Rating:\t%.1f (%d reviews)\n", p.Rating, p.ReviewCount)
	fmt.Fprintf(tw, "Stock:\t%s\n", stock(p))
	fmt.Fprintf(tw, "Description:\t%s\n", p.Description)
	for _, k := range sortedKeys(p.Specifications) {
		fmt.Fprintf(tw, "  %s:\t%s\n", k, p.Specifications[k])
	}
	return tw.Flush()
}

func printCart(w io.Writer, cart domain.Cart, pricing domain.Pricing) error {
	if len(cart.Items) == 0 {
		fmt.Fprintln(w, "Your cart is empty")
	} else {
		tw := newTable(w)
		fmt.Fprintln(tw, "ID\tNAME\tPRICE\tQTY\tTOTAL")
		for _, it := range cart.Items {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n",
				it.Product.ID, it.Product.Name, money(it.Product.Price),
				it.Quantity, money(it.Product.Price*float64(it.Quantity)))
		}
		if err := tw.Flush(); err != nil {
			return err
		}

		s := cart.Summary(pricing)
		shipping := money(s.Shipping)
		if s.Shipping == 0 {
			shipping = "FREE"
		}
		tw = newTable(w)
		fmt.Fprintln(tw)
		fmt.Fprintf(tw, "Items:\t%d\n", cart.ItemCount())
		fmt.Fprintf(tw, "Subtotal:\t%s\n", money(s.Subtotal))
		fmt.Fprintf(tw, "Shipping:\t%s\n", shipping)
		fmt.Fprintf(tw, "Tax:\t%s\n", money(s.Tax))
		fmt.Fprintf(tw, "Total:\t%s\n", money(s.Total))
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	if len(cart.Saved) == 0 {
		return nil
	}

	fmt.Fprintf(w, "\nSaved for later (%d):\n", len(cart.Saved))
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tNAME\tPRICE")
	for _, p := range cart.Saved {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", p.ID, p.Name, money(p.Price))
	}
	return tw.Flush()
}

func printCartStatus(w io.Writer, cart domain.Cart) error {
	_, err := fmt.Fprintf(w, "cart: %d items, %s; saved: %d\n",
		cart.ItemCount(), money(cart.Total()), len(cart.Saved))
	return err
}

func printWishlist(w io.Writer, wl domain.Wishlist) error {
	if wl.Len() == 0 {
		_, err := fmt.Fprintln(w, "Your wishlist is empty")
		return err
	}

	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tNAME\tPRICE\tSTOCK")
	for _, p := range wl.Items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", p.ID, p.Name, money(p.Price), stock(p))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%d items\n", wl.Len())
	return err
}

func printWishlistStatus(w io.Writer, wl domain.Wishlist) error {
	_, err := fmt.Fprintf(w, "wishlist: %d items\n", wl.Len())
	return err
}
