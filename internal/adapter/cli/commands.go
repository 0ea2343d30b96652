package cli

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strconv"

	"github.com/niksmo/minizon/internal/adapter/catalog"
	"github.com/niksmo/minizon/internal/core/port"
	"github.com/spf13/pflag"
)

func (c *CLI) registerCatalog() {
	c.register(Command{
		Group:       "catalog",
		Name:        "list",
		Args:        "[--category c] [--min p] [--max p] [--sort s]",
		Description: "List products",
		Run:         c.catalogList,
	})
	c.register(Command{
		Group:       "catalog",
		Name:        "categories",
		Description: "List categories",
		Run:         c.catalogCategories,
	})
	c.register(Command{
		Group:       "catalog",
		Name:        "show",
		Args:        "<id>",
		Description: "Show product details",
		Run:         c.catalogShow,
	})
	c.register(Command{
		Group:       "catalog",
		Name:        "search",
		Args:        "<query>",
		Description: "Search products by name, description, brand or category",
		Run:         c.catalogSearch,
	})
}

func (c *CLI) catalogList(_ context.Context, args []string) error {
	fs := pflag.NewFlagSet("catalog list", pflag.ContinueOnError)
	fs.SetOutput(c.out)
	category := fs.String("category", "", "category id")
	minPrice := fs.Float64("min", 0, "minimal price")
	maxPrice := fs.Float64("max", 0, "maximal price, 0 is unbounded")
	sort := fs.String("sort", catalog.SortFeatured,
		"featured, price-low, price-high, rating or newest")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	}
	if fs.NArg() != 0 {
		return fmt.Errorf("%w: unexpected arguments %q", ErrUsage, fs.Args())
	}
	if !catalog.ValidSort(*sort) {
		return fmt.Errorf("%w: %w %q", ErrUsage, catalog.ErrInvalidSort, *sort)
	}
	if *minPrice < 0 || *maxPrice < 0 {
		return fmt.Errorf("%w: price bounds must not be negative", ErrUsage)
	}

	ps := c.catalog.Products(port.ProductQuery{
		Category: *category,
		MinPrice: *minPrice,
		MaxPrice: *maxPrice,
		Sort:     *sort,
	})
	return printProducts(c.out, ps)
}

func (c *CLI) catalogCategories(_ context.Context, args []string) error {
	if err := requireArgs(args, 0, "catalog categories"); err != nil {
		return err
	}

	categories := c.catalog.Categories()
	counts := make([]int, len(categories))
	for i, category := range categories {
		counts[i] = len(c.catalog.Products(port.ProductQuery{Category: category.ID}))
	}
	return printCategories(c.out, categories, counts)
}

func (c *CLI) catalogShow(_ context.Context, args []string) error {
	if err := requireArgs(args, 1, "catalog show <id>"); err != nil {
		return err
	}
	p, err := c.catalog.Product(args[0])
	if err != nil {
		return err
	}
	return printProduct(c.out, p)
}

func (c *CLI) catalogSearch(_ context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: catalog search <query>", ErrUsage)
	}
	query := args[0]
	for _, a := range args[1:] {
		query += " " + a
	}
	return printProducts(c.out, c.catalog.Search(query))
}

func (c *CLI) registerCart() {
	c.register(Command{
		Group: "cart", Name: "show",
		Description: "Show the cart, the order summary and saved items",
		Run: func(context.Context, []string) error {
			return printCart(c.out, c.cart.Snapshot(), c.pricing)
		},
	})
	c.register(Command{
		Group: "cart", Name: "add", Args: "<id>",
		Description: "Add a product or increase its quantity",
		Run:         c.cartAdd,
	})
	c.register(Command{
		Group: "cart", Name: "remove", Args: "<id>",
		Description: "Remove a line",
		Run: c.cartByID("cart remove <id>", func(ctx context.Context, id string) {
			c.cart.RemoveFromCart(ctx, id)
		}),
	})
	c.register(Command{
		Group: "cart", Name: "qty", Args: "<id> <n>",
		Description: "Set the quantity, non-positive removes the line",
		Run:         c.cartQuantity,
	})
	c.register(Command{
		Group: "cart", Name: "clear",
		Description: "Empty the cart",
		Run: func(ctx context.Context, args []string) error {
			if err := requireArgs(args, 0, "cart clear"); err != nil {
				return err
			}
			return printCartStatus(c.out, c.cart.ClearCart(ctx))
		},
	})
	c.register(Command{
		Group: "cart", Name: "save", Args: "<id>",
		Description: "Move a line to saved for later",
		Run: c.cartByID("cart save <id>", func(ctx context.Context, id string) {
			c.cart.SaveForLater(ctx, id)
		}),
	})
	c.register(Command{
		Group: "cart", Name: "move", Args: "<id>",
		Description: "Move a saved product back to the cart",
		Run: c.cartByID("cart move <id>", func(ctx context.Context, id string) {
			c.cart.MoveToCart(ctx, id)
		}),
	})
	c.register(Command{
		Group: "cart", Name: "unsave", Args: "<id>",
		Description: "Drop a saved product",
		Run: c.cartByID("cart unsave <id>", func(ctx context.Context, id string) {
			c.cart.RemoveFromSaved(ctx, id)
		}),
	})
}

func (c *CLI) cartAdd(ctx context.Context, args []string) error {
	if err := requireArgs(args, 1, "cart add <id>"); err != nil {
		return err
	}
	p, err := c.catalog.Product(args[0])
	if err != nil {
		return err
	}
	return printCartStatus(c.out, c.cart.AddToCart(ctx, p))
}

func (c *CLI) cartQuantity(ctx context.Context, args []string) error {
	const usage = "cart qty <id> <n>"
	if err := requireArgs(args, 2, usage); err != nil {
		return err
	}
	n, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("%w: %s: quantity %q is not an integer", ErrUsage, usage, args[1])
	}
	return printCartStatus(c.out, c.cart.UpdateQuantity(ctx, args[0], n))
}

func (c *CLI) cartByID(
	usage string, fn func(ctx context.Context, id string),
) func(context.Context, []string) error {
	return func(ctx context.Context, args []string) error {
		if err := requireArgs(args, 1, usage); err != nil {
			return err
		}
		fn(ctx, args[0])
		return printCartStatus(c.out, c.cart.Snapshot())
	}
}

func (c *CLI) registerWishlist() {
	c.register(Command{
		Group: "wishlist", Name: "show",
		Description: "Show the wishlist",
		Run: func(context.Context, []string) error {
			return printWishlist(c.out, c.wishlist.Snapshot())
		},
	})
	c.register(Command{
		Group: "wishlist", Name: "add", Args: "<id>",
		Description: "Add a product",
		Run:         c.wishlistAdd,
	})
	c.register(Command{
		Group: "wishlist", Name: "remove", Args: "<id>",
		Description: "Remove a product",
		Run: func(ctx context.Context, args []string) error {
			if err := requireArgs(args, 1, "wishlist remove <id>"); err != nil {
				return err
			}
			return printWishlistStatus(c.out, c.wishlist.RemoveFromWishlist(ctx, args[0]))
		},
	})
	c.register(Command{
		Group: "wishlist", Name: "has", Args: "<id>",
		Description: "Report whether a product is in the wishlist",
		Run: func(_ context.Context, args []string) error {
			if err := requireArgs(args, 1, "wishlist has <id>"); err != nil {
				return err
			}
			answer := "no"
			if c.wishlist.IsInWishlist(args[0]) {
				answer = "yes"
			}
			_, err := fmt.Fprintln(c.out, answer)
			return err
		},
	})
	c.register(Command{
		Group: "wishlist", Name: "clear",
		Description: "Empty the wishlist",
		Run: func(ctx context.Context, args []string) error {
			if err := requireArgs(args, 0, "wishlist clear"); err != nil {
				return err
			}
			return printWishlistStatus(c.out, c.wishlist.ClearWishlist(ctx))
		},
	})
}

func (c *CLI) wishlistAdd(ctx context.Context, args []string) error {
	if err := requireArgs(args, 1, "wishlist add <id>"); err != nil {
		return err
	}
	p, err := c.catalog.Product(args[0])
	if err != nil {
		return err
	}
	return printWishlistStatus(c.out, c.wishlist.AddToWishlist(ctx, p))
}

func sortedKeys(m map[string]string) []string {
	return slices.Sorted(maps.Keys(m))
}
