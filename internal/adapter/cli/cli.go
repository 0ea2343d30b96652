package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/niksmo/minizon/internal/core/domain"
	"github.com/niksmo/minizon/internal/core/port"
)

const prompt = "minizon> "

var ErrUsage = errors.New("usage")

// A Command is one "<group> <name>" action.
type Command struct {
	Group       string
	Name        string
	Args        string
	Description string
	Run         func(ctx context.Context, args []string) error
}

func (c Command) usage() string {
	return strings.TrimSpace(strings.Join([]string{c.Group, c.Name, c.Args}, " "))
}

// A CLI dispatches commands onto the stores.
type CLI struct {
	cart     port.CartManager
	wishlist port.WishlistManager
	catalog  port.ProductCatalog
	pricing  domain.Pricing
	in       io.Reader
	out      io.Writer
	commands []Command
}

func New(
	cart port.CartManager,
	wishlist port.WishlistManager,
	catalog port.ProductCatalog,
	pricing domain.Pricing,
	in io.Reader,
	out io.Writer,
) *CLI {
	const op = "cli.New"

	if cart == nil || wishlist == nil || catalog == nil || in == nil || out == nil {
		panic(op + ": nil dependency") // develop mistake
	}

	c := &CLI{
		cart:     cart,
		wishlist: wishlist,
		catalog:  catalog,
		pricing:  pricing,
		in:       in,
		out:      out,
	}
	c.registerCatalog()
	c.registerCart()
	c.registerWishlist()
	return c
}

func (c *CLI) register(cmd Command) {
	c.commands = append(c.commands, cmd)
}

// Run executes args of the form "<group> <command> [args]".
//
// Usage mistakes are reported with [ErrUsage] wrapped.
func (c *CLI) Run(ctx context.Context, args []string) error {
	const op = "CLI.Run"

	if len(args) == 0 {
		c.PrintHelp()
		return fmt.Errorf("%s: %w: no command specified", op, ErrUsage)
	}

	switch args[0] {
	case "help", "-h", "--help":
		c.PrintHelp()
		return nil
	case "shell":
		if err := c.RunShell(ctx); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		return nil
	}

	if len(args) < 2 {
		return fmt.Errorf("%s: %w: %q requires a command", op, ErrUsage, args[0])
	}

	for _, cmd := range c.commands {
		if cmd.Group == args[0] && cmd.Name == args[1] {
			if err := cmd.Run(ctx, args[2:]); err != nil {
				return fmt.Errorf("%s: %w", op, err)
			}
			return nil
		}
	}
	return fmt.Errorf("%s: %w: unknown command %q", op, ErrUsage, args[0]+" "+args[1])
}

// RunShell executes commands read line by line until EOF or "exit".
//
// Command errors are printed and do not stop the shell.
func (c *CLI) RunShell(ctx context.Context) error {
	sc := bufio.NewScanner(c.in)
	fmt.Fprint(c.out, prompt)
	for sc.Scan() {
		args := strings.Fields(sc.Text())
		if len(args) != 0 {
			switch args[0] {
			case "exit", "quit":
				return nil
			case "shell":
				fmt.Fprintln(c.out, "error: already in shell")
			default:
				if err := c.Run(ctx, args); err != nil {
					fmt.Fprintf(c.out, "error: %v\n", err)
				}
			}
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		fmt.Fprint(c.out, prompt)
	}
	return sc.Err()
}

func (c *CLI) PrintHelp() {
	fmt.Fprintln(c.out, "minizon - shopping cart and wishlist")
	fmt.Fprintln(c.out)
	fmt.Fprintln(c.out, "USAGE:")
	fmt.Fprintln(c.out, "    minizon [--config path] <group> <command> [arguments]")
	fmt.Fprintln(c.out)
	fmt.Fprintln(c.out, "COMMANDS:")

	var width int
	for _, cmd := range c.commands {
		width = max(width, len(cmd.usage()))
	}
	for _, cmd := range c.commands {
		fmt.Fprintf(c.out, "    %-*s  %s\n", width, cmd.usage(), cmd.Description)
	}
	fmt.Fprintf(c.out, "    %-*s  %s\n", width, "shell", "Read commands from stdin, \"exit\" to quit")
}

// ExitCode maps a Run error to the process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, ErrUsage):
		return 2
	default:
		return 1
	}
}

func requireArgs(args []string, n int, usage string) error {
	if len(args) != n {
		return fmt.Errorf("%w: %s", ErrUsage, usage)
	}
	return nil
}
