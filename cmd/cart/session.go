package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/angelmondragon/shopcart/internal/cart"
	pkgerrors "github.com/angelmondragon/shopcart/pkg/errors"
	"github.com/angelmondragon/shopcart/pkg/logger"
	"github.com/angelmondragon/shopcart/pkg/validators"
)

const maxNameLen = 128

// op is one parsed command line instruction: add or remove qty of name.
type op struct {
	name   string
	qty    int
	remove bool
}

// parseOp reads "name", "name:qty", "-name" or "-name:qty".
func parseOp(arg string) (op, error) {
	var o op
	raw := strings.TrimSpace(arg)
	if strings.HasPrefix(raw, "-") {
		o.remove = true
		raw = strings.TrimPrefix(raw, "-")
	}

	name, qtyText, hasQty := strings.Cut(raw, ":")
	o.name = validators.SanitizeString(name, maxNameLen)
	if o.name == "" {
		return op{}, pkgerrors.New(pkgerrors.CodeValidation, "product name is required").
			WithDetails(map[string]any{"arg": arg})
	}

	o.qty = 1
	if hasQty {
		qty, err := strconv.Atoi(strings.TrimSpace(qtyText))
		if err != nil {
			return op{}, pkgerrors.Wrap(pkgerrors.CodeInvalidQuantity, err, "quantity is not a whole number").
				WithDetails(map[string]any{"arg": arg})
		}
		o.qty = qty
	}
	return o, nil
}

func parseOps(args []string) ([]op, error) {
	ops := make([]op, 0, len(args))
	for _, arg := range args {
		o, err := parseOp(arg)
		if err != nil {
			return nil, err
		}
		ops = append(ops, o)
	}
	return ops, nil
}

// apply replays ops in order, stopping at the first rejected one.
func apply(ctx context.Context, c *cart.Cart, ops []op, logg *logger.Logger) error {
	for _, o := range ops {
		opCtx := logg.WithFields(logg.WithProduct(ctx, o.name), map[string]any{"quantity": o.qty, "remove": o.remove})
		var err error
		if o.remove {
			err = c.RemoveProduct(o.name, o.qty)
		} else {
			before := c.CountForProduct(o.name)
			err = c.AddProduct(ctx, o.name, o.qty)
			if err == nil && o.qty > 0 && c.CountForProduct(o.name) == before {
				logg.Warn(opCtx, "product not found in catalog, ignored")
			}
		}
		if err != nil {
			return err
		}
		logg.Debug(opCtx, "cart updated")
	}
	return nil
}

type summary struct {
	SessionID string       `json:"session_id"`
	Source    string       `json:"catalog_source"`
	Items     []*cart.Item `json:"items"`
	Count     int          `json:"count"`
	cart.Totals
}

func buildSummary(sessionID, source string, c *cart.Cart) (summary, error) {
	totals, err := c.Summary()
	if err != nil {
		return summary{}, err
	}
	return summary{
		SessionID: sessionID,
		Source:    source,
		Items:     c.Items(),
		Count:     c.TotalProductCount(),
		Totals:    totals,
	}, nil
}

func writeJSON(w io.Writer, s summary) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}

func writeText(w io.Writer, s summary) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	for _, item := range s.Items {
		line, err := item.LineTotal()
		if err != nil {
			return err
		}
		fmt.Fprintf(tw, "%s\t%d x\t%s\t%s\t\n", item.Title(), item.Quantity(), item.UnitPrice().StringFixed(2), line.String())
	}
	if len(s.Items) > 0 {
		fmt.Fprintln(tw, "\t\t\t\t")
	}
	fmt.Fprintf(tw, "Subtotal\t\t\t%s\t\n", s.Subtotal.String())
	fmt.Fprintf(tw, "Tax\t\t\t%s\t\n", s.Tax.String())
	fmt.Fprintf(tw, "Total\t\t\t%s\t\n", s.Total.String())
	return tw.Flush()
}
