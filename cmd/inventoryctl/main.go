// Command inventoryctl drives the inventory service from a terminal. Each
// invocation is one session: it logs in, runs one command and logs out.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"text/tabwriter"

	"go-inventory-console/internal/fixture"
	"go-inventory-console/internal/model"
	"go-inventory-console/internal/service"
	"go-inventory-console/internal/session"
	"go-inventory-console/pkg/config"
	"go-inventory-console/pkg/logger"

	"go.uber.org/zap"
)

const usage = `usage: inventoryctl -user NAME -password PASS <command> [flags]

commands:
  roles                       list console roles
  inventory                   list products with their warehouse
  warehouses                  list warehouses
  transfer -product N -to N   move a product to another warehouse
  export [-out FILE]          write the XLSX inventory report
`

var errUsage = errors.New("invalid usage")

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log := logger.Init(cfg)
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, cfg, log, os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprint(os.Stderr, usage)
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, "inventoryctl:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log *zap.Logger, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("inventoryctl", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	user := fs.String("user", "", "username")
	password := fs.String("password", "", "password")
	if err := fs.Parse(args); err != nil || fs.NArg() == 0 {
		return errUsage
	}

	sess := session.New()
	svc := service.New(cfg.Client, service.Deps{
		Session:  sess,
		Fixtures: fixture.New(),
		Logger:   log,
		OnUnauthorized: func() {
			log.Warn("Backend rejected the session")
		},
	})

	res, err := svc.Login(ctx, *user, *password)
	if err != nil {
		return err
	}
	log.Debug("Signed in", zap.String("role", res.Role))
	defer svc.Logout(ctx)

	cmd, rest := fs.Arg(0), fs.Args()[1:]
	switch cmd {
	case "roles":
		return printRoles(ctx, svc, sess, out)
	case "inventory":
		return printInventory(ctx, svc, out)
	case "warehouses":
		return printWarehouses(ctx, svc, out)
	case "transfer":
		return transfer(ctx, svc, rest, out)
	case "export":
		return export(ctx, svc, rest, out)
	}
	return fmt.Errorf("%w: unknown command %q", errUsage, cmd)
}

func printRoles(ctx context.Context, svc service.InventoryService, sess *session.Session, out io.Writer) error {
	roles, err := svc.GetRoles(ctx)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tLABEL\tCAN EDIT\t")
	for _, r := range roles {
		marker := ""
		if r.ID == sess.RoleID() {
			marker = "*"
		}
		fmt.Fprintf(w, "%s%s\t%s\t%t\t\n", r.ID, marker, r.Label, r.Permissions.CanEdit)
	}
	return w.Flush()
}

func printInventory(ctx context.Context, svc service.InventoryService, out io.Writer) error {
	rows, err := svc.GetInventory(ctx)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tPRICE\tSTOCK\tWAREHOUSE\tLOCATION\t")
	for _, r := range rows {
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%d\t%s\t\n",
			r.ProductID, r.Name, r.Price.StringFixed(2), r.Stock, r.Warehouse.WarehouseID, r.Warehouse.Location)
	}
	return w.Flush()
}

func printWarehouses(ctx context.Context, svc service.InventoryService, out io.Writer) error {
	whs, err := svc.GetWarehouses(ctx)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tLOCATION\t")
	for _, wh := range whs {
		fmt.Fprintf(w, "%d\t%s\t\n", wh.WarehouseID, wh.Location)
	}
	return w.Flush()
}

func transfer(ctx context.Context, svc service.InventoryService, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("transfer", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	product := fs.Uint("product", 0, "product id")
	to := fs.Uint("to", 0, "destination warehouse id")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	req := model.TransferRequest{ProductID: uint(*product), WarehouseID: uint(*to)}
	res, err := svc.TransferProduct(ctx, req)
	if err != nil {
		return err
	}
	msg := res.Message
	if msg == "" {
		msg = "Transfer completed."
	}
	fmt.Fprintf(out, "%s product %d -> warehouse %d (%s)\n", msg, req.ProductID, req.WarehouseID, res.Location)
	return nil
}

func export(ctx context.Context, svc service.InventoryService, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	path := fs.String("out", "", "output file (defaults to the report filename)")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	rep, err := svc.ExportReport(ctx)
	if err != nil {
		return err
	}
	target := *path
	if target == "" {
		target = filepath.Base(rep.Filename)
	}
	if err := os.WriteFile(target, rep.Data, 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	fmt.Fprintf(out, "wrote %s (%d bytes)\n", target, len(rep.Data))
	return nil
}
