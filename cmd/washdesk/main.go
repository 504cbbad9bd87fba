package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/WeDoCheapies/website/internal/model"
	"github.com/WeDoCheapies/website/internal/reconcile"
	"github.com/WeDoCheapies/website/internal/washdesk"
	"github.com/caarlos0/env/v6"
	"github.com/sirupsen/logrus"
)

type config struct {
	ApiURL         string        `env:"WASHDESK_API_URL" envDefault:"http://localhost:8080"`
	Token          string        `env:"WASHDESK_TOKEN"`
	RequestTimeout time.Duration `env:"WASHDESK_REQUEST_TIMEOUT" envDefault:"10s"`
	LogLevel       string        `env:"WASHDESK_LOG_LEVEL" envDefault:"warn"`
}

const usage = `commands:
  list                              customers and their wash count
  types                             wash type catalog
  open <customer id>                open customer card
  close                             close customer card
  wash <wash type id> <small|bakkie_suv> [free]
  redeem | remove | recount         adjust wash count of open customer
  delete                            delete open customer with its history
  quit`

func main() {
	var cfg config
	if err := env.Parse(&cfg, env.Options{RequiredIfNoDef: true}); err != nil {
		logrus.Fatalf("failed to parse environment variables - %v", err)
	}

	lvl, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logrus.Fatalf("failed to parse log level - %v", err)
	}
	logrus.SetLevel(lvl)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, os.Stdin, os.Stdout); err != nil {
		logrus.Fatal(err)
	}
}

func run(ctx context.Context, cfg config, in io.Reader, out io.Writer) error {
	client := washdesk.NewClient(&http.Client{Timeout: cfg.RequestTimeout}, cfg.ApiURL, cfg.Token)
	screen := reconcile.NewScreen(nil, nil)
	desk := washdesk.NewDesk(client, screen)

	realtimeURL, err := client.RealtimeURL()
	if err != nil {
		return err
	}

	customers, washes, err := desk.Load(ctx)
	if err != nil {
		return err
	}
	screen.Reset(customers, washes)

	// subscription must be released when the session ends
	reconciler := reconcile.NewReconciler(reconcile.NewDialSource(realtimeURL, cfg.Token), screen, desk)
	if err := reconciler.Start(ctx); err != nil {
		return err
	}
	defer reconciler.Stop()
	defer screen.Close()

	screen.OnChange(func() {
		if detail, ok := screen.Detail(); ok {
			fmt.Fprintf(out, "\n[%s] %d/%d washes, free wash: %t\n> ",
				detail.Customer.Name, detail.Customer.WashCount, model.FreeWashThreshold, detail.Customer.FreeWashAvailable())
		}
	})

	fmt.Fprintln(out, usage)
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	for {
		fmt.Fprint(out, "> ")
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			quit, err := execute(ctx, desk, screen, client, out, strings.Fields(line))
			if err != nil {
				fmt.Fprintf(out, "error: %v\n", err)
			}
			if quit {
				return nil
			}
		}
	}
}

func execute(
	ctx context.Context,
	desk *washdesk.Desk,
	screen *reconcile.Screen,
	client *washdesk.Client,
	out io.Writer,
	args []string,
) (bool, error) {
	if len(args) == 0 {
		return false, nil
	}

	switch args[0] {
	case "quit", "exit":
		return true, nil
	case "list":
		for _, c := range screen.Customers() {
			fmt.Fprintf(out, "%s  %-30s %-14s %d/%d%s\n",
				c.ID, c.Name, c.Phone, c.WashCount, model.FreeWashThreshold, freeMark(c))
		}
		return false, nil
	case "types":
		washTypes, err := client.WashTypes(ctx)
		if err != nil {
			return false, err
		}
		for _, wt := range washTypes {
			fmt.Fprintf(out, "%s  %-24s small R%s  bakkie/suv R%s\n",
				wt.ID, wt.Name, wt.PriceSmallCar.StringFixed(2), wt.PriceBakkieSUV.StringFixed(2))
		}
		return false, nil
	case "open":
		if len(args) != 2 {
			return false, errors.New("usage: open <customer id>")
		}
		if err := desk.Open(ctx, args[1]); err != nil {
			return false, err
		}
		printDetail(out, screen)
		return false, nil
	case "close":
		screen.CloseDetail()
		return false, nil
	}

	detail, ok := screen.Detail()
	if !ok {
		return false, errors.New("open a customer card first")
	}
	customerID := detail.Customer.ID

	switch args[0] {
	case "wash":
		if len(args) < 3 {
			return false, errors.New("usage: wash <wash type id> <small|bakkie_suv> [free]")
		}
		receipt, err := desk.RecordWash(ctx, customerID, washdesk.RecordWash{
			WashTypeID: args[1],
			CarSize:    model.CarSize(args[2]),
			Free:       len(args) > 3 && args[3] == "free",
		})
		if err != nil {
			return false, err
		}
		fmt.Fprintf(out, "recorded wash %s, charged R%s\n", receipt.Wash.ID, chargedAmount(receipt.Wash))
	case "redeem":
		if _, err := desk.Redeem(ctx, customerID); err != nil {
			return false, err
		}
	case "remove":
		if _, err := desk.RemoveWash(ctx, customerID); err != nil {
			return false, err
		}
	case "recount":
		if _, err := desk.Recount(ctx, customerID); err != nil {
			return false, err
		}
	case "delete":
		if err := desk.DeleteCustomer(ctx, customerID); err != nil {
			return false, err
		}
		fmt.Fprintf(out, "customer %s deleted\n", detail.Customer.Name)
		return false, nil
	default:
		return false, fmt.Errorf("unknown command %q\n%s", args[0], usage)
	}

	printDetail(out, screen)
	return false, nil
}

func printDetail(out io.Writer, screen *reconcile.Screen) {
	detail, ok := screen.Detail()
	if !ok {
		return
	}

	c := detail.Customer
	fmt.Fprintf(out, "%s (%s) %d/%d washes%s\n", c.Name, c.Phone, c.WashCount, model.FreeWashThreshold, freeMark(c))
	for _, w := range screen.Washes() {
		if w.CustomerID != c.ID {
			continue
		}
		fmt.Fprintf(out, "  %s  %-10s R%s\n", w.PerformedAt.Local().Format("2006-01-02 15:04"), w.CarType, chargedAmount(&w))
	}
}

func chargedAmount(w *model.Wash) string {
	if w.WasFree {
		return "0.00 (free)"
	}
	return w.Price.StringFixed(2)
}

func freeMark(c model.Customer) string {
	if c.FreeWashAvailable() {
		return "  FREE WASH"
	}
	return ""
}
