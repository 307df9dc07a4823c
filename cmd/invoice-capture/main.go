package main

import (
	"Invoice-Capture/cmd/config"
	"Invoice-Capture/domain"
	"Invoice-Capture/internal/utils"
	"Invoice-Capture/pkg/capture"
	"Invoice-Capture/pkg/listing"
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/sirupsen/logrus"
)

const usage = `usage: invoice-capture [-config path] <command> [args]

commands:
  login <username> [password]   log in; password is read from stdin when omitted
  logout                        forget the stored session
  restaurants                   list restaurants you can submit for
  select <id|name>              choose the restaurant new photos belong to
  pending                       list invoices waiting to be processed
  submit <photo.jpg>...         shoot each file and submit it
  history [-n N]                show recent submissions
`

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML config file")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	found, err := utils.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log := utils.NewLogger(os.Stderr)
	if !found {
		log.WithField("path", *configPath).Debug("config file not found, using defaults and environment")
	}

	if err := run(ctx, log, flag.Arg(0), flag.Args()[1:], os.Stdin, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", userMessage(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, log *logrus.Logger, cmd string, args []string, stdin io.Reader, stdout io.Writer) error {
	client, err := config.NewClient(log)
	if err != nil {
		return err
	}
	defer client.Close()

	if cmd != "login" {
		if _, _, err := client.Session.Restore(ctx); err != nil {
			return err
		}
	}

	switch cmd {
	case "login":
		return login(ctx, client, args, stdin, stdout)
	case "logout":
		if err := client.Session.Logout(ctx); err != nil {
			return err
		}
		fmt.Fprintln(stdout, domain.MessageSuccessLogout)
		return nil
	case "restaurants":
		return restaurants(ctx, client, stdout)
	case "select":
		return selectRestaurant(ctx, client, args, stdout)
	case "pending":
		return pending(ctx, client, stdout)
	case "submit":
		return submit(ctx, client, args, stdout)
	case "history":
		return history(ctx, client, args, stdout)
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func login(ctx context.Context, client *config.Client, args []string, stdin io.Reader, stdout io.Writer) error {
	if len(args) == 0 {
		return domain.ErrBlankCredentials
	}
	username, password := args[0], ""
	if len(args) > 1 {
		password = args[1]
	} else {
		fmt.Fprint(stdout, "Password: ")
		line, err := bufio.NewReader(stdin).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		password = strings.TrimRight(line, "\r\n")
	}

	snap, err := client.Session.Login(ctx, username, password)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Logged in as %s\n", snap.Username)
	return nil
}

func restaurants(ctx context.Context, client *config.Client, stdout io.Writer) error {
	list, err := client.Listing.FetchRestaurants(ctx)
	if err != nil {
		return err
	}
	selected := client.Session.Session().RestaurantID()

	w := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "\tID\tNAME\tEMAIL")
	for _, row := range listing.RestaurantRows(list) {
		mark := ""
		if row.Key == selected {
			mark = "*"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", mark, row.Key, row.Title, row.Subtitle)
	}
	return w.Flush()
}

func selectRestaurant(ctx context.Context, client *config.Client, args []string, stdout io.Writer) error {
	if len(args) == 0 {
		return domain.ErrNoRestaurantSelected
	}
	list, err := client.Listing.FetchRestaurants(ctx)
	if err != nil {
		return err
	}
	r, ok := listing.FindRestaurant(list, strings.Join(args, " "))
	if !ok {
		return domain.ErrRestaurantNotFound
	}
	if err := client.Session.SelectRestaurant(ctx, r.ID.String()); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "%s: %s\n", domain.MessageSuccessSelect, r.Name)
	return nil
}

func pending(ctx context.Context, client *config.Client, stdout io.Writer) error {
	invoices, err := client.Listing.FetchPendingInvoices(ctx)
	if err != nil {
		return err
	}
	// Names are a nicety; the list still prints without them.
	var names map[string]string
	if list, err := client.Listing.FetchRestaurants(ctx); err == nil {
		names = listing.RestaurantNames(list)
	}

	w := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNUMBER\tCREATED\tRESTAURANT")
	for _, row := range listing.InvoiceRows(invoices, names) {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", row.Key, row.Title, row.Subtitle, row.Detail)
	}
	return w.Flush()
}

func submit(ctx context.Context, client *config.Client, files []string, stdout io.Writer) error {
	if len(files) == 0 {
		return errors.New("no photos given")
	}
	shooter, err := client.NewShooter(ctx, capture.NewFileCamera(files...))
	if err != nil {
		return err
	}

	for {
		photo, err := shooter.Shoot(ctx)
		if errors.Is(err, capture.ErrNoMoreShots) {
			break
		}
		if err != nil {
			shooter.Wait()
			return err
		}
		fmt.Fprintf(stdout, "captured %s (%dx%d)\n", photo.Filename, photo.Width, photo.Height)
	}

	failed := 0
	for _, res := range shooter.Wait() {
		if res.OK() && res.UploadErr != nil {
			fmt.Fprintf(stdout, "%s: %s, but the upload failed: %s (photo kept at %s)\n",
				res.Original.Filename, domain.MessageSuccessCreateInvoice, userMessage(res.UploadErr), res.Original.Path)
			continue
		}
		if res.OK() {
			fmt.Fprintf(stdout, "%s: %s\n", res.Original.Filename, domain.MessageSuccessCreateInvoice)
			continue
		}
		failed++
		fmt.Fprintf(stdout, "%s: failed at %s: %s\n", res.Original.Filename, res.FailedAt, userMessage(res.Err))
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d submissions failed", failed, len(files))
	}
	return nil
}

func history(ctx context.Context, client *config.Client, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("history", flag.ContinueOnError)
	limit := fs.Int("n", 20, "number of entries")
	if err := fs.Parse(args); err != nil {
		return err
	}

	records, err := client.History.List(ctx, *limit)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "FINISHED\tPHOTO\tRESTAURANT\tSTAGE\tERROR\tUPLOAD ERROR")
	for _, r := range records {
		stage := r.Stage
		if r.FailedAt != "" {
			stage += " (" + r.FailedAt + ")"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			r.FinishedAt.Local().Format("2006-01-02 15:04:05"), r.Filename, r.RestaurantID, stage, r.Error, r.UploadError)
	}
	return w.Flush()
}

func userMessage(err error) string {
	var authErr *domain.AuthError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, domain.ErrNoConnectivity):
		return domain.MessageNoConnectivity
	case errors.Is(err, domain.ErrBlankCredentials):
		return domain.MessageBlankCredentials
	case errors.As(err, &authErr):
		return authErr.Message
	default:
		return err.Error()
	}
}
