package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/Raymond9734/customer-dashboard/internal/models"
	"github.com/Raymond9734/customer-dashboard/internal/store"
	"github.com/Raymond9734/customer-dashboard/internal/view"
)

type command struct {
	summary string
	run     func(ctx context.Context, a *app, args []string) error
}

var commands = map[string]command{
	"list":        {summary: "list customers, optionally searching", run: runList},
	"report":      {summary: "filtered customer report", run: runReport},
	"installers":  {summary: "list installers", run: runInstallers},
	"add":         {summary: "add a customer", run: runAdd},
	"update":      {summary: "edit a customer's details", run: runUpdate},
	"add-service": {summary: "record a service visit", run: runAddService},
	"history":     {summary: "show a customer's service history", run: runHistory},
	"delete":      {summary: "delete a customer", run: runDelete},
	"activity":    {summary: "show recorded changes to a customer", run: runActivity},
}

// newFlagSet returns a quiet flag set; parse reports its errors as errUsage
func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %s: %v", errUsage, fs.Name(), err)
	}
	return nil
}

// licenseArg parses flags and returns the single positional license number
func licenseArg(fs *flag.FlagSet, args []string) (string, error) {
	// allow the license number before or after the flags
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		if err := parse(fs, args[1:]); err != nil {
			return "", err
		}
		if fs.NArg() != 0 {
			return "", fmt.Errorf("%w: %s takes one license number", errUsage, fs.Name())
		}
		return args[0], nil
	}
	if err := parse(fs, args); err != nil {
		return "", err
	}
	if fs.NArg() != 1 {
		return "", fmt.Errorf("%w: %s needs a license number", errUsage, fs.Name())
	}
	return fs.Arg(0), nil
}

func runList(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("list")
	query := fs.String("q", "", "search license number, name or mobile")
	if err := parse(fs, args); err != nil {
		return err
	}

	if err := a.store.Load(ctx); err != nil {
		return err
	}
	if err := a.view.SetFilters(models.FilterSpec{SearchQuery: *query}); err != nil {
		return err
	}

	a.view.Navigate(view.PageDashboard)
	return printCustomers(a.stdout, a.view)
}

func runReport(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("report")
	var spec models.FilterSpec
	fs.StringVar(&spec.SearchQuery, "q", "", "search license number, name or mobile")
	fs.StringVar(&spec.FromDate, "from", "", "installed on or after (YYYY-MM-DD)")
	fs.StringVar(&spec.ToDate, "to", "", "installed on or before (YYYY-MM-DD)")
	fs.StringVar(&spec.ServiceType, "type", "", "New or Renewal")
	fs.StringVar(&spec.InstalledBy, "installer", "", "installer name contains")
	if err := parse(fs, args); err != nil {
		return err
	}

	if err := a.view.SetFilters(spec); err != nil {
		return err
	}
	if err := a.store.Load(ctx); err != nil {
		return err
	}

	a.view.Navigate(view.PageReports)
	return printCustomers(a.stdout, a.view)
}

func runInstallers(ctx context.Context, a *app, args []string) error {
	if err := a.store.Load(ctx); err != nil {
		return err
	}
	for _, name := range a.view.Installers() {
		fmt.Fprintln(a.stdout, name)
	}
	return nil
}

func runAdd(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("add")
	var in models.CustomerInput
	fs.StringVar(&in.LicenseNumber, "license", "", "license number")
	fs.StringVar(&in.Name, "name", "", "customer name")
	fs.StringVar(&in.MonthYear, "month-year", "", "month and year of service")
	fs.StringVar(&in.Address, "address", "", "address")
	fs.StringVar(&in.Mobile1, "mobile1", "", "primary mobile number")
	fs.StringVar(&in.Mobile2, "mobile2", "", "secondary mobile number")
	fs.StringVar(&in.InstalledBy, "installer", "", "installed by")
	fs.StringVar(&in.ServiceType, "type", models.CustomerServiceNew, "New or Renewal")
	fs.StringVar(&in.InstalledOn, "installed-on", "", "installation date (YYYY-MM-DD)")
	if err := parse(fs, args); err != nil {
		return err
	}

	if err := a.store.Load(ctx); err != nil {
		return err
	}

	a.view.OpenAddCustomer()
	created, err := a.view.SubmitCustomer(ctx, in)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.stdout, "%s\t%s\n", created.LicenseNumber, created.Name)
	return nil
}

func runUpdate(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("update")
	fs.String("name", "", "customer name")
	fs.String("month-year", "", "month and year of service")
	fs.String("address", "", "address")
	fs.String("mobile1", "", "primary mobile number")
	fs.String("mobile2", "", "secondary mobile number")
	fs.String("installer", "", "installed by")
	fs.String("type", "", "New or Renewal")
	fs.String("installed-on", "", "installation date (YYYY-MM-DD)")
	licenseNumber, err := licenseArg(fs, args)
	if err != nil {
		return err
	}

	if err := open(ctx, a, licenseNumber, store.ModeEdit); err != nil {
		return err
	}

	edited, ok := a.store.Checkout()
	if !ok {
		return models.ErrInvalidInput("no customer selected")
	}
	fs.Visit(func(f *flag.Flag) {
		v := f.Value.String()
		switch f.Name {
		case "name":
			edited.Name = v
		case "month-year":
			edited.MonthYear = v
		case "address":
			edited.Address = v
		case "mobile1":
			edited.Mobile1 = v
		case "mobile2":
			edited.Mobile2 = v
		case "installer":
			edited.InstalledBy = v
		case "type":
			edited.ServiceType = v
		case "installed-on":
			edited.InstalledOn = v
		}
	})

	updated, err := a.view.SaveCustomer(ctx, edited)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.stdout, "%s\t%s\n", updated.LicenseNumber, updated.Name)
	return nil
}

func runAddService(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("add-service")
	var in models.ServiceHistoryInput
	fs.StringVar(&in.EmployeeName, "employee", "", "employee who did the work")
	fs.StringVar(&in.ServiceType, "type", models.ServiceMaintenance, "Installation, Maintenance, Repair or Check-up")
	fs.StringVar(&in.Status, "status", models.ServiceStatusCompleted, "Completed, In Progress or Pending")
	fs.Float64Var(&in.CollectionAmount, "amount", 0, "amount collected")
	fs.StringVar(&in.ProblemDescription, "problem", "", "problem description")
	fs.StringVar(&in.Solution, "solution", "", "solution")
	licenseNumber, err := licenseArg(fs, args)
	if err != nil {
		return err
	}

	if err := open(ctx, a, licenseNumber, store.ModeView); err != nil {
		return err
	}
	if err := a.view.OpenAddService(); err != nil {
		return err
	}

	entry, err := a.view.SubmitService(ctx, in)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.stdout, "%s\t%s\n", entry.ID, entry.Date)
	return nil
}

func runHistory(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("history")
	licenseNumber, err := licenseArg(fs, args)
	if err != nil {
		return err
	}

	if err := open(ctx, a, licenseNumber, store.ModeView); err != nil {
		return err
	}
	if err := a.view.OpenHistory(); err != nil {
		return err
	}

	history, _ := a.view.History()
	tw := tabwriter.NewWriter(a.stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDATE\tTYPE\tSTATUS\tEMPLOYEE\tAMOUNT")
	for _, h := range history {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%.2f\n",
			h.ID, h.Date, h.ServiceType, h.Status, h.EmployeeName, h.CollectionAmount)
	}
	return tw.Flush()
}

func runDelete(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("delete")
	licenseNumber, err := licenseArg(fs, args)
	if err != nil {
		return err
	}

	if err := a.store.Load(ctx); err != nil {
		return err
	}
	return a.view.DeleteCustomer(ctx, licenseNumber)
}

func runActivity(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("activity")
	limit := fs.Int("limit", models.DefaultActivityLimit, "number of entries")
	licenseNumber, err := licenseArg(fs, args)
	if err != nil {
		return err
	}

	activities, err := a.client.ListActivity(ctx, licenseNumber, *limit)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(a.stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "WHEN\tKIND\tDESCRIPTION")
	for _, act := range activities {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", act.OccurredAt.Format("2006-01-02 15:04"), act.Kind, act.Description)
	}
	return tw.Flush()
}

// open loads the collection and selects a customer, waiting for its service
// history to refresh
func open(ctx context.Context, a *app, licenseNumber string, mode store.Mode) error {
	if err := a.store.Load(ctx); err != nil {
		return err
	}

	c, ok := a.store.Customer(licenseNumber)
	if !ok {
		return models.ErrNotFoundWithMsg(fmt.Sprintf("Customer %s not found.", licenseNumber))
	}

	a.view.OpenCustomer(c, mode)
	a.store.Wait()
	return nil
}

func printCustomers(w io.Writer, v *view.Orchestrator) error {
	customers := v.Visible()
	shown, total := v.Counts()

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "LICENSE\tNAME\tMOBILE\tINSTALLED BY\tTYPE\tINSTALLED ON\tSERVICES")
	for _, c := range customers {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%d\n",
			c.LicenseNumber, c.Name, c.Mobile1, c.InstalledBy, c.ServiceType, c.InstalledOn, len(c.ServiceHistory))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(w, "\nShowing %d of %d customers\n", shown, total)
	return nil
}
