package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/dmitrijs2005/yoursay/internal/client/models"
	"github.com/dmitrijs2005/yoursay/internal/client/validation"
)

func (a *App) Federal(ctx context.Context) error {
	bills, err := a.legislation.Federal(ctx)
	if err != nil {
		return err
	}
	a.printBills("Federal legislation", bills)
	return nil
}

// State lists bills for the state in the user's profile.
func (a *App) State(ctx context.Context) error {
	bills, err := a.legislation.State(ctx, a.profile.State)
	if err != nil {
		return err
	}
	a.printBills("Legislation in "+a.profile.State, bills)
	return nil
}

// Local lists bills for the user's zip code.
func (a *App) Local(ctx context.Context) error {
	bills, err := a.legislation.Local(ctx, a.profile.Zipcode)
	if err != nil {
		return err
	}
	a.printBills("Legislation near "+a.profile.Zipcode, bills)
	return nil
}

func (a *App) Random(ctx context.Context) error {
	bills, err := a.legislation.Random(ctx, a.profile.Zipcode, a.profile.State)
	if err != nil {
		return err
	}
	a.printBills("A mix of legislation for you", bills)
	return nil
}

// Vote records a yes/no stance on a bill.
func (a *App) Vote(ctx context.Context) error {
	billID, err := a.askBillID()
	if err != nil {
		return err
	}
	answer, err := getSimpleText(a.reader, "Do you support it? (yes/no)", a.out)
	if err != nil {
		return err
	}

	var support bool
	switch strings.ToLower(answer) {
	case "y", "yes":
		support = true
	case "n", "no":
	default:
		return &validation.Error{Field: "vote", Message: "Please answer yes or no."}
	}

	if err := a.legislation.Vote(ctx, billID, support); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Vote recorded.")
	return nil
}

// Opinion records free text on a bill.
func (a *App) Opinion(ctx context.Context) error {
	billID, err := a.askBillID()
	if err != nil {
		return err
	}
	text, err := getMultiline(a.reader, "Your opinion", a.out)
	if err != nil {
		return err
	}
	if text == "" {
		return &validation.Error{Field: "opinion", Message: "Opinion cannot be empty."}
	}

	if err := a.legislation.Opinion(ctx, billID, text); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Opinion recorded.")
	return nil
}

// History prints the user's votes and opinions.
func (a *App) History(ctx context.Context) error {
	votes, err := a.legislation.Votes(ctx)
	if err != nil {
		return err
	}
	opinions, err := a.legislation.Opinions(ctx)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "BILL\tKIND\tVALUE")
	for _, v := range votes {
		value := "no"
		if v.Vote {
			value = "yes"
		}
		fmt.Fprintf(tw, "%d\tvote\t%s\n", v.BillID, value)
	}
	for _, o := range opinions {
		fmt.Fprintf(tw, "%d\topinion\t%s\n", o.BillID, firstLine(o.Opinion))
	}
	return tw.Flush()
}

// Ask sends a question to the legislation assistant.
func (a *App) Ask(ctx context.Context) error {
	prompt, err := getSimpleText(a.reader, "What would you like to know?", a.out)
	if err != nil {
		return err
	}
	if prompt == "" {
		return nil
	}
	answer, err := a.legislation.Ask(ctx, prompt)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, answer)
	return nil
}

func (a *App) askBillID() (int, error) {
	raw, err := getSimpleText(a.reader, "Enter bill ID", a.out)
	if err != nil {
		return 0, err
	}
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, &validation.Error{Field: "bill_id", Message: "Please enter a numeric bill ID."}
	}
	return id, nil
}

func (a *App) printBills(title string, bills []models.Legislation) {
	fmt.Fprintln(a.out, title)
	if len(bills) == 0 {
		fmt.Fprintln(a.out, "No legislation found.")
		return
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "BILL\tLEVEL\tDATE\tTITLE")
	for _, b := range bills {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", b.BillID, b.Level, b.Date, b.Title)
	}
	_ = tw.Flush()
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i] + " ..."
	}
	return s
}
