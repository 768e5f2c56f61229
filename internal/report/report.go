// Package report renders accounts, bookings, schemas and remote diagnostics as
// aligned text for the CLI. It never prints password hashes or whole tokens.
package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/Elking123mi/vanelux-web/internal/core/domain"
	"github.com/Elking123mi/vanelux-web/internal/infrastructure/db/sqlite"
	"github.com/Elking123mi/vanelux-web/pkg/client"
)

const (
	timeLayout  = "2006-01-02 15:04 MST"
	tokenPrefix = 16
	none        = "-"
)

// Reporter writes human-readable reports to one writer.
type Reporter struct {
	out io.Writer
}

func New(out io.Writer) *Reporter {
	return &Reporter{out: out}
}

func (r *Reporter) table() *tabwriter.Writer {
	return tabwriter.NewWriter(r.out, 0, 0, 2, ' ', 0)
}

// Account prints one account as key/value lines.
func (r *Reporter) Account(a *domain.Account) error {
	w := r.table()
	fmt.Fprintf(w, "ID:\t%d\n", a.ID)
	fmt.Fprintf(w, "Username:\t%s\n", a.Username)
	fmt.Fprintf(w, "Email:\t%s\n", a.Email)
	fmt.Fprintf(w, "Name:\t%s\n", orNone(a.FullName))
	fmt.Fprintf(w, "Roles:\t%s\n", list(a.Roles))
	fmt.Fprintf(w, "Allowed apps:\t%s\n", list(a.AllowedApps))
	fmt.Fprintf(w, "Status:\t%s\n", a.Status)
	fmt.Fprintf(w, "Password:\t%s\n", passwordState(a.PasswordHash))
	fmt.Fprintf(w, "Created:\t%s\n", stamp(a.CreatedAt))
	fmt.Fprintf(w, "Updated:\t%s\n", stamp(a.UpdatedAt))
	return w.Flush()
}

// Accounts prints accounts as a table followed by a summary of how many are
// shown out of total stored, broken down by status.
func (r *Reporter) Accounts(accounts []domain.Account, total int64) error {
	if len(accounts) == 0 {
		_, err := fmt.Fprintf(r.out, "no accounts (%d stored)\n", total)
		return err
	}

	byStatus := map[domain.AccountStatus]int{}
	w := r.table()
	fmt.Fprintln(w, "ID\tUSERNAME\tEMAIL\tSTATUS\tROLES\tAPPS\tPASSWORD\tCREATED")
	for _, a := range accounts {
		byStatus[a.Status]++
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			a.ID, a.Username, a.Email, a.Status, list(a.Roles), list(a.AllowedApps),
			passwordState(a.PasswordHash), stamp(a.CreatedAt))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	var parts []string
	for _, st := range []domain.AccountStatus{domain.AccountActive, domain.AccountSuspended, domain.AccountDisabled} {
		if n := byStatus[st]; n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, st))
		}
	}
	_, err := fmt.Fprintf(r.out, "%d of %d accounts shown: %s\n", len(accounts), total, strings.Join(parts, ", "))
	return err
}

// Bookings prints bookings as a table, one row each.
func (r *Reporter) Bookings(bookings []domain.Booking) error {
	if len(bookings) == 0 {
		_, err := fmt.Fprintln(r.out, "no bookings")
		return err
	}
	w := r.table()
	fmt.Fprintln(w, "ID\tOWNER\tSTATUS\tPICKUP TIME\tFROM\tTO\tPAX\tPRICE\tSERVICE\tVEHICLE")
	for _, b := range bookings {
		fmt.Fprintf(w, "%d\t%d\t%s\t%s\t%s\t%s\t%d\t%.2f\t%s\t%s\n",
			b.ID, b.UserID, b.Status, stamp(b.PickupTime),
			b.Pickup.Address, b.Destination.Address,
			b.Passengers, b.Price, b.ServiceType, orNone(b.VehicleName))
	}
	return w.Flush()
}

// Tables prints each table's row count and columns.
func (r *Reporter) Tables(tables []sqlite.TableInfo) error {
	for i, t := range tables {
		if i > 0 {
			fmt.Fprintln(r.out)
		}
		fmt.Fprintf(r.out, "%s (%d rows)\n", t.Name, t.Rows)
		w := r.table()
		fmt.Fprintln(w, "  #\tCOLUMN\tTYPE\tNOT NULL\tDEFAULT\tPK")
		for _, c := range t.Columns {
			fmt.Fprintf(w, "  %d\t%s\t%s\t%s\t%s\t%s\n",
				c.CID, c.Name, c.Type, yesNo(c.NotNull), orNone(c.Default), yesNo(c.PK))
		}
		if err := w.Flush(); err != nil {
			return err
		}
	}
	return nil
}

// Login prints the outcome of a remote login.
func (r *Reporter) Login(res *client.LoginResponse) error {
	w := r.table()
	fmt.Fprintf(w, "Token:\t%s\n", ShortToken(res.AccessToken))
	fmt.Fprintf(w, "Type:\t%s\n", res.TokenType)
	if !res.ExpiresAt.IsZero() {
		fmt.Fprintf(w, "Expires:\t%s\n", stamp(res.ExpiresAt))
	}
	fmt.Fprintf(w, "User:\t%d %s <%s>\n", res.User.ID, res.User.Username, res.User.Email)
	fmt.Fprintf(w, "Roles:\t%s\n", list(res.User.Roles))
	fmt.Fprintf(w, "Allowed apps:\t%s\n", list(res.User.AllowedApps))
	return w.Flush()
}

// RemoteBookings prints bookings fetched from a deployed service.
func (r *Reporter) RemoteBookings(bookings []client.Booking) error {
	if len(bookings) == 0 {
		_, err := fmt.Fprintln(r.out, "no bookings")
		return err
	}
	w := r.table()
	fmt.Fprintln(w, "ID\tSTATUS\tPICKUP TIME\tFROM\tTO\tPAX\tPRICE\tSERVICE")
	for _, b := range bookings {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%d\t%.2f\t%s\n",
			b.ID, b.Status, stamp(b.PickupTime), b.PickupAddress, b.DestinationAddress,
			b.Passengers, b.Price, b.ServiceType)
	}
	return w.Flush()
}

// Check is one line of a remote diagnostic run.
type Check struct {
	Name   string
	OK     bool
	Detail string
}

// Checks prints a diagnostic run and a summary line.
func (r *Reporter) Checks(checks []Check) error {
	w := r.table()
	failed := 0
	for _, c := range checks {
		mark := "ok"
		if !c.OK {
			mark = "FAIL"
			failed++
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", mark, c.Name, c.Detail)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(r.out, "%d checks, %d failed\n", len(checks), failed)
	return err
}

// APIError prints a remote failure with its diagnosis.
func (r *Reporter) APIError(e *client.APIError) error {
	w := r.table()
	fmt.Fprintf(w, "Request:\t%s %s\n", e.Method, e.Path)
	fmt.Fprintf(w, "Status:\t%d\n", e.Status)
	fmt.Fprintf(w, "Code:\t%s\n", orNone(e.Code))
	fmt.Fprintf(w, "Message:\t%s\n", e.Message)
	fmt.Fprintf(w, "Diagnosis:\t%s\n", e.Diagnosis())
	return w.Flush()
}

// ShortToken keeps only a recognisable prefix of a bearer token.
func ShortToken(token string) string {
	if len(token) <= tokenPrefix {
		return strings.Repeat("*", len(token))
	}
	return token[:tokenPrefix] + "..."
}

func passwordState(hash string) string {
	switch {
	case hash == "":
		return "not set"
	case strings.HasPrefix(hash, "$2"):
		return "set (bcrypt)"
	default:
		return "set (unrecognised format)"
	}
}

func stamp(t time.Time) string {
	if t.IsZero() {
		return none
	}
	return t.UTC().Format(timeLayout)
}

func list(in []string) string {
	if len(in) == 0 {
		return none
	}
	return strings.Join(in, ", ")
}

func orNone(s string) string {
	if s == "" {
		return none
	}
	return s
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
