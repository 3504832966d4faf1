package main

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/baharkarakas/authmonitor/internal/dashboard"
	"github.com/baharkarakas/authmonitor/internal/models"
	"github.com/baharkarakas/authmonitor/internal/notify"
)

var errFailed = errors.New("request failed")

// printNotices writes one line per notice and fails when any is an error.
func printNotices(w io.Writer, ns []notify.Notice) error {
	for _, n := range ns {
		fmt.Fprintf(w, "[%s] %s\n", n.Level, n.Message)
		if len(n.Details) > 0 {
			fmt.Fprintf(w, "  %s\n", n.Details)
		}
	}
	if notify.HasErrors(ns) {
		return errFailed
	}
	return nil
}

func printResult(w io.Writer, res dashboard.Result) error {
	if len(res.Fields) > 0 {
		keys := make([]string, 0, len(res.Fields))
		for k := range res.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(w, "  %s: %s\n", k, res.Fields[k])
		}
	}
	return printNotices(w, res.Notices)
}

func printUsers(w io.Writer, p dashboard.Page[models.User]) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tUSERNAME")
	for _, u := range p.Items {
		fmt.Fprintf(tw, "%s\t%s\n", u.ID, u.Username)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	printFooter(w, p.Page, p.TotalPages, p.TotalItems)
	return nil
}

func printLogs(w io.Writer, p dashboard.Page[dashboard.ClassifiedLog]) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TIME\tSEVERITY\tDESCRIPTION\tAFFECTED")
	for _, l := range p.Items {
		ts := "-"
		if !l.Timestamp.IsZero() {
			ts = l.Timestamp.Local().Format(time.DateTime)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", ts, strings.ToUpper(string(l.Severity)), l.Description, l.Affected)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	printFooter(w, p.Page, p.TotalPages, p.TotalItems)
	return nil
}

func printFooter(w io.Writer, page, pages, items int) {
	fmt.Fprintf(w, "page %d of %d (%d matching)\n", page, pages, items)
}
