package main

import (
	"github.com/spf13/cobra"
)

type listFlags struct {
	query string
	page  int
}

func (lf *listFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&lf.query, "q", "", "case-insensitive substring filter")
	cmd.Flags().IntVar(&lf.page, "page", 1, "page number, starting at 1")
}

func newLogsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Inspect the audit trail",
	}
	cmd.AddCommand(newLogsListCmd())
	return cmd
}

func newLogsListCmd() *cobra.Command {
	var lf listFlags
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List audit entries with their severity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			c := a.dashboard()
			if err := printNotices(a.out, c.Mount(cmd.Context())); err != nil {
				return err
			}
			c.SetLogQuery(lf.query)
			c.GoToLogPage(lf.page)
			return printLogs(a.out, c.Logs())
		},
	}
	lf.register(cmd)
	return cmd
}

func newChangesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "changes",
		Short: "Run the remote change detector",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.close()
			return printResult(a.out, a.dashboard().DetectChanges(cmd.Context()))
		},
	}
}
