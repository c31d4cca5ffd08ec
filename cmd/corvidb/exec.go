package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newExecCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "exec <statement>",
		Short: "run one SQL statement against a database directory and print its result",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			statement := strings.Join(args, " ")

			d, _, err := opts.openDB()
			if err != nil {
				return fmt.Errorf("open database: %w", err)
			}
			defer d.Close()

			sess, err := d.NewSession()
			if err != nil {
				return err
			}

			result, err := sess.Exec(statement)
			if err != nil {
				sess.Rollback()
				return fmt.Errorf("execute statement: %w", err)
			}

			if result.Rows == nil {
				fmt.Fprintf(cmd.OutOrStdout(), "ok: %d rows affected\n", result.RowsAffected)
				return sess.Commit()
			}

			defer result.Rows.Close()
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, strings.Join(result.Rows.Columns(), "\t"))
			for {
				ok, err := result.Rows.Next()
				if err != nil {
					return err
				}
				if !ok {
					break
				}
				cols := result.Rows.Columns()
				values := make([]string, len(cols))
				for i, col := range cols {
					v, err := result.Rows.Value(col)
					if err != nil {
						return err
					}
					values[i] = v.String()
				}
				fmt.Fprintln(out, strings.Join(values, "\t"))
			}
			return sess.Commit()
		},
	}
	return cmd
}
