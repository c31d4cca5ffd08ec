package main

import (
	"bufio"
	"fmt"
	"net"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/corvidb/corvidb/db"
)

func newServeCommand(opts *rootOptions) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "accept one statement per line over TCP and execute it",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, log, err := opts.openDB()
			if err != nil {
				return fmt.Errorf("open database: %w", err)
			}
			defer d.Close()

			ln, err := net.Listen("tcp", addr)
			if err != nil {
				return fmt.Errorf("listen on %s: %w", addr, err)
			}
			defer ln.Close()
			log.Info().Str("addr", addr).Msg("serving connections")

			for {
				conn, err := ln.Accept()
				if err != nil {
					log.Error().Err(err).Msg("accept failed")
					return err
				}
				go handleConn(conn, d, log)
			}
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8765", "TCP address to listen on")
	return cmd
}

// handleConn reads newline-delimited statements from conn and runs each
// on its own session and transaction, committing on success and rolling
// back on failure, then writes a tab-separated result or an error line
// back on the same connection. A fresh session per statement keeps one
// client's long-lived connection from holding locks indefinitely.
func handleConn(conn net.Conn, d *db.DB, log zerolog.Logger) {
	defer conn.Close()
	connLog := log.With().Str("remote", conn.RemoteAddr().String()).Logger()
	connLog.Info().Msg("connection opened")

	reader := bufio.NewReader(conn)
	for {
		line, err := reader.ReadString('\n')
		statement := strings.TrimSpace(line)
		if statement != "" {
			runStatement(d, statement, conn, connLog)
		}
		if err != nil {
			connLog.Info().Msg("connection closed")
			return
		}
	}
}

func runStatement(d *db.DB, statement string, conn net.Conn, log zerolog.Logger) {
	sess, err := d.NewSession()
	if err != nil {
		fmt.Fprintf(conn, "error: %v\n", err)
		return
	}
	stmtLog := log.With().Str("session", sess.ID.String()).Logger()

	result, err := sess.Exec(statement)
	if err != nil {
		sess.Rollback()
		fmt.Fprintf(conn, "error: %v\n", err)
		stmtLog.Error().Err(err).Str("statement", statement).Msg("statement failed")
		return
	}

	if result.Rows == nil {
		if err := sess.Commit(); err != nil {
			fmt.Fprintf(conn, "error: %v\n", err)
			return
		}
		fmt.Fprintf(conn, "ok: %d rows affected\n", result.RowsAffected)
		return
	}

	writeRows(conn, result, stmtLog)
	if err := sess.Commit(); err != nil {
		fmt.Fprintf(conn, "error: %v\n", err)
	}
}

func writeRows(conn net.Conn, result db.Result, log zerolog.Logger) {
	defer result.Rows.Close()
	fmt.Fprintln(conn, strings.Join(result.Rows.Columns(), "\t"))
	for {
		ok, err := result.Rows.Next()
		if err != nil {
			fmt.Fprintf(conn, "error: %v\n", err)
			log.Error().Err(err).Msg("row iteration failed")
			return
		}
		if !ok {
			return
		}
		cols := result.Rows.Columns()
		values := make([]string, len(cols))
		for i, col := range cols {
			v, err := result.Rows.Value(col)
			if err != nil {
				fmt.Fprintf(conn, "error: %v\n", err)
				return
			}
			values[i] = v.String()
		}
		fmt.Fprintln(conn, strings.Join(values, "\t"))
	}
}
