package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/JustJay7/case-status-portal/internal/auth"
	"github.com/JustJay7/case-status-portal/internal/database"
	"github.com/JustJay7/case-status-portal/internal/store"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	root := newRootCmd(stdin)
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)
	return root.ExecuteContext(context.Background())
}

func newRootCmd(stdin io.Reader) *cobra.Command {
	root := &cobra.Command{
		Use:           "caseadmin",
		Short:         "Maintenance tasks for the case status portal record store",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newImportCmd(), newHashPasswordCmd(stdin))
	return root
}

func newImportCmd() *cobra.Command {
	var dataDir, dbPath string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Load a JSON record directory into a sqlite database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			info, err := os.Stat(dataDir)
			if err != nil {
				return fmt.Errorf("data directory: %w", err)
			}
			if !info.IsDir() {
				return fmt.Errorf("data directory: %s is not a directory", dataDir)
			}

			db, err := database.Initialize(dbPath)
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			if sqlDB, err := db.DB(); err == nil {
				defer sqlDB.Close()
			}

			stats, err := store.Import(cmd.Context(), store.NewJSONStore(dataDir), db, auth.HashPassword)
			if err != nil {
				return fmt.Errorf("import failed: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(),
				"Imported %d users (%d passwords hashed), %d payments, %d lawyers, %d court visits into %s\n",
				stats.Users, stats.HashedPassword, stats.Payments, stats.Lawyers, stats.CourtVisits, dbPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&dataDir, "data", "./data", "Directory holding users.json, payments.json, lawyers.json and court_visits.json")
	cmd.Flags().StringVar(&dbPath, "db", "./data/cases.db", "Path to the sqlite database file")
	return cmd
}

func newHashPasswordCmd(stdin io.Reader) *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password",
		Short: "Print a bcrypt hash for a password read from the terminal or stdin",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
			password, err := readPassword(stdin)
			fmt.Fprintln(cmd.ErrOrStderr())
			if err != nil {
				return fmt.Errorf("failed to read password: %w", err)
			}
			if strings.TrimSpace(password) == "" {
				return fmt.Errorf("password cannot be empty")
			}

			hash, err := auth.HashPassword(password)
			if err != nil {
				return fmt.Errorf("failed to hash password: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}
}

func readPassword(stdin io.Reader) (string, error) {
	if f, ok := stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		b, err := term.ReadPassword(int(f.Fd()))
		if err != nil {
			return "", err
		}
		return string(b), nil
	}

	// pipes and tests
	scanner := bufio.NewScanner(stdin)
	if scanner.Scan() {
		return scanner.Text(), nil
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}
