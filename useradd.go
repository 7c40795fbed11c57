package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/kevinaaaquil/books-api/config"
	"github.com/kevinaaaquil/books-api/handlers"
	"github.com/kevinaaaquil/books-api/logging"
	"github.com/kevinaaaquil/books-api/models"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func newUserAddCmd(configFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "useradd <username>",
		Short: "Create a user, prompting for the password",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configFile)
			if err != nil {
				return err
			}
			log, flush := logging.New(cfg.Production, cfg.Log.Level)
			defer flush()

			username := strings.TrimSpace(args[0])
			password, err := readPassword(cmd, "Password: ")
			if err != nil {
				return fmt.Errorf("read password: %w", err)
			}
			req := models.CredentialsRequest{Username: username, Password: password}
			if err := models.Validate(req); err != nil {
				return err
			}
			hash, err := handlers.HashPassword(password, 0)
			if err != nil {
				return err
			}

			db, err := connect(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			defer disconnect(db, log)

			id, err := db.CreateUser(cmd.Context(), &models.User{
				Username:  username,
				Password:  hash,
				CreatedAt: time.Now().UTC(),
			})
			if err != nil {
				return fmt.Errorf("create user %q: %w", username, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created user %s (%s)\n", username, id.Hex())
			return nil
		},
	}
}

// readPassword masks input on a terminal and reads a plain line otherwise.
// Only the line ending is stripped; surrounding spaces are part of the password.
func readPassword(cmd *cobra.Command, prompt string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return "", err
		}
		return strings.TrimRight(line, "\r\n"), nil
	}
	fmt.Fprint(cmd.OutOrStderr(), prompt)
	b, err := term.ReadPassword(fd)
	fmt.Fprintln(cmd.OutOrStderr())
	if err != nil {
		return "", err
	}
	return string(b), nil
}
