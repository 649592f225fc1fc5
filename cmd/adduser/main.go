// Command adduser creates an account directly in the database, bypassing the API.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"golang.org/x/term"

	"github.com/spendwise/spendwise/internal/auth"
	"github.com/spendwise/spendwise/internal/model"
	"github.com/spendwise/spendwise/internal/repository"
	"github.com/spendwise/spendwise/internal/repository/sqlite"
)

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// userCreator is the part of the store adduser needs.
type userCreator interface {
	CreateUser(ctx context.Context, user *model.User) error
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("adduser", flag.ContinueOnError)
	fs.SetOutput(stderr)

	username := fs.String("user", "", "Username")
	email := fs.String("email", "", "Email address")
	passwordFlag := fs.String("password", "", "Password (optional, will prompt if omitted)")
	dbURL := fs.String("db", "", "Database URL (defaults to $DATABASE_URL)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	var missing []string
	if strings.TrimSpace(*username) == "" {
		missing = append(missing, "user")
	}
	if strings.TrimSpace(*email) == "" {
		missing = append(missing, "email")
	}
	if len(missing) > 0 {
		fmt.Fprintln(stdout, "Usage: adduser -user <username> -email <email> [-password <password>] [-db <database_url>]")
		fs.PrintDefaults()
		return fmt.Errorf("missing required flags: %s", strings.Join(missing, ", "))
	}

	if *dbURL == "" {
		*dbURL = os.Getenv("DATABASE_URL")
	}
	if *dbURL == "" {
		return errors.New("no database: pass -db or set DATABASE_URL")
	}

	password := *passwordFlag
	if password == "" {
		fmt.Fprint(stdout, "Password: ")
		var err error
		password, err = readPassword(stdin)
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}
		fmt.Fprintln(stdout)
	}

	if strings.TrimSpace(password) == "" {
		return errors.New("password cannot be empty")
	}

	ctx := context.Background()

	store, closeStore, err := openStore(ctx, *dbURL)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer closeStore()

	hash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		ID:           model.NewID(),
		Username:     strings.TrimSpace(*username),
		Email:        strings.TrimSpace(*email),
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	if err := store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return fmt.Errorf("user %s or email %s already exists", user.Username, user.Email)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	fmt.Fprintf(stdout, "User %s created successfully with ID %s\n", user.Username, user.ID)
	return nil
}

// openStore opens and migrates the database named by databaseURL.
func openStore(ctx context.Context, databaseURL string) (userCreator, func(), error) {
	if path, ok := sqlite.PathFromURL(databaseURL); ok {
		store, err := sqlite.Open(ctx, path, 0)
		if err != nil {
			return nil, nil, err
		}
		if err := store.Migrate(); err != nil {
			store.Close()
			return nil, nil, err
		}
		return store, func() { store.Close() }, nil
	}

	if err := repository.Migrate(databaseURL); err != nil {
		return nil, nil, err
	}
	repo, err := repository.New(ctx, databaseURL, repository.DefaultPoolConfig())
	if err != nil {
		return nil, nil, err
	}
	return repo, repo.Close, nil
}

func readPassword(stdin io.Reader) (string, error) {
	if f, ok := stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		bytePassword, err := term.ReadPassword(int(f.Fd()))
		if err != nil {
			return "", err
		}
		return string(bytePassword), nil
	}

	// Pipes and tests
	scanner := bufio.NewScanner(stdin)
	if scanner.Scan() {
		return scanner.Text(), nil
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}
