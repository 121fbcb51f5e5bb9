// ABOUTME: bootstrap subcommand: creates the first user so the API can be logged into
// ABOUTME: Prints a bearer token for that user on success

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/mail"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/pflag"

	"github.com/2389/blogpessoal/internal/auth"
	"github.com/2389/blogpessoal/internal/config"
	"github.com/2389/blogpessoal/internal/store"
)

type bootstrapOptions struct {
	Login    string
	Name     string
	Password string
	Photo    string
}

// parseBootstrapFlags parses bootstrap arguments. --password falls back to BLOG_BOOTSTRAP_PASSWORD.
func parseBootstrapFlags(args []string) (*bootstrapOptions, error) {
	var o bootstrapOptions
	fs := pflag.NewFlagSet("bootstrap", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVarP(&o.Login, "login", "l", "", "login (email) of the user to create")
	fs.StringVarP(&o.Name, "name", "n", "", "display name (defaults to the login)")
	fs.StringVarP(&o.Password, "password", "p", "", "password (or set BLOG_BOOTSTRAP_PASSWORD)")
	fs.StringVar(&o.Photo, "photo", "", "photo URL")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected argument: %s", fs.Arg(0))
	}

	if o.Password == "" {
		o.Password = os.Getenv("BLOG_BOOTSTRAP_PASSWORD")
	}

	o.Login = strings.TrimSpace(o.Login)
	if o.Login == "" {
		return nil, errors.New("--login flag is required")
	}
	if addr, err := mail.ParseAddress(o.Login); err != nil || addr.Address != o.Login {
		return nil, fmt.Errorf("--login %q is not a valid email address", o.Login)
	}
	if len([]rune(o.Password)) < 8 {
		return nil, errors.New("--password must be at least 8 characters")
	}

	o.Name = strings.TrimSpace(o.Name)
	if o.Name == "" {
		o.Name = o.Login
	}
	if len(o.Name) > 100 {
		return nil, errors.New("display name exceeds maximum length of 100 characters")
	}
	return &o, nil
}

// bootstrapUser creates the user described by o and returns it with a fresh token.
func bootstrapUser(ctx context.Context, s store.UserStore, hasher auth.PasswordHasher, tokens *auth.TokenService, o *bootstrapOptions) (*store.User, string, error) {
	_, err := s.GetUserByLogin(ctx, o.Login)
	if err == nil {
		return nil, "", fmt.Errorf("bootstrap already complete: user %s exists", o.Login)
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, "", fmt.Errorf("checking users: %w", err)
	}

	hash, err := hasher.Hash(o.Password)
	if err != nil {
		return nil, "", fmt.Errorf("hashing password: %w", err)
	}

	u := &store.User{Name: o.Name, Login: o.Login, PasswordHash: hash, Photo: o.Photo}
	if err := s.CreateUser(ctx, u); err != nil {
		return nil, "", fmt.Errorf("creating user: %w", err)
	}

	token, err := tokens.Issue(u.Login)
	if err != nil {
		return nil, "", fmt.Errorf("issuing token: %w", err)
	}
	return u, token, nil
}

func runBootstrap(ctx context.Context, args []string) error {
	o, err := parseBootstrapFlags(args)
	if err != nil {
		return err
	}

	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config (run 'blogpessoal init' first): %w", err)
	}

	green := color.New(color.FgGreen)
	cyan := color.New(color.FgCyan)
	yellow := color.New(color.FgYellow)

	cyan.Printf("  Using config: %s\n", configPath)

	s, err := openStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer s.Close()

	green.Printf("  ✓ Database: %s\n", cfg.Database.Driver)

	tokens, err := auth.NewTokenService([]byte(cfg.Auth.JWTSecret))
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}

	u, token, err := bootstrapUser(ctx, s, auth.NewBcryptHasher(cfg.Auth.BcryptCost), tokens, o)
	if err != nil {
		return err
	}

	green.Printf("  ✓ Created user: %s\n", u.Login)

	fmt.Println()
	green.Println("  Bootstrap complete!")
	fmt.Println()
	cyan.Println("  User")
	cyan.Println("  ----")
	fmt.Printf("  ID:     %d\n", u.ID)
	fmt.Printf("  Nome:   %s\n", u.Name)
	fmt.Printf("  Login:  %s\n", u.Login)
	fmt.Printf("  Token:  Bearer %s\n", token)
	fmt.Printf("  Expira: %s\n", time.Now().Add(auth.TokenTTL).Format(time.RFC3339))
	fmt.Println()

	yellow.Println("  Ready to go:")
	fmt.Println("    blogpessoal serve")
	fmt.Println()

	return nil
}
