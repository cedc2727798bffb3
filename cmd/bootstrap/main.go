// Command bootstrap creates (or reuses) a user and issues an API key for it.
// The plaintext key is printed once and never stored.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/shortenerproject/shortener/internal/auth"
	"github.com/shortenerproject/shortener/internal/model"
	"github.com/shortenerproject/shortener/internal/repository"
)

var errUsage = errors.New("usage")

type options struct {
	databaseURL string
	username    string
	keyName     string
	scopes      []string
	env         string
	format      string
	migrate     bool
}

func main() {
	opts, err := parseFlags(os.Args[1:], os.Getenv("DATABASE_URL"))
	if err != nil {
		if !errors.Is(err, errUsage) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(2)
	}

	if err := run(opts, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func parseFlags(args []string, defaultDatabaseURL string) (*options, error) {
	fs := flag.NewFlagSet("bootstrap", flag.ContinueOnError)

	opts := &options{}
	var scopesInput string
	fs.StringVar(&opts.databaseURL, "database-url", defaultDatabaseURL, "PostgreSQL connection string")
	fs.StringVar(&opts.username, "username", "admin", "Owner username; created when missing")
	fs.StringVar(&opts.keyName, "name", "bootstrap", "API key name")
	fs.StringVar(&scopesInput, "scopes", "read,write", "Comma-separated scopes (read,write,admin)")
	fs.StringVar(&opts.env, "env", auth.EnvLive, "Key environment: live or test")
	fs.StringVar(&opts.format, "format", "plain", "Output format: plain or json")
	fs.BoolVar(&opts.migrate, "migrate", false, "Apply migrations before issuing the key")

	if err := fs.Parse(args); err != nil {
		return nil, errUsage
	}

	if opts.databaseURL == "" {
		return nil, errors.New("DATABASE_URL or -database-url is required")
	}
	if strings.TrimSpace(opts.username) == "" {
		return nil, errors.New("-username must not be empty")
	}
	if opts.env != auth.EnvLive && opts.env != auth.EnvTest {
		return nil, fmt.Errorf("invalid env %q; use live or test", opts.env)
	}
	opts.format = strings.ToLower(opts.format)
	if opts.format != "plain" && opts.format != "json" {
		return nil, fmt.Errorf("invalid format %q; use plain or json", opts.format)
	}

	scopes, err := parseScopes(scopesInput)
	if err != nil {
		return nil, err
	}
	opts.scopes = scopes
	return opts, nil
}

func parseScopes(input string) ([]string, error) {
	var scopes []string
	for _, part := range strings.Split(input, ",") {
		scope := strings.TrimSpace(part)
		if scope == "" {
			continue
		}
		if !slices.Contains(model.ValidScopes, scope) {
			return nil, fmt.Errorf("invalid scope: %s", scope)
		}
		if !slices.Contains(scopes, scope) {
			scopes = append(scopes, scope)
		}
	}
	if len(scopes) == 0 {
		return nil, errors.New("at least one scope is required")
	}
	return scopes, nil
}

func run(opts *options, out io.Writer) error {
	if opts.migrate {
		if err := repository.MigrateUp(opts.databaseURL); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	repo, err := repository.New(ctx, opts.databaseURL)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer repo.Close()

	user, err := repo.GetOrCreateUser(ctx, &model.User{
		ID:       ulid.Make().String(),
		Username: opts.username,
	})
	if err != nil {
		return fmt.Errorf("ensure user: %w", err)
	}

	generated, err := auth.GenerateAPIKey(opts.env)
	if err != nil {
		return fmt.Errorf("generate api key: %w", err)
	}

	key := &model.APIKey{
		ID:        ulid.Make().String(),
		UserID:    user.ID,
		KeyHash:   generated.Hash,
		KeyPrefix: generated.Prefix,
		Scopes:    opts.scopes,
		Name:      opts.keyName,
		CreatedAt: time.Now().UTC(),
	}
	if err := repo.CreateAPIKey(ctx, key); err != nil {
		return fmt.Errorf("create api key: %w", err)
	}

	return writeIssued(out, opts.format, &model.IssuedKey{
		ID:        key.ID,
		UserID:    user.ID,
		Key:       generated.Plaintext,
		KeyPrefix: key.KeyPrefix,
		Scopes:    key.Scopes,
		CreatedAt: key.CreatedAt,
	})
}

func writeIssued(out io.Writer, format string, issued *model.IssuedKey) error {
	if format == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(issued)
	}
	_, err := fmt.Fprintln(out, issued.Key)
	return err
}
