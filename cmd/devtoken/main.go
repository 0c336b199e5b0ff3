// Command devtoken mints a bearer token for local testing of the API.
//
//	go run ./cmd/devtoken -user 7 -roles admin
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"heritagecatalog/config"
	"heritagecatalog/internal/adapters/auth"
	"heritagecatalog/internal/domain"
)

type options struct {
	userID int64
	email  string
	roles  []string
	ttl    time.Duration
}

func parseOptions(fs *flag.FlagSet, args []string) (options, error) {
	var (
		opts  options
		roles string
	)
	fs.Int64Var(&opts.userID, "user", 0, "user id carried in the token subject")
	fs.StringVar(&opts.email, "email", "", "email claim")
	fs.StringVar(&roles, "roles", "", "comma separated roles (admin grants administrator authority)")
	fs.DurationVar(&opts.ttl, "ttl", 24*time.Hour, "token lifetime")
	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	if opts.userID <= 0 {
		return opts, fmt.Errorf("-user must be a positive id")
	}
	for _, r := range strings.Split(roles, ",") {
		if r = strings.TrimSpace(r); r != "" {
			opts.roles = append(opts.roles, r)
		}
	}
	return opts, nil
}

func run(issuer domain.TokenIssuer, opts options, out io.Writer) error {
	token, err := issuer.Issue(opts.userID, opts.email, opts.roles, opts.ttl)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, token)
	return err
}

func main() {
	opts, err := parseOptions(flag.CommandLine, os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if cfg.JWTSecret == "" {
		fmt.Fprintln(os.Stderr, "JWT_SECRET is required")
		os.Exit(1)
	}
	if err := run(auth.NewJWTIssuer(cfg.JWTSecret), opts, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
