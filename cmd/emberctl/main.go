// emberctl runs operator tasks against the user store: seeding the
// first accounts, checking whether a name is taken, inspecting a
// record. It talks to the same store the server does, so the
// registration invariants (lower-cased key, conditional create, frozen
// hash format) hold here too.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"regexp"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/emberworks/emberweb/internal/auth"
	"github.com/emberworks/emberweb/internal/config"
	"github.com/emberworks/emberweb/internal/password"
	"github.com/emberworks/emberweb/internal/store"
)

var usernameRE = regexp.MustCompile(`^[a-zA-Z0-9-_]+$`)

func main() {
	app := &cli.App{
		Name:  "emberctl",
		Usage: "operator tasks against the ember user store",
		Commands: []*cli.Command{
			{
				Name:  "user",
				Usage: "manage user records",
				Subcommands: []*cli.Command{
					{
						Name:  "create",
						Usage: "create a user record directly in the store",
						Flags: []cli.Flag{
							&cli.StringFlag{Name: "account", Required: true},
							&cli.StringFlag{Name: "password", Required: true},
							&cli.IntFlag{Name: "admin", Usage: "admin level (0 = regular user)"},
						},
						Action: createUser,
					},
					{
						Name:      "show",
						Usage:     "print a stored user record",
						ArgsUsage: "<account>",
						Action:    showUser,
					},
					{
						Name:      "exists",
						Usage:     "check whether an account name is taken",
						ArgsUsage: "<account>",
						Action:    userExists,
					},
				},
			},
		},
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func openStore(ctx context.Context) (store.Store, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	switch {
	case cfg.RedisURL != "":
		return store.OpenRedis(ctx, cfg.RedisURL)
	case cfg.DatabaseURL != "":
		return store.OpenPostgres(cfg.DatabaseURL)
	default:
		return nil, errors.New("REDIS_URL or DATABASE_URL must be set")
	}
}

func createUser(c *cli.Context) error {
	account := c.String("account")
	if !usernameRE.MatchString(account) {
		return cli.Exit("account may only contain letters, digits, hyphen and underscore", 1)
	}

	st, err := openStore(c.Context)
	if err != nil {
		return err
	}
	defer st.Close()

	hashed, err := password.Hash(c.String("password"))
	if err != nil {
		return err
	}
	user := auth.User{
		Username: account,
		Password: hashed,
		Admin:    c.Int("admin"),
		Created:  time.Now().UTC().Format(time.RFC3339),
	}
	blob, err := json.Marshal(user)
	if err != nil {
		return err
	}

	created, err := st.SetIfAbsent(c.Context, auth.UserKey(account), string(blob))
	if err != nil {
		return err
	}
	if !created {
		return cli.Exit("account name is already in use", 1)
	}
	fmt.Printf("created %s (admin=%d)\n", account, user.Admin)
	return nil
}

func showUser(c *cli.Context) error {
	account := c.Args().First()
	if account == "" {
		return cli.Exit("usage: emberctl user show <account>", 1)
	}

	st, err := openStore(c.Context)
	if err != nil {
		return err
	}
	defer st.Close()

	blob, err := st.Get(c.Context, auth.UserKey(account))
	if errors.Is(err, store.ErrNotFound) {
		return cli.Exit("no such account", 1)
	}
	if err != nil {
		return err
	}
	fmt.Println(blob)
	return nil
}

func userExists(c *cli.Context) error {
	account := c.Args().First()
	if account == "" {
		return cli.Exit("usage: emberctl user exists <account>", 1)
	}

	st, err := openStore(c.Context)
	if err != nil {
		return err
	}
	defer st.Close()

	ok, err := st.Exists(c.Context, auth.UserKey(account))
	if err != nil {
		return err
	}
	if !ok {
		return cli.Exit("not found", 1)
	}
	fmt.Println("exists")
	return nil
}
