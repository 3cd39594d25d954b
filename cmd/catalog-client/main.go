package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"

	"github.com/bytedance/sonic"

	"github.com/ghelioth/les-bons-artisants-test/internal/client"
	"github.com/ghelioth/les-bons-artisants-test/internal/domain/catalog"
	"github.com/ghelioth/les-bons-artisants-test/internal/platform/errors"
)

const usage = `usage: catalog-client [flags] <command> [args]

commands:
  list                     print the catalog
  watch                    follow live catalog changes until interrupted
  create '<json>'          create a product from a JSON record
  update <id> '<json>'     apply a partial JSON change to a product
  delete <id>              delete a product
`

func main() {
	baseURL := flag.String("api", "http://127.0.0.1:8080", "REST endpoint")
	pushURL := flag.String("push", "ws://127.0.0.1:8081/ws", "push channel endpoint")
	email := flag.String("email", "", "account email")
	password := flag.String("password", "", "account password")
	name := flag.String("name", "", "display name, registers a new account when set")
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	if err := run(*baseURL, *pushURL, *email, *password, *name, args); err != nil {
		fmt.Fprintf(os.Stderr, "catalog-client: %s\n", errors.Message(err))
		os.Exit(1)
	}
}

func run(baseURL, pushURL, email, password, name string, args []string) error {
	ctx := context.Background()
	c := client.New(client.Config{BaseURL: baseURL, PushURL: pushURL}, nil)

	needsCredential := args[0] != "list"
	if needsCredential || email != "" {
		if email == "" || password == "" {
			return errors.New(errors.KindValidation, "client.run", "email and password are required")
		}
		var err error
		if name != "" {
			_, err = c.Register(ctx, name, email, password)
		} else {
			_, err = c.Login(ctx, email, password)
		}
		if err != nil {
			return err
		}
		defer func() {
			_ = c.Logout(ctx)
		}()
	}

	switch args[0] {
	case "list":
		if err := c.Refresh(ctx); err != nil {
			return err
		}
		return printProducts(c.Store().List())

	case "watch":
		return watch(ctx, c)

	case "create":
		if len(args) != 2 {
			return errors.New(errors.KindValidation, "client.run", "create needs one JSON argument")
		}
		record, err := parseRecord(args[1])
		if err != nil {
			return err
		}
		created, err := c.Create(ctx, record)
		if err != nil {
			return err
		}
		return printProducts([]catalog.Product{created})

	case "update":
		if len(args) != 3 {
			return errors.New(errors.KindValidation, "client.run", "update needs an id and a JSON argument")
		}
		id, err := parseID(args[1])
		if err != nil {
			return err
		}
		patch, err := parseRecord(args[2])
		if err != nil {
			return err
		}
		updated, err := c.Update(ctx, id, patch)
		if err != nil {
			return err
		}
		return printProducts([]catalog.Product{updated})

	case "delete":
		if len(args) != 2 {
			return errors.New(errors.KindValidation, "client.run", "delete needs an id")
		}
		id, err := parseID(args[1])
		if err != nil {
			return err
		}
		return c.Delete(ctx, id)

	default:
		return errors.New(errors.KindValidation, "client.run", "unknown command "+args[0])
	}
}

// watch connects the push channel and prints the reconciled catalog after
// every change until the connection drops or the process is interrupted.
func watch(ctx context.Context, c *client.Client) error {
	c.Store().OnChange(func() {
		fmt.Println("--- catalog changed ---")
		_ = printProducts(c.Store().List())
	})

	if err := c.Connect(ctx); err != nil {
		return err
	}
	defer c.Disconnect()

	fmt.Println("watching for changes, ctrl-c to stop")
	_ = printProducts(c.Store().List())

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()
	select {
	case <-ctx.Done():
	case <-c.Done():
	}
	return nil
}

func printProducts(products []catalog.Product) error {
	for _, p := range products {
		line, err := sonic.Marshal(p)
		if err != nil {
			return err
		}
		fmt.Println(string(line))
	}
	return nil
}

func parseRecord(raw string) (catalog.Record, error) {
	var record catalog.Record
	if err := sonic.Unmarshal([]byte(raw), &record); err != nil {
		return nil, errors.Wrap(errors.KindValidation, "client.run", "parse JSON record", err)
	}
	return record, nil
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New(errors.KindValidation, "client.run", "id must be a positive number")
	}
	return id, nil
}
