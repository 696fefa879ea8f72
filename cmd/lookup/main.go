package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"

	"rust-team-tracker/internal/rpc"

	"connectrpc.com/connect"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:      "lookup",
		Usage:     "look up a player's team and presence on the tracked server",
		ArgsUsage: "NAME",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "server",
				Usage:   "base URL of the team lookup service",
				Value:   "http://localhost:8080",
				EnvVars: []string{"TEAMLOOKUP_SERVER"},
			},
			&cli.StringFlag{
				Name:  "session",
				Usage: "session id; a lookup supersedes earlier ones in the same session",
			},
			&cli.BoolFlag{
				Name:  "no-color",
				Usage: "disable colored status dots",
			},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func run(c *cli.Context) error {
	name := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if name == "" {
		return cli.Exit("Please enter a player name.", 2)
	}

	client := rpc.NewTeamLookupClient(http.DefaultClient, c.String("server"))
	stream, err := client.Lookup(c.Context, connect.NewRequest(&rpc.LookupRequest{
		Name:      name,
		SessionID: c.String("session"),
	}))
	if err != nil {
		return fmt.Errorf("failed to start lookup: %w", err)
	}
	defer stream.Close()

	p := newPrinter(c.App.Writer, !c.Bool("no-color"))
	for stream.Receive() {
		p.Event(stream.Msg())
	}
	if err := stream.Err(); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("lookup stream failed: %w", err)
	}

	if id := stream.ResponseHeader().Get(rpc.SessionHeader); id != "" {
		p.Session(id)
	}
	if p.failed {
		return cli.Exit("", 1)
	}
	return nil
}
