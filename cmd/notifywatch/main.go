// notifywatch logs in and prints a user's notifications as they arrive.
//
//	NOTIFY_EMAIL=me@example.com NOTIFY_PASSWORD=... go run ./cmd/notifywatch -api http://localhost:3000/api
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"ticket-marketplace-be/pkg/apiclient"
	"ticket-marketplace-be/pkg/notifyclient"

	"github.com/fatih/color"
	"go.uber.org/zap"
)

func main() {
	baseURL := flag.String("api", "http://localhost:3000/api", "API base URL")
	email := flag.String("email", os.Getenv("NOTIFY_EMAIL"), "login email")
	verbose := flag.Bool("v", false, "log reconnects")
	flag.Parse()

	password := os.Getenv("NOTIFY_PASSWORD")
	if *email == "" || password == "" {
		color.Red("Set -email (or NOTIFY_EMAIL) and NOTIFY_PASSWORD")
		os.Exit(2)
	}

	log := zap.NewNop()
	if *verbose {
		log, _ = zap.NewDevelopment()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	api, err := apiclient.New(*baseURL, apiclient.WithLogger(log))
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}

	session, err := api.Login(ctx, *email, password)
	if err != nil {
		color.Red("Login failed: %v", err)
		os.Exit(1)
	}
	color.Cyan("Watching notifications for %s (%s). Ctrl-C to stop.", session.User.FullName, session.User.Email)

	printed := make(map[string]bool)
	channel := notifyclient.NewChannel(api, session.User.Id.String(),
		notifyclient.WithLogger(log),
		notifyclient.WithOnUpdate(func(items []notifyclient.Notification) {
			// oldest first so the terminal reads top to bottom
			for i := len(items) - 1; i >= 0; i-- {
				n := items[i]
				if printed[n.ID] {
					continue
				}
				printed[n.ID] = true
				printNotification(n)
			}
		}),
	)
	if err := channel.Start(ctx); err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}

	<-ctx.Done()
	channel.Close()
	color.Yellow("\nStopped.")
}

func printNotification(n notifyclient.Notification) {
	stamp := n.CreatedAt.Local().Format("15:04:05")
	title := color.New(color.Bold).SprintFunc()
	code := color.New(color.FgMagenta).SprintFunc()

	if n.IsRead {
		color.New(color.FgHiBlack).Printf("%s  %s  %s\n", stamp, n.Title, n.Message)
		return
	}
	fmt.Printf("%s  %s %s  %s\n", color.GreenString(stamp), code("["+n.TypeCode+"]"), title(n.Title), n.Message)
}
