// Command memorybox fetches Slack, Google Drive and GitHub content using the
// connectors enabled in its config file.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/custodia-labs/memorybox-cli/internal/adapters/driven/auth"
	"github.com/custodia-labs/memorybox-cli/internal/adapters/driving/cli"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	cli.SetVersion(version)
	cli.SetServicesBuilder(func(s cli.Settings) (*cli.Services, error) {
		return newServices(s, auth.OSEnvironment{}, overrides{})
	})

	err := cli.Execute(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
