package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"

	"github.com/julianstephens/habitvault/internal/api"
	"github.com/julianstephens/habitvault/internal/cli"
	"github.com/julianstephens/habitvault/internal/cli/habits"
	"github.com/julianstephens/habitvault/internal/cli/system"
	"github.com/julianstephens/habitvault/internal/constants"
	"github.com/julianstephens/habitvault/internal/errors"
	"github.com/julianstephens/habitvault/internal/keyring"
	"github.com/julianstephens/habitvault/internal/logger"
	"github.com/julianstephens/habitvault/internal/storage"
)

var CLI struct {
	Version   kong.VersionFlag
	APIURL    string        `name:"api-url" help:"HabitVault API base URL." env:"HABITVAULT_API_URL" default:"${api_url}"`
	Token     string        `help:"API token. Overrides the token stored in the OS keyring." env:"HABITVAULT_TOKEN"`
	ConfigDir string        `help:"Directory for logs and the habit cache." type:"path" env:"HABITVAULT_CONFIG_DIR" default:"${config_dir}"`
	Timeout   time.Duration `help:"API request timeout." env:"HABITVAULT_TIMEOUT" default:"${timeout}"`
	Debug     bool          `help:"Log debug output to stderr."`

	Tui    system.TuiCmd    `cmd:"" help:"Launch the interactive dashboard." default:"1"`
	Login  system.LoginCmd  `cmd:"" help:"Store an API token in the OS keyring."`
	Logout system.LogoutCmd `cmd:"" help:"Remove the stored API token."`
	Doctor system.DoctorCmd `cmd:"" help:"Run health checks and diagnostics."`
	Habit  habits.HabitCmd  `cmd:"" help:"Manage habits and habit tracking."`
}

func main() {
	// A missing .env is fine; real environment variables still apply
	_ = godotenv.Load()

	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Terminal dashboard for the HabitVault habit tracker"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version":    constants.Version,
			"api_url":    constants.DefaultAPIURL,
			"config_dir": constants.DefaultConfigDir,
			"timeout":    constants.DefaultRequestTimeout.String(),
		},
	)

	if err := logger.Init(logger.Config{Debug: CLI.Debug, ConfigDir: CLI.ConfigDir}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logger: %v\n", err)
	}

	session := keyring.NewSession(CLI.Token)
	client, err := api.New(api.Config{
		BaseURL: CLI.APIURL,
		Timeout: CLI.Timeout,
		Token:   session.Token,
	})
	if err != nil {
		errors.Fatal(err)
	}

	store := storage.NewStore(filepath.Join(CLI.ConfigDir, constants.SnapshotFileName))
	store.SetSource(client.BaseURL())

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	appCtx := &cli.Context{
		Ctx:     runCtx,
		Client:  client,
		Session: session,
		Store:   store,
		Out:     os.Stdout,
	}

	err = ctx.Run(appCtx)
	appCtx.Close()
	stop()
	if err != nil {
		logger.Error("Command execution failed", "command", ctx.Command(), "error", err)
		fmt.Fprintln(os.Stderr, errors.Format(err))
		os.Exit(1)
	}
}
