package system

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/habitvault/internal/cli"
	"github.com/julianstephens/habitvault/internal/constants"
)

// LoginCmd stores an API token in the OS keyring
type LoginCmd struct {
	Token string `arg:"" optional:"" help:"API token. Prompted for when omitted."`
}

func (cmd *LoginCmd) Run(ctx *cli.Context) error {
	token := strings.TrimSpace(cmd.Token)
	if token == "" {
		err := huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("API Token").
					EchoMode(huh.EchoModePassword).
					Value(&token),
			),
		).WithTheme(huh.ThemeDracula()).Run()
		if err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				return errors.New("login cancelled")
			}
			return fmt.Errorf("failed to read token: %w", err)
		}
	}

	if err := ctx.Session.Login(token); err != nil {
		return err
	}

	// A bad token is stored anyway; report it without failing the login
	if err := ctx.Client.Ping(ctx.Ctx); err != nil {
		fmt.Fprintf(ctx.Out, "⚠ Token stored, but the API check failed: %v\n", err)
		return nil
	}
	fmt.Fprintln(ctx.Out, "✓ Token stored in OS keyring")
	return nil
}

// LogoutCmd removes the stored API token
type LogoutCmd struct{}

func (cmd *LogoutCmd) Run(ctx *cli.Context) error {
	if err := ctx.Session.Logout(); err != nil {
		return fmt.Errorf("failed to remove token: %w", err)
	}
	fmt.Fprintln(ctx.Out, "✓ "+constants.MsgLoggedOut)
	return nil
}
