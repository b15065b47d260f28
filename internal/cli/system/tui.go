package system

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/habitvault/internal/cli"
	"github.com/julianstephens/habitvault/internal/notifier"
	"github.com/julianstephens/habitvault/internal/tui"
)

type TuiCmd struct{}

func (c *TuiCmd) Run(ctx *cli.Context) error {
	notices := notifier.NewRecorder(20)
	ctrl := ctx.NewDashboard(notices)

	p := tea.NewProgram(tui.NewModel(ctx.Ctx, ctrl, ctx.Session, notices, ctx.Client.BaseURL()), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui exited with an error: %w", err)
	}
	return nil
}
