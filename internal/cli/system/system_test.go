package system

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	gokeyring "github.com/zalando/go-keyring"

	"github.com/julianstephens/habitvault/internal/api"
	"github.com/julianstephens/habitvault/internal/api/apitest"
	"github.com/julianstephens/habitvault/internal/cli"
	"github.com/julianstephens/habitvault/internal/constants"
	"github.com/julianstephens/habitvault/internal/keyring"
	"github.com/julianstephens/habitvault/internal/models"
	"github.com/julianstephens/habitvault/internal/storage"
)

func setupTestContext(t *testing.T, token string, habits ...models.Habit) (*cli.Context, *bytes.Buffer) {
	t.Helper()
	gokeyring.MockInit()

	srv := apitest.NewServer(habits...)
	t.Cleanup(srv.Close)
	srv.Token = "tok"

	session := keyring.NewSession(token)
	client, err := api.New(api.Config{BaseURL: srv.URL, Timeout: 5 * time.Second, Token: session.Token})
	if err != nil {
		t.Fatalf("api.New() failed: %v", err)
	}

	out := &bytes.Buffer{}
	ctx := &cli.Context{
		Ctx:     context.Background(),
		Client:  client,
		Session: session,
		Store:   storage.NewStore(filepath.Join(t.TempDir(), constants.SnapshotFileName)),
		Out:     out,
	}
	t.Cleanup(ctx.Close)
	return ctx, out
}
