package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/cryptograss/stonemint/internal/debug"
	"github.com/cryptograss/stonemint/internal/server"
)

const (
	serverAddrCmdName = "address"
	defaultServerAddr = "localhost:8080"
)

type serveConfig struct {
	Chain      chainConfig
	Keys       signingKeyConfig
	ServerAddr string
}

func newServeCmd(app *stonemintApp) *cobra.Command {
	config := &serveConfig{}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "serves the stone minting form",
		Long:  "serves the web form and the JSON API, submitted forms are signed with the given key and sent to the contract",
		RunE: func(cmd *cobra.Command, args []string) error {
			return execServeCmd(cmd.Context(), app, config)
		},
	}
	cmd.Flags().StringVarP(&config.ServerAddr, serverAddrCmdName, "s", defaultServerAddr, "server address")
	addChainFlags(cmd, &config.Chain)
	addKeyFlags(cmd, &config.Keys)
	return cmd
}

func execServeCmd(ctx context.Context, app *stonemintApp, config *serveConfig) error {
	adapter, closeFn, err := newAdapter(ctx, &config.Chain, &config.Keys, app.newSubmitter)
	if err != nil {
		return err
	}
	defer closeFn()

	srv, err := server.New(adapter)
	if err != nil {
		return fmt.Errorf("creating form server: %w", err)
	}

	log.Info("starting stone minting form server: BuildInfo=%s", debug.BuildInfo())
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.Run(ctx, config.ServerAddr, srv)
	})
	g.Go(func() error {
		<-ctx.Done()
		log.Info("shutting down form server on %s", config.ServerAddr)
		return nil
	})
	return g.Wait()
}
