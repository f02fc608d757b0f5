package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	youtubeclient "ytbulkedit/infrastructure/clients/youtube"
	"ytbulkedit/infrastructure/configuration"
	"ytbulkedit/infrastructure/logger"
	"ytbulkedit/infrastructure/realtime"
	httpHandler "ytbulkedit/interfaces/http"
	"ytbulkedit/server"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the local HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if !cfg.Logger.ToFile {
				logger.SetOutput(cmd.ErrOrStderr())
			}
			if cfg.App.SecretKey == "" {
				logger.GetLogger().Warn("No secret key configured, the API accepts unauthenticated requests")
			}

			hub := realtime.NewHub()
			a, err := newApp(ctx, appOptions{lock: true, publisher: hub})
			if err != nil {
				return err
			}
			defer a.Close()

			if a.client != nil {
				if title, err := a.engine.Connect(ctx); err != nil {
					logger.GetLogger().WithField("error", err).Warn("Could not connect on startup")
				} else {
					logger.GetLogger().WithField("channel", title).Info("Connected")
				}
			} else {
				logger.GetLogger().Info("No saved token, authorize through /auth/youtube and restart")
			}

			handlers := server.Handlers{
				Bulk:   httpHandler.NewBulkHandler(ctx, a.engine),
				Health: httpHandler.NewHealthHandler(a.engine),
				Events: hub,
			}
			ytCfg := configuration.GetYouTubeConfig(cfg)
			if oauthCfg, err := youtubeclient.NewOAuthConfig(ytCfg.CredentialsFile, ytCfg.ClientID, ytCfg.ClientSecret, ytCfg.RedirectURL); err == nil {
				authHandler := httpHandler.NewYouTubeAuthHandler(oauthCfg, a.tokens)
				handlers.Auth = authHandler
				go func() {
					select {
					case <-authHandler.Done():
						logger.GetLogger().Info("Authorization saved, restart the server to use it")
					case <-ctx.Done():
					}
				}()
			} else {
				logger.GetLogger().WithField("error", err).Warn("OAuth routes disabled")
			}

			gin.SetMode(gin.ReleaseMode)
			router := server.InitiateRouter(handlers, cfg.App.SecretKey, cfg.App.AllowedOrigins)
			srv := &http.Server{
				Addr:              fmt.Sprintf("%s:%d", cfg.App.Host, cfg.App.Port),
				Handler:           router,
				ReadHeaderTimeout: 10 * time.Second,
			}

			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				logger.GetLogger().WithField("addr", srv.Addr).Info("Starting application")
				if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			})
			g.Go(func() error {
				<-gctx.Done()
				logger.GetLogger().Info("Application shutdown requested")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				return srv.Shutdown(shutdownCtx)
			})
			return g.Wait()
		},
	}
}

func init() {
	rootCmd.AddCommand(newServeCmd())
}
