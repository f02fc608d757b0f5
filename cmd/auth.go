package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	youtubeclient "ytbulkedit/infrastructure/clients/youtube"
	"ytbulkedit/infrastructure/configuration"
	"ytbulkedit/infrastructure/logger"
	"ytbulkedit/infrastructure/persistence"
	httpHandler "ytbulkedit/interfaces/http"
)

func newAuthCmd() *cobra.Command {
	var switchAccount bool
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Authorize access to a YouTube channel",
		Long: `Authorize access to a YouTube channel.

Starts a local listener on the configured redirect URL, prints the
consent page address and waits for the callback. With --switch the
current token is moved aside first so another account can be chosen.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			paths := cfg.Paths()
			tokens := persistence.NewOAuthTokenRepository(paths.Token)

			if switchAccount {
				if err := tokens.Rotate(); err != nil {
					return err
				}
				fmt.Fprintln(cmd.ErrOrStderr(), "Previous token moved aside.")
			}

			ytCfg := configuration.GetYouTubeConfig(cfg)
			oauthCfg, err := youtubeclient.NewOAuthConfig(ytCfg.CredentialsFile, ytCfg.ClientID, ytCfg.ClientSecret, ytCfg.RedirectURL)
			if err != nil {
				return err
			}
			handler := httpHandler.NewYouTubeAuthHandler(oauthCfg, tokens)
			if err := awaitCallback(ctx, oauthCfg.RedirectURL, handler, func(authURL string) {
				fmt.Fprintf(cmd.OutOrStdout(), "Open this address in a browser to authorize:\n\n  %s\n\n", authURL)
			}); err != nil {
				return err
			}

			a, err := newApp(ctx, appOptions{lock: true})
			if err != nil {
				return err
			}
			defer a.Close()
			title, err := a.engine.Connect(ctx)
			if title != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "Connected to %s\n", title)
			}
			return err
		},
	}
	cmd.Flags().BoolVar(&switchAccount, "switch", false, "discard the saved token and authorize a different account")
	return cmd
}

// awaitCallback serves the redirect path until the handler saved a token.
func awaitCallback(ctx context.Context, redirectURL string, handler *httpHandler.YouTubeAuthHandler, announce func(string)) error {
	u, err := url.Parse(redirectURL)
	if err != nil {
		return fmt.Errorf("invalid redirect url %q: %w", redirectURL, err)
	}
	if u.Path == "" {
		u.Path = "/"
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.GET(u.Path, handler.HandleCallback)
	srv := &http.Server{Addr: u.Host, Handler: router, ReadHeaderTimeout: 10 * time.Second}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.GetLogger().WithField("addr", u.Host).Info("Waiting for OAuth callback")
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
		announce(handler.AuthURL())
		select {
		case <-handler.Done():
			return nil
		case <-gctx.Done():
			return gctx.Err()
		}
	})
	return g.Wait()
}

func init() {
	rootCmd.AddCommand(newAuthCmd())
}
