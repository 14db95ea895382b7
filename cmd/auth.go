package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/urfave/cli/v3"
	"golang.org/x/oauth2"

	"github.com/desertthunder/callouts/internal/server"
	"github.com/desertthunder/callouts/internal/services"
	"github.com/desertthunder/callouts/internal/shared"
)

const authTimeout = 2 * time.Minute

// AuthYouTube performs the installed-app OAuth2 flow for the YouTube Data API.
//
// Starts a local callback server, opens the browser for consent, and caches the resulting token.
func (r *Runner) AuthYouTube(ctx context.Context, cmd *cli.Command) error {
	yt := r.config.YouTube

	oauthConfig, err := services.LoadOAuthConfig(yt.ClientSecretPath, redirectURL(yt.RedirectPort))
	if err != nil {
		return err
	}

	ln, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", yt.RedirectPort))
	if err != nil {
		return fmt.Errorf("failed to listen for OAuth callback: %w", err)
	}

	token, err := r.doOAuth(ctx, oauthConfig, ln, !cmd.Bool("no-browser"), authTimeout)
	if err != nil {
		return err
	}

	cache := services.NewTokenCache(yt.TokenCachePath)
	if err := cache.Save(token); err != nil {
		return err
	}

	r.writePlainln("✓ Authorization successful")
	r.writePlain("✓ Token saved to %s\n\n", cache.Path())
	r.writePlain("You can now use: callouts youtube playlist <id>\n")
	return nil
}

// doOAuth serves the callback on ln until one authorization result arrives or timeout elapses.
func (r *Runner) doOAuth(ctx context.Context, config *oauth2.Config, ln net.Listener, openBrowser bool, timeout time.Duration) (*oauth2.Token, error) {
	state, err := shared.GenerateState()
	if err != nil {
		ln.Close()
		return nil, fmt.Errorf("failed to generate state token: %w", err)
	}

	authURL := services.AuthURL(config, state)
	oauthHandler := server.NewOAuthHandler(config, state)
	router := server.NewBasicRouter()
	router.Handler(oauthHandler)

	serverCtx, stop := context.WithCancel(ctx)
	defer stop()

	serverErrors := make(chan error, 1)
	go func() {
		r.logger.Infof("starting OAuth callback server at %v", ln.Addr())
		serverErrors <- server.New(ln.Addr().String(), router, r.logger).Serve(serverCtx, ln)
	}()

	if openBrowser {
		r.writePlain("→ Opening browser for YouTube authorization...\n")
		if err := shared.OpenBrowser(authURL); err != nil {
			r.logger.Warnf("failed to open browser automatically %v", err)
			r.writePlainln("⚠ Could not open browser automatically.")
			openBrowser = false
		}
	}
	if !openBrowser {
		r.writePlain("Please open this URL in your browser:\n%s\n\n", authURL)
	}

	r.writePlain("→ Waiting for authorization (%v timeout)...\n", timeout)

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	var result server.OAuthResult
	select {
	case result = <-oauthHandler.Result():
	case err := <-serverErrors:
		if err == nil {
			err = errors.New("callback server stopped")
		}
		return nil, fmt.Errorf("server error: %w", err)
	case <-timer.C:
		return nil, fmt.Errorf("%w: authorization timed out after %v", shared.ErrTimeout, timeout)
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	if result.Error() != nil {
		return nil, fmt.Errorf("authorization failed: %w", result.Error())
	}

	if result.Token == nil {
		return nil, fmt.Errorf("%w: no token received", shared.ErrAuthFailed)
	}

	return result.Token, nil
}

// AuthStatus reports whether a YouTube token is cached and when it expires.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	cache := services.NewTokenCache(r.config.YouTube.TokenCachePath)

	token, err := cache.Load()
	if errors.Is(err, shared.ErrNotAuthenticated) {
		r.writePlain("YouTube: ✗ Not authenticated\n")
		r.writePlain("Run 'callouts auth youtube' to authorize.\n")
		return nil
	}
	if err != nil {
		return err
	}

	r.writePlain("YouTube: ✓ Authenticated\n")
	r.writePlain("Token cache: %s\n", cache.Path())
	if token.RefreshToken != "" {
		r.writePlain("Refresh token: present\n")
	} else {
		r.writePlain("Refresh token: missing, reauthorize when the access token expires\n")
	}
	if !token.Expiry.IsZero() {
		r.writePlain("Access token expires: %s\n", token.Expiry.Local().Format(time.RFC1123))
	}
	return nil
}
