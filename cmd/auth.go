package main

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/desertthunder/tracklist/internal/server"
	"github.com/desertthunder/tracklist/internal/shared"
	"github.com/urfave/cli/v3"
	"golang.org/x/oauth2"
)

const authTimeout = 2 * time.Minute

// AuthLogin performs the OAuth2 authorization code flow for Spotify.
//
// Starts a local HTTP server, opens browser for user authorization, and exchanges auth code for tokens.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	if r.auth == nil {
		return fmt.Errorf("%w: set client_id and client_secret under [credentials.spotify] in %s",
			shared.ErrMissingCredentials, r.configPath)
	}

	token, err := r.doOAuth(ctx)
	if err != nil {
		return err
	}

	if err := r.config.Credentials.Spotify.Update(token); err != nil {
		return fmt.Errorf("failed to update spotify configuration: %w", err)
	}

	if err := shared.SaveConfig(r.configPath, r.config); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	r.session.SetToken(token)

	r.writePlainln("✓ Authorization successful")
	r.writePlain("✓ Tokens saved to %s\n\n", r.configPath)
	r.writePlain("You can now use: tracklist playlists\n")
	return nil
}

// AuthStatus reports whether a token is stored and verifies it with a profile request.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	token := r.session.Token()
	if token == nil {
		r.writePlain("✗ Not signed in\n")
		r.writePlain("Run 'tracklist auth login' to authorize.\n")
		return nil
	}

	if !token.Expiry.IsZero() {
		r.writePlain("Token expiry: %s\n", token.Expiry.Local().Format(time.RFC1123))
	}

	entry := r.library.Profile(ctx)
	if err := entryErr("profile", entry); err != nil {
		if errors.Is(err, shared.ErrTokenExpired) {
			r.writePlain("✗ Token rejected; run 'tracklist auth login' again\n")
			return nil
		}
		return err
	}

	r.writePlain("✓ Signed in as %s\n", entry.Data.DisplayName)
	return nil
}

// AuthLogout removes the stored token from the config file.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	creds := &r.config.Credentials.Spotify
	creds.AccessToken, creds.RefreshToken, creds.TokenType = "", "", ""
	creds.Expiry = time.Time{}

	if err := shared.SaveConfig(r.configPath, r.config); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	r.session.Clear()
	r.library.Reset()
	r.writePlain("✓ Signed out\n")
	return nil
}

// callbackPath returns the path component of the configured redirect URI.
func (r *Runner) callbackPath() string {
	u, err := url.Parse(r.config.Credentials.Spotify.RedirectURI)
	if err != nil || u.Path == "" {
		return "/callback"
	}
	return u.Path
}

// doOAuth executes the OAuth2 authorization flow with a local HTTP server
func (r *Runner) doOAuth(ctx context.Context) (*oauth2.Token, error) {
	state, err := shared.GenerateState()
	if err != nil {
		return nil, fmt.Errorf("failed to generate state token: %w", err)
	}

	handler := server.NewCallbackHandler(r.auth, state, r.callbackPath())
	router := server.NewBasicRouter()
	router.Use(server.Recoverer(r.logger), server.RequestLogger(r.logger))
	router.Handler(handler)

	addr := fmt.Sprintf("%s:%d", r.config.Server.Host, r.config.Server.Port)
	listener, err := server.Listen(addr, router, r.logger)
	if err != nil {
		return nil, err
	}
	defer listener.Shutdown(context.WithoutCancel(ctx))

	r.logger.Infof("starting OAuth server for authorization at %v", listener.Addr())

	authURL := r.auth.AuthURL(state)
	r.writePlain("→ Opening browser for Spotify authorization...\n")
	if err := shared.OpenBrowser(authURL); err != nil {
		r.logger.Warnf("failed to open browser automatically %v", err)
		r.writePlainln("⚠ Could not open browser automatically.")
		r.writePlain("Please open this URL in your browser:\n%s\n\n", authURL)
	}

	r.writePlain("→ Waiting for authorization (2 minute timeout)...\n")

	timeout := time.NewTimer(authTimeout)
	defer timeout.Stop()

	select {
	case result := <-handler.Result():
		if result.Err != nil {
			return nil, fmt.Errorf("authorization failed: %w", result.Err)
		}
		if result.Token == nil {
			return nil, fmt.Errorf("%w: no token received", shared.ErrAuthFailed)
		}
		return result.Token, nil
	case err, ok := <-listener.Errors():
		if !ok {
			return nil, fmt.Errorf("%w: callback server stopped", shared.ErrServiceUnavailable)
		}
		return nil, fmt.Errorf("server error: %w", err)
	case <-timeout.C:
		return nil, fmt.Errorf("%w: authorization timed out after 2 minutes", shared.ErrTimeout)
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
