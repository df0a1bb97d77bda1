package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/ghapi-client/internal/auth"
	"github.com/fivetwenty-io/ghapi-client/internal/constants"
	"github.com/fivetwenty-io/ghapi-client/pkg/ghapi"
)

type loginOptions struct {
	withToken    bool
	username     string
	clientID     string
	clientSecret string
	scopes       []string
	note         string
	otp          string
}

// NewLoginCommand creates the login command.
func NewLoginCommand() *cobra.Command {
	opts := &loginOptions{}

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Store a token for the API endpoint",
		Long: `Verify a token and store it in the system keyring for the configured API.

By default the token is prompted for. With --username, an OAuth
authorization is obtained for an application using basic authentication;
accounts with two-factor authentication are prompted for a one-time code.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogin(cmd, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.withToken, "with-token", false, "read the token from standard input")
	cmd.Flags().StringVarP(&opts.username, "username", "u", "", "login for basic authentication")
	cmd.Flags().StringVar(&opts.clientID, "client-id", "", "OAuth application client ID")
	cmd.Flags().StringVar(&opts.clientSecret, "client-secret", "", "OAuth application client secret")
	cmd.Flags().StringSliceVar(&opts.scopes, "scopes", []string{"repo"}, "scopes to request")
	cmd.Flags().StringVar(&opts.note, "note", "ghapi CLI", "note attached to the authorization")
	cmd.Flags().StringVar(&opts.otp, "otp", "", "two-factor one-time password")
	cmd.MarkFlagsRequiredTogether("username", "client-id", "client-secret")
	cmd.MarkFlagsMutuallyExclusive("with-token", "username")

	return cmd
}

func runLogin(cmd *cobra.Command, opts *loginOptions) error {
	ctx := cmd.Context()
	config := loadConfig()

	var (
		token string
		err   error
	)

	switch {
	case opts.username != "":
		token, err = authorizeApp(ctx, cmd, config, opts)
	case opts.withToken:
		token, err = readSecret(cmd, "")
	default:
		token, err = readSecret(cmd, "Token: ")
	}

	if err != nil {
		return err
	}

	if token == "" {
		return constants.ErrTokenRequired
	}

	engineConfig, err := clientConfig(ctx, config)
	if err != nil {
		return err
	}

	engineConfig.Token = token

	client, err := newClient(ctx, engineConfig)
	if err != nil {
		return err
	}

	user, err := client.Users().Current(ctx)
	if err != nil {
		return fmt.Errorf("failed to verify token: %w", err)
	}

	err = auth.NewKeyringStore().Save(config.API, token)
	if err != nil {
		return fmt.Errorf("failed to store token: %w", err)
	}

	current.logger.Info("Stored token", "api", config.API, "login", user.Login)
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Logged in to %s as %s\n", config.API, user.Login)

	return nil
}

// authorizeApp exchanges basic credentials for an application token.
func authorizeApp(ctx context.Context, cmd *cobra.Command, config *Config, opts *loginOptions) (string, error) {
	password, err := readSecret(cmd, "Password: ")
	if err != nil {
		return "", err
	}

	engineConfig, err := clientConfig(ctx, config)
	if err != nil {
		return "", err
	}

	engineConfig.Login = opts.username
	engineConfig.Password = password

	client, err := newClient(ctx, engineConfig)
	if err != nil {
		return "", err
	}

	request := &ghapi.NewAuthorization{
		ClientSecret: opts.clientSecret,
		Scopes:       opts.scopes,
		Note:         opts.note,
	}

	authorization, err := withTwoFactorPrompt(cmd, opts.otp, func(code string) (*ghapi.Authorization, error) {
		if code == "" {
			return client.Authorizations().GetOrCreateForApp(ctx, opts.clientID, request)
		}

		return client.Authorizations().GetOrCreateForAppWithCode(ctx, opts.clientID, request, code)
	})
	if err != nil {
		return "", fmt.Errorf("failed to authorize: %w", err)
	}

	if authorization.Token == "" {
		return "", fmt.Errorf("%w: authorization %d exists and its token is only shown once (ends in %s)",
			constants.ErrTokenRequired, authorization.ID, strings.TrimSpace(authorization.TokenLastEight))
	}

	return authorization.Token, nil
}

// NewLogoutCommand creates the logout command.
func NewLogoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove the stored token for the API endpoint",
		RunE: func(cmd *cobra.Command, args []string) error {
			config := loadConfig()

			err := auth.NewKeyringStore().Delete(config.API)
			if err != nil {
				return fmt.Errorf("failed to remove token: %w", err)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Logged out of %s\n", config.API)

			return nil
		},
	}
}
