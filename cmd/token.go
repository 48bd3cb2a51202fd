/*
Copyright © 2025 blacktop

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/chihoangvnn/postpreview/internal/auth"
)

var (
	tokenUser string
	tokenTTL  time.Duration
)

func newTokenCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue an API token signed with auth.jwt_secret",
		Args:  cobra.NoArgs,
		RunE:  runToken,
		Example: `  postpreview token --user alice
  export POSTPREVIEW_CLIENT_TOKEN=$(postpreview token --user ci --ttl 1h)`,
	}

	cmd.Flags().StringVarP(&tokenUser, "user", "u", "", "Subject (user ID) of the token")
	cmd.Flags().DurationVar(&tokenTTL, "ttl", 0, "Token lifetime (defaults to auth.token_ttl)")

	return cmd
}

func runToken(cmd *cobra.Command, _ []string) error {
	user := strings.TrimSpace(tokenUser)
	if user == "" {
		return errors.New("--user is required")
	}
	if err := settings.RequireSigningKey(); err != nil {
		return err
	}

	ttl := tokenTTL
	if ttl <= 0 {
		ttl = settings.Auth.TokenTTL
	}

	v, err := auth.NewVerifier([]byte(settings.Auth.JWTSecret))
	if err != nil {
		return err
	}
	token, err := v.Issue(user, ttl)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
	return err
}
