package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/IvanChernomyrdin/go-jsonserver-auth/internal/client"
)

// NewTokenCmd создаёт команду получения access токена у запущенного сервера.
//
// По умолчанию сервер ищется по base URL из конфига. Токен печатается
// одной строкой, чтобы его было удобно подставить в curl.
//
// Пример использования:
//
//	TOKEN=$(echo "$PASS" | jsonserver token --email olivier@mail.com --password-stdin)
//	curl -H "Authorization: Bearer $TOKEN" localhost:3000/books
func NewTokenCmd(app *App) *cobra.Command {
	var (
		server    string
		email     string
		register  bool
		fromStdin bool
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Получить access токен у запущенного сервера",
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := ReadPassword(cmd, fromStdin)
			if err != nil {
				return err
			}
			if server == "" {
				server = app.Cfg.BaseURL
			}

			c := NewAPIClient(server)
			creds := client.Credentials{Email: email, Password: password}
			var res client.AuthResponse
			if register {
				res, err = c.Register(cmd.Context(), creds, nil)
			} else {
				res, err = c.Login(cmd.Context(), creds)
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), res.AccessToken)
			return nil
		},
	}

	cmd.Flags().StringVar(&server, "server", "", "server base URL (default: base URL from config)")
	cmd.Flags().StringVar(&email, "email", "", "user email")
	cmd.Flags().BoolVar(&register, "register", false, "register the user instead of logging in")
	cmd.Flags().BoolVar(&fromStdin, "password-stdin", false, "read password from stdin")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}
