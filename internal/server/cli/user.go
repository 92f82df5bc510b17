package cli

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/IvanChernomyrdin/go-jsonserver-auth/internal/server/repository"
	"github.com/IvanChernomyrdin/go-jsonserver-auth/internal/server/service"
	"github.com/IvanChernomyrdin/go-jsonserver-auth/internal/shared/logger"
)

// NewUserCmd создаёт группу команд управления пользователями.
func NewUserCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Управление пользователями базы",
	}
	cmd.AddCommand(NewUserAddCmd(app))
	return cmd
}

// NewUserAddCmd создаёт команду добавления пользователя прямо в файл базы.
//
// Пароль проходит ту же валидацию и хэширование, что и при /register.
// Сервер, запущенный с db.watch, подхватит изменение сам.
//
// Пример использования:
//
//	jsonserver user add --email admin@mail.com --role admin
//	echo "$PASS" | jsonserver user add --email ci@mail.com --password-stdin
func NewUserAddCmd(app *App) *cobra.Command {
	var (
		email     string
		role      string
		fromStdin bool
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Добавить пользователя",
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := ReadPassword(cmd, fromStdin)
			if err != nil {
				return err
			}

			store, err := repository.Open(app.Cfg.DB.Path, logger.NewNop())
			if err != nil {
				return err
			}
			svc, err := service.NewServices(service.Repositories{
				Users: repository.NewUsersRepository(store),
				Store: store,
			}, app.Cfg)
			if err != nil {
				return err
			}

			body := map[string]any{"email": email, "password": password}
			if role != "" {
				body["role"] = role
			}
			res, err := svc.Auth.Register(cmd.Context(), body)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "user %v (%s) added\n", res.User["id"], res.User["email"])
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "user email")
	cmd.Flags().StringVar(&role, "role", "", "optional role stored with the user")
	cmd.Flags().BoolVar(&fromStdin, "password-stdin", false, "read password from stdin")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

// readPassword читает пароль нового пользователя.
//
// Режимы:
//   - fromStdin=true: читает stdin целиком (для скриптов/CI);
//   - fromStdin=false: интерактивный ввод из терминала со скрытием.
func readPassword(cmd *cobra.Command, fromStdin bool) (string, error) {
	if fromStdin {
		b, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("read password from stdin: %w", err)
		}
		pw := bytes.TrimRight(b, "\r\n")
		if len(pw) == 0 {
			return "", errors.New("empty password on stdin")
		}
		return string(pw), nil
	}

	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", errors.New("stdin is not a terminal; use --password-stdin")
	}

	fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
	pwBytes, err := term.ReadPassword(fd)
	fmt.Fprintln(cmd.ErrOrStderr())
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}

	pw := strings.TrimSpace(string(pwBytes))
	if pw == "" {
		return "", errors.New("empty password")
	}
	return pw, nil
}
