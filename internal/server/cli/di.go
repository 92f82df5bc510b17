package cli

import (
	"github.com/spf13/cobra"

	"github.com/IvanChernomyrdin/go-jsonserver-auth/internal/client"
	"github.com/IvanChernomyrdin/go-jsonserver-auth/internal/server/config"
	"github.com/IvanChernomyrdin/go-jsonserver-auth/internal/shared/logger"
)

// для тестов
var (
	NewAPIClient = func(baseURL string) *client.Client {
		return client.New(baseURL, nil)
	}
	ReadPassword = func(cmd *cobra.Command, fromStdin bool) (string, error) {
		return readPassword(cmd, fromStdin)
	}
	NewServerLogger = func(cfg *config.Config) *logger.HTTPLogger {
		return NewLogger(cfg)
	}
)
