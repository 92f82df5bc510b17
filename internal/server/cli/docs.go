package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	h "github.com/IvanChernomyrdin/go-jsonserver-auth/internal/server/net/http"
	"github.com/IvanChernomyrdin/go-jsonserver-auth/internal/shared/logger"
)

// ErrSkippedFragments — docs --strict и хотя бы один фрагмент не разобран.
var ErrSkippedFragments = errors.New("documentation fragments skipped")

// NewDocsCmd создаёт команду, печатающую OpenAPI-документ.
//
// Документ собирается так же, как при старте сервера. Пропущенные
// фрагменты перечисляются в stderr, документ всё равно печатается.
//
//	jsonserver docs > openapi.json
func NewDocsCmd(app *App) *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "docs",
		Short: "Напечатать OpenAPI-документ",
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, errs := h.BuildDocs(app.Cfg, logger.NewNop(), nil)

			fmt.Fprintf(cmd.OutOrStdout(), "%s\n", doc.JSON())

			for _, err := range errs {
				fmt.Fprintf(cmd.ErrOrStderr(), "skipped: %v\n", err)
			}
			if strict && len(errs) > 0 {
				return fmt.Errorf("%w: %d", ErrSkippedFragments, len(errs))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "fail if any documentation fragment is skipped")
	return cmd
}
