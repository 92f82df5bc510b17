package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	h "github.com/IvanChernomyrdin/go-jsonserver-auth/internal/server/net/http"
	"github.com/IvanChernomyrdin/go-jsonserver-auth/internal/server/repository"
	"github.com/IvanChernomyrdin/go-jsonserver-auth/internal/server/rules"
	"github.com/IvanChernomyrdin/go-jsonserver-auth/internal/shared/logger"
)

// NewRulesCmd создаёт команду, показывающую таблицу прав.
//
// Для каждого ресурса печатается код и минимальная роль на чтение и
// запись. Ресурсы базы без правила помечаются как unrestricted
// (или падают с ошибкой при rules.strict).
//
//	jsonserver rules
func NewRulesCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rules",
		Short: "Показать таблицу прав и покрытие ресурсов базы",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := repository.Open(app.Cfg.DB.Path, logger.NewNop())
			if err != nil {
				return err
			}
			base, err := rules.NewTable(app.Cfg.Rules.Table)
			if err != nil {
				return err
			}
			uncovered := base.Uncovered(store.Resources())

			table, err := h.BuildRules(app.Cfg, store.Resources(), logger.NewNop())
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "RESOURCE\tCODE\tREAD\tWRITE\tIN DB")
			inDB := make(map[string]bool)
			for _, name := range store.Resources() {
				inDB[name] = true
			}
			for _, name := range table.Resources() {
				p, _ := table.Lookup(name)
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%t\n", name, p, minActor(p, rules.Read), minActor(p, rules.Write), inDB[name])
			}
			for _, name := range table.Uncovered(store.Resources()) {
				fmt.Fprintf(tw, "%s\t-\tunrestricted\tunrestricted\ttrue\n", name)
			}
			if err := tw.Flush(); err != nil {
				return err
			}

			if len(uncovered) > 0 && app.Cfg.Rules.Default != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "\n%d resource(s) use rules.default=%03d\n", len(uncovered), *app.Cfg.Rules.Default)
			}
			return nil
		},
	}
}

func minActor(p rules.Permission, a rules.Access) string {
	actor, ok := p.Required(a)
	if !ok {
		return "nobody"
	}
	return actor.String()
}
