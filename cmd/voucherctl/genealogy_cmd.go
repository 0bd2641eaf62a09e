package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jhoicas/vouchers-api/internal/application/dto"
	"github.com/jhoicas/vouchers-api/internal/application/genealogy"
	"github.com/jhoicas/vouchers-api/internal/infrastructure/postgres"
)

func newGenealogyCmd(e *env) *cobra.Command {
	var (
		term   string
		root   int64
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "genealogy",
		Short: "Imprime el árbol de referidos o busca en él",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pool, err := e.connect(cmd.Context())
			if err != nil {
				return err
			}
			defer pool.Close()

			uc := genealogy.NewGenealogyUseCase(postgres.NewUserRepository(pool), e.log)
			out := cmd.OutOrStdout()
			var rootID *int64
			if root > 0 {
				rootID = &root
			}

			if term != "" {
				res, err := uc.Search(cmd.Context(), term, rootID, nil)
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(out, res)
				}
				for _, u := range res.Matches {
					fmt.Fprintf(out, "%d\t%s\t%s\tnivel %d\n", u.ID, u.Login, u.DisplayName, u.Level)
				}
				return nil
			}

			var tree *dto.GenealogyResponse
			if rootID != nil {
				tree, err = uc.Downline(cmd.Context(), *rootID, nil)
			} else {
				tree, err = uc.Tree(cmd.Context())
			}
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(out, tree)
			}
			printForest(out, tree)
			return nil
		},
	}
	cmd.Flags().StringVar(&term, "search", "", "Busca por nombre, email o login (orden en anchura)")
	cmd.Flags().Int64Var(&root, "root", 0, "Limita al subárbol de este usuario")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Salida JSON")
	return cmd
}

func printForest(w io.Writer, tree *dto.GenealogyResponse) {
	for _, r := range tree.Roots {
		printNode(w, r)
	}
	fmt.Fprintf(w, "\n%d usuarios en el árbol", tree.Size)
	if len(tree.Orphans) > 0 {
		fmt.Fprintf(w, ", huérfanos: %v, fuera del árbol: %d", tree.Orphans, tree.Detached)
	}
	fmt.Fprintln(w)
}

func printNode(w io.Writer, n dto.GenealogyNode) {
	fmt.Fprintf(w, "%s%d %s (%s)\n", strings.Repeat("  ", n.Depth), n.User.ID, n.User.Login, n.User.Role)
	for _, c := range n.Children {
		printNode(w, c)
	}
}
