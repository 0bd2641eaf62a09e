// Package genealogy expone el árbol de referidos y su búsqueda al resto de la aplicación.
package genealogy

import (
	"context"
	"errors"
	"strings"

	"github.com/jhoicas/vouchers-api/internal/application/dto"
	"github.com/jhoicas/vouchers-api/internal/application/user"
	"github.com/jhoicas/vouchers-api/internal/domain"
	"github.com/jhoicas/vouchers-api/internal/domain/genealogy"
	"github.com/jhoicas/vouchers-api/internal/domain/repository"
	"github.com/jhoicas/vouchers-api/pkg/logger"
)

// GenealogyUseCase reconstruye el bosque desde la lista completa de usuarios en cada consulta.
type GenealogyUseCase struct {
	users repository.UserRepository
	log   *logger.Logger
}

// NewGenealogyUseCase construye el caso de uso.
func NewGenealogyUseCase(users repository.UserRepository, log *logger.Logger) *GenealogyUseCase {
	return &GenealogyUseCase{users: users, log: log.Component("genealogy")}
}

// Forest arma el bosque. Un ciclo se devuelve como *genealogy.CycleError.
func (uc *GenealogyUseCase) Forest(ctx context.Context) (*genealogy.Forest, error) {
	records, err := uc.users.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	forest, err := genealogy.Build(records)
	if err != nil {
		var cycle *genealogy.CycleError
		if errors.As(err, &cycle) {
			uc.log.Error().Ints64("ids", cycle.IDs).Msg("ciclo en la cadena de uplines")
		}
		return nil, err
	}
	if len(forest.Orphans) > 0 {
		uc.log.Warn().Ints64("orphans", forest.Orphans).Int("detached", forest.Detached).Msg("usuarios con upline inexistente")
	}
	return forest, nil
}

// Tree devuelve el bosque completo con los diagnósticos de integridad.
func (uc *GenealogyUseCase) Tree(ctx context.Context) (*dto.GenealogyResponse, error) {
	forest, err := uc.Forest(ctx)
	if err != nil {
		return nil, err
	}
	return toResponse(forest.Roots, forest), nil
}

// Downline devuelve el subárbol cuya raíz es el usuario id.
// Con scope no nil solo se permiten ids dentro del subárbol de *scope (ErrForbidden si no).
func (uc *GenealogyUseCase) Downline(ctx context.Context, id int64, scope *int64) (*dto.GenealogyResponse, error) {
	forest, err := uc.Forest(ctx)
	if err != nil {
		return nil, err
	}
	node, err := uc.scopedNode(ctx, forest, id, scope)
	if err != nil {
		return nil, err
	}
	return toResponse([]*genealogy.Node{node}, forest), nil
}

// Search busca term en todo el bosque, o solo bajo rootID si no es nil.
// Coincidencias en orden de recorrido en anchura. Con scope no nil la búsqueda parte
// de *scope cuando no se indica rootID, y rootID debe quedar dentro de ese subárbol.
func (uc *GenealogyUseCase) Search(ctx context.Context, term string, rootID, scope *int64) (*dto.GenealogySearchResponse, error) {
	term = strings.TrimSpace(term)
	forest, err := uc.Forest(ctx)
	if err != nil {
		return nil, err
	}
	if rootID == nil {
		rootID = scope
	}
	var matches []*genealogy.Node
	if rootID != nil {
		node, err := uc.scopedNode(ctx, forest, *rootID, scope)
		if err != nil {
			return nil, err
		}
		matches = genealogy.Search(node, term)
	} else {
		matches = genealogy.SearchForest(forest, term)
	}
	out := &dto.GenealogySearchResponse{Term: term, Matches: make([]dto.UserResponse, 0, len(matches))}
	for _, n := range matches {
		out.Matches = append(out.Matches, user.ToResponse(n.User))
	}
	return out, nil
}

func (uc *GenealogyUseCase) scopedNode(ctx context.Context, forest *genealogy.Forest, id int64, scope *int64) (*genealogy.Node, error) {
	node, err := uc.node(ctx, forest, id)
	if err != nil {
		return nil, err
	}
	if scope != nil && !forest.Within(*scope, id) {
		return nil, domain.ErrForbidden
	}
	return node, nil
}

// node ubica al usuario en el bosque; si existe pero quedó fuera (huérfano) es ErrNotFound.
func (uc *GenealogyUseCase) node(ctx context.Context, forest *genealogy.Forest, id int64) (*genealogy.Node, error) {
	if n := forest.Node(id); n != nil {
		return n, nil
	}
	u, err := uc.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.ErrUserNotFound
	}
	return nil, domain.ErrNotFound
}

func toResponse(roots []*genealogy.Node, forest *genealogy.Forest) *dto.GenealogyResponse {
	out := &dto.GenealogyResponse{
		Roots:    make([]dto.GenealogyNode, 0, len(roots)),
		Orphans:  forest.Orphans,
		Detached: forest.Detached,
	}
	if out.Orphans == nil {
		out.Orphans = []int64{}
	}
	for _, r := range roots {
		out.Roots = append(out.Roots, toNode(r))
		out.Size += r.Size()
	}
	return out
}

func toNode(n *genealogy.Node) dto.GenealogyNode {
	out := dto.GenealogyNode{
		User:     user.ToResponse(n.User),
		Depth:    n.Depth,
		Children: make([]dto.GenealogyNode, 0, len(n.Children)),
	}
	for _, c := range n.Children {
		out.Children = append(out.Children, toNode(c))
	}
	return out
}
