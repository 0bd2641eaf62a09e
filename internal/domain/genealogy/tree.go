// Package genealogy construye el árbol de uplines (red de referidos) a partir de la
// lista plana de usuarios y permite buscar nodos en él.
//
// El árbol se reconstruye completo cada vez que cambia la lista; nunca se parchea en sitio.
package genealogy

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jhoicas/vouchers-api/internal/domain"
	"github.com/jhoicas/vouchers-api/internal/domain/entity"
)

// Node envuelve un usuario y sus hijos directos (en el orden de la lista de entrada).
type Node struct {
	User     *entity.User
	Depth    int
	Children []*Node
}

// Size devuelve la cantidad de nodos del subárbol (incluido n).
func (n *Node) Size() int {
	if n == nil {
		return 0
	}
	total := 0
	stack := []*Node{n}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		total++
		stack = append(stack, cur.Children...)
	}
	return total
}

// Forest resultado de Build. Roots conserva el orden de entrada de las raíces.
type Forest struct {
	Roots []*Node
	// Orphans ids cuyo upline no existe en la lista.
	Orphans []int64
	// Detached cantidad de registros que no quedaron en el árbol (huérfanos, sus
	// descendientes, miembros de ciclos y duplicados).
	Detached int

	byID map[int64]*Node
}

// Root devuelve la primera raíz encontrada, o nil si no hay ninguna.
func (f *Forest) Root() *Node {
	if f == nil || len(f.Roots) == 0 {
		return nil
	}
	return f.Roots[0]
}

// Node busca el nodo del usuario id dentro del árbol.
func (f *Forest) Node(id int64) *Node {
	if f == nil {
		return nil
	}
	return f.byID[id]
}

// Within indica si id está en el subárbol de ancestorID (incluido el propio ancestorID).
// Ambos deben estar en el árbol.
func (f *Forest) Within(ancestorID, id int64) bool {
	n := f.Node(id)
	if n == nil || f.Node(ancestorID) == nil {
		return false
	}
	for n != nil {
		if n.User.ID == ancestorID {
			return true
		}
		if n.User.UplineID == nil {
			return false
		}
		n = f.byID[*n.User.UplineID]
	}
	return false
}

// Size cantidad total de nodos en el bosque.
func (f *Forest) Size() int {
	if f == nil {
		return 0
	}
	return len(f.byID)
}

// CycleError indica que los uplines de IDs forman uno o más ciclos.
type CycleError struct {
	IDs []int64
}

func (e *CycleError) Error() string {
	ids := make([]string, len(e.IDs))
	for i, id := range e.IDs {
		ids[i] = fmt.Sprint(id)
	}
	return fmt.Sprintf("%s: usuarios %s", domain.ErrHierarchyCycle, strings.Join(ids, ", "))
}

func (e *CycleError) Unwrap() error { return domain.ErrHierarchyCycle }

// Build arma el bosque de uplines. Nunca falla por referencias rotas: un upline
// inexistente deja al registro fuera del árbol y se reporta en Orphans.
// Si hay ciclos devuelve el bosque de la parte acíclica junto con un *CycleError.
func Build(records []*entity.User) (*Forest, error) {
	index := make(map[int64]*entity.User, len(records))
	ordered := make([]*entity.User, 0, len(records))
	duplicates := 0
	for _, r := range records {
		if r == nil {
			continue
		}
		if _, dup := index[r.ID]; dup {
			duplicates++
			continue
		}
		index[r.ID] = r
		ordered = append(ordered, r)
	}

	forest := &Forest{byID: make(map[int64]*Node, len(ordered))}
	children := make(map[int64][]*entity.User)
	var roots []*entity.User
	for _, r := range ordered {
		if r.UplineID == nil {
			roots = append(roots, r)
			continue
		}
		if _, ok := index[*r.UplineID]; !ok {
			forest.Orphans = append(forest.Orphans, r.ID)
			continue
		}
		children[*r.UplineID] = append(children[*r.UplineID], r)
	}

	for _, r := range roots {
		root := &Node{User: r}
		forest.byID[r.ID] = root
		forest.Roots = append(forest.Roots, root)
		queue := []*Node{root}
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			for _, c := range children[cur.User.ID] {
				if _, seen := forest.byID[c.ID]; seen {
					continue
				}
				child := &Node{User: c, Depth: cur.Depth + 1}
				forest.byID[c.ID] = child
				cur.Children = append(cur.Children, child)
				queue = append(queue, child)
			}
		}
	}

	forest.Detached = len(ordered) - len(forest.byID) + duplicates
	if cycle := findCycles(ordered, index, forest.byID); len(cycle) > 0 {
		return forest, &CycleError{IDs: cycle}
	}
	return forest, nil
}

// findCycles recorre la cadena de uplines de cada registro que no quedó en el árbol.
// Una cadena que termina en un upline inexistente es huérfana; una que se repite es un ciclo.
func findCycles(ordered []*entity.User, index map[int64]*entity.User, reached map[int64]*Node) []int64 {
	const (
		unknown = iota
		orphan
		cyclic
	)
	state := make(map[int64]int)
	var members []int64
	for _, r := range ordered {
		if _, ok := reached[r.ID]; ok || state[r.ID] != unknown {
			continue
		}
		pos := make(map[int64]int)
		var path []int64
		cur := r
		for {
			if _, ok := reached[cur.ID]; ok {
				break
			}
			if state[cur.ID] != unknown {
				// desemboca en una cadena ya clasificada: el camino propio no es parte del ciclo
				break
			}
			if i, onPath := pos[cur.ID]; onPath {
				for _, id := range path[i:] {
					state[id] = cyclic
					members = append(members, id)
				}
				path = path[:i]
				break
			}
			pos[cur.ID] = len(path)
			path = append(path, cur.ID)
			if cur.UplineID == nil {
				break
			}
			next, ok := index[*cur.UplineID]
			if !ok {
				break
			}
			cur = next
		}
		for _, id := range path {
			state[id] = orphan
		}
	}
	sort.Slice(members, func(i, j int) bool { return members[i] < members[j] })
	return members
}
