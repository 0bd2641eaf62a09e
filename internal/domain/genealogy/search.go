package genealogy

import (
	"strings"

	"golang.org/x/text/cases"
)

// Search recorre el árbol en anchura desde root y devuelve, en ese orden, los nodos cuyo
// nombre, email o login contienen term (sin distinguir mayúsculas).
// Un term vacío devuelve una lista vacía, no el árbol completo.
func Search(root *Node, term string) []*Node {
	if root == nil {
		return []*Node{}
	}
	return bfs([]*Node{root}, term)
}

// SearchForest igual que Search pero partiendo de todas las raíces del bosque, en orden.
func SearchForest(f *Forest, term string) []*Node {
	if f == nil {
		return []*Node{}
	}
	return bfs(f.Roots, term)
}

func bfs(start []*Node, term string) []*Node {
	matches := []*Node{}
	if term == "" {
		return matches
	}
	// cases.Caser mantiene estado: uno por búsqueda.
	fold := cases.Fold()
	needle := fold.String(term)

	queue := append([]*Node(nil), start...)
	visited := make(map[*Node]struct{}, len(start))
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		if _, ok := visited[n]; ok {
			continue
		}
		visited[n] = struct{}{}
		if matchesUser(fold, n, needle) {
			matches = append(matches, n)
		}
		queue = append(queue, n.Children...)
	}
	return matches
}

func matchesUser(fold cases.Caser, n *Node, needle string) bool {
	u := n.User
	if u == nil {
		return false
	}
	for _, field := range []string{u.DisplayName, u.Email, u.Login} {
		if field != "" && strings.Contains(fold.String(field), needle) {
			return true
		}
	}
	return false
}
