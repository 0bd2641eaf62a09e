package genealogy_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/vouchers-api/internal/domain"
	"github.com/jhoicas/vouchers-api/internal/domain/entity"
	"github.com/jhoicas/vouchers-api/internal/domain/genealogy"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

func ref(id int64) *int64 { return &id }

func user(id int64, upline *int64, login string) *entity.User {
	return &entity.User{
		ID:          id,
		UplineID:    upline,
		Login:       login,
		DisplayName: "Usuario " + login,
		Email:       login + "@example.com",
	}
}

func childIDs(n *genealogy.Node) []int64 {
	ids := make([]int64, 0, len(n.Children))
	for _, c := range n.Children {
		ids = append(ids, c.User.ID)
	}
	return ids
}

func nodeIDs(nodes []*genealogy.Node) []int64 {
	ids := make([]int64, 0, len(nodes))
	for _, n := range nodes {
		ids = append(ids, n.User.ID)
	}
	return ids
}

// ──────────────────────────────────────────────────────────────────────────────
// Build
// ──────────────────────────────────────────────────────────────────────────────

func TestForest_Within(t *testing.T) {
	forest, err := genealogy.Build([]*entity.User{
		user(1, nil, "root"),
		user(2, ref(1), "a"),
		user(3, ref(1), "b"),
		user(4, ref(2), "c"),
		user(5, ref(99), "orphan"),
	})
	require.NoError(t, err)

	assert.True(t, forest.Within(2, 2))
	assert.True(t, forest.Within(2, 4))
	assert.True(t, forest.Within(1, 4))
	assert.False(t, forest.Within(2, 1), "el upline no está bajo su referido")
	assert.False(t, forest.Within(2, 3), "hermanos")
	assert.False(t, forest.Within(2, 5), "huérfano fuera del árbol")
	assert.False(t, forest.Within(99, 2))
}

// Ejemplo de punta a punta: raíz, hijo y huérfano con upline inexistente.
func TestBuild_RaizHijoYHuerfano(t *testing.T) {
	forest, err := genealogy.Build([]*entity.User{
		user(1, nil, "root"),
		user(2, ref(1), "child"),
		user(3, ref(99), "orphan"),
	})
	require.NoError(t, err)

	root := forest.Root()
	require.NotNil(t, root)
	assert.Equal(t, int64(1), root.User.ID)
	assert.Equal(t, []int64{2}, childIDs(root))
	assert.Nil(t, forest.Node(3), "el huérfano no debe aparecer en el árbol")
	assert.Equal(t, []int64{3}, forest.Orphans)
	assert.Equal(t, 1, forest.Detached)
	assert.Equal(t, 2, forest.Size())
}

func TestBuild_AristasReflejanUplines(t *testing.T) {
	// Entrada desordenada: los hijos aparecen antes que sus padres.
	records := []*entity.User{
		user(5, ref(2), "e"),
		user(3, ref(1), "c"),
		user(2, ref(1), "b"),
		user(1, nil, "a"),
		user(4, ref(2), "d"),
		user(6, ref(3), "f"),
	}
	forest, err := genealogy.Build(records)
	require.NoError(t, err)

	assert.Equal(t, len(records), forest.Size(), "sin huérfanos ni ciclos todos los registros quedan en el árbol")
	assert.Equal(t, len(records), forest.Root().Size())
	assert.Zero(t, forest.Detached)
	for _, r := range records {
		n := forest.Node(r.ID)
		require.NotNil(t, n, "usuario %d", r.ID)
		for _, c := range n.Children {
			require.NotNil(t, c.User.UplineID)
			assert.Equal(t, r.ID, *c.User.UplineID)
			assert.Equal(t, n.Depth+1, c.Depth)
		}
	}
	// orden de hijos = orden de entrada
	assert.Equal(t, []int64{3, 2}, childIDs(forest.Node(1)))
	assert.Equal(t, []int64{5, 4}, childIDs(forest.Node(2)))
}

func TestBuild_VariasRaices(t *testing.T) {
	forest, err := genealogy.Build([]*entity.User{
		user(10, nil, "r1"),
		user(20, nil, "r2"),
		user(11, ref(10), "x"),
		user(21, ref(20), "y"),
	})
	require.NoError(t, err)

	require.Len(t, forest.Roots, 2)
	assert.Equal(t, int64(10), forest.Root().User.ID, "Root conserva la primera raíz encontrada")
	assert.Equal(t, int64(20), forest.Roots[1].User.ID)
	assert.Equal(t, 4, forest.Size())
}

func TestBuild_DescendientesDeHuerfanoQuedanFuera(t *testing.T) {
	forest, err := genealogy.Build([]*entity.User{
		user(1, nil, "root"),
		user(2, ref(42), "orphan"),
		user(3, ref(2), "nieto"),
	})
	require.NoError(t, err)

	assert.Equal(t, []int64{2}, forest.Orphans)
	assert.Equal(t, 2, forest.Detached)
	assert.Nil(t, forest.Node(3))
}

func TestBuild_CicloDevuelveErrorExplicito(t *testing.T) {
	forest, err := genealogy.Build([]*entity.User{
		user(1, nil, "root"),
		user(2, ref(1), "ok"),
		user(7, ref(8), "a"),
		user(8, ref(7), "b"),
		user(9, ref(7), "colgado"),
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrHierarchyCycle))

	var cycleErr *genealogy.CycleError
	require.ErrorAs(t, err, &cycleErr)
	assert.Equal(t, []int64{7, 8}, cycleErr.IDs)

	// la parte acíclica sigue disponible
	require.NotNil(t, forest)
	assert.Equal(t, 2, forest.Size())
	assert.Equal(t, 3, forest.Detached)
}

func TestBuild_AutoReferencia(t *testing.T) {
	_, err := genealogy.Build([]*entity.User{user(1, ref(1), "self")})

	var cycleErr *genealogy.CycleError
	require.ErrorAs(t, err, &cycleErr)
	assert.Equal(t, []int64{1}, cycleErr.IDs)
}

func TestBuild_ListaVaciaYDuplicados(t *testing.T) {
	forest, err := genealogy.Build(nil)
	require.NoError(t, err)
	assert.Nil(t, forest.Root())
	assert.Zero(t, forest.Size())

	forest, err = genealogy.Build([]*entity.User{
		user(1, nil, "root"),
		nil,
		user(1, nil, "dup"),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, forest.Size(), "un usuario aparece una sola vez")
	assert.Equal(t, "root", forest.Root().User.Login)
	assert.Equal(t, 1, forest.Detached)
}

// ──────────────────────────────────────────────────────────────────────────────
// Search
// ──────────────────────────────────────────────────────────────────────────────

func searchFixture(t *testing.T) *genealogy.Forest {
	t.Helper()
	forest, err := genealogy.Build([]*entity.User{
		user(1, nil, "ana"),
		user(2, ref(1), "bruno"),
		user(3, ref(1), "carla"),
		user(4, ref(2), "anabel"),
		user(5, ref(3), "dario"),
	})
	require.NoError(t, err)
	return forest
}

func TestSearch_OrdenEnAnchura(t *testing.T) {
	forest := searchFixture(t)

	got := genealogy.Search(forest.Root(), "a")
	// todos contienen "a" en el nombre: orden por niveles
	assert.Equal(t, []int64{1, 2, 3, 4, 5}, nodeIDs(got))
}

func TestSearch_SinDistinguirMayusculas(t *testing.T) {
	forest := searchFixture(t)

	assert.Equal(t, []int64{1, 4}, nodeIDs(genealogy.Search(forest.Root(), "ANA")))
	assert.Equal(t, []int64{5}, nodeIDs(genealogy.Search(forest.Root(), "Dario@EXAMPLE")))
}

func TestSearch_LoginExactoSiempreIncluido(t *testing.T) {
	forest := searchFixture(t)
	for _, login := range []string{"ana", "bruno", "carla", "anabel", "dario"} {
		got := genealogy.Search(forest.Root(), login)
		found := false
		for _, n := range got {
			if n.User.Login == login {
				found = true
			}
		}
		assert.True(t, found, "login %q", login)
	}
}

func TestSearch_TerminoVacioDevuelveListaVacia(t *testing.T) {
	forest := searchFixture(t)

	got := genealogy.Search(forest.Root(), "")
	require.NotNil(t, got)
	assert.Empty(t, got)
	assert.Empty(t, genealogy.Search(nil, "ana"))
}

func TestSearch_NoModificaElArbol(t *testing.T) {
	forest := searchFixture(t)
	before := forest.Root().Size()

	_ = genealogy.Search(forest.Root(), "a")
	_ = genealogy.Search(forest.Root(), "a")

	assert.Equal(t, before, forest.Root().Size())
	assert.Equal(t, []int64{2, 3}, childIDs(forest.Root()))
}

func TestSearchForest_RecorreTodasLasRaices(t *testing.T) {
	forest, err := genealogy.Build([]*entity.User{
		user(1, nil, "norte"),
		user(2, nil, "sur"),
		user(3, ref(1), "norte-hijo"),
		user(4, ref(2), "sur-hijo"),
	})
	require.NoError(t, err)

	assert.Equal(t, []int64{1, 2, 3, 4}, nodeIDs(genealogy.SearchForest(forest, "o")))
	assert.Equal(t, []int64{2, 4}, nodeIDs(genealogy.SearchForest(forest, "sur")))
}
