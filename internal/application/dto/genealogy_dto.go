package dto

// GenealogyNode nodo del árbol de referidos serializado para el dashboard.
type GenealogyNode struct {
	User     UserResponse    `json:"user"`
	Depth    int             `json:"depth"`
	Children []GenealogyNode `json:"children"`
}

// GenealogyResponse bosque completo con diagnósticos de integridad.
type GenealogyResponse struct {
	Roots    []GenealogyNode `json:"roots"`
	Size     int             `json:"size"`
	Orphans  []int64         `json:"orphans"`
	Detached int             `json:"detached"`
}

// GenealogySearchResponse coincidencias en orden de recorrido en anchura.
type GenealogySearchResponse struct {
	Term    string         `json:"term"`
	Matches []UserResponse `json:"matches"`
}
