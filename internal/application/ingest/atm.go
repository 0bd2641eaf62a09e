package ingest

import (
	"regexp"
	"strings"

	"github.com/jhoicas/vouchers-api/internal/domain/entity"
)

// ATMResult transacciones extraídas del reporte y filas de transacción descartadas.
type ATMResult struct {
	Transactions []*entity.ATMTransaction
	Rejected     int
}

// transactionRow: la primera celda empieza con una fecha (ISO o mes/día/año), hora opcional.
var transactionRow = regexp.MustCompile(`^(\d{4}-\d{1,2}-\d{1,2}|\d{1,2}/\d{1,2}/\d{2,4})([ T]\d{1,2}:\d{2}(:\d{2})?(\s*[AaPp][Mm])?)?$`)

// Columnas de una fila de transacción, en orden.
const (
	colDate = iota
	colTerminal
	colReference
	colType
	colAmount
	colFee
	colStatus
)

type merchant struct {
	id   string
	name string
}

// ParseATMReport recorre el reporte semiestructurado: los encabezados de comercio
// ("Merchant ID: X", opcionalmente "Merchant Name: Y") fijan el comercio actual, que se
// arrastra a las filas de transacción siguientes hasta el próximo encabezado.
// Títulos, subtotales y filas vacías se ignoran; una transacción sin comercio previo
// o con fecha inválida se descarta.
func ParseATMReport(records [][]string) ATMResult {
	var (
		res     ATMResult
		current *merchant
	)
	for _, rec := range records {
		cells := trimAll(rec)
		if blank(cells) {
			continue
		}
		if !transactionRow.MatchString(cells[colDate]) {
			if m, ok := merchantHeader(cells); ok {
				switch {
				case m.id != "":
					current = &m
				case current != nil && m.name != "":
					// fila con solo el nombre: completa el encabezado en curso
					current.name = m.name
				}
			}
			continue
		}
		date := ParseDate(cells[colDate])
		if current == nil || date == nil {
			res.Rejected++
			continue
		}
		res.Transactions = append(res.Transactions, &entity.ATMTransaction{
			MerchantID:      current.id,
			MerchantName:    current.name,
			TransactionDate: *date,
			TerminalID:      cell(cells, colTerminal),
			Reference:       cell(cells, colReference),
			TransactionType: cell(cells, colType),
			Amount:          ParseAmount(cell(cells, colAmount)),
			Fee:             ParseAmount(cell(cells, colFee)),
			Status:          strings.ToLower(cell(cells, colStatus)),
		})
	}
	return res
}

// Etiquetas de encabezado de comercio, ya normalizadas por headerLabel.
var (
	merchantIDLabels = map[string]struct{}{
		"merchant": {}, "merchant id": {}, "merchant no": {}, "merchant number": {},
		"merchant #": {}, "merchant code": {},
	}
	merchantNameLabels = map[string]struct{}{"merchant name": {}}
)

// merchantHeader detecta "Merchant ID: X" / "Merchant Name: Y" en cualquier celda;
// el valor puede venir tras los dos puntos o en la celda siguiente. La etiqueta debe
// coincidir completa: "Merchant Notification" no es un encabezado.
func merchantHeader(cells []string) (merchant, bool) {
	var (
		m     merchant
		found bool
	)
	for i, c := range cells {
		lower := strings.ToLower(c)
		if !strings.HasPrefix(lower, "merchant") {
			continue
		}
		label, value := splitLabel(c)
		if value == "" && i+1 < len(cells) && !strings.HasPrefix(strings.ToLower(cells[i+1]), "merchant") {
			value = cells[i+1]
		}
		label = headerLabel(label)
		if _, ok := merchantNameLabels[label]; ok {
			m.name = value
			found = true
		} else if _, ok := merchantIDLabels[label]; ok {
			m.id = value
			found = true
		}
	}
	return m, found
}

// splitLabel "Merchant ID: 123" -> ("Merchant ID", "123"). Sin ':' o '#' devuelve la celda como etiqueta.
func splitLabel(c string) (string, string) {
	if i := strings.Index(c, ":"); i >= 0 {
		return strings.TrimSpace(c[:i]), strings.TrimSpace(c[i+1:])
	}
	if i := strings.Index(c, "#"); i >= 0 {
		return strings.TrimSpace(c[:i+1]), strings.TrimSpace(c[i+1:])
	}
	return c, ""
}

// headerLabel "Merchant  No.:" -> "merchant no"; "Merchant#" -> "merchant #".
func headerLabel(label string) string {
	label = strings.ToLower(strings.TrimRight(label, ".: "))
	label = strings.ReplaceAll(label, "#", " #")
	return strings.Join(strings.Fields(strings.ReplaceAll(label, ".", " ")), " ")
}

func trimAll(rec []string) []string {
	out := make([]string, len(rec))
	for i, c := range rec {
		out[i] = strings.TrimSpace(c)
	}
	return out
}

func cell(cells []string, i int) string {
	if i < len(cells) {
		return cells[i]
	}
	return ""
}
