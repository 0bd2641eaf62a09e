// Package ingest normaliza las cargas masivas (CSV/XLSX) de vouchers y del reporte ATM.
//
// Cada tipo de voucher define sus campos obligatorios; una fila se acepta solo si todos
// están presentes y no vacíos. Los campos numéricos nunca rechazan una fila: si no se
// pueden interpretar valen 0.
package ingest

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Row fila con columnas indexadas por encabezado normalizado.
type Row map[string]string

// Get devuelve el primer valor no vacío entre las claves dadas (alias de una misma columna).
func (r Row) Get(keys ...string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(r[k]); v != "" {
			return v
		}
	}
	return ""
}

// NormalizeHeader "Product Code " -> "product_code".
func NormalizeHeader(h string) string {
	h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	h = strings.ToLower(h)
	h = strings.NewReplacer(" ", "_", "-", "_", ".", "", "#", "no").Replace(h)
	return strings.Trim(h, "_")
}

// NormalizeRow aplica NormalizeHeader a las claves de una fila recibida como JSON.
func NormalizeRow(in map[string]string) Row {
	out := make(Row, len(in))
	for k, v := range in {
		out[NormalizeHeader(k)] = v
	}
	return out
}

// RowsFromRecords toma la primera fila como encabezado y devuelve las demás como Row.
// Las filas completamente vacías se omiten.
func RowsFromRecords(records [][]string) []Row {
	if len(records) == 0 {
		return nil
	}
	header := make([]string, len(records[0]))
	for i, h := range records[0] {
		header[i] = NormalizeHeader(h)
	}
	rows := make([]Row, 0, len(records)-1)
	for _, rec := range records[1:] {
		if blank(rec) {
			continue
		}
		row := make(Row, len(header))
		for i, h := range header {
			if h == "" || i >= len(rec) {
				continue
			}
			row[h] = rec[i]
		}
		rows = append(rows, row)
	}
	return rows
}

func blank(rec []string) bool {
	for _, c := range rec {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

var amountCleaner = strings.NewReplacer(",", "", "₱", "", "$", "", "PHP", "", "php", "", " ", "")

// ParseAmount interpreta montos tipo "1,250.50", "₱ 100" o "PHP500". Devuelve 0 si falla.
func ParseAmount(s string) decimal.Decimal {
	s = amountCleaner.Replace(strings.TrimSpace(s))
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// dateLayouts combina cada forma de fecha con cada forma de hora. "1" y "2" aceptan uno
// o dos dígitos, así que cubren también 01/02.
var dateLayouts = func() []string {
	dates := []string{"2006-1-2", "1/2/2006", "1/2/06"}
	clocks := []string{"", " 15:04", " 15:04:05", " 3:04 PM", " 3:04:05 PM"}
	out := make([]string, 0, len(dates)*len(clocks)+2)
	for _, d := range dates {
		for _, c := range clocks {
			out = append(out, d+c)
		}
	}
	return append(out, "Jan 2, 2006", "January 2, 2006")
}()

var (
	isoDateTime = regexp.MustCompile(`^(\d{4}-\d{1,2}-\d{1,2})T(\d)`)
	meridiem    = regexp.MustCompile(`(\d)\s*([AaPp][Mm])$`)
)

// ParseDate prueba los formatos conocidos (ISO, mes/día/año). nil si ninguno aplica.
func ParseDate(s string) *time.Time {
	s = strings.Join(strings.Fields(s), " ")
	if s == "" {
		return nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t
	}
	// "2024-03-05T14:30" y "2:30pm" se llevan a "2024-03-05 14:30" y "2:30 PM"
	s = isoDateTime.ReplaceAllString(s, "$1 $2")
	s = meridiem.ReplaceAllStringFunc(s, func(m string) string {
		return m[:1] + " " + strings.ToUpper(strings.TrimSpace(m[1:]))
	})
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return &t
		}
	}
	return nil
}
