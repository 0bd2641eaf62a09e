// Package tabular lee archivos subidos (CSV o XLSX) como una matriz de celdas.
package tabular

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/vouchers-api/internal/domain"
)

// MaxUploadBytes límite de lectura de un archivo subido.
const MaxUploadBytes = 20 << 20

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Supported indica si la extensión del archivo se puede leer.
func Supported(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv", ".xlsx":
		return true
	}
	return false
}

// Read decide el formato por la extensión del nombre y devuelve todas las filas.
// Extensión desconocida: domain.ErrUnsupportedFile.
func Read(filename string, r io.Reader) ([][]string, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return ReadCSV(r)
	case ".xlsx":
		return ReadXLSX(r)
	default:
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedFile, filepath.Ext(filename))
	}
}

// ReadCSV lee un CSV tolerando BOM y filas de largo variable. Si el contenido no es
// UTF-8 válido se interpreta como Windows-1252 (exportaciones de Excel en Windows).
func ReadCSV(r io.Reader) ([][]string, error) {
	raw, err := io.ReadAll(io.LimitReader(r, MaxUploadBytes))
	if err != nil {
		return nil, fmt.Errorf("leer csv: %w", err)
	}
	raw = bytes.TrimPrefix(raw, utf8BOM)

	var src io.Reader = bytes.NewReader(raw)
	if !utf8.Valid(raw) {
		src = transform.NewReader(src, charmap.Windows1252.NewDecoder())
	}

	cr := csv.NewReader(src)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	return records, nil
}

// ReadXLSX lee la primera hoja del libro.
func ReadXLSX(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(io.LimitReader(r, MaxUploadBytes))
	if err != nil {
		return nil, fmt.Errorf("abrir xlsx: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("leer hoja %q: %w", sheets[0], err)
	}
	return rows, nil
}
