// Package pdf genera el comprobante de compra de un voucher con Maroto v2.
//
// Layout de la página A5:
//
//	┌───────────────────────────────────────────┐
//	│  HEADER: Tipo de voucher │ N° + Fecha      │
//	│  ───────────────────────────────────────  │
//	│  COMPRADOR: Nombre + ID                    │
//	│  DETALLE: Producto / Serial / Ref / PIN    │
//	│  ───────────────────────────────────────  │
//	│  MONTOS: Valor / Descuento / Vence         │
//	│  ───────────────────────────────────────  │
//	│  QR con serial + PIN                       │
//	└───────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/vouchers-api/internal/application/voucher"
	"github.com/jhoicas/vouchers-api/internal/domain/entity"
)

var _ voucher.ReceiptRenderer = (*ReceiptGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

var typeTitles = map[string]string{
	entity.VoucherTypeGSAT: "GSAT PREPAID VOUCHER",
	entity.VoucherTypeWiFi: "WIFI ACCESS VOUCHER",
	entity.VoucherTypeTV:   "TV RECHARGE VOUCHER",
}

// ── Generator ─────────────────────────────────────────────────────────────────

// ReceiptGenerator implementa voucher.ReceiptRenderer usando Maroto v2.
type ReceiptGenerator struct {
	issuer string
}

// NewReceiptGenerator construye el generador; issuer aparece como autor del PDF.
func NewReceiptGenerator(issuer string) *ReceiptGenerator {
	return &ReceiptGenerator{issuer: issuer}
}

// RenderReceipt genera el PDF y devuelve sus bytes.
func (g *ReceiptGenerator) RenderReceipt(_ context.Context, v *entity.Voucher, owner *entity.User) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A5).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Comprobante de voucher", true).
		WithAuthor(g.issuer, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(v))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(ownerRow(owner))
	m.AddRows(detailRows(v)...)
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(amountsRow(v))
	m.AddRows(line.NewRow(3))
	m.AddRows(qrRow(v))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar comprobante: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: tipo de voucher (izq) y N° + fecha de venta (der).
func headerRow(v *entity.Voucher) core.Row {
	sold := "-"
	if v.UsedDate != nil {
		sold = v.UsedDate.Format("2006-01-02 15:04")
	}
	return row.New(16).Add(
		col.New(7).Add(
			text.New(nonEmpty(typeTitles[v.Type], strings.ToUpper(v.Type)), props.Text{
				Style: fontstyle.Bold, Size: 11, Color: colorPrimary, Top: 1,
			}),
			text.New("Producto: "+nonEmpty(v.ProductCode, "-"), props.Text{
				Size: 8, Top: 8, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New(fmt.Sprintf("N° %d", v.ID), props.Text{
				Style: fontstyle.Bold, Size: 11, Align: align.Right, Top: 1,
			}),
			text.New("Vendido: "+sold, props.Text{
				Size: 8, Align: align.Right, Top: 8, Color: colorGray,
			}),
		),
	)
}

// ownerRow: datos del comprador.
func ownerRow(owner *entity.User) core.Row {
	return row.New(12).Add(
		col.New(12).Add(
			text.New("COMPRADOR", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("%s   |   ID: %d", nonEmpty(owner.DisplayName, owner.Login), owner.ID), props.Text{
				Size: 9, Top: 6,
			}),
		),
	)
}

// detailRows: una fila etiqueta/valor por dato del voucher presente.
func detailRows(v *entity.Voucher) []core.Row {
	fields := [][2]string{
		{"Serial", v.Serial},
		{"Referencia", v.Reference},
		{"PIN", v.PIN},
		{"Duración", v.Duration},
	}
	rows := make([]core.Row, 0, len(fields))
	for _, f := range fields {
		if f[1] == "" {
			continue
		}
		rows = append(rows, row.New(6).Add(
			col.New(4).Add(text.New(f[0]+":", props.Text{Style: fontstyle.Bold, Size: 9, Top: 1})),
			col.New(8).Add(text.New(f[1], props.Text{Size: 9, Top: 1})),
		))
	}
	return rows
}

// amountsRow: valor, descuento y vencimiento.
func amountsRow(v *entity.Voucher) core.Row {
	expiry := "Sin vencimiento"
	if v.ExpiryDate != nil {
		expiry = v.ExpiryDate.Format("2006-01-02")
	}
	cell := func(label, value string) core.Col {
		return col.New(4).Add(
			text.New(label, props.Text{Size: 7, Color: colorGray, Align: align.Center, Top: 1}),
			text.New(value, props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Center, Top: 6}),
		)
	}
	return row.New(14).Add(
		cell("VALOR", formatMoney(v.Amount)),
		cell("DESCUENTO", v.Discount.String()),
		cell("VENCE", expiry),
	)
}

// qrRow: QR con los datos de canje.
func qrRow(v *entity.Voucher) core.Row {
	payload := strings.Join([]string{v.Type, v.ProductCode, v.Serial, v.PIN}, "|")
	return row.New(40).Add(
		col.New(4).Add(code.NewQr(payload, props.Rect{Percent: 95, Center: true})),
		col.New(8).Add(
			text.New("Presente este código al canjear el voucher.\nNo comparta el PIN.", props.Text{
				Size: 8, Top: 6, Left: 3, Color: colorGray,
			}),
		),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatMoney inserta comas de miles y dos decimales.
// Ej: 25000 → "25,000.00", 1234567.5 → "1,234,567.50"
func formatMoney(d decimal.Decimal) string {
	s := d.Abs().StringFixed(2)
	intPart, frac := s[:len(s)-3], s[len(s)-3:]
	n := len(intPart)
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(intPart) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, ',')
		}
		buf = append(buf, c)
	}
	out := string(buf) + frac
	if d.IsNegative() {
		out = "-" + out
	}
	return out
}
