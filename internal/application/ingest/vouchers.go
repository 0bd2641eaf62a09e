package ingest

import (
	"strings"

	"github.com/jhoicas/vouchers-api/internal/domain"
	"github.com/jhoicas/vouchers-api/internal/domain/entity"
)

// ParseResult borradores listos para inserción masiva y filas descartadas.
type ParseResult struct {
	Drafts   []*entity.Voucher
	Rejected int
}

// field una columna lógica con sus encabezados alternativos.
type field []string

var (
	fSerial      = field{"serial", "serial_no", "serial_number"}
	fAmount      = field{"amount", "price", "denomination"}
	fDiscount    = field{"discount", "discount_rate"}
	fProductCode = field{"product_code", "productcode", "code_product", "product_id"}
	fReference   = field{"reference", "reference_no", "reference_number", "ref_no", "refno"}
	fPIN         = field{"pin", "pin_code"}
	fExpiry      = field{"expiry_date", "expiry", "expiration_date", "exp_date", "valid_until"}
	fStatus      = field{"status"}
	fCode        = field{"code", "voucher_code", "wifi_code"}
	fDuration    = field{"duration", "validity"}
	fProduct     = field{"product", "product_name", "product_code"}
	fCardNumber  = field{"card_number", "card_no", "cardnumber"}
	fRecharge    = field{"recharge_code", "rechargecode", "recharge_pin"}
)

// schema campos obligatorios y construcción del borrador para un tipo de voucher.
type schema struct {
	voucherType string
	required    []field
	build       func(r Row) *entity.Voucher
}

var schemas = map[string]schema{
	entity.VoucherTypeGSAT: {
		voucherType: entity.VoucherTypeGSAT,
		required:    []field{fSerial, fAmount, fDiscount},
		build: func(r Row) *entity.Voucher {
			return &entity.Voucher{
				ProductCode: r.Get(fProductCode...),
				Serial:      r.Get(fSerial...),
				Reference:   r.Get(fReference...),
				PIN:         r.Get(fPIN...),
				Amount:      ParseAmount(r.Get(fAmount...)),
				Discount:    ParseAmount(r.Get(fDiscount...)),
				ExpiryDate:  ParseDate(r.Get(fExpiry...)),
				Status:      status(r.Get(fStatus...)),
			}
		},
	},
	entity.VoucherTypeWiFi: {
		voucherType: entity.VoucherTypeWiFi,
		required:    []field{fCode, fAmount},
		build: func(r Row) *entity.Voucher {
			return &entity.Voucher{
				ProductCode: r.Get(fProductCode...),
				Serial:      r.Get(fCode...),
				PIN:         r.Get(fCode...),
				Amount:      ParseAmount(r.Get(fAmount...)),
				Discount:    ParseAmount(r.Get(fDiscount...)),
				Duration:    r.Get(fDuration...),
				ExpiryDate:  ParseDate(r.Get(fExpiry...)),
				Status:      status(r.Get(fStatus...)),
			}
		},
	},
	entity.VoucherTypeTV: {
		voucherType: entity.VoucherTypeTV,
		required:    []field{fProduct, fCardNumber, fRecharge, fStatus},
		build: func(r Row) *entity.Voucher {
			return &entity.Voucher{
				ProductCode: r.Get(fProduct...),
				Serial:      r.Get(fCardNumber...),
				Reference:   r.Get(fCardNumber...),
				PIN:         r.Get(fRecharge...),
				Amount:      ParseAmount(r.Get(fAmount...)),
				Discount:    ParseAmount(r.Get(fDiscount...)),
				ExpiryDate:  ParseDate(r.Get(fExpiry...)),
				Status:      status(r.Get(fStatus...)),
			}
		},
	},
}

// ParseVouchers valida y normaliza las filas de un tipo de voucher.
func ParseVouchers(voucherType string, rows []Row) (ParseResult, error) {
	s, ok := schemas[voucherType]
	if !ok {
		return ParseResult{}, domain.ErrUnknownVoucherType
	}
	res := ParseResult{Drafts: make([]*entity.Voucher, 0, len(rows))}
	for _, r := range rows {
		if !hasRequired(r, s.required) {
			res.Rejected++
			continue
		}
		v := s.build(r)
		v.Type = s.voucherType
		res.Drafts = append(res.Drafts, v)
	}
	return res, nil
}

// ParseGSAT atajo para ParseVouchers(gsat).
func ParseGSAT(rows []Row) ParseResult {
	res, _ := ParseVouchers(entity.VoucherTypeGSAT, rows)
	return res
}

// ParseWiFi atajo para ParseVouchers(wifi).
func ParseWiFi(rows []Row) ParseResult {
	res, _ := ParseVouchers(entity.VoucherTypeWiFi, rows)
	return res
}

// ParseTV atajo para ParseVouchers(tv).
func ParseTV(rows []Row) ParseResult {
	res, _ := ParseVouchers(entity.VoucherTypeTV, rows)
	return res
}

func hasRequired(r Row, required []field) bool {
	for _, f := range required {
		if r.Get(f...) == "" {
			return false
		}
	}
	return true
}

func status(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return entity.VoucherStatusAvailable
	}
	return s
}
