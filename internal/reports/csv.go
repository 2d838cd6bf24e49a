// Package reports renders investor financial reports as downloadable
// artifacts: a CSV transaction export and a paginated PDF statement.
package reports

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	apperrors "flotilla/internal/errors"
	"flotilla/internal/models"
)

// Row carries one exportable transaction. Both renderers consume the
// same shape.
type Row struct {
	Date        time.Time
	Type        models.RecordType
	Category    string
	VehicleName string
	Amount      decimal.Decimal
	Description string
}

// csvHeader is a format contract: existing spreadsheet consumers parse
// these exact columns in this exact order.
const csvHeader = "Fecha,Tipo,Categoría,Vehículo,Monto,Descripción"

// BuildCSV renders rows as a CSV document. The vehicle and description
// columns are always double-quoted because they are free text; the
// remaining columns never contain delimiters. An empty input produces
// no artifact and returns ErrReportEmpty.
//
// encoding/csv is deliberately not used here: it quotes only when
// needed, which would break byte-for-byte compatibility with the
// established export format.
func BuildCSV(rows []Row) (string, error) {
	if len(rows) == 0 {
		return "", apperrors.ErrReportEmpty
	}

	lines := make([]string, 0, len(rows)+1)
	lines = append(lines, csvHeader)
	for _, r := range rows {
		lines = append(lines, strings.Join([]string{
			formatDate(r.Date),
			localizeType(r.Type),
			r.Category,
			quote(r.VehicleName),
			r.Amount.String(),
			quote(r.Description),
		}, ","))
	}

	return strings.Join(lines, "\n"), nil
}

// quote wraps a free-text field in double quotes, doubling any
// embedded quote so the row stays parseable.
func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// formatDate renders M/D/YYYY without zero padding, matching the
// export format the dashboard has always produced.
func formatDate(t time.Time) string {
	return t.Format("1/2/2006")
}

// localizeType maps a record type to its fixed Spanish label.
func localizeType(t models.RecordType) string {
	if t == models.RecordTypeIncome {
		return "Ingreso"
	}
	return "Gasto"
}
