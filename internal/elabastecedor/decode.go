package elabastecedor

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// El driver de SQL Server devuelve numéricos con tipos dispares según la
// columna: []byte para DECIMAL, float64 para FLOAT, int64 para INT, y texto
// cuando la columna quedó tipada como VARCHAR en algún despliegue viejo.
// Todo valor entrante se convierte acá, en el borde, a un tipo estricto;
// la lógica interna nunca ve representaciones ambiguas.

func aTexto(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(x)
	case []byte:
		return strings.TrimSpace(string(x))
	case time.Time:
		return x.UTC().Format("2006-01-02")
	default:
		return strings.TrimSpace(fmt.Sprint(x))
	}
}

func aDecimal(v any) decimal.Decimal {
	switch x := v.(type) {
	case nil:
		return decimal.Zero
	case float64:
		return decimal.NewFromFloat(x)
	case float32:
		return decimal.NewFromFloat32(x)
	case int64:
		return decimal.NewFromInt(x)
	case int:
		return decimal.NewFromInt(int64(x))
	case []byte:
		return decimalDesdeTexto(string(x))
	case string:
		return decimalDesdeTexto(x)
	default:
		return decimalDesdeTexto(fmt.Sprint(x))
	}
}

func aEntero(v any) int {
	return int(aDecimal(v).Round(0).IntPart())
}

// decimalDesdeTexto tolera coma decimal ("12,5") además de punto.
func decimalDesdeTexto(s string) decimal.Decimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero
	}
	if strings.Contains(s, ",") && !strings.Contains(s, ".") {
		s = strings.ReplaceAll(s, ",", ".")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// esVerdad interpreta el flag "encajonable", que según el despliegue vive en
// una columna BIT, INT o CHAR ("S"/"N").
func esVerdad(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	default:
		t := strings.ToUpper(aTexto(v))
		return t == "1" || t == "S" || t == "SI" || t == "TRUE"
	}
}

// aFecha decodifica una fecha de la tabla de hechos de venta a fecha
// calendario UTC (sin componente horario).
func aFecha(v any) (time.Time, bool) {
	switch x := v.(type) {
	case time.Time:
		u := x.UTC()
		return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC), true
	case string:
		return fechaDesdeTexto(x)
	case []byte:
		return fechaDesdeTexto(string(x))
	default:
		return time.Time{}, false
	}
}

func fechaDesdeTexto(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if len(s) > 10 {
		s = s[:10]
	}
	t, err := time.ParseInLocation("2006-01-02", s, time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
