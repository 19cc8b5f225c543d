// Package codigo canonicaliza códigos de artículo y proveedor para que los
// códigos generados en distintos sistemas (compras local vs. ELABASTECEDOR)
// comparen iguales. Sin normalizar, un join entre sistemas falla en silencio.
package codigo

import "strings"

// decimalCeroSufijos son los restos que deja una columna decimal cuando un
// código numérico pasó por ella (3065 → "3065.00").
var decimalCeroSufijos = []string{".00", ",00", ".0", ",0"}

// Normalizar canonicaliza un código de artículo:
//   - recorta y elimina espacios internos
//   - quita un sufijo decimal igual a cero (".0", ".00", ",0", ",00")
//   - elimina todos los "." y "," (separadores de miles en el sistema externo)
//   - vacío → "0"
//
// Es pura, determinística e idempotente.
func Normalizar(c string) string {
	c = strings.TrimSpace(c)
	c = strings.ReplaceAll(c, " ", "")
	for _, suf := range decimalCeroSufijos {
		if strings.HasSuffix(c, suf) {
			c = strings.TrimSuffix(c, suf)
			break
		}
	}
	c = strings.ReplaceAll(c, ".", "")
	c = strings.ReplaceAll(c, ",", "")
	if c == "" {
		return "0"
	}
	return c
}

// NormalizarProveedor canonicaliza el código identificatorio de un proveedor
// para compararlo contra la columna "proveedor" de un artículo: recorta,
// elimina "." y ",", y quita ceros a la izquierda (dejando al menos "0").
// No quita sufijos decimales: los códigos de proveedor no arrastran ese
// problema de formato.
func NormalizarProveedor(c string) string {
	c = strings.TrimSpace(c)
	c = strings.ReplaceAll(c, ".", "")
	c = strings.ReplaceAll(c, ",", "")
	c = strings.TrimLeft(c, "0")
	if c == "" {
		return "0"
	}
	return c
}
