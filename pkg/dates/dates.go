// Package dates normaliza las fechas que llegan de CSV, JSON y query params.
package dates

import (
	"fmt"
	"strings"
	"time"
)

var layouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Precision resolución de TIMESTAMPTZ; las fechas se redondean a microsegundos.
const Precision = time.Microsecond

// Parse interpreta YYYY-MM-DD, YYYY/MM/DD o RFC3339. Las fechas sin zona se toman en UTC.
func Parse(s string) (time.Time, error) {
	v := strings.TrimSpace(s)
	if v == "" {
		return time.Time{}, fmt.Errorf("fecha vacía")
	}
	if len(v) >= 10 && v[4] == '/' && v[7] == '/' {
		v = strings.ReplaceAll(v[:10], "/", "-") + v[10:]
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t.Round(Precision), nil
		}
	}
	return time.Time{}, fmt.Errorf("formato de fecha inválido %q: use YYYY-MM-DD, YYYY/MM/DD o RFC3339", s)
}

// ParseOptional devuelve nil para cadenas vacías.
func ParseOptional(s string) (*time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	t, err := Parse(s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Format devuelve YYYY-MM-DD o "" si t es nil.
func Format(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}

// Equal compara dos fechas opcionales por instante, a resolución de microsegundos.
func Equal(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Round(Precision).Equal(b.Round(Precision))
}
