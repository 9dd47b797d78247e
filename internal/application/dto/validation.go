package dto

import (
	"errors"
	"regexp"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/nyaruka/phonenumbers"
)

// Región por defecto para interpretar teléfonos sin prefijo internacional.
const phoneRegion = "IN"

var (
	gstinRegexp   = regexp.MustCompile(`^[0-9]{2}[A-Z]{5}[0-9]{4}[A-Z][1-9A-Z]Z[0-9A-Z]$`)
	panRegexp     = regexp.MustCompile(`^[A-Z]{5}[0-9]{4}[A-Z]$`)
	pincodeRegexp = regexp.MustCompile(`^[1-9][0-9]{5}$`)
)

// Reglas reutilizables.
var (
	gstinRule   = validation.Match(gstinRegexp).Error("GSTIN inválido")
	panRule     = validation.Match(panRegexp).Error("PAN inválido")
	pincodeRule = validation.Match(pincodeRegexp).Error("PIN inválido")
	phoneRule   = validation.By(validPhone)
)

func validPhone(value interface{}) error {
	v, _ := validation.Indirect(value)
	s, _ := v.(string)
	if strings.TrimSpace(s) == "" {
		return nil
	}
	num, err := phonenumbers.Parse(s, phoneRegion)
	if err != nil || !phonenumbers.IsValidNumber(num) {
		return errors.New("teléfono inválido")
	}
	return nil
}

// NormalizePhone devuelve el teléfono en formato E.164; si no es parseable lo deja igual.
func NormalizePhone(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	num, err := phonenumbers.Parse(s, phoneRegion)
	if err != nil {
		return s
	}
	return phonenumbers.Format(num, phonenumbers.E164)
}

func validDate(value interface{}) error {
	v, _ := validation.Indirect(value)
	s, _ := v.(string)
	if s == "" {
		return nil
	}
	if _, err := time.Parse(DateLayout, s); err != nil {
		return errors.New("fecha inválida, formato YYYY-MM-DD")
	}
	return nil
}

// DateLayout formato de fechas de calendario en la API.
const DateLayout = "2006-01-02"

// ParseDate interpreta YYYY-MM-DD; vacío devuelve nil.
func ParseDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// ValidationDetails convierte errores de ozzo-validation en mapa campo -> mensaje.
func ValidationDetails(err error) map[string]string {
	var verrs validation.Errors
	if !errors.As(err, &verrs) {
		return nil
	}
	out := make(map[string]string, len(verrs))
	for field, e := range verrs {
		out[field] = e.Error()
	}
	return out
}

// IsValidationError indica si err proviene de un Validate().
func IsValidationError(err error) bool {
	var verrs validation.Errors
	return errors.As(err, &verrs)
}

// requiredIf aplica Required solo cuando cond es verdadero.
func requiredIf(cond bool) validation.Rule {
	if cond {
		return validation.Required
	}
	return validation.By(func(interface{}) error { return nil })
}
