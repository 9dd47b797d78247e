package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound               = errors.New("recurso no encontrado")
	ErrAccountNotFound        = fmt.Errorf("cuenta no encontrada: %w", ErrNotFound)
	ErrProfileNotFound        = fmt.Errorf("perfil no encontrado: %w", ErrNotFound)
	ErrEmailAlreadyExists     = errors.New("el email ya está registrado")
	ErrInvalidInput           = errors.New("entrada inválida")
	ErrDuplicate              = errors.New("recurso duplicado")
	ErrUnauthenticated        = errors.New("no autenticado")
	ErrUnauthorized           = errors.New("credenciales inválidas")
	ErrForbidden              = errors.New("acceso denegado")
	ErrAccountDeactivated     = fmt.Errorf("cuenta desactivada: %w", ErrForbidden)
	ErrMissingRequiredField   = errors.New("faltan campos requeridos")
	ErrInvalidStateTransition = errors.New("transición de estado inválida")

	// Formas específicas: errors.Is(err, ErrInvalidStateTransition) sigue siendo true.
	ErrNotPendingApproval     = fmt.Errorf("la cuenta no está pendiente de aprobación: %w", ErrInvalidStateTransition)
	ErrNotPendingVerification = fmt.Errorf("la cuenta no está pendiente de verificación: %w", ErrInvalidStateTransition)
	ErrNotPendingDocuments    = fmt.Errorf("la cuenta no está pendiente de documentos: %w", ErrInvalidStateTransition)
)

// MissingFieldsError enumera todos los requisitos faltantes en orden de configuración.
type MissingFieldsError struct {
	Missing []string
}

func (e *MissingFieldsError) Error() string {
	return fmt.Sprintf("%s: %s", ErrMissingRequiredField.Error(), strings.Join(e.Missing, ", "))
}

// Unwrap permite errors.Is(err, ErrMissingRequiredField).
func (e *MissingFieldsError) Unwrap() error { return ErrMissingRequiredField }
