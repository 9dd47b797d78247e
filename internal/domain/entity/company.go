package entity

import "time"

// Tipos de empresa farmacéutica.
const (
	CompanyTypeIndian = "INDIAN"
	CompanyTypeMNC    = "MNC"
)

// Company laboratorio/fabricante del catálogo. Name es la clave natural.
type Company struct {
	ID        string
	Name      string
	Corporate string
	Type      string // INDIAN, MNC
	Divisions []string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
