package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product SKU del catálogo farmacéutico. SKU es la clave natural.
// CompanyName está desnormalizado y se mantiene sincronizado al renombrar la empresa.
type Product struct {
	ID               string
	SKU              string
	Name             string
	Brand            string
	MotherBrand      string
	CompanyID        string
	CompanyName      string
	Therapy          string
	SuperGroup       string
	SubSupergroup    string
	Group            string
	Class            string
	DrugType         string
	DrugCategory     string
	Subgroup         string
	Strength         string
	Pack             string
	PackUnit         string
	Schedule         string
	IsRxRequired     bool
	NLEM             bool
	AcuteChronic     string
	PlainCombination string
	MRP              decimal.Decimal
	PTR              decimal.Decimal // precio al minorista
	PTS              decimal.Decimal // precio al distribuidor
	BrandLaunchDate  *time.Time
	SKULaunchDate    *time.Time
	IsActive         bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
