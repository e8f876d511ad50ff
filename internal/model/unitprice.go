package model

import (
	"time"

	"github.com/google/uuid"
)

type PriceUnit string

const (
	PriceUnitM2    PriceUnit = "m2"
	PriceUnitM1    PriceUnit = "m1"
	PriceUnitUnid  PriceUnit = "unid"
	PriceUnitPiece PriceUnit = "peça"
)

func (u PriceUnit) Valid() bool {
	switch u {
	case PriceUnitM2, PriceUnitM1, PriceUnitUnid, PriceUnitPiece:
		return true
	}
	return false
}

type UnitPrice struct {
	ID           uuid.UUID `json:"id"`
	Codigo       string    `json:"codigo"`
	Tipo         string    `json:"tipo"`
	Espessura    string    `json:"espessura"`
	Estrutura    string    `json:"estrutura"`
	ChapaFace1   string    `json:"chapaFace1"`
	ChapaFace2   string    `json:"chapaFace2"`
	Isolamento   string    `json:"isolamento"`
	Quantidade   float64   `json:"quantidade"`
	Unidade      PriceUnit `json:"unidade"`
	UnitMaterial float64   `json:"unitMaterial"`
	UnitMaoObra  float64   `json:"unitMaoObra"`
	// Derived. Always quantidade × unit cost, never edited directly.
	TotalMaterial float64   `json:"totalMaterial"`
	TotalMaoObra  float64   `json:"totalMaoObra"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

type UnitPriceDraft struct {
	Codigo       string  `json:"codigo"`
	Tipo         string  `json:"tipo"`
	Espessura    string  `json:"espessura"`
	Estrutura    string  `json:"estrutura"`
	ChapaFace1   string  `json:"chapaFace1"`
	ChapaFace2   string  `json:"chapaFace2"`
	Isolamento   string  `json:"isolamento"`
	Quantidade   float64 `json:"quantidade"`
	Unidade      string  `json:"unidade"`
	UnitMaterial float64 `json:"unitMaterial"`
	UnitMaoObra  float64 `json:"unitMaoObra"`
}
