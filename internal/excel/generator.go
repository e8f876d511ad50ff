package excel

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/construlink/contracts-admin/internal/model"
)

// Generator renders the unit-price catalog as a spreadsheet.
type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

func (g *Generator) Generate(prices []model.UnitPrice) ([]byte, error) {
	file := excelize.NewFile()

	sheet := "Preços Unitários"
	file.SetSheetName("Sheet1", sheet)

	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(sheet, cell, value)
	}

	var totalMaterial, totalMaoObra float64
	for _, price := range prices {
		totalMaterial += price.TotalMaterial
		totalMaoObra += price.TotalMaoObra
	}

	set("A1", "Itens no catálogo")
	set("B1", len(prices))
	set("A2", "Total material, R$")
	set("B2", totalMaterial)
	set("A3", "Total mão de obra, R$")
	set("B3", totalMaoObra)

	headers := []string{
		"Código",
		"Tipo",
		"Espessura",
		"Estrutura",
		"Chapa face 1",
		"Chapa face 2",
		"Isolamento",
		"Quantidade",
		"Unidade",
		"Material unit., R$",
		"Mão de obra unit., R$",
		"Total material, R$",
		"Total mão de obra, R$",
	}
	headerRow := 5
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, headerRow)
		set(cell, header)
	}

	for i, price := range prices {
		row := headerRow + 1 + i
		values := []interface{}{
			price.Codigo,
			price.Tipo,
			price.Espessura,
			price.Estrutura,
			price.ChapaFace1,
			price.ChapaFace2,
			price.Isolamento,
			price.Quantidade,
			string(price.Unidade),
			price.UnitMaterial,
			price.UnitMaoObra,
			price.TotalMaterial,
			price.TotalMaoObra,
		}
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			set(cell, value)
		}
	}

	_ = file.SetColWidth(sheet, "A", "A", 14)
	_ = file.SetColWidth(sheet, "B", "G", 18)
	_ = file.SetColWidth(sheet, "H", "M", 16)

	buf, err := file.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
