package pdf

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/construlink/contracts-admin/internal/format"
	"github.com/construlink/contracts-admin/internal/model"
)

// Generator renders the printable summary sheet for a contract.
type Generator struct {
	fontName string
}

func NewGenerator() (*Generator, error) {
	return &Generator{fontName: "Helvetica"}, nil
}

func (g *Generator) Generate(contract model.Contract) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 20, 20)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont(g.fontName, "B", 16)
	pdf.CellFormat(0, 10, tr("Ficha de Contrato"), "", 1, "C", false, 0, "")

	pdf.SetFont(g.fontName, "", 11)
	pdf.CellFormat(0, 6, tr(fmt.Sprintf("Contrato nº %s", contract.NumeroContrato)), "", 1, "C", false, 0, "")
	pdf.Ln(6)

	pdf.SetFont(g.fontName, "B", 12)
	pdf.CellFormat(0, 8, tr("Dados do contrato"), "", 1, "L", false, 0, "")
	pdf.SetFont(g.fontName, "", 11)

	rows := [][2]string{
		{"Cliente", contract.Cliente},
		{"Obra", contract.Obra},
		{"Vigência", format.FormatDateRange(contract.VigenciaInicio, contract.VigenciaFim)},
		{"Valor", format.FormatCurrencyValue(contract.Valor)},
		{"Status", statusLabel(contract.Status)},
	}
	for _, row := range rows {
		pdf.SetFont(g.fontName, "B", 11)
		pdf.CellFormat(40, 7, tr(row[0]), "1", 0, "L", false, 0, "")
		pdf.SetFont(g.fontName, "", 11)
		pdf.CellFormat(0, 7, tr(safeValue(row[1])), "1", 1, "L", false, 0, "")
	}

	pdf.Ln(4)
	pdf.SetFont(g.fontName, "", 9)
	pdf.CellFormat(0, 5, tr(fmt.Sprintf("Cadastrado em %s", formatTimestamp(contract.CreatedAt))), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 5, tr(fmt.Sprintf("Última atualização em %s", formatTimestamp(contract.UpdatedAt))), "", 1, "L", false, 0, "")
	if contract.HasPDF {
		pdf.CellFormat(0, 5, tr("Contrato assinado arquivado em PDF."), "", 1, "L", false, 0, "")
	}

	pdf.Ln(14)
	pdf.SetFont(g.fontName, "", 11)
	pdf.CellFormat(0, 6, tr("Contratante: ______________________________"), "", 1, "L", false, 0, "")
	pdf.Ln(6)
	pdf.CellFormat(0, 6, tr("Contratada: ______________________________"), "", 1, "L", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func statusLabel(status model.ContractStatus) string {
	switch status {
	case model.ContractStatusActive:
		return "Ativo"
	case model.ContractStatusInactive:
		return "Inativo"
	default:
		return "Pendente"
	}
}

func safeValue(value string) string {
	if strings.TrimSpace(value) == "" {
		return "—"
	}
	return value
}

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return "—"
	}
	return t.Format("02/01/2006 15:04")
}
