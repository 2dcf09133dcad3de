package pdfexport

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/pkg/errors"
)

// ReceiptData datos del comprobante de un trámite
type ReceiptData struct {
	TramiteID   uint
	TypeName    string
	OwnerName   string
	OwnerEmail  string
	Department  string
	Status      string
	Description string
	StartDate   time.Time
	EndDate     time.Time
	SubmittedAt time.Time
	Documents   []string
	GeneratedAt time.Time
}

const (
	dateLayout     = "02/01/2006"
	dateTimeLayout = "02/01/2006 15:04"
	labelWidth     = 45
	lineHeight     = 8
)

func GenerateTramiteReceipt(data ReceiptData) (pdfFile []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("GenerateTramiteReceipt panic recover: %v", r)
		}
	}()
	pdf := fpdf.New("P", "mm", "A4", "")
	// fuentes base en cp1252 para acentos y eñes
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(fmt.Sprintf("Comprobante de trámite %d", data.TramiteID), true)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 12, tr("Comprobante de trámite"), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, tr(fmt.Sprintf("N.º %d", data.TramiteID)), "", 1, "C", false, 0, "")
	pdf.Ln(6)

	rows := [][2]string{
		{"Tipo", data.TypeName},
		{"Solicitante", data.OwnerName},
		{"Correo", data.OwnerEmail},
		{"Departamento", data.Department},
		{"Estado", data.Status},
		{"Fecha de solicitud", formatDate(data.SubmittedAt, dateTimeLayout)},
		{"Desde", formatDate(data.StartDate, dateLayout)},
		{"Hasta", formatDate(data.EndDate, dateLayout)},
	}
	for _, row := range rows {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(labelWidth, lineHeight, tr(row[0]), "B", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 11)
		pdf.CellFormat(0, lineHeight, tr(row[1]), "B", 1, "L", false, 0, "")
	}

	if data.Description != "" {
		pdf.Ln(4)
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(0, lineHeight, tr("Descripción"), "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 11)
		pdf.MultiCell(0, 6, tr(data.Description), "", "L", false)
	}

	if len(data.Documents) != 0 {
		pdf.Ln(4)
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(0, lineHeight, tr("Documentos adjuntos"), "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 11)
		for _, name := range data.Documents {
			pdf.CellFormat(0, 6, tr("- "+name), "", 1, "L", false, 0, "")
		}
	}

	pdf.Ln(8)
	pdf.SetFont("Helvetica", "I", 9)
	pdf.CellFormat(0, 6, tr("Generado el "+formatDate(data.GeneratedAt, dateTimeLayout)), "", 1, "R", false, 0, "")
	if pdf.Error() != nil {
		return nil, pdf.Error()
	}

	buf := new(bytes.Buffer)
	err = pdf.Output(buf)
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func formatDate(value time.Time, layout string) string {
	if value.IsZero() {
		return "-"
	}
	return value.Format(layout)
}
