package xlsexport

import (
	"bytes"
	dbmodels "lariogistic-backend/models/db"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
)

type Provider interface {
	ExportHistory(list []dbmodels.History) (*bytes.Buffer, error)
}

var Instance Provider

func NewHandler() {
	Instance = impl{}
}

type impl struct{}

var historyHeaders = []string{"ID", "Usuario", "Trámite", "Acción", "Descripción", "Fecha"}

func (i impl) ExportHistory(list []dbmodels.History) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			log.WithError(err).Error("error cerrando el archivo xlsx")
		}
	}()
	sheet := "Sheet1"
	row := 0
	row, err := writeHeader(f, sheet, row, historyHeaders)
	if err != nil {
		return nil, errors.Wrap(err, "error generando el encabezado del xlsx")
	}
	if len(list) != 0 {
		_, err = writeHistoryData(f, sheet, list, row)
		if err != nil {
			return nil, errors.Wrap(err, "error generando la tabla de datos del xlsx")
		}
	}
	if err = f.SetSheetName(sheet, "Historial"); err != nil {
		return nil, errors.Wrap(err, "error renombrando la hoja del xlsx")
	}
	return f.WriteToBuffer()
}

func writeHistoryData(f *excelize.File, sheet string, list []dbmodels.History, row int) (int, error) {
	if err := applyDataCellStyle(f, sheet, 1, row+1, len(historyHeaders), row+len(list)); err != nil {
		return row, err
	}
	for _, item := range list {
		row++
		// "ID"
		col := 1
		if err := writeColumn(f, sheet, col, row, item.ID); err != nil {
			return row, err
		}

		// "Usuario"
		col++
		if err := writeColumn(f, sheet, col, row, item.UserName()); err != nil {
			return row, err
		}

		// "Trámite"
		col++
		if item.TramiteID != nil {
			if err := writeColumn(f, sheet, col, row, *item.TramiteID); err != nil {
				return row, err
			}
		}

		// "Acción"
		col++
		if err := writeColumn(f, sheet, col, row, item.Action); err != nil {
			return row, err
		}

		// "Descripción"
		col++
		if err := writeColumn(f, sheet, col, row, item.Description); err != nil {
			return row, err
		}

		// "Fecha"
		col++
		if !item.ActionAt.IsZero() {
			if err := writeColumn(f, sheet, col, row, item.ActionAt.Format("02/01/2006 15:04")); err != nil {
				return row, err
			}
		}
	}
	return row, nil
}
