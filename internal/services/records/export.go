package records

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/thanulingayath/reception-agent/internal/models"
	apperrors "github.com/thanulingayath/reception-agent/pkg/errors"
)

const exportSheet = "Call Records"

var exportHeader = []string{"ID", "Timestamp", "Filename", "Transcription", "Translation", "Intent", "Sentiment", "Analysis", "Language"}

// ExportXLSX writes all records (newest first) as a spreadsheet to w.
func ExportXLSX(ctx context.Context, svc Service, w io.Writer) error {
	recs, err := svc.ListRecent(ctx, int(^uint(0)>>1))
	if err != nil {
		return err
	}
	return writeXLSX(recs, w)
}

func writeXLSX(recs []models.CallRecord, w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(exportSheet)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeInternal, "failed to create export sheet")
	}
	f.SetActiveSheet(index)
	// Drop the default sheet so the workbook has a single named tab
	_ = f.DeleteSheet("Sheet1")

	for col, title := range exportHeader {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(exportSheet, cell, title); err != nil {
			return apperrors.Wrap(err, apperrors.ErrCodeInternal, "failed to write export header")
		}
	}

	for i, rec := range recs {
		row := []interface{}{
			rec.ID,
			rec.Timestamp.Format(time.RFC3339),
			rec.Filename,
			rec.TranscribedText,
			rec.TranslatedText,
			rec.Intent,
			rec.Sentiment,
			rec.Analysis,
			rec.Language,
		}
		for col, value := range row {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
			if err := f.SetCellValue(exportSheet, cell, value); err != nil {
				return apperrors.Wrap(err, apperrors.ErrCodeInternal,
					fmt.Sprintf("failed to write export row %d", i+2))
			}
		}
	}

	if err := f.Write(w); err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeInternal, "failed to write export file")
	}
	return nil
}
