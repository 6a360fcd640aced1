package requests

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/scyware/assettrack-backend/pkg/db/models"
	pkgerrors "github.com/scyware/assettrack-backend/pkg/errors"
	"github.com/scyware/assettrack-backend/pkg/pagination"
)

const (
	exportSheet = "Requests"
	// exportLimit bounds a single workbook; filtered listings beyond it are
	// expected to be narrowed first.
	exportLimit = 10000
)

var exportHeaders = []string{
	"Item", "Quantity", "Description", "Status", "Requester", "Email", "Phone", "Created",
}

// Export renders the filtered request listing as an XLSX workbook.
func (s *service) Export(ctx context.Context, scope *uuid.UUID, filters ListFilters) (*excelize.File, error) {
	var out []models.Request
	params := pagination.Params{Limit: pagination.MaxLimit}
	for len(out) < exportLimit {
		page, err := s.repo.List(ctx, scope, filters, params)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list requests for export")
		}
		if len(page) > pagination.MaxLimit {
			page = page[:pagination.MaxLimit]
		}
		out = append(out, page...)
		if len(page) < pagination.MaxLimit {
			break
		}
		last := page[len(page)-1]
		params.Cursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}

	f := excelize.NewFile()
	f.SetSheetName("Sheet1", exportSheet)
	f.SetSheetRow(exportSheet, "A1", &exportHeaders)
	if style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err == nil {
		f.SetCellStyle(exportSheet, "A1", "H1", style)
	}

	for i, request := range out {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build export row")
		}
		row := exportRow(request)
		f.SetSheetRow(exportSheet, cell, &row)
	}

	f.SetColWidth(exportSheet, "A", "A", 30)
	f.SetColWidth(exportSheet, "C", "C", 40)
	f.SetColWidth(exportSheet, "E", "F", 25)
	f.SetColWidth(exportSheet, "H", "H", 20)
	return f, nil
}

func exportRow(request models.Request) []interface{} {
	var name, email, phone string
	if request.Requester != nil {
		name = request.Requester.Name
		email = request.Requester.Email
		phone = request.Requester.Phone
	}
	return []interface{}{
		request.ItemName,
		request.Quantity,
		request.Description,
		request.Status.String(),
		name,
		email,
		phone,
		request.CreatedAt.Format(time.RFC3339),
	}
}
