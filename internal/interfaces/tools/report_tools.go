package tools

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"

	appledger "github.com/farmops/agrostock/internal/application/ledger"
	"github.com/farmops/agrostock/internal/application/dto"
	"github.com/farmops/agrostock/internal/application/report"
	"github.com/farmops/agrostock/internal/domain/repository"
)

// RegisterReportTools registra generate_report sobre el generador de documentos.
func RegisterReportTools(r *Registry, uc *appledger.UseCase, gen *report.Generator) {
	r.Register(Definition{
		Name:        "generate_report",
		Description: "Genera un reporte PDF (resumen de stock o historial de movimientos) y lo devuelve en base64.",
		InputSchema: schemaFor[dto.GenerateReportRequest](),
		Handler:     generateReportHandler(uc, gen),
	})
}

func generateReportHandler(uc *appledger.UseCase, gen *report.Generator) Handler {
	return func(ctx context.Context, params json.RawMessage) (any, error) {
		var req dto.GenerateReportRequest
		if err := json.Unmarshal(params, &req); err != nil {
			return nil, &CallError{Code: dto.CodeValidation, Message: "parámetros inválidos: " + err.Error()}
		}

		now := time.Now()
		var (
			request report.Request
			prefix  string
		)
		switch req.Report {
		case dto.ReportStockSummary:
			snaps, err := uc.ListItems(ctx, req.Store)
			if err != nil {
				return nil, err
			}
			request = report.StockSummary(req.Store, snaps, now)
			prefix = "resumen_stock"
		case dto.ReportMovementHistory:
			movs, err := uc.ListMovements(ctx, repository.MovementFilter{
				Direction: req.Direction,
				Store:     req.Store,
			})
			if err != nil {
				return nil, err
			}
			request = report.MovementHistory(movs, now)
			prefix = "historial_movimientos"
		default:
			return nil, &CallError{
				Code:    dto.CodeValidation,
				Message: fmt.Sprintf("tipo de reporte desconocido: %q", req.Report),
			}
		}
		if req.Description != "" {
			request.Description = req.Description
		}

		// una sola proyección: el conteo de páginas y el render comparten el resultado
		pages := gen.Project(request)
		doc, err := gen.RenderPages(ctx, pages)
		if err != nil {
			return nil, err
		}
		return dto.GenerateReportResponse{
			Filename:      fmt.Sprintf("%s_%s.pdf", prefix, now.Format("2006-01-02")),
			Pages:         len(pages),
			ContentBase64: base64.StdEncoding.EncodeToString(doc),
		}, nil
	}
}
