package tools

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	appledger "github.com/farmops/agrostock/internal/application/ledger"
	"github.com/farmops/agrostock/internal/application/dto"
	"github.com/farmops/agrostock/internal/domain"
	"github.com/farmops/agrostock/internal/domain/repository"
)

// RegisterLedgerTools registra receive_stock, issue_stock y list_movements
// sobre el caso de uso del ledger.
func RegisterLedgerTools(r *Registry, uc *appledger.UseCase) {
	r.Register(Definition{
		Name:        "receive_stock",
		Description: "Registra una entrada de stock y recalcula el costo promedio ponderado del item.",
		InputSchema: schemaFor[dto.ReceiveStockRequest](),
		Handler:     receiveHandler(uc),
	})
	r.Register(Definition{
		Name:        "issue_stock",
		Description: "Registra una salida de stock; falla si el saldo disponible no alcanza.",
		InputSchema: schemaFor[dto.IssueStockRequest](),
		Handler:     issueHandler(uc),
	})
	r.Register(Definition{
		Name:        "list_movements",
		Description: "Consulta el historial de movimientos del ledger, del más reciente al más antiguo.",
		InputSchema: schemaFor[dto.ListMovementsRequest](),
		Handler:     listMovementsHandler(uc),
	})
}

func receiveHandler(uc *appledger.UseCase) Handler {
	return func(ctx context.Context, params json.RawMessage) (any, error) {
		var req dto.ReceiveStockRequest
		if err := json.Unmarshal(params, &req); err != nil {
			return nil, &CallError{Code: dto.CodeValidation, Message: "parámetros inválidos: " + err.Error()}
		}
		units, err := parseQuantity(req.Units)
		if err != nil {
			return nil, invalidQuantity(req)
		}
		cost, err := parseQuantity(req.UnitCost)
		if err != nil {
			return nil, invalidQuantity(req)
		}
		snap, err := uc.Receive(ctx, appledger.ReceiveInput{
			Ref:       itemRef(req.Store, req.Category, req.Subcategory),
			Units:     units,
			UnitCost:  cost,
			Reference: req.Reference,
			Notes:     req.Notes,
		})
		if err != nil {
			if errors.Is(err, domain.ErrInvalidQuantity) {
				// se devuelve la entrada original tal cual llegó
				return nil, invalidQuantity(req)
			}
			return nil, err
		}
		return snap, nil
	}
}

func issueHandler(uc *appledger.UseCase) Handler {
	return func(ctx context.Context, params json.RawMessage) (any, error) {
		var req dto.IssueStockRequest
		if err := json.Unmarshal(params, &req); err != nil {
			return nil, &CallError{Code: dto.CodeValidation, Message: "parámetros inválidos: " + err.Error()}
		}
		units, err := parseQuantity(req.Units)
		if err != nil {
			return nil, invalidQuantity(req)
		}
		ref := itemRef(req.Store, req.Category, req.Subcategory)
		snap, err := uc.Issue(ctx, appledger.IssueInput{
			Ref:       ref,
			Units:     units,
			Reference: req.Reference,
			Notes:     req.Notes,
		})
		if err != nil {
			if errors.Is(err, domain.ErrInvalidQuantity) {
				return nil, invalidQuantity(req)
			}
			if errors.Is(err, domain.ErrInsufficientStock) {
				// el caller necesita el saldo disponible para ajustar la petición
				details := map[string]any{}
				if current, gerr := uc.GetItem(ctx, ref); gerr == nil {
					details["units_in_stock"] = current.UnitsInStock.String()
				}
				return nil, &CallError{
					Code:    dto.CodeInsufficientStock,
					Message: "stock insuficiente para la salida solicitada",
					Details: details,
				}
			}
			return nil, err
		}
		return snap, nil
	}
}

func listMovementsHandler(uc *appledger.UseCase) Handler {
	return func(ctx context.Context, params json.RawMessage) (any, error) {
		var req dto.ListMovementsRequest
		if err := json.Unmarshal(params, &req); err != nil {
			return nil, &CallError{Code: dto.CodeValidation, Message: "parámetros inválidos: " + err.Error()}
		}
		filter := repository.MovementFilter{
			Direction: req.Direction,
			Store:     req.Store,
			ItemID:    req.ItemID,
			Limit:     req.Limit,
			Offset:    req.Offset,
		}
		var err error
		if filter.From, err = parseDate(req.From); err != nil {
			return nil, &CallError{Code: dto.CodeValidation, Message: "fecha 'from' inválida: " + req.From}
		}
		if filter.To, err = parseDate(req.To); err != nil {
			return nil, &CallError{Code: dto.CodeValidation, Message: "fecha 'to' inválida: " + req.To}
		}

		movs, err := uc.ListMovements(ctx, filter)
		if err != nil {
			return nil, err
		}
		out := make([]dto.MovementDTO, 0, len(movs))
		for _, m := range movs {
			out = append(out, dto.MovementFromEntity(m))
		}
		return out, nil
	}
}

func itemRef(store, category, subcategory string) repository.ItemRef {
	ref := repository.ItemRef{Store: store, Category: category}
	if subcategory != "" {
		ref.Subcategory = &subcategory
	}
	return ref
}

func parseQuantity(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}

func parseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// invalidQuantity rechazo con eco de la entrada original en los detalles.
func invalidQuantity(req any) *CallError {
	raw, _ := json.Marshal(req)
	var echo map[string]any
	_ = json.Unmarshal(raw, &echo)
	return &CallError{
		Code:    dto.CodeInvalidQuantity,
		Message: "cantidad inválida",
		Details: map[string]any{"input": echo},
	}
}
