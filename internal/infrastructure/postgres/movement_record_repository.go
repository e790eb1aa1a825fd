package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/farmops/agrostock/internal/domain/entity"
	"github.com/farmops/agrostock/internal/domain/repository"
)

var _ repository.MovementRecordRepository = (*MovementRecordRepo)(nil)

// MovementRecordRepo implementación del ledger de movimientos sobre PostgreSQL
// (usable con pool o tx). Solo inserta y consulta: los asientos son inmutables.
type MovementRecordRepo struct {
	q Querier
}

// NewMovementRecordRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRecordRepository(q Querier) *MovementRecordRepo {
	return &MovementRecordRepo{q: q}
}

const movementColumns = `id, item_id, direction, units, unit_cost_at_time, reference, notes, occurred_at, created_at`

// Create asienta un movimiento en el ledger.
func (r *MovementRecordRepo) Create(movement *entity.MovementRecord) error {
	if movement.ID == "" {
		movement.ID = uuid.New().String()
	}
	query := `
		INSERT INTO movement_records (` + movementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		movement.ID, movement.ItemID, movement.Direction, movement.Units,
		movement.UnitCostAtTime, movement.Reference, movement.Notes,
		movement.OccurredAt, movement.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create movement record: %w", err)
	}
	return nil
}

// GetByID obtiene un movimiento por ID; nil si no existe.
func (r *MovementRecordRepo) GetByID(id string) (*entity.MovementRecord, error) {
	query := `
		SELECT ` + movementColumns + `
		FROM movement_records WHERE id = $1`
	var m entity.MovementRecord
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&m.ID, &m.ItemID, &m.Direction, &m.Units, &m.UnitCostAtTime,
		&m.Reference, &m.Notes, &m.OccurredAt, &m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movement record: %w", err)
	}
	return &m, nil
}

// List consulta el historial con filtros opcionales, ordenado por occurred_at
// descendente (desempate por created_at para un orden total observable).
func (r *MovementRecordRepo) List(f repository.MovementFilter) ([]*entity.MovementRecord, error) {
	query := `
		SELECT m.id, m.item_id, m.direction, m.units, m.unit_cost_at_time, m.reference, m.notes, m.occurred_at, m.created_at
		FROM movement_records m`
	args := []any{}
	where := ""
	pos := 1

	and := func(cond string, arg any) {
		if where == "" {
			where = " WHERE "
		} else {
			where += " AND "
		}
		where += fmt.Sprintf(cond, pos)
		args = append(args, arg)
		pos++
	}

	if f.Store != "" {
		query += ` JOIN stock_items i ON i.id = m.item_id`
		and("i.store = $%d", f.Store)
	}
	if f.Direction != "" {
		and("m.direction = $%d", f.Direction)
	}
	if f.ItemID != "" {
		and("m.item_id = $%d", f.ItemID)
	}
	if f.From != nil {
		and("m.occurred_at >= $%d", *f.From)
	}
	if f.To != nil {
		and("m.occurred_at <= $%d", *f.To)
	}

	query += where
	query += fmt.Sprintf(" ORDER BY m.occurred_at DESC, m.created_at DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, f.Limit, f.Offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movement records: %w", err)
	}
	defer rows.Close()
	var list []*entity.MovementRecord
	for rows.Next() {
		var m entity.MovementRecord
		if err := rows.Scan(&m.ID, &m.ItemID, &m.Direction, &m.Units, &m.UnitCostAtTime,
			&m.Reference, &m.Notes, &m.OccurredAt, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan movement record: %w", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}
