package repository

import (
	"time"

	"github.com/farmops/agrostock/internal/domain/entity"
)

// MovementFilter criterios de consulta del historial de movimientos.
// Todos los campos son opcionales salvo Limit/Offset.
type MovementFilter struct {
	Direction string // IN, OUT o vacío (ambas)
	ItemID    string
	Store     string
	From      *time.Time
	To        *time.Time
	Limit     int
	Offset    int
}

// MovementRecordRepository define el puerto de persistencia del ledger de movimientos.
// Los registros son de solo inserción: no hay Update ni Delete.
type MovementRecordRepository interface {
	Create(movement *entity.MovementRecord) error
	GetByID(id string) (*entity.MovementRecord, error)
	// List devuelve movimientos ordenados por occurred_at descendente.
	List(filter MovementFilter) ([]*entity.MovementRecord, error)
}
