package tools

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/invopop/jsonschema"

	"github.com/farmops/agrostock/internal/application/dto"
	"github.com/farmops/agrostock/pkg/logger"
)

// Tamaño máximo de una línea de petición (1 MiB).
const maxLineBytes = 1 << 20

// Request una llamada de herramienta: una línea JSON por petición.
type Request struct {
	ID     string          `json:"id"`
	Tool   string          `json:"tool"`
	Params json.RawMessage `json:"params"`
}

// Response el resultado de una llamada: una línea JSON por respuesta.
type Response struct {
	ID     string             `json:"id"`
	OK     bool               `json:"ok"`
	Result any                `json:"result,omitempty"`
	Error  *dto.ErrorResponse `json:"error,omitempty"`
}

// toolInfo entrada de la respuesta de list_tools.
type toolInfo struct {
	Name        string             `json:"name"`
	Description string             `json:"description"`
	InputSchema *jsonschema.Schema `json:"input_schema"`
}

// Server despachador de herramientas por stdin/stdout. Lee una petición JSON
// por línea, ejecuta la herramienta y escribe la respuesta en una línea.
// list_tools es builtin: devuelve las definiciones con su JSON Schema.
type Server struct {
	registry *Registry
	log      *logger.Logger
}

// NewServer construye el servidor sobre un registro de herramientas.
func NewServer(registry *Registry, log *logger.Logger) *Server {
	return &Server{registry: registry, log: log}
}

// Serve atiende peticiones hasta EOF en in o hasta que ctx se cancele.
// Los errores de herramienta viajan en la respuesta, nunca tumban el loop.
func (s *Server) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	enc := json.NewEncoder(out)

	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		resp := s.dispatch(ctx, line)
		if err := enc.Encode(resp); err != nil {
			return fmt.Errorf("escribir respuesta: %w", err)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("leer peticiones: %w", err)
	}
	return nil
}

// dispatch resuelve una línea de petición a su respuesta.
func (s *Server) dispatch(ctx context.Context, line []byte) Response {
	var req Request
	if err := json.Unmarshal(line, &req); err != nil {
		s.log.Warn().Err(err).Msg("petición malformada")
		return Response{OK: false, Error: &dto.ErrorResponse{
			Code:    dto.CodeValidation,
			Message: "petición malformada: " + err.Error(),
		}}
	}

	if req.Tool == "list_tools" {
		return Response{ID: req.ID, OK: true, Result: s.listTools()}
	}

	def, ok := s.registry.Get(req.Tool)
	if !ok {
		return Response{ID: req.ID, OK: false, Error: &dto.ErrorResponse{
			Code:    dto.CodeNotFound,
			Message: fmt.Sprintf("herramienta desconocida: %q", req.Tool),
		}}
	}

	params := req.Params
	if len(params) == 0 {
		params = json.RawMessage("{}")
	}
	result, err := def.Handler(ctx, params)
	if err != nil {
		ce := asCallError(err)
		s.log.Warn().Str("tool", req.Tool).Str("code", ce.Code).Msg(ce.Message)
		return Response{ID: req.ID, OK: false, Error: ce.Response()}
	}
	s.log.Debug().Str("tool", req.Tool).Msg("herramienta ejecutada")
	return Response{ID: req.ID, OK: true, Result: result}
}

func (s *Server) listTools() []toolInfo {
	defs := s.registry.All()
	infos := make([]toolInfo, 0, len(defs))
	for _, d := range defs {
		infos = append(infos, toolInfo{
			Name:        d.Name,
			Description: d.Description,
			InputSchema: d.InputSchema,
		})
	}
	return infos
}
