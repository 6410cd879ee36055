package seating

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	seatingdomain "wedding-app-go/internal/domain/seating"
	commonhandler "wedding-app-go/internal/transport/httpserver/handler/common"
)

type tableRequest struct {
	Name      string  `json:"name" validate:"required,max=100"`
	Capacity  int     `json:"capacity" validate:"required,min=1,max=100"`
	Shape     string  `json:"shape" validate:"omitempty,oneof=round rectangle square"`
	PositionX float64 `json:"position_x"`
	PositionY float64 `json:"position_y"`
}

type moveRequest struct {
	PositionX *float64 `json:"position_x" validate:"required"`
	PositionY *float64 `json:"position_y" validate:"required"`
}

func (h *Handlers) ListTables(w http.ResponseWriter, r *http.Request) {
	wedding, ok := commonhandler.RequestWedding(w, r)
	if !ok {
		return
	}

	tables, err := h.Seating.ListTables(r.Context(), wedding.ID)
	if err != nil {
		commonhandler.WriteServiceError(w, h.log, "seating.list_tables: list tables failed", err, seatingErrors, "wedding_id", wedding.ID)
		return
	}
	writeJSON(w, http.StatusOK, tables)
}

func (h *Handlers) GetTable(w http.ResponseWriter, r *http.Request) {
	wedding, ok := commonhandler.RequestWedding(w, r)
	if !ok {
		return
	}

	id := chi.URLParam(r, "id")
	table, err := h.Seating.GetTable(r.Context(), wedding.ID, id)
	if err != nil {
		commonhandler.WriteServiceError(w, h.log, "seating.get_table: get table failed", err, seatingErrors, "wedding_id", wedding.ID, "table_id", id)
		return
	}
	writeJSON(w, http.StatusOK, table)
}

func (h *Handlers) CreateTable(w http.ResponseWriter, r *http.Request) {
	wedding, ok := commonhandler.RequestWedding(w, r)
	if !ok {
		return
	}

	var req tableRequest
	if !commonhandler.DecodeAndValidate(w, r, &req) {
		return
	}

	table, err := h.Seating.CreateTable(r.Context(), seatingdomain.CreateTableInput{
		WeddingID: wedding.ID,
		Name:      req.Name,
		Capacity:  req.Capacity,
		Shape:     seatingdomain.Shape(req.Shape),
		PositionX: req.PositionX,
		PositionY: req.PositionY,
	})
	if err != nil {
		commonhandler.WriteServiceError(w, h.log, "seating.create_table: create table failed", err, seatingErrors, "wedding_id", wedding.ID)
		return
	}
	writeJSON(w, http.StatusCreated, table)
}

func (h *Handlers) UpdateTable(w http.ResponseWriter, r *http.Request) {
	wedding, ok := commonhandler.RequestWedding(w, r)
	if !ok {
		return
	}

	var req tableRequest
	if !commonhandler.DecodeAndValidate(w, r, &req) {
		return
	}

	id := chi.URLParam(r, "id")
	table, err := h.Seating.UpdateTable(r.Context(), seatingdomain.UpdateTableInput{
		ID:        id,
		WeddingID: wedding.ID,
		Name:      req.Name,
		Capacity:  req.Capacity,
		Shape:     seatingdomain.Shape(req.Shape),
		PositionX: req.PositionX,
		PositionY: req.PositionY,
	})
	if err != nil {
		commonhandler.WriteServiceError(w, h.log, "seating.update_table: update table failed", err, seatingErrors, "wedding_id", wedding.ID, "table_id", id)
		return
	}
	writeJSON(w, http.StatusOK, table)
}

func (h *Handlers) MoveTable(w http.ResponseWriter, r *http.Request) {
	wedding, ok := commonhandler.RequestWedding(w, r)
	if !ok {
		return
	}

	var req moveRequest
	if !commonhandler.DecodeAndValidate(w, r, &req) {
		return
	}

	id := chi.URLParam(r, "id")
	table, err := h.Seating.MoveTable(r.Context(), seatingdomain.MoveTableInput{
		ID:        id,
		WeddingID: wedding.ID,
		PositionX: *req.PositionX,
		PositionY: *req.PositionY,
	})
	if err != nil {
		commonhandler.WriteServiceError(w, h.log, "seating.move_table: move table failed", err, seatingErrors, "wedding_id", wedding.ID, "table_id", id)
		return
	}
	writeJSON(w, http.StatusOK, table)
}

func (h *Handlers) DeleteTable(w http.ResponseWriter, r *http.Request) {
	wedding, ok := commonhandler.RequestWedding(w, r)
	if !ok {
		return
	}

	id := chi.URLParam(r, "id")
	if err := h.Seating.DeleteTable(r.Context(), wedding.ID, id); err != nil {
		commonhandler.WriteServiceError(w, h.log, "seating.delete_table: delete table failed", err, seatingErrors, "wedding_id", wedding.ID, "table_id", id)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
