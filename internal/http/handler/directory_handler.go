package handler

import (
	"net/http"

	"github.com/clinicaaldeia-suprimentos/procurement-api/internal/domain"
	"github.com/clinicaaldeia-suprimentos/procurement-api/internal/service"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// DirectoryHandler serves the sector and role reference data
type DirectoryHandler struct {
	directoryService *service.DirectoryService
	logger           *zap.Logger
}

func NewDirectoryHandler(directoryService *service.DirectoryService, logger *zap.Logger) *DirectoryHandler {
	return &DirectoryHandler{directoryService: directoryService, logger: logger}
}

// ListSectors returns all sectors
func (h *DirectoryHandler) ListSectors(w http.ResponseWriter, r *http.Request) {
	sectors, err := h.directoryService.ListSectors(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, sectors)
}

// CreateSector adds a sector
func (h *DirectoryHandler) CreateSector(w http.ResponseWriter, r *http.Request) {
	var req domain.NameRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	sector, err := h.directoryService.CreateSector(r.Context(), &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, sector)
}

// UpdateSector renames a sector
func (h *DirectoryHandler) UpdateSector(w http.ResponseWriter, r *http.Request) {
	var req domain.NameRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	sector, err := h.directoryService.UpdateSector(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, sector)
}

// DeleteSector removes a sector
func (h *DirectoryHandler) DeleteSector(w http.ResponseWriter, r *http.Request) {
	if err := h.directoryService.DeleteSector(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

// ListRoles returns all roles
func (h *DirectoryHandler) ListRoles(w http.ResponseWriter, r *http.Request) {
	roles, err := h.directoryService.ListRoles(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, roles)
}

// CreateRole adds a role
func (h *DirectoryHandler) CreateRole(w http.ResponseWriter, r *http.Request) {
	var req domain.NameRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	role, err := h.directoryService.CreateRole(r.Context(), &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, role)
}

// UpdateRole renames a role
func (h *DirectoryHandler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	var req domain.NameRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	role, err := h.directoryService.UpdateRole(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, role)
}

// DeleteRole removes a role
func (h *DirectoryHandler) DeleteRole(w http.ResponseWriter, r *http.Request) {
	if err := h.directoryService.DeleteRole(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}
