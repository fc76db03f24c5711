package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/avasquez/dulceria-backend/internal/app/model"
	"github.com/avasquez/dulceria-backend/internal/app/service"
	apperrors "github.com/avasquez/dulceria-backend/internal/errors"
	"github.com/avasquez/dulceria-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type UnitController struct {
	unitService service.UnitService
}

func NewUnitController(unitService service.UnitService) *UnitController {
	return &UnitController{
		unitService: unitService,
	}
}

type UnitRequest struct {
	Name         string `json:"name" binding:"required"`
	Abbreviation string `json:"abbreviation" binding:"required"`
}

// ListUnits returns all sale units
// GET /api/v1/units
func (ctrl *UnitController) ListUnits(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	units, err := ctrl.unitService.ListUnits()
	if err != nil {
		log.Error("Failed to list units", err, nil)
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "units")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"units": units,
		"count": len(units),
	})
}

// CreateUnit creates a sale unit (admin)
// POST /api/v1/admin/units
func (ctrl *UnitController) CreateUnit(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req UnitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid unit data")
		return
	}

	unit := &model.Unit{
		Name:         req.Name,
		Abbreviation: req.Abbreviation,
	}

	if err := ctrl.unitService.CreateUnit(unit); err != nil {
		log.Error("Failed to create unit", err, map[string]interface{}{
			"name": req.Name,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "unit create")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Unit created successfully",
		"unit":    unit,
	})
}

// UpdateUnit updates a sale unit (admin)
// PUT /api/v1/admin/units/:id
func (ctrl *UnitController) UpdateUnit(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid unit ID")
		return
	}

	var req UnitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid unit data")
		return
	}

	unit := &model.Unit{
		ID:           uint(id),
		Name:         req.Name,
		Abbreviation: req.Abbreviation,
	}

	if err := ctrl.unitService.UpdateUnit(unit); err != nil {
		if errors.Is(err, service.ErrUnitNotFound) {
			apperrors.NotFound(c, apperrors.ResourceNotFound, "Unit not found")
			return
		}
		log.Error("Failed to update unit", err, map[string]interface{}{
			"unit_id": id,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "unit update")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Unit updated successfully",
		"unit":    unit,
	})
}

// DeleteUnit deletes a sale unit (admin)
// DELETE /api/v1/admin/units/:id
func (ctrl *UnitController) DeleteUnit(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid unit ID")
		return
	}

	if err := ctrl.unitService.DeleteUnit(uint(id)); err != nil {
		if errors.Is(err, service.ErrUnitNotFound) {
			apperrors.NotFound(c, apperrors.ResourceNotFound, "Unit not found")
			return
		}
		log.Error("Failed to delete unit", err, map[string]interface{}{
			"unit_id": id,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "unit delete")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Unit deleted successfully",
	})
}
