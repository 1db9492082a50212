package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"equipment-portal/internal/dto"
	"equipment-portal/internal/services"
	"equipment-portal/pkg/constants"
	apperrors "equipment-portal/pkg/errors"
	"equipment-portal/pkg/utils"
	"equipment-portal/pkg/validation"
)

type EquipmentController struct {
	equipmentService   services.EquipmentServiceInterface
	reservationService services.ReservationServiceInterface
	importer           services.EquipmentImporterInterface
	logger             *zap.Logger
}

func NewEquipmentController(
	service services.EquipmentServiceInterface,
	reservationService services.ReservationServiceInterface,
	importer services.EquipmentImporterInterface,
	logger *zap.Logger,
) *EquipmentController {
	return &EquipmentController{
		equipmentService:   service,
		reservationService: reservationService,
		importer:           importer,
		logger:             logger,
	}
}

func (c *EquipmentController) GetEquipments(ctx echo.Context) error {
	filter := utils.ParseFilterFromQuery(ctx.Request().URL.Query())

	res, total, err := c.equipmentService.GetEquipments(ctx.Request().Context(), filter)
	if err != nil {
		logFailure(c.logger, "GetEquipments", err)
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	return utils.SuccessResponse(ctx, res, "equipment list", http.StatusOK, total)
}

func (c *EquipmentController) FindEquipment(ctx echo.Context) error {
	res, err := c.equipmentService.FindEquipment(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		logFailure(c.logger, "FindEquipment", err, zap.String("id", ctx.Param("id")))
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	return utils.SuccessResponse(ctx, res, "equipment found", http.StatusOK)
}

func (c *EquipmentController) CreateEquipment(ctx echo.Context) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var payload dto.CreateEquipmentDTO
	if err := bindAndValidate(ctx, &payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.equipmentService.CreateEquipment(ctx.Request().Context(), actor, payload)
	if err != nil {
		logFailure(c.logger, "CreateEquipment", err, zap.Any("payload", payload))
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	return utils.SuccessResponse(ctx, res, "equipment created", http.StatusCreated)
}

func (c *EquipmentController) UpdateEquipment(ctx echo.Context) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var payload dto.UpdateEquipmentDTO
	if err := bindAndValidate(ctx, &payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.equipmentService.UpdateEquipment(ctx.Request().Context(), actor, ctx.Param("id"), payload)
	if err != nil {
		logFailure(c.logger, "UpdateEquipment", err, zap.String("id", ctx.Param("id")))
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	return utils.SuccessResponse(ctx, res, "equipment updated", http.StatusOK)
}

// CheckAvailability answers whether the item is free for start_date..end_date.
func (c *EquipmentController) CheckAvailability(ctx echo.Context) error {
	id := ctx.Param("id")
	start, end := ctx.QueryParam("start_date"), ctx.QueryParam("end_date")

	available, err := c.reservationService.CheckAvailability(ctx.Request().Context(), id, start, end)
	if err != nil {
		logFailure(c.logger, "CheckAvailability", err, zap.String("id", id))
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	return utils.SuccessResponse(ctx, dto.AvailabilityDTO{
		EquipmentID: id,
		StartDate:   start,
		EndDate:     end,
		Available:   available,
	}, "availability checked", http.StatusOK)
}

func (c *EquipmentController) GetCategories(ctx echo.Context) error {
	res, err := c.equipmentService.GetCategories(ctx.Request().Context())
	if err != nil {
		logFailure(c.logger, "GetCategories", err)
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	return utils.SuccessResponse(ctx, res, "category list", http.StatusOK)
}

func (c *EquipmentController) CreateCategory(ctx echo.Context) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var payload dto.CreateCategoryDTO
	if err := bindAndValidate(ctx, &payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.equipmentService.CreateCategory(ctx.Request().Context(), actor, payload)
	if err != nil {
		logFailure(c.logger, "CreateCategory", err)
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	return utils.SuccessResponse(ctx, res, "category created", http.StatusCreated)
}

// ImportEquipment applies an .xlsx inventory sheet sent as the "file" field.
// Rows that fail are reported in the result and do not abort the import.
func (c *EquipmentController) ImportEquipment(ctx echo.Context) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewInvalidInputError("an .xlsx file is required in the \"file\" field"), c.logger)
	}
	src, err := fileHeader.Open()
	if err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewHttpError(http.StatusBadRequest, "cannot read uploaded file", err, nil), c.logger)
	}
	defer src.Close()

	if err := validation.ValidateFile(fileHeader, src, constants.UploadContextEquipmentImport); err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewInvalidInputError("%s: %v", fileHeader.Filename, err), c.logger)
	}

	res, err := c.importer.Import(ctx.Request().Context(), actor, src)
	if err != nil {
		logFailure(c.logger, "ImportEquipment", err, zap.String("file", fileHeader.Filename))
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	return utils.SuccessResponse(ctx, res, "equipment imported", http.StatusOK)
}
