package controllers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"equipment-portal/internal/dto"
	"equipment-portal/internal/entities"
	"equipment-portal/internal/services"
	"equipment-portal/pkg/utils"
)

type DefectReportController struct {
	defectService services.DefectWorkflowServiceInterface
	logger        *zap.Logger
}

func NewDefectReportController(service services.DefectWorkflowServiceInterface, logger *zap.Logger) *DefectReportController {
	return &DefectReportController{
		defectService: service,
		logger:        logger,
	}
}

// GetDefectReports lists reports. Plain users only see what they reported.
func (c *DefectReportController) GetDefectReports(ctx echo.Context) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	filter := utils.ParseFilterFromQuery(ctx.Request().URL.Query())
	if !actor.IsAdmin() && !actor.IsTechnician() {
		filter.Filter["reporter_id"] = strconv.FormatUint(actor.UserID, 10)
	}

	res, total, err := c.defectService.GetDefectReports(ctx.Request().Context(), filter)
	if err != nil {
		logFailure(c.logger, "GetDefectReports", err)
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	return utils.SuccessResponse(ctx, res, "defect report list", http.StatusOK, total)
}

func (c *DefectReportController) FindDefectReport(ctx echo.Context) error {
	res, err := c.defectService.FindDefectReport(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		logFailure(c.logger, "FindDefectReport", err, zap.String("id", ctx.Param("id")))
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	return utils.SuccessResponse(ctx, res, "defect report found", http.StatusOK)
}

func (c *DefectReportController) SubmitDefectReport(ctx echo.Context) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var payload dto.CreateDefectReportDTO
	if err := bindAndValidate(ctx, &payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.defectService.SubmitDefectReport(ctx.Request().Context(), actor, payload)
	if err != nil {
		logFailure(c.logger, "SubmitDefectReport", err, zap.String("equipmentID", payload.EquipmentID))
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	return utils.SuccessResponse(ctx, res, "defect report submitted", http.StatusCreated)
}

func (c *DefectReportController) AssignTechnician(ctx echo.Context) error {
	var payload dto.AssignTechnicianDTO
	return c.transition(ctx, "AssignTechnician", &payload, func(actor entities.Actor, id string) (*entities.DefectReport, error) {
		return c.defectService.AssignTechnician(ctx.Request().Context(), actor, id, payload)
	})
}

func (c *DefectReportController) ClaimTask(ctx echo.Context) error {
	return c.transition(ctx, "ClaimTask", nil, func(actor entities.Actor, id string) (*entities.DefectReport, error) {
		return c.defectService.ClaimTask(ctx.Request().Context(), actor, id)
	})
}

func (c *DefectReportController) StartWork(ctx echo.Context) error {
	return c.transition(ctx, "StartWork", nil, func(actor entities.Actor, id string) (*entities.DefectReport, error) {
		return c.defectService.StartWork(ctx.Request().Context(), actor, id)
	})
}

func (c *DefectReportController) CompleteWork(ctx echo.Context) error {
	var payload dto.CompleteWorkDTO
	return c.transition(ctx, "CompleteWork", &payload, func(actor entities.Actor, id string) (*entities.DefectReport, error) {
		return c.defectService.CompleteWork(ctx.Request().Context(), actor, id, payload)
	})
}

func (c *DefectReportController) VerifyWork(ctx echo.Context) error {
	var payload dto.VerifyWorkDTO
	return c.transition(ctx, "VerifyWork", &payload, func(actor entities.Actor, id string) (*entities.DefectReport, error) {
		return c.defectService.VerifyWork(ctx.Request().Context(), actor, id, payload)
	})
}

func (c *DefectReportController) RejectWork(ctx echo.Context) error {
	var payload dto.RejectWorkDTO
	return c.transition(ctx, "RejectWork", &payload, func(actor entities.Actor, id string) (*entities.DefectReport, error) {
		return c.defectService.RejectWork(ctx.Request().Context(), actor, id, payload)
	})
}

// transition resolves the actor, binds payload when given and runs fn
// against the :id path parameter.
func (c *DefectReportController) transition(
	ctx echo.Context,
	op string,
	payload interface{},
	fn func(actor entities.Actor, id string) (*entities.DefectReport, error),
) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	if payload != nil {
		if err := bindAndValidate(ctx, payload); err != nil {
			return utils.ErrorResponse(ctx, err, c.logger)
		}
	}

	id := ctx.Param("id")
	res, err := fn(actor, id)
	if err != nil {
		logFailure(c.logger, op, err, zap.String("id", id), zap.Uint64("actorID", actor.UserID))
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	return utils.SuccessResponse(ctx, res, "defect report is "+res.Status, http.StatusOK)
}
