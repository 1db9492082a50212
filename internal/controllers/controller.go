package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"equipment-portal/internal/entities"
	apperrors "equipment-portal/pkg/errors"
	"equipment-portal/pkg/utils"
)

// bindAndValidate binds the request body into dst and runs the echo validator.
// The returned error is ready for utils.ErrorResponse.
func bindAndValidate(ctx echo.Context, dst interface{}) error {
	if err := ctx.Bind(dst); err != nil {
		return apperrors.NewHttpError(http.StatusBadRequest, "malformed request body", err, nil)
	}
	if err := ctx.Validate(dst); err != nil {
		return err
	}
	return nil
}

func actorFrom(ctx echo.Context) (entities.Actor, error) {
	actor, err := utils.GetActorFromCtx(ctx.Request().Context())
	if err != nil {
		return entities.Actor{}, apperrors.NewHttpError(http.StatusUnauthorized, "authentication required", nil, nil)
	}
	return actor, nil
}

// logFailure logs domain refusals at Warn and everything else at Error.
func logFailure(logger *zap.Logger, op string, err error, fields ...zap.Field) {
	fields = append(fields, zap.Error(err), zap.String("kind", apperrors.KindOf(err)))
	if apperrors.KindOf(err) == apperrors.KindInfrastructure {
		logger.Error(op+": failed", fields...)
		return
	}
	logger.Warn(op+": refused", fields...)
}
