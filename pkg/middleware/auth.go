package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"equipment-portal/internal/entities"
	apperrors "equipment-portal/pkg/errors"
	"equipment-portal/pkg/service"
	"equipment-portal/pkg/utils"
)

type AuthMiddleware struct {
	jwtService service.JWTService
	logger     *zap.Logger
}

func NewAuthMiddleware(jwtSvc service.JWTService, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtSvc,
		logger:     logger,
	}
}

// Auth resolves the bearer token into an actor and puts it on the request context.
func (m *AuthMiddleware) Auth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			m.logger.Warn("AuthMiddleware: empty Authorization header")
			return m.unauthorized(c, apperrors.ErrEmptyAuthHeader)
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			m.logger.Warn("AuthMiddleware: malformed Authorization header")
			return m.unauthorized(c, apperrors.ErrInvalidAuthHeader)
		}

		claims, err := m.jwtService.ValidateToken(parts[1])
		if err != nil {
			m.logger.Warn("AuthMiddleware: token rejected", zap.Error(err))
			return m.unauthorized(c, err)
		}
		if claims.IsRefreshToken {
			m.logger.Warn("AuthMiddleware: refresh token used for access")
			return m.unauthorized(c, apperrors.ErrTokenIsNotAccess)
		}

		actor := entities.Actor{UserID: claims.UserID, Role: claims.Role}
		c.SetRequest(c.Request().WithContext(utils.WithActor(c.Request().Context(), actor)))

		m.logger.Debug("AuthMiddleware: authenticated", zap.Uint64("userID", actor.UserID), zap.String("role", actor.Role))
		return next(c)
	}
}

func (m *AuthMiddleware) unauthorized(c echo.Context, err error) error {
	return utils.ErrorResponse(c, apperrors.NewHttpError(http.StatusUnauthorized, err.Error(), nil, nil), m.logger)
}
