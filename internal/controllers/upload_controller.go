package controllers

import (
	"mime/multipart"
	"net/http"
	"path"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"equipment-portal/internal/dto"
	"equipment-portal/internal/services"
	"equipment-portal/pkg/constants"
	apperrors "equipment-portal/pkg/errors"
	"equipment-portal/pkg/filestorage"
	"equipment-portal/pkg/utils"
	"equipment-portal/pkg/validation"
)

// UploadController stores completion photos for a defect report. The
// returned paths are what CompleteWork expects in completion_photos.
type UploadController struct {
	fileStorage   filestorage.FileStorageInterface
	defectService services.DefectWorkflowServiceInterface
	logger        *zap.Logger
}

func NewUploadController(
	fileStorage filestorage.FileStorageInterface,
	defectService services.DefectWorkflowServiceInterface,
	logger *zap.Logger,
) *UploadController {
	return &UploadController{
		fileStorage:   fileStorage,
		defectService: defectService,
		logger:        logger,
	}
}

func (ctrl *UploadController) UploadCompletionPhotos(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	report, err := ctrl.defectService.FindDefectReport(c.Request().Context(), c.Param("id"))
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	if !report.IsAssignedTo(actor.UserID) && !actor.IsAdmin() {
		return utils.ErrorResponse(c, apperrors.NewUnauthorizedError("only the assignee may upload photos for %s", report.ID), ctrl.logger)
	}

	form, err := c.MultipartForm()
	if err != nil {
		return utils.ErrorResponse(c, apperrors.NewHttpError(http.StatusBadRequest, "multipart form expected", err, nil), ctrl.logger)
	}
	files := form.File["files"]
	if len(files) == 0 {
		files = form.File["file"]
	}
	if len(files) == 0 {
		return utils.ErrorResponse(c, apperrors.NewInvalidInputError("no files were uploaded"), ctrl.logger)
	}

	uploadContext := constants.UploadContextCompletionPhoto
	prefix := path.Join(uploadContext.String(), report.ID)

	result := dto.UploadResultDTO{Paths: make([]string, 0, len(files))}
	for _, fileHeader := range files {
		savedPath, err := ctrl.save(c, fileHeader, uploadContext, prefix)
		if err != nil {
			ctrl.rollback(c, result.Paths)
			return utils.ErrorResponse(c, err, ctrl.logger)
		}
		result.Paths = append(result.Paths, savedPath)
	}

	ctrl.logger.Info("completion photos stored",
		zap.String("reportID", report.ID),
		zap.Int("count", len(result.Paths)),
		zap.Uint64("actorID", actor.UserID),
	)
	return utils.SuccessResponse(c, result, "files uploaded", http.StatusCreated)
}

func (ctrl *UploadController) save(c echo.Context, fileHeader *multipart.FileHeader, uploadContext constants.UploadContext, prefix string) (string, error) {
	src, err := fileHeader.Open()
	if err != nil {
		return "", apperrors.NewHttpError(http.StatusBadRequest, "cannot read uploaded file", err, nil)
	}
	defer src.Close()

	if err := validation.ValidateFile(fileHeader, src, uploadContext); err != nil {
		return "", apperrors.NewInvalidInputError("%s: %v", fileHeader.Filename, err)
	}

	savedPath, err := ctrl.fileStorage.Save(c.Request().Context(), src, fileHeader.Filename, prefix)
	if err != nil {
		return "", apperrors.NewHttpError(http.StatusInternalServerError, "failed to store file", err, nil)
	}
	return savedPath, nil
}

// rollback removes files stored before a later file in the same request failed.
func (ctrl *UploadController) rollback(c echo.Context, paths []string) {
	for _, p := range paths {
		if err := ctrl.fileStorage.Delete(c.Request().Context(), p); err != nil {
			ctrl.logger.Warn("failed to remove partial upload", zap.String("path", p), zap.Error(err))
		}
	}
}
