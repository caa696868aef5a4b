package cv

import (
	"net/http"

	"github.com/loresagaashi/cv-converter-agent/pkg/errx"
)

var ErrRegistry = errx.NewRegistry("CV")

var (
	CodeNotFound         = ErrRegistry.Register("NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "CV not found")
	CodeJobNotFound      = ErrRegistry.Register("JOB_NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "Processing job not found")
	CodeInvalidFileType  = ErrRegistry.Register("INVALID_FILE_TYPE", errx.TypeValidation, http.StatusBadRequest, "Only PDF and DOCX files are supported")
	CodeFileTooLarge     = ErrRegistry.Register("FILE_TOO_LARGE", errx.TypeValidation, http.StatusBadRequest, "File exceeds the maximum allowed size")
	CodeUploadFailed     = ErrRegistry.Register("UPLOAD_FAILED", errx.TypeInternal, http.StatusInternalServerError, "Failed to store uploaded file")
	CodeProcessingFailed = ErrRegistry.Register("PROCESSING_FAILED", errx.TypeInternal, http.StatusInternalServerError, "CV processing failed")
	CodeNotProcessed     = ErrRegistry.Register("NOT_PROCESSED", errx.TypeBusiness, http.StatusUnprocessableEntity, "CV has not been processed yet")
	CodeAccessDenied     = ErrRegistry.Register("ACCESS_DENIED", errx.TypeAuthorization, http.StatusForbidden, "CV does not belong to this user")
	CodeStoreFailed      = ErrRegistry.Register("STORE_FAILED", errx.TypeInternal, http.StatusInternalServerError, "Failed to persist CV")
)

func ErrCVNotFound() *errx.Error {
	return ErrRegistry.New(CodeNotFound)
}

func ErrJobNotFound() *errx.Error {
	return ErrRegistry.New(CodeJobNotFound)
}

func ErrInvalidFileType() *errx.Error {
	return ErrRegistry.New(CodeInvalidFileType)
}

func ErrFileTooLarge() *errx.Error {
	return ErrRegistry.New(CodeFileTooLarge)
}

func ErrUploadFailed() *errx.Error {
	return ErrRegistry.New(CodeUploadFailed)
}

func ErrProcessingFailed() *errx.Error {
	return ErrRegistry.New(CodeProcessingFailed)
}

func ErrNotProcessed() *errx.Error {
	return ErrRegistry.New(CodeNotProcessed)
}

func ErrAccessDenied() *errx.Error {
	return ErrRegistry.New(CodeAccessDenied)
}

func ErrStoreFailed() *errx.Error {
	return ErrRegistry.New(CodeStoreFailed)
}
