package paper

import (
	"net/http"

	"github.com/loresagaashi/cv-converter-agent/pkg/errx"
)

var ErrRegistry = errx.NewRegistry("PAPER")

var (
	CodeNotFound     = ErrRegistry.Register("NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "Paper not found")
	CodeAccessDenied = ErrRegistry.Register("ACCESS_DENIED", errx.TypeAuthorization, http.StatusForbidden, "Paper does not belong to this user")
	CodeStoreFailed  = ErrRegistry.Register("STORE_FAILED", errx.TypeInternal, http.StatusInternalServerError, "Failed to persist paper")
	CodeExportFailed = ErrRegistry.Register("EXPORT_FAILED", errx.TypeExternal, http.StatusBadGateway, "Failed to render paper as PDF")
)

func ErrPaperNotFound() *errx.Error {
	return ErrRegistry.New(CodeNotFound)
}

func ErrAccessDenied() *errx.Error {
	return ErrRegistry.New(CodeAccessDenied)
}

func ErrStoreFailed() *errx.Error {
	return ErrRegistry.New(CodeStoreFailed)
}

func ErrExportFailed() *errx.Error {
	return ErrRegistry.New(CodeExportFailed)
}
