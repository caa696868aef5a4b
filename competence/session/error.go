package session

import (
	"net/http"

	"github.com/loresagaashi/cv-converter-agent/pkg/errx"
)

var ErrRegistry = errx.NewRegistry("SESSION")

var (
	CodeSessionNotFound     = ErrRegistry.Register("NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "Session not found")
	CodeSessionCompleted    = ErrRegistry.Register("ALREADY_COMPLETED", errx.TypeBusiness, http.StatusUnprocessableEntity, "Session has already been completed")
	CodeSessionBusy         = ErrRegistry.Register("BUSY", errx.TypeConflict, http.StatusConflict, "Another turn is being processed for this session")
	CodeTurnAppendFailed    = ErrRegistry.Register("TURN_APPEND_FAILED", errx.TypeInternal, http.StatusInternalServerError, "Failed to record turn")
	CodeNoContent           = ErrRegistry.Register("NO_CONTENT", errx.TypeBusiness, http.StatusUnprocessableEntity, "No confirmed content to generate a paper from")
	CodePaperNotFound       = ErrRegistry.Register("PAPER_NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "Final paper not found")
	CodeAccessDenied        = ErrRegistry.Register("ACCESS_DENIED", errx.TypeAuthorization, http.StatusForbidden, "Session does not belong to this user")
	CodePaperMismatch       = ErrRegistry.Register("PAPER_MISMATCH", errx.TypeValidation, http.StatusBadRequest, "Original paper does not belong to this CV")
	CodeUnsupportedLanguage = ErrRegistry.Register("UNSUPPORTED_LANGUAGE", errx.TypeValidation, http.StatusBadRequest, "Answer language is not supported")
	CodeEmptyAnswer         = ErrRegistry.Register("EMPTY_ANSWER", errx.TypeValidation, http.StatusBadRequest, "Answer text is required")
	CodeSessionCreateFailed = ErrRegistry.Register("CREATE_FAILED", errx.TypeInternal, http.StatusInternalServerError, "Failed to create session")
)

func ErrSessionNotFound() *errx.Error {
	return ErrRegistry.New(CodeSessionNotFound)
}

func ErrSessionCompleted() *errx.Error {
	return ErrRegistry.New(CodeSessionCompleted)
}

func ErrSessionBusy() *errx.Error {
	return ErrRegistry.New(CodeSessionBusy)
}

func ErrTurnAppendFailed() *errx.Error {
	return ErrRegistry.New(CodeTurnAppendFailed)
}

func ErrNoContent() *errx.Error {
	return ErrRegistry.New(CodeNoContent)
}

func ErrPaperNotFound() *errx.Error {
	return ErrRegistry.New(CodePaperNotFound)
}

func ErrAccessDenied() *errx.Error {
	return ErrRegistry.New(CodeAccessDenied)
}

func ErrPaperMismatch() *errx.Error {
	return ErrRegistry.New(CodePaperMismatch)
}

func ErrUnsupportedLanguage() *errx.Error {
	return ErrRegistry.New(CodeUnsupportedLanguage)
}

func ErrEmptyAnswer() *errx.Error {
	return ErrRegistry.New(CodeEmptyAnswer)
}

func ErrSessionCreateFailed() *errx.Error {
	return ErrRegistry.New(CodeSessionCreateFailed)
}
