package sessionapi

import (
	"errors"
	"io"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/loresagaashi/cv-converter-agent/competence/cv/cvsrv"
	"github.com/loresagaashi/cv-converter-agent/competence/paper"
	"github.com/loresagaashi/cv-converter-agent/competence/session"
	"github.com/loresagaashi/cv-converter-agent/competence/session/sessionsrv"
	"github.com/loresagaashi/cv-converter-agent/internal/ai/cvstruct"
	"github.com/loresagaashi/cv-converter-agent/internal/pdftemplate"
	"github.com/loresagaashi/cv-converter-agent/internal/speech"
	"github.com/loresagaashi/cv-converter-agent/pkg/auth"
	"github.com/loresagaashi/cv-converter-agent/pkg/kernel"
)

// Handler exposes the verification session endpoints
type Handler struct {
	service     *sessionsrv.Service
	cvService   *cvsrv.Service
	transcriber speech.Transcriber
	synthesizer speech.Synthesizer
	projector   *pdftemplate.Projector
	renderer    pdftemplate.Renderer
}

func NewHandler(
	service *sessionsrv.Service,
	cvService *cvsrv.Service,
	transcriber speech.Transcriber,
	synthesizer speech.Synthesizer,
	projector *pdftemplate.Projector,
	renderer pdftemplate.Renderer,
) *Handler {
	return &Handler{
		service:     service,
		cvService:   cvService,
		transcriber: transcriber,
		synthesizer: synthesizer,
		projector:   projector,
		renderer:    renderer,
	}
}

func (h *Handler) RegisterRoutes(app *fiber.App, authMiddleware fiber.Handler) {
	api := app.Group("/api/sessions", authMiddleware)

	api.Post("/", h.Start)
	api.Get("/", h.List)
	api.Get("/:id", h.Get)
	api.Delete("/:id", h.Delete)

	api.Get("/:id/turns", h.Turns)
	api.Post("/:id/turns", h.SubmitTurn)
	api.Get("/:id/next-question", h.NextQuestion)
	api.Get("/:id/next-question/audio", h.NextQuestionAudio)

	api.Post("/:id/paper", h.GeneratePaper)
	api.Get("/:id/paper", h.GetPaper)
	api.Patch("/:id/paper", h.UpdatePaper)
	api.Get("/:id/paper/export", h.ExportPaper)
}

// Start opens a verification session for a (cv, paper) pair, reusing an
// existing open one
func (h *Handler) Start(c *fiber.Ctx) error {
	authCtx, err := auth.GetAuthContext(c)
	if err != nil {
		return err
	}

	var req session.StartSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.CVID.IsEmpty() || req.OriginalPaperID.IsEmpty() {
		return fiber.NewError(fiber.StatusBadRequest, "cv_id and original_paper_id are required")
	}

	response, err := h.service.StartSession(c.Context(), authCtx, req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(response)
}

func (h *Handler) List(c *fiber.Ctx) error {
	authCtx, err := auth.GetAuthContext(c)
	if err != nil {
		return err
	}

	page, _ := strconv.Atoi(c.Query("page", "1"))
	pageSize, _ := strconv.Atoi(c.Query("page_size", "20"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	sessions, err := h.service.ListSessions(c.Context(), authCtx.UserID,
		kernel.PaginationOptions{Page: page, PageSize: pageSize})
	if err != nil {
		return err
	}
	return c.JSON(sessions)
}

func (h *Handler) Get(c *fiber.Ctx) error {
	sess, err := h.loadOwned(c)
	if err != nil {
		return err
	}

	turns, err := h.service.ListTurns(c.Context(), sess.ID)
	if err != nil {
		return err
	}
	return c.JSON(session.ToSessionResponse(sess, len(turns)))
}

func (h *Handler) Delete(c *fiber.Ctx) error {
	sess, err := h.loadOwned(c)
	if err != nil {
		return err
	}

	if err := h.service.DeleteSession(c.Context(), sess.ID); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Handler) Turns(c *fiber.Ctx) error {
	sess, err := h.loadOwned(c)
	if err != nil {
		return err
	}

	turns, err := h.service.ListTurns(c.Context(), sess.ID)
	if err != nil {
		return err
	}
	return c.JSON(turns)
}

// SubmitTurn records one answer. The answer arrives either as JSON text
// or as a multipart "audio" file, which is transcribed first; answers in
// an unsupported language are rejected before classification.
func (h *Handler) SubmitTurn(c *fiber.Ctx) error {
	sess, err := h.loadOwned(c)
	if err != nil {
		return err
	}

	req, err := h.parseTurnRequest(c)
	if err != nil {
		return err
	}

	response, err := h.service.ProcessTurn(c.Context(), sess.ID, *req)
	if err != nil {
		return err
	}
	return c.JSON(response)
}

func (h *Handler) parseTurnRequest(c *fiber.Ctx) (*session.TurnRequest, error) {
	if fileHeader, err := c.FormFile("audio"); err == nil {
		file, err := fileHeader.Open()
		if err != nil {
			return nil, fiber.NewError(fiber.StatusBadRequest, "unreadable audio file")
		}
		defer file.Close()

		audio, err := io.ReadAll(file)
		if err != nil {
			return nil, fiber.NewError(fiber.StatusBadRequest, "unreadable audio file")
		}

		transcription, err := h.transcriber.Transcribe(c.Context(), audio, fileHeader.Filename)
		if err != nil {
			if errors.Is(err, speech.ErrUnsupportedLanguage) {
				return nil, session.ErrUnsupportedLanguage().WithDetail("error", err.Error())
			}
			return nil, fiber.NewError(fiber.StatusBadGateway, "transcription failed")
		}

		return &session.TurnRequest{
			QuestionText: c.FormValue("question_text"),
			AnswerText:   transcription.Text,
			Section:      session.Section(c.FormValue("section")),
		}, nil
	}

	var req session.TurnRequest
	if err := c.BodyParser(&req); err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	return &req, nil
}

func (h *Handler) NextQuestion(c *fiber.Ctx) error {
	sess, err := h.loadOwned(c)
	if err != nil {
		return err
	}

	plan, err := h.service.NextQuestion(c.Context(), sess.ID)
	if err != nil {
		return err
	}
	return c.JSON(plan)
}

// NextQuestionAudio returns the pending question as synthesized speech
func (h *Handler) NextQuestionAudio(c *fiber.Ctx) error {
	sess, err := h.loadOwned(c)
	if err != nil {
		return err
	}

	plan, err := h.service.NextQuestion(c.Context(), sess.ID)
	if err != nil {
		return err
	}

	audio, err := h.synthesizer.Synthesize(c.Context(), plan.Question)
	if err != nil {
		return fiber.NewError(fiber.StatusBadGateway, "speech synthesis failed")
	}

	c.Set(fiber.HeaderContentType, "audio/mpeg")
	return c.Send(audio)
}

func (h *Handler) GeneratePaper(c *fiber.Ctx) error {
	sess, err := h.loadOwned(c)
	if err != nil {
		return err
	}

	response, err := h.service.GeneratePaper(c.Context(), sess.ID)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(response)
}

func (h *Handler) GetPaper(c *fiber.Ctx) error {
	sess, err := h.loadOwned(c)
	if err != nil {
		return err
	}

	response, err := h.service.GetFinalPaper(c.Context(), sess.ID)
	if err != nil {
		return err
	}
	return c.JSON(response)
}

func (h *Handler) UpdatePaper(c *fiber.Ctx) error {
	sess, err := h.loadOwned(c)
	if err != nil {
		return err
	}

	var req session.UpdatePaperRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	response, err := h.service.UpdateFinalPaper(c.Context(), sess.ID, req.Content)
	if err != nil {
		return err
	}
	return c.JSON(response)
}

// ExportPaper renders the final paper as a PDF: the CV's structured
// fields fill the template, then the interview's verified findings
// override them
func (h *Handler) ExportPaper(c *fiber.Ctx) error {
	sess, err := h.loadOwned(c)
	if err != nil {
		return err
	}

	finalPaper, err := h.service.GetFinalPaper(c.Context(), sess.ID)
	if err != nil {
		return err
	}

	structured := cvstruct.Empty()
	if cvRecord, cvErr := h.cvService.GetCV(c.Context(), sess.CVID); cvErr == nil {
		structured = cvRecord.Structured
	}

	fields := h.projector.Project(structured)
	h.projector.ApplyPaper(&fields, finalPaper.Content)

	pdf, err := h.renderer.Render(c.Context(), fields)
	if err != nil {
		return paper.ErrExportFailed().WithDetails(map[string]any{
			"session_id": sess.ID,
			"error":      err.Error(),
		})
	}

	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="final-paper.pdf"`)
	return c.Send(pdf)
}

func (h *Handler) loadOwned(c *fiber.Ctx) (*session.Session, error) {
	authCtx, err := auth.GetAuthContext(c)
	if err != nil {
		return nil, err
	}

	sess, err := h.service.GetSession(c.Context(), kernel.NewSessionID(c.Params("id")))
	if err != nil {
		return nil, err
	}
	if !authCtx.CanAccess(sess.UserID) {
		return nil, session.ErrAccessDenied().WithDetail("session_id", sess.ID)
	}
	return sess, nil
}
