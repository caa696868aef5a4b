package paperapi

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/loresagaashi/cv-converter-agent/competence/cv/cvsrv"
	"github.com/loresagaashi/cv-converter-agent/competence/paper"
	"github.com/loresagaashi/cv-converter-agent/competence/paper/papersrv"
	"github.com/loresagaashi/cv-converter-agent/internal/ai/cvstruct"
	"github.com/loresagaashi/cv-converter-agent/pkg/auth"
	"github.com/loresagaashi/cv-converter-agent/pkg/kernel"
)

// Handler exposes the original paper endpoints
type Handler struct {
	service   *papersrv.Service
	cvService *cvsrv.Service
}

func NewHandler(service *papersrv.Service, cvService *cvsrv.Service) *Handler {
	return &Handler{service: service, cvService: cvService}
}

func (h *Handler) RegisterRoutes(app *fiber.App, authMiddleware fiber.Handler) {
	api := app.Group("/api/papers", authMiddleware)

	api.Get("/", h.List)
	api.Get("/cv/:cvId", h.GetByCV)
	api.Get("/:id", h.Get)
	api.Patch("/:id", h.Update)
	api.Get("/:id/export", h.Export)
	api.Delete("/:id", h.Delete)
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

	papers, err := h.service.ListPapers(c.Context(), authCtx.UserID,
		kernel.PaginationOptions{Page: page, PageSize: pageSize})
	if err != nil {
		return err
	}
	return c.JSON(papers)
}

// GetByCV returns the paper generated from a given CV
func (h *Handler) GetByCV(c *fiber.Ctx) error {
	authCtx, err := auth.GetAuthContext(c)
	if err != nil {
		return err
	}

	record, err := h.service.GetByCV(c.Context(), kernel.NewCVID(c.Params("cvId")))
	if err != nil {
		return err
	}
	if !authCtx.CanAccess(record.UserID) {
		return paper.ErrAccessDenied().WithDetail("paper_id", record.ID)
	}
	return c.JSON(paper.ToPaperResponse(record))
}

func (h *Handler) Get(c *fiber.Ctx) error {
	record, err := h.loadOwned(c)
	if err != nil {
		return err
	}
	return c.JSON(paper.ToPaperResponse(record))
}

func (h *Handler) Update(c *fiber.Ctx) error {
	record, err := h.loadOwned(c)
	if err != nil {
		return err
	}

	var req paper.UpdatePaperRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	updated, err := h.service.UpdatePaper(c.Context(), record.ID, req.Content)
	if err != nil {
		return err
	}
	return c.JSON(paper.ToPaperResponse(updated))
}

// Export streams the paper rendered as a PDF, using the source CV's
// structured fields when the CV is still available
func (h *Handler) Export(c *fiber.Ctx) error {
	record, err := h.loadOwned(c)
	if err != nil {
		return err
	}

	structured := cvstruct.Empty()
	if cvRecord, cvErr := h.cvService.GetCV(c.Context(), record.CVID); cvErr == nil {
		structured = cvRecord.Structured
	}

	pdf, err := h.service.ExportPDF(c.Context(), record.ID, structured)
	if err != nil {
		return err
	}

	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="competence-paper.pdf"`)
	return c.Send(pdf)
}

func (h *Handler) Delete(c *fiber.Ctx) error {
	record, err := h.loadOwned(c)
	if err != nil {
		return err
	}

	if err := h.service.DeletePaper(c.Context(), record.ID); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Handler) loadOwned(c *fiber.Ctx) (*paper.OriginalPaper, error) {
	authCtx, err := auth.GetAuthContext(c)
	if err != nil {
		return nil, err
	}

	record, err := h.service.GetPaper(c.Context(), kernel.NewPaperID(c.Params("id")))
	if err != nil {
		return nil, err
	}
	if !authCtx.CanAccess(record.UserID) {
		return nil, paper.ErrAccessDenied().WithDetail("paper_id", record.ID)
	}
	return record, nil
}
