package cvapi

import (
	"io"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/loresagaashi/cv-converter-agent/competence/cv"
	"github.com/loresagaashi/cv-converter-agent/competence/cv/cvsrv"
	"github.com/loresagaashi/cv-converter-agent/pkg/auth"
	"github.com/loresagaashi/cv-converter-agent/pkg/kernel"
)

// Handler exposes the CV endpoints
type Handler struct {
	service *cvsrv.Service
}

func NewHandler(service *cvsrv.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(app *fiber.App, authMiddleware fiber.Handler) {
	api := app.Group("/api/cvs", authMiddleware)

	api.Post("/upload", h.Upload)
	api.Get("/", h.List)
	api.Get("/jobs", h.ListJobs)
	api.Get("/jobs/:jobId", h.JobStatus)
	api.Get("/:id", h.Get)
	api.Get("/:id/text", h.Text)
	api.Get("/:id/preview", h.Preview)
	api.Get("/:id/export", h.Export)
	api.Delete("/:id", h.Delete)
}

// Upload accepts a PDF or DOCX file and queues it for processing.
// Responds 202 with the job's status URL.
func (h *Handler) Upload(c *fiber.Ctx) error {
	authCtx, err := auth.GetAuthContext(c)
	if err != nil {
		return err
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return cv.ErrInvalidFileType().WithDetail("reason", "missing file field")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return cv.ErrUploadFailed().WithDetail("file_name", fileHeader.Filename)
	}
	defer file.Close()

	fileData, err := io.ReadAll(file)
	if err != nil {
		return cv.ErrUploadFailed().WithDetail("file_name", fileHeader.Filename)
	}

	response, err := h.service.UploadAndProcess(c.Context(), authCtx.UserID, fileHeader.Filename, fileData)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusAccepted).JSON(response)
}

func (h *Handler) List(c *fiber.Ctx) error {
	authCtx, err := auth.GetAuthContext(c)
	if err != nil {
		return err
	}

	page, err := h.service.ListCVs(c.Context(), authCtx.UserID, paginationFromQuery(c))
	if err != nil {
		return err
	}
	return c.JSON(page)
}

func (h *Handler) Get(c *fiber.Ctx) error {
	record, err := h.loadOwned(c)
	if err != nil {
		return err
	}
	return c.JSON(cv.ToCVResponse(record))
}

func (h *Handler) Text(c *fiber.Ctx) error {
	record, err := h.loadOwned(c)
	if err != nil {
		return err
	}

	text, err := h.service.GetText(c.Context(), record.ID)
	if err != nil {
		return err
	}
	return c.JSON(text)
}

// Preview returns a freshly generated competence summary without
// persisting it
func (h *Handler) Preview(c *fiber.Ctx) error {
	record, err := h.loadOwned(c)
	if err != nil {
		return err
	}

	preview, err := h.service.Preview(c.Context(), record.ID)
	if err != nil {
		return err
	}
	return c.JSON(preview)
}

// Export streams the CV rendered as a PDF
func (h *Handler) Export(c *fiber.Ctx) error {
	record, err := h.loadOwned(c)
	if err != nil {
		return err
	}

	pdf, err := h.service.ExportPDF(c.Context(), record.ID)
	if err != nil {
		return err
	}

	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="cv.pdf"`)
	return c.Send(pdf)
}

func (h *Handler) Delete(c *fiber.Ctx) error {
	record, err := h.loadOwned(c)
	if err != nil {
		return err
	}

	if err := h.service.DeleteCV(c.Context(), record.ID); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Handler) JobStatus(c *fiber.Ctx) error {
	authCtx, err := auth.GetAuthContext(c)
	if err != nil {
		return err
	}

	job, err := h.service.GetJob(c.Context(), kernel.NewJobID(c.Params("jobId")))
	if err != nil {
		return err
	}
	if !authCtx.CanAccess(job.UserID) {
		return cv.ErrAccessDenied().WithDetail("job_id", job.ID)
	}
	return c.JSON(cv.ToJobStatusResponse(job))
}

func (h *Handler) ListJobs(c *fiber.Ctx) error {
	authCtx, err := auth.GetAuthContext(c)
	if err != nil {
		return err
	}

	page, err := h.service.ListJobs(c.Context(), authCtx.UserID, paginationFromQuery(c))
	if err != nil {
		return err
	}
	return c.JSON(page)
}

// loadOwned fetches the CV and enforces ownership
func (h *Handler) loadOwned(c *fiber.Ctx) (*cv.CV, error) {
	authCtx, err := auth.GetAuthContext(c)
	if err != nil {
		return nil, err
	}

	record, err := h.service.GetCV(c.Context(), kernel.NewCVID(c.Params("id")))
	if err != nil {
		return nil, err
	}
	if !authCtx.CanAccess(record.UserID) {
		return nil, cv.ErrAccessDenied().WithDetail("cv_id", record.ID)
	}
	return record, nil
}

func paginationFromQuery(c *fiber.Ctx) kernel.PaginationOptions {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	pageSize, _ := strconv.Atoi(c.Query("page_size", "20"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return kernel.PaginationOptions{Page: page, PageSize: pageSize}
}
