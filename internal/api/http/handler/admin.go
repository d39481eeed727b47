package handler

import (
	"errors"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/founders_backend/internal/service/review"
)

type AdminHandler struct {
	svc review.Service
}

func NewAdminHandler(svc review.Service) *AdminHandler {
	return &AdminHandler{svc: svc}
}

// GET /api/v1/admin/submissions?page=&per_page=&status=
func (h *AdminHandler) ListSubmissions(c fiber.Ctx) error {
	page, err := h.svc.List(c.Context(), review.ListRequest{
		Page:    fiber.Query[int](c, "page", 1),
		PerPage: fiber.Query[int](c, "per_page", 0),
		Status:  c.Query("status"),
	})
	if err != nil {
		return mapReviewError(c, err)
	}

	return ok(c, fiber.Map{
		"items":    page.Items,
		"total":    page.Total,
		"page":     page.Page,
		"per_page": page.PerPage,
	})
}

// GET /api/v1/admin/submissions/:id
func (h *AdminHandler) GetSubmission(c fiber.Ctx) error {
	id, err := submissionID(c)
	if err != nil {
		return badRequest(c, "invalid submission id")
	}

	sub, err := h.svc.Get(c.Context(), id)
	if err != nil {
		return mapReviewError(c, err)
	}
	return ok(c, fiber.Map{"submission": sub})
}

// GET /api/v1/admin/submissions/:id/files/:kind
// Streams the stored photo or logo.
func (h *AdminHandler) DownloadFile(c fiber.Ctx) error {
	id, err := submissionID(c)
	if err != nil {
		return badRequest(c, "invalid submission id")
	}

	sf, err := h.svc.OpenFile(c.Context(), id, c.Params("kind"))
	if err != nil {
		return mapReviewError(c, err)
	}
	defer sf.Body.Close()

	c.Type(strings.TrimPrefix(filepath.Ext(sf.Name), "."))
	c.Set(fiber.HeaderContentDisposition, `inline; filename="`+sf.Name+`"`)

	data, err := io.ReadAll(sf.Body)
	if err != nil {
		return internalError(c, err)
	}
	return c.Send(data)
}

// GET /api/v1/admin/stats
func (h *AdminHandler) Stats(c fiber.Ctx) error {
	st, err := h.svc.Stats(c.Context())
	if err != nil {
		return mapReviewError(c, err)
	}
	return ok(c, fiber.Map{"stats": st})
}

func submissionID(c fiber.Ctx) (int, error) {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil || id <= 0 {
		return 0, errors.New("invalid id")
	}
	return id, nil
}

func mapReviewError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, review.ErrSubmissionNotFound):
		return notFound(c, "Submission not found")
	case errors.Is(err, review.ErrNoFile):
		return notFound(c, "File not found")
	case errors.Is(err, review.ErrInvalidFileKind):
		return badRequest(c, err.Error())
	default:
		return internalError(c, err)
	}
}
