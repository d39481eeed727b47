package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/founders_backend/internal/service/application"
	"github.com/Alijeyrad/founders_backend/internal/service/file"
	"github.com/Alijeyrad/founders_backend/pkg/observability"
)

const (
	fieldPhoto = "photo"
	fieldLogo  = "logo"
)

type ApplicationHandler struct {
	svc application.Service
}

func NewApplicationHandler(svc application.Service) *ApplicationHandler {
	return &ApplicationHandler{svc: svc}
}

// POST /api/v1/applications
// Urlencoded or multipart founder application with optional photo and logo.
func (h *ApplicationHandler) Submit(c fiber.Ctx) error {
	if c.Method() != fiber.MethodPost {
		return methodNotAllowed(c, fiber.MethodPost)
	}

	res, err := h.svc.Submit(c.Context(), application.SubmitRequest{
		Form:  application.FormFromValues(formValues(c)),
		Photo: formUpload(c, fieldPhoto),
		Logo:  formUpload(c, fieldLogo),
	})
	if err != nil {
		return h.mapApplicationError(c, err)
	}

	observability.RecordSubmission(c.Context(), observability.OutcomeAccepted)
	return okMessage(c, "Application submitted successfully!", fiber.Map{
		"submission_id": res.SubmissionID,
	})
}

// formUpload returns the named file part, or nil when the part is absent or
// empty.
func formUpload(c fiber.Ctx, name string) *file.Upload {
	fh, err := c.FormFile(name)
	if err != nil || fh == nil || fh.Filename == "" || fh.Size == 0 {
		return nil
	}
	return file.FromMultipart(fh)
}

func (h *ApplicationHandler) mapApplicationError(c fiber.Ctx, err error) error {
	ctx := c.Context()

	var verr *application.ValidationError
	switch {
	case errors.As(err, &verr):
		observability.RecordSubmission(ctx, observability.OutcomeInvalid)
		return validationFailed(c, verr.Fields)
	case errors.Is(err, application.ErrDuplicateSubmission):
		observability.RecordSubmission(ctx, observability.OutcomeDuplicate)
		return conflict(c, "You have already submitted an application this month.")
	case errors.Is(err, file.ErrFileTooLarge):
		observability.RecordSubmission(ctx, observability.OutcomeRejected)
		return badRequest(c, fileTooLargeMessage)
	case errors.Is(err, file.ErrUnsupportedType):
		observability.RecordSubmission(ctx, observability.OutcomeRejected)
		return badRequest(c, "Invalid file type.")
	default:
		// upload IO and persistence faults
		observability.RecordSubmission(ctx, observability.OutcomeError)
		return internalError(c, err)
	}
}
