package controller

import (
	"yt-coach-be/internal/dto"
	"yt-coach-be/internal/pkg/serverutils"
	"yt-coach-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IIngestController interface {
	RegisterRoutes(r fiber.Router)
	Scan(ctx *fiber.Ctx) error
	Status(ctx *fiber.Ctx) error
}

type ingestController struct {
	ingestService service.IIngestService
}

func NewIngestController(ingestService service.IIngestService) IIngestController {
	return &ingestController{
		ingestService: ingestService,
	}
}

func (c *ingestController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/ingest/v1")
	h.Post("scan", c.Scan)
	h.Get("status", c.Status)
}

func (c *ingestController) Scan(ctx *fiber.Ctx) error {
	// Body is optional, an empty body scans the configured manifest.
	var req dto.ScanRequest
	if len(ctx.Body()) > 0 {
		if err := ctx.BodyParser(&req); err != nil {
			return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
		}
	}

	res, err := c.ingestService.Scan(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success scan playlist manifest", res))
}

func (c *ingestController) Status(ctx *fiber.Ctx) error {
	res, err := c.ingestService.Status(ctx.Context())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show ingest status", res))
}
