package controller

import (
	"encoding/json"

	"edudash-be/internal/dto"
	"edudash-be/internal/pkg/serverutils"
	"edudash-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IKnowledgeController interface {
	RegisterRoutes(r fiber.Router)
	Ingest(ctx *fiber.Ctx) error
	Reembed(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
	Search(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
}

type knowledgeController struct {
	knowledgeService service.IKnowledgeService
	ingestPublisher  service.IPublisherService
}

func NewKnowledgeController(knowledgeService service.IKnowledgeService, ingestPublisher service.IPublisherService) IKnowledgeController {
	return &knowledgeController{
		knowledgeService: knowledgeService,
		ingestPublisher:  ingestPublisher,
	}
}

func (c *knowledgeController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/knowledge/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Get("search", c.Search)
	h.Post("", c.Ingest)
	h.Post(":id/reembed", c.Reembed)
	h.Get("", c.List)
	h.Delete(":id", c.Delete)
}

func (c *knowledgeController) Ingest(ctx *fiber.Ctx) error {
	userId, err := serverutils.CallerID(ctx)
	if err != nil {
		return err
	}

	var req dto.IngestResourceRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.knowledgeService.Ingest(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success ingest resource", res))
}

// Reembed queues the resource for asynchronous re-chunking and
// re-embedding by the background consumer.
func (c *knowledgeController) Reembed(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid resource id")
	}

	payload, err := json.Marshal(dto.PublishIngestResourceMessage{ResourceId: id})
	if err != nil {
		return err
	}
	if err := c.ingestPublisher.Publish(ctx.Context(), payload); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Resource queued for re-embedding", nil))
}

func (c *knowledgeController) List(ctx *fiber.Ctx) error {
	res, err := c.knowledgeService.AllResources(ctx.Context())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list resources", res))
}

func (c *knowledgeController) Search(ctx *fiber.Ctx) error {
	query := ctx.Query("q")
	if query == "" {
		return fiber.NewError(fiber.StatusBadRequest, "query parameter 'q' is required")
	}

	k := ctx.QueryInt("k", 0)
	minSimilarity := ctx.QueryFloat("min_similarity", 0)

	res, err := c.knowledgeService.FindRelevant(ctx.Context(), query, k, minSimilarity)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success search knowledge", res))
}

func (c *knowledgeController) Delete(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid resource id")
	}

	if err := c.knowledgeService.DeleteResource(ctx.Context(), id); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success delete resource", nil))
}
