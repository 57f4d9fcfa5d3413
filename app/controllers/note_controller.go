package controllers

import (
	"errors"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/inkpost/inkpost/app/models"
	"github.com/inkpost/inkpost/app/repository"
	"github.com/inkpost/inkpost/internal/pkg/usercontext"
)

const noteListPageSize = 20
const noteSearchLimit = 50

// HandleNoteList returns recent published notes.
func HandleNoteList(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}

	repo := repository.GetGlobalFactory().GetNoteRepository()
	notes, err := repo.ListPublished((page-1)*noteListPageSize, noteListPageSize)
	if err != nil {
		log.Printf("note list failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error"})
	}
	return c.JSON(fiber.Map{"notes": notes, "page": page})
}

// HandleNoteShow returns a note by its public token and bumps the view
// counter. Unpublished notes are only visible to their author.
func HandleNoteShow(c *fiber.Ctx) error {
	token := strings.TrimSpace(c.Params("token"))
	repo := repository.GetGlobalFactory().GetNoteRepository()

	note, err := repo.GetByToken(token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found"})
		}
		log.Printf("note lookup failed for token %s: %v", token, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error"})
	}

	if !note.IsPublished {
		userCtx := usercontext.GetUserContext(c)
		if !userCtx.IsLoggedIn || userCtx.UserID != note.UserID {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found"})
		}
	}

	if err := repo.UpdateViewCount(note.ID); err != nil {
		log.Printf("failed to bump view count for note %d: %v", note.ID, err)
	}
	return c.JSON(note)
}

// HandleNoteSearch finds published notes by term.
func HandleNoteSearch(c *fiber.Ctx) error {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing_query"})
	}

	notes, err := repository.GetGlobalFactory().GetNoteRepository().Search(query, noteSearchLimit)
	if err != nil {
		log.Printf("note search failed for %q: %v", query, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error"})
	}
	return c.JSON(fiber.Map{"notes": notes, "query": query})
}

// HandleNoteExport returns all of the caller's notes, private ones
// included. Pro-gated in the router.
func HandleNoteExport(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	repo := repository.GetGlobalFactory().GetNoteRepository()
	count, err := repo.CountByUserID(userCtx.UserID)
	if err != nil {
		log.Printf("note export count failed for user %d: %v", userCtx.UserID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error"})
	}
	notes, err := repo.GetByUserID(userCtx.UserID, 0, int(count))
	if err != nil {
		log.Printf("note export failed for user %d: %v", userCtx.UserID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error"})
	}
	return c.JSON(fiber.Map{"notes": notes, "count": count})
}

type createNoteRequest struct {
	Title       string `json:"title"`
	Body        string `json:"body"`
	IsPublished *bool  `json:"is_published"`
}

// HandleNoteCreate creates a note for the authenticated user. Private
// (unpublished) notes are a Pro feature.
func HandleNoteCreate(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	if !userCtx.IsLoggedIn {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}

	var req createNoteRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid_payload"})
	}

	published := true
	if req.IsPublished != nil {
		published = *req.IsPublished
	}
	if !published && !userCtx.IsPro {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "pro_required", "message": "Private notes require a Pro subscription"})
	}

	note := &models.Note{
		UserID:      userCtx.UserID,
		Title:       strings.TrimSpace(req.Title),
		Body:        req.Body,
		IsPublished: published,
	}
	if err := note.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "validation_failed"})
	}

	if err := repository.GetGlobalFactory().GetNoteRepository().Create(note); err != nil {
		log.Printf("note create failed for user %d: %v", userCtx.UserID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error"})
	}
	return c.Status(fiber.StatusCreated).JSON(note)
}
