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

const commentPageSize = 50

// HandleCommentList returns visible comments for a note.
func HandleCommentList(c *fiber.Ctx) error {
	note, err := findNoteByTokenParam(c)
	if err != nil {
		return nil
	}

	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	comments, listErr := repository.GetGlobalFactory().GetCommentRepository().
		ListByNote(note.ID, (page-1)*commentPageSize, commentPageSize)
	if listErr != nil {
		log.Printf("comment list failed for note %d: %v", note.ID, listErr)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error"})
	}
	return c.JSON(fiber.Map{"comments": comments, "page": page})
}

type createCommentRequest struct {
	Content string `json:"content"`
}

// HandleCommentCreate adds a comment to a note for the authenticated user.
func HandleCommentCreate(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	if !userCtx.IsLoggedIn {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}

	note, err := findNoteByTokenParam(c)
	if err != nil {
		return nil
	}

	var req createCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid_payload"})
	}
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "validation_failed"})
	}

	comment := &models.Comment{
		UserID:  userCtx.UserID,
		NoteID:  note.ID,
		Content: content,
	}
	if err := repository.GetGlobalFactory().GetCommentRepository().Create(comment); err != nil {
		log.Printf("comment create failed for note %d: %v", note.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error"})
	}
	return c.Status(fiber.StatusCreated).JSON(comment)
}

// HandleCommentHide hides a comment. Allowed for the comment author, the
// note author, and admins.
func HandleCommentHide(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	if !userCtx.IsLoggedIn {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}

	commentID, err := c.ParamsInt("id")
	if err != nil || commentID < 1 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid_payload"})
	}

	repos := repository.GetGlobalFactory()
	comment, err := repos.GetCommentRepository().GetByID(uint(commentID))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found"})
		}
		log.Printf("comment lookup failed for %d: %v", commentID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error"})
	}

	allowed := userCtx.IsAdmin || comment.UserID == userCtx.UserID
	if !allowed {
		note, noteErr := repos.GetNoteRepository().GetByID(comment.NoteID)
		allowed = noteErr == nil && note.UserID == userCtx.UserID
	}
	if !allowed {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "forbidden"})
	}

	if err := repos.GetCommentRepository().Hide(comment.ID); err != nil {
		log.Printf("comment hide failed for %d: %v", comment.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error"})
	}
	return c.JSON(fiber.Map{"ok": true})
}

// errNoteResponseHandled signals the helper already wrote the response.
var errNoteResponseHandled = errors.New("note response handled")

func findNoteByTokenParam(c *fiber.Ctx) (*models.Note, error) {
	token := strings.TrimSpace(c.Params("token"))
	note, err := repository.GetGlobalFactory().GetNoteRepository().GetByToken(token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			_ = c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found"})
			return nil, errNoteResponseHandled
		}
		log.Printf("note lookup failed for token %s: %v", token, err)
		_ = c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error"})
		return nil, errNoteResponseHandled
	}
	return note, nil
}
