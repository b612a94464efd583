package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"library_catalog/internal/models"
	"library_catalog/internal/service"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation"
)

// bookRequest is the write payload for create and update. Length bounds and
// character allowlists are enforced in the SPA; the server requires the
// fields to be present and non-empty.
type bookRequest struct {
	Title       string `json:"title"`
	Author      string `json:"author"`
	Description string `json:"description"`
	Version     int64  `json:"version"`
}

func (r bookRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required),
		validation.Field(&r.Author, validation.Required),
		validation.Field(&r.Description, validation.Required),
	)
}

func bookIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid book id"})
		return 0, false
	}
	return id, true
}

// @Summary      List all books
// @Tags         books
// @Produce      json
// @Success      200  {array}   models.Book
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/Books [get]
// @Security     BearerAuth
func (h *Handler) listBooks(c *gin.Context) {
	books, err := h.services.List(c.Request.Context())
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, genericErrorMsg,
			"books_list_failed", err)
		return
	}
	c.JSON(http.StatusOK, books)
}

// @Summary      Get a book by id
// @Tags         books
// @Produce      json
// @Param        id  path  int  true  "Book id"
// @Success      200  {object}  models.Book
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/Books/{id} [get]
// @Security     BearerAuth
func (h *Handler) getBook(c *gin.Context) {
	id, ok := bookIDParam(c)
	if !ok {
		return
	}
	book, err := h.services.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrBookNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "book not found"})
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, genericErrorMsg,
			"books_get_failed", err, "id", id)
		return
	}
	c.JSON(http.StatusOK, book)
}

// @Summary      Create a book
// @Tags         books
// @Accept       json
// @Produce      json
// @Param        body  body  bookRequest  true  "Book fields"
// @Success      201  {object}  models.Book
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/Books [post]
// @Security     BearerAuth
func (h *Handler) createBook(c *gin.Context) {
	var input bookRequest
	if ok := h.bindJSONOrBadRequest(c, &input); !ok {
		return
	}
	if err := input.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	book, err := h.services.Create(c.Request.Context(), models.Book{
		Title:       input.Title,
		Author:      input.Author,
		Description: input.Description,
	})
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, genericErrorMsg,
			"books_create_failed", err)
		return
	}

	c.Header("Location", fmt.Sprintf("/api/Books/%d", book.ID))
	c.JSON(http.StatusCreated, book)
}

// @Summary      Update a book
// @Description  The payload must echo the version it read; a stale version is a conflict.
// @Tags         books
// @Accept       json
// @Param        id    path  int          true  "Book id"
// @Param        body  body  bookRequest  true  "Book fields + version"
// @Success      204
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/Books/{id} [put]
// @Security     BearerAuth
func (h *Handler) updateBook(c *gin.Context) {
	id, ok := bookIDParam(c)
	if !ok {
		return
	}
	var input bookRequest
	if ok := h.bindJSONOrBadRequest(c, &input); !ok {
		return
	}
	if err := input.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.services.Update(c.Request.Context(), models.Book{
		ID:          id,
		Title:       input.Title,
		Author:      input.Author,
		Description: input.Description,
		Version:     input.Version,
	})
	switch {
	case errors.Is(err, service.ErrBookNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "book not found"})
	case errors.Is(err, service.ErrEditConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "update could not be done due to a concurrency conflict"})
	case err != nil:
		h.logAndJSONError(c, http.StatusInternalServerError, genericErrorMsg,
			"books_update_failed", err, "id", id)
	default:
		c.Status(http.StatusNoContent)
	}
}

// @Summary      Delete a book
// @Tags         books
// @Param        id  path  int  true  "Book id"
// @Success      204
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/Books/{id} [delete]
// @Security     BearerAuth
func (h *Handler) deleteBook(c *gin.Context) {
	id, ok := bookIDParam(c)
	if !ok {
		return
	}
	err := h.services.Delete(c.Request.Context(), id)
	switch {
	case errors.Is(err, service.ErrBookNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "book not found"})
	case err != nil:
		h.logAndJSONError(c, http.StatusInternalServerError, genericErrorMsg,
			"books_delete_failed", err, "id", id)
	default:
		c.Status(http.StatusNoContent)
	}
}
