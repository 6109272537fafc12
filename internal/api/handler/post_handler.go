package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/haikudo/backend/internal/core/ports"
)

// PostHandler handles HTTP requests for post operations.
type PostHandler struct {
	service ports.PostService
}

func NewPostHandler(service ports.PostService) *PostHandler {
	return &PostHandler{service: service}
}

// Create handles POST /api/v1/posts.
//
// @Summary      Create a post
// @Tags         posts
// @Accept       json
// @Produce      json
// @Param        body  body      createPostRequest  true  "Post details"
// @Success      201   {object}  postResponse
// @Failure      400   {object}  errorResponse  "invalid payload or unknown author"
// @Failure      503   {object}  errorResponse
// @Router       /api/v1/posts [post]
func (h *PostHandler) Create(c echo.Context) error {
	var req createPostRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	post, err := h.service.Create(c.Request().Context(), ports.CreatePostInput{
		Title:       req.Title,
		Body:        req.Body,
		IsPublished: req.IsPublished,
		// Already checked by the uuid validation tag.
		AuthorID: uuid.MustParse(req.AuthorID),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toPostResponse(post))
}

// List handles GET /api/v1/posts.
//
// @Summary      List posts
// @Tags         posts
// @Produce      json
// @Param        page       query     int     false  "Page number (default 1)"
// @Param        limit      query     int     false  "Page size (default 20, max 100)"
// @Param        author_id  query     string  false  "Only posts by this user"
// @Param        published  query     bool    false  "Filter on the published flag (default true)"
// @Success      200        {object}  postListResponse
// @Failure      400        {object}  errorResponse
// @Router       /api/v1/posts [get]
func (h *PostHandler) List(c echo.Context) error {
	q := newQueryParams(c)
	in := ports.ListPostsInput{
		PageRequest: q.page(),
		AuthorID:    q.optionalUUID("author_id"),
		Published:   q.optionalBool("published"),
	}
	if err := q.err(); err != nil {
		return err
	}
	// Drafts are only listed when asked for.
	if in.Published == nil {
		published := true
		in.Published = &published
	}

	page, err := h.service.List(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toListResponse(page, toPostResponse))
}

// ListByUser handles GET /api/v1/posts/user/:user_id.
//
// @Summary      List the published posts of one user
// @Tags         posts
// @Produce      json
// @Param        user_id  path      string  true   "User ID (UUID)"
// @Param        page     query     int     false  "Page number (default 1)"
// @Param        limit    query     int     false  "Page size (default 20, max 100)"
// @Success      200      {object}  postListResponse
// @Failure      400      {object}  errorResponse
// @Failure      404      {object}  errorResponse  "unknown user"
// @Router       /api/v1/posts/user/{user_id} [get]
func (h *PostHandler) ListByUser(c echo.Context) error {
	userID, err := pathID(c, "user_id")
	if err != nil {
		return err
	}
	q := newQueryParams(c)
	req := q.page()
	if err := q.err(); err != nil {
		return err
	}

	page, err := h.service.ListByAuthor(c.Request().Context(), userID, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toListResponse(page, toPostResponse))
}

// Get handles GET /api/v1/posts/:id.
//
// @Summary      Get a post
// @Tags         posts
// @Produce      json
// @Param        id   path      string  true  "Post ID (UUID)"
// @Success      200  {object}  postResponse
// @Failure      400  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/v1/posts/{id} [get]
func (h *PostHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	post, err := h.service.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toPostResponse(post))
}

// Update handles PUT /api/v1/posts/:id.
//
// @Summary      Update a post
// @Tags         posts
// @Accept       json
// @Produce      json
// @Param        id    path      string             true  "Post ID (UUID)"
// @Param        body  body      updatePostRequest  true  "Fields to change"
// @Success      200   {object}  postResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/v1/posts/{id} [put]
func (h *PostHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req updatePostRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	post, err := h.service.Update(c.Request().Context(), id, ports.UpdatePostInput{
		Title:       req.Title,
		Body:        req.Body,
		IsPublished: req.IsPublished,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toPostResponse(post))
}

// Delete handles DELETE /api/v1/posts/:id.
//
// @Summary      Delete a post
// @Tags         posts
// @Param        id   path  string  true  "Post ID (UUID)"
// @Success      204
// @Failure      400  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/v1/posts/{id} [delete]
func (h *PostHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
