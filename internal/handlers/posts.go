package handlers

import (
	"errors"
	"net/http"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/balmandal/community-api/internal/auth"
	"github.com/balmandal/community-api/internal/logging"
	authmw "github.com/balmandal/community-api/internal/middleware/auth"
	"github.com/balmandal/community-api/internal/models"
	"github.com/balmandal/community-api/internal/service"
	"github.com/balmandal/community-api/internal/service/search"
	"github.com/balmandal/community-api/internal/store"
	"github.com/balmandal/community-api/internal/util"
)

type PostHandler struct {
	Posts    *store.PostStore
	Activity *service.ActivityRecorder
	// ES is optional; when set, created posts are indexed for search.
	ES *elasticsearch.Client
}

// canManagePost reports whether the caller may edit or delete a post or
// comment: the author, or anyone passing the moderation gate.
func canManagePost(author, userID, role string) bool {
	return author == userID || auth.Role(role).In(auth.ModeratorRoles)
}

// List handles GET /api/v1/posts (public feed, approved only).
func (h *PostHandler) List(c echo.Context) error {
	ctx := c.Request().Context()

	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("limit"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	posts, total, err := h.Posts.List(ctx, true, offset, limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
	}
	return c.JSON(http.StatusOK, echo.Map{
		"posts": posts,
		"meta":  pageMeta(page, limit, offset, total),
	})
}

// ListAll handles GET /api/v1/posts/all (moderator view incl. unapproved).
func (h *PostHandler) ListAll(c echo.Context) error {
	ctx := c.Request().Context()

	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("limit"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	posts, total, err := h.Posts.List(ctx, false, offset, limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
	}
	return c.JSON(http.StatusOK, echo.Map{
		"posts": posts,
		"meta":  pageMeta(page, limit, offset, total),
	})
}

// Create handles POST /api/v1/posts (member).
func (h *PostHandler) Create(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "post_create")

	var req struct {
		Content string `json:"content"`
		Image   string `json:"image"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.Content == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "content is required")
	}

	post := models.Post{
		Content:    req.Content,
		Image:      req.Image,
		Author:     authmw.UserID(c),
		IsApproved: true,
	}
	if err := h.Posts.Insert(ctx, &post); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
	}

	if h.ES != nil {
		if err := search.IndexPost(ctx, h.ES, &post); err != nil {
			l.Error("post index failed", "post", post.ID.Hex(), "error", err)
		}
	}

	h.Activity.Record(ctx, "post_created", post.Author, "Post", post.ID.Hex(), nil)

	return c.JSON(http.StatusCreated, post)
}

// Get handles GET /api/v1/posts/:id (public).
func (h *PostHandler) Get(c echo.Context) error {
	post, err := h.Posts.FindByID(c.Request().Context(), c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "Post not found")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
	}
	return c.JSON(http.StatusOK, post)
}

// Update handles PUT /api/v1/posts/:id. Only the author or a moderator may
// edit.
func (h *PostHandler) Update(c echo.Context) error {
	ctx := c.Request().Context()

	var req struct {
		Content string `json:"content"`
		Image   string `json:"image"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	post, err := h.Posts.FindByID(ctx, c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "Post not found")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
	}
	if !canManagePost(post.Author, authmw.UserID(c), authmw.Role(c)) {
		return echo.NewHTTPError(http.StatusForbidden, "Not authorized")
	}

	set := bson.M{}
	if req.Content != "" {
		set["content"] = req.Content
	}
	if req.Image != "" {
		set["image"] = req.Image
	}
	if len(set) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "nothing to update")
	}

	updated, err := h.Posts.Update(ctx, c.Param("id"), set)
	if errors.Is(err, store.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "Post not found")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
	}

	h.Activity.Record(ctx, "post_updated", authmw.UserID(c), "Post", updated.ID.Hex(), nil)

	return c.JSON(http.StatusOK, echo.Map{
		"message": "Post updated successfully",
		"post":    updated,
	})
}

// Like handles POST /api/v1/posts/:id/like (member). Toggles.
func (h *PostHandler) Like(c echo.Context) error {
	post, err := h.Posts.ToggleLike(c.Request().Context(), c.Param("id"), authmw.UserID(c))
	if errors.Is(err, store.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "Post not found")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
	}
	return c.JSON(http.StatusOK, post)
}

// Comment handles POST /api/v1/posts/:id/comments (member).
func (h *PostHandler) Comment(c echo.Context) error {
	var req struct {
		Content string `json:"content"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.Content == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "content is required")
	}

	post, err := h.Posts.AddComment(c.Request().Context(), c.Param("id"), models.Comment{
		Author:  authmw.UserID(c),
		Content: req.Content,
	})
	if errors.Is(err, store.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "Post not found")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
	}
	return c.JSON(http.StatusCreated, post)
}

// Approve handles PUT /api/v1/posts/:id/approve (moderation gate).
func (h *PostHandler) Approve(c echo.Context) error {
	ctx := c.Request().Context()

	var req struct {
		Approved *bool `json:"approved"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	approved := true
	if req.Approved != nil {
		approved = *req.Approved
	}

	post, err := h.Posts.SetApproved(ctx, c.Param("id"), approved)
	if errors.Is(err, store.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "Post not found")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
	}

	h.Activity.Record(ctx, "post_moderated", authmw.UserID(c), "Post", post.ID.Hex(), map[string]any{
		"approved": approved,
	})

	return c.JSON(http.StatusOK, post)
}

// Delete handles DELETE /api/v1/posts/:id. Only the author or a moderator
// may delete.
func (h *PostHandler) Delete(c echo.Context) error {
	ctx := c.Request().Context()

	post, err := h.Posts.FindByID(ctx, c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "Post not found")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
	}
	if !canManagePost(post.Author, authmw.UserID(c), authmw.Role(c)) {
		return echo.NewHTTPError(http.StatusForbidden, "Not authorized")
	}

	err = h.Posts.Delete(ctx, c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "Post not found")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
	}

	h.Activity.Record(ctx, "post_deleted", authmw.UserID(c), "Post", c.Param("id"), nil)

	return c.JSON(http.StatusOK, echo.Map{"message": "Post deleted successfully"})
}

// DeleteComment handles DELETE /api/v1/posts/:id/comments/:commentId. Only
// the comment's author or a moderator may remove it.
func (h *PostHandler) DeleteComment(c echo.Context) error {
	ctx := c.Request().Context()

	post, err := h.Posts.FindByID(ctx, c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "Post not found")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
	}

	var author string
	found := false
	for _, cm := range post.Comments {
		if cm.ID.Hex() == c.Param("commentId") {
			author = cm.Author
			found = true
			break
		}
	}
	if !found {
		return echo.NewHTTPError(http.StatusNotFound, "Comment not found")
	}
	if !canManagePost(author, authmw.UserID(c), authmw.Role(c)) {
		return echo.NewHTTPError(http.StatusForbidden, "Not authorized")
	}

	updated, err := h.Posts.RemoveComment(ctx, c.Param("id"), c.Param("commentId"))
	if errors.Is(err, store.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "Comment not found")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message": "Comment deleted successfully",
		"post":    updated,
	})
}
