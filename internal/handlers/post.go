package handlers

import (
	"net/http"
	"strconv"
	"time"
	"updoot/internal/middleware"
	"updoot/internal/services"

	"github.com/gin-gonic/gin"
)

type PostHandler struct {
	posts *services.PostService
}

func NewPostHandler(posts *services.PostService) *PostHandler {
	return &PostHandler{posts: posts}
}

// viewerID 当前登录用户 ID，未登录为 0
func viewerID(c *gin.Context) uint {
	if user := middleware.CurrentUser(c); user != nil {
		return user.ID
	}
	return 0
}

// parsePostID 解析路径里的帖子 ID，格式非法直接 400，
// 和"帖子不存在"的 404 区分开
func parsePostID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid post id"})
		return 0, false
	}
	return uint(id), true
}

// List 游标分页的帖子列表
// GET /api/posts?limit=20&cursor=2026-01-02T15:04:05.999999999Z
func (h *PostHandler) List(c *gin.Context) {
	// limit 解析失败时保持默认值，不让垃圾输入把页缩成 1
	limit := 20
	if l := c.Query("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil {
			limit = n
		}
	}

	var cursor *time.Time
	if raw := c.Query("cursor"); raw != "" {
		t, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid cursor"})
			return
		}
		cursor = &t
	}

	page, err := h.posts.List(limit, cursor, viewerID(c))
	if err != nil {
		Fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"posts": page.Posts, "has_more": page.HasMore})
}

func (h *PostHandler) Detail(c *gin.Context) {
	id, ok := parsePostID(c)
	if !ok {
		return
	}

	post, err := h.posts.Get(id, viewerID(c))
	if err != nil {
		Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"post": post})
}

type postRequest struct {
	Title string `json:"title"`
	Text  string `json:"text"`
}

func (h *PostHandler) Create(c *gin.Context) {
	var req postRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if req.Title == "" {
		FieldErrors(c, []services.FieldError{{Field: "title", Message: "Title cannot be empty"}})
		return
	}

	user := middleware.CurrentUser(c)
	post, err := h.posts.Create(user.ID, req.Title, req.Text)
	if err != nil {
		Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"post": post})
}

func (h *PostHandler) Update(c *gin.Context) {
	id, ok := parsePostID(c)
	if !ok {
		return
	}

	var req postRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if req.Title == "" {
		FieldErrors(c, []services.FieldError{{Field: "title", Message: "Title cannot be empty"}})
		return
	}

	user := middleware.CurrentUser(c)
	post, err := h.posts.Update(user.ID, id, req.Title, req.Text)
	if err != nil {
		Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"post": post})
}

func (h *PostHandler) Delete(c *gin.Context) {
	id, ok := parsePostID(c)
	if !ok {
		return
	}

	user := middleware.CurrentUser(c)
	if err := h.posts.Delete(user.ID, id); err != nil {
		Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
