package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/inkriver/novel_go_server/internal/api/middleware"
	"github.com/inkriver/novel_go_server/internal/model/dto"
	"github.com/inkriver/novel_go_server/internal/pkg/response"
	"github.com/inkriver/novel_go_server/internal/service"
)

type BookHandler struct {
	bookService *service.BookService
}

func NewBookHandler(bookService *service.BookService) *BookHandler {
	return &BookHandler{
		bookService: bookService,
	}
}

// Create 创建作品
// POST /api/v1/books
func (h *BookHandler) Create(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	var req dto.CreateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	book, err := h.bookService.CreateBook(userID, &req)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.SuccessWithMessage(c, "创建成功", book)
}

// Get 获取作品详情
// GET /api/v1/books/:id
func (h *BookHandler) Get(c *gin.Context) {
	bookID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的作品ID")
		return
	}

	book, err := h.bookService.GetBook(bookID)
	if err != nil {
		switch err {
		case service.ErrBookNotFound:
			response.NotFoundError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.Success(c, book)
}

// List 获取作品列表
// GET /api/v1/books
func (h *BookHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	items, total, err := h.bookService.ListBooks(page, pageSize)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.SuccessPage(c, total, page, pageSize, items)
}

// CreateChapter 创建章节（草稿）
// POST /api/v1/books/:id/chapters
func (h *BookHandler) CreateChapter(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	bookID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的作品ID")
		return
	}

	var req dto.CreateChapterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	chapter, err := h.bookService.CreateChapter(userID, bookID, &req)
	if err != nil {
		switch err {
		case service.ErrBookNotFound:
			response.NotFoundError(c, err.Error())
		case service.ErrBookPermission:
			response.PermissionError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.SuccessWithMessage(c, "创建成功", chapter)
}

// PublishChapter 发布章节，触发更新通知和邮件推送
// POST /api/v1/chapters/:id/publish
func (h *BookHandler) PublishChapter(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	chapterID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的章节ID")
		return
	}

	chapter, err := h.bookService.PublishChapter(userID, chapterID)
	if err != nil {
		switch err {
		case service.ErrChapterNotFound:
			response.NotFoundError(c, err.Error())
		case service.ErrBookPermission:
			response.PermissionError(c, err.Error())
		case service.ErrChapterPublished:
			response.DuplicateError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.SuccessWithMessage(c, "发布成功", chapter)
}

// ListChapters 获取章节列表，草稿只对作者可见
// GET /api/v1/books/:id/chapters
func (h *BookHandler) ListChapters(c *gin.Context) {
	bookID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的作品ID")
		return
	}

	var userID *int64
	if id, ok := middleware.GetUserID(c); ok {
		userID = &id
	}

	items, err := h.bookService.ListChapters(bookID, userID)
	if err != nil {
		switch err {
		case service.ErrBookNotFound:
			response.NotFoundError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.Success(c, items)
}

// GetChapter 获取章节正文，按空行切分为段落
// GET /api/v1/chapters/:id
func (h *BookHandler) GetChapter(c *gin.Context) {
	chapterID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的章节ID")
		return
	}

	var userID *int64
	if id, ok := middleware.GetUserID(c); ok {
		userID = &id
	}

	chapter, err := h.bookService.GetChapter(chapterID, userID)
	if err != nil {
		switch err {
		case service.ErrChapterNotFound:
			response.NotFoundError(c, err.Error())
		case service.ErrChapterNotPublished:
			response.NotFoundError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.Success(c, chapter)
}
