package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/inkriver/novel_go_server/internal/api/middleware"
	"github.com/inkriver/novel_go_server/internal/model/dto"
	"github.com/inkriver/novel_go_server/internal/pkg/response"
	"github.com/inkriver/novel_go_server/internal/service"
)

type CommentHandler struct {
	commentService *service.CommentService
}

func NewCommentHandler(commentService *service.CommentService) *CommentHandler {
	return &CommentHandler{
		commentService: commentService,
	}
}

// List 获取评论列表
// GET /api/v1/books/:id/comments?chapter_id=&paragraph=&page=&page_size=
// chapter_id 和 paragraph 共同决定作用域：都不传是书评，只传 chapter_id 是章评，
// 两个都传是段评。三元组精确匹配，互不包含。
func (h *CommentHandler) List(c *gin.Context) {
	bookID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的作品ID")
		return
	}

	var chapterID *int64
	if raw := c.Query("chapter_id"); raw != "" {
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			response.ParamError(c, "无效的章节ID")
			return
		}
		chapterID = &v
	}

	var paragraph *int
	if raw := c.Query("paragraph"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			response.ParamError(c, "无效的段落序号")
			return
		}
		paragraph = &v
	}

	if paragraph != nil && chapterID == nil {
		response.ParamError(c, service.ErrAnchorWithoutChapter.Error())
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	items, total, err := h.commentService.List(bookID, chapterID, paragraph, page, pageSize)
	if err != nil {
		switch err {
		case service.ErrBookNotFound:
			response.NotFoundError(c, err.Error())
		case service.ErrBookNotPublished:
			response.NotFoundError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.SuccessPage(c, total, page, pageSize, items)
}

// Create 发表评论
// POST /api/v1/books/:id/comments
func (h *CommentHandler) Create(c *gin.Context) {
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

	var req dto.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	comment, err := h.commentService.Create(userID, bookID, &req)
	if err != nil {
		switch err {
		case service.ErrBookNotFound:
			response.NotFoundError(c, err.Error())
		case service.ErrBookNotPublished:
			response.PermissionError(c, err.Error())
		case service.ErrChapterNotFound:
			response.NotFoundError(c, err.Error())
		case service.ErrChapterNotInBook:
			response.ParamError(c, err.Error())
		case service.ErrParentNotFound:
			response.NotFoundError(c, err.Error())
		case service.ErrParentNotInBook:
			response.ParamError(c, err.Error())
		case service.ErrEmptyContent, service.ErrAnchorWithoutChapter, service.ErrParagraphOutOfRange:
			response.ParamError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.SuccessWithMessage(c, "评论成功", comment)
}

// ListReplies 获取某条评论的回复
// GET /api/v1/comments/:id/replies
// 根评论已删除时依旧可查，孤儿回复保留。
func (h *CommentHandler) ListReplies(c *gin.Context) {
	commentID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的评论ID")
		return
	}

	items, err := h.commentService.ListReplies(commentID)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.Success(c, items)
}

// Delete 删除评论
// DELETE /api/v1/comments/:id
func (h *CommentHandler) Delete(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	commentID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的评论ID")
		return
	}

	if err := h.commentService.Delete(userID, commentID); err != nil {
		switch err {
		case service.ErrCommentNotFound:
			response.NotFoundError(c, err.Error())
		case service.ErrCommentPermission:
			response.PermissionError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.SuccessWithMessage(c, "删除成功", nil)
}

// Report 举报评论
// POST /api/v1/comments/:id/report
func (h *CommentHandler) Report(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	commentID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的评论ID")
		return
	}

	var req dto.ReportCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	if err := h.commentService.Report(userID, commentID, req.Reason); err != nil {
		switch err {
		case service.ErrCommentNotFound:
			response.NotFoundError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.SuccessWithMessage(c, "举报成功", nil)
}
