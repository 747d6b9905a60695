package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/inkriver/novel_go_server/internal/api/middleware"
	"github.com/inkriver/novel_go_server/internal/model/dto"
	"github.com/inkriver/novel_go_server/internal/pkg/response"
	"github.com/inkriver/novel_go_server/internal/service"
)

type BoardHandler struct {
	boardService *service.BoardService
}

func NewBoardHandler(boardService *service.BoardService) *BoardHandler {
	return &BoardHandler{
		boardService: boardService,
	}
}

// Create 发布讨论贴
// POST /api/v1/boards
func (h *BoardHandler) Create(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	var req dto.CreateBoardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	board, err := h.boardService.CreateBoard(userID, &req)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.SuccessWithMessage(c, "发布成功", board)
}

// Get 获取讨论贴详情
// GET /api/v1/boards/:id
func (h *BoardHandler) Get(c *gin.Context) {
	boardID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的讨论贴ID")
		return
	}

	board, err := h.boardService.GetBoard(boardID)
	if err != nil {
		switch err {
		case service.ErrBoardNotFound:
			response.NotFoundError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.Success(c, board)
}

// List 获取讨论贴列表
// GET /api/v1/boards
func (h *BoardHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	items, total, err := h.boardService.ListBoards(page, pageSize)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.SuccessPage(c, total, page, pageSize, items)
}

// CreateComment 发表讨论贴评论
// POST /api/v1/boards/:id/comments
func (h *BoardHandler) CreateComment(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	boardID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的讨论贴ID")
		return
	}

	var req dto.CreateBoardCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	comment, err := h.boardService.CreateComment(userID, boardID, &req)
	if err != nil {
		switch err {
		case service.ErrBoardNotFound:
			response.NotFoundError(c, err.Error())
		case service.ErrBoardParentNotFound:
			response.NotFoundError(c, err.Error())
		case service.ErrBoardParentNotInBoard:
			response.ParamError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.SuccessWithMessage(c, "评论成功", comment)
}

// ListComments 获取讨论贴评论列表
// GET /api/v1/boards/:id/comments
func (h *BoardHandler) ListComments(c *gin.Context) {
	boardID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的讨论贴ID")
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

	items, total, err := h.boardService.ListComments(boardID, page, pageSize)
	if err != nil {
		switch err {
		case service.ErrBoardNotFound:
			response.NotFoundError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.SuccessPage(c, total, page, pageSize, items)
}

// DeleteComment 删除讨论贴评论
// DELETE /api/v1/board_comments/:id
func (h *BoardHandler) DeleteComment(c *gin.Context) {
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

	if err := h.boardService.DeleteComment(userID, commentID); err != nil {
		switch err {
		case service.ErrBoardCommentNotFound:
			response.NotFoundError(c, err.Error())
		case service.ErrBoardCommentPermission:
			response.PermissionError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.SuccessWithMessage(c, "删除成功", nil)
}

// ReportComment 举报讨论贴评论
// POST /api/v1/board_comments/:id/report
func (h *BoardHandler) ReportComment(c *gin.Context) {
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

	if err := h.boardService.ReportComment(userID, commentID, req.Reason); err != nil {
		switch err {
		case service.ErrBoardCommentNotFound:
			response.NotFoundError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.SuccessWithMessage(c, "举报成功", nil)
}
