package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/inkriver/novel_go_server/internal/api/middleware"
	"github.com/inkriver/novel_go_server/internal/pkg/response"
	"github.com/inkriver/novel_go_server/internal/service"
)

type InteractionHandler struct {
	interactionService *service.InteractionService
}

func NewInteractionHandler(interactionService *service.InteractionService) *InteractionHandler {
	return &InteractionHandler{
		interactionService: interactionService,
	}
}

// 点赞/关注接口参数和错误处理高度一致，统一走这两个包装

func (h *InteractionHandler) handleAction(c *gin.Context, action func(userID, targetID int64) error, idName, okMsg string) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	targetID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的"+idName)
		return
	}

	if err := action(userID, targetID); err != nil {
		switch err {
		case service.ErrBookNotFound, service.ErrChapterNotFound,
			service.ErrBoardNotFound, service.ErrUserNotFound:
			response.NotFoundError(c, err.Error())
		case service.ErrBookNotPublished:
			response.PermissionError(c, err.Error())
		case service.ErrAlreadyVoted, service.ErrAlreadyFollowing:
			response.DuplicateError(c, err.Error())
		case service.ErrNotVoted, service.ErrNotFollowing:
			response.ParamError(c, err.Error())
		case service.ErrCannotFollowSelf:
			response.ParamError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.SuccessWithMessage(c, okMsg, nil)
}

// VoteBook 点赞作品
// POST /api/v1/books/:id/vote
func (h *InteractionHandler) VoteBook(c *gin.Context) {
	h.handleAction(c, h.interactionService.VoteBook, "作品ID", "点赞成功")
}

// UnvoteBook 取消点赞作品
// DELETE /api/v1/books/:id/vote
func (h *InteractionHandler) UnvoteBook(c *gin.Context) {
	h.handleAction(c, h.interactionService.UnvoteBook, "作品ID", "已取消点赞")
}

// VoteChapter 点赞章节
// POST /api/v1/chapters/:id/vote
func (h *InteractionHandler) VoteChapter(c *gin.Context) {
	h.handleAction(c, h.interactionService.VoteChapter, "章节ID", "点赞成功")
}

// UnvoteChapter 取消点赞章节
// DELETE /api/v1/chapters/:id/vote
func (h *InteractionHandler) UnvoteChapter(c *gin.Context) {
	h.handleAction(c, h.interactionService.UnvoteChapter, "章节ID", "已取消点赞")
}

// VoteBoard 点赞讨论贴
// POST /api/v1/boards/:id/vote
func (h *InteractionHandler) VoteBoard(c *gin.Context) {
	h.handleAction(c, h.interactionService.VoteBoard, "讨论贴ID", "点赞成功")
}

// UnvoteBoard 取消点赞讨论贴
// DELETE /api/v1/boards/:id/vote
func (h *InteractionHandler) UnvoteBoard(c *gin.Context) {
	h.handleAction(c, h.interactionService.UnvoteBoard, "讨论贴ID", "已取消点赞")
}

// FollowAuthor 关注作者
// POST /api/v1/users/:id/follow
func (h *InteractionHandler) FollowAuthor(c *gin.Context) {
	h.handleAction(c, h.interactionService.FollowAuthor, "用户ID", "关注成功")
}

// UnfollowAuthor 取消关注作者
// DELETE /api/v1/users/:id/follow
func (h *InteractionHandler) UnfollowAuthor(c *gin.Context) {
	h.handleAction(c, h.interactionService.UnfollowAuthor, "用户ID", "已取消关注")
}

// FollowBook 追更作品
// POST /api/v1/books/:id/follow
func (h *InteractionHandler) FollowBook(c *gin.Context) {
	h.handleAction(c, h.interactionService.FollowBook, "作品ID", "追更成功")
}

// UnfollowBook 取消追更作品
// DELETE /api/v1/books/:id/follow
func (h *InteractionHandler) UnfollowBook(c *gin.Context) {
	h.handleAction(c, h.interactionService.UnfollowBook, "作品ID", "已取消追更")
}
