package service

import (
	"fmt"

	"github.com/inkriver/novel_go_server/internal/model"
	"github.com/inkriver/novel_go_server/internal/model/dto"
)

// ResolveNotification 把通知行映射为展示文案和跳转目标。纯函数，不查库。
//
// comment / reply 两类共享同样的目标字段，只靠 Paragraph 是否为空区分：
// 非空要重新打开段评面板并定位到段落，空则落在章节/书评讨论区。
// 两种跳转不能混淆。
func ResolveNotification(n *model.Notification) (string, *dto.LinkTarget) {
	switch n.Type {
	case model.NotificationTypeVote:
		return fmt.Sprintf("%s 赞了你的作品", n.ActorName), &dto.LinkTarget{
			Kind:   dto.LinkKindBook,
			BookID: n.BookID,
		}

	case model.NotificationTypeChapterVote:
		return fmt.Sprintf("%s 赞了你的章节", n.ActorName), &dto.LinkTarget{
			Kind:      dto.LinkKindChapter,
			BookID:    n.BookID,
			ChapterID: n.ChapterID,
		}

	case model.NotificationTypeComment:
		return fmt.Sprintf("%s 评论了你的作品", n.ActorName), commentTarget(n)

	case model.NotificationTypeReply:
		return fmt.Sprintf("%s 回复了你的评论", n.ActorName), commentTarget(n)

	case model.NotificationTypeNewChapter:
		return fmt.Sprintf("%s 更新了新章节", n.ActorName), &dto.LinkTarget{
			Kind:      dto.LinkKindChapter,
			BookID:    n.BookID,
			ChapterID: n.ChapterID,
		}

	case model.NotificationTypeBoardVote:
		return fmt.Sprintf("%s 赞了你的讨论贴", n.ActorName), &dto.LinkTarget{
			Kind:    dto.LinkKindBoard,
			BoardID: n.BoardID,
		}

	case model.NotificationTypeBoardComment:
		return fmt.Sprintf("%s 评论了你的讨论贴", n.ActorName), &dto.LinkTarget{
			Kind:      dto.LinkKindBoard,
			BoardID:   n.BoardID,
			CommentID: n.CommentID,
		}

	case model.NotificationTypeFollow:
		actorID := n.ActorID
		return fmt.Sprintf("%s 关注了你", n.ActorName), &dto.LinkTarget{
			Kind:   dto.LinkKindProfile,
			UserID: &actorID,
		}

	default:
		return n.ActorName, &dto.LinkTarget{Kind: dto.LinkKindProfile}
	}
}

// commentTarget 评论/回复类通知的跳转目标
func commentTarget(n *model.Notification) *dto.LinkTarget {
	// 讨论贴内的回复跳回讨论贴
	if n.BoardID != nil {
		return &dto.LinkTarget{
			Kind:      dto.LinkKindBoard,
			BoardID:   n.BoardID,
			CommentID: n.CommentID,
		}
	}

	// 段评：重新打开段评面板，定位段落并高亮评论
	if n.Paragraph != nil {
		return &dto.LinkTarget{
			Kind:      dto.LinkKindParagraphThread,
			BookID:    n.BookID,
			ChapterID: n.ChapterID,
			Paragraph: n.Paragraph,
			CommentID: n.CommentID,
		}
	}

	// 章评：章节讨论区，滚动到评论
	if n.ChapterID != nil {
		return &dto.LinkTarget{
			Kind:      dto.LinkKindChapterComments,
			BookID:    n.BookID,
			ChapterID: n.ChapterID,
			CommentID: n.CommentID,
		}
	}

	// 书评
	return &dto.LinkTarget{
		Kind:      dto.LinkKindBookComments,
		BookID:    n.BookID,
		CommentID: n.CommentID,
	}
}
