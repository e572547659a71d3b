package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/learnflow/feed-service/internal/models"
	"github.com/learnflow/feed-service/internal/storage"
	"github.com/learnflow/feed-service/pkg/log"
)

// maxCommentBodyLen — верхняя граница длины тела комментария.
const maxCommentBodyLen = 5000

// BuildCommentTree восстанавливает лес ответов из плоского списка.
//
// Алгоритм не зависит от порядка входа и переживает битые данные:
//
//	проход 1: map[id]*узел, каждый узел — свежий объект с пустым Replies
//	          (входные записи не мутируются);
//	проход 2: узел с ParentID, найденным в map, дописывается в Replies
//	          родителя; иначе узел становится корнем;
//	проход 3: узлы, чья цепочка родителей не достигает корня (взаимный цикл
//	          ссылок, например a→b и b→a), не попали бы в выдачу вовсе.
//	          Первый повторившийся узел каждого цикла снимается из Replies
//	          родителя и поднимается в корни; остальные узлы цикла остаются
//	          его поддеревом.
//
// Порядок: Replies сохраняют порядок входа (хронологический), корни
// разворачиваются — свежая ветка первой, ответы внутри ветки по порядку.
// Глубина не ограничена. Комментарий никогда не выбрасывается: неразрешимый
// ParentID и цикл деградируют в корневое размещение.
func BuildCommentTree(flat []models.Comment) []*models.CommentNode {
	byID := make(map[string]*models.CommentNode, len(flat))
	for _, c := range flat {
		byID[c.ID] = &models.CommentNode{
			ID: c.ID,
			Author: models.AuthorSummary{
				ID:     c.AuthorID.String(),
				Name:   c.AuthorName,
				Avatar: c.AuthorAvatar,
			},
			Body:      c.Body,
			CreatedAt: c.CreatedAt,
			Replies:   []*models.CommentNode{},
		}
	}

	var roots []*models.CommentNode
	// parentOf: id -> id родителя, только для реально прилинкованных узлов.
	parentOf := make(map[string]string, len(flat))
	for _, c := range flat {
		node := byID[c.ID]

		if c.ParentID != "" && c.ParentID != c.ID {
			if parent, ok := byID[c.ParentID]; ok {
				parent.Replies = append(parent.Replies, node)
				parentOf[c.ID] = c.ParentID
				continue
			}
		}

		roots = append(roots, node)
	}

	// Проход 3: подъём циклов. reachesRoot кэширует уже проверенные узлы,
	// поэтому суммарная стоимость обхода линейна. Итерация по flat (а не по
	// map) даёт детерминированный выбор поднимаемого узла.
	reachesRoot := make(map[string]struct{}, len(flat))
	for _, c := range flat {
		if _, done := reachesRoot[c.ID]; done {
			continue
		}

		var path []string
		onPath := make(map[string]struct{})
		cur := c.ID
		for {
			if _, ok := reachesRoot[cur]; ok {
				break
			}
			if _, ok := onPath[cur]; ok {
				// cur — первый повторившийся узел цепочки: размыкаем цикл.
				detachReply(byID[parentOf[cur]], byID[cur])
				delete(parentOf, cur)
				roots = append(roots, byID[cur])
				break
			}

			onPath[cur] = struct{}{}
			path = append(path, cur)

			parent, linked := parentOf[cur]
			if !linked {
				// cur — корень, цепочка завершилась штатно.
				break
			}
			cur = parent
		}

		for _, id := range path {
			reachesRoot[id] = struct{}{}
		}
	}

	// Свежая ветка — первой.
	for i, j := 0, len(roots)-1; i < j; i, j = i+1, j-1 {
		roots[i], roots[j] = roots[j], roots[i]
	}

	return roots
}

// detachReply убирает node из Replies родителя (подъём узла цикла в корни).
func detachReply(parent, node *models.CommentNode) {
	for i, child := range parent.Replies {
		if child == node {
			parent.Replies = append(parent.Replies[:i], parent.Replies[i+1:]...)
			return
		}
	}
}

// CommentsTree возвращает восстановленный лес комментариев контента.
//
// Хранилище отдаёт плоский список в хронологическом порядке; аватары авторов
// разрешаются в URL на отдаче.
//
// Ошибки:
// - ErrNotFound — контент не существует;
// - прочие ошибки стораджа — обёрнутые и прокинуты наверх.
func (s *Service) CommentsTree(ctx context.Context, contentID uuid.UUID) ([]*models.CommentNode, error) {
	const op = "service.comments.CommentsTree"

	lg := log.From(ctx)
	lg.Info("comments_tree_request",
		slog.String("op", op),
		slog.String("content_id", contentID.String()),
	)

	exists, err := s.store.ContentExists(ctx, contentID)
	if err != nil {
		lg.Error("comments_tree_storage_error",
			slog.String("op", op),
			slog.String("err", err.Error()),
		)

		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !exists {
		lg.Warn("comments_tree_content_not_found",
			slog.String("op", op),
			slog.String("content_id", contentID.String()),
		)

		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}

	flat, err := s.comments.ListByContent(ctx, contentID)
	if err != nil {
		lg.Error("comments_tree_storage_error",
			slog.String("op", op),
			slog.String("err", err.Error()),
		)

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	for i := range flat {
		flat[i].AuthorAvatar = s.resolveMediaURL(ctx, flat[i].AuthorAvatar)
	}

	tree := BuildCommentTree(flat)
	if tree == nil {
		tree = []*models.CommentNode{}
	}

	lg.Info("comments_tree_ok",
		slog.String("op", op),
		slog.Int("total", len(flat)),
		slog.Int("roots", len(tree)),
	)

	return tree, nil
}

// CreateCommentInput — входные данные создания комментария.
type CreateCommentInput struct {
	ContentID uuid.UUID
	// ParentID — hex-идентификатор родителя; "" — корневой комментарий.
	ParentID string
	Body     string
}

// CreateComment создаёт комментарий от имени автора.
//
// Правила:
//   - тело нормализуется (trim) и обязано быть непустым и не длиннее
//     maxCommentBodyLen — иначе ErrInvalidArgument;
//   - контент обязан существовать — иначе ErrNotFound;
//   - карточка автора денормализуется в запись на момент создания;
//   - существование родителя не проверяется: ссылка свободная, дерево на
//     чтении поднимает осиротевшие узлы в корни.
func (s *Service) CreateComment(ctx context.Context, authorID uuid.UUID, in CreateCommentInput) (*models.Comment, error) {
	const op = "service.comments.CreateComment"

	lg := log.From(ctx)
	lg.Info("create_comment_request",
		slog.String("op", op),
		slog.String("content_id", in.ContentID.String()),
		slog.Bool("is_reply", in.ParentID != ""),
	)

	body := strings.TrimSpace(in.Body)
	if body == "" || len(body) > maxCommentBodyLen {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	exists, err := s.store.ContentExists(ctx, in.ContentID)
	if err != nil {
		lg.Error("create_comment_storage_error",
			slog.String("op", op),
			slog.String("err", err.Error()),
		)

		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !exists {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}

	author, err := s.store.UserSummary(ctx, authorID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}

		lg.Error("create_comment_storage_error",
			slog.String("op", op),
			slog.String("err", err.Error()),
		)

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	created, err := s.comments.CreateComment(ctx, models.Comment{
		ContentID:    in.ContentID,
		ParentID:     strings.TrimSpace(in.ParentID),
		AuthorID:     author.ID,
		AuthorName:   author.Name,
		AuthorAvatar: author.AvatarKey,
		Body:         body,
	})
	if err != nil {
		if errors.Is(err, storage.ErrInvalidArgument) {
			return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
		}

		lg.Error("create_comment_storage_error",
			slog.String("op", op),
			slog.String("err", err.Error()),
		)

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	lg.Info("create_comment_ok",
		slog.String("op", op),
		slog.String("comment_id", created.ID),
	)

	return created, nil
}
