package mongo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/learnflow/feed-service/internal/models"
	"github.com/learnflow/feed-service/internal/storage"
)

// commentDoc — документ комментария в MongoDB.
// parent_id хранится hex-строкой ("" — корень): это свободная ссылка без FK,
// сборка дерева на чтении обязана переживать неразрешимые значения.
type commentDoc struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	ContentID    string             `bson:"content_id"`
	ParentID     string             `bson:"parent_id"`
	AuthorID     string             `bson:"author_id"`
	AuthorName   string             `bson:"author_name"`
	AuthorAvatar string             `bson:"author_avatar"`
	Body         string             `bson:"body"`
	CreatedAt    time.Time          `bson:"created_at"`
}

func (d commentDoc) toModel() (models.Comment, error) {
	contentID, err := uuid.Parse(d.ContentID)
	if err != nil {
		return models.Comment{}, fmt.Errorf("bad content_id %q: %w", d.ContentID, err)
	}

	authorID, err := uuid.Parse(d.AuthorID)
	if err != nil {
		return models.Comment{}, fmt.Errorf("bad author_id %q: %w", d.AuthorID, err)
	}

	return models.Comment{
		ID:           d.ID.Hex(),
		ContentID:    contentID,
		ParentID:     d.ParentID,
		AuthorID:     authorID,
		AuthorName:   d.AuthorName,
		AuthorAvatar: d.AuthorAvatar,
		Body:         d.Body,
		CreatedAt:    d.CreatedAt.UTC(),
	}, nil
}

// CreateComment создаёт комментарий (корневой или ответ).
//
// ID и CreatedAt вычисляются хранилищем; ParentID нормализуется (пробелы,
// валидность hex): битое значение — storage.ErrInvalidArgument. Существование
// родителя намеренно не проверяется — родитель мог быть удалён, и дерево на
// чтении поднимает такие узлы в корни.
func (m *Mongo) CreateComment(ctx context.Context, comment models.Comment) (*models.Comment, error) {
	const op = "storage/mongo/CreateComment"

	// MongoDB DateTime хранит миллисекунды.
	now := time.Now().UTC().Truncate(time.Millisecond)

	parentID := strings.TrimSpace(comment.ParentID)
	if parentID != "" {
		if _, err := primitive.ObjectIDFromHex(parentID); err != nil {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrInvalidArgument)
		}
	}

	doc := commentDoc{
		ContentID:    comment.ContentID.String(),
		ParentID:     parentID,
		AuthorID:     comment.AuthorID.String(),
		AuthorName:   comment.AuthorName,
		AuthorAvatar: comment.AuthorAvatar,
		Body:         comment.Body,
		CreatedAt:    now,
	}

	res, err := m.comments.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("%s: insert: %w", op, err)
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, fmt.Errorf("%s: unexpected inserted id type %T", op, res.InsertedID)
	}

	doc.ID = oid
	out, err := doc.toModel()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &out, nil
}

// ListByContent возвращает все комментарии контента в хронологическом порядке
// (created_at ASC, _id ASC как тай-брейк в пределах одной миллисекунды).
func (m *Mongo) ListByContent(ctx context.Context, contentID uuid.UUID) ([]models.Comment, error) {
	const op = "storage/mongo/ListByContent"

	opts := findSortChrono()
	cur, err := m.comments.Find(ctx, bson.D{{Key: "content_id", Value: contentID.String()}}, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: find: %w", op, err)
	}
	defer cur.Close(ctx)

	var items []models.Comment
	for cur.Next(ctx) {
		var doc commentDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("%s: decode: %w", op, err)
		}

		item, err := doc.toModel()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		items = append(items, item)
	}

	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("%s: cursor: %w", op, err)
	}

	return items, nil
}

// findSortChrono — опции хронологической выборки.
func findSortChrono() *options.FindOptions {
	return options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
}

// CountByContent возвращает количество комментариев контента.
func (m *Mongo) CountByContent(ctx context.Context, contentID uuid.UUID) (int64, error) {
	const op = "storage/mongo/CountByContent"

	count, err := m.comments.CountDocuments(ctx, bson.D{{Key: "content_id", Value: contentID.String()}})
	if err != nil {
		return 0, fmt.Errorf("%s: count: %w", op, err)
	}

	return count, nil
}

// DeleteByContent удаляет все комментарии контента (каскад при удалении контента).
func (m *Mongo) DeleteByContent(ctx context.Context, contentID uuid.UUID) error {
	const op = "storage/mongo/DeleteByContent"

	_, err := m.comments.DeleteMany(ctx, bson.D{{Key: "content_id", Value: contentID.String()}})
	if err != nil {
		return fmt.Errorf("%s: delete: %w", op, err)
	}

	return nil
}
