package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Amirhan2201/ChatLink/internal/apperrors"
	"github.com/Amirhan2201/ChatLink/internal/models"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// GroupRepository persists group documents. Membership and role mutations are
// written as whole-document replaces against a freshly read copy, so each
// mutation is a single atomic write.
type GroupRepository struct {
	collection *mongo.Collection
}

func NewGroupRepository(db *mongo.Database) *GroupRepository {
	return &GroupRepository{
		collection: db.Collection("groups"),
	}
}

func (r *GroupRepository) CreateGroup(ctx context.Context, group *models.Group) (*models.Group, error) {
	group.CreatedAt = time.Now()
	group.Recount()

	result, err := r.collection.InsertOne(ctx, group)
	if err != nil {
		return nil, fmt.Errorf("failed to create group: %v", err)
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, fmt.Errorf("failed to cast inserted ID")
	}
	group.ID = insertedID

	logrus.WithField("groupID", group.ID.Hex()).Info("Group created")
	return group, nil
}

func (r *GroupRepository) GetGroupByID(ctx context.Context, id primitive.ObjectID) (*models.Group, error) {
	var group models.Group
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&group)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperrors.NotFound("group %s not found", id.Hex())
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find group: %v", err)
	}
	return &group, nil
}

// ReplaceGroup overwrites the stored document with the mutated copy.
func (r *GroupRepository) ReplaceGroup(ctx context.Context, group *models.Group) error {
	group.Recount()

	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": group.ID}, group)
	if err != nil {
		return fmt.Errorf("failed to replace group: %v", err)
	}
	if result.MatchedCount == 0 {
		return apperrors.NotFound("group %s not found", group.ID.Hex())
	}
	return nil
}

func (r *GroupRepository) DeleteGroup(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete group: %v", err)
	}
	if result.DeletedCount == 0 {
		return apperrors.NotFound("group %s not found", id.Hex())
	}

	logrus.WithField("groupID", id.Hex()).Info("Group deleted")
	return nil
}

// ListGroupsByMember returns every group the user belongs to.
func (r *GroupRepository) ListGroupsByMember(ctx context.Context, userID primitive.ObjectID) ([]models.Group, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"member_ids": userID})
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %v", err)
	}
	defer cursor.Close(ctx)

	var groups []models.Group
	for cursor.Next(ctx) {
		var group models.Group
		if err := cursor.Decode(&group); err != nil {
			return nil, err
		}
		groups = append(groups, group)
	}

	return groups, nil
}
