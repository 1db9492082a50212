package utils

import (
	"context"

	"equipment-portal/internal/entities"
	"equipment-portal/pkg/contextkeys"
	apperrors "equipment-portal/pkg/errors"
)

// WithActor stores the authenticated identity on ctx.
func WithActor(ctx context.Context, actor entities.Actor) context.Context {
	ctx = context.WithValue(ctx, contextkeys.UserIDKey, actor.UserID)
	return context.WithValue(ctx, contextkeys.UserRoleKey, actor.Role)
}

func GetUserIDFromCtx(ctx context.Context) (uint64, error) {
	userID, ok := ctx.Value(contextkeys.UserIDKey).(uint64)
	if !ok {
		return 0, apperrors.ErrUserIDNotFoundInContext
	}
	return userID, nil
}

func GetActorFromCtx(ctx context.Context) (entities.Actor, error) {
	userID, err := GetUserIDFromCtx(ctx)
	if err != nil {
		return entities.Actor{}, err
	}
	role, _ := ctx.Value(contextkeys.UserRoleKey).(string)
	return entities.Actor{UserID: userID, Role: role}, nil
}
