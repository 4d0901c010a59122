package pgstore

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/rpupo63/buildsite-backend/models"
)

var userColumns = []string{"id", "username", "password", "created_at"}

func (s *Store) GetUser(ctx context.Context, id int64) (*models.User, error) {
	return s.getUser(ctx, squirrel.Eq{"id": id})
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getUser(ctx, squirrel.Eq{"username": username})
}

func (s *Store) getUser(ctx context.Context, where squirrel.Eq) (*models.User, error) {
	query, args, err := psql.Select(userColumns...).From("users").Where(where).ToSql()
	if err != nil {
		return nil, fmt.Errorf("building select query: %w", err)
	}
	var user models.User
	if err := pgxscan.Get(ctx, s.db, &user, query, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, nil
		}
		return nil, wrap("get user", err)
	}
	return &user, nil
}

func (s *Store) CreateUser(ctx context.Context, in models.NewUser) (*models.User, error) {
	query, args, err := psql.Insert("users").
		Columns("username", "password").
		Values(in.Username, in.PasswordHash).
		Suffix(returning(userColumns)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building insert query: %w", err)
	}
	var user models.User
	if err := pgxscan.Get(ctx, s.db, &user, query, args...); err != nil {
		return nil, wrap(fmt.Sprintf("create user %q", in.Username), err)
	}
	return &user, nil
}
