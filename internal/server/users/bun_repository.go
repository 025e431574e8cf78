package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/saolsen/gameplay-computer/internal/common"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect"
)

type BunRepository struct {
	db bun.IDB
}

// NewBunRepository works with *bun.DB as well as bun.Tx.
func NewBunRepository(db bun.IDB) *BunRepository {
	return &BunRepository{db: db}
}

func (r *BunRepository) GetByClerkID(ctx context.Context, clerkID string) (*User, error) {
	user := new(User)
	err := r.db.NewSelect().
		Model(user).
		Where("?TableAlias.clerk_id = ?", clerkID).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *BunRepository) Upsert(ctx context.Context, user *User) error {
	if _, err := r.upsertQuery(user).Exec(ctx); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *BunRepository) upsertQuery(user *User) *bun.InsertQuery {
	q := r.db.NewInsert().Model(user).Returning("NULL")

	if r.db.Dialect().Name() == dialect.MySQL {
		return q.On("DUPLICATE KEY UPDATE").
			Set("username = VALUES(username)").
			Set("first_name = VALUES(first_name)").
			Set("last_name = VALUES(last_name)").
			Set("email = VALUES(email)")
	}

	return q.On("CONFLICT (clerk_id) DO UPDATE").
		Set("username = EXCLUDED.username").
		Set("first_name = EXCLUDED.first_name").
		Set("last_name = EXCLUDED.last_name").
		Set("email = EXCLUDED.email")
}
