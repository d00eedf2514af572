package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dmitrijs2005/signkeeper/internal/common"
	"github.com/dmitrijs2005/signkeeper/internal/dbx"
	"github.com/dmitrijs2005/signkeeper/internal/server/models"
)

const uniqueViolation = "23505"

const selectUsers = `SELECT u.id, u.uid, u.provider, u.password_hash, u.name, u.created_at,
       COALESCE(string_agg(r.role, ',' ORDER BY r.position), '')
  FROM users u
  LEFT JOIN user_roles r ON r.user_id = u.id
`

type PostgresRepository struct {
	db dbx.DBTX
}

var _ Repository = (*PostgresRepository)(nil)

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*models.User, error) {
	u := &models.User{}
	var roles string
	if err := row.Scan(&u.ID, &u.UID, &u.Provider, &u.PasswordHash, &u.Name, &u.CreatedAt, &roles); err != nil {
		return nil, err
	}
	if roles != "" {
		u.Roles = strings.Split(roles, ",")
	}
	return u, nil
}

func (r *PostgresRepository) findOne(ctx context.Context, where string, args ...any) (*models.User, error) {
	query := selectUsers + " WHERE " + where + "\n GROUP BY u.id"

	u, err := scanUser(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return u, nil
}

func (r *PostgresRepository) FindByID(ctx context.Context, id int64) (*models.User, error) {
	return r.findOne(ctx, "u.id = $1", id)
}

func (r *PostgresRepository) FindByUID(ctx context.Context, uid string) (*models.User, error) {
	return r.findOne(ctx, "u.uid = $1 AND u.provider = ''", uid)
}

func (r *PostgresRepository) FindByUIDAndProvider(ctx context.Context, uid, provider string) (*models.User, error) {
	return r.findOne(ctx, "u.uid = $1 AND u.provider = $2", uid, provider)
}

func (r *PostgresRepository) FindAll(ctx context.Context) ([]*models.User, error) {
	rows, err := r.db.QueryContext(ctx, selectUsers+" GROUP BY u.id\n ORDER BY u.id")
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

// Save writes the user row and its roles in one transaction.
func (r *PostgresRepository) Save(ctx context.Context, user *models.User) (*models.User, error) {
	err := dbx.InTx(ctx, r.db, func(ctx context.Context, tx dbx.DBTX) error {
		if user.ID == 0 {
			if err := insertUser(ctx, tx, user); err != nil {
				return err
			}
		} else if err := updateUser(ctx, tx, user); err != nil {
			return err
		}
		return replaceRoles(ctx, tx, user.ID, user.Roles)
	})
	if err != nil {
		if isUniqueViolation(err) {
			return nil, common.ErrUserExists
		}
		if errors.Is(err, common.ErrUserNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return user, nil
}

func insertUser(ctx context.Context, tx dbx.DBTX, user *models.User) error {
	query :=
		`INSERT INTO users (uid, provider, password_hash, name)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at`

	return tx.QueryRowContext(ctx, query,
		user.UID, user.Provider, user.PasswordHash, user.Name).Scan(&user.ID, &user.CreatedAt)
}

func updateUser(ctx context.Context, tx dbx.DBTX, user *models.User) error {
	query :=
		`UPDATE users SET uid = $1, provider = $2, password_hash = $3, name = $4
		 WHERE id = $5`

	res, err := tx.ExecContext(ctx, query, user.UID, user.Provider, user.PasswordHash, user.Name, user.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return common.ErrUserNotFound
	}
	return nil
}

func replaceRoles(ctx context.Context, tx dbx.DBTX, userID int64, roles []string) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM user_roles WHERE user_id = $1`, userID); err != nil {
		return err
	}
	for i, role := range roles {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO user_roles (user_id, position, role) VALUES ($1, $2, $3)`,
			userID, i, role); err != nil {
			return err
		}
	}
	return nil
}

func (r *PostgresRepository) DeleteByID(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
