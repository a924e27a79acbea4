// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/advisor/internal/platform/dberr"
	"github.com/taibuivan/advisor/internal/platform/sec"
	"github.com/taibuivan/advisor/pkg/slice"
)

// # Identity Repository

// PostgresIdentityRepository implements [IdentityRepository] on the member schema.
type PostgresIdentityRepository struct {
	pool *pgxpool.Pool
}

// NewIdentityRepository creates a PostgreSQL implementation of [IdentityRepository].
func NewIdentityRepository(pool *pgxpool.Pool) *PostgresIdentityRepository {
	return &PostgresIdentityRepository{pool: pool}
}

// selectIdentity loads an account row with its authorities aggregated in stored order.
const selectIdentity = `
	SELECT a.id, a.email, a.password_hash, a.name, a.mobile, a.enabled, a.optional_terms,
	       a.credential_changed_at, a.created_at, a.updated_at,
	       COALESCE(array_agg(r.authority ORDER BY r.position) FILTER (WHERE r.authority IS NOT NULL), '{}')
	FROM member.account a
	LEFT JOIN member.authority r ON r.account_id = a.id`

/*
FindByEmail retrieves an identity by its unique email.
*/
func (repository *PostgresIdentityRepository) FindByEmail(context context.Context, email string) (*Identity, error) {
	return repository.findOne(context, "identity_find_by_email",
		selectIdentity+` WHERE a.email = $1 GROUP BY a.id`, email)
}

/*
FindByID retrieves an identity by primary key.
*/
func (repository *PostgresIdentityRepository) FindByID(context context.Context, id string) (*Identity, error) {
	return repository.findOne(context, "identity_find_by_id",
		selectIdentity+` WHERE a.id = $1 GROUP BY a.id`, id)
}

/*
FindByNameAndMobile retrieves the identity matching both name and mobile.

When several members share the pair, the most recent registration wins.
*/
func (repository *PostgresIdentityRepository) FindByNameAndMobile(context context.Context, name, mobile string) (*Identity, error) {
	return repository.findOne(context, "identity_find_by_name_mobile",
		selectIdentity+` WHERE a.name = $1 AND a.mobile = $2 GROUP BY a.id ORDER BY a.created_at DESC LIMIT 1`, name, mobile)
}

func (repository *PostgresIdentityRepository) findOne(context context.Context, action, query string, args ...any) (*Identity, error) {
	identity, err := scanIdentity(repository.pool.QueryRow(context, query, args...))
	if err != nil {
		if dberr.IsNoRows(err) {
			return nil, ErrIdentityNotFound
		}
		return nil, dberr.Wrap(err, "postgres_"+action)
	}
	return identity, nil
}

func scanIdentity(row pgx.Row) (*Identity, error) {
	var (
		identity      Identity
		optionalTerms string
		authorities   []string
	)

	err := row.Scan(
		&identity.ID,
		&identity.Email,
		&identity.PasswordHash,
		&identity.Name,
		&identity.Mobile,
		&identity.Enabled,
		&optionalTerms,
		&identity.CredentialChangedAt,
		&identity.CreatedAt,
		&identity.UpdatedAt,
		&authorities,
	)
	if err != nil {
		return nil, err
	}

	// The column is CHECK-constrained, so a failure here means the schema drifted.
	identity.Authorities, err = sec.ParseAuthorities(authorities)
	if err != nil {
		return nil, fmt.Errorf("identity_authorities_corrupt: %w", err)
	}
	identity.OptionalTerms = SplitTerms(optionalTerms)

	return &identity, nil
}

/*
Create inserts the account row and its authorities in one transaction.

Returns:
  - error: ErrIdentityExists when the email is taken
*/
func (repository *PostgresIdentityRepository) Create(context context.Context, identity *Identity) error {
	const insertAccount = `
		INSERT INTO member.account (
			id, email, password_hash, name, mobile, enabled, optional_terms,
			credential_changed_at, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	now := time.Now()
	if identity.CreatedAt.IsZero() {
		identity.CreatedAt = now
	}
	identity.UpdatedAt = now

	err := pgx.BeginFunc(context, repository.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(context, insertAccount,
			identity.ID,
			identity.Email,
			identity.PasswordHash,
			identity.Name,
			identity.Mobile,
			identity.Enabled,
			JoinTerms(identity.OptionalTerms),
			identity.CredentialChangedAt,
			identity.CreatedAt,
			identity.UpdatedAt,
		); err != nil {
			return err
		}
		return insertAuthorities(context, tx, identity.ID, identity.Authorities)
	})

	if err != nil {
		if dberr.IsUniqueViolation(err) {
			return ErrIdentityExists
		}
		return dberr.Wrap(err, "postgres_identity_create")
	}

	return nil
}

/*
UpdatePassword stores a new hash and stamps the credential change.
*/
func (repository *PostgresIdentityRepository) UpdatePassword(context context.Context, id, passwordHash string, changedAt time.Time) error {
	const query = `
		UPDATE member.account
		SET password_hash = $2, credential_changed_at = $3, updated_at = now()
		WHERE id = $1`

	tag, err := repository.pool.Exec(context, query, id, passwordHash, changedAt)
	if err != nil {
		return dberr.Wrap(err, "postgres_identity_update_password")
	}
	if tag.RowsAffected() == 0 {
		return ErrIdentityNotFound
	}

	return nil
}

/*
ReplaceAuthorities deletes and re-inserts the authority set atomically.
*/
func (repository *PostgresIdentityRepository) ReplaceAuthorities(context context.Context, id string, authorities []sec.Authority) error {
	err := pgx.BeginFunc(context, repository.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(context, `UPDATE member.account SET updated_at = now() WHERE id = $1`, id)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return ErrIdentityNotFound
		}

		if _, err := tx.Exec(context, `DELETE FROM member.authority WHERE account_id = $1`, id); err != nil {
			return err
		}
		return insertAuthorities(context, tx, id, authorities)
	})

	if errors.Is(err, ErrIdentityNotFound) {
		return err
	}
	return wrapAccountWrite(err, "postgres_identity_replace_authorities")
}

// wrapAccountWrite wraps a failed write to a table referencing member.account.
// A foreign key violation means the account was deleted concurrently and is
// reported as [ErrIdentityNotFound].
func wrapAccountWrite(err error, action string) error {
	if dberr.IsForeignKeyViolation(err) {
		return fmt.Errorf("%s_failed: %w", action, ErrIdentityNotFound)
	}
	return dberr.Wrap(err, action)
}

func insertAuthorities(context context.Context, tx pgx.Tx, accountID string, authorities []sec.Authority) error {
	if len(authorities) == 0 {
		return nil
	}

	const query = `
		INSERT INTO member.authority (account_id, authority, position)
		SELECT $1, value, ordinality
		FROM unnest($2::text[]) WITH ORDINALITY`

	values := slice.Map(authorities, func(authority sec.Authority) string { return string(authority) })
	_, err := tx.Exec(context, query, accountID, values)
	return err
}

// # Temporary Token Repository

// PostgresTempTokenRepository implements [TempTokenRepository] with a table.
// Rows are kept after expiry so reads can tell expired from unknown.
type PostgresTempTokenRepository struct {
	pool *pgxpool.Pool
}

// NewTempTokenRepository creates a PostgreSQL implementation of [TempTokenRepository].
func NewTempTokenRepository(pool *pgxpool.Pool) *PostgresTempTokenRepository {
	return &PostgresTempTokenRepository{pool: pool}
}

/*
Save inserts the issued token.
*/
func (repository *PostgresTempTokenRepository) Save(context context.Context, token *TempToken) error {
	const query = `
		INSERT INTO member.temp_token (token, account_id, email, action, origin, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := repository.pool.Exec(context, query,
		token.Token,
		token.IdentityID,
		token.Email,
		string(token.Action),
		token.Origin,
		token.ExpiresAt,
		token.CreatedAt,
	)
	return wrapAccountWrite(err, "postgres_temp_token_save")
}

/*
Find loads a token record regardless of expiry.
*/
func (repository *PostgresTempTokenRepository) Find(context context.Context, tokenString string) (*TempToken, error) {
	const query = `
		SELECT token, account_id, email, action, origin, expires_at, created_at
		FROM member.temp_token
		WHERE token = $1`

	var (
		token  TempToken
		action string
	)
	err := repository.pool.QueryRow(context, query, tokenString).Scan(
		&token.Token,
		&token.IdentityID,
		&token.Email,
		&action,
		&token.Origin,
		&token.ExpiresAt,
		&token.CreatedAt,
	)
	if err != nil {
		if dberr.IsNoRows(err) {
			return nil, ErrTempTokenNotFound
		}
		return nil, dberr.Wrap(err, "postgres_temp_token_find")
	}
	token.Action = Action(action)

	return &token, nil
}

/*
DeleteExpiredBefore purges records that expired before cutoff and returns how many went.
*/
func (repository *PostgresTempTokenRepository) DeleteExpiredBefore(context context.Context, cutoff time.Time) (int64, error) {
	tag, err := repository.pool.Exec(context, `DELETE FROM member.temp_token WHERE expires_at < $1`, cutoff)
	if err != nil {
		return 0, dberr.Wrap(err, "postgres_temp_token_purge")
	}
	return tag.RowsAffected(), nil
}
