package pooltokenrepo

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/alexkalak/go_loopring_explorer/common/models"
	"github.com/alexkalak/go_loopring_explorer/common/periphery/pgdatabase"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// PoolTokenDBRepo exports resolved lp token labels for the presentation
// layer. The pool token cache never reads them back.
type PoolTokenDBRepo interface {
	UpsertPoolTokens(ctx context.Context, poolTokens []*models.PoolToken) error
	GetPoolTokenLabels(ctx context.Context) ([]models.Token, error)
}

type PoolTokenDBRepoDependencies struct {
	Database *pgdatabase.PgDatabase
}

func (d *PoolTokenDBRepoDependencies) validate() error {
	if d.Database == nil {
		return errors.New("pool token repo dependencies database cannot be nil")
	}

	return nil
}

type poolTokenDBRepo struct {
	pgDatabase *pgdatabase.PgDatabase
}

func NewDBRepo(dependencies PoolTokenDBRepoDependencies) (PoolTokenDBRepo, error) {
	if err := dependencies.validate(); err != nil {
		return nil, err
	}

	return &poolTokenDBRepo{
		pgDatabase: dependencies.Database,
	}, nil
}

func upsertPoolTokenQuery(poolToken *models.PoolToken) sq.InsertBuilder {
	return psql.
		Insert(models.POOL_TOKENS_TABLE).
		Columns(
			models.POOL_TOKEN_POOL_ID,
			models.POOL_TOKEN_POOL_ADDRESS,
			models.POOL_TOKEN_TOKEN_ID,
			models.POOL_TOKEN_NAME,
			models.POOL_TOKEN_SYMBOL,
			models.POOL_TOKEN_DECIMALS,
			models.POOL_TOKEN_TOKEN0_ID,
			models.POOL_TOKEN_TOKEN1_ID,
			models.POOL_TOKEN_TOKEN0_SYMBOL,
			models.POOL_TOKEN_TOKEN1_SYMBOL,
		).
		Values(
			poolToken.Pool.ID,
			poolToken.Pool.Address,
			poolToken.Token.ID,
			poolToken.Token.Name,
			poolToken.Token.Symbol,
			poolToken.Token.Decimals,
			poolToken.Pair.Token0.ID,
			poolToken.Pair.Token1.ID,
			poolToken.Pair.Token0.Symbol,
			poolToken.Pair.Token1.Symbol,
		).
		Suffix(fmt.Sprintf("ON CONFLICT (%s) DO UPDATE SET %s = EXCLUDED.%s, %s = EXCLUDED.%s, %s = EXCLUDED.%s",
			models.POOL_TOKEN_POOL_ID,
			models.POOL_TOKEN_NAME, models.POOL_TOKEN_NAME,
			models.POOL_TOKEN_SYMBOL, models.POOL_TOKEN_SYMBOL,
			models.POOL_TOKEN_DECIMALS, models.POOL_TOKEN_DECIMALS,
		))
}

func (r *poolTokenDBRepo) UpsertPoolTokens(ctx context.Context, poolTokens []*models.PoolToken) error {
	db, err := r.pgDatabase.GetDB()
	if err != nil {
		return err
	}
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	for _, poolToken := range poolTokens {
		_, err := upsertPoolTokenQuery(poolToken).RunWith(tx).ExecContext(ctx)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("upsert pool token %s: %w", poolToken.Pool.ID, err)
		}
	}

	return tx.Commit()
}

func poolTokenLabelsQuery() sq.SelectBuilder {
	return psql.
		Select(
			models.POOL_TOKEN_TOKEN_ID,
			models.POOL_TOKEN_NAME,
			models.POOL_TOKEN_SYMBOL,
			models.POOL_TOKEN_DECIMALS,
		).
		From(models.POOL_TOKENS_TABLE).
		OrderBy(models.POOL_TOKEN_TOKEN_ID)
}

func (r *poolTokenDBRepo) GetPoolTokenLabels(ctx context.Context) ([]models.Token, error) {
	db, err := r.pgDatabase.GetDB()
	if err != nil {
		return nil, err
	}

	rows, err := poolTokenLabelsQuery().
		RunWith(db).
		QueryContext(ctx)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tokens := []models.Token{}
	for rows.Next() {
		var token models.Token
		if err := rows.Scan(&token.ID, &token.Name, &token.Symbol, &token.Decimals); err != nil {
			return nil, err
		}
		tokens = append(tokens, token)
	}

	return tokens, rows.Err()
}
