package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/KacperZiemski-fixtra/company-news-api/internal/model"
)

// ErrNotFound reports that a company or a company/industry pairing has
// never been curated.
var ErrNotFound = errors.New("not found")

const schema = `
CREATE TABLE IF NOT EXISTS companies (
	id           BIGSERIAL PRIMARY KEY,
	name         TEXT NOT NULL UNIQUE,
	website      TEXT NOT NULL DEFAULT '',
	last_updated TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS industries (
	id   BIGSERIAL PRIMARY KEY,
	name TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS company_industry_groups (
	id          BIGSERIAL PRIMARY KEY,
	company_id  BIGINT NOT NULL REFERENCES companies(id) ON DELETE CASCADE,
	industry_id BIGINT NOT NULL REFERENCES industries(id) ON DELETE CASCADE,
	UNIQUE (company_id, industry_id)
);

CREATE TABLE IF NOT EXISTS articles (
	id               BIGSERIAL PRIMARY KEY,
	group_id         BIGINT NOT NULL REFERENCES company_industry_groups(id) ON DELETE CASCADE,
	title            TEXT NOT NULL,
	url              TEXT NOT NULL,
	author           TEXT NOT NULL DEFAULT '',
	publication_date TEXT NOT NULL DEFAULT '',
	summary          TEXT NOT NULL DEFAULT '',
	main_topics      TEXT[] NOT NULL DEFAULT '{}'
);
`

// Postgres persists curated articles per company/industry pairing.
type Postgres struct {
	db *sql.DB
	sb sq.StatementBuilderType
}

// Open connects to Postgres and verifies the connection.
func Open(dsn string) (*Postgres, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return New(db), nil
}

// New wires a sql.DB implementation.
func New(db *sql.DB) *Postgres {
	return &Postgres{
		db: db,
		sb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (p *Postgres) Close() error {
	return p.db.Close()
}

// Migrate creates the schema if it does not exist.
func (p *Postgres) Migrate(ctx context.Context) error {
	if _, err := p.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// ReplaceArticles swaps the stored article set for one company/industry
// pairing in a single transaction and bumps the company's last_updated.
func (p *Postgres) ReplaceArticles(ctx context.Context, company, website, industry string, articles []model.Summary) error {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	companyID, err := p.upsertCompany(ctx, tx, company, website)
	if err != nil {
		return err
	}
	industryID, err := p.upsertIndustry(ctx, tx, industry)
	if err != nil {
		return err
	}
	groupID, err := p.upsertGroup(ctx, tx, companyID, industryID)
	if err != nil {
		return err
	}

	query, args, err := p.sb.Delete("articles").Where(sq.Eq{"group_id": groupID}).ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete articles: %w", err)
	}

	for _, a := range articles {
		query, args, err := p.sb.Insert("articles").
			Columns("group_id", "title", "url", "author", "publication_date", "summary", "main_topics").
			Values(groupID, a.Title, a.URL, a.Author, a.PublicationDate, a.Summary, pq.Array(a.MainTopics)).
			ToSql()
		if err != nil {
			return fmt.Errorf("build insert: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert article: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// LatestArticles returns the stored articles for one company/industry
// pairing, newest first, with the company's last refresh time.
func (p *Postgres) LatestArticles(ctx context.Context, company, industry string, limit int) ([]model.Summary, time.Time, error) {
	var (
		companyID   int64
		lastUpdated time.Time
	)
	query, args, err := p.sb.Select("id", "last_updated").
		From("companies").
		Where(sq.Eq{"name": company}).
		ToSql()
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("build company query: %w", err)
	}
	err = p.db.QueryRowContext(ctx, query, args...).Scan(&companyID, &lastUpdated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, time.Time{}, fmt.Errorf("company %q: %w", company, ErrNotFound)
	}
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("query company: %w", err)
	}

	var groupID int64
	query, args, err = p.sb.Select("g.id").
		From("company_industry_groups g").
		Join("industries i ON i.id = g.industry_id").
		Where(sq.Eq{"g.company_id": companyID, "i.name": industry}).
		ToSql()
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("build group query: %w", err)
	}
	err = p.db.QueryRowContext(ctx, query, args...).Scan(&groupID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, time.Time{}, fmt.Errorf("company %q in industry %q: %w", company, industry, ErrNotFound)
	}
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("query group: %w", err)
	}

	builder := p.sb.Select("title", "url", "author", "publication_date", "summary", "main_topics").
		From("articles").
		Where(sq.Eq{"group_id": groupID}).
		OrderBy("publication_date DESC")
	if limit > 0 {
		builder = builder.Limit(uint64(limit))
	}
	query, args, err = builder.ToSql()
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("build articles query: %w", err)
	}

	rows, err := p.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("query articles: %w", err)
	}
	defer rows.Close()

	var articles []model.Summary
	for rows.Next() {
		var a model.Summary
		if err := rows.Scan(&a.Title, &a.URL, &a.Author, &a.PublicationDate, &a.Summary, pq.Array(&a.MainTopics)); err != nil {
			return nil, time.Time{}, fmt.Errorf("scan article: %w", err)
		}
		articles = append(articles, a)
	}
	if err := rows.Err(); err != nil {
		return nil, time.Time{}, fmt.Errorf("rows iteration: %w", err)
	}
	return articles, lastUpdated, nil
}

func (p *Postgres) upsertCompany(ctx context.Context, tx *sql.Tx, name, website string) (int64, error) {
	query, args, err := p.sb.Insert("companies").
		Columns("name", "website").
		Values(name, website).
		Suffix("ON CONFLICT (name) DO UPDATE SET website = EXCLUDED.website, last_updated = NOW() RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build company upsert: %w", err)
	}
	var id int64
	if err := tx.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
		return 0, fmt.Errorf("upsert company: %w", err)
	}
	return id, nil
}

func (p *Postgres) upsertIndustry(ctx context.Context, tx *sql.Tx, name string) (int64, error) {
	query, args, err := p.sb.Insert("industries").
		Columns("name").
		Values(name).
		Suffix("ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build industry upsert: %w", err)
	}
	var id int64
	if err := tx.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
		return 0, fmt.Errorf("upsert industry: %w", err)
	}
	return id, nil
}

func (p *Postgres) upsertGroup(ctx context.Context, tx *sql.Tx, companyID, industryID int64) (int64, error) {
	query, args, err := p.sb.Insert("company_industry_groups").
		Columns("company_id", "industry_id").
		Values(companyID, industryID).
		Suffix("ON CONFLICT (company_id, industry_id) DO UPDATE SET company_id = EXCLUDED.company_id RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build group upsert: %w", err)
	}
	var id int64
	if err := tx.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
		return 0, fmt.Errorf("upsert group: %w", err)
	}
	return id, nil
}
