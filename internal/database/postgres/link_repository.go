package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/avoronov/linkpulse/internal/database"
	"github.com/avoronov/linkpulse/internal/models"
	"github.com/jmoiron/sqlx"
)

type linkRecord struct {
	ID                    int64      `db:"id"`
	Alias                 string     `db:"alias"`
	OriginalURL           string     `db:"original_url"`
	PasswordHash          *string    `db:"password_hash"`
	IsUsePassword         bool       `db:"is_use_password"`
	ExpireAt              *time.Time `db:"expire_at"`
	MaxClicks             *int64     `db:"max_clicks"`
	ClicksCount           int64      `db:"clicks_count"`
	SuccessfulAccessCount int64      `db:"successful_access_count"`
	Status                string     `db:"status"`
	UserID                int64      `db:"user_id"`
	ReferrerID            *int64     `db:"referrer_id"`
	CreatedAt             time.Time  `db:"created_at"`
	UpdatedAt             time.Time  `db:"updated_at"`
	DeletedAt             *time.Time `db:"deleted_at"`
}

func (r *linkRecord) ToLink() *models.Link {
	return &models.Link{
		ID:                    r.ID,
		Alias:                 r.Alias,
		OriginalURL:           r.OriginalURL,
		PasswordHash:          r.PasswordHash,
		IsUsePassword:         r.IsUsePassword,
		ExpireAt:              r.ExpireAt,
		MaxClicks:             r.MaxClicks,
		ClicksCount:           r.ClicksCount,
		SuccessfulAccessCount: r.SuccessfulAccessCount,
		Status:                models.LinkStatus(r.Status),
		UserID:                r.UserID,
		ReferrerID:            r.ReferrerID,
		CreatedAt:             r.CreatedAt,
		UpdatedAt:             r.UpdatedAt,
	}
}

// filterColumns maps the API filter column names onto SQL columns.
var filterColumns = map[string]string{
	"alias":       "alias",
	"originalUrl": "original_url",
	"userId":      "user_id",
	"status":      "status",
	"createdAt":   "created_at",
}

// sortColumns maps the API sort column names onto SQL columns.
var sortColumns = map[string]string{
	"alias":       "alias",
	"originalUrl": "original_url",
	"status":      "status",
	"clicksCount": "clicks_count",
	"createdAt":   "created_at",
}

type LinkRepository struct {
	db *sqlx.DB
}

func NewLinkRepository(db *sqlx.DB) *LinkRepository {
	return &LinkRepository{
		db: db,
	}
}

func (r *LinkRepository) Create(ctx context.Context, link *models.Link) (*models.Link, error) {
	const op = "database.postgres.LinkRepository.Create"

	rec := new(linkRecord)
	query := `INSERT INTO links(alias, original_url, password_hash, is_use_password, expire_at, max_clicks, status, user_id, referrer_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING *`

	err := r.db.GetContext(ctx, rec, query,
		link.Alias,
		link.OriginalURL,
		link.PasswordHash,
		link.IsUsePassword,
		link.ExpireAt,
		link.MaxClicks,
		string(link.Status),
		link.UserID,
		link.ReferrerID,
	)
	if err != nil {
		if isUniqueViolationError(err) {
			return nil, fmt.Errorf("%s: %w", op, database.ErrAliasExists)
		}

		return nil, fmt.Errorf("%s: failed to create link record: %w", op, err)
	}

	return rec.ToLink(), nil
}

func (r *LinkRepository) GetByID(ctx context.Context, id int64) (*models.Link, error) {
	const op = "database.postgres.LinkRepository.GetByID"

	rec := new(linkRecord)
	query := `SELECT * FROM links WHERE id = $1 AND deleted_at IS NULL`

	err := r.db.GetContext(ctx, rec, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, database.ErrLinkNotFound)
		}

		return nil, fmt.Errorf("%s: failed to get link record: %w", op, err)
	}

	return rec.ToLink(), nil
}

func (r *LinkRepository) GetByAlias(ctx context.Context, alias string) (*models.Link, error) {
	const op = "database.postgres.LinkRepository.GetByAlias"

	rec := new(linkRecord)
	query := `SELECT * FROM links WHERE alias = $1 AND deleted_at IS NULL`

	err := r.db.GetContext(ctx, rec, query, alias)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, database.ErrLinkNotFound)
		}

		return nil, fmt.Errorf("%s: failed to get link record: %w", op, err)
	}

	return rec.ToLink(), nil
}

func (r *LinkRepository) Update(ctx context.Context, link *models.Link) (*models.Link, error) {
	const op = "database.postgres.LinkRepository.Update"

	rec := new(linkRecord)
	query := `UPDATE links
		SET alias = $1,
			original_url = $2,
			password_hash = $3,
			is_use_password = $4,
			expire_at = $5,
			max_clicks = $6,
			referrer_id = $7,
			updated_at = now()
		WHERE id = $8 AND deleted_at IS NULL
		RETURNING *`

	err := r.db.GetContext(ctx, rec, query,
		link.Alias,
		link.OriginalURL,
		link.PasswordHash,
		link.IsUsePassword,
		link.ExpireAt,
		link.MaxClicks,
		link.ReferrerID,
		link.ID,
	)
	if err != nil {
		if isUniqueViolationError(err) {
			return nil, fmt.Errorf("%s: %w", op, database.ErrAliasExists)
		}
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, database.ErrLinkNotFound)
		}

		return nil, fmt.Errorf("%s: failed to update link record: %w", op, err)
	}

	return rec.ToLink(), nil
}

func (r *LinkRepository) UpdateStatus(ctx context.Context, id int64, status models.LinkStatus) error {
	const op = "database.postgres.LinkRepository.UpdateStatus"

	query := `UPDATE links SET status = $1, updated_at = now() WHERE id = $2 AND deleted_at IS NULL`

	res, err := r.db.ExecContext(ctx, query, string(status), id)
	if err != nil {
		return fmt.Errorf("%s: failed to update link status: %w", op, err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: failed to get affected rows: %w", op, err)
	}
	if rows == 0 {
		return fmt.Errorf("%s: %w", op, database.ErrLinkNotFound)
	}

	return nil
}

func (r *LinkRepository) SoftDelete(ctx context.Context, id int64) error {
	const op = "database.postgres.LinkRepository.SoftDelete"

	query := `UPDATE links SET deleted_at = now(), updated_at = now() WHERE id = $1 AND deleted_at IS NULL`

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("%s: failed to soft delete link record: %w", op, err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: failed to get affected rows: %w", op, err)
	}
	if rows == 0 {
		return fmt.Errorf("%s: %w", op, database.ErrLinkNotFound)
	}

	return nil
}

// IncrementClicks bumps the attempted-access counter in a single statement,
// so concurrent redirects never lose an increment.
func (r *LinkRepository) IncrementClicks(ctx context.Context, id int64) error {
	const op = "database.postgres.LinkRepository.IncrementClicks"

	query := `UPDATE links SET clicks_count = clicks_count + 1, updated_at = now() WHERE id = $1 AND deleted_at IS NULL`

	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("%s: failed to increment clicks count: %w", op, err)
	}

	return nil
}

func (r *LinkRepository) IncrementSuccessfulAccess(ctx context.Context, id int64) error {
	const op = "database.postgres.LinkRepository.IncrementSuccessfulAccess"

	query := `UPDATE links SET successful_access_count = successful_access_count + 1, updated_at = now() WHERE id = $1 AND deleted_at IS NULL`

	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("%s: failed to increment successful access count: %w", op, err)
	}

	return nil
}

func (r *LinkRepository) List(ctx context.Context, userID int64, opts models.LinkListOptions) (*models.LinkPage, error) {
	const op = "database.postgres.LinkRepository.List"

	where, args := buildListWhere(userID, opts)

	var total int64
	countQuery := `SELECT COUNT(*) FROM links WHERE ` + where
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, fmt.Errorf("%s: failed to count link records: %w", op, err)
	}

	query := `SELECT * FROM links WHERE ` + where +
		` ORDER BY ` + buildOrderBy(opts.Sort) +
		fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, opts.Limit, (opts.Page-1)*opts.Limit)

	var recs []linkRecord
	if err := r.db.SelectContext(ctx, &recs, query, args...); err != nil {
		return nil, fmt.Errorf("%s: failed to list link records: %w", op, err)
	}

	links := make([]*models.Link, 0, len(recs))
	for i := range recs {
		links = append(links, recs[i].ToLink())
	}

	return &models.LinkPage{
		Links: links,
		Total: total,
		Page:  opts.Page,
		Limit: opts.Limit,
	}, nil
}

func (r *LinkRepository) CountByStatus(ctx context.Context, userID int64, f models.StatsFilter) ([]models.StatusCount, error) {
	const op = "database.postgres.LinkRepository.CountByStatus"

	where, args := buildStatsWhere("", userID, f)
	query := `SELECT status, COUNT(*) AS count FROM links WHERE ` + where + ` GROUP BY status`

	rows := []struct {
		Status string `db:"status"`
		Count  int64  `db:"count"`
	}{}
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("%s: failed to count links by status: %w", op, err)
	}

	counts := make([]models.StatusCount, 0, len(rows))
	for _, row := range rows {
		counts = append(counts, models.StatusCount{
			Status: models.LinkStatus(row.Status),
			Count:  row.Count,
		})
	}

	return counts, nil
}

func (r *LinkRepository) Overview(ctx context.Context, userID int64, f models.StatsFilter) (*models.Overview, error) {
	const op = "database.postgres.LinkRepository.Overview"

	overview := new(models.Overview)
	where, args := buildStatsWhere("", userID, f)
	query := `SELECT COUNT(*) AS total_links,
			COALESCE(SUM(clicks_count), 0) AS total_clicks,
			COUNT(*) FILTER (WHERE is_use_password) AS protected_links,
			COUNT(*) FILTER (WHERE max_clicks IS NOT NULL) AS limited_links
		FROM links
		WHERE ` + where

	row := struct {
		TotalLinks     int64 `db:"total_links"`
		TotalClicks    int64 `db:"total_clicks"`
		ProtectedLinks int64 `db:"protected_links"`
		LimitedLinks   int64 `db:"limited_links"`
	}{}
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		return nil, fmt.Errorf("%s: failed to get links overview: %w", op, err)
	}

	overview.TotalLinks = row.TotalLinks
	overview.TotalClicks = row.TotalClicks
	overview.ProtectedLinks = row.ProtectedLinks
	overview.LimitedLinks = row.LimitedLinks

	return overview, nil
}

func buildListWhere(userID int64, opts models.LinkListOptions) (string, []any) {
	conds := []string{"user_id = $1", "deleted_at IS NULL"}
	args := []any{userID}

	if opts.Keyword != "" {
		kw := "%" + opts.Keyword + "%"
		conds = append(conds, fmt.Sprintf("(alias ILIKE $%d OR original_url ILIKE $%d)", len(args)+1, len(args)+2))
		args = append(args, kw, kw)
	}

	for _, f := range opts.Filters {
		col, ok := filterColumns[f.Column]
		if !ok {
			continue
		}

		switch f.Column {
		case "alias", "originalUrl":
			conds = append(conds, fmt.Sprintf("%s ILIKE $%d", col, len(args)+1))
			args = append(args, "%"+f.Text+"%")
		case "createdAt":
			from, to := parseDateRange(f.Text)
			if from != nil {
				conds = append(conds, fmt.Sprintf("created_at >= $%d", len(args)+1))
				args = append(args, *from)
			}
			if to != nil {
				conds = append(conds, fmt.Sprintf("created_at <= $%d", len(args)+1))
				args = append(args, *to)
			}
		default:
			conds = append(conds, fmt.Sprintf("%s = $%d", col, len(args)+1))
			args = append(args, f.Text)
		}
	}

	return strings.Join(conds, " AND "), args
}

func buildOrderBy(sort []models.SortRule) string {
	terms := make([]string, 0, len(sort))
	for _, s := range sort {
		col, ok := sortColumns[s.Column]
		if !ok {
			continue
		}

		order := "ASC"
		if strings.EqualFold(s.Order, "desc") {
			order = "DESC"
		}
		terms = append(terms, col+" "+order)
	}

	if len(terms) == 0 {
		return "created_at DESC"
	}
	return strings.Join(terms, ", ")
}

// buildStatsWhere builds the shared scoping clause for aggregation queries.
// prefix qualifies link columns when the query joins clicks.
func buildStatsWhere(prefix string, userID int64, f models.StatsFilter) (string, []any) {
	conds := []string{prefix + "user_id = $1", prefix + "deleted_at IS NULL"}
	args := []any{userID}

	if f.Alias != "" {
		conds = append(conds, fmt.Sprintf("%salias ILIKE $%d", prefix, len(args)+1))
		args = append(args, "%"+f.Alias+"%")
	}
	if f.From != nil {
		conds = append(conds, fmt.Sprintf("%screated_at >= $%d", prefix, len(args)+1))
		args = append(args, *f.From)
	}
	if f.To != nil {
		conds = append(conds, fmt.Sprintf("%screated_at <= $%d", prefix, len(args)+1))
		args = append(args, *f.To)
	}

	return strings.Join(conds, " AND "), args
}

// parseDateRange parses a "from..to" filter value, either side optional.
// Values are RFC 3339 timestamps or bare dates.
func parseDateRange(text string) (*time.Time, *time.Time) {
	parts := strings.SplitN(text, "..", 2)

	parse := func(s string) *time.Time {
		s = strings.TrimSpace(s)
		if s == "" {
			return nil
		}
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			return &t
		}
		if t, err := time.Parse("2006-01-02", s); err == nil {
			return &t
		}
		return nil
	}

	from := parse(parts[0])
	var to *time.Time
	if len(parts) == 2 {
		to = parse(parts[1])
	}

	return from, to
}
