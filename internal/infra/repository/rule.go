package repository

import (
	"context"
	"encoding/json"
	"errors"

	"pricing-engine/internal/domain/pricing"
	"pricing-engine/internal/infra"
	"pricing-engine/internal/usecase/queries"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const pgErrCodeUniqueViolation = "23505"

// RuleRepository persists pricing rules. The conditions and formula columns
// are JSONB documents; decoding ignores unknown fields so documents written
// by a newer console version still load.
type RuleRepository struct {
	pool *pgxpool.Pool
}

func NewRuleRepository(pool *pgxpool.Pool) *RuleRepository {
	return &RuleRepository{pool: pool}
}

func (r *RuleRepository) Create(ctx context.Context, rule *pricing.Rule) (int64, error) {
	conditions, formula, err := marshalDocuments(rule)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to encode rule documents", err)
	}

	var id int64
	err = r.pool.QueryRow(ctx, `
		INSERT INTO pricing_rules (name, conditions, formula, priority, is_active, target_group, starts_at, ends_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`,
		rule.Name, conditions, formula, rule.Priority, rule.IsActive,
		rule.TargetGroup, rule.StartsAt, rule.EndsAt,
	).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, infra.WrapRepoErr("rule name already exists", err, infra.KindDuplicateKey)
		}
		return 0, infra.WrapRepoErr("failed to insert pricing rule", err)
	}
	return id, nil
}

func (r *RuleRepository) Update(ctx context.Context, rule *pricing.Rule) error {
	conditions, formula, err := marshalDocuments(rule)
	if err != nil {
		return infra.WrapRepoErr("failed to encode rule documents", err)
	}

	tag, err := r.pool.Exec(ctx, `
		UPDATE pricing_rules
		SET name = $2, conditions = $3, formula = $4, priority = $5,
		    is_active = $6, target_group = $7, starts_at = $8, ends_at = $9,
		    updated_at = now()
		WHERE id = $1`,
		rule.ID, rule.Name, conditions, formula, rule.Priority,
		rule.IsActive, rule.TargetGroup, rule.StartsAt, rule.EndsAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return infra.WrapRepoErr("rule name already exists", err, infra.KindDuplicateKey)
		}
		return infra.WrapRepoErr("failed to update pricing rule", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("pricing rule not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *RuleRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM pricing_rules WHERE id = $1`, id)
	if err != nil {
		return infra.WrapRepoErr("failed to delete pricing rule", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("pricing rule not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *RuleRepository) FindByID(ctx context.Context, id int64) (*queries.RuleView, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, name, conditions, formula, priority, is_active, target_group, starts_at, ends_at, created_at, updated_at
		FROM pricing_rules
		WHERE id = $1`, id)

	view, err := scanRuleView(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("pricing rule not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find pricing rule", err)
	}
	return view, nil
}

func (r *RuleRepository) FindAll(ctx context.Context, filter queries.RuleFilter) ([]*queries.RuleListItem, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, priority, is_active, target_group, starts_at, ends_at, created_at
		FROM pricing_rules
		WHERE ($1 = false OR is_active = true)
		  AND ($2::text IS NULL OR target_group = $2)
		ORDER BY priority DESC, id ASC`,
		filter.ActiveOnly, filter.TargetGroup,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list pricing rules", err)
	}
	defer rows.Close()

	var items []*queries.RuleListItem
	for rows.Next() {
		item := &queries.RuleListItem{}
		if err := rows.Scan(
			&item.ID, &item.Name, &item.Priority, &item.IsActive,
			&item.TargetGroup, &item.StartsAt, &item.EndsAt, &item.CreatedAt,
		); err != nil {
			return nil, infra.WrapRepoErr("failed to scan pricing rule row", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read pricing rule rows", err)
	}
	return items, nil
}

// ListActive loads the full documents of every active rule, the set the
// quote path evaluates against.
func (r *RuleRepository) ListActive(ctx context.Context) ([]pricing.Rule, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, conditions, formula, priority, is_active, target_group, starts_at, ends_at, created_at, updated_at
		FROM pricing_rules
		WHERE is_active = true
		ORDER BY id ASC`)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to load active pricing rules", err)
	}
	defer rows.Close()

	var rules []pricing.Rule
	for rows.Next() {
		view, err := scanRuleView(rows)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan pricing rule row", err)
		}
		rules = append(rules, view.ToRule())
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read pricing rule rows", err)
	}
	return rules, nil
}

func scanRuleView(row pgx.Row) (*queries.RuleView, error) {
	var (
		view          queries.RuleView
		conditionsDoc []byte
		formulaDoc    []byte
	)
	err := row.Scan(
		&view.ID, &view.Name, &conditionsDoc, &formulaDoc, &view.Priority,
		&view.IsActive, &view.TargetGroup, &view.StartsAt, &view.EndsAt,
		&view.CreatedAt, &view.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(conditionsDoc, &view.Conditions); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(formulaDoc, &view.Formula); err != nil {
		return nil, err
	}
	return &view, nil
}

func marshalDocuments(rule *pricing.Rule) (conditions, formula []byte, err error) {
	conditions, err = json.Marshal(rule.Conditions)
	if err != nil {
		return nil, nil, err
	}
	formula, err = json.Marshal(rule.Formula)
	if err != nil {
		return nil, nil, err
	}
	return conditions, formula, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgErrCodeUniqueViolation
}
