package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"lendflow/internal/models"
)

var ErrProjectNotFound = errors.New("project not found")

type ProjectRepository struct {
	pool *pgxpool.Pool
}

func NewProjectRepository(pool *pgxpool.Pool) *ProjectRepository {
	return &ProjectRepository{pool: pool}
}

const projectColumns = `
	id, builder_id, name, city, state, rera_number, status,
	units_total, price_min, price_max, created_at, updated_at
`

func (r *ProjectRepository) Create(ctx context.Context, project models.Project) error {
	const query = `
		INSERT INTO projects (
			id, builder_id, name, city, state, rera_number, status,
			units_total, price_min, price_max, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW()
		)
	`

	_, err := r.pool.Exec(ctx, query,
		project.ID,
		project.BuilderID,
		project.Name,
		project.City,
		project.State,
		project.RERANumber,
		project.Status,
		project.UnitsTotal,
		project.PriceMin,
		project.PriceMax,
	)
	return err
}

func (r *ProjectRepository) GetByID(ctx context.Context, id string) (models.Project, error) {
	const query = `SELECT ` + projectColumns + ` FROM projects WHERE id = $1`
	row := r.pool.QueryRow(ctx, query, id)
	var project models.Project
	if err := row.Scan(
		&project.ID,
		&project.BuilderID,
		&project.Name,
		&project.City,
		&project.State,
		&project.RERANumber,
		&project.Status,
		&project.UnitsTotal,
		&project.PriceMin,
		&project.PriceMax,
		&project.CreatedAt,
		&project.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Project{}, ErrProjectNotFound
		}
		return models.Project{}, err
	}
	return project, nil
}

func (r *ProjectRepository) ListByBuilder(ctx context.Context, builderID string) ([]models.Project, error) {
	const query = `
		SELECT ` + projectColumns + `
		FROM projects
		WHERE builder_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, builderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []models.Project
	for rows.Next() {
		var project models.Project
		if err := rows.Scan(
			&project.ID,
			&project.BuilderID,
			&project.Name,
			&project.City,
			&project.State,
			&project.RERANumber,
			&project.Status,
			&project.UnitsTotal,
			&project.PriceMin,
			&project.PriceMax,
			&project.CreatedAt,
			&project.UpdatedAt,
		); err != nil {
			return nil, err
		}
		projects = append(projects, project)
	}
	return projects, rows.Err()
}

func (r *ProjectRepository) Update(ctx context.Context, project models.Project) error {
	const query = `
		UPDATE projects
		SET name = $2, city = $3, state = $4, rera_number = $5, status = $6,
		    units_total = $7, price_min = $8, price_max = $9, updated_at = NOW()
		WHERE id = $1
	`
	cmd, err := r.pool.Exec(ctx, query,
		project.ID,
		project.Name,
		project.City,
		project.State,
		project.RERANumber,
		project.Status,
		project.UnitsTotal,
		project.PriceMin,
		project.PriceMax,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrProjectNotFound
	}
	return nil
}

func (r *ProjectRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM projects WHERE id = $1`
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrProjectNotFound
	}
	return nil
}

func (r *ProjectRepository) CreateAPFDocument(ctx context.Context, apf models.APFDocument) error {
	const query = `
		INSERT INTO apf_documents (id, project_id, document_id, lfi_name, status, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
	`
	_, err := r.pool.Exec(ctx, query, apf.ID, apf.ProjectID, apf.DocumentID, apf.LFIName, apf.Status)
	return err
}

func (r *ProjectRepository) ListAPFDocuments(ctx context.Context, projectID string) ([]models.APFDocument, error) {
	const query = `
		SELECT id, project_id, document_id, lfi_name, status, created_at
		FROM apf_documents
		WHERE project_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []models.APFDocument
	for rows.Next() {
		var apf models.APFDocument
		if err := rows.Scan(&apf.ID, &apf.ProjectID, &apf.DocumentID, &apf.LFIName, &apf.Status, &apf.CreatedAt); err != nil {
			return nil, err
		}
		docs = append(docs, apf)
	}
	return docs, rows.Err()
}

func (r *ProjectRepository) CreateInventoryUnit(ctx context.Context, unit models.InventoryUnit) error {
	const query = `
		INSERT INTO inventory_units (id, project_id, tower, floor, unit_number, carpet_area, price, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
	`
	_, err := r.pool.Exec(ctx, query,
		unit.ID, unit.ProjectID, unit.Tower, unit.Floor, unit.UnitNumber, unit.CarpetArea, unit.Price, unit.Status,
	)
	return err
}

func (r *ProjectRepository) ListInventory(ctx context.Context, projectID string) ([]models.InventoryUnit, error) {
	const query = `
		SELECT id, project_id, tower, floor, unit_number, carpet_area, price, status, created_at
		FROM inventory_units
		WHERE project_id = $1
		ORDER BY tower, floor, unit_number
	`

	rows, err := r.pool.Query(ctx, query, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var units []models.InventoryUnit
	for rows.Next() {
		var unit models.InventoryUnit
		if err := rows.Scan(
			&unit.ID, &unit.ProjectID, &unit.Tower, &unit.Floor, &unit.UnitNumber,
			&unit.CarpetArea, &unit.Price, &unit.Status, &unit.CreatedAt,
		); err != nil {
			return nil, err
		}
		units = append(units, unit)
	}
	return units, rows.Err()
}
