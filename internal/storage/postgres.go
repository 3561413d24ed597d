package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bathroomcodes/bathroomcodes_api/internal/model"
)

// uniqueViolation is the Postgres error code raised when an insert breaks a
// unique constraint.
const uniqueViolation = "23505"

type Postgres struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

func (p *Postgres) FindByProviderPlaceID(ctx context.Context, providerPlaceID string) (model.Location, error) {
	stmt := `
        SELECT id, provider_place_id, name, address, lat, lng, created_at
        FROM locations
        WHERE provider_place_id = $1
    `

	var loc model.Location
	err := p.pool.QueryRow(ctx, stmt, providerPlaceID).Scan(
		&loc.ID,
		&loc.ProviderPlaceID,
		&loc.Name,
		&loc.Address,
		&loc.Lat,
		&loc.Lng,
		&loc.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Location{}, ErrNotFound
		}
		return model.Location{}, fmt.Errorf("finding location by provider place id: %w", err)
	}

	return loc, nil
}

func (p *Postgres) InsertLocation(ctx context.Context, loc model.Location) (model.Location, error) {
	stmt := `
        INSERT INTO locations (id, provider_place_id, name, address, lat, lng)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING created_at
    `

	err := p.pool.QueryRow(ctx, stmt,
		loc.ID,
		loc.ProviderPlaceID,
		loc.Name,
		loc.Address,
		loc.Lat,
		loc.Lng,
	).Scan(&loc.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return model.Location{}, ErrDuplicatePlace
		}
		return model.Location{}, fmt.Errorf("creating location: %w", err)
	}

	return loc, nil
}

func (p *Postgres) InsertCode(ctx context.Context, code model.Code) (model.Code, error) {
	stmt := `
        INSERT INTO codes (id, location_id, code, notes)
        VALUES ($1, $2, $3, $4)
        RETURNING created_at
    `

	err := p.pool.QueryRow(ctx, stmt,
		code.ID,
		code.LocationID,
		code.Code,
		code.Notes,
	).Scan(&code.CreatedAt)
	if err != nil {
		return model.Code{}, fmt.Errorf("creating code: %w", err)
	}

	return code, nil
}

func (p *Postgres) ListLocations(ctx context.Context, includeCodes bool) ([]model.Location, error) {
	stmt := `
        SELECT id, provider_place_id, name, address, lat, lng, created_at
        FROM locations
        ORDER BY created_at, id
    `

	rows, err := p.pool.Query(ctx, stmt)
	if err != nil {
		return nil, fmt.Errorf("listing locations: %w", err)
	}
	defer rows.Close()

	var locations []model.Location
	for rows.Next() {
		var loc model.Location
		err := rows.Scan(
			&loc.ID,
			&loc.ProviderPlaceID,
			&loc.Name,
			&loc.Address,
			&loc.Lat,
			&loc.Lng,
			&loc.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning location: %w", err)
		}
		locations = append(locations, loc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing locations: %w", err)
	}

	if !includeCodes || len(locations) == 0 {
		return locations, nil
	}

	codes, err := p.listCodes(ctx)
	if err != nil {
		return nil, err
	}
	for i := range locations {
		locations[i].Codes = codes[locations[i].ID]
	}

	return locations, nil
}

func (p *Postgres) listCodes(ctx context.Context) (map[uuid.UUID][]model.Code, error) {
	stmt := `
        SELECT id, location_id, code, notes, created_at
        FROM codes
        ORDER BY created_at DESC, id
    `

	rows, err := p.pool.Query(ctx, stmt)
	if err != nil {
		return nil, fmt.Errorf("listing codes: %w", err)
	}
	defer rows.Close()

	codes := make(map[uuid.UUID][]model.Code)
	for rows.Next() {
		var c model.Code
		err := rows.Scan(&c.ID, &c.LocationID, &c.Code, &c.Notes, &c.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scanning code: %w", err)
		}
		codes[c.LocationID] = append(codes[c.LocationID], c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing codes: %w", err)
	}

	return codes, nil
}
