package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/appclacks/slo-dashboard/pkg/slo/aggregates"
	"github.com/jmoiron/sqlx"
	er "github.com/mcorbin/corbierror"
)

type dbSLO struct {
	ID                string
	Name              string
	Description       string
	Service           string
	Target            float64
	Status            string
	Owner             string
	Tags              *string
	CurrentValue      *float64 `db:"current_value"`
	MonitoringEnabled bool     `db:"monitoring_enabled"`
	Version           int
	Config            *string
	CreatedAt         time.Time `db:"created_at"`
	LastModified      time.Time `db:"last_modified"`
}

const sloColumns = "slo.id, slo.name, slo.description, slo.service, slo.target, slo.status, slo.owner, slo.tags, slo.current_value, slo.monitoring_enabled, slo.version, slo.config, slo.created_at, slo.last_modified"

func toSLO(row *dbSLO) (*aggregates.SLO, error) {
	tags := []string{}
	if err := fromJSONString(row.Tags, &tags); err != nil {
		return nil, err
	}
	var config *aggregates.Form
	if err := fromJSONString(row.Config, &config); err != nil {
		return nil, err
	}
	return &aggregates.SLO{
		ID:                row.ID,
		Name:              row.Name,
		Description:       row.Description,
		Service:           row.Service,
		Target:            row.Target,
		Status:            aggregates.Status(row.Status),
		Owner:             row.Owner,
		Tags:              tags,
		CurrentValue:      row.CurrentValue,
		MonitoringEnabled: row.MonitoringEnabled,
		Version:           row.Version,
		Config:            config,
		CreatedAt:         row.CreatedAt.UTC(),
		LastModified:      row.LastModified.UTC(),
	}, nil
}

func fromSLO(slo *aggregates.SLO) (*dbSLO, error) {
	tags, err := toJSONString(slo.Tags)
	if err != nil {
		return nil, err
	}
	var config *string
	if slo.Config != nil {
		config, err = toJSONString(slo.Config)
		if err != nil {
			return nil, err
		}
	}
	return &dbSLO{
		ID:                slo.ID,
		Name:              slo.Name,
		Description:       slo.Description,
		Service:           slo.Service,
		Target:            slo.Target,
		Status:            string(slo.Status),
		Owner:             slo.Owner,
		Tags:              tags,
		CurrentValue:      slo.CurrentValue,
		MonitoringEnabled: slo.MonitoringEnabled,
		Version:           slo.Version,
		Config:            config,
		CreatedAt:         slo.CreatedAt,
		LastModified:      slo.LastModified,
	}, nil
}

const insertSLOQuery = "INSERT INTO slo (id, name, description, service, target, status, owner, tags, current_value, monitoring_enabled, version, config, created_at, last_modified) VALUES (:id, :name, :description, :service, :target, :status, :owner, :tags, :current_value, :monitoring_enabled, :version, :config, :created_at, :last_modified)"

const updateSLOQuery = "UPDATE slo SET name=:name, description=:description, service=:service, target=:target, status=:status, owner=:owner, tags=:tags, current_value=:current_value, monitoring_enabled=:monitoring_enabled, version=:version, config=:config, last_modified=:last_modified WHERE id=:id"

func (c *Database) inTx(ctx context.Context, f func(tx *sqlx.Tx) error) error {
	tx, err := c.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("fail to start transaction: %w", err)
	}
	shouldRollback := true
	defer func() {
		if shouldRollback {
			err := tx.Rollback()
			if err != nil {
				c.Logger.Error(err.Error())
			}
		}
	}()
	if err := f(tx); err != nil {
		return err
	}
	err = tx.Commit()
	if err != nil {
		return err
	}
	shouldRollback = false
	return nil
}

func insertSLO(ctx context.Context, tx *sqlx.Tx, slo *aggregates.SLO) error {
	var exists dbSLO
	err := tx.GetContext(ctx, &exists, "SELECT slo.id, slo.name FROM slo WHERE id=$1", slo.ID)
	if err != nil {
		if err != sql.ErrNoRows {
			return fmt.Errorf("fail to get SLO %s: %w", slo.ID, err)
		}
	} else {
		return er.Newf("a SLO with id %s already exists", er.Conflict, true, slo.ID)
	}
	row, err := fromSLO(slo)
	if err != nil {
		return err
	}
	result, err := tx.NamedExecContext(ctx, insertSLOQuery, row)
	if err != nil {
		return fmt.Errorf("fail to create SLO %s: %w", slo.Name, err)
	}
	return checkResult(result, 1)
}

func updateSLO(ctx context.Context, tx *sqlx.Tx, slo *aggregates.SLO) error {
	row, err := fromSLO(slo)
	if err != nil {
		return err
	}
	result, err := tx.NamedExecContext(ctx, updateSLOQuery, row)
	if err != nil {
		return fmt.Errorf("fail to update SLO %s: %w", slo.ID, err)
	}
	return checkResult(result, 1)
}

func (c *Database) CreateSLO(ctx context.Context, slo *aggregates.SLO) error {
	return c.inTx(ctx, func(tx *sqlx.Tx) error {
		return insertSLO(ctx, tx, slo)
	})
}

func (c *Database) UpdateSLO(ctx context.Context, slo *aggregates.SLO) error {
	return c.inTx(ctx, func(tx *sqlx.Tx) error {
		return updateSLO(ctx, tx, slo)
	})
}

func (c *Database) GetSLO(ctx context.Context, id string) (*aggregates.SLO, error) {
	row := dbSLO{}
	err := c.db.GetContext(ctx, &row, fmt.Sprintf("SELECT %s FROM slo WHERE id=$1", sloColumns), id)
	if err != nil {
		if err != sql.ErrNoRows {
			return nil, fmt.Errorf("fail to get SLO %s: %w", id, err)
		} else {
			return nil, er.New("SLO not found", er.NotFound, true)
		}
	}
	return toSLO(&row)
}

func (c *Database) DeleteSLO(ctx context.Context, id string) error {
	result, err := c.db.ExecContext(ctx, "DELETE FROM slo WHERE id=$1", id)
	if err != nil {
		return fmt.Errorf("fail to delete SLO: %w", err)
	}
	err = checkResult(result, 1)
	if err != nil {
		return err
	}
	return nil
}

func (c *Database) ListSLOs(ctx context.Context) ([]*aggregates.SLO, error) {
	rows := []dbSLO{}
	err := c.db.SelectContext(ctx, &rows, fmt.Sprintf("SELECT %s FROM slo ORDER BY created_at, id", sloColumns))
	if err != nil {
		return nil, fmt.Errorf("fail to list SLOs: %w", err)
	}
	result := []*aggregates.SLO{}
	for i := range rows {
		slo, err := toSLO(&rows[i])
		if err != nil {
			return nil, err
		}
		result = append(result, slo)
	}
	return result, nil
}

func (c *Database) CountSLOs(ctx context.Context) (int, error) {
	var count int
	row := c.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM slo")
	err := row.Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

// ApplyChanges runs all the changes of a bulk action in one transaction.
func (c *Database) ApplyChanges(ctx context.Context, changes aggregates.Changes) error {
	return c.inTx(ctx, func(tx *sqlx.Tx) error {
		for _, id := range changes.Deleted {
			if _, err := tx.ExecContext(ctx, "DELETE FROM slo WHERE id=$1", id); err != nil {
				return fmt.Errorf("fail to delete SLO %s: %w", id, err)
			}
		}
		for _, slo := range changes.Updated {
			if err := updateSLO(ctx, tx, slo); err != nil {
				return err
			}
		}
		for _, slo := range changes.Created {
			if err := insertSLO(ctx, tx, slo); err != nil {
				return err
			}
		}
		return nil
	})
}
