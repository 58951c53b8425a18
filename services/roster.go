package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"roster-api/models"
	"roster-api/warehouse"
)

// Tabellennamen im Dataset.
const (
	TableUsers    = "users"
	TableGroups   = "groups"
	TableResearch = "research"
)

// Roster stellt die Lese- und Schreiboperationen auf users, groups und research bereit.
// Jede Operation entspricht einem SQL-Statement, Werte werden als Parameter gebunden.
type Roster struct {
	Warehouse warehouse.Executor
	Logger    *zap.Logger
}

// NewRoster erstellt eine neue Instanz des Roster-Service.
func NewRoster(wh warehouse.Executor, logger *zap.Logger) *Roster {
	return &Roster{
		Warehouse: wh,
		Logger:    logger,
	}
}

// ListUsers liefert alle User inklusive Gruppenname, aufsteigend nach ID.
func (r *Roster) ListUsers(ctx context.Context) ([]models.UserWithGroup, error) {
	query := fmt.Sprintf(`
		SELECT
			u.id,
			u.name,
			u.group_id,
			g.name AS group_name
		FROM %s u
		LEFT JOIN %s g ON u.group_id = g.id
		ORDER BY u.id`,
		r.Warehouse.Table(TableUsers), r.Warehouse.Table(TableGroups))

	rows, err := r.Warehouse.Query(ctx, query)
	if err != nil {
		r.Logger.Error("Error fetching users", zap.Error(err))
		return nil, err
	}

	users := make([]models.UserWithGroup, 0, len(rows))
	for _, row := range rows {
		u, err := scanUserWithGroup(row)
		if err != nil {
			r.Logger.Error("Error decoding user row", zap.Error(err))
			return nil, err
		}
		users = append(users, u)
	}
	return users, nil
}

// ListGroups liefert alle Gruppen, aufsteigend nach ID.
func (r *Roster) ListGroups(ctx context.Context) ([]models.Group, error) {
	query := fmt.Sprintf(`SELECT id, name FROM %s ORDER BY id`, r.Warehouse.Table(TableGroups))

	rows, err := r.Warehouse.Query(ctx, query)
	if err != nil {
		r.Logger.Error("Error fetching groups", zap.Error(err))
		return nil, err
	}

	groups := make([]models.Group, 0, len(rows))
	for _, row := range rows {
		var g models.Group
		if g.ID, err = row.Int64("id"); err == nil {
			g.Name, err = row.String("name")
		}
		if err != nil {
			r.Logger.Error("Error decoding group row", zap.Error(err))
			return nil, err
		}
		groups = append(groups, g)
	}
	return groups, nil
}

// CreateUser legt einen User mit der nächsten freien ID an und gibt den
// konstruierten Datensatz zurück. Ob groupID auf eine existierende Gruppe
// zeigt, wird nicht geprüft.
func (r *Roster) CreateUser(ctx context.Context, name string, groupID int64) (*models.User, error) {
	log := r.Logger.With(zap.String("name", name), zap.Int64("group_id", groupID))

	newID, err := r.NextID(ctx, TableUsers)
	if err != nil {
		log.Error("Error creating user", zap.Error(err))
		return nil, err
	}

	query := fmt.Sprintf(`INSERT INTO %s (id, name, group_id) VALUES (@id, @name, @group_id)`,
		r.Warehouse.Table(TableUsers))
	err = r.Warehouse.Exec(ctx, query,
		warehouse.Named("id", newID),
		warehouse.Named("name", name),
		warehouse.Named("group_id", groupID),
	)
	if err != nil {
		log.Error("Error creating user", zap.Int64("id", newID), zap.Error(err))
		return nil, err
	}

	log.Info("User created", zap.Int64("id", newID))
	return &models.User{ID: newID, Name: name, GroupID: groupID}, nil
}

// ListResearch liefert alle Research-Einträge, aufsteigend nach ID.
func (r *Roster) ListResearch(ctx context.Context) ([]models.Research, error) {
	query := fmt.Sprintf(`
		SELECT id, name1, name2, name3, name4, name5, name6, name7, name8, name9
		FROM %s
		ORDER BY id`,
		r.Warehouse.Table(TableResearch))

	rows, err := r.Warehouse.Query(ctx, query)
	if err != nil {
		r.Logger.Error("Error fetching research", zap.Error(err))
		return nil, err
	}

	entries := make([]models.Research, 0, len(rows))
	for _, row := range rows {
		entry, err := scanResearch(row)
		if err != nil {
			r.Logger.Error("Error decoding research row", zap.Error(err))
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// CreateResearch legt einen Eintrag an, bei dem name1 bis name9 alle auf value gesetzt sind.
func (r *Roster) CreateResearch(ctx context.Context, value string) (*models.Research, error) {
	newID, err := r.NextID(ctx, TableResearch)
	if err != nil {
		r.Logger.Error("Error creating research", zap.Error(err))
		return nil, err
	}

	query := fmt.Sprintf(`
		INSERT INTO %s
		(id, name1, name2, name3, name4, name5, name6, name7, name8, name9)
		VALUES (@id, @value, @value, @value, @value, @value, @value, @value, @value, @value)`,
		r.Warehouse.Table(TableResearch))
	err = r.Warehouse.Exec(ctx, query,
		warehouse.Named("id", newID),
		warehouse.Named("value", value),
	)
	if err != nil {
		r.Logger.Error("Error creating research", zap.Int64("id", newID), zap.Error(err))
		return nil, err
	}

	r.Logger.Info("Research created", zap.Int64("id", newID))
	entry := models.NewResearch(newID, value)
	return &entry, nil
}

// NextID liest die höchste ID der Tabelle und gibt sie plus eins zurück (1 bei leerer Tabelle).
//
// Lesen und anschließendes Einfügen sind nicht atomar: parallele Schreiber
// können dieselbe ID erhalten. Das Warehouse erzwingt keine Eindeutigkeit.
func (r *Roster) NextID(ctx context.Context, table string) (int64, error) {
	query := fmt.Sprintf(`SELECT COALESCE(MAX(id), 0) AS max_id FROM %s`, r.Warehouse.Table(table))

	rows, err := r.Warehouse.Query(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("failed to read max id of %s: %w", table, err)
	}
	if len(rows) == 0 {
		return 0, fmt.Errorf("max id query of %s returned no rows", table)
	}
	maxID, err := rows[0].Int64("max_id")
	if err != nil {
		return 0, fmt.Errorf("failed to decode max id of %s: %w", table, err)
	}
	return maxID + 1, nil
}

func scanUserWithGroup(row warehouse.Row) (models.UserWithGroup, error) {
	var (
		u   models.UserWithGroup
		err error
	)
	if u.ID, err = row.Int64("id"); err != nil {
		return u, err
	}
	if u.Name, err = row.String("name"); err != nil {
		return u, err
	}
	if u.GroupID, err = row.NullInt64("group_id"); err != nil {
		return u, err
	}
	u.GroupName, err = row.NullString("group_name")
	return u, err
}

func scanResearch(row warehouse.Row) (models.Research, error) {
	var (
		e     models.Research
		err   error
		names [9]string
	)
	if e.ID, err = row.Int64("id"); err != nil {
		return e, err
	}
	for i := range names {
		if names[i], err = row.String(fmt.Sprintf("name%d", i+1)); err != nil {
			return e, err
		}
	}
	e.Name1, e.Name2, e.Name3 = names[0], names[1], names[2]
	e.Name4, e.Name5, e.Name6 = names[3], names[4], names[5]
	e.Name7, e.Name8, e.Name9 = names[6], names[7], names[8]
	return e, nil
}
