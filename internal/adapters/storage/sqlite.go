package storage

// sqlite.go — directorio persistente de entidades y registro de apuestas.
//
// Estrategia:
//   - `teams` / `markets`: una fila por entidad canónica.
//   - `team_aliases` / `market_aliases`: una fila por alias, clave
//     compuesta (alias, entidad) para que el conflicto entre entidades
//     distintas sea visible al construir el alias map, no aquí.
//   - `meta`: una sola fila con la versión del directorio. Toda mutación
//     exitosa la incrementa dentro de la misma transacción; un snapshot
//     con versión vieja no debe reutilizarse.
//   - `bets`: apuestas con valor guardadas por el usuario, id uuid.

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/alejandrodnm/valuebet/internal/domain"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS teams (
    name  TEXT PRIMARY KEY,
    sport TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS team_aliases (
    alias TEXT NOT NULL,
    team  TEXT NOT NULL REFERENCES teams(name) ON DELETE CASCADE,
    PRIMARY KEY (alias, team)
);

CREATE TABLE IF NOT EXISTS markets (
    name        TEXT PRIMARY KEY,
    sport       TEXT NOT NULL DEFAULT '',
    type_codes  TEXT NOT NULL DEFAULT '',
    description TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS market_aliases (
    alias  TEXT NOT NULL,
    market TEXT NOT NULL REFERENCES markets(name) ON DELETE CASCADE,
    PRIMARY KEY (alias, market)
);

CREATE TABLE IF NOT EXISTS meta (
    id      INTEGER PRIMARY KEY CHECK (id = 1),
    version INTEGER NOT NULL DEFAULT 0
);
INSERT OR IGNORE INTO meta (id, version) VALUES (1, 0);

CREATE TABLE IF NOT EXISTS bets (
    id         TEXT PRIMARY KEY,
    bookmaker  TEXT NOT NULL,
    sport      TEXT NOT NULL,
    bet_text   TEXT NOT NULL,
    odds       REAL NOT NULL,
    price      REAL NOT NULL,
    decision   TEXT NOT NULL,
    created_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_team_aliases_team     ON team_aliases(team);
CREATE INDEX IF NOT EXISTS idx_market_aliases_market ON market_aliases(market);
CREATE INDEX IF NOT EXISTS idx_bets_created          ON bets(created_at DESC);
`

// SQLiteStore implementa ports.Directory y ports.BetLog usando SQLite
// (pure Go, sin CGo).
type SQLiteStore struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteStore abre (o crea) la base de datos en la ruta dada y aplica
// el schema.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("storage.NewSQLiteStore: open %q: %w", path, err)
	}
	db.SetMaxOpenConns(1) // SQLite es single-writer
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage.NewSQLiteStore: apply schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Close cierra la conexión a la base de datos limpiamente.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Snapshot carga el directorio completo etiquetado con la versión actual.
func (s *SQLiteStore) Snapshot(ctx context.Context) (domain.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var snap domain.Snapshot
	if err := s.db.QueryRowContext(ctx, `SELECT version FROM meta WHERE id = 1`).Scan(&snap.Version); err != nil {
		return domain.Snapshot{}, fmt.Errorf("storage.Snapshot: read version: %w", err)
	}

	teams, err := s.loadTeams(ctx)
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("storage.Snapshot: %w", err)
	}
	markets, err := s.loadMarkets(ctx)
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("storage.Snapshot: %w", err)
	}

	snap.Teams = teams
	snap.Markets = markets
	return snap, nil
}

// Version devuelve la versión actual del directorio.
func (s *SQLiteStore) Version(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var v int64
	if err := s.db.QueryRowContext(ctx, `SELECT version FROM meta WHERE id = 1`).Scan(&v); err != nil {
		return 0, fmt.Errorf("storage.Version: %w", err)
	}
	return v, nil
}

// AddTeam crea un equipo con sus aliases. Si ya existe no hace nada y la
// versión no cambia.
func (s *SQLiteStore) AddTeam(ctx context.Context, team domain.Team) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	name := strings.ToLower(strings.TrimSpace(team.Name))
	if name == "" {
		return fmt.Errorf("storage.AddTeam: empty team name")
	}

	return s.mutate(ctx, func(tx *sql.Tx) (bool, error) {
		res, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO teams (name, sport) VALUES (?, ?)`, name, team.Sport)
		if err != nil {
			return false, err
		}
		n, _ := res.RowsAffected()
		if n == 0 {
			return false, nil
		}
		for _, a := range team.Aliases {
			if a = strings.ToLower(strings.TrimSpace(a)); a != "" {
				if _, err := tx.ExecContext(ctx,
					`INSERT OR IGNORE INTO team_aliases (alias, team) VALUES (?, ?)`, a, name); err != nil {
					return false, err
				}
			}
		}
		return true, nil
	})
}

// AddMarket crea un mercado con sus aliases y códigos de tipo. Si ya
// existe no hace nada.
func (s *SQLiteStore) AddMarket(ctx context.Context, market domain.Market) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	name := strings.ToLower(strings.TrimSpace(market.Name))
	if name == "" {
		return fmt.Errorf("storage.AddMarket: empty market name")
	}

	return s.mutate(ctx, func(tx *sql.Tx) (bool, error) {
		res, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO markets (name, sport, type_codes, description) VALUES (?, ?, ?, ?)`,
			name, market.Sport, strings.Join(market.TypeCodes, ","), market.Description)
		if err != nil {
			return false, err
		}
		n, _ := res.RowsAffected()
		if n == 0 {
			return false, nil
		}
		for _, a := range market.Aliases {
			if a = strings.ToLower(strings.TrimSpace(a)); a != "" {
				if _, err := tx.ExecContext(ctx,
					`INSERT OR IGNORE INTO market_aliases (alias, market) VALUES (?, ?)`, a, name); err != nil {
					return false, err
				}
			}
		}
		return true, nil
	})
}

// AddTeamAlias añade un alias a un equipo existente.
func (s *SQLiteStore) AddTeamAlias(ctx context.Context, team, alias string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	alias = strings.ToLower(strings.TrimSpace(alias))
	if alias == "" {
		return fmt.Errorf("storage.AddTeamAlias: empty alias")
	}

	return s.mutate(ctx, func(tx *sql.Tx) (bool, error) {
		var exists int
		if err := tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM teams WHERE name = ?`, team).Scan(&exists); err != nil {
			return false, err
		}
		if exists == 0 {
			return false, fmt.Errorf("unknown team %q", team)
		}
		res, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO team_aliases (alias, team) VALUES (?, ?)`, alias, team)
		if err != nil {
			return false, err
		}
		n, _ := res.RowsAffected()
		return n > 0, nil
	})
}

// AddMarketAlias añade un alias a un mercado existente.
func (s *SQLiteStore) AddMarketAlias(ctx context.Context, market, alias string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	alias = strings.ToLower(strings.TrimSpace(alias))
	if alias == "" {
		return fmt.Errorf("storage.AddMarketAlias: empty alias")
	}

	return s.mutate(ctx, func(tx *sql.Tx) (bool, error) {
		var exists int
		if err := tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM markets WHERE name = ?`, market).Scan(&exists); err != nil {
			return false, err
		}
		if exists == 0 {
			return false, fmt.Errorf("unknown market %q", market)
		}
		res, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO market_aliases (alias, market) VALUES (?, ?)`, alias, market)
		if err != nil {
			return false, err
		}
		n, _ := res.RowsAffected()
		return n > 0, nil
	})
}

// SaveBet registra una apuesta guardada.
func (s *SQLiteStore) SaveBet(ctx context.Context, bet domain.SavedBet) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO bets (id, bookmaker, sport, bet_text, odds, price, decision, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		bet.ID, bet.Bookmaker, bet.Sport, bet.Text, bet.Odds, bet.Price,
		bet.Decision.String(), bet.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("storage.SaveBet: %w", err)
	}
	return nil
}

// RecentBets devuelve las últimas apuestas guardadas, la más nueva primero.
func (s *SQLiteStore) RecentBets(ctx context.Context, limit int) ([]domain.SavedBet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, bookmaker, sport, bet_text, odds, price, decision, created_at
		 FROM bets ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("storage.RecentBets: %w", err)
	}
	defer rows.Close()

	var bets []domain.SavedBet
	for rows.Next() {
		var b domain.SavedBet
		var decision string
		var created time.Time
		if err := rows.Scan(&b.ID, &b.Bookmaker, &b.Sport, &b.Text, &b.Odds, &b.Price, &decision, &created); err != nil {
			return nil, fmt.Errorf("storage.RecentBets: scan: %w", err)
		}
		b.Decision = parseDecision(decision)
		b.CreatedAt = created
		bets = append(bets, b)
	}
	return bets, rows.Err()
}

// mutate ejecuta fn en una transacción y, si fn reporta un cambio real,
// incrementa la versión del directorio en la misma transacción.
func (s *SQLiteStore) mutate(ctx context.Context, fn func(tx *sql.Tx) (bool, error)) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	changed, err := fn(tx)
	if err != nil {
		return err
	}
	if changed {
		if _, err := tx.ExecContext(ctx, `UPDATE meta SET version = version + 1 WHERE id = 1`); err != nil {
			return fmt.Errorf("bump version: %w", err)
		}
	}
	return tx.Commit()
}

func (s *SQLiteStore) loadTeams(ctx context.Context) ([]domain.Team, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name, sport FROM teams ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var teams []domain.Team
	index := map[string]int{}
	for rows.Next() {
		var t domain.Team
		if err := rows.Scan(&t.Name, &t.Sport); err != nil {
			return nil, err
		}
		index[t.Name] = len(teams)
		teams = append(teams, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	aliasRows, err := s.db.QueryContext(ctx, `SELECT alias, team FROM team_aliases ORDER BY alias`)
	if err != nil {
		return nil, err
	}
	defer aliasRows.Close()
	for aliasRows.Next() {
		var alias, team string
		if err := aliasRows.Scan(&alias, &team); err != nil {
			return nil, err
		}
		if i, ok := index[team]; ok {
			teams[i].Aliases = append(teams[i].Aliases, alias)
		}
	}
	return teams, aliasRows.Err()
}

func (s *SQLiteStore) loadMarkets(ctx context.Context) ([]domain.Market, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name, sport, type_codes, description FROM markets ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var markets []domain.Market
	index := map[string]int{}
	for rows.Next() {
		var m domain.Market
		var codes string
		if err := rows.Scan(&m.Name, &m.Sport, &codes, &m.Description); err != nil {
			return nil, err
		}
		if codes != "" {
			m.TypeCodes = strings.Split(codes, ",")
		}
		index[m.Name] = len(markets)
		markets = append(markets, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	aliasRows, err := s.db.QueryContext(ctx, `SELECT alias, market FROM market_aliases ORDER BY alias`)
	if err != nil {
		return nil, err
	}
	defer aliasRows.Close()
	for aliasRows.Next() {
		var alias, market string
		if err := aliasRows.Scan(&alias, &market); err != nil {
			return nil, err
		}
		if i, ok := index[market]; ok {
			markets[i].Aliases = append(markets[i].Aliases, alias)
		}
	}
	return markets, aliasRows.Err()
}

func parseDecision(s string) domain.ValueDecision {
	switch s {
	case "VALUE":
		return domain.Value
	case "2PC":
		return domain.TwoPercent
	}
	return domain.NotValue
}
