package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/platform-engineering/copilot-usage-dashboard/internal/models"
)

// SQLiteStore reads metrics and seat history from the local SQLite cache.
// The connection is a process-wide singleton opened on first use; gorm's
// pooled *sql.DB handles concurrent readers.
type SQLiteStore struct {
	path   string
	logger *zap.Logger

	once    sync.Once
	db      *gorm.DB
	openErr error
}

func NewSQLiteStore(path string, logger *zap.Logger) *SQLiteStore {
	return &SQLiteStore{path: path, logger: logger}
}

func (s *SQLiteStore) Name() string { return "sqlite" }

func (s *SQLiteStore) conn() (*gorm.DB, error) {
	s.once.Do(func() {
		db, err := gorm.Open(sqlite.Open(s.path), &gorm.Config{
			Logger: gormlogger.Default.LogMode(gormlogger.Silent),
		})
		if err != nil {
			s.openErr = fmt.Errorf("opening sqlite cache %s: %w", s.path, err)
			return
		}
		s.db = db
	})
	return s.db, s.openErr
}

func (s *SQLiteStore) Close() error {
	if s.db == nil {
		return nil
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

type historyRow struct {
	Data string
}

// QueryMetrics returns cached metric records, newest first, filtered by date
// range and scope via json_extract predicates on the embedded document.
func (s *SQLiteStore) QueryMetrics(ctx context.Context, filter models.MetricsFilter) ([]models.UsageMetric, error) {
	db, err := s.conn()
	if err != nil {
		return nil, err
	}

	query := "SELECT data FROM metrics_history"
	var conditions []string
	var args []any

	if filter.StartDate != nil && filter.EndDate != nil {
		conditions = append(conditions, "date BETWEEN ? AND ?")
		args = append(args, filter.StartDate.Format(dateLayout), filter.EndDate.Format(dateLayout))
	}
	conditions, args = appendJSONScopeConditions(conditions, args, filter.Enterprise, filter.Organization, filter.Team)

	query += whereClause(conditions) + " ORDER BY date DESC"

	var rows []historyRow
	if err := db.WithContext(ctx).Raw(query, args...).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("querying metrics_history: %w", err)
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}

	metrics := make([]models.UsageMetric, 0, len(rows))
	for _, row := range rows {
		var m models.UsageMetric
		if err := json.Unmarshal([]byte(row.Data), &m); err != nil {
			s.logger.Warn("skipping malformed metrics row", zap.Error(err))
			continue
		}
		metrics = append(metrics, m)
	}
	return metrics, nil
}

// QuerySeats returns the cached seat snapshot for the filter's date, or the
// most recent snapshot when no date is given.
func (s *SQLiteStore) QuerySeats(ctx context.Context, filter models.SeatsFilter) (*models.SeatsSnapshot, error) {
	db, err := s.conn()
	if err != nil {
		return nil, err
	}

	query := "SELECT data FROM seats_history"
	var conditions []string
	var args []any

	if filter.Date != nil {
		conditions = append(conditions, "date = ?")
		args = append(args, filter.Date.Format(dateLayout))
	}
	conditions, args = appendJSONScopeConditions(conditions, args, filter.Enterprise, filter.Organization, filter.Team)

	query += whereClause(conditions)
	if filter.Date == nil {
		query += " ORDER BY date DESC LIMIT 1"
	}

	var rows []historyRow
	if err := db.WithContext(ctx).Raw(query, args...).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("querying seats_history: %w", err)
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}

	var snapshot models.SeatsSnapshot
	if err := json.Unmarshal([]byte(rows[0].Data), &snapshot); err != nil {
		return nil, fmt.Errorf("unmarshaling seats row: %w", err)
	}
	return &snapshot, nil
}

func appendJSONScopeConditions(conditions []string, args []any, enterprise, organization, team string) ([]string, []any) {
	if enterprise != "" {
		conditions = append(conditions, "json_extract(data, '$.enterprise') = ?")
		args = append(args, enterprise)
	}
	if organization != "" {
		conditions = append(conditions, "json_extract(data, '$.organization') = ?")
		args = append(args, organization)
	}
	if team != "" {
		conditions = append(conditions, "json_extract(data, '$.team') = ?")
		args = append(args, team)
	}
	return conditions, args
}

func whereClause(conditions []string) string {
	if len(conditions) == 0 {
		return ""
	}
	clause := " WHERE " + conditions[0]
	for _, c := range conditions[1:] {
		clause += " AND " + c
	}
	return clause
}
