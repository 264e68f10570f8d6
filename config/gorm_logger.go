package config

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DefaultSlowQuery is the duration above which a query is logged as slow
const DefaultSlowQuery = 200 * time.Millisecond

// GormLogger writes GORM's query and driver messages through zerolog
type GormLogger struct {
	log           zerolog.Logger
	level         logger.LogLevel
	slowThreshold time.Duration
}

// NewGormLogger returns a GORM logger at level backed by log
func NewGormLogger(log zerolog.Logger, level logger.LogLevel) *GormLogger {
	return &GormLogger{
		log:           log.With().Str("component", "gorm").Logger(),
		level:         level,
		slowThreshold: DefaultSlowQuery,
	}
}

func (l *GormLogger) LogMode(level logger.LogLevel) logger.Interface {
	clone := *l
	clone.level = level
	return &clone
}

func (l *GormLogger) Info(_ context.Context, msg string, data ...interface{}) {
	if l.level >= logger.Info {
		l.log.Info().Msgf(msg, data...)
	}
}

func (l *GormLogger) Warn(_ context.Context, msg string, data ...interface{}) {
	if l.level >= logger.Warn {
		l.log.Warn().Msgf(msg, data...)
	}
}

func (l *GormLogger) Error(_ context.Context, msg string, data ...interface{}) {
	if l.level >= logger.Error {
		l.log.Error().Msgf(msg, data...)
	}
}

// Trace logs failed queries at error, slow ones at warn and the rest at
// debug when the level is Info. Missing rows are not failures.
func (l *GormLogger) Trace(_ context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= logger.Silent {
		return
	}

	elapsed := time.Since(begin)
	switch {
	case err != nil && l.level >= logger.Error && !errors.Is(err, gorm.ErrRecordNotFound):
		sql, rows := fc()
		l.log.Error().Err(err).Dur("elapsed", elapsed).Str("sql", sql).Int64("rows", rows).Msg("Query failed")
	case l.slowThreshold > 0 && elapsed > l.slowThreshold && l.level >= logger.Warn:
		sql, rows := fc()
		l.log.Warn().Dur("elapsed", elapsed).Str("sql", sql).Int64("rows", rows).Msg("Slow query")
	case l.level >= logger.Info:
		sql, rows := fc()
		l.log.Debug().Dur("elapsed", elapsed).Str("sql", sql).Int64("rows", rows).Msg("Query")
	}
}
