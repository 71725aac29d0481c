package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	gormlogger "gorm.io/gorm/logger"
)

func TestOperationFromSQL(t *testing.T) {
	cases := map[string]string{
		`SELECT * FROM "raw_materials"`:                         "SELECT",
		`WITH x AS (SELECT 1) UPDATE products SET name = 'a'`:  "SELECT",
		`  insert into freights (id) values (1)`:                "INSERT",
		`DELETE FROM products WHERE id = 1`:                     "DELETE",
		``:                                                      "UNKNOWN",
	}
	for sql, want := range cases {
		assert.Equal(t, want, operationFromSQL(sql), sql)
	}
}

func TestLogModeReturnsCopy(t *testing.T) {
	base := NewGormLogger(DefaultGormLoggerConfig())
	silent := base.LogMode(gormlogger.Silent).(*GormLogger)

	assert.Equal(t, gormlogger.Warn, base.cfg.Level)
	assert.Equal(t, gormlogger.Silent, silent.cfg.Level)
}
