package database

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/neubistro/bistro/pkg/metrics"
)

func TestBuildDialectorRejectsUnknownDriver(t *testing.T) {
	_, err := buildDialector("oracle", "x")
	assert.ErrorContains(t, err, `unsupported DB_DRIVER "oracle"`)
}

func TestBuildDialectorKnownDrivers(t *testing.T) {
	for _, d := range []string{"sqlite", "postgres", "mysql", "sqlserver"} {
		dialector, err := buildDialector(d, "dsn")
		require.NoError(t, err, d)
		assert.NotNil(t, dialector, d)
	}
}

func TestOpenRecordsQueryMetrics(t *testing.T) {
	db, err := Open("sqlite", "file:metrics_test?mode=memory&cache=shared")
	require.NoError(t, err)

	type probe struct {
		ID   uint
		Name string
	}
	require.NoError(t, db.AutoMigrate(&probe{}))
	require.NoError(t, db.Create(&probe{Name: "x"}).Error)

	var got probe
	require.NoError(t, db.First(&got).Error)
	assert.Equal(t, "x", got.Name)

	assert.Positive(t, testutil.CollectAndCount(metrics.DBQueryDuration))
}

func captureSlog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })
	return &buf
}

func TestQueryLoggerSkipsRecordNotFound(t *testing.T) {
	db, err := Open("sqlite", "file:logger_test?mode=memory&cache=shared")
	require.NoError(t, err)

	type row struct{ ID uint }
	require.NoError(t, db.AutoMigrate(&row{}))

	buf := captureSlog(t)

	var got row
	err = db.First(&got, 42).Error
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.Empty(t, buf.String())

	require.Error(t, db.Table("missing_table").First(&got).Error)
	assert.Contains(t, buf.String(), "gorm")
	assert.NotContains(t, buf.String(), "\x1b[", "no ANSI colours")
}
