package database

import (
	"time"

	"gorm.io/gorm"

	"github.com/neubistro/bistro/pkg/metrics"
)

const startKey = "bistro:query_start"

// registerMetrics times every gorm operation into metrics.DBQueryDuration.
func registerMetrics(db *gorm.DB) error {
	cb := db.Callback()

	if err := cb.Create().Before("gorm:create").Register("metrics:before_create", start); err != nil {
		return err
	}
	if err := cb.Create().After("gorm:create").Register("metrics:after_create", observe("create")); err != nil {
		return err
	}
	if err := cb.Query().Before("gorm:query").Register("metrics:before_query", start); err != nil {
		return err
	}
	if err := cb.Query().After("gorm:query").Register("metrics:after_query", observe("query")); err != nil {
		return err
	}
	if err := cb.Update().Before("gorm:update").Register("metrics:before_update", start); err != nil {
		return err
	}
	if err := cb.Update().After("gorm:update").Register("metrics:after_update", observe("update")); err != nil {
		return err
	}
	if err := cb.Delete().Before("gorm:delete").Register("metrics:before_delete", start); err != nil {
		return err
	}
	if err := cb.Delete().After("gorm:delete").Register("metrics:after_delete", observe("delete")); err != nil {
		return err
	}
	if err := cb.Raw().Before("gorm:raw").Register("metrics:before_raw", start); err != nil {
		return err
	}
	return cb.Raw().After("gorm:raw").Register("metrics:after_raw", observe("raw"))
}

func start(db *gorm.DB) {
	db.InstanceSet(startKey, time.Now())
}

func observe(op string) func(*gorm.DB) {
	return func(db *gorm.DB) {
		v, ok := db.InstanceGet(startKey)
		if !ok {
			return
		}
		if t, ok := v.(time.Time); ok {
			metrics.ObserveDBQuery(op, t)
		}
	}
}
