// Package dao wraps table access for the service layer.
package dao

import (
	"errors"

	"github.com/irapidev/xml2json/db"
	"github.com/irapidev/xml2json/db/model"
)

// ErrDBDisabled is returned when persistence is not configured.
var ErrDBDisabled = errors.New("db not configured")

// AddConversionRecord stores one completed conversion. A disabled db is a
// silent no-op so the convert path never depends on persistence.
func AddConversionRecord(r *model.ConversionRecord) error {
	if !db.Enabled() {
		return nil
	}
	return db.Get().Create(r).Error
}

// GetConversionRecords returns the most recent records, newest first.
func GetConversionRecords(limit int) ([]model.ConversionRecord, error) {
	if !db.Enabled() {
		return nil, ErrDBDisabled
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	var records []model.ConversionRecord
	err := db.Get().Order("id desc").Limit(limit).Find(&records).Error
	return records, err
}
