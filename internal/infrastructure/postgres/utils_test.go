package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/eboutique-api/pkg/geo"
)

func TestConstraintOf_IndiceParcialDePendientes(t *testing.T) {
	err := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505", ConstraintName: pendingIndex})
	assert.Equal(t, pendingIndex, constraintOf(err))
	assert.True(t, isUniqueViolation(err))
}

func TestConstraintOf_OtrosErrores(t *testing.T) {
	assert.Equal(t, "", constraintOf(errors.New("boom")))
	assert.Equal(t, "", constraintOf(&pgconn.PgError{Code: "23503"}))
	assert.True(t, isForeignKeyViolation(&pgconn.PgError{Code: "23503"}))
	assert.True(t, isCheckViolation(&pgconn.PgError{Code: "23514"}))
	assert.False(t, isUniqueViolation(errors.New("boom")))
}

func TestNullIfEmpty(t *testing.T) {
	assert.Nil(t, nullIfEmpty(""))
	v := nullIfEmpty("x")
	if assert.NotNil(t, v) {
		assert.Equal(t, "x", *v)
	}
}

func TestLocationWKT_LongitudPrimero(t *testing.T) {
	assert.Nil(t, locationWKT(nil))
	wkt := locationWKT(&geo.Point{Lat: 48.85, Lon: 2.35})
	if assert.NotNil(t, wkt) {
		assert.Equal(t, "POINT(2.350000 48.850000)", *wkt)
	}
}

func TestSchema_EmbebidoConIndiceDePendientes(t *testing.T) {
	assert.Contains(t, schemaSQL, "CREATE EXTENSION IF NOT EXISTS postgis")
	assert.Contains(t, schemaSQL, pendingIndex)
	assert.Contains(t, schemaSQL, "ON DELETE SET NULL")
}
