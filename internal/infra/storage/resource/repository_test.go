package resource

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/campus-booking/internal/domain"
)

type fakeRow struct {
	values []interface{}
	err    error
}

func (f fakeRow) Scan(dest ...interface{}) error {
	if f.err != nil {
		return f.err
	}
	for i, d := range dest {
		switch p := d.(type) {
		case *int64:
			*p = f.values[i].(int64)
		case *int:
			*p = f.values[i].(int)
		case *string:
			*p = f.values[i].(string)
		case *domain.ResourceType:
			*p = f.values[i].(domain.ResourceType)
		case *bool:
			*p = f.values[i].(bool)
		case *[]byte:
			*p = f.values[i].([]byte)
		}
	}
	return nil
}

func rowWithAvailability(availability []byte) fakeRow {
	values := make([]interface{}, len(columns))
	values[0] = int64(7)
	values[1] = "Main Auditorium"
	values[2] = domain.ResourceAuditorium
	values[5] = 300
	values[7] = availability
	values[8] = 14
	values[9] = 2
	values[10] = 1
	values[11] = true
	values[12] = 4
	values[13] = true
	return fakeRow{values: values}
}

func TestScanResource_DecodesAvailability(t *testing.T) {
	row := rowWithAvailability([]byte(`{"monday":{"enabled":true,"windows":[{"start":"09:00","end":"17:00"}]}}`))

	res, err := scanResource(row)
	require.NoError(t, err)

	assert.Equal(t, int64(7), res.ID)
	assert.Equal(t, domain.ResourceAuditorium, res.Type)
	assert.Equal(t, 14, res.BookingRestrictions.AdvanceBookingDays)
	assert.True(t, res.RequiresApproval)
	require.Contains(t, res.WeeklyAvailability, domain.Monday)
	assert.Equal(t, "09:00", res.WeeklyAvailability[domain.Monday].Windows[0].Start.String())
}

func TestScanResource_EmptyAvailability(t *testing.T) {
	res, err := scanResource(rowWithAvailability(nil))
	require.NoError(t, err)
	assert.Empty(t, res.WeeklyAvailability)
	assert.False(t, res.IsWithinAvailability(domain.Monday, "09:00", "10:00"))
}

func TestScanResource_BrokenAvailability(t *testing.T) {
	_, err := scanResource(rowWithAvailability([]byte(`{"monday":`)))
	assert.Error(t, err)
}

func TestScanResource_PropagatesScanError(t *testing.T) {
	boom := errors.New("boom")
	_, err := scanResource(fakeRow{err: boom})
	assert.ErrorIs(t, err, boom)
}

func TestListQuery(t *testing.T) {
	lab := domain.ResourceLab

	query, args, err := listQuery(domain.ResourceFilter{Type: &lab, ActiveOnly: true, Limit: 5}, 3).ToSql()
	require.NoError(t, err)

	assert.Contains(t, query, "FROM resources")
	assert.Contains(t, query, "type = $1")
	assert.Contains(t, query, "is_active = $2")
	assert.Contains(t, query, "id <> $3")
	assert.Contains(t, query, "LIMIT 5")
	assert.Equal(t, []interface{}{lab, true, int64(3)}, args)
}
