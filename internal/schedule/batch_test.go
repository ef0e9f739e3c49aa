package schedule

import (
	"net/url"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func batchForm(records []SpotRecord, deleted ...int64) url.Values {
	form := url.Values{}
	form.Set("num", strconv.Itoa(len(records)))
	for i, r := range records {
		idx := strconv.Itoa(i)
		form.Set("offset"+idx, strconv.Itoa(r.Offset))
		form.Set("dj_pk"+idx, strconv.FormatInt(r.DJPK, 10))
		form.Set("show_pk"+idx, strconv.FormatInt(r.ShowPK, 10))
		form.Set("pk"+idx, strconv.FormatInt(r.PK, 10))
		form.Set("repeat_every"+idx, strconv.Itoa(r.RepeatEvery))
		form.Set("day_of_week"+idx, strconv.Itoa(r.DayOfWeek))
	}
	for _, pk := range deleted {
		form.Add("deleted_spots", strconv.FormatInt(pk, 10))
	}
	return form
}

func TestParseBatch_RoundTrip(t *testing.T) {
	records := []SpotRecord{
		{PK: -1, Offset: 0, DJPK: 3, ShowPK: 7, RepeatEvery: 0, DayOfWeek: 0},
		{PK: 42, Offset: 1800, DJPK: 4, ShowPK: 8, RepeatEvery: 7, DayOfWeek: 6},
	}

	batch, err := ParseBatch(batchForm(records, 9, 11))
	require.NoError(t, err)

	assert.Equal(t, records, batch.Records)
	assert.Equal(t, []int64{9, 11}, batch.DeletedPKs)
}

func TestParseBatch_EmptyBatch(t *testing.T) {
	batch, err := ParseBatch(batchForm(nil))
	require.NoError(t, err)

	assert.Empty(t, batch.Records)
	assert.Empty(t, batch.DeletedPKs)
}

func TestParseBatch_MissingNum(t *testing.T) {
	_, err := ParseBatch(url.Values{})
	assert.ErrorIs(t, err, ErrMalformedRecord)
}

func TestParseBatch_NegativeNum(t *testing.T) {
	form := url.Values{}
	form.Set("num", "-1")

	_, err := ParseBatch(form)
	assert.ErrorIs(t, err, ErrMalformedRecord)
}

func TestParseBatch_MissingField(t *testing.T) {
	form := batchForm([]SpotRecord{{PK: -1, DJPK: 1, ShowPK: 1}})
	form.Del("show_pk0")

	_, err := ParseBatch(form)
	assert.ErrorIs(t, err, ErrMalformedRecord)
	assert.Contains(t, err.Error(), "show_pk0")
}

func TestParseBatch_NonNumericField(t *testing.T) {
	form := batchForm([]SpotRecord{{PK: -1, DJPK: 1, ShowPK: 1}})
	form.Set("offset0", "half past nine")

	_, err := ParseBatch(form)
	assert.ErrorIs(t, err, ErrMalformedRecord)
}

func TestParseBatch_BadDeletedSpots(t *testing.T) {
	form := batchForm(nil)
	form.Add("deleted_spots", "12")
	form.Add("deleted_spots", "twelve")

	_, err := ParseBatch(form)
	assert.ErrorIs(t, err, ErrMalformedRecord)
}

func TestParseBatch_IndexGapFailsWholeBatch(t *testing.T) {
	// num says two records but only index 0 is present
	form := batchForm([]SpotRecord{{PK: -1, DJPK: 1, ShowPK: 1}})
	form.Set("num", "2")

	_, err := ParseBatch(form)
	assert.ErrorIs(t, err, ErrMalformedRecord)
}
