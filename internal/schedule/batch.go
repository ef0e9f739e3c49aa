package schedule

import (
	"fmt"
	"net/url"
	"strconv"
)

// Batch is a fully parsed edit submission: the records to create or update
// plus the ids of spots to delete.
type Batch struct {
	Records    []SpotRecord
	DeletedPKs []int64
}

// ParseBatch decodes the indexed form contract into typed records:
// "num" gives the record count, and for each i in [0, num) the fields
// "offset{i}", "dj_pk{i}", "show_pk{i}", "pk{i}", "repeat_every{i}" and
// "day_of_week{i}" must all be present and numeric. Repeated "deleted_spots"
// values name the spots to remove. A missing or non-numeric field anywhere
// fails the whole batch with ErrMalformedRecord; nothing is mutated on a
// parse failure.
func ParseBatch(form url.Values) (*Batch, error) {
	num, err := formInt(form, "num")
	if err != nil {
		return nil, err
	}
	if num < 0 {
		return nil, fmt.Errorf("%w: negative record count", ErrMalformedRecord)
	}

	batch := &Batch{Records: make([]SpotRecord, 0, num)}
	for i := 0; i < num; i++ {
		record, err := parseRecord(form, i)
		if err != nil {
			return nil, err
		}
		batch.Records = append(batch.Records, record)
	}

	for _, raw := range form["deleted_spots"] {
		pk, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: deleted_spots value %q", ErrMalformedRecord, raw)
		}
		batch.DeletedPKs = append(batch.DeletedPKs, pk)
	}

	return batch, nil
}

func parseRecord(form url.Values, i int) (SpotRecord, error) {
	offset, err := formInt(form, fmt.Sprintf("offset%d", i))
	if err != nil {
		return SpotRecord{}, err
	}
	djPK, err := formInt64(form, fmt.Sprintf("dj_pk%d", i))
	if err != nil {
		return SpotRecord{}, err
	}
	showPK, err := formInt64(form, fmt.Sprintf("show_pk%d", i))
	if err != nil {
		return SpotRecord{}, err
	}
	pk, err := formInt64(form, fmt.Sprintf("pk%d", i))
	if err != nil {
		return SpotRecord{}, err
	}
	repeatEvery, err := formInt(form, fmt.Sprintf("repeat_every%d", i))
	if err != nil {
		return SpotRecord{}, err
	}
	dayOfWeek, err := formInt(form, fmt.Sprintf("day_of_week%d", i))
	if err != nil {
		return SpotRecord{}, err
	}

	return SpotRecord{
		PK:          pk,
		Offset:      offset,
		DJPK:        djPK,
		ShowPK:      showPK,
		RepeatEvery: repeatEvery,
		DayOfWeek:   dayOfWeek,
	}, nil
}

func formInt(form url.Values, key string) (int, error) {
	v, err := formInt64(form, key)
	return int(v), err
}

func formInt64(form url.Values, key string) (int64, error) {
	if !form.Has(key) {
		return 0, fmt.Errorf("%w: missing field %q", ErrMalformedRecord, key)
	}
	v, err := strconv.ParseInt(form.Get(key), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: field %q is not numeric", ErrMalformedRecord, key)
	}
	return v, nil
}
