// Package export streams stored submissions as CSV for the admin screens.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/amestri/formbox/model"
	"github.com/pkg/errors"
)

// Filename returns the date-stamped attachment name for an export started
// at the given time.
func Filename(now time.Time) string {
	return fmt.Sprintf("form-submissions-%s.csv", now.Format("2006-01-02"))
}

// WriteCSV streams the rows as CSV with a UTF-8 BOM so spreadsheet imports
// pick up the encoding. Each payload is flattened to "key: value" pairs in
// stable key order. Reading the rows never mutates them.
func WriteCSV(w io.Writer, rows []model.ExportRow) error {
	_, err := w.Write([]byte{0xEF, 0xBB, 0xBF})
	if err != nil {
		return errors.Wrap(err, "write BOM")
	}

	out := csv.NewWriter(w)
	err = out.Write([]string{"Form", "Submission Data", "Date"})
	if err != nil {
		return errors.Wrap(err, "write header")
	}

	for _, row := range rows {
		err = out.Write([]string{
			row.FormTitle,
			flattenPayload(row.Payload),
			row.CreatedAt.UTC().Format("2006-01-02 15:04:05"),
		})
		if err != nil {
			return errors.Wrap(err, "write row")
		}
	}

	out.Flush()
	return errors.Wrap(out.Error(), "flush")
}

func flattenPayload(payload map[string]string) string {
	keys := make([]string, 0, len(payload))
	for k := range payload {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, len(keys))
	for i, k := range keys {
		pairs[i] = fmt.Sprintf("%s: %s", k, payload[k])
	}
	return strings.Join(pairs, " | ")
}
