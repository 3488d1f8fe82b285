package bulkimport

import (
	"encoding/csv"
	"io"
)

const ExportFilename = "districts_villages.csv"

// ExportDistrict is one district with its village names in display order.
type ExportDistrict struct {
	Name     string
	Villages []string
}

// ExportCSV writes a UTF-8 BOM followed by one "district,village" row per
// village and one "district," row per district without villages.
func ExportCSV(w io.Writer, districts []ExportDistrict) error {
	if _, err := w.Write(utf8BOM); err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	for _, d := range districts {
		if len(d.Villages) == 0 {
			if err := cw.Write([]string{d.Name, ""}); err != nil {
				return err
			}
			continue
		}
		for _, v := range d.Villages {
			if err := cw.Write([]string{d.Name, v}); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}
