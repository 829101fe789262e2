package export

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"github.com/kairoplan/kairoplan/pkg/calendar"
	log "github.com/sirupsen/logrus"
)

var csvHeader = []string{"id", "title", "type", "date", "startTime", "endTime", "predefined"}

// CSV renders one row per event after a header row.
func CSV(events []calendar.Event) (string, error) {
	var b bytes.Buffer
	writer := csv.NewWriter(&b)
	if err := writer.Write(csvHeader); err != nil {
		log.Errorf("Error writing to csv: %v", err)
		return "", err
	}
	for _, e := range events {
		row := []string{
			e.ID,
			e.Title,
			string(e.Type),
			e.Date.String(),
			e.StartTime,
			e.EndTime,
			strconv.FormatBool(e.Predefined),
		}
		if err := writer.Write(row); err != nil {
			log.Errorf("Error writing to csv: %v", err)
			return "", err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		log.Errorf("Error writing to csv: %v", err)
		return "", err
	}
	return b.String(), nil
}
