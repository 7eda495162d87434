// Package export serialises derived shipment views to CSV.
package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/99minutos/shipment-dashboard/internal/core/domain"
)

// Header is the fixed column set of the export.
var Header = []string{"ID", "Container ID", "Status", "Current Location", "Origin", "Destination", "ETA", "Created"}

// timeLayout keeps sub-second precision so exported timestamps parse back to
// the same instant.
const timeLayout = time.RFC3339Nano

var ErrBadHeader = errors.New("csv header does not match export columns")

// Row is one parsed line of an export.
type Row struct {
	ID              string
	ContainerID     string
	Status          domain.ShipmentStatus
	CurrentLocation string
	Origin          string
	Destination     string
	ETA             time.Time
	CreatedAt       time.Time
}

// WriteCSV writes items, in order, under Header. Fields containing a comma,
// quote or newline are quoted.
func WriteCSV(w io.Writer, items []domain.Shipment) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, s := range items {
		record := []string{
			s.ID,
			s.ContainerID,
			string(s.Status),
			s.CurrentLocation.Name,
			s.Origin.Name,
			s.Destination.Name,
			s.ETA.UTC().Format(timeLayout),
			s.CreatedAt.UTC().Format(timeLayout),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv row %s: %w", s.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV parses an export produced by WriteCSV.
func ReadCSV(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(Header)

	head, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	if !slices.Equal(head, Header) {
		return nil, ErrBadHeader
	}

	var rows []Row
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return rows, nil
		}
		if err != nil {
			return nil, fmt.Errorf("read csv line %d: %w", line, err)
		}
		eta, err := time.Parse(timeLayout, rec[6])
		if err != nil {
			return nil, fmt.Errorf("csv line %d: eta: %w", line, err)
		}
		created, err := time.Parse(timeLayout, rec[7])
		if err != nil {
			return nil, fmt.Errorf("csv line %d: created: %w", line, err)
		}
		rows = append(rows, Row{
			ID:              rec[0],
			ContainerID:     rec[1],
			Status:          domain.ShipmentStatus(rec[2]),
			CurrentLocation: rec[3],
			Origin:          rec[4],
			Destination:     rec[5],
			ETA:             eta,
			CreatedAt:       created,
		})
	}
}

// FileName is the download name of an export taken at now.
func FileName(now time.Time) string {
	return "shipments-" + now.Format("2006-01-02") + ".csv"
}
