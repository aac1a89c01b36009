package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Category identifies one of the three tracked activity groups.
type Category string

const (
	CategoryTransport Category = "TRANSPORT"
	CategoryWaste     Category = "WASTE"
	CategoryDigital   Category = "DIGITAL"
)

// TransportMode enumerates how a student travelled.
type TransportMode string

const (
	TransportWalk         TransportMode = "WALK"
	TransportBicycle      TransportMode = "BICYCLE"
	TransportMotorbike    TransportMode = "MOTORBIKE"
	TransportBus          TransportMode = "BUS"
	TransportCar          TransportMode = "CAR"
	TransportElectricBike TransportMode = "ELECTRIC_BIKE"
)

// TransportModes lists every supported mode.
var TransportModes = []TransportMode{
	TransportWalk,
	TransportBicycle,
	TransportMotorbike,
	TransportBus,
	TransportCar,
	TransportElectricBike,
}

// WasteItem enumerates discarded item kinds, counted per piece.
type WasteItem string

const (
	WastePlastic    WasteItem = "PLASTIC"
	WastePaper      WasteItem = "PAPER"
	WasteOrganic    WasteItem = "ORGANIC"
	WasteStyrofoam  WasteItem = "STYROFOAM"
	WasteMilkCarton WasteItem = "MILK_CARTON"
)

// WasteItems lists every supported waste kind.
var WasteItems = []WasteItem{
	WastePlastic,
	WastePaper,
	WasteOrganic,
	WasteStyrofoam,
	WasteMilkCarton,
}

// DeviceKind enumerates tracked electronic devices.
type DeviceKind string

const (
	DeviceSmartphone DeviceKind = "SMARTPHONE"
	DeviceLaptop     DeviceKind = "LAPTOP"
	DeviceTV         DeviceKind = "TV"
	DeviceTablet     DeviceKind = "TABLET"
)

// DeviceKinds lists every supported device kind.
var DeviceKinds = []DeviceKind{
	DeviceSmartphone,
	DeviceLaptop,
	DeviceTV,
	DeviceTablet,
}

// TransportEntry is one trip stored on a daily log. DistanceKm is already
// normalized from the minutes the student entered.
type TransportEntry struct {
	Mode       TransportMode `json:"type"`
	DistanceKm float64       `json:"distanceKm"`
}

// WasteEntry is one discarded-items record; Count is a number of pieces.
type WasteEntry struct {
	Item  WasteItem `json:"type"`
	Count float64   `json:"count"`
}

// DigitalEntry is one device-usage record in hours.
type DigitalEntry struct {
	Device DeviceKind `json:"type"`
	Hours  float64    `json:"hours"`
}

// DailyLog is one saved day of activity for a student. TotalCo2Kg caches the
// sum of every entry's contribution at save time; reporting paths that need
// the authoritative figure recompute from the stored quantities instead.
type DailyLog struct {
	ID         string         `db:"id" json:"id"`
	StudentID  string         `db:"student_id" json:"student_id"`
	LogDate    string         `db:"log_date" json:"date"`
	Timestamp  int64          `db:"ts" json:"timestamp"`
	Transport  TransportList  `db:"transport" json:"transport"`
	Waste      WasteList      `db:"waste" json:"waste"`
	Digital    DigitalList    `db:"digital" json:"digital"`
	TotalCo2Kg float64        `db:"total_co2_kg" json:"total_co2_kg"`
	CreatedAt  time.Time      `db:"created_at" json:"created_at"`
}

// Time returns the log's user-selected instant.
func (l DailyLog) Time() time.Time {
	return time.UnixMilli(l.Timestamp)
}

// TransportList stores transport entries as a JSONB column.
type TransportList []TransportEntry

// WasteList stores waste entries as a JSONB column.
type WasteList []WasteEntry

// DigitalList stores digital entries as a JSONB column.
type DigitalList []DigitalEntry

// Value marshals the list to JSON for persistence.
func (l TransportList) Value() (driver.Value, error) { return marshalList(l) }

// Scan unmarshals a JSON payload into the list.
func (l *TransportList) Scan(value interface{}) error { return scanList(value, l) }

// Value marshals the list to JSON for persistence.
func (l WasteList) Value() (driver.Value, error) { return marshalList(l) }

// Scan unmarshals a JSON payload into the list.
func (l *WasteList) Scan(value interface{}) error { return scanList(value, l) }

// Value marshals the list to JSON for persistence.
func (l DigitalList) Value() (driver.Value, error) { return marshalList(l) }

// Scan unmarshals a JSON payload into the list.
func (l *DigitalList) Scan(value interface{}) error { return scanList(value, l) }

func marshalList(v interface{}) (driver.Value, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal entry list: %w", err)
	}
	return data, nil
}

func scanList(value interface{}, dest interface{}) error {
	if value == nil {
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported type %T for entry list", value)
	}
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("unmarshal entry list: %w", err)
	}
	return nil
}
