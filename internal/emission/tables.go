package emission

import (
	"fmt"

	"github.com/noah-isme/ecolog-api/internal/models"
)

// fallbackSpeedKmh is used when a transport mode has no configured average
// speed. The conversion degrades gracefully instead of failing a save.
const fallbackSpeedKmh = 15

// Tables holds the per-category emission factors, display labels, and assumed
// average speeds. Instances are immutable configuration data built once at
// startup; nothing mutates them afterwards.
type Tables struct {
	transportFactors map[models.TransportMode]float64
	wasteFactors     map[models.WasteItem]float64
	digitalFactors   map[models.DeviceKind]float64

	speedsKmh map[models.TransportMode]float64

	transportLabels map[models.TransportMode]string
	wasteLabels     map[models.WasteItem]string
	digitalLabels   map[models.DeviceKind]string
}

// Default returns the standard coefficient tables. Factors are kg CO2e per
// km (transport), per item (waste), and per hour (digital).
func Default() Tables {
	return Tables{
		transportFactors: map[models.TransportMode]float64{
			models.TransportWalk:         0,
			models.TransportBicycle:      0,
			models.TransportElectricBike: 0.015,
			models.TransportBus:          0.05,
			models.TransportMotorbike:    0.12,
			models.TransportCar:          0.25,
		},
		wasteFactors: map[models.WasteItem]float64{
			models.WastePlastic:    0.08,
			models.WastePaper:      0.02,
			models.WasteOrganic:    0.5,
			models.WasteStyrofoam:  0.15,
			models.WasteMilkCarton: 0.05,
		},
		digitalFactors: map[models.DeviceKind]float64{
			models.DeviceSmartphone: 0.06,
			models.DeviceTablet:     0.08,
			models.DeviceLaptop:     0.15,
			models.DeviceTV:         0.20,
		},
		speedsKmh: map[models.TransportMode]float64{
			models.TransportWalk:         5,
			models.TransportBicycle:      15,
			models.TransportElectricBike: 20,
			models.TransportMotorbike:    30,
			models.TransportCar:          30,
			models.TransportBus:          25,
		},
		transportLabels: map[models.TransportMode]string{
			models.TransportWalk:         "👣 Đi bộ",
			models.TransportBicycle:      "🚲 Xe đạp",
			models.TransportElectricBike: "🛵 Xe đạp điện",
			models.TransportBus:          "🚌 Xe buýt",
			models.TransportMotorbike:    "🏍️ Xe máy",
			models.TransportCar:          "🚗 Ô tô",
		},
		wasteLabels: map[models.WasteItem]string{
			models.WastePlastic:    "🥤 Chai / Túi nhựa",
			models.WastePaper:      "📄 Giấy rác",
			models.WasteOrganic:    "🍗 Bỏ thừa đồ ăn",
			models.WasteStyrofoam:  "🥡 Hộp xốp",
			models.WasteMilkCarton: "🧃 Vỏ hộp sữa",
		},
		digitalLabels: map[models.DeviceKind]string{
			models.DeviceSmartphone: "📱 Điện thoại",
			models.DeviceTablet:     "📲 Máy tính bảng",
			models.DeviceLaptop:     "💻 Máy tính / Laptop",
			models.DeviceTV:         "📺 Tivi / Xem video",
		},
	}
}

// Validate checks that every enum value has exactly one factor and one label
// entry, and that every transport mode has an average speed. A missing entry
// is a configuration defect and should abort startup.
func (t Tables) Validate() error {
	for _, mode := range models.TransportModes {
		if _, ok := t.transportFactors[mode]; !ok {
			return fmt.Errorf("transport factor missing for %s", mode)
		}
		if _, ok := t.transportLabels[mode]; !ok {
			return fmt.Errorf("transport label missing for %s", mode)
		}
		if _, ok := t.speedsKmh[mode]; !ok {
			return fmt.Errorf("average speed missing for %s", mode)
		}
	}
	for _, item := range models.WasteItems {
		if _, ok := t.wasteFactors[item]; !ok {
			return fmt.Errorf("waste factor missing for %s", item)
		}
		if _, ok := t.wasteLabels[item]; !ok {
			return fmt.Errorf("waste label missing for %s", item)
		}
	}
	for _, device := range models.DeviceKinds {
		if _, ok := t.digitalFactors[device]; !ok {
			return fmt.Errorf("digital factor missing for %s", device)
		}
		if _, ok := t.digitalLabels[device]; !ok {
			return fmt.Errorf("digital label missing for %s", device)
		}
	}
	for mode, factor := range t.transportFactors {
		if factor < 0 {
			return fmt.Errorf("negative transport factor for %s", mode)
		}
	}
	for item, factor := range t.wasteFactors {
		if factor < 0 {
			return fmt.Errorf("negative waste factor for %s", item)
		}
	}
	for device, factor := range t.digitalFactors {
		if factor < 0 {
			return fmt.Errorf("negative digital factor for %s", device)
		}
	}
	return nil
}

// TransportFactor returns kg CO2e per km for the mode.
func (t Tables) TransportFactor(mode models.TransportMode) (float64, bool) {
	f, ok := t.transportFactors[mode]
	return f, ok
}

// WasteFactor returns kg CO2e per item.
func (t Tables) WasteFactor(item models.WasteItem) (float64, bool) {
	f, ok := t.wasteFactors[item]
	return f, ok
}

// DigitalFactor returns kg CO2e per hour of use.
func (t Tables) DigitalFactor(device models.DeviceKind) (float64, bool) {
	f, ok := t.digitalFactors[device]
	return f, ok
}

// AverageSpeed returns the assumed km/h for the mode, falling back to
// 15 km/h when unmapped.
func (t Tables) AverageSpeed(mode models.TransportMode) float64 {
	if speed, ok := t.speedsKmh[mode]; ok {
		return speed
	}
	return fallbackSpeedKmh
}

// TransportLabel returns the display label for a mode.
func (t Tables) TransportLabel(mode models.TransportMode) string {
	return t.transportLabels[mode]
}

// WasteLabel returns the display label for a waste item kind.
func (t Tables) WasteLabel(item models.WasteItem) string {
	return t.wasteLabels[item]
}

// DigitalLabel returns the display label for a device kind.
func (t Tables) DigitalLabel(device models.DeviceKind) string {
	return t.digitalLabels[device]
}
