// Package units provides canonical unit types and conversions.
package units

// Unit represents a measurable physical quantity.
type Unit string

const (
	// Fuel volume units
	UnitGallon Unit = "gallon"
	UnitTherm  Unit = "therm"

	// Electricity units
	UnitKWh Unit = "kWh"
	UnitMWh Unit = "MWh"

	// Heat content units
	UnitMMBtu Unit = "MMBtu"

	// Distance units
	UnitMile Unit = "mile"

	// Count units
	UnitVehicle Unit = "vehicle"
)

// KgPerMetricTon converts kilograms to metric tons.
const KgPerMetricTon = 1000.0

// KWhPerMWh converts megawatt-hours to kilowatt-hours.
const KWhPerMWh = 1000.0

// KgToMetricTons converts kg CO2e to metric tons CO2e.
func KgToMetricTons(kg float64) float64 {
	return kg / KgPerMetricTon
}

// MetricTonsToKg converts metric tons CO2e to kg CO2e.
func MetricTonsToKg(t float64) float64 {
	return t * KgPerMetricTon
}

// MWhToKWh converts megawatt-hours to kilowatt-hours.
func MWhToKWh(mwh float64) float64 {
	return mwh * KWhPerMWh
}

// KWhToMWh converts kilowatt-hours to megawatt-hours.
func KWhToMWh(kwh float64) float64 {
	return kwh / KWhPerMWh
}

// Normalize maps common spellings onto canonical unit names so that factor
// lookup stays an exact string match.
func Normalize(raw string) Unit {
	switch raw {
	case "gal", "gallon", "gallons":
		return UnitGallon
	case "kwh", "kWh", "KWH":
		return UnitKWh
	case "mwh", "MWh", "MWH":
		return UnitMWh
	case "therm", "therms":
		return UnitTherm
	case "mmbtu", "MMBtu", "MMBTU":
		return UnitMMBtu
	case "mile", "miles":
		return UnitMile
	default:
		return Unit(raw)
	}
}
