package units

// unitDef describes one registry entry. Exactly one of base or definition is
// set: base entries carry their own dimension and scale, the rest are defined
// as "<amount> <unit>" in terms of an earlier entry.
type unitDef struct {
	name       string
	title      string
	aliases    []string
	definition string
	base       *Dimension
	scale      string
	offset     string
	precision  int32
}

func dim(idx int, power int8) *Dimension {
	var d Dimension
	d[idx] = power
	return &d
}

func dims(pairs ...int) *Dimension {
	var d Dimension
	for i := 0; i+1 < len(pairs); i += 2 {
		d[pairs[i]] = int8(pairs[i+1])
	}
	return &d
}

// BaseCurrency is the currency every other rate is expressed in.
const BaseCurrency = "USD"

// currencyTable lists the built-in currencies with approximate fixed rates.
var currencyTable = []unitDef{
	{name: "USD", title: "US Dollar", base: dim(Currency, 1), scale: "1", precision: 2},
	{name: "EUR", title: "Euro (1 EUR = 1.08 USD)", definition: "1.08 USD", precision: 2},
	{name: "GBP", title: "British Pound (1 GBP = 1.27 USD)", definition: "1.27 USD", precision: 2},
	{name: "JPY", title: "Japanese Yen (1 JPY = 0.0067 USD)", definition: "0.0067 USD", precision: 0},
	{name: "CNY", title: "Chinese Yuan (1 CNY = 0.138 USD)", definition: "0.138 USD", precision: 2},
	{name: "INR", title: "Indian Rupee (1 INR = 0.012 USD)", definition: "0.012 USD", precision: 2},
	{name: "CAD", title: "Canadian Dollar (1 CAD = 0.73 USD)", definition: "0.73 USD", precision: 2},
	{name: "AUD", title: "Australian Dollar (1 AUD = 0.65 USD)", definition: "0.65 USD", precision: 2},
	{name: "CHF", title: "Swiss Franc (1 CHF = 1.10 USD)", definition: "1.10 USD", precision: 2},
	{name: "NZD", title: "New Zealand Dollar (1 NZD = 0.61 USD)", definition: "0.61 USD", precision: 2},
	{name: "SGD", title: "Singapore Dollar (1 SGD = 0.74 USD)", definition: "0.74 USD", precision: 2},
	{name: "HKD", title: "Hong Kong Dollar (1 HKD = 0.128 USD)", definition: "0.128 USD", precision: 2},
	{name: "RUB", title: "Russian Ruble (1 RUB ≈ 0.011 USD)", definition: "0.011 USD", precision: 3},
	{name: "BRL", title: "Brazilian Real (1 BRL ≈ 0.20 USD)", definition: "0.20 USD", precision: 2},
	{name: "ZAR", title: "South African Rand (1 ZAR ≈ 0.053 USD)", definition: "0.053 USD", precision: 3},
	{name: "MXN", title: "Mexican Peso (1 MXN ≈ 0.058 USD)", definition: "0.058 USD", precision: 3},
	{name: "TRY", title: "Turkish Lira (1 TRY ≈ 0.031 USD)", definition: "0.031 USD", precision: 3},
	{name: "SEK", title: "Swedish Krona (1 SEK ≈ 0.095 USD)", definition: "0.095 USD", precision: 3},
	{name: "NOK", title: "Norwegian Krone (1 NOK ≈ 0.093 USD)", definition: "0.093 USD", precision: 3},
	{name: "DKK", title: "Danish Krone (1 DKK ≈ 0.145 USD)", definition: "0.145 USD", precision: 3},
	{name: "PLN", title: "Polish Zloty (1 PLN ≈ 0.25 USD)", definition: "0.25 USD", precision: 2},
}

// physicalTable lists the physical units. Order matters: definitions refer to
// entries above them.
var physicalTable = []unitDef{
	// Mass
	{name: "g", title: "Gram", aliases: []string{"gram", "grams"}, base: dim(Mass, 1), scale: "0.001"},
	{name: "kg", title: "Kilogram", aliases: []string{"kilogram", "kilograms"}, definition: "1000 g"},
	{name: "mg", title: "Milligram", aliases: []string{"milligram", "milligrams"}, definition: "0.001 g"},
	{name: "lb", title: "Pound (mass)", aliases: []string{"poundmass", "lbs"}, definition: "0.45359237 kg"},
	{name: "oz", title: "Ounce (mass)", aliases: []string{"ouncemass", "ounce"}, definition: "0.0625 lb"},

	// Distance
	{name: "m", title: "Meter", aliases: []string{"meter", "meters"}, base: dim(Length, 1), scale: "1"},
	{name: "km", title: "Kilometer", aliases: []string{"kilometer", "kilometers"}, definition: "1000 m"},
	{name: "cm", title: "Centimeter", aliases: []string{"centimeter", "centimeters"}, definition: "0.01 m"},
	{name: "mm", title: "Millimeter", aliases: []string{"millimeter", "millimeters"}, definition: "0.001 m"},
	{name: "ft", title: "Foot", aliases: []string{"foot", "feet"}, definition: "0.3048 m"},
	{name: "in", title: "Inch", aliases: []string{"inch", "inches"}, definition: "0.0254 m"},
	{name: "mi", title: "Mile", aliases: []string{"mile", "miles"}, definition: "1609.344 m"},
	{name: "yd", title: "Yard", aliases: []string{"yard", "yards"}, definition: "3 ft"},

	// Time
	{name: "s", title: "Second", aliases: []string{"second", "seconds", "sec"}, base: dim(Time, 1), scale: "1"},
	{name: "min", title: "Minute", aliases: []string{"minute", "minutes"}, definition: "60 s"},
	{name: "h", title: "Hour", aliases: []string{"hour", "hours", "hr"}, definition: "60 min"},

	// Electric current and charge
	{name: "A", title: "Ampere", aliases: []string{"ampere", "amperes"}, base: dim(Current, 1), scale: "1"},
	{name: "C", title: "Coulomb", aliases: []string{"coulomb", "coulombs"}, base: dims(Current, 1, Time, 1), scale: "1"},

	// Force and energy
	{name: "N", title: "Newton (force)", aliases: []string{"newton", "newtons"}, base: dims(Mass, 1, Length, 1, Time, -2), scale: "1"},
	{name: "lbf", title: "Pound-force", aliases: []string{"poundforce"}, definition: "4.4482216152605 N"},
	{name: "J", title: "Joule", aliases: []string{"joule", "joules"}, base: dims(Mass, 1, Length, 2, Time, -2), scale: "1"},

	// Temperature
	{name: "K", title: "Kelvin", aliases: []string{"kelvin"}, base: dim(Temperature, 1), scale: "1"},
	{name: "degC", title: "Celsius", aliases: []string{"celsius"}, base: dim(Temperature, 1), scale: "1", offset: "273.15"},
	{name: "degF", title: "Fahrenheit", aliases: []string{"fahrenheit"}, base: dim(Temperature, 1), scale: "5/9", offset: "459.67"},

	// Angle
	{name: "rad", title: "Radian", aliases: []string{"radian", "radians"}, base: dim(Angle, 1), scale: "1"},
	{name: "deg", title: "Degree", aliases: []string{"degree", "degrees"}, base: dim(Angle, 1), scale: "pi/180"},
}

// Constant is a named physical constant, defined as an amount and a unit
// expression understood by the evaluator.
type Constant struct {
	Name    string
	Symbol  string
	Title   string
	Amount  string
	UnitExp string
}

// Constants lists the physical constants exposed to expressions.
var Constants = []Constant{
	{Name: "speedOfLight", Symbol: "c", Title: "Speed of Light (c₀)", Amount: "299792458", UnitExp: "m / s"},
	{Name: "gravitationConstant", Symbol: "G", Title: "Gravitational Constant", Amount: "6.6743e-11", UnitExp: "m^3 / (kg s^2)"},
	{Name: "planckConstant", Symbol: "h", Title: "Planck Constant", Amount: "6.62607015e-34", UnitExp: "J s"},
	{Name: "hBar", Symbol: "ħ", Title: "Reduced Planck Constant (h-bar)", Amount: "1.054571817e-34", UnitExp: "J s"},
	{Name: "elementaryCharge", Symbol: "qₑ", Title: "Elementary Charge", Amount: "1.602176634e-19", UnitExp: "C"},
	{Name: "gravity", Symbol: "g", Title: "Standard Earth Gravity (approx. 9.80665 m/s²)", Amount: "9.80665", UnitExp: "m / s^2"},
	{Name: "boltzmannConstant", Symbol: "k", Title: "Boltzmann Constant", Amount: "1.380649e-23", UnitExp: "J / K"},
}
