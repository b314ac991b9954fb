package amadeus

// Static fallback tables for the carriers and markets the agency actually
// sells. Used when the reference endpoints are unreachable.

var staticAirlineNames = map[string]string{
	"AF": "Air France",
	"TK": "Turkish Airlines",
	"EK": "Emirates",
	"QR": "Qatar Airways",
	"AT": "Royal Air Maroc",
	"TU": "Tunisair",
	"SN": "Brussels Airlines",
	"IB": "Iberia",
	"DL": "Delta Air Lines",
	"ET": "Ethiopian Airlines",
	"MS": "EgyptAir",
	"HC": "Air Senegal",
	"L6": "Mauritania Airlines",
}

var staticCityNames = map[string]string{
	"NKC": "Nouakchott",
	"NDB": "Nouadhibou",
	"CDG": "Paris",
	"ORY": "Paris",
	"IST": "Istanbul",
	"DXB": "Dubai",
	"DOH": "Doha",
	"CMN": "Casablanca",
	"TUN": "Tunis",
	"DSS": "Dakar",
	"BRU": "Brussels",
	"MAD": "Madrid",
	"JFK": "New York",
	"CAI": "Cairo",
	"ADD": "Addis Ababa",
}
