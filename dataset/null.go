package dataset

// naTokens are the cell values treated as missing, matching the pandas
// read_csv defaults the source datasets were prepared with.
var naTokens = map[string]struct{}{
	"":         {},
	"#N/A":     {},
	"#N/A N/A": {},
	"#NA":      {},
	"-1.#IND":  {},
	"-1.#QNAN": {},
	"-NaN":     {},
	"-nan":     {},
	"1.#IND":   {},
	"1.#QNAN":  {},
	"<NA>":     {},
	"N/A":      {},
	"NA":       {},
	"NULL":     {},
	"NaN":      {},
	"None":     {},
	"n/a":      {},
	"nan":      {},
	"null":     {},
}

// IsNull reports whether a raw cell value is a missing-value marker.
func IsNull(v string) bool {
	_, ok := naTokens[v]
	return ok
}
