package command

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var convertRe = regexp.MustCompile(`(?i)^convert\s+([\d.]+)\s*([a-z°]+)\s+(?:to|in)\s+([a-z°]+)$`)

// unitAliases normalizes spoken unit names to canonical codes.
var unitAliases = map[string]string{
	"km": "km", "kilometer": "km", "kilometers": "km",
	"mi": "mi", "mile": "mi", "miles": "mi",
	"c": "c", "°c": "c", "celsius": "c",
	"f": "f", "°f": "f", "fahrenheit": "f",
	"cm": "cm", "centimeter": "cm", "centimeters": "cm",
	"in": "in", "inch": "in", "inches": "in",
	"m": "m", "meter": "m", "meters": "m",
	"ft": "ft", "foot": "ft", "feet": "ft",
}

// conversions maps a from/to pair of canonical codes to the transform.
var conversions = map[[2]string]func(float64) float64{
	{"km", "mi"}: func(n float64) float64 { return n * 0.621371 },
	{"mi", "km"}: func(n float64) float64 { return n / 0.621371 },
	{"c", "f"}:   func(n float64) float64 { return n*9/5 + 32 },
	{"f", "c"}:   func(n float64) float64 { return (n - 32) * 5 / 9 },
	{"cm", "in"}: func(n float64) float64 { return n / 2.54 },
	{"in", "cm"}: func(n float64) float64 { return n * 2.54 },
	{"m", "ft"}:  func(n float64) float64 { return n * 3.28084 },
	{"ft", "m"}:  func(n float64) float64 { return n / 3.28084 },
}

func (it *Interpreter) tryConvert(t string) *Result {
	m := convertRe.FindStringSubmatch(t)
	if m == nil {
		return nil
	}
	val, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return reply("Sorry, I do not support that conversion yet.")
	}
	from := strings.ToLower(m[2])
	to := strings.ToLower(m[3])

	fn, ok := conversions[[2]string{normalizeUnit(from), normalizeUnit(to)}]
	if !ok {
		return reply("Sorry, I do not support that conversion yet.")
	}

	out := math.Round(fn(val)*1000) / 1000
	return replyf("%s %s = %s %s", formatNumber(val), from, formatNumber(out), to)
}

func normalizeUnit(u string) string {
	if canon, ok := unitAliases[u]; ok {
		return canon
	}
	return u
}
