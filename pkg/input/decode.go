// Package input turns the raw planner input surface into domain values.
//
// Form posts, JSON bodies, CLI flags and MCP arguments all arrive as loosely
// typed maps. Counts (rooms, travelers, days) that are absent, non-numeric or
// below one become one, and counts above domain.MaxCount become
// domain.MaxCount; option indexes default to the first option.
package input

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"unicode"

	"github.com/aretw0/ecovoyage/pkg/catalog"
	"github.com/aretw0/ecovoyage/pkg/domain"
	"github.com/mitchellh/mapstructure"
)

// count is a quantity floored at one.
type count int

// index is a positional option reference; unparseable values become -1.
type index int

// indexList is a multi-select set of positions; unparseable entries are dropped.
type indexList []int

type planForm struct {
	City        string    `mapstructure:"city"`
	Attractions indexList `mapstructure:"attractions"`
	Cuisine     index     `mapstructure:"cuisine"`
	Hotel       index     `mapstructure:"hotel"`
	TravelClass index     `mapstructure:"travel_class"`
	Rooms       count     `mapstructure:"rooms"`
	Travelers   count     `mapstructure:"travelers"`
	Days        count     `mapstructure:"days"`
}

var (
	countType     = reflect.TypeOf(count(0))
	indexType     = reflect.TypeOf(index(0))
	indexListType = reflect.TypeOf(indexList(nil))
)

// coerceHook converts loosely typed values into the planner's numeric types.
func coerceHook(_ reflect.Type, to reflect.Type, data any) (any, error) {
	switch to {
	case countType:
		n, ok := ParseInt(data)
		if !ok || n < 1 {
			return count(1), nil
		}
		return count(min(n, domain.MaxCount)), nil
	case indexType:
		n, ok := ParseInt(data)
		if !ok {
			return index(-1), nil
		}
		return index(n), nil
	case indexListType:
		return parseIndexList(data), nil
	}
	return data, nil
}

// DecodeSelections decodes a raw planner submission.
//
// The city may be given by name ("city") or, as the planner dropdown does,
// by position ("city_index"). A position that does not resolve leaves the
// city empty so pricing reports a missing city selection.
func DecodeSelections(raw map[string]any, cat *catalog.Catalog) (domain.Selections, error) {
	var form planForm
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       coerceHook,
		WeaklyTypedInput: true,
		Result:           &form,
	})
	if err != nil {
		return domain.Selections{}, fmt.Errorf("failed to build decoder: %w", err)
	}
	if err := dec.Decode(raw); err != nil {
		return domain.Selections{}, fmt.Errorf("failed to decode selections: %w", err)
	}

	city := strings.TrimSpace(form.City)
	if v, ok := raw["city_index"]; ok && city == "" {
		if i, ok := ParseInt(v); ok {
			if c, found := cat.CityAt(i); found {
				city = c.Name
			}
		}
	}

	sel := domain.Selections{
		City:        city,
		Attractions: []int(form.Attractions),
		Cuisine:     int(form.Cuisine),
		Hotel:       int(form.Hotel),
		TravelClass: int(form.TravelClass),
		Rooms:       int(form.Rooms),
		Travelers:   int(form.Travelers),
		Days:        int(form.Days),
	}
	return sel.Normalized(), nil
}

// DecodeContact decodes and sanitizes the login form.
// Blank fields are not an error here; the state machine rejects them.
func DecodeContact(raw map[string]any) (domain.Contact, error) {
	var c domain.Contact
	if err := mapstructure.WeakDecode(raw, &c); err != nil {
		return domain.Contact{}, fmt.Errorf("failed to decode contact: %w", err)
	}
	if c.Name == "" {
		// The login page posts the name as "username".
		if v, ok := raw["username"].(string); ok {
			c.Name = v
		}
	}

	fields := []*string{&c.Name, &c.Phone, &c.Email}
	for _, f := range fields {
		clean, err := SanitizeText(*f)
		if err != nil {
			return domain.Contact{}, err
		}
		*f = clean
	}
	return c.Trimmed(), nil
}

// ParseInt converts a loosely typed value into an int.
// Strings use leading-integer semantics: surrounding text after the digits
// is ignored ("3 nights" is 3) and a string without leading digits fails.
// Floats are truncated toward zero.
func ParseInt(v any) (int, bool) {
	switch n := v.(type) {
	case nil:
		return 0, false
	case int:
		return n, true
	case int8:
		return int(n), true
	case int16:
		return int(n), true
	case int32:
		return int(n), true
	case int64:
		return clampInt64(n), true
	case uint:
		return clampUint64(uint64(n)), true
	case uint8:
		return int(n), true
	case uint16:
		return int(n), true
	case uint32:
		return clampUint64(uint64(n)), true
	case uint64:
		return clampUint64(n), true
	case float32:
		return parseFloat(float64(n))
	case float64:
		return parseFloat(n)
	case json.Number:
		return parseLeadingInt(n.String())
	case string:
		return parseLeadingInt(n)
	case bool:
		return 0, false
	}
	return 0, false
}

func parseFloat(f float64) (int, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	t := math.Trunc(f)
	if t > math.MaxInt32 {
		return math.MaxInt32, true
	}
	if t < math.MinInt32 {
		return math.MinInt32, true
	}
	return int(t), true
}

func parseLeadingInt(s string) (int, bool) {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digitsStart := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digitsStart {
		return 0, false
	}
	n, err := strconv.ParseInt(s[:end], 10, 32)
	if err != nil {
		// Out of int32 range: saturate.
		if s[0] == '-' {
			return math.MinInt32, true
		}
		return math.MaxInt32, true
	}
	return int(n), true
}

func clampInt64(n int64) int {
	if n > math.MaxInt32 {
		return math.MaxInt32
	}
	if n < math.MinInt32 {
		return math.MinInt32
	}
	return int(n)
}

func clampUint64(n uint64) int {
	if n > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(n)
}

func parseIndexList(data any) indexList {
	out := indexList{}
	add := func(v any) {
		if i, ok := ParseInt(v); ok {
			out = append(out, i)
		}
	}

	switch v := data.(type) {
	case nil:
	case string:
		for _, part := range strings.Split(v, ",") {
			if strings.TrimSpace(part) == "" {
				continue
			}
			add(part)
		}
	case []any:
		for _, item := range v {
			add(item)
		}
	case []int:
		out = append(out, v...)
	case []string:
		for _, item := range v {
			add(item)
		}
	case []float64:
		for _, item := range v {
			add(item)
		}
	default:
		add(v)
	}
	return out
}
