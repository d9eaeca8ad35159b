package api

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/avelardi/polisbot/internal/application/common"
	"github.com/avelardi/polisbot/internal/domain/recruitment"
	"github.com/avelardi/polisbot/internal/domain/shared"
)

// The game's AJAX endpoints answer with a heterogeneous tagged array:
//
//	[["changeView",["barracks","<html>"]],
//	 ["updateGlobalData",{"actionRequest":"…"}],
//	 ["updateTemplateData",{"js_barracksSlider1":{"slider":{…}}}], …]
//
// envelope decodes that once and offers typed accessors over it.
type envelope struct {
	actionToken string
	template    map[string]json.RawMessage
	viewHTML    []string
}

func decodeEnvelope(data []byte) (*envelope, error) {
	var items [][]json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("response is not a tagged array: %w", err)
	}

	env := &envelope{template: map[string]json.RawMessage{}}
	for _, item := range items {
		if len(item) < 2 {
			continue
		}
		var tag string
		if json.Unmarshal(item[0], &tag) != nil {
			continue
		}

		switch tag {
		case "updateGlobalData":
			var global struct {
				ActionRequest string `json:"actionRequest"`
			}
			if json.Unmarshal(item[1], &global) == nil && global.ActionRequest != "" {
				env.actionToken = global.ActionRequest
			}
		case "updateTemplateData":
			var tmpl map[string]json.RawMessage
			if json.Unmarshal(item[1], &tmpl) == nil {
				for k, v := range tmpl {
					env.template[k] = v
				}
			}
		case "changeView":
			var view []json.RawMessage
			if json.Unmarshal(item[1], &view) == nil && len(view) >= 2 {
				var html string
				if json.Unmarshal(view[1], &html) == nil {
					env.viewHTML = append(env.viewHTML, html)
				}
			}
		}
	}
	return env, nil
}

// ActionToken is the submission capability carried in the global data, or
// empty when the response had none.
func (e *envelope) ActionToken() string {
	return e.actionToken
}

// QueueRemaining returns the seconds left on the building's training
// countdown, or 0 when the response carries none.
func (e *envelope) QueueRemaining() int {
	for _, raw := range e.template {
		var wrapper struct {
			Countdown *struct {
				Enddate     int64 `json:"enddate"`
				Currentdate int64 `json:"currentdate"`
			} `json:"countdown"`
		}
		if json.Unmarshal(raw, &wrapper) != nil || wrapper.Countdown == nil {
			continue
		}
		remaining := wrapper.Countdown.Enddate - wrapper.Countdown.Currentdate
		if remaining > 0 {
			return int(remaining)
		}
	}
	return 0
}

// SliderUnits decodes the per-unit cost records from the recruitment
// sliders: template keys js_<view>Slider<N>, each holding a control_data
// JSON string with the unit id, cost vector and completion time.
func (e *envelope) SliderUnits(view string) (map[int]recruitment.UnitType, error) {
	prefix := "js_" + view + "Slider"
	units := map[int]recruitment.UnitType{}

	for key, raw := range e.template {
		if !strings.HasPrefix(key, prefix) {
			continue
		}

		var wrapper struct {
			Slider struct {
				ControlData string      `json:"control_data"`
				MaxValue    json.Number `json:"max_value"`
			} `json:"slider"`
		}
		if json.Unmarshal(raw, &wrapper) != nil || wrapper.Slider.ControlData == "" {
			continue
		}

		var control struct {
			UnitTypeID flexNumber            `json:"unit_type_id"`
			LocalName  string                `json:"local_name"`
			Costs      map[string]flexNumber `json:"costs"`
		}
		if json.Unmarshal([]byte(wrapper.Slider.ControlData), &control) != nil {
			continue
		}

		unitID := control.UnitTypeID.Int()
		if unitID == 0 {
			continue
		}

		cost := func(name string) int { return control.Costs[name].Int() }
		units[unitID] = recruitment.UnitType{
			GameID: unitID,
			Name:   control.LocalName,
			Cost: shared.ResourceSet{
				Citizens: cost("citizens"),
				Wood:     cost("wood"),
				Wine:     cost("wine"),
				Marble:   cost("marble"),
				Crystal:  cost("crystal"),
				Sulfur:   cost("sulfur"),
			},
			BuildSecs: cost("completiontime"),
			Upkeep:    cost("upkeep"),
			MaxBatch:  numberToInt(wrapper.Slider.MaxValue),
		}
	}

	if len(units) == 0 {
		return nil, shared.NewDataError("no recruitment sliders in " + view + " response")
	}
	return units, nil
}

// parseOwnCities extracts the player's cities from the relatedCityData
// object embedded in the city view HTML.
func parseOwnCities(html []byte) ([]common.CityRef, error) {
	payload, err := embeddedObject(html, `"relatedCityData":`)
	if err != nil {
		return nil, shared.NewDataError("no relatedCityData in city view")
	}

	var entries map[string]json.RawMessage
	if err := json.Unmarshal(payload, &entries); err != nil {
		return nil, shared.NewDataError("relatedCityData is not an object")
	}

	var cities []common.CityRef
	for key, raw := range entries {
		if !strings.HasPrefix(key, "city_") {
			continue
		}
		var entry struct {
			ID           flexNumber `json:"id"`
			Name         string     `json:"name"`
			Relationship string     `json:"relationship"`
		}
		if json.Unmarshal(raw, &entry) != nil {
			continue
		}
		if entry.Relationship != "ownCity" {
			continue
		}
		if id := entry.ID.Int(); id > 0 {
			cities = append(cities, common.CityRef{ID: id, Name: entry.Name})
		}
	}

	// Key order of a JSON object is not stable; sort by id.
	for i := 1; i < len(cities); i++ {
		for j := i; j > 0 && cities[j-1].ID > cities[j].ID; j-- {
			cities[j-1], cities[j] = cities[j], cities[j-1]
		}
	}
	return cities, nil
}

// backgroundData is the city overview payload embedded in the view HTML.
type backgroundData struct {
	Name     string `json:"name"`
	Position []struct {
		Building string     `json:"building"`
		Level    flexNumber `json:"level"`
	} `json:"position"`
	CurrentResources map[string]flexNumber `json:"currentResources"`
}

func parseBackgroundData(html []byte) (*backgroundData, error) {
	payload, err := embeddedObject(html, `"updateBackgroundData",`)
	if err != nil {
		return nil, shared.NewDataError("no updateBackgroundData in city view")
	}
	var data backgroundData
	if err := json.Unmarshal(payload, &data); err != nil {
		return nil, shared.NewDataError("updateBackgroundData is not an object")
	}
	return &data, nil
}

// parseCityBuildings returns the barracks and shipyards visible in a
// city's overview. The building field is a space-separated class list,
// e.g. "barracks busy" while a queue is running.
func parseCityBuildings(html []byte, cityID int) ([]common.BuildingRef, error) {
	data, err := parseBackgroundData(html)
	if err != nil {
		return nil, err
	}

	var refs []common.BuildingRef
	for position, slot := range data.Position {
		fields := strings.Fields(slot.Building)
		if len(fields) == 0 {
			continue
		}
		kind := recruitment.BuildingKind(fields[0])
		if kind != recruitment.KindBarracks && kind != recruitment.KindShipyard {
			continue
		}
		busy := false
		for _, f := range fields[1:] {
			if f == "busy" {
				busy = true
			}
		}
		refs = append(refs, common.BuildingRef{
			CityID:   cityID,
			CityName: data.Name,
			Position: position,
			Kind:     kind,
			Level:    slot.Level.Int(),
			IsBusy:   busy,
		})
	}
	return refs, nil
}

var citizensMenuPattern = regexp.MustCompile(`id="js_GlobalMenu_citizens">([\d,.]+)`)

// parseCitySnapshot reads the live resource and citizen counts from the
// city view: resources from the embedded background data, citizens from
// the global menu span (with the background data as fallback).
func parseCitySnapshot(html []byte) (shared.ResourceSet, error) {
	data, err := parseBackgroundData(html)
	if err != nil {
		return shared.ResourceSet{}, err
	}

	res := func(key string) int { return data.CurrentResources[key].Int() }
	snapshot := shared.ResourceSet{
		Wood:    res("resource"),
		Wine:    res("1"),
		Marble:  res("2"),
		Crystal: res("3"),
		Sulfur:  res("4"),
	}

	if m := citizensMenuPattern.FindSubmatch(html); m != nil {
		cleaned := strings.ReplaceAll(string(m[1]), ",", "")
		if v, err := strconv.ParseFloat(cleaned, 64); err == nil {
			snapshot.Citizens = int(v)
		}
	}
	if snapshot.Citizens == 0 {
		snapshot.Citizens = res("citizens")
	}
	return snapshot, nil
}

// embeddedObject brace-matches the JSON object following marker inside a
// larger HTML/JS blob, skipping over string literals and escapes.
func embeddedObject(data []byte, marker string) ([]byte, error) {
	start := strings.Index(string(data), marker)
	if start < 0 {
		return nil, fmt.Errorf("marker %q not found", marker)
	}
	rest := data[start+len(marker):]

	// Only whitespace may precede the object.
	open := -1
	for i := 0; i < len(rest) && open < 0; i++ {
		switch rest[i] {
		case '{':
			open = i
		case ' ', '\t', '\n', '\r':
		default:
			return nil, fmt.Errorf("no object after marker %q", marker)
		}
	}
	if open < 0 {
		return nil, fmt.Errorf("no object after marker %q", marker)
	}

	depth := 0
	inString := false
	escaped := false
	for i := open; i < len(rest); i++ {
		ch := rest[i]
		if escaped {
			escaped = false
			continue
		}
		switch {
		case ch == '\\' && inString:
			escaped = true
		case ch == '"':
			inString = !inString
		case !inString && ch == '{':
			depth++
		case !inString && ch == '}':
			depth--
			if depth == 0 {
				return rest[open : i+1], nil
			}
		}
	}
	return nil, fmt.Errorf("unterminated object after marker %q", marker)
}

// flexNumber tolerates the game's habit of sending the same field as a
// bare number on one server and a quoted string on another.
type flexNumber string

func (n *flexNumber) UnmarshalJSON(data []byte) error {
	*n = flexNumber(strings.Trim(string(data), `"`))
	return nil
}

func (n flexNumber) Int() int {
	return numberToInt(json.Number(n))
}

func numberToInt(n json.Number) int {
	if n == "" {
		return 0
	}
	if v, err := n.Int64(); err == nil {
		return int(v)
	}
	if f, err := n.Float64(); err == nil {
		return int(f)
	}
	return 0
}
