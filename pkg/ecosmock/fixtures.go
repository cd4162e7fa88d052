package ecosmock

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"
)

// series builds an incrementing value map keyed by stringified epoch seconds,
// one entry per step from start to end inclusive.
func series(start, end time.Time, step time.Duration, base float64) map[string]float64 {
	vals := make(map[string]float64)
	v := base
	for t := start; !t.After(end); t = t.Add(step) {
		vals[strconv.FormatInt(t.Unix(), 10)] = v
		v += 0.1
	}
	return vals
}

// dailySeries covers every day of the calendar month containing t.
func dailySeries(t time.Time, base float64) map[string]float64 {
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)
	return series(first, last, 24*time.Hour, base)
}

// dailySeriesToDate covers day 1 of the current month through today.
func dailySeriesToDate(now time.Time, base float64) map[string]float64 {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return series(first, today, 24*time.Hour, base)
}

// lastDaysSeries covers the n days ending today.
func lastDaysSeries(now time.Time, n int, base float64) map[string]float64 {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return series(today.AddDate(0, 0, -(n-1)), today, 24*time.Hour, base)
}

// monthlySeries covers the 12 months of the calendar year containing t.
func monthlySeries(t time.Time, base float64) map[string]float64 {
	vals := make(map[string]float64)
	v := base
	for m := time.January; m <= time.December; m++ {
		first := time.Date(t.Year(), m, 1, 0, 0, 0, 0, time.UTC)
		vals[strconv.FormatInt(first.Unix(), 10)] = v
		v += 0.1
	}
	return vals
}

// yearlySeries covers the n calendar years ending with the year of t.
func yearlySeries(t time.Time, n int, base float64) map[string]float64 {
	vals := make(map[string]float64)
	v := base
	for y := t.Year() - n + 1; y <= t.Year(); y++ {
		first := time.Date(y, time.January, 1, 0, 0, 0, 0, time.UTC)
		vals[strconv.FormatInt(first.Unix(), 10)] = v
		v += 0.1
	}
	return vals
}

// powerSeries builds the six parallel power series of a realtime payload,
// each with a distinct base so values are distinguishable in tests.
func powerSeries(start, end time.Time) map[string]any {
	return map[string]any{
		"solarPowerDps":   series(start, end, 5*time.Minute, 0),
		"batteryPowerDps": series(start, end, 5*time.Minute, 100),
		"gridPowerDps":    series(start, end, 5*time.Minute, 200),
		"meterPowerDps":   series(start, end, 5*time.Minute, 300),
		"homePowerDps":    series(start, end, 5*time.Minute, 400),
		"epsPowerDps":     series(start, end, 5*time.Minute, 500),
	}
}

// homeDeviceFixture is the device shape of the per-home query endpoint.
func homeDeviceFixture() map[string]any {
	return map[string]any{
		"deviceId":            DeviceID,
		"deviceAliasName":     DeviceAlias,
		"state":               0,
		"batterySoc":          0.0,
		"batteryPower":        0,
		"socketSwitch":        nil,
		"chargeStationMode":   nil,
		"vpp":                 false,
		"type":                1,
		"deviceSn":            DeviceSerial,
		"agentId":             HomeID,
		"lon":                 0.0,
		"lat":                 0.0,
		"deviceType":          "XX-XXX123       ",
		"resourceSeriesId":    101,
		"resourceTypeId":      7,
		"master":              0,
		"emsSoftwareVersion":  "000-00000-00",
		"dsp1SoftwareVersion": "111-11111-11",
	}
}

// allDeviceFixture is the device shape of the account-wide list endpoint,
// which carries a different superset of fields than the per-home query.
func allDeviceFixture() map[string]any {
	return map[string]any{
		"deviceId":        DeviceID,
		"deviceAliasName": DeviceAlias,
		"wifiSn":          "azerty123456789azertyu",
		"state":           0,
		"weight":          0,
		"temp":            nil,
		"icon":            nil,
		"vpp":             false,
		"master":          0,
		"type":            1,
		"deviceSn":        DeviceSerial,
		"agentId":         "",
		"lon":             0.0,
		"lat":             0.0,
		"category":        nil,
		"model":           nil,
		"deviceType":      nil,
	}
}

func (s *Server) handleHomes(w http.ResponseWriter, r *http.Request) {
	created := time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC).UnixMilli()
	writeData(w, []map[string]any{
		{
			"homeId":           SharedHomeID,
			"homeName":         nil,
			"homeType":         0,
			"longitude":        nil,
			"latitude":         nil,
			"homeDeviceNumber": 1,
			"relationType":     1,
			"createTime":       created,
			"updateTime":       created,
		},
		{
			"homeId":           HomeID,
			"homeName":         "My Home",
			"homeType":         1,
			"longitude":        nil,
			"latitude":         nil,
			"homeDeviceNumber": 0,
			"relationType":     1,
			"createTime":       created,
			"updateTime":       created,
		},
	})
}

func (s *Server) handleHomeDevices(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Query().Get("homeId") {
	case HomeID:
		writeData(w, []map[string]any{homeDeviceFixture()})
	case SharedHomeID:
		writeData(w, []map[string]any{})
	default:
		writeCode(w, 20450, "Home does not exist")
	}
}

func (s *Server) handleAllDevices(w http.ResponseWriter, r *http.Request) {
	writeData(w, []map[string]any{allDeviceFixture()})
}

// deviceRequest is the body shape shared by the POST device endpoints.
type deviceRequest struct {
	DeviceID   string          `json:"deviceId"`
	Timestamp  json.RawMessage `json:"timestamp"`
	PeriodType *int            `json:"periodType"`
}

func decodeDeviceRequest(w http.ResponseWriter, r *http.Request) (*deviceRequest, bool) {
	var req deviceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeCode(w, 20404, "Parameter verification failed")
		return nil, false
	}
	if req.DeviceID != DeviceID {
		writeCode(w, 20424, "Device is not authorized")
		return nil, false
	}
	return &req, true
}

func (s *Server) handleTodayDeviceData(w http.ResponseWriter, r *http.Request) {
	if _, ok := decodeDeviceRequest(w, r); !ok {
		return
	}
	now := s.now().UTC()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	writeData(w, powerSeries(midnight, now))
}

func (s *Server) handleHomeRunData(w http.ResponseWriter, r *http.Request) {
	runtime := func(socList []map[string]any) map[string]any {
		return map[string]any{
			"batteryPower":   0,
			"epsPower":       0,
			"gridPower":      23,
			"homePower":      1550,
			"meterPower":     1550,
			"solarPower":     0,
			"chargePower":    0,
			"batterySocList": socList,
		}
	}
	switch r.URL.Query().Get("homeId") {
	case HomeID:
		writeData(w, runtime([]map[string]any{{
			"deviceSn":       DeviceSerial,
			"batterySoc":     0.95,
			"sysRunMode":     1,
			"isExistSolar":   true,
			"sysPowerConfig": 3,
		}}))
	case SharedHomeID:
		writeData(w, runtime([]map[string]any{}))
	default:
		writeCode(w, 20450, "Home does not exist")
	}
}

func (s *Server) handleDeviceRunData(w http.ResponseWriter, r *http.Request) {
	if _, ok := decodeDeviceRequest(w, r); !ok {
		return
	}
	writeData(w, map[string]any{
		"batterySoc":     0.95,
		"batteryPower":   0,
		"epsPower":       0,
		"gridPower":      23,
		"homePower":      1550,
		"meterPower":     1550,
		"solarPower":     0,
		"sysRunMode":     1,
		"isExistSolar":   true,
		"sysPowerConfig": 3,
	})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeDeviceRequest(w, r)
	if !ok {
		return
	}
	if req.PeriodType == nil {
		writeCode(w, 20404, "Parameter verification failed")
		return
	}

	// History timestamps are epoch seconds, unlike insight.
	var ts int64
	if err := json.Unmarshal(req.Timestamp, &ts); err != nil {
		writeCode(w, 20404, "Parameter verification failed")
		return
	}
	start := time.Unix(ts, 0).UTC()
	now := s.now().UTC()

	var metrics map[string]float64
	switch *req.PeriodType {
	case 0:
		metrics = dailySeries(start, 10)
	case 1:
		metrics = lastDaysSeries(now, 4, 10)
	case 2, 3:
		metrics = dailySeriesToDate(now, 10)
	case 4:
		first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
		metrics = map[string]float64{strconv.FormatInt(first.Unix(), 10): 215.8}
	default:
		writeCode(w, 20404, "Parameter verification failed")
		return
	}

	var total float64
	for _, v := range metrics {
		total += v
	}
	writeData(w, map[string]any{
		"energyConsumption": total,
		"solarPercent":      52.4,
		"homeEnergyDps":     metrics,
	})
}

func insightStatistics() map[string]any {
	return map[string]any{
		"consumptionEnergy": 15.2,
		"fromBattery":       5.1,
		"toBattery":         6.1,
		"fromGrid":          2.2,
		"toGrid":            3.2,
		"fromSolar":         12.1,
		"eps":               0,
	}
}

func insightConsumption(vals map[string]float64) map[string]any {
	offset := func(d float64) map[string]float64 {
		out := make(map[string]float64, len(vals))
		for k, v := range vals {
			out[k] = v + d
		}
		return out
	}
	return map[string]any{
		"fromBatteryDps": offset(0),
		"toBatteryDps":   offset(1),
		"fromGridDps":    offset(2),
		"toGridDps":      offset(3),
		"fromSolarDps":   offset(4),
		"homeEnergyDps":  offset(5),
		"epsDps":         offset(6),
		"selfPoweredDps": offset(7),
	}
}

func (s *Server) handleInsight(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeDeviceRequest(w, r)
	if !ok {
		return
	}
	if req.PeriodType == nil {
		writeCode(w, 20404, "Parameter verification failed")
		return
	}

	// Insight timestamps are epoch milliseconds.
	var ts int64
	if err := json.Unmarshal(req.Timestamp, &ts); err != nil {
		writeCode(w, 20404, "Parameter verification failed")
		return
	}
	start := time.UnixMilli(ts).UTC()

	switch *req.PeriodType {
	case 0:
		midnight := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
		writeData(w, map[string]any{
			"selfPowered":         80,
			"deviceRealtimeDto":   powerSeries(midnight, midnight.Add(24*time.Hour-5*time.Minute)),
			"deviceStatisticsDto": insightStatistics(),
		})
	case 2:
		writeData(w, map[string]any{
			"selfPowered":               80,
			"deviceStatisticsDto":       insightStatistics(),
			"insightConsumptionDataDto": insightConsumption(dailySeries(start, 10)),
		})
	case 4:
		writeData(w, map[string]any{
			"selfPowered":               80,
			"deviceStatisticsDto":       insightStatistics(),
			"insightConsumptionDataDto": insightConsumption(monthlySeries(start, 100)),
		})
	case 5:
		writeData(w, map[string]any{
			"selfPowered":               80,
			"deviceStatisticsDto":       insightStatistics(),
			"insightConsumptionDataDto": insightConsumption(yearlySeries(start, 3, 1000)),
		})
	case 1, 3:
		// The vendor never implemented these windows; it answers with an
		// envelope body on HTTP 501.
		writeJSON(w, http.StatusNotImplemented, envelope{
			Code:    501,
			Message: "Not implemented",
			Success: false,
		})
	default:
		writeCode(w, 20404, "Parameter verification failed")
	}
}
