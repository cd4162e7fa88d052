package ecos

import (
	"encoding/json"
)

// SharedDevicesName is the display name forced onto the virtual home that
// groups devices shared from other accounts (homeType 0). The vendor's
// literal name for it is not user-meaningful.
const SharedDevicesName = "SHARED_DEVICES"

// Tokens is the credential pair issued by a successful login.
type Tokens struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// User is the account that owns the session.
type User struct {
	Username            string     `json:"username"`
	Nickname            string     `json:"nickname"`
	Email               string     `json:"email"`
	Phone               string     `json:"phone"`
	TimezoneID          string     `json:"timeZoneId"`
	Timezone            string     `json:"timeZone"` // offset form, e.g. GMT-05:00
	TimezoneName        string     `json:"timezoneName"`
	DatacenterPhoneCode int        `json:"datacenterPhoneCode"`
	Datacenter          Datacenter `json:"datacenter"`
	DatacenterHost      string     `json:"datacenterHost"`
}

// Home groups devices. Timestamps are epoch milliseconds, coordinates may be
// absent.
type Home struct {
	ID           string   `json:"homeId"`
	Name         string   `json:"homeName"`
	Type         int      `json:"homeType"`
	Longitude    *float64 `json:"longitude"`
	Latitude     *float64 `json:"latitude"`
	DeviceNumber int      `json:"homeDeviceNumber"`
	RelationType int      `json:"relationType"`
	CreateTime   int64    `json:"createTime"`
	UpdateTime   int64    `json:"updateTime"`
}

// UnmarshalJSON decodes a home and enforces the shared-devices display name
// for homeType 0, whatever the vendor returned.
func (h *Home) UnmarshalJSON(b []byte) error {
	type home Home
	var raw home
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*h = Home(raw)
	if h.Type == 0 {
		h.Name = SharedDevicesName
	}
	return nil
}

// deviceFields are the vendor keys pinned down by the Device schema; anything
// else lands in Extra.
var deviceFields = []string{
	"deviceId", "deviceAliasName", "state", "vpp", "type", "deviceSn",
	"agentId", "lon", "lat", "deviceType", "master",
}

// Device is a single energy system unit. The vendor returns a different
// superset of fields per endpoint; the typed fields are the stable core and
// Extra keeps the rest raw.
type Device struct {
	ID         string  `json:"deviceId"`
	Alias      string  `json:"deviceAliasName"`
	State      int     `json:"state"`
	VPP        bool    `json:"vpp"`
	Type       int     `json:"type"`
	Serial     string  `json:"deviceSn"`
	AgentID    string  `json:"agentId"`
	Longitude  float64 `json:"lon"`
	Latitude   float64 `json:"lat"`
	DeviceType string  `json:"deviceType"`
	Master     int     `json:"master"`

	// Extra holds vendor fields not covered by the typed schema.
	Extra map[string]json.RawMessage `json:"-"`
}

// UnmarshalJSON decodes the typed core fields and collects every remaining
// vendor field into Extra.
func (d *Device) UnmarshalJSON(b []byte) error {
	type device Device
	var raw device
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(b, &fields); err != nil {
		return err
	}
	for _, k := range deviceFields {
		delete(fields, k)
	}
	if len(fields) > 0 {
		raw.Extra = fields
	}
	*d = Device(raw)
	return nil
}

// Series maps stringified epoch-second timestamps to instantaneous or
// aggregated measurements, exactly as the vendor keys them.
type Series map[string]float64

// PowerTimeseries carries the parallel power series the vendor reports for a
// device, each keyed by the same 5-minute timestamps.
type PowerTimeseries struct {
	Solar   Series `json:"solarPowerDps"`
	Battery Series `json:"batteryPowerDps"`
	Grid    Series `json:"gridPowerDps"`
	Meter   Series `json:"meterPowerDps"`
	Home    Series `json:"homePowerDps"`
	EPS     Series `json:"epsPowerDps"`
}

// BatterySOCStatus reports the battery state of a single device inside a
// home runtime snapshot.
type BatterySOCStatus struct {
	DeviceSerial   string  `json:"deviceSn"`
	BatterySOC     float64 `json:"batterySoc"`
	SysRunMode     int     `json:"sysRunMode"`
	IsExistSolar   bool    `json:"isExistSolar"`
	SysPowerConfig int     `json:"sysPowerConfig"`
}

// HomeRuntime is the current power snapshot for a home.
type HomeRuntime struct {
	BatteryPower   float64            `json:"batteryPower"`
	EPSPower       float64            `json:"epsPower"`
	GridPower      float64            `json:"gridPower"`
	HomePower      float64            `json:"homePower"`
	MeterPower     float64            `json:"meterPower"`
	SolarPower     float64            `json:"solarPower"`
	ChargePower    float64            `json:"chargePower"`
	BatterySOCList []BatterySOCStatus `json:"batterySocList"`
}

// DeviceRuntime is the current power snapshot for a single device.
type DeviceRuntime struct {
	BatterySOC     float64 `json:"batterySoc"`
	BatteryPower   float64 `json:"batteryPower"`
	EPSPower       float64 `json:"epsPower"`
	GridPower      float64 `json:"gridPower"`
	HomePower      float64 `json:"homePower"`
	MeterPower     float64 `json:"meterPower"`
	SolarPower     float64 `json:"solarPower"`
	SysRunMode     int     `json:"sysRunMode"`
	IsExistSolar   bool    `json:"isExistSolar"`
	SysPowerConfig int     `json:"sysPowerConfig"`
}

// History is aggregated home energy over a period. Metrics is keyed per day
// or per period depending on the requested period type.
type History struct {
	EnergyConsumption float64 `json:"energyConsumption"`
	SolarPercent      float64 `json:"solarPercent"`
	Metrics           Series  `json:"homeEnergyDps"`
}

// DeviceStatistics summarizes energy flows for an insight period.
type DeviceStatistics struct {
	ConsumptionEnergy float64 `json:"consumptionEnergy"`
	FromBattery       float64 `json:"fromBattery"`
	ToBattery         float64 `json:"toBattery"`
	FromGrid          float64 `json:"fromGrid"`
	ToGrid            float64 `json:"toGrid"`
	FromSolar         float64 `json:"fromSolar"`
	EPS               float64 `json:"eps"`
}

// InsightConsumption carries the per-bucket energy flow series of an insight
// period.
type InsightConsumption struct {
	FromBattery Series `json:"fromBatteryDps"`
	ToBattery   Series `json:"toBatteryDps"`
	FromGrid    Series `json:"fromGridDps"`
	ToGrid      Series `json:"toGridDps"`
	FromSolar   Series `json:"fromSolarDps"`
	HomeEnergy  Series `json:"homeEnergyDps"`
	EPS         Series `json:"epsDps"`
	SelfPowered Series `json:"selfPoweredDps"`
}

// Insight combines realtime power, summary statistics and consumption series
// for a device over a period. Which parts are present depends on the period
// type: 0 has PowerTimeseries but no Consumption, the aggregated types have
// Consumption but no PowerTimeseries.
type Insight struct {
	SelfPowered     float64             `json:"selfPowered"`
	PowerTimeseries *PowerTimeseries    `json:"deviceRealtimeDto"`
	Statistics      *DeviceStatistics   `json:"deviceStatisticsDto"`
	Consumption     *InsightConsumption `json:"insightConsumptionDataDto"`
}
